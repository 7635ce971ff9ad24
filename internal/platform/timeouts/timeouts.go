// Package timeouts defines shared timeout constants used across commands.
package timeouts

import "time"

// ToolCall caps the time an MCP tool handler may spend on one call.
const ToolCall = 2 * time.Second

// ReadHeader limits how long an HTTP server waits for request headers.
const ReadHeader = 5 * time.Second

// Shutdown limits how long an HTTP server waits for in-flight requests
// during graceful shutdown.
const Shutdown = 5 * time.Second

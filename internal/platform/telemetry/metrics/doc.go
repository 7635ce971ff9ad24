// Package metrics provides operational metrics collection.
//
// # Metric Categories
//
//   - Rolls: rolls evaluated, sets rolled, and dice drawn per roll
//   - Notation: notation strings rejected by the parser
//   - Tools: MCP tool call counts and latency by tool and status
//
// # Integration
//
// All collectors are registered in a dedicated prometheus.Registry. The HTTP
// transport of the MCP service mounts Handler at /metrics.
//
// A nil *Metrics is valid and records nothing.
package metrics

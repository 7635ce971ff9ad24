// Package service wires MCP transports to the dice tool handlers.
//
// It knows how to run MCP over stdio or streamable HTTP and delegates tool
// behavior to the domain package.
package service

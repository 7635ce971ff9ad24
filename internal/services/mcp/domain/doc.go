// Package domain maps MCP tool calls onto dice notation operations.
//
// Each tool has a schema constructor (DiceRollTool) and a handler constructor
// (DiceRollHandler). Handlers return structured outputs that MCP clients can
// render without parsing text.
package domain

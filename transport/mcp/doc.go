// Package mcp exposes one rule-game session to an AI agent over the
// Model Context Protocol. The client here is a thin proxy: every tool
// call turns into one REST request against an already-running api
// server, for the single session.id the client was constructed with.
//
// MCP Tools:
//
//   - state: get the current board (or message screen)
//   - move: send a directional or action input ("up"/"down"/"left"/"right"/"action")
//   - undo: undo the last move
//   - restart: restart the current level
//   - load_config: list available rulesets, or describe one by id
//
// There is no session-management, rule-editing, or scripting tool.
// Sessions are created out of band (via the REST API or the CLI)
// before the MCP server is started; load_config with a config_id
// describes a ruleset rather than hot-swapping it into the live
// session, since a session's GameData is fixed at creation.
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080", sessionID)
//	server.ServeStdio(client.GetMCPServer())
package mcp

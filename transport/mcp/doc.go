// Package mcp exposes maze sessions as Model Context Protocol tools.
//
// Client is a thin proxy: every tool call becomes a request against the REST
// API (see package api) and the JSON response is rendered as text for the
// agent. Grids are drawn with maze.Render, so agents see the same characters
// the REST local_view_3x3 uses: '#' wall, '.' open, 'S' start, 'E' end and
// '@' the player.
//
// Tools:
//   - create_session, list_sessions, get_session
//   - game_state, move, bulk_move, new_maze, next_level
//   - set_initial_size, set_cell_size, resize_viewport
//   - move_history, list_configs, game_instructions, describe_cell
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	server.ServeStdio(client.GetMCPServer())
//
// The same MCPServer can answer JSON-RPC bodies posted to /mcp through
// HandleMessage.
package mcp

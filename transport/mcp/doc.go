// Package mcp exposes the habitat game to AI agents over the Model Context
// Protocol.
//
// The Client is a thin proxy: every tool call becomes a request against the
// REST API (package api), so an agent and a browser can share sessions.
//
// MCP Tools:
//   - create_session, list_sessions, get_session: session management
//   - game_state: board rendered as a 5x5 grid with row and column indices
//   - place_tile: place a draft option or an explicit habitat/animal pair
//   - can_place: animal/habitat compatibility check
//   - describe_cell: one cell with its neighbours and habitat area
//   - score: score breakdown per species and per habitat
//   - end_turn, reset_game
//   - placement_history: paginated placement attempts
//   - list_configs, game_instructions
//
// Rejected placements are normal tool results describing the rejection.
// Transport failures and unknown sessions are returned as tool errors.
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	if err := client.ServeStdio(); err != nil {
//		log.Fatal(err)
//	}
package mcp

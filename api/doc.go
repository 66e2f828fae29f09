// Package api provides the HTTP REST API for the habitat game.
//
// Endpoints:
//
// Sessions:
//   - POST   /api/sessions              create a session ({"config_id": "solo"}, optional)
//   - GET    /api/sessions              list sessions (?sort=created|accessed&order=asc|desc&limit=N)
//   - GET    /api/sessions/{id}         session info with state and config
//   - DELETE /api/sessions/{id}         delete a session
//
// Play:
//   - GET  /api/sessions/{id}/state     full game state
//   - GET  /api/sessions/{id}/score     score breakdown
//   - POST /api/sessions/{id}/place     {"index": 12, "habitat": "forest", "animal": "bear"}
//     or {"index": 12, "draft_index": 0}
//   - POST /api/sessions/{id}/end-turn  pass to the next player
//   - POST /api/sessions/{id}/reset     empty the board
//   - GET  /api/sessions/{id}/history   placement log (?page=&limit=&order=)
//
// Rules and configuration:
//   - GET  /api/rules                   habitats, animals and where each animal may stand
//   - GET  /api/rules/can-place         ?habitat=river&animal=salmon
//   - GET  /api/configs                 available configurations
//   - POST /api/configs                 save a configuration
//   - GET  /api/configs/{name}          one configuration
//   - GET  /api/health
//
// WebSocket:
//   - GET /ws?session={id}              state and event stream, see package websocket
//
// Status codes:
//
// A placement that puts the habitat down answers 200, even when the animal
// was turned away (error "incompatible_placement", animal_attached false).
// Rejected placements answer 409 for an occupied cell and 400 for a bad
// index, an unknown habitat or animal, or an unknown draft option. Unknown
// sessions and configs answer 404.
//
// Errors are JSON objects:
//
//	{"error": "session not found: ab12"}
package api

// Package websocket pushes game updates to browsers and other watchers.
//
// The Hub implements service.Presenter: the game service hands it every new
// state and every game event, and the hub fans them out to the clients
// connected to that session. Clients do not send commands over the socket;
// moves go through the REST API or MCP tools.
//
// Message Protocol:
//
// Each outbound frame is one JSON Message:
//   - {"session_id":"ab12","event":"state_update","game_state":{...}}
//   - {"session_id":"ab12","event":"tile_placed","data":{...}}
//
// A client connecting with ?session=ab12 first receives the current state,
// then every later update. Session IDs are matched case-insensitively.
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run(ctx)
//
//	svc := service.NewGameService(sessions, configs, service.WithPresenter(hub))
//
// Concurrency:
//
// Registration and delivery happen on the Run goroutine. Publishing only
// enqueues and never blocks; when the queue is full the message is dropped
// and logged. A client whose own queue is full is disconnected.
package websocket

// Package service provides the business logic layer for the habitat tile game.
//
// The service package implements:
//   - Multi-session game management
//   - Configuration management and loading
//   - Placement requests by draft option or by explicit habitat/wildlife pair
//   - Turn handling and placement history paging
//
// Core Interfaces:
//
// GameService is the main service interface providing high-level game operations.
// SessionManager handles session creation, retrieval, and lifecycle.
// ConfigManager manages game configuration loading and validation.
// Presenter receives every state change so connected clients can redraw.
//
// Architecture:
//
// The service layer sits between the transport layer (HTTP/WebSocket/MCP) and
// the game engine. Each session owns one engine and therefore one board. All
// engine access goes through the service lock, and callers receive snapshots
// of the state rather than the live value.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	configMgr, _ := config.NewManager("configs")
//	gameService := service.NewGameService(sessionMgr, configMgr, service.WithPresenter(hub))
//
//	info, err := gameService.CreateSession(ctx, "classic")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	result, err := gameService.PlaceTile(ctx, info.ID, service.PlaceRequest{
//		Index:   12,
//		Habitat: "forest",
//		Animal:  "bear",
//	})
//
// Rejected placements are reported in the result, not as errors; errors are
// reserved for unknown sessions and configurations.
package service

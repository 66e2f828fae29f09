// Package session keeps the habitat game sessions that are currently being
// played. It is the in-memory implementation of service.SessionManager.
//
// A session pairs one engine.GameEngine with the GameConfig it was created
// from. The board, turn, draft and placement history all live in that engine,
// so two sessions never share state.
//
// Drafts:
//
// Every session gets its own engine.Drafter from the manager's DrafterFactory
// when it is created. NewManager uses CryptoDrafter, which seeds a fresh
// source per session, so live games see different draws. Tests and tools that
// need repeatable games pass a seeded factory to NewManagerWithDrafter:
//
//	manager := session.NewManagerWithDrafter(func() (engine.Drafter, error) {
//		return draft.NewDrafter(draft.NewSeededSource(42)), nil
//	})
//	sess, err := manager.Create("", cfg)
//
// IDs:
//
// An empty ID asks the manager for a random 4-character hex ID. Lookups fold
// case, so "AB12" and "ab12" name the same session. Creating a session whose
// ID is taken returns ErrSessionAlreadyExists.
//
// Expiry:
//
// The service marks a session as accessed on every call that reads or changes
// it. CleanupExpiredSessions drops sessions idle for longer than a given age;
// the server runs it on a timer. Nothing is written to disk, so a restart
// begins with an empty manager.
package session

package service

import (
	"time"

	"github.com/wricardo/mcp-training/cascadia/game/engine"
)

// Event names published to the presenter
const (
	EventTilePlaced = "tile_placed"
	EventTurnEnded  = "turn_ended"
	EventGameReset  = "game_reset"
	EventGameOver   = "game_over"
)

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string             `json:"id"`
	ConfigName     string             `json:"config_name"`
	CreatedAt      time.Time          `json:"created_at"`
	LastAccessedAt time.Time          `json:"last_accessed_at"`
	GameState      *engine.GameState  `json:"game_state"`
	GameConfig     *engine.GameConfig `json:"game_config"`
}

// PlaceRequest selects what to place and where. When DraftIndex is set the
// option at that position of the current draft is used and Habitat/Animal are
// ignored; otherwise Habitat (and optionally Animal) name the pair directly.
type PlaceRequest struct {
	Index      int    `json:"index"`
	DraftIndex *int   `json:"draft_index,omitempty"`
	Habitat    string `json:"habitat,omitempty"`
	Animal     string `json:"animal,omitempty"`
}

// PlaceResult contains the outcome of a placement and the resulting state
type PlaceResult struct {
	*engine.PlacementResult
	Player     int               `json:"player"`
	ScoreDelta int               `json:"score_delta"`
	GameState  *engine.GameState `json:"game_state"`
	Events     []GameEvent       `json:"events,omitempty"`
}

// GameEvent represents an event that occurred during gameplay
type GameEvent struct {
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Index     *int      `json:"index,omitempty"`
	Player    int       `json:"player,omitempty"`
}

// CompatibilityInfo answers whether an animal may stand on a habitat
type CompatibilityInfo struct {
	Habitat         engine.HabitatKind   `json:"habitat"`
	Animal          engine.AnimalKind    `json:"animal"`
	Compatible      bool                 `json:"compatible"`
	AllowedHabitats []engine.HabitatKind `json:"allowed_habitats"`
}

// HistoryOptions configures placement history retrieval
type HistoryOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
}

// HistoryResponse contains paginated placement history
type HistoryResponse struct {
	Placements      []engine.PlacementEntry `json:"placements"`
	TotalPlacements int                     `json:"total_placements"`
	Page            int                     `json:"page"`
	PageSize        int                     `json:"page_size"`
	TotalPages      int                     `json:"total_pages"`
	HasNext         bool                    `json:"has_next"`
	HasPrevious     bool                    `json:"has_previous"`
}

// ConfigInfo provides information about a game configuration
type ConfigInfo struct {
	Filename    string `json:"filename"`
	ConfigID    string `json:"config_id"` // The identifier to use for session creation
	Name        string `json:"name"`      // Display name
	Description string `json:"description"`
	Players     int    `json:"players"`
	DraftSize   int    `json:"draft_size"`
}

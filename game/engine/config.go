package engine

import (
	"encoding/json"
	"fmt"
	"os"
)

// ValidateGameConfig validates a game configuration for correctness and playability
func ValidateGameConfig(config *GameConfig) error {
	if config == nil {
		return fmt.Errorf("config validation: config is required")
	}

	// Validate required fields
	if config.Name == "" {
		return fmt.Errorf("config validation: name is required")
	}
	if config.Description == "" {
		return fmt.Errorf("config validation: description is required")
	}

	if config.Players < MinPlayers || config.Players > MaxPlayers {
		return fmt.Errorf("config validation: players must be between %d and %d, got %d", MinPlayers, MaxPlayers, config.Players)
	}
	if config.DraftSize < MinDraftSize || config.DraftSize > MaxDraftSize {
		return fmt.Errorf("config validation: draft_size must be between %d and %d, got %d", MinDraftSize, MaxDraftSize, config.DraftSize)
	}

	// Blank messages fall back to the defaults
	for _, tmpl := range MessageTemplates {
		value := tmpl.Value(config)
		if value == "" {
			continue
		}
		if got := CountVerbs(value); got != tmpl.Args {
			return fmt.Errorf("config validation: message %s takes %d arguments, template has %d", tmpl.Key, tmpl.Args, got)
		}
	}

	return nil
}

// MessageTemplate names one configurable message and the number of format
// arguments the engine passes to it
type MessageTemplate struct {
	Key   string
	Value func(*GameConfig) string
	Args  int
}

var MessageTemplates = []MessageTemplate{
	{"welcome", func(c *GameConfig) string { return c.Messages.Welcome }, 0},
	{"placed", func(c *GameConfig) string { return c.Messages.Placed }, 4},
	{"animal_rejected", func(c *GameConfig) string { return c.Messages.AnimalRejected }, 2},
	{"occupied", func(c *GameConfig) string { return c.Messages.Occupied }, 0},
	{"invalid_index", func(c *GameConfig) string { return c.Messages.InvalidIndex }, 1},
	{"player_turn", func(c *GameConfig) string { return c.Messages.PlayerTurn }, 1},
	{"board_complete", func(c *GameConfig) string { return c.Messages.BoardComplete }, 1},
	{"unknown_draft_option", func(c *GameConfig) string { return c.Messages.UnknownDraftOption }, 1},
}

// CountVerbs counts the formatting verbs in a template, ignoring "%%"
func CountVerbs(template string) int {
	count := 0
	for i := 0; i < len(template); i++ {
		if template[i] != '%' {
			continue
		}
		if i+1 < len(template) && template[i+1] == '%' {
			i++
			continue
		}
		count++
	}
	return count
}

// DefaultGameConfig returns the two-player, three-option draft setup
func DefaultGameConfig() *GameConfig {
	config := &GameConfig{
		Name:        "classic",
		Description: "Two players share a 5x5 board and draft from three habitat/wildlife pairs",
		Players:     DefaultPlayers,
		DraftSize:   DefaultDraftSize,
	}
	applyMessageDefaults(config)
	return config
}

// applyMessageDefaults fills any message template the config leaves blank
func applyMessageDefaults(config *GameConfig) {
	m := &config.Messages
	if m.Welcome == "" {
		m.Welcome = "Welcome! Place habitats and wildlife to build the best landscape."
	}
	if m.Placed == "" {
		m.Placed = "Placed %s with %s at %d. Score: %d"
	}
	if m.AnimalRejected == "" {
		m.AnimalRejected = "%s cannot be placed on %s habitat."
	}
	if m.Occupied == "" {
		m.Occupied = "This spot is already occupied."
	}
	if m.InvalidIndex == "" {
		m.InvalidIndex = "Index %d is not on the board."
	}
	if m.PlayerTurn == "" {
		m.PlayerTurn = "Player %d's turn"
	}
	if m.BoardComplete == "" {
		m.BoardComplete = "Board complete! Final score: %d"
	}
	if m.UnknownDraftOption == "" {
		m.UnknownDraftOption = "Draft option %d is not available."
	}
}

// LoadGameConfig loads a game configuration from a JSON file
func LoadGameConfig(filename string) (*GameConfig, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	var config GameConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, err
	}

	// Validate the loaded configuration
	if err := ValidateGameConfig(&config); err != nil {
		return nil, err
	}
	applyMessageDefaults(&config)

	return &config, nil
}

// InitGameStateFromConfig creates a new game state with an empty board
func InitGameStateFromConfig(config *GameConfig) *GameState {
	if config == nil {
		config = DefaultGameConfig()
	}
	applyMessageDefaults(config)

	board := NewBoard()
	return &GameState{
		Board:            board,
		Score:            ComputeScore(&board),
		CurrentPlayer:    1,
		Players:          config.Players,
		Draft:            []DraftOption{},
		Message:          config.Messages.Welcome,
		ConfigName:       config.Name,
		Turn:             1,
		PlacementHistory: []PlacementEntry{},
	}
}

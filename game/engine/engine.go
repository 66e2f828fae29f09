package engine

import (
	"fmt"
	"time"
)

// Engine provides the main interface for game operations
type Engine interface {
	// Game state management
	GetState() *GameState
	SetState(state *GameState) error
	Reset() *GameState
	IsGameOver() bool
	GetScore() ScoreBreakdown
	GetBoard() Board
	GetCurrentPlayer() int

	// Placement operations
	PlaceTile(index int, habitat HabitatKind, animal AnimalKind) *PlacementResult
	PlaceDraft(index, draftIndex int) *PlacementResult
	CanPlace(habitat HabitatKind, animal AnimalKind) bool
	EndTurn() int

	// Draft
	GetDraft() []DraftOption

	// Configuration
	GetConfig() *GameConfig
	SetConfig(config *GameConfig) error

	// History
	GetPlacementHistory() []PlacementEntry
	GetLastPlacement() *PlacementEntry
}

// GameEngine implements the Engine interface. It owns exactly one board.
type GameEngine struct {
	state   *GameState
	config  *GameConfig
	drafter Drafter
}

// NewEngine creates a new game engine with the provided configuration. The
// drafter may be nil, in which case no draft options are offered and only
// explicit placements are possible.
func NewEngine(config *GameConfig, drafter Drafter) (*GameEngine, error) {
	if err := ValidateGameConfig(config); err != nil {
		return nil, err
	}

	// Sessions may share one config; message defaults are applied to a copy
	own := *config
	engine := &GameEngine{
		config:  &own,
		drafter: drafter,
	}
	engine.state = InitGameStateFromConfig(engine.config)
	engine.redraw()

	return engine, nil
}

// NewEngineWithDefaults creates a new game engine with the default configuration
func NewEngineWithDefaults() *GameEngine {
	config := DefaultGameConfig()
	return &GameEngine{
		config: config,
		state:  InitGameStateFromConfig(config),
	}
}

// GetState returns the current game state
func (e *GameEngine) GetState() *GameState {
	return e.state
}

// SetState replaces the game state. The score is recomputed from the board.
func (e *GameEngine) SetState(state *GameState) error {
	if state == nil {
		return fmt.Errorf("state cannot be nil")
	}
	state.Score = ComputeScore(&state.Board)
	state.GameOver = state.Board.IsFull()
	e.state = state
	return nil
}

// Reset starts a new game with an empty board
func (e *GameEngine) Reset() *GameState {
	e.state = InitGameStateFromConfig(e.config)
	e.redraw()
	return e.state
}

// IsGameOver returns whether every cell has been filled
func (e *GameEngine) IsGameOver() bool {
	return e.state.GameOver
}

// GetScore returns the score of the current board
func (e *GameEngine) GetScore() ScoreBreakdown {
	return e.state.Score
}

// GetBoard returns a copy of the board
func (e *GameEngine) GetBoard() Board {
	return e.state.Board
}

// GetCurrentPlayer returns the 1-based number of the player to act
func (e *GameEngine) GetCurrentPlayer() int {
	return e.state.CurrentPlayer
}

// CanPlace reports whether animal may stand on habitat
func (e *GameEngine) CanPlace(habitat HabitatKind, animal AnimalKind) bool {
	return CanPlace(habitat, animal)
}

// GetDraft returns the options currently offered
func (e *GameEngine) GetDraft() []DraftOption {
	return e.state.Draft
}

// PlaceTile places habitat and animal at index. A successful placement and the
// full score recomputation happen together; afterwards the draft is redrawn
// and the turn passes to the next player. Rejected placements leave the
// board, turn and draft untouched.
func (e *GameEngine) PlaceTile(index int, habitat HabitatKind, animal AnimalKind) *PlacementResult {
	msgs := e.config.Messages
	result := &PlacementResult{
		Index:   index,
		Habitat: habitat,
		Animal:  animal,
	}
	player := e.state.CurrentPlayer

	attached, err := e.state.Board.Place(index, habitat, animal)
	if err != nil {
		result.ErrorKind = errorKindOf(err)
		switch result.ErrorKind {
		case ErrorKindOccupiedCell:
			result.Message = msgs.Occupied
		case ErrorKindInvalidIndex:
			result.Message = fmt.Sprintf(msgs.InvalidIndex, index)
		default:
			result.Message = err.Error()
		}
		result.Score = e.state.Score
		e.state.Message = result.Message
		e.recordPlacement(player, result)
		return result
	}

	result.Accepted = true
	result.AnimalAttached = attached
	e.state.Score = ComputeScore(&e.state.Board)
	result.Score = e.state.Score

	if animal != NoAnimal && !attached {
		result.ErrorKind = ErrorKindIncompatiblePlacement
		result.Message = fmt.Sprintf(msgs.AnimalRejected, animal, habitat)
	} else {
		shown := string(animal)
		if animal == NoAnimal {
			shown = "no wildlife"
		}
		result.Message = fmt.Sprintf(msgs.Placed, habitat, shown, index, e.state.Score.Total)
	}
	e.recordPlacement(player, result)

	if e.state.Board.IsFull() {
		e.state.GameOver = true
		e.state.Draft = []DraftOption{}
		e.state.Message = fmt.Sprintf(msgs.BoardComplete, e.state.Score.Total)
		return result
	}

	e.redraw()
	e.advanceTurn()
	e.state.Message = result.Message + " " + fmt.Sprintf(msgs.PlayerTurn, e.state.CurrentPlayer)
	return result
}

// PlaceDraft places the draft option at draftIndex onto the board at index
func (e *GameEngine) PlaceDraft(index, draftIndex int) *PlacementResult {
	if draftIndex < 0 || draftIndex >= len(e.state.Draft) {
		result := &PlacementResult{
			Index:     index,
			ErrorKind: ErrorKindInvalidDraft,
			Message:   fmt.Sprintf(e.config.Messages.UnknownDraftOption, draftIndex),
			Score:     e.state.Score,
		}
		e.state.Message = result.Message
		return result
	}

	option := e.state.Draft[draftIndex]
	return e.PlaceTile(index, option.Habitat, option.Animal)
}

// EndTurn passes the turn to the next player without placing anything
func (e *GameEngine) EndTurn() int {
	if e.state.GameOver {
		return e.state.CurrentPlayer
	}
	e.advanceTurn()
	e.state.Message = fmt.Sprintf(e.config.Messages.PlayerTurn, e.state.CurrentPlayer)
	return e.state.CurrentPlayer
}

// GetConfig returns the current game configuration
func (e *GameEngine) GetConfig() *GameConfig {
	return e.config
}

// SetConfig sets a new game configuration and resets the game
func (e *GameEngine) SetConfig(config *GameConfig) error {
	if err := ValidateGameConfig(config); err != nil {
		return err
	}

	own := *config
	e.config = &own
	e.Reset()
	return nil
}

// GetPlacementHistory returns every placement attempt in order
func (e *GameEngine) GetPlacementHistory() []PlacementEntry {
	return e.state.PlacementHistory
}

// GetLastPlacement returns the last placement attempt, or nil if none
func (e *GameEngine) GetLastPlacement() *PlacementEntry {
	if len(e.state.PlacementHistory) == 0 {
		return nil
	}
	return &e.state.PlacementHistory[len(e.state.PlacementHistory)-1]
}

func (e *GameEngine) advanceTurn() {
	players := e.state.Players
	if players < 1 {
		players = 1
	}
	e.state.CurrentPlayer = e.state.CurrentPlayer%players + 1
	e.state.Turn++
}

func (e *GameEngine) redraw() {
	if e.drafter == nil {
		e.state.Draft = []DraftOption{}
		return
	}
	e.state.Draft = e.drafter.Draw(e.config.DraftSize)
}

func (e *GameEngine) recordPlacement(player int, result *PlacementResult) {
	entry := PlacementEntry{
		Player:         player,
		Index:          result.Index,
		Habitat:        result.Habitat,
		Animal:         result.Animal,
		Accepted:       result.Accepted,
		AnimalAttached: result.AnimalAttached,
		ErrorKind:      result.ErrorKind,
		ScoreAfter:     e.state.Score.Total,
		Timestamp:      time.Now().Unix(),
		Number:         e.state.TotalPlacements + 1,
	}
	e.state.PlacementHistory = append(e.state.PlacementHistory, entry)
	e.state.TotalPlacements++
}

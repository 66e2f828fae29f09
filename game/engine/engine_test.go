package engine

import (
	"testing"
)

// fixedDrafter always offers the same options, in order.
type fixedDrafter struct {
	options []DraftOption
	draws   int
}

func (d *fixedDrafter) Draw(size int) []DraftOption {
	d.draws++
	if size > len(d.options) {
		size = len(d.options)
	}
	out := make([]DraftOption, size)
	copy(out, d.options[:size])
	return out
}

func newFixedDrafter() *fixedDrafter {
	return &fixedDrafter{options: []DraftOption{
		{Habitat: Forest, Animal: Bear},
		{Habitat: River, Animal: Salmon},
		{Habitat: Prairie, Animal: Fox},
		{Habitat: Mountain, Animal: Hawk},
	}}
}

func createTestConfig() *GameConfig {
	config := &GameConfig{
		Name:        "Engine Test Config",
		Description: "Configuration for engine integration tests",
		Players:     2,
		DraftSize:   3,
	}
	config.Messages.Welcome = "Welcome to engine test!"
	config.Messages.PlayerTurn = "Player %d, go"
	return config
}

func newTestEngine(t *testing.T) (*GameEngine, *fixedDrafter) {
	t.Helper()
	drafter := newFixedDrafter()
	engine, err := NewEngine(createTestConfig(), drafter)
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}
	return engine, drafter
}

func TestNewEngine(t *testing.T) {
	engine, drafter := newTestEngine(t)

	if engine.GetScore().Total != 0 {
		t.Errorf("Expected initial score 0, got %d", engine.GetScore().Total)
	}
	if engine.GetCurrentPlayer() != 1 {
		t.Errorf("Expected player 1 to start, got %d", engine.GetCurrentPlayer())
	}
	if engine.IsGameOver() {
		t.Error("Expected game not to be over initially")
	}
	if len(engine.GetDraft()) != 3 {
		t.Errorf("Expected 3 draft options, got %d", len(engine.GetDraft()))
	}
	if drafter.draws != 1 {
		t.Errorf("Expected one initial draw, got %d", drafter.draws)
	}
	if engine.GetState().Message != "Welcome to engine test!" {
		t.Errorf("Expected welcome message, got %q", engine.GetState().Message)
	}
}

func TestNewEngine_InvalidConfig(t *testing.T) {
	config := createTestConfig()
	config.Name = "" // Make config invalid

	_, err := NewEngine(config, nil)
	if err == nil {
		t.Error("Expected error for invalid config")
	}
}

func TestNewEngineWithDefaults(t *testing.T) {
	engine := NewEngineWithDefaults()
	if engine == nil {
		t.Fatal("Expected engine to be non-nil")
	}

	if engine.GetState().Players != DefaultPlayers {
		t.Errorf("Expected %d players, got %d", DefaultPlayers, engine.GetState().Players)
	}
	if len(engine.GetDraft()) != 0 {
		t.Errorf("Expected no draft without a drafter, got %d options", len(engine.GetDraft()))
	}
}

func TestEngine_PlaceTile(t *testing.T) {
	engine, drafter := newTestEngine(t)

	result := engine.PlaceTile(12, Forest, Bear)
	if !result.Accepted {
		t.Fatalf("Expected placement to be accepted: %s", result.Message)
	}
	if !result.AnimalAttached {
		t.Error("Expected bear to be attached on forest")
	}
	if result.ErrorKind != ErrorKindNone {
		t.Errorf("Expected no error kind, got %q", result.ErrorKind)
	}
	if result.Score.Total != 1 {
		t.Errorf("Expected score 1, got %d", result.Score.Total)
	}

	board := engine.GetBoard()
	if board[12] != (Cell{Habitat: Forest, Animal: Bear}) {
		t.Errorf("Expected forest/bear at 12, got %+v", board[12])
	}
	if engine.GetCurrentPlayer() != 2 {
		t.Errorf("Expected turn to pass to player 2, got %d", engine.GetCurrentPlayer())
	}
	if engine.GetState().Turn != 2 {
		t.Errorf("Expected turn counter 2, got %d", engine.GetState().Turn)
	}
	if drafter.draws != 2 {
		t.Errorf("Expected draft to be redrawn, got %d draws", drafter.draws)
	}

	last := engine.GetLastPlacement()
	if last == nil {
		t.Fatal("Expected last placement to be recorded")
	}
	if last.Player != 1 || last.Index != 12 || !last.Accepted || last.ScoreAfter != 1 {
		t.Errorf("Unexpected history entry: %+v", last)
	}
}

func TestEngine_PlaceTile_Rejections(t *testing.T) {
	tests := []struct {
		name     string
		index    int
		habitat  HabitatKind
		animal   AnimalKind
		expected ErrorKind
	}{
		{"occupied cell", 0, River, Salmon, ErrorKindOccupiedCell},
		{"negative index", -1, River, Salmon, ErrorKindInvalidIndex},
		{"index past end", BoardCells, River, Salmon, ErrorKindInvalidIndex},
		{"unknown habitat", 3, HabitatKind("desert"), NoAnimal, ErrorKindInvalidKind},
		{"unknown animal", 3, Forest, AnimalKind("wolf"), ErrorKindInvalidKind},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine, drafter := newTestEngine(t)
			engine.PlaceTile(0, Forest, Bear)

			before := engine.GetBoard()
			player := engine.GetCurrentPlayer()
			draws := drafter.draws
			score := engine.GetScore().Total

			result := engine.PlaceTile(tt.index, tt.habitat, tt.animal)
			if result.Accepted {
				t.Fatal("Expected placement to be rejected")
			}
			if result.ErrorKind != tt.expected {
				t.Errorf("Expected error kind %q, got %q", tt.expected, result.ErrorKind)
			}
			if engine.GetBoard() != before {
				t.Error("Expected board to be unchanged")
			}
			if engine.GetCurrentPlayer() != player {
				t.Errorf("Expected player %d to keep the turn, got %d", player, engine.GetCurrentPlayer())
			}
			if drafter.draws != draws {
				t.Error("Expected draft not to be redrawn")
			}
			if engine.GetScore().Total != score {
				t.Errorf("Expected score %d, got %d", score, engine.GetScore().Total)
			}
			if engine.GetLastPlacement().Accepted {
				t.Error("Expected rejected attempt to be recorded as not accepted")
			}
		})
	}
}

func TestEngine_PlaceTile_OccupiedMessage(t *testing.T) {
	engine, _ := newTestEngine(t)
	engine.PlaceTile(4, Wetland, Elk)

	result := engine.PlaceTile(4, Forest, NoAnimal)
	if result.Message != "This spot is already occupied." {
		t.Errorf("Unexpected message: %q", result.Message)
	}
}

func TestEngine_PlaceTile_IncompatibleAnimal(t *testing.T) {
	engine, _ := newTestEngine(t)

	result := engine.PlaceTile(7, Forest, Salmon)
	if !result.Accepted {
		t.Fatal("Expected habitat to be placed even when the animal is rejected")
	}
	if result.AnimalAttached {
		t.Error("Expected salmon not to be attached on forest")
	}
	if result.ErrorKind != ErrorKindIncompatiblePlacement {
		t.Errorf("Expected incompatible_placement, got %q", result.ErrorKind)
	}
	if result.Message != "salmon cannot be placed on forest habitat." {
		t.Errorf("Unexpected message: %q", result.Message)
	}

	board := engine.GetBoard()
	if board[7] != (Cell{Habitat: Forest}) {
		t.Errorf("Expected bare forest at 7, got %+v", board[7])
	}
	if engine.GetCurrentPlayer() != 2 {
		t.Errorf("Expected turn to pass after an accepted placement, got player %d", engine.GetCurrentPlayer())
	}
}

func TestEngine_PlaceDraft(t *testing.T) {
	engine, _ := newTestEngine(t)

	result := engine.PlaceDraft(3, 1)
	if !result.Accepted || !result.AnimalAttached {
		t.Fatalf("Expected draft option to be placed: %+v", result)
	}
	board := engine.GetBoard()
	if board[3] != (Cell{Habitat: River, Animal: Salmon}) {
		t.Errorf("Expected river/salmon at 3, got %+v", board[3])
	}

	for _, draftIndex := range []int{-1, 3, 10} {
		result := engine.PlaceDraft(4, draftIndex)
		if result.Accepted {
			t.Errorf("Expected draft index %d to be rejected", draftIndex)
		}
		if result.ErrorKind != ErrorKindInvalidDraft {
			t.Errorf("Expected invalid_draft_option for %d, got %q", draftIndex, result.ErrorKind)
		}
	}
	if engine.GetBoard()[4] != (Cell{}) {
		t.Error("Expected cell 4 to stay empty")
	}
}

func TestEngine_EndTurn(t *testing.T) {
	config := createTestConfig()
	config.Players = 3
	engine, err := NewEngine(config, newFixedDrafter())
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}

	expected := []int{2, 3, 1, 2}
	for i, want := range expected {
		if got := engine.EndTurn(); got != want {
			t.Errorf("EndTurn %d: expected player %d, got %d", i+1, want, got)
		}
	}
	if engine.GetState().Message != "Player 2, go" {
		t.Errorf("Unexpected message: %q", engine.GetState().Message)
	}
}

func TestEngine_SinglePlayerKeepsTurn(t *testing.T) {
	config := createTestConfig()
	config.Players = 1
	engine, err := NewEngine(config, newFixedDrafter())
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}

	engine.PlaceTile(0, Forest, NoAnimal)
	if engine.GetCurrentPlayer() != 1 {
		t.Errorf("Expected player 1, got %d", engine.GetCurrentPlayer())
	}
}

func TestEngine_FillBoard(t *testing.T) {
	engine, _ := newTestEngine(t)

	for i := 0; i < BoardCells; i++ {
		result := engine.PlaceTile(i, Wetland, NoAnimal)
		if !result.Accepted {
			t.Fatalf("Placement %d rejected: %s", i, result.Message)
		}
		if i < BoardCells-1 && engine.IsGameOver() {
			t.Fatalf("Game ended early after placement %d", i)
		}
	}

	if !engine.IsGameOver() {
		t.Error("Expected game over once the board is full")
	}
	if len(engine.GetDraft()) != 0 {
		t.Errorf("Expected empty draft at game over, got %d", len(engine.GetDraft()))
	}
	if engine.GetScore().Total != BoardCells {
		t.Errorf("Expected one wetland area of %d, got %d", BoardCells, engine.GetScore().Total)
	}
	if engine.GetState().Message != "Board complete! Final score: 25" {
		t.Errorf("Unexpected message: %q", engine.GetState().Message)
	}

	player := engine.GetCurrentPlayer()
	if engine.EndTurn() != player {
		t.Error("Expected EndTurn to be a no-op after game over")
	}
}

func TestEngine_Reset(t *testing.T) {
	engine, _ := newTestEngine(t)
	engine.PlaceTile(0, Forest, Bear)
	engine.PlaceTile(1, Forest, Bear)

	state := engine.Reset()
	if state.Board.OccupiedCount() != 0 {
		t.Errorf("Expected empty board, got %d occupied cells", state.Board.OccupiedCount())
	}
	if state.CurrentPlayer != 1 || state.Turn != 1 {
		t.Errorf("Expected player 1 on turn 1, got player %d turn %d", state.CurrentPlayer, state.Turn)
	}
	if len(state.PlacementHistory) != 0 {
		t.Errorf("Expected history to be cleared, got %d entries", len(state.PlacementHistory))
	}
	if len(state.Draft) != 3 {
		t.Errorf("Expected fresh draft of 3, got %d", len(state.Draft))
	}
}

func TestEngine_ConfigManagement(t *testing.T) {
	engine, _ := newTestEngine(t)
	engine.PlaceTile(0, Forest, Bear)

	config := createTestConfig()
	config.Name = "solo"
	config.Players = 1
	config.DraftSize = 2
	if err := engine.SetConfig(config); err != nil {
		t.Fatalf("Failed to set config: %v", err)
	}

	if engine.GetConfig().Name != "solo" {
		t.Errorf("Expected config name 'solo', got %q", engine.GetConfig().Name)
	}
	if engine.GetState().ConfigName != "solo" {
		t.Errorf("Expected state config name 'solo', got %q", engine.GetState().ConfigName)
	}
	if len(engine.GetDraft()) != 2 {
		t.Errorf("Expected draft of 2, got %d", len(engine.GetDraft()))
	}
	if board := engine.GetBoard(); board.OccupiedCount() != 0 {
		t.Error("Expected SetConfig to reset the board")
	}

	bad := createTestConfig()
	bad.DraftSize = 0
	if err := engine.SetConfig(bad); err == nil {
		t.Error("Expected error for invalid config")
	}
	if engine.GetConfig().Name != "solo" {
		t.Error("Expected invalid config to be ignored")
	}
}

func TestEngine_SetState(t *testing.T) {
	engine, _ := newTestEngine(t)

	if err := engine.SetState(nil); err == nil {
		t.Error("Expected error for nil state")
	}

	board, err := ParseLayout([]string{
		"Fb Fb Fb -- --",
		"-- -- -- -- --",
		"-- -- -- -- --",
		"-- -- -- -- --",
		"-- -- -- -- --",
	})
	if err != nil {
		t.Fatalf("Failed to parse layout: %v", err)
	}

	state := InitGameStateFromConfig(createTestConfig())
	state.Board = board
	if err := engine.SetState(state); err != nil {
		t.Fatalf("Failed to set state: %v", err)
	}

	// 3 bears x 3 plus a forest area of 3
	if engine.GetScore().Total != 12 {
		t.Errorf("Expected recomputed score 12, got %d", engine.GetScore().Total)
	}
}

func TestEngine_HistoryNumbering(t *testing.T) {
	engine, _ := newTestEngine(t)
	engine.PlaceTile(0, Forest, Bear)
	engine.PlaceTile(0, Forest, Bear)
	engine.PlaceTile(1, Forest, Bear)

	history := engine.GetPlacementHistory()
	if len(history) != 3 {
		t.Fatalf("Expected 3 history entries, got %d", len(history))
	}
	for i, entry := range history {
		if entry.Number != i+1 {
			t.Errorf("Entry %d: expected number %d, got %d", i, i+1, entry.Number)
		}
	}
	if history[1].ErrorKind != ErrorKindOccupiedCell {
		t.Errorf("Expected second attempt to be occupied_cell, got %q", history[1].ErrorKind)
	}
	// The rejected attempt kept player 2 on turn.
	if history[1].Player != 2 || history[2].Player != 2 {
		t.Errorf("Expected player 2 for attempts 2 and 3, got %d and %d", history[1].Player, history[2].Player)
	}
	if engine.GetState().TotalPlacements != 3 {
		t.Errorf("Expected total placements 3, got %d", engine.GetState().TotalPlacements)
	}
}

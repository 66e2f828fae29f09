// Package engine provides the core game logic for the wildlife habitat tile game.
//
// The engine package implements the game mechanics including:
//   - The 5x5 board and its orthogonal adjacency
//   - Placement rules deciding which wildlife may stand on which habitat
//   - Score computation from the whole board after every placement
//   - Turn rotation and draft offers for the session that owns the board
//   - Configuration loading and validation
//
// Core Types:
//
// Board is a fixed array of 25 cells addressed row-major. Place is the only
// mutator of a board. ComputeScore turns a board into a ScoreBreakdown with one
// term per species and one per habitat. GameEngine owns a single board together
// with the turn order, the current draft and the placement log.
//
// Usage:
//
//	config := engine.DefaultGameConfig()
//	gameEngine, err := engine.NewEngine(config, draft.NewDrafter(draft.NewSeededSource(42)))
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	result := gameEngine.PlaceTile(12, engine.Forest, engine.Bear)
//	fmt.Println(result.Accepted, result.AnimalAttached, result.Score.Total)
//
// Scoring Rules:
//
// Bears score 3 each in groups of three or more. Salmon score 2 each in chains
// of two or more. A hawk with no neighbouring hawk scores 5. A fox scores one
// point per distinct species beside it. Elk score 3 each in straight lines of
// two or more, counted once per axis. Each habitat adds the size of its
// largest connected area.
//
// An animal that may not stand on the chosen habitat is withheld, but the
// habitat is still placed and the cell is consumed.
package engine

package main

import (
	"github.com/wricardo/mcp-training/cascadia/game/engine"
)

// Move is one placement chosen by a strategy
type Move struct {
	Index      int
	DraftIndex int
	Gain       int
}

// GreedyStrategy picks the draft option and cell that raise the score the
// most. Ties go to the cell with more same-habitat neighbours, then to the
// lowest cell and draft index, so the choice is deterministic.
type GreedyStrategy struct{}

// NextMove returns the best placement for state, or false when the board is
// full or the draft is empty
func (GreedyStrategy) NextMove(state *engine.GameState) (Move, bool) {
	if state == nil || len(state.Draft) == 0 || state.Board.IsFull() {
		return Move{}, false
	}

	current := engine.ComputeScore(&state.Board).Total

	var best Move
	bestAffinity := -1
	found := false

	for idx := 0; idx < engine.BoardCells; idx++ {
		if state.Board.IsOccupied(idx) {
			continue
		}
		for d, option := range state.Draft {
			next := state.Board
			if _, err := next.Place(idx, option.Habitat, option.Animal); err != nil {
				continue
			}

			gain := engine.ComputeScore(&next).Total - current
			affinity := habitatAffinity(&state.Board, idx, option.Habitat)

			if !found || gain > best.Gain || (gain == best.Gain && affinity > bestAffinity) {
				best = Move{Index: idx, DraftIndex: d, Gain: gain}
				bestAffinity = affinity
				found = true
			}
		}
	}
	return best, found
}

// habitatAffinity counts the neighbours of index that already hold habitat
func habitatAffinity(board *engine.Board, index int, habitat engine.HabitatKind) int {
	count := 0
	for _, n := range engine.Neighbors(index) {
		if cell, ok := board.Cell(n); ok && cell.Habitat == habitat {
			count++
		}
	}
	return count
}

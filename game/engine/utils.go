package engine

import (
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"
)

// maxKindTypos is the largest edit distance accepted when resolving a kind name
const maxKindTypos = 2

// ParseHabitat resolves user input to a habitat kind. Matching is
// case-insensitive and tolerates small typos ("forrest", "mountian").
func ParseHabitat(input string) (HabitatKind, error) {
	names := make([]string, len(AllHabitats))
	for i, h := range AllHabitats {
		names[i] = string(h)
	}
	name, ok := closestName(input, names)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownHabitat, input)
	}
	return HabitatKind(name), nil
}

// ParseAnimal resolves user input to an animal kind. An empty string or
// "none" yields NoAnimal.
func ParseAnimal(input string) (AnimalKind, error) {
	trimmed := strings.ToLower(strings.TrimSpace(input))
	if trimmed == "" || trimmed == "none" {
		return NoAnimal, nil
	}
	names := make([]string, len(AllAnimals))
	for i, a := range AllAnimals {
		names[i] = string(a)
	}
	name, ok := closestName(trimmed, names)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownAnimal, input)
	}
	return AnimalKind(name), nil
}

// closestName returns the unique candidate nearest to input within
// maxKindTypos edits. Ties between candidates are rejected.
func closestName(input string, candidates []string) (string, bool) {
	token := strings.ToLower(strings.TrimSpace(input))
	if token == "" {
		return "", false
	}

	best, bestDist, tied := "", maxKindTypos+1, false
	for _, cand := range candidates {
		if token == cand {
			return cand, true
		}
		dist := levenshtein.ComputeDistance(token, cand)
		switch {
		case dist < bestDist:
			best, bestDist, tied = cand, dist, false
		case dist == bestDist:
			tied = true
		}
	}
	if best == "" || tied {
		return "", false
	}
	return best, true
}

// CountAnimal counts the cells holding animal
func CountAnimal(board *Board, animal AnimalKind) int {
	return len(board.AnimalPositions(animal))
}

// CountHabitat counts the cells with the given habitat
func CountHabitat(board *Board, habitat HabitatKind) int {
	count := 0
	for _, cell := range board {
		if cell.Habitat == habitat {
			count++
		}
	}
	return count
}

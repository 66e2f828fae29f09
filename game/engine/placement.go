package engine

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidIndex   = errors.New("index out of range")
	ErrOccupiedCell   = errors.New("cell already occupied")
	ErrUnknownHabitat = errors.New("unknown habitat")
	ErrUnknownAnimal  = errors.New("unknown animal")
)

// placementRule maps each animal to the habitats it may stand on.
// It is never mutated after package initialisation.
var placementRule = map[AnimalKind][]HabitatKind{
	Bear:   {Forest, Mountain},
	Salmon: {River},
	Hawk:   {Mountain, Prairie},
	Fox:    {Prairie, Forest},
	Elk:    {Forest, Prairie, Wetland},
}

// CanPlace reports whether animal may legally stand on habitat
func CanPlace(habitat HabitatKind, animal AnimalKind) bool {
	for _, allowed := range placementRule[animal] {
		if allowed == habitat {
			return true
		}
	}
	return false
}

// AllowedHabitats returns a copy of the habitats animal may stand on
func AllowedHabitats(animal AnimalKind) []HabitatKind {
	allowed := placementRule[animal]
	out := make([]HabitatKind, len(allowed))
	copy(out, allowed)
	return out
}

// PlacementRules returns a copy of the full animal to habitat table
func PlacementRules() map[AnimalKind][]HabitatKind {
	rules := make(map[AnimalKind][]HabitatKind, len(placementRule))
	for _, animal := range AllAnimals {
		rules[animal] = AllowedHabitats(animal)
	}
	return rules
}

// Place commits habitat to the empty cell at index and attaches animal only if
// the placement rule allows it. An incompatible animal does not block the
// placement: the habitat still occupies the cell and animalAttached is false.
// On error the board is left unchanged.
func (b *Board) Place(index int, habitat HabitatKind, animal AnimalKind) (animalAttached bool, err error) {
	if !ValidIndex(index) {
		return false, fmt.Errorf("%w: %d", ErrInvalidIndex, index)
	}
	if !habitat.Valid() {
		return false, fmt.Errorf("%w: %q", ErrUnknownHabitat, habitat)
	}
	if animal != NoAnimal && !animal.Valid() {
		return false, fmt.Errorf("%w: %q", ErrUnknownAnimal, animal)
	}
	if !b[index].IsEmpty() {
		return false, fmt.Errorf("%w: %d", ErrOccupiedCell, index)
	}

	cell := Cell{Habitat: habitat}
	if animal != NoAnimal && CanPlace(habitat, animal) {
		cell.Animal = animal
		animalAttached = true
	}
	b[index] = cell
	return animalAttached, nil
}

// errorKindOf maps a Place error to its outcome code
func errorKindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return ErrorKindNone
	case errors.Is(err, ErrInvalidIndex):
		return ErrorKindInvalidIndex
	case errors.Is(err, ErrOccupiedCell):
		return ErrorKindOccupiedCell
	default:
		return ErrorKindInvalidKind
	}
}

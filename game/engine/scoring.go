package engine

import (
	"github.com/zyedidia/generic/mapset"
)

// Scoring constants
const (
	BearMinGroup      = 3
	BearPointsEach    = 3
	SalmonMinChain    = 2
	SalmonPointsEach  = 2
	HawkIsolatedScore = 5
	ElkMinLine        = 2
	ElkPointsEach     = 3
)

// ComputeScore recomputes the full score of board from scratch. Each species
// rule and the habitat rule are independent, and every traversal visits cells
// in ascending index order, so the result depends only on board contents.
func ComputeScore(board *Board) ScoreBreakdown {
	breakdown := ScoreBreakdown{
		PerSpecies: make(map[AnimalKind]int, len(AllAnimals)),
		PerHabitat: make(map[HabitatKind]int, len(AllHabitats)),
	}

	breakdown.PerSpecies[Bear] = scoreBears(board)
	breakdown.PerSpecies[Salmon] = scoreSalmon(board)
	breakdown.PerSpecies[Hawk] = scoreHawks(board)
	breakdown.PerSpecies[Fox] = scoreFoxes(board)
	breakdown.PerSpecies[Elk] = scoreElk(board)

	for _, habitat := range AllHabitats {
		breakdown.PerHabitat[habitat] = LargestHabitatArea(board, habitat)
	}

	for _, points := range breakdown.PerSpecies {
		breakdown.Total += points
	}
	for _, points := range breakdown.PerHabitat {
		breakdown.Total += points
	}
	return breakdown
}

// components groups the cells accepted by match into 4-connected components.
// It walks an explicit queue with a visited set; each matching cell ends up in
// exactly one component and components are ordered by their lowest index.
func components(board *Board, match func(Cell) bool) [][]int {
	visited := mapset.New[int]()
	var comps [][]int

	for start := 0; start < BoardCells; start++ {
		if visited.Has(start) || !match(board[start]) {
			continue
		}

		queue := []int{start}
		visited.Put(start)
		var comp []int

		for qi := 0; qi < len(queue); qi++ {
			current := queue[qi]
			comp = append(comp, current)
			for _, next := range Neighbors(current) {
				if visited.Has(next) || !match(board[next]) {
					continue
				}
				visited.Put(next)
				queue = append(queue, next)
			}
		}
		comps = append(comps, comp)
	}
	return comps
}

func animalIs(animal AnimalKind) func(Cell) bool {
	return func(c Cell) bool { return c.Animal == animal }
}

func habitatIs(habitat HabitatKind) func(Cell) bool {
	return func(c Cell) bool { return c.Habitat == habitat }
}

// AnimalGroups returns the connected components of cells holding animal
func AnimalGroups(board *Board, animal AnimalKind) [][]int {
	if animal == NoAnimal {
		return nil
	}
	return components(board, animalIs(animal))
}

// HabitatAreas returns the connected components of cells with habitat,
// regardless of the animals standing on them
func HabitatAreas(board *Board, habitat HabitatKind) [][]int {
	return components(board, habitatIs(habitat))
}

// LargestHabitatArea returns the size of the largest area of habitat, or 0
func LargestHabitatArea(board *Board, habitat HabitatKind) int {
	largest := 0
	for _, area := range HabitatAreas(board, habitat) {
		if len(area) > largest {
			largest = len(area)
		}
	}
	return largest
}

// scoreBears awards 3 points per bear in every group of at least 3
func scoreBears(board *Board) int {
	points := 0
	for _, group := range AnimalGroups(board, Bear) {
		if len(group) >= BearMinGroup {
			points += len(group) * BearPointsEach
		}
	}
	return points
}

// scoreSalmon awards 2 points per salmon in every chain of at least 2
func scoreSalmon(board *Board) int {
	points := 0
	for _, chain := range AnimalGroups(board, Salmon) {
		if len(chain) >= SalmonMinChain {
			points += len(chain) * SalmonPointsEach
		}
	}
	return points
}

// scoreHawks awards 5 points to each hawk with no hawk beside it
func scoreHawks(board *Board) int {
	points := 0
	for _, pos := range board.AnimalPositions(Hawk) {
		if IsIsolated(board, pos) {
			points += HawkIsolatedScore
		}
	}
	return points
}

// IsIsolated reports whether no orthogonal neighbour of index holds the same
// animal as index
func IsIsolated(board *Board, index int) bool {
	animal := board[index].Animal
	for _, n := range Neighbors(index) {
		if board[n].Animal == animal {
			return false
		}
	}
	return true
}

// scoreFoxes awards each fox one point per distinct neighbouring species.
// Foxes are scored independently; shared neighbours count for each of them.
func scoreFoxes(board *Board) int {
	points := 0
	for _, pos := range board.AnimalPositions(Fox) {
		points += AdjacentDiversity(board, pos)
	}
	return points
}

// AdjacentDiversity counts the distinct animals among the orthogonal
// neighbours of index, ignoring neighbours without an animal
func AdjacentDiversity(board *Board, index int) int {
	kinds := mapset.New[AnimalKind]()
	for _, n := range Neighbors(index) {
		if board[n].HasAnimal() {
			kinds.Put(board[n].Animal)
		}
	}
	return kinds.Size()
}

// Axis is a direction along which elk lines are detected
type Axis int

const (
	Horizontal Axis = iota
	Vertical
)

// step returns the next index along axis, or false at the grid edge.
// Horizontal lines never wrap onto the following row.
func (a Axis) step(index int) (int, bool) {
	switch a {
	case Horizontal:
		if Col(index) == BoardWidth-1 {
			return 0, false
		}
		return index + 1, true
	case Vertical:
		if Row(index) == BoardHeight-1 {
			return 0, false
		}
		return index + BoardWidth, true
	}
	return 0, false
}

// ElkLines returns the maximal runs of elk along axis. Scanning starts in
// ascending index order and consumed cells are never revisited, so every elk
// belongs to at most one run per axis.
func ElkLines(board *Board, axis Axis) [][]int {
	consumed := mapset.New[int]()
	var lines [][]int

	for _, pos := range board.AnimalPositions(Elk) {
		if consumed.Has(pos) {
			continue
		}
		consumed.Put(pos)
		line := []int{pos}

		next, ok := axis.step(pos)
		for ok && board[next].Animal == Elk && !consumed.Has(next) {
			consumed.Put(next)
			line = append(line, next)
			next, ok = axis.step(next)
		}
		lines = append(lines, line)
	}
	return lines
}

// scoreElk awards 3 points per elk in every line of at least 2, summing the
// horizontal and vertical passes
func scoreElk(board *Board) int {
	points := 0
	for _, axis := range []Axis{Horizontal, Vertical} {
		for _, line := range ElkLines(board, axis) {
			if len(line) >= ElkMinLine {
				points += len(line) * ElkPointsEach
			}
		}
	}
	return points
}

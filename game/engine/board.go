package engine

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Board is the 5x5 grid of cells addressed row-major by index 0..24.
// It is a plain array value, so copying a Board snapshots it.
type Board [BoardCells]Cell

// NewBoard returns a board with all cells empty
func NewBoard() Board {
	return Board{}
}

// Cell returns the cell at index, or false when the index is off the board
func (b *Board) Cell(index int) (Cell, bool) {
	if !ValidIndex(index) {
		return Cell{}, false
	}
	return b[index], true
}

// IsOccupied reports whether a habitat has been placed at index
func (b *Board) IsOccupied(index int) bool {
	return ValidIndex(index) && !b[index].IsEmpty()
}

// OccupiedCount returns the number of cells holding a habitat
func (b *Board) OccupiedCount() int {
	count := 0
	for _, cell := range b {
		if !cell.IsEmpty() {
			count++
		}
	}
	return count
}

// IsFull reports whether every cell holds a habitat
func (b *Board) IsFull() bool {
	return b.OccupiedCount() == BoardCells
}

// AnimalPositions returns the indices holding the given animal in ascending order
func (b *Board) AnimalPositions(animal AnimalKind) []int {
	var positions []int
	for i, cell := range b {
		if cell.Animal == animal && animal != NoAnimal {
			positions = append(positions, i)
		}
	}
	return positions
}

// MarshalJSON encodes the board as an ordered array of 25 entries where empty
// cells are null.
func (b Board) MarshalJSON() ([]byte, error) {
	cells := make([]*Cell, BoardCells)
	for i := range b {
		if b[i].IsEmpty() {
			continue
		}
		cell := b[i]
		cells[i] = &cell
	}
	return json.Marshal(cells)
}

// UnmarshalJSON decodes the array form produced by MarshalJSON. Every entry is
// checked against the habitat/animal enums and the placement rule.
func (b *Board) UnmarshalJSON(data []byte) error {
	var cells []*Cell
	if err := json.Unmarshal(data, &cells); err != nil {
		return err
	}
	if len(cells) != BoardCells {
		return fmt.Errorf("board must have %d cells, got %d", BoardCells, len(cells))
	}

	var decoded Board
	for i, cell := range cells {
		if cell == nil {
			continue
		}
		if err := checkCell(*cell); err != nil {
			return fmt.Errorf("cell %d: %w", i, err)
		}
		decoded[i] = *cell
	}
	*b = decoded
	return nil
}

// checkCell validates a stored cell: a known habitat and, if present, a known
// animal that the placement rule allows on that habitat.
func checkCell(cell Cell) error {
	if !cell.Habitat.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownHabitat, cell.Habitat)
	}
	if !cell.HasAnimal() {
		return nil
	}
	if !cell.Animal.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownAnimal, cell.Animal)
	}
	if !CanPlace(cell.Habitat, cell.Animal) {
		return fmt.Errorf("%s cannot stand on %s", cell.Animal, cell.Habitat)
	}
	return nil
}

var (
	habitatLetters = map[HabitatKind]byte{
		Forest: 'F', Wetland: 'W', Prairie: 'P', Mountain: 'M', River: 'R',
	}
	animalLetters = map[AnimalKind]byte{
		Bear: 'b', Salmon: 's', Hawk: 'h', Fox: 'f', Elk: 'e',
	}
)

const emptyToken = "--"

// Layout renders the board as 5 rows of 5 space-separated two-letter tokens.
// The first letter is the habitat (F, W, P, M, R), the second the animal
// (b, s, h, f, e) or '.', and "--" marks an empty cell.
func (b *Board) Layout() []string {
	rows := make([]string, 0, BoardHeight)
	for r := 0; r < BoardHeight; r++ {
		tokens := make([]string, 0, BoardWidth)
		for c := 0; c < BoardWidth; c++ {
			tokens = append(tokens, cellToken(b[Index(r, c)]))
		}
		rows = append(rows, strings.Join(tokens, " "))
	}
	return rows
}

func cellToken(cell Cell) string {
	if cell.IsEmpty() {
		return emptyToken
	}
	animal := byte('.')
	if cell.HasAnimal() {
		animal = animalLetters[cell.Animal]
	}
	return string([]byte{habitatLetters[cell.Habitat], animal})
}

// ParseLayout builds a board from the format produced by Layout
func ParseLayout(rows []string) (Board, error) {
	var board Board
	if len(rows) != BoardHeight {
		return board, fmt.Errorf("layout must have %d rows, got %d", BoardHeight, len(rows))
	}

	for r, row := range rows {
		tokens := strings.Fields(row)
		if len(tokens) != BoardWidth {
			return board, fmt.Errorf("layout row %d must have %d cells, got %d", r+1, BoardWidth, len(tokens))
		}
		for c, token := range tokens {
			cell, err := parseToken(token)
			if err != nil {
				return board, fmt.Errorf("layout row %d, col %d: %w", r+1, c+1, err)
			}
			board[Index(r, c)] = cell
		}
	}
	return board, nil
}

func parseToken(token string) (Cell, error) {
	if token == emptyToken {
		return Cell{}, nil
	}
	if len(token) != 2 {
		return Cell{}, fmt.Errorf("invalid token %q", token)
	}

	var cell Cell
	for habitat, letter := range habitatLetters {
		if token[0] == letter {
			cell.Habitat = habitat
		}
	}
	if cell.Habitat == "" {
		return Cell{}, fmt.Errorf("%w: %q", ErrUnknownHabitat, token[:1])
	}

	if token[1] != '.' {
		for animal, letter := range animalLetters {
			if token[1] == letter {
				cell.Animal = animal
			}
		}
		if cell.Animal == NoAnimal {
			return Cell{}, fmt.Errorf("%w: %q", ErrUnknownAnimal, token[1:])
		}
	}

	if err := checkCell(cell); err != nil {
		return Cell{}, err
	}
	return cell, nil
}

// ReadLayout parses a layout from r. Blank lines and lines starting with '#'
// are skipped; the remaining lines must form exactly one layout.
func ReadLayout(r io.Reader) (Board, error) {
	var rows []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		rows = append(rows, line)
	}
	if err := scanner.Err(); err != nil {
		return Board{}, err
	}
	return ParseLayout(rows)
}

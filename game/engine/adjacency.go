package engine

// neighborTable holds the orthogonal neighbours of every cell, computed once.
var neighborTable = buildNeighborTable()

func buildNeighborTable() [BoardCells][]int {
	var table [BoardCells][]int
	for i := 0; i < BoardCells; i++ {
		row, col := Row(i), Col(i)
		adjacent := make([]int, 0, 4)
		// Up
		if row > 0 {
			adjacent = append(adjacent, i-BoardWidth)
		}
		// Down
		if row < BoardHeight-1 {
			adjacent = append(adjacent, i+BoardWidth)
		}
		// Left
		if col > 0 {
			adjacent = append(adjacent, i-1)
		}
		// Right
		if col < BoardWidth-1 {
			adjacent = append(adjacent, i+1)
		}
		table[i] = adjacent
	}
	return table
}

// Neighbors returns the orthogonal neighbours of index in up, down, left, right
// order, omitting positions that fall off the grid. It returns nil for an
// index outside the board. The returned slice must not be modified.
func Neighbors(index int) []int {
	if !ValidIndex(index) {
		return nil
	}
	return neighborTable[index]
}

// ValidIndex reports whether index addresses a board cell
func ValidIndex(index int) bool {
	return index >= 0 && index < BoardCells
}

// Row returns the grid row of index
func Row(index int) int {
	return index / BoardWidth
}

// Col returns the grid column of index
func Col(index int) int {
	return index % BoardWidth
}

// Index converts a row and column into a board index
func Index(row, col int) int {
	return row*BoardWidth + col
}

package model

// Cell is the state of one grid position, stored as a single byte so a run
// of cells can be read as a raw 0/1 byte buffer.
type Cell uint8

const (
	Dead  Cell = 0
	Alive Cell = 1
)

// Toggle returns the opposite state
func (c Cell) Toggle() Cell {
	if c == Alive {
		return Dead
	}
	return Alive
}

// IsAlive reports whether the cell is alive
func (c Cell) IsAlive() bool {
	return c == Alive
}

func cellOf(alive bool) Cell {
	if alive {
		return Alive
	}
	return Dead
}

// Coord addresses a single cell by row and column
type Coord struct {
	Row uint32 `json:"row" yaml:"row"`
	Col uint32 `json:"col" yaml:"col"`
}

package model

import (
	"sort"

	"github.com/pkg/errors"
)

// Pattern is a named set of live cells relative to (0, 0)
type Pattern struct {
	Name  string
	Cells []Coord
}

var ErrUnknownPattern = errors.New("unknown pattern")

var patterns = map[string]Pattern{
	"glider": {Name: "glider", Cells: []Coord{
		{0, 1},
		{1, 2},
		{2, 0}, {2, 1}, {2, 2},
	}},
	"blinker": {Name: "blinker", Cells: []Coord{
		{0, 0}, {0, 1}, {0, 2},
	}},
	"block": {Name: "block", Cells: []Coord{
		{0, 0}, {0, 1},
		{1, 0}, {1, 1},
	}},
	// lightweight spaceship
	"lwss": {Name: "lwss", Cells: []Coord{
		{0, 1}, {0, 4},
		{1, 0},
		{2, 0}, {2, 4},
		{3, 0}, {3, 1}, {3, 2}, {3, 3},
	}},
	"still-lifes": {Name: "still-lifes", Cells: []Coord{
		{1, 1}, {1, 2},
		{2, 1}, {2, 2},
		{3, 3},
		{4, 2}, {4, 3},
		{5, 3},
	}},
}

// LookupPattern returns the pattern registered under name
func LookupPattern(name string) (Pattern, error) {
	p, ok := patterns[name]
	if !ok {
		return Pattern{}, errors.Wrapf(ErrUnknownPattern, "[LookupPattern] %+v", name)
	}
	return p, nil
}

// PatternNames returns the registered pattern names in sorted order
func PatternNames() []string {
	names := make([]string, 0, len(patterns))
	for name := range patterns {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Offset returns the pattern's cells translated by (row, col), wrapped onto
// a width x height grid
func (p Pattern) Offset(row, col, width, height uint32) []Coord {
	out := make([]Coord, len(p.Cells))
	for i, c := range p.Cells {
		out[i] = Coord{Row: (c.Row + row) % height, Col: (c.Col + col) % width}
	}
	return out
}

// Place sets the pattern alive on u with its origin at (row, col)
func (u *Universe) Place(p Pattern, row, col uint32) {
	if u.width == 0 || u.height == 0 {
		return
	}
	u.SetCells(p.Offset(row, col, u.width, u.height)...)
}

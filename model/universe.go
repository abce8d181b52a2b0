package model

import (
	"bytes"
	"crypto/md5"
	"fmt"
	"math/rand"
	"unsafe"

	"github.com/pkg/errors"

	"github.com/sheikhrachel/go-universe/rules"
)

const (
	DefaultWidth  uint32 = 64
	DefaultHeight uint32 = 64
)

// ErrOutOfBounds is the cause of every bounds violation raised by a Universe
var ErrOutOfBounds = errors.New("cell out of bounds")

// Universe is a toroidal Game of Life grid stored row-major in a flat buffer.
// Cell (row, col) lives at index row*width + col and len(cells) is always
// width*height.
//
// A Universe is not safe for concurrent use; the host serializes access.
type Universe struct {
	width  uint32
	height uint32
	cells  []Cell
	pool   *CellPool
}

// New creates a DefaultWidth x DefaultHeight universe where cell i is alive
// when i is even or divisible by 7
func New() *Universe {
	u := NewSized(DefaultWidth, DefaultHeight)
	u.FillDefaultPattern()
	return u
}

// NewRandom creates a DefaultWidth x DefaultHeight universe with roughly half
// the cells alive, drawn from src. The same seed yields the same universe.
func NewRandom(src rand.Source) *Universe {
	u := NewSized(DefaultWidth, DefaultHeight)
	u.Randomize(rand.New(src), 0.5)
	return u
}

// NewSized creates an all-dead universe with the specified dimensions
func NewSized(width, height uint32) *Universe {
	return &Universe{
		width:  width,
		height: height,
		cells:  make([]Cell, int(width)*int(height)),
	}
}

// UsePool makes Tick draw next-generation buffers from pool and return
// replaced ones to it. A nil pool switches back to plain allocation.
func (u *Universe) UsePool(pool *CellPool) {
	u.pool = pool
}

// Width returns the width of the universe
func (u *Universe) Width() uint32 {
	return u.width
}

// Height returns the height of the universe
func (u *Universe) Height() uint32 {
	return u.height
}

// Cells returns the current buffer. The slice is a read-only view valid
// until the next mutating call.
func (u *Universe) Cells() []Cell {
	return u.cells
}

// Bytes returns the current buffer reinterpreted as bytes without copying:
// width*height bytes, row-major, 0 for dead and 1 for alive. Same validity
// rules as Cells.
func (u *Universe) Bytes() []byte {
	if len(u.cells) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(u.cells))), len(u.cells))
}

// CheckBounds returns a wrapped ErrOutOfBounds when (row, col) is outside the grid
func (u *Universe) CheckBounds(row, col uint32) error {
	if row >= u.height || col >= u.width {
		return errors.Wrapf(ErrOutOfBounds, "row %d, col %d in %dx%d universe", row, col, u.width, u.height)
	}
	return nil
}

// GetIndex returns the buffer index of (row, col). It panics when the
// coordinates are out of range; no wraparound is applied here.
func (u *Universe) GetIndex(row, col uint32) int {
	if err := u.CheckBounds(row, col); err != nil {
		panic(errors.WithMessage(err, "[GetIndex]"))
	}
	return int(row)*int(u.width) + int(col)
}

// Get returns the state of a cell
func (u *Universe) Get(row, col uint32) Cell {
	return u.cells[u.GetIndex(row, col)]
}

// LiveNeighborCount counts the live cells among the 8 neighbours of
// (row, col), wrapping around the edges of the grid
func (u *Universe) LiveNeighborCount(row, col uint32) uint8 {
	if err := u.CheckBounds(row, col); err != nil {
		panic(errors.WithMessage(err, "[LiveNeighborCount]"))
	}

	var count uint8
	for _, deltaRow := range [3]uint32{u.height - 1, 0, 1} {
		for _, deltaCol := range [3]uint32{u.width - 1, 0, 1} {
			if deltaRow == 0 && deltaCol == 0 {
				continue
			}
			neighborRow := (row + deltaRow) % u.height
			neighborCol := (col + deltaCol) % u.width
			count += uint8(u.cells[u.GetIndex(neighborRow, neighborCol)])
		}
	}
	return count
}

// Tick advances the universe by one generation. The next generation is
// computed into a separate buffer which then replaces the current one.
func (u *Universe) Tick() {
	var next []Cell
	if u.pool != nil {
		next = u.pool.Get(len(u.cells))
	} else {
		next = make([]Cell, len(u.cells))
	}

	for row := range u.height {
		for col := range u.width {
			idx := u.GetIndex(row, col)
			alive := rules.Next(u.cells[idx].IsAlive(), u.LiveNeighborCount(row, col))
			next[idx] = cellOf(alive)
		}
	}

	prev := u.cells
	u.cells = next
	if u.pool != nil {
		u.pool.Put(prev)
	}
}

// SetWidth sets the width and resets every cell to dead
func (u *Universe) SetWidth(width uint32) {
	u.width = width
	u.reset()
}

// SetHeight sets the height and resets every cell to dead
func (u *Universe) SetHeight(height uint32) {
	u.height = height
	u.reset()
}

func (u *Universe) reset() {
	u.cells = make([]Cell, int(u.width)*int(u.height))
}

// ToggleCell flips the cell at (row, col). Out of range coordinates panic
// before anything is written.
func (u *Universe) ToggleCell(row, col uint32) {
	idx := u.GetIndex(row, col)
	u.cells[idx] = u.cells[idx].Toggle()
}

// SetCells marks every listed cell alive and leaves the rest untouched.
// All coordinates are checked first, so an invalid one panics without
// modifying the buffer.
func (u *Universe) SetCells(coords ...Coord) {
	for _, c := range coords {
		if err := u.CheckBounds(c.Row, c.Col); err != nil {
			panic(errors.WithMessage(err, "[SetCells]"))
		}
	}
	for _, c := range coords {
		u.cells[u.GetIndex(c.Row, c.Col)] = Alive
	}
}

// FillDefaultPattern overwrites every cell, making cell i alive when i is
// even or divisible by 7
func (u *Universe) FillDefaultPattern() {
	for i := range u.cells {
		u.cells[i] = cellOf(i%2 == 0 || i%7 == 0)
	}
}

// Randomize fills the universe with living cells at the given density
func (u *Universe) Randomize(rng *rand.Rand, density float64) {
	for i := range u.cells {
		u.cells[i] = cellOf(rng.Float64() < density)
	}
}

// CountLiving returns the total number of living cells
func (u *Universe) CountLiving() (count int) {
	for _, c := range u.cells {
		count += int(c)
	}
	return
}

// Hash returns an MD5 hash of the current cell buffer
func (u *Universe) Hash() string {
	sum := md5.Sum(u.Bytes())
	return fmt.Sprintf("%x", sum)
}

// Equal reports whether both universes have the same dimensions and cells
func (u *Universe) Equal(other *Universe) bool {
	return u.width == other.width &&
		u.height == other.height &&
		bytes.Equal(u.Bytes(), other.Bytes())
}

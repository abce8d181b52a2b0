package view

import (
	"bytes"
	"math/rand"

	"github.com/sheikhrachel/go-universe/model"
)

// Session holds the universe driven by the interactive UI. All methods are
// expected to run on the UI's main loop goroutine.
type Session struct {
	u          *model.Universe
	rng        *rand.Rand
	density    float64
	generation int
	running    bool
}

func NewSession(u *model.Universe, rng *rand.Rand, density float64) *Session {
	return &Session{u: u, rng: rng, density: density}
}

// Universe returns the universe being driven
func (s *Session) Universe() *model.Universe {
	return s.u
}

// Generation returns the number of ticks since the last clear or randomize
func (s *Session) Generation() int {
	return s.generation
}

// Running reports whether the session is in auto-run mode
func (s *Session) Running() bool {
	return s.running
}

// Step advances the universe by one generation
func (s *Session) Step() {
	s.u.Tick()
	s.generation++
}

// Clear kills every cell, keeping the dimensions
func (s *Session) Clear() {
	s.u.SetWidth(s.u.Width())
	s.generation = 0
}

// Randomize refills the universe with random cells
func (s *Session) Randomize() {
	s.u.Randomize(s.rng, s.density)
	s.generation = 0
}

// Toggle flips the cell under screen position (x, y). Positions outside the
// universe are ignored and reported as false.
func (s *Session) Toggle(x, y int) bool {
	if x < 0 || y < 0 {
		return false
	}
	row, col := uint32(y), uint32(x)
	if err := s.u.CheckBounds(row, col); err != nil {
		return false
	}
	s.u.ToggleCell(row, col)
	return true
}

// Field draws the universe cropped to maxW x maxH screen cells. The last
// visible line is replaced by cropNotice when the universe does not fit.
func (s *Session) Field(maxW, maxH int, live, dead, cropNotice string) string {
	width, height := int(s.u.Width()), int(s.u.Height())
	crop := width > maxW || height > maxH
	cells := s.u.Cells()

	var b bytes.Buffer
	for row := 0; row < height && row < maxH; row++ {
		if row != 0 {
			b.WriteByte('\n')
		}
		if crop && row == maxH-1 {
			b.WriteString(cropNotice)
			break
		}
		for col := 0; col < width && col < maxW; col++ {
			if cells[row*width+col].IsAlive() {
				b.WriteString(live)
			} else {
				b.WriteString(dead)
			}
		}
	}
	return b.String()
}

package model

import (
	"fmt"
	"io"
	"strings"

	"github.com/logrusorgru/aurora"
)

const (
	DeadGlyph  = '◻'
	AliveGlyph = '◼'

	clearScreen = "\033[H\033[2J"
)

// Render returns one line per row, each cell drawn as DeadGlyph or
// AliveGlyph and every line terminated by a newline. An empty universe
// renders as an empty string.
func (u *Universe) Render() string {
	if len(u.cells) == 0 {
		return ""
	}

	var b strings.Builder
	b.Grow(len(u.cells)*3 + int(u.height))
	for row := range u.height {
		start := int(row) * int(u.width)
		for _, c := range u.cells[start : start+int(u.width)] {
			if c.IsAlive() {
				b.WriteRune(AliveGlyph)
			} else {
				b.WriteRune(DeadGlyph)
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func (u *Universe) String() string {
	return u.Render()
}

// TerminalRenderer draws universes to a terminal
type TerminalRenderer struct {
	Out   io.Writer
	Color bool
}

// Display renders the universe to the terminal
func (r *TerminalRenderer) Display(u *Universe) {
	if !r.Color {
		fmt.Fprint(r.Out, u.Render())
		return
	}

	alive := aurora.Green(string(AliveGlyph)).String()
	dead := aurora.Gray(8, string(DeadGlyph)).String()

	var b strings.Builder
	for row := range u.Height() {
		for col := range u.Width() {
			if u.Get(row, col).IsAlive() {
				b.WriteString(alive)
			} else {
				b.WriteString(dead)
			}
		}
		b.WriteByte('\n')
	}
	fmt.Fprint(r.Out, b.String())
}

// Clear clears the terminal screen
func (r *TerminalRenderer) Clear() {
	fmt.Fprint(r.Out, clearScreen)
}

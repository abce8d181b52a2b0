package model

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTerminalRenderer_Plain(t *testing.T) {
	var out bytes.Buffer
	r := &TerminalRenderer{Out: &out}
	u := newUniverse(2, 2, Coord{1, 0})

	r.Display(u)

	require.Equal(t, "◻◻\n◼◻\n", out.String())
}

func TestTerminalRenderer_Color(t *testing.T) {
	var out bytes.Buffer
	r := &TerminalRenderer{Out: &out, Color: true}
	u := newUniverse(3, 2, Coord{0, 0})

	r.Display(u)

	require.Equal(t, 2, strings.Count(out.String(), "\n"))
	require.Equal(t, 1, strings.Count(out.String(), string(AliveGlyph)))
	require.Equal(t, 5, strings.Count(out.String(), string(DeadGlyph)))
	require.Contains(t, out.String(), "\033[")
}

func TestTerminalRenderer_Clear(t *testing.T) {
	var out bytes.Buffer
	r := &TerminalRenderer{Out: &out}

	r.Clear()

	require.Equal(t, clearScreen, out.String())
}

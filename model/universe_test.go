package model

import (
	"math/rand"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func requireOutOfBounds(t *testing.T, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		require.NotNil(t, r, "expected a bounds panic")
		err, ok := r.(error)
		require.True(t, ok, "panic value should be an error, got %T", r)
		require.True(t, errors.Is(err, ErrOutOfBounds), "unexpected panic: %v", err)
	}()
	fn()
}

func newUniverse(width, height uint32, live ...Coord) *Universe {
	u := New()
	u.SetWidth(width)
	u.SetHeight(height)
	u.SetCells(live...)
	return u
}

func liveCoords(u *Universe) []Coord {
	var out []Coord
	for row := range u.Height() {
		for col := range u.Width() {
			if u.Get(row, col).IsAlive() {
				out = append(out, Coord{row, col})
			}
		}
	}
	return out
}

func TestNew_DefaultPattern(t *testing.T) {
	u := New()

	require.Equal(t, DefaultWidth, u.Width())
	require.Equal(t, DefaultHeight, u.Height())
	require.Len(t, u.Cells(), int(DefaultWidth*DefaultHeight))

	for i, c := range u.Cells() {
		require.Equal(t, cellOf(i%2 == 0 || i%7 == 0), c, "cell %d", i)
	}
}

func TestNewRandom_SeedReproducible(t *testing.T) {
	a := NewRandom(rand.NewSource(42))
	b := NewRandom(rand.NewSource(42))
	require.True(t, a.Equal(b))

	total := len(a.Cells())
	living := a.CountLiving()
	require.Greater(t, living, total*35/100)
	require.Less(t, living, total*65/100)
}

func TestGetIndex(t *testing.T) {
	u := NewSized(5, 3)

	require.Equal(t, 0, u.GetIndex(0, 0))
	require.Equal(t, 4, u.GetIndex(0, 4))
	require.Equal(t, 5, u.GetIndex(1, 0))
	require.Equal(t, 14, u.GetIndex(2, 4))

	requireOutOfBounds(t, func() { u.GetIndex(3, 0) })
	// col past the edge must not silently land on the next row
	requireOutOfBounds(t, func() { u.GetIndex(0, 5) })
}

func TestTick_Spaceship(t *testing.T) {
	input := newUniverse(6, 6, Coord{1, 2}, Coord{2, 3}, Coord{3, 1}, Coord{3, 2}, Coord{3, 3})
	expected := newUniverse(6, 6, Coord{2, 1}, Coord{2, 3}, Coord{3, 2}, Coord{3, 3}, Coord{4, 2})

	input.Tick()

	require.Equal(t, expected.Cells(), input.Cells())
	require.Equal(t, []Coord{{2, 1}, {2, 3}, {3, 2}, {3, 3}, {4, 2}}, liveCoords(input))
}

func TestTick_GliderWrapsAround(t *testing.T) {
	glider, err := LookupPattern("glider")
	require.NoError(t, err)

	u := NewSized(8, 8)
	u.Place(glider, 0, 0)
	start := append([]Coord(nil), liveCoords(u)...)

	// a glider moves one cell diagonally every 4 generations, so after
	// 4*8 generations it has crossed both edges and is back where it began
	for range 32 {
		u.Tick()
		require.Equal(t, 5, u.CountLiving())
	}
	require.Equal(t, start, liveCoords(u))
}

func TestTick_Blinker(t *testing.T) {
	u := newUniverse(5, 5, Coord{2, 1}, Coord{2, 2}, Coord{2, 3})

	u.Tick()
	require.Equal(t, []Coord{{1, 2}, {2, 2}, {3, 2}}, liveCoords(u))

	u.Tick()
	require.Equal(t, []Coord{{2, 1}, {2, 2}, {2, 3}}, liveCoords(u))
}

func TestTick_WithPoolMatchesPlainAllocation(t *testing.T) {
	plain := NewRandom(rand.NewSource(7))
	pooled := NewRandom(rand.NewSource(7))
	pooled.UsePool(NewCellPool())

	for gen := range 20 {
		plain.Tick()
		pooled.Tick()
		require.True(t, plain.Equal(pooled), "generation %d diverged", gen)
	}
}

func TestLiveNeighborCount_Wraparound(t *testing.T) {
	t.Run("bottom row neighbours top row", func(t *testing.T) {
		u := newUniverse(5, 5, Coord{4, 2})

		require.Equal(t, uint8(1), u.LiveNeighborCount(0, 1))
		require.Equal(t, uint8(1), u.LiveNeighborCount(0, 2))
		require.Equal(t, uint8(1), u.LiveNeighborCount(0, 3))
		require.Equal(t, uint8(0), u.LiveNeighborCount(0, 0))
		require.Equal(t, uint8(0), u.LiveNeighborCount(1, 2))
	})

	t.Run("top row neighbours bottom row", func(t *testing.T) {
		u := newUniverse(5, 5, Coord{0, 2})

		require.Equal(t, uint8(1), u.LiveNeighborCount(4, 1))
		require.Equal(t, uint8(1), u.LiveNeighborCount(4, 2))
		require.Equal(t, uint8(1), u.LiveNeighborCount(4, 3))
		require.Equal(t, uint8(0), u.LiveNeighborCount(3, 2))
	})

	t.Run("columns wrap", func(t *testing.T) {
		u := newUniverse(5, 5, Coord{2, 4})

		require.Equal(t, uint8(1), u.LiveNeighborCount(1, 0))
		require.Equal(t, uint8(1), u.LiveNeighborCount(2, 0))
		require.Equal(t, uint8(1), u.LiveNeighborCount(3, 0))
		require.Equal(t, uint8(0), u.LiveNeighborCount(2, 1))
	})

	t.Run("corners touch", func(t *testing.T) {
		u := newUniverse(4, 4, Coord{3, 3})

		require.Equal(t, uint8(1), u.LiveNeighborCount(0, 0))
	})

	t.Run("cell does not count itself", func(t *testing.T) {
		u := newUniverse(3, 3, Coord{1, 1})

		require.Equal(t, uint8(0), u.LiveNeighborCount(1, 1))
		for _, c := range []Coord{{0, 0}, {0, 1}, {0, 2}, {1, 0}, {1, 2}, {2, 0}, {2, 1}, {2, 2}} {
			require.Equal(t, uint8(1), u.LiveNeighborCount(c.Row, c.Col), "cell %v", c)
		}
	})

	t.Run("full grid", func(t *testing.T) {
		u := NewSized(4, 4)
		u.Randomize(rand.New(rand.NewSource(1)), 1)

		require.Equal(t, uint8(8), u.LiveNeighborCount(0, 0))
		require.Equal(t, uint8(8), u.LiveNeighborCount(2, 3))
	})
}

func TestLiveNeighborCount_OutOfBounds(t *testing.T) {
	u := NewSized(4, 4)

	requireOutOfBounds(t, func() { u.LiveNeighborCount(4, 0) })
	requireOutOfBounds(t, func() { u.LiveNeighborCount(0, 4) })
}

func TestToggleCell(t *testing.T) {
	u := NewSized(4, 3)

	u.ToggleCell(1, 2)
	require.Equal(t, Alive, u.Get(1, 2))
	require.Equal(t, 1, u.CountLiving())

	u.ToggleCell(1, 2)
	require.Equal(t, Dead, u.Get(1, 2))
	require.Equal(t, 0, u.CountLiving())
}

func TestToggleCell_TwiceRestoresState(t *testing.T) {
	u := New()
	before := append([]Cell(nil), u.Cells()...)

	u.ToggleCell(10, 20)
	u.ToggleCell(10, 20)

	require.Equal(t, before, u.Cells())
}

func TestToggleCell_OutOfBoundsLeavesBufferIntact(t *testing.T) {
	u := New()
	u.SetWidth(6)
	u.SetHeight(6)
	u.SetCells(Coord{0, 0}, Coord{5, 5}, Coord{2, 3})
	before := append([]Cell(nil), u.Cells()...)

	requireOutOfBounds(t, func() { u.ToggleCell(6, 0) })
	requireOutOfBounds(t, func() { u.ToggleCell(0, 6) })
	requireOutOfBounds(t, func() { u.ToggleCell(100, 100) })

	require.Equal(t, before, u.Cells())
}

func TestSetCells(t *testing.T) {
	u := newUniverse(4, 4, Coord{0, 0})

	u.SetCells(Coord{1, 1}, Coord{1, 1}, Coord{3, 2})

	require.Equal(t, []Coord{{0, 0}, {1, 1}, {3, 2}}, liveCoords(u))
}

func TestSetCells_InvalidCoordinateLeavesBufferIntact(t *testing.T) {
	u := newUniverse(4, 4, Coord{0, 0})
	before := append([]Cell(nil), u.Cells()...)

	requireOutOfBounds(t, func() { u.SetCells(Coord{1, 1}, Coord{4, 0}) })

	require.Equal(t, before, u.Cells())
}

func TestResize_ResetsCells(t *testing.T) {
	u := New()
	require.NotZero(t, u.CountLiving())

	u.SetWidth(10)
	require.Len(t, u.Cells(), 10*int(DefaultHeight))
	require.Zero(t, u.CountLiving())

	u.SetCells(Coord{3, 3})
	u.SetHeight(7)
	require.Equal(t, uint32(10), u.Width())
	require.Equal(t, uint32(7), u.Height())
	require.Len(t, u.Cells(), 70)
	require.Zero(t, u.CountLiving())

	// same size still resets
	u.SetCells(Coord{1, 1})
	u.SetWidth(10)
	require.Zero(t, u.CountLiving())
}

func TestZeroSizedUniverse(t *testing.T) {
	for _, tc := range []struct {
		name          string
		width, height uint32
	}{
		{"zero width", 0, 5},
		{"zero height", 5, 0},
		{"empty", 0, 0},
	} {
		t.Run(tc.name, func(t *testing.T) {
			u := New()
			u.SetWidth(tc.width)
			u.SetHeight(tc.height)

			require.Empty(t, u.Cells())
			require.NotPanics(t, u.Tick)
			require.Empty(t, u.Cells())
			require.Equal(t, "", u.Render())
			requireOutOfBounds(t, func() { u.ToggleCell(0, 0) })
		})
	}
}

func TestBytes_ZeroCopyView(t *testing.T) {
	u := newUniverse(3, 2, Coord{0, 1}, Coord{1, 2})

	b := u.Bytes()
	require.Equal(t, []byte{0, 1, 0, 0, 0, 1}, b)

	u.ToggleCell(1, 0)
	require.Equal(t, byte(1), b[3], "view should alias the live buffer")
}

func TestRender(t *testing.T) {
	u := newUniverse(3, 2, Coord{0, 1}, Coord{1, 2})

	require.Equal(t, "◻◼◻\n◻◻◼\n", u.Render())
	require.Equal(t, u.Render(), u.String())
}

func TestRender_Shape(t *testing.T) {
	u := New()
	u.SetWidth(7)
	u.SetHeight(4)
	u.Randomize(rand.New(rand.NewSource(3)), 0.5)

	out := u.Render()
	require.True(t, strings.HasSuffix(out, "\n"))

	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Len(t, lines, 4)
	for row, line := range lines {
		require.Equal(t, 7, utf8.RuneCountInString(line))
		for col, r := range []rune(line) {
			want := DeadGlyph
			if u.Get(uint32(row), uint32(col)).IsAlive() {
				want = AliveGlyph
			}
			require.Equal(t, want, r, "row %d col %d", row, col)
		}
	}
}

func TestCheckBounds(t *testing.T) {
	u := NewSized(3, 3)

	require.NoError(t, u.CheckBounds(2, 2))

	err := u.CheckBounds(3, 1)
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrOutOfBounds))
	require.Contains(t, err.Error(), "row 3, col 1 in 3x3 universe")
}

func TestHash(t *testing.T) {
	a := newUniverse(4, 4, Coord{1, 1})
	b := newUniverse(4, 4, Coord{1, 1})
	require.Equal(t, a.Hash(), b.Hash())

	b.ToggleCell(2, 2)
	require.NotEqual(t, a.Hash(), b.Hash())
}

func TestBufferLengthInvariant(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	u := New()

	for step := range 200 {
		switch rng.Intn(5) {
		case 0:
			u.SetWidth(uint32(rng.Intn(9)))
		case 1:
			u.SetHeight(uint32(rng.Intn(9)))
		case 2:
			if len(u.Cells()) > 0 {
				u.ToggleCell(uint32(rng.Intn(int(u.Height()))), uint32(rng.Intn(int(u.Width()))))
			}
		case 3:
			if len(u.Cells()) > 0 {
				u.SetCells(Coord{uint32(rng.Intn(int(u.Height()))), uint32(rng.Intn(int(u.Width())))})
			}
		case 4:
			u.Tick()
		}
		require.Len(t, u.Cells(), int(u.Width())*int(u.Height()), "step %d", step)
		require.Len(t, u.Bytes(), len(u.Cells()))
		for _, c := range u.Cells() {
			require.True(t, c == Dead || c == Alive)
		}
	}
}

func BenchmarkUniverse_Tick(b *testing.B) {
	engines := map[string]*CellPool{
		"alloc": nil,
		"pool":  NewCellPool(),
	}
	for name, pool := range engines {
		b.Run(name, func(b *testing.B) {
			u := NewRandom(rand.NewSource(1))
			u.UsePool(pool)
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				u.Tick()
			}
		})
	}
}

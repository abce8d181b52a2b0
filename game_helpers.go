package main

import (
	"bytes"
	"fmt"
	"math/rand"
	"time"

	"github.com/pkg/errors"

	"github.com/sheikhrachel/go-universe/model"
	"github.com/sheikhrachel/go-universe/utils"
)

// game bundles the universe with everything the headless loop tracks about it
type game struct {
	config     utils.Config
	rng        *rand.Rand
	universe   *model.Universe
	pool       *model.CellPool
	detector   *model.Detector
	stats      *utils.Stats
	generation int
	stagnant   int
	restartGen int
}

// frame is an immutable snapshot handed from the simulation to the display
type frame struct {
	generation int
	living     int
	header     string
	board      string
}

// newGame sets up the initial game state
func newGame(config utils.Config) (*game, error) {
	seed := config.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	g := &game{
		config:   config,
		rng:      rand.New(rand.NewSource(seed)),
		detector: model.NewDetector(config.StagnationThreshold),
		stats:    utils.NewStats(),
	}
	if config.UseMemoryPool {
		g.pool = model.NewCellPool()
	}

	u, err := g.seedUniverse()
	if err != nil {
		return nil, err
	}
	g.universe = u
	return g, nil
}

// seedUniverse builds a universe following the configured initial pattern policy
func (g *game) seedUniverse() (*model.Universe, error) {
	c := g.config
	var u *model.Universe

	switch {
	case c.Pattern != "":
		p, err := model.LookupPattern(c.Pattern)
		if err != nil {
			return nil, errors.Wrap(err, "[seedUniverse] failed to seed from pattern")
		}
		u = model.NewSized(c.Width, c.Height)
		u.Place(p, c.Height/2, c.Width/2)
	case c.Random:
		u = model.NewSized(c.Width, c.Height)
		u.Randomize(g.rng, c.RandomDensity)
	case c.Width == model.DefaultWidth && c.Height == model.DefaultHeight:
		u = model.New()
	default:
		u = model.NewSized(c.Width, c.Height)
		u.FillDefaultPattern()
	}

	u.UsePool(g.pool)
	return u, nil
}

// observe records the current generation and builds the frame to display
func (g *game) observe(lastFrame time.Time, renderer *model.TerminalRenderer) frame {
	living := g.universe.CountLiving()
	g.stats.Update(g.generation, living, time.Since(lastFrame))

	if g.detector.Observe(g.universe) {
		g.stagnant++
	} else {
		g.stagnant = 0
	}

	status := "Active"
	if g.stagnant > 0 {
		status = fmt.Sprintf("Stagnant (%d)", g.stagnant)
	}
	if living == 0 {
		status = "Extinct"
	}

	var board bytes.Buffer
	renderer.Out = &board
	renderer.Display(g.universe)

	f := frame{
		generation: g.generation,
		living:     living,
		board:      board.String(),
	}
	f.header = g.statusLine(f, status)
	return f
}

// checkRestartConditions determines if the game should restart
func (g *game) checkRestartConditions(living int) (bool, string) {
	if len(g.universe.Cells()) == 0 {
		return false, ""
	}
	if living == 0 {
		return true, "extinction"
	}
	if g.config.StagnationThreshold > 0 && g.stagnant >= g.config.StagnationThreshold {
		return true, "stagnation detected"
	}
	return false, ""
}

// restart reseeds the universe, keeping the generation counter running
func (g *game) restart() error {
	u, err := g.seedUniverse()
	if err != nil {
		return err
	}
	if g.config.Pattern == "" && !g.config.Random {
		// the fixed default pattern would replay the same run, so restart
		// from random cells instead
		u.Randomize(g.rng, g.config.RandomDensity)
	}
	g.universe = u
	g.detector.Reset()
	g.stagnant = 0
	g.restartGen = g.generation
	return nil
}

// injectRandomLife adds a few random cells to try to break a cycle
func (g *game) injectRandomLife(count int) {
	w, h := g.universe.Width(), g.universe.Height()
	if w == 0 || h == 0 {
		return
	}
	coords := make([]model.Coord, count)
	for i := range coords {
		coords[i] = model.Coord{Row: uint32(g.rng.Intn(int(h))), Col: uint32(g.rng.Intn(int(w)))}
	}
	g.universe.SetCells(coords...)
}

// statusLine formats the header printed above each frame
func (g *game) statusLine(f frame, status string) string {
	line := fmt.Sprintf(
		"Gen: %d | Living: %d | Status: %s\nPerformance: %.1f gen/sec | Avg Pop: %.1f | Runtime: %.1fs\n",
		f.generation, f.living, status,
		g.stats.GenerationsPerSecond, g.stats.AveragePopulation, g.stats.Runtime().Seconds(),
	)
	if f.generation > g.restartGen {
		line += fmt.Sprintf("Generations since restart: %d\n", f.generation-g.restartGen)
	}
	return line
}

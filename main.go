package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/integrii/flaggy"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/sheikhrachel/go-universe/model"
	"github.com/sheikhrachel/go-universe/utils"
	"github.com/sheikhrachel/go-universe/view"
)

// cliOptions holds flag values; zero values leave the config untouched
type cliOptions struct {
	configPath     string
	width          uint32
	height         uint32
	frameRate      time.Duration
	maxGenerations int
	seed           int64
	pattern        string
	random         bool
	interactive    bool
	noColor        bool
	noRestart      bool
	verbose        bool
}

func parseFlags() cliOptions {
	var o cliOptions

	flaggy.SetName("go-universe")
	flaggy.SetDescription("Conway's Game of Life on a toroidal grid")
	flaggy.DefaultParser.ShowHelpOnUnexpected = true
	flaggy.String(&o.configPath, "c", "config", "Path to a JSON or YAML config file")
	flaggy.UInt32(&o.width, "x", "width", "Width of the universe")
	flaggy.UInt32(&o.height, "y", "height", "Height of the universe")
	flaggy.Duration(&o.frameRate, "i", "interval", "Interval between generations, for example 150ms")
	flaggy.Int(&o.maxGenerations, "g", "generations", "Stop after this many generations")
	flaggy.Int64(&o.seed, "s", "seed", "Seed for random initial states")
	flaggy.String(&o.pattern, "p", "pattern", "Seed with a named pattern ["+strings.Join(model.PatternNames(), "|")+"]")
	flaggy.Bool(&o.random, "r", "random", "Seed with random cells")
	flaggy.Bool(&o.interactive, "n", "interactive", "Start the interactive terminal UI")
	flaggy.Bool(&o.noColor, "", "no-color", "Disable coloured output")
	flaggy.Bool(&o.noRestart, "", "no-restart", "Do not restart on extinction or stagnation")
	flaggy.Bool(&o.verbose, "v", "verbose", "Enable debug logging")
	flaggy.Parse()

	return o
}

// apply overrides config values with the flags that were given
func (o cliOptions) apply(config utils.Config) utils.Config {
	if o.width != 0 {
		config.Width = o.width
	}
	if o.height != 0 {
		config.Height = o.height
	}
	if o.frameRate != 0 {
		config.FrameRate = o.frameRate
	}
	if o.maxGenerations != 0 {
		config.MaxGenerations = o.maxGenerations
	}
	if o.seed != 0 {
		config.Seed = o.seed
	}
	if o.pattern != "" {
		config.Pattern = o.pattern
	}
	if o.random {
		config.Random = true
	}
	if o.interactive {
		config.Interactive = true
	}
	if o.noColor {
		config.Color = false
	}
	if o.noRestart {
		config.AutoRestart = false
	}
	return config
}

func loadConfig(ctx context.Context, o cliOptions) (utils.Config, error) {
	config := utils.DefaultConfig()
	if o.configPath != "" {
		var err error
		if config, err = utils.LoadConfig(o.configPath); err != nil {
			return config, err
		}
		utils.Logger(ctx).Debug("loaded config", "path", o.configPath)
	}

	config = o.apply(config)
	if err := config.Validate(); err != nil {
		return config, errors.Wrap(err, "[loadConfig] invalid flags")
	}
	return config, nil
}

func main() {
	opts := parseFlags()

	level := slog.LevelInfo
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := utils.NewLogger(os.Stderr, level)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = utils.WithLogger(ctx, logger)

	if err := run(ctx, opts, os.Stdout); err != nil {
		logger.Error("simulation failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, opts cliOptions, out io.Writer) error {
	config, err := loadConfig(ctx, opts)
	if err != nil {
		return err
	}

	g, err := newGame(config)
	if err != nil {
		return err
	}

	logger := utils.Logger(ctx)
	logger.Info("universe ready",
		"width", g.universe.Width(),
		"height", g.universe.Height(),
		"living", g.universe.CountLiving(),
		"memory_pool", config.UseMemoryPool,
	)

	if config.Interactive {
		return runInteractive(g, logger)
	}
	return runHeadless(ctx, g, out)
}

func runInteractive(g *game, logger *slog.Logger) error {
	s := view.NewSession(g.universe, g.rng, g.config.RandomDensity)
	ui, err := view.NewConsoleUI(s, g.config.FrameRate, logger)
	if err != nil {
		return err
	}
	return ui.Start()
}

// runHeadless advances the universe on one goroutine and prints frames on
// another. Only the simulation goroutine touches the universe.
func runHeadless(ctx context.Context, g *game, out io.Writer) error {
	var (
		logger   = utils.Logger(ctx)
		frames   = make(chan frame, 1)
		renderer = &model.TerminalRenderer{Color: g.config.Color}
	)

	eg, ctx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		defer close(frames)
		return simulate(ctx, g, renderer, frames)
	})

	eg.Go(func() error {
		display := &model.TerminalRenderer{Out: out}
		for f := range frames {
			display.Clear()
			if _, err := fmt.Fprint(out, f.header, "\n", f.board); err != nil {
				return errors.Wrap(err, "[runHeadless] failed to write frame")
			}
		}
		return nil
	})

	if err := eg.Wait(); err != nil {
		return err
	}

	logger.Info("simulation finished",
		"generations", g.generation,
		"runtime", g.stats.Runtime().Round(time.Millisecond),
		"gen_per_sec", g.stats.GenerationsPerSecond,
		"avg_population", g.stats.AveragePopulation,
	)
	return nil
}

func simulate(ctx context.Context, g *game, renderer *model.TerminalRenderer, frames chan<- frame) error {
	logger := utils.Logger(ctx)
	lastFrame := time.Now()

	for {
		frameStart := time.Now()
		f := g.observe(lastFrame, renderer)
		lastFrame = frameStart

		select {
		case <-ctx.Done():
			return nil
		case frames <- f:
		}

		if g.config.MaxGenerations > 0 && g.generation >= g.config.MaxGenerations {
			logger.Info("reached maximum generations", "limit", g.config.MaxGenerations)
			return nil
		}

		if restart, reason := g.checkRestartConditions(f.living); restart && g.config.AutoRestart {
			logger.Info("restarting", "reason", reason, "generation", g.generation)
			if err := g.restart(); err != nil {
				return err
			}
		} else if g.stagnant >= 2 {
			g.injectRandomLife(g.config.InjectionCount)
		}

		g.universe.Tick()
		g.generation++

		if g.config.FrameRate > 0 {
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(g.config.FrameRate):
			}
		}
	}
}

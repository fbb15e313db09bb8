package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/sheikhrachel/go-gol/driver"
	"github.com/sheikhrachel/go-gol/model"
	"github.com/sheikhrachel/go-gol/utils"
)

const keyCtrlC = 3

// resolveConfig loads the config file, if any, and applies explicitly set flags on top
func resolveConfig(cmd *cobra.Command) (utils.Config, error) {
	flags := cmd.Flags()
	path, _ := flags.GetString("config")

	config, err := utils.LoadConfig(path)
	if err != nil {
		if flags.Changed("config") || !errors.Is(err, os.ErrNotExist) {
			return config, err
		}
		config = utils.DefaultConfig()
	}

	if flags.Changed("size") {
		config.BoardSize, _ = flags.GetInt("size")
	}
	if flags.Changed("cell-size") {
		config.CellSize, _ = flags.GetInt("cell-size")
	}
	if flags.Changed("interval") {
		d, _ := flags.GetDuration("interval")
		config.TickInterval = utils.Duration(d)
	}
	if flags.Changed("seed") {
		config.Seed, _ = flags.GetInt64("seed")
	}
	if flags.Changed("max-generations") {
		config.MaxGenerations, _ = flags.GetInt("max-generations")
	}
	if flags.Changed("auto-restart") {
		config.AutoRestart, _ = flags.GetBool("auto-restart")
	}
	if flags.Changed("stagnation-threshold") {
		config.StagnationThreshold, _ = flags.GetInt("stagnation-threshold")
	}
	if flags.Changed("pool") {
		config.UseMemoryPool, _ = flags.GetBool("pool")
	}
	if flags.Changed("log-level") {
		config.LogLevel, _ = flags.GetString("log-level")
	}

	if err := config.Validate(); err != nil {
		return config, err
	}
	return config, nil
}

// initializeGame sets up the session and loop for a validated config
func initializeGame(config utils.Config, out io.Writer, logger *slog.Logger) (*driver.Loop, *utils.Metrics, error) {
	metrics := utils.NewMetrics()
	opts := []driver.SessionOption{
		driver.WithSeed(config.Seed),
		driver.WithLogger(logger),
		driver.WithMetrics(metrics),
	}
	if config.UseMemoryPool {
		opts = append(opts, driver.WithPool(model.NewBoardPool()))
	}

	session, err := driver.NewSession(config.BoardSize, opts...)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "[initializeGame] board size: %d", config.BoardSize)
	}

	screen := newScreen(model.NewTerminalRenderer(out, config.CellSize))
	loop := driver.NewLoop(session, screen, driver.LoopConfigFrom(config), logger)
	return loop, metrics, nil
}

// runGame drives the loop until quit, interrupt or the generation limit
func runGame(ctx context.Context, config utils.Config, in *os.File, out io.Writer) error {
	level, err := utils.ParseLevel(config.LogLevel)
	if err != nil {
		return err
	}
	logger := utils.NewLogger(level)

	restore, raw := enableRawMode(in, logger)
	defer restore()
	if raw {
		out = crlfWriter{w: out}
	}

	loop, metrics, err := initializeGame(config, out, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("starting", "size", config.BoardSize, "interval", config.TickInterval.String(), "seed", config.Seed)

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		defer stop()
		return loop.Run(ctx)
	})
	eg.Go(func() error {
		return forwardKeys(ctx, readKeys(in), loop)
	})
	err = eg.Wait()

	restore()
	stats := loop.Stats()
	fmt.Fprintf(out, "Final stats: %d generations, %d resets in %.1f seconds\n",
		stats.TotalGenerations, stats.Resets, stats.Runtime().Seconds())
	fmt.Fprintf(out, "Performance: %.1f gen/sec | Avg Pop: %.1f | Runtime: %.1fs\n",
		stats.GenerationsPerSecond, stats.AveragePopulation, stats.Runtime().Seconds())
	if summary, serr := metrics.Summary(); serr == nil {
		logger.Info("final metrics", "metrics", summary)
	}
	return err
}

// enableRawMode puts a terminal into raw mode so single key presses arrive unbuffered
func enableRawMode(in *os.File, logger *slog.Logger) (func(), bool) {
	fd := int(in.Fd())
	if !term.IsTerminal(fd) {
		return func() {}, false
	}
	state, err := term.MakeRaw(fd)
	if err != nil {
		logger.Warn("keyboard controls unavailable", "error", err)
		return func() {}, false
	}
	restored := false
	return func() {
		if restored {
			return
		}
		restored = true
		if err := term.Restore(fd, state); err != nil {
			logger.Warn("failed to restore terminal", "error", err)
		}
	}, true
}

// crlfWriter translates line feeds for terminals in raw mode, where output post-processing is off
type crlfWriter struct {
	w io.Writer
}

func (c crlfWriter) Write(p []byte) (int, error) {
	if _, err := c.w.Write(bytes.ReplaceAll(p, []byte("\n"), []byte("\r\n"))); err != nil {
		return 0, err
	}
	return len(p), nil
}

// readKeys streams bytes from r until it fails. The goroutine is left blocked in Read at exit.
func readKeys(r io.Reader) <-chan byte {
	keys := make(chan byte)
	go func() {
		defer close(keys)
		buf := make([]byte, 1)
		for {
			n, err := r.Read(buf)
			if n == 1 {
				keys <- buf[0]
			}
			if err != nil {
				return
			}
		}
	}()
	return keys
}

// commandForKey maps a key press to a loop command
func commandForKey(key byte) (driver.Command, bool) {
	switch key {
	case 'r', 'R':
		return driver.CommandReset, true
	case 'q', 'Q', keyCtrlC:
		return driver.CommandQuit, true
	default:
		return 0, false
	}
}

// forwardKeys delivers key presses to the loop until ctx is done or input closes
func forwardKeys(ctx context.Context, keys <-chan byte, loop *driver.Loop) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case key, ok := <-keys:
			if !ok {
				return nil
			}
			if cmd, ok := commandForKey(key); ok {
				loop.Send(cmd)
			}
		}
	}
}

// screen clears the terminal and draws the board with a status line
type screen struct {
	renderer *model.TerminalRenderer
}

func newScreen(renderer *model.TerminalRenderer) *screen {
	return &screen{renderer: renderer}
}

// Render implements driver.Renderer
func (s *screen) Render(snap driver.Snapshot) error {
	s.renderer.Clear()
	if err := s.renderer.Display(snap.Board); err != nil {
		return err
	}
	displayGameStatus(s.renderer, snap)
	return nil
}

// displayGameStatus shows the current game status
func displayGameStatus(r *model.TerminalRenderer, snap driver.Snapshot) {
	status := "Active"
	switch {
	case snap.Board.LiveCount() == 0:
		status = "Extinct"
	case snap.Stagnant:
		status = "Stagnant"
	}
	r.Printf("Gen: %d | Living: %d | Density: %.1f%% | Status: %s\n",
		snap.Generation, snap.Board.LiveCount(), snap.Board.Density()*100, status)
	r.Printf("r: reset | q: quit\n")
}

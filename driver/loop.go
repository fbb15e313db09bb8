package driver

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/sheikhrachel/go-gol/utils"
)

// Command is a user action delivered to a running Loop
type Command int

const (
	CommandReset Command = iota + 1
	CommandQuit
)

// Restart reasons reported to the session and metrics
const (
	ReasonManual     = "manual"
	ReasonExtinction = "extinction"
	ReasonStagnation = "stagnation"
)

// Renderer draws a generation. It is called synchronously from the loop.
type Renderer interface {
	Render(Snapshot) error
}

// RendererFunc adapts a function to Renderer
type RendererFunc func(Snapshot) error

func (f RendererFunc) Render(s Snapshot) error { return f(s) }

// LoopConfig holds the loop cadence and restart policy
type LoopConfig struct {
	Interval            time.Duration
	MaxGenerations      int
	AutoRestart         bool
	StagnationThreshold int
}

// LoopConfigFrom extracts the loop settings from the game configuration
func LoopConfigFrom(c utils.Config) LoopConfig {
	return LoopConfig{
		Interval:            time.Duration(c.TickInterval),
		MaxGenerations:      c.MaxGenerations,
		AutoRestart:         c.AutoRestart,
		StagnationThreshold: c.StagnationThreshold,
	}
}

// Loop alternates computing the next generation and rendering it. The timer is
// rearmed only after a render completes, so the period does not include step time.
type Loop struct {
	session  *Session
	renderer Renderer
	config   LoopConfig
	logger   *slog.Logger
	stats    *utils.Stats

	commands chan Command
	quit     chan struct{}
	quitOnce sync.Once

	stagnantCount int
	total         int
}

// NewLoop wires a session to a renderer
func NewLoop(session *Session, renderer Renderer, config LoopConfig, logger *slog.Logger) *Loop {
	if logger == nil {
		logger = utils.NewNopLogger()
	}
	if config.Interval <= 0 {
		config.Interval = utils.DefaultTickInterval
	}
	return &Loop{
		session:  session,
		renderer: renderer,
		config:   config,
		logger:   logger,
		stats:    utils.NewStats(),
		commands: make(chan Command, 1),
		quit:     make(chan struct{}),
	}
}

// Stats returns the loop's performance counters. Read only after Run returns.
func (l *Loop) Stats() *utils.Stats {
	return l.stats
}

// Reset asks the loop to replace the board. Extra requests while one is pending are dropped.
func (l *Loop) Reset() {
	l.send(CommandReset)
}

// Quit asks the loop to stop after the current tick
func (l *Loop) Quit() {
	l.send(CommandQuit)
}

// Send delivers a command without blocking
func (l *Loop) Send(cmd Command) {
	l.send(cmd)
}

func (l *Loop) send(cmd Command) {
	if cmd == CommandQuit {
		l.quitOnce.Do(func() { close(l.quit) })
		return
	}
	select {
	case l.commands <- cmd:
	default:
	}
}

// Run renders the current generation and then drives the loop until ctx is done,
// a quit command arrives or MaxGenerations is reached. Cancellation is not an error.
func (l *Loop) Run(ctx context.Context) error {
	if err := l.render(l.session.Current()); err != nil {
		return err
	}

	timer := time.NewTimer(l.config.Interval)
	defer timer.Stop()

	lastFrame := time.Now()
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("loop stopped", "generations", l.total)
			return nil

		case <-l.quit:
			l.logger.Info("quit requested", "generations", l.total)
			return nil

		case cmd := <-l.commands:
			if cmd != CommandReset {
				continue
			}
			if err := l.reset(ReasonManual); err != nil {
				return err
			}
			// drop the pending repaint of the old generation
			timer.Reset(l.config.Interval)

		case <-timer.C:
			frameStart := time.Now()
			snap, installed := l.session.Advance()
			restarted := false
			if installed {
				l.total++
				l.stats.Update(l.total, snap.Board.LiveCount(), frameStart.Sub(lastFrame))
				if reason, restart := l.checkRestart(snap); restart {
					// reset renders the replacement board itself
					if err := l.reset(reason); err != nil {
						return err
					}
					restarted = true
				}
			}
			lastFrame = frameStart

			if !restarted {
				if err := l.render(snap); err != nil {
					return err
				}
			}
			if l.config.MaxGenerations > 0 && l.total >= l.config.MaxGenerations {
				l.logger.Info("reached maximum generations", "max", l.config.MaxGenerations)
				return nil
			}
			timer.Reset(l.config.Interval)
		}
	}
}

func (l *Loop) reset(reason string) error {
	snap, err := l.session.Reset(reason)
	if err != nil {
		return errors.Wrapf(err, "[Loop.reset] reason: %s", reason)
	}
	l.stats.Resets++
	l.stagnantCount = 0
	return l.render(snap)
}

func (l *Loop) render(snap Snapshot) error {
	if err := l.renderer.Render(snap); err != nil {
		return errors.Wrapf(err, "[Loop.render] generation: %d", snap.Generation)
	}
	return nil
}

// checkRestart determines if the board should be replaced automatically
func (l *Loop) checkRestart(snap Snapshot) (string, bool) {
	if snap.Stagnant {
		l.stagnantCount++
	} else {
		l.stagnantCount = 0
	}
	if !l.config.AutoRestart {
		return "", false
	}
	if snap.Board.LiveCount() == 0 {
		return ReasonExtinction, true
	}
	if l.stagnantCount >= l.config.StagnationThreshold {
		return ReasonStagnation, true
	}
	return "", false
}

package driver

import (
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/sheikhrachel/go-gol/model"
	"github.com/sheikhrachel/go-gol/utils"
)

// historySize is how many recent board hashes are kept for cycle detection
const historySize = 5

// Snapshot is the generation a renderer should draw
type Snapshot struct {
	Board      *model.Board
	Generation int
	Epoch      uint64
	Stagnant   bool
}

// Session owns the current generation. Reset and Current may be called from any
// goroutine; a reset always wins over an advance computed from the replaced board.
// Advance must only be called from one goroutine at a time (the Loop).
//
// When a pool is configured, a board returned by Current or Advance stays valid until the
// second Advance after it was replaced.
type Session struct {
	mu sync.Mutex

	size    int
	rng     *rand.Rand
	pool    *model.BoardPool
	logger  *slog.Logger
	metrics *utils.Metrics
	step    func(*model.Board, *model.BoardPool) *model.Board

	board      *model.Board
	retired    *model.Board
	epoch      uint64
	generation int
	history    []string
	stagnant   bool
}

// SessionOption configures a Session
type SessionOption func(*Session)

// WithSeed makes board randomization reproducible. Zero means a fresh random seed.
func WithSeed(seed int64) SessionOption {
	return func(s *Session) { s.rng = model.NewRNG(seed) }
}

// WithPool recycles retired boards through pool
func WithPool(pool *model.BoardPool) SessionOption {
	return func(s *Session) { s.pool = pool }
}

// WithLogger sets the session logger
func WithLogger(logger *slog.Logger) SessionOption {
	return func(s *Session) { s.logger = logger }
}

// WithMetrics records steps and resets on m
func WithMetrics(m *utils.Metrics) SessionOption {
	return func(s *Session) { s.metrics = m }
}

// NewSession creates a session holding a freshly randomized board
func NewSession(size int, opts ...SessionOption) (*Session, error) {
	s := &Session{
		size:   size,
		logger: utils.NewNopLogger(),
		step:   model.Step,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = model.NewRNG(0)
	}

	board, err := model.Randomize(size, s.rng)
	if err != nil {
		return nil, err
	}
	s.board = board
	return s, nil
}

// Current returns the generation currently installed
func (s *Session) Current() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

func (s *Session) snapshot() Snapshot {
	return Snapshot{Board: s.board, Generation: s.generation, Epoch: s.epoch, Stagnant: s.stagnant}
}

// Advance computes the next generation and installs it. It reports false when a reset
// replaced the board while the generation was being computed; the result is then dropped.
func (s *Session) Advance() (Snapshot, bool) {
	s.mu.Lock()
	cur, epoch := s.board, s.epoch
	s.mu.Unlock()

	start := time.Now()
	next := s.step(cur, s.pool)
	took := time.Since(start)

	s.mu.Lock()
	defer s.mu.Unlock()

	if epoch != s.epoch || cur != s.board {
		s.logger.Debug("discarding generation computed from a replaced board",
			"epoch", epoch, "current_epoch", s.epoch)
		s.metrics.ObserveDiscard()
		model.BoardToPool(next, s.pool)
		return s.snapshot(), false
	}

	model.BoardToPool(s.retired, s.pool)
	s.retired = cur
	s.board = next
	s.generation++
	s.updateHistory()

	s.metrics.ObserveStep(next.LiveCount(), took)
	return s.snapshot(), true
}

// Reset replaces the current generation with a new random board
func (s *Session) Reset(reason string) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	board, err := model.Randomize(s.size, s.rng)
	if err != nil {
		return s.snapshot(), err
	}
	s.board = board
	s.retired = nil
	s.epoch++
	s.generation = 0
	s.history = nil
	s.stagnant = false

	population := board.LiveCount()
	s.metrics.ObserveReset(reason, population)
	s.logger.Info("board reset", "reason", reason, "epoch", s.epoch, "population", population)
	return s.snapshot(), nil
}

// updateHistory checks the new board against recent states and records it
func (s *Session) updateHistory() {
	hash := s.board.Hash()

	s.stagnant = false
	for i := len(s.history) - 1; i >= 0 && i >= len(s.history)-3; i-- {
		if s.history[i] == hash {
			s.stagnant = true
			break
		}
	}

	s.history = append(s.history, hash)
	if len(s.history) > historySize {
		s.history = s.history[1:]
	}
}

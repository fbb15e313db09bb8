package model

import (
	"crypto/md5"
	"fmt"
	"math/rand/v2"

	"github.com/pkg/errors"

	"github.com/sheikhrachel/go-gol/rules"
)

var (
	// ErrInvalidSize is returned when a board dimension is not positive
	ErrInvalidSize = errors.New("board size must be positive")
	// ErrCellCount is returned when a cell buffer does not hold exactly N*N values
	ErrCellCount = errors.New("cell count does not match board size")
	// ErrCellValue is returned when a cell buffer holds a non-binary value
	ErrCellValue = errors.New("cell value is not binary")
)

// Board is one generation of an N x N toroidal grid, stored flat in row-major order.
// A Board is never modified after it has been handed out.
type Board struct {
	size  int
	cells []rules.CellState
}

// NewBoard returns an all-dead board of the given dimension
func NewBoard(size int) (*Board, error) {
	if size <= 0 {
		return nil, errors.Wrapf(ErrInvalidSize, "[NewBoard] size: %d", size)
	}
	return &Board{size: size, cells: make([]rules.CellState, size*size)}, nil
}

// FromCells builds a board from a row-major cell buffer. The buffer is copied.
func FromCells(size int, cells []rules.CellState) (*Board, error) {
	b, err := NewBoard(size)
	if err != nil {
		return nil, err
	}
	if len(cells) != size*size {
		return nil, errors.Wrapf(ErrCellCount, "[FromCells] got %d cells for size %d", len(cells), size)
	}
	for i, c := range cells {
		if !c.Valid() {
			return nil, errors.Wrapf(ErrCellValue, "[FromCells] index %d holds %d", i, c)
		}
	}
	copy(b.cells, cells)
	return b, nil
}

// Randomize returns a board where every cell is independently alive with probability 0.5
func Randomize(size int, rng *rand.Rand) (*Board, error) {
	b, err := NewBoard(size)
	if err != nil {
		return nil, err
	}
	for i := range b.cells {
		b.cells[i] = rules.CellState(rng.IntN(2))
	}
	return b, nil
}

// NewRNG returns a PCG-backed generator. A zero seed draws both PCG words from the
// runtime's random source.
func NewRNG(seed int64) *rand.Rand {
	if seed == 0 {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return rand.New(rand.NewPCG(uint64(seed), 0))
}

// CreateInitialBoard is the startup and reset entry point for hosts
func CreateInitialBoard(size int) (*Board, error) {
	return Randomize(size, NewRNG(0))
}

// Size returns the board dimension N
func (b *Board) Size() int {
	return b.size
}

// Index maps (row, col) to the linear cell index. Coordinates must already be in [0, N).
func (b *Board) Index(row, col int) int {
	return row*b.size + col
}

// Wrap reduces arbitrary coordinates onto the torus
func (b *Board) Wrap(row, col int) (int, int) {
	row = (row%b.size + b.size) % b.size
	col = (col%b.size + b.size) % b.size
	return row, col
}

// Get returns the state at (row, col). Coordinates must already be in [0, N).
func (b *Board) Get(row, col int) rules.CellState {
	return b.cells[b.Index(row, col)]
}

// Alive reports whether (row, col) holds a live cell
func (b *Board) Alive(row, col int) bool {
	return b.Get(row, col) == rules.Alive
}

// Cells returns a copy of the row-major cell buffer
func (b *Board) Cells() []rules.CellState {
	out := make([]rules.CellState, len(b.cells))
	copy(out, b.cells)
	return out
}

// LiveCount returns the total number of living cells
func (b *Board) LiveCount() (count int) {
	for _, c := range b.cells {
		if c == rules.Alive {
			count++
		}
	}
	return
}

// Density returns the live fraction of the board
func (b *Board) Density() float64 {
	return float64(b.LiveCount()) / float64(len(b.cells))
}

// Equal reports whether two boards have the same size and cells
func (b *Board) Equal(other *Board) bool {
	if b == nil || other == nil {
		return b == other
	}
	if b.size != other.size {
		return false
	}
	for i := range b.cells {
		if b.cells[i] != other.cells[i] {
			return false
		}
	}
	return true
}

// Hash returns an MD5 digest of the cell buffer
func (b *Board) Hash() string {
	h := md5.New()
	buf := make([]byte, len(b.cells))
	for i, c := range b.cells {
		buf[i] = byte(c)
	}
	h.Write(buf)
	return fmt.Sprintf("%x", h.Sum(nil))
}

// Builder is a mutable scratch board. Board() freezes it; the builder must not be used afterwards.
type Builder struct {
	board *Board
}

// NewBuilder returns a builder over an all-dead board
func NewBuilder(size int) (*Builder, error) {
	b, err := NewBoard(size)
	if err != nil {
		return nil, err
	}
	return &Builder{board: b}, nil
}

// Set assigns a cell, wrapping coordinates onto the torus
func (bl *Builder) Set(row, col int, state rules.CellState) {
	row, col = bl.board.Wrap(row, col)
	bl.board.cells[bl.board.Index(row, col)] = state
}

// SetAlive marks every (row, col) pair alive
func (bl *Builder) SetAlive(coords ...[2]int) {
	for _, rc := range coords {
		bl.Set(rc[0], rc[1], rules.Alive)
	}
}

// Board returns the finished board
func (bl *Builder) Board() *Board {
	b := bl.board
	bl.board = nil
	return b
}

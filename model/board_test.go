package model

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sheikhrachel/go-gol/rules"
)

func TestNewBoardRejectsNonPositiveSize(t *testing.T) {
	for _, size := range []int{0, -1, -25} {
		_, err := NewBoard(size)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalidSize), "size %d", size)

		_, err = CreateInitialBoard(size)
		assert.True(t, errors.Is(err, ErrInvalidSize), "size %d", size)
	}
}

func TestFromCells(t *testing.T) {
	b, err := FromCells(2, []rules.CellState{rules.Alive, rules.Dead, rules.Dead, rules.Alive})
	require.NoError(t, err)
	assert.Equal(t, rules.Alive, b.Get(0, 0))
	assert.Equal(t, rules.Dead, b.Get(0, 1))
	assert.Equal(t, rules.Alive, b.Get(1, 1))
	assert.Equal(t, 2, b.LiveCount())

	_, err = FromCells(2, []rules.CellState{rules.Alive})
	assert.True(t, errors.Is(err, ErrCellCount))

	_, err = FromCells(1, []rules.CellState{7})
	assert.True(t, errors.Is(err, ErrCellValue))
}

func TestIndexAndWrap(t *testing.T) {
	b, err := NewBoard(5)
	require.NoError(t, err)

	assert.Equal(t, 0, b.Index(0, 0))
	assert.Equal(t, 7, b.Index(1, 2))
	assert.Equal(t, 24, b.Index(4, 4))

	r, c := b.Wrap(-1, 5)
	assert.Equal(t, 4, r)
	assert.Equal(t, 0, c)

	r, c = b.Wrap(-11, 12)
	assert.Equal(t, 4, r)
	assert.Equal(t, 2, c)
}

func TestCellsReturnsCopy(t *testing.T) {
	b, err := NewBoard(3)
	require.NoError(t, err)

	cells := b.Cells()
	cells[0] = rules.Alive
	assert.Equal(t, rules.Dead, b.Get(0, 0))
}

func TestBuilderWrapsCoordinates(t *testing.T) {
	bl, err := NewBuilder(4)
	require.NoError(t, err)
	bl.SetAlive([2]int{-1, -1}, [2]int{4, 1})
	b := bl.Board()

	assert.True(t, b.Alive(3, 3))
	assert.True(t, b.Alive(0, 1))
	assert.Equal(t, 2, b.LiveCount())
}

func TestRandomizeDensity(t *testing.T) {
	const (
		size   = 50
		trials = 20
	)
	rng := NewRNG(42)
	live := 0
	for range trials {
		b, err := Randomize(size, rng)
		require.NoError(t, err)
		require.Equal(t, size, b.Size())
		live += b.LiveCount()
	}
	frac := float64(live) / float64(trials*size*size)
	assert.InDelta(t, 0.5, frac, 0.02)
}

func TestCreateInitialBoardDensity(t *testing.T) {
	b, err := CreateInitialBoard(50)
	require.NoError(t, err)
	assert.Equal(t, 50, b.Size())
	assert.InDelta(t, 0.5, b.Density(), 0.05)
	for _, c := range b.Cells() {
		require.True(t, c.Valid())
	}
}

func TestCreateInitialBoardDrawsFreshSeeds(t *testing.T) {
	first, err := CreateInitialBoard(50)
	require.NoError(t, err)
	second, err := CreateInitialBoard(50)
	require.NoError(t, err)
	assert.False(t, first.Equal(second), "back-to-back boards were identical")

	assert.NotEqual(t, NewRNG(0).Uint64(), NewRNG(0).Uint64())
}

func TestRandomizeIsReproducibleFromSeed(t *testing.T) {
	a, err := Randomize(25, NewRNG(7))
	require.NoError(t, err)
	b, err := Randomize(25, NewRNG(7))
	require.NoError(t, err)
	assert.True(t, a.Equal(b))
	assert.Equal(t, a.Hash(), b.Hash())
}

func TestEqualAndHash(t *testing.T) {
	a, _ := NewBoard(3)
	b, _ := NewBoard(3)
	c, _ := NewBoard(4)
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal(nil))
	assert.Equal(t, a.Hash(), b.Hash())

	bl, _ := NewBuilder(3)
	bl.Set(1, 1, rules.Alive)
	d := bl.Board()
	assert.False(t, a.Equal(d))
	assert.NotEqual(t, a.Hash(), d.Hash())
}

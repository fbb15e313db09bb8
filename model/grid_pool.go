package model

import (
	"sync"

	"github.com/sheikhrachel/go-gol/rules"
)

// BoardToPool returns a retired board to the pool for reuse
func BoardToPool(board *Board, pool *BoardPool) {
	if pool == nil || board == nil {
		return
	}

	pool.Put(board)
}

// BoardPool recycles cell buffers between generations
type BoardPool struct {
	pool sync.Pool
}

func NewBoardPool() *BoardPool {
	return &BoardPool{
		pool: sync.Pool{
			New: func() interface{} {
				return &Board{}
			},
		},
	}
}

// Get retrieves a cleared builder of the given size
func (p *BoardPool) Get(size int) *Builder {
	b := p.pool.Get().(*Board)
	if cap(b.cells) < size*size {
		b.cells = make([]rules.CellState, size*size)
	} else {
		b.cells = b.cells[:size*size]
		clear(b.cells)
	}
	b.size = size
	return &Builder{board: b}
}

// Put returns a board to the pool. The caller must hold no other reference to it.
func (p *BoardPool) Put(b *Board) {
	p.pool.Put(b)
}

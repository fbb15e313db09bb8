package model

import "github.com/sheikhrachel/go-gol/rules"

// neighborOffsets lists the eight (drow, dcol) offsets around a cell
var neighborOffsets = [8][2]int{
	{-1, -1}, {-1, 0}, {-1, 1},
	{0, -1}, {0, 1},
	{1, -1}, {1, 0}, {1, 1},
}

// CountNeighbors counts living neighbors with toroidal wraparound on row and column
func CountNeighbors(b *Board, row, col int) int {
	count := 0
	for _, off := range neighborOffsets {
		r, c := b.Wrap(row+off[0], col+off[1])
		if b.cells[b.Index(r, c)] == rules.Alive {
			count++
		}
	}
	return count
}

// Step computes the next generation into a fresh board, drawn from pool when one is given.
// The input board is only read.
func Step(b *Board, pool *BoardPool) *Board {
	var next *Builder
	if pool != nil {
		next = pool.Get(b.size)
	} else {
		next = &Builder{board: &Board{size: b.size, cells: make([]rules.CellState, len(b.cells))}}
	}

	for row := range b.size {
		for col := range b.size {
			idx := b.Index(row, col)
			next.board.cells[idx] = rules.ApplyConwayRules(CountNeighbors(b, row, col), b.cells[idx])
		}
	}
	return next.Board()
}

// AdvanceGeneration is the per-tick entry point for hosts
func AdvanceGeneration(b *Board) *Board {
	return Step(b, nil)
}

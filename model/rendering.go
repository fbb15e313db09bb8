package model

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"
)

const (
	gridPosBlock = "██"
	gridPosEmpty = "  "

	liveColor = "#ffffff"
)

// TerminalRenderer draws boards as grids of unit-square marks on a terminal
type TerminalRenderer struct {
	out      *termenv.Output
	cellSize int
}

// NewTerminalRenderer returns a renderer writing to w. Each cell is cellSize marks wide and tall.
func NewTerminalRenderer(w io.Writer, cellSize int, opts ...termenv.OutputOption) *TerminalRenderer {
	if cellSize <= 0 {
		cellSize = 1
	}
	return &TerminalRenderer{out: termenv.NewOutput(w, opts...), cellSize: cellSize}
}

// Frame renders the board into a string, one terminal line per mark row
func (r *TerminalRenderer) Frame(b *Board) string {
	var (
		sb    strings.Builder
		block = r.out.String(strings.Repeat(gridPosBlock, r.cellSize)).
			Foreground(r.out.Color(liveColor)).String()
		empty = strings.Repeat(gridPosEmpty, r.cellSize)
	)
	for row := range b.Size() {
		var line strings.Builder
		for col := range b.Size() {
			if b.Alive(row, col) {
				line.WriteString(block)
			} else {
				line.WriteString(empty)
			}
		}
		line.WriteByte('\n')
		for range r.cellSize {
			sb.WriteString(line.String())
		}
	}
	return sb.String()
}

// Display renders the board to the terminal
func (r *TerminalRenderer) Display(b *Board) error {
	_, err := io.WriteString(r.out, r.Frame(b))
	return err
}

// Clear clears the terminal screen and homes the cursor
func (r *TerminalRenderer) Clear() {
	r.out.ClearScreen()
}

// Printf writes a status line below the board
func (r *TerminalRenderer) Printf(format string, args ...any) {
	fmt.Fprintf(r.out, format, args...)
}

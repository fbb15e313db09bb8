package rules

// CellState is the binary state of one cell
type CellState uint8

const (
	Dead  CellState = 0
	Alive CellState = 1
)

// Valid reports whether the state is one of Dead or Alive
func (c CellState) Valid() bool {
	return c == Dead || c == Alive
}

func (c CellState) String() string {
	if c == Alive {
		return "alive"
	}
	return "dead"
}

/*
ApplyConwayRules applies Conway's Game of Life rules to determine the next state of a cell.

Clauses are checked in order, first match wins:
  - birth: a dead cell with exactly 3 live neighbors comes alive
  - survival: with 2 or 3 live neighbors the cell keeps its state
  - death: with 4 or more, or 1 or fewer, live neighbors the cell dies
*/
func ApplyConwayRules(neighbors int, current CellState) CellState {
	switch {
	case current == Dead && neighbors == 3:
		return Alive
	case neighbors == 2 || neighbors == 3:
		return current
	default:
		return Dead
	}
}

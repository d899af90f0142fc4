package game

import "fmt"

// Board is the 3x3 grid, indexed [row][col].
type Board [Size][Size]PlayerMark

// InBounds reports whether (row, col) addresses a cell of the board.
func InBounds(row, col int) bool {
	return row >= BorderMin && row <= BorderMax && col >= BorderMin && col <= BorderMax
}

// At returns the mark at (row, col).
func (b *Board) At(row, col int) (PlayerMark, error) {
	if !InBounds(row, col) {
		return None, fmt.Errorf("%w: (%d, %d)", ErrInvalidCoordinate, row, col)
	}
	return b[row][col], nil
}

// Set places mark at (row, col).
func (b *Board) Set(row, col int, mark PlayerMark) error {
	if !InBounds(row, col) {
		return fmt.Errorf("%w: (%d, %d)", ErrInvalidCoordinate, row, col)
	}
	b[row][col] = mark
	return nil
}

// IsFull reports whether no cell is empty.
func (b *Board) IsFull() bool {
	return b.Count(None) == 0
}

// Count returns how many cells hold mark.
func (b *Board) Count(mark PlayerMark) int {
	n := 0
	for _, row := range b {
		for _, cell := range row {
			if cell == mark {
				n++
			}
		}
	}
	return n
}

// Symbols returns the board as rendered symbols.
func (b *Board) Symbols() [Size][Size]string {
	var out [Size][Size]string
	for r, row := range b {
		for c, cell := range row {
			out[r][c] = cell.Symbol()
		}
	}
	return out
}

// CheckWinner scans the board in row-major order and returns the first
// completed line it meets. Lines are only followed forward from their
// first cell, so each of the eight lines is tested exactly once. Without a
// line the result is OutcomeTie on a full board and OutcomeNone otherwise.
func CheckWinner(board Board) Outcome {
	filled := true
	checkStart := Size - lineLength
	checkEnd := lineLength - 1

	for x := 0; x < Size; x++ {
		for y := 0; y < Size; y++ {
			cell := board[x][y]
			if cell == None {
				filled = false
				continue
			}

			if x <= checkStart {
				if cell == board[x+1][y] && cell == board[x+2][y] {
					return outcomeOf(cell)
				}
			}

			if y <= checkStart {
				if cell == board[x][y+1] && cell == board[x][y+2] {
					return outcomeOf(cell)
				}
			}

			if x <= checkStart && y <= checkStart {
				if cell == board[x+1][y+1] && cell == board[x+2][y+2] {
					return outcomeOf(cell)
				}
			}
			if x <= checkStart && y >= checkEnd {
				if cell == board[x+1][y-1] && cell == board[x+2][y-2] {
					return outcomeOf(cell)
				}
			}
		}
	}

	if filled {
		return OutcomeTie
	}
	return OutcomeNone
}

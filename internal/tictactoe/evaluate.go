package tictactoe

import "github.com/rocketscienceinc/tictactoe-timetravel/internal/entity"

// Evaluate reports the outcome of a board. The first completed line in
// entity.WinCombos order wins; a full board without a line is a draw.
func Evaluate(board entity.Board) entity.Outcome {
	for _, combo := range entity.WinCombos {
		a, b, c := board[combo[0]], board[combo[1]], board[combo[2]]
		if a != entity.EmptyCell && a == b && b == c {
			return entity.Outcome{
				Kind:   entity.Win,
				Winner: a,
				Line:   combo,
			}
		}
	}

	// the game will continue until all the squares are full
	if !board.IsFull() {
		return entity.Outcome{Kind: entity.InProgress}
	}

	return entity.Outcome{Kind: entity.Draw}
}

package game

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-timetravel/internal/entity"
	"github.com/rocketscienceinc/tictactoe-timetravel/internal/tictactoe"
)

const (
	labelAwaitingFirstMove = "awaiting first move"
	labelViewingStart      = "viewing start"
	labelReturnToStart     = "return to start"
	labelAwaitingNextMove  = "awaiting next move"
	labelDraw              = "game over, draw"
)

// Description is one row of the move list shown next to the board.
// Selectable rows are offered as jump targets, the rest are plain text.
type Description struct {
	Label      string `json:"label"`
	Selectable bool   `json:"selectable"`
	MoveIndex  int    `json:"move"`
}

// Descriptions labels every history entry. Each row is labelled from the
// outcome of its own board.
func (that *Manager) Descriptions() []Description {
	descriptions := make([]Description, 0, len(that.history))

	for move, board := range that.history {
		outcome := tictactoe.Evaluate(board)

		descriptions = append(descriptions, Description{
			Label:      that.describe(move, outcome),
			Selectable: move != that.position && outcome.IsInProgress(),
			MoveIndex:  move,
		})
	}

	return descriptions
}

func (that *Manager) describe(move int, outcome entity.Outcome) string {
	last := len(that.history) - 1

	switch {
	case move == 0 && last == 0:
		return labelAwaitingFirstMove
	case move == 0 && move == that.position:
		return labelViewingStart
	case move == 0:
		return labelReturnToStart
	case outcome.IsWin():
		return fmt.Sprintf("game over, winner %s", outcome.Winner)
	case outcome.IsDraw():
		return labelDraw
	case move == that.position && move == last:
		return labelAwaitingNextMove
	case move == that.position:
		return fmt.Sprintf("viewing move #%d", move)
	default:
		return fmt.Sprintf("return to move #%d", move)
	}
}

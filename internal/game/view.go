package game

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-timetravel/internal/entity"
)

const statusDraw = "Game is a draw!"

// View is everything the presentation layer needs to draw one frame.
type View struct {
	Board       entity.Board  `json:"board"`
	Status      string        `json:"status"`
	Outcome     string        `json:"outcome"`
	Winner      entity.Cell   `json:"winner,omitempty"`
	WinningLine []int         `json:"winning_line,omitempty"`
	NextPlayer  entity.Cell   `json:"next_player,omitempty"`
	Position    int           `json:"position"`
	Moves       []Description `json:"moves"`
}

// BuildView derives the view of the viewed board. Nothing is cached.
func BuildView(manager *Manager) View {
	outcome := manager.Outcome()

	view := View{
		Board:    manager.CurrentSnapshot(),
		Outcome:  outcome.Kind.String(),
		Position: manager.Position(),
		Moves:    manager.Descriptions(),
	}

	if !outcome.IsFinished() {
		view.NextPlayer = manager.NextPlayer()
		view.Status = fmt.Sprintf("Next player: %s", view.NextPlayer)

		return view
	}

	if outcome.IsDraw() {
		view.Status = statusDraw

		return view
	}

	view.Status = fmt.Sprintf("Winner: %s", outcome.Winner)
	view.Winner = outcome.Winner
	view.WinningLine = outcome.Line[:]

	return view
}

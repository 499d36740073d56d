package game

import (
	"testing"

	"github.com/rocketscienceinc/tictactoe-timetravel/internal/entity"
	"github.com/stretchr/testify/assert"
)

func TestBuildView(t *testing.T) {
	t.Run("Game in progress", func(t *testing.T) {
		// Given: a game with one move
		manager := New()
		play(t, manager, 4)

		// When: building the view
		view := BuildView(manager)

		// Then: O is next and nothing is highlighted
		assert.Equal(t, entity.Board{4: x}, view.Board)
		assert.Equal(t, "Next player: O", view.Status)
		assert.Equal(t, "in_progress", view.Outcome)
		assert.Equal(t, o, view.NextPlayer)
		assert.Equal(t, e, view.Winner)
		assert.Nil(t, view.WinningLine)
		assert.Equal(t, 1, view.Position)
		assert.Len(t, view.Moves, 2)
	})

	t.Run("Won game", func(t *testing.T) {
		manager := New()
		play(t, manager, 0, 1, 4, 3, 8)

		view := BuildView(manager)

		assert.Equal(t, "Winner: X", view.Status)
		assert.Equal(t, "win", view.Outcome)
		assert.Equal(t, x, view.Winner)
		assert.Equal(t, []int{0, 4, 8}, view.WinningLine)
		assert.Equal(t, e, view.NextPlayer)
	})

	t.Run("Drawn game", func(t *testing.T) {
		manager := New()
		play(t, manager, 0, 1, 2, 4, 3, 5, 7, 6, 8)

		view := BuildView(manager)

		assert.Equal(t, "Game is a draw!", view.Status)
		assert.Equal(t, "draw", view.Outcome)
		assert.Equal(t, e, view.NextPlayer)
	})

	t.Run("Won game viewed from an earlier move", func(t *testing.T) {
		// Given: X has won and move 2 is viewed
		manager := New()
		play(t, manager, 0, 1, 4, 3, 8)
		manager.JumpTo(2)

		// When: building the view
		view := BuildView(manager)

		// Then: the view describes the viewed board, not the final one
		assert.Equal(t, entity.Board{x, o}, view.Board)
		assert.Equal(t, "Next player: X", view.Status)
		assert.Nil(t, view.WinningLine)
	})
}

package game

import (
	"errors"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-timetravel/internal/entity"
	"github.com/rocketscienceinc/tictactoe-timetravel/internal/tictactoe"
)

var (
	ErrEmptyHistory     = errors.New("history is empty")
	ErrCorruptedHistory = errors.New("history is corrupted")
	ErrInvalidPosition  = errors.New("position is out of history range")
)

// Manager owns the move history of one game and the position being viewed.
// It is not safe for concurrent use.
type Manager struct {
	history  []entity.Board
	position int
}

// New returns a manager holding only the empty board.
func New() *Manager {
	return &Manager{
		history:  []entity.Board{{}},
		position: 0,
	}
}

// Restore rebuilds a manager from a stored history, checking that every entry
// follows from the previous one by a single legal move.
func Restore(history []entity.Board, position int) (*Manager, error) {
	if len(history) == 0 {
		return nil, ErrEmptyHistory
	}

	if err := validateHistory(history); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptedHistory, err)
	}

	if position < 0 || position >= len(history) {
		return nil, fmt.Errorf("%w: %d of %d", ErrInvalidPosition, position, len(history))
	}

	restored := make([]entity.Board, len(history))
	copy(restored, history)

	return &Manager{
		history:  restored,
		position: position,
	}, nil
}

// SubmitMove plays the next mark into cell from the viewed position. Entries
// after the position are discarded. Moves on a decided board, into an
// occupied cell or outside the board are ignored and false is returned.
func (that *Manager) SubmitMove(cell int) bool {
	if !entity.IsValidCell(cell) {
		return false
	}

	current := that.CurrentSnapshot()

	if tictactoe.Evaluate(current).IsWin() || current[cell] != entity.EmptyCell {
		return false
	}

	next := current.With(cell, entity.PlayerForMove(that.position))

	history := make([]entity.Board, that.position+2)
	copy(history, that.history[:that.position+1])
	history[that.position+1] = next

	that.history = history
	that.position = len(history) - 1

	return true
}

// JumpTo moves the viewed position without touching the history.
func (that *Manager) JumpTo(move int) bool {
	if move < 0 || move >= len(that.history) {
		return false
	}

	that.position = move

	return true
}

func (that *Manager) CurrentSnapshot() entity.Board {
	return that.history[that.position]
}

// Outcome evaluates the viewed board.
func (that *Manager) Outcome() entity.Outcome {
	return tictactoe.Evaluate(that.CurrentSnapshot())
}

func (that *Manager) Position() int {
	return that.position
}

func (that *Manager) Len() int {
	return len(that.history)
}

// NextPlayer returns the mark to move from the viewed position.
func (that *Manager) NextPlayer() entity.Cell {
	return entity.PlayerForMove(that.position)
}

// Snapshot returns a copy of the history and the viewed position.
func (that *Manager) Snapshot() ([]entity.Board, int) {
	history := make([]entity.Board, len(that.history))
	copy(history, that.history)

	return history, that.position
}

func validateHistory(history []entity.Board) error {
	if !history[0].IsEmpty() {
		return errors.New("first entry is not the empty board")
	}

	for move := 1; move < len(history); move++ {
		prev, next := history[move-1], history[move]

		if tictactoe.Evaluate(prev).IsWin() {
			return fmt.Errorf("move %d follows a decided board", move)
		}

		changed := -1
		for cell := range next {
			if prev[cell] == next[cell] {
				continue
			}

			if changed != -1 || prev[cell] != entity.EmptyCell {
				return fmt.Errorf("move %d is not a single placement", move)
			}

			changed = cell
		}

		if changed == -1 {
			return fmt.Errorf("move %d does not change the board", move)
		}

		if next[changed] != entity.PlayerForMove(move-1) {
			return fmt.Errorf("move %d played out of turn", move)
		}
	}

	return nil
}

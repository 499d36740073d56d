package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/tictactoe-timetravel/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-timetravel/internal/entity"
	"github.com/rocketscienceinc/tictactoe-timetravel/internal/game"
	"github.com/rocketscienceinc/tictactoe-timetravel/internal/pkg"
)

type sessionRepo interface {
	CreateOrUpdate(ctx context.Context, session *entity.Session) error
	GetByID(ctx context.Context, id string) (*entity.Session, error)
	DeleteByID(ctx context.Context, id string) error
}

// SessionManager forwards user actions to the game of a session and keeps
// the resulting state in the repository. Actions on one session are applied
// one at a time within the process.
type SessionManager struct {
	logger      *slog.Logger
	sessionRepo sessionRepo
	locks       *sessionLocks
}

func NewSessionManager(logger *slog.Logger, sessionRepo sessionRepo) *SessionManager {
	return &SessionManager{
		logger: logger.With("component", "session_manager"),

		sessionRepo: sessionRepo,
		locks:       newSessionLocks(),
	}
}

// GetOrCreateSession returns the session with the given id or starts a new
// game under a fresh id when the id is empty or unknown.
func (that *SessionManager) GetOrCreateSession(ctx context.Context, id string) (*entity.Session, game.View, error) {
	if id != "" {
		session, manager, err := that.loadSession(ctx, id)
		if err == nil {
			return session, game.BuildView(manager), nil
		}

		if !errors.Is(err, apperror.ErrSessionNotFound) {
			return nil, game.View{}, err
		}
	}

	session, manager, err := that.createSession(ctx)
	if err != nil {
		return nil, game.View{}, err
	}

	return session, game.BuildView(manager), nil
}

// SubmitMove plays the next mark into cell. Rejected moves leave the session
// untouched and return its current view.
func (that *SessionManager) SubmitMove(ctx context.Context, id string, cell int) (game.View, error) {
	log := that.logger.With("method", "SubmitMove", "sessionID", id, "cell", cell)

	return that.apply(ctx, id, func(manager *game.Manager) bool {
		if !manager.SubmitMove(cell) {
			log.Debug("move ignored")
			return false
		}

		log.Debug("move accepted", "position", manager.Position())
		return true
	})
}

// JumpTo changes the viewed move of the session.
func (that *SessionManager) JumpTo(ctx context.Context, id string, move int) (game.View, error) {
	log := that.logger.With("method", "JumpTo", "sessionID", id, "move", move)

	return that.apply(ctx, id, func(manager *game.Manager) bool {
		if !manager.JumpTo(move) {
			log.Debug("jump ignored")
			return false
		}

		return true
	})
}

func (that *SessionManager) GetView(ctx context.Context, id string) (game.View, error) {
	_, manager, err := that.loadSession(ctx, id)
	if err != nil {
		return game.View{}, err
	}

	return game.BuildView(manager), nil
}

// LeaveSession drops the session. Leaving an unknown session is not an error.
func (that *SessionManager) LeaveSession(ctx context.Context, id string) error {
	if id == "" {
		return apperror.ErrSessionRequired
	}

	unlock := that.locks.lock(id)
	defer unlock()

	if err := that.sessionRepo.DeleteByID(ctx, id); err != nil && !errors.Is(err, apperror.ErrSessionNotFound) {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	that.logger.Info("session closed", "sessionID", id)

	return nil
}

func (that *SessionManager) apply(ctx context.Context, id string, action func(*game.Manager) bool) (game.View, error) {
	unlock := that.locks.lock(id)
	defer unlock()

	session, manager, err := that.loadSession(ctx, id)
	if err != nil {
		return game.View{}, err
	}

	if action(manager) {
		session.History, session.Position = manager.Snapshot()

		if err = that.updateSession(ctx, session); err != nil {
			return game.View{}, err
		}
	}

	return game.BuildView(manager), nil
}

func (that *SessionManager) createSession(ctx context.Context) (*entity.Session, *game.Manager, error) {
	manager := game.New()
	history, position := manager.Snapshot()

	session := &entity.Session{
		ID:       pkg.GenerateNewSessionID(),
		History:  history,
		Position: position,
	}

	if err := that.updateSession(ctx, session); err != nil {
		return nil, nil, fmt.Errorf("failed to create session: %w", err)
	}

	that.logger.Info("session created", "sessionID", session.ID)

	return session, manager, nil
}

func (that *SessionManager) loadSession(ctx context.Context, id string) (*entity.Session, *game.Manager, error) {
	if id == "" {
		return nil, nil, apperror.ErrSessionRequired
	}

	session, err := that.sessionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get session: %w", err)
	}

	manager, err := game.Restore(session.History, session.Position)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to restore session %s: %w", id, err)
	}

	return session, manager, nil
}

func (that *SessionManager) updateSession(ctx context.Context, session *entity.Session) error {
	if err := that.sessionRepo.CreateOrUpdate(ctx, session); err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}

	return nil
}

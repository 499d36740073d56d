package websocket

import (
	"context"
	"errors"

	"github.com/rocketscienceinc/tictactoe-timetravel/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-timetravel/internal/game"
)

// handleConnect - resumes the session of the connection cookie, or starts a
// new one after a leave. The payload is ignored, so a client can only reach
// the session its cookie names.
func (that *Server) handleConnect(ctx context.Context, c *client, msg *Message) error {
	log := that.logger.With("method", "handleConnect")

	session, view, err := that.uSession.GetOrCreateSession(ctx, c.sessionID)
	if err != nil {
		log.Error("failed to get or create session", "error", err)
		return that.sendError(ctx, c, msg.Action, "failed to open session")
	}

	c.sessionID = session.ID

	log.Info("successfully connected session", "sessionID", session.ID)

	return that.sendView(ctx, c, msg.Action, view)
}

func (that *Server) handleGameMove(ctx context.Context, c *client, msg *Message) error {
	log := that.logger.With("method", "handleGameMove", "sessionID", c.sessionID)

	payloadReq, err := msg.decodePayload()
	if err != nil || payloadReq.Cell == nil {
		log.Warn("cell is missing in payload")
		return that.sendError(ctx, c, msg.Action, "cell is required")
	}

	view, err := that.uSession.SubmitMove(ctx, c.sessionID, *payloadReq.Cell)
	if err != nil {
		return that.sendActionError(ctx, c, msg.Action, err)
	}

	return that.sendView(ctx, c, msg.Action, view)
}

func (that *Server) handleGameJump(ctx context.Context, c *client, msg *Message) error {
	log := that.logger.With("method", "handleGameJump", "sessionID", c.sessionID)

	payloadReq, err := msg.decodePayload()
	if err != nil || payloadReq.Move == nil {
		log.Warn("move is missing in payload")
		return that.sendError(ctx, c, msg.Action, "move is required")
	}

	view, err := that.uSession.JumpTo(ctx, c.sessionID, *payloadReq.Move)
	if err != nil {
		return that.sendActionError(ctx, c, msg.Action, err)
	}

	return that.sendView(ctx, c, msg.Action, view)
}

func (that *Server) handleGameState(ctx context.Context, c *client, msg *Message) error {
	view, err := that.uSession.GetView(ctx, c.sessionID)
	if err != nil {
		return that.sendActionError(ctx, c, msg.Action, err)
	}

	return that.sendView(ctx, c, msg.Action, view)
}

func (that *Server) handleGameLeave(ctx context.Context, c *client, msg *Message) error {
	log := that.logger.With("method", "handleGameLeave", "sessionID", c.sessionID)

	if err := that.uSession.LeaveSession(ctx, c.sessionID); err != nil {
		return that.sendActionError(ctx, c, msg.Action, err)
	}

	sessionID := c.sessionID
	c.sessionID = ""

	log.Info("session left")

	return that.sendMessage(ctx, c, msg.Action, ResponsePayload{SessionID: sessionID})
}

func (that *Server) sendView(ctx context.Context, c *client, action string, view game.View) error {
	return that.sendMessage(ctx, c, action, ResponsePayload{
		SessionID: c.sessionID,
		View:      &view,
	})
}

// sendActionError reports a failed action to the client. Missing sessions
// are expected after a leave or an expiry; anything else is logged.
func (that *Server) sendActionError(ctx context.Context, c *client, action string, err error) error {
	switch {
	case errors.Is(err, apperror.ErrSessionNotFound), errors.Is(err, apperror.ErrSessionRequired):
		return that.sendError(ctx, c, action, "session not found, send connect first")
	default:
		that.logger.Error("failed to process action", "action", action, "sessionID", c.sessionID, "error", err)
		return that.sendError(ctx, c, action, "internal error")
	}
}

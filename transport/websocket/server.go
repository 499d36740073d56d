package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/rocketscienceinc/tictactoe-timetravel/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-timetravel/internal/entity"
	"github.com/rocketscienceinc/tictactoe-timetravel/internal/game"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

const (
	sessionCookieName = "user_session"
	writeTimeout      = 5 * time.Second
	shutdownTimeout   = 5 * time.Second
)

type uSession interface {
	GetOrCreateSession(ctx context.Context, id string) (*entity.Session, game.View, error)
	SubmitMove(ctx context.Context, id string, cell int) (game.View, error)
	JumpTo(ctx context.Context, id string, move int) (game.View, error)
	GetView(ctx context.Context, id string) (game.View, error)
	LeaveSession(ctx context.Context, id string) error
}

// client is one open connection and the session it plays in.
type client struct {
	conn      *websocket.Conn
	sessionID string
}

type handlerFunc func(ctx context.Context, client *client, msg *Message) error

type Server struct {
	logger     *slog.Logger
	uSession   uSession
	sessionTTL time.Duration

	handlers map[string]handlerFunc
}

func New(logger *slog.Logger, uSession uSession, sessionTTL time.Duration) *Server {
	server := &Server{
		logger:     logger.With("component", "websocket"),
		uSession:   uSession,
		sessionTTL: sessionTTL,

		handlers: make(map[string]handlerFunc),
	}

	server.handlers[actionConnect] = server.handleConnect
	server.handlers[actionGameMove] = server.handleGameMove
	server.handlers[actionGameJump] = server.handleGameJump
	server.handlers[actionGameState] = server.handleGameState
	server.handlers[actionGameLeave] = server.handleGameLeave

	return server
}

// Start - starts WebSocket server and stops it when ctx is done.
func (that *Server) Start(ctx context.Context, port string) error {
	mux := http.NewServeMux()
	mux.Handle("/ws", that)

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       30 * time.Second,
		BaseContext:       func(_ net.Listener) context.Context { return ctx },
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("failed to shutdown server", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// ServeHTTP - upgrades the connection to WebSocket and serves it until the
// client goes away.
func (that *Server) ServeHTTP(writer http.ResponseWriter, req *http.Request) {
	log := that.logger.With("method", "ServeHTTP")

	sessionID := that.resolveSession(req)
	that.setSessionCookie(writer, sessionID)

	conn, err := websocket.Accept(writer, req, nil)
	if err != nil {
		log.Error("failed to accept websocket connection", "error", err)
		return
	}

	defer conn.CloseNow()

	log.Info("WebSocket connection established", "sessionID", sessionID)

	c := &client{conn: conn, sessionID: sessionID}

	if err = that.handleMessages(req.Context(), c); err != nil {
		log.Error("error handling messages", "error", err)
		return
	}

	conn.Close(websocket.StatusNormalClosure, "")
}

// handleMessages - processes messages from the client one at a time.
func (that *Server) handleMessages(ctx context.Context, c *client) error {
	log := that.logger.With("method", "handleMessages")

	for {
		_, data, err := c.conn.Read(ctx)
		if err != nil {
			if isClosedByClient(err) || ctx.Err() != nil {
				return nil
			}

			return fmt.Errorf("failed to read message: %w", err)
		}

		var message Message
		if err = json.Unmarshal(data, &message); err != nil {
			log.Warn("failed to unmarshal message", "error", err)

			if err = that.sendError(ctx, c, actionError, "malformed message"); err != nil {
				return err
			}

			continue
		}

		handler, ok := that.handlers[message.Action]
		if !ok {
			log.Warn("unknown action", "action", message.Action)

			if err = that.sendError(ctx, c, message.Action, apperror.ErrUnknownAction.Error()); err != nil {
				return err
			}

			continue
		}

		if err = handler(ctx, c, &message); err != nil {
			return fmt.Errorf("failed to process %s: %w", message.Action, err)
		}
	}
}

// resolveSession - finds the session named by the cookie or starts a new one.
func (that *Server) resolveSession(req *http.Request) string {
	log := that.logger.With("method", "resolveSession")

	var cookieValue string
	if cookie, err := req.Cookie(sessionCookieName); err == nil {
		cookieValue = cookie.Value
	}

	session, _, err := that.uSession.GetOrCreateSession(req.Context(), cookieValue)
	if err != nil {
		log.Error("failed to get or create session", "error", err)
		return ""
	}

	if session.ID != cookieValue {
		log.Info("session cookie not found, new one created", "sessionID", session.ID)
	}

	return session.ID
}

func (that *Server) setSessionCookie(writer http.ResponseWriter, sessionID string) {
	if sessionID == "" {
		return
	}

	http.SetCookie(writer, &http.Cookie{
		Name:     sessionCookieName,
		Value:    sessionID,
		Expires:  time.Now().Add(that.sessionTTL),
		Path:     "/ws",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (that *Server) sendMessage(ctx context.Context, c *client, action string, payload ResponsePayload) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	if err := wsjson.Write(ctx, c.conn, Response{Action: action, Payload: payload}); err != nil {
		return fmt.Errorf("failed to write response: %w", err)
	}

	return nil
}

func (that *Server) sendError(ctx context.Context, c *client, action, message string) error {
	return that.sendMessage(ctx, c, action, ResponsePayload{Error: message})
}

func isClosedByClient(err error) bool {
	switch websocket.CloseStatus(err) {
	case websocket.StatusNormalClosure, websocket.StatusGoingAway:
		return true
	default:
		return false
	}
}

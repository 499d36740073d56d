package websocket

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rocketscienceinc/tictactoe-timetravel/internal/entity"
	"github.com/rocketscienceinc/tictactoe-timetravel/internal/repository"
	"github.com/rocketscienceinc/tictactoe-timetravel/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"nhooyr.io/websocket"
)

type testClient struct {
	t    *testing.T
	ctx  context.Context
	conn *websocket.Conn
	resp *http.Response
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	sessionManager := usecase.NewSessionManager(logger, repository.NewMemorySessionRepository(time.Hour))

	ts := httptest.NewServer(New(logger, sessionManager, time.Hour))
	t.Cleanup(ts.Close)

	return ts
}

func dial(t *testing.T, ts *httptest.Server, header http.Header) *testClient {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"

	conn, resp, err := websocket.Dial(ctx, url, &websocket.DialOptions{HTTPHeader: header})
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close(websocket.StatusNormalClosure, "bye") })

	return &testClient{t: t, ctx: ctx, conn: conn, resp: resp}
}

func (that *testClient) send(action string, payload any) Response {
	that.t.Helper()

	raw, err := json.Marshal(payload)
	require.NoError(that.t, err)

	frame, err := json.Marshal(Message{Action: action, Payload: raw})
	require.NoError(that.t, err)

	return that.sendRaw(frame)
}

func (that *testClient) sendRaw(frame []byte) Response {
	that.t.Helper()

	require.NoError(that.t, that.conn.Write(that.ctx, websocket.MessageText, frame))

	_, data, err := that.conn.Read(that.ctx)
	require.NoError(that.t, err)

	var response Response
	require.NoError(that.t, json.Unmarshal(data, &response))

	return response
}

func (that *testClient) sessionCookie() *http.Cookie {
	for _, cookie := range that.resp.Cookies() {
		if cookie.Name == sessionCookieName {
			return cookie
		}
	}

	return nil
}

func TestServer_Connect(t *testing.T) {
	t.Run("New client gets a session cookie and an empty board", func(t *testing.T) {
		// Given: a running server
		ts := newTestServer(t)

		// When: a client connects without a cookie
		client := dial(t, ts, nil)
		response := client.send(actionConnect, struct{}{})

		// Then: a session is issued in the cookie and echoed in the response
		cookie := client.sessionCookie()
		require.NotNil(t, cookie)
		assert.Equal(t, actionConnect, response.Action)
		assert.Equal(t, cookie.Value, response.Payload.SessionID)
		require.NotNil(t, response.Payload.View)
		assert.Equal(t, entity.Board{}, response.Payload.View.Board)
		assert.Equal(t, "awaiting first move", response.Payload.View.Moves[0].Label)
	})

	t.Run("Reconnecting with the cookie resumes the game", func(t *testing.T) {
		// Given: a client that played one move
		ts := newTestServer(t)
		first := dial(t, ts, nil)
		first.send(actionConnect, struct{}{})
		first.send(actionGameMove, map[string]int{"cell": 4})

		// When: a new connection presents the same cookie
		header := http.Header{}
		header.Add("Cookie", sessionCookieName+"="+first.sessionCookie().Value)
		second := dial(t, ts, header)
		response := second.send(actionConnect, struct{}{})

		// Then: the game continues where it was
		require.NotNil(t, response.Payload.View)
		assert.Equal(t, first.sessionCookie().Value, response.Payload.SessionID)
		assert.Equal(t, entity.Board{4: entity.PlayerX}, response.Payload.View.Board)
	})
}

func TestServer_ConnectIgnoresSessionInPayload(t *testing.T) {
	// Given: a client that played one move
	ts := newTestServer(t)
	owner := dial(t, ts, nil)
	owner.send(actionConnect, struct{}{})
	owner.send(actionGameMove, map[string]int{"cell": 4})
	ownerID := owner.sessionCookie().Value

	// When: another client names that session in its connect payload
	other := dial(t, ts, nil)
	response := other.send(actionConnect, map[string]string{"session_id": ownerID})

	// Then: it stays in its own session with an empty board
	require.NotNil(t, response.Payload.View)
	assert.Equal(t, other.sessionCookie().Value, response.Payload.SessionID)
	assert.NotEqual(t, ownerID, response.Payload.SessionID)
	assert.Equal(t, entity.Board{}, response.Payload.View.Board)
}

func TestServer_Game(t *testing.T) {
	// Given: a connected client
	ts := newTestServer(t)
	client := dial(t, ts, nil)
	client.send(actionConnect, struct{}{})

	// When: X wins on the diagonal
	var response Response
	for _, cell := range []int{0, 1, 4, 3, 8} {
		response = client.send(actionGameMove, map[string]int{"cell": cell})
		require.Empty(t, response.Payload.Error)
	}

	// Then: the view reports the win and the line to highlight
	view := response.Payload.View
	require.NotNil(t, view)
	assert.Equal(t, "Winner: X", view.Status)
	assert.Equal(t, []int{0, 4, 8}, view.WinningLine)
	assert.Equal(t, "game over, winner X", view.Moves[5].Label)

	// When: a move is attempted on the won board
	response = client.send(actionGameMove, map[string]int{"cell": 2})

	// Then: it is absorbed
	require.Empty(t, response.Payload.Error)
	assert.Equal(t, 5, response.Payload.View.Position)
	assert.Len(t, response.Payload.View.Moves, 6)

	// When: jumping back and branching
	response = client.send(actionGameJump, map[string]int{"move": 1})
	require.Equal(t, 1, response.Payload.View.Position)
	response = client.send(actionGameMove, map[string]int{"cell": 7})

	// Then: the redo entries are discarded
	assert.Equal(t, 2, response.Payload.View.Position)
	assert.Len(t, response.Payload.View.Moves, 3)

	// And: the state query returns the same view
	state := client.send(actionGameState, struct{}{})
	assert.Equal(t, response.Payload.View, state.Payload.View)
}

func TestServer_Errors(t *testing.T) {
	t.Run("Unknown action", func(t *testing.T) {
		ts := newTestServer(t)
		client := dial(t, ts, nil)

		response := client.send("game:undo", struct{}{})

		assert.Equal(t, "game:undo", response.Action)
		assert.Equal(t, "unknown action", response.Payload.Error)
	})

	t.Run("Malformed message keeps the connection open", func(t *testing.T) {
		ts := newTestServer(t)
		client := dial(t, ts, nil)

		response := client.sendRaw([]byte("{not json"))
		assert.Equal(t, actionError, response.Action)
		assert.Equal(t, "malformed message", response.Payload.Error)

		response = client.send(actionGameState, struct{}{})
		assert.Empty(t, response.Payload.Error)
	})

	t.Run("Move without cell", func(t *testing.T) {
		ts := newTestServer(t)
		client := dial(t, ts, nil)

		response := client.send(actionGameMove, struct{}{})

		assert.Equal(t, "cell is required", response.Payload.Error)
	})

	t.Run("Jump without move", func(t *testing.T) {
		ts := newTestServer(t)
		client := dial(t, ts, nil)

		response := client.send(actionGameJump, map[string]string{"move": "first"})

		assert.Equal(t, "move is required", response.Payload.Error)
	})

	t.Run("Actions after leave need a new connect", func(t *testing.T) {
		// Given: a client that left its session
		ts := newTestServer(t)
		client := dial(t, ts, nil)
		sessionID := client.sessionCookie().Value
		response := client.send(actionGameLeave, struct{}{})
		require.Empty(t, response.Payload.Error)
		assert.Equal(t, sessionID, response.Payload.SessionID)

		// When: playing a move
		response = client.send(actionGameMove, map[string]int{"cell": 0})

		// Then: the client is told to connect again
		assert.Equal(t, "session not found, send connect first", response.Payload.Error)

		// When: connecting again
		response = client.send(actionConnect, struct{}{})

		// Then: a fresh session is started
		require.Empty(t, response.Payload.Error)
		assert.NotEqual(t, sessionID, response.Payload.SessionID)
		assert.Equal(t, entity.Board{}, response.Payload.View.Board)
	})
}

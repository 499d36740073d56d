package websocket

import (
	"encoding/json"

	"github.com/rocketscienceinc/tictactoe-timetravel/internal/game"
)

const (
	actionConnect   = "connect"
	actionGameMove  = "game:move"
	actionGameJump  = "game:jump"
	actionGameState = "game:state"
	actionGameLeave = "game:leave"
	actionError     = "error"
)

// Message is a frame sent by the client: an action and its payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type RequestPayload struct {
	Cell *int `json:"cell,omitempty"`
	Move *int `json:"move,omitempty"`
}

// Response is a frame sent to the client. It echoes the request action.
type Response struct {
	Action  string          `json:"action"`
	Payload ResponsePayload `json:"payload"`
}

type ResponsePayload struct {
	SessionID string     `json:"session_id,omitempty"`
	View      *game.View `json:"view,omitempty"`
	Error     string     `json:"error,omitempty"`
}

func (that *Message) decodePayload() (RequestPayload, error) {
	var payload RequestPayload

	if len(that.Payload) == 0 {
		return payload, nil
	}

	if err := json.Unmarshal(that.Payload, &payload); err != nil {
		return payload, err
	}

	return payload, nil
}

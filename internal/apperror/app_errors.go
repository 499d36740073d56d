package apperror

import "errors"

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionRequired = errors.New("session id is required")
	ErrUnknownAction   = errors.New("unknown action")
)

package entity

// Session is the stored form of one browser's game: the full move history
// and the position currently viewed.
type Session struct {
	ID       string  `json:"id"`
	History  []Board `json:"history"`
	Position int     `json:"position"`
}

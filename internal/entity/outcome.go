package entity

type OutcomeKind int

const (
	InProgress OutcomeKind = iota
	Win
	Draw
)

func (that OutcomeKind) String() string {
	switch that {
	case Win:
		return "win"
	case Draw:
		return "draw"
	default:
		return "in_progress"
	}
}

// Outcome is the state of a single board. Winner and Line are set only for Win.
type Outcome struct {
	Kind   OutcomeKind
	Winner Cell
	Line   [3]int
}

func (that Outcome) IsWin() bool {
	return that.Kind == Win
}

func (that Outcome) IsDraw() bool {
	return that.Kind == Draw
}

func (that Outcome) IsInProgress() bool {
	return that.Kind == InProgress
}

// IsFinished reports whether the board is decided either way.
func (that Outcome) IsFinished() bool {
	return that.Kind != InProgress
}

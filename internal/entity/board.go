package entity

// Cell is the value of one square of the board.
type Cell string

const (
	EmptyCell Cell = ""
	PlayerX   Cell = "X"
	PlayerO   Cell = "O"
)

// BoardSize is the number of cells on a 3x3 board.
const BoardSize = 9

// WinCombos lists every winning line in the order they are checked.
var WinCombos = [8][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// Board is an immutable snapshot of the 3x3 grid stored row-major.
type Board [BoardSize]Cell

// With returns a copy of the board with cell set to mark.
func (that Board) With(cell int, mark Cell) Board {
	that[cell] = mark
	return that
}

func (that Board) IsFull() bool {
	for _, cell := range that {
		if cell == EmptyCell {
			return false
		}
	}

	return true
}

func (that Board) IsEmpty() bool {
	return that == Board{}
}

// IsValidCell reports whether index addresses a cell of the board.
func IsValidCell(index int) bool {
	return index >= 0 && index < BoardSize
}

// PlayerForMove returns the mark that moves from the given history position.
// X always opens the game.
func PlayerForMove(position int) Cell {
	if position%2 == 0 {
		return PlayerX
	}
	return PlayerO
}

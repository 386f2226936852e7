package domain

import "errors"

// Cell represents a board cell state.
type Cell uint8

const (
	Empty Cell = iota
	X
	O
)

// Other returns the opposing mark. Empty maps to Empty.
func (c Cell) Other() Cell {
	switch c {
	case X:
		return O
	case O:
		return X
	default:
		return Empty
	}
}

func (c Cell) String() string {
	switch c {
	case X:
		return "X"
	case O:
		return "O"
	default:
		return ""
	}
}

// Result is the game outcome derived from the board contents.
type Result uint8

const (
	Ongoing Result = iota
	XWins
	OWins
	Draw
)

func (r Result) String() string {
	switch r {
	case XWins:
		return "X wins"
	case OWins:
		return "O wins"
	case Draw:
		return "draw"
	default:
		return "ongoing"
	}
}

// Board is a fixed 3x3 board stored row-major, cells indexed 0..8.
type Board [9]Cell

// Game holds the current state of a Tic-Tac-Toe match. The outcome is never
// stored; Winner recomputes it from the board so state cannot drift.
type Game struct {
	Board Board
	Turn  Cell
}

// Errors returned by domain operations.
var (
	ErrOutOfBounds = errors.New("out of bounds")
	ErrOccupied    = errors.New("cell occupied")
	ErrGameOver    = errors.New("game over")
)

// winLines are the 8 winning lines: 3 rows, 3 columns, 2 diagonals.
var winLines = [8][3]int{
	{0, 1, 2}, {3, 4, 5}, {6, 7, 8},
	{0, 3, 6}, {1, 4, 7}, {2, 5, 8},
	{0, 4, 8}, {2, 4, 6},
}

// New returns a new game with X to move.
func New() Game {
	return Game{Turn: X}
}

// Reset clears all cells and gives the turn back to X.
func (g *Game) Reset() {
	g.Board = Board{}
	g.Turn = X
}

// Play attempts to place the current player's mark at cell (0..8).
// On success the turn flips to the other player.
func (g *Game) Play(cell int) error {
	if r, _ := g.Winner(); r != Ongoing {
		return ErrGameOver
	}
	if cell < 0 || cell > 8 {
		return ErrOutOfBounds
	}
	if g.Board[cell] != Empty {
		return ErrOccupied
	}
	g.Board[cell] = g.Turn
	g.Turn = g.Turn.Other()
	return nil
}

// LegalMoves returns the empty cell indices in ascending order, or nil once
// the game is decided or the board is full.
func (g *Game) LegalMoves() []int {
	if r, _ := g.Winner(); r != Ongoing {
		return nil
	}
	var moves []int
	for i, c := range g.Board {
		if c == Empty {
			moves = append(moves, i)
		}
	}
	return moves
}

// Winner examines the 8 winning lines and returns the outcome together with
// the winning line's cell indices (nil unless a side has won).
func (g *Game) Winner() (Result, []int) {
	for _, ln := range winLines {
		c := g.Board[ln[0]]
		if c != Empty && g.Board[ln[1]] == c && g.Board[ln[2]] == c {
			if c == X {
				return XWins, []int{ln[0], ln[1], ln[2]}
			}
			return OWins, []int{ln[0], ln[1], ln[2]}
		}
	}
	if g.IsFull() {
		return Draw, nil
	}
	return Ongoing, nil
}

// IsFull reports whether no empty cells remain.
func (g *Game) IsFull() bool {
	for _, c := range g.Board {
		if c == Empty {
			return false
		}
	}
	return true
}

// Clone returns an independent copy for speculative search.
func (g Game) Clone() Game {
	return g
}

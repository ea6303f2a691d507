package rules

import "github.com/hailam/chessboard/internal/board"

// OutcomeKind says how, if at all, the game ended.
type OutcomeKind uint8

const (
	Ongoing OutcomeKind = iota
	Checkmate
	Stalemate
	InsufficientMaterial
	MoveLimit
	Repetition
)

// String returns a human readable reason.
func (k OutcomeKind) String() string {
	switch k {
	case Checkmate:
		return "Checkmate"
	case Stalemate:
		return "Stalemate"
	case InsufficientMaterial:
		return "Insufficient Material"
	case MoveLimit:
		return "Move Limit"
	case Repetition:
		return "Repetition"
	default:
		return "Ongoing"
	}
}

// Status is the game-over report. Winner is NoColor for draws and
// unfinished games.
type Status struct {
	Kind   OutcomeKind
	Winner board.Color
}

// Over reports whether the game has ended.
func (s Status) Over() bool {
	return s.Kind != Ongoing
}

// Result renders the PGN result token.
func (s Status) Result() string {
	if !s.Over() {
		return "*"
	}
	switch s.Winner {
	case board.White:
		return "1-0"
	case board.Black:
		return "0-1"
	default:
		return "1/2-1/2"
	}
}

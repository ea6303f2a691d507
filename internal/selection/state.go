// Package selection holds the interaction state of the board: nothing
// selected, a piece selected with its legal destinations, or a promotion
// waiting for the player's pick.
//
// States are immutable values. A transition builds a new State; nothing
// edits one in place.
package selection

import (
	"fmt"

	"github.com/hailam/chessboard/internal/board"
	"github.com/hailam/chessboard/internal/promotion"
)

// State is one of Idle, PieceSelected or PromotionPending.
type State interface {
	fmt.Stringer
	isState()
}

// Idle means nothing is selected.
type Idle struct{}

// PieceSelected means the piece on From is selected and may move to any
// square in Legal.
type PieceSelected struct {
	From  board.Square
	Legal board.SquareSet
}

// PromotionPending means the move From->To promotes and the board waits for
// one of the four Choices.
type PromotionPending struct {
	From    board.Square
	To      board.Square
	Choices [4]promotion.Choice
}

func (Idle) isState()             {}
func (PieceSelected) isState()    {}
func (PromotionPending) isState() {}

func (Idle) String() string { return "Idle" }

func (s PieceSelected) String() string {
	return fmt.Sprintf("PieceSelected{from: %v, legal: %v}", s.From, s.Legal)
}

func (s PromotionPending) String() string {
	return fmt.Sprintf("PromotionPending{from: %v, to: %v}", s.From, s.To)
}

// Selected returns the selected square, or NoSquare when nothing is selected.
func Selected(s State) board.Square {
	switch st := s.(type) {
	case PieceSelected:
		return st.From
	case PromotionPending:
		return st.From
	default:
		return board.NoSquare
	}
}


// Package promotion detects pawn promotions and lays out the four choices the
// player picks from.
package promotion

import "github.com/hailam/chessboard/internal/board"

// Order is the canonical order the choices are offered in.
var Order = [4]board.PieceType{board.Queen, board.Knight, board.Rook, board.Bishop}

// Choice is one promotion option shown on the board.
type Choice struct {
	Square board.Square
	Piece  board.Piece
}

// IsPromotion reports whether moving piece to the square to promotes it:
// a pawn reaching the farthest rank from its own side.
func IsPromotion(piece board.Piece, to board.Square) bool {
	if piece.Type() != board.Pawn || !to.IsValid() {
		return false
	}
	return to.Rank() == piece.Color().PromotionRank()
}

// Choices lays out the options on to's file, starting at to and stacking
// toward the opposite edge. Squares are board coordinates, so the layout
// survives a flip unchanged.
func Choices(side board.Color, to board.Square) [4]Choice {
	step := -1
	if to.Rank() < 4 {
		step = 1
	}

	var out [4]Choice
	for i, pt := range Order {
		out[i] = Choice{
			Square: board.NewSquare(to.File(), to.Rank()+step*i),
			Piece:  board.NewPiece(pt, side),
		}
	}
	return out
}

// Pick returns the piece type offered on sq. ok is false when sq is not one
// of the choices, which callers treat as a cancellation.
func Pick(choices [4]Choice, sq board.Square) (pt board.PieceType, ok bool) {
	for _, c := range choices {
		if c.Square == sq && sq.IsValid() {
			return c.Piece.Type(), true
		}
	}
	return board.NoPieceType, false
}

// Squares returns the choice squares as a set.
func Squares(choices [4]Choice) board.SquareSet {
	return board.SetOf(choices[0].Square, choices[1].Square, choices[2].Square, choices[3].Square)
}

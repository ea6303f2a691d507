// Package rules defines what the board front-end needs from a chess rules
// engine, and provides an adapter backed by github.com/notnil/chess.
package rules

import (
	"errors"

	"github.com/hailam/chessboard/internal/board"
)

var (
	// ErrIllegalMove is returned by ApplyMove when the engine refuses a move.
	ErrIllegalMove = errors.New("illegal move")
	// ErrBadPosition is returned when a starting position cannot be parsed.
	ErrBadPosition = errors.New("bad position")
)

// Destination is one square a selected piece may move to.
type Destination struct {
	To        board.Square
	IsCapture bool
}

// Engine is the rules engine consumed by the controller and dispatcher.
// Implementations own all game rules; the front-end never derives legality,
// check or game termination itself.
type Engine interface {
	// LegalDestinations lists the squares the piece on sq may move to,
	// one entry per destination square. Empty if sq holds no piece of the
	// side to move.
	LegalDestinations(sq board.Square) []Destination
	IsCheck() bool
	// CheckedKingSquare is the square of the side to move's king when it is
	// in check, otherwise NoSquare.
	CheckedKingSquare() board.Square
	SideToMove() board.Color
	PieceAt(sq board.Square) board.Piece
	// ApplyMove plays from->to. promo is NoPieceType for non-promotions.
	// A refused move returns an error wrapping ErrIllegalMove and leaves the
	// game unchanged.
	ApplyMove(from, to board.Square, promo board.PieceType) error
	GameOverStatus() Status
	// Placement is the authoritative piece layout.
	Placement() board.Placement
}

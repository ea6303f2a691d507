// Package render defines the drawing surface the board core talks to and a
// retained canvas every front-end draws from.
package render

import (
	"github.com/hailam/chessboard/internal/board"
	"github.com/hailam/chessboard/internal/highlight"
	"github.com/hailam/chessboard/internal/promotion"
)

// Renderer receives drawing commands from the controller and dispatcher.
type Renderer interface {
	SetHighlight(sq board.Square, k highlight.Kind)
	PlacePiece(sq board.Square, p board.Piece)
	RemovePiece(sq board.Square)
	// Resync replaces every piece with the given placement.
	Resync(pl board.Placement)
	SetStatusText(s string)
	ShowPromotion(choices [4]promotion.Choice)
	HidePromotion()
}

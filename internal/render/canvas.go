package render

import (
	"github.com/hailam/chessboard/internal/board"
	"github.com/hailam/chessboard/internal/highlight"
	"github.com/hailam/chessboard/internal/promotion"
)

// Canvas is a retained model of what the board shows. It is owned by the
// event loop and not safe for concurrent use.
type Canvas struct {
	highlights highlight.Map
	pieces     board.Placement
	promotion  map[board.Square]board.Piece
	status     string
	revision   uint64
}

// NewCanvas returns an empty canvas.
func NewCanvas() *Canvas {
	return &Canvas{
		pieces:    board.EmptyPlacement(),
		promotion: make(map[board.Square]board.Piece),
	}
}

// Frame is an immutable copy of the canvas contents.
type Frame struct {
	Highlights highlight.Map
	Pieces     board.Placement
	// Promotion holds the choice pieces drawn over the board, if any.
	Promotion map[board.Square]board.Piece
	Status    string
	Revision  uint64
}

// SetHighlight implements Renderer. Flag combinations no overlay can
// produce are dropped.
func (c *Canvas) SetHighlight(sq board.Square, k highlight.Kind) {
	if !sq.IsValid() || !k.Valid() {
		return
	}
	if c.highlights[sq] == k {
		return
	}
	c.highlights[sq] = k
	c.revision++
}

// PlacePiece implements Renderer.
func (c *Canvas) PlacePiece(sq board.Square, p board.Piece) {
	if !sq.IsValid() {
		return
	}
	c.pieces[sq] = p
	c.revision++
}

// RemovePiece implements Renderer.
func (c *Canvas) RemovePiece(sq board.Square) {
	c.PlacePiece(sq, board.NoPiece)
}

// Resync implements Renderer.
func (c *Canvas) Resync(pl board.Placement) {
	c.pieces = pl
	c.revision++
}

// SetStatusText implements Renderer.
func (c *Canvas) SetStatusText(s string) {
	c.status = s
	c.revision++
}

// ShowPromotion implements Renderer.
func (c *Canvas) ShowPromotion(choices [4]promotion.Choice) {
	c.promotion = make(map[board.Square]board.Piece, len(choices))
	for _, ch := range choices {
		if ch.Square.IsValid() {
			c.promotion[ch.Square] = ch.Piece
		}
	}
	c.revision++
}

// HidePromotion implements Renderer.
func (c *Canvas) HidePromotion() {
	if len(c.promotion) == 0 {
		return
	}
	c.promotion = make(map[board.Square]board.Piece)
	c.revision++
}

// Revision increases on every visible change.
func (c *Canvas) Revision() uint64 {
	return c.revision
}

// Snapshot copies the current contents.
func (c *Canvas) Snapshot() Frame {
	promo := make(map[board.Square]board.Piece, len(c.promotion))
	for sq, p := range c.promotion {
		promo[sq] = p
	}
	return Frame{
		Highlights: c.highlights,
		Pieces:     c.pieces,
		Promotion:  promo,
		Status:     c.status,
		Revision:   c.revision,
	}
}

// PieceOnTop returns what is drawn on sq: a promotion choice covers the
// board piece beneath it.
func (f *Frame) PieceOnTop(sq board.Square) board.Piece {
	if p, ok := f.Promotion[sq]; ok {
		return p
	}
	return f.Pieces[sq]
}

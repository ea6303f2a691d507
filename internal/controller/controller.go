// Package controller turns board clicks and flips into selection changes,
// highlight updates and dispatched moves.
package controller

import (
	"go.uber.org/zap"

	"github.com/hailam/chessboard/internal/board"
	"github.com/hailam/chessboard/internal/dispatch"
	"github.com/hailam/chessboard/internal/highlight"
	"github.com/hailam/chessboard/internal/logx"
	"github.com/hailam/chessboard/internal/promotion"
	"github.com/hailam/chessboard/internal/render"
	"github.com/hailam/chessboard/internal/rules"
	"github.com/hailam/chessboard/internal/selection"
)

// DefaultCellSize is the square size in pixels used when none is given.
const DefaultCellSize = 80

// Controller owns the selection state, the board orientation, the current
// highlight map and the check marker. Every event is handled to completion
// before it returns, and the state is replaced as a whole on each transition.
//
// A Controller is not safe for concurrent use.
type Controller struct {
	engine     rules.Engine
	renderer   render.Renderer
	dispatcher *dispatch.Dispatcher
	log        *zap.SugaredLogger

	state       selection.State
	orientation board.Orientation
	cellSize    int
	highlights  highlight.Map
	check       board.Square
	gameOver    bool
}

// Option configures a Controller.
type Option func(*Controller)

// WithOrientation sets the starting orientation.
func WithOrientation(o board.Orientation) Option {
	return func(c *Controller) { c.orientation = o }
}

// WithCellSize sets the square size in pixels. Non-positive sizes are ignored.
func WithCellSize(size int) Option {
	return func(c *Controller) {
		if size > 0 {
			c.cellSize = size
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(c *Controller) { c.log = l }
}

// New creates a controller and pushes the engine's current position to the
// renderer. A nil dispatcher is replaced by one over the same engine and
// renderer.
func New(engine rules.Engine, r render.Renderer, d *dispatch.Dispatcher, opts ...Option) *Controller {
	c := &Controller{
		engine:      engine,
		renderer:    r,
		state:       selection.Idle{},
		orientation: board.Normal,
		cellSize:    DefaultCellSize,
		check:       board.NoSquare,
	}
	for _, opt := range opts {
		opt(c)
	}
	base := logx.OrNop(c.log)
	c.log = base.Named("controller")
	if d == nil {
		d = dispatch.New(engine, r, base)
	}
	c.dispatcher = d
	c.Sync()
	return c
}

// State returns the current selection state.
func (c *Controller) State() selection.State { return c.state }

// Highlights returns the current highlight map.
func (c *Controller) Highlights() highlight.Map { return c.highlights }

// Orientation returns the current orientation.
func (c *Controller) Orientation() board.Orientation { return c.orientation }

// CellSize returns the square size in pixels.
func (c *Controller) CellSize() int { return c.cellSize }

// CheckSquare returns the checked king's square, or NoSquare.
func (c *Controller) CheckSquare() board.Square { return c.check }

// GameOver reports whether the engine has ended the game.
func (c *Controller) GameOver() bool { return c.gameOver }

// ClickPixel handles a pointer press at board-local pixel coordinates.
// Presses outside the board are ignored.
func (c *Controller) ClickPixel(x, y int) {
	sq := board.PixelToSquare(x, y, c.cellSize, c.orientation)
	if sq == board.NoSquare {
		c.log.Debugw("click outside board", "x", x, "y", y)
		return
	}
	c.ClickSquare(sq)
}

// ClickSquare handles a click on sq. After the game has ended a piece can
// still be selected, but the engine offers it no destinations.
func (c *Controller) ClickSquare(sq board.Square) {
	if !sq.IsValid() {
		return
	}
	prev := c.state
	var next selection.State
	switch st := c.state.(type) {
	case selection.PieceSelected:
		next = c.clickSelected(st, sq)
	case selection.PromotionPending:
		next = c.clickPromotion(st, sq)
	default:
		next = c.selectAt(sq)
	}
	c.setState(next)
	c.log.Debugw("transition", "square", sq, "from", prev, "to", next,
		"selected", selection.Selected(next))
}

// selectAt selects the piece on sq if it belongs to the side to move.
func (c *Controller) selectAt(sq board.Square) selection.State {
	p := c.engine.PieceAt(sq)
	if p == board.NoPiece || p.Color() != c.engine.SideToMove() {
		return selection.Idle{}
	}
	var legal board.SquareSet
	for _, d := range c.engine.LegalDestinations(sq) {
		legal = legal.Add(d.To)
	}
	return selection.PieceSelected{From: sq, Legal: legal}
}

func (c *Controller) clickSelected(st selection.PieceSelected, sq board.Square) selection.State {
	switch {
	case sq == st.From:
		return selection.Idle{}
	case st.Legal.Has(sq):
		mover := c.engine.PieceAt(st.From)
		if promotion.IsPromotion(mover, sq) {
			return selection.PromotionPending{
				From:    st.From,
				To:      sq,
				Choices: promotion.Choices(mover.Color(), sq),
			}
		}
		c.apply(st.From, sq, board.NoPieceType)
		return selection.Idle{}
	default:
		// Re-selection of another own piece, otherwise a plain deselect.
		return c.selectAt(sq)
	}
}

func (c *Controller) clickPromotion(st selection.PromotionPending, sq board.Square) selection.State {
	pt, ok := promotion.Pick(st.Choices, sq)
	if !ok {
		c.log.Debugw("promotion cancelled", "from", st.From, "to", st.To, "square", sq)
		return selection.Idle{}
	}
	c.apply(st.From, st.To, pt)
	return selection.Idle{}
}

func (c *Controller) apply(from, to board.Square, promo board.PieceType) {
	res := c.dispatcher.Apply(from, to, promo)
	if !res.Accepted {
		return
	}
	c.check = res.Check
	c.gameOver = res.Status.Over()
	if c.gameOver {
		c.log.Infow("game over", "outcome", res.Status.Kind, "result", res.Status.Result())
	}
}

// Flip turns the board around. Selection and highlights are kept, since both
// are held in board coordinates.
func (c *Controller) Flip() {
	c.orientation = c.orientation.Flip()
	c.log.Debugw("flip", "orientation", c.orientation)
	c.setState(c.state)
}

// Resize changes the square size used to map pixels. Non-positive sizes are
// ignored.
func (c *Controller) Resize(cellSize int) {
	if cellSize <= 0 || cellSize == c.cellSize {
		return
	}
	c.cellSize = cellSize
}

// Sync drops any selection, rereads check and game-over state from the
// engine and pushes the whole position to the renderer.
func (c *Controller) Sync() {
	c.check = c.engine.CheckedKingSquare()
	c.gameOver = c.engine.GameOverStatus().Over()
	c.state = selection.Idle{}
	c.highlights = c.compute()

	c.renderer.HidePromotion()
	c.renderer.Resync(c.engine.Placement())
	for sq := board.A1; sq <= board.H8; sq++ {
		c.renderer.SetHighlight(sq, c.highlights[sq])
	}
	c.renderer.SetStatusText(dispatch.StatusText(c.engine))
}

// setState installs next, recomputes the overlay and sends the renderer
// only what changed.
func (c *Controller) setState(next selection.State) {
	_, wasPending := c.state.(selection.PromotionPending)
	c.state = next

	m := c.compute()
	for _, sq := range highlight.Diff(c.highlights, m) {
		c.renderer.SetHighlight(sq, m[sq])
	}
	c.highlights = m

	pending, isPending := next.(selection.PromotionPending)
	switch {
	case isPending:
		c.renderer.ShowPromotion(pending.Choices)
	case wasPending:
		c.renderer.HidePromotion()
	}
}

func (c *Controller) compute() highlight.Map {
	return highlight.Compute(c.state, c.check, c.engine.LegalDestinations)
}

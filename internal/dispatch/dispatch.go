// Package dispatch sends completed moves to the rules engine and brings the
// renderer back in line with the engine afterwards.
package dispatch

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/hailam/chessboard/internal/board"
	"github.com/hailam/chessboard/internal/logx"
	"github.com/hailam/chessboard/internal/render"
	"github.com/hailam/chessboard/internal/rules"
)

// Result reports what happened to a dispatched move.
type Result struct {
	Accepted bool
	// Check is the checked king's square after the move, or NoSquare.
	Check  board.Square
	Status rules.Status
	// Err wraps rules.ErrIllegalMove when the engine refused the move.
	Err error
}

// Dispatcher applies moves.
type Dispatcher struct {
	engine   rules.Engine
	renderer render.Renderer
	log      *zap.SugaredLogger
}

// New creates a dispatcher. A nil logger discards output.
func New(engine rules.Engine, r render.Renderer, log *zap.SugaredLogger) *Dispatcher {
	return &Dispatcher{
		engine:   engine,
		renderer: r,
		log:      logx.OrNop(log).Named("dispatch"),
	}
}

// Apply plays from->to with an optional promotion piece (NoPieceType for
// none). On success the renderer is fully resynchronised from the engine and
// the status line updated. On refusal nothing on the board changes.
func (d *Dispatcher) Apply(from, to board.Square, promo board.PieceType) Result {
	mover := d.engine.SideToMove()
	if err := d.engine.ApplyMove(from, to, promo); err != nil {
		d.log.Warnw("move rejected", "from", from, "to", to, "promotion", promo, "error", err)
		return Result{
			Check:  d.engine.CheckedKingSquare(),
			Status: d.engine.GameOverStatus(),
			Err:    err,
		}
	}

	res := Result{
		Accepted: true,
		Check:    d.engine.CheckedKingSquare(),
		Status:   d.engine.GameOverStatus(),
	}
	d.log.Infow("move applied",
		"side", mover,
		"from", from,
		"to", to,
		"promotion", promo,
		"check", res.Check,
		"outcome", res.Status.Kind,
	)

	d.renderer.Resync(d.engine.Placement())
	d.renderer.SetStatusText(StatusText(d.engine))
	return res
}

// StatusText describes the game state for the status line, e.g.
// "Black to move (check)" or "Game Over: Checkmate 0-1".
func StatusText(e rules.Engine) string {
	st := e.GameOverStatus()
	if st.Over() {
		return fmt.Sprintf("Game Over: %s %s", st.Kind, st.Result())
	}
	text := fmt.Sprintf("%s to move", e.SideToMove())
	if e.IsCheck() {
		text += " (check)"
	}
	return text
}

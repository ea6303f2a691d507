package controller

import (
	"errors"
	"testing"

	"github.com/hailam/chessboard/internal/board"
	"github.com/hailam/chessboard/internal/dispatch"
	"github.com/hailam/chessboard/internal/highlight"
	"github.com/hailam/chessboard/internal/promotion"
	"github.com/hailam/chessboard/internal/render"
	"github.com/hailam/chessboard/internal/rules"
	"github.com/hailam/chessboard/internal/selection"
)

type appliedMove struct {
	from, to board.Square
	promo    board.PieceType
}

// fakeEngine serves a fixed position and records moves. It accepts every
// move unless reject is set and never changes the position.
type fakeEngine struct {
	side   board.Color
	pieces board.Placement
	dests  map[board.Square][]rules.Destination
	check  board.Square
	status rules.Status
	reject bool

	applied []appliedMove
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{
		side:   board.White,
		pieces: board.EmptyPlacement(),
		dests:  make(map[board.Square][]rules.Destination),
		check:  board.NoSquare,
		status: rules.Status{Winner: board.NoColor},
	}
}

func (e *fakeEngine) put(sq board.Square, pt board.PieceType, c board.Color, dests ...rules.Destination) {
	e.pieces[sq] = board.NewPiece(pt, c)
	if len(dests) > 0 {
		e.dests[sq] = dests
	}
}

func (e *fakeEngine) LegalDestinations(sq board.Square) []rules.Destination { return e.dests[sq] }
func (e *fakeEngine) IsCheck() bool                                       { return e.check != board.NoSquare }
func (e *fakeEngine) CheckedKingSquare() board.Square                     { return e.check }
func (e *fakeEngine) SideToMove() board.Color                             { return e.side }
func (e *fakeEngine) GameOverStatus() rules.Status                        { return e.status }
func (e *fakeEngine) Placement() board.Placement                          { return e.pieces }

func (e *fakeEngine) PieceAt(sq board.Square) board.Piece {
	if !sq.IsValid() {
		return board.NoPiece
	}
	return e.pieces[sq]
}

func (e *fakeEngine) ApplyMove(from, to board.Square, promo board.PieceType) error {
	e.applied = append(e.applied, appliedMove{from, to, promo})
	if e.reject {
		return errors.Join(rules.ErrIllegalMove, errors.New("rejected by test"))
	}
	return nil
}

// recorder is a Renderer that counts the calls it receives.
type recorder struct {
	*render.Canvas
	highlightCalls int
	resyncs        int
	shows          int
	hides          int
}

func newRecorder() *recorder { return &recorder{Canvas: render.NewCanvas()} }

func (r *recorder) SetHighlight(sq board.Square, k highlight.Kind) {
	r.highlightCalls++
	r.Canvas.SetHighlight(sq, k)
}

func (r *recorder) Resync(pl board.Placement) {
	r.resyncs++
	r.Canvas.Resync(pl)
}

func (r *recorder) ShowPromotion(choices [4]promotion.Choice) {
	r.shows++
	r.Canvas.ShowPromotion(choices)
}

func (r *recorder) HidePromotion() {
	r.hides++
	r.Canvas.HidePromotion()
}

func (r *recorder) reset() {
	r.highlightCalls, r.resyncs, r.shows, r.hides = 0, 0, 0, 0
}

func newController(t *testing.T, e rules.Engine, opts ...Option) (*Controller, *recorder) {
	t.Helper()
	r := newRecorder()
	c := New(e, r, dispatch.New(e, r, nil), opts...)
	r.reset()
	return c, r
}

func mustSelected(t *testing.T, s selection.State, from board.Square) selection.PieceSelected {
	t.Helper()
	sel, ok := s.(selection.PieceSelected)
	if !ok || sel.From != from {
		t.Fatalf("state = %v, want PieceSelected from %v", s, from)
	}
	return sel
}

func highlighted(m highlight.Map) int {
	n := 0
	for _, k := range m {
		if k != highlight.None {
			n++
		}
	}
	return n
}

func mustIdle(t *testing.T, s selection.State) {
	t.Helper()
	if _, ok := s.(selection.Idle); !ok {
		t.Fatalf("state = %v, want Idle", s)
	}
}

func TestPawnPushScenario(t *testing.T) {
	e := newFakeEngine()
	e.put(board.E2, board.Pawn, board.White, rules.Destination{To: board.E3}, rules.Destination{To: board.E4})
	c, r := newController(t, e)

	c.ClickSquare(board.E2)
	mustSelected(t, c.State(), board.E2)
	m := c.Highlights()
	if m[board.E2] != highlight.Selected || m[board.E3] != highlight.LegalMove || m[board.E4] != highlight.LegalMove {
		t.Errorf("e2=%v e3=%v e4=%v", m[board.E2], m[board.E3], m[board.E4])
	}
	if n := highlighted(m); n != 3 {
		t.Errorf("%d squares highlighted, want 3", n)
	}
	if got := r.Snapshot().Highlights; got != m {
		t.Error("renderer highlights differ from the controller's map")
	}

	c.ClickSquare(board.E4)
	mustIdle(t, c.State())
	want := []appliedMove{{board.E2, board.E4, board.NoPieceType}}
	if len(e.applied) != 1 || e.applied[0] != want[0] {
		t.Errorf("applied = %v, want %v", e.applied, want)
	}
	if r.resyncs != 1 {
		t.Errorf("resyncs = %d, want 1", r.resyncs)
	}
	if got := r.Snapshot().Highlights; got != (highlight.Map{}) {
		t.Error("highlights not cleared after the move")
	}
}

func TestPromotionScenario(t *testing.T) {
	e := newFakeEngine()
	e.put(board.E7, board.Pawn, board.White, rules.Destination{To: board.E8})
	c, r := newController(t, e)

	c.ClickSquare(board.E7)
	c.ClickSquare(board.E8)

	pending, ok := c.State().(selection.PromotionPending)
	if !ok || pending.From != board.E7 || pending.To != board.E8 {
		t.Fatalf("state = %v, want PromotionPending e7->e8", c.State())
	}
	if len(e.applied) != 0 {
		t.Fatal("move dispatched before a piece was chosen")
	}
	m := c.Highlights()
	for _, sq := range []board.Square{board.E8, board.E7, board.E6, board.E5} {
		if m[sq] != highlight.PromotionChoice {
			t.Errorf("%v = %v, want promotion", sq, m[sq])
		}
	}
	if r.shows != 1 {
		t.Errorf("ShowPromotion calls = %d, want 1", r.shows)
	}

	// The knight is the second choice, one square below e8.
	c.ClickSquare(board.E7)
	mustIdle(t, c.State())
	if len(e.applied) != 1 || e.applied[0] != (appliedMove{board.E7, board.E8, board.Knight}) {
		t.Errorf("applied = %v, want e7e8n", e.applied)
	}
	if r.hides != 1 {
		t.Errorf("HidePromotion calls = %d, want 1", r.hides)
	}
}

func TestBlackPromotionStacksUp(t *testing.T) {
	e := newFakeEngine()
	e.side = board.Black
	e.put(board.B2, board.Pawn, board.Black, rules.Destination{To: board.A1, IsCapture: true})
	e.put(board.A1, board.Rook, board.White)
	c, _ := newController(t, e)

	c.ClickSquare(board.B2)
	c.ClickSquare(board.A1)
	pending, ok := c.State().(selection.PromotionPending)
	if !ok {
		t.Fatalf("state = %v, want PromotionPending", c.State())
	}
	if pending.Choices[3].Square != board.A4 {
		t.Errorf("last choice on %v, want a4", pending.Choices[3].Square)
	}

	c.ClickSquare(board.A4)
	if len(e.applied) != 1 || e.applied[0].promo != board.Bishop {
		t.Errorf("applied = %v, want a bishop promotion", e.applied)
	}
}

func TestPromotionCancel(t *testing.T) {
	e := newFakeEngine()
	e.put(board.E7, board.Pawn, board.White, rules.Destination{To: board.E8})
	c, r := newController(t, e)

	c.ClickSquare(board.E7)
	c.ClickSquare(board.E8)
	c.ClickSquare(board.A1)

	mustIdle(t, c.State())
	if len(e.applied) != 0 {
		t.Errorf("cancel dispatched %v", e.applied)
	}
	if len(r.Snapshot().Promotion) != 0 {
		t.Error("promotion overlay still shown")
	}
	if c.Highlights() != (highlight.Map{}) {
		t.Error("highlights left after cancel")
	}
}

func TestNonPawnToLastRankIsNotPromotion(t *testing.T) {
	e := newFakeEngine()
	e.put(board.A7, board.Rook, board.White, rules.Destination{To: board.A8})
	c, _ := newController(t, e)

	c.ClickSquare(board.A7)
	c.ClickSquare(board.A8)
	mustIdle(t, c.State())
	if len(e.applied) != 1 || e.applied[0].promo != board.NoPieceType {
		t.Errorf("applied = %v, want a plain rook move", e.applied)
	}
}

func TestCheckShownWithoutSelection(t *testing.T) {
	e := newFakeEngine()
	e.put(board.G1, board.King, board.White)
	e.check = board.G1
	c, r := newController(t, e)

	if c.CheckSquare() != board.G1 {
		t.Errorf("CheckSquare = %v", c.CheckSquare())
	}
	if c.Highlights()[board.G1] != highlight.Check {
		t.Errorf("g1 = %v, want check", c.Highlights()[board.G1])
	}
	if r.Snapshot().Highlights[board.G1] != highlight.Check {
		t.Error("renderer did not receive the check marker")
	}

	c.ClickSquare(board.G1)
	if c.Highlights()[board.G1] != highlight.SelectedCheck {
		t.Errorf("selected king = %v, want selected|check", c.Highlights()[board.G1])
	}
}

func TestEmptyClickLeavesIdle(t *testing.T) {
	e := newFakeEngine()
	e.put(board.E2, board.Pawn, board.White, rules.Destination{To: board.E4})
	c, r := newController(t, e)
	before := c.Highlights()

	c.ClickSquare(board.D5)
	mustIdle(t, c.State())
	if c.Highlights() != before {
		t.Error("highlights changed")
	}
	if r.highlightCalls != 0 {
		t.Errorf("renderer got %d highlight updates", r.highlightCalls)
	}
}

func TestOpponentPieceIsNotSelectable(t *testing.T) {
	e := newFakeEngine()
	e.put(board.E7, board.Pawn, board.Black, rules.Destination{To: board.E5})
	c, _ := newController(t, e)

	c.ClickSquare(board.E7)
	mustIdle(t, c.State())
}

func TestDeselectIsIdempotent(t *testing.T) {
	e := newFakeEngine()
	e.put(board.G1, board.Knight, board.White, rules.Destination{To: board.F3}, rules.Destination{To: board.H3})
	c, _ := newController(t, e)

	for i := 0; i < 6; i++ {
		c.ClickSquare(board.G1)
		if i%2 == 0 {
			mustSelected(t, c.State(), board.G1)
		} else {
			mustIdle(t, c.State())
			if c.Highlights() != (highlight.Map{}) {
				t.Fatal("highlights left after deselect")
			}
		}
	}
	if len(e.applied) != 0 {
		t.Errorf("toggling dispatched %v", e.applied)
	}
}

func TestReselection(t *testing.T) {
	e := newFakeEngine()
	e.put(board.E2, board.Pawn, board.White, rules.Destination{To: board.E3})
	e.put(board.G1, board.Knight, board.White, rules.Destination{To: board.F3})
	c, _ := newController(t, e)

	c.ClickSquare(board.E2)
	c.ClickSquare(board.G1)
	sel := mustSelected(t, c.State(), board.G1)
	if sel.Legal != board.SetOf(board.F3) {
		t.Errorf("legal = %v, want {f3}", sel.Legal)
	}
	m := c.Highlights()
	if m[board.E2] != highlight.None || m[board.E3] != highlight.None {
		t.Error("old selection still highlighted")
	}
}

func TestClickElsewhereDeselects(t *testing.T) {
	e := newFakeEngine()
	e.put(board.E2, board.Pawn, board.White, rules.Destination{To: board.E3})
	e.put(board.D7, board.Pawn, board.Black)
	c, _ := newController(t, e)

	for _, sq := range []board.Square{board.H5, board.D7} {
		c.ClickSquare(board.E2)
		c.ClickSquare(sq)
		mustIdle(t, c.State())
	}
	if len(e.applied) != 0 {
		t.Errorf("applied = %v", e.applied)
	}
}

func TestFlipKeepsSelection(t *testing.T) {
	e := newFakeEngine()
	e.put(board.E2, board.Pawn, board.White, rules.Destination{To: board.E3}, rules.Destination{To: board.E4})
	c, _ := newController(t, e)

	c.ClickSquare(board.E2)
	before := c.Highlights()
	c.Flip()

	if c.Orientation() != board.Flipped {
		t.Errorf("orientation = %v", c.Orientation())
	}
	mustSelected(t, c.State(), board.E2)
	if c.Highlights() != before {
		t.Error("flip changed the highlight map")
	}

	// e4 now sits at row 3, col 3 of the flipped grid.
	size := c.CellSize()
	x, y := board.GridToPixel(3, 3, size)
	c.ClickPixel(x+size/2, y+size/2)
	if len(e.applied) != 1 || e.applied[0].to != board.E4 {
		t.Errorf("applied = %v, want e2e4", e.applied)
	}

	c.Flip()
	if c.Orientation() != board.Normal {
		t.Error("two flips should restore the orientation")
	}
}

func TestFlipKeepsPendingPromotion(t *testing.T) {
	e := newFakeEngine()
	e.put(board.E7, board.Pawn, board.White, rules.Destination{To: board.E8})
	c, _ := newController(t, e)

	c.ClickSquare(board.E7)
	c.ClickSquare(board.E8)
	c.Flip()
	if _, ok := c.State().(selection.PromotionPending); !ok {
		t.Fatalf("state = %v after flip", c.State())
	}
	c.ClickSquare(board.E8)
	if len(e.applied) != 1 || e.applied[0].promo != board.Queen {
		t.Errorf("applied = %v, want a queen promotion", e.applied)
	}
}

func TestClickPixel(t *testing.T) {
	e := newFakeEngine()
	e.put(board.E2, board.Pawn, board.White, rules.Destination{To: board.E4})
	c, r := newController(t, e, WithCellSize(50))

	tests := []struct {
		name string
		x, y int
	}{
		{"left of board", -1, 10},
		{"below board", 10, 400},
		{"right of board", 400, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c.ClickPixel(tt.x, tt.y)
			mustIdle(t, c.State())
			if r.highlightCalls != 0 {
				t.Errorf("renderer got %d highlight updates", r.highlightCalls)
			}
		})
	}

	// e2 is row 6, col 4 at 50px.
	c.ClickPixel(4*50+25, 6*50+25)
	mustSelected(t, c.State(), board.E2)

	c.Resize(25)
	if c.CellSize() != 25 {
		t.Fatalf("CellSize = %d", c.CellSize())
	}
	c.ClickPixel(4*25+5, 6*25+5)
	mustIdle(t, c.State())

	c.Resize(0)
	if c.CellSize() != 25 {
		t.Error("Resize(0) changed the cell size")
	}
}

func TestRejectedMoveReturnsToIdle(t *testing.T) {
	e := newFakeEngine()
	e.reject = true
	e.put(board.E2, board.Pawn, board.White, rules.Destination{To: board.E4})
	c, r := newController(t, e)
	r.SetStatusText("White to move")
	r.reset()

	c.ClickSquare(board.E2)
	c.ClickSquare(board.E4)

	mustIdle(t, c.State())
	if len(e.applied) != 1 {
		t.Fatalf("applied = %v", e.applied)
	}
	if r.resyncs != 0 {
		t.Error("rejected move resynchronised the board")
	}
	if got := r.Snapshot().Status; got != "White to move" {
		t.Errorf("status = %q", got)
	}
}

func TestSelectionAfterGameOver(t *testing.T) {
	e := newFakeEngine()
	e.put(board.E1, board.King, board.White)
	e.status = rules.Status{Kind: rules.Stalemate, Winner: board.NoColor}
	c, r := newController(t, e)

	if !c.GameOver() {
		t.Fatal("GameOver = false")
	}
	c.ClickSquare(board.E1)
	sel := mustSelected(t, c.State(), board.E1)
	if sel.Legal.Len() != 0 {
		t.Errorf("legal = %v, want empty", sel.Legal)
	}
	if got := c.Highlights()[board.E1]; got != highlight.Selected {
		t.Errorf("e1 = %v, want Selected", got)
	}
	c.ClickSquare(board.E4)
	mustIdle(t, c.State())
	if len(e.applied) != 0 {
		t.Errorf("applied = %v after game over", e.applied)
	}

	c.Flip()
	if c.Orientation() != board.Flipped {
		t.Error("flip should still work after game over")
	}
	if got := r.Snapshot().Status; got != "Game Over: Stalemate 1/2-1/2" {
		t.Errorf("status = %q", got)
	}
}

func TestSelectMatedKing(t *testing.T) {
	g, err := rules.NewChessGame()
	if err != nil {
		t.Fatal(err)
	}
	c, _ := newController(t, g)

	moves := [][2]board.Square{
		{board.F2, board.F3}, {board.E7, board.E5},
		{board.G2, board.G4}, {board.D8, board.H4},
	}
	for _, mv := range moves {
		c.ClickSquare(mv[0])
		c.ClickSquare(mv[1])
	}
	if !c.GameOver() {
		t.Fatal("fool's mate should end the game")
	}

	c.ClickSquare(board.E1)
	sel := mustSelected(t, c.State(), board.E1)
	if sel.Legal.Len() != 0 {
		t.Errorf("legal = %v, want empty", sel.Legal)
	}
	if got := c.Highlights()[board.E1]; got != highlight.Selected|highlight.Check {
		t.Errorf("e1 = %v, want Selected|Check", got)
	}
}

func TestHighlightInvariantThroughSequence(t *testing.T) {
	g, err := rules.NewChessGame()
	if err != nil {
		t.Fatal(err)
	}
	c, _ := newController(t, g)

	clicks := []board.Square{
		board.E2, board.E4, board.E7, board.E5, board.G1, board.F3,
		board.B8, board.C6, board.F1, board.C4, board.G8, board.G8,
		board.A7, board.A6, board.D2, board.D4,
	}
	for _, sq := range clicks {
		c.ClickSquare(sq)
		m := c.Highlights()
		sel, ok := c.State().(selection.PieceSelected)
		if !ok {
			continue
		}
		selected := 0
		for s, k := range m {
			switch {
			case k.Has(highlight.Selected):
				selected++
			case k == highlight.None || k == highlight.Check:
			case !sel.Legal.Has(board.Square(s)):
				t.Errorf("after %v: %v is %v but not a legal destination", sq, board.Square(s), k)
			}
		}
		if selected != 1 {
			t.Errorf("after %v: %d selected squares", sq, selected)
		}
	}
}

func TestRealGameFlow(t *testing.T) {
	t.Run("scholar's mate ends the game", func(t *testing.T) {
		g, err := rules.NewChessGame()
		if err != nil {
			t.Fatal(err)
		}
		c, r := newController(t, g)

		moves := [][2]board.Square{
			{board.E2, board.E4}, {board.E7, board.E5},
			{board.F1, board.C4}, {board.B8, board.C6},
			{board.D1, board.H5}, {board.G8, board.F6},
			{board.H5, board.F7},
		}
		for _, mv := range moves {
			c.ClickSquare(mv[0])
			c.ClickSquare(mv[1])
			mustIdle(t, c.State())
		}
		if !c.GameOver() {
			t.Fatal("game should be over")
		}
		if c.CheckSquare() != board.E8 || c.Highlights()[board.E8] != highlight.Check {
			t.Errorf("check square = %v", c.CheckSquare())
		}
		if got := r.Snapshot().Status; got != "Game Over: Checkmate 1-0" {
			t.Errorf("status = %q", got)
		}
		if got := r.Snapshot().Pieces[board.F7]; got != board.NewPiece(board.Queen, board.White) {
			t.Errorf("f7 = %v, want white queen", got)
		}
	})

	t.Run("promotion to knight", func(t *testing.T) {
		g, err := rules.NewChessGame(rules.WithFEN("8/4P2p/8/8/8/8/k7/4K3 w - - 0 1"))
		if err != nil {
			t.Fatal(err)
		}
		c, r := newController(t, g)

		c.ClickSquare(board.E7)
		c.ClickSquare(board.E8)
		if _, ok := c.State().(selection.PromotionPending); !ok {
			t.Fatalf("state = %v", c.State())
		}
		c.ClickSquare(board.E7)
		if got := g.PieceAt(board.E8); got != board.NewPiece(board.Knight, board.White) {
			t.Errorf("e8 = %v, want white knight", got)
		}
		if got := r.Snapshot().Pieces[board.E7]; got != board.NoPiece {
			t.Errorf("e7 = %v after promotion", got)
		}
		if got := r.Snapshot().Status; got != "Black to move" {
			t.Errorf("status = %q", got)
		}
	})
}

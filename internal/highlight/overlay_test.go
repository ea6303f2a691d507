package highlight

import (
	"testing"

	"github.com/hailam/chessboard/internal/board"
	"github.com/hailam/chessboard/internal/promotion"
	"github.com/hailam/chessboard/internal/rules"
	"github.com/hailam/chessboard/internal/selection"
)

// highlighted counts squares with any highlight.
func highlighted(m Map) int {
	n := 0
	for _, k := range m {
		if k != None {
			n++
		}
	}
	return n
}

func destsFrom(table map[board.Square][]rules.Destination) DestinationsFunc {
	return func(sq board.Square) []rules.Destination { return table[sq] }
}

func legalOf(dests []rules.Destination) board.SquareSet {
	var s board.SquareSet
	for _, d := range dests {
		s = s.Add(d.To)
	}
	return s
}

func assertValid(t *testing.T, m Map) {
	t.Helper()
	for sq, k := range m {
		if !k.Valid() {
			t.Errorf("%v has invalid combination %v", board.Square(sq), k)
		}
	}
}

func TestComputeIdle(t *testing.T) {
	m := Compute(selection.Idle{}, board.NoSquare, nil)
	if m != (Map{}) {
		t.Errorf("idle map has highlights: %v", m)
	}

	m = Compute(selection.Idle{}, board.G1, nil)
	if m[board.G1] != Check {
		t.Errorf("g1 = %v, want check", m[board.G1])
	}
	if highlighted(m) != 1 {
		t.Errorf("only the check square should be highlighted")
	}
}

func TestComputePieceSelected(t *testing.T) {
	table := map[board.Square][]rules.Destination{
		board.E2: {{To: board.E3}, {To: board.E4}},
	}
	state := selection.PieceSelected{From: board.E2, Legal: legalOf(table[board.E2])}
	m := Compute(state, board.NoSquare, destsFrom(table))

	if m[board.E2] != Selected {
		t.Errorf("e2 = %v, want selected", m[board.E2])
	}
	if m[board.E3] != LegalMove || m[board.E4] != LegalMove {
		t.Errorf("e3 = %v, e4 = %v, want move", m[board.E3], m[board.E4])
	}
	if highlighted(m) != 3 {
		t.Errorf("%d squares highlighted, want 3", highlighted(m))
	}
	assertValid(t, m)
}

func TestComputeCaptureAndCheck(t *testing.T) {
	// King on e1 in check may capture on d2 or step to f1.
	table := map[board.Square][]rules.Destination{
		board.E1: {{To: board.D2, IsCapture: true}, {To: board.F1}},
	}
	state := selection.PieceSelected{From: board.E1, Legal: legalOf(table[board.E1])}
	m := Compute(state, board.E1, destsFrom(table))

	if m[board.E1] != SelectedCheck {
		t.Errorf("e1 = %v, want selected|check", m[board.E1])
	}
	if m[board.D2] != Capture {
		t.Errorf("d2 = %v, want capture", m[board.D2])
	}
	if m[board.F1] != LegalMove {
		t.Errorf("f1 = %v, want move", m[board.F1])
	}
	assertValid(t, m)
}

func TestComputeOtherPieceWhileInCheck(t *testing.T) {
	table := map[board.Square][]rules.Destination{
		board.B1: {{To: board.D2}},
	}
	state := selection.PieceSelected{From: board.B1, Legal: legalOf(table[board.B1])}
	m := Compute(state, board.E1, destsFrom(table))

	if m[board.E1] != Check || m[board.B1] != Selected || m[board.D2] != LegalMove {
		t.Errorf("e1=%v b1=%v d2=%v", m[board.E1], m[board.B1], m[board.D2])
	}
}

func TestComputeOnlyLegalSetIsHighlighted(t *testing.T) {
	// The engine may report more than the state captured; the state wins.
	table := map[board.Square][]rules.Destination{
		board.E2: {{To: board.E3}, {To: board.E4}},
	}
	state := selection.PieceSelected{From: board.E2, Legal: board.SetOf(board.E3)}
	m := Compute(state, board.NoSquare, destsFrom(table))
	if m[board.E4] != None {
		t.Errorf("e4 = %v, want none", m[board.E4])
	}
	for sq, k := range m {
		if k != None && board.Square(sq) != state.From && !state.Legal.Has(board.Square(sq)) {
			t.Errorf("%v highlighted but not legal", board.Square(sq))
		}
	}
}

func TestComputePromotionSuppressesEverything(t *testing.T) {
	state := selection.PromotionPending{
		From:    board.E7,
		To:      board.E8,
		Choices: promotion.Choices(board.White, board.E8),
	}
	called := false
	destsOf := func(board.Square) []rules.Destination {
		called = true
		return nil
	}
	m := Compute(state, board.G1, destsOf)

	if called {
		t.Error("promotion overlay should not query destinations")
	}
	for _, sq := range []board.Square{board.E8, board.E7, board.E6, board.E5} {
		if m[sq] != PromotionChoice {
			t.Errorf("%v = %v, want promotion", sq, m[sq])
		}
	}
	if m[board.G1] != None {
		t.Errorf("check should be suppressed, g1 = %v", m[board.G1])
	}
	if highlighted(m) != 4 {
		t.Errorf("%d squares highlighted, want 4", highlighted(m))
	}
}

func TestComputeIsDeterministic(t *testing.T) {
	table := map[board.Square][]rules.Destination{
		board.G1: {{To: board.F3}, {To: board.H3}},
	}
	state := selection.PieceSelected{From: board.G1, Legal: legalOf(table[board.G1])}
	a := Compute(state, board.NoSquare, destsFrom(table))
	b := Compute(state, board.NoSquare, destsFrom(table))
	if a != b {
		t.Error("Compute is not deterministic")
	}
	if len(Diff(a, b)) != 0 {
		t.Error("Diff of equal maps is not empty")
	}

	idle := Compute(selection.Idle{}, board.NoSquare, nil)
	changed := Diff(idle, a)
	if len(changed) != 3 {
		t.Errorf("Diff = %v, want g1 f3 h3", changed)
	}
}

func TestKind(t *testing.T) {
	tests := []struct {
		k     Kind
		valid bool
		str   string
	}{
		{None, true, "none"},
		{Selected, true, "selected"},
		{SelectedCheck, true, "selected|check"},
		{Capture, true, "capture"},
		{PromotionChoice, true, "promotion"},
		{Selected | LegalMove, false, "selected|move"},
		{Check | PromotionChoice, false, "check|promotion"},
	}
	for _, tt := range tests {
		if tt.k.Valid() != tt.valid {
			t.Errorf("%v.Valid() = %v", tt.k, tt.k.Valid())
		}
		if tt.k.String() != tt.str {
			t.Errorf("String = %q, want %q", tt.k.String(), tt.str)
		}
	}
}

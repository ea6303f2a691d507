package highlight

import (
	"github.com/hailam/chessboard/internal/board"
	"github.com/hailam/chessboard/internal/promotion"
	"github.com/hailam/chessboard/internal/rules"
	"github.com/hailam/chessboard/internal/selection"
)

// Map assigns a Kind to every square. It is an array, so no square can be
// missing.
type Map [64]Kind

// DestinationsFunc returns the legal destinations of the piece on a square,
// as reported by the rules engine.
type DestinationsFunc func(board.Square) []rules.Destination

// Compute builds the overlay for the given state from scratch.
//
// A pending promotion replaces all other highlighting, check included. For
// any other state the selected square is marked (merged with Check when it is
// the checked king), legal destinations become LegalMove or Capture, and the
// check square is marked if nothing else claimed it.
func Compute(state selection.State, check board.Square, destsOf DestinationsFunc) Map {
	var m Map

	if pending, ok := state.(selection.PromotionPending); ok {
		for _, sq := range promotion.Squares(pending.Choices).Squares() {
			m[sq] = PromotionChoice
		}
		return m
	}

	if sel, ok := state.(selection.PieceSelected); ok && sel.From.IsValid() {
		m[sel.From] = Selected
		if sel.From == check {
			m[sel.From] = SelectedCheck
		}
		if destsOf != nil {
			for _, d := range destsOf(sel.From) {
				if !sel.Legal.Has(d.To) || d.To == sel.From {
					continue
				}
				if d.IsCapture {
					m[d.To] = Capture
				} else {
					m[d.To] = LegalMove
				}
			}
		}
	}

	if check.IsValid() && m[check] == None {
		m[check] = Check
	}
	return m
}

// Diff returns the squares whose highlight differs between a and b, in
// ascending square order.
func Diff(a, b Map) []board.Square {
	var changed []board.Square
	for sq := board.A1; sq <= board.H8; sq++ {
		if a[sq] != b[sq] {
			changed = append(changed, sq)
		}
	}
	return changed
}


// Package highlight computes the per-square highlight overlay from the
// interaction state and the check square reported by the rules engine.
package highlight

import "strings"

// Kind is a set of highlight flags for one square.
type Kind uint8

const (
	None            Kind = 0
	Selected        Kind = 1  // whole square tinted
	LegalMove       Kind = 2  // centre dot on an empty square
	Capture         Kind = 4  // ring around an enemy piece
	Check           Kind = 8  // red ring around the king
	PromotionChoice Kind = 16 // promotion picker cell

	// SelectedCheck is the only allowed combination: the selected piece is
	// the king in check.
	SelectedCheck = Selected | Check
)

// Has reports whether every flag in f is set.
func (k Kind) Has(f Kind) bool {
	return k&f == f
}

// Valid reports whether k is a combination the overlay may produce.
func (k Kind) Valid() bool {
	switch k {
	case None, Selected, LegalMove, Capture, Check, PromotionChoice, SelectedCheck:
		return true
	default:
		return false
	}
}

var kindNames = []struct {
	k    Kind
	name string
}{
	{Selected, "selected"},
	{LegalMove, "move"},
	{Capture, "capture"},
	{Check, "check"},
	{PromotionChoice, "promotion"},
}

// String joins the flag names with "|", or returns "none".
func (k Kind) String() string {
	if k == None {
		return "none"
	}
	var parts []string
	for _, n := range kindNames {
		if k.Has(n.k) {
			parts = append(parts, n.name)
		}
	}
	return strings.Join(parts, "|")
}

package board

import (
	"math/bits"
	"strings"
)

// SquareSet is a set of squares stored as a 64-bit mask.
// Bit 0 = A1, Bit 7 = H1, Bit 56 = A8, Bit 63 = H8.
type SquareSet uint64

// SetOf builds a set from the given squares. Invalid squares are ignored.
func SetOf(squares ...Square) SquareSet {
	var s SquareSet
	for _, sq := range squares {
		s = s.Add(sq)
	}
	return s
}

// Add returns the set with sq included.
func (s SquareSet) Add(sq Square) SquareSet {
	if !sq.IsValid() {
		return s
	}
	return s | (1 << sq)
}

// Has reports whether sq is a member.
func (s SquareSet) Has(sq Square) bool {
	return sq.IsValid() && s&(1<<sq) != 0
}

// Len returns the number of members.
func (s SquareSet) Len() int {
	return bits.OnesCount64(uint64(s))
}

// first returns the lowest member.
func (s SquareSet) first() Square {
	if s == 0 {
		return NoSquare
	}
	return Square(bits.TrailingZeros64(uint64(s)))
}

// Squares returns the members in ascending order (a1, b1, ..., h8).
func (s SquareSet) Squares() []Square {
	squares := make([]Square, 0, s.Len())
	for s != 0 {
		squares = append(squares, s.first())
		s &= s - 1
	}
	return squares
}

// String lists members as "{e3 e4}".
func (s SquareSet) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, sq := range s.Squares() {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(sq.String())
	}
	sb.WriteByte('}')
	return sb.String()
}

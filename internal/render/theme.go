package render

import (
	"image/color"

	"github.com/hailam/chessboard/internal/board"
	"github.com/hailam/chessboard/internal/highlight"
)

// Theme defines the board palette.
type Theme struct {
	LightSquare   color.RGBA
	DarkSquare    color.RGBA
	Selected      color.RGBA
	Check         color.RGBA
	PromotionCell color.RGBA
	PromotionRing color.RGBA
	Background    color.RGBA
	TextColor     color.RGBA
}

// DefaultTheme returns the brown board palette.
func DefaultTheme() *Theme {
	return &Theme{
		LightSquare:   color.RGBA{0xF0, 0xD9, 0xB5, 0xFF},
		DarkSquare:    color.RGBA{0xB5, 0x88, 0x63, 0xFF},
		Selected:      color.RGBA{0x64, 0x6F, 0x40, 0xFF},
		Check:         color.RGBA{0xD3, 0x35, 0x27, 0xFF},
		PromotionCell: color.RGBA{0x45, 0x45, 0x3D, 0xFF},
		PromotionRing: color.RGBA{0x98, 0x98, 0x98, 0xFF},
		Background:    color.RGBA{0x26, 0x26, 0x26, 0xFF},
		TextColor:     color.RGBA{0x88, 0x88, 0x88, 0xFF},
	}
}

// CellStyle is how one square is painted: a filled square, a large circle
// inscribed in it and a small centre dot, drawn in that order.
type CellStyle struct {
	Square color.RGBA
	Outer  color.RGBA
	Inner  color.RGBA
}

// Ring radii as fractions of the cell size.
const (
	OuterRadius = 0.5
	InnerRadius = 7.0 / 64.0
)

// SquareColor returns the plain color of sq.
func (t *Theme) SquareColor(sq board.Square) color.RGBA {
	if board.IsLightSquare(sq) {
		return t.LightSquare
	}
	return t.DarkSquare
}

// Style resolves the paint for a square with highlight k.
func (t *Theme) Style(sq board.Square, k highlight.Kind) CellStyle {
	base := t.SquareColor(sq)
	switch k {
	case highlight.Selected:
		return CellStyle{t.Selected, t.Selected, t.Selected}
	case highlight.LegalMove:
		return CellStyle{base, base, t.Selected}
	case highlight.Capture:
		return CellStyle{t.Selected, base, base}
	case highlight.Check:
		return CellStyle{base, t.Check, t.Check}
	case highlight.SelectedCheck:
		return CellStyle{t.Selected, t.Check, t.Check}
	case highlight.PromotionChoice:
		return CellStyle{t.PromotionCell, t.PromotionRing, t.PromotionRing}
	default:
		return CellStyle{base, base, base}
	}
}

// FileLabel returns the file letter shown under grid column col.
func FileLabel(col int, o board.Orientation) string {
	sq := board.ToSquare(7, col, o)
	return string(rune('a' + sq.File()))
}

// RankLabel returns the rank digit shown beside grid row row.
func RankLabel(row int, o board.Orientation) string {
	sq := board.ToSquare(row, 7, o)
	return string(rune('1' + sq.Rank()))
}

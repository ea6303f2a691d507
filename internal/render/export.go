package render

import (
	"fmt"
	"image/color"
	"io"

	svg "github.com/ajstarks/svgo"
	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/opentype"

	"github.com/hailam/chessboard/internal/board"
)

// StatusBarHeight is the strip under the board that carries the status text.
const StatusBarHeight = 28

// ImageSize returns the exported image dimensions for a cell size.
func ImageSize(cellSize int) (w, h int) {
	return cellSize * 8, cellSize*8 + StatusBarHeight
}

// PieceLetter is the glyph used for a piece in text-only output.
func PieceLetter(p board.Piece) string {
	if p == board.NoPiece {
		return ""
	}
	return string(p.Type().Char() - 'a' + 'A')
}

func loadFace(size float64) (font.Face, error) {
	f, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	return opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}

// WritePNG draws the frame as seen from orientation o and encodes it as PNG.
func WritePNG(w io.Writer, f Frame, o board.Orientation, cellSize int, theme *Theme) error {
	if cellSize <= 0 {
		return fmt.Errorf("cell size must be positive, got %d", cellSize)
	}
	width, height := ImageSize(cellSize)
	dc := gg.NewContext(width, height)
	dc.SetColor(theme.Background)
	dc.Clear()

	pieceFace, err := loadFace(float64(cellSize) * 0.45)
	if err != nil {
		return err
	}
	labelFace, err := loadFace(float64(cellSize) * 0.18)
	if err != nil {
		return err
	}

	cs := float64(cellSize)
	for sq := board.A1; sq <= board.H8; sq++ {
		x, y := board.SquareToPixel(sq, cellSize, o)
		fx, fy := float64(x), float64(y)
		style := theme.Style(sq, f.Highlights[sq])

		dc.SetColor(style.Square)
		dc.DrawRectangle(fx, fy, cs, cs)
		dc.Fill()
		dc.SetColor(style.Outer)
		dc.DrawCircle(fx+cs/2, fy+cs/2, cs*OuterRadius)
		dc.Fill()
		dc.SetColor(style.Inner)
		dc.DrawCircle(fx+cs/2, fy+cs/2, cs*InnerRadius)
		dc.Fill()

		if p := f.PieceOnTop(sq); p != board.NoPiece {
			fill, ink := pieceColors(p)
			dc.SetColor(fill)
			dc.DrawCircle(fx+cs/2, fy+cs/2, cs*0.34)
			dc.FillPreserve()
			dc.SetColor(ink)
			dc.SetLineWidth(2)
			dc.Stroke()
			dc.SetFontFace(pieceFace)
			dc.DrawStringAnchored(PieceLetter(p), fx+cs/2, fy+cs/2, 0.5, 0.35)
		}
	}

	dc.SetFontFace(labelFace)
	for i := 0; i < 8; i++ {
		dc.SetColor(labelColor(theme, board.ToSquare(7, i, o)))
		dc.DrawStringAnchored(FileLabel(i, o), float64(i)*cs+4, 8*cs-4, 0, 0)
		dc.SetColor(labelColor(theme, board.ToSquare(i, 7, o)))
		dc.DrawStringAnchored(RankLabel(i, o), 8*cs-4, float64(i)*cs+4, 1, 1)
	}

	dc.SetColor(theme.TextColor)
	dc.DrawStringAnchored(f.Status, 8, 8*cs+StatusBarHeight/2, 0, 0.35)

	return dc.EncodePNG(w)
}

// WriteSVG draws the frame as seen from orientation o as an SVG document.
func WriteSVG(w io.Writer, f Frame, o board.Orientation, cellSize int, theme *Theme) error {
	if cellSize <= 0 {
		return fmt.Errorf("cell size must be positive, got %d", cellSize)
	}
	width, height := ImageSize(cellSize)
	canvas := svg.New(w)
	canvas.Start(width, height)
	canvas.Rect(0, 0, width, height, "fill:"+hex(theme.Background))

	outer := int(float64(cellSize) * OuterRadius)
	inner := int(float64(cellSize) * InnerRadius)
	for sq := board.A1; sq <= board.H8; sq++ {
		x, y := board.SquareToPixel(sq, cellSize, o)
		cx, cy := x+cellSize/2, y+cellSize/2
		style := theme.Style(sq, f.Highlights[sq])

		canvas.Rect(x, y, cellSize, cellSize, "fill:"+hex(style.Square))
		canvas.Circle(cx, cy, outer, "fill:"+hex(style.Outer))
		canvas.Circle(cx, cy, inner, "fill:"+hex(style.Inner))

		if p := f.PieceOnTop(sq); p != board.NoPiece {
			fill, ink := pieceColors(p)
			canvas.Circle(cx, cy, cellSize*34/100,
				fmt.Sprintf("fill:%s;stroke:%s;stroke-width:2", hex(fill), hex(ink)))
			canvas.Text(cx, cy+cellSize/6, PieceLetter(p),
				fmt.Sprintf("fill:%s;font-size:%dpx;font-family:sans-serif;font-weight:bold;text-anchor:middle", hex(ink), cellSize*45/100))
		}
	}

	labelSize := cellSize * 18 / 100
	for i := 0; i < 8; i++ {
		canvas.Text(i*cellSize+4, 8*cellSize-4, FileLabel(i, o),
			fmt.Sprintf("fill:%s;font-size:%dpx;font-family:sans-serif", hex(labelColor(theme, board.ToSquare(7, i, o))), labelSize))
		canvas.Text(8*cellSize-4, i*cellSize+4+labelSize, RankLabel(i, o),
			fmt.Sprintf("fill:%s;font-size:%dpx;font-family:sans-serif;text-anchor:end", hex(labelColor(theme, board.ToSquare(i, 7, o))), labelSize))
	}

	canvas.Text(8, 8*cellSize+StatusBarHeight*2/3, f.Status,
		fmt.Sprintf("fill:%s;font-size:14px;font-family:sans-serif", hex(theme.TextColor)))
	canvas.End()
	return nil
}

// labelColor contrasts a coordinate label with the square it sits on.
func labelColor(theme *Theme, sq board.Square) color.RGBA {
	if board.IsLightSquare(sq) {
		return theme.DarkSquare
	}
	return theme.LightSquare
}

func pieceColors(p board.Piece) (fill, ink color.RGBA) {
	white := color.RGBA{0xF8, 0xF8, 0xF8, 0xFF}
	black := color.RGBA{0x20, 0x20, 0x20, 0xFF}
	if p.Color() == board.White {
		return white, black
	}
	return black, white
}

func hex(c color.RGBA) string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

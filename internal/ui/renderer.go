package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/hailam/chessboard/internal/board"
	"github.com/hailam/chessboard/internal/render"
)

// Renderer draws canvas frames onto the window.
type Renderer struct {
	sprites    *SpriteManager
	fonts      *fontCache
	theme      *render.Theme
	squareSize int
	scale      float64 // HiDPI scale factor
}

// NewRenderer creates a new renderer. With a nil font cache the coordinate
// labels are not drawn.
func NewRenderer(squareSize int, theme *render.Theme, fonts *fontCache) (*Renderer, error) {
	sprites, err := NewSpriteManager(squareSize)
	if err != nil {
		return nil, err
	}
	if theme == nil {
		theme = render.DefaultTheme()
	}
	return &Renderer{
		sprites:    sprites,
		fonts:      fonts,
		theme:      theme,
		squareSize: squareSize,
		scale:      1.0,
	}, nil
}

// SetScale sets the HiDPI scale factor for rendering.
func (r *Renderer) SetScale(scale float64) error {
	if scale == r.scale {
		return nil
	}
	r.scale = scale
	return r.sprites.Resize(int(float64(r.squareSize) * scale))
}

// SetSquareSize changes the logical square size.
func (r *Renderer) SetSquareSize(size int) error {
	if size <= 0 || size == r.squareSize {
		return nil
	}
	r.squareSize = size
	return r.sprites.Resize(int(float64(size) * r.scale))
}

// s returns the scaled value for rendering.
func (r *Renderer) s(v float64) float32 {
	return float32(v * r.scale)
}

// DrawFrame draws squares, highlights, labels and pieces.
func (r *Renderer) DrawFrame(screen *ebiten.Image, f *render.Frame, o board.Orientation) {
	for sq := board.A1; sq <= board.H8; sq++ {
		r.drawCell(screen, sq, f, o)
	}
	r.drawCoordinates(screen, o)
}

// drawCell paints one square: fill, ring, centre dot, then the piece.
func (r *Renderer) drawCell(screen *ebiten.Image, sq board.Square, f *render.Frame, o board.Orientation) {
	size := float64(r.squareSize)
	px, py := board.SquareToPixel(sq, r.squareSize, o)
	x, y := float64(px), float64(py)
	style := r.theme.Style(sq, f.Highlights[sq])

	vector.DrawFilledRect(screen, r.s(x), r.s(y), r.s(size), r.s(size), style.Square, true)
	cx, cy := x+size/2, y+size/2
	if style.Outer != style.Square {
		vector.DrawFilledCircle(screen, r.s(cx), r.s(cy), r.s(size*render.OuterRadius), style.Outer, true)
	}
	if style.Inner != style.Outer {
		vector.DrawFilledCircle(screen, r.s(cx), r.s(cy), r.s(size*render.InnerRadius), style.Inner, true)
	}

	if p := f.PieceOnTop(sq); p != board.NoPiece {
		r.sprites.DrawPieceAt(screen, p, float64(r.s(x)), float64(r.s(y)))
	}
}

// drawCoordinates draws file letters along the bottom row and rank digits
// along the right-hand column.
func (r *Renderer) drawCoordinates(screen *ebiten.Image, o board.Orientation) {
	face := r.fonts.face(styleRegular, labelSize(float64(r.squareSize)*r.scale))
	if face == nil {
		return
	}
	size := float64(r.squareSize)
	pad := size / 16

	for i := 0; i < 8; i++ {
		file := render.FileLabel(i, o)
		bottom := board.ToSquare(7, i, o)
		op := &text.DrawOptions{}
		_, h := measureText(file, face)
		op.GeoM.Translate(float64(r.s(float64(i)*size+pad)), float64(r.s(8*size-pad))-h)
		op.ColorScale.ScaleWithColor(r.labelColor(bottom))
		text.Draw(screen, file, face, op)

		rank := render.RankLabel(i, o)
		right := board.ToSquare(i, 7, o)
		w, _ := measureText(rank, face)
		op = &text.DrawOptions{}
		op.GeoM.Translate(float64(r.s(8*size-pad))-w, float64(r.s(float64(i)*size+pad)))
		op.ColorScale.ScaleWithColor(r.labelColor(right))
		text.Draw(screen, rank, face, op)
	}
}

// labelColor contrasts a coordinate label with the square it sits on.
func (r *Renderer) labelColor(sq board.Square) color.Color {
	if board.IsLightSquare(sq) {
		return r.theme.DarkSquare
	}
	return r.theme.LightSquare
}

// BoardSize returns the logical board size in pixels.
func (r *Renderer) BoardSize() int {
	return r.squareSize * 8
}

// SquareSize returns the logical size of one square in pixels.
func (r *Renderer) SquareSize() int {
	return r.squareSize
}

// Theme returns the current theme.
func (r *Renderer) Theme() *render.Theme {
	return r.theme
}

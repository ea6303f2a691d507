package ui

import (
	"fmt"
	"image"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"

	"github.com/hailam/chessboard/internal/board"
)

// Piece outlines on a 45x45 canvas. FILL and INK are replaced per color.
var pieceShapes = [...]string{
	board.Pawn: `<circle cx="22.5" cy="13" r="5" fill="FILL" stroke="INK" stroke-width="1.5"/>
<path d="M 17 36 L 19.5 20 L 25.5 20 L 28 36 Z" fill="FILL" stroke="INK" stroke-width="1.5"/>`,
	board.Knight: `<path d="M 14 36 L 16 26 C 12 24 10 20 12 17 L 20 9 L 22 5 L 24 10 C 30 12 33 20 31 36 Z" fill="FILL" stroke="INK" stroke-width="1.5" stroke-linejoin="round"/>
<circle cx="19" cy="14" r="1.5" fill="INK"/>`,
	board.Bishop: `<path d="M 16 36 C 16 29 18 24 22.5 20 C 27 24 29 29 29 36 Z" fill="FILL" stroke="INK" stroke-width="1.5"/>
<path d="M 22.5 9 C 18 13 17 18 18 21 L 27 21 C 28 18 27 13 22.5 9 Z" fill="FILL" stroke="INK" stroke-width="1.5"/>
<circle cx="22.5" cy="7" r="2.5" fill="FILL" stroke="INK" stroke-width="1.5"/>`,
	board.Rook: `<path d="M 13 36 L 14 17 L 31 17 L 32 36 Z" fill="FILL" stroke="INK" stroke-width="1.5"/>
<path d="M 11 17 L 11 9 L 15 9 L 15 12 L 20 12 L 20 9 L 25 9 L 25 12 L 30 12 L 30 9 L 34 9 L 34 17 Z" fill="FILL" stroke="INK" stroke-width="1.5" stroke-linejoin="round"/>`,
	board.Queen: `<path d="M 12 36 L 10 14 L 16 26 L 18 11 L 22.5 25 L 27 11 L 29 26 L 35 14 L 33 36 Z" fill="FILL" stroke="INK" stroke-width="1.5" stroke-linejoin="round"/>
<circle cx="10" cy="12" r="2" fill="FILL" stroke="INK" stroke-width="1.5"/>
<circle cx="18" cy="9" r="2" fill="FILL" stroke="INK" stroke-width="1.5"/>
<circle cx="27" cy="9" r="2" fill="FILL" stroke="INK" stroke-width="1.5"/>
<circle cx="35" cy="12" r="2" fill="FILL" stroke="INK" stroke-width="1.5"/>`,
	board.King: `<path d="M 13 36 C 11 28 14 22 22.5 22 C 31 22 34 28 32 36 Z" fill="FILL" stroke="INK" stroke-width="1.5"/>
<path d="M 21 5 L 24 5 L 24 9 L 28 9 L 28 12 L 24 12 L 24 22 L 21 22 L 21 12 L 17 12 L 17 9 L 21 9 Z" fill="FILL" stroke="INK" stroke-width="1.5" stroke-linejoin="round"/>`,
}

const pieceBase = `<rect x="9" y="36" width="27" height="5" rx="1" fill="FILL" stroke="INK" stroke-width="1.5"/>`

// pieceSVG returns a standalone SVG document for p.
func pieceSVG(p board.Piece) string {
	fill, ink := "#F8F8F8", "#202020"
	if p.Color() == board.Black {
		fill, ink = "#202020", "#F8F8F8"
	}
	body := strings.NewReplacer("FILL", fill, "INK", ink).Replace(pieceShapes[p.Type()] + "\n" + pieceBase)
	return fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 45 45" width="45" height="45">
%s
</svg>`, body)
}

// rasterizePiece draws p into a size x size RGBA image.
func rasterizePiece(p board.Piece, size int) (*image.RGBA, error) {
	icon, err := oksvg.ReadIconStream(strings.NewReader(pieceSVG(p)))
	if err != nil {
		return nil, fmt.Errorf("parse %v: %w", p, err)
	}
	icon.SetTarget(0, 0, float64(size), float64(size))

	rgba := image.NewRGBA(image.Rect(0, 0, size, size))
	scanner := rasterx.NewScannerGV(size, size, rgba, rgba.Bounds())
	raster := rasterx.NewDasher(size, size, scanner)
	icon.Draw(raster, 1.0)
	return rgba, nil
}

// SpriteManager manages piece sprites.
type SpriteManager struct {
	pieces      map[board.Piece]*ebiten.Image
	size        int     // Display size in pixels
	renderScale float64 // Render at higher resolution for quality
}

// NewSpriteManager creates a sprite manager with pieces of the given size.
func NewSpriteManager(size int) (*SpriteManager, error) {
	sm := &SpriteManager{renderScale: 2.0}
	if err := sm.Resize(size); err != nil {
		return nil, err
	}
	return sm, nil
}

// Resize re-rasterises the sprites when the display size changes.
func (sm *SpriteManager) Resize(size int) error {
	if size <= 0 || (size == sm.size && sm.pieces != nil) {
		return nil
	}

	renderSize := int(float64(size) * sm.renderScale)
	pieces := make(map[board.Piece]*ebiten.Image, 12)
	for _, c := range []board.Color{board.White, board.Black} {
		for pt := board.Pawn; pt <= board.King; pt++ {
			p := board.NewPiece(pt, c)
			rgba, err := rasterizePiece(p, renderSize)
			if err != nil {
				return err
			}
			pieces[p] = ebiten.NewImageFromImage(rgba)
		}
	}
	sm.pieces = pieces
	sm.size = size
	return nil
}

// GetPiece returns the sprite for a piece.
func (sm *SpriteManager) GetPiece(p board.Piece) *ebiten.Image {
	return sm.pieces[p]
}

// DrawPieceAt draws a piece with its top-left corner at x, y.
func (sm *SpriteManager) DrawPieceAt(screen *ebiten.Image, p board.Piece, x, y float64) {
	sprite := sm.GetPiece(p)
	if sprite == nil {
		return
	}
	op := &ebiten.DrawImageOptions{}
	scale := 1.0 / sm.renderScale
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(x, y)
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(sprite, op)
}

package ui

import (
	"image/color"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Panel dimensions
const (
	PanelWidth     = 240
	PanelPadding   = 20
	SectionSpacing = 28
	ButtonHeight   = 40
)

// Panel colors
var (
	panelBg        = color.RGBA{38, 40, 45, 255}    // Dark background
	buttonBg       = color.RGBA{50, 54, 60, 255}    // Button background
	buttonHoverBg  = color.RGBA{65, 70, 78, 255}    // Button hover
	buttonPressBg  = color.RGBA{40, 44, 50, 255}    // Button pressed
	buttonBorder   = color.RGBA{70, 75, 82, 255}    // Subtle button border
	accentColor    = color.RGBA{76, 175, 120, 255}  // Green accent
	textPrimary    = color.RGBA{240, 240, 245, 255} // Primary text
	textSecondary  = color.RGBA{160, 165, 175, 255} // Secondary text
	textMuted      = color.RGBA{120, 125, 135, 255} // Muted text
	dividerColor   = color.RGBA{60, 65, 72, 255}    // Divider line
	statusGameOver = color.RGBA{255, 200, 80, 255}  // Yellow for game over
)

// Button represents a clickable UI element.
type Button struct {
	X, Y, W, H int
	Label      string
	OnClick    func()
	hovered    bool
	pressed    bool
}

// Panel is the side panel with the flip button and the status line.
type Panel struct {
	x, height int
	flipBtn   *Button
	fonts     *fontCache
	scale     float64
}

// NewPanel creates a panel whose left edge is at x. onFlip runs when the
// flip button is clicked.
func NewPanel(x, height int, fonts *fontCache, onFlip func()) *Panel {
	p := &Panel{fonts: fonts, scale: 1.0}
	p.flipBtn = &Button{Label: "Flip Board", OnClick: onFlip}
	p.SetBounds(x, height)
	return p
}

// SetBounds moves the panel after a layout change.
func (p *Panel) SetBounds(x, height int) {
	p.x, p.height = x, height
	p.flipBtn.X = x + PanelPadding
	p.flipBtn.Y = PanelPadding + 8
	p.flipBtn.W = PanelWidth - PanelPadding*2
	p.flipBtn.H = ButtonHeight
}

// SetScale sets the HiDPI scale factor for drawing.
func (p *Panel) SetScale(scale float64) {
	p.scale = scale
}

// HandleInput processes input for the panel. Returns true if input was handled.
func (p *Panel) HandleInput(input *InputHandler) bool {
	b := p.flipBtn
	b.hovered = input.IsInBounds(b.X, b.Y, b.W, b.H)
	b.pressed = input.IsLeftPressed() && b.hovered

	if input.ClickedInBounds(b.X, b.Y, b.W, b.H) {
		b.OnClick()
		return true
	}
	return false
}

// AnyButtonHovered reports whether the pointer is over a button.
func (p *Panel) AnyButtonHovered() bool {
	return p.flipBtn.hovered
}

// Draw renders the panel with the given status text.
func (p *Panel) Draw(screen *ebiten.Image, status string, gameOver bool) {
	p.fillRect(screen, p.x, 0, PanelWidth, p.height, panelBg)
	p.drawButton(screen, p.flipBtn)

	hintY := p.flipBtn.Y + p.flipBtn.H + SectionSpacing
	p.drawText(screen, styleRegular, hintFontSize, "F  flip board", p.x+PanelPadding, hintY, textMuted)
	p.drawText(screen, styleRegular, hintFontSize, "Ctrl+Q  quit", p.x+PanelPadding, hintY+20, textMuted)

	statusY := p.height - 70
	p.fillRect(screen, p.x+PanelPadding, statusY-10, PanelWidth-PanelPadding*2, 1, dividerColor)

	statusColor := textPrimary
	if gameOver {
		statusColor = statusGameOver
	}
	// Game-over lines are long; break after the reason.
	for i, line := range strings.SplitN(status, ": ", 2) {
		p.drawText(screen, styleBold, statusFontSize, line, p.x+PanelPadding, statusY+i*22, statusColor)
	}
}

func (p *Panel) drawButton(screen *ebiten.Image, btn *Button) {
	bgColor := buttonBg
	if btn.pressed {
		bgColor = buttonPressBg
	} else if btn.hovered {
		bgColor = buttonHoverBg
	}
	p.fillRect(screen, btn.X, btn.Y, btn.W, btn.H, bgColor)

	borderC := buttonBorder
	if btn.hovered {
		borderC = accentColor
	}
	vector.StrokeRect(screen, p.s(btn.X), p.s(btn.Y), p.s(btn.W), p.s(btn.H), 1, borderC, false)

	p.drawTextCentered(screen, btn.Label, btn.X+btn.W/2, btn.Y+btn.H/2, textSecondary)
}

func (p *Panel) s(v int) float32 {
	return float32(float64(v) * p.scale)
}

func (p *Panel) fillRect(screen *ebiten.Image, x, y, w, h int, c color.Color) {
	vector.DrawFilledRect(screen, p.s(x), p.s(y), p.s(w), p.s(h), c, false)
}

// Text drawing helpers
func (p *Panel) drawText(screen *ebiten.Image, style fontStyle, size float64, s string, x, y int, c color.Color) {
	face := p.fonts.face(style, size*p.scale)
	if face == nil {
		return
	}
	op := &text.DrawOptions{}
	op.GeoM.Translate(float64(p.s(x)), float64(p.s(y)))
	op.ColorScale.ScaleWithColor(c)
	text.Draw(screen, s, face, op)
}

func (p *Panel) drawTextCentered(screen *ebiten.Image, s string, centerX, centerY int, c color.Color) {
	face := p.fonts.face(styleBold, hintFontSize*p.scale)
	if face == nil {
		return
	}
	w, h := measureText(s, face)
	op := &text.DrawOptions{}
	op.GeoM.Translate(float64(p.s(centerX))-w/2, float64(p.s(centerY))-h/2)
	op.ColorScale.ScaleWithColor(c)
	text.Draw(screen, s, face, op)
}

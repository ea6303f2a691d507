package ui

import (
	"errors"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"

	"github.com/hailam/chessboard/internal/board"
	"github.com/hailam/chessboard/internal/controller"
	"github.com/hailam/chessboard/internal/dispatch"
	"github.com/hailam/chessboard/internal/logx"
	"github.com/hailam/chessboard/internal/render"
	"github.com/hailam/chessboard/internal/rules"
	"github.com/hailam/chessboard/internal/storage"
)

// Config holds what the window needs to start.
type Config struct {
	Engine rules.Engine
	// Store may be nil; preferences are then neither read nor written.
	Store       *storage.Storage
	Prefs       *storage.Preferences
	Orientation board.Orientation
	SquareSize  int
	Theme       *render.Theme
	Logger      *zap.SugaredLogger
}

// Game implements ebiten.Game interface.
type Game struct {
	engine rules.Engine
	ctrl   *controller.Controller
	canvas *render.Canvas

	renderer *Renderer
	input    *InputHandler
	panel    *Panel

	store    *storage.Storage
	prefs    *storage.Preferences
	recorded bool

	log   *zap.SugaredLogger
	scale float64
}

// NewGame creates the window state for the given engine.
func NewGame(cfg Config) (*Game, error) {
	if cfg.Engine == nil {
		return nil, errors.New("ui: no rules engine")
	}
	log := logx.OrNop(cfg.Logger)
	fonts, err := newFontCache()
	if err != nil {
		log.Warnw("fonts unavailable, text is not drawn", "error", err)
	}

	size := storage.ClampSquareSize(cfg.SquareSize)
	renderer, err := NewRenderer(size, cfg.Theme, fonts)
	if err != nil {
		return nil, err
	}

	prefs := cfg.Prefs
	if prefs == nil {
		prefs = storage.DefaultPreferences()
	}

	g := &Game{
		engine:   cfg.Engine,
		canvas:   render.NewCanvas(),
		renderer: renderer,
		input:    NewInputHandler(),
		store:    cfg.Store,
		prefs:    prefs,
		log:      log.Named("ui"),
		scale:    1.0,
	}
	d := dispatch.New(cfg.Engine, g.canvas, log)
	g.ctrl = controller.New(cfg.Engine, g.canvas, d,
		controller.WithOrientation(cfg.Orientation),
		controller.WithCellSize(size),
		controller.WithLogger(log),
	)
	g.panel = NewPanel(renderer.BoardSize(), renderer.BoardSize(), fonts, g.Flip)
	g.checkFirstLaunch()
	return g, nil
}

// WindowSize returns the initial window size in logical pixels.
func (g *Game) WindowSize() (int, int) {
	return g.renderer.BoardSize() + PanelWidth, g.renderer.BoardSize()
}

// Controller exposes the board controller.
func (g *Game) Controller() *controller.Controller {
	return g.ctrl
}

// Flip turns the board and remembers the orientation.
func (g *Game) Flip() {
	g.ctrl.Flip()
	g.prefs.Flipped = g.ctrl.Orientation() == board.Flipped
	g.savePreferences()
}

// Update handles input.
func (g *Game) Update() error {
	g.input.Update(g.scale)

	switch g.input.Command() {
	case CommandQuit:
		return ebiten.Termination
	case CommandFlip:
		g.Flip()
	}

	if !g.panel.HandleInput(g.input) && g.input.IsLeftJustPressed() {
		mx, my := g.input.MousePosition()
		g.ctrl.ClickPixel(mx, my)
	}
	g.recordResult()
	g.updateCursor()
	return nil
}

// updateCursor sets the cursor shape based on what's being hovered.
func (g *Game) updateCursor() {
	if g.panel.AnyButtonHovered() {
		ebiten.SetCursorShape(ebiten.CursorShapePointer)
	} else {
		ebiten.SetCursorShape(ebiten.CursorShapeDefault)
	}
}

// Draw renders the board and panel.
func (g *Game) Draw(screen *ebiten.Image) {
	if err := g.renderer.SetScale(g.scale); err != nil {
		g.log.Errorw("rasterise pieces", "error", err)
	}
	g.panel.SetScale(g.scale)

	screen.Fill(g.renderer.Theme().Background)
	frame := g.canvas.Snapshot()
	g.renderer.DrawFrame(screen, &frame, g.ctrl.Orientation())
	g.panel.Draw(screen, frame.Status, g.ctrl.GameOver())
}

// Layout fits the board to the window height and the panel beside it.
// Uses device scale factor for crisp rendering on HiDPI displays.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.scale = ebiten.Monitor().DeviceScaleFactor()
	if g.scale < 1.0 {
		g.scale = 1.0
	}

	size := squareSizeFor(outsideWidth, outsideHeight)
	if size != g.renderer.SquareSize() {
		if err := g.renderer.SetSquareSize(size); err != nil {
			g.log.Errorw("resize board", "size", size, "error", err)
		}
		g.ctrl.Resize(size)
		g.panel.SetBounds(g.renderer.BoardSize(), g.renderer.BoardSize())
	}
	return int(float64(outsideWidth) * g.scale), int(float64(outsideHeight) * g.scale)
}

// squareSizeFor picks the largest square size that fits the board and panel.
func squareSizeFor(width, height int) int {
	side := min(width-PanelWidth, height)
	return max(side/8, storage.MinSquareSize)
}

// recordResult stores the outcome once per finished game.
func (g *Game) recordResult() {
	if g.recorded || !g.ctrl.GameOver() {
		return
	}
	g.recorded = true
	st := g.engine.GameOverStatus()
	g.log.Infow("game finished", "outcome", st.Kind, "result", st.Result())
	if g.store == nil {
		return
	}
	if err := g.store.RecordResult(st); err != nil {
		g.log.Warnw("failed to record result", "error", err)
	}
}

// savePreferences saves current preferences to storage.
func (g *Game) savePreferences() {
	if g.store == nil {
		return
	}
	if err := g.store.SavePreferences(g.prefs); err != nil {
		g.log.Warnw("failed to save preferences", "error", err)
	}
}

// checkFirstLaunch writes the initial preferences on first launch.
func (g *Game) checkFirstLaunch() {
	if g.store == nil {
		return
	}
	isFirst, err := g.store.IsFirstLaunch()
	if err != nil {
		g.log.Warnw("failed to check first launch", "error", err)
		return
	}
	if !isFirst {
		return
	}
	g.savePreferences()
	if err := g.store.MarkFirstLaunchComplete(); err != nil {
		g.log.Warnw("failed to mark first launch complete", "error", err)
	}
}

// Run opens the window and blocks until it is closed.
func Run(g *Game, title string) error {
	w, h := g.WindowSize()
	ebiten.SetWindowSize(w, h)
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	return ebiten.RunGame(g)
}

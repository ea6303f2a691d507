// Package term is a line-mode terminal front-end for the board: square names
// act as clicks and the board is redrawn after every command.
package term

import (
	"bufio"
	"fmt"
	"image/color"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	xterm "golang.org/x/term"

	"github.com/hailam/chessboard/internal/board"
	"github.com/hailam/chessboard/internal/controller"
	"github.com/hailam/chessboard/internal/dispatch"
	"github.com/hailam/chessboard/internal/highlight"
	"github.com/hailam/chessboard/internal/logx"
	"github.com/hailam/chessboard/internal/render"
	"github.com/hailam/chessboard/internal/rules"
)

const help = "Enter a square (e2) to click it, 'flip' to turn the board, 'q' to quit."

// Session runs the terminal board.
type Session struct {
	ctrl   *controller.Controller
	canvas *render.Canvas
	theme  *render.Theme
	in     io.Reader
	out    io.Writer
	color  bool
	log    *zap.SugaredLogger
}

type config struct {
	in          io.Reader
	out         io.Writer
	color       *bool
	orientation board.Orientation
	log         *zap.SugaredLogger
}

// Option configures a Session.
type Option func(*config)

// WithIO replaces stdin and stdout.
func WithIO(in io.Reader, out io.Writer) Option {
	return func(c *config) { c.in, c.out = in, out }
}

// WithColor forces ANSI colour on or off.
func WithColor(on bool) Option {
	return func(c *config) { c.color = &on }
}

// WithLogger sets the logger.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(c *config) { c.log = l }
}

// WithOrientation sets the starting orientation.
func WithOrientation(o board.Orientation) Option {
	return func(c *config) { c.orientation = o }
}

// NewSession wires a controller over engine. Colour defaults to on when the
// output is a terminal.
func NewSession(engine rules.Engine, opts ...Option) *Session {
	cfg := config{in: os.Stdin, out: os.Stdout}
	for _, opt := range opts {
		opt(&cfg)
	}

	s := &Session{
		canvas: render.NewCanvas(),
		theme:  render.DefaultTheme(),
		in:     cfg.in,
		out:    cfg.out,
		log:    logx.OrNop(cfg.log),
	}
	if cfg.color != nil {
		s.color = *cfg.color
	} else if f, ok := cfg.out.(*os.File); ok {
		s.color = xterm.IsTerminal(int(f.Fd()))
	}

	d := dispatch.New(engine, s.canvas, s.log)
	s.ctrl = controller.New(engine, s.canvas, d,
		controller.WithOrientation(cfg.orientation),
		controller.WithLogger(s.log),
	)
	return s
}

// Controller exposes the board controller.
func (s *Session) Controller() *controller.Controller {
	return s.ctrl
}

// Run reads commands until EOF or quit.
func (s *Session) Run() error {
	scanner := bufio.NewScanner(s.in)
	s.Draw()
	fmt.Fprintln(s.out, help)
	for scanner.Scan() {
		line := strings.ToLower(strings.TrimSpace(scanner.Text()))
		if line == "" {
			continue
		}
		if line == "q" || line == "quit" {
			return nil
		}
		if !s.Exec(line) {
			fmt.Fprintf(s.out, "Unknown command: %s\n%s\n", line, help)
			continue
		}
		s.Draw()
	}
	return scanner.Err()
}

// Exec applies one command and reports whether it was understood.
func (s *Session) Exec(cmd string) bool {
	switch cmd {
	case "flip", "f":
		s.ctrl.Flip()
		return true
	case "sync":
		s.ctrl.Sync()
		return true
	}
	sq, err := board.ParseSquare(cmd)
	if err != nil {
		s.log.Debugw("bad command", "input", cmd, "error", err)
		return false
	}
	s.ctrl.ClickSquare(sq)
	return true
}

// Draw prints the board and status line.
func (s *Session) Draw() {
	frame := s.canvas.Snapshot()
	io.WriteString(s.out, Format(&frame, s.ctrl.Orientation(), s.theme, s.color))
}

// Format renders a frame as text, top row first. With colour off, highlights
// are shown as brackets around the cell.
func Format(f *render.Frame, o board.Orientation, theme *render.Theme, useColor bool) string {
	var b strings.Builder
	for row := 0; row < 8; row++ {
		b.WriteString(render.RankLabel(row, o))
		b.WriteByte(' ')
		for col := 0; col < 8; col++ {
			sq := board.ToSquare(row, col, o)
			b.WriteString(cell(f, sq, theme, useColor))
		}
		b.WriteByte('\n')
	}
	b.WriteString("  ")
	for col := 0; col < 8; col++ {
		b.WriteString(" " + render.FileLabel(col, o) + " ")
	}
	b.WriteByte('\n')
	b.WriteString(f.Status)
	b.WriteByte('\n')
	return b.String()
}

func cell(f *render.Frame, sq board.Square, theme *render.Theme, useColor bool) string {
	glyph := "."
	if p := f.PieceOnTop(sq); p != board.NoPiece {
		glyph = p.String()
	}
	k := f.Highlights[sq]

	if !useColor {
		left, right := markers(k)
		return left + glyph + right
	}

	style := theme.Style(sq, k)
	bg := style.Square
	if style.Outer != style.Square {
		bg = style.Outer
	}
	if glyph == "." {
		glyph = " "
		if style.Inner != bg {
			glyph = "•"
		}
	}
	fg := "30"
	if p := f.PieceOnTop(sq); p != board.NoPiece && p.Color() == board.White {
		fg = "97"
	}
	return fmt.Sprintf("%s\x1b[1;%sm %s \x1b[0m", ansiBackground(bg), fg, glyph)
}

func markers(k highlight.Kind) (string, string) {
	switch {
	case k == highlight.None:
		return " ", " "
	case k.Has(highlight.PromotionChoice):
		return "<", ">"
	case k.Has(highlight.Selected) && k.Has(highlight.Check):
		return "[", "!"
	case k.Has(highlight.Selected):
		return "[", "]"
	case k.Has(highlight.Capture):
		return "(", ")"
	case k.Has(highlight.Check):
		return "!", "!"
	default:
		return "*", " "
	}
}

func ansiBackground(c color.RGBA) string {
	return fmt.Sprintf("\x1b[48;2;%d;%d;%dm", c.R, c.G, c.B)
}

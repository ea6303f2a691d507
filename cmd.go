package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/hailam/chessboard/internal/board"
	"github.com/hailam/chessboard/internal/controller"
	"github.com/hailam/chessboard/internal/dispatch"
	"github.com/hailam/chessboard/internal/logx"
	"github.com/hailam/chessboard/internal/render"
	"github.com/hailam/chessboard/internal/rules"
	"github.com/hailam/chessboard/internal/storage"
	"github.com/hailam/chessboard/internal/term"
	"github.com/hailam/chessboard/internal/ui"
)

func commonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "fen",
			Usage: "start from this position instead of the initial one",
		},
		&cli.BoolFlag{
			Name:  "flip",
			Usage: "show the board from black's side",
		},
		&cli.IntFlag{
			Name:  "size",
			Usage: "square size in pixels",
		},
		&cli.BoolFlag{
			Name:  "claim-draws",
			Usage: "end the game on threefold repetition and the fifty-move rule",
			Value: true,
		},
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "debug, info, warn or error",
		},
		&cli.BoolFlag{
			Name:  "log-json",
			Usage: "write logs as JSON",
		},
		&cli.StringFlag{
			Name:  "data-dir",
			Usage: "directory for stored preferences",
		},
		&cli.BoolFlag{
			Name:  "no-store",
			Usage: "neither read nor write stored preferences",
		},
	}
}

func newCommand() *cli.Command {
	snapshotFlags := append(commonFlags(),
		&cli.StringFlag{
			Name:  "clicks",
			Usage: "comma separated squares to click before exporting, e.g. e2,e4",
		},
		&cli.StringFlag{
			Name:  "out",
			Usage: "output file, - for stdout",
			Value: "-",
		},
		&cli.StringFlag{
			Name:  "format",
			Usage: "png or svg (default from --out extension, else png)",
		},
	)

	termFlags := append(commonFlags(),
		&cli.BoolFlag{
			Name:  "no-color",
			Usage: "draw the board without ANSI colours",
		},
	)

	return &cli.Command{
		Name:  "chessboard",
		Usage: "interactive chess board",
		Flags: commonFlags(),
		Commands: []*cli.Command{
			{
				Name:   "gui",
				Usage:  "open the board window",
				Flags:  commonFlags(),
				Action: runGUI,
			},
			{
				Name:   "term",
				Usage:  "play on the terminal by typing square names",
				Flags:  termFlags,
				Action: runTerm,
			},
			{
				Name:   "snapshot",
				Usage:  "replay clicks and export the board as PNG or SVG",
				Flags:  snapshotFlags,
				Action: runSnapshot,
			},
		},
		Action: runGUI,
	}
}

// session is what every subcommand starts from.
type session struct {
	log    *zap.SugaredLogger
	store  *storage.Storage
	prefs  *storage.Preferences
	engine *rules.ChessGame
	orient board.Orientation
	size   int
}

func (s *session) Close() {
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			s.log.Warnw("close storage", "error", err)
		}
	}
	_ = s.log.Sync()
}

// openSession loads preferences, lets flags override them and builds the
// engine.
func openSession(c *cli.Command, useStore bool) (*session, error) {
	s := &session{prefs: storage.DefaultPreferences()}

	var storeErr error
	if useStore && !c.Bool("no-store") {
		s.store, storeErr = openStore(c.String("data-dir"))
		if storeErr == nil {
			s.prefs, storeErr = s.store.LoadPreferences()
		}
	}

	level := s.prefs.LogLevel
	if c.IsSet("log-level") {
		level = c.String("log-level")
	}
	s.log = logx.New(logx.Options{Level: level, JSON: c.Bool("log-json")})
	if storeErr != nil {
		s.log.Warnw("stored preferences unavailable, using defaults", "error", storeErr)
	}

	if c.IsSet("flip") {
		s.prefs.Flipped = c.Bool("flip")
	}
	if c.IsSet("size") {
		s.prefs.SquareSize = storage.ClampSquareSize(int(c.Int("size")))
	}
	if c.IsSet("claim-draws") {
		s.prefs.ClaimDraws = c.Bool("claim-draws")
	}

	s.orient = board.Normal
	if s.prefs.Flipped {
		s.orient = board.Flipped
	}
	s.size = s.prefs.SquareSize

	engine, err := rules.NewChessGame(
		rules.WithFEN(c.String("fen")),
		rules.WithClaimDraws(s.prefs.ClaimDraws),
		rules.WithLogger(s.log.Named("rules")),
	)
	if err != nil {
		s.Close()
		return nil, err
	}
	s.engine = engine
	return s, nil
}

func openStore(dir string) (*storage.Storage, error) {
	if dir == "" {
		return storage.OpenDefault()
	}
	return storage.Open(filepath.Join(dir, "db"))
}

func runGUI(_ context.Context, c *cli.Command) error {
	s, err := openSession(c, true)
	if err != nil {
		return err
	}
	defer s.Close()

	game, err := ui.NewGame(ui.Config{
		Engine:      s.engine,
		Store:       s.store,
		Prefs:       s.prefs,
		Orientation: s.orient,
		SquareSize:  s.size,
		Logger:      s.log,
	})
	if err != nil {
		return err
	}
	s.log.Infow("starting window", "fen", s.engine.FEN(), "orientation", s.orient)
	return ui.Run(game, "Chess Board")
}

func runTerm(_ context.Context, c *cli.Command) error {
	s, err := openSession(c, true)
	if err != nil {
		return err
	}
	defer s.Close()

	opts := []term.Option{
		termIO(c),
		term.WithOrientation(s.orient),
		term.WithLogger(s.log),
	}
	if c.Bool("no-color") {
		opts = append(opts, term.WithColor(false))
	}
	return term.NewSession(s.engine, opts...).Run()
}

// termIO reads and writes through the root command, which defaults to the
// process's stdin and stdout.
func termIO(c *cli.Command) term.Option {
	root := c.Root()
	var in io.Reader = os.Stdin
	var out io.Writer = os.Stdout
	if root.Reader != nil {
		in = root.Reader
	}
	if root.Writer != nil {
		out = root.Writer
	}
	return term.WithIO(in, out)
}

func runSnapshot(_ context.Context, c *cli.Command) error {
	s, err := openSession(c, false)
	if err != nil {
		return err
	}
	defer s.Close()

	clicks, err := parseClicks(c.String("clicks"))
	if err != nil {
		return err
	}
	format, err := snapshotFormat(c.String("format"), c.String("out"))
	if err != nil {
		return err
	}

	canvas := render.NewCanvas()
	ctrl := controller.New(s.engine, canvas, dispatch.New(s.engine, canvas, s.log),
		controller.WithOrientation(s.orient),
		controller.WithCellSize(s.size),
		controller.WithLogger(s.log),
	)
	for _, sq := range clicks {
		ctrl.ClickSquare(sq)
	}

	w, closeOut, err := openOutput(c.String("out"))
	if err != nil {
		return err
	}
	defer closeOut()

	frame := canvas.Snapshot()
	theme := render.DefaultTheme()
	if format == "svg" {
		return render.WriteSVG(w, frame, ctrl.Orientation(), ctrl.CellSize(), theme)
	}
	return render.WritePNG(w, frame, ctrl.Orientation(), ctrl.CellSize(), theme)
}

// parseClicks splits "e2,e4" into squares.
func parseClicks(s string) ([]board.Square, error) {
	var out []board.Square
	for _, f := range strings.Split(s, ",") {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		sq, err := board.ParseSquare(f)
		if err != nil {
			return nil, fmt.Errorf("--clicks: %w", err)
		}
		out = append(out, sq)
	}
	return out, nil
}

// snapshotFormat picks the export format from the flag or the file name.
func snapshotFormat(format, out string) (string, error) {
	format = strings.ToLower(format)
	if format == "" {
		format = "png"
		if strings.EqualFold(filepath.Ext(out), ".svg") {
			format = "svg"
		}
	}
	if format != "png" && format != "svg" {
		return "", errors.New("--format must be png or svg")
	}
	return format, nil
}

func openOutput(path string) (io.Writer, func(), error) {
	if path == "" || path == "-" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { f.Close() }, nil
}

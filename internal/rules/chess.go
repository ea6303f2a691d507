package rules

import (
	"fmt"
	"sort"

	"github.com/dylhunn/dragontoothmg"
	"github.com/notnil/chess"
	"go.uber.org/zap"

	"github.com/hailam/chessboard/internal/board"
)

// ChessGame adapts a notnil/chess game to the Engine interface.
type ChessGame struct {
	game       *chess.Game
	claimDraws bool
	log        *zap.SugaredLogger

	// cached per position
	inCheck   bool
	checkedSq board.Square
}

// GameOption configures a ChessGame.
type GameOption func(*gameConfig)

type gameConfig struct {
	fen        string
	claimDraws bool
	log        *zap.SugaredLogger
}

// WithFEN starts the game from the given position instead of the initial one.
func WithFEN(fen string) GameOption {
	return func(c *gameConfig) { c.fen = fen }
}

// WithClaimDraws makes threefold repetition and the fifty-move rule end the
// game immediately, as if the player to move had claimed the draw.
func WithClaimDraws(claim bool) GameOption {
	return func(c *gameConfig) { c.claimDraws = claim }
}

// WithLogger sets the logger used for engine diagnostics.
func WithLogger(l *zap.SugaredLogger) GameOption {
	return func(c *gameConfig) { c.log = l }
}

// NewChessGame creates a game. An unparsable FEN, or one without exactly one
// king per side, returns ErrBadPosition.
func NewChessGame(opts ...GameOption) (*ChessGame, error) {
	cfg := gameConfig{claimDraws: true, log: zap.NewNop().Sugar()}
	for _, opt := range opts {
		opt(&cfg)
	}

	var gameOpts []func(*chess.Game)
	if cfg.fen != "" {
		fenOpt, err := chess.FEN(cfg.fen)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadPosition, err)
		}
		gameOpts = append(gameOpts, fenOpt)
	}

	g := &ChessGame{
		game:       chess.NewGame(gameOpts...),
		claimDraws: cfg.claimDraws,
		log:        cfg.log,
	}
	if err := checkKings(g.game.Position().Board()); err != nil {
		return nil, err
	}
	g.refresh()
	return g, nil
}

func checkKings(b *chess.Board) error {
	var kings [2]int
	for _, p := range b.SquareMap() {
		switch p {
		case chess.WhiteKing:
			kings[0]++
		case chess.BlackKing:
			kings[1]++
		}
	}
	if kings[0] != 1 || kings[1] != 1 {
		return fmt.Errorf("%w: %d white and %d black kings", ErrBadPosition, kings[0], kings[1])
	}
	return nil
}

// FEN returns the current position in Forsyth-Edwards notation.
func (g *ChessGame) FEN() string {
	return g.game.Position().String()
}

// LegalDestinations implements Engine.
func (g *ChessGame) LegalDestinations(sq board.Square) []Destination {
	if !sq.IsValid() || g.game.Outcome() != chess.NoOutcome {
		return nil
	}
	from := toChessSquare(sq)

	seen := make(map[board.Square]int)
	var dests []Destination
	for _, m := range g.game.ValidMoves() {
		if m.S1() != from {
			continue
		}
		to := fromChessSquare(m.S2())
		capture := m.HasTag(chess.Capture) || m.HasTag(chess.EnPassant)
		// Promotions come as four moves to the same square.
		if i, ok := seen[to]; ok {
			dests[i].IsCapture = dests[i].IsCapture || capture
			continue
		}
		seen[to] = len(dests)
		dests = append(dests, Destination{To: to, IsCapture: capture})
	}
	sort.Slice(dests, func(i, j int) bool { return dests[i].To < dests[j].To })
	return dests
}

// IsCheck implements Engine.
func (g *ChessGame) IsCheck() bool {
	return g.inCheck
}

// CheckedKingSquare implements Engine.
func (g *ChessGame) CheckedKingSquare() board.Square {
	return g.checkedSq
}

// SideToMove implements Engine.
func (g *ChessGame) SideToMove() board.Color {
	return fromChessColor(g.game.Position().Turn())
}

// PieceAt implements Engine.
func (g *ChessGame) PieceAt(sq board.Square) board.Piece {
	if !sq.IsValid() {
		return board.NoPiece
	}
	return fromChessPiece(g.game.Position().Board().Piece(toChessSquare(sq)))
}

// Placement implements Engine.
func (g *ChessGame) Placement() board.Placement {
	pl := board.EmptyPlacement()
	for sq, p := range g.game.Position().Board().SquareMap() {
		pl[fromChessSquare(sq)] = fromChessPiece(p)
	}
	return pl
}

// ApplyMove implements Engine.
func (g *ChessGame) ApplyMove(from, to board.Square, promo board.PieceType) error {
	if g.game.Outcome() != chess.NoOutcome {
		return fmt.Errorf("%w: game is over", ErrIllegalMove)
	}
	if !from.IsValid() || !to.IsValid() {
		return fmt.Errorf("%w: %v%v", ErrIllegalMove, from, to)
	}

	want := toChessPieceType(promo)
	var move *chess.Move
	for _, m := range g.game.ValidMoves() {
		if m.S1() == toChessSquare(from) && m.S2() == toChessSquare(to) && m.Promo() == want {
			move = m
			break
		}
	}
	if move == nil {
		return fmt.Errorf("%w: %v%v%s", ErrIllegalMove, from, to, promoSuffix(promo))
	}
	if err := g.game.Move(move); err != nil {
		return fmt.Errorf("%w: %v", ErrIllegalMove, err)
	}

	if g.claimDraws && g.game.Outcome() == chess.NoOutcome {
		g.claimDraw()
	}
	g.refresh()
	return nil
}

// claimDraw ends the game if a claimable draw is available.
func (g *ChessGame) claimDraw() {
	for _, method := range g.game.EligibleDraws() {
		if method != chess.ThreefoldRepetition && method != chess.FiftyMoveRule {
			continue
		}
		if err := g.game.Draw(method); err != nil {
			g.log.Warnw("draw claim refused", "method", method, "error", err)
			continue
		}
		g.log.Debugw("draw claimed", "method", method)
		return
	}
}

// GameOverStatus implements Engine.
func (g *ChessGame) GameOverStatus() Status {
	outcome := g.game.Outcome()
	if outcome == chess.NoOutcome {
		return Status{Kind: Ongoing, Winner: board.NoColor}
	}

	st := Status{Winner: board.NoColor}
	switch outcome {
	case chess.WhiteWon:
		st.Winner = board.White
	case chess.BlackWon:
		st.Winner = board.Black
	}

	switch g.game.Method() {
	case chess.Checkmate:
		st.Kind = Checkmate
	case chess.Stalemate:
		st.Kind = Stalemate
	case chess.InsufficientMaterial:
		st.Kind = InsufficientMaterial
	case chess.SeventyFiveMoveRule, chess.FiftyMoveRule:
		st.Kind = MoveLimit
	case chess.FivefoldRepetition, chess.ThreefoldRepetition:
		st.Kind = Repetition
	default:
		// Resignation and agreed draws never originate from the board.
		st.Kind = Stalemate
		if st.Winner != board.NoColor {
			st.Kind = Checkmate
		}
	}
	return st
}

// refresh recomputes the cached check facts for the current position.
// notnil/chess only reports check as a tag on the move that gave it, which
// is missing for positions loaded from FEN, so the position is checked with
// dragontoothmg instead.
func (g *ChessGame) refresh() {
	g.inCheck = false
	g.checkedSq = board.NoSquare

	pos := dragontoothmg.ParseFen(g.FEN())
	if !pos.OurKingInCheck() {
		return
	}
	g.inCheck = true

	king := board.NewPiece(board.King, g.SideToMove())
	for sq, p := range g.game.Position().Board().SquareMap() {
		if fromChessPiece(p) == king {
			g.checkedSq = fromChessSquare(sq)
			return
		}
	}
}

func promoSuffix(pt board.PieceType) string {
	if pt == board.NoPieceType {
		return ""
	}
	return string(pt.Char())
}

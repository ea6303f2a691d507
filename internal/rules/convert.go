package rules

import (
	"github.com/notnil/chess"

	"github.com/hailam/chessboard/internal/board"
)

// Both libraries number squares a1=0 ... h8=63.

func toChessSquare(sq board.Square) chess.Square {
	return chess.Square(sq)
}

func fromChessSquare(sq chess.Square) board.Square {
	if sq < chess.A1 || sq > chess.H8 {
		return board.NoSquare
	}
	return board.Square(sq)
}

func fromChessColor(c chess.Color) board.Color {
	switch c {
	case chess.White:
		return board.White
	case chess.Black:
		return board.Black
	default:
		return board.NoColor
	}
}

var fromChessType = map[chess.PieceType]board.PieceType{
	chess.Pawn:   board.Pawn,
	chess.Knight: board.Knight,
	chess.Bishop: board.Bishop,
	chess.Rook:   board.Rook,
	chess.Queen:  board.Queen,
	chess.King:   board.King,
}

func toChessPieceType(pt board.PieceType) chess.PieceType {
	for cpt, bpt := range fromChessType {
		if bpt == pt {
			return cpt
		}
	}
	return chess.NoPieceType
}

func fromChessPiece(p chess.Piece) board.Piece {
	if p == chess.NoPiece {
		return board.NoPiece
	}
	pt, ok := fromChessType[p.Type()]
	if !ok {
		return board.NoPiece
	}
	return board.NewPiece(pt, fromChessColor(p.Color()))
}

package engine

import "github.com/lgbarn/chess-rules-go/internal/chess"

var (
	knightOffsets = [][2]int{{-2, -1}, {-2, 1}, {-1, -2}, {-1, 2}, {1, -2}, {1, 2}, {2, -1}, {2, 1}}
	kingOffsets   = [][2]int{{-1, -1}, {-1, 0}, {-1, 1}, {0, -1}, {0, 1}, {1, -1}, {1, 0}, {1, 1}}
)

// RawMoves returns every square the piece can reach by its movement pattern,
// ignoring whether its own king would be left attacked. suppressCastling
// omits the king's castling candidates; the attack map passes true so that
// generating one king's moves never recurses into the other's. Dead or
// unknown pieces have no moves.
func RawMoves(pos *Position, idx chess.PieceIndex, suppressCastling bool) []chess.Square {
	p, ok := pos.Board.Piece(idx)
	if !ok || !p.Alive() {
		return nil
	}
	return rawMoves(pos, p, suppressCastling)
}

func rawMoves(pos *Position, p chess.Piece, suppressCastling bool) []chess.Square {
	switch p.Kind {
	case chess.Pawn:
		return pawnMoves(pos, p)
	case chess.Knight:
		return leapMoves(pos.Board, p, knightOffsets)
	case chess.Bishop:
		return slideMoves(pos.Board, p, diagonalDirs)
	case chess.Rook:
		return slideMoves(pos.Board, p, straightDirs)
	case chess.Queen:
		return slideMoves(pos.Board, p, queenDirs)
	case chess.King:
		out := leapMoves(pos.Board, p, kingOffsets)
		if !suppressCastling {
			out = append(out, castleMoves(pos, p)...)
		}
		return out
	}
	return nil
}

// leapMoves returns the offset squares that are on the board and not held
// by a piece of p's own colour.
func leapMoves(board *chess.Board, p chess.Piece, offsets [][2]int) []chess.Square {
	var out []chess.Square
	for _, off := range offsets {
		sq := p.Square.Offset(off[0], off[1])
		if !sq.Valid() {
			continue
		}
		if occupant, ok := board.PieceAt(sq); ok && occupant.Colour == p.Colour {
			continue
		}
		out = append(out, sq)
	}
	return out
}

package engine

import "github.com/lgbarn/chess-rules-go/internal/chess"

// pawnMoves returns the pushes, captures and en-passant captures of a pawn.
func pawnMoves(pos *Position, p chess.Piece) []chess.Square {
	var out []chess.Square
	dir := chess.ColourOffset(p.Colour)

	one := p.Square.Offset(0, dir)
	if one.Valid() && !pos.Board.IsOccupied(one) {
		out = append(out, one)
		// Double push from the starting rank
		two := one.Offset(0, dir)
		if p.Square.Rank == chess.PawnRank(p.Colour) && !pos.Board.IsOccupied(two) {
			out = append(out, two)
		}
	}

	ep := pos.enPassantVictim(p)
	for _, df := range []int{-1, 1} {
		sq := p.Square.Offset(df, dir)
		if !sq.Valid() {
			continue
		}
		if target, ok := pos.Board.PieceAt(sq); ok {
			if target.Colour != p.Colour {
				out = append(out, sq)
			}
			continue
		}
		if ep.Alive() && ep.Square.File == sq.File {
			out = append(out, sq)
		}
	}
	return out
}

// pawnAttacks returns the two diagonal squares in front of a pawn whatever
// stands on them.
func pawnAttacks(p chess.Piece) []chess.Square {
	var out []chess.Square
	dir := chess.ColourOffset(p.Colour)
	for _, df := range []int{-1, 1} {
		if sq := p.Square.Offset(df, dir); sq.Valid() {
			out = append(out, sq)
		}
	}
	return out
}

// enPassantVictim returns the en-passant target when p may capture it: an
// enemy pawn beside p on the same rank. Otherwise it returns a piece that
// is not alive.
func (pos *Position) enPassantVictim(p chess.Piece) chess.Piece {
	target, ok := pos.Board.Piece(pos.EnPassant)
	if !ok || !target.Alive() || target.Kind != chess.Pawn || target.Colour == p.Colour {
		return chess.Piece{Index: chess.NoPiece, Square: chess.Offboard}
	}
	if target.Square.Rank != p.Square.Rank || abs(target.Square.File-p.Square.File) != 1 {
		return chess.Piece{Index: chess.NoPiece, Square: chess.Offboard}
	}
	return target
}

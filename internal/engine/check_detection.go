package engine

import "github.com/lgbarn/chess-rules-go/internal/chess"

// AttackedSquares returns the union of the raw moves of every live piece
// of colour by, generated with castling suppressed. Pawns contribute their
// two capture diagonals rather than their pushes, so a square is attacked
// by a pawn whether or not anything stands on it.
func AttackedSquares(pos *Position, by chess.Colour) chess.SquareSet {
	var set chess.SquareSet
	for _, p := range pos.Board.PiecesOf(by) {
		var squares []chess.Square
		if p.Kind == chess.Pawn {
			squares = pawnAttacks(p)
		} else {
			squares = rawMoves(pos, p, true)
		}
		for _, sq := range squares {
			set = set.Add(sq)
		}
	}
	return set
}

// IsSquareAttacked reports whether sq is attacked by colour by.
func IsSquareAttacked(pos *Position, sq chess.Square, by chess.Colour) bool {
	return AttackedSquares(pos, by).Has(sq)
}

// InCheck reports whether the king of the given colour is attacked. A side
// with no king is never in check.
func InCheck(pos *Position, colour chess.Colour) bool {
	king, ok := pos.Board.King(colour)
	if !ok {
		return false
	}
	return IsSquareAttacked(pos, king.Square, colour.Opposite())
}

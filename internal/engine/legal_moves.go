package engine

import "github.com/lgbarn/chess-rules-go/internal/chess"

// LegalMoves returns the raw moves of the piece that do not leave its own
// king attacked, in generator order. Each candidate is played on a scratch
// copy of pos; pos itself is never modified.
func LegalMoves(pos *Position, idx chess.PieceIndex) []Move {
	p, ok := pos.Board.Piece(idx)
	if !ok || !p.Alive() {
		return nil
	}

	var out []Move
	for _, to := range rawMoves(pos, p, false) {
		m := pos.describe(p, to)
		if pos.keepsKingSafe(m) {
			out = append(out, m)
		}
	}
	return out
}

// keepsKingSafe plays m on a scratch copy and reports whether the mover's
// king is then outside the opponent's attack map.
func (pos *Position) keepsKingSafe(m Move) bool {
	scratch := pos.Copy()
	scratch.play(m)

	king, ok := scratch.Board.King(m.Colour)
	if !ok {
		return true
	}
	return !AttackedSquares(scratch, m.Colour.Opposite()).Has(king.Square)
}

// HasLegalMoves returns true if the given colour has at least one legal move.
func HasLegalMoves(pos *Position, colour chess.Colour) bool {
	for _, p := range pos.Board.PiecesOf(colour) {
		if pieceHasLegalMove(pos, p) {
			return true
		}
	}
	return false
}

// pieceHasLegalMove stops at the first legal candidate.
func pieceHasLegalMove(pos *Position, p chess.Piece) bool {
	for _, to := range rawMoves(pos, p, false) {
		if pos.keepsKingSafe(pos.describe(p, to)) {
			return true
		}
	}
	return false
}

// AllLegalMoves returns the legal moves of every piece of colour, in piece
// index order.
func AllLegalMoves(pos *Position, colour chess.Colour) []Move {
	var out []Move
	for _, p := range pos.Board.PiecesOf(colour) {
		out = append(out, LegalMoves(pos, p.Index)...)
	}
	return out
}

package engine

import (
	"github.com/lgbarn/chess-rules-go/internal/chess"
	"github.com/lgbarn/chess-rules-go/internal/hashing"
)

// Wing names the side of the board a king castles towards.
type Wing int

const (
	NoWing Wing = iota - 1
	QueenSide
	KingSide
)

// String returns the string representation of a wing.
func (w Wing) String() string {
	switch w {
	case QueenSide:
		return "queenside"
	case KingSide:
		return "kingside"
	}
	return "none"
}

var (
	// rookHomeFile is the corner a castling rook starts on.
	rookHomeFile = [2]int{QueenSide: 0, KingSide: chess.BoardSize - 1}
	// kingCastleFile is where the king lands: the c- or g-file.
	kingCastleFile = [2]int{QueenSide: 2, KingSide: 6}
	// rookCastleFile is where the rook lands: the d- or f-file.
	rookCastleFile = [2]int{QueenSide: 3, KingSide: 5}
)

// kingHomeFile is the e-file.
const kingHomeFile = 4

// CastlingRights records, per colour, whether the king and each castling
// rook have ever moved. A captured rook counts as moved. Rights are only
// ever lost, never regained, until the game is reset.
type CastlingRights struct {
	KingMoved [2]bool    `json:"kingMoved"` // [colour]
	RookMoved [2][2]bool `json:"rookMoved"` // [colour][wing]

	// Rooks holds the identity of each castling rook, or NoPiece.
	Rooks [2][2]chess.PieceIndex `json:"rooks"`
}

// NewCastlingRights derives rights from piece placement: a king on its home
// square and rooks in their corners are treated as unmoved.
func NewCastlingRights(board *chess.Board) CastlingRights {
	var cr CastlingRights
	for _, colour := range []chess.Colour{chess.White, chess.Black} {
		home := chess.HomeRank(colour)

		king, ok := board.King(colour)
		cr.KingMoved[colour] = !ok || king.Square != chess.Sq(kingHomeFile, home)

		for _, wing := range []Wing{QueenSide, KingSide} {
			cr.Rooks[colour][wing] = chess.NoPiece
			cr.RookMoved[colour][wing] = true

			rook, ok := board.PieceAt(chess.Sq(rookHomeFile[wing], home))
			if ok && rook.Kind == chess.Rook && rook.Colour == colour {
				cr.Rooks[colour][wing] = rook.Index
				cr.RookMoved[colour][wing] = false
			}
		}
	}
	return cr
}

// Available reports whether neither the king nor the rook of that wing
// has moved.
func (cr CastlingRights) Available(colour chess.Colour, wing Wing) bool {
	return !cr.KingMoved[colour] && !cr.RookMoved[colour][wing]
}

// Revoke marks the rook of one wing as moved.
func (cr *CastlingRights) Revoke(colour chess.Colour, wing Wing) {
	cr.RookMoved[colour][wing] = true
}

// update records the first move of a king or castling rook, and the capture
// of a castling rook.
func (cr *CastlingRights) update(m Move) {
	if m.Kind == chess.King {
		cr.KingMoved[m.Colour] = true
	}
	for _, colour := range []chess.Colour{chess.White, chess.Black} {
		for _, wing := range []Wing{QueenSide, KingSide} {
			rook := cr.Rooks[colour][wing]
			if rook == chess.NoPiece {
				continue
			}
			if rook == m.Piece || rook == m.Captured {
				cr.RookMoved[colour][wing] = true
			}
		}
	}
}

// castleMoves returns the two-square king moves currently available to
// king. Every square between king and rook must be empty, and the king's
// start, transit and destination squares must not be attacked.
func castleMoves(pos *Position, king chess.Piece) []chess.Square {
	colour := king.Colour
	home := chess.HomeRank(colour)
	if pos.Castling.KingMoved[colour] || king.Square != chess.Sq(kingHomeFile, home) {
		return nil
	}

	var out []chess.Square
	var attacked chess.SquareSet
	attackedKnown := false

	for _, wing := range []Wing{KingSide, QueenSide} {
		if !pos.Castling.Available(colour, wing) {
			continue
		}
		rook, ok := pos.Board.Piece(pos.Castling.Rooks[colour][wing])
		if !ok || !rook.Alive() || rook.Kind != chess.Rook || rook.Square != chess.Sq(rookHomeFile[wing], home) {
			continue
		}
		if !pathEmpty(pos.Board, king.Square, rook.Square) {
			continue
		}

		if !attackedKnown {
			attacked = AttackedSquares(pos, colour.Opposite())
			attackedKnown = true
		}
		step := sign(kingCastleFile[wing] - king.Square.File)
		dest := chess.Sq(kingCastleFile[wing], home)
		if attacked.Has(king.Square) || attacked.Has(king.Square.Offset(step, 0)) || attacked.Has(dest) {
			continue
		}
		out = append(out, dest)
	}
	return out
}

// pathEmpty reports whether every square strictly between from and to on
// the same rank is empty.
func pathEmpty(board *chess.Board, from, to chess.Square) bool {
	step := sign(to.File - from.File)
	for sq := from.Offset(step, 0); sq != to; sq = sq.Offset(step, 0) {
		if board.IsOccupied(sq) {
			return false
		}
	}
	return true
}

// keyMask packs the available rights into the hashing bit layout.
func (cr CastlingRights) keyMask() uint8 {
	var mask uint8
	if cr.Available(chess.White, KingSide) {
		mask |= hashing.WhiteKingSide
	}
	if cr.Available(chess.White, QueenSide) {
		mask |= hashing.WhiteQueenSide
	}
	if cr.Available(chess.Black, KingSide) {
		mask |= hashing.BlackKingSide
	}
	if cr.Available(chess.Black, QueenSide) {
		mask |= hashing.BlackQueenSide
	}
	return mask
}

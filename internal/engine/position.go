// Package engine implements the rules of chess on top of the board model:
// raw move generation, the legality filter, castling, en passant and
// promotion, and the game state machine.
package engine

import (
	"github.com/lgbarn/chess-rules-go/internal/chess"
	"github.com/lgbarn/chess-rules-go/internal/hashing"
)

// Position is the state the move generators read: the board plus the
// special-move bookkeeping. It does not know whose turn it is; the Game
// derives that from its ply counter.
type Position struct {
	Board    *chess.Board
	Castling CastlingRights

	// EnPassant is the pawn that has just advanced two squares, or NoPiece.
	EnPassant chess.PieceIndex
}

// NewPosition returns the standard starting position.
func NewPosition() *Position {
	board := chess.NewBoard()
	board.SetupInitialPosition()
	return &Position{
		Board:     board,
		Castling:  NewCastlingRights(board),
		EnPassant: chess.NoPiece,
	}
}

// Copy returns a scratch copy that shares no mutable state with p.
func (p *Position) Copy() *Position {
	return &Position{
		Board:     p.Board.Copy(),
		Castling:  p.Castling,
		EnPassant: p.EnPassant,
	}
}

// Equal reports whether two positions are identical, piece indices included.
func (p *Position) Equal(other *Position) bool {
	if other == nil {
		return false
	}
	return p.Board.Equal(other.Board) && p.Castling == other.Castling && p.EnPassant == other.EnPassant
}

// EnPassantSquare returns the square a capturing pawn would land on, or
// Offboard when no en-passant capture is available.
func (p *Position) EnPassantSquare() chess.Square {
	pawn, ok := p.Board.Piece(p.EnPassant)
	if !ok || !pawn.Alive() {
		return chess.Offboard
	}
	return pawn.Square.Offset(0, -chess.ColourOffset(pawn.Colour))
}

// PositionKey returns the Zobrist key of pos with toMove to play.
func PositionKey(pos *Position, toMove chess.Colour) uint64 {
	epFile := hashing.NoEnPassant
	if sq := pos.EnPassantSquare(); sq.Valid() {
		epFile = sq.File
	}
	return hashing.PositionKey(pos.Board.Pieces(), pos.Castling.keyMask(), epFile, toMove)
}

package engine

import (
	"fmt"

	"github.com/lgbarn/chess-rules-go/internal/chess"
)

// Move describes one candidate move and every side effect it has on the
// position.
type Move struct {
	Piece  chess.PieceIndex `json:"piece"`
	Kind   chess.Archetype  `json:"kind"`
	Colour chess.Colour     `json:"colour"`
	From   chess.Square     `json:"from"`
	To     chess.Square     `json:"to"`

	// Captured is the piece taken by this move, or NoPiece. For en passant
	// it is the passed pawn, which does not stand on To.
	Captured      chess.PieceIndex `json:"captured"`
	CaptureSquare chess.Square     `json:"captureSquare"`

	// Castle is the wing castled towards, or NoWing. Rook, RookFrom and
	// RookTo describe the paired rook relocation.
	Castle   Wing             `json:"castle"`
	Rook     chess.PieceIndex `json:"rook"`
	RookFrom chess.Square     `json:"rookFrom"`
	RookTo   chess.Square     `json:"rookTo"`

	EnPassant     bool `json:"enPassant"`
	DoubleAdvance bool `json:"doubleAdvance"`
	Promotion     bool `json:"promotion"`
}

// IsCapture reports whether the move takes a piece.
func (m Move) IsCapture() bool {
	return m.Captured != chess.NoPiece
}

// IsCastle reports whether the move is a castle.
func (m Move) IsCastle() bool {
	return m.Castle != NoWing
}

// String returns coordinate notation such as "e2e4" or "e1g1".
func (m Move) String() string {
	return fmt.Sprintf("%s%s", m.From, m.To)
}

// describe classifies the move of p to the square to against the current
// position. It does not check that the move is legal.
func (pos *Position) describe(p chess.Piece, to chess.Square) Move {
	m := Move{
		Piece:         p.Index,
		Kind:          p.Kind,
		Colour:        p.Colour,
		From:          p.Square,
		To:            to,
		Captured:      chess.NoPiece,
		CaptureSquare: chess.Offboard,
		Castle:        NoWing,
		Rook:          chess.NoPiece,
		RookFrom:      chess.Offboard,
		RookTo:        chess.Offboard,
	}

	if occupant, ok := pos.Board.PieceAt(to); ok && occupant.Colour != p.Colour {
		m.Captured = occupant.Index
		m.CaptureSquare = to
	}

	switch p.Kind {
	case chess.Pawn:
		if to.File != p.Square.File && m.Captured == chess.NoPiece {
			if passed, ok := pos.Board.Piece(pos.EnPassant); ok && passed.Alive() {
				m.EnPassant = true
				m.Captured = passed.Index
				m.CaptureSquare = passed.Square
			}
		}
		m.DoubleAdvance = abs(to.Rank-p.Square.Rank) == 2
		m.Promotion = to.Rank == chess.PromotionRank(p.Colour)

	case chess.King:
		if abs(to.File-p.Square.File) == 2 {
			wing := QueenSide
			if to.File > p.Square.File {
				wing = KingSide
			}
			m.Castle = wing
			m.Rook = pos.Castling.Rooks[p.Colour][wing]
			if rook, ok := pos.Board.Piece(m.Rook); ok {
				m.RookFrom = rook.Square
			}
			m.RookTo = chess.Sq(rookCastleFile[wing], p.Square.Rank)
		}
	}

	return m
}

// play applies m to the position. The legality filter calls it on scratch
// copies and the Game calls it on the live position once a move is
// accepted, so both see exactly the same side effects.
func (pos *Position) play(m Move) {
	if m.EnPassant {
		pos.Board.Remove(m.Captured)
	}
	pos.Board.Move(m.Piece, m.To)
	if m.Castle != NoWing {
		pos.Board.Move(m.Rook, m.RookTo)
	}

	pos.Castling.update(m)

	if m.DoubleAdvance {
		pos.EnPassant = m.Piece
	} else {
		pos.EnPassant = chess.NoPiece
	}
}

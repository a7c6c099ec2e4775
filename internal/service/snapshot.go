package service

import (
	"fmt"

	"github.com/lgbarn/chess-rules-go/internal/chess"
	"github.com/lgbarn/chess-rules-go/internal/engine"
)

// PieceView is the wire form of one piece.
type PieceView struct {
	Index  int    `json:"index"`
	Colour string `json:"colour"`
	Kind   string `json:"kind"`
	Square string `json:"square"`
}

// StateView is the wire form of the game state.
type StateView struct {
	Status string `json:"status"`
	Side   string `json:"side"`
	Text   string `json:"text"`
}

// Snapshot is everything a client needs to draw a game.
type Snapshot struct {
	ID                   string      `json:"id"`
	FEN                  string      `json:"fen"`
	ToMove               string      `json:"toMove"`
	Ply                  int         `json:"ply"`
	State                StateView   `json:"state"`
	Pieces               []PieceView `json:"pieces"`
	PromotionPending     string      `json:"promotionPending,omitempty"`
	EnPassantTarget      string      `json:"enPassantTarget,omitempty"`
	LastMove             string      `json:"lastMove,omitempty"`
	InsufficientMaterial bool        `json:"insufficientMaterial"`
	Repetitions          int         `json:"repetitions"`
	Key                  string      `json:"key"`
}

// MoveOutcome is the reply to an accepted move.
type MoveOutcome struct {
	Move             string     `json:"move"`
	Captured         *PieceView `json:"captured,omitempty"`
	RookFrom         string     `json:"rookFrom,omitempty"`
	RookTo           string     `json:"rookTo,omitempty"`
	PromotionPending bool       `json:"promotionPending"`
	Snapshot         Snapshot   `json:"snapshot"`
}

func pieceView(p chess.Piece) PieceView {
	sq := ""
	if p.Alive() {
		sq = p.Square.String()
	}
	return PieceView{
		Index:  int(p.Index),
		Colour: p.Colour.String(),
		Kind:   p.Kind.String(),
		Square: sq,
	}
}

func stateView(s engine.State) StateView {
	return StateView{Status: s.Status.String(), Side: s.Side.String(), Text: s.String()}
}

// snapshot reads the game; the caller holds the game's lock.
func snapshot(id string, g *engine.Game) Snapshot {
	s := Snapshot{
		ID:                   id,
		FEN:                  g.FEN(),
		ToMove:               g.ToMove().String(),
		Ply:                  g.Ply(),
		State:                stateView(g.State()),
		InsufficientMaterial: g.InsufficientMaterial(),
		Repetitions:          g.Repetitions(),
		Key:                  fmt.Sprintf("%016x", g.PositionKey()),
	}
	for _, p := range g.Board().Live() {
		s.Pieces = append(s.Pieces, pieceView(p))
	}
	if idx, ok := g.PromotionPending(); ok {
		if p, ok := g.Piece(idx); ok {
			s.PromotionPending = p.Square.String()
		}
	}
	if idx, ok := g.EnPassantTarget(); ok {
		if p, ok := g.Piece(idx); ok {
			s.EnPassantTarget = p.Square.String()
		}
	}
	if m, ok := g.LastMove(); ok {
		s.LastMove = m.String()
	}
	return s
}

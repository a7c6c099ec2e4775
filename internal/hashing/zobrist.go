// Package hashing computes Zobrist keys for positions and counts how often
// each key occurs.
package hashing

import (
	"math/rand"

	"github.com/lgbarn/chess-rules-go/internal/chess"
)

// Castling right bits used to select a castling key.
const (
	WhiteKingSide uint8 = 1 << iota
	WhiteQueenSide
	BlackKingSide
	BlackQueenSide
)

// NoEnPassant is the epFile value when no en-passant capture is available.
const NoEnPassant = -1

var (
	pieceKeys  [2][7][chess.BoardSize * chess.BoardSize]uint64 // [colour][archetype][square]
	castleKeys [16]uint64
	epKeys     [chess.BoardSize]uint64
	sideKey    uint64 // Black to move
)

func init() {
	// Fixed seed so keys are stable across runs.
	rnd := rand.New(rand.NewSource(0x5EED))

	for c := range pieceKeys {
		for a := range pieceKeys[c] {
			for sq := range pieceKeys[c][a] {
				pieceKeys[c][a][sq] = rnd.Uint64()
			}
		}
	}
	for i := range castleKeys {
		castleKeys[i] = rnd.Uint64()
	}
	for f := range epKeys {
		epKeys[f] = rnd.Uint64()
	}
	sideKey = rnd.Uint64()
}

// PositionKey returns the Zobrist key of a position. Captured pieces are
// ignored. castling is a mask of the *Side bits and epFile is the file of the
// en-passant target, or NoEnPassant.
func PositionKey(pieces []chess.Piece, castling uint8, epFile int, toMove chess.Colour) uint64 {
	var key uint64

	for _, p := range pieces {
		if !p.Alive() || p.Kind <= chess.NoArchetype || p.Kind > chess.King {
			continue
		}
		key ^= pieceKeys[p.Colour][p.Kind][p.Square.Rank*chess.BoardSize+p.Square.File]
	}

	if toMove == chess.Black {
		key ^= sideKey
	}

	key ^= castleKeys[castling&0x0f]

	if epFile >= 0 && epFile < chess.BoardSize {
		key ^= epKeys[epFile]
	}

	return key
}

// BoardKey is PositionKey for a board with no castling rights or en-passant
// target.
func BoardKey(board *chess.Board, toMove chess.Colour) uint64 {
	return PositionKey(board.Pieces(), 0, NoEnPassant, toMove)
}

package engine

import (
	"github.com/lgbarn/chess-rules-go/internal/chess"
)

// OnlyKings reports whether the two kings are the only pieces left.
func OnlyKings(board *chess.Board) bool {
	live := board.Live()
	if len(live) != 2 {
		return false
	}
	for _, p := range live {
		if p.Kind != chess.King {
			return false
		}
	}
	return true
}

// HasInsufficientMaterial returns true if the position has insufficient
// mating material for either side.
// Insufficient material includes:
// - K vs K
// - K+B vs K
// - K+N vs K
// - K+B vs K+B (same color bishops)
func HasInsufficientMaterial(board *chess.Board) bool {
	var whitePieces, blackPieces []chess.Archetype
	var whiteBishopOnLight, blackBishopOnLight bool

	for _, p := range board.Live() {
		// Kings don't count for material
		if p.Kind == chess.King {
			continue
		}

		// Any pawn, rook, or queen means sufficient material
		if p.Kind == chess.Pawn || p.Kind == chess.Rook || p.Kind == chess.Queen {
			return false
		}

		if p.Colour == chess.White {
			whitePieces = append(whitePieces, p.Kind)
			if p.Kind == chess.Bishop {
				whiteBishopOnLight = p.Square.IsLight()
			}
		} else {
			blackPieces = append(blackPieces, p.Kind)
			if p.Kind == chess.Bishop {
				blackBishopOnLight = p.Square.IsLight()
			}
		}
	}

	// K vs K
	if len(whitePieces) == 0 && len(blackPieces) == 0 {
		return true
	}

	// K+B vs K or K+N vs K
	if len(whitePieces) == 0 && len(blackPieces) == 1 {
		return blackPieces[0] == chess.Bishop || blackPieces[0] == chess.Knight
	}
	if len(blackPieces) == 0 && len(whitePieces) == 1 {
		return whitePieces[0] == chess.Bishop || whitePieces[0] == chess.Knight
	}

	// K+B vs K+B (same color bishops)
	if len(whitePieces) == 1 && len(blackPieces) == 1 {
		if whitePieces[0] == chess.Bishop && blackPieces[0] == chess.Bishop {
			return whiteBishopOnLight == blackBishopOnLight
		}
	}

	return false
}

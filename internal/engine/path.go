package engine

import "github.com/lgbarn/chess-rules-go/internal/chess"

var (
	diagonalDirs = [][2]int{{-1, -1}, {-1, 1}, {1, -1}, {1, 1}}
	straightDirs = [][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}
	queenDirs    = append(append([][2]int{}, straightDirs...), diagonalDirs...)
)

// slideMoves walks each ray from p's square one step at a time. A ray stops
// before a piece of p's own colour, on a piece of the other colour, and at
// the board edge.
func slideMoves(board *chess.Board, p chess.Piece, dirs [][2]int) []chess.Square {
	var out []chess.Square
	for _, dir := range dirs {
		for sq := p.Square.Offset(dir[0], dir[1]); sq.Valid(); sq = sq.Offset(dir[0], dir[1]) {
			occupant, ok := board.PieceAt(sq)
			if !ok {
				out = append(out, sq)
				continue
			}
			if occupant.Colour != p.Colour {
				out = append(out, sq)
			}
			break // Blocked
		}
	}
	return out
}

package engine

import (
	"testing"

	"github.com/lgbarn/chess-rules-go/internal/chess"
	"github.com/lgbarn/chess-rules-go/internal/testutil"
)

// mustGame builds a game from a FEN string, failing the test on error.
func mustGame(t testing.TB, fen string, opts ...Option) *Game {
	t.Helper()
	g, err := NewGameFromFEN(fen, opts...)
	if err != nil {
		t.Fatalf("NewGameFromFEN(%q) error = %v", fen, err)
	}
	return g
}

// pieceOn returns the index of the piece standing on the named square.
func pieceOn(t testing.TB, g *Game, name string) chess.PieceIndex {
	t.Helper()
	p, ok := g.PieceAt(testutil.MustSquare(t, name))
	if !ok {
		t.Fatalf("no piece on %s in %s", name, g.FEN())
	}
	return p.Index
}

// mustMove plays from->to and fails the test if the move is rejected.
func mustMove(t testing.TB, g *Game, from, to string) MoveResult {
	t.Helper()
	res := g.AttemptMove(pieceOn(t, g, from), testutil.MustSquare(t, to))
	if !res.Accepted {
		t.Fatalf("AttemptMove(%s%s) rejected: %v (FEN %s)", from, to, res.Reason, g.FEN())
	}
	return res
}

// playLine plays a sequence of coordinate moves such as "e2e4".
func playLine(t testing.TB, g *Game, moves ...string) {
	t.Helper()
	for _, m := range moves {
		mustMove(t, g, m[:2], m[2:4])
	}
}

// legalNames returns the legal destinations of the piece on from.
func legalNames(t testing.TB, g *Game, from string) []string {
	t.Helper()
	return testutil.SquareNames(g.LegalMoves(pieceOn(t, g, from)))
}

// positionFromPieces builds a bare position for generator tests. Each entry
// is a FEN letter and a square, e.g. "R d4".
func positionFromPieces(t testing.TB, entries ...string) *Position {
	t.Helper()
	board := chess.NewBoard()
	for _, e := range entries {
		letter := e[0]
		colour := chess.White
		if letter >= 'a' && letter <= 'z' {
			colour = chess.Black
		}
		if board.Place(colour, chess.ArchetypeFromLetter(letter), testutil.MustSquare(t, e[2:])) == chess.NoPiece {
			t.Fatalf("cannot place %q", e)
		}
	}
	return &Position{Board: board, Castling: NewCastlingRights(board), EnPassant: chess.NoPiece}
}

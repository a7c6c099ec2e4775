package testutil

import (
	"testing"

	"github.com/lgbarn/chess-rules-go/internal/chess"
)

// MustSquare parses coordinate notation such as "e4". It calls t.Fatal on
// malformed input.
func MustSquare(t testing.TB, s string) chess.Square {
	t.Helper()
	sq, err := chess.ParseSquare(s)
	if err != nil {
		t.Fatalf("MustSquare(%q): %v", s, err)
	}
	return sq
}

// Squares parses each name with MustSquare.
func Squares(t testing.TB, names ...string) []chess.Square {
	t.Helper()
	out := make([]chess.Square, 0, len(names))
	for _, n := range names {
		out = append(out, MustSquare(t, n))
	}
	return out
}

// SquareNames renders squares in coordinate notation, keeping order.
func SquareNames(squares []chess.Square) []string {
	out := make([]string, 0, len(squares))
	for _, sq := range squares {
		out = append(out, sq.String())
	}
	return out
}

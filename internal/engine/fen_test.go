package engine

import (
	"testing"

	"github.com/lgbarn/chess-rules-go/internal/chess"
	"github.com/lgbarn/chess-rules-go/internal/errors"
	"github.com/lgbarn/chess-rules-go/internal/testutil"
)

func TestParseFEN_InitialMatchesSetup(t *testing.T) {
	pos, ply, err := ParseFEN(InitialFEN)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, ply, 0)
	if !pos.Equal(NewPosition()) {
		t.Error("ParseFEN(InitialFEN) does not match NewPosition()")
	}
}

func TestFEN_RoundTrip(t *testing.T) {
	fens := []string{
		InitialFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
		"r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1",
		"rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 0 8",
		"rnbqkbnr/ppp1pppp/8/3pP3/8/8/PPPP1PPP/RNBQKBNR w KQkq d6 0 3",
		"4k3/8/8/8/8/8/8/4R2K b - - 0 40",
	}
	for _, fen := range fens {
		t.Run(fen, func(t *testing.T) {
			g := mustGame(t, fen)
			if got := g.FEN(); got != fen {
				t.Errorf("FEN() = %q, want %q", got, fen)
			}
		})
	}
}

func TestFEN_TracksPlay(t *testing.T) {
	g := NewGame()
	playLine(t, g, "e2e4")
	testutil.AssertEqual(t, g.FEN(), "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1")

	playLine(t, g, "e7e5", "e1e2")
	testutil.AssertEqual(t, g.FEN(), "rnbqkbnr/pppp1ppp/8/4p3/4P3/8/PPPPKPPP/RNBQ1BNR b kq - 0 2")
}

func TestParseFEN_Fields(t *testing.T) {
	pos, ply, err := ParseFEN("r3k2r/8/8/3pP3/8/8/8/R3K2R w Kq d6 3 12")
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, ply, 22)

	testutil.AssertTrue(t, pos.Castling.Available(chess.White, KingSide), "K")
	testutil.AssertFalse(t, pos.Castling.Available(chess.White, QueenSide), "Q")
	testutil.AssertFalse(t, pos.Castling.Available(chess.Black, KingSide), "k")
	testutil.AssertTrue(t, pos.Castling.Available(chess.Black, QueenSide), "q")

	testutil.AssertEqual(t, pos.EnPassantSquare(), testutil.MustSquare(t, "d6"))
	victim, _ := pos.Board.Piece(pos.EnPassant)
	testutil.AssertEqual(t, victim.Square, testutil.MustSquare(t, "d5"))

	_, ply, err = ParseFEN("4k3/8/8/8/8/8/8/4K3 b - - 0 12")
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, ply, 23)
}

func TestParseFEN_Optional(t *testing.T) {
	g, err := NewGameFromFEN("rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR")
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, g.ToMove(), chess.White)
	testutil.AssertEqual(t, g.FEN(), "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w - - 0 1")
}

func TestParseFEN_Invalid(t *testing.T) {
	tests := []struct {
		name string
		fen  string
	}{
		{"empty", ""},
		{"seven ranks", "8/8/8/8/8/8/4K2k w - - 0 1"},
		{"short rank", "4k3/8/8/8/8/8/8/4K2 w - - 0 1"},
		{"long rank", "4k3/8/8/8/8/8/8/4K2k1 w - - 0 1"},
		{"unknown piece", "4k3/8/8/8/8/8/8/4K1X1 w - - 0 1"},
		{"non-ASCII kings", "ū7/8/8/8/8/8/8/ŋ7 w - - 0 1"},
		{"non-ASCII pawn", "4k3/8/8/8/8/8/Ű7/4K3 w - - 0 1"},
		{"no white king", "4k3/8/8/8/8/8/8/8 w - - 0 1"},
		{"two black kings", "4k2k/8/8/8/8/8/8/4K3 w - - 0 1"},
		{"pawn on first rank", "4k3/8/8/8/8/8/8/P3K3 w - - 0 1"},
		{"pawn on eighth rank", "p3k3/8/8/8/8/8/8/4K3 w - - 0 1"},
		{"bad side", "4k3/8/8/8/8/8/8/4K3 x - - 0 1"},
		{"bad castling letter", "r3k2r/8/8/8/8/8/8/R3K2R w KX - 0 1"},
		{"castling without rook", "4k3/8/8/8/8/8/8/4K3 w K - 0 1"},
		{"castling with king moved", "r3k2r/8/8/8/8/8/8/R2K3R w Q - 0 1"},
		{"en passant square malformed", "4k3/8/8/3pP3/8/8/8/4K3 w - z9 0 1"},
		{"en passant wrong rank", "4k3/8/8/3pP3/8/8/8/4K3 w - d3 0 1"},
		{"en passant without pawn", "4k3/8/8/4P3/8/8/8/4K3 w - d6 0 1"},
		{"negative halfmove", "4k3/8/8/8/8/8/8/4K3 w - - -1 1"},
		{"zero fullmove", "4k3/8/8/8/8/8/8/4K3 w - - 0 0"},
		{"side not to move in check", "4k3/8/8/8/8/8/8/4R2K w - - 0 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := NewGameFromFEN(tt.fen)
			testutil.AssertErrorIs(t, err, errors.ErrInvalidFEN)
			if g != nil {
				t.Errorf("NewGameFromFEN(%q) = %v, want nil", tt.fen, g)
			}
		})
	}
}

package engine

import (
	"encoding/json"
	"math/rand"
	"strings"
	"testing"

	"github.com/apex/log"
	"github.com/apex/log/handlers/memory"
	"github.com/google/go-cmp/cmp"

	"github.com/lgbarn/chess-rules-go/internal/chess"
	"github.com/lgbarn/chess-rules-go/internal/errors"
	"github.com/lgbarn/chess-rules-go/internal/testutil"
)

func TestGame_States(t *testing.T) {
	tests := []struct {
		name  string
		fen   string
		moves []string
		want  State
	}{
		{
			name: "start",
			fen:  InitialFEN,
			want: State{Status: Normal, Side: chess.White},
		},
		{
			name:  "fool's mate",
			fen:   InitialFEN,
			moves: []string{"f2f3", "e7e5", "g2g4", "d8h4"},
			want:  State{Status: Checkmate, Side: chess.White},
		},
		{
			name: "rook check",
			fen:  "4k3/8/8/8/8/8/8/4R2K b - - 0 1",
			want: State{Status: Check, Side: chess.Black},
		},
		{
			name: "queen and king mate",
			fen:  "7k/6Q1/6K1/8/8/8/8/8 b - - 0 1",
			want: State{Status: Checkmate, Side: chess.Black},
		},
		{
			name: "cornered king stalemated",
			fen:  "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1",
			want: State{Status: Stalemate, Side: chess.Black},
		},
		{
			name: "kings only, white to move",
			fen:  "8/8/8/4k3/8/8/8/4K3 w - - 0 1",
			want: State{Status: Stalemate, Side: chess.White},
		},
		{
			name: "kings only, black to move",
			fen:  "8/8/8/4k3/8/8/8/4K3 b - - 0 1",
			want: State{Status: Stalemate, Side: chess.Black},
		},
		{
			name:  "capturing the last piece",
			fen:   "8/8/8/4k3/8/8/3r4/4K3 w - - 0 1",
			moves: []string{"e1d2"},
			want:  State{Status: Stalemate, Side: chess.Black},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := mustGame(t, tt.fen)
			playLine(t, g, tt.moves...)
			if got := g.State(); got != tt.want {
				t.Errorf("State() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGame_TerminalRejectsMoves(t *testing.T) {
	for _, fen := range []string{
		"7k/6Q1/6K1/8/8/8/8/8 b - - 0 1",
		"7k/5Q2/6K1/8/8/8/8/8 b - - 0 1",
		"8/8/8/4k3/8/8/8/4K3 w - - 0 1",
	} {
		t.Run(fen, func(t *testing.T) {
			g := mustGame(t, fen)
			before := g.FEN()

			for _, p := range g.Board().PiecesOf(g.ToMove()) {
				if got := g.LegalMoves(p.Index); len(got) != 0 {
					t.Errorf("LegalMoves(%s) = %v, want none", p.Square, testutil.SquareNames(got))
				}
			}

			king, _ := g.Board().King(g.ToMove())
			res := g.AttemptMove(king.Index, king.Square.Offset(0, -1))
			testutil.AssertFalse(t, res.Accepted, "move after the game ended")
			testutil.AssertErrorIs(t, res.Reason, errors.ErrGameOver)
			testutil.AssertEqual(t, g.FEN(), before)
		})
	}
}

func TestGame_AttemptMoveRejections(t *testing.T) {
	g := NewGame()
	e2 := pieceOn(t, g, "e2")
	e7 := pieceOn(t, g, "e7")

	tests := []struct {
		name  string
		piece chess.PieceIndex
		to    chess.Square
		want  error
	}{
		{"not a legal destination", e2, testutil.MustSquare(t, "e5"), errors.ErrIllegalMove},
		{"wrong side", e7, testutil.MustSquare(t, "e5"), errors.ErrNotYourTurn},
		{"unknown piece", chess.PieceIndex(99), testutil.MustSquare(t, "e4"), errors.ErrNoSuchPiece},
		{"off the board", e2, chess.Offboard, errors.ErrInvalidSquare},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := g.AttemptMove(tt.piece, tt.to)
			testutil.AssertFalse(t, res.Accepted)
			testutil.AssertErrorIs(t, res.Reason, tt.want)

			var me *errors.MoveError
			if !errors.As(res.Reason, &me) {
				t.Fatalf("Reason = %T, want *errors.MoveError", res.Reason)
			}
			testutil.AssertEqual(t, me.Piece, int(tt.piece))
			testutil.AssertEqual(t, res.Captured, chess.NoPiece)
		})
	}

	testutil.AssertEqual(t, g.FEN(), InitialFEN, "rejections leave the game untouched")
	testutil.AssertEqual(t, g.Ply(), 0)
}

func TestGame_CapturedPieceStaysDead(t *testing.T) {
	g := NewGame()
	playLine(t, g, "e2e4", "d7d5")
	res := mustMove(t, g, "e4", "d5")

	testutil.AssertEqual(t, res.Captured, chess.PieceIndex(19))
	p, ok := g.Piece(19)
	testutil.AssertTrue(t, ok, "captured piece still addressable")
	testutil.AssertFalse(t, p.Alive(), "captured piece is dead")
	testutil.AssertEqual(t, len(g.LegalMoves(19)), 0)

	res = g.AttemptMove(19, testutil.MustSquare(t, "d4"))
	testutil.AssertErrorIs(t, res.Reason, errors.ErrNoSuchPiece)
}

func TestGame_Reset(t *testing.T) {
	fresh := NewGame()

	for _, tt := range []struct {
		name string
		game func(t *testing.T) *Game
	}{
		{"after play", func(t *testing.T) *Game {
			g := NewGame()
			playLine(t, g, "e2e4", "d7d5", "e4d5", "g8f6", "f1b5", "c7c6")
			return g
		}},
		{"after mate", func(t *testing.T) *Game {
			g := NewGame()
			playLine(t, g, "f2f3", "e7e5", "g2g4", "d8h4")
			return g
		}},
		{"while promotion pending", func(t *testing.T) *Game {
			g := mustGame(t, "8/P7/8/8/8/8/8/k6K w - - 0 1")
			mustMove(t, g, "a7", "a8")
			return g
		}},
		{"from FEN", func(t *testing.T) *Game {
			return mustGame(t, "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1")
		}},
	} {
		t.Run(tt.name, func(t *testing.T) {
			g := tt.game(t)
			g.Reset()

			if !g.Position().Equal(fresh.Position()) {
				t.Errorf("Reset() position = %s, want %s", g.FEN(), fresh.FEN())
			}
			testutil.AssertEqual(t, g.Ply(), 0)
			testutil.AssertEqual(t, g.State(), fresh.State())
			testutil.AssertEqual(t, g.PositionKey(), fresh.PositionKey())
			testutil.AssertEqual(t, g.Repetitions(), 1)
			_, pending := g.PromotionPending()
			testutil.AssertFalse(t, pending, "promotion cleared")
			_, moved := g.LastMove()
			testutil.AssertFalse(t, moved, "last move cleared")

			// Resetting twice is the same as resetting once.
			g.Reset()
			testutil.AssertEqual(t, g.FEN(), InitialFEN)
		})
	}
}

func TestGame_CloneIsIndependent(t *testing.T) {
	g := NewGame()
	playLine(t, g, "e2e4")
	before := g.FEN()

	c := g.Clone()
	playLine(t, c, "e7e5", "g1f3")

	testutil.AssertEqual(t, g.FEN(), before)
	testutil.AssertEqual(t, g.Ply(), 1)
	testutil.AssertEqual(t, c.Ply(), 3)
	testutil.AssertEqual(t, g.Repetitions(), 1)
}

func TestGame_Repetitions(t *testing.T) {
	g := NewGame()
	start := g.PositionKey()
	dance := []string{"g1f3", "g8f6", "f3g1", "f6g8"}

	for want := 2; want <= 3; want++ {
		playLine(t, g, dance...)
		testutil.AssertEqual(t, g.PositionKey(), start)
		if got := g.Repetitions(); got != want {
			t.Errorf("Repetitions() = %d, want %d", got, want)
		}
	}
}

func TestGame_Logging(t *testing.T) {
	h := memory.New()
	g := NewGame(WithLogger(&log.Logger{Handler: h, Level: log.DebugLevel}))

	g.AttemptMove(pieceOn(t, g, "e2"), testutil.MustSquare(t, "e5"))
	playLine(t, g, "f2f3", "e7e5", "g2g4", "d8h4")

	var rejected, over []*log.Entry
	for _, e := range h.Entries {
		switch e.Message {
		case "move rejected":
			rejected = append(rejected, e)
		case "game over":
			over = append(over, e)
		}
	}

	if len(rejected) != 1 {
		t.Fatalf("got %d rejected entries, want 1", len(rejected))
	}
	testutil.AssertEqual(t, rejected[0].Level, log.DebugLevel)
	testutil.AssertEqual(t, rejected[0].Fields.Get("to"), "e5")
	if reason, _ := rejected[0].Fields.Get("reason").(string); !strings.Contains(reason, "illegal") {
		t.Errorf("reason field = %q, want it to mention an illegal move", reason)
	}

	if len(over) != 1 {
		t.Fatalf("got %d game over entries, want 1", len(over))
	}
	testutil.AssertEqual(t, over[0].Level, log.InfoLevel)
	testutil.AssertEqual(t, over[0].Fields.Get("state"), "Checkmate(White)")
}

func TestGame_WorkersAgree(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	seq := NewGame()
	par := NewGame(WithWorkers(4))

	for ply := 0; ply < 120 && !seq.State().Status.Terminal(); ply++ {
		moves := AllLegalMoves(seq.pos, seq.ToMove())
		m := moves[rng.Intn(len(moves))]

		a := seq.AttemptMove(m.Piece, m.To)
		b := par.AttemptMove(m.Piece, m.To)
		if a.PromotionPending != chess.NoPiece {
			testutil.AssertNoError(t, seq.ChoosePromotion(m.Piece, chess.Queen))
			testutil.AssertNoError(t, par.ChoosePromotion(m.Piece, chess.Queen))
		}
		testutil.AssertTrue(t, a.Accepted && b.Accepted, "ply %d: %s accepted by both", ply, m)
		if seq.State() != par.State() {
			t.Fatalf("ply %d: State() = %v with workers, want %v", ply, par.State(), seq.State())
		}
	}
}

func TestMoveResult_JSON(t *testing.T) {
	g := NewGame()
	playLine(t, g, "f2f3", "e7e5", "g2g4")
	res := mustMove(t, g, "d8", "h4")

	data, err := json.Marshal(res)
	testutil.AssertNoError(t, err)

	var got struct {
		Accepted bool `json:"accepted"`
		State    struct {
			Status Status `json:"status"`
		} `json:"state"`
		Move struct {
			From          string `json:"from"`
			To            string `json:"to"`
			CaptureSquare string `json:"captureSquare"`
		} `json:"move"`
	}
	testutil.AssertNoError(t, json.Unmarshal(data, &got))
	testutil.AssertTrue(t, got.Accepted)
	testutil.AssertEqual(t, got.Move.From, "d8")
	testutil.AssertEqual(t, got.Move.To, "h4")
	testutil.AssertEqual(t, got.Move.CaptureSquare, "-")
	testutil.AssertEqual(t, got.State.Status, Checkmate)
	if !strings.Contains(string(data), `"status":"checkmate"`) {
		t.Errorf("json.Marshal() = %s, want status by name", data)
	}
	if strings.Contains(string(data), "reason") {
		t.Errorf("json.Marshal() = %s, want no reason field", data)
	}
}

func TestStatus_UnmarshalText(t *testing.T) {
	var s Status
	testutil.AssertNoError(t, s.UnmarshalText([]byte("Stalemate")))
	testutil.AssertEqual(t, s, Stalemate)
	if err := s.UnmarshalText([]byte("resigned")); err == nil {
		t.Error("UnmarshalText(resigned) error = nil, want error")
	}
}

func TestState_String(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{State{Status: Normal, Side: chess.Black}, "Normal"},
		{State{Status: Check, Side: chess.White}, "Check(White)"},
		{State{Status: Checkmate, Side: chess.Black}, "Checkmate(Black)"},
		{State{Status: Stalemate, Side: chess.White}, "Stalemate"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("State.String() = %q, want %q", got, tt.want)
		}
	}
}

func TestGame_InsufficientMaterial(t *testing.T) {
	tests := []struct {
		fen  string
		want bool
	}{
		{InitialFEN, false},
		{"8/8/8/4k3/8/8/8/2B1K3 w - - 0 1", true},
		{"8/8/8/4k3/8/8/8/1N2K3 w - - 0 1", true},
		{"8/8/8/4k3/8/8/8/R3K3 w - - 0 1", false},
		{"2b5/8/8/4k3/8/8/8/2B1K3 w - - 0 1", false},
		{"5b2/8/8/4k3/8/8/8/2B1K3 w - - 0 1", true},
	}
	for _, tt := range tests {
		g := mustGame(t, tt.fen)
		if got := g.InsufficientMaterial(); got != tt.want {
			t.Errorf("InsufficientMaterial(%s) = %v, want %v", tt.fen, got, tt.want)
		}
		if tt.want && g.State().Status.Terminal() {
			t.Errorf("State(%s) = %v, want play to continue", tt.fen, g.State())
		}
	}
}

func TestGame_LastMove(t *testing.T) {
	g := NewGame()
	playLine(t, g, "g1f3")

	got, ok := g.LastMove()
	testutil.AssertTrue(t, ok)
	want := Move{
		Piece:         6,
		Kind:          chess.Knight,
		Colour:        chess.White,
		From:          testutil.MustSquare(t, "g1"),
		To:            testutil.MustSquare(t, "f3"),
		Captured:      chess.NoPiece,
		CaptureSquare: chess.Offboard,
		Castle:        NoWing,
		Rook:          chess.NoPiece,
		RookFrom:      chess.Offboard,
		RookTo:        chess.Offboard,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("LastMove() mismatch (-want +got):\n%s", diff)
	}
}

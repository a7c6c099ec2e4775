package service

import (
	"encoding/json"
	"fmt"
	"sync"
	"testing"

	"github.com/apex/log"
	"github.com/apex/log/handlers/memory"

	"github.com/lgbarn/chess-rules-go/internal/engine"
	"github.com/lgbarn/chess-rules-go/internal/errors"
	"github.com/lgbarn/chess-rules-go/internal/testutil"
	"github.com/lgbarn/chess-rules-go/internal/ws"
)

// recorder is a Subscriber that keeps every message it is sent.
type recorder struct {
	mu   sync.Mutex
	msgs []ws.Message
	fail bool
}

func (r *recorder) WriteJSON(v interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return fmt.Errorf("connection closed")
	}
	r.msgs = append(r.msgs, v.(ws.Message))
	return nil
}

func (r *recorder) snapshots(t *testing.T) []Snapshot {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Snapshot
	for _, m := range r.msgs {
		testutil.AssertEqual(t, m.Type, ws.MessageTypeGameState)
		var s Snapshot
		if err := json.Unmarshal(m.Payload, &s); err != nil {
			t.Fatalf("json.Unmarshal(snapshot) error = %v", err)
		}
		out = append(out, s)
	}
	return out
}

func newService(opts ...ManagerOption) *GameService {
	return NewGameService(NewGameManager(opts...))
}

func mustCreate(t *testing.T, gs *GameService, fen string) string {
	t.Helper()
	s, err := gs.CreateGame(fen)
	if err != nil {
		t.Fatalf("CreateGame(%q) error = %v", fen, err)
	}
	return s.ID
}

func TestGameService_CreateAndSnapshot(t *testing.T) {
	gs := newService()
	s, err := gs.CreateGame("")
	testutil.AssertNoError(t, err)

	testutil.AssertEqual(t, s.FEN, engine.InitialFEN)
	testutil.AssertEqual(t, s.ToMove, "White")
	testutil.AssertEqual(t, s.State, StateView{Status: "normal", Side: "White", Text: "Normal"})
	testutil.AssertEqual(t, len(s.Pieces), 32)
	testutil.AssertEqual(t, s.Pieces[4], PieceView{Index: 4, Colour: "White", Kind: "King", Square: "e1"})
	testutil.AssertEqual(t, s.Repetitions, 1)
	testutil.AssertEqual(t, len(s.Key), 16)

	again, err := gs.Snapshot(s.ID)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, again, s)

	_, err = gs.Snapshot("missing")
	testutil.AssertErrorIs(t, err, errors.ErrGameNotFound)
}

func TestGameService_CreateFromFEN(t *testing.T) {
	gs := newService()
	id := mustCreate(t, gs, "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1")

	s, err := gs.Snapshot(id)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, s.State.Text, "Stalemate")
	testutil.AssertEqual(t, s.Ply, 1)

	_, err = gs.CreateGame("not a fen")
	testutil.AssertErrorIs(t, err, errors.ErrInvalidFEN)
}

func TestGameManager_MaxGames(t *testing.T) {
	gm := NewGameManager(WithMaxGames(2))
	for i := 0; i < 2; i++ {
		if _, err := gm.CreateGame(); err != nil {
			t.Fatalf("CreateGame() #%d error = %v", i, err)
		}
	}
	_, err := gm.CreateGame()
	testutil.AssertErrorIs(t, err, errors.ErrTooManyGames)
	testutil.AssertEqual(t, gm.Count(), 2)
}

func TestGameService_Delete(t *testing.T) {
	gs := newService()
	id := mustCreate(t, gs, "")

	testutil.AssertNoError(t, gs.DeleteGame(id))
	testutil.AssertErrorIs(t, gs.DeleteGame(id), errors.ErrGameNotFound)
	_, err := gs.Move(id, "e2", "e4")
	testutil.AssertErrorIs(t, err, errors.ErrGameNotFound)
}

func TestGameService_LegalMoves(t *testing.T) {
	gs := newService()
	id := mustCreate(t, gs, "")

	tests := []struct {
		square  string
		want    []string
		wantErr error
	}{
		{"e2", []string{"e3", "e4"}, nil},
		{"g1", []string{"h3", "f3"}, nil},
		{"e7", []string{}, nil},
		{"e4", nil, errors.ErrNoSuchPiece},
		{"z9", nil, errors.ErrInvalidSquare},
	}
	for _, tt := range tests {
		t.Run(tt.square, func(t *testing.T) {
			got, err := gs.LegalMoves(id, tt.square)
			if tt.wantErr != nil {
				testutil.AssertErrorIs(t, err, tt.wantErr)
				return
			}
			testutil.AssertNoError(t, err)
			testutil.AssertSameSquares(t, testutil.Squares(t, got...), testutil.Squares(t, tt.want...))
		})
	}
}

func TestGameService_Move(t *testing.T) {
	gs := newService()
	id := mustCreate(t, gs, "")

	out, err := gs.Move(id, "e2", "e4")
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, out.Move, "e2e4")
	testutil.AssertEqual(t, out.Snapshot.ToMove, "Black")
	testutil.AssertEqual(t, out.Snapshot.EnPassantTarget, "e4")
	testutil.AssertEqual(t, out.Snapshot.LastMove, "e2e4")

	tests := []struct {
		name     string
		from, to string
		want     error
	}{
		{"wrong side", "d2", "d4", errors.ErrNotYourTurn},
		{"illegal", "e7", "e4", errors.ErrIllegalMove},
		{"empty square", "e5", "e6", errors.ErrNoSuchPiece},
		{"bad destination", "e7", "e9", errors.ErrInvalidSquare},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := gs.Move(id, tt.from, tt.to)
			testutil.AssertErrorIs(t, err, tt.want)
		})
	}

	s, _ := gs.Snapshot(id)
	testutil.AssertEqual(t, s.Ply, 1, "rejections change nothing")
}

func TestGameService_MoveReportsSideEffects(t *testing.T) {
	gs := newService()
	id := mustCreate(t, gs, "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")

	out, err := gs.Move(id, "e1", "g1")
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, out.RookFrom, "h1")
	testutil.AssertEqual(t, out.RookTo, "f1")

	out, err = gs.Move(id, "a8", "a1")
	testutil.AssertNoError(t, err)
	if out.Captured == nil {
		t.Fatal("Captured = nil, want the a1 rook")
	}
	testutil.AssertEqual(t, *out.Captured, PieceView{Index: 0, Colour: "White", Kind: "Rook"})
	testutil.AssertEqual(t, out.Snapshot.State.Text, "Normal", "f1 rook blocks the rank")
}

func TestGameService_Promote(t *testing.T) {
	gs := newService()
	id := mustCreate(t, gs, "7k/P7/6K1/8/8/8/8/8 w - - 0 1")

	out, err := gs.Move(id, "a7", "a8")
	testutil.AssertNoError(t, err)
	testutil.AssertTrue(t, out.PromotionPending)
	testutil.AssertEqual(t, out.Snapshot.PromotionPending, "a8")

	_, err = gs.Move(id, "h8", "g8")
	testutil.AssertErrorIs(t, err, errors.ErrPromotionPending)
	_, err = gs.Promote(id, "a8", "wizard")
	testutil.AssertErrorIs(t, err, errors.ErrInvalidPromotion)
	_, err = gs.Promote(id, "a8", "king")
	testutil.AssertErrorIs(t, err, errors.ErrInvalidPromotion)
	_, err = gs.Promote(id, "g6", "queen")
	testutil.AssertErrorIs(t, err, errors.ErrNoPromotionPending)

	s, err := gs.Promote(id, "a8", "Q")
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, s.State.Text, "Checkmate(Black)")
	testutil.AssertEqual(t, s.PromotionPending, "")
}

func TestGameService_Reset(t *testing.T) {
	gs := newService()
	id := mustCreate(t, gs, "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1")

	s, err := gs.Reset(id)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, s.FEN, engine.InitialFEN)
	testutil.AssertEqual(t, s.ID, id)
}

func TestGameService_Broadcast(t *testing.T) {
	gs := newService()
	id := mustCreate(t, gs, "")

	a, b := &recorder{}, &recorder{}
	_, err := gs.Subscribe(id, a)
	testutil.AssertNoError(t, err)
	sidB, err := gs.Subscribe(id, b)
	testutil.AssertNoError(t, err)

	_, err = gs.Move(id, "e2", "e4")
	testutil.AssertNoError(t, err)
	_, err = gs.Move(id, "e2", "e3") // rejected, no push
	testutil.AssertErrorIs(t, err, errors.ErrNoSuchPiece)
	_, err = gs.LegalMoves(id, "e7")
	testutil.AssertNoError(t, err)

	gs.Unsubscribe(id, sidB)
	_, err = gs.Move(id, "e7", "e5")
	testutil.AssertNoError(t, err)

	var plies []int
	for _, s := range a.snapshots(t) {
		plies = append(plies, s.Ply)
	}
	testutil.AssertEqual(t, plies, []int{0, 1, 2})
	testutil.AssertEqual(t, len(b.snapshots(t)), 2)
}

func TestGameService_BroadcastDropsFailedSubscriber(t *testing.T) {
	h := memory.New()
	gs := newService(WithLogger(&log.Logger{Handler: h, Level: log.DebugLevel}))
	id := mustCreate(t, gs, "")

	r := &recorder{}
	_, err := gs.Subscribe(id, r)
	testutil.AssertNoError(t, err)

	r.fail = true
	_, err = gs.Move(id, "e2", "e4")
	testutil.AssertNoError(t, err)
	r.fail = false
	_, err = gs.Move(id, "e7", "e5")
	testutil.AssertNoError(t, err)

	testutil.AssertEqual(t, len(r.snapshots(t)), 1, "only the snapshot sent on subscribe")

	var warned bool
	for _, e := range h.Entries {
		if e.Message == "dropping subscriber" && e.Level == log.WarnLevel {
			warned = true
		}
	}
	testutil.AssertTrue(t, warned, "drop logged at warn")
}

func TestGameService_Concurrent(t *testing.T) {
	gs := newService(WithEngineOptions(engine.WithWorkers(2)))
	ids := []string{mustCreate(t, gs, ""), mustCreate(t, gs, "")}

	// Many goroutines race for the same first move; exactly one wins per game.
	var wg sync.WaitGroup
	var mu sync.Mutex
	wins := map[string]int{}
	for i := 0; i < 16; i++ {
		for _, id := range ids {
			wg.Add(1)
			go func(id string) {
				defer wg.Done()
				if _, err := gs.Move(id, "g1", "f3"); err == nil {
					mu.Lock()
					wins[id]++
					mu.Unlock()
				}
				_, _ = gs.Snapshot(id)
			}(id)
		}
	}
	wg.Wait()

	for _, id := range ids {
		testutil.AssertEqual(t, wins[id], 1, "game %s", id)
		s, err := gs.Snapshot(id)
		testutil.AssertNoError(t, err)
		testutil.AssertEqual(t, s.Ply, 1)
	}
}

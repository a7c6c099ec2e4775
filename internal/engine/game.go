package engine

import (
	"github.com/apex/log"
	"github.com/apex/log/handlers/discard"
	"golang.org/x/exp/slices"

	"github.com/lgbarn/chess-rules-go/internal/chess"
	"github.com/lgbarn/chess-rules-go/internal/errors"
	"github.com/lgbarn/chess-rules-go/internal/hashing"
	"github.com/lgbarn/chess-rules-go/internal/worker"
)

// Option configures a Game.
type Option func(*Game)

// WithLogger sets the logger that receives rejected moves (Debug) and
// terminal transitions (Info).
func WithLogger(l log.Interface) Option {
	return func(g *Game) {
		if l != nil {
			g.logger = l
		}
	}
}

// WithWorkers sets how many goroutines evaluate per-piece legality when the
// game classifies a position. 1 evaluates inline.
func WithWorkers(n int) Option {
	return func(g *Game) {
		if n >= 1 {
			g.workers = n
		}
	}
}

// RookRelocation is the rook half of a castle.
type RookRelocation struct {
	Piece chess.PieceIndex `json:"piece"`
	From  chess.Square     `json:"from"`
	To    chess.Square     `json:"to"`
}

// MoveResult reports the outcome of AttemptMove. A rejected move leaves the
// game untouched; Reason then holds a *errors.MoveError naming why.
type MoveResult struct {
	Accepted         bool             `json:"accepted"`
	Captured         chess.PieceIndex `json:"captured"`
	RookRelocation   *RookRelocation  `json:"rookRelocation,omitempty"`
	PromotionPending chess.PieceIndex `json:"promotionPending"`
	Move             *Move            `json:"move,omitempty"`
	State            State            `json:"state"`
	Reason           error            `json:"-"`
}

// Game owns one live position and runs the state machine over it. A Game
// is not safe for concurrent use; callers serialise access.
type Game struct {
	pos   *Position
	ply   int
	state State

	pending      chess.PieceIndex
	lastMove     *Move
	lastCaptured chess.PieceIndex

	// history counts every settled position, keyed by PositionKey
	history *hashing.Counter

	logger  log.Interface
	workers int
}

// NewGame creates a game at the standard starting position.
func NewGame(opts ...Option) *Game {
	return newGame(NewPosition(), 0, opts)
}

func newGame(pos *Position, ply int, opts []Option) *Game {
	g := &Game{
		pos:          pos,
		ply:          ply,
		pending:      chess.NoPiece,
		lastCaptured: chess.NoPiece,
		history:      hashing.NewCounter(),
		logger:       &log.Logger{Handler: discard.New(), Level: log.InfoLevel},
		workers:      1,
	}
	for _, opt := range opts {
		opt(g)
	}
	g.settle()
	return g
}

// Reset returns the game to the standard starting position: board, castling
// rights, en-passant target, promotion state and ply counter.
func (g *Game) Reset() {
	g.pos = NewPosition()
	g.ply = 0
	g.pending = chess.NoPiece
	g.lastMove = nil
	g.lastCaptured = chess.NoPiece
	g.history.Reset()
	g.state = State{}
	g.settle()
	g.logger.Debug("game reset")
}

// Clone returns an independent copy of the game sharing only the logger.
func (g *Game) Clone() *Game {
	out := *g
	out.pos = g.pos.Copy()
	out.history = g.history.Clone()
	if g.lastMove != nil {
		m := *g.lastMove
		out.lastMove = &m
	}
	return &out
}

// ToMove returns the side to move: White on even plies.
func (g *Game) ToMove() chess.Colour {
	if g.ply%2 == 0 {
		return chess.White
	}
	return chess.Black
}

// Ply returns the number of half-moves played.
func (g *Game) Ply() int {
	return g.ply
}

// State returns the current classification.
func (g *Game) State() State {
	return g.state
}

// PromotionPending returns the pawn awaiting a promotion choice.
func (g *Game) PromotionPending() (chess.PieceIndex, bool) {
	return g.pending, g.pending != chess.NoPiece
}

// Board returns a copy of the live board.
func (g *Game) Board() *chess.Board {
	return g.pos.Board.Copy()
}

// Position returns a copy of the live position.
func (g *Game) Position() *Position {
	return g.pos.Copy()
}

// Piece returns the piece with the given index, alive or captured.
func (g *Game) Piece(idx chess.PieceIndex) (chess.Piece, bool) {
	return g.pos.Board.Piece(idx)
}

// PieceAt returns the occupant of sq, if any.
func (g *Game) PieceAt(sq chess.Square) (chess.Piece, bool) {
	return g.pos.Board.PieceAt(sq)
}

// CastlingRights returns the current castling rights.
func (g *Game) CastlingRights() CastlingRights {
	return g.pos.Castling
}

// EnPassantTarget returns the pawn that may be captured en passant on this
// move.
func (g *Game) EnPassantTarget() (chess.PieceIndex, bool) {
	return g.pos.EnPassant, g.pos.EnPassant != chess.NoPiece
}

// LastMove returns the most recently accepted move.
func (g *Game) LastMove() (Move, bool) {
	if g.lastMove == nil {
		return Move{}, false
	}
	return *g.lastMove, true
}

// LastCaptured returns the most recently captured piece.
func (g *Game) LastCaptured() (chess.Piece, bool) {
	if g.lastCaptured == chess.NoPiece {
		return chess.Piece{}, false
	}
	return g.pos.Board.Piece(g.lastCaptured)
}

// InsufficientMaterial reports whether neither side can force mate. It is
// informational; only the kings-only case ends the game.
func (g *Game) InsufficientMaterial() bool {
	return HasInsufficientMaterial(g.pos.Board)
}

// PositionKey returns the Zobrist key of the live position.
func (g *Game) PositionKey() uint64 {
	return PositionKey(g.pos, g.ToMove())
}

// Repetitions returns how many times the current position has been reached.
func (g *Game) Repetitions() int {
	return g.history.Count(g.PositionKey())
}

// playable returns the piece if it may move now: the game is not over, no
// promotion is pending and the piece is live and belongs to the side to
// move.
func (g *Game) playable(idx chess.PieceIndex) (chess.Piece, error) {
	if g.state.Status.Terminal() {
		return chess.Piece{}, errors.ErrGameOver
	}
	if g.pending != chess.NoPiece {
		return chess.Piece{}, errors.ErrPromotionPending
	}
	p, ok := g.pos.Board.Piece(idx)
	if !ok || !p.Alive() {
		return chess.Piece{}, errors.ErrNoSuchPiece
	}
	if p.Colour != g.ToMove() {
		return chess.Piece{}, errors.ErrNotYourTurn
	}
	return p, nil
}

// LegalMoveDetails returns the legal moves of a piece with their side
// effects. It is empty for a piece that may not move now.
func (g *Game) LegalMoveDetails(idx chess.PieceIndex) []Move {
	if _, err := g.playable(idx); err != nil {
		return nil
	}
	return LegalMoves(g.pos, idx)
}

// LegalMoves returns the destinations a piece may move to, in generator
// order. It is empty for a piece that may not move now.
func (g *Game) LegalMoves(idx chess.PieceIndex) []chess.Square {
	moves := g.LegalMoveDetails(idx)
	out := make([]chess.Square, 0, len(moves))
	for _, m := range moves {
		out = append(out, m.To)
	}
	return out
}

// Captures returns the legal destinations of a piece that take an opposing
// piece.
func (g *Game) Captures(idx chess.PieceIndex) []chess.Square {
	var out []chess.Square
	for _, m := range g.LegalMoveDetails(idx) {
		if m.IsCapture() {
			out = append(out, m.To)
		}
	}
	return out
}

// AttemptMove plays the piece to the square if that is one of its legal
// moves. Otherwise the game is unchanged and the result is not accepted.
func (g *Game) AttemptMove(idx chess.PieceIndex, to chess.Square) MoveResult {
	m, err := g.find(idx, to)
	if err != nil {
		return g.reject(idx, to, err)
	}

	g.commit(m)

	res := MoveResult{
		Accepted:         true,
		Captured:         m.Captured,
		PromotionPending: g.pending,
		Move:             &m,
		State:            g.state,
	}
	if m.IsCastle() {
		res.RookRelocation = &RookRelocation{Piece: m.Rook, From: m.RookFrom, To: m.RookTo}
	}
	return res
}

// find returns the legal move of idx to to.
func (g *Game) find(idx chess.PieceIndex, to chess.Square) (Move, error) {
	if _, err := g.playable(idx); err != nil {
		return Move{}, err
	}
	if !to.Valid() {
		return Move{}, errors.ErrInvalidSquare
	}
	moves := LegalMoves(g.pos, idx)
	i := slices.IndexFunc(moves, func(m Move) bool { return m.To == to })
	if i < 0 {
		return Move{}, errors.ErrIllegalMove
	}
	return moves[i], nil
}

func (g *Game) reject(idx chess.PieceIndex, to chess.Square, reason error) MoveResult {
	err := &errors.MoveError{Err: reason, Piece: int(idx), To: to.String(), Ply: g.ply}
	g.logger.WithFields(log.Fields{
		"piece":  int(idx),
		"to":     to.String(),
		"ply":    g.ply,
		"reason": reason.Error(),
	}).Debug("move rejected")
	return MoveResult{
		Captured:         chess.NoPiece,
		PromotionPending: g.pending,
		State:            g.state,
		Reason:           err,
	}
}

// commit applies an accepted move to the live position. This is the only
// place the live board is written during play.
func (g *Game) commit(m Move) {
	g.pos.play(m)
	g.ply++
	g.lastMove = &m
	if m.IsCapture() {
		g.lastCaptured = m.Captured
	}

	g.logger.WithFields(log.Fields{
		"piece": int(m.Piece),
		"move":  m.String(),
		"ply":   g.ply,
	}).Debug("move accepted")

	if m.Promotion {
		// Mate and stalemate depend on the chosen piece, so only check
		// is reported until the choice is made.
		g.pending = m.Piece
		g.state = State{Status: Normal, Side: g.ToMove()}
		if InCheck(g.pos, g.ToMove()) {
			g.state.Status = Check
		}
		return
	}
	g.settle()
}

// ChoosePromotion replaces the pending pawn with kind and then classifies
// the position. On error nothing changes.
func (g *Game) ChoosePromotion(idx chess.PieceIndex, kind chess.Archetype) error {
	if g.pending == chess.NoPiece || g.pending != idx {
		return &errors.MoveError{Err: errors.ErrNoPromotionPending, Piece: int(idx), Ply: g.ply}
	}
	if !kind.CanPromoteTo() {
		return &errors.MoveError{Err: errors.ErrInvalidPromotion, Piece: int(idx), Ply: g.ply}
	}

	g.pos.Board.SetKind(idx, kind)
	g.pending = chess.NoPiece
	g.logger.WithFields(log.Fields{"piece": int(idx), "kind": kind.String()}).Debug("promotion chosen")
	g.settle()
	return nil
}

// settle records the position and reclassifies it for the side to move.
func (g *Game) settle() {
	g.history.Add(g.PositionKey())

	side := g.ToMove()
	prev := g.state
	g.state = classify(g.pos, side, g.hasLegalMoves(side))

	if g.state.Status.Terminal() && !prev.Status.Terminal() {
		g.logger.WithFields(log.Fields{
			"state": g.state.String(),
			"ply":   g.ply,
		}).Info("game over")
	}
}

// hasLegalMoves checks each piece of colour for a legal move, spreading the
// pieces over the worker pool when more than one worker is configured. The
// pool stops at the first piece that can move. Workers only read the live
// position and build their own scratch copies.
func (g *Game) hasLegalMoves(colour chess.Colour) bool {
	if g.workers <= 1 {
		return HasLegalMoves(g.pos, colour)
	}
	pos := g.pos
	return worker.Any(pos.Board.PiecesOf(colour), func(p chess.Piece) bool {
		return pieceHasLegalMove(pos, p)
	}, worker.WithWorkers(g.workers))
}

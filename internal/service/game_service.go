package service

import (
	"github.com/apex/log"

	"github.com/lgbarn/chess-rules-go/internal/chess"
	"github.com/lgbarn/chess-rules-go/internal/engine"
	"github.com/lgbarn/chess-rules-go/internal/errors"
	"github.com/lgbarn/chess-rules-go/internal/ws"
)

// GameService exposes the engine operations by game id and square name.
type GameService struct {
	gameManager *GameManager
}

// NewGameService creates a service over gm.
func NewGameService(gm *GameManager) *GameService {
	return &GameService{gameManager: gm}
}

func gameStateMessage(s Snapshot) ws.Message {
	return ws.NewMessage(ws.MessageTypeGameState, s)
}

func parseSquare(name string) (chess.Square, error) {
	sq, err := chess.ParseSquare(name)
	if err != nil {
		return chess.Offboard, errors.Wrap(errors.ErrInvalidSquare, err.Error())
	}
	return sq, nil
}

// pieceOn returns the live piece on the named square.
func pieceOn(g *engine.Game, name string) (chess.Piece, error) {
	sq, err := parseSquare(name)
	if err != nil {
		return chess.Piece{}, err
	}
	p, ok := g.PieceAt(sq)
	if !ok {
		return chess.Piece{}, errors.Wrapf(errors.ErrNoSuchPiece, "nothing on %s", sq)
	}
	return p, nil
}

// CreateGame starts a game, from fen when it is not empty.
func (gs *GameService) CreateGame(fen string) (Snapshot, error) {
	var (
		id  string
		err error
	)
	if fen == "" {
		id, err = gs.gameManager.CreateGame()
	} else {
		id, err = gs.gameManager.CreateGameFromFEN(fen)
	}
	if err != nil {
		return Snapshot{}, err
	}
	return gs.Snapshot(id)
}

// DeleteGame removes a game.
func (gs *GameService) DeleteGame(id string) error {
	return gs.gameManager.DeleteGame(id)
}

// Snapshot returns the current view of a game.
func (gs *GameService) Snapshot(id string) (Snapshot, error) {
	var s Snapshot
	err := gs.gameManager.WithGame(id, func(g *engine.Game) (bool, error) {
		s = snapshot(id, g)
		return false, nil
	})
	return s, err
}

// LegalMoves returns the legal destinations of the piece on square. A piece
// that may not move now has none.
func (gs *GameService) LegalMoves(id, square string) ([]string, error) {
	moves := []string{}
	err := gs.gameManager.WithGame(id, func(g *engine.Game) (bool, error) {
		p, err := pieceOn(g, square)
		if err != nil {
			return false, err
		}
		for _, sq := range g.LegalMoves(p.Index) {
			moves = append(moves, sq.String())
		}
		return false, nil
	})
	return moves, err
}

// Move plays the piece on from to to. A rejected move returns the engine's
// *errors.MoveError and changes nothing.
func (gs *GameService) Move(id, from, to string) (MoveOutcome, error) {
	var out MoveOutcome
	err := gs.gameManager.WithGame(id, func(g *engine.Game) (bool, error) {
		p, err := pieceOn(g, from)
		if err != nil {
			return false, err
		}
		dest, err := parseSquare(to)
		if err != nil {
			return false, err
		}

		res := g.AttemptMove(p.Index, dest)
		if !res.Accepted {
			return false, res.Reason
		}

		out.Move = res.Move.String()
		if res.Captured != chess.NoPiece {
			captured, _ := g.Piece(res.Captured)
			v := pieceView(captured)
			out.Captured = &v
		}
		if res.RookRelocation != nil {
			out.RookFrom = res.RookRelocation.From.String()
			out.RookTo = res.RookRelocation.To.String()
		}
		out.PromotionPending = res.PromotionPending != chess.NoPiece
		out.Snapshot = snapshot(id, g)
		return true, nil
	})
	return out, err
}

// Promote completes a pending promotion of the pawn on square.
func (gs *GameService) Promote(id, square, piece string) (Snapshot, error) {
	var s Snapshot
	err := gs.gameManager.WithGame(id, func(g *engine.Game) (bool, error) {
		p, err := pieceOn(g, square)
		if err != nil {
			return false, err
		}
		kind, ok := chess.ParseArchetype(piece)
		if !ok {
			return false, errors.Wrapf(errors.ErrInvalidPromotion, "%q", piece)
		}
		if err := g.ChoosePromotion(p.Index, kind); err != nil {
			return false, err
		}
		s = snapshot(id, g)
		return true, nil
	})
	return s, err
}

// Reset returns a game to the standard starting position.
func (gs *GameService) Reset(id string) (Snapshot, error) {
	var s Snapshot
	err := gs.gameManager.WithGame(id, func(g *engine.Game) (bool, error) {
		g.Reset()
		s = snapshot(id, g)
		return true, nil
	})
	if err == nil {
		gs.gameManager.logger.WithField("game", id).Info("game reset")
	}
	return s, err
}

// Subscribe registers sub for snapshots of a game.
func (gs *GameService) Subscribe(id string, sub Subscriber) (string, error) {
	return gs.gameManager.Subscribe(id, sub)
}

// Unsubscribe removes a subscription.
func (gs *GameService) Unsubscribe(id, sid string) {
	gs.gameManager.Unsubscribe(id, sid)
}

// Logger returns the service's logger.
func (gs *GameService) Logger() log.Interface {
	return gs.gameManager.logger
}

package service

import (
	"sync"

	"github.com/apex/log"
	"github.com/apex/log/handlers/discard"
	"github.com/google/uuid"

	"github.com/lgbarn/chess-rules-go/internal/engine"
	"github.com/lgbarn/chess-rules-go/internal/errors"
)

// Subscriber receives game snapshots. *websocket.Conn satisfies it.
type Subscriber interface {
	WriteJSON(v interface{}) error
}

// hostedGame is one engine game behind its own lock. The engine is not safe
// for concurrent use, so every call into game holds mu.
type hostedGame struct {
	mu          sync.Mutex
	game        *engine.Game
	subscribers map[string]Subscriber
}

// GameManager keeps many independent games keyed by UUID.
type GameManager struct {
	games    map[string]*hostedGame
	mu       sync.RWMutex
	maxGames int
	opts     []engine.Option
	logger   log.Interface
}

// ManagerOption configures a GameManager.
type ManagerOption func(*GameManager)

// WithMaxGames caps the number of live games. 0 means unlimited.
func WithMaxGames(n int) ManagerOption {
	return func(gm *GameManager) {
		gm.maxGames = n
	}
}

// WithLogger sets the manager's logger. Games inherit it.
func WithLogger(l log.Interface) ManagerOption {
	return func(gm *GameManager) {
		if l != nil {
			gm.logger = l
		}
	}
}

// WithEngineOptions adds options applied to every new game.
func WithEngineOptions(opts ...engine.Option) ManagerOption {
	return func(gm *GameManager) {
		gm.opts = append(gm.opts, opts...)
	}
}

// NewGameManager creates an empty manager.
func NewGameManager(opts ...ManagerOption) *GameManager {
	gm := &GameManager{
		games:  make(map[string]*hostedGame),
		logger: &log.Logger{Handler: discard.New(), Level: log.InfoLevel},
	}
	for _, opt := range opts {
		opt(gm)
	}
	return gm
}

func (gm *GameManager) engineOptions() []engine.Option {
	return append([]engine.Option{engine.WithLogger(gm.logger)}, gm.opts...)
}

// CreateGame starts a game at the standard starting position.
func (gm *GameManager) CreateGame() (string, error) {
	return gm.add(engine.NewGame(gm.engineOptions()...))
}

// CreateGameFromFEN starts a game at the given position.
func (gm *GameManager) CreateGameFromFEN(fen string) (string, error) {
	g, err := engine.NewGameFromFEN(fen, gm.engineOptions()...)
	if err != nil {
		return "", err
	}
	return gm.add(g)
}

func (gm *GameManager) add(g *engine.Game) (string, error) {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if gm.maxGames > 0 && len(gm.games) >= gm.maxGames {
		return "", errors.Wrapf(errors.ErrTooManyGames, "limit %d reached", gm.maxGames)
	}

	id := uuid.New().String()
	gm.games[id] = &hostedGame{game: g, subscribers: make(map[string]Subscriber)}
	gm.logger.WithFields(log.Fields{"game": id, "games": len(gm.games)}).Info("game created")
	return id, nil
}

// DeleteGame removes a game. Subscribers are dropped without notice.
func (gm *GameManager) DeleteGame(id string) error {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if _, ok := gm.games[id]; !ok {
		return errors.Wrapf(errors.ErrGameNotFound, "game %s", id)
	}
	delete(gm.games, id)
	gm.logger.WithField("game", id).Info("game deleted")
	return nil
}

// Count returns the number of live games.
func (gm *GameManager) Count() int {
	gm.mu.RLock()
	defer gm.mu.RUnlock()
	return len(gm.games)
}

func (gm *GameManager) lookup(id string) (*hostedGame, error) {
	gm.mu.RLock()
	defer gm.mu.RUnlock()

	hg, ok := gm.games[id]
	if !ok {
		return nil, errors.Wrapf(errors.ErrGameNotFound, "game %s", id)
	}
	return hg, nil
}

// WithGame runs fn with exclusive access to the game. If fn reports a
// change, the resulting snapshot is pushed to every subscriber before the
// lock is released, so subscribers see changes in order.
func (gm *GameManager) WithGame(id string, fn func(g *engine.Game) (changed bool, err error)) error {
	hg, err := gm.lookup(id)
	if err != nil {
		return err
	}

	hg.mu.Lock()
	defer hg.mu.Unlock()

	changed, err := fn(hg.game)
	if err != nil || !changed {
		return err
	}
	gm.broadcast(id, hg)
	return nil
}

// broadcast sends the game's snapshot to every subscriber. Subscribers that
// fail to receive it are dropped. The caller holds hg.mu.
func (gm *GameManager) broadcast(id string, hg *hostedGame) {
	if len(hg.subscribers) == 0 {
		return
	}
	msg := gameStateMessage(snapshot(id, hg.game))
	for sid, sub := range hg.subscribers {
		if err := sub.WriteJSON(msg); err != nil {
			gm.logger.WithFields(log.Fields{"game": id, "subscriber": sid}).WithError(err).Warn("dropping subscriber")
			delete(hg.subscribers, sid)
		}
	}
}

// Subscribe registers sub for snapshots of the game and sends it the
// current snapshot. It returns the subscription id.
func (gm *GameManager) Subscribe(id string, sub Subscriber) (string, error) {
	hg, err := gm.lookup(id)
	if err != nil {
		return "", err
	}

	hg.mu.Lock()
	defer hg.mu.Unlock()

	sid := uuid.New().String()
	if err := sub.WriteJSON(gameStateMessage(snapshot(id, hg.game))); err != nil {
		return "", err
	}
	hg.subscribers[sid] = sub
	gm.logger.WithFields(log.Fields{"game": id, "subscriber": sid}).Debug("subscribed")
	return sid, nil
}

// Unsubscribe removes a subscription. Unknown ids are ignored.
func (gm *GameManager) Unsubscribe(id, sid string) {
	hg, err := gm.lookup(id)
	if err != nil {
		return
	}
	hg.mu.Lock()
	defer hg.mu.Unlock()
	delete(hg.subscribers, sid)
}

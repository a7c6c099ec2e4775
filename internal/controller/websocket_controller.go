package controller

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/apex/log"
	"github.com/gofiber/websocket/v2"

	"github.com/lgbarn/chess-rules-go/internal/service"
	"github.com/lgbarn/chess-rules-go/internal/ws"
)

// WebSocketController serves /ws/games/:id.
type WebSocketController struct {
	gameService *service.GameService
	logger      log.Interface
}

// NewWebSocketController creates a controller over gs.
func NewWebSocketController(gs *service.GameService) *WebSocketController {
	return &WebSocketController{gameService: gs, logger: gs.Logger()}
}

// writeTimeout bounds each write to a client. Broadcasts run under the
// game's lock, so a stalled client must fail rather than hold the game.
const writeTimeout = 5 * time.Second

// jsonConn is the part of *websocket.Conn that lockedConn writes through.
type jsonConn interface {
	SetWriteDeadline(t time.Time) error
	WriteJSON(v interface{}) error
}

// lockedConn serialises writes: broadcasts from other clients' moves and
// replies to this client share one connection.
type lockedConn struct {
	mu      sync.Mutex
	conn    jsonConn
	timeout time.Duration
}

func newLockedConn(conn jsonConn) *lockedConn {
	return &lockedConn{conn: conn, timeout: writeTimeout}
}

func (l *lockedConn) WriteJSON(v interface{}) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.conn.SetWriteDeadline(time.Now().Add(l.timeout)); err != nil {
		return err
	}
	return l.conn.WriteJSON(v)
}

// HandleConnection subscribes the connection to its game and serves
// requests until the client goes away.
func (wsc *WebSocketController) HandleConnection(c *websocket.Conn) {
	id := c.Params("id")
	conn := newLockedConn(c)
	logger := wsc.logger.WithField("game", id)

	sid, err := wsc.gameService.Subscribe(id, conn)
	if err != nil {
		logger.WithError(err).Warn("subscribe failed")
		_ = conn.WriteJSON(errorMessage(err))
		_ = c.Close()
		return
	}
	defer wsc.gameService.Unsubscribe(id, sid)
	logger = logger.WithField("subscriber", sid)
	logger.Debug("websocket connected")

	for {
		messageType, data, err := c.ReadMessage()
		if err != nil {
			logger.WithError(err).Debug("websocket closed")
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}

		var msg ws.Message
		if err := json.Unmarshal(data, &msg); err != nil {
			_ = conn.WriteJSON(errorMessage(fmt.Errorf("parse message: %w", err)))
			continue
		}
		if reply := wsc.handleMessage(id, msg); reply != nil {
			if err := conn.WriteJSON(*reply); err != nil {
				logger.WithError(err).Warn("write failed")
				return
			}
		}
	}
}

// handleMessage runs one request. Accepted changes reach every subscriber,
// this one included, through the broadcast; the returned reply goes to the
// requester only.
func (wsc *WebSocketController) handleMessage(id string, msg ws.Message) *ws.Message {
	var reply ws.Message
	switch msg.Type {
	case ws.MessageTypeMove:
		var p ws.MovePayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			reply = errorMessage(err)
			break
		}
		out, err := wsc.gameService.Move(id, p.From, p.To)
		if err != nil {
			reply = errorMessage(err)
			break
		}
		reply = ws.NewMessage(ws.MessageTypeMoveResult, out)

	case ws.MessageTypePromotion:
		var p ws.PromotionPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			reply = errorMessage(err)
			break
		}
		if _, err := wsc.gameService.Promote(id, p.Square, p.Piece); err != nil {
			reply = errorMessage(err)
			break
		}
		return nil

	case ws.MessageTypeReset:
		if _, err := wsc.gameService.Reset(id); err != nil {
			reply = errorMessage(err)
			break
		}
		return nil

	case ws.MessageTypeLegalMoves:
		var p ws.LegalMovesPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			reply = errorMessage(err)
			break
		}
		moves, err := wsc.gameService.LegalMoves(id, p.Square)
		if err != nil {
			reply = errorMessage(err)
			break
		}
		reply = ws.NewMessage(ws.MessageTypeLegalMoves, ws.LegalMovesPayload{Square: p.Square, Moves: moves})

	default:
		reply = errorMessage(fmt.Errorf("unknown message type: %s", msg.Type))
	}
	return &reply
}

func errorMessage(err error) ws.Message {
	return ws.NewMessage(ws.MessageTypeError, ws.ErrorPayload{Error: err.Error(), Code: errorStatus(err)})
}

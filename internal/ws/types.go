// Package ws defines the WebSocket message envelope and its payloads.
package ws

import (
	"encoding/json"
)

// MessageType represents the different kinds of messages the server handles
type MessageType string

const (
	// Client to server
	MessageTypeMove       MessageType = "move"
	MessageTypePromotion  MessageType = "promotion"
	MessageTypeReset      MessageType = "reset"
	MessageTypeLegalMoves MessageType = "legalMoves"

	// Server to client
	MessageTypeGameState  MessageType = "gameState"
	MessageTypeMoveResult MessageType = "moveResult"
	MessageTypeError      MessageType = "error"
)

// Message represents a WebSocket message in either direction
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// MovePayload asks for the piece on From to move to To.
type MovePayload struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// PromotionPayload names the archetype for the pawn awaiting promotion.
type PromotionPayload struct {
	Square string `json:"square"`
	Piece  string `json:"piece"`
}

// LegalMovesPayload asks for, and answers with, the legal destinations of
// the piece on Square.
type LegalMovesPayload struct {
	Square string   `json:"square"`
	Moves  []string `json:"moves"`
}

// ErrorPayload reports a rejected request to the client that sent it.
type ErrorPayload struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
}

// NewMessage wraps payload in an envelope. A payload that cannot be encoded
// becomes an error message.
func NewMessage(t MessageType, payload interface{}) Message {
	data, err := json.Marshal(payload)
	if err != nil {
		data, _ = json.Marshal(ErrorPayload{Error: err.Error()})
		t = MessageTypeError
	}
	return Message{Type: t, Payload: data}
}

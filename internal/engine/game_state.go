package engine

import (
	"fmt"
	"strings"

	"github.com/lgbarn/chess-rules-go/internal/chess"
)

// Status classifies a position for the side to move.
type Status int

const (
	Normal Status = iota
	Check
	Checkmate
	Stalemate
)

// String returns the string representation of a status.
func (s Status) String() string {
	switch s {
	case Normal:
		return "normal"
	case Check:
		return "check"
	case Checkmate:
		return "checkmate"
	case Stalemate:
		return "stalemate"
	}
	return "unknown"
}

// MarshalText encodes the status by name.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a status name.
func (s *Status) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "normal":
		*s = Normal
	case "check":
		*s = Check
	case "checkmate":
		*s = Checkmate
	case "stalemate":
		*s = Stalemate
	default:
		return fmt.Errorf("unknown status %q", text)
	}
	return nil
}

// Terminal reports whether no further moves are accepted.
func (s Status) Terminal() bool {
	return s == Checkmate || s == Stalemate
}

// State is the Game State Machine's classification. Side is the side in
// check or checkmated; for Normal and Stalemate it is the side to move.
type State struct {
	Status Status       `json:"status"`
	Side   chess.Colour `json:"side"`
}

// String returns forms such as "Normal", "Check(White)" or "Stalemate".
func (s State) String() string {
	switch s.Status {
	case Check:
		return fmt.Sprintf("Check(%s)", s.Side)
	case Checkmate:
		return fmt.Sprintf("Checkmate(%s)", s.Side)
	case Stalemate:
		return "Stalemate"
	}
	return "Normal"
}

// Classify computes the state of pos for the side to move. It is the
// sequential form of the classification the Game runs after every move.
func Classify(pos *Position, toMove chess.Colour) State {
	return classify(pos, toMove, HasLegalMoves(pos, toMove))
}

// classify applies the transition table once hasMoves is known.
func classify(pos *Position, toMove chess.Colour, hasMoves bool) State {
	if OnlyKings(pos.Board) {
		return State{Status: Stalemate, Side: toMove}
	}
	inCheck := InCheck(pos, toMove)
	switch {
	case hasMoves && inCheck:
		return State{Status: Check, Side: toMove}
	case hasMoves:
		return State{Status: Normal, Side: toMove}
	case inCheck:
		return State{Status: Checkmate, Side: toMove}
	}
	return State{Status: Stalemate, Side: toMove}
}

// Package errors provides sentinel errors and error types for the rules engine
// and the services built on it. It defines common rejection reasons and a
// structured move error that preserves context while allowing inspection with
// errors.Is() and errors.As().
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common rejection reasons.
// Use these with errors.Is() to check for specific error types.
var (
	// ErrInvalidFEN indicates a malformed FEN string.
	ErrInvalidFEN = errors.New("invalid FEN string")

	// ErrIllegalMove indicates a destination that is not among the piece's legal moves.
	ErrIllegalMove = errors.New("illegal move")

	// ErrNoSuchPiece indicates an index that does not name a live piece.
	ErrNoSuchPiece = errors.New("no such piece")

	// ErrNotYourTurn indicates a piece that does not belong to the side to move.
	ErrNotYourTurn = errors.New("not your turn")

	// ErrPromotionPending indicates a move attempted while a promotion awaits a choice.
	ErrPromotionPending = errors.New("promotion pending")

	// ErrNoPromotionPending indicates a promotion choice for a piece that is not pending.
	ErrNoPromotionPending = errors.New("no promotion pending")

	// ErrInvalidPromotion indicates an archetype a pawn may not become.
	ErrInvalidPromotion = errors.New("invalid promotion archetype")

	// ErrGameOver indicates a move attempted after checkmate or stalemate.
	ErrGameOver = errors.New("game over")

	// ErrGameNotFound indicates an unknown game identifier.
	ErrGameNotFound = errors.New("game not found")

	// ErrTooManyGames indicates the game manager is at capacity.
	ErrTooManyGames = errors.New("too many games")

	// ErrInvalidSquare indicates malformed square coordinates.
	ErrInvalidSquare = errors.New("invalid square")

	// ErrInvalidConfig indicates invalid configuration values.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// MoveError wraps a rejection reason with move context: the piece, the
// requested destination and the ply at which it was attempted. It implements
// the error interface and supports unwrapping via errors.Is() and errors.As().
type MoveError struct {
	Err   error  // The underlying reason
	Piece int    // Index of the piece that was asked to move (-1 if none)
	To    string // Requested destination in coordinate notation (if known)
	Ply   int    // Ply counter when the move was attempted
}

// Error returns a formatted error message including all available context.
func (e *MoveError) Error() string {
	var parts []string

	parts = append(parts, fmt.Sprintf("ply %d", e.Ply))
	if e.Piece >= 0 {
		parts = append(parts, fmt.Sprintf("piece %d", e.Piece))
	}
	if e.To != "" {
		parts = append(parts, fmt.Sprintf("to %s", e.To))
	}

	context := strings.Join(parts, ", ")

	if e.Err != nil {
		return fmt.Sprintf("%s: %v", context, e.Err)
	}
	return context
}

// Unwrap returns the underlying error, enabling errors.Is() and errors.As()
// to work through the MoveError wrapper.
func (e *MoveError) Unwrap() error {
	return e.Err
}

// Wrap adds context to an error while preserving the underlying error
// for inspection with errors.Is() and errors.As().
func Wrap(err error, context string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", context, err)
}

// Wrapf adds formatted context to an error while preserving the underlying
// error for inspection with errors.Is() and errors.As().
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

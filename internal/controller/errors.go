package controller

import (
	"github.com/gofiber/fiber/v2"

	"github.com/lgbarn/chess-rules-go/internal/errors"
)

// errorStatus maps a service error to an HTTP status code.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, errors.ErrGameNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, errors.ErrGameOver),
		errors.Is(err, errors.ErrPromotionPending),
		errors.Is(err, errors.ErrNoPromotionPending),
		errors.Is(err, errors.ErrNotYourTurn):
		return fiber.StatusConflict
	case errors.Is(err, errors.ErrIllegalMove),
		errors.Is(err, errors.ErrNoSuchPiece),
		errors.Is(err, errors.ErrInvalidPromotion):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, errors.ErrInvalidSquare),
		errors.Is(err, errors.ErrInvalidFEN):
		return fiber.StatusBadRequest
	case errors.Is(err, errors.ErrTooManyGames):
		return fiber.StatusServiceUnavailable
	}
	return fiber.StatusInternalServerError
}

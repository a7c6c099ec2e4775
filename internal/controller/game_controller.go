package controller

import (
	"github.com/apex/log"
	"github.com/gofiber/fiber/v2"

	"github.com/lgbarn/chess-rules-go/internal/service"
)

// GameController serves the REST API over a GameService.
type GameController struct {
	gameService *service.GameService
	logger      log.Interface
}

// NewGameController creates a controller over gs.
func NewGameController(gs *service.GameService) *GameController {
	return &GameController{gameService: gs, logger: gs.Logger()}
}

type createRequest struct {
	FEN string `json:"fen"`
}

type moveRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type promotionRequest struct {
	Square string `json:"square"`
	Piece  string `json:"piece"`
}

// fail writes err as a JSON error body with its mapped status.
func (gc *GameController) fail(c *fiber.Ctx, err error) error {
	status := errorStatus(err)
	entry := gc.logger.WithFields(log.Fields{
		"method": c.Method(),
		"path":   c.Path(),
		"status": status,
	}).WithError(err)
	if status >= fiber.StatusInternalServerError {
		entry.Error("request failed")
	} else {
		entry.Warn("request rejected")
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

func badRequest(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
}

// CreateGame handles POST /api/games. The body may carry a starting FEN.
func (gc *GameController) CreateGame(c *fiber.Ctx) error {
	var req createRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, err)
		}
	}
	s, err := gc.gameService.CreateGame(req.FEN)
	if err != nil {
		return gc.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(s)
}

// GetGame handles GET /api/games/:id.
func (gc *GameController) GetGame(c *fiber.Ctx) error {
	s, err := gc.gameService.Snapshot(c.Params("id"))
	if err != nil {
		return gc.fail(c, err)
	}
	return c.JSON(s)
}

// DeleteGame handles DELETE /api/games/:id.
func (gc *GameController) DeleteGame(c *fiber.Ctx) error {
	if err := gc.gameService.DeleteGame(c.Params("id")); err != nil {
		return gc.fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// LegalMoves handles GET /api/games/:id/moves/:square.
func (gc *GameController) LegalMoves(c *fiber.Ctx) error {
	square := c.Params("square")
	moves, err := gc.gameService.LegalMoves(c.Params("id"), square)
	if err != nil {
		return gc.fail(c, err)
	}
	return c.JSON(fiber.Map{"square": square, "moves": moves})
}

// Move handles POST /api/games/:id/move.
func (gc *GameController) Move(c *fiber.Ctx) error {
	var req moveRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, err)
	}
	gc.logger.WithFields(log.Fields{"game": c.Params("id"), "from": req.From, "to": req.To}).Debug("move requested")

	out, err := gc.gameService.Move(c.Params("id"), req.From, req.To)
	if err != nil {
		return gc.fail(c, err)
	}
	return c.JSON(out)
}

// Promote handles POST /api/games/:id/promotion.
func (gc *GameController) Promote(c *fiber.Ctx) error {
	var req promotionRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, err)
	}
	s, err := gc.gameService.Promote(c.Params("id"), req.Square, req.Piece)
	if err != nil {
		return gc.fail(c, err)
	}
	return c.JSON(s)
}

// Reset handles POST /api/games/:id/reset.
func (gc *GameController) Reset(c *fiber.Ctx) error {
	s, err := gc.gameService.Reset(c.Params("id"))
	if err != nil {
		return gc.fail(c, err)
	}
	return c.JSON(s)
}

package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/lgbarn/chess-rules-go/internal/service"
)

// SetupRoutes mounts the REST API, the WebSocket endpoint and /healthz.
func SetupRoutes(app *fiber.App, gs *service.GameService, gm *service.GameManager) {
	gameController := NewGameController(gs)
	wsController := NewWebSocketController(gs)

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "games": gm.Count()})
	})

	games := app.Group("/api/games")
	games.Post("/", gameController.CreateGame)
	games.Get("/:id", gameController.GetGame)
	games.Delete("/:id", gameController.DeleteGame)
	games.Get("/:id/moves/:square", gameController.LegalMoves)
	games.Post("/:id/move", gameController.Move)
	games.Post("/:id/promotion", gameController.Promote)
	games.Post("/:id/reset", gameController.Reset)

	app.Use("/ws", func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}
		return c.Next()
	})
	app.Get("/ws/games/:id", websocket.New(wsController.HandleConnection, websocket.Config{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
	}))
}

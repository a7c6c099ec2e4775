// chess-server hosts chess games over a REST and WebSocket API.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/apex/log"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberrecover "github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/lgbarn/chess-rules-go/internal/config"
	"github.com/lgbarn/chess-rules-go/internal/controller"
	"github.com/lgbarn/chess-rules-go/internal/engine"
	"github.com/lgbarn/chess-rules-go/internal/service"
)

const programVersion = "0.1.0"

const shutdownTimeout = 5 * time.Second

func main() {
	flag.Usage = usage
	flag.Parse()

	if *help {
		usage()
		os.Exit(0)
	}

	if *version {
		fmt.Printf("chess-server version %s\n", programVersion)
		os.Exit(0)
	}

	cfg, err := loadConfig(os.LookupEnv, explicitFlags())
	if err != nil {
		fmt.Fprintf(os.Stderr, "chess-server: %v\n", err)
		os.Exit(2)
	}

	logger, err := cfg.Log.NewLogger(os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "chess-server: %v\n", err)
		os.Exit(2)
	}

	app := newApp(cfg, logger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-quit
		logger.WithField("signal", sig.String()).Info("shutting down")
		if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
			logger.WithError(err).Error("shutdown")
		}
	}()

	logger.WithFields(log.Fields{
		"addr":     cfg.Server.Addr,
		"workers":  cfg.Engine.Workers,
		"maxGames": cfg.Engine.MaxGames,
	}).Info("listening")
	if err := app.Listen(cfg.Server.Addr); err != nil {
		logger.WithError(err).Fatal("server stopped")
	}
}

// newApp wires the middleware, the game service and the routes.
func newApp(cfg *config.Config, logger log.Interface) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "chess-server " + programVersion,
		DisableStartupMessage: true,
	})

	app.Use(fiberrecover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.Server.AllowOrigins,
		AllowHeaders: "Origin, Content-Type, Accept",
		AllowMethods: "GET, POST, DELETE, OPTIONS",
	}))
	app.Use(requestLogger(logger))

	gameManager := service.NewGameManager(
		service.WithMaxGames(cfg.Engine.MaxGames),
		service.WithLogger(logger),
		service.WithEngineOptions(
			engine.WithWorkers(cfg.Engine.Workers),
			engine.WithLogger(logger),
		),
	)
	gameService := service.NewGameService(gameManager)
	controller.SetupRoutes(app, gameService, gameManager)
	return app
}

// requestLogger logs every request at debug level once it has been handled.
func requestLogger(logger log.Interface) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		fields := log.Fields{
			"method":   c.Method(),
			"path":     c.Path(),
			"status":   c.Response().StatusCode(),
			"duration": time.Since(start).String(),
		}
		if err != nil {
			fields["error"] = err.Error()
		}
		logger.WithFields(fields).Debug("request")
		return err
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: chess-server [options]\n\n")
	fmt.Fprintf(os.Stderr, "Hosts chess games over REST and WebSocket.\n\n")
	fmt.Fprintf(os.Stderr, "Options:\n")
	flag.PrintDefaults()
	fmt.Fprintf(os.Stderr, "\nEnvironment (overridden by flags):\n")
	fmt.Fprintf(os.Stderr, "  %-20s listen address\n", config.EnvAddr)
	fmt.Fprintf(os.Stderr, "  %-20s CORS origins\n", config.EnvAllowOrigins)
	fmt.Fprintf(os.Stderr, "  %-20s log level\n", config.EnvLogLevel)
	fmt.Fprintf(os.Stderr, "  %-20s log format\n", config.EnvLogFormat)
	fmt.Fprintf(os.Stderr, "  %-20s classification workers\n", config.EnvWorkers)
	fmt.Fprintf(os.Stderr, "  %-20s maximum hosted games\n", config.EnvMaxGames)
}

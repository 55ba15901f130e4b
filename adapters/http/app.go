package qrhttp

import (
	"io"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	fiberrecover "github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/goliatone/go-router"
)

const (
	DefaultAppName   = "qrexport"
	DefaultBodyLimit = 16 * 1024 * 1024
	DefaultLogFormat = "[${time}] ${status} ${method} ${path} ${latency}\n"
)

// AppConfig configures the Fiber application.
type AppConfig struct {
	Name         string
	BodyLimit    int
	AllowOrigins string
	AccessLog    bool
	LogFormat    string
	LogOutput    io.Writer
}

// NewApp builds a Fiber app with middleware and the handler routes.
func NewApp(cfg AppConfig, handler *Handler) *fiber.App {
	name := cfg.Name
	if name == "" {
		name = DefaultAppName
	}
	bodyLimit := cfg.BodyLimit
	if bodyLimit <= 0 {
		bodyLimit = DefaultBodyLimit
	}

	app := fiber.New(fiber.Config{
		AppName:               name,
		BodyLimit:             bodyLimit,
		ErrorHandler:          ErrorHandler,
		DisableStartupMessage: true,
	})

	app.Use(fiberrecover.New())
	if cfg.AccessLog {
		format := cfg.LogFormat
		if format == "" {
			format = DefaultLogFormat
		}
		output := cfg.LogOutput
		if output == nil {
			output = os.Stdout
		}
		app.Use(logger.New(logger.Config{Format: format, Output: output}))
	}
	if cfg.AllowOrigins != "" {
		app.Use(cors.New(cors.Config{
			AllowOrigins: cfg.AllowOrigins,
			AllowMethods: "GET,POST,OPTIONS",
			AllowHeaders: "Content-Type",
		}))
	}

	if handler != nil {
		handler.RegisterRoutes(app)
	}
	return app
}

// AppInitializer returns a go-router Fiber initializer that builds the app.
func AppInitializer(cfg AppConfig, handler *Handler) func(*fiber.App) *fiber.App {
	return func(*fiber.App) *fiber.App {
		return NewApp(cfg, handler)
	}
}

// NewServer hosts the app behind the go-router Fiber adapter.
func NewServer(cfg AppConfig, handler *Handler) router.Server[*fiber.App] {
	return router.NewFiberAdapter(AppInitializer(cfg, handler))
}

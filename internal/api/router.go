package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/HarishchandraChaudhary/ai-email-sender/internal/config"
	apperrors "github.com/HarishchandraChaudhary/ai-email-sender/internal/errors"
	"github.com/HarishchandraChaudhary/ai-email-sender/internal/middleware/requestid"
	"github.com/HarishchandraChaudhary/ai-email-sender/internal/pkg/log"
)

const appName = "AI Email Sender v1.0.0"

func Router(handler *Handler, cfg config.ServerConfig) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               appName,
		ReadTimeout:           cfg.ReadTimeout,
		WriteTimeout:          cfg.WriteTimeout,
		BodyLimit:             cfg.BodyLimit,
		DisableStartupMessage: !cfg.Debug,
		ErrorHandler:          errorHandler,
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${locals:" + requestid.ContextKeyRequestID + "} ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.AllowOrigins,
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Content-Type,X-Request-ID",
	}))

	app.Get("/", handler.Index)
	app.Post("/generate", handler.Generate)
	app.Post("/send_email", handler.SendEmail)
	app.Get("/health", handler.Health)

	return app
}

// errorHandler renders fiber errors (404, 405, 413, panics) in the same {"error": ...} shape.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	log.ErrorWithContext(c.UserContext(), "path: %s, error: %v, code: %d", c.Path(), err, code)

	if len(c.Response().Body()) > 0 {
		return nil
	}

	message := err.Error()
	if code == fiber.StatusInternalServerError {
		message = "Internal server error"
	}
	return c.Status(code).JSON(apperrors.ErrorResponse{Error: message})
}

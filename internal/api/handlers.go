package api

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	apperrors "github.com/HarishchandraChaudhary/ai-email-sender/internal/errors"
	"github.com/HarishchandraChaudhary/ai-email-sender/internal/generator"
	"github.com/HarishchandraChaudhary/ai-email-sender/internal/mailer"
	"github.com/HarishchandraChaudhary/ai-email-sender/internal/pkg/log"
)

// HandlerConfig carries the startup settings the handlers need.
type HandlerConfig struct {
	Debug         bool
	SendTimeout   time.Duration
	GeneratorName string
	TransportName string
}

type Handler struct {
	generator  generator.Generator
	dispatcher mailer.Dispatcher
	validate   *validator.Validate
	config     HandlerConfig
}

func NewHandler(gen generator.Generator, dispatcher mailer.Dispatcher, config HandlerConfig) *Handler {
	if config.SendTimeout <= 0 {
		config.SendTimeout = 30 * time.Second
	}
	return &Handler{
		generator:  gen,
		dispatcher: dispatcher,
		validate:   validator.New(),
		config:     config,
	}
}

type GenerateRequest struct {
	Prompt string `json:"prompt" validate:"required"`
}

type SendEmailRequest struct {
	Recipients []string `json:"recipients" validate:"required,min=1"`
	Subject    string   `json:"subject" validate:"required"`
	Body       string   `json:"body" validate:"required"`
}

type SendEmailResponse struct {
	Message string `json:"message"`
}

type HealthResponse struct {
	Status    string                 `json:"status"`
	Services  map[string]string      `json:"services"`
	Generator map[string]interface{} `json:"generator,omitempty"`
}

// statusReporter is implemented by generators that track their own load.
type statusReporter interface {
	Status() map[string]interface{}
}

func (h *Handler) Generate(c *fiber.Ctx) error {
	var req GenerateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.HandleInvalidRequestError(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return apperrors.HandleValidationError(c, apperrors.MsgPromptRequired)
	}

	draft, err := h.generator.Generate(c.UserContext(), req.Prompt)
	if err != nil {
		return apperrors.HandleServiceError(c, apperrors.NewGenerationFailure(err), h.config.Debug)
	}

	return c.JSON(draft)
}

func (h *Handler) SendEmail(c *fiber.Ctx) error {
	var req SendEmailRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.HandleInvalidRequestError(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return apperrors.HandleValidationError(c, apperrors.MsgAllFieldsRequired)
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), h.config.SendTimeout)
	defer cancel()

	message, err := h.dispatcher.Send(ctx, req.Recipients, req.Subject, req.Body)
	if err != nil {
		return apperrors.HandleServiceError(c, apperrors.NewSendFailure(req.Recipients, err), h.config.Debug)
	}

	log.InfoWithContext(c.UserContext(), "send_email accepted for %d recipient(s)", len(req.Recipients))
	return c.JSON(SendEmailResponse{Message: message})
}

func (h *Handler) Health(c *fiber.Ctx) error {
	response := HealthResponse{
		Status: "healthy",
		Services: map[string]string{
			"api":       "healthy",
			"generator": h.config.GeneratorName,
			"email":     h.config.TransportName,
		},
	}
	if r, ok := h.generator.(statusReporter); ok {
		response.Generator = r.Status()
	}

	return c.JSON(response)
}

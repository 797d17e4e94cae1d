package errors

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/HarishchandraChaudhary/ai-email-sender/internal/pkg/log"
)

// Error codes used in logs and wrapped errors
const (
	CodeValidationFailed = "VALIDATION_FAILED"
	CodeInvalidRequest   = "INVALID_REQUEST"
	CodeGenerationFailed = "GENERATION_FAILED"
	CodeSendFailed       = "SEND_FAILED"
	CodeSystemError      = "SYSTEM_ERROR"
)

// Client-facing messages
const (
	MsgPromptRequired    = "Prompt is required"
	MsgAllFieldsRequired = "All fields are required"
	MsgInvalidPayload    = "Invalid request payload"
	MsgGenerationFailed  = "Failed to generate email."
	MsgSendFailed        = "Failed to send email."
)

var (
	ErrGeneratorBusy = errors.New("server is currently processing too many requests, please try again in a moment")
	ErrEmptyDraft    = errors.New("generated draft is missing a subject or body")
)

// ErrorResponse is the JSON body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// GenerationFailure means the draft generator could not produce a draft.
type GenerationFailure struct {
	Cause error
}

func (e *GenerationFailure) Error() string {
	return fmt.Sprintf("generation failed: %v", e.Cause)
}

func (e *GenerationFailure) Unwrap() error {
	return e.Cause
}

// NewGenerationFailure wraps err unless it is already a GenerationFailure.
func NewGenerationFailure(err error) error {
	var gf *GenerationFailure
	if errors.As(err, &gf) {
		return err
	}
	return &GenerationFailure{Cause: err}
}

// SendFailure means the mail transport did not accept the message.
type SendFailure struct {
	Recipients []string
	Cause      error
}

func (e *SendFailure) Error() string {
	return fmt.Sprintf("send failed: %v", e.Cause)
}

func (e *SendFailure) Unwrap() error {
	return e.Cause
}

// NewSendFailure wraps err with the recipients it was meant for.
func NewSendFailure(recipients []string, err error) error {
	var sf *SendFailure
	if errors.As(err, &sf) {
		return err
	}
	return &SendFailure{Recipients: recipients, Cause: err}
}

// IsGenerationFailure reports whether err is a GenerationFailure.
func IsGenerationFailure(err error) bool {
	var gf *GenerationFailure
	return errors.As(err, &gf)
}

// IsSendFailure reports whether err is a SendFailure.
func IsSendFailure(err error) bool {
	var sf *SendFailure
	return errors.As(err, &sf)
}

// HandleValidationError handles validation errors with 400 Bad Request
func HandleValidationError(c *fiber.Ctx, message string) error {
	log.DebugWithContext(c.UserContext(), "%s: %s", CodeValidationFailed, message)
	return c.Status(http.StatusBadRequest).JSON(ErrorResponse{Error: message})
}

// HandleInvalidRequestError handles unparseable bodies with 400 Bad Request
func HandleInvalidRequestError(c *fiber.Ctx, cause error) error {
	log.WarnWithContext(c.UserContext(), "%s: %v", CodeInvalidRequest, cause)
	return c.Status(http.StatusBadRequest).JSON(ErrorResponse{Error: MsgInvalidPayload})
}

// HandleServiceError maps generator and dispatcher errors onto HTTP responses.
// The underlying detail is only exposed when debug is set.
func HandleServiceError(c *fiber.Ctx, err error, debug bool) error {
	if err == nil {
		return nil
	}

	status := http.StatusInternalServerError
	code := CodeGenerationFailed
	message := MsgGenerationFailed

	switch {
	case IsSendFailure(err):
		status = http.StatusBadGateway
		code = CodeSendFailed
		message = MsgSendFailed
	case !IsGenerationFailure(err):
		code = CodeSystemError
	}

	log.ErrorWithContext(c.UserContext(), "%s: %v", code, err)

	if debug {
		message = rootMessage(err)
	}
	return c.Status(status).JSON(ErrorResponse{Error: message})
}

// rootMessage drops our own wrapping so debug output reads like the provider error.
func rootMessage(err error) string {
	var gf *GenerationFailure
	if errors.As(err, &gf) && gf.Cause != nil {
		return gf.Cause.Error()
	}
	var sf *SendFailure
	if errors.As(err, &sf) && sf.Cause != nil {
		return sf.Cause.Error()
	}
	return err.Error()
}

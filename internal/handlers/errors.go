package handlers

import (
	"errors"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/moderation-inbox/internal/dto"
	"github.com/ahmetcoskunkizilkaya/moderation-inbox/internal/reports"
	"github.com/ahmetcoskunkizilkaya/moderation-inbox/internal/services"
	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/fiber/v2"
)

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: true, Message: msg})
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: true, Message: "Unauthorized"})
}

// statusFor maps domain errors to HTTP status codes. Anything unknown is a
// server error.
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrReportNotFound), errors.Is(err, services.ErrCreatorNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, services.ErrAlreadyResolved), errors.Is(err, reports.ErrSubmitting):
		return fiber.StatusConflict
	case errors.Is(err, services.ErrUnauthorized):
		return fiber.StatusUnauthorized
	case errors.Is(err, reports.ErrNoSelection), errors.Is(err, reports.ErrMissingCreator):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, reports.ErrInvalidDecision), errors.Is(err, reports.ErrInvalidAction),
		errors.Is(err, reports.ErrInvalidType), errors.Is(err, reports.ErrInvalidStatus):
		return fiber.StatusBadRequest
	}
	return fiber.StatusInternalServerError
}

// serviceError writes err as an ErrorResponse. Server errors are logged and
// sent to Sentry, and their detail is replaced by fallback.
func serviceError(c *fiber.Ctx, err error, fallback string) error {
	code := statusFor(err)
	msg := err.Error()
	if code >= fiber.StatusInternalServerError {
		capture(c, err)
		msg = fallback
	}
	return c.Status(code).JSON(dto.ErrorResponse{Error: true, Message: msg})
}

func capture(c *fiber.Ctx, err error) {
	slog.Error("request failed", "method", c.Method(), "path", c.Path(), "error", err.Error())
	if hub := sentryfiber.GetHubFromContext(c); hub != nil {
		hub.CaptureException(err)
		return
	}
	sentry.CaptureException(err)
}

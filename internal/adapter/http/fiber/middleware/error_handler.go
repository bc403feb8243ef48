package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/seu-repo/arremateai/internal/domain"
)

// ErrorResponse is the body of every error answer.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

var kindStatus = []struct {
	kind   error
	status int
	name   string
}{
	{domain.ErrValidation, fiber.StatusBadRequest, "VALIDATION_ERROR"},
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED"},
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrInvalidState, fiber.StatusConflict, "INVALID_STATE"},
	{domain.ErrConflict, fiber.StatusConflict, "CONFLICT"},
	{domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN"},
	{domain.ErrBusiness, fiber.StatusUnprocessableEntity, "BUSINESS_ERROR"},
}

// StatusOf maps an error returned by a handler to its HTTP status.
func StatusOf(err error) (int, string) {
	for _, k := range kindStatus {
		if errors.Is(err, k.kind) {
			return k.status, k.name
		}
	}
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code, "HTTP_ERROR"
	}
	return fiber.StatusInternalServerError, "INTERNAL_ERROR"
}

func ErrorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code, name := StatusOf(err)

		message := err.Error()
		if code == fiber.StatusInternalServerError {
			log.Error("Internal Server Error",
				zap.Error(err),
				zap.String("method", c.Method()),
				zap.String("path", c.Path()))
			message = "erro interno do servidor"
		}

		return c.Status(code).JSON(ErrorResponse{Error: name, Message: message})
	}
}

package http

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/forworkyanika/BKK-Smart-Investment-Map/internal/core/domain"
)

// APIError is a structured error response.
type APIError struct {
	Status    int    `json:"status"`
	Code      string `json:"code"`    // Error code: bad_request, not_found, internal_error, etc.
	Message   string `json:"message"` // Human-readable message
	RequestID string `json:"request_id,omitempty"`
}

// newError builds a JSON error response with a request ID.
func newError(c *fiber.Ctx, status int, code string, message string) error {
	reqID, _ := c.Locals("requestid").(string)
	return c.Status(status).JSON(APIError{
		Status:    status,
		Code:      code,
		Message:   message,
		RequestID: reqID,
	})
}

// errBadRequest returns a 400 error.
func errBadRequest(c *fiber.Ctx, msg string) error {
	return newError(c, 400, "bad_request", msg)
}

// errInternal returns a 500 error.
func errInternal(c *fiber.Ctx, msg string) error {
	return newError(c, 500, "internal_error", msg)
}

// errServiceUnavailable returns a 503 error.
func errServiceUnavailable(c *fiber.Ctx, msg string) error {
	return newError(c, 503, "service_unavailable", msg)
}

// errFromDomain maps use case errors to API errors. Bad input is the
// caller's fault; an empty reference dataset is ours.
func errFromDomain(c *fiber.Ctx, err error) error {
	var (
		invalidCoord  *domain.InvalidCoordinateError
		invalidRadius *domain.InvalidRadiusError
		empty         *domain.EmptyInputError
	)
	switch {
	case errors.As(err, &invalidCoord), errors.As(err, &invalidRadius):
		return errBadRequest(c, err.Error())
	case errors.As(err, &empty):
		return errInternal(c, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return errServiceUnavailable(c, "request timed out")
	default:
		return errInternal(c, err.Error())
	}
}

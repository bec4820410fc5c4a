// Package common holds the response helpers shared by the API handlers.
package common

import (
	"errors"
	"fmt"

	"github.com/amirasaad/debtfree/pkg/domain"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// MIMEProblemJSON is the media type of RFC 9457 problem details.
const MIMEProblemJSON = "application/problem+json"

// Response defines the standard API response structure for success cases.
type Response struct {
	Status  int    `json:"status"`            // HTTP status code
	Message string `json:"message"`           // Human-readable explanation
	Data    any    `json:"data,omitempty"`    // Response data
	Warning string `json:"warning,omitempty"` // Saved locally but not mirrored
}

// ProblemDetails follows RFC 9457 Problem Details for HTTP APIs.
type ProblemDetails struct {
	Type     string `json:"type,omitempty"`     // A URI reference that identifies the problem type
	Title    string `json:"title"`              // Short, human-readable summary
	Status   int    `json:"status"`             // HTTP status code
	Detail   string `json:"detail,omitempty"`   // Human-readable explanation
	Instance string `json:"instance,omitempty"` // URI reference that identifies the specific occurrence
	Errors   any    `json:"errors,omitempty"`   // Optional: additional error details
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// ProblemDetailsJSON writes an RFC 9457 problem response. The status comes
// from err unless an int is passed in extras; a string in extras replaces
// the detail and any other value is reported under errors.
func ProblemDetailsJSON(c *fiber.Ctx, title string, err error, extras ...any) error {
	pd := ProblemDetails{
		Type:     "about:blank",
		Title:    title,
		Status:   ErrorToStatusCode(err),
		Instance: c.OriginalURL(),
	}
	if err != nil {
		pd.Detail = err.Error()
	}
	for _, extra := range extras {
		switch v := extra.(type) {
		case int:
			pd.Status = v
		case string:
			pd.Detail = v
		default:
			pd.Errors = v
		}
	}
	return c.Status(pd.Status).JSON(pd, MIMEProblemJSON)
}

// SuccessResponseJSON writes a successful response.
func SuccessResponseJSON(c *fiber.Ctx, status int, message string, data any) error {
	return c.Status(status).JSON(Response{Status: status, Message: message, Data: data})
}

// WriteResponseJSON writes the result of a mirrored write. A remote error
// still means the change was saved locally, so it becomes a warning.
func WriteResponseJSON(c *fiber.Ctx, status int, message string, data any, remoteErr error) error {
	resp := Response{Status: status, Message: message, Data: data}
	if remoteErr != nil {
		resp.Warning = "saved on this device but not synced: " + remoteErr.Error()
	}
	return c.Status(status).JSON(resp)
}

// IsRemoteOnly reports whether err is a mirror failure that left the local
// write in place.
func IsRemoteOnly(err error) bool {
	return errors.Is(err, domain.ErrRemote)
}

// ErrorToStatusCode maps domain errors to appropriate HTTP status codes.
func ErrorToStatusCode(err error) int {
	var fe *fiber.Error
	switch {
	case err == nil:
		return fiber.StatusInternalServerError
	case errors.As(err, &fe):
		return fe.Code
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrAlreadyExists):
		return fiber.StatusConflict
	case errors.Is(err, domain.ErrValidation):
		return fiber.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidReference):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized
	case errors.Is(err, domain.ErrNotBound):
		return fiber.StatusConflict
	case errors.Is(err, domain.ErrRemoteUnavailable):
		return fiber.StatusServiceUnavailable
	case errors.Is(err, domain.ErrRemote):
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

// BindAndValidate parses the request body and validates it using go-playground/validator.
// Returns a pointer to the struct (populated), or writes an error response and returns nil.
func BindAndValidate[T any](c *fiber.Ctx) (*T, error) {
	var input T
	if err := c.BodyParser(&input); err != nil {
		return nil, ProblemDetailsJSON(c, "Invalid request body", err, fiber.StatusBadRequest)
	}
	if err := validate.Struct(input); err != nil {
		return nil, ProblemDetailsJSON(c, "Validation failed", err, fiber.StatusBadRequest)
	}
	return &input, nil
}

// ParseID reads a uuid path parameter, or writes a 400 and returns false.
func ParseID(c *fiber.Ctx, param string) (uuid.UUID, bool, error) {
	id, err := uuid.Parse(c.Params(param))
	if err != nil {
		return uuid.Nil, false, ProblemDetailsJSON(
			c, "Invalid ID", fmt.Errorf("%s: %w", param, err), fiber.StatusBadRequest,
		)
	}
	return id, true, nil
}

package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"farestore/internal/http/middleware"
	"farestore/internal/service"
)

// Machine-readable error codes returned in the error envelope. Handlers use
// these constants instead of inline strings so the vocabulary stays in one place.
const (
	CodeBadRequest       = "BAD_REQUEST"
	CodeNotFound         = "NOT_FOUND"
	CodeMethodNotAllowed = "METHOD_NOT_ALLOWED"
	CodeRequestTooLarge  = "REQUEST_TOO_LARGE"
	CodeInternalError    = "INTERNAL_ERROR"

	CodeServiceUnavailable = "SERVICE_UNAVAILABLE"

	CodeInvalidID       = "INVALID_ID"
	CodeInvalidKind     = "INVALID_KIND"
	CodeInvalidLimit    = "INVALID_LIMIT"
	CodeInvalidOffset   = "INVALID_OFFSET"
	CodeInvalidExpiry   = "INVALID_EXPIRY"
	CodeInvalidArtifact = "INVALID_ARTIFACT"
	CodeFileRequired    = "FILE_REQUIRED"
	CodeFileOpenError   = "FILE_OPEN_ERROR"
	CodeAlreadyExists   = "ALREADY_EXISTS"
)

// errorPayload defines the standardized error response body.
type errorPayload struct {
	RequestID string        `json:"request_id"`
	Error     errorEnvelope `json:"error"`
}

type errorEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// requestIDFromCtx extracts request_id previously stored by middleware.RequestID.
func requestIDFromCtx(c *fiber.Ctx) string {
	if v := c.Locals(middleware.RequestIDLocalKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// writeError writes a standardized JSON error response without leaking internal errors.
//
// Parameters:
// - status: HTTP status code to return
// - code: machine-readable short error code (one of the Code* constants)
// - message: human-readable safe message (no internal details)
func writeError(c *fiber.Ctx, status int, code, message string) error {
	res := errorPayload{
		RequestID: requestIDFromCtx(c),
		Error: errorEnvelope{
			Code:    code,
			Message: message,
		},
	}
	return c.Status(status).JSON(res)
}

// writeServiceError maps service-layer sentinel errors to the HTTP vocabulary.
// Unknown errors are hidden behind a generic 500.
func writeServiceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return writeError(c, fiber.StatusNotFound, CodeNotFound, "artifact not found")
	case errors.Is(err, service.ErrAlreadyExists):
		return writeError(c, fiber.StatusConflict, CodeAlreadyExists, "artifact already exists at this storage path")
	case errors.Is(err, service.ErrNameRequired), errors.Is(err, service.ErrModelIdentity), errors.Is(err, service.ErrIDRequired):
		return writeError(c, fiber.StatusBadRequest, CodeInvalidArtifact, err.Error())
	default:
		return writeError(c, fiber.StatusInternalServerError, CodeInternalError, "internal server error")
	}
}

// ErrorHandler returns a Fiber global error handler that standardizes error responses.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		if e, ok := err.(*fiber.Error); ok {
			status = e.Code
		}

		switch status {
		case fiber.StatusBadRequest:
			return writeError(c, status, CodeBadRequest, "bad request")
		case fiber.StatusNotFound:
			return writeError(c, status, CodeNotFound, "resource not found")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, status, CodeMethodNotAllowed, "method not allowed")
		case fiber.StatusRequestEntityTooLarge:
			return writeError(c, status, CodeRequestTooLarge, "request body exceeds the configured limit")
		default:
			return writeError(c, status, CodeInternalError, "internal server error")
		}
	}
}

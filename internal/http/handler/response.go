package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"vendocs/internal/http/middleware"
	"vendocs/internal/service"
)

// envelope is the uniform response body. Every endpoint wraps its payload in
// it so clients can branch on success without inspecting the status code.
type envelope struct {
	Success   bool   `json:"success"`
	Data      any    `json:"data,omitempty"`
	Message   string `json:"message,omitempty"`
	Error     string `json:"error,omitempty"`
	RequestID string `json:"request_id"`
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

func respond(c *fiber.Ctx, status int, data any) error {
	return c.Status(status).JSON(envelope{
		Success:   true,
		Data:      data,
		RequestID: requestIDFromCtx(c),
	})
}

func respondMessage(c *fiber.Ctx, status int, data any, message string) error {
	return c.Status(status).JSON(envelope{
		Success:   true,
		Data:      data,
		Message:   message,
		RequestID: requestIDFromCtx(c),
	})
}

// writeError writes a failure envelope without leaking internal details.
func writeError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(envelope{
		Success:   false,
		Error:     message,
		RequestID: requestIDFromCtx(c),
	})
}

// respondServiceError translates the service error taxonomy into HTTP status
// codes. Anything unrecognized is an internal error and its details stay out
// of the response body.
func respondServiceError(c *fiber.Ctx, err error) error {
	var (
		notFound   *service.NotFoundError
		validation *service.ValidationError
		authz      *service.AuthorizationError
		conflict   *service.ConflictError
		storage    *service.StorageError
	)
	switch {
	case errors.As(err, &notFound):
		return writeError(c, fiber.StatusNotFound, notFound.Error())
	case errors.As(err, &validation):
		return writeError(c, fiber.StatusBadRequest, validation.Error())
	case errors.As(err, &authz):
		return writeError(c, fiber.StatusForbidden, authz.Error())
	case errors.As(err, &conflict):
		return writeError(c, fiber.StatusConflict, conflict.Error())
	case errors.As(err, &storage):
		return writeError(c, fiber.StatusInternalServerError, "storage operation failed")
	default:
		return writeError(c, fiber.StatusInternalServerError, "internal server error")
	}
}

// actorFromCtx builds the service-level caller identity from the JWT claims
// stored by the Protect middleware.
func actorFromCtx(c *fiber.Ctx) service.Actor {
	claims := middleware.Claims(c)
	if claims == nil {
		return service.Actor{}
	}
	return service.Actor{ID: claims.UserID, Role: claims.Role}
}

// pageQuery reads limit/offset with the listing defaults.
func pageQuery(c *fiber.Ctx) (limit, offset int) {
	limit = c.QueryInt("limit", 20)
	offset = c.QueryInt("offset", 0)
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

package handler

import (
	"github.com/gofiber/fiber/v2"
)

// ErrorHandler returns a Fiber global error handler that standardizes error
// responses. Errors raised before the handlers run, such as the auth
// middleware rejecting a token, land here and still get the envelope shape.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		message := "internal server error"
		if e, ok := err.(*fiber.Error); ok {
			status = e.Code
			message = e.Message
		}

		switch status {
		case fiber.StatusNotFound:
			return writeError(c, status, "resource not found")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, status, "method not allowed")
		case fiber.StatusInternalServerError:
			return writeError(c, status, "internal server error")
		default:
			return writeError(c, status, message)
		}
	}
}

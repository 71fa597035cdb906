package handler

import (
	"github.com/gofiber/fiber/v2"

	"vendocs/internal/service"
)

// ListNotifications returns the caller's notifications, newest first. The
// unread=true query restricts the list to unread entries.
func ListNotifications(svc service.NotificationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, offset := pageQuery(c)
		unreadOnly := c.QueryBool("unread", false)
		res, err := svc.List(c.UserContext(), actorFromCtx(c), unreadOnly, limit, offset)
		if err != nil {
			return respondServiceError(c, err)
		}
		return respond(c, fiber.StatusOK, res)
	}
}

// MarkNotificationRead flags one of the caller's notifications as read.
func MarkNotificationRead(svc service.NotificationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := svc.MarkRead(c.UserContext(), actorFromCtx(c), c.Params("id")); err != nil {
			return respondServiceError(c, err)
		}
		return respondMessage(c, fiber.StatusOK, nil, "notification read")
	}
}

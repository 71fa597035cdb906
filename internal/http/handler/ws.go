package handler

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"

	"vendocs/internal/auth"
	"vendocs/internal/notify"
)

const wsUserLocalKey = "ws_user_id"

// WebSocketUpgrade authenticates the socket handshake. Browsers cannot set
// headers on WebSocket requests, so the token travels in the query string.
func WebSocketUpgrade(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}
		claims, err := auth.ValidateToken(secret, c.Query("token"))
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid token")
		}
		c.Locals(wsUserLocalKey, claims.UserID)
		return c.Next()
	}
}

// WebSocketFeed registers the connection in the hub and holds it open until
// the client goes away. Pushes happen from the hub; the read loop only drains
// control frames.
func WebSocketFeed(hub *notify.Hub) fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		userID, _ := conn.Locals(wsUserLocalKey).(string)
		if userID == "" {
			conn.Close()
			return
		}

		hub.Register(userID, conn)
		defer hub.Unregister(userID, conn)

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})
}

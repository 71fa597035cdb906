package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"vendocs/internal/service"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login authenticates a user and returns a JWT with the user profile.
//
//	@Summary	Log in with email and password
//	@Tags		auth
//	@Accept		json
//	@Produce	json
//	@Param		credentials	body	loginRequest	true	"login credentials"
//	@Success	200	{object}	envelope{data=service.LoginResult}
//	@Failure	401	{object}	envelope
//	@Router		/api/auth/login [post]
func Login(svc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req loginRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "invalid request body")
		}

		res, err := svc.Login(c.UserContext(), req.Email, req.Password)
		if err != nil {
			var authz *service.AuthorizationError
			if errors.As(err, &authz) {
				// Failed logins report 401, not the 403 the rest of the
				// taxonomy maps AuthorizationError to.
				return writeError(c, fiber.StatusUnauthorized, authz.Error())
			}
			return respondServiceError(c, err)
		}
		return respondMessage(c, fiber.StatusOK, res, "login successful")
	}
}

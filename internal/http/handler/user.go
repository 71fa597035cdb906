package handler

import (
	"github.com/gofiber/fiber/v2"

	"vendocs/internal/model"
	"vendocs/internal/repository"
	"vendocs/internal/service"
)

// ListUsers returns the paginated user directory with optional role and
// search filters. Admin only.
//
//	@Summary	List users
//	@Tags		users
//	@Produce	json
//	@Param		role	query	string	false	"filter by role"
//	@Param		search	query	string	false	"match name, email, or company"
//	@Success	200	{object}	envelope{data=service.UserListResult}
//	@Router		/api/users [get]
//	@Security	BearerAuth
func ListUsers(svc service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, offset := pageQuery(c)
		f := repository.UserFilter{
			Role:   model.Role(c.Query("role")),
			Search: c.Query("search"),
		}
		res, err := svc.List(c.UserContext(), f, limit, offset)
		if err != nil {
			return respondServiceError(c, err)
		}
		return respond(c, fiber.StatusOK, res)
	}
}

// ListVendors returns vendor accounts. Consultants see only the vendors
// assigned to them.
func ListVendors(svc service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, offset := pageQuery(c)
		actor := actorFromCtx(c)
		f := repository.UserFilter{
			Role:   model.RoleVendor,
			Search: c.Query("search"),
		}
		if actor.Role == model.RoleConsultant {
			f.AssignedConsultantID = actor.ID
		}
		res, err := svc.List(c.UserContext(), f, limit, offset)
		if err != nil {
			return respondServiceError(c, err)
		}
		return respond(c, fiber.StatusOK, res)
	}
}

// ListConsultants returns consultant accounts. Admin only.
func ListConsultants(svc service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, offset := pageQuery(c)
		f := repository.UserFilter{
			Role:   model.RoleConsultant,
			Search: c.Query("search"),
		}
		res, err := svc.List(c.UserContext(), f, limit, offset)
		if err != nil {
			return respondServiceError(c, err)
		}
		return respond(c, fiber.StatusOK, res)
	}
}

// GetUser returns one user. Non-admins may only read their own profile.
func GetUser(svc service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		actor := actorFromCtx(c)
		if actor.Role != model.RoleAdmin && actor.ID != id {
			return writeError(c, fiber.StatusForbidden, "insufficient role")
		}
		u, err := svc.Get(c.UserContext(), id)
		if err != nil {
			return respondServiceError(c, err)
		}
		return respond(c, fiber.StatusOK, u)
	}
}

// CreateUser registers a new account. Admin only.
//
//	@Summary	Create a user
//	@Tags		users
//	@Accept		json
//	@Produce	json
//	@Success	201	{object}	envelope{data=model.User}
//	@Router		/api/users [post]
//	@Security	BearerAuth
func CreateUser(svc service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in service.CreateUserInput
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "invalid request body")
		}
		u, err := svc.Create(c.UserContext(), in)
		if err != nil {
			return respondServiceError(c, err)
		}
		return respondMessage(c, fiber.StatusCreated, u, "user created")
	}
}

// UpdateUser rewrites a user's profile fields. Admin only.
func UpdateUser(svc service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in service.UpdateUserInput
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "invalid request body")
		}
		u, err := svc.Update(c.UserContext(), c.Params("id"), in)
		if err != nil {
			return respondServiceError(c, err)
		}
		return respondMessage(c, fiber.StatusOK, u, "user updated")
	}
}

// DeleteUser removes an account. Admin only.
func DeleteUser(svc service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := svc.Delete(c.UserContext(), c.Params("id")); err != nil {
			return respondServiceError(c, err)
		}
		return respondMessage(c, fiber.StatusOK, nil, "user deleted")
	}
}

type assignConsultantRequest struct {
	ConsultantID string `json:"consultant_id"`
}

// AssignConsultant links a vendor to a consultant. Admin only.
func AssignConsultant(svc service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req assignConsultantRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "invalid request body")
		}
		if err := svc.AssignConsultant(c.UserContext(), c.Params("id"), req.ConsultantID); err != nil {
			return respondServiceError(c, err)
		}
		return respondMessage(c, fiber.StatusOK, nil, "consultant assigned")
	}
}

// SetUserActive flips the active flag on an account. Admin only.
func SetUserActive(svc service.UserService, active bool) fiber.Handler {
	message := "user activated"
	if !active {
		message = "user deactivated"
	}
	return func(c *fiber.Ctx) error {
		if err := svc.SetActive(c.UserContext(), c.Params("id"), active); err != nil {
			return respondServiceError(c, err)
		}
		return respondMessage(c, fiber.StatusOK, nil, message)
	}
}

// VendorAnalytics returns the per-vendor compliance rollup. Admin only.
func VendorAnalytics(svc service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res, err := svc.VendorAnalytics(c.UserContext())
		if err != nil {
			return respondServiceError(c, err)
		}
		return respond(c, fiber.StatusOK, res)
	}
}

// ConsultantAnalytics returns per-consultant review throughput. Admin only.
func ConsultantAnalytics(svc service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res, err := svc.ConsultantAnalytics(c.UserContext())
		if err != nil {
			return respondServiceError(c, err)
		}
		return respond(c, fiber.StatusOK, res)
	}
}

// AdminDashboard returns directory totals and the recent activity series.
// Admin only.
func AdminDashboard(svc service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res, err := svc.AdminDashboard(c.UserContext())
		if err != nil {
			return respondServiceError(c, err)
		}
		return respond(c, fiber.StatusOK, res)
	}
}

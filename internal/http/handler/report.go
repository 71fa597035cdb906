package handler

import (
	"github.com/gofiber/fiber/v2"

	"vendocs/internal/service"
)

// AgingReport groups every document by age in days since creation.
//
//	@Summary	Document aging report
//	@Tags		reports
//	@Produce	json
//	@Success	200	{object}	envelope{data=service.AgingReport}
//	@Router		/api/reports/aging-report [get]
//	@Security	BearerAuth
func AgingReport(svc service.ReportService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res, err := svc.Aging(c.UserContext())
		if err != nil {
			return respondServiceError(c, err)
		}
		return respond(c, fiber.StatusOK, res)
	}
}

// DocumentStatusReport builds the filtered status report and optionally saves
// the report definition.
//
//	@Summary	Document status report
//	@Tags		reports
//	@Accept		json
//	@Produce	json
//	@Param		filters	body	service.StatusReportInput	true	"report filters"
//	@Success	200	{object}	envelope{data=service.StatusReport}
//	@Router		/api/reports/document-status [post]
//	@Security	BearerAuth
func DocumentStatusReport(svc service.ReportService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in service.StatusReportInput
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "invalid request body")
		}
		res, err := svc.DocumentStatus(c.UserContext(), actorFromCtx(c), in)
		if err != nil {
			return respondServiceError(c, err)
		}
		return respond(c, fiber.StatusOK, res)
	}
}

// DocumentDashboard returns document totals, status distribution, and the
// 6-month volume series.
func DocumentDashboard(svc service.ReportService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res, err := svc.DocumentDashboard(c.UserContext())
		if err != nil {
			return respondServiceError(c, err)
		}
		return respond(c, fiber.StatusOK, res)
	}
}

// SendReminders notifies every active vendor with documents still awaiting
// action. Admin only.
func SendReminders(svc service.ReportService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res, err := svc.SendReminders(c.UserContext())
		if err != nil {
			return respondServiceError(c, err)
		}
		return respondMessage(c, fiber.StatusOK, res, "reminders dispatched")
	}
}

// ListSavedReports returns saved report definitions visible to the caller.
func ListSavedReports(svc service.ReportService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, offset := pageQuery(c)
		res, err := svc.ListSaved(c.UserContext(), actorFromCtx(c), limit, offset)
		if err != nil {
			return respondServiceError(c, err)
		}
		return respond(c, fiber.StatusOK, res)
	}
}

// GetSavedReport returns one saved report definition.
func GetSavedReport(svc service.ReportService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res, err := svc.GetSaved(c.UserContext(), actorFromCtx(c), c.Params("id"))
		if err != nil {
			return respondServiceError(c, err)
		}
		return respond(c, fiber.StatusOK, res)
	}
}

// DeleteSavedReport removes a saved report definition.
func DeleteSavedReport(svc service.ReportService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := svc.DeleteSaved(c.UserContext(), actorFromCtx(c), c.Params("id")); err != nil {
			return respondServiceError(c, err)
		}
		return respondMessage(c, fiber.StatusOK, nil, "report deleted")
	}
}

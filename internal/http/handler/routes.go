package handler

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"

	"vendocs/internal/http/middleware"
	"vendocs/internal/model"
	"vendocs/internal/notify"
	"vendocs/internal/service"
)

// Services bundles everything the HTTP layer depends on.
type Services struct {
	Auth          service.AuthService
	Users         service.UserService
	Submissions   service.SubmissionService
	Reports       service.ReportService
	Notifications service.NotificationService
}

// RegisterRoutes attaches every route to the provided Fiber app. Handlers stay
// thin; authorization beyond role gating lives in the services.
func RegisterRoutes(app *fiber.App, db *sql.DB, svcs Services, hub *notify.Hub, jwtSecret string) {
	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())

	app.Get("/ws", WebSocketUpgrade(jwtSecret), WebSocketFeed(hub))

	api := app.Group("/api")
	api.Post("/auth/login", Login(svcs.Auth))

	protected := api.Use(middleware.Protect(jwtSecret))

	adminOnly := middleware.Authorize(model.RoleAdmin)
	reviewers := middleware.Authorize(model.RoleConsultant, model.RoleAdmin)

	users := protected.Group("/users")
	users.Get("/vendors", reviewers, ListVendors(svcs.Users))
	users.Get("/consultants", adminOnly, ListConsultants(svcs.Users))
	users.Get("/analytics/vendors", adminOnly, VendorAnalytics(svcs.Users))
	users.Get("/analytics/consultants", adminOnly, ConsultantAnalytics(svcs.Users))
	users.Get("/analytics/dashboard", adminOnly, AdminDashboard(svcs.Users))
	users.Get("/", adminOnly, ListUsers(svcs.Users))
	users.Post("/", adminOnly, CreateUser(svcs.Users))
	users.Post("/vendors/:id/assign-consultant", adminOnly, AssignConsultant(svcs.Users))
	users.Get("/:id", GetUser(svcs.Users))
	users.Put("/:id/activate", adminOnly, SetUserActive(svcs.Users, true))
	users.Put("/:id/deactivate", adminOnly, SetUserActive(svcs.Users, false))
	users.Put("/:id", adminOnly, UpdateUser(svcs.Users))
	users.Delete("/:id", adminOnly, DeleteUser(svcs.Users))

	subs := protected.Group("/submissions")
	subs.Post("/", middleware.Authorize(model.RoleVendor), CreateSubmission(svcs.Submissions))
	subs.Get("/", ListSubmissions(svcs.Submissions))
	subs.Get("/:id", GetSubmission(svcs.Submissions))
	subs.Put("/:id/documents/:docID/start-review", reviewers, StartReviewDocument(svcs.Submissions))
	subs.Put("/:id/documents/:docID/review", reviewers, ReviewDocument(svcs.Submissions))
	subs.Post("/:id/documents/:docID/resubmit", middleware.Authorize(model.RoleVendor), ResubmitDocument(svcs.Submissions))
	subs.Get("/:id/documents/:docID/remarks", DocumentRemarks(svcs.Submissions))
	subs.Get("/:id/documents/:docID/files/:fileID/url", DocumentFileURL(svcs.Submissions))

	reports := protected.Group("/reports")
	reports.Get("/aging-report", reviewers, AgingReport(svcs.Reports))
	reports.Post("/document-status", reviewers, DocumentStatusReport(svcs.Reports))
	reports.Get("/dashboard", reviewers, DocumentDashboard(svcs.Reports))
	reports.Post("/send-reminders", adminOnly, SendReminders(svcs.Reports))
	reports.Get("/", ListSavedReports(svcs.Reports))
	reports.Get("/:id", GetSavedReport(svcs.Reports))
	reports.Delete("/:id", DeleteSavedReport(svcs.Reports))

	notifications := protected.Group("/notifications")
	notifications.Get("/", ListNotifications(svcs.Notifications))
	notifications.Put("/:id/read", MarkNotificationRead(svcs.Notifications))
}

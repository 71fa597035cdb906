package repository

import (
	"context"
	"time"

	"vendocs/internal/model"
)

// UserFilter narrows user listings. Zero values mean "no constraint".
type UserFilter struct {
	Role model.Role
	// Search matches name, email, or company, case-insensitively.
	Search string
	// AssignedConsultantID restricts vendors to those assigned to a consultant.
	AssignedConsultantID string
}

// UserActivityRow is one (day, role) bucket of newly created users.
type UserActivityRow struct {
	Day   time.Time
	Role  model.Role
	Count int
}

// UserRepository defines data access for the user directory using SQL queries
// only. No business logic here, strictly persistence operations.
type UserRepository interface {
	// Create inserts a new user record and returns the stored row.
	Create(ctx context.Context, u *model.User) (*model.User, error)

	// FindByID returns a user by its ID.
	FindByID(ctx context.Context, id string) (*model.User, error)

	// FindByEmail returns a user by its unique email.
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	// List returns a paginated, filtered list of users and the total count.
	List(ctx context.Context, f UserFilter, pq PageQuery) (*PageResult[model.User], error)

	// Update rewrites the mutable profile fields of a user.
	Update(ctx context.Context, u *model.User) (*model.User, error)

	// Delete removes a user by ID. Returns nil if the row did not exist.
	Delete(ctx context.Context, id string) error

	// AssignConsultant sets a vendor's assigned consultant.
	AssignConsultant(ctx context.Context, vendorID, consultantID string) error

	// SetActive toggles the is_active flag.
	SetActive(ctx context.Context, id string, active bool) error

	// CountByRole returns user totals per role.
	CountByRole(ctx context.Context) (map[model.Role]int, error)

	// CountActive returns the number of active users.
	CountActive(ctx context.Context) (int, error)

	// CountPendingLoginApprovals returns vendors awaiting login approval.
	CountPendingLoginApprovals(ctx context.Context) (int, error)

	// CountVendorsByConsultant returns assigned-vendor totals per consultant.
	CountVendorsByConsultant(ctx context.Context) (map[string]int, error)

	// NewUsersByDay returns per-day, per-role counts of users created at or
	// after since, ordered by day.
	NewUsersByDay(ctx context.Context, since time.Time) ([]UserActivityRow, error)
}

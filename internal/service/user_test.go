package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"vendocs/internal/model"
	"vendocs/internal/repository"
	repomocks "vendocs/internal/repository/mocks"
)

func TestPercentage(t *testing.T) {
	assert.Equal(t, 0, percentage(0, 0))
	assert.Equal(t, 0, percentage(5, 0))
	assert.Equal(t, 75, percentage(3, 4))
	assert.Equal(t, 100, percentage(4, 4))
	assert.Equal(t, 33, percentage(1, 3))
	assert.Equal(t, 67, percentage(2, 3))
}

func TestVendorRollup(t *testing.T) {
	t.Run("no documents", func(t *testing.T) {
		a := vendorRollup(nil)
		assert.Equal(t, 0, a.TotalDocuments)
		assert.Equal(t, 0, a.ComplianceRate)
	})

	t.Run("mixed statuses", func(t *testing.T) {
		now := time.Now().UTC()
		rows := []repository.DocumentRow{
			{Status: model.DocumentApproved, UpdatedAt: now},
			{Status: model.DocumentApproved, UpdatedAt: now.Add(-time.Hour)},
			{Status: model.DocumentApproved, UpdatedAt: now.Add(-2 * time.Hour)},
			{Status: model.DocumentRejected, UpdatedAt: now.Add(-3 * time.Hour)},
		}

		a := vendorRollup(rows)

		assert.Equal(t, 4, a.TotalDocuments)
		assert.Equal(t, 3, a.ApprovedDocuments)
		assert.Equal(t, 1, a.RejectedDocuments)
		assert.Equal(t, 75, a.ComplianceRate)
		assert.Equal(t, now, a.LastActivity)
	})
}

func TestConsultantRollup(t *testing.T) {
	submitted := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	reviewedFast := submitted.Add(10 * time.Hour)
	reviewedSlow := submitted.Add(30 * time.Hour)

	rows := []repository.DocumentRow{
		{Status: model.DocumentApproved, SubmittedAt: submitted, ReviewedAt: &reviewedFast},
		{Status: model.DocumentRejected, SubmittedAt: submitted, ReviewedAt: &reviewedSlow},
		// Still open, excluded from throughput and response time.
		{Status: model.DocumentPending, SubmittedAt: submitted},
	}

	m := consultantRollup(rows)

	assert.Equal(t, 2, m.ProcessedDocuments)
	assert.Equal(t, 1, m.ApprovedDocuments)
	assert.Equal(t, 1, m.RejectedDocuments)
	assert.Equal(t, 50, m.ApprovalRate)
	assert.Equal(t, 20, m.AvgResponseHours)
}

func TestUserService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects duplicate email", func(t *testing.T) {
		users := new(repomocks.MockUserRepository)
		svc := NewUserService(users, new(repomocks.MockSubmissionRepository))

		users.On("FindByEmail", ctx, "taken@example.com").
			Return(&model.User{ID: "existing"}, nil)

		_, err := svc.Create(ctx, CreateUserInput{
			Name: "New User", Email: "taken@example.com", Password: "pw", Role: model.RoleVendor,
		})

		var verr *ValidationError
		assert.ErrorAs(t, err, &verr)
		users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("rejects invalid role", func(t *testing.T) {
		svc := NewUserService(new(repomocks.MockUserRepository), new(repomocks.MockSubmissionRepository))

		_, err := svc.Create(ctx, CreateUserInput{
			Name: "New User", Email: "new@example.com", Password: "pw", Role: "superuser",
		})

		var verr *ValidationError
		assert.ErrorAs(t, err, &verr)
	})

	t.Run("hashes password and activates account", func(t *testing.T) {
		users := new(repomocks.MockUserRepository)
		svc := NewUserService(users, new(repomocks.MockSubmissionRepository))

		users.On("FindByEmail", ctx, "new@example.com").Return(nil, sql.ErrNoRows)
		users.On("Create", ctx, mock.MatchedBy(func(u *model.User) bool {
			return u.Email == "new@example.com" &&
				u.PasswordHash != "" && u.PasswordHash != "pw" &&
				u.IsActive
		})).Return(&model.User{ID: "user-1"}, nil)

		u, err := svc.Create(ctx, CreateUserInput{
			Name: "New User", Email: " New@Example.com ", Password: "pw", Role: model.RoleVendor,
		})

		assert.NoError(t, err)
		assert.Equal(t, "user-1", u.ID)
	})
}

func TestUserService_AssignConsultant(t *testing.T) {
	ctx := context.Background()

	t.Run("target must be a consultant", func(t *testing.T) {
		users := new(repomocks.MockUserRepository)
		svc := NewUserService(users, new(repomocks.MockSubmissionRepository))

		users.On("FindByID", ctx, "vendor-1").
			Return(&model.User{ID: "vendor-1", Role: model.RoleVendor}, nil)
		users.On("FindByID", ctx, "admin-1").
			Return(&model.User{ID: "admin-1", Role: model.RoleAdmin}, nil)

		err := svc.AssignConsultant(ctx, "vendor-1", "admin-1")

		var verr *ValidationError
		assert.ErrorAs(t, err, &verr)
		users.AssertNotCalled(t, "AssignConsultant", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("links vendor to consultant", func(t *testing.T) {
		users := new(repomocks.MockUserRepository)
		svc := NewUserService(users, new(repomocks.MockSubmissionRepository))

		users.On("FindByID", ctx, "vendor-1").
			Return(&model.User{ID: "vendor-1", Role: model.RoleVendor}, nil)
		users.On("FindByID", ctx, "consultant-1").
			Return(&model.User{ID: "consultant-1", Role: model.RoleConsultant}, nil)
		users.On("AssignConsultant", ctx, "vendor-1", "consultant-1").Return(nil)

		assert.NoError(t, svc.AssignConsultant(ctx, "vendor-1", "consultant-1"))
		users.AssertExpectations(t)
	})
}

func TestUserService_AdminDashboard(t *testing.T) {
	ctx := context.Background()

	users := new(repomocks.MockUserRepository)
	subs := new(repomocks.MockSubmissionRepository)
	svc := &userService{
		users:       users,
		submissions: subs,
		now:         func() time.Time { return time.Date(2025, 6, 10, 15, 0, 0, 0, time.UTC) },
	}

	since := time.Date(2025, 6, 4, 0, 0, 0, 0, time.UTC)
	users.On("CountByRole", ctx).Return(map[model.Role]int{
		model.RoleVendor: 12, model.RoleConsultant: 3, model.RoleAdmin: 1,
	}, nil)
	users.On("CountActive", ctx).Return(14, nil)
	users.On("CountPendingLoginApprovals", ctx).Return(2, nil)
	users.On("NewUsersByDay", ctx, since).Return([]repository.UserActivityRow{
		{Day: since, Role: model.RoleVendor, Count: 2},
		{Day: since.AddDate(0, 0, 3), Role: model.RoleConsultant, Count: 1},
	}, nil)
	subs.On("ListDocumentRows", ctx, repository.DocumentRowFilter{}).Return([]repository.DocumentRow{
		{Status: model.DocumentApproved, CreatedAt: time.Date(2025, 5, 2, 0, 0, 0, 0, time.UTC)},
		{Status: model.DocumentPending, CreatedAt: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)},
	}, nil)

	d, err := svc.AdminDashboard(ctx)

	assert.NoError(t, err)
	assert.Equal(t, 16, d.TotalUsers)
	assert.Equal(t, 14, d.ActiveUsers)
	assert.Equal(t, 2, d.PendingLoginApprovals)

	// Seven points, zero-filled, in order.
	assert.Len(t, d.RecentActivity, 7)
	assert.Equal(t, "2025-06-04", d.RecentActivity[0].Date)
	assert.Equal(t, 2, d.RecentActivity[0].Vendors)
	assert.Equal(t, "2025-06-07", d.RecentActivity[3].Date)
	assert.Equal(t, 1, d.RecentActivity[3].Consultants)
	assert.Equal(t, "2025-06-10", d.RecentActivity[6].Date)
	assert.Equal(t, 0, d.RecentActivity[6].Vendors)

	// Document figures ride on the same payload.
	assert.Equal(t, 2, d.TotalDocuments)
	assert.Equal(t, map[string]int{"approved": 1, "pending": 1}, d.DocumentsByStatus)
	assert.Equal(t, 50, d.ComplianceRate)
	assert.Len(t, d.MonthlyVolume, 6)
	assert.Equal(t, "2025-05", d.MonthlyVolume[4].Month)
	assert.Equal(t, 1, d.MonthlyVolume[4].Count)

	// The wire payload carries every dashboard section.
	raw, err := json.Marshal(d)
	assert.NoError(t, err)
	var keys map[string]json.RawMessage
	assert.NoError(t, json.Unmarshal(raw, &keys))
	for _, key := range []string{
		"total_users", "active_users", "users_by_role", "recent_activity",
		"total_documents", "by_status", "compliance_rate", "monthly_volume",
	} {
		assert.Contains(t, keys, key)
	}
}

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"vendocs/internal/model"
	"vendocs/internal/repository"
	"vendocs/internal/service"
)

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (*service.LoginResult, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.LoginResult), args.Error(1)
}

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Create(ctx context.Context, in service.CreateUserInput) (*model.User, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserService) Get(ctx context.Context, id string) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserService) List(ctx context.Context, f repository.UserFilter, limit, offset int) (*service.UserListResult, error) {
	args := m.Called(ctx, f, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.UserListResult), args.Error(1)
}

func (m *MockUserService) Update(ctx context.Context, id string, in service.UpdateUserInput) (*model.User, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserService) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserService) AssignConsultant(ctx context.Context, vendorID, consultantID string) error {
	args := m.Called(ctx, vendorID, consultantID)
	return args.Error(0)
}

func (m *MockUserService) SetActive(ctx context.Context, id string, active bool) error {
	args := m.Called(ctx, id, active)
	return args.Error(0)
}

func (m *MockUserService) VendorAnalytics(ctx context.Context) ([]service.VendorWithAnalytics, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]service.VendorWithAnalytics), args.Error(1)
}

func (m *MockUserService) ConsultantAnalytics(ctx context.Context) ([]service.ConsultantWithMetrics, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]service.ConsultantWithMetrics), args.Error(1)
}

func (m *MockUserService) AdminDashboard(ctx context.Context) (*service.Dashboard, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Dashboard), args.Error(1)
}

type MockSubmissionService struct {
	mock.Mock
}

func (m *MockSubmissionService) Create(ctx context.Context, actor service.Actor, in service.CreateSubmissionInput) (*model.Submission, error) {
	args := m.Called(ctx, actor, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Submission), args.Error(1)
}

func (m *MockSubmissionService) Get(ctx context.Context, actor service.Actor, id string) (*model.Submission, error) {
	args := m.Called(ctx, actor, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Submission), args.Error(1)
}

func (m *MockSubmissionService) List(ctx context.Context, actor service.Actor, period string, limit, offset int) (*service.SubmissionListResult, error) {
	args := m.Called(ctx, actor, period, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SubmissionListResult), args.Error(1)
}

func (m *MockSubmissionService) StartReview(ctx context.Context, actor service.Actor, submissionID, documentID string) (*service.ReviewResult, error) {
	args := m.Called(ctx, actor, submissionID, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ReviewResult), args.Error(1)
}

func (m *MockSubmissionService) Review(ctx context.Context, actor service.Actor, submissionID, documentID string, in service.ReviewInput) (*service.ReviewResult, error) {
	args := m.Called(ctx, actor, submissionID, documentID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ReviewResult), args.Error(1)
}

func (m *MockSubmissionService) Resubmit(ctx context.Context, actor service.Actor, submissionID, documentID string, file service.FileUpload) (*service.ReviewResult, error) {
	args := m.Called(ctx, actor, submissionID, documentID, file)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ReviewResult), args.Error(1)
}

func (m *MockSubmissionService) Remarks(ctx context.Context, actor service.Actor, submissionID, documentID string) ([]model.Remark, error) {
	args := m.Called(ctx, actor, submissionID, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Remark), args.Error(1)
}

func (m *MockSubmissionService) FileURL(ctx context.Context, actor service.Actor, submissionID, documentID, fileID string) (string, error) {
	args := m.Called(ctx, actor, submissionID, documentID, fileID)
	return args.String(0), args.Error(1)
}

type MockReportService struct {
	mock.Mock
}

func (m *MockReportService) Aging(ctx context.Context) (*service.AgingReport, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.AgingReport), args.Error(1)
}

func (m *MockReportService) DocumentStatus(ctx context.Context, actor service.Actor, in service.StatusReportInput) (*service.StatusReport, error) {
	args := m.Called(ctx, actor, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.StatusReport), args.Error(1)
}

func (m *MockReportService) DocumentDashboard(ctx context.Context) (*service.DocumentAnalytics, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.DocumentAnalytics), args.Error(1)
}

func (m *MockReportService) SendReminders(ctx context.Context) (*service.ReminderResult, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ReminderResult), args.Error(1)
}

func (m *MockReportService) ListSaved(ctx context.Context, actor service.Actor, limit, offset int) (*service.ReportListResult, error) {
	args := m.Called(ctx, actor, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ReportListResult), args.Error(1)
}

func (m *MockReportService) GetSaved(ctx context.Context, actor service.Actor, id string) (*model.Report, error) {
	args := m.Called(ctx, actor, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Report), args.Error(1)
}

func (m *MockReportService) DeleteSaved(ctx context.Context, actor service.Actor, id string) error {
	args := m.Called(ctx, actor, id)
	return args.Error(0)
}

type MockNotificationService struct {
	mock.Mock
}

func (m *MockNotificationService) List(ctx context.Context, actor service.Actor, unreadOnly bool, limit, offset int) (*service.NotificationListResult, error) {
	args := m.Called(ctx, actor, unreadOnly, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.NotificationListResult), args.Error(1)
}

func (m *MockNotificationService) MarkRead(ctx context.Context, actor service.Actor, id string) error {
	args := m.Called(ctx, actor, id)
	return args.Error(0)
}

package service

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"vendocs/internal/auth"
	"vendocs/internal/model"
	"vendocs/internal/repository"
)

// CreateUserInput carries the fields accepted when an admin creates a user.
type CreateUserInput struct {
	Name     string     `json:"name"`
	Email    string     `json:"email"`
	Password string     `json:"password"`
	Role     model.Role `json:"role"`
	Company  string     `json:"company"`
	Phone    string     `json:"phone"`
	Address  string     `json:"address"`
}

// UpdateUserInput carries the mutable profile fields.
type UpdateUserInput struct {
	Name    string     `json:"name"`
	Email   string     `json:"email"`
	Role    model.Role `json:"role"`
	Company string     `json:"company"`
	Phone   string     `json:"phone"`
	Address string     `json:"address"`
}

// UserListResult is the service-level DTO for paginated users.
type UserListResult struct {
	Items []model.User `json:"data"`
	Total int          `json:"total"`
}

// VendorWithAnalytics pairs a vendor with its compliance rollup.
type VendorWithAnalytics struct {
	User      model.User            `json:"user"`
	Analytics model.VendorAnalytics `json:"analytics"`
}

// ConsultantWithMetrics pairs a consultant with its review throughput.
type ConsultantWithMetrics struct {
	User    model.User              `json:"user"`
	Metrics model.ConsultantMetrics `json:"metrics"`
}

// ActivityPoint is one day of the new-user series, zero-filled.
type ActivityPoint struct {
	Date        string `json:"date"`
	Vendors     int    `json:"vendors"`
	Consultants int    `json:"consultants"`
	Admins      int    `json:"admins"`
}

// Dashboard is the admin overview rollup: directory totals, the recent user
// activity series, and the document-side figures in one payload.
type Dashboard struct {
	TotalUsers            int             `json:"total_users"`
	ActiveUsers           int             `json:"active_users"`
	UsersByRole           map[string]int  `json:"users_by_role"`
	PendingLoginApprovals int             `json:"pending_login_approvals"`
	RecentActivity        []ActivityPoint `json:"recent_activity"`
	TotalDocuments        int             `json:"total_documents"`
	DocumentsByStatus     map[string]int  `json:"by_status"`
	ComplianceRate        int             `json:"compliance_rate"`
	MonthlyVolume         []VolumePoint   `json:"monthly_volume"`
}

// UserService defines the user directory use cases.
type UserService interface {
	Create(ctx context.Context, in CreateUserInput) (*model.User, error)
	Get(ctx context.Context, id string) (*model.User, error)
	List(ctx context.Context, f repository.UserFilter, limit, offset int) (*UserListResult, error)
	Update(ctx context.Context, id string, in UpdateUserInput) (*model.User, error)
	Delete(ctx context.Context, id string) error

	// AssignConsultant links a vendor to a consultant. Both sides' roles are
	// verified before the link is written.
	AssignConsultant(ctx context.Context, vendorID, consultantID string) error
	SetActive(ctx context.Context, id string, active bool) error

	// VendorAnalytics returns every vendor with its compliance rollup.
	VendorAnalytics(ctx context.Context) ([]VendorWithAnalytics, error)
	// ConsultantAnalytics returns every consultant with review throughput.
	ConsultantAnalytics(ctx context.Context) ([]ConsultantWithMetrics, error)
	// AdminDashboard returns directory totals, a 7-day zero-filled
	// new-user series, and the document totals, status distribution,
	// and 6-month volume series.
	AdminDashboard(ctx context.Context) (*Dashboard, error)
}

type userService struct {
	users       repository.UserRepository
	submissions repository.SubmissionRepository
	now         func() time.Time
}

// NewUserService constructs a UserService.
func NewUserService(users repository.UserRepository, submissions repository.SubmissionRepository) UserService {
	return &userService{users: users, submissions: submissions, now: func() time.Time { return time.Now().UTC() }}
}

func (s *userService) Create(ctx context.Context, in CreateUserInput) (*model.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if in.Name == "" || in.Email == "" || in.Password == "" {
		return nil, &ValidationError{Msg: "name, email, and password are required"}
	}
	if !in.Role.Valid() {
		return nil, &ValidationError{Msg: "invalid role"}
	}

	if existing, err := s.users.FindByEmail(ctx, in.Email); err == nil && existing != nil {
		return nil, &ValidationError{Msg: "email already registered"}
	} else if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	now := s.now()
	return s.users.Create(ctx, &model.User{
		ID:           uuid.NewString(),
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         in.Role,
		Company:      in.Company,
		Phone:        in.Phone,
		Address:      in.Address,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
}

func (s *userService) Get(ctx context.Context, id string) (*model.User, error) {
	if id == "" {
		return nil, &ValidationError{Msg: "id is required"}
	}
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &NotFoundError{Entity: "user", ID: id}
		}
		return nil, err
	}
	return u, nil
}

func (s *userService) List(ctx context.Context, f repository.UserFilter, limit, offset int) (*UserListResult, error) {
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}
	res, err := s.users.List(ctx, f, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	return &UserListResult{Items: res.Items, Total: res.Total}, nil
}

func (s *userService) Update(ctx context.Context, id string, in UpdateUserInput) (*model.User, error) {
	u, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Role != "" && !in.Role.Valid() {
		return nil, &ValidationError{Msg: "invalid role"}
	}

	if in.Name != "" {
		u.Name = strings.TrimSpace(in.Name)
	}
	if in.Email != "" {
		u.Email = strings.ToLower(strings.TrimSpace(in.Email))
	}
	if in.Role != "" {
		u.Role = in.Role
	}
	if in.Company != "" {
		u.Company = in.Company
	}
	if in.Phone != "" {
		u.Phone = in.Phone
	}
	if in.Address != "" {
		u.Address = in.Address
	}
	return s.users.Update(ctx, u)
}

func (s *userService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.users.Delete(ctx, id)
}

func (s *userService) AssignConsultant(ctx context.Context, vendorID, consultantID string) error {
	vendor, err := s.Get(ctx, vendorID)
	if err != nil {
		return err
	}
	if vendor.Role != model.RoleVendor {
		return &ValidationError{Msg: "user is not a vendor"}
	}

	consultant, err := s.Get(ctx, consultantID)
	if err != nil {
		return err
	}
	if consultant.Role != model.RoleConsultant {
		return &ValidationError{Msg: "user is not a consultant"}
	}

	return s.users.AssignConsultant(ctx, vendorID, consultantID)
}

func (s *userService) SetActive(ctx context.Context, id string, active bool) error {
	err := s.users.SetActive(ctx, id, active)
	if errors.Is(err, sql.ErrNoRows) {
		return &NotFoundError{Entity: "user", ID: id}
	}
	return err
}

func (s *userService) VendorAnalytics(ctx context.Context) ([]VendorWithAnalytics, error) {
	vendors, err := s.users.List(ctx,
		repository.UserFilter{Role: model.RoleVendor},
		repository.PageQuery{Limit: 1000, Offset: 0},
	)
	if err != nil {
		return nil, err
	}

	rows, err := s.submissions.ListDocumentRows(ctx, repository.DocumentRowFilter{})
	if err != nil {
		return nil, err
	}
	byVendor := make(map[string][]repository.DocumentRow)
	for _, r := range rows {
		byVendor[r.VendorID] = append(byVendor[r.VendorID], r)
	}

	out := make([]VendorWithAnalytics, 0, len(vendors.Items))
	for _, v := range vendors.Items {
		out = append(out, VendorWithAnalytics{
			User:      v,
			Analytics: vendorRollup(byVendor[v.ID]),
		})
	}
	return out, nil
}

func vendorRollup(rows []repository.DocumentRow) model.VendorAnalytics {
	a := model.VendorAnalytics{TotalDocuments: len(rows)}
	for _, r := range rows {
		switch r.Status {
		case model.DocumentApproved:
			a.ApprovedDocuments++
		case model.DocumentRejected, model.DocumentResubmitted:
			a.RejectedDocuments++
		default:
			a.PendingDocuments++
		}
		if r.UpdatedAt.After(a.LastActivity) {
			a.LastActivity = r.UpdatedAt
		}
	}
	a.ComplianceRate = percentage(a.ApprovedDocuments, a.TotalDocuments)
	return a
}

func (s *userService) ConsultantAnalytics(ctx context.Context) ([]ConsultantWithMetrics, error) {
	consultants, err := s.users.List(ctx,
		repository.UserFilter{Role: model.RoleConsultant},
		repository.PageQuery{Limit: 1000, Offset: 0},
	)
	if err != nil {
		return nil, err
	}

	assigned, err := s.users.CountVendorsByConsultant(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := s.submissions.ListDocumentRows(ctx, repository.DocumentRowFilter{})
	if err != nil {
		return nil, err
	}
	byReviewer := make(map[string][]repository.DocumentRow)
	for _, r := range rows {
		if r.ReviewerID != "" {
			byReviewer[r.ReviewerID] = append(byReviewer[r.ReviewerID], r)
		}
	}

	out := make([]ConsultantWithMetrics, 0, len(consultants.Items))
	for _, c := range consultants.Items {
		m := consultantRollup(byReviewer[c.ID])
		m.AssignedVendors = assigned[c.ID]
		out = append(out, ConsultantWithMetrics{User: c, Metrics: m})
	}
	return out, nil
}

func consultantRollup(rows []repository.DocumentRow) model.ConsultantMetrics {
	var m model.ConsultantMetrics
	var totalHours float64
	var reviewed int
	for _, r := range rows {
		switch r.Status {
		case model.DocumentApproved:
			m.ApprovedDocuments++
		case model.DocumentRejected:
			m.RejectedDocuments++
		default:
			continue
		}
		m.ProcessedDocuments++
		if r.ReviewedAt != nil {
			totalHours += r.ReviewedAt.Sub(r.SubmittedAt).Hours()
			reviewed++
		}
	}
	m.ApprovalRate = percentage(m.ApprovedDocuments, m.ProcessedDocuments)
	if reviewed > 0 {
		m.AvgResponseHours = int(math.Round(totalHours / float64(reviewed)))
	}
	return m
}

func (s *userService) AdminDashboard(ctx context.Context) (*Dashboard, error) {
	byRole, err := s.users.CountByRole(ctx)
	if err != nil {
		return nil, err
	}
	active, err := s.users.CountActive(ctx)
	if err != nil {
		return nil, err
	}
	pending, err := s.users.CountPendingLoginApprovals(ctx)
	if err != nil {
		return nil, err
	}

	today := s.now().Truncate(24 * time.Hour)
	since := today.AddDate(0, 0, -6)
	activity, err := s.users.NewUsersByDay(ctx, since)
	if err != nil {
		return nil, err
	}

	rows, err := s.submissions.ListDocumentRows(ctx, repository.DocumentRowFilter{})
	if err != nil {
		return nil, err
	}
	docs := documentRollup(rows, s.now())

	// Zero-fill all seven days so the series always has the same shape.
	points := make([]ActivityPoint, 7)
	index := make(map[string]*ActivityPoint, 7)
	for i := range points {
		day := since.AddDate(0, 0, i).Format("2006-01-02")
		points[i].Date = day
		index[day] = &points[i]
	}
	for _, row := range activity {
		p, ok := index[row.Day.Format("2006-01-02")]
		if !ok {
			continue
		}
		switch row.Role {
		case model.RoleVendor:
			p.Vendors += row.Count
		case model.RoleConsultant:
			p.Consultants += row.Count
		case model.RoleAdmin:
			p.Admins += row.Count
		}
	}

	total := 0
	usersByRole := make(map[string]int, len(byRole))
	for role, n := range byRole {
		total += n
		usersByRole[string(role)] = n
	}

	return &Dashboard{
		TotalUsers:            total,
		ActiveUsers:           active,
		UsersByRole:           usersByRole,
		PendingLoginApprovals: pending,
		RecentActivity:        points,
		TotalDocuments:        docs.TotalDocuments,
		DocumentsByStatus:     docs.ByStatus,
		ComplianceRate:        docs.ComplianceRate,
		MonthlyVolume:         docs.MonthlyVolume,
	}, nil
}

// percentage returns round(part/total*100), 0 when total is 0.
func percentage(part, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(total) * 100))
}

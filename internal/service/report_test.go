package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"vendocs/internal/model"
	notifymocks "vendocs/internal/notify/mocks"
	"vendocs/internal/repository"
	repomocks "vendocs/internal/repository/mocks"
)

type reportFixture struct {
	subs     *repomocks.MockSubmissionRepository
	users    *repomocks.MockUserRepository
	reports  *repomocks.MockReportRepository
	notifier *notifymocks.MockNotifier
	svc      *reportService
}

func newReportFixture(now time.Time) *reportFixture {
	f := &reportFixture{
		subs:     new(repomocks.MockSubmissionRepository),
		users:    new(repomocks.MockUserRepository),
		reports:  new(repomocks.MockReportRepository),
		notifier: new(notifymocks.MockNotifier),
	}
	f.svc = &reportService{
		submissions: f.subs,
		users:       f.users,
		reports:     f.reports,
		notifier:    f.notifier,
		now:         func() time.Time { return now },
	}
	return f
}

func TestBucketFor(t *testing.T) {
	cases := []struct {
		age  int
		want string
	}{
		{0, AgingUnder7},
		{6, AgingUnder7},
		{7, Aging7To14},
		{14, Aging7To14},
		{15, Aging15To30},
		{30, Aging15To30},
		{31, AgingOver30},
		{365, AgingOver30},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, bucketFor(c.age), "age %d", c.age)
	}
}

func TestReportService_Aging(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)
	f := newReportFixture(now)

	daysAgo := func(d int) time.Time { return now.AddDate(0, 0, -d) }
	rows := []repository.DocumentRow{
		{DocumentID: "d1", VendorID: "v1", VendorName: "Alpha", Status: model.DocumentPending, CreatedAt: daysAgo(2)},
		{DocumentID: "d2", VendorID: "v1", VendorName: "Alpha", Status: model.DocumentApproved, CreatedAt: daysAgo(10)},
		{DocumentID: "d3", VendorID: "v2", VendorName: "Beta", Status: model.DocumentRejected, CreatedAt: daysAgo(20)},
		{DocumentID: "d4", VendorID: "v2", VendorName: "Beta", Status: model.DocumentUnderReview, CreatedAt: daysAgo(45)},
		{DocumentID: "d5", VendorID: "v1", VendorName: "Alpha", Status: model.DocumentResubmitted, CreatedAt: daysAgo(14)},
	}
	f.subs.On("ListDocumentRows", ctx, repository.DocumentRowFilter{}).Return(rows, nil)

	report, err := f.svc.Aging(ctx)

	assert.NoError(t, err)
	assert.Equal(t, 5, report.TotalDocuments)
	assert.Len(t, report.Buckets, 4)

	// Bucket counts partition the documents exactly.
	sum := 0
	for _, b := range report.Buckets {
		sum += b.Counts.Total
	}
	assert.Equal(t, report.TotalDocuments, sum)

	assert.Equal(t, 1, report.Buckets[0].Counts.Total)       // <7: d1
	assert.Equal(t, 2, report.Buckets[1].Counts.Total)       // 7-14: d2, d5
	assert.Equal(t, 1, report.Buckets[2].Counts.Total)       // 15-30: d3
	assert.Equal(t, 1, report.Buckets[3].Counts.Total)       // >30: d4
	assert.Equal(t, 1, report.Buckets[1].Counts.Approved)
	assert.Equal(t, 1, report.Buckets[1].Counts.Resubmitted)
	assert.Equal(t, 1, report.ByStatus["pending"])
	assert.Equal(t, 1, report.ByStatus["rejected"])

	// Vendor tallies inside a bucket.
	assert.Len(t, report.Buckets[1].Vendors, 1)
	assert.Equal(t, "Alpha", report.Buckets[1].Vendors[0].Name)
	assert.Equal(t, 2, report.Buckets[1].Vendors[0].Counts.Total)
}

func TestReportService_Aging_Empty(t *testing.T) {
	ctx := context.Background()
	f := newReportFixture(time.Now().UTC())
	f.subs.On("ListDocumentRows", ctx, repository.DocumentRowFilter{}).
		Return([]repository.DocumentRow{}, nil)

	report, err := f.svc.Aging(ctx)

	assert.NoError(t, err)
	assert.Equal(t, 0, report.TotalDocuments)
	assert.Len(t, report.Buckets, 4)
	for _, b := range report.Buckets {
		assert.Equal(t, 0, b.Counts.Total)
		assert.Empty(t, b.Vendors)
	}
}

func TestReportService_DocumentStatus(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)
	admin := Actor{ID: "admin-1", Role: model.RoleAdmin}

	t.Run("summaries from matched rows", func(t *testing.T) {
		f := newReportFixture(now)
		rows := []repository.DocumentRow{
			{DocumentID: "d1", VendorID: "v1", VendorName: "Alpha", DocumentType: "tax", Status: model.DocumentApproved},
			{DocumentID: "d2", VendorID: "v1", VendorName: "Alpha", DocumentType: "license", Status: model.DocumentPending},
			{DocumentID: "d3", VendorID: "v2", VendorName: "Beta", DocumentType: "tax", Status: model.DocumentApproved},
		}
		f.subs.On("ListDocumentRows", ctx, mock.MatchedBy(func(filter repository.DocumentRowFilter) bool {
			return len(filter.Statuses) == 0 && len(filter.VendorIDs) == 0
		})).Return(rows, nil)

		report, err := f.svc.DocumentStatus(ctx, admin, StatusReportInput{})

		assert.NoError(t, err)
		assert.Equal(t, 3, report.Summary.TotalDocuments)
		assert.Equal(t, 2, report.Summary.ByStatus["approved"])
		assert.Equal(t, 2, report.Summary.ByType["tax"])
		assert.Len(t, report.Summary.ByVendor, 2)
		assert.Equal(t, "Alpha", report.Summary.ByVendor[0].Name)
		assert.Equal(t, 2, report.Summary.ByVendor[0].Counts.Total)
		assert.Empty(t, report.ReportID)
	})

	t.Run("status filters are normalized", func(t *testing.T) {
		f := newReportFixture(now)
		f.subs.On("ListDocumentRows", ctx, mock.MatchedBy(func(filter repository.DocumentRowFilter) bool {
			return len(filter.Statuses) == 1 && filter.Statuses[0] == model.DocumentApproved
		})).Return([]repository.DocumentRow{}, nil)

		_, err := f.svc.DocumentStatus(ctx, admin, StatusReportInput{Statuses: []string{"ACCEPTED"}})
		assert.NoError(t, err)
		f.subs.AssertExpectations(t)
	})

	t.Run("unknown status filter rejected", func(t *testing.T) {
		f := newReportFixture(now)

		_, err := f.svc.DocumentStatus(ctx, admin, StatusReportInput{Statuses: []string{"weird"}})

		var verr *ValidationError
		assert.ErrorAs(t, err, &verr)
	})

	t.Run("saves report definition when asked", func(t *testing.T) {
		f := newReportFixture(now)
		f.subs.On("ListDocumentRows", ctx, mock.Anything).Return([]repository.DocumentRow{}, nil)
		f.reports.On("Create", ctx, mock.MatchedBy(func(r *model.Report) bool {
			return r.Type == "document_status" && r.CreatedBy == "admin-1" && r.Name == "Monthly sweep"
		})).Return(&model.Report{ID: "rep-1"}, nil)

		report, err := f.svc.DocumentStatus(ctx, admin, StatusReportInput{
			SaveReport: true,
			ReportName: "Monthly sweep",
		})

		assert.NoError(t, err)
		assert.Equal(t, "rep-1", report.ReportID)
	})

	t.Run("zero documents give zero-valued summaries", func(t *testing.T) {
		f := newReportFixture(now)
		f.subs.On("ListDocumentRows", ctx, mock.Anything).Return([]repository.DocumentRow{}, nil)

		report, err := f.svc.DocumentStatus(ctx, admin, StatusReportInput{})

		assert.NoError(t, err)
		assert.Equal(t, 0, report.Summary.TotalDocuments)
		assert.Empty(t, report.Summary.ByVendor)
		assert.Empty(t, report.Documents)
	})
}

func TestReportService_DocumentDashboard(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 7, 15, 12, 0, 0, 0, time.UTC)
	f := newReportFixture(now)

	rows := []repository.DocumentRow{
		{Status: model.DocumentApproved, CreatedAt: time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)},
		{Status: model.DocumentApproved, CreatedAt: time.Date(2025, 5, 20, 0, 0, 0, 0, time.UTC)},
		{Status: model.DocumentApproved, CreatedAt: time.Date(2025, 5, 2, 0, 0, 0, 0, time.UTC)},
		{Status: model.DocumentRejected, CreatedAt: time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC)},
		// Older than the window, still counted in totals.
		{Status: model.DocumentPending, CreatedAt: time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC)},
	}
	f.subs.On("ListDocumentRows", ctx, repository.DocumentRowFilter{}).Return(rows, nil)

	a, err := f.svc.DocumentDashboard(ctx)

	assert.NoError(t, err)
	assert.Equal(t, 5, a.TotalDocuments)
	assert.Equal(t, 60, a.ComplianceRate)

	// Six months ending at the current one, zero months included.
	assert.Len(t, a.MonthlyVolume, 6)
	assert.Equal(t, "2025-02", a.MonthlyVolume[0].Month)
	assert.Equal(t, 1, a.MonthlyVolume[0].Count)
	assert.Equal(t, "2025-03", a.MonthlyVolume[1].Month)
	assert.Equal(t, 0, a.MonthlyVolume[1].Count)
	assert.Equal(t, "2025-05", a.MonthlyVolume[3].Month)
	assert.Equal(t, 2, a.MonthlyVolume[3].Count)
	assert.Equal(t, "2025-07", a.MonthlyVolume[5].Month)
	assert.Equal(t, 1, a.MonthlyVolume[5].Count)
}

func TestReportService_SendReminders(t *testing.T) {
	ctx := context.Background()
	f := newReportFixture(time.Now().UTC())

	f.users.On("List", ctx, repository.UserFilter{Role: model.RoleVendor}, mock.Anything).
		Return(&repository.PageResult[model.User]{Items: []model.User{
			{ID: "v1", IsActive: true},
			{ID: "v2", IsActive: true},
			{ID: "v3", IsActive: false},
		}, Total: 3}, nil)
	f.subs.On("ListDocumentRows", ctx, mock.MatchedBy(func(filter repository.DocumentRowFilter) bool {
		return len(filter.Statuses) == 3
	})).Return([]repository.DocumentRow{
		{VendorID: "v1", Status: model.DocumentPending},
		{VendorID: "v1", Status: model.DocumentRejected},
		{VendorID: "v3", Status: model.DocumentPending},
	}, nil)
	f.notifier.On("Reminder", ctx, "v1", mock.MatchedBy(func(msg string) bool {
		return msg != ""
	})).Once()

	res, err := f.svc.SendReminders(ctx)

	assert.NoError(t, err)
	assert.Equal(t, 3, res.TotalVendors)
	assert.Equal(t, 1, res.RemindersSent)
	assert.Equal(t, 2, res.Skipped)
	f.notifier.AssertExpectations(t)
}

func TestReportService_SavedReports(t *testing.T) {
	ctx := context.Background()
	admin := Actor{ID: "admin-1", Role: model.RoleAdmin}
	owner := Actor{ID: "user-1", Role: model.RoleConsultant}
	stranger := Actor{ID: "user-2", Role: model.RoleConsultant}

	t.Run("private report hidden from non-owners", func(t *testing.T) {
		f := newReportFixture(time.Now().UTC())
		f.reports.On("FindByID", ctx, "rep-1").
			Return(&model.Report{ID: "rep-1", CreatedBy: "user-1", IsPublic: false}, nil)

		_, err := f.svc.GetSaved(ctx, stranger, "rep-1")
		var aerr *AuthorizationError
		assert.ErrorAs(t, err, &aerr)

		r, err := f.svc.GetSaved(ctx, owner, "rep-1")
		assert.NoError(t, err)
		assert.Equal(t, "rep-1", r.ID)

		_, err = f.svc.GetSaved(ctx, admin, "rep-1")
		assert.NoError(t, err)
	})

	t.Run("delete restricted to owner or admin", func(t *testing.T) {
		f := newReportFixture(time.Now().UTC())
		f.reports.On("FindByID", ctx, "rep-1").
			Return(&model.Report{ID: "rep-1", CreatedBy: "user-1"}, nil)
		f.reports.On("Delete", ctx, "rep-1").Return(nil)

		err := f.svc.DeleteSaved(ctx, stranger, "rep-1")
		var aerr *AuthorizationError
		assert.ErrorAs(t, err, &aerr)

		assert.NoError(t, f.svc.DeleteSaved(ctx, owner, "rep-1"))
	})

	t.Run("non-admin listings scoped to requester", func(t *testing.T) {
		f := newReportFixture(time.Now().UTC())
		f.reports.On("List", ctx, repository.ReportFilter{RequesterID: "user-1"},
			repository.PageQuery{Limit: 10, Offset: 0}).
			Return(&repository.PageResult[model.Report]{Items: []model.Report{}, Total: 0}, nil)

		_, err := f.svc.ListSaved(ctx, owner, 0, 0)
		assert.NoError(t, err)
		f.reports.AssertExpectations(t)
	})
}

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"vendocs/internal/model"
	"vendocs/internal/notify"
	"vendocs/internal/repository"
	"vendocs/internal/status"
)

// Aging bucket identifiers, by document age in whole days since creation.
// The buckets partition all documents: every age lands in exactly one.
const (
	AgingUnder7 = "less_than_7_days"  // age < 7
	Aging7To14  = "7_to_14_days"      // 7 <= age <= 14
	Aging15To30 = "15_to_30_days"     // 15 <= age <= 30
	AgingOver30 = "more_than_30_days" // age > 30
)

// agingBuckets is the fixed report ordering.
var agingBuckets = []string{AgingUnder7, Aging7To14, Aging15To30, AgingOver30}

// StatusCounts is a per-status document tally.
type StatusCounts struct {
	Pending     int `json:"pending"`
	UnderReview int `json:"under_review"`
	Approved    int `json:"approved"`
	Rejected    int `json:"rejected"`
	Resubmitted int `json:"resubmitted"`
	Total       int `json:"total"`
}

func (c *StatusCounts) add(s model.DocumentStatus) {
	switch s {
	case model.DocumentPending:
		c.Pending++
	case model.DocumentUnderReview:
		c.UnderReview++
	case model.DocumentApproved:
		c.Approved++
	case model.DocumentRejected:
		c.Rejected++
	case model.DocumentResubmitted:
		c.Resubmitted++
	}
	c.Total++
}

// VendorAgingEntry is one vendor's tally inside an aging bucket.
type VendorAgingEntry struct {
	VendorID string       `json:"vendor_id"`
	Name     string       `json:"name"`
	Company  string       `json:"company"`
	Email    string       `json:"email"`
	Counts   StatusCounts `json:"counts"`
}

// AgingBucketSummary is one bucket of the aging report.
type AgingBucketSummary struct {
	Bucket  string             `json:"bucket"`
	Counts  StatusCounts       `json:"counts"`
	Vendors []VendorAgingEntry `json:"vendors"`
}

// AgingReport groups all documents by age since creation.
type AgingReport struct {
	GeneratedAt    time.Time            `json:"generated_at"`
	TotalDocuments int                  `json:"total_documents"`
	ByStatus       map[string]int       `json:"by_status"`
	Buckets        []AgingBucketSummary `json:"buckets"`
}

// StatusReportInput holds the composable filters of the document status
// report, plus optional persistence of the report definition.
type StatusReportInput struct {
	StartDate     *time.Time `json:"start_date"`
	EndDate       *time.Time `json:"end_date"`
	Vendors       []string   `json:"vendors"`
	DocumentTypes []string   `json:"document_types"`
	Statuses      []string   `json:"statuses"`

	SaveReport  bool   `json:"save_report"`
	ReportName  string `json:"report_name"`
	Description string `json:"description"`
	IsPublic    bool   `json:"is_public"`
}

// VendorStatusSummary is one vendor's tally in the status report.
type VendorStatusSummary struct {
	VendorID string       `json:"vendor_id"`
	Name     string       `json:"name"`
	Company  string       `json:"company"`
	Email    string       `json:"email"`
	Counts   StatusCounts `json:"counts"`
}

// StatusReport is the filtered document status report.
type StatusReport struct {
	GeneratedAt time.Time                `json:"generated_at"`
	Summary     StatusReportSummary      `json:"summary"`
	Documents   []repository.DocumentRow `json:"documents"`
	ReportID    string                   `json:"report_id,omitempty"`
}

// StatusReportSummary aggregates the matched documents.
type StatusReportSummary struct {
	TotalDocuments int                   `json:"total_documents"`
	ByStatus       map[string]int        `json:"by_status"`
	ByType         map[string]int        `json:"by_type"`
	ByVendor       []VendorStatusSummary `json:"by_vendor"`
}

// VolumePoint is one month of the submission volume series, zero-filled.
type VolumePoint struct {
	Month string `json:"month"`
	Count int    `json:"count"`
}

// DocumentAnalytics is the document-side dashboard rollup.
type DocumentAnalytics struct {
	TotalDocuments int            `json:"total_documents"`
	ByStatus       map[string]int `json:"by_status"`
	ComplianceRate int            `json:"compliance_rate"`
	// MonthlyVolume covers the last six months including the current one,
	// with zero months present.
	MonthlyVolume []VolumePoint `json:"monthly_volume"`
}

// ReminderResult summarizes an admin reminder sweep.
type ReminderResult struct {
	TotalVendors  int `json:"total_vendors"`
	RemindersSent int `json:"reminders_sent"`
	Skipped       int `json:"skipped"`
}

// ReportListResult is the service-level DTO for paginated saved reports.
type ReportListResult struct {
	Items []model.Report `json:"data"`
	Total int            `json:"total"`
}

// ReportService defines the reporting and aggregation use cases. All report
// generation is read-only against the store.
type ReportService interface {
	// Aging groups every document by age in days since creation.
	Aging(ctx context.Context) (*AgingReport, error)

	// DocumentStatus builds the filtered status report, optionally saving
	// the report definition for later retrieval.
	DocumentStatus(ctx context.Context, actor Actor, in StatusReportInput) (*StatusReport, error)

	// DocumentDashboard returns document totals, status distribution, and
	// the 6-month volume series.
	DocumentDashboard(ctx context.Context) (*DocumentAnalytics, error)

	// SendReminders notifies every active vendor that has documents still
	// awaiting action (pending, under review, or rejected).
	SendReminders(ctx context.Context) (*ReminderResult, error)

	// Saved report definitions.
	ListSaved(ctx context.Context, actor Actor, limit, offset int) (*ReportListResult, error)
	GetSaved(ctx context.Context, actor Actor, id string) (*model.Report, error)
	DeleteSaved(ctx context.Context, actor Actor, id string) error
}

type reportService struct {
	submissions repository.SubmissionRepository
	users       repository.UserRepository
	reports     repository.ReportRepository
	notifier    notify.Notifier
	now         func() time.Time
}

// NewReportService constructs a ReportService.
func NewReportService(
	submissions repository.SubmissionRepository,
	users repository.UserRepository,
	reports repository.ReportRepository,
	notifier notify.Notifier,
) ReportService {
	return &reportService{
		submissions: submissions,
		users:       users,
		reports:     reports,
		notifier:    notifier,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// bucketFor places an age in days into its aging bucket.
func bucketFor(ageDays int) string {
	switch {
	case ageDays < 7:
		return AgingUnder7
	case ageDays <= 14:
		return Aging7To14
	case ageDays <= 30:
		return Aging15To30
	default:
		return AgingOver30
	}
}

func (s *reportService) Aging(ctx context.Context) (*AgingReport, error) {
	rows, err := s.submissions.ListDocumentRows(ctx, repository.DocumentRowFilter{})
	if err != nil {
		return nil, err
	}

	now := s.now()
	report := &AgingReport{
		GeneratedAt:    now,
		TotalDocuments: len(rows),
		ByStatus:       make(map[string]int),
	}

	counts := make(map[string]*StatusCounts, len(agingBuckets))
	vendors := make(map[string]map[string]*VendorAgingEntry, len(agingBuckets))
	for _, b := range agingBuckets {
		counts[b] = &StatusCounts{}
		vendors[b] = make(map[string]*VendorAgingEntry)
	}

	for _, row := range rows {
		report.ByStatus[string(row.Status)]++

		age := int(now.Sub(row.CreatedAt).Hours() / 24)
		bucket := bucketFor(age)
		counts[bucket].add(row.Status)

		entry, ok := vendors[bucket][row.VendorID]
		if !ok {
			entry = &VendorAgingEntry{
				VendorID: row.VendorID,
				Name:     row.VendorName,
				Company:  row.VendorCompany,
				Email:    row.VendorEmail,
			}
			vendors[bucket][row.VendorID] = entry
		}
		entry.Counts.add(row.Status)
	}

	for _, b := range agingBuckets {
		entries := make([]VendorAgingEntry, 0, len(vendors[b]))
		for _, e := range vendors[b] {
			entries = append(entries, *e)
		}
		sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
		report.Buckets = append(report.Buckets, AgingBucketSummary{
			Bucket:  b,
			Counts:  *counts[b],
			Vendors: entries,
		})
	}
	return report, nil
}

func (s *reportService) DocumentStatus(ctx context.Context, actor Actor, in StatusReportInput) (*StatusReport, error) {
	filter := repository.DocumentRowFilter{
		From:          in.StartDate,
		To:            in.EndDate,
		VendorIDs:     in.Vendors,
		DocumentTypes: in.DocumentTypes,
	}
	for _, raw := range in.Statuses {
		st, ok := status.NormalizeObserved(raw)
		if !ok {
			return nil, &ValidationError{Msg: fmt.Sprintf("unknown status filter %q", raw)}
		}
		filter.Statuses = append(filter.Statuses, st)
	}

	rows, err := s.submissions.ListDocumentRows(ctx, filter)
	if err != nil {
		return nil, err
	}

	summary := StatusReportSummary{
		TotalDocuments: len(rows),
		ByStatus:       make(map[string]int),
		ByType:         make(map[string]int),
	}
	byVendor := make(map[string]*VendorStatusSummary)
	for _, row := range rows {
		summary.ByStatus[string(row.Status)]++
		summary.ByType[row.DocumentType]++

		v, ok := byVendor[row.VendorID]
		if !ok {
			v = &VendorStatusSummary{
				VendorID: row.VendorID,
				Name:     row.VendorName,
				Company:  row.VendorCompany,
				Email:    row.VendorEmail,
			}
			byVendor[row.VendorID] = v
		}
		v.Counts.add(row.Status)
	}
	for _, v := range byVendor {
		summary.ByVendor = append(summary.ByVendor, *v)
	}
	sort.Slice(summary.ByVendor, func(i, j int) bool {
		return summary.ByVendor[i].Name < summary.ByVendor[j].Name
	})

	report := &StatusReport{
		GeneratedAt: s.now(),
		Summary:     summary,
		Documents:   rows,
	}

	if in.SaveReport {
		name := in.ReportName
		if name == "" {
			name = "Document Status Report - " + report.GeneratedAt.Format("2006-01-02")
		}
		description := in.Description
		if description == "" {
			description = "Generated document status report"
		}
		saved, err := s.reports.Create(ctx, &model.Report{
			ID:          uuid.NewString(),
			Name:        name,
			Description: description,
			Type:        "document_status",
			Parameters:  statusFilterParams(in),
			Filters:     statusFilterParams(in),
			CreatedBy:   actor.ID,
			IsPublic:    in.IsPublic,
			CreatedAt:   report.GeneratedAt,
		})
		if err != nil {
			return nil, err
		}
		report.ReportID = saved.ID
	}
	return report, nil
}

func statusFilterParams(in StatusReportInput) map[string]any {
	p := make(map[string]any)
	if in.StartDate != nil {
		p["start_date"] = in.StartDate.Format(time.RFC3339)
	}
	if in.EndDate != nil {
		p["end_date"] = in.EndDate.Format(time.RFC3339)
	}
	if len(in.Vendors) > 0 {
		p["vendors"] = in.Vendors
	}
	if len(in.DocumentTypes) > 0 {
		p["document_types"] = in.DocumentTypes
	}
	if len(in.Statuses) > 0 {
		p["statuses"] = in.Statuses
	}
	return p
}

func (s *reportService) DocumentDashboard(ctx context.Context) (*DocumentAnalytics, error) {
	rows, err := s.submissions.ListDocumentRows(ctx, repository.DocumentRowFilter{})
	if err != nil {
		return nil, err
	}
	return documentRollup(rows, s.now()), nil
}

// documentRollup aggregates flat document rows into totals, the status
// distribution, the compliance rate, and the zero-filled 6-month volume
// series. The admin dashboard reuses it so both surfaces report identical
// figures.
func documentRollup(rows []repository.DocumentRow, now time.Time) *DocumentAnalytics {
	analytics := &DocumentAnalytics{
		TotalDocuments: len(rows),
		ByStatus:       make(map[string]int),
	}

	firstMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -5, 0)
	volume := make(map[string]int, 6)
	analytics.MonthlyVolume = make([]VolumePoint, 6)
	for i := 0; i < 6; i++ {
		month := firstMonth.AddDate(0, i, 0).Format("2006-01")
		analytics.MonthlyVolume[i] = VolumePoint{Month: month}
		volume[month] = i
	}

	approved := 0
	for _, row := range rows {
		analytics.ByStatus[string(row.Status)]++
		if row.Status == model.DocumentApproved {
			approved++
		}
		if i, ok := volume[row.CreatedAt.Format("2006-01")]; ok {
			analytics.MonthlyVolume[i].Count++
		}
	}
	analytics.ComplianceRate = percentage(approved, len(rows))
	return analytics
}

func (s *reportService) SendReminders(ctx context.Context) (*ReminderResult, error) {
	vendors, err := s.users.List(ctx,
		repository.UserFilter{Role: model.RoleVendor},
		repository.PageQuery{Limit: 1000, Offset: 0},
	)
	if err != nil {
		return nil, err
	}

	rows, err := s.submissions.ListDocumentRows(ctx, repository.DocumentRowFilter{
		Statuses: []model.DocumentStatus{
			model.DocumentPending,
			model.DocumentUnderReview,
			model.DocumentRejected,
		},
	})
	if err != nil {
		return nil, err
	}
	openByVendor := make(map[string]int)
	for _, row := range rows {
		openByVendor[row.VendorID]++
	}

	result := &ReminderResult{TotalVendors: len(vendors.Items)}
	for _, v := range vendors.Items {
		open := openByVendor[v.ID]
		if !v.IsActive || open == 0 {
			result.Skipped++
			continue
		}
		s.notifier.Reminder(ctx, v.ID,
			fmt.Sprintf("You have %d pending document(s) that require your attention", open))
		result.RemindersSent++
	}
	return result, nil
}

func (s *reportService) ListSaved(ctx context.Context, actor Actor, limit, offset int) (*ReportListResult, error) {
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	f := repository.ReportFilter{}
	if actor.Role != model.RoleAdmin {
		f.RequesterID = actor.ID
	}
	res, err := s.reports.List(ctx, f, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	return &ReportListResult{Items: res.Items, Total: res.Total}, nil
}

func (s *reportService) GetSaved(ctx context.Context, actor Actor, id string) (*model.Report, error) {
	r, err := s.findReport(ctx, id)
	if err != nil {
		return nil, err
	}
	if !r.IsPublic && r.CreatedBy != actor.ID && actor.Role != model.RoleAdmin {
		return nil, &AuthorizationError{Msg: "report is private"}
	}
	return r, nil
}

func (s *reportService) DeleteSaved(ctx context.Context, actor Actor, id string) error {
	r, err := s.findReport(ctx, id)
	if err != nil {
		return err
	}
	if r.CreatedBy != actor.ID && actor.Role != model.RoleAdmin {
		return &AuthorizationError{Msg: "only the creator or an admin can delete a report"}
	}
	return s.reports.Delete(ctx, id)
}

func (s *reportService) findReport(ctx context.Context, id string) (*model.Report, error) {
	if id == "" {
		return nil, &ValidationError{Msg: "report id is required"}
	}
	r, err := s.reports.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &NotFoundError{Entity: "report", ID: id}
		}
		return nil, err
	}
	return r, nil
}

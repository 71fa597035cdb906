package repository

import (
	"context"

	"vendocs/internal/model"
)

// ReportFilter narrows saved-report listings. When RequesterID is set, only
// public reports and reports created by that user are returned (admin callers
// leave it empty).
type ReportFilter struct {
	Type        string
	CreatedBy   string
	RequesterID string
}

// ReportRepository persists saved report definitions.
type ReportRepository interface {
	// Create inserts a report definition and returns the stored row.
	Create(ctx context.Context, r *model.Report) (*model.Report, error)

	// FindByID returns a report by its ID.
	FindByID(ctx context.Context, id string) (*model.Report, error)

	// List returns paginated report definitions, newest first.
	List(ctx context.Context, f ReportFilter, pq PageQuery) (*PageResult[model.Report], error)

	// Delete removes a report by ID. Returns nil if the row did not exist.
	Delete(ctx context.Context, id string) error
}

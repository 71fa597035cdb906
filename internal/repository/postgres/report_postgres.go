package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"vendocs/internal/model"
	"vendocs/internal/repository"
)

// ReportPostgres is a PostgreSQL implementation of repository.ReportRepository.
// Parameters and filters are stored as JSONB.
type ReportPostgres struct {
	db *sql.DB
}

// NewReportPostgres creates a new ReportPostgres repository.
func NewReportPostgres(db *sql.DB) *ReportPostgres {
	return &ReportPostgres{db: db}
}

var _ repository.ReportRepository = (*ReportPostgres)(nil)

const reportColumns = `id, name, description, type, parameters, filters, created_by, is_public, created_at`

func scanReport(row interface{ Scan(...any) error }) (*model.Report, error) {
	var (
		r          model.Report
		parameters []byte
		filters    []byte
	)
	if err := row.Scan(
		&r.ID,
		&r.Name,
		&r.Description,
		&r.Type,
		&parameters,
		&filters,
		&r.CreatedBy,
		&r.IsPublic,
		&r.CreatedAt,
	); err != nil {
		return nil, err
	}
	if len(parameters) > 0 {
		if err := json.Unmarshal(parameters, &r.Parameters); err != nil {
			return nil, err
		}
	}
	if len(filters) > 0 {
		if err := json.Unmarshal(filters, &r.Filters); err != nil {
			return nil, err
		}
	}
	return &r, nil
}

// Create inserts a report definition and returns the stored row.
func (r *ReportPostgres) Create(ctx context.Context, rep *model.Report) (*model.Report, error) {
	parameters, err := json.Marshal(rep.Parameters)
	if err != nil {
		return nil, err
	}
	filters, err := json.Marshal(rep.Filters)
	if err != nil {
		return nil, err
	}

	q := `
		INSERT INTO reports (id, name, description, type, parameters, filters, created_by, is_public, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + reportColumns
	return scanReport(r.db.QueryRowContext(ctx, q,
		rep.ID, rep.Name, rep.Description, rep.Type, parameters, filters,
		rep.CreatedBy, rep.IsPublic, rep.CreatedAt,
	))
}

// FindByID returns a report by its ID.
func (r *ReportPostgres) FindByID(ctx context.Context, id string) (*model.Report, error) {
	q := `SELECT ` + reportColumns + ` FROM reports WHERE id = $1`
	return scanReport(r.db.QueryRowContext(ctx, q, id))
}

// List returns paginated report definitions, newest first.
func (r *ReportPostgres) List(ctx context.Context, f repository.ReportFilter, pq repository.PageQuery) (*repository.PageResult[model.Report], error) {
	var (
		conds []string
		args  []any
	)
	if f.Type != "" {
		args = append(args, f.Type)
		conds = append(conds, fmt.Sprintf("type = $%d", len(args)))
	}
	if f.CreatedBy != "" {
		args = append(args, f.CreatedBy)
		conds = append(conds, fmt.Sprintf("created_by = $%d", len(args)))
	}
	if f.RequesterID != "" {
		args = append(args, f.RequesterID)
		conds = append(conds, fmt.Sprintf("(is_public = TRUE OR created_by = $%d)", len(args)))
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM reports`+where, args...).Scan(&total); err != nil {
		return nil, err
	}

	q := `SELECT ` + reportColumns + ` FROM reports` + where +
		fmt.Sprintf(` ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, pq.Limit, pq.Offset)

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Report, 0)
	for rows.Next() {
		rep, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *rep)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &repository.PageResult[model.Report]{Items: items, Total: total}, nil
}

// Delete removes a report by ID. Missing rows are not an error.
func (r *ReportPostgres) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM reports WHERE id = $1`, id)
	return err
}

package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"vendocs/internal/model"
	"vendocs/internal/repository"
)

// SubmissionPostgres is a PostgreSQL implementation of
// repository.SubmissionRepository. Document mutations and the submission
// status derivation run inside one transaction so readers never observe them
// out of step.
type SubmissionPostgres struct {
	db *sql.DB
}

// NewSubmissionPostgres creates a new SubmissionPostgres repository.
func NewSubmissionPostgres(db *sql.DB) *SubmissionPostgres {
	return &SubmissionPostgres{db: db}
}

var _ repository.SubmissionRepository = (*SubmissionPostgres)(nil)

const documentColumns = `id, submission_id, title, document_type, position, status, review_notes,
	reviewer_id, version, submitted_at, reviewed_at, created_at, updated_at`

func scanDocument(row interface{ Scan(...any) error }) (*model.Document, error) {
	var (
		d          model.Document
		reviewer   sql.NullString
		reviewedAt sql.NullTime
	)
	if err := row.Scan(
		&d.ID,
		&d.SubmissionID,
		&d.Title,
		&d.DocumentType,
		&d.Position,
		&d.Status,
		&d.ReviewNotes,
		&reviewer,
		&d.Version,
		&d.SubmittedAt,
		&reviewedAt,
		&d.CreatedAt,
		&d.UpdatedAt,
	); err != nil {
		return nil, err
	}
	d.ReviewerID = reviewer.String
	if reviewedAt.Valid {
		t := reviewedAt.Time
		d.ReviewedAt = &t
	}
	return &d, nil
}

// Create inserts the submission, its documents, and their files in one
// transaction and returns the stored aggregate.
func (r *SubmissionPostgres) Create(ctx context.Context, s *model.Submission) (*model.Submission, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	const qSub = `
		INSERT INTO submissions (id, vendor_id, period, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	if _, err := tx.ExecContext(ctx, qSub, s.ID, s.VendorID, s.Period, s.Status, s.CreatedAt, s.UpdatedAt); err != nil {
		return nil, err
	}

	const qDoc = `
		INSERT INTO documents (id, submission_id, title, document_type, position, status, review_notes,
			version, submitted_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	const qFile = `
		INSERT INTO document_files (id, document_id, file_name, storage_path, content_type, size, uploaded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	for i := range s.Documents {
		d := &s.Documents[i]
		if _, err := tx.ExecContext(ctx, qDoc,
			d.ID, s.ID, d.Title, d.DocumentType, d.Position, d.Status, d.ReviewNotes,
			d.Version, d.SubmittedAt, d.CreatedAt, d.UpdatedAt,
		); err != nil {
			return nil, err
		}
		for j := range d.Files {
			f := &d.Files[j]
			if _, err := tx.ExecContext(ctx, qFile,
				f.ID, d.ID, f.FileName, f.StoragePath, f.ContentType, f.Size, f.UploadedAt,
			); err != nil {
				return nil, err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return s, nil
}

// FindByID returns a submission with its documents and files populated.
func (r *SubmissionPostgres) FindByID(ctx context.Context, id string) (*model.Submission, error) {
	const q = `
		SELECT id, vendor_id, period, status, created_at, updated_at
		FROM submissions
		WHERE id = $1
	`
	var s model.Submission
	if err := r.db.QueryRowContext(ctx, q, id).Scan(
		&s.ID, &s.VendorID, &s.Period, &s.Status, &s.CreatedAt, &s.UpdatedAt,
	); err != nil {
		return nil, err
	}

	docs, err := r.loadDocuments(ctx, []string{s.ID})
	if err != nil {
		return nil, err
	}
	s.Documents = docs[s.ID]
	if s.Documents == nil {
		s.Documents = make([]model.Document, 0)
	}
	return &s, nil
}

// List returns paginated submissions with documents populated.
func (r *SubmissionPostgres) List(ctx context.Context, f repository.SubmissionFilter, pq repository.PageQuery) (*repository.PageResult[model.Submission], error) {
	where, args := buildSubmissionWhere(f)

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM submissions s`+where, args...).Scan(&total); err != nil {
		return nil, err
	}

	q := `SELECT s.id, s.vendor_id, s.period, s.status, s.created_at, s.updated_at FROM submissions s` + where +
		fmt.Sprintf(` ORDER BY s.created_at DESC, s.id DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, pq.Limit, pq.Offset)

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Submission, 0)
	ids := make([]string, 0)
	for rows.Next() {
		var s model.Submission
		if err := rows.Scan(&s.ID, &s.VendorID, &s.Period, &s.Status, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, s)
		ids = append(ids, s.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(ids) > 0 {
		docs, err := r.loadDocuments(ctx, ids)
		if err != nil {
			return nil, err
		}
		for i := range items {
			items[i].Documents = docs[items[i].ID]
			if items[i].Documents == nil {
				items[i].Documents = make([]model.Document, 0)
			}
		}
	}

	return &repository.PageResult[model.Submission]{Items: items, Total: total}, nil
}

func buildSubmissionWhere(f repository.SubmissionFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if f.VendorID != "" {
		args = append(args, f.VendorID)
		conds = append(conds, fmt.Sprintf("s.vendor_id = $%d", len(args)))
	}
	if f.ConsultantID != "" {
		args = append(args, f.ConsultantID)
		conds = append(conds, fmt.Sprintf(
			"s.vendor_id IN (SELECT id FROM users WHERE assigned_consultant = $%d)", len(args)))
	}
	if f.Period != "" {
		args = append(args, f.Period)
		conds = append(conds, fmt.Sprintf("s.period = $%d", len(args)))
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// loadDocuments fetches documents and files for the given submission IDs,
// preserving upload order.
func (r *SubmissionPostgres) loadDocuments(ctx context.Context, submissionIDs []string) (map[string][]model.Document, error) {
	placeholders := make([]string, len(submissionIDs))
	args := make([]any, len(submissionIDs))
	for i, id := range submissionIDs {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}
	in := strings.Join(placeholders, ", ")

	qDocs := `SELECT ` + documentColumns + ` FROM documents
		WHERE submission_id IN (` + in + `)
		ORDER BY position, id`
	rows, err := r.db.QueryContext(ctx, qDocs, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bySubmission := make(map[string][]model.Document)
	byDoc := make(map[string]*model.Document)
	order := make([]string, 0)
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		d.Files = make([]model.DocumentFile, 0)
		byDoc[d.ID] = d
		order = append(order, d.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(order) > 0 {
		filePlaceholders := make([]string, len(order))
		fileArgs := make([]any, len(order))
		for i, id := range order {
			filePlaceholders[i] = fmt.Sprintf("$%d", i+1)
			fileArgs[i] = id
		}
		qFiles := `SELECT id, document_id, file_name, storage_path, content_type, size, uploaded_at
			FROM document_files
			WHERE document_id IN (` + strings.Join(filePlaceholders, ", ") + `)
			ORDER BY uploaded_at, id`
		fileRows, err := r.db.QueryContext(ctx, qFiles, fileArgs...)
		if err != nil {
			return nil, err
		}
		defer fileRows.Close()

		for fileRows.Next() {
			var f model.DocumentFile
			if err := fileRows.Scan(&f.ID, &f.DocumentID, &f.FileName, &f.StoragePath, &f.ContentType, &f.Size, &f.UploadedAt); err != nil {
				return nil, err
			}
			if d, ok := byDoc[f.DocumentID]; ok {
				d.Files = append(d.Files, f)
			}
		}
		if err := fileRows.Err(); err != nil {
			return nil, err
		}
	}

	for _, id := range order {
		d := byDoc[id]
		bySubmission[d.SubmissionID] = append(bySubmission[d.SubmissionID], *d)
	}
	return bySubmission, nil
}

// FindDocument returns one document with files, scoped to its submission.
func (r *SubmissionPostgres) FindDocument(ctx context.Context, submissionID, documentID string) (*model.Document, error) {
	q := `SELECT ` + documentColumns + ` FROM documents WHERE id = $1 AND submission_id = $2`
	d, err := scanDocument(r.db.QueryRowContext(ctx, q, documentID, submissionID))
	if err != nil {
		return nil, err
	}

	const qFiles = `
		SELECT id, document_id, file_name, storage_path, content_type, size, uploaded_at
		FROM document_files
		WHERE document_id = $1
		ORDER BY uploaded_at, id
	`
	rows, err := r.db.QueryContext(ctx, qFiles, documentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	d.Files = make([]model.DocumentFile, 0)
	for rows.Next() {
		var f model.DocumentFile
		if err := rows.Scan(&f.ID, &f.DocumentID, &f.FileName, &f.StoragePath, &f.ContentType, &f.Size, &f.UploadedAt); err != nil {
			return nil, err
		}
		d.Files = append(d.Files, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return d, nil
}

// ApplyDecision applies a review decision and rederives the submission status
// in one transaction. The document row is locked for the duration so
// concurrent decisions serialize; a stale ExpectedVersion is refused with
// repository.ErrVersionConflict.
func (r *SubmissionPostgres) ApplyDecision(ctx context.Context, p repository.DecisionParams) (*repository.DecisionResult, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	qLock := `SELECT ` + documentColumns + ` FROM documents
		WHERE id = $1 AND submission_id = $2
		FOR UPDATE`
	current, err := scanDocument(tx.QueryRowContext(ctx, qLock, p.DocumentID, p.SubmissionID))
	if err != nil {
		return nil, err
	}
	if p.ExpectedVersion > 0 && current.Version != p.ExpectedVersion {
		return nil, repository.ErrVersionConflict
	}

	qUpdate := `
		UPDATE documents
		SET status = $3, review_notes = $4, reviewer_id = $5, reviewed_at = $6,
			version = version + 1, updated_at = $6
		WHERE id = $1 AND submission_id = $2
		RETURNING ` + documentColumns
	updated, err := scanDocument(tx.QueryRowContext(ctx, qUpdate,
		p.DocumentID, p.SubmissionID, p.Status, p.Remarks, p.ReviewerID, p.DecidedAt,
	))
	if err != nil {
		return nil, err
	}

	const qRemark = `
		INSERT INTO document_remarks (id, document_id, author_id, body, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	if _, err := tx.ExecContext(ctx, qRemark, uuid.NewString(), p.DocumentID, p.ReviewerID, p.Remarks, p.DecidedAt); err != nil {
		return nil, err
	}

	derived, err := rederiveSubmissionStatus(ctx, tx, p.SubmissionID, p.DecidedAt)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &repository.DecisionResult{Document: *updated, SubmissionStatus: derived}, nil
}

// ApplyResubmission attaches a new file version, moves the document to
// resubmitted, and rederives the submission status atomically.
func (r *SubmissionPostgres) ApplyResubmission(ctx context.Context, p repository.ResubmitParams) (*repository.DecisionResult, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	const qFile = `
		INSERT INTO document_files (id, document_id, file_name, storage_path, content_type, size, uploaded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	if _, err := tx.ExecContext(ctx, qFile,
		p.File.ID, p.DocumentID, p.File.FileName, p.File.StoragePath,
		p.File.ContentType, p.File.Size, p.File.UploadedAt,
	); err != nil {
		return nil, err
	}

	qUpdate := `
		UPDATE documents
		SET status = $3, version = version + 1, updated_at = $4
		WHERE id = $1 AND submission_id = $2
		RETURNING ` + documentColumns
	updated, err := scanDocument(tx.QueryRowContext(ctx, qUpdate,
		p.DocumentID, p.SubmissionID, model.DocumentResubmitted, p.ResubmitAt,
	))
	if err != nil {
		return nil, err
	}

	derived, err := rederiveSubmissionStatus(ctx, tx, p.SubmissionID, p.ResubmitAt)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &repository.DecisionResult{Document: *updated, SubmissionStatus: derived}, nil
}

// MarkUnderReview moves the document to under_review, stamps the reviewer,
// and rederives the submission status atomically.
func (r *SubmissionPostgres) MarkUnderReview(ctx context.Context, p repository.StartReviewParams) (*repository.DecisionResult, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	qUpdate := `
		UPDATE documents
		SET status = $3, reviewer_id = $4, updated_at = $5
		WHERE id = $1 AND submission_id = $2
		RETURNING ` + documentColumns
	updated, err := scanDocument(tx.QueryRowContext(ctx, qUpdate,
		p.DocumentID, p.SubmissionID, model.DocumentUnderReview, p.ReviewerID, p.StartedAt,
	))
	if err != nil {
		return nil, err
	}

	derived, err := rederiveSubmissionStatus(ctx, tx, p.SubmissionID, p.StartedAt)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &repository.DecisionResult{Document: *updated, SubmissionStatus: derived}, nil
}

// rederiveSubmissionStatus recomputes the submission status from its
// documents' statuses within the caller's transaction and stores the result.
func rederiveSubmissionStatus(ctx context.Context, tx *sql.Tx, submissionID string, at time.Time) (model.SubmissionStatus, error) {
	rows, err := tx.QueryContext(ctx, `SELECT status FROM documents WHERE submission_id = $1`, submissionID)
	if err != nil {
		return "", err
	}
	defer rows.Close()

	statuses := make([]model.DocumentStatus, 0)
	for rows.Next() {
		var s model.DocumentStatus
		if err := rows.Scan(&s); err != nil {
			return "", err
		}
		statuses = append(statuses, s)
	}
	if err := rows.Err(); err != nil {
		return "", err
	}

	derived := model.DeriveSubmissionStatus(statuses)
	if _, err := tx.ExecContext(ctx,
		`UPDATE submissions SET status = $2, updated_at = $3 WHERE id = $1`,
		submissionID, derived, at,
	); err != nil {
		return "", err
	}
	return derived, nil
}

// ListDocumentRows returns flat reporting rows matching the filter, newest first.
func (r *SubmissionPostgres) ListDocumentRows(ctx context.Context, f repository.DocumentRowFilter) ([]repository.DocumentRow, error) {
	var (
		conds []string
		args  []any
	)
	if f.From != nil {
		args = append(args, *f.From)
		conds = append(conds, fmt.Sprintf("d.created_at >= $%d", len(args)))
	}
	if f.To != nil {
		args = append(args, *f.To)
		conds = append(conds, fmt.Sprintf("d.created_at <= $%d", len(args)))
	}
	if len(f.VendorIDs) > 0 {
		ph := make([]string, len(f.VendorIDs))
		for i, id := range f.VendorIDs {
			args = append(args, id)
			ph[i] = fmt.Sprintf("$%d", len(args))
		}
		conds = append(conds, "s.vendor_id IN ("+strings.Join(ph, ", ")+")")
	}
	if len(f.DocumentTypes) > 0 {
		ph := make([]string, len(f.DocumentTypes))
		for i, t := range f.DocumentTypes {
			args = append(args, t)
			ph[i] = fmt.Sprintf("$%d", len(args))
		}
		conds = append(conds, "d.document_type IN ("+strings.Join(ph, ", ")+")")
	}
	if len(f.Statuses) > 0 {
		ph := make([]string, len(f.Statuses))
		for i, s := range f.Statuses {
			args = append(args, s)
			ph[i] = fmt.Sprintf("$%d", len(args))
		}
		conds = append(conds, "d.status IN ("+strings.Join(ph, ", ")+")")
	}
	if f.ReviewerID != "" {
		args = append(args, f.ReviewerID)
		conds = append(conds, fmt.Sprintf("d.reviewer_id = $%d", len(args)))
	}

	q := `
		SELECT d.id, d.title, d.document_type, d.status, d.submission_id,
			s.vendor_id, u.name, u.company, u.email,
			COALESCE(d.reviewer_id::text, ''),
			d.submitted_at, d.reviewed_at, d.created_at, d.updated_at
		FROM documents d
		JOIN submissions s ON s.id = d.submission_id
		JOIN users u ON u.id = s.vendor_id
	`
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY d.created_at DESC, d.id DESC"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]repository.DocumentRow, 0)
	for rows.Next() {
		var (
			row        repository.DocumentRow
			reviewedAt sql.NullTime
		)
		if err := rows.Scan(
			&row.DocumentID, &row.Title, &row.DocumentType, &row.Status, &row.SubmissionID,
			&row.VendorID, &row.VendorName, &row.VendorCompany, &row.VendorEmail,
			&row.ReviewerID,
			&row.SubmittedAt, &reviewedAt, &row.CreatedAt, &row.UpdatedAt,
		); err != nil {
			return nil, err
		}
		if reviewedAt.Valid {
			t := reviewedAt.Time
			row.ReviewedAt = &t
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// ListRemarks returns a document's remark history, oldest first.
func (r *SubmissionPostgres) ListRemarks(ctx context.Context, documentID string) ([]model.Remark, error) {
	const q = `
		SELECT id, document_id, author_id, body, created_at
		FROM document_remarks
		WHERE document_id = $1
		ORDER BY created_at, id
	`
	rows, err := r.db.QueryContext(ctx, q, documentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Remark, 0)
	for rows.Next() {
		var rem model.Remark
		if err := rows.Scan(&rem.ID, &rem.DocumentID, &rem.AuthorID, &rem.Body, &rem.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, rem)
	}
	return out, rows.Err()
}

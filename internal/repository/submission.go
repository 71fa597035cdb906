package repository

import (
	"context"
	"time"

	"vendocs/internal/model"
)

// SubmissionFilter narrows submission listings. Zero values mean "no
// constraint". ConsultantID scopes to submissions whose vendor is assigned to
// that consultant.
type SubmissionFilter struct {
	VendorID     string
	ConsultantID string
	Period       string
}

// DecisionParams carries one consultant decision on one document.
// ExpectedVersion, when non-zero, makes the update compare-and-set: the
// decision is refused with ErrVersionConflict if the stored version differs.
type DecisionParams struct {
	SubmissionID    string
	DocumentID      string
	ReviewerID      string
	Status          model.DocumentStatus
	Remarks         string
	ExpectedVersion int
	DecidedAt       time.Time
}

// StartReviewParams marks a document as actively under review by a
// consultant.
type StartReviewParams struct {
	SubmissionID string
	DocumentID   string
	ReviewerID   string
	StartedAt    time.Time
}

// ResubmitParams carries a vendor resubmission: a fresh file version for a
// rejected document.
type ResubmitParams struct {
	SubmissionID string
	DocumentID   string
	File         model.DocumentFile
	ResubmitAt   time.Time
}

// DecisionResult is the outcome of a transactional document mutation: the
// updated document and the submission status derived within the same
// transaction.
type DecisionResult struct {
	Document         model.Document
	SubmissionStatus model.SubmissionStatus
}

// DocumentRow is a flat reporting row joining a document with its owning
// submission and vendor. The aggregation engine consumes these; it never
// mutates through them.
type DocumentRow struct {
	DocumentID    string
	Title         string
	DocumentType  string
	Status        model.DocumentStatus
	SubmissionID  string
	VendorID      string
	VendorName    string
	VendorCompany string
	VendorEmail   string
	ReviewerID    string
	SubmittedAt   time.Time
	ReviewedAt    *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// DocumentRowFilter holds the composable AND-semantics filters of the status
// report. Nil/empty fields are not applied.
type DocumentRowFilter struct {
	From          *time.Time
	To            *time.Time
	VendorIDs     []string
	DocumentTypes []string
	Statuses      []model.DocumentStatus
	ReviewerID    string
}

// SubmissionRepository defines data access for submissions and their embedded
// documents, files, and remark history.
type SubmissionRepository interface {
	// Create inserts a submission with its documents and files in one
	// transaction and returns the stored aggregate.
	Create(ctx context.Context, s *model.Submission) (*model.Submission, error)

	// FindByID returns a submission with documents and files populated.
	FindByID(ctx context.Context, id string) (*model.Submission, error)

	// List returns paginated submissions (documents populated) and total.
	List(ctx context.Context, f SubmissionFilter, pq PageQuery) (*PageResult[model.Submission], error)

	// FindDocument returns a single document (with files) scoped to its
	// submission.
	FindDocument(ctx context.Context, submissionID, documentID string) (*model.Document, error)

	// ApplyDecision atomically updates the document's status, remarks,
	// reviewer, and version, appends to the remark log, and rewrites the
	// owning submission's derived status in one transaction, so no reader
	// observes the document and submission out of step.
	ApplyDecision(ctx context.Context, p DecisionParams) (*DecisionResult, error)

	// ApplyResubmission atomically attaches a new file version, moves the
	// document to resubmitted, and rewrites the derived submission status.
	ApplyResubmission(ctx context.Context, p ResubmitParams) (*DecisionResult, error)

	// MarkUnderReview atomically moves a document to under_review, stamps
	// the reviewer, and rewrites the derived submission status.
	MarkUnderReview(ctx context.Context, p StartReviewParams) (*DecisionResult, error)

	// ListDocumentRows returns flat reporting rows matching the filter,
	// newest first. Returns an empty slice (not an error) when nothing
	// matches.
	ListDocumentRows(ctx context.Context, f DocumentRowFilter) ([]DocumentRow, error)

	// ListRemarks returns a document's remark history, oldest first.
	ListRemarks(ctx context.Context, documentID string) ([]model.Remark, error)
}

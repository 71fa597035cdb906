package model

import "time"

// DocumentStatus is the canonical review status of a single document.
// All raw status vocabulary from legacy data is folded into these five values
// by the status package.
type DocumentStatus string

const (
	DocumentPending     DocumentStatus = "pending"
	DocumentUnderReview DocumentStatus = "under_review"
	DocumentApproved    DocumentStatus = "approved"
	DocumentRejected    DocumentStatus = "rejected"
	DocumentResubmitted DocumentStatus = "resubmitted"
)

// Valid reports whether s is one of the five canonical statuses.
func (s DocumentStatus) Valid() bool {
	switch s {
	case DocumentPending, DocumentUnderReview, DocumentApproved,
		DocumentRejected, DocumentResubmitted:
		return true
	}
	return false
}

// Document is one reviewable artifact inside a submission. A document may
// only move to approved or rejected together with non-empty remarks, and a
// document with zero files can never be approved. Version guards concurrent
// review decisions: an applied decision increments it, and a decision carrying
// a stale version is refused.
type Document struct {
	ID           string         `json:"id"`
	SubmissionID string         `json:"submission_id"`
	Title        string         `json:"title"`
	DocumentType string         `json:"document_type"`
	// Position is the zero-based upload order within the submission.
	// Documents of one submission share a creation timestamp, so the
	// timestamp alone cannot reproduce upload order.
	Position int            `json:"position"`
	Status   DocumentStatus `json:"status"`
	ReviewNotes  string         `json:"review_notes,omitempty"`
	ReviewerID   string         `json:"reviewer_id,omitempty"`
	Version      int            `json:"version"`
	Files        []DocumentFile `json:"files"`
	SubmittedAt  time.Time      `json:"submitted_at"`
	ReviewedAt   *time.Time     `json:"reviewed_at,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// DocumentFile references one stored file version of a document. Files are
// ordered by upload time; the newest file is the version under review.
type DocumentFile struct {
	ID          string    `json:"id"`
	DocumentID  string    `json:"document_id"`
	FileName    string    `json:"file_name"`
	StoragePath string    `json:"storage_path"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

// Remark is one entry in a document's append-only review-note history.
// The latest remark is mirrored into Document.ReviewNotes for display.
type Remark struct {
	ID         string    `json:"id"`
	DocumentID string    `json:"document_id"`
	AuthorID   string    `json:"author_id"`
	Body       string    `json:"body"`
	CreatedAt  time.Time `json:"created_at"`
}

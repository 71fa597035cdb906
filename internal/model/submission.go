package model

import "time"

// SubmissionStatus is derived from the statuses of a submission's documents.
// It is recomputed from DeriveSubmissionStatus inside the same transaction as
// any document mutation and is never updated independently.
type SubmissionStatus string

const (
	SubmissionInProgress        SubmissionStatus = "in_progress"
	SubmissionPartiallyApproved SubmissionStatus = "partially_approved"
	SubmissionRejected          SubmissionStatus = "rejected"
	SubmissionFullyApproved     SubmissionStatus = "fully_approved"
)

// Submission is one vendor's grouped document upload for a period.
// Documents keep their upload order. Submissions are never hard-deleted;
// resubmission adds new file versions to the rejected document.
type Submission struct {
	ID        string           `json:"id"`
	VendorID  string           `json:"vendor_id"`
	Period    string           `json:"period"`
	Status    SubmissionStatus `json:"status"`
	Documents []Document       `json:"documents"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// DeriveSubmissionStatus computes the submission-level status from the
// multiset of its documents' statuses. The result depends only on the set of
// statuses, not on document order.
//
// Rules, in order:
//  1. no documents: in_progress
//  2. all approved: fully_approved
//  3. any rejected or resubmitted, and nothing still awaiting review: rejected
//  4. at least one approved among unfinished work: partially_approved
//  5. otherwise: in_progress
func DeriveSubmissionStatus(statuses []DocumentStatus) SubmissionStatus {
	if len(statuses) == 0 {
		return SubmissionInProgress
	}

	var approved, rejected, open int
	for _, s := range statuses {
		switch s {
		case DocumentApproved:
			approved++
		case DocumentRejected, DocumentResubmitted:
			rejected++
		default: // pending, under_review
			open++
		}
	}

	switch {
	case approved == len(statuses):
		return SubmissionFullyApproved
	case rejected > 0 && open == 0:
		return SubmissionRejected
	case approved > 0:
		return SubmissionPartiallyApproved
	default:
		return SubmissionInProgress
	}
}

// Package status folds heterogeneous status vocabulary from legacy data
// sources into the canonical document status enum.
package status

import (
	"strings"

	"vendocs/internal/model"
)

// synonyms maps trimmed, lowercased raw values to their canonical status.
// Canonical values themselves are included so they pass through.
var synonyms = map[string]model.DocumentStatus{
	"":             model.DocumentPending,
	"submitted":    model.DocumentPending,
	"new":          model.DocumentPending,
	"upload":       model.DocumentPending,
	"uploaded":     model.DocumentPending,
	"pending":      model.DocumentPending,
	"review":       model.DocumentUnderReview,
	"in_review":    model.DocumentUnderReview,
	"under_review": model.DocumentUnderReview,
	"approve":      model.DocumentApproved,
	"accept":       model.DocumentApproved,
	"accepted":     model.DocumentApproved,
	"approved":     model.DocumentApproved,
	"reject":       model.DocumentRejected,
	"deny":         model.DocumentRejected,
	"denied":       model.DocumentRejected,
	"rejected":     model.DocumentRejected,
	"resubmit":     model.DocumentResubmitted,
	"re-submit":    model.DocumentResubmitted,
	"resubmission": model.DocumentResubmitted,
	"resubmitted":  model.DocumentResubmitted,
}

// Normalize maps a raw status string to a canonical status. Matching is
// case-insensitive on the trimmed input and always yields a valid status.
//
// The second return value reports whether the input was recognized. Unknown
// non-empty values fall back to pending, but callers are expected to treat
// ok=false as a data-quality signal: Observe it (see Quarantine) rather than
// silently accepting the default.
func Normalize(raw string) (model.DocumentStatus, bool) {
	key := strings.ToLower(strings.TrimSpace(raw))
	if s, found := synonyms[key]; found {
		return s, true
	}
	return model.DocumentPending, false
}

// NormalizeObserved is Normalize plus quarantine accounting: unrecognized
// values increment the unknown-status counter so upstream data problems
// surface in metrics instead of disappearing into the pending default.
func NormalizeObserved(raw string) (model.DocumentStatus, bool) {
	s, ok := Normalize(raw)
	if !ok {
		Quarantine(raw)
	}
	return s, ok
}

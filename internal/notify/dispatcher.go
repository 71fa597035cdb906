package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"vendocs/internal/model"
	"vendocs/internal/repository"
)

// Notifier emits notifications for review-flow events. Each event produces
// exactly one notification row for its recipient; push delivery on top of
// that is best effort.
type Notifier interface {
	// DocumentDecided notifies the vendor that a consultant approved or
	// rejected one of their documents.
	DocumentDecided(ctx context.Context, vendorID string, doc *model.Document)

	// SubmissionCreated notifies the assigned consultant that a vendor
	// submitted new documents. consultantID may be empty when the vendor has
	// no assigned consultant; nothing is emitted then.
	SubmissionCreated(ctx context.Context, consultantID string, s *model.Submission)

	// DocumentResubmitted notifies the assigned consultant that a rejected
	// document carries a fresh file version.
	DocumentResubmitted(ctx context.Context, consultantID string, doc *model.Document)

	// Reminder notifies a vendor about documents still awaiting action.
	Reminder(ctx context.Context, vendorID, message string)
}

// Dispatcher persists notifications and pushes them to connected clients.
type Dispatcher struct {
	repo repository.NotificationRepository
	hub  *Hub
}

// NewDispatcher creates a Dispatcher backed by the given repository and hub.
func NewDispatcher(repo repository.NotificationRepository, hub *Hub) *Dispatcher {
	return &Dispatcher{repo: repo, hub: hub}
}

var _ Notifier = (*Dispatcher)(nil)

func (d *Dispatcher) DocumentDecided(ctx context.Context, vendorID string, doc *model.Document) {
	n := &model.Notification{
		ID:           uuid.NewString(),
		RecipientID:  vendorID,
		SubmissionID: doc.SubmissionID,
		DocumentID:   doc.ID,
		CreatedAt:    time.Now().UTC(),
	}
	switch doc.Status {
	case model.DocumentApproved:
		n.Type = model.NotificationDocumentApproved
		n.Title = "Document approved"
		n.Message = fmt.Sprintf("Your document %q has been approved.", doc.Title)
		n.Priority = "medium"
	case model.DocumentRejected:
		n.Type = model.NotificationDocumentRejected
		n.Title = "Document rejected"
		n.Message = fmt.Sprintf("Your document %q was rejected: %s", doc.Title, doc.ReviewNotes)
		n.Priority = "high"
	default:
		return
	}
	d.deliver(ctx, n)
}

func (d *Dispatcher) SubmissionCreated(ctx context.Context, consultantID string, s *model.Submission) {
	if consultantID == "" {
		return
	}
	d.deliver(ctx, &model.Notification{
		ID:           uuid.NewString(),
		RecipientID:  consultantID,
		Type:         model.NotificationDocumentSubmitted,
		Title:        "New submission",
		Message:      fmt.Sprintf("A vendor submitted %d document(s) for period %s.", len(s.Documents), s.Period),
		Priority:     "medium",
		SubmissionID: s.ID,
		CreatedAt:    time.Now().UTC(),
	})
}

func (d *Dispatcher) DocumentResubmitted(ctx context.Context, consultantID string, doc *model.Document) {
	if consultantID == "" {
		return
	}
	d.deliver(ctx, &model.Notification{
		ID:           uuid.NewString(),
		RecipientID:  consultantID,
		Type:         model.NotificationDocumentResubmit,
		Title:        "Document resubmitted",
		Message:      fmt.Sprintf("Document %q has a new version awaiting review.", doc.Title),
		Priority:     "medium",
		SubmissionID: doc.SubmissionID,
		DocumentID:   doc.ID,
		CreatedAt:    time.Now().UTC(),
	})
}

func (d *Dispatcher) Reminder(ctx context.Context, vendorID, message string) {
	d.deliver(ctx, &model.Notification{
		ID:          uuid.NewString(),
		RecipientID: vendorID,
		Type:        model.NotificationReminder,
		Title:       "Document reminder",
		Message:     message,
		Priority:    "high",
		CreatedAt:   time.Now().UTC(),
	})
}

// deliver persists the row, then pushes it. A failed insert is logged and the
// push skipped; notification loss never fails the triggering operation.
func (d *Dispatcher) deliver(ctx context.Context, n *model.Notification) {
	stored, err := d.repo.Create(ctx, n)
	if err != nil {
		logJSON("error", "failed to store notification", map[string]any{
			"recipient_id": n.RecipientID,
			"type":         string(n.Type),
			"error":        err.Error(),
		})
		return
	}
	if d.hub != nil {
		d.hub.Push(stored.RecipientID, stored)
	}
}

func logJSON(level, msg string, fields map[string]any) {
	entry := map[string]any{
		"level": level,
		"msg":   msg,
		"ts":    time.Now().UTC().Format(time.RFC3339Nano),
	}
	for k, v := range fields {
		entry[k] = v
	}
	_ = json.NewEncoder(os.Stdout).Encode(entry)
}

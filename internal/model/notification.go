package model

import "time"

// NotificationType identifies what triggered a notification.
type NotificationType string

const (
	NotificationDocumentApproved  NotificationType = "document_approved"
	NotificationDocumentRejected  NotificationType = "document_rejected"
	NotificationDocumentSubmitted NotificationType = "document_submitted"
	NotificationDocumentResubmit  NotificationType = "document_resubmitted"
	NotificationReminder          NotificationType = "document_reminder"
)

// Notification is one durable event addressed to a single user. Delivery over
// the push channel is best effort; the row is the source of truth.
type Notification struct {
	ID           string           `json:"id"`
	RecipientID  string           `json:"recipient_id"`
	Type         NotificationType `json:"type"`
	Title        string           `json:"title"`
	Message      string           `json:"message"`
	Priority     string           `json:"priority"`
	SubmissionID string           `json:"submission_id,omitempty"`
	DocumentID   string           `json:"document_id,omitempty"`
	Read         bool             `json:"read"`
	CreatedAt    time.Time        `json:"created_at"`
}

package repository

import (
	"context"

	"vendocs/internal/model"
)

// NotificationRepository persists notification rows. Push delivery is a
// separate concern; the row is the durable record.
type NotificationRepository interface {
	// Create inserts a notification and returns the stored row.
	Create(ctx context.Context, n *model.Notification) (*model.Notification, error)

	// ListByRecipient returns a recipient's notifications, newest first.
	// unreadOnly restricts to rows not yet marked read.
	ListByRecipient(ctx context.Context, recipientID string, unreadOnly bool, pq PageQuery) (*PageResult[model.Notification], error)

	// MarkRead flags one notification as read, scoped to its recipient.
	MarkRead(ctx context.Context, id, recipientID string) error
}

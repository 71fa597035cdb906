package postgres

import (
	"context"
	"database/sql"

	"vendocs/internal/model"
	"vendocs/internal/repository"
)

// NotificationPostgres is a PostgreSQL implementation of
// repository.NotificationRepository.
type NotificationPostgres struct {
	db *sql.DB
}

// NewNotificationPostgres creates a new NotificationPostgres repository.
func NewNotificationPostgres(db *sql.DB) *NotificationPostgres {
	return &NotificationPostgres{db: db}
}

var _ repository.NotificationRepository = (*NotificationPostgres)(nil)

const notificationColumns = `id, recipient_id, type, title, message, priority,
	submission_id, document_id, read, created_at`

func scanNotification(row interface{ Scan(...any) error }) (*model.Notification, error) {
	var (
		n          model.Notification
		submission sql.NullString
		document   sql.NullString
	)
	if err := row.Scan(
		&n.ID,
		&n.RecipientID,
		&n.Type,
		&n.Title,
		&n.Message,
		&n.Priority,
		&submission,
		&document,
		&n.Read,
		&n.CreatedAt,
	); err != nil {
		return nil, err
	}
	n.SubmissionID = submission.String
	n.DocumentID = document.String
	return &n, nil
}

// Create inserts a notification and returns the stored row.
func (r *NotificationPostgres) Create(ctx context.Context, n *model.Notification) (*model.Notification, error) {
	q := `
		INSERT INTO notifications (id, recipient_id, type, title, message, priority,
			submission_id, document_id, read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), NULLIF($8, ''), $9, $10)
		RETURNING ` + notificationColumns
	return scanNotification(r.db.QueryRowContext(ctx, q,
		n.ID, n.RecipientID, n.Type, n.Title, n.Message, n.Priority,
		n.SubmissionID, n.DocumentID, n.Read, n.CreatedAt,
	))
}

// ListByRecipient returns a recipient's notifications, newest first.
func (r *NotificationPostgres) ListByRecipient(ctx context.Context, recipientID string, unreadOnly bool, pq repository.PageQuery) (*repository.PageResult[model.Notification], error) {
	where := ` WHERE recipient_id = $1`
	if unreadOnly {
		where += ` AND read = FALSE`
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM notifications`+where, recipientID).Scan(&total); err != nil {
		return nil, err
	}

	q := `SELECT ` + notificationColumns + ` FROM notifications` + where +
		` ORDER BY created_at DESC, id DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, q, recipientID, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Notification, 0)
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &repository.PageResult[model.Notification]{Items: items, Total: total}, nil
}

// MarkRead flags one notification as read, scoped to its recipient.
func (r *NotificationPostgres) MarkRead(ctx context.Context, id, recipientID string) error {
	const q = `UPDATE notifications SET read = TRUE WHERE id = $1 AND recipient_id = $2`
	res, err := r.db.ExecContext(ctx, q, id, recipientID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

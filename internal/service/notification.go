package service

import (
	"context"
	"database/sql"
	"errors"

	"vendocs/internal/model"
	"vendocs/internal/repository"
)

// NotificationListResult is the service-level DTO for paginated notifications.
type NotificationListResult struct {
	Items []model.Notification `json:"data"`
	Total int                  `json:"total"`
}

// NotificationService exposes a user's own notification feed.
type NotificationService interface {
	// List returns the caller's notifications, newest first.
	List(ctx context.Context, actor Actor, unreadOnly bool, limit, offset int) (*NotificationListResult, error)

	// MarkRead flags one of the caller's notifications as read.
	MarkRead(ctx context.Context, actor Actor, id string) error
}

type notificationService struct {
	repo repository.NotificationRepository
}

// NewNotificationService constructs a NotificationService.
func NewNotificationService(repo repository.NotificationRepository) NotificationService {
	return &notificationService{repo: repo}
}

func (s *notificationService) List(ctx context.Context, actor Actor, unreadOnly bool, limit, offset int) (*NotificationListResult, error) {
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}
	res, err := s.repo.ListByRecipient(ctx, actor.ID, unreadOnly, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	return &NotificationListResult{Items: res.Items, Total: res.Total}, nil
}

func (s *notificationService) MarkRead(ctx context.Context, actor Actor, id string) error {
	if id == "" {
		return &ValidationError{Msg: "id is required"}
	}
	err := s.repo.MarkRead(ctx, id, actor.ID)
	if errors.Is(err, sql.ErrNoRows) {
		return &NotFoundError{Entity: "notification", ID: id}
	}
	return err
}

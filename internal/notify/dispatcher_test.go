package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"vendocs/internal/model"
	"vendocs/internal/repository/mocks"
)

func TestDispatcher_DocumentDecided(t *testing.T) {
	ctx := context.Background()

	t.Run("approved notifies vendor once", func(t *testing.T) {
		repo := new(mocks.MockNotificationRepository)
		d := NewDispatcher(repo, nil)

		repo.On("Create", ctx, mock.MatchedBy(func(n *model.Notification) bool {
			return n.RecipientID == "vendor-1" &&
				n.Type == model.NotificationDocumentApproved &&
				n.DocumentID == "doc-1"
		})).Return(&model.Notification{ID: "n-1"}, nil).Once()

		d.DocumentDecided(ctx, "vendor-1", &model.Document{
			ID:           "doc-1",
			SubmissionID: "sub-1",
			Title:        "NPWP",
			Status:       model.DocumentApproved,
		})

		repo.AssertExpectations(t)
	})

	t.Run("rejected carries remarks at high priority", func(t *testing.T) {
		repo := new(mocks.MockNotificationRepository)
		d := NewDispatcher(repo, nil)

		repo.On("Create", ctx, mock.MatchedBy(func(n *model.Notification) bool {
			return n.Type == model.NotificationDocumentRejected &&
				n.Priority == "high" &&
				n.Message != ""
		})).Return(&model.Notification{ID: "n-2"}, nil).Once()

		d.DocumentDecided(ctx, "vendor-1", &model.Document{
			ID:           "doc-1",
			SubmissionID: "sub-1",
			Title:        "NPWP",
			Status:       model.DocumentRejected,
			ReviewNotes:  "dokumen tidak terbaca",
		})

		repo.AssertExpectations(t)
	})

	t.Run("non-terminal status emits nothing", func(t *testing.T) {
		repo := new(mocks.MockNotificationRepository)
		d := NewDispatcher(repo, nil)

		d.DocumentDecided(ctx, "vendor-1", &model.Document{
			ID:     "doc-1",
			Status: model.DocumentUnderReview,
		})

		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("store failure does not panic", func(t *testing.T) {
		repo := new(mocks.MockNotificationRepository)
		d := NewDispatcher(repo, nil)

		repo.On("Create", ctx, mock.Anything).Return(nil, errors.New("db down")).Once()

		d.DocumentDecided(ctx, "vendor-1", &model.Document{
			ID:     "doc-1",
			Title:  "NPWP",
			Status: model.DocumentApproved,
		})

		repo.AssertExpectations(t)
	})
}

func TestDispatcher_SubmissionCreated(t *testing.T) {
	ctx := context.Background()

	t.Run("notifies assigned consultant", func(t *testing.T) {
		repo := new(mocks.MockNotificationRepository)
		d := NewDispatcher(repo, nil)

		repo.On("Create", ctx, mock.MatchedBy(func(n *model.Notification) bool {
			return n.RecipientID == "consultant-1" &&
				n.Type == model.NotificationDocumentSubmitted &&
				n.SubmissionID == "sub-1"
		})).Return(&model.Notification{ID: "n-1"}, nil).Once()

		d.SubmissionCreated(ctx, "consultant-1", &model.Submission{
			ID:        "sub-1",
			Period:    "2025-06",
			Documents: []model.Document{{ID: "doc-1"}},
		})

		repo.AssertExpectations(t)
	})

	t.Run("no assigned consultant emits nothing", func(t *testing.T) {
		repo := new(mocks.MockNotificationRepository)
		d := NewDispatcher(repo, nil)

		d.SubmissionCreated(ctx, "", &model.Submission{ID: "sub-1"})

		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestHub_RegisterUnregister(t *testing.T) {
	h := NewHub()

	assert.Equal(t, 0, h.ConnectionCount("user-1"))

	// Unregister of an unknown connection is a no-op.
	h.Unregister("user-1", nil)
	assert.Equal(t, 0, h.ConnectionCount("user-1"))

	h.Register("user-1", nil)
	assert.Equal(t, 1, h.ConnectionCount("user-1"))

	h.Unregister("user-1", nil)
	assert.Equal(t, 0, h.ConnectionCount("user-1"))
}

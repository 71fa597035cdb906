package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"vendocs/internal/model"
)

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) DocumentDecided(ctx context.Context, vendorID string, doc *model.Document) {
	m.Called(ctx, vendorID, doc)
}

func (m *MockNotifier) SubmissionCreated(ctx context.Context, consultantID string, s *model.Submission) {
	m.Called(ctx, consultantID, s)
}

func (m *MockNotifier) DocumentResubmitted(ctx context.Context, consultantID string, doc *model.Document) {
	m.Called(ctx, consultantID, doc)
}

func (m *MockNotifier) Reminder(ctx context.Context, vendorID, message string) {
	m.Called(ctx, vendorID, message)
}

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"vendocs/internal/model"
	"vendocs/internal/repository"
)

type MockSubmissionRepository struct {
	mock.Mock
}

func (m *MockSubmissionRepository) Create(ctx context.Context, s *model.Submission) (*model.Submission, error) {
	args := m.Called(ctx, s)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Submission), args.Error(1)
}

func (m *MockSubmissionRepository) FindByID(ctx context.Context, id string) (*model.Submission, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Submission), args.Error(1)
}

func (m *MockSubmissionRepository) List(ctx context.Context, f repository.SubmissionFilter, pq repository.PageQuery) (*repository.PageResult[model.Submission], error) {
	args := m.Called(ctx, f, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.Submission]), args.Error(1)
}

func (m *MockSubmissionRepository) FindDocument(ctx context.Context, submissionID, documentID string) (*model.Document, error) {
	args := m.Called(ctx, submissionID, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockSubmissionRepository) ApplyDecision(ctx context.Context, p repository.DecisionParams) (*repository.DecisionResult, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.DecisionResult), args.Error(1)
}

func (m *MockSubmissionRepository) ApplyResubmission(ctx context.Context, p repository.ResubmitParams) (*repository.DecisionResult, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.DecisionResult), args.Error(1)
}

func (m *MockSubmissionRepository) MarkUnderReview(ctx context.Context, p repository.StartReviewParams) (*repository.DecisionResult, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.DecisionResult), args.Error(1)
}

func (m *MockSubmissionRepository) ListDocumentRows(ctx context.Context, f repository.DocumentRowFilter) ([]repository.DocumentRow, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.DocumentRow), args.Error(1)
}

func (m *MockSubmissionRepository) ListRemarks(ctx context.Context, documentID string) ([]model.Remark, error) {
	args := m.Called(ctx, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Remark), args.Error(1)
}

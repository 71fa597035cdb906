package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"vendocs/internal/model"
	"vendocs/internal/notify"
	"vendocs/internal/repository"
	"vendocs/internal/status"
	"vendocs/internal/storage"
	"vendocs/internal/workflow"
)

// Actor identifies the authenticated caller for scoping decisions.
type Actor struct {
	ID   string
	Role model.Role
}

// FileUpload is one incoming file stream.
type FileUpload struct {
	Reader      io.Reader
	FileName    string
	ContentType string
	Size        int64
}

// CreateDocumentInput is one document of a new submission.
type CreateDocumentInput struct {
	Title        string
	DocumentType string
	Files        []FileUpload
}

// CreateSubmissionInput groups the documents a vendor submits for a period.
type CreateSubmissionInput struct {
	Period    string
	Documents []CreateDocumentInput
}

// ReviewInput carries a consultant decision. Status accepts the raw vocabulary
// handled by the status package. ExpectedVersion of 0 skips the stale-decision
// guard (last write wins).
type ReviewInput struct {
	Status          string `json:"status"`
	Remarks         string `json:"remarks"`
	ExpectedVersion int    `json:"expected_version"`
}

// ReviewResult echoes the updated document and the submission status derived
// in the same transaction.
type ReviewResult struct {
	Document         model.Document         `json:"document"`
	SubmissionStatus model.SubmissionStatus `json:"submission_status"`
}

// SubmissionListResult is the service-level DTO for paginated submissions.
type SubmissionListResult struct {
	Items []model.Submission `json:"data"`
	Total int                `json:"total"`
}

// SubmissionService defines the submission and review use cases.
type SubmissionService interface {
	// Create stores a vendor's submission: uploads every file to object
	// storage, persists the aggregate, and notifies the assigned consultant.
	Create(ctx context.Context, actor Actor, in CreateSubmissionInput) (*model.Submission, error)

	// Get returns one submission. Vendors may only read their own.
	Get(ctx context.Context, actor Actor, id string) (*model.Submission, error)

	// List returns submissions scoped to the caller: vendors see their own,
	// consultants see their assigned vendors', admins see everything.
	List(ctx context.Context, actor Actor, period string, limit, offset int) (*SubmissionListResult, error)

	// StartReview marks a document as actively under review, claiming it
	// for the caller. Consultants and admins only.
	StartReview(ctx context.Context, actor Actor, submissionID, documentID string) (*ReviewResult, error)

	// Review applies an approve or reject decision to one document and
	// notifies the vendor. Consultants and admins only.
	Review(ctx context.Context, actor Actor, submissionID, documentID string, in ReviewInput) (*ReviewResult, error)

	// Resubmit attaches a fresh file version to a rejected document, marks it
	// resubmitted, and notifies the assigned consultant. The owning vendor only.
	Resubmit(ctx context.Context, actor Actor, submissionID, documentID string, file FileUpload) (*ReviewResult, error)

	// Remarks returns a document's append-only remark history.
	Remarks(ctx context.Context, actor Actor, submissionID, documentID string) ([]model.Remark, error)

	// FileURL returns a presigned download URL for one stored file.
	FileURL(ctx context.Context, actor Actor, submissionID, documentID, fileID string) (string, error)
}

type submissionService struct {
	submissions repository.SubmissionRepository
	users       repository.UserRepository
	store       storage.Storage
	notifier    notify.Notifier
	machine     *workflow.Machine
	now         func() time.Time
}

// NewSubmissionService constructs a SubmissionService.
func NewSubmissionService(
	submissions repository.SubmissionRepository,
	users repository.UserRepository,
	store storage.Storage,
	notifier notify.Notifier,
) SubmissionService {
	return &submissionService{
		submissions: submissions,
		users:       users,
		store:       store,
		notifier:    notifier,
		machine:     workflow.New(),
		now:         func() time.Time { return time.Now().UTC() },
	}
}

const presignExpiry = 15 * time.Minute

func (s *submissionService) Create(ctx context.Context, actor Actor, in CreateSubmissionInput) (*model.Submission, error) {
	if actor.Role != model.RoleVendor {
		return nil, &AuthorizationError{Msg: "only vendors can submit documents"}
	}
	if strings.TrimSpace(in.Period) == "" {
		return nil, &ValidationError{Msg: "period is required"}
	}
	if len(in.Documents) == 0 {
		return nil, &ValidationError{Msg: "at least one document is required"}
	}
	for _, d := range in.Documents {
		if strings.TrimSpace(d.Title) == "" {
			return nil, &ValidationError{Msg: "document title is required"}
		}
	}

	now := s.now()
	sub := &model.Submission{
		ID:        uuid.NewString(),
		VendorID:  actor.ID,
		Period:    strings.TrimSpace(in.Period),
		Status:    model.SubmissionInProgress,
		CreatedAt: now,
		UpdatedAt: now,
	}

	// Uploaded object keys, for rollback if the DB write fails.
	var uploaded []string
	rollback := func() {
		for _, key := range uploaded {
			_ = s.store.Delete(ctx, key)
		}
	}

	for i, d := range in.Documents {
		doc := model.Document{
			ID:           uuid.NewString(),
			SubmissionID: sub.ID,
			Title:        strings.TrimSpace(d.Title),
			DocumentType: d.DocumentType,
			Position:     i,
			Status:       model.DocumentPending,
			Version:      1,
			SubmittedAt:  now,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		for _, f := range d.Files {
			file, err := s.uploadFile(ctx, sub.ID, doc.ID, f, now)
			if err != nil {
				rollback()
				return nil, err
			}
			uploaded = append(uploaded, file.StoragePath)
			doc.Files = append(doc.Files, *file)
		}
		sub.Documents = append(sub.Documents, doc)
	}

	stored, err := s.submissions.Create(ctx, sub)
	if err != nil {
		rollback()
		return nil, err
	}

	if vendor, err := s.users.FindByID(ctx, actor.ID); err == nil {
		s.notifier.SubmissionCreated(ctx, vendor.AssignedConsultantID, stored)
	}
	return stored, nil
}

// uploadFile streams one file to object storage under a per-document key.
func (s *submissionService) uploadFile(ctx context.Context, submissionID, documentID string, f FileUpload, now time.Time) (*model.DocumentFile, error) {
	if f.Reader == nil {
		return nil, &ValidationError{Msg: "file content is required"}
	}
	ext := filepath.Ext(f.FileName)
	key := fmt.Sprintf("submissions/%s/%s/%s%s", submissionID, documentID, uuid.NewString(), ext)

	info, err := s.store.Put(ctx, key, f.Reader, storage.PutObjectOptions{
		Size:        f.Size,
		ContentType: f.ContentType,
		Metadata:    map[string]string{"original-filename": f.FileName},
	})
	if err != nil {
		return nil, &StorageError{Op: "put", Err: err}
	}

	return &model.DocumentFile{
		ID:          uuid.NewString(),
		DocumentID:  documentID,
		FileName:    f.FileName,
		StoragePath: info.Key,
		ContentType: f.ContentType,
		Size:        info.Size,
		UploadedAt:  now,
	}, nil
}

func (s *submissionService) Get(ctx context.Context, actor Actor, id string) (*model.Submission, error) {
	sub, err := s.findSubmission(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.Role == model.RoleVendor && sub.VendorID != actor.ID {
		return nil, &AuthorizationError{Msg: "not your submission"}
	}
	return sub, nil
}

func (s *submissionService) List(ctx context.Context, actor Actor, period string, limit, offset int) (*SubmissionListResult, error) {
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	f := repository.SubmissionFilter{Period: period}
	switch actor.Role {
	case model.RoleVendor:
		f.VendorID = actor.ID
	case model.RoleConsultant:
		f.ConsultantID = actor.ID
	}

	res, err := s.submissions.List(ctx, f, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	return &SubmissionListResult{Items: res.Items, Total: res.Total}, nil
}

func (s *submissionService) StartReview(ctx context.Context, actor Actor, submissionID, documentID string) (*ReviewResult, error) {
	if actor.Role != model.RoleConsultant && actor.Role != model.RoleAdmin {
		return nil, &AuthorizationError{Msg: "only consultants can review documents"}
	}

	if _, err := s.findSubmission(ctx, submissionID); err != nil {
		return nil, err
	}
	doc, err := s.findDocument(ctx, submissionID, documentID)
	if err != nil {
		return nil, err
	}
	if _, err := s.machine.Apply(doc.Status, workflow.EventStartReview); err != nil {
		return nil, &ValidationError{Msg: "only pending or resubmitted documents can enter review"}
	}

	res, err := s.submissions.MarkUnderReview(ctx, repository.StartReviewParams{
		SubmissionID: submissionID,
		DocumentID:   documentID,
		ReviewerID:   actor.ID,
		StartedAt:    s.now(),
	})
	if err != nil {
		return nil, err
	}
	return &ReviewResult{Document: res.Document, SubmissionStatus: res.SubmissionStatus}, nil
}

func (s *submissionService) Review(ctx context.Context, actor Actor, submissionID, documentID string, in ReviewInput) (*ReviewResult, error) {
	if actor.Role != model.RoleConsultant && actor.Role != model.RoleAdmin {
		return nil, &AuthorizationError{Msg: "only consultants can review documents"}
	}

	target, ok := status.NormalizeObserved(in.Status)
	if !ok || (target != model.DocumentApproved && target != model.DocumentRejected) {
		return nil, &ValidationError{Msg: "status must be approved or rejected"}
	}
	remarks := strings.TrimSpace(in.Remarks)
	if remarks == "" {
		return nil, &ValidationError{Msg: "remarks are required"}
	}

	sub, err := s.findSubmission(ctx, submissionID)
	if err != nil {
		return nil, err
	}

	doc, err := s.findDocument(ctx, submissionID, documentID)
	if err != nil {
		return nil, err
	}

	if target == model.DocumentApproved && len(doc.Files) == 0 {
		return nil, &ValidationError{Msg: "cannot approve a document without files"}
	}

	// Repeating an identical approval is a no-op: nothing to change, no
	// version bump, no duplicate notification.
	if doc.Status == target && doc.ReviewNotes == remarks {
		return &ReviewResult{Document: *doc, SubmissionStatus: sub.Status}, nil
	}

	event := workflow.EventApprove
	if target == model.DocumentRejected {
		event = workflow.EventReject
	}
	if _, err := s.machine.Apply(doc.Status, event); err != nil {
		return nil, &ValidationError{Msg: err.Error()}
	}

	res, err := s.submissions.ApplyDecision(ctx, repository.DecisionParams{
		SubmissionID:    submissionID,
		DocumentID:      documentID,
		ReviewerID:      actor.ID,
		Status:          target,
		Remarks:         remarks,
		ExpectedVersion: in.ExpectedVersion,
		DecidedAt:       s.now(),
	})
	if err != nil {
		if errors.Is(err, repository.ErrVersionConflict) {
			return nil, &ConflictError{Msg: "document was modified by another review"}
		}
		return nil, err
	}

	s.notifier.DocumentDecided(ctx, sub.VendorID, &res.Document)
	return &ReviewResult{Document: res.Document, SubmissionStatus: res.SubmissionStatus}, nil
}

func (s *submissionService) Resubmit(ctx context.Context, actor Actor, submissionID, documentID string, file FileUpload) (*ReviewResult, error) {
	sub, err := s.findSubmission(ctx, submissionID)
	if err != nil {
		return nil, err
	}
	if actor.Role != model.RoleVendor || sub.VendorID != actor.ID {
		return nil, &AuthorizationError{Msg: "only the owning vendor can resubmit"}
	}

	doc, err := s.findDocument(ctx, submissionID, documentID)
	if err != nil {
		return nil, err
	}
	if !s.machine.CanApply(doc.Status, workflow.EventResubmit) {
		return nil, &ValidationError{Msg: "only rejected documents can be resubmitted"}
	}

	now := s.now()
	stored, err := s.uploadFile(ctx, submissionID, documentID, file, now)
	if err != nil {
		return nil, err
	}

	res, err := s.submissions.ApplyResubmission(ctx, repository.ResubmitParams{
		SubmissionID: submissionID,
		DocumentID:   documentID,
		File:         *stored,
		ResubmitAt:   now,
	})
	if err != nil {
		_ = s.store.Delete(ctx, stored.StoragePath)
		return nil, err
	}

	if vendor, err := s.users.FindByID(ctx, actor.ID); err == nil {
		s.notifier.DocumentResubmitted(ctx, vendor.AssignedConsultantID, &res.Document)
	}
	return &ReviewResult{Document: res.Document, SubmissionStatus: res.SubmissionStatus}, nil
}

func (s *submissionService) Remarks(ctx context.Context, actor Actor, submissionID, documentID string) ([]model.Remark, error) {
	if _, err := s.Get(ctx, actor, submissionID); err != nil {
		return nil, err
	}
	if _, err := s.findDocument(ctx, submissionID, documentID); err != nil {
		return nil, err
	}
	return s.submissions.ListRemarks(ctx, documentID)
}

func (s *submissionService) FileURL(ctx context.Context, actor Actor, submissionID, documentID, fileID string) (string, error) {
	if _, err := s.Get(ctx, actor, submissionID); err != nil {
		return "", err
	}
	doc, err := s.findDocument(ctx, submissionID, documentID)
	if err != nil {
		return "", err
	}
	for _, f := range doc.Files {
		if f.ID == fileID {
			url, err := s.store.PresignGet(ctx, f.StoragePath, presignExpiry)
			if err != nil {
				return "", &StorageError{Op: "presign", Err: err}
			}
			return url, nil
		}
	}
	return "", &NotFoundError{Entity: "file", ID: fileID}
}

func (s *submissionService) findSubmission(ctx context.Context, id string) (*model.Submission, error) {
	if id == "" {
		return nil, &ValidationError{Msg: "submission id is required"}
	}
	sub, err := s.submissions.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &NotFoundError{Entity: "submission", ID: id}
		}
		return nil, err
	}
	return sub, nil
}

func (s *submissionService) findDocument(ctx context.Context, submissionID, documentID string) (*model.Document, error) {
	if documentID == "" {
		return nil, &ValidationError{Msg: "document id is required"}
	}
	doc, err := s.submissions.FindDocument(ctx, submissionID, documentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &NotFoundError{Entity: "document", ID: documentID}
		}
		return nil, err
	}
	return doc, nil
}

package handler

import (
	"fmt"
	"mime/multipart"

	"github.com/gofiber/fiber/v2"

	"vendocs/internal/service"
)

// CreateSubmission accepts a vendor's multipart submission. The form carries
// one "period" field, parallel "titles" and "types" values describing each
// document, and the document's files under "files_<index>".
//
//	@Summary	Submit documents for a period
//	@Tags		submissions
//	@Accept		multipart/form-data
//	@Produce	json
//	@Success	201	{object}	envelope{data=model.Submission}
//	@Router		/api/submissions [post]
//	@Security	BearerAuth
func CreateSubmission(svc service.SubmissionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		form, err := c.MultipartForm()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "multipart form required")
		}

		in, openedFiles, err := submissionFromForm(form)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, err.Error())
		}
		defer func() {
			for _, f := range openedFiles {
				f.Close()
			}
		}()

		sub, err := svc.Create(c.UserContext(), actorFromCtx(c), *in)
		if err != nil {
			return respondServiceError(c, err)
		}
		return respondMessage(c, fiber.StatusCreated, sub, "submission created")
	}
}

// submissionFromForm maps the multipart fields onto the service input. The
// returned files must be closed by the caller after the service consumed them.
func submissionFromForm(form *multipart.Form) (*service.CreateSubmissionInput, []multipart.File, error) {
	period := firstValue(form.Value["period"])
	titles := form.Value["titles"]
	types := form.Value["types"]
	if len(titles) == 0 {
		return nil, nil, fmt.Errorf("at least one document is required")
	}
	if len(titles) != len(types) {
		return nil, nil, fmt.Errorf("titles and types must have the same length")
	}

	in := &service.CreateSubmissionInput{Period: period}
	var opened []multipart.File
	for i, title := range titles {
		doc := service.CreateDocumentInput{
			Title:        title,
			DocumentType: types[i],
		}
		for _, fh := range form.File[fmt.Sprintf("files_%d", i)] {
			f, err := fh.Open()
			if err != nil {
				for _, o := range opened {
					o.Close()
				}
				return nil, nil, fmt.Errorf("cannot open uploaded file %q", fh.Filename)
			}
			opened = append(opened, f)
			doc.Files = append(doc.Files, service.FileUpload{
				Reader:      f,
				FileName:    fh.Filename,
				ContentType: contentTypeOf(fh),
				Size:        fh.Size,
			})
		}
		in.Documents = append(in.Documents, doc)
	}
	return in, opened, nil
}

func firstValue(vs []string) string {
	if len(vs) == 0 {
		return ""
	}
	return vs[0]
}

func contentTypeOf(fh *multipart.FileHeader) string {
	if ct := fh.Header.Get("Content-Type"); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

// ListSubmissions returns submissions scoped to the caller's role.
func ListSubmissions(svc service.SubmissionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, offset := pageQuery(c)
		res, err := svc.List(c.UserContext(), actorFromCtx(c), c.Query("period"), limit, offset)
		if err != nil {
			return respondServiceError(c, err)
		}
		return respond(c, fiber.StatusOK, res)
	}
}

// GetSubmission returns one submission with its documents and files.
func GetSubmission(svc service.SubmissionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sub, err := svc.Get(c.UserContext(), actorFromCtx(c), c.Params("id"))
		if err != nil {
			return respondServiceError(c, err)
		}
		return respond(c, fiber.StatusOK, sub)
	}
}

// StartReviewDocument moves a pending or resubmitted document to
// under_review and stamps the caller as its reviewer.
//
//	@Summary	Claim a document for review
//	@Tags		submissions
//	@Produce	json
//	@Success	200	{object}	envelope{data=service.ReviewResult}
//	@Router		/api/submissions/{id}/documents/{docID}/start-review [put]
//	@Security	BearerAuth
func StartReviewDocument(svc service.SubmissionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res, err := svc.StartReview(c.UserContext(), actorFromCtx(c), c.Params("id"), c.Params("docID"))
		if err != nil {
			return respondServiceError(c, err)
		}
		return respondMessage(c, fiber.StatusOK, res, "document under review")
	}
}

// ReviewDocument applies an approve or reject decision to one document and
// echoes the updated document together with the rederived submission status.
//
//	@Summary	Review a document
//	@Tags		submissions
//	@Accept		json
//	@Produce	json
//	@Param		decision	body	service.ReviewInput	true	"decision"
//	@Success	200	{object}	envelope{data=service.ReviewResult}
//	@Failure	409	{object}	envelope	"stale version"
//	@Router		/api/submissions/{id}/documents/{docID}/review [put]
//	@Security	BearerAuth
func ReviewDocument(svc service.SubmissionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in service.ReviewInput
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "invalid request body")
		}
		res, err := svc.Review(c.UserContext(), actorFromCtx(c), c.Params("id"), c.Params("docID"), in)
		if err != nil {
			return respondServiceError(c, err)
		}
		return respondMessage(c, fiber.StatusOK, res, "document reviewed")
	}
}

// ResubmitDocument attaches a replacement file to a rejected document.
func ResubmitDocument(svc service.SubmissionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "file is required")
		}
		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "cannot open uploaded file")
		}
		defer f.Close()

		res, err := svc.Resubmit(c.UserContext(), actorFromCtx(c), c.Params("id"), c.Params("docID"), service.FileUpload{
			Reader:      f,
			FileName:    fh.Filename,
			ContentType: contentTypeOf(fh),
			Size:        fh.Size,
		})
		if err != nil {
			return respondServiceError(c, err)
		}
		return respondMessage(c, fiber.StatusOK, res, "document resubmitted")
	}
}

// DocumentRemarks returns the document's append-only remark history.
func DocumentRemarks(svc service.SubmissionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		remarks, err := svc.Remarks(c.UserContext(), actorFromCtx(c), c.Params("id"), c.Params("docID"))
		if err != nil {
			return respondServiceError(c, err)
		}
		return respond(c, fiber.StatusOK, remarks)
	}
}

// DocumentFileURL returns a short-lived presigned download URL for one file.
func DocumentFileURL(svc service.SubmissionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		url, err := svc.FileURL(c.UserContext(), actorFromCtx(c), c.Params("id"), c.Params("docID"), c.Params("fileID"))
		if err != nil {
			return respondServiceError(c, err)
		}
		return respond(c, fiber.StatusOK, fiber.Map{"url": url})
	}
}

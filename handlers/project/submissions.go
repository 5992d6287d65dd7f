package project

import (
	"io"
	"mime/multipart"
	"strconv"
	"strings"

	"github.com/disserto/disserto-api/handlers"
	"github.com/disserto/disserto-api/services"
	"github.com/disserto/disserto-api/services/authz"
	"github.com/disserto/disserto-api/utils/apperrors"
	"github.com/disserto/disserto-api/utils/pdfvalidation"
	"github.com/disserto/disserto-api/utils/response"
	"github.com/gofiber/fiber/v2"
)

// SubmitFinal handles POST /api/projects/final-submission (multipart/form-data).
// Fields: projectId (optional), title, abstract, keywords (comma separated or
// repeated) and the PDF as "file".
func (h *ProjectHandler) SubmitFinal(c *fiber.Ctx) error {
	user, err := handlers.CurrentUser(c)
	if err != nil {
		return response.FromError(c, err)
	}

	form, err := c.MultipartForm()
	if err != nil {
		return response.FromError(c, apperrors.Validation("Invalid multipart form", nil))
	}

	req := services.FinalSubmissionRequest{
		Title:    formValue(form.Value, "title"),
		Abstract: formValue(form.Value, "abstract"),
	}
	if raw := formValue(form.Value, "projectId"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return response.FromError(c, apperrors.Validation("Invalid projectId", map[string]string{"projectId": "must be a positive integer"}))
		}
		req.ProjectID = uint(id)
	}
	for _, v := range form.Value["keywords"] {
		req.Keywords = append(req.Keywords, services.SplitList(v)...)
	}

	if files := form.File["file"]; len(files) > 0 {
		upload, err := readUpload(files[0])
		if err != nil {
			return response.FromError(c, err)
		}
		req.File = upload
	}

	submission, err := h.projectService.SubmitFinal(c.UserContext(), user, req)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Created(c, "Final submission uploaded successfully", submission)
}

// ListSubmissions handles GET /api/projects/:id/submissions
func (h *ProjectHandler) ListSubmissions(c *fiber.Ctx) error {
	user, err := handlers.CurrentUser(c)
	if err != nil {
		return response.FromError(c, err)
	}
	id, err := handlers.ParamID(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}

	submissions, err := h.projectService.ListSubmissions(c.UserContext(), user, id)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, submissions)
}

// ReviewSubmission handles PATCH /api/submissions/:id/status
func (h *ProjectHandler) ReviewSubmission(c *fiber.Ctx) error {
	user, err := handlers.CurrentUser(c)
	if err != nil {
		return response.FromError(c, err)
	}
	id, err := handlers.ParamID(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}

	var req services.ReviewRequest
	if err := handlers.ParseFields(c, user, authz.KindSubmission, &req); err != nil {
		return response.FromError(c, err)
	}

	submission, err := h.projectService.ReviewSubmission(c.UserContext(), user, id, req)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.SuccessWithMessage(c, "Submission reviewed successfully", submission)
}

func formValue(values map[string][]string, key string) string {
	if v := values[key]; len(v) > 0 {
		return strings.TrimSpace(v[0])
	}
	return ""
}

// readUpload reads at most one byte past the dissertation size limit so the
// validator can reject oversized files without buffering them whole.
func readUpload(header *multipart.FileHeader) (*services.FileUpload, error) {
	f, err := header.Open()
	if err != nil {
		return nil, apperrors.Validation("Failed to read uploaded file", nil)
	}
	defer f.Close()

	limit := int64(pdfvalidation.DissertationLimits.MaxFileSizeMB)*1024*1024 + 1
	content, err := io.ReadAll(io.LimitReader(f, limit))
	if err != nil {
		return nil, apperrors.Validation("Failed to read uploaded file", nil)
	}
	return &services.FileUpload{Filename: header.Filename, Content: content}, nil
}

package analyses

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"placement-readiness/internal/extract"
	"placement-readiness/internal/history"
	"placement-readiness/internal/readiness"
	"placement-readiness/internal/shared/server/middleware"
	"placement-readiness/internal/shared/server/respond"
	"placement-readiness/internal/shared/util"
)

const defaultMaxUploadBytes = 5 << 20 // 5MB

// Handler wires HTTP handlers to the analyses service.
type Handler struct {
	Svc            *Service
	MaxUploadBytes int64
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, maxUploadBytes int64) *Handler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = defaultMaxUploadBytes
	}
	return &Handler{Svc: svc, MaxUploadBytes: maxUploadBytes}
}

// RegisterRoutes attaches analysis routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/analyses", h.create)
	rg.POST("/analyses/upload", h.upload)
	rg.GET("/analyses", h.list)
	rg.DELETE("/analyses", h.clear)
	rg.GET("/analyses/:id", h.get)
	rg.PUT("/analyses/:id/skills", h.setConfidence)
	rg.POST("/analyses/:id/skills/toggle", h.toggle)
	rg.GET("/analyses/:id/export", h.export)
}

type createRequest struct {
	Company string `json:"company" binding:"max=200"`
	Role    string `json:"role" binding:"max=200"`
	Text    string `json:"text" binding:"required"`
}

func (h *Handler) create(c *gin.Context) {
	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Validation(c, "invalid analysis request", bindingIssues(err)...)
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		respond.Validation(c, "text is required", respond.FieldIssue{Field: "text", Issue: "required"})
		return
	}

	report, err := h.Svc.Create(c.Request.Context(), readiness.Submission{
		Company: req.Company,
		Role:    req.Role,
		Text:    req.Text,
	})
	if err != nil {
		h.writeError(c, err, "failed to create analysis")
		return
	}
	c.Set(middleware.ReportIDKey, report.ID)
	respond.Created(c, report)
}

func (h *Handler) upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxUploadBytes)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respond.Error(c, http.StatusRequestEntityTooLarge, ErrorCodeTooLarge, fmt.Sprintf("file exceeds %d bytes", h.MaxUploadBytes), nil)
			return
		}
		respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "file is required", nil)
		return
	}

	fileName, err := util.SanitizeFileName(fileHeader.Filename)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "invalid file name", nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "unable to read file", nil)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "unable to read file", nil)
		return
	}

	report, err := h.Svc.CreateFromUpload(
		c.Request.Context(),
		data,
		fileHeader.Header.Get("Content-Type"),
		fileName,
		c.PostForm("company"),
		c.PostForm("role"),
	)
	if err != nil {
		h.writeError(c, err, "failed to analyze upload")
		return
	}
	c.Set(middleware.ReportIDKey, report.ID)
	respond.Created(c, report)
}

func (h *Handler) list(c *gin.Context) {
	summaries, err := h.Svc.List(c.Request.Context())
	if err != nil {
		h.writeError(c, err, "failed to list analyses")
		return
	}
	respond.OK(c, summaries)
}

func (h *Handler) get(c *gin.Context) {
	id := c.Param("id")
	c.Set(middleware.ReportIDKey, id)

	detail, err := h.Svc.Get(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err, "failed to fetch analysis")
		return
	}
	respond.OK(c, detail)
}

type confidenceRequest struct {
	Skill  string `json:"skill" binding:"required"`
	Status string `json:"status" binding:"required,oneof=known needs_practice"`
}

func (h *Handler) setConfidence(c *gin.Context) {
	id := c.Param("id")
	c.Set(middleware.ReportIDKey, id)

	var req confidenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Validation(c, "skill and status (known|needs_practice) are required", bindingIssues(err)...)
		return
	}

	detail, err := h.Svc.SetConfidence(c.Request.Context(), id, req.Skill, readiness.Confidence(req.Status))
	if err != nil {
		h.writeError(c, err, "failed to update skill")
		return
	}
	respond.OK(c, detail)
}

type toggleRequest struct {
	Skill string `json:"skill" binding:"required"`
}

func (h *Handler) toggle(c *gin.Context) {
	id := c.Param("id")
	c.Set(middleware.ReportIDKey, id)

	var req toggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Validation(c, "skill is required", bindingIssues(err)...)
		return
	}

	detail, err := h.Svc.Toggle(c.Request.Context(), id, req.Skill)
	if err != nil {
		h.writeError(c, err, "failed to toggle skill")
		return
	}
	respond.OK(c, detail)
}

func (h *Handler) export(c *gin.Context) {
	id := c.Param("id")
	c.Set(middleware.ReportIDKey, id)

	fileName, body, err := h.Svc.Export(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err, "failed to export analysis")
		return
	}
	respond.Attachment(c, fileName, body)
}

func (h *Handler) clear(c *gin.Context) {
	if err := h.Svc.ClearAll(c.Request.Context()); err != nil {
		h.writeError(c, err, "failed to clear history")
		return
	}
	respond.NoContent(c)
}

// bindingIssues turns validator failures into field issues keyed by JSON name.
func bindingIssues(err error) []respond.FieldIssue {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	issues := make([]respond.FieldIssue, 0, len(verrs))
	for _, fe := range verrs {
		issues = append(issues, respond.FieldIssue{
			Field: jsonFieldName(fe.Field()),
			Issue: fe.Tag(),
		})
	}
	return issues
}

func jsonFieldName(goName string) string {
	if goName == "" {
		return goName
	}
	return strings.ToLower(goName[:1]) + goName[1:]
}

func (h *Handler) writeError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, history.ErrNotFound):
		respond.Error(c, http.StatusNotFound, ErrorCodeNotFound, "analysis not found", nil)
	case errors.Is(err, history.ErrUnknownSkill):
		respond.Error(c, http.StatusBadRequest, ErrorCodeUnknownSkill, "skill is not part of this analysis", nil)
	case errors.Is(err, ErrInvalidStatus), errors.Is(err, history.ErrInvalidConfidence):
		respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "status must be known or needs_practice", nil)
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusUnprocessableEntity, ErrorCodeValidation, err.Error(), nil)
	case errors.Is(err, extract.ErrUnsupportedType):
		respond.Error(c, http.StatusUnsupportedMediaType, ErrorCodeUnsupported, "upload a PDF, DOCX or plain text file", nil)
	case errors.Is(err, ErrExtractionFailed):
		respond.Error(c, http.StatusUnprocessableEntity, ErrorCodeExtraction, "could not read text from the uploaded file", nil)
	case errors.Is(err, history.ErrStorage):
		respond.Error(c, http.StatusServiceUnavailable, ErrorCodeStorage, "history storage is unavailable", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, ErrorCodeInternal, fallback, nil)
	}
}

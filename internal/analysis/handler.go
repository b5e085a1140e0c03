package analysis

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"hiresight/internal/extract"
	"hiresight/internal/shared/server/middleware"
	"hiresight/internal/shared/server/respond"
	"hiresight/internal/shared/util"
)

// DefaultMaxUploadBytes bounds multipart uploads.
const DefaultMaxUploadBytes = 10 << 20 // 10MB

// Handler wires HTTP handlers to the analysis service.
type Handler struct {
	Svc            *Service
	MaxUploadBytes int64
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, maxUploadBytes int64) *Handler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = DefaultMaxUploadBytes
	}
	return &Handler{Svc: svc, MaxUploadBytes: maxUploadBytes}
}

// RegisterRoutes attaches analysis routes to the router group. Extra
// middleware applies to the analysis endpoint only.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, analyzeMiddleware ...gin.HandlerFunc) {
	rg.POST("/analyses", append(analyzeMiddleware, h.analyze)...)
	rg.GET("/lexicon", h.lexicon)
}

type analyzeTextRequest struct {
	Text string `json:"text"`
}

func (h *Handler) analyze(c *gin.Context) {
	if c.Request.ContentLength > h.MaxUploadBytes {
		respond.Error(c, http.StatusRequestEntityTooLarge, "payload_too_large", "request exceeds the upload limit", nil)
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxUploadBytes)

	var (
		req Request
		ok  bool
	)
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		req, ok = h.bindUpload(c)
	} else {
		req, ok = h.bindText(c)
	}
	if !ok {
		return
	}

	ctx := WithRequestID(c.Request.Context(), middleware.RequestIDFromContext(c))
	result, err := h.Svc.Analyze(ctx, req)
	if err != nil {
		stage := FailedStage(err)
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", "a file or text is required", nil)
		case errors.Is(err, extract.ErrExtraction):
			respond.Error(c, http.StatusUnprocessableEntity, "extraction_error", "could not read text from the document", []map[string]string{
				{"field": "file", "issue": sanitizeError(errors.Unwrap(err))},
			})
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "analysis failed", []map[string]string{
				{"field": "stage", "issue": stage},
			})
		}
		return
	}

	c.Set(middleware.AnalysisIDKey, result.ID)
	respond.OK(c, result)
}

func (h *Handler) bindUpload(c *gin.Context) (Request, bool) {
	text := c.PostForm("text")
	if strings.TrimSpace(text) != "" {
		return Request{Text: text}, true
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		if isTooLarge(err) {
			respond.Error(c, http.StatusRequestEntityTooLarge, "payload_too_large", "file exceeds the upload limit", nil)
			return Request{}, false
		}
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
		return Request{}, false
	}

	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return Request{}, false
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return Request{}, false
	}

	name, err := util.SanitizeFileName(fileHeader.Filename)
	if err != nil {
		name = ""
	}
	format := extract.FormatFromContentType(fileHeader.Header.Get("Content-Type"), fileHeader.Filename)
	return Request{
		Document: &extract.Document{Data: data, Format: format},
		Source: Source{
			FileName:  name,
			SizeBytes: fileHeader.Size,
			Format:    format,
			Digest:    util.Digest(data),
		},
	}, true
}

func (h *Handler) bindText(c *gin.Context) (Request, bool) {
	var body analyzeTextRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		if isTooLarge(err) {
			respond.Error(c, http.StatusRequestEntityTooLarge, "payload_too_large", "text exceeds the upload limit", nil)
			return Request{}, false
		}
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return Request{}, false
	}
	if strings.TrimSpace(body.Text) == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "text is required", []map[string]string{
			{"field": "text", "issue": "empty"},
		})
		return Request{}, false
	}
	return Request{Text: body.Text}, true
}

type lexiconCategory struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Domain string `json:"domain"`
}

func (h *Handler) lexicon(c *gin.Context) {
	lex := h.Svc.Lexicon
	categories := make([]lexiconCategory, 0, len(lex.Categories))
	for _, cat := range lex.Categories {
		domain, err := lex.DomainOf(cat.Name)
		if err != nil {
			respond.Error(c, http.StatusInternalServerError, "internal_error", "lexicon is inconsistent", nil)
			return
		}
		categories = append(categories, lexiconCategory{ID: cat.ID, Name: cat.Name, Domain: domain})
	}

	respond.OK(c, gin.H{
		"categories": categories,
		"domains":    lex.Domains,
		"skills":     lex.Skills,
	})
}

func isTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}

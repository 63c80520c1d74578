package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"authscript/internal/analysis"
	dErrors "authscript/pkg/domain-errors"
	"authscript/pkg/platform/httputil"
	"authscript/pkg/requestcontext"
)

const (
	// maxUploadBytes bounds the multipart form held in memory.
	maxUploadBytes = 32 << 20

	rateLimitRetryAfter = "1"
)

// Service defines the interface for analysis operations.
type Service interface {
	Analyze(ctx context.Context, req analysis.Request) (*analysis.PAForm, error)
}

// Handler wires analysis endpoints to the analysis service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs an analysis handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Register mounts analysis endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/analyze", h.HandleAnalyze)
	r.Post("/analyze/documents", h.HandleAnalyzeDocuments)
}

// HandleAnalyze handles POST /analyze requests.
func (h *Handler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[*AnalyzeRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	h.analyze(w, r, req.ToDomain(nil))
}

// HandleAnalyzeDocuments handles POST /analyze/documents multipart requests:
// a `request` JSON part in the analyze shape plus any number of `documents`
// PDF parts.
func (h *Handler) HandleAnalyzeDocuments(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		h.logger.WarnContext(ctx, "failed to parse multipart form",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid multipart form"))
		return
	}

	var req AnalyzeRequest
	payload := r.FormValue("request")
	if payload == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "request part is required"))
		return
	}
	if err := json.Unmarshal([]byte(payload), &req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "request part is not valid JSON"))
		return
	}
	if err := req.Validate(); err != nil {
		httputil.WriteError(w, err)
		return
	}

	documents, err := h.readDocuments(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	h.analyze(w, r, req.ToDomain(documents))
}

func (h *Handler) readDocuments(r *http.Request) ([]analysis.Document, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}
	var documents []analysis.Document
	for _, header := range r.MultipartForm.File["documents"] {
		file, err := header.Open()
		if err != nil {
			return nil, dErrors.New(dErrors.CodeBadRequest, "unreadable document upload")
		}
		data, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			return nil, dErrors.New(dErrors.CodeBadRequest, "unreadable document upload")
		}
		name := header.Filename
		if !strings.HasSuffix(strings.ToLower(name), ".pdf") {
			return nil, dErrors.New(dErrors.CodeBadRequest, "only PDF documents are supported")
		}
		documents = append(documents, analysis.Document{Name: name, Data: data})
	}
	return documents, nil
}

func (h *Handler) analyze(w http.ResponseWriter, r *http.Request, domainReq analysis.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	form, err := h.service.Analyze(ctx, domainReq)
	if err != nil {
		h.logger.ErrorContext(ctx, "analysis failed",
			"request_id", requestID,
			"procedure_code", domainReq.ProcedureCode,
			"error", err,
		)
		if dErrors.CodeOf(err) == dErrors.CodeRateLimited {
			w.Header().Set("Retry-After", rateLimitRetryAfter)
		}
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "analysis request served",
		"request_id", requestID,
		"analysis_id", form.AnalysisID,
		"procedure_code", domainReq.ProcedureCode,
		"recommendation", form.Recommendation,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	httputil.WriteJSON(w, http.StatusOK, FromForm(form))
}

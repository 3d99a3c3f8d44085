// Package handler exposes the claims registry over HTTP. Handlers shape the
// snapshot through the registry and never touch the store directly.
package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/aryan-dani/FRA-GIS/internal/claims/analytics"
	"github.com/aryan-dani/FRA-GIS/internal/claims/export"
	"github.com/aryan-dani/FRA-GIS/internal/claims/filter"
	"github.com/aryan-dani/FRA-GIS/internal/claims/geo"
	"github.com/aryan-dani/FRA-GIS/internal/claims/models"
	"github.com/aryan-dani/FRA-GIS/internal/claims/registry"
	"github.com/aryan-dani/FRA-GIS/internal/intake"
	"github.com/aryan-dani/FRA-GIS/internal/platform/middleware"
	dErrors "github.com/aryan-dani/FRA-GIS/pkg/domainerrors"
)

// Registry is the slice of the claims registry the handlers consume.
type Registry interface {
	Refresh(ctx context.Context) error
	Snapshot() []models.ClaimRecord
	View(q filter.Query, page, pageSize int) registry.View
	Detail(ctx context.Context, id string) (*registry.Detail, error)
	Create(ctx context.Context, draft models.ClaimRecord) (string, error)
	SetStatus(ctx context.Context, id, rawStatus string) (*models.ClaimRecord, error)
	Analytics() analytics.Summary
	Stats() analytics.Stats
	Markers() []geo.Marker
	WriteCSV(w io.Writer, q filter.Query) error
}

// Processor digitizes uploaded claim documents into drafts.
type Processor interface {
	Process(ctx context.Context, filename string, data []byte) (*intake.Draft, error)
}

// Handler serves the claims endpoints.
type Handler struct {
	logger   *slog.Logger
	registry Registry
	intake   Processor

	maxUploadBytes  int64
	defaultPageSize int
}

// New creates a claims Handler.
func New(reg Registry, proc Processor, logger *slog.Logger, maxUploadBytes int64, defaultPageSize int) *Handler {
	return &Handler{
		logger:          logger,
		registry:        reg,
		intake:          proc,
		maxUploadBytes:  maxUploadBytes,
		defaultPageSize: defaultPageSize,
	}
}

// Register registers the claims routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Get("/claims", h.handleListClaims)
		r.Post("/claims", h.handleCreateClaim)
		r.Get("/claims/view", h.handleViewClaims)
		r.Get("/claims/export", h.handleExportClaims)
		r.Get("/claims/markers", h.handleMarkers)
		r.Get("/claims/{id}", h.handleGetClaim)
		r.Put("/claims/{id}/status", h.handleUpdateStatus)
		r.Post("/process-document", h.handleProcessDocument)
		r.Get("/analytics", h.handleAnalytics)
		r.Get("/stats", h.handleStats)
	})
	r.Get("/healthz", h.handleHealth)
}

// handleListClaims returns every claim in the snapshot as a plain array.
func (h *Handler) handleListClaims(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.registry.Snapshot())
}

// handleViewClaims is the table endpoint: search, filters, and pagination
// over the snapshot, plus the distinct filter options for the dropdowns.
func (h *Handler) handleViewClaims(w http.ResponseWriter, r *http.Request) {
	q := queryFromRequest(r)
	page := intParam(r, "page", 1)
	pageSize := intParam(r, "page_size", h.defaultPageSize)
	if page < 1 || pageSize < 1 {
		writeError(w, dErrors.New(dErrors.CodeBadRequest, "page and page_size must be positive"))
		return
	}
	writeJSON(w, http.StatusOK, h.registry.View(q, page, pageSize))
}

// handleExportClaims streams the filtered snapshot as a CSV attachment.
func (h *Handler) handleExportClaims(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := queryFromRequest(r)

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.FileName))
	if err := h.registry.WriteCSV(w, q); err != nil {
		// Headers are already out; all we can do is log.
		h.logger.ErrorContext(ctx, "csv export failed",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
	}
}

func (h *Handler) handleMarkers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.registry.Markers())
}

func (h *Handler) handleGetClaim(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	detail, err := h.registry.Detail(ctx, id)
	if err != nil {
		h.logError(ctx, "fetch claim", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

// handleCreateClaim accepts a claim submission. Only the claimant name is
// required; the registry fills in defaults for the rest.
func (h *Handler) handleCreateClaim(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var draft models.ClaimRecord
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		writeError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	id, err := h.registry.Create(ctx, draft)
	if err != nil {
		h.logError(ctx, "create claim", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	updated, err := h.registry.SetStatus(ctx, id, req.Status)
	if err != nil {
		h.logError(ctx, "update claim status", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// handleProcessDocument extracts draft claim fields from an uploaded
// document. The same raw text submitted twice is rejected with a conflict.
func (h *Handler) handleProcessDocument(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, dErrors.New(dErrors.CodeBadRequest, "multipart field 'file' is required"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, dErrors.New(dErrors.CodeBadRequest, "upload exceeds the size limit"))
		return
	}

	draft, err := h.intake.Process(ctx, header.Filename, data)
	if err != nil {
		h.logError(ctx, "process document", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, draft)
}

func (h *Handler) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.registry.Analytics())
}

func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.registry.Stats())
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// logError logs at warn for client-caused failures and error otherwise.
func (h *Handler) logError(ctx context.Context, op string, err error) {
	attrs := []any{
		"request_id", middleware.GetRequestID(ctx),
		"error", err.Error(),
	}
	switch dErrors.CodeOf(err) {
	case dErrors.CodeBadRequest, dErrors.CodeNotFound, dErrors.CodeConflict:
		h.logger.WarnContext(ctx, op+" rejected", attrs...)
	default:
		h.logger.ErrorContext(ctx, op+" failed", attrs...)
	}
}

func queryFromRequest(r *http.Request) filter.Query {
	params := r.URL.Query()
	return filter.Query{
		Search:    params.Get("q"),
		State:     params.Get("state"),
		District:  params.Get("district"),
		ClaimType: params.Get("claim_type"),
		Status:    params.Get("status"),
	}
}

func intParam(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return -1
	}
	return n
}

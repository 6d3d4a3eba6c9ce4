package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/popguide/ingest-service/internal/delivery/http/request"
	"github.com/popguide/ingest-service/internal/delivery/http/response"
	"github.com/popguide/ingest-service/internal/usecase"
)

const healthTimeout = 2 * time.Second

// Pinger reports whether a backing service is reachable.
type Pinger func(ctx context.Context) error

type Handler struct {
	runner usecase.IngestRunner
	checks map[string]Pinger
	logger *zap.Logger
}

// NewHandler creates the HTTP handlers. checks are run by the health endpoint, keyed by name.
func NewHandler(runner usecase.IngestRunner, checks map[string]Pinger, logger *zap.Logger) *Handler {
	return &Handler{
		runner: runner,
		checks: checks,
		logger: logger,
	}
}

// HandleScrapeCategory runs one ingestion batch and replies with its statistics.
func (h *Handler) HandleScrapeCategory(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)

	var req request.ScrapeCategoryRequest
	decodeErr := json.NewDecoder(r.Body).Decode(&req)
	category := strings.TrimSpace(req.Category)
	maxItems := 0
	if req.MaxItems != nil && *req.MaxItems > 0 {
		maxItems = *req.MaxItems
	}

	// Without credentials the run fails its own validation and reports it,
	// whatever the body holds.
	if token != "" {
		switch {
		case decodeErr != nil:
			h.writeJSONError(w, "Invalid request body", http.StatusBadRequest)
			return
		case category == "":
			h.writeJSONError(w, "category is required", http.StatusBadRequest)
			return
		case req.MaxItems != nil && *req.MaxItems < 0:
			h.writeJSONError(w, "maxItems must not be negative", http.StatusBadRequest)
			return
		}
	}

	// The batch runs to completion even if the caller hangs up.
	stats, err := h.runner.Run(context.WithoutCancel(r.Context()), usecase.RunRequest{
		Category:  category,
		MaxItems:  maxItems,
		AuthToken: token,
	})
	if errors.Is(err, usecase.ErrRunInProgress) {
		h.writeJSONError(w, err.Error(), http.StatusConflict)
		return
	}
	if err != nil {
		h.writeJSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, response.NewScrapeCategoryResponse(stats))
}

func (h *Handler) HandleHealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	resp := response.HealthResponse{Status: "ok", Checks: make(map[string]string, len(h.checks))}
	status := http.StatusOK
	for name, ping := range h.checks {
		if err := ping(ctx); err != nil {
			h.logger.Warn("health check failed", zap.String("dependency", name), zap.Error(err))
			resp.Checks[name] = err.Error()
			resp.Status = "unavailable"
			status = http.StatusServiceUnavailable
			continue
		}
		resp.Checks[name] = "ok"
	}
	h.writeJSON(w, status, resp)
}

// bearerToken returns the credential from the Authorization header. Only its
// presence is checked; validation belongs to the gateway in front of the service.
func bearerToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return header
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}

func (h *Handler) writeJSONError(w http.ResponseWriter, message string, status int) {
	h.writeJSON(w, status, response.ErrorResponse{Error: message})
}

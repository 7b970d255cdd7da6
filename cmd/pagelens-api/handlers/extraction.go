// Package handlers provides HTTP handlers for the extraction API.
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"os"

	"github.com/google/uuid"

	"github.com/pagelens/pagelens/internal/domain"
	"github.com/pagelens/pagelens/internal/extract"
	"github.com/pagelens/pagelens/internal/observability"
)

// ExtractionHandler handles document extraction requests.
type ExtractionHandler struct {
	logger     *observability.Logger
	service    *extract.Service
	samplePath string
}

// NewExtractionHandler creates a new extraction handler. samplePath is the
// fixed local input served by the diagnostic endpoint.
func NewExtractionHandler(logger *observability.Logger, service *extract.Service, samplePath string) *ExtractionHandler {
	return &ExtractionHandler{
		logger:     logger,
		service:    service,
		samplePath: samplePath,
	}
}

// ExtractionRequestDTO represents the API request for extraction.
type ExtractionRequestDTO struct {
	// File is the base64-encoded document to process.
	File string `json:"file"`
}

// Extract handles POST /api/v1/extract.
func (h *ExtractionHandler) Extract(w http.ResponseWriter, r *http.Request) {
	ctx := observability.ContextWithRequestID(r.Context(), uuid.New().String())

	var reqDTO ExtractionRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&reqDTO); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if reqDTO.File == "" {
		h.writeError(w, http.StatusBadRequest, "file is required", "")
		return
	}

	envelope, err := h.service.Process(ctx, reqDTO.File)
	if err != nil {
		h.writeProcessingError(w, ctx, err)
		return
	}

	h.writeEnvelope(w, envelope)
}

// Sample handles GET /api/v1/extract/sample: it runs the pipeline against a
// fixed local input for smoke-testing a deployment.
func (h *ExtractionHandler) Sample(w http.ResponseWriter, r *http.Request) {
	ctx := observability.ContextWithRequestID(r.Context(), uuid.New().String())

	data, err := os.ReadFile(h.samplePath)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "sample input unavailable", err.Error())
		return
	}

	envelope, err := h.service.ProcessBytes(ctx, data)
	if err != nil {
		h.writeProcessingError(w, ctx, err)
		return
	}

	h.writeEnvelope(w, envelope)
}

func (h *ExtractionHandler) writeEnvelope(w http.ResponseWriter, envelope domain.Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(envelope)
}

func (h *ExtractionHandler) writeProcessingError(w http.ResponseWriter, ctx context.Context, err error) {
	status := statusForError(err)
	logger := h.logger.WithContext(ctx)
	if status >= http.StatusInternalServerError {
		logger.Error().Err(err).Msg("Extraction failed")
	} else {
		logger.Warn().Err(err).Msg("Extraction rejected")
	}
	h.writeError(w, status, string(domain.TypeOf(err)), err.Error())
}

// statusForError maps the domain error taxonomy to HTTP statuses.
func statusForError(err error) int {
	switch domain.TypeOf(err) {
	case domain.ErrorTypeMalformedPayload:
		return http.StatusBadRequest
	case domain.ErrorTypeUnsupportedDocument:
		return http.StatusUnprocessableEntity
	case domain.ErrorTypeEngineUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (h *ExtractionHandler) writeError(w http.ResponseWriter, status int, message, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	resp := map[string]string{
		"error":   message,
		"message": message,
	}
	if detail != "" {
		resp["detail"] = detail
	}
	json.NewEncoder(w).Encode(resp)
}

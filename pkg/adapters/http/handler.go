// Copyright Gentext Gateway Authors
// SPDX-License-Identifier: Apache-2.0

// Package http implements the HTTP adapter exposing the extraction API.
package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gentext/gentext-gw/pkg/archive"
	"github.com/gentext/gentext-gw/pkg/core/schema"
	"github.com/gentext/gentext-gw/pkg/core/services"
	"github.com/gentext/gentext-gw/pkg/observability/logging"
	"github.com/gentext/gentext-gw/pkg/storage"
)

// maxPayloadBytes caps request bodies on the extraction endpoints.
const maxPayloadBytes = 10 << 20 // 10 MiB

// Handler implements the HTTP adapter
type Handler struct {
	service *services.ExtractionService
	logger  *logging.Logger
	mux     *http.ServeMux
	baseURL string
}

// New creates a new HTTP handler. baseURL is used to build absolute
// resource URLs in responses.
func New(service *services.ExtractionService, logger *logging.Logger, baseURL string) *Handler {
	h := &Handler{
		service: service,
		logger:  logger,
		mux:     http.NewServeMux(),
		baseURL: baseURL,
	}

	h.mux.HandleFunc("GET /health", h.handleHealth)

	// Extractions API
	h.mux.HandleFunc("POST /v1/extractions", h.handleCreateExtraction)
	h.mux.HandleFunc("GET /v1/extractions", h.handleListExtractions)
	h.mux.HandleFunc("GET /v1/extractions/{id}", h.handleGetExtraction)
	h.mux.HandleFunc("DELETE /v1/extractions/{id}", h.handleDeleteExtraction)
	h.mux.HandleFunc("GET /v1/extractions/{id}/payload", h.handleGetPayload)

	// Stateless extraction
	h.mux.HandleFunc("POST /v1/extract", h.handleExtract)

	return h
}

// ServeHTTP implements http.Handler
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.logger.Info("Request",
		"method", r.Method,
		"path", r.URL.Path,
		"remote_addr", r.RemoteAddr)

	h.mux.ServeHTTP(w, r)
}

// handleHealth handles health check requests
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status": "healthy",
	})
}

// handleCreateExtraction handles POST /v1/extractions
func (h *Handler) handleCreateExtraction(w http.ResponseWriter, r *http.Request) {
	var req schema.ExtractionRequest
	body := http.MaxBytesReader(w, r.Body, maxPayloadBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		h.logger.Error("Failed to parse request", "error", err)
		h.writeError(w, http.StatusBadRequest, "invalid_request", "Failed to parse request body")
		return
	}

	ext, err := h.service.CreateExtraction(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, schema.ErrInvalidRequest), errors.Is(err, services.ErrNoUpstream):
			h.writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		default:
			h.logger.Error("Failed to create extraction", "error", err)
			h.writeError(w, http.StatusInternalServerError, "processing_error", err.Error())
		}
		return
	}

	h.decorate(ext)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(ext)
}

// handleExtract handles POST /v1/extract. The body is treated as a raw
// upstream payload of any shape; nothing is persisted.
func (h *Handler) handleExtract(w http.ResponseWriter, r *http.Request) {
	body := http.MaxBytesReader(w, r.Body, maxPayloadBytes)
	payload, err := io.ReadAll(body)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			h.writeError(w, http.StatusRequestEntityTooLarge, "invalid_request", "Request body too large")
			return
		}
		h.writeError(w, http.StatusBadRequest, "invalid_request", "Failed to read request body")
		return
	}

	ext := h.service.Extract(payload, r.URL.Query().Get("provider"))

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(ext)
}

// handleListExtractions handles GET /v1/extractions
func (h *Handler) handleListExtractions(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	after := query.Get("after")
	before := query.Get("before")
	order := query.Get("order")
	if order == "" {
		order = "desc"
	}

	limit := 50 // default
	if limitStr := query.Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 100 {
			limit = l
		}
	}

	list, err := h.service.ListExtractions(r.Context(), after, before, limit, order)
	if err != nil {
		h.logger.Error("Failed to list extractions", "error", err)
		h.writeError(w, http.StatusInternalServerError, "list_error", err.Error())
		return
	}

	for _, ext := range list.Data {
		h.decorate(ext)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(list)
}

// handleGetExtraction handles GET /v1/extractions/{id}
func (h *Handler) handleGetExtraction(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	ext, err := h.service.GetExtraction(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrExtractionNotFound) {
			h.writeError(w, http.StatusNotFound, "not_found", "Extraction not found")
			return
		}
		h.logger.Error("Failed to get extraction", "error", err, "id", id)
		h.writeError(w, http.StatusInternalServerError, "storage_error", err.Error())
		return
	}

	h.decorate(ext)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(ext)
}

// handleDeleteExtraction handles DELETE /v1/extractions/{id}
func (h *Handler) handleDeleteExtraction(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if err := h.service.DeleteExtraction(r.Context(), id); err != nil {
		if errors.Is(err, storage.ErrExtractionNotFound) {
			h.writeError(w, http.StatusNotFound, "not_found", "Extraction not found")
			return
		}
		h.logger.Error("Failed to delete extraction", "error", err, "id", id)
		h.writeError(w, http.StatusInternalServerError, "storage_error", err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"id":      id,
		"object":  "extraction.deleted",
		"deleted": true,
	})
}

// handleGetPayload handles GET /v1/extractions/{id}/payload. The archived
// raw payload is returned verbatim with its original content type.
func (h *Handler) handleGetPayload(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	p, err := h.service.GetPayload(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrExtractionNotFound) || errors.Is(err, archive.ErrPayloadNotFound) {
			h.writeError(w, http.StatusNotFound, "not_found", "Payload not found")
			return
		}
		h.logger.Error("Failed to get payload", "error", err, "id", id)
		h.writeError(w, http.StatusInternalServerError, "archive_error", err.Error())
		return
	}

	w.Header().Set("Content-Type", p.ContentType)
	w.WriteHeader(http.StatusOK)
	w.Write(p.Content)
}

// decorate fills the absolute resource URLs on a persisted record.
func (h *Handler) decorate(ext *schema.Extraction) {
	if ext.ID == "" {
		return
	}
	ext.URL = h.baseURL + "/v1/extractions/" + ext.ID
	ext.PayloadURL = ext.URL + "/payload"
}

// writeError writes an error response envelope
func (h *Handler) writeError(w http.ResponseWriter, status int, errType, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error": schema.ErrorField{
			Type:    errType,
			Message: message,
		},
	})
}

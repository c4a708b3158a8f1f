// Copyright Gentext Gateway Authors
// SPDX-License-Identifier: Apache-2.0

// Package services implements the business logic of the gateway, sitting
// between the HTTP adapter and the storage backends.
package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gentext/gentext-gw/pkg/archive"
	"github.com/gentext/gentext-gw/pkg/core/api"
	"github.com/gentext/gentext-gw/pkg/core/extract"
	"github.com/gentext/gentext-gw/pkg/core/schema"
	"github.com/gentext/gentext-gw/pkg/observability/logging"
	"github.com/gentext/gentext-gw/pkg/storage"
)

// ErrNoUpstream is returned when a request asks the gateway to fetch from
// an upstream but none is configured.
var ErrNoUpstream = errors.New("no upstream backend configured")

// ExtractionService turns raw upstream payloads into extraction records.
type ExtractionService struct {
	store    storage.ExtractionStore
	payloads archive.Archive
	upstream api.UpstreamClient
	logger   *logging.Logger
}

// NewExtractionService creates an ExtractionService. The upstream client
// may be nil, in which case fetch-and-extract requests are rejected.
func NewExtractionService(store storage.ExtractionStore, payloads archive.Archive, upstream api.UpstreamClient, logger *logging.Logger) *ExtractionService {
	return &ExtractionService{
		store:    store,
		payloads: payloads,
		upstream: upstream,
		logger:   logger,
	}
}

// Extract runs shape detection and text extraction over a raw payload
// without persisting anything. It is total: any payload, including garbage
// bytes, yields a result.
func (s *ExtractionService) Extract(payload []byte, providerHint string) *schema.Extraction {
	ext := schema.NewExtraction("")
	ext.Provider = providerHint
	ext.Shape, ext.Text = sniffAndExtract(payload)
	ext.Chars = len(ext.Text)
	return ext
}

// CreateExtraction resolves the request's payload (inline or fetched from
// the upstream), extracts text, persists the record, and archives the raw
// payload.
func (s *ExtractionService) CreateExtraction(ctx context.Context, req *schema.ExtractionRequest) (*schema.Extraction, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	payload := []byte(req.Payload)
	if req.Source != nil {
		if s.upstream == nil {
			return nil, ErrNoUpstream
		}
		fetched, err := s.upstream.FetchPayload(ctx, req.Source.Model, req.Source.Input)
		if err != nil {
			return nil, fmt.Errorf("fetch payload: %w", err)
		}
		payload = []byte(fetched)
	}

	ext := schema.NewExtraction(generateID("ext_"))
	ext.Provider = req.Provider
	ext.Metadata = req.Metadata
	ext.Shape, ext.Text = sniffAndExtract(payload)
	ext.Chars = len(ext.Text)

	if err := s.store.SaveExtraction(ctx, ext); err != nil {
		return nil, fmt.Errorf("save extraction: %w", err)
	}

	if err := s.payloads.PutPayload(ctx, &archive.Payload{
		ExtractionID: ext.ID,
		ContentType:  contentTypeFor(ext.Shape),
		Bytes:        int64(len(payload)),
		Content:      payload,
		StoredAt:     time.Now().UTC(),
	}); err != nil {
		// The record exists but the raw payload does not. Undo the save so
		// callers never see a record whose payload endpoint 404s.
		_ = s.store.DeleteExtraction(ctx, ext.ID)
		return nil, fmt.Errorf("archive payload: %w", err)
	}

	s.logger.DebugEvent("extraction.created",
		"id", ext.ID,
		"shape", ext.Shape,
		"chars", ext.Chars,
		"provider", ext.Provider)

	return ext, nil
}

// GetExtraction retrieves an extraction record by ID.
func (s *ExtractionService) GetExtraction(ctx context.Context, id string) (*schema.Extraction, error) {
	return s.store.GetExtraction(ctx, id)
}

// ListExtractions returns a page of extraction records.
func (s *ExtractionService) ListExtractions(ctx context.Context, after, before string, limit int, order string) (*schema.ExtractionList, error) {
	exts, hasMore, err := s.store.ListExtractionsPaginated(ctx, after, before, limit, order)
	if err != nil {
		return nil, err
	}

	list := &schema.ExtractionList{
		Object:  "list",
		Data:    exts,
		HasMore: hasMore,
	}
	if len(exts) > 0 {
		list.FirstID = exts[0].ID
		list.LastID = exts[len(exts)-1].ID
	}
	return list, nil
}

// DeleteExtraction removes the record and its archived payload.
func (s *ExtractionService) DeleteExtraction(ctx context.Context, id string) error {
	if err := s.store.DeleteExtraction(ctx, id); err != nil {
		return err
	}
	// The payload may be missing if a previous delete was interrupted.
	if err := s.payloads.DeletePayload(ctx, id); err != nil && !errors.Is(err, archive.ErrPayloadNotFound) {
		return fmt.Errorf("delete payload: %w", err)
	}
	s.logger.DebugEvent("extraction.deleted", "id", id)
	return nil
}

// GetPayload retrieves the archived raw payload for an extraction.
func (s *ExtractionService) GetPayload(ctx context.Context, id string) (*archive.Payload, error) {
	// Surface a storage not-found for unknown IDs rather than leaking
	// archive internals.
	if _, err := s.store.GetExtraction(ctx, id); err != nil {
		return nil, err
	}
	return s.payloads.GetPayload(ctx, id)
}

// sniffAndExtract decides whether the payload is structured JSON or markup
// and extracts text accordingly.
func sniffAndExtract(payload []byte) (shape, text string) {
	if len(payload) == 0 {
		return extract.ShapeNone, ""
	}

	var v interface{}
	if err := json.Unmarshal(payload, &v); err == nil {
		text, shape = extract.Text(v)
		return shape, text
	}

	// Not JSON: fall back to markup extraction.
	return extract.ShapeHTML, extract.FromHTML(payload)
}

func contentTypeFor(shape string) string {
	if shape == extract.ShapeHTML {
		return "text/html"
	}
	return "application/json"
}

func generateID(prefix string) string {
	b := make([]byte, 16)
	rand.Read(b)
	return prefix + hex.EncodeToString(b)
}

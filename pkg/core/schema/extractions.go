// Copyright Gentext Gateway Authors
// SPDX-License-Identifier: Apache-2.0

package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrInvalidRequest is wrapped by all request validation failures so the
// HTTP adapter can map them to 400 responses.
var ErrInvalidRequest = errors.New("invalid request")

// ExtractionRequest represents a request to the /v1/extractions endpoint.
// Callers submit either a raw upstream payload or a fetch source; exactly
// one of the two must be present.
type ExtractionRequest struct {
	// Provider is an optional hint naming the upstream that produced the
	// payload (e.g. "gemini", "openai"). Informational only; shape
	// detection never trusts it.
	Provider string `json:"provider,omitempty"`

	// Payload is the raw upstream response body. No schema is enforced:
	// robustness to malformed payloads is the point of the service.
	Payload json.RawMessage `json:"payload,omitempty"`

	// Source asks the gateway to call the configured upstream itself and
	// extract from whatever comes back.
	Source *FetchSource `json:"source,omitempty"`

	// Metadata key-value pairs (max 16, 512 chars per value)
	Metadata map[string]string `json:"metadata,omitempty"`
}

// FetchSource describes an upstream fetch-and-extract request.
type FetchSource struct {
	Model string `json:"model,omitempty"` // falls back to the configured default
	Input string `json:"input"`
}

// Extraction is a recorded extraction result.
type Extraction struct {
	// Unique identifier
	ID string `json:"id"`

	// Object type, always "extraction"
	Object string `json:"object"`

	// Creation timestamp
	CreatedAt int64 `json:"created_at"`

	// Provider hint echoed from the request
	Provider string `json:"provider,omitempty"`

	// Shape that resolved the text (see pkg/core/extract shape labels)
	Shape string `json:"shape"`

	// Extracted text; empty means "no text available", not an error
	Text string `json:"text"`

	// Chars is len(Text) in bytes
	Chars int `json:"chars"`

	// Metadata (echoed from request)
	Metadata map[string]string `json:"metadata,omitempty"`

	// Absolute resource URLs, filled by the HTTP adapter from the
	// configured base URL. Not persisted.
	URL        string `json:"url,omitempty"`
	PayloadURL string `json:"payload_url,omitempty"`
}

// ExtractionList is the list envelope returned by GET /v1/extractions.
type ExtractionList struct {
	Object  string        `json:"object"` // always "list"
	Data    []*Extraction `json:"data"`
	FirstID string        `json:"first_id,omitempty"`
	LastID  string        `json:"last_id,omitempty"`
	HasMore bool          `json:"has_more"`
}

// ErrorField represents error information
type ErrorField struct {
	Type    string  `json:"type"`
	Code    *string `json:"code,omitempty"`
	Message string  `json:"message"`
	Param   *string `json:"param,omitempty"`
}

// Validate validates the request
func (r *ExtractionRequest) Validate() error {
	hasPayload := len(r.Payload) > 0
	hasSource := r.Source != nil
	if hasPayload == hasSource {
		return fmt.Errorf("%w: exactly one of 'payload' or 'source' is required", ErrInvalidRequest)
	}
	if hasSource && r.Source.Input == "" {
		return fmt.Errorf("%w: source.input is required", ErrInvalidRequest)
	}
	if len(r.Metadata) > 16 {
		return fmt.Errorf("%w: metadata supports at most 16 keys", ErrInvalidRequest)
	}
	for k, v := range r.Metadata {
		if len(v) > 512 {
			return fmt.Errorf("%w: metadata value for %q exceeds 512 characters", ErrInvalidRequest, k)
		}
	}
	return nil
}

// NewExtraction creates a new Extraction with defaults
func NewExtraction(id string) *Extraction {
	return &Extraction{
		ID:        id,
		Object:    "extraction",
		CreatedAt: time.Now().Unix(),
	}
}

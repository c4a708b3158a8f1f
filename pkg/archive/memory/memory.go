// Copyright Gentext Gateway Authors
// SPDX-License-Identifier: Apache-2.0

package memory

import (
	"context"
	"sync"

	"github.com/gentext/gentext-gw/pkg/archive"
)

func init() {
	archive.Providers.Register("memory", func(_ context.Context, _ map[string]string) (archive.Archive, error) {
		return New(), nil
	})
}

// compile-time check
var _ archive.Archive = (*Archive)(nil)

// Archive is an in-memory payload archive.
type Archive struct {
	mu       sync.RWMutex
	payloads map[string]*archive.Payload
}

// New creates a new in-memory archive
func New() *Archive {
	return &Archive{
		payloads: make(map[string]*archive.Payload),
	}
}

// PutPayload stores a payload, overwriting any previous payload for the
// same extraction.
func (a *Archive) PutPayload(_ context.Context, p *archive.Payload) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	cp := *p
	cp.Content = append([]byte(nil), p.Content...)
	a.payloads[p.ExtractionID] = &cp
	return nil
}

// GetPayload retrieves a payload by extraction ID.
func (a *Archive) GetPayload(_ context.Context, extractionID string) (*archive.Payload, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	p, exists := a.payloads[extractionID]
	if !exists {
		return nil, archive.ErrPayloadNotFound
	}
	cp := *p
	cp.Content = append([]byte(nil), p.Content...)
	return &cp, nil
}

// DeletePayload removes a payload.
func (a *Archive) DeletePayload(_ context.Context, extractionID string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if _, exists := a.payloads[extractionID]; !exists {
		return archive.ErrPayloadNotFound
	}
	delete(a.payloads, extractionID)
	return nil
}

// Close is a no-op for the in-memory archive.
func (a *Archive) Close(_ context.Context) error {
	return nil
}

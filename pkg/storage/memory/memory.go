// Copyright Gentext Gateway Authors
// SPDX-License-Identifier: Apache-2.0

package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/gentext/gentext-gw/pkg/core/schema"
	"github.com/gentext/gentext-gw/pkg/storage"
)

func init() {
	storage.Providers.Register("memory", func(_ context.Context, _ map[string]string) (storage.ExtractionStore, error) {
		return New(), nil
	})
}

// compile-time check
var _ storage.ExtractionStore = (*Store)(nil)

// Store is an in-memory implementation of ExtractionStore.
type Store struct {
	mu          sync.RWMutex
	extractions map[string]*schema.Extraction
	order       []string // insertion order, oldest first
}

// New creates a new in-memory store
func New() *Store {
	return &Store{
		extractions: make(map[string]*schema.Extraction),
	}
}

// copyExtraction clones a record including its metadata map, so the store
// never shares mutable state with callers.
func copyExtraction(ext *schema.Extraction) *schema.Extraction {
	cp := *ext
	if ext.Metadata != nil {
		cp.Metadata = make(map[string]string, len(ext.Metadata))
		for k, v := range ext.Metadata {
			cp.Metadata[k] = v
		}
	}
	return &cp
}

// SaveExtraction saves an extraction record, overwriting any previous
// record with the same ID.
func (s *Store) SaveExtraction(_ context.Context, ext *schema.Extraction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.extractions[ext.ID]; !exists {
		s.order = append(s.order, ext.ID)
	}
	s.extractions[ext.ID] = copyExtraction(ext)
	return nil
}

// GetExtraction retrieves an extraction record by ID.
func (s *Store) GetExtraction(_ context.Context, id string) (*schema.Extraction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ext, exists := s.extractions[id]
	if !exists {
		return nil, storage.ErrExtractionNotFound
	}
	return copyExtraction(ext), nil
}

// DeleteExtraction deletes an extraction record.
func (s *Store) DeleteExtraction(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.extractions[id]; !exists {
		return storage.ErrExtractionNotFound
	}
	delete(s.extractions, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// ListExtractionsPaginated lists extraction records sorted by creation time
// with cursor-based pagination.
func (s *Store) ListExtractionsPaginated(_ context.Context, after, before string, limit int, order string) ([]*schema.Extraction, bool, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	s.mu.RLock()
	all := make([]*schema.Extraction, 0, len(s.extractions))
	for _, id := range s.order {
		all = append(all, copyExtraction(s.extractions[id]))
	}
	s.mu.RUnlock()

	sort.SliceStable(all, func(i, j int) bool {
		if order == "asc" {
			return all[i].CreatedAt < all[j].CreatedAt
		}
		return all[i].CreatedAt > all[j].CreatedAt
	})

	var filtered []*schema.Extraction
	foundAfter := after == ""

	for _, ext := range all {
		if after != "" && !foundAfter {
			if ext.ID == after {
				foundAfter = true
			}
			continue
		}

		if before != "" && ext.ID == before {
			break
		}

		filtered = append(filtered, ext)

		if len(filtered) >= limit {
			break
		}
	}

	hasMore := len(all) > len(filtered) && len(filtered) == limit

	return filtered, hasMore, nil
}

// Close is a no-op for the in-memory store.
func (s *Store) Close(_ context.Context) error {
	return nil
}

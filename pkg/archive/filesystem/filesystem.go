// Copyright Gentext Gateway Authors
// SPDX-License-Identifier: Apache-2.0

package filesystem

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gentext/gentext-gw/pkg/archive"
)

func init() {
	archive.Providers.Register("filesystem", func(_ context.Context, params map[string]string) (archive.Archive, error) {
		return New(params["base_dir"])
	})
}

// compile-time check
var _ archive.Archive = (*Archive)(nil)

// payloadMetadata is the on-disk representation stored in metadata.json.
type payloadMetadata struct {
	ExtractionID string    `json:"extraction_id"`
	ContentType  string    `json:"content_type"`
	Bytes        int64     `json:"bytes"`
	StoredAt     time.Time `json:"stored_at"`
}

// Archive stores payloads on a local filesystem.
//
// Layout:
//
//	<baseDir>/<extraction_id>/payload        — raw payload bytes
//	<baseDir>/<extraction_id>/metadata.json  — JSON metadata sidecar
type Archive struct {
	baseDir string
}

// New creates a filesystem-backed Archive, creating baseDir if it does not
// exist.
func New(baseDir string) (*Archive, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create base dir %s: %w", baseDir, err)
	}
	return &Archive{baseDir: baseDir}, nil
}

// PutPayload writes the payload content and metadata to disk atomically.
func (a *Archive) PutPayload(_ context.Context, p *archive.Payload) error {
	dir := filepath.Join(a.baseDir, p.ExtractionID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create payload dir: %w", err)
	}

	// Write content atomically (temp file + rename)
	contentPath := filepath.Join(dir, "payload")
	tmpContent := contentPath + ".tmp"
	if err := os.WriteFile(tmpContent, p.Content, 0o644); err != nil {
		return fmt.Errorf("write payload: %w", err)
	}
	if err := os.Rename(tmpContent, contentPath); err != nil {
		return fmt.Errorf("rename payload: %w", err)
	}

	meta := payloadMetadata{
		ExtractionID: p.ExtractionID,
		ContentType:  p.ContentType,
		Bytes:        p.Bytes,
		StoredAt:     p.StoredAt,
	}
	metaBytes, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}

	metaPath := filepath.Join(dir, "metadata.json")
	tmpMeta := metaPath + ".tmp"
	if err := os.WriteFile(tmpMeta, metaBytes, 0o644); err != nil {
		return fmt.Errorf("write metadata: %w", err)
	}
	if err := os.Rename(tmpMeta, metaPath); err != nil {
		return fmt.Errorf("rename metadata: %w", err)
	}

	return nil
}

// GetPayload reads the payload content and metadata back.
func (a *Archive) GetPayload(_ context.Context, extractionID string) (*archive.Payload, error) {
	meta, err := a.readMetadata(extractionID)
	if err != nil {
		return nil, err
	}

	contentPath := filepath.Join(a.baseDir, extractionID, "payload")
	content, err := os.ReadFile(contentPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("payload %s: %w", extractionID, archive.ErrPayloadNotFound)
		}
		return nil, fmt.Errorf("read payload: %w", err)
	}

	return &archive.Payload{
		ExtractionID: meta.ExtractionID,
		ContentType:  meta.ContentType,
		Bytes:        meta.Bytes,
		Content:      content,
		StoredAt:     meta.StoredAt,
	}, nil
}

// DeletePayload removes the payload directory and all its contents.
func (a *Archive) DeletePayload(_ context.Context, extractionID string) error {
	dir := filepath.Join(a.baseDir, extractionID)
	if _, err := os.Stat(dir); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("payload %s: %w", extractionID, archive.ErrPayloadNotFound)
		}
		return fmt.Errorf("stat payload dir: %w", err)
	}
	return os.RemoveAll(dir)
}

// Close is a no-op for the filesystem archive.
func (a *Archive) Close(_ context.Context) error {
	return nil
}

// readMetadata reads and unmarshals the metadata.json for an extraction ID.
func (a *Archive) readMetadata(extractionID string) (*payloadMetadata, error) {
	metaPath := filepath.Join(a.baseDir, extractionID, "metadata.json")
	data, err := os.ReadFile(metaPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("payload %s: %w", extractionID, archive.ErrPayloadNotFound)
		}
		return nil, fmt.Errorf("read metadata: %w", err)
	}

	var meta payloadMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("unmarshal metadata for %s: %w", extractionID, err)
	}
	return &meta, nil
}

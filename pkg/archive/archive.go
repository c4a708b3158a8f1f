// Copyright Gentext Gateway Authors
// SPDX-License-Identifier: Apache-2.0

// Package archive stores the raw upstream payloads behind extraction
// records, so operators can audit exactly what a provider sent when an
// extraction looks wrong.
package archive

import (
	"context"
	"errors"
	"time"

	"github.com/gentext/gentext-gw/pkg/provider"
)

// ErrPayloadNotFound is returned when a payload does not exist.
var ErrPayloadNotFound = errors.New("payload not found")

// Providers is the registry of archive backend implementations.
// Import implementation packages with blank imports to register them:
//
//	import _ "github.com/gentext/gentext-gw/pkg/archive/memory"
//	import _ "github.com/gentext/gentext-gw/pkg/archive/filesystem"
//	import _ "github.com/gentext/gentext-gw/pkg/archive/s3"
var Providers = provider.NewRegistry[Archive]("archive")

// Payload is a raw upstream payload keyed by the extraction it produced.
type Payload struct {
	ExtractionID string
	ContentType  string // e.g. "application/json", "text/html"
	Bytes        int64
	Content      []byte // populated for PutPayload input and GetPayload output
	StoredAt     time.Time
}

// Archive defines the interface for pluggable raw payload storage backends.
type Archive interface {
	PutPayload(ctx context.Context, p *Payload) error
	GetPayload(ctx context.Context, extractionID string) (*Payload, error)
	DeletePayload(ctx context.Context, extractionID string) error
	Close(ctx context.Context) error
}

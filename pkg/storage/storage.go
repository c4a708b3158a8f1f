// Copyright Gentext Gateway Authors
// SPDX-License-Identifier: Apache-2.0

package storage

import (
	"context"
	"errors"

	"github.com/gentext/gentext-gw/pkg/core/schema"
	"github.com/gentext/gentext-gw/pkg/provider"
)

// ErrExtractionNotFound is returned when an extraction record does not exist.
var ErrExtractionNotFound = errors.New("extraction not found")

// Providers is the registry of extraction store implementations.
// Import implementation packages with blank imports to register them:
//
//	import _ "github.com/gentext/gentext-gw/pkg/storage/memory"
//	import _ "github.com/gentext/gentext-gw/pkg/storage/postgres"
//	import _ "github.com/gentext/gentext-gw/pkg/storage/sqlite"
var Providers = provider.NewRegistry[ExtractionStore]("storage")

// ExtractionStore defines the interface for pluggable extraction record
// storage backends.
type ExtractionStore interface {
	SaveExtraction(ctx context.Context, ext *schema.Extraction) error
	GetExtraction(ctx context.Context, id string) (*schema.Extraction, error)
	DeleteExtraction(ctx context.Context, id string) error
	ListExtractionsPaginated(ctx context.Context, after, before string, limit int, order string) ([]*schema.Extraction, bool, error)
	Close(ctx context.Context) error
}

// Copyright Gentext Gateway Authors
// SPDX-License-Identifier: Apache-2.0

package postgres

import (
	"context"
	"os"
	"testing"

	"github.com/gentext/gentext-gw/pkg/core/schema"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("Skipping postgres tests: TEST_DATABASE_URL must be set")
	}
	s, err := New(dsn)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() {
		s.db.Exec(`DELETE FROM extractions`)
		s.Close(context.Background())
	})
	return s
}

func TestListExtractionsPaginated_SameCreationSecond(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	// Records created within the same second share a created_at value; the
	// cursor must still reach every one of them.
	for _, id := range []string{"ext_a", "ext_b", "ext_c"} {
		ext := schema.NewExtraction(id)
		ext.CreatedAt = 1700000000
		if err := s.SaveExtraction(ctx, ext); err != nil {
			t.Fatalf("SaveExtraction: %v", err)
		}
	}

	page1, hasMore, err := s.ListExtractionsPaginated(ctx, "", "", 2, "asc")
	if err != nil {
		t.Fatalf("ListExtractionsPaginated: %v", err)
	}
	if len(page1) != 2 || !hasMore {
		t.Fatalf("page1 len = %d, hasMore = %v, want 2/true", len(page1), hasMore)
	}

	page2, hasMore, err := s.ListExtractionsPaginated(ctx, page1[1].ID, "", 2, "asc")
	if err != nil {
		t.Fatalf("ListExtractionsPaginated: %v", err)
	}
	if len(page2) != 1 || hasMore {
		t.Fatalf("page2 len = %d, hasMore = %v, want 1/false", len(page2), hasMore)
	}
}

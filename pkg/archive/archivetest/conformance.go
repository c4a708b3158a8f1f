// Copyright Gentext Gateway Authors
// SPDX-License-Identifier: Apache-2.0

// Package archivetest provides a shared conformance test suite for
// archive.Archive implementations. Each backend should call
// RunConformanceTests from its own _test.go file.
package archivetest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gentext/gentext-gw/pkg/archive"
)

// RunConformanceTests exercises an Archive implementation against the
// shared contract. The newArchive function is called once per sub-test to
// provide an isolated instance.
func RunConformanceTests(t *testing.T, newArchive func(t *testing.T) archive.Archive) {
	t.Helper()

	t.Run("PutAndGet", func(t *testing.T) {
		a := newArchive(t)
		defer a.Close(context.Background())
		ctx := context.Background()

		content := []byte(`{"choices":[{"message":{"content":"hi"}}]}`)
		p := &archive.Payload{
			ExtractionID: "ext_conf1",
			ContentType:  "application/json",
			Bytes:        int64(len(content)),
			Content:      content,
			StoredAt:     time.Now().UTC().Truncate(time.Millisecond),
		}
		if err := a.PutPayload(ctx, p); err != nil {
			t.Fatalf("PutPayload: %v", err)
		}

		got, err := a.GetPayload(ctx, p.ExtractionID)
		if err != nil {
			t.Fatalf("GetPayload: %v", err)
		}
		if string(got.Content) != string(content) {
			t.Errorf("content mismatch: got %q, want %q", got.Content, content)
		}
		if got.ContentType != p.ContentType || got.Bytes != p.Bytes {
			t.Errorf("GetPayload returned unexpected metadata: %+v", got)
		}
	})

	t.Run("GetMissing", func(t *testing.T) {
		a := newArchive(t)
		defer a.Close(context.Background())

		_, err := a.GetPayload(context.Background(), "ext_never_stored")
		if !errors.Is(err, archive.ErrPayloadNotFound) {
			t.Errorf("GetPayload: error = %v, want ErrPayloadNotFound", err)
		}
	})

	t.Run("Overwrite", func(t *testing.T) {
		a := newArchive(t)
		defer a.Close(context.Background())
		ctx := context.Background()

		for _, body := range []string{"first", "second"} {
			p := &archive.Payload{
				ExtractionID: "ext_conf2",
				ContentType:  "text/plain",
				Bytes:        int64(len(body)),
				Content:      []byte(body),
				StoredAt:     time.Now().UTC(),
			}
			if err := a.PutPayload(ctx, p); err != nil {
				t.Fatalf("PutPayload(%q): %v", body, err)
			}
		}

		got, err := a.GetPayload(ctx, "ext_conf2")
		if err != nil {
			t.Fatalf("GetPayload: %v", err)
		}
		if string(got.Content) != "second" {
			t.Errorf("content = %q, want %q", got.Content, "second")
		}
	})

	t.Run("Delete", func(t *testing.T) {
		a := newArchive(t)
		defer a.Close(context.Background())
		ctx := context.Background()

		p := &archive.Payload{
			ExtractionID: "ext_conf3",
			ContentType:  "text/plain",
			Bytes:        3,
			Content:      []byte("bye"),
			StoredAt:     time.Now().UTC(),
		}
		if err := a.PutPayload(ctx, p); err != nil {
			t.Fatalf("PutPayload: %v", err)
		}
		if err := a.DeletePayload(ctx, p.ExtractionID); err != nil {
			t.Fatalf("DeletePayload: %v", err)
		}
		if _, err := a.GetPayload(ctx, p.ExtractionID); !errors.Is(err, archive.ErrPayloadNotFound) {
			t.Errorf("GetPayload after delete: error = %v, want ErrPayloadNotFound", err)
		}
	})

	t.Run("DeleteMissing", func(t *testing.T) {
		a := newArchive(t)
		defer a.Close(context.Background())

		err := a.DeletePayload(context.Background(), "ext_never_stored")
		if !errors.Is(err, archive.ErrPayloadNotFound) {
			t.Errorf("DeletePayload: error = %v, want ErrPayloadNotFound", err)
		}
	})
}

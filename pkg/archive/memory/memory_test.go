// Copyright Gentext Gateway Authors
// SPDX-License-Identifier: Apache-2.0

package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gentext/gentext-gw/pkg/archive"
	"github.com/gentext/gentext-gw/pkg/archive/archivetest"
)

func TestConformance(t *testing.T) {
	archivetest.RunConformanceTests(t, func(t *testing.T) archive.Archive {
		return New()
	})
}

func TestPutGetPayload(t *testing.T) {
	ctx := context.Background()
	a := New()

	p := &archive.Payload{
		ExtractionID: "ext_1",
		ContentType:  "application/json",
		Bytes:        2,
		Content:      []byte(`{}`),
		StoredAt:     time.Now().UTC(),
	}
	if err := a.PutPayload(ctx, p); err != nil {
		t.Fatalf("PutPayload() error = %v", err)
	}

	got, err := a.GetPayload(ctx, "ext_1")
	if err != nil {
		t.Fatalf("GetPayload() error = %v", err)
	}
	if string(got.Content) != `{}` {
		t.Errorf("Content = %q, want %q", got.Content, `{}`)
	}
	if got.ContentType != "application/json" {
		t.Errorf("ContentType = %q, want application/json", got.ContentType)
	}
}

func TestGetPayloadNotFound(t *testing.T) {
	a := New()
	_, err := a.GetPayload(context.Background(), "ext_missing")
	if !errors.Is(err, archive.ErrPayloadNotFound) {
		t.Errorf("GetPayload() error = %v, want ErrPayloadNotFound", err)
	}
}

func TestDeletePayload(t *testing.T) {
	ctx := context.Background()
	a := New()

	p := &archive.Payload{ExtractionID: "ext_2", ContentType: "text/html", Content: []byte("<p>hi</p>")}
	if err := a.PutPayload(ctx, p); err != nil {
		t.Fatalf("PutPayload() error = %v", err)
	}
	if err := a.DeletePayload(ctx, "ext_2"); err != nil {
		t.Fatalf("DeletePayload() error = %v", err)
	}
	if _, err := a.GetPayload(ctx, "ext_2"); !errors.Is(err, archive.ErrPayloadNotFound) {
		t.Errorf("GetPayload() after delete error = %v, want ErrPayloadNotFound", err)
	}
	if err := a.DeletePayload(ctx, "ext_2"); !errors.Is(err, archive.ErrPayloadNotFound) {
		t.Errorf("DeletePayload() twice error = %v, want ErrPayloadNotFound", err)
	}
}

func TestPutPayloadCopiesContent(t *testing.T) {
	ctx := context.Background()
	a := New()

	content := []byte("original")
	p := &archive.Payload{ExtractionID: "ext_3", ContentType: "text/plain", Content: content}
	if err := a.PutPayload(ctx, p); err != nil {
		t.Fatalf("PutPayload() error = %v", err)
	}
	content[0] = 'X'

	got, err := a.GetPayload(ctx, "ext_3")
	if err != nil {
		t.Fatalf("GetPayload() error = %v", err)
	}
	if string(got.Content) != "original" {
		t.Errorf("Content = %q, want %q", got.Content, "original")
	}
}

// Copyright Gentext Gateway Authors
// SPDX-License-Identifier: Apache-2.0

package provider

import (
	"context"
	"testing"
)

type stubBackend struct{ dsn string }

func TestRegistry_RegisterAndNew(t *testing.T) {
	r := NewRegistry[*stubBackend]("test")
	r.Register("alpha", func(_ context.Context, params map[string]string) (*stubBackend, error) {
		return &stubBackend{dsn: params["dsn"]}, nil
	})

	b, err := r.New(context.Background(), "alpha", map[string]string{"dsn": "local"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.dsn != "local" {
		t.Errorf("dsn = %q, want local", b.dsn)
	}
}

func TestRegistry_UnknownProvider(t *testing.T) {
	r := NewRegistry[*stubBackend]("archive")
	r.Register("a", func(_ context.Context, _ map[string]string) (*stubBackend, error) {
		return &stubBackend{}, nil
	})

	_, err := r.New(context.Background(), "z", nil)
	if err == nil {
		t.Fatal("expected error for unknown provider")
	}
	want := `unknown archive provider: "z" (available: [a])`
	if err.Error() != want {
		t.Errorf("error = %q, want %q", err.Error(), want)
	}
}

func TestRegistry_Available(t *testing.T) {
	r := NewRegistry[*stubBackend]("test")
	r.Register("bravo", func(_ context.Context, _ map[string]string) (*stubBackend, error) {
		return &stubBackend{}, nil
	})
	r.Register("alpha", func(_ context.Context, _ map[string]string) (*stubBackend, error) {
		return &stubBackend{}, nil
	})

	avail := r.Available()
	if len(avail) != 2 || avail[0] != "alpha" || avail[1] != "bravo" {
		t.Errorf("Available() = %v, want [alpha bravo]", avail)
	}
}

func TestRegistry_DuplicatePanics(t *testing.T) {
	r := NewRegistry[*stubBackend]("test")
	r.Register("dup", func(_ context.Context, _ map[string]string) (*stubBackend, error) {
		return &stubBackend{}, nil
	})

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on duplicate registration")
		}
	}()
	r.Register("dup", func(_ context.Context, _ map[string]string) (*stubBackend, error) {
		return &stubBackend{}, nil
	})
}

// Copyright Gentext Gateway Authors
// SPDX-License-Identifier: Apache-2.0

package schema

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestExtractionRequest_Validate_Payload(t *testing.T) {
	req := ExtractionRequest{Payload: json.RawMessage(`{"text":"hi"}`)}
	if err := req.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestExtractionRequest_Validate_Source(t *testing.T) {
	req := ExtractionRequest{Source: &FetchSource{Input: "hello"}}
	if err := req.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestExtractionRequest_Validate_Rejects(t *testing.T) {
	tests := []struct {
		name string
		req  ExtractionRequest
	}{
		{"neither payload nor source", ExtractionRequest{}},
		{"both payload and source", ExtractionRequest{
			Payload: json.RawMessage(`{}`),
			Source:  &FetchSource{Input: "x"},
		}},
		{"source without input", ExtractionRequest{Source: &FetchSource{Model: "m"}}},
		{"oversized metadata value", ExtractionRequest{
			Payload:  json.RawMessage(`{}`),
			Metadata: map[string]string{"k": strings.Repeat("x", 513)},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.req.Validate(); err == nil {
				t.Error("Validate succeeded, want error")
			}
		})
	}
}

func TestNewExtraction(t *testing.T) {
	ext := NewExtraction("ext_123")
	if ext.ID != "ext_123" {
		t.Errorf("ID = %q", ext.ID)
	}
	if ext.Object != "extraction" {
		t.Errorf("Object = %q, want extraction", ext.Object)
	}
	if ext.CreatedAt == 0 {
		t.Error("CreatedAt not set")
	}
}

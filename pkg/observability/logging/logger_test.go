// Copyright Gentext Gateway Authors
// SPDX-License-Identifier: Apache-2.0

package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestNew_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: "warn", Format: "text", Output: &buf})

	logger.Info("should be dropped")
	logger.Warn("should appear")

	out := buf.String()
	if strings.Contains(out, "should be dropped") {
		t.Error("info record emitted at warn level")
	}
	if !strings.Contains(out, "should appear") {
		t.Error("warn record missing")
	}
}

func TestDebugEvent(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: "debug", Format: "json", Output: &buf})

	logger.DebugEvent("payload_received", "provider", "gemini", "bytes", 128)

	var record map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("unmarshal record: %v", err)
	}
	if record["source"] != "gentext-gw" {
		t.Errorf("source = %v, want gentext-gw", record["source"])
	}
	if record["event"] != "payload_received" {
		t.Errorf("event = %v, want payload_received", record["event"])
	}
	if record["provider"] != "gemini" {
		t.Errorf("provider = %v, want gemini", record["provider"])
	}
}

func TestDebugEvent_OddArgsDoNotFail(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: "debug", Format: "json", Output: &buf})

	// A dangling key is slog's problem, not the caller's.
	logger.DebugEvent("odd", "dangling")

	if buf.Len() == 0 {
		t.Error("no record emitted for odd argument list")
	}
}

// Copyright Gentext Gateway Authors
// SPDX-License-Identifier: Apache-2.0

// Package api contains clients for upstream text generation backends.
package api

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
)

// UpstreamClient fetches a raw generation payload from a backend. The
// payload is kept as raw JSON so the extraction pipeline sees exactly what
// the backend sent.
type UpstreamClient interface {
	FetchPayload(ctx context.Context, model, input string) (json.RawMessage, error)
}

// OpenAIUpstream implements UpstreamClient using the official OpenAI Go SDK.
// Supports OpenAI, Ollama, vLLM, and other OpenAI-compatible backends.
type OpenAIUpstream struct {
	client       openai.Client
	defaultModel string
}

// NewOpenAIUpstream creates an OpenAI-compatible upstream client. The
// endpoint parameter allows connecting to backends like Ollama and vLLM.
func NewOpenAIUpstream(endpoint, apiKey, defaultModel string) *OpenAIUpstream {
	opts := []option.RequestOption{}

	if endpoint != "" {
		opts = append(opts, option.WithBaseURL(endpoint))
	}

	if apiKey != "" {
		opts = append(opts, option.WithAPIKey(apiKey))
	} else {
		// Use a dummy key for local backends that don't require authentication
		opts = append(opts, option.WithAPIKey("dummy"))
	}

	return &OpenAIUpstream{
		client:       openai.NewClient(opts...),
		defaultModel: defaultModel,
	}
}

// FetchPayload sends the input as a single user message and returns the
// backend's chat completion payload as raw JSON.
func (c *OpenAIUpstream) FetchPayload(ctx context.Context, model, input string) (json.RawMessage, error) {
	m := model
	if m == "" {
		m = c.defaultModel
	}
	if m == "" {
		return nil, fmt.Errorf("upstream: no model specified and no default configured")
	}

	completion, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: shared.ChatModel(m),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(input),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("upstream chat completion: %w", err)
	}

	return json.RawMessage(completion.RawJSON()), nil
}

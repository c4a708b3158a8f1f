// Copyright Gentext Gateway Authors
// SPDX-License-Identifier: Apache-2.0

// Package extract pulls plain text out of loosely-shaped generated-text
// payloads. Upstream providers disagree on response structure and none of
// them can be trusted to send well-formed data, so every function here is
// total: any input, including nil, scalars, and deeply malformed objects,
// resolves to a string. The empty string means "no text available" and is
// a normal outcome, never an error.
package extract

import "strings"

// Payload shape labels reported alongside extracted text.
const (
	ShapeCandidates     = "candidates"      // candidates[0].content.parts
	ShapeResponseOutput = "response_output" // output[].content[].text
	ShapeChatCompletion = "chat_completion" // choices[0].message.content
	ShapeTextField      = "text_field"      // top-level text attribute
	ShapeHTML           = "html"            // markup fallback
	ShapeNone           = "none"            // nothing resolved
)

// FromCandidates extracts text from the multi-part candidate shape:
// candidates[0].content.parts, where each part may carry a string "text"
// attribute. Part texts are concatenated in order with no separator.
// Any missing or mistyped step of the path yields "".
func FromCandidates(v interface{}) (text string) {
	defer func() {
		if recover() != nil {
			text = ""
		}
	}()

	obj, ok := v.(map[string]interface{})
	if !ok {
		return ""
	}
	candidates, ok := obj["candidates"].([]interface{})
	if !ok || len(candidates) == 0 {
		return ""
	}
	first, ok := candidates[0].(map[string]interface{})
	if !ok {
		return ""
	}
	content, ok := first["content"].(map[string]interface{})
	if !ok {
		return ""
	}
	parts, ok := content["parts"].([]interface{})
	if !ok {
		return ""
	}

	var sb strings.Builder
	for _, part := range parts {
		partMap, ok := part.(map[string]interface{})
		if !ok {
			continue
		}
		// Non-string text values contribute nothing.
		if s, ok := partMap["text"].(string); ok {
			sb.WriteString(s)
		}
	}
	return sb.String()
}

// FromTextField extracts text from the direct-field shape: a top-level
// "text" attribute that is either a string, a zero-argument callable
// returning a string, or absent. Anything else yields "". A callable that
// panics is treated the same as an absent field.
func FromTextField(v interface{}) (text string) {
	defer func() {
		if recover() != nil {
			text = ""
		}
	}()

	obj, ok := v.(map[string]interface{})
	if !ok {
		return ""
	}

	switch t := obj["text"].(type) {
	case string:
		return t
	case func() string:
		return t()
	case func() interface{}:
		if s, ok := t().(string); ok {
			return s
		}
	}
	return ""
}

// FromChatCompletion extracts text from the chat-completions shape:
// choices[0].message.content, where content is either a string or an
// array of {"type":"text","text":...} parts.
func FromChatCompletion(v interface{}) (text string) {
	defer func() {
		if recover() != nil {
			text = ""
		}
	}()

	obj, ok := v.(map[string]interface{})
	if !ok {
		return ""
	}
	choices, ok := obj["choices"].([]interface{})
	if !ok || len(choices) == 0 {
		return ""
	}
	first, ok := choices[0].(map[string]interface{})
	if !ok {
		return ""
	}
	message, ok := first["message"].(map[string]interface{})
	if !ok {
		return ""
	}

	switch content := message["content"].(type) {
	case string:
		return content
	case []interface{}:
		return joinPartTexts(content)
	}
	return ""
}

// FromResponseOutput extracts text from the Responses API shape:
// output[] message items, each carrying content[] parts with a string
// "text" attribute. Item and part texts are concatenated in order.
func FromResponseOutput(v interface{}) (text string) {
	defer func() {
		if recover() != nil {
			text = ""
		}
	}()

	obj, ok := v.(map[string]interface{})
	if !ok {
		return ""
	}
	output, ok := obj["output"].([]interface{})
	if !ok {
		return ""
	}

	var sb strings.Builder
	for _, item := range output {
		itemMap, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		if itemType, _ := itemMap["type"].(string); itemType != "" && itemType != "message" {
			continue
		}
		content, ok := itemMap["content"].([]interface{})
		if !ok {
			continue
		}
		sb.WriteString(joinPartTexts(content))
	}
	return sb.String()
}

// Text is the union dispatch over all supported payload shapes. Shapes are
// probed in order of specificity; the first one that resolves non-empty
// text wins. Returns the text and the shape label that produced it.
func Text(v interface{}) (string, string) {
	if text := FromCandidates(v); text != "" {
		return text, ShapeCandidates
	}
	if text := FromResponseOutput(v); text != "" {
		return text, ShapeResponseOutput
	}
	if text := FromChatCompletion(v); text != "" {
		return text, ShapeChatCompletion
	}
	if text := FromTextField(v); text != "" {
		return text, ShapeTextField
	}
	return "", ShapeNone
}

// joinPartTexts concatenates the string "text" attributes of a part array,
// skipping anything mistyped.
func joinPartTexts(parts []interface{}) string {
	var sb strings.Builder
	for _, part := range parts {
		partMap, ok := part.(map[string]interface{})
		if !ok {
			continue
		}
		if s, ok := partMap["text"].(string); ok {
			sb.WriteString(s)
		}
	}
	return sb.String()
}

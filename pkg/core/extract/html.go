// Copyright Gentext Gateway Authors
// SPDX-License-Identifier: Apache-2.0

package extract

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
)

// FromHTML strips markup from an HTML payload and returns the visible text.
// Misbehaving upstreams occasionally answer with an HTML error page instead
// of JSON; this keeps such payloads on the fail-soft path. Script and style
// elements are skipped entirely. Malformed HTML degrades to the raw bytes.
func FromHTML(content []byte) string {
	doc, err := html.Parse(bytes.NewReader(content))
	if err != nil {
		return strings.TrimSpace(string(content))
	}

	var sb strings.Builder
	collectNodeText(doc, &sb)
	return strings.TrimSpace(sb.String())
}

func collectNodeText(n *html.Node, sb *strings.Builder) {
	if n.Type == html.ElementNode {
		switch n.Data {
		case "script", "style", "noscript":
			return
		}
	}

	if n.Type == html.TextNode {
		text := strings.TrimSpace(n.Data)
		if text != "" {
			if sb.Len() > 0 {
				sb.WriteString(" ")
			}
			sb.WriteString(text)
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectNodeText(c, sb)
	}
}

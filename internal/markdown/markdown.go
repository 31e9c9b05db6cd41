// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package markdown converts bilingual content Markdown into HTML using
// goldmark and resolves {term} glossary cross-links against the glossary.
// Unsafe HTML pass-through stays enabled so raw-HTML content imported
// from the previous system renders correctly.
package markdown

import (
	"bytes"

	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// md is the configured goldmark instance, reused across calls.
var md = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,         // GitHub-Flavored Markdown: tables, strikethrough, autolinks, task lists
		extension.Typographer, // Smart quotes and dashes
		highlighting.NewHighlighting( // Syntax highlighting for fenced code blocks
			highlighting.WithStyle("monokai"),
			highlighting.WithFormatOptions(),
		),
	),
	goldmark.WithParserOptions(
		parser.WithAutoHeadingID(), // Auto-generate heading IDs for anchors
	),
	goldmark.WithRendererOptions(
		html.WithUnsafe(), // Allow raw HTML blocks imported from the previous system
	),
)

// ToHTML converts Markdown source into HTML. Raw HTML embedded in the
// Markdown is passed through unchanged (WithUnsafe).
func ToHTML(source string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(source), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Render converts Markdown to HTML and then resolves {term} glossary
// cross-links in the result.
func Render(source string, lookup TermLookup) (string, error) {
	out, err := ToHTML(source)
	if err != nil {
		return "", err
	}
	return ResolveTerms(out, lookup), nil
}

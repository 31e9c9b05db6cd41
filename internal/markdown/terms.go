// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package markdown

import (
	"html"
	"regexp"
)

// termPattern matches {Term Name} cross-link markers in rendered
// content. Braces cannot nest and a marker never spans lines.
var termPattern = regexp.MustCompile(`\{([^{}\n]+)\}`)

// TermLookup resolves a glossary term name (either language,
// case-insensitive) to its id and definition.
type TermLookup func(name string) (id, definition string, ok bool)

// ResolveTerms replaces every {term} marker whose name resolves through
// lookup with a glossary anchor carrying the definition as its title.
// Markers that resolve to nothing are left untouched, braces and all, so
// a typo stays visible to the editor instead of silently disappearing.
func ResolveTerms(htmlSrc string, lookup TermLookup) string {
	if lookup == nil {
		return htmlSrc
	}
	return termPattern.ReplaceAllStringFunc(htmlSrc, func(match string) string {
		name := match[1 : len(match)-1]
		id, definition, ok := lookup(name)
		if !ok {
			return match
		}
		return `<a href="#glossary-` + id + `" class="glossary-term" title="` +
			html.EscapeString(definition) + `">` + html.EscapeString(name) + `</a>`
	})
}

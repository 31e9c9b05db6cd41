// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// GlossaryTerm is a bilingual dictionary entry. Terms are ordered
// globally by SortOrder and can be cross-referenced from subcategory
// content via {term} tokens.
type GlossaryTerm struct {
	ID           uuid.UUID `json:"id"`
	TermEN       string    `json:"term_en"`
	TermAR       string    `json:"term_ar"`
	DefinitionEN string    `json:"definition_en"`
	DefinitionAR string    `json:"definition_ar"`
	Category     string    `json:"category"`
	SortOrder    int       `json:"sort_order"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Matches reports whether name equals the English or Arabic term,
// case-insensitively. Used to resolve {term} cross-links in content.
func (g *GlossaryTerm) Matches(name string) bool {
	return strings.EqualFold(g.TermEN, name) || strings.EqualFold(g.TermAR, name)
}

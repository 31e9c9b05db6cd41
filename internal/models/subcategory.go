// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Subcategory is a content entry nested under a category. A subcategory
// may itself be nested under a sibling subcategory (third taxonomy level)
// via ParentSubcategoryID, but its SortOrder is always scoped to the
// owning category, not to the nesting parent.
type Subcategory struct {
	ID                  uuid.UUID  `json:"id"`
	CategoryID          uuid.UUID  `json:"category_id"`
	ParentSubcategoryID *uuid.UUID `json:"parent_subcategory_id,omitempty"`
	TitleEN             string     `json:"title_en"`
	TitleAR             string     `json:"title_ar"`
	ContentEN           string     `json:"content_en"`
	ContentAR           string     `json:"content_ar"`
	ColorHex            string     `json:"color_hex"`
	SortOrder           int        `json:"sort_order"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`

	// Virtual field populated by store methods when building the
	// display tree.
	Children []Subcategory `json:"children,omitempty"`
}

// Title returns the subcategory title for the given language.
func (s *Subcategory) Title(lang string) string {
	if lang == "ar" {
		return s.TitleAR
	}
	return s.TitleEN
}

// IsNested reports whether this subcategory sits under another
// subcategory rather than directly under its category.
func (s *Subcategory) IsNested() bool {
	return s.ParentSubcategoryID != nil
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package models defines the data structures that map to database tables
// and provides the core types used throughout the application.
package models

import (
	"regexp"
	"time"

	"github.com/google/uuid"
)

// colorHexPattern matches a six-digit hex color code with leading #.
var colorHexPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// ValidColorHex reports whether s is a well-formed hex color code.
func ValidColorHex(s string) bool {
	return colorHexPattern.MatchString(s)
}

// Category is a top-level content category. Categories are ordered
// globally among themselves by SortOrder.
type Category struct {
	ID        uuid.UUID `json:"id"`
	TitleEN   string    `json:"title_en"`
	TitleAR   string    `json:"title_ar"`
	ColorHex  string    `json:"color_hex"`
	SortOrder int       `json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Virtual field populated by store methods.
	SubcategoryCount int `json:"subcategory_count"`
}

// Title returns the category title for the given language ("en" or "ar").
func (c *Category) Title(lang string) string {
	if lang == "ar" {
		return c.TitleAR
	}
	return c.TitleEN
}

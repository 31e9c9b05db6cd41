// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"strings"
	"unicode/utf8"

	"mizan/internal/models"
)

// Validation limits for entity fields.
const (
	maxTitleLen      = 300
	maxContentLen    = 100_000
	maxDefinitionLen = 10_000
	maxCategoryLen   = 200
)

// validateBilingualTitle checks that both language titles are present
// and within limits. Returns the first error found, or "".
func validateBilingualTitle(titleEN, titleAR string) string {
	if strings.TrimSpace(titleEN) == "" {
		return "English title is required."
	}
	if strings.TrimSpace(titleAR) == "" {
		return "Arabic title is required."
	}
	if utf8.RuneCountInString(titleEN) > maxTitleLen ||
		utf8.RuneCountInString(titleAR) > maxTitleLen {
		return "Title is too long (max 300 characters)."
	}
	return ""
}

// validateColorHex checks an optional color field. Empty is allowed;
// the store applies a default.
func validateColorHex(color string) string {
	if color == "" {
		return ""
	}
	if !models.ValidColorHex(color) {
		return "Color must be a hex code like #1A2B3C."
	}
	return ""
}

// validateContent checks bilingual markdown body fields.
func validateContent(contentEN, contentAR string) string {
	if utf8.RuneCountInString(contentEN) > maxContentLen ||
		utf8.RuneCountInString(contentAR) > maxContentLen {
		return "Content is too long (max 100,000 characters)."
	}
	return ""
}

// validateDefinition checks bilingual glossary definition fields.
// Definitions are required in both languages — a term without a
// definition cannot be cross-linked.
func validateDefinition(defEN, defAR string) string {
	if strings.TrimSpace(defEN) == "" {
		return "English definition is required."
	}
	if strings.TrimSpace(defAR) == "" {
		return "Arabic definition is required."
	}
	if utf8.RuneCountInString(defEN) > maxDefinitionLen ||
		utf8.RuneCountInString(defAR) > maxDefinitionLen {
		return "Definition is too long (max 10,000 characters)."
	}
	return ""
}

// validateGroupLabel checks the optional free-text grouping label used
// on glossary terms, diagrams and templates.
func validateGroupLabel(label string) string {
	if utf8.RuneCountInString(label) > maxCategoryLen {
		return "Category label is too long (max 200 characters)."
	}
	return ""
}

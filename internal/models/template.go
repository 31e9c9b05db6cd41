// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Template is a downloadable document template. The PDF lives in
// S3-compatible object storage; this record holds the metadata.
// Templates are ordered globally by SortOrder.
type Template struct {
	ID            uuid.UUID `json:"id"`
	TitleEN       string    `json:"title_en"`
	TitleAR       string    `json:"title_ar"`
	DescriptionEN string    `json:"description_en"`
	DescriptionAR string    `json:"description_ar"`
	Category      string    `json:"category"`
	SortOrder     int       `json:"sort_order"`
	PDFURL        string    `json:"pdf_url"`
	PDFS3Key      string    `json:"pdf_s3_key"`
	PDFName       string    `json:"pdf_name"` // original upload filename
	PDFSizeBytes  int64     `json:"pdf_size_bytes"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// HasPDF reports whether a PDF has been uploaded for this template.
func (t *Template) HasPDF() bool {
	return t.PDFS3Key != ""
}

// HumanPDFSize returns a human-readable PDF size string.
func (t *Template) HumanPDFSize() string {
	return humanSize(t.PDFSizeBytes)
}

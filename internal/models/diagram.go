// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Diagram is a visual reference asset. The image lives in S3-compatible
// object storage; this record holds the metadata. Diagrams are ordered
// globally by SortOrder.
type Diagram struct {
	ID             uuid.UUID `json:"id"`
	TitleEN        string    `json:"title_en"`
	TitleAR        string    `json:"title_ar"`
	DescriptionEN  string    `json:"description_en"`
	DescriptionAR  string    `json:"description_ar"`
	Category       string    `json:"category"`
	SortOrder      int       `json:"sort_order"`
	ImageURL       string    `json:"image_url"`
	ImageS3Key     string    `json:"image_s3_key"`
	ImageName      string    `json:"image_name"` // original upload filename
	ImageSizeBytes int64     `json:"image_size_bytes"`
	ThumbS3Key     *string   `json:"thumb_s3_key,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// HasImage reports whether an image has been uploaded for this diagram.
func (d *Diagram) HasImage() bool {
	return d.ImageS3Key != ""
}

// HumanImageSize returns a human-readable image size string.
func (d *Diagram) HumanImageSize() string {
	return humanSize(d.ImageSizeBytes)
}

// humanSize formats a byte count as B/KB/MB.
func humanSize(n int64) string {
	const (
		kb = 1024
		mb = 1024 * kb
	)
	switch {
	case n >= mb:
		return fmt.Sprintf("%.1f MB", float64(n)/float64(mb))
	case n >= kb:
		return fmt.Sprintf("%.0f KB", float64(n)/float64(kb))
	default:
		return fmt.Sprintf("%d B", n)
	}
}

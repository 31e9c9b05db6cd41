// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"mizan/internal/models"
	"mizan/internal/ordering"
)

const templatesTable = "templates"

// TemplateStore manages document-template metadata in the database. The
// PDF binaries live in object storage under the keys recorded here.
type TemplateStore struct {
	db *sql.DB
}

// NewTemplateStore returns a new TemplateStore.
func NewTemplateStore(db *sql.DB) *TemplateStore {
	return &TemplateStore{db: db}
}

const templateColumns = `id, title_en, title_ar, description_en, description_ar, category,
	sort_order, pdf_url, pdf_s3_key, pdf_name, pdf_size_bytes, created_at, updated_at`

// scanTemplate scans a row into a Template struct.
func scanTemplate(scanner interface{ Scan(...any) error }) (*models.Template, error) {
	var t models.Template
	err := scanner.Scan(
		&t.ID, &t.TitleEN, &t.TitleAR, &t.DescriptionEN, &t.DescriptionAR, &t.Category,
		&t.SortOrder, &t.PDFURL, &t.PDFS3Key, &t.PDFName, &t.PDFSizeBytes,
		&t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// List returns all templates in sort order, alphabetical tie-break.
func (s *TemplateStore) List(ctx context.Context) ([]models.Template, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+templateColumns+` FROM templates ORDER BY sort_order, LOWER(title_en)`)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	defer rows.Close()

	var items []models.Template
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("scan template: %w", err)
		}
		items = append(items, *t)
	}
	return items, rows.Err()
}

// FindByID retrieves a template by ID. Returns nil if not found.
func (s *TemplateStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Template, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+templateColumns+` FROM templates WHERE id = $1`, id)
	t, err := scanTemplate(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find template by id: %w", err)
	}
	return t, nil
}

// Create inserts a new template at the end of the global order. PDF
// fields start empty; SetPDF fills them once the upload completes.
func (s *TemplateStore) Create(ctx context.Context, t *models.Template) (*models.Template, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin create template: %w", err)
	}
	defer tx.Rollback()

	next, err := ordering.NextOrder(ctx, tx, ordering.Global(templatesTable))
	if err != nil {
		return nil, err
	}

	row := tx.QueryRowContext(ctx, `
		INSERT INTO templates (title_en, title_ar, description_en, description_ar, category, sort_order)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+templateColumns,
		t.TitleEN, t.TitleAR, t.DescriptionEN, t.DescriptionAR, t.Category, next,
	)
	result, err := scanTemplate(row)
	if err != nil {
		return nil, fmt.Errorf("create template: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit create template: %w", err)
	}
	return result, nil
}

// SetPDF records the uploaded PDF's storage location and metadata.
func (s *TemplateStore) SetPDF(ctx context.Context, id uuid.UUID, url, s3Key, name string, sizeBytes int64) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE templates SET
			pdf_url = $1, pdf_s3_key = $2, pdf_name = $3,
			pdf_size_bytes = $4, updated_at = NOW()
		WHERE id = $5
	`, url, s3Key, name, sizeBytes, id)
	if err != nil {
		return fmt.Errorf("set template pdf: %w", err)
	}
	return nil
}

// Update modifies a template's content fields.
func (s *TemplateStore) Update(ctx context.Context, t *models.Template) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE templates SET
			title_en = $1, title_ar = $2, description_en = $3, description_ar = $4,
			category = $5, updated_at = NOW()
		WHERE id = $6
	`, t.TitleEN, t.TitleAR, t.DescriptionEN, t.DescriptionAR, t.Category, t.ID)
	if err != nil {
		return fmt.Errorf("update template: %w", err)
	}
	return nil
}

// Delete removes a template's metadata record. The caller deletes the
// stored PDF afterwards, best-effort.
func (s *TemplateStore) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM templates WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete template: %w", err)
	}
	return nil
}

// MoveUp swaps the template with the one ordered immediately before it.
func (s *TemplateStore) MoveUp(ctx context.Context, id uuid.UUID) error {
	return ordering.MoveUp(ctx, s.db, ordering.Global(templatesTable), id)
}

// MoveDown swaps the template with the one ordered immediately after it.
func (s *TemplateStore) MoveDown(ctx context.Context, id uuid.UUID) error {
	return ordering.MoveDown(ctx, s.db, ordering.Global(templatesTable), id)
}

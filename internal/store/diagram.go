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

const diagramsTable = "diagrams"

// DiagramStore manages diagram metadata in the database. The image
// binaries live in object storage under the keys recorded here.
type DiagramStore struct {
	db *sql.DB
}

// NewDiagramStore returns a new DiagramStore.
func NewDiagramStore(db *sql.DB) *DiagramStore {
	return &DiagramStore{db: db}
}

const diagramColumns = `id, title_en, title_ar, description_en, description_ar, category,
	sort_order, image_url, image_s3_key, image_name, image_size_bytes, thumb_s3_key,
	created_at, updated_at`

// scanDiagram scans a row into a Diagram struct.
func scanDiagram(scanner interface{ Scan(...any) error }) (*models.Diagram, error) {
	var d models.Diagram
	err := scanner.Scan(
		&d.ID, &d.TitleEN, &d.TitleAR, &d.DescriptionEN, &d.DescriptionAR, &d.Category,
		&d.SortOrder, &d.ImageURL, &d.ImageS3Key, &d.ImageName, &d.ImageSizeBytes,
		&d.ThumbS3Key, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// List returns all diagrams in sort order, alphabetical tie-break.
func (s *DiagramStore) List(ctx context.Context) ([]models.Diagram, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+diagramColumns+` FROM diagrams ORDER BY sort_order, LOWER(title_en)`)
	if err != nil {
		return nil, fmt.Errorf("list diagrams: %w", err)
	}
	defer rows.Close()

	var items []models.Diagram
	for rows.Next() {
		d, err := scanDiagram(rows)
		if err != nil {
			return nil, fmt.Errorf("scan diagram: %w", err)
		}
		items = append(items, *d)
	}
	return items, rows.Err()
}

// FindByID retrieves a diagram by ID. Returns nil if not found.
func (s *DiagramStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Diagram, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+diagramColumns+` FROM diagrams WHERE id = $1`, id)
	d, err := scanDiagram(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find diagram by id: %w", err)
	}
	return d, nil
}

// Create inserts a new diagram at the end of the global order. Image
// fields start empty; SetImage fills them once the upload completes,
// mirroring the two-step create-then-upload flow of the admin UI.
func (s *DiagramStore) Create(ctx context.Context, d *models.Diagram) (*models.Diagram, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin create diagram: %w", err)
	}
	defer tx.Rollback()

	next, err := ordering.NextOrder(ctx, tx, ordering.Global(diagramsTable))
	if err != nil {
		return nil, err
	}

	row := tx.QueryRowContext(ctx, `
		INSERT INTO diagrams (title_en, title_ar, description_en, description_ar, category, sort_order)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+diagramColumns,
		d.TitleEN, d.TitleAR, d.DescriptionEN, d.DescriptionAR, d.Category, next,
	)
	result, err := scanDiagram(row)
	if err != nil {
		return nil, fmt.Errorf("create diagram: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit create diagram: %w", err)
	}
	return result, nil
}

// SetImage records the uploaded image's storage location and metadata.
func (s *DiagramStore) SetImage(ctx context.Context, id uuid.UUID, url, s3Key, name string, sizeBytes int64, thumbS3Key *string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE diagrams SET
			image_url = $1, image_s3_key = $2, image_name = $3,
			image_size_bytes = $4, thumb_s3_key = $5, updated_at = NOW()
		WHERE id = $6
	`, url, s3Key, name, sizeBytes, thumbS3Key, id)
	if err != nil {
		return fmt.Errorf("set diagram image: %w", err)
	}
	return nil
}

// SetThumb records (or clears, with nil) the thumbnail key without
// touching the original image fields.
func (s *DiagramStore) SetThumb(ctx context.Context, id uuid.UUID, thumbS3Key *string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE diagrams SET thumb_s3_key = $1, updated_at = NOW() WHERE id = $2
	`, thumbS3Key, id)
	if err != nil {
		return fmt.Errorf("set diagram thumbnail: %w", err)
	}
	return nil
}

// Update modifies a diagram's content fields.
func (s *DiagramStore) Update(ctx context.Context, d *models.Diagram) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE diagrams SET
			title_en = $1, title_ar = $2, description_en = $3, description_ar = $4,
			category = $5, updated_at = NOW()
		WHERE id = $6
	`, d.TitleEN, d.TitleAR, d.DescriptionEN, d.DescriptionAR, d.Category, d.ID)
	if err != nil {
		return fmt.Errorf("update diagram: %w", err)
	}
	return nil
}

// Delete removes a diagram's metadata record. The caller deletes the
// stored image afterwards, best-effort.
func (s *DiagramStore) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM diagrams WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete diagram: %w", err)
	}
	return nil
}

// MoveUp swaps the diagram with the one ordered immediately before it.
func (s *DiagramStore) MoveUp(ctx context.Context, id uuid.UUID) error {
	return ordering.MoveUp(ctx, s.db, ordering.Global(diagramsTable), id)
}

// MoveDown swaps the diagram with the one ordered immediately after it.
func (s *DiagramStore) MoveDown(ctx context.Context, id uuid.UUID) error {
	return ordering.MoveDown(ctx, s.db, ordering.Global(diagramsTable), id)
}

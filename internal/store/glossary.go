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

const glossaryTable = "glossary_terms"

// GlossaryStore manages glossary terms in the database.
type GlossaryStore struct {
	db *sql.DB
}

// NewGlossaryStore returns a new GlossaryStore.
func NewGlossaryStore(db *sql.DB) *GlossaryStore {
	return &GlossaryStore{db: db}
}

const glossaryColumns = `id, term_en, term_ar, definition_en, definition_ar,
	category, sort_order, created_at, updated_at`

// scanTerm scans a row into a GlossaryTerm struct.
func scanTerm(scanner interface{ Scan(...any) error }) (*models.GlossaryTerm, error) {
	var g models.GlossaryTerm
	err := scanner.Scan(
		&g.ID, &g.TermEN, &g.TermAR, &g.DefinitionEN, &g.DefinitionAR,
		&g.Category, &g.SortOrder, &g.CreatedAt, &g.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// List returns all glossary terms in sort order, alphabetical tie-break.
func (s *GlossaryStore) List(ctx context.Context) ([]models.GlossaryTerm, error) {
	return s.queryTerms(ctx,
		`SELECT `+glossaryColumns+` FROM glossary_terms ORDER BY sort_order, LOWER(term_en)`)
}

// Search returns terms whose English or Arabic term or definition
// contains the substring, in sort order. Plain substring match.
func (s *GlossaryStore) Search(ctx context.Context, q string) ([]models.GlossaryTerm, error) {
	return s.queryTerms(ctx, `
		SELECT `+glossaryColumns+` FROM glossary_terms
		WHERE term_en ILIKE '%' || $1 || '%'
		   OR term_ar ILIKE '%' || $1 || '%'
		   OR definition_en ILIKE '%' || $1 || '%'
		   OR definition_ar ILIKE '%' || $1 || '%'
		ORDER BY sort_order, LOWER(term_en)
	`, q)
}

func (s *GlossaryStore) queryTerms(ctx context.Context, query string, args ...any) ([]models.GlossaryTerm, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query glossary terms: %w", err)
	}
	defer rows.Close()

	var items []models.GlossaryTerm
	for rows.Next() {
		g, err := scanTerm(rows)
		if err != nil {
			return nil, fmt.Errorf("scan glossary term: %w", err)
		}
		items = append(items, *g)
	}
	return items, rows.Err()
}

// FindByID retrieves a term by ID. Returns nil if not found.
func (s *GlossaryStore) FindByID(ctx context.Context, id uuid.UUID) (*models.GlossaryTerm, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+glossaryColumns+` FROM glossary_terms WHERE id = $1`, id)
	g, err := scanTerm(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find glossary term by id: %w", err)
	}
	return g, nil
}

// FindByName retrieves a term matching name against the English or
// Arabic term, case-insensitively. Returns nil if not found. Used to
// resolve {term} cross-links in rendered content.
func (s *GlossaryStore) FindByName(ctx context.Context, name string) (*models.GlossaryTerm, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+glossaryColumns+` FROM glossary_terms
		WHERE LOWER(term_en) = LOWER($1) OR LOWER(term_ar) = LOWER($1)
		LIMIT 1
	`, name)
	g, err := scanTerm(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find glossary term by name: %w", err)
	}
	return g, nil
}

// Create inserts a new term at the end of the global order.
func (s *GlossaryStore) Create(ctx context.Context, g *models.GlossaryTerm) (*models.GlossaryTerm, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin create glossary term: %w", err)
	}
	defer tx.Rollback()

	next, err := ordering.NextOrder(ctx, tx, ordering.Global(glossaryTable))
	if err != nil {
		return nil, err
	}

	row := tx.QueryRowContext(ctx, `
		INSERT INTO glossary_terms (term_en, term_ar, definition_en, definition_ar, category, sort_order)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+glossaryColumns,
		g.TermEN, g.TermAR, g.DefinitionEN, g.DefinitionAR, g.Category, next,
	)
	result, err := scanTerm(row)
	if err != nil {
		return nil, fmt.Errorf("create glossary term: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit create glossary term: %w", err)
	}
	return result, nil
}

// Update modifies a term's content fields.
func (s *GlossaryStore) Update(ctx context.Context, g *models.GlossaryTerm) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE glossary_terms SET
			term_en = $1, term_ar = $2, definition_en = $3, definition_ar = $4,
			category = $5, updated_at = NOW()
		WHERE id = $6
	`, g.TermEN, g.TermAR, g.DefinitionEN, g.DefinitionAR, g.Category, g.ID)
	if err != nil {
		return fmt.Errorf("update glossary term: %w", err)
	}
	return nil
}

// Delete removes a term by ID.
func (s *GlossaryStore) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM glossary_terms WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete glossary term: %w", err)
	}
	return nil
}

// MoveUp swaps the term with the one ordered immediately before it.
func (s *GlossaryStore) MoveUp(ctx context.Context, id uuid.UUID) error {
	return ordering.MoveUp(ctx, s.db, ordering.Global(glossaryTable), id)
}

// MoveDown swaps the term with the one ordered immediately after it.
func (s *GlossaryStore) MoveDown(ctx context.Context, id uuid.UUID) error {
	return ordering.MoveDown(ctx, s.db, ordering.Global(glossaryTable), id)
}

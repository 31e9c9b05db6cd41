// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store provides database access methods for all Mizan entities.
// Each store struct wraps a *sql.DB and exposes typed query methods.
// Orderable stores delegate sort_order assignment and move operations to
// the ordering package so all five entity families share one protocol.
package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"mizan/internal/models"
	"mizan/internal/ordering"
)

const categoriesTable = "categories"

// CategoryStore manages top-level categories in the database.
type CategoryStore struct {
	db *sql.DB
}

// NewCategoryStore returns a new CategoryStore.
func NewCategoryStore(db *sql.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

const categoryColumns = `id, title_en, title_ar, color_hex, sort_order, created_at, updated_at`

// scanCategory scans a row into a Category struct.
func scanCategory(scanner interface{ Scan(...any) error }) (*models.Category, error) {
	var c models.Category
	err := scanner.Scan(
		&c.ID, &c.TitleEN, &c.TitleAR, &c.ColorHex,
		&c.SortOrder, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// List returns all categories ordered by sort_order, with subcategory
// counts. Title is a display-time tie-break only; sort_order is unique.
func (s *CategoryStore) List(ctx context.Context) ([]models.Category, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.title_en, c.title_ar, c.color_hex, c.sort_order,
		       c.created_at, c.updated_at,
		       COUNT(sc.id) AS subcategory_count
		FROM categories c
		LEFT JOIN subcategories sc ON sc.category_id = c.id
		GROUP BY c.id
		ORDER BY c.sort_order, LOWER(c.title_en)
	`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var items []models.Category
	for rows.Next() {
		var c models.Category
		err := rows.Scan(
			&c.ID, &c.TitleEN, &c.TitleAR, &c.ColorHex, &c.SortOrder,
			&c.CreatedAt, &c.UpdatedAt,
			&c.SubcategoryCount,
		)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

// FindByID retrieves a category by ID. Returns nil if not found.
func (s *CategoryStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id)
	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category by id: %w", err)
	}
	return c, nil
}

// Create inserts a new category at the end of the global order and
// returns it. The order is assigned inside the insert transaction so two
// concurrent creates cannot both claim the same slot.
func (s *CategoryStore) Create(ctx context.Context, c *models.Category) (*models.Category, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin create category: %w", err)
	}
	defer tx.Rollback()

	next, err := ordering.NextOrder(ctx, tx, ordering.Global(categoriesTable))
	if err != nil {
		return nil, err
	}

	row := tx.QueryRowContext(ctx, `
		INSERT INTO categories (title_en, title_ar, color_hex, sort_order)
		VALUES ($1, $2, $3, $4)
		RETURNING `+categoryColumns,
		c.TitleEN, c.TitleAR, c.ColorHex, next,
	)
	result, err := scanCategory(row)
	if err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit create category: %w", err)
	}
	return result, nil
}

// Update modifies a category's content fields. The sort_order is only
// ever changed through MoveUp/MoveDown.
func (s *CategoryStore) Update(ctx context.Context, c *models.Category) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE categories SET
			title_en = $1, title_ar = $2, color_hex = $3, updated_at = NOW()
		WHERE id = $4
	`, c.TitleEN, c.TitleAR, c.ColorHex, c.ID)
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	return nil
}

// Delete removes a category and every subcategory that references it in
// one transaction, so an orphaned subcategory can never survive a
// partially applied delete. Returns ordering.ErrNotFound if the category
// does not exist.
func (s *CategoryStore) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin cascade delete: %w", err)
	}
	defer tx.Rollback()

	// Children first: the FK on subcategories.category_id would block
	// deleting the parent row while references remain.
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM subcategories WHERE category_id = $1`, id,
	); err != nil {
		return fmt.Errorf("cascade delete subcategories: %w", err)
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: category %s", ordering.ErrNotFound, id)
	}

	return tx.Commit()
}

// MoveUp swaps the category with the one ordered immediately before it.
func (s *CategoryStore) MoveUp(ctx context.Context, id uuid.UUID) error {
	return ordering.MoveUp(ctx, s.db, ordering.Global(categoriesTable), id)
}

// MoveDown swaps the category with the one ordered immediately after it.
func (s *CategoryStore) MoveDown(ctx context.Context, id uuid.UUID) error {
	return ordering.MoveDown(ctx, s.db, ordering.Global(categoriesTable), id)
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"mizan/internal/models"
	"mizan/internal/ordering"
)

const subcategoriesTable = "subcategories"

// subcategoryScope is the per-parent sibling scope: subcategories compete
// for sort_order values only against other subcategories of the same
// category, even when nested under a sibling subcategory.
func subcategoryScope(categoryID uuid.UUID) ordering.Scope {
	return ordering.PerParent(subcategoriesTable, "category_id", categoryID)
}

// SubcategoryStore manages subcategories in the database.
type SubcategoryStore struct {
	db *sql.DB
}

// NewSubcategoryStore returns a new SubcategoryStore.
func NewSubcategoryStore(db *sql.DB) *SubcategoryStore {
	return &SubcategoryStore{db: db}
}

const subcategoryColumns = `id, category_id, parent_subcategory_id, title_en, title_ar,
	content_en, content_ar, color_hex, sort_order, created_at, updated_at`

// scanSubcategory scans a row into a Subcategory struct.
func scanSubcategory(scanner interface{ Scan(...any) error }) (*models.Subcategory, error) {
	var sc models.Subcategory
	err := scanner.Scan(
		&sc.ID, &sc.CategoryID, &sc.ParentSubcategoryID, &sc.TitleEN, &sc.TitleAR,
		&sc.ContentEN, &sc.ContentAR, &sc.ColorHex, &sc.SortOrder,
		&sc.CreatedAt, &sc.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &sc, nil
}

// ListByCategory returns the subcategories of one category, sorted by
// sort_order ascending with a case-insensitive title tie-break.
//
// Sorting happens in Go after the filtered read: the table then only
// needs its category_id index, not a composite (category_id, sort_order)
// one. Scopes are small enough that the extra CPU is irrelevant.
func (s *SubcategoryStore) ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]models.Subcategory, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+subcategoryColumns+` FROM subcategories WHERE category_id = $1`,
		categoryID,
	)
	if err != nil {
		return nil, fmt.Errorf("list subcategories: %w", err)
	}
	defer rows.Close()

	var items []models.Subcategory
	for rows.Next() {
		sc, err := scanSubcategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan subcategory: %w", err)
		}
		items = append(items, *sc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	SortSubcategories(items)
	return items, nil
}

// SortSubcategories orders a sibling list by sort_order ascending,
// breaking ties by English title, case-insensitively.
func SortSubcategories(items []models.Subcategory) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].SortOrder != items[j].SortOrder {
			return items[i].SortOrder < items[j].SortOrder
		}
		return strings.ToLower(items[i].TitleEN) < strings.ToLower(items[j].TitleEN)
	})
}

// TreeByCategory returns the category's subcategories nested by
// parent_subcategory_id: top-level entries with their sub-subcategories
// attached as Children, both levels in sibling order.
func (s *SubcategoryStore) TreeByCategory(ctx context.Context, categoryID uuid.UUID) ([]models.Subcategory, error) {
	flat, err := s.ListByCategory(ctx, categoryID)
	if err != nil {
		return nil, err
	}

	children := make(map[uuid.UUID][]models.Subcategory)
	var roots []models.Subcategory
	for _, sc := range flat {
		if sc.ParentSubcategoryID != nil {
			children[*sc.ParentSubcategoryID] = append(children[*sc.ParentSubcategoryID], sc)
		} else {
			roots = append(roots, sc)
		}
	}
	for i := range roots {
		roots[i].Children = children[roots[i].ID]
	}
	return roots, nil
}

// FindByID retrieves a subcategory by ID. Returns nil if not found.
func (s *SubcategoryStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Subcategory, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+subcategoryColumns+` FROM subcategories WHERE id = $1`, id)
	sc, err := scanSubcategory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find subcategory by id: %w", err)
	}
	return sc, nil
}

// Create inserts a new subcategory at the end of its category's order.
// The owning category is fixed at creation; only the display nesting
// can change afterwards.
func (s *SubcategoryStore) Create(ctx context.Context, sc *models.Subcategory) (*models.Subcategory, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin create subcategory: %w", err)
	}
	defer tx.Rollback()

	next, err := ordering.NextOrder(ctx, tx, subcategoryScope(sc.CategoryID))
	if err != nil {
		return nil, err
	}

	row := tx.QueryRowContext(ctx, `
		INSERT INTO subcategories
			(category_id, parent_subcategory_id, title_en, title_ar,
			 content_en, content_ar, color_hex, sort_order)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+subcategoryColumns,
		sc.CategoryID, sc.ParentSubcategoryID, sc.TitleEN, sc.TitleAR,
		sc.ContentEN, sc.ContentAR, sc.ColorHex, next,
	)
	result, err := scanSubcategory(row)
	if err != nil {
		return nil, fmt.Errorf("create subcategory: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit create subcategory: %w", err)
	}
	return result, nil
}

// Update modifies a subcategory's content fields and display nesting.
// category_id and sort_order are immutable here; re-parenting within
// the category does not change the sibling scope.
func (s *SubcategoryStore) Update(ctx context.Context, sc *models.Subcategory) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE subcategories SET
			title_en = $1, title_ar = $2, content_en = $3, content_ar = $4,
			color_hex = $5, parent_subcategory_id = $6, updated_at = NOW()
		WHERE id = $7
	`, sc.TitleEN, sc.TitleAR, sc.ContentEN, sc.ContentAR, sc.ColorHex,
		sc.ParentSubcategoryID, sc.ID)
	if err != nil {
		return fmt.Errorf("update subcategory: %w", err)
	}
	return nil
}

// Delete removes a subcategory by ID. Sub-subcategories nested under it
// are re-attached nowhere and simply become top-level on next read
// (parent_subcategory_id references are cleared by the FK).
func (s *SubcategoryStore) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM subcategories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete subcategory: %w", err)
	}
	return nil
}

// MoveUp swaps the subcategory with the sibling ordered immediately
// before it within the same category. The owning category is re-read
// inside the move transaction, never trusted from the caller.
func (s *SubcategoryStore) MoveUp(ctx context.Context, id uuid.UUID) error {
	return ordering.MoveUp(ctx, s.db, ordering.Scope{
		Table: subcategoriesTable, ParentCol: "category_id",
	}, id)
}

// MoveDown swaps the subcategory with the sibling ordered immediately
// after it within the same category.
func (s *SubcategoryStore) MoveDown(ctx context.Context, id uuid.UUID) error {
	return ordering.MoveDown(ctx, s.db, ordering.Scope{
		Table: subcategoriesTable, ParentCol: "category_id",
	}, id)
}

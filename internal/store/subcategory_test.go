package store

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"mizan/internal/models"
)

// createSubcategory inserts a subcategory under the given category.
// Cleanup rides on the owning category's cascade cleanup.
func createSubcategory(t *testing.T, s *SubcategoryStore, categoryID uuid.UUID, titleEN string, parentID *uuid.UUID) *models.Subcategory {
	t.Helper()
	sc, err := s.Create(context.Background(), &models.Subcategory{
		CategoryID:          categoryID,
		ParentSubcategoryID: parentID,
		TitleEN:             titleEN,
		TitleAR:             "فرعية " + titleEN,
	})
	if err != nil {
		t.Fatalf("create subcategory %s: %v", titleEN, err)
	}
	return sc
}

func TestSubcategoryOrderScopedPerCategory(t *testing.T) {
	db := testDB(t)
	cats := NewCategoryStore(db)
	subs := NewSubcategoryStore(db)

	// Two fresh categories each start their own 1-based order sequence.
	catA := createCategory(t, db, cats, "test-scope-a")
	catB := createCategory(t, db, cats, "test-scope-b")

	a1 := createSubcategory(t, subs, catA.ID, "a1", nil)
	a2 := createSubcategory(t, subs, catA.ID, "a2", nil)
	b1 := createSubcategory(t, subs, catB.ID, "b1", nil)

	if a1.SortOrder != 1 || a2.SortOrder != 2 {
		t.Errorf("category A orders: got %d, %d; want 1, 2", a1.SortOrder, a2.SortOrder)
	}
	if b1.SortOrder != 1 {
		t.Errorf("category B first order: got %d, want 1", b1.SortOrder)
	}
}

func TestSubcategoryMoveStaysInScope(t *testing.T) {
	db := testDB(t)
	cats := NewCategoryStore(db)
	subs := NewSubcategoryStore(db)
	ctx := context.Background()

	catA := createCategory(t, db, cats, "test-move-scope-a")
	catB := createCategory(t, db, cats, "test-move-scope-b")

	a1 := createSubcategory(t, subs, catA.ID, "a1", nil)
	a2 := createSubcategory(t, subs, catA.ID, "a2", nil)
	b1 := createSubcategory(t, subs, catB.ID, "b1", nil)
	b2 := createSubcategory(t, subs, catB.ID, "b2", nil)

	// Moving a2 up swaps within category A only.
	if err := subs.MoveUp(ctx, a2.ID); err != nil {
		t.Fatalf("MoveUp(a2): %v", err)
	}

	gotA1, _ := subs.FindByID(ctx, a1.ID)
	gotA2, _ := subs.FindByID(ctx, a2.ID)
	gotB1, _ := subs.FindByID(ctx, b1.ID)
	gotB2, _ := subs.FindByID(ctx, b2.ID)

	if gotA2.SortOrder != 1 || gotA1.SortOrder != 2 {
		t.Errorf("category A after move: a2=%d a1=%d; want 1, 2", gotA2.SortOrder, gotA1.SortOrder)
	}
	if gotB1.SortOrder != 1 || gotB2.SortOrder != 2 {
		t.Errorf("category B disturbed by move in A: b1=%d b2=%d; want 1, 2", gotB1.SortOrder, gotB2.SortOrder)
	}
}

func TestSubcategoryMoveUpAtTopIsNoOp(t *testing.T) {
	db := testDB(t)
	cats := NewCategoryStore(db)
	subs := NewSubcategoryStore(db)
	ctx := context.Background()

	cat := createCategory(t, db, cats, "test-top-noop")
	first := createSubcategory(t, subs, cat.ID, "first", nil)
	createSubcategory(t, subs, cat.ID, "second", nil)

	if err := subs.MoveUp(ctx, first.ID); err != nil {
		t.Fatalf("MoveUp at top: %v", err)
	}
	got, _ := subs.FindByID(ctx, first.ID)
	if got.SortOrder != 1 {
		t.Errorf("sort_order changed by boundary move: got %d, want 1", got.SortOrder)
	}
}

func TestSubcategoryMoveAcrossGapIsNoOp(t *testing.T) {
	db := testDB(t)
	cats := NewCategoryStore(db)
	subs := NewSubcategoryStore(db)
	ctx := context.Background()

	cat := createCategory(t, db, cats, "test-gap")
	createSubcategory(t, subs, cat.ID, "first", nil)
	middle := createSubcategory(t, subs, cat.ID, "middle", nil)
	last := createSubcategory(t, subs, cat.ID, "last", nil)

	// Deleting the middle row leaves orders 1 and 3. Moving the last row
	// up finds no neighbor at order 2 and silently does nothing; gaps are
	// never compacted.
	if err := subs.Delete(ctx, middle.ID); err != nil {
		t.Fatalf("Delete(middle): %v", err)
	}
	if err := subs.MoveUp(ctx, last.ID); err != nil {
		t.Fatalf("MoveUp across gap: %v", err)
	}
	got, _ := subs.FindByID(ctx, last.ID)
	if got.SortOrder != 3 {
		t.Errorf("sort_order after gap move: got %d, want 3", got.SortOrder)
	}
}

func TestSubcategoryNestedSharesCategoryScope(t *testing.T) {
	db := testDB(t)
	cats := NewCategoryStore(db)
	subs := NewSubcategoryStore(db)

	cat := createCategory(t, db, cats, "test-nested-scope")
	parent := createSubcategory(t, subs, cat.ID, "parent", nil)
	nested := createSubcategory(t, subs, cat.ID, "nested", &parent.ID)

	// Nesting is display-only: the nested row takes the next order in the
	// category's sequence, not a fresh per-parent one.
	if nested.SortOrder != 2 {
		t.Errorf("nested sort_order: got %d, want 2", nested.SortOrder)
	}
	if !nested.IsNested() {
		t.Error("expected IsNested() true")
	}
}

func TestSubcategoryTreeByCategory(t *testing.T) {
	db := testDB(t)
	cats := NewCategoryStore(db)
	subs := NewSubcategoryStore(db)

	cat := createCategory(t, db, cats, "test-tree")
	rootA := createSubcategory(t, subs, cat.ID, "root-a", nil)
	rootB := createSubcategory(t, subs, cat.ID, "root-b", nil)
	childA1 := createSubcategory(t, subs, cat.ID, "child-a1", &rootA.ID)

	tree, err := subs.TreeByCategory(context.Background(), cat.ID)
	if err != nil {
		t.Fatalf("TreeByCategory: %v", err)
	}

	if len(tree) != 2 {
		t.Fatalf("top-level count: got %d, want 2", len(tree))
	}
	if tree[0].ID != rootA.ID || tree[1].ID != rootB.ID {
		t.Errorf("top-level order: got %s, %s", tree[0].TitleEN, tree[1].TitleEN)
	}
	if len(tree[0].Children) != 1 || tree[0].Children[0].ID != childA1.ID {
		t.Errorf("expected child-a1 under root-a, got %+v", tree[0].Children)
	}
	if len(tree[1].Children) != 0 {
		t.Errorf("expected no children under root-b, got %d", len(tree[1].Children))
	}
}

func TestSortSubcategoriesTieBreak(t *testing.T) {
	items := []models.Subcategory{
		{TitleEN: "Zebra", SortOrder: 2},
		{TitleEN: "apple", SortOrder: 1},
		{TitleEN: "Banana", SortOrder: 1},
	}
	SortSubcategories(items)

	want := []string{"apple", "Banana", "Zebra"}
	for i, title := range want {
		if items[i].TitleEN != title {
			t.Errorf("position %d: got %q, want %q", i, items[i].TitleEN, title)
		}
	}
}

func TestSubcategoryUpdate(t *testing.T) {
	db := testDB(t)
	cats := NewCategoryStore(db)
	subs := NewSubcategoryStore(db)
	ctx := context.Background()

	cat := createCategory(t, db, cats, "test-sub-update")
	sc := createSubcategory(t, subs, cat.ID, "original", nil)

	sc.TitleEN = "renamed"
	sc.ContentEN = "Some **markdown** content."
	sc.ContentAR = "محتوى عربي"
	if err := subs.Update(ctx, sc); err != nil {
		t.Fatalf("Update: %v", err)
	}

	found, _ := subs.FindByID(ctx, sc.ID)
	if found.TitleEN != "renamed" {
		t.Errorf("title_en: got %q, want %q", found.TitleEN, "renamed")
	}
	if found.ContentEN != "Some **markdown** content." {
		t.Errorf("content_en: got %q", found.ContentEN)
	}
	if found.CategoryID != cat.ID {
		t.Errorf("category_id changed: got %s, want %s", found.CategoryID, cat.ID)
	}
}

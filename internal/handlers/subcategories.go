// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"mizan/internal/markdown"
	"mizan/internal/models"
	"mizan/internal/realtime"
)

// subcategoryRequest carries the writable subcategory fields.
// ParentSubcategoryID nests the entry under a sibling for display; the
// position scope stays the owning category either way.
type subcategoryRequest struct {
	TitleEN             string     `json:"title_en"`
	TitleAR             string     `json:"title_ar"`
	ContentEN           string     `json:"content_en"`
	ContentAR           string     `json:"content_ar"`
	ColorHex            string     `json:"color_hex"`
	ParentSubcategoryID *uuid.UUID `json:"parent_subcategory_id"`
}

func (req *subcategoryRequest) validate() string {
	if msg := validateBilingualTitle(req.TitleEN, req.TitleAR); msg != "" {
		return msg
	}
	if msg := validateContent(req.ContentEN, req.ContentAR); msg != "" {
		return msg
	}
	if msg := validateColorHex(req.ColorHex); msg != "" {
		return msg
	}
	if req.ColorHex == "" {
		req.ColorHex = defaultColorHex
	}
	return ""
}

// SubcategoriesList returns the display tree for one category: top-level
// entries with nested children, both levels position-sorted with
// case-insensitive title tie-break.
func (a *Admin) SubcategoriesList(w http.ResponseWriter, r *http.Request) {
	categoryID, ok := pathID(w, r)
	if !ok {
		return
	}
	tree, err := a.subcategories.TreeByCategory(r.Context(), categoryID)
	if err != nil {
		writeStoreError(w, err, "subcategories")
		return
	}
	writeJSON(w, http.StatusOK, tree)
}

// SubcategoryCreate inserts a new subcategory at the end of its
// category's order.
func (a *Admin) SubcategoryCreate(w http.ResponseWriter, r *http.Request) {
	categoryID, ok := pathID(w, r)
	if !ok {
		return
	}
	var req subcategoryRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	// The owning category must exist; a dangling category_id would make
	// the new row invisible to every listing.
	cat, err := a.categories.FindByID(r.Context(), categoryID)
	if err != nil {
		writeStoreError(w, err, "category")
		return
	}
	if cat == nil {
		writeError(w, http.StatusNotFound, "category not found")
		return
	}

	// A nesting parent must be a sibling in the same category.
	if req.ParentSubcategoryID != nil {
		parent, err := a.subcategories.FindByID(r.Context(), *req.ParentSubcategoryID)
		if err != nil {
			writeStoreError(w, err, "parent subcategory")
			return
		}
		if parent == nil || parent.CategoryID != categoryID {
			writeError(w, http.StatusBadRequest, "parent subcategory must belong to the same category")
			return
		}
	}

	created, err := a.subcategories.Create(r.Context(), &models.Subcategory{
		CategoryID:          categoryID,
		ParentSubcategoryID: req.ParentSubcategoryID,
		TitleEN:             req.TitleEN,
		TitleAR:             req.TitleAR,
		ContentEN:           req.ContentEN,
		ContentAR:           req.ContentAR,
		ColorHex:            req.ColorHex,
	})
	if err != nil {
		writeStoreError(w, err, "subcategory")
		return
	}

	a.notifyChange(r, realtime.SubcategoriesTopic(categoryID))
	a.notifyChange(r, realtime.TopicCategories) // subcategory counts changed
	writeJSON(w, http.StatusCreated, created)
}

// SubcategoryUpdate modifies a subcategory's content fields and display
// nesting. Omitting parent_subcategory_id (or sending null) un-nests
// the entry; its position in the category order is untouched.
func (a *Admin) SubcategoryUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req subcategoryRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	existing, err := a.subcategories.FindByID(r.Context(), id)
	if err != nil {
		writeStoreError(w, err, "subcategory")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "subcategory not found")
		return
	}

	if req.ParentSubcategoryID != nil {
		if *req.ParentSubcategoryID == id {
			writeError(w, http.StatusBadRequest, "subcategory cannot nest under itself")
			return
		}
		parent, err := a.subcategories.FindByID(r.Context(), *req.ParentSubcategoryID)
		if err != nil {
			writeStoreError(w, err, "parent subcategory")
			return
		}
		if parent == nil || parent.CategoryID != existing.CategoryID {
			writeError(w, http.StatusBadRequest, "parent subcategory must belong to the same category")
			return
		}
	}

	existing.TitleEN = req.TitleEN
	existing.TitleAR = req.TitleAR
	existing.ContentEN = req.ContentEN
	existing.ContentAR = req.ContentAR
	existing.ColorHex = req.ColorHex
	existing.ParentSubcategoryID = req.ParentSubcategoryID
	if err := a.subcategories.Update(r.Context(), existing); err != nil {
		writeStoreError(w, err, "subcategory")
		return
	}

	a.notifyChange(r, realtime.SubcategoriesTopic(existing.CategoryID))
	writeJSON(w, http.StatusOK, existing)
}

// SubcategoryDelete removes a single subcategory. Entries nested under
// it survive and are promoted to the top level by the database.
func (a *Admin) SubcategoryDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	existing, err := a.subcategories.FindByID(r.Context(), id)
	if err != nil {
		writeStoreError(w, err, "subcategory")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "subcategory not found")
		return
	}

	if err := a.subcategories.Delete(r.Context(), id); err != nil {
		writeStoreError(w, err, "subcategory")
		return
	}

	a.notifyChange(r, realtime.SubcategoriesTopic(existing.CategoryID))
	a.notifyChange(r, realtime.TopicCategories)
	w.WriteHeader(http.StatusNoContent)
}

// SubcategoryMoveUp swaps the subcategory with its predecessor within
// its category.
func (a *Admin) SubcategoryMoveUp(w http.ResponseWriter, r *http.Request) {
	a.moveSubcategory(w, r, a.subcategories.MoveUp)
}

// SubcategoryMoveDown swaps the subcategory with its successor within
// its category.
func (a *Admin) SubcategoryMoveDown(w http.ResponseWriter, r *http.Request) {
	a.moveSubcategory(w, r, a.subcategories.MoveDown)
}

// moveSubcategory resolves the owning category first so the change
// event lands on the right per-category topic.
func (a *Admin) moveSubcategory(w http.ResponseWriter, r *http.Request, fn func(context.Context, uuid.UUID) error) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	existing, err := a.subcategories.FindByID(r.Context(), id)
	if err != nil {
		writeStoreError(w, err, "subcategory")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "subcategory not found")
		return
	}

	a.move(w, r, realtime.SubcategoriesTopic(existing.CategoryID), "subcategory", func() error {
		return fn(r.Context(), id)
	})
}

// ContentPreview renders markdown to HTML with glossary cross-links
// resolved, without persisting anything. Used by the editor's preview
// pane.
func (a *Admin) ContentPreview(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Content string `json:"content"`
		Lang    string `json:"lang"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if msg := validateContent(req.Content, ""); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	lookup, err := a.glossaryLookup(r, req.Lang)
	if err != nil {
		writeStoreError(w, err, "glossary")
		return
	}

	html, err := markdown.Render(req.Content, lookup)
	if err != nil {
		writeError(w, http.StatusBadRequest, "content could not be rendered")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"html": html})
}

// glossaryLookup builds a term resolver over the full glossary. Both
// the English and Arabic spellings resolve to the same entry; the
// definition follows the requested language.
func (a *Admin) glossaryLookup(r *http.Request, lang string) (markdown.TermLookup, error) {
	terms, err := a.glossary.List(r.Context())
	if err != nil {
		return nil, err
	}
	return func(name string) (string, string, bool) {
		for i := range terms {
			if terms[i].Matches(name) {
				def := terms[i].DefinitionEN
				if lang == "ar" {
					def = terms[i].DefinitionAR
				}
				return terms[i].ID.String(), def, true
			}
		}
		return "", "", false
	}, nil
}

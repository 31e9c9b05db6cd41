// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"mizan/internal/models"
	"mizan/internal/realtime"
)

// defaultColorHex is applied when a category or subcategory is created
// without an explicit color.
const defaultColorHex = "#3B82F6"

// categoryRequest carries the writable category fields.
type categoryRequest struct {
	TitleEN  string `json:"title_en"`
	TitleAR  string `json:"title_ar"`
	ColorHex string `json:"color_hex"`
}

// validate normalizes and checks the request, returning the first
// error message or "".
func (req *categoryRequest) validate() string {
	if msg := validateBilingualTitle(req.TitleEN, req.TitleAR); msg != "" {
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

// CategoriesList returns all categories sorted by position.
func (a *Admin) CategoriesList(w http.ResponseWriter, r *http.Request) {
	items, err := a.categories.List(r.Context())
	if err != nil {
		writeStoreError(w, err, "categories")
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// CategoryCreate inserts a new category at the end of the order.
func (a *Admin) CategoryCreate(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	created, err := a.categories.Create(r.Context(), &models.Category{
		TitleEN:  req.TitleEN,
		TitleAR:  req.TitleAR,
		ColorHex: req.ColorHex,
	})
	if err != nil {
		writeStoreError(w, err, "category")
		return
	}

	a.notifyChange(r, realtime.TopicCategories)
	writeJSON(w, http.StatusCreated, created)
}

// CategoryUpdate modifies a category's content fields. Position is only
// ever changed through the move endpoints.
func (a *Admin) CategoryUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req categoryRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	existing, err := a.categories.FindByID(r.Context(), id)
	if err != nil {
		writeStoreError(w, err, "category")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "category not found")
		return
	}

	existing.TitleEN = req.TitleEN
	existing.TitleAR = req.TitleAR
	existing.ColorHex = req.ColorHex
	if err := a.categories.Update(r.Context(), existing); err != nil {
		writeStoreError(w, err, "category")
		return
	}

	a.notifyChange(r, realtime.TopicCategories)
	writeJSON(w, http.StatusOK, existing)
}

// CategoryDelete removes a category and all of its subcategories.
func (a *Admin) CategoryDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := a.categories.Delete(r.Context(), id); err != nil {
		writeStoreError(w, err, "category")
		return
	}

	a.notifyChange(r, realtime.TopicCategories)
	// The subcategory list for this category changed too (it is gone).
	a.notifyChange(r, realtime.SubcategoriesTopic(id))
	w.WriteHeader(http.StatusNoContent)
}

// CategoryMoveUp swaps the category with its predecessor.
func (a *Admin) CategoryMoveUp(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	a.move(w, r, realtime.TopicCategories, "category", func() error {
		return a.categories.MoveUp(r.Context(), id)
	})
}

// CategoryMoveDown swaps the category with its successor.
func (a *Admin) CategoryMoveDown(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	a.move(w, r, realtime.TopicCategories, "category", func() error {
		return a.categories.MoveDown(r.Context(), id)
	})
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"mizan/internal/models"
	"mizan/internal/realtime"
)

// glossaryRequest carries the writable glossary term fields.
type glossaryRequest struct {
	TermEN       string `json:"term_en"`
	TermAR       string `json:"term_ar"`
	DefinitionEN string `json:"definition_en"`
	DefinitionAR string `json:"definition_ar"`
	Category     string `json:"category"`
}

func (req *glossaryRequest) validate() string {
	if msg := validateBilingualTitle(req.TermEN, req.TermAR); msg != "" {
		return msg
	}
	if msg := validateDefinition(req.DefinitionEN, req.DefinitionAR); msg != "" {
		return msg
	}
	return validateGroupLabel(req.Category)
}

// GlossaryList returns glossary terms sorted by position. An optional
// ?q= parameter filters by substring match across terms and
// definitions in both languages.
func (a *Admin) GlossaryList(w http.ResponseWriter, r *http.Request) {
	var (
		items []models.GlossaryTerm
		err   error
	)
	if q := r.URL.Query().Get("q"); q != "" {
		items, err = a.glossary.Search(r.Context(), q)
	} else {
		items, err = a.glossary.List(r.Context())
	}
	if err != nil {
		writeStoreError(w, err, "glossary")
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// GlossaryCreate inserts a new term at the end of the order.
func (a *Admin) GlossaryCreate(w http.ResponseWriter, r *http.Request) {
	var req glossaryRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	created, err := a.glossary.Create(r.Context(), &models.GlossaryTerm{
		TermEN:       req.TermEN,
		TermAR:       req.TermAR,
		DefinitionEN: req.DefinitionEN,
		DefinitionAR: req.DefinitionAR,
		Category:     req.Category,
	})
	if err != nil {
		writeStoreError(w, err, "glossary term")
		return
	}

	a.notifyChange(r, realtime.TopicGlossary)
	writeJSON(w, http.StatusCreated, created)
}

// GlossaryUpdate modifies a term's content fields.
func (a *Admin) GlossaryUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req glossaryRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	existing, err := a.glossary.FindByID(r.Context(), id)
	if err != nil {
		writeStoreError(w, err, "glossary term")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "glossary term not found")
		return
	}

	existing.TermEN = req.TermEN
	existing.TermAR = req.TermAR
	existing.DefinitionEN = req.DefinitionEN
	existing.DefinitionAR = req.DefinitionAR
	existing.Category = req.Category
	if err := a.glossary.Update(r.Context(), existing); err != nil {
		writeStoreError(w, err, "glossary term")
		return
	}

	a.notifyChange(r, realtime.TopicGlossary)
	writeJSON(w, http.StatusOK, existing)
}

// GlossaryDelete removes a term. Content that referenced it via {term}
// keeps the literal token and stops linking.
func (a *Admin) GlossaryDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := a.glossary.Delete(r.Context(), id); err != nil {
		writeStoreError(w, err, "glossary term")
		return
	}

	a.notifyChange(r, realtime.TopicGlossary)
	w.WriteHeader(http.StatusNoContent)
}

// GlossaryMoveUp swaps the term with its predecessor.
func (a *Admin) GlossaryMoveUp(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	a.move(w, r, realtime.TopicGlossary, "glossary term", func() error {
		return a.glossary.MoveUp(r.Context(), id)
	})
}

// GlossaryMoveDown swaps the term with its successor.
func (a *Admin) GlossaryMoveDown(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	a.move(w, r, realtime.TopicGlossary, "glossary term", func() error {
		return a.glossary.MoveDown(r.Context(), id)
	})
}

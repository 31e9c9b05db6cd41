// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"mizan/internal/cache"
	"mizan/internal/markdown"
	"mizan/internal/models"
	"mizan/internal/realtime"
	"mizan/internal/store"
)

// Public serves the unauthenticated read-only API consumed by the
// student-facing apps. List responses are cached in Valkey under the
// same topic keys the admin mutations invalidate.
type Public struct {
	categories    *store.CategoryStore
	subcategories *store.SubcategoryStore
	glossary      *store.GlossaryStore
	diagrams      *store.DiagramStore
	templates     *store.TemplateStore
	listCache     *cache.ListCache
}

// NewPublic creates a new Public handler group. listCache may be nil
// when response caching is disabled.
func NewPublic(
	categories *store.CategoryStore,
	subcategories *store.SubcategoryStore,
	glossary *store.GlossaryStore,
	diagrams *store.DiagramStore,
	templates *store.TemplateStore,
	listCache *cache.ListCache,
) *Public {
	return &Public{
		categories:    categories,
		subcategories: subcategories,
		glossary:      glossary,
		diagrams:      diagrams,
		templates:     templates,
		listCache:     listCache,
	}
}

// Categories returns the position-sorted category list.
func (p *Public) Categories(w http.ResponseWriter, r *http.Request) {
	serveCachedList(p, w, r, realtime.TopicCategories, p.categories.List)
}

// Subcategories returns one category's subcategory tree.
func (p *Public) Subcategories(w http.ResponseWriter, r *http.Request) {
	categoryID, ok := pathID(w, r)
	if !ok {
		return
	}
	serveCachedList(p, w, r, realtime.SubcategoriesTopic(categoryID),
		func(ctx context.Context) ([]models.Subcategory, error) {
			return p.subcategories.TreeByCategory(ctx, categoryID)
		})
}

// Glossary returns the position-sorted glossary.
func (p *Public) Glossary(w http.ResponseWriter, r *http.Request) {
	serveCachedList(p, w, r, realtime.TopicGlossary, p.glossary.List)
}

// Diagrams returns the position-sorted diagram list.
func (p *Public) Diagrams(w http.ResponseWriter, r *http.Request) {
	serveCachedList(p, w, r, realtime.TopicDiagrams, p.diagrams.List)
}

// Templates returns the position-sorted template list.
func (p *Public) Templates(w http.ResponseWriter, r *http.Request) {
	serveCachedList(p, w, r, realtime.TopicTemplates, p.templates.List)
}

// SubcategoryHTML returns one subcategory's content rendered to HTML
// in both languages, with glossary cross-links resolved. Not cached:
// rendering is cheap and per-item traffic is low.
func (p *Public) SubcategoryHTML(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	sc, err := p.subcategories.FindByID(r.Context(), id)
	if err != nil {
		writeStoreError(w, err, "subcategory")
		return
	}
	if sc == nil {
		writeError(w, http.StatusNotFound, "subcategory not found")
		return
	}

	terms, err := p.glossary.List(r.Context())
	if err != nil {
		writeStoreError(w, err, "glossary")
		return
	}
	lookup := func(lang string) markdown.TermLookup {
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
		}
	}

	htmlEN, err := markdown.Render(sc.ContentEN, lookup("en"))
	if err != nil {
		slog.Error("content render failed", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	htmlAR, err := markdown.Render(sc.ContentAR, lookup("ar"))
	if err != nil {
		slog.Error("content render failed", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"html_en": htmlEN,
		"html_ar": htmlAR,
	})
}

// serveCachedList writes the cached JSON body for a topic if present,
// otherwise queries, caches and writes. Admin mutations invalidate the
// topic key, so a hit is never staler than the last change event.
func serveCachedList[T any](p *Public, w http.ResponseWriter, r *http.Request, topic string, list realtime.ListFunc[T]) {
	ctx := r.Context()

	if p.listCache != nil {
		if body, ok := p.listCache.Get(ctx, topic); ok {
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("X-Cache", "hit")
			w.Write(body)
			return
		}
	}

	items, err := list(ctx)
	if err != nil {
		writeStoreError(w, err, topic)
		return
	}

	body, err := json.Marshal(items)
	if err != nil {
		slog.Error("list encode failed", "topic", topic, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if p.listCache != nil {
		p.listCache.Set(ctx, topic, body)
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Cache", "miss")
	w.Write(body)
}

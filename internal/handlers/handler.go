// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers contains the HTTP handlers for the Mizan admin API.
// Handlers are grouped by concern (admin, public, auth) and receive
// their dependencies through the handler struct. Admin handlers speak
// JSON; every successful mutation publishes its change topic and
// invalidates the public list cache for that topic.
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"mizan/internal/cache"
	"mizan/internal/ordering"
	"mizan/internal/realtime"
	"mizan/internal/storage"
	"mizan/internal/store"
)

// maxBodySize caps JSON request bodies. Uploads use their own limit.
const maxBodySize = 1 << 20

// Admin groups all admin API handlers and their dependencies.
type Admin struct {
	categories    *store.CategoryStore
	subcategories *store.SubcategoryStore
	glossary      *store.GlossaryStore
	diagrams      *store.DiagramStore
	templates     *store.TemplateStore
	users         *store.UserStore
	broker        realtime.Broker
	listCache     *cache.ListCache
	storageClient *storage.Client
}

// NewAdmin creates a new Admin handler group with the given dependencies.
// storageClient may be nil if S3 is not configured; listCache may be nil
// when response caching is disabled.
func NewAdmin(
	categories *store.CategoryStore,
	subcategories *store.SubcategoryStore,
	glossary *store.GlossaryStore,
	diagrams *store.DiagramStore,
	templates *store.TemplateStore,
	users *store.UserStore,
	broker realtime.Broker,
	listCache *cache.ListCache,
	storageClient *storage.Client,
) *Admin {
	return &Admin{
		categories:    categories,
		subcategories: subcategories,
		glossary:      glossary,
		diagrams:      diagrams,
		templates:     templates,
		users:         users,
		broker:        broker,
		listCache:     listCache,
		storageClient: storageClient,
	}
}

// notifyChange publishes a change event for the topic and drops the
// cached public list. Called after every successful mutation; failures
// are logged, never surfaced — the write already committed.
func (a *Admin) notifyChange(r *http.Request, topic string) {
	ctx := r.Context()
	if err := a.broker.Publish(ctx, topic); err != nil {
		slog.Warn("change publish failed", "topic", topic, "error", err)
	}
	if a.listCache != nil {
		a.listCache.Invalidate(ctx, topic)
	}
}

// writeJSON writes v as a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("response encode failed", "error", err)
	}
}

// writeError writes a JSON error body with the given status code.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeStoreError maps a store/ordering error to an HTTP status.
// Missing rows are the caller's problem (404); exhausted move retries
// are transient (409); everything else is a server fault.
func writeStoreError(w http.ResponseWriter, err error, what string) {
	switch {
	case errors.Is(err, ordering.ErrNotFound):
		writeError(w, http.StatusNotFound, what+" not found")
	case errors.Is(err, ordering.ErrConflict):
		writeError(w, http.StatusConflict, "concurrent reorder in progress, retry")
	default:
		slog.Error("store operation failed", "what", what, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// pathID parses the {id} URL parameter. Writes a 400 and returns false
// if it is not a valid UUID.
func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return uuid.Nil, false
	}
	return id, true
}

// decodeJSON decodes the request body into dst. Writes a 400 and
// returns false on malformed or oversized input.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// move runs a MoveUp/MoveDown store call and writes the standard
// response: 204 on success (including boundary and gap no-ops), 404
// for a missing row, 409 when retries were exhausted.
func (a *Admin) move(w http.ResponseWriter, r *http.Request, topic, what string, fn func() error) {
	if err := fn(); err != nil {
		writeStoreError(w, err, what)
		return
	}
	a.notifyChange(r, topic)
	w.WriteHeader(http.StatusNoContent)
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"mizan/internal/models"
	"mizan/internal/realtime"
)

// WatchCategories streams the category list over SSE. The client gets
// the full sorted list immediately and again after every change.
func (a *Admin) WatchCategories(w http.ResponseWriter, r *http.Request) {
	streamList(a, w, r, realtime.TopicCategories, a.categories.List)
}

// WatchSubcategories streams one category's subcategory tree over SSE.
func (a *Admin) WatchSubcategories(w http.ResponseWriter, r *http.Request) {
	categoryID, ok := pathID(w, r)
	if !ok {
		return
	}
	streamList(a, w, r, realtime.SubcategoriesTopic(categoryID),
		func(ctx context.Context) ([]models.Subcategory, error) {
			return a.subcategories.TreeByCategory(ctx, categoryID)
		})
}

// WatchGlossary streams the glossary term list over SSE.
func (a *Admin) WatchGlossary(w http.ResponseWriter, r *http.Request) {
	streamList(a, w, r, realtime.TopicGlossary, a.glossary.List)
}

// WatchDiagrams streams the diagram list over SSE.
func (a *Admin) WatchDiagrams(w http.ResponseWriter, r *http.Request) {
	streamList(a, w, r, realtime.TopicDiagrams, a.diagrams.List)
}

// WatchTemplates streams the template list over SSE.
func (a *Admin) WatchTemplates(w http.ResponseWriter, r *http.Request) {
	streamList(a, w, r, realtime.TopicTemplates, a.templates.List)
}

// streamList runs a realtime watch for the request's lifetime, writing
// each delivered list as one SSE "list" event. Deliveries come from
// both the subscribing goroutine (initial list) and the watch
// goroutine, so writes are serialized. stop joins the watch goroutine,
// which keeps the ResponseWriter from being touched after the handler
// returns.
func streamList[T any](a *Admin, w http.ResponseWriter, r *http.Request, topic string, list realtime.ListFunc[T]) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ctx := r.Context()
	var mu sync.Mutex
	deliver := func(items []T) {
		payload, err := json.Marshal(items)
		if err != nil {
			slog.Error("watch payload encode failed", "topic", topic, "error", err)
			return
		}
		mu.Lock()
		defer mu.Unlock()
		fmt.Fprintf(w, "event: list\ndata: %s\n\n", payload)
		flusher.Flush()
	}

	stop, err := realtime.Watch(ctx, a.broker, topic, list, deliver)
	if err != nil {
		slog.Error("watch start failed", "topic", topic, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	defer stop()

	<-ctx.Done()
}

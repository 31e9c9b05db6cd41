// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"mizan/internal/models"
	"mizan/internal/realtime"
)

// TestWatchCategoriesStreamsInitialList verifies the SSE endpoint
// writes the full list as soon as a client connects and closes when
// the request context ends.
func TestWatchCategoriesStreamsInitialList(t *testing.T) {
	env := newTestEnv(t)
	title := "Watch Category " + uuid.New().String()
	cleanCategories(t, env.DB, title)
	t.Cleanup(func() { cleanCategories(t, env.DB, title) })

	if _, err := env.Categories.Create(context.Background(), &models.Category{
		TitleEN: title, TitleAR: "تصنيف", ColorHex: defaultColorHex,
	}); err != nil {
		t.Fatalf("create category: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodGet, "/api/admin/categories/watch", nil).WithContext(ctx)
	rr := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		defer close(done)
		env.Admin.WatchCategories(rr, req)
	}()

	// The initial delivery happens synchronously before the handler
	// blocks, so a short grace period is enough.
	time.Sleep(100 * time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("handler did not return after context cancellation")
	}

	// Once the handler has returned nothing may touch the recorder: a
	// late event on the topic must not grow the body.
	bodyLen := rr.Body.Len()
	env.Broker.Publish(context.Background(), realtime.TopicCategories)
	time.Sleep(50 * time.Millisecond)
	if rr.Body.Len() != bodyLen {
		t.Error("stream wrote after the handler returned")
	}

	body := rr.Body.String()
	if rr.Header().Get("Content-Type") != "text/event-stream" {
		t.Errorf("content type: got %q, want text/event-stream", rr.Header().Get("Content-Type"))
	}
	if !strings.Contains(body, "event: list") {
		t.Errorf("stream should carry a list event, got %q", body)
	}
	if !strings.Contains(body, title) {
		t.Errorf("stream should carry the created category, got %q", body)
	}
	if !rr.Flushed {
		t.Error("stream writes should be flushed")
	}
}

// TestWatchSubcategoriesInvalidID verifies the id parameter is checked
// before the stream starts.
func TestWatchSubcategoriesInvalidID(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = withChiURLParam(req, "id", "not-a-uuid")
	rr := httptest.NewRecorder()
	env.Admin.WatchSubcategories(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", rr.Code)
	}
}

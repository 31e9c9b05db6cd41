// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for handler
// integration tests. Tests are skipped when PostgreSQL is unavailable;
// change events run over the in-process broker, so Valkey is only
// needed for the session-backed auth flow tests.
package handlers

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/redis/go-redis/v9"

	"mizan/internal/database"
	"mizan/internal/middleware"
	"mizan/internal/realtime"
	"mizan/internal/session"
	"mizan/internal/store"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test PostgreSQL and runs migrations.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "mizan")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "mizan")
	dsn := "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping: cannot open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping: DB not reachable: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("migrate: %v", err)
	}
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// testValkeyClient returns a Redis client for handler tests on DB 15.
func testValkeyClient(t *testing.T) *redis.Client {
	t.Helper()

	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")
	password := os.Getenv("VALKEY_PASSWORD")

	client := redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: password,
		DB:       15,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		for _, pattern := range []string{"session:*", "list:*"} {
			keys, _ := client.Keys(ctx, pattern).Result()
			if len(keys) > 0 {
				client.Del(ctx, keys...)
			}
		}
		client.Close()
	})

	return client
}

// testEnv holds all dependencies for handler integration tests.
type testEnv struct {
	DB            *sql.DB
	Broker        *realtime.LocalBroker
	Categories    *store.CategoryStore
	Subcategories *store.SubcategoryStore
	Glossary      *store.GlossaryStore
	Diagrams      *store.DiagramStore
	Templates     *store.TemplateStore
	Users         *store.UserStore
	Admin         *Admin
	Public        *Public
}

// newTestEnv creates a test environment with all CRUD handler
// dependencies. No storage client, no list cache, in-process broker.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testDB(t)
	broker := realtime.NewLocalBroker()

	categories := store.NewCategoryStore(db)
	subcategories := store.NewSubcategoryStore(db)
	glossary := store.NewGlossaryStore(db)
	diagrams := store.NewDiagramStore(db)
	templates := store.NewTemplateStore(db)
	users := store.NewUserStore(db)

	admin := NewAdmin(categories, subcategories, glossary, diagrams, templates,
		users, broker, nil, nil)
	public := NewPublic(categories, subcategories, glossary, diagrams, templates, nil)

	return &testEnv{
		DB:            db,
		Broker:        broker,
		Categories:    categories,
		Subcategories: subcategories,
		Glossary:      glossary,
		Diagrams:      diagrams,
		Templates:     templates,
		Users:         users,
		Admin:         admin,
		Public:        public,
	}
}

// testSession creates a session.Data for testing.
func testSession(userID uuid.UUID, email, role string, twoFADone bool) *session.Data {
	return &session.Data{
		UserID:      userID,
		Email:       email,
		DisplayName: "Test User",
		Role:        role,
		TwoFADone:   twoFADone,
	}
}

// ctxWithSession adds session data to a context using the middleware key.
func ctxWithSession(ctx context.Context, data *session.Data) context.Context {
	return context.WithValue(ctx, middleware.SessionKey, data)
}

// withChiURLParam adds a chi URL parameter to a request.
func withChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// cleanCategories removes test categories (and their subcategories) by
// English title.
func cleanCategories(t *testing.T, db *sql.DB, titles ...string) {
	t.Helper()
	for _, title := range titles {
		db.Exec(`DELETE FROM subcategories WHERE category_id IN
			(SELECT id FROM categories WHERE title_en = $1)`, title)
		db.Exec(`DELETE FROM categories WHERE title_en = $1`, title)
	}
}

// cleanGlossary removes test glossary terms by English term.
func cleanGlossary(t *testing.T, db *sql.DB, terms ...string) {
	t.Helper()
	for _, term := range terms {
		db.Exec(`DELETE FROM glossary_terms WHERE term_en = $1`, term)
	}
}

// cleanUsers removes test users by email.
func cleanUsers(t *testing.T, db *sql.DB, emails ...string) {
	t.Helper()
	for _, email := range emails {
		db.Exec(`DELETE FROM users WHERE email = $1`, email)
	}
}

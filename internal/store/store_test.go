// store_test.go provides a shared test database helper for all store
// integration tests. Tests are skipped if PostgreSQL is not available.
package store

import (
	"database/sql"
	"os"
	"testing"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"mizan/internal/database"
)

// testDSN returns the PostgreSQL connection string for testing.
// Uses environment variables with defaults matching docker-compose.yml.
func testDSN() string {
	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "mizan")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "mizan")
	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test database and runs migrations.
// If the database is unavailable, the test is skipped. A cleanup
// function is registered to close the connection when the test finishes.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := testDSN()
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping integration test: cannot open DB: %v", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping integration test: DB not reachable: %v", err)
	}

	// Run migrations to ensure the schema is current.
	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	// Downgrade goose global state.
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// cleanCategories removes test categories (and their subcategories) by
// English title. Call in t.Cleanup().
func cleanCategories(t *testing.T, db *sql.DB, titles ...string) {
	t.Helper()
	for _, title := range titles {
		db.Exec("DELETE FROM subcategories WHERE category_id IN (SELECT id FROM categories WHERE title_en = $1)", title)
		db.Exec("DELETE FROM categories WHERE title_en = $1", title)
	}
}

// cleanGlossary removes test glossary terms by English term. Call in t.Cleanup().
func cleanGlossary(t *testing.T, db *sql.DB, terms ...string) {
	t.Helper()
	for _, term := range terms {
		db.Exec("DELETE FROM glossary_terms WHERE term_en = $1", term)
	}
}

// cleanDiagrams removes test diagrams by English title. Call in t.Cleanup().
func cleanDiagrams(t *testing.T, db *sql.DB, titles ...string) {
	t.Helper()
	for _, title := range titles {
		db.Exec("DELETE FROM diagrams WHERE title_en = $1", title)
	}
}

// cleanTemplates removes test templates by English title. Call in t.Cleanup().
func cleanTemplates(t *testing.T, db *sql.DB, titles ...string) {
	t.Helper()
	for _, title := range titles {
		db.Exec("DELETE FROM templates WHERE title_en = $1", title)
	}
}

// cleanUsers removes test users by email. Call in t.Cleanup().
func cleanUsers(t *testing.T, db *sql.DB, emails ...string) {
	t.Helper()
	for _, email := range emails {
		db.Exec("DELETE FROM users WHERE email = $1", email)
	}
}

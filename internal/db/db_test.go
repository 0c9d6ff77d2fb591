package db

import (
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
)

func newTestDB(t *testing.T) *SQLite {
	t.Helper()
	SetLogger(zerolog.Nop())

	database := NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err := database.InitDB(); err != nil {
		t.Fatalf("InitDB failed: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return database
}

func TestInitDBCreatesSchema(t *testing.T) {
	database := newTestDB(t)

	for _, table := range []string{"documents", "images"} {
		var name string
		row := database.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table)
		if err := row.Scan(&name); err != nil {
			t.Errorf("Expected table %s to exist: %v", table, err)
		}
	}
}

func TestExecAndQuery(t *testing.T) {
	database := newTestDB(t)

	_, err := database.Exec(
		`INSERT INTO documents (id, title, author, content, content_hash) VALUES (?, ?, ?, ?, ?)`,
		"doc-1", "Title", "alice", []byte("content"), "hash",
	)
	if err != nil {
		t.Fatalf("Exec failed: %v", err)
	}

	rows, err := database.Query(`SELECT id, title FROM documents`)
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	defer rows.Close()

	count := 0
	for rows.Next() {
		var id, title string
		if err := rows.Scan(&id, &title); err != nil {
			t.Fatalf("Scan failed: %v", err)
		}
		if id != "doc-1" || title != "Title" {
			t.Errorf("Unexpected row: %s %s", id, title)
		}
		count++
	}
	if count != 1 {
		t.Errorf("Expected 1 row, got %d", count)
	}
}

func TestUniqueDisplayOrderPerDocument(t *testing.T) {
	database := newTestDB(t)

	insert := `INSERT INTO images (id, document_id, url, display_order) VALUES (?, ?, ?, ?)`
	if _, err := database.Exec(insert, "img-1", "doc-1", "https://x/1.png", 0); err != nil {
		t.Fatalf("Exec failed: %v", err)
	}
	if _, err := database.Exec(insert, "img-2", "doc-1", "https://x/2.png", 0); err == nil {
		t.Error("Duplicate display order within a document should violate the unique constraint")
	}
	if _, err := database.Exec(insert, "img-3", "doc-2", "https://x/3.png", 0); err != nil {
		t.Errorf("The same display order in another document should be fine: %v", err)
	}
}

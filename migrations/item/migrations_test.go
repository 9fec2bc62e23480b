package item

import (
	"io/fs"
	"strings"
	"testing"
)

func TestFS_ContainsGooseMigrations(t *testing.T) {
	names, err := fs.Glob(FS, "*.sql")
	if err != nil {
		t.Fatalf("glob: %v", err)
	}
	if len(names) == 0 {
		t.Fatal("expected at least one embedded migration")
	}

	for _, name := range names {
		data, err := fs.ReadFile(FS, name)
		if err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		body := string(data)
		if !strings.Contains(body, "-- +goose Up") || !strings.Contains(body, "-- +goose Down") {
			t.Errorf("%s: missing goose Up/Down annotations", name)
		}
	}
}

func TestFS_CreatesItemsTableIfAbsent(t *testing.T) {
	data, err := fs.ReadFile(FS, "00001_create_items.sql")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(data), "CREATE TABLE IF NOT EXISTS item.items") {
		t.Fatal("expected idempotent creation of item.items")
	}
}

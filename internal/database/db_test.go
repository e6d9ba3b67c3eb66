package database

import (
	"path/filepath"
	"testing"
)

func TestMigrateIdempotent(t *testing.T) {
	db, err := Open(Memory)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()

	for i := 0; i < 2; i++ {
		if err := Migrate(db); err != nil {
			t.Fatalf("Migrate run %d: %v", i+1, err)
		}
	}

	var applied int
	if err := db.QueryRow(`SELECT COUNT(1) FROM _migrations`).Scan(&applied); err != nil {
		t.Fatalf("count migrations: %v", err)
	}
	if applied == 0 {
		t.Fatal("no migrations recorded")
	}
	if _, err := db.Exec(`INSERT INTO users (id, username, password_hash, created_at) VALUES ('1','a','h','t')`); err != nil {
		t.Fatalf("users table missing: %v", err)
	}
}

func TestOpenCreatesDirectory(t *testing.T) {
	dir := t.TempDir()
	db, err := OpenAndMigrate(filepath.Join(dir, "nested", "bagels.db"))
	if err != nil {
		t.Fatalf("OpenAndMigrate: %v", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		t.Fatalf("Ping: %v", err)
	}
}

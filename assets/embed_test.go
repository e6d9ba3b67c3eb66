package assets

import (
	"strings"
	"testing"
)

func TestMigrationsOrdered(t *testing.T) {
	ms, err := Migrations()
	if err != nil {
		t.Fatalf("Migrations: %v", err)
	}
	if len(ms) == 0 {
		t.Fatal("no migrations embedded")
	}
	if ms[0].Name != "sql/001_users.sql" {
		t.Fatalf("first migration = %q", ms[0].Name)
	}
	for i := 1; i < len(ms); i++ {
		if ms[i-1].Name >= ms[i].Name {
			t.Fatalf("migrations out of order: %q before %q", ms[i-1].Name, ms[i].Name)
		}
	}
	if !strings.Contains(ms[0].SQL, "CREATE TABLE IF NOT EXISTS users") {
		t.Fatal("users migration content missing")
	}
}

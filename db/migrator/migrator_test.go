package migrator

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestMigrationFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"0002_b.sql", "0001_a.sql", "README.sql", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("SELECT 1;"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "0003_dir.sql"), 0o755); err != nil {
		t.Fatal(err)
	}

	got, err := MigrationFiles(dir)
	if err != nil {
		t.Fatalf("MigrationFiles: %v", err)
	}
	want := []string{"0001_a.sql", "0002_b.sql"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("files = %v, want %v", got, want)
	}
}

func TestMigrationFiles_MissingDir(t *testing.T) {
	if _, err := MigrationFiles(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Fatal("expected error for missing directory")
	}
}

func TestMigrationFiles_Repository(t *testing.T) {
	files, err := MigrationFiles("../migrations")
	if err != nil {
		t.Fatalf("MigrationFiles: %v", err)
	}
	if len(files) == 0 {
		t.Fatal("no migrations found in db/migrations")
	}
	seen := make(map[string]bool)
	for _, f := range files {
		if seen[f] {
			t.Errorf("duplicate migration %s", f)
		}
		seen[f] = true
	}
}

func TestChecksum(t *testing.T) {
	a := Checksum([]byte("CREATE TABLE t (id INT);"))
	b := Checksum([]byte("CREATE TABLE t (id INT);"))
	c := Checksum([]byte("CREATE TABLE t (id BIGINT);"))

	if a != b {
		t.Error("checksum not deterministic")
	}
	if a == c {
		t.Error("different content produced same checksum")
	}
	if len(a) != 64 {
		t.Errorf("checksum length = %d, want 64", len(a))
	}
}

func TestChecksumError(t *testing.T) {
	err := fmt.Errorf("checksum verification failed for x.sql: %w", &ChecksumError{Expected: "aa", Got: "bb"})

	var ce *ChecksumError
	if !errors.As(err, &ce) {
		t.Fatal("expected ChecksumError in chain")
	}
	if ce.Expected != "aa" || ce.Got != "bb" {
		t.Errorf("unexpected checksums %+v", ce)
	}
}

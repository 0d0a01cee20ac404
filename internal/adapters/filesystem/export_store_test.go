package filesystem_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/example/shiftlog/internal/adapters/filesystem"
)

func TestExportStore_WriteToDirectoryUsesDefaultName(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := filesystem.NewExportStore(tmpDir)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	ctx := context.Background()

	path, err := store.WriteFile(ctx, "", "shiftmanager-backup-1.json", []byte(`{"data":{}}`))
	if err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	if want := filepath.Join(tmpDir, "shiftmanager-backup-1.json"); path != want {
		t.Errorf("path = %q, want %q", path, want)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat failed: %v", err)
	}
	if info.Mode().Perm() != 0644 {
		t.Errorf("mode = %v, want 0644", info.Mode().Perm())
	}
}

func TestExportStore_WriteExplicitPathCreatesParents(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := filesystem.NewExportStore(tmpDir)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	ctx := context.Background()

	path, err := store.WriteFile(ctx, "out/nested/shift.json", "ignored.json", []byte("one"))
	if err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	if want := filepath.Join(tmpDir, "out", "nested", "shift.json"); path != want {
		t.Errorf("path = %q, want %q", path, want)
	}

	// Overwrite replaces content
	if _, err := store.WriteFile(ctx, path, "ignored.json", []byte("two")); err != nil {
		t.Fatalf("second WriteFile failed: %v", err)
	}
	got, err := store.ReadFile(ctx, path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(got) != "two" {
		t.Errorf("content = %q, want %q", got, "two")
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("expected no temp files left behind, found %d entries", len(entries))
	}
}

func TestExportStore_ReadMissing(t *testing.T) {
	store, err := filesystem.NewExportStore(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	if _, err := store.ReadFile(context.Background(), "missing.json"); err == nil {
		t.Error("expected error reading a missing file")
	}
}

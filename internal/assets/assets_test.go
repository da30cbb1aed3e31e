package assets

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

func TestBundledContainsDocuments(t *testing.T) {
	fsys := Bundled()
	for _, name := range []string{UpdatesFile, AllVersionsFile} {
		if _, err := fs.Stat(fsys, name); err != nil {
			t.Errorf("expected bundled %s, got %v", name, err)
		}
	}
}

func TestOpenDirectoryOverride(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, UpdatesFile), []byte(`{}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	fsys := Open(dir)
	if _, err := fs.Stat(fsys, UpdatesFile); err != nil {
		t.Errorf("expected %s in override dir, got %v", UpdatesFile, err)
	}
	if _, err := fs.Stat(fsys, AllVersionsFile); err == nil {
		t.Errorf("expected %s to be missing from override dir", AllVersionsFile)
	}
}

// Package assets holds the bundled update-notes documents.
package assets

import (
	"embed"
	"io/fs"
	"os"
)

const (
	UpdatesFile     = "updates.json"
	AllVersionsFile = "all_versions.json"
)

//go:embed data/*.json
var bundled embed.FS

// Bundled returns the documents compiled into the binary.
func Bundled() fs.FS {
	sub, err := fs.Sub(bundled, "data")
	if err != nil {
		panic(err)
	}
	return sub
}

// Open returns dir as a filesystem, or the bundled documents when dir is empty.
func Open(dir string) fs.FS {
	if dir == "" {
		return Bundled()
	}
	return os.DirFS(dir)
}

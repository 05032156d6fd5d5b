// Package fixture provides a shared metadata catalog for package tests.
package fixture

import (
	"bytes"
	_ "embed"
	"os"
	"path/filepath"
	"testing"

	"github.com/bploeckelman/nodes/pkg/meta"
)

//go:embed catalog.json
var catalogJSON []byte

// CatalogJSON returns the raw fixture catalog.
func CatalogJSON() []byte { return bytes.Clone(catalogJSON) }

// Catalog decodes the fixture catalog. It has no Path.
func Catalog(t testing.TB) *meta.Catalog {
	t.Helper()
	c, err := meta.Read(bytes.NewReader(catalogJSON), meta.FormatJSON, nil)
	if err != nil {
		t.Fatalf("read fixture catalog: %v", err)
	}
	return c
}

// WriteCatalog writes the fixture catalog into dir and returns its path.
func WriteCatalog(t testing.TB, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "catalog.json")
	if err := os.WriteFile(path, catalogJSON, 0o644); err != nil {
		t.Fatalf("write fixture catalog: %v", err)
	}
	return path
}

// Package testutil carries shared YAML fixtures for the package tests.
package testutil

import (
	"embed"
	"fmt"
	"io/fs"
	"testing"
)

// FixtureFS holds the embedded fixture documents.
//
//go:embed testdata
var FixtureFS embed.FS

// Fixture returns the content of an embedded fixture document, failing the
// test when it is missing.
func Fixture(t *testing.T, name string) []byte {
	t.Helper()
	data, err := fs.ReadFile(FixtureFS, fmt.Sprintf("testdata/%s", name))
	if err != nil {
		t.Fatalf("read fixture %s: %v", name, err)
	}
	return data
}

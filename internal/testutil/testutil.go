// Package testutil provides utilities for testing.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/font/gofont/goregular"
)

// GoRegular returns the bytes of the Go Regular TrueType font. It is always
// available and is the default font of the tests.
func GoRegular() []byte {
	return goregular.TTF
}

// WriteGoRegular writes Go Regular into a temporary directory and returns
// the file path.
func WriteGoRegular(t testing.TB) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "Go-Regular.ttf")
	if err := os.WriteFile(path, goregular.TTF, 0o644); err != nil {
		t.Fatalf("write test font: %v", err)
	}
	return path
}

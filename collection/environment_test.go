package collection

import (
	"path/filepath"
	"testing"
)

// Environment runs f with the path of a document that does not exist yet.
func Environment(t *testing.T, f func(filename string)) {
	filename := filepath.Join(t.TempDir(), "users.json")
	f(filename)
}

package route

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	. "github.com/fulldump/biff"
	"github.com/rs/zerolog"
)

func nopHandler(w http.ResponseWriter, r *http.Request, next func()) {}

func writeSource(t *testing.T, dir, name, content string) string {
	filename := filepath.Join(dir, name)
	err := os.WriteFile(filename, []byte(content), 0666)
	if err != nil {
		t.Fatal(err)
	}
	return filename
}

func TestLoader_MissingDir(t *testing.T) {

	l := NewLoader(filepath.Join(t.TempDir(), "nope"), nil, zerolog.Nop())

	routes, err := l.Routes()

	AssertNil(err)
	AssertEqual(len(routes), 0)
}

func TestLoader_Order(t *testing.T) {

	dir := t.TempDir()
	writeSource(t, dir, "b.yaml", `
requests:
  - path: /b1
    handler: h
  - path: /b2
    handler: h
`)
	writeSource(t, dir, "a.json", `{"requests": [{"method": "post", "path": "/a", "handler": "h"}]}`)
	writeSource(t, dir, "notes.txt", `requests: [{path: /ignored, handler: h}]`)
	os.Mkdir(filepath.Join(dir, "c.yaml"), 0777)

	l := NewLoader(dir, Registry{"h": nopHandler}, zerolog.Nop())

	routes, err := l.Routes()

	AssertNil(err)
	paths := []string{}
	for _, r := range routes {
		paths = append(paths, r.Path)
	}
	AssertEqual(paths, []string{"/a", "/b1", "/b2"})
	AssertEqual(routes[0].MethodName(), "POST")
	AssertEqual(routes[1].MethodName(), "GET")
	AssertEqual(routes[0].HandlerName, "h")
}

func TestLoader_CustomPattern(t *testing.T) {

	dir := t.TempDir()
	writeSource(t, dir, "a.yaml", `requests: [{path: /a, handler: h}]`)
	writeSource(t, dir, "b.routes.yaml", `requests: [{path: /b, handler: h}]`)

	l := NewLoader(dir, Registry{"h": nopHandler}, zerolog.Nop())
	l.Pattern = "*.routes.yaml"

	routes, err := l.Routes()

	AssertNil(err)
	AssertEqual(len(routes), 1)
	AssertEqual(routes[0].Path, "/b")
}

func TestLoader_HotReload(t *testing.T) {

	dir := t.TempDir()
	filename := writeSource(t, dir, "users.yaml", `requests: [{path: /v1, response: 1}]`)

	l := NewLoader(dir, nil, zerolog.Nop())

	first, err := l.Routes()
	AssertNil(err)
	AssertEqual(first[0].Path, "/v1")

	// Unchanged source is not parsed again
	second, _ := l.Routes()
	AssertTrue(second[0] == first[0])

	// Touched source with the same content
	later := time.Now().Add(time.Hour)
	os.Chtimes(filename, later, later)
	second, _ = l.Routes()
	AssertTrue(second[0] == first[0])

	// Changed source
	writeSource(t, dir, "users.yaml", `requests: [{path: /v2, response: 2}, {path: /v3, response: 3}]`)
	later = later.Add(time.Hour)
	os.Chtimes(filename, later, later)
	second, err = l.Routes()
	AssertNil(err)
	AssertEqual(len(second), 2)
	AssertEqual(second[0].Path, "/v2")

	// Removed source
	os.Remove(filename)
	second, err = l.Routes()
	AssertNil(err)
	AssertEqual(len(second), 0)
}

func TestLoader_Errors(t *testing.T) {

	cases := map[string]string{
		"broken yaml":     "requests: [",
		"unknown field":   `requests: [{path: /a, handler: h, colour: red}]`,
		"unknown handler": `requests: [{path: /a, handler: nope}]`,
		"bad pattern":     `requests: [{path: "/a/(:id", handler: h}]`,
		"bad regex":       `requests: [{regex: "^/a/(", handler: h}]`,
		"path and regex":  `requests: [{path: /a, regex: "^/a$", handler: h}]`,
		"no path":         `requests: [{handler: h}]`,
		"nothing to do":   `requests: [{path: /a}]`,
	}

	for name, content := range cases {
		dir := t.TempDir()
		filename := writeSource(t, dir, "routes.yaml", content)

		l := NewLoader(dir, Registry{"h": nopHandler}, zerolog.Nop())
		_, err := l.Routes()

		loadErr := &LoadError{}
		if !errors.As(err, &loadErr) {
			t.Errorf("%s: expected a load error, got %v", name, err)
			continue
		}
		AssertEqual(loadErr.Source, filename)
	}
}

func TestLoader_EmptySource(t *testing.T) {

	dir := t.TempDir()
	writeSource(t, dir, "empty.yaml", "")
	writeSource(t, dir, "empty.json", "  \n")

	l := NewLoader(dir, nil, zerolog.Nop())

	routes, err := l.Routes()

	AssertNil(err)
	AssertEqual(len(routes), 0)
}

func TestNewStatic(t *testing.T) {

	_, err := NewStatic(&Spec{Path: "/a", Handler: nopHandler})
	AssertNil(err)

	_, err = NewStatic(&Spec{Path: "/a/(", Handler: nopHandler})
	AssertNotNil(err)
}

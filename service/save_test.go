package service

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fulldump/apitest"
	"github.com/fulldump/biff"
)

func TestSlug(t *testing.T) {
	biff.AssertEqual(slug("Get record - not found"), "get_record_not_found")
	biff.AssertEqual(slug("  Query: where "), "query_where")
}

func TestSave(t *testing.T) {

	dir := t.TempDir()
	t.Setenv(ExamplesPathEnv, dir)

	api := apitest.NewWithHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":"1"}`))
	}))

	resp := api.Request("POST", "/v1/resources/users").
		WithBodyJson(map[string]any{"id": "1"}).
		Do()

	Save(resp, "Create record", "")

	data, err := os.ReadFile(filepath.Join(dir, "create_record.md"))
	biff.AssertNil(err)

	md := string(data)
	biff.AssertTrue(strings.HasPrefix(md, "# Create record\n"))
	biff.AssertTrue(strings.Contains(md, `curl -X POST "http://localhost:3000/v1/resources/users"`))
	biff.AssertTrue(strings.Contains(md, "201 Created"))
	biff.AssertTrue(strings.Contains(md, "\"id\": \"1\""))
}

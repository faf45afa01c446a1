package database

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	. "github.com/fulldump/biff"
	"github.com/rs/zerolog"

	"github.com/fulldump/mockdb/collection"
)

func newTestDatabase(t *testing.T) (*Database, string) {
	dir := filepath.Join(t.TempDir(), "db")
	return NewDatabase(&Config{Dir: dir}, zerolog.Nop()), dir
}

func TestResourceName(t *testing.T) {

	name, err := ResourceName("users")
	AssertNil(err)
	AssertEqual(name, "users.json")

	name, err = ResourceName("users.json")
	AssertNil(err)
	AssertEqual(name, "users.json")

	for _, bad := range []string{"", ".json", "../users", "a/b", `a\b`, ".hidden"} {
		_, err := ResourceName(bad)
		if !errors.Is(err, ErrResourceName) {
			t.Errorf("'%s' should be rejected", bad)
		}
	}
}

func TestResource_SameInstance(t *testing.T) {

	db, dir := newTestDatabase(t)
	AssertNil(db.Load())

	a, err := db.Resource("users")
	AssertNil(err)
	b, err := db.Resource("users.json")
	AssertNil(err)

	AssertTrue(a == b)

	data, err := os.ReadFile(filepath.Join(dir, "users.json"))
	AssertNil(err)
	AssertEqual(string(data), "{\n  \"list\": []\n}\n")
}

func TestLoad(t *testing.T) {

	db, dir := newTestDatabase(t)
	os.MkdirAll(dir, 0755)
	os.WriteFile(filepath.Join(dir, "users.json"), []byte(`{"list":[{"id":"1"},{"id":"2"}]}`), 0666)
	os.WriteFile(filepath.Join(dir, "notes.txt"), []byte(`hello`), 0666)

	AssertEqual(db.GetStatus(), StatusOpening)
	AssertNil(db.Load())
	AssertEqual(db.GetStatus(), StatusOperating)

	users, err := db.Resource("users")
	AssertNil(err)
	AssertEqual(users.Len(), 2)

	db.Resource("orders")
	names, err := db.ListResources()
	AssertNil(err)
	AssertEqual(names, []string{"orders", "users"})
}

func TestLoad_BrokenDocument(t *testing.T) {

	db, dir := newTestDatabase(t)
	os.MkdirAll(dir, 0755)
	os.WriteFile(filepath.Join(dir, "users.json"), []byte(`{"list":`), 0666)

	err := db.Load()

	AssertNotNil(err)
	AssertEqual(db.GetStatus(), StatusClosing)
}

func TestStartStop(t *testing.T) {

	db, _ := newTestDatabase(t)

	done := make(chan error)
	go func() {
		done <- db.Start()
	}()

	for db.GetStatus() == StatusOpening {
	}
	AssertNil(db.Stop())
	AssertNil(<-done)
	AssertEqual(db.GetStatus(), StatusClosing)

	// second stop is harmless
	AssertNil(db.Stop())
}

func TestResource_Persistence(t *testing.T) {

	db, dir := newTestDatabase(t)
	AssertNil(db.Load())

	users, _ := db.Resource("users")
	users.Create(collection.Record{"id": "1", "name": "John"})

	reopened := NewDatabase(&Config{Dir: dir}, zerolog.Nop())
	AssertNil(reopened.Load())
	again, _ := reopened.Resource("users")
	found, ok := again.Find("1")
	AssertTrue(ok)
	AssertEqual(found["name"], "John")
}

package actions

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/fulldump/apitest"
	. "github.com/fulldump/biff"
	"github.com/rs/zerolog"

	"github.com/fulldump/mockdb/collection"
	"github.com/fulldump/mockdb/database"
	"github.com/fulldump/mockdb/route"
)

type resources map[string]*collection.Collection

func (r resources) Resource(name string) (*collection.Collection, error) {
	c, exists := r[name]
	if !exists {
		var err error
		c, err = collection.OpenCollection(name, &collection.MemoryStore{})
		if err != nil {
			return nil, err
		}
		r[name] = c
	}
	return c, nil
}

func source(t *testing.T, resolver Resolver, yaml string) route.Static {
	specs, err := route.ParseSource("routes.yaml", []byte(yaml), Handlers(resolver))
	if err != nil {
		t.Fatal(err)
	}
	return route.Static(specs)
}

const routes = `
requests:
  - path: /api/users
    handler: store.query
    with: {resource: users}
  - method: POST
    path: /api/users
    handler: store.create
    with: {resource: users}
  - path: /api/users/:id
    handler: store.find
    with: {resource: users}
  - method: PATCH
    path: /api/users/:id
    handler: store.patch
    with: {resource: users}
  - method: DELETE
    path: /api/users/:id
    handler: store.delete
    with: {resource: users}
  - path: /api/by-name/:name
    handler: store.find
    with: {resource: users, param: name}
  - path: /api/users-state
    handler: store.state
    with: {resource: users}
  - method: PUT
    path: /api/users-state
    handler: store.state
    with: {resource: users}
  - path: /api/broken
    handler: store.query
`

func TestActions(t *testing.T) {

	Alternative("Setup", func(a *A) {

		db := resources{}
		d := route.NewDispatcher(source(t, db, routes), nil, zerolog.Nop())
		api := apitest.NewWithHandler(d.Middleware(http.NotFoundHandler()))

		a.Alternative("Create one", func(a *A) {
			resp := api.Request("POST", "/api/users").
				WithBodyJson(map[string]any{"id": "1", "name": "John", "age": 30}).
				Do()

			AssertEqual(resp.StatusCode, http.StatusCreated)
			AssertEqualJson(resp.BodyJson(), map[string]any{"id": "1", "name": "John", "age": 30})

			a.Alternative("Find", func(a *A) {
				resp := api.Request("GET", "/api/users/1").Do()
				AssertEqual(resp.StatusCode, http.StatusOK)
				AssertEqualJson(resp.BodyJson(), map[string]any{"id": "1", "name": "John", "age": 30})
			})

			a.Alternative("Find with custom param", func(a *A) {
				resp := api.Request("GET", "/api/by-name/1").Do()
				AssertEqual(resp.StatusCode, http.StatusOK)
			})

			a.Alternative("Create duplicate", func(a *A) {
				resp := api.Request("POST", "/api/users").
					WithBodyJson(map[string]any{"id": "1"}).
					Do()
				AssertEqual(resp.StatusCode, http.StatusConflict)
			})

			a.Alternative("Patch", func(a *A) {
				resp := api.Request("PATCH", "/api/users/1").
					WithBodyJson(map[string]any{"age": 31}).
					Do()
				AssertEqual(resp.StatusCode, http.StatusOK)
				AssertEqualJson(resp.BodyJson(), map[string]any{"id": "1", "name": "John", "age": 31})
			})

			a.Alternative("Patch id", func(a *A) {
				resp := api.Request("PATCH", "/api/users/1").
					WithBodyJson(map[string]any{"id": "2"}).
					Do()
				AssertEqual(resp.StatusCode, http.StatusBadRequest)
			})

			a.Alternative("Delete", func(a *A) {
				resp := api.Request("DELETE", "/api/users/1").Do()
				AssertEqual(resp.StatusCode, http.StatusOK)
				AssertEqualJson(resp.BodyJson(), map[string]any{"id": "1", "name": "John", "age": 30})

				resp = api.Request("GET", "/api/users/1").Do()
				AssertEqual(resp.StatusCode, http.StatusNotFound)
			})

			a.Alternative("State", func(a *A) {
				resp := api.Request("GET", "/api/users-state").Do()
				AssertEqual(resp.StatusCode, http.StatusOK)
				AssertEqualJson(resp.BodyJson(), map[string]any{
					"list": []any{map[string]any{"id": "1", "name": "John", "age": 30}},
				})
			})
		})

		a.Alternative("Create batch and query", func(a *A) {
			resp := api.Request("POST", "/api/users").
				WithBodyJson([]any{
					map[string]any{"id": "a", "name": "John", "age": 5},
					map[string]any{"id": "b", "name": "Anna", "age": 15},
					map[string]any{"id": "c", "name": "Mike", "age": 25},
				}).
				Do()
			AssertEqual(resp.StatusCode, http.StatusCreated)

			a.Alternative("Greater than", func(a *A) {
				resp := api.Request("GET", "/api/users").WithQuery("gt.age", "10").Do()
				AssertEqual(resp.StatusCode, http.StatusOK)
				body := resp.BodyJsonMap()
				AssertEqual(fmt.Sprint(body["total"]), "2")
				AssertEqual(len(body["data"].([]any)), 2)
			})

			a.Alternative("Second page", func(a *A) {
				resp := api.Request("GET", "/api/users").
					WithQuery("page", "2").
					WithQuery("size", "2").
					Do()
				AssertEqualJson(resp.BodyJson(), map[string]any{
					"data":  []any{map[string]any{"id": "c", "name": "Mike", "age": 25}},
					"total": 3,
				})
			})

			a.Alternative("Like", func(a *A) {
				resp := api.Request("GET", "/api/users").WithQuery("like.name", "oh").Do()
				body := resp.BodyJsonMap()
				AssertEqual(fmt.Sprint(body["total"]), "1")
			})

			a.Alternative("Conflicting filters", func(a *A) {
				resp := api.Request("GET", "/api/users").
					WithQuery("filter", "age > 1").
					WithQuery("gt.age", "1").
					Do()
				AssertEqual(resp.StatusCode, http.StatusBadRequest)
			})

			a.Alternative("Replace state", func(a *A) {
				resp := api.Request("PUT", "/api/users-state").
					WithBodyJson(map[string]any{
						"list":    []any{map[string]any{"id": "z"}},
						"version": 2,
					}).
					Do()
				AssertEqual(resp.StatusCode, http.StatusOK)
				AssertEqualJson(resp.BodyJson(), map[string]any{
					"list":    []any{map[string]any{"id": "z"}},
					"version": 2,
				})
			})
		})

		a.Alternative("Missing record", func(a *A) {
			resp := api.Request("GET", "/api/users/nope").Do()
			AssertEqual(resp.StatusCode, http.StatusNotFound)
			AssertEqual(resp.BodyJsonMap()["error"].(map[string]any)["message"], "record not found: 'nope'")
		})

		a.Alternative("Bad body", func(a *A) {
			resp := api.Request("POST", "/api/users").WithBodyString("42").Do()
			AssertEqual(resp.StatusCode, http.StatusBadRequest)
		})

		a.Alternative("Route without resource", func(a *A) {
			resp := api.Request("GET", "/api/broken").Do()
			AssertEqual(resp.StatusCode, http.StatusInternalServerError)
		})
	})
}

func TestActions_BadResourceName(t *testing.T) {

	db := database.NewDatabase(&database.Config{Dir: t.TempDir()}, zerolog.Nop())
	AssertNil(db.Load())

	d := route.NewDispatcher(source(t, db, `
requests:
  - path: /api/escape
    handler: store.query
    with: {resource: ../etc}
`), nil, zerolog.Nop())
	api := apitest.NewWithHandler(d.Middleware(http.NotFoundHandler()))

	resp := api.Request("GET", "/api/escape").Do()

	AssertEqual(resp.StatusCode, http.StatusBadRequest)
	AssertEqual(resp.BodyJsonMap()["error"].(map[string]any)["message"], "bad resource name '../etc'")
}

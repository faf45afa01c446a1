// Package actions provides the route handlers that serve a resource of the
// record store. A route source refers to them by name:
//
//	requests:
//	  - path: /api/users/:id
//	    handler: store.find
//	    with:
//	      resource: users
package actions

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/fulldump/mockdb/collection"
	"github.com/fulldump/mockdb/database"
	"github.com/fulldump/mockdb/query"
	"github.com/fulldump/mockdb/route"
)

const DefaultParam = "id"

// Resolver opens resources by name.
type Resolver interface {
	Resource(name string) (*collection.Collection, error)
}

var (
	ErrMissingResource = errors.New("route has no 'with.resource'")
	ErrNotFound        = errors.New("record not found")
)

// Handlers returns the store handlers ready to be registered in a route
// loader.
func Handlers(resolver Resolver) route.Registry {
	return route.Registry{
		"store.query":  Query(resolver),
		"store.create": Create(resolver),
		"store.find":   Find(resolver),
		"store.patch":  Patch(resolver),
		"store.delete": Delete(resolver),
		"store.state":  State(resolver),
	}
}

func option(r *http.Request, key string) (string, bool) {
	spec := route.CurrentRoute(r)
	if spec == nil {
		return "", false
	}
	v, ok := spec.With[key].(string)
	return v, ok && v != ""
}

func resource(resolver Resolver, r *http.Request) (*collection.Collection, error) {
	name, ok := option(r, "resource")
	if !ok {
		return nil, ErrMissingResource
	}
	return resolver.Resource(name)
}

func recordID(r *http.Request) string {
	param, ok := option(r, "param")
	if !ok {
		param = DefaultParam
	}
	return route.Param(r, param)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, collection.ErrDuplicateID):
		return http.StatusConflict
	case errors.Is(err, database.ErrResourceName),
		errors.Is(err, collection.ErrIDImmutable),
		errors.Is(err, query.ErrConflictingFilters):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func fail(w http.ResponseWriter, err error) {
	status := statusFor(err)
	route.WriteError(w, status, err, http.StatusText(status))
}

func badRequest(w http.ResponseWriter, err error) {
	route.WriteError(w, http.StatusBadRequest, err, "Bad request")
}

func decodeBody(r *http.Request, v any) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if err != nil {
		return fmt.Errorf("decode body: %w", err)
	}
	return nil
}

// Query answers a page of records. The query string carries page, size,
// sort, filter and the operators as eq.field, gt.field...
func Query(resolver Resolver) route.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request, next func()) {

		c, err := resource(resolver, r)
		if err != nil {
			fail(w, err)
			return
		}

		input, err := query.ParseValues(r.URL.Query())
		if err != nil {
			badRequest(w, err)
			return
		}

		spec, err := input.Spec()
		if err != nil {
			badRequest(w, err)
			return
		}

		result, err := c.PagedQuery(spec)
		if err != nil {
			fail(w, err)
			return
		}

		route.WriteJSON(w, http.StatusOK, result)
	}
}

// Create stores the body: one record for an object, a batch for an array.
func Create(resolver Resolver) route.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request, next func()) {

		c, err := resource(resolver, r)
		if err != nil {
			fail(w, err)
			return
		}

		var body any
		err = decodeBody(r, &body)
		if err != nil {
			badRequest(w, err)
			return
		}

		switch b := body.(type) {
		case map[string]any:
			created, err := c.Create(b)
			if err != nil {
				fail(w, err)
				return
			}
			route.WriteJSON(w, http.StatusCreated, created)

		case []any:
			records := make([]query.Record, 0, len(b))
			for i, item := range b {
				m, ok := item.(map[string]any)
				if !ok {
					badRequest(w, fmt.Errorf("item %d is not an object", i))
					return
				}
				records = append(records, m)
			}
			created, err := c.BatchCreate(records)
			if err != nil {
				fail(w, err)
				return
			}
			route.WriteJSON(w, http.StatusCreated, created)

		default:
			badRequest(w, errors.New("body must be an object or an array of objects"))
		}
	}
}

func Find(resolver Resolver) route.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request, next func()) {

		c, err := resource(resolver, r)
		if err != nil {
			fail(w, err)
			return
		}

		id := recordID(r)
		record, found := c.Find(id)
		if !found {
			fail(w, fmt.Errorf("%w: '%s'", ErrNotFound, id))
			return
		}

		route.WriteJSON(w, http.StatusOK, record)
	}
}

func Patch(resolver Resolver) route.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request, next func()) {

		c, err := resource(resolver, r)
		if err != nil {
			fail(w, err)
			return
		}

		fields := query.Record{}
		err = decodeBody(r, &fields)
		if err != nil {
			badRequest(w, err)
			return
		}

		id := recordID(r)
		patched, found, err := c.Patch(id, fields)
		if err != nil {
			fail(w, err)
			return
		}
		if !found {
			fail(w, fmt.Errorf("%w: '%s'", ErrNotFound, id))
			return
		}

		route.WriteJSON(w, http.StatusOK, patched)
	}
}

func Delete(resolver Resolver) route.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request, next func()) {

		c, err := resource(resolver, r)
		if err != nil {
			fail(w, err)
			return
		}

		id := recordID(r)
		removed, found, err := c.Delete(id)
		if err != nil {
			fail(w, err)
			return
		}
		if !found {
			fail(w, fmt.Errorf("%w: '%s'", ErrNotFound, id))
			return
		}

		route.WriteJSON(w, http.StatusOK, removed)
	}
}

// State answers the whole document on GET and replaces it otherwise.
func State(resolver Resolver) route.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request, next func()) {

		c, err := resource(resolver, r)
		if err != nil {
			fail(w, err)
			return
		}

		if r.Method == http.MethodGet {
			route.WriteJSON(w, http.StatusOK, c.State())
			return
		}

		doc := &collection.Document{}
		err = decodeBody(r, doc)
		if err != nil {
			badRequest(w, err)
			return
		}

		err = c.SetState(doc)
		if err != nil {
			fail(w, err)
			return
		}

		route.WriteJSON(w, http.StatusOK, c.State())
	}
}

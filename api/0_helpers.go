package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/fulldump/box"
	jsonv2 "github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"

	"github.com/fulldump/mockdb/api/apiresourcev1"
	"github.com/fulldump/mockdb/collection"
	"github.com/fulldump/mockdb/database"
	"github.com/fulldump/mockdb/query"
	"github.com/fulldump/mockdb/service"
)

var ErrUnavailable = errors.New("temporary unavailable")

type PrettyError struct {
	Message     string `json:"message"`
	Description string `json:"description"`
}

func (p PrettyError) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]interface{}{
		"error": struct {
			Message     string `json:"message"`
			Description string `json:"description"`
		}{
			p.Message,
			p.Description,
		},
	})
}

func (p PrettyError) MarshalTo(w io.Writer) error {
	return json.NewEncoder(w).Encode(p)
}

func InterceptorUnavailable(db *database.Database) box.I {
	return func(next box.H) box.H {
		return func(ctx context.Context) {

			status := db.GetStatus()
			if status == database.StatusOpening || status == database.StatusClosing {
				box.SetError(ctx, fmt.Errorf("%w: %s", ErrUnavailable, status))
				return
			}
			next(ctx)
		}
	}
}

// Describe returns the status and the description the admin api answers
// err with.
func Describe(r *http.Request, err error) (int, string) {

	var syntaxError *json.SyntaxError
	var typeError *json.UnmarshalTypeError
	var semanticError *jsonv2.SemanticError
	var syntacticError *jsontext.SyntacticError

	switch {
	case errors.Is(err, box.ErrResourceNotFound):
		return http.StatusNotFound, fmt.Sprintf("resource '%s' not found", r.URL.String())
	case errors.Is(err, box.ErrMethodNotAllowed):
		return http.StatusMethodNotAllowed, fmt.Sprintf("method '%s' not allowed", r.Method)
	case errors.Is(err, ErrUnavailable):
		return http.StatusServiceUnavailable, "database is not operating"
	case errors.Is(err, service.ErrorResourceNotFound):
		return http.StatusNotFound, "resource does not exist"
	case errors.Is(err, apiresourcev1.ErrRecordNotFound):
		return http.StatusNotFound, "record does not exist"
	case errors.Is(err, collection.ErrDuplicateID):
		return http.StatusConflict, "record id already exists"
	case errors.Is(err, database.ErrResourceName):
		return http.StatusBadRequest, "invalid resource name"
	case errors.Is(err, collection.ErrIDImmutable),
		errors.Is(err, query.ErrConflictingFilters),
		errors.Is(err, apiresourcev1.ErrBadBody):
		return http.StatusBadRequest, "Bad request"
	case errors.As(err, &syntaxError),
		errors.As(err, &syntacticError),
		errors.Is(err, io.EOF),
		errors.Is(err, io.ErrUnexpectedEOF):
		return http.StatusBadRequest, "Malformed JSON"
	case errors.As(err, &typeError),
		errors.As(err, &semanticError):
		return http.StatusBadRequest, "Unexpected JSON type"
	}

	return http.StatusInternalServerError, "Unexpected error"
}

func PrettyErrorInterceptor(next box.H) box.H {
	return func(ctx context.Context) {

		next(ctx)

		err := box.GetError(ctx)
		if err == nil {
			return
		}

		status, description := Describe(box.GetRequest(ctx), err)

		w := box.GetResponse(ctx)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"error": map[string]interface{}{
				"message":     err.Error(),
				"description": description,
			},
		})
	}
}

package apiresourcev1

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/fulldump/box"

	"github.com/fulldump/mockdb/query"
)

// createRecords stores one record (object body) or a batch (array body).
func createRecords(ctx context.Context, r *http.Request) (any, error) {

	col, err := openResource(ctx)
	if err != nil {
		return nil, err
	}

	var body any
	err = json.NewDecoder(r.Body).Decode(&body)
	if err != nil {
		return nil, err
	}

	var created any
	switch b := body.(type) {
	case map[string]any:
		created, err = col.Create(b)

	case []any:
		records := make([]query.Record, 0, len(b))
		for i, item := range b {
			m, ok := item.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("%w: item %d is not an object", ErrBadBody, i)
			}
			records = append(records, m)
		}
		created, err = col.BatchCreate(records)

	default:
		return nil, fmt.Errorf("%w: expected an object or an array of objects", ErrBadBody)
	}

	if err != nil {
		return nil, err
	}

	box.GetResponse(ctx).WriteHeader(http.StatusCreated)
	return created, nil
}

// queryRecords answers a page of records. An empty body is the first page
// with no filters.
func queryRecords(ctx context.Context, r *http.Request) (*query.Result, error) {

	col, err := openResource(ctx)
	if err != nil {
		return nil, err
	}

	input := &query.Input{}
	err = json.NewDecoder(r.Body).Decode(input)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}

	spec, err := input.Spec()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadBody, err)
	}

	return col.PagedQuery(spec)
}

func recordNotFound(id string) error {
	return fmt.Errorf("%w: '%s'", ErrRecordNotFound, id)
}

func getRecord(ctx context.Context) (query.Record, error) {

	col, err := openResource(ctx)
	if err != nil {
		return nil, err
	}

	id := box.GetUrlParameter(ctx, "recordId")
	record, found := col.Find(id)
	if !found {
		return nil, recordNotFound(id)
	}

	return record, nil
}

func patchRecord(ctx context.Context, fields query.Record) (query.Record, error) {

	col, err := openResource(ctx)
	if err != nil {
		return nil, err
	}

	id := box.GetUrlParameter(ctx, "recordId")
	patched, found, err := col.Patch(id, fields)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, recordNotFound(id)
	}

	return patched, nil
}

func deleteRecord(ctx context.Context) (query.Record, error) {

	col, err := openResource(ctx)
	if err != nil {
		return nil, err
	}

	id := box.GetUrlParameter(ctx, "recordId")
	removed, found, err := col.Delete(id)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, recordNotFound(id)
	}

	return removed, nil
}

package apiresourcev1

import (
	"context"

	"github.com/fulldump/mockdb/collection"
)

func getState(ctx context.Context) (*collection.Document, error) {

	col, err := openResource(ctx)
	if err != nil {
		return nil, err
	}

	return col.State(), nil
}

// setState replaces the whole document. It also brings back a resource whose
// last write failed.
func setState(ctx context.Context, doc *collection.Document) (*collection.Document, error) {

	col, err := openResource(ctx)
	if err != nil {
		return nil, err
	}

	err = col.SetState(doc)
	if err != nil {
		return nil, err
	}

	return col.State(), nil
}

package apiresourcev1

import (
	"context"
	"errors"

	"github.com/fulldump/box"

	"github.com/fulldump/mockdb/collection"
	"github.com/fulldump/mockdb/service"
)

const ContextServicerKey = "3c5b6d1e-8f7a-4e2b-9a41-5d0c7e9b2f16"

func SetServicer(ctx context.Context, s service.Servicer) context.Context {
	return context.WithValue(ctx, ContextServicerKey, s)
}

func GetServicer(ctx context.Context) service.Servicer {
	s, _ := ctx.Value(ContextServicerKey).(service.Servicer)
	return s
}

var (
	ErrRecordNotFound = errors.New("record not found")
	ErrBadBody        = errors.New("bad body")
)

func openResource(ctx context.Context) (*collection.Collection, error) {
	return GetServicer(ctx).OpenResource(box.GetUrlParameter(ctx, "resourceName"))
}

package apiresourcev1

import (
	"context"

	"github.com/fulldump/box"

	"github.com/fulldump/mockdb/service"
)

func listResources(ctx context.Context) ([]*service.Resource, error) {
	return GetServicer(ctx).ListResources()
}

func getResource(ctx context.Context) (*service.Resource, error) {
	return GetServicer(ctx).GetResource(box.GetUrlParameter(ctx, "resourceName"))
}

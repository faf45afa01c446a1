package api

import (
	"context"
	"net/http"

	"github.com/fulldump/box"
	"github.com/fulldump/box/boxopenapi"

	"github.com/fulldump/mockdb/api/apiresourcev1"
	"github.com/fulldump/mockdb/service"
)

// Build returns the admin api: resources and their records under /v1, the
// release and the openapi description. v1Interceptors only wrap /v1.
func Build(s service.Servicer, version string, v1Interceptors ...box.I) *box.B {

	b := box.NewBox()

	v1 := b.Resource("/v1")
	v1.WithInterceptors(
		box.SetResponseHeader("Content-Type", "application/json"),
	)
	v1.WithInterceptors(v1Interceptors...)

	apiresourcev1.BuildV1Resource(v1, s).
		WithInterceptors(
			injectServicer(s),
		)

	b.Resource("/v1/*").
		WithActions(box.AnyMethod(func(w http.ResponseWriter) interface{} {
			w.WriteHeader(http.StatusNotImplemented)
			return PrettyError{
				Message:     "not implemented",
				Description: "this endpoint does not exist, please check the documentation",
			}
		}))

	b.Resource("/release").
		WithActions(box.Get(func() string {
			return version
		}).WithName("release"))

	spec := boxopenapi.Spec(b)
	spec.Info.Title = "MockDB"
	spec.Info.Description = "Mock HTTP routes and JSON resources for local development."
	spec.Info.Version = version
	b.Handle("GET", "/openapi.json", func(r *http.Request) any {

		doc := spec
		doc.Servers = []boxopenapi.Server{
			{
				Url: "http://" + r.Host,
			},
		}

		return doc
	})

	return b
}

func injectServicer(s service.Servicer) box.I {
	return func(next box.H) box.H {
		return func(ctx context.Context) {
			next(apiresourcev1.SetServicer(ctx, s))
		}
	}
}

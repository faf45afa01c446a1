package api

import (
	"compress/gzip"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/fulldump/apitest"
	"github.com/fulldump/biff"
	"github.com/rs/zerolog"

	"github.com/fulldump/mockdb/database"
	"github.com/fulldump/mockdb/service"
)

func newTestApi(t *testing.T) (*database.Database, *apitest.Apitest) {

	db := database.NewDatabase(&database.Config{
		Dir: t.TempDir(),
	}, zerolog.Nop())

	s := service.NewService(db)

	b := Build(s, "test", InterceptorUnavailable(db))
	b.WithInterceptors(
		AccessLog(zerolog.Nop()),
		PrettyErrorInterceptor,
		RecoverFromPanic(zerolog.Nop()),
	)

	return db, apitest.NewWithHandler(b)
}

func TestAcceptance(t *testing.T) {

	biff.Alternative("Setup", func(a *biff.A) {

		db, api := newTestApi(t)

		biff.AssertNil(db.Load())
		biff.AssertEqual(db.GetStatus(), database.StatusOperating)

		service.Acceptance(a, func(method, path string) *apitest.Request {
			return api.Request(method, "/v1"+path)
		})

	})
}

func TestUnavailable(t *testing.T) {

	db, api := newTestApi(t)

	resp := api.Request("GET", "/v1/resources").Do()

	biff.AssertEqual(db.GetStatus(), database.StatusOpening)
	biff.AssertEqual(resp.StatusCode, http.StatusServiceUnavailable)
	biff.AssertEqualJson(resp.BodyJson(), map[string]any{
		"error": map[string]any{
			"message":     "temporary unavailable: opening",
			"description": "database is not operating",
		},
	})
}

func TestRelease(t *testing.T) {

	db, api := newTestApi(t)

	resp := api.Request("GET", "/release").Do()

	biff.AssertEqual(db.GetStatus(), database.StatusOpening)
	biff.AssertEqual(resp.StatusCode, http.StatusOK)
	biff.AssertEqual(resp.BodyJson(), "test")
}

func TestOpenapi(t *testing.T) {

	db, api := newTestApi(t)

	resp := api.Request("GET", "/openapi.json").Do()

	biff.AssertEqual(db.GetStatus(), database.StatusOpening)
	biff.AssertEqual(resp.StatusCode, http.StatusOK)
	body := resp.BodyJsonMap()
	biff.AssertEqual(body["info"].(map[string]any)["title"], "MockDB")
	biff.AssertNotNil(body["paths"])
}

func TestCompression(t *testing.T) {

	db := database.NewDatabase(&database.Config{
		Dir: t.TempDir(),
	}, zerolog.Nop())
	biff.AssertNil(db.Load())

	b := Build(service.NewService(db), "test")
	b.WithInterceptors(
		Compression,
		PrettyErrorInterceptor,
	)

	api := apitest.NewWithHandler(b)

	resp := api.Request("GET", "/v1/resources").
		WithHeader("Accept-Encoding", "gzip").
		Do()

	biff.AssertEqual(resp.StatusCode, http.StatusOK)
	biff.AssertEqual(resp.Header.Get("Content-Encoding"), "gzip")

	gz, err := gzip.NewReader(strings.NewReader(resp.BodyString()))
	biff.AssertNil(err)
	plain, err := io.ReadAll(gz)
	biff.AssertNil(err)
	biff.AssertEqual(strings.TrimSpace(string(plain)), "[]")
}

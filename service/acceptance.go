package service

import (
	"net/http"

	"github.com/fulldump/apitest"
	"github.com/fulldump/biff"
)

type JSON = map[string]interface{}

func Acceptance(a *biff.A, apiRequest func(method, path string) *apitest.Request) {

	a.Alternative("List resources - empty", func(a *biff.A) {
		resp := apiRequest("GET", "/resources").Do()
		Save(resp, "List resources - empty", ``)

		biff.AssertEqual(resp.StatusCode, http.StatusOK)
		biff.AssertEqualJson(resp.BodyJson(), []JSON{})
	})

	a.Alternative("Get resource - not found", func(a *biff.A) {
		resp := apiRequest("GET", "/resources/users").Do()
		Save(resp, "Get resource - not found", ``)

		biff.AssertEqual(resp.StatusCode, http.StatusNotFound)
		biff.AssertEqualJson(resp.BodyJson(), JSON{
			"error": JSON{
				"message":     "resource not found",
				"description": "resource does not exist",
			},
		})
	})

	a.Alternative("Create record - bad resource name", func(a *biff.A) {
		resp := apiRequest("POST", "/resources/.hidden").
			WithBodyJson(JSON{"name": "John"}).Do()

		biff.AssertEqual(resp.StatusCode, http.StatusBadRequest)
	})

	a.Alternative("Create record - malformed body", func(a *biff.A) {
		resp := apiRequest("POST", "/resources/users").
			WithBodyString(`{"name": `).Do()
		Save(resp, "Create record - malformed body", ``)

		biff.AssertEqual(resp.StatusCode, http.StatusBadRequest)
		biff.AssertEqual(resp.BodyJsonMap()["error"].(JSON)["description"], "Malformed JSON")
	})

	a.Alternative("Create record - not an object", func(a *biff.A) {
		resp := apiRequest("POST", "/resources/users").
			WithBodyString(`42`).Do()

		biff.AssertEqual(resp.StatusCode, http.StatusBadRequest)
	})

	a.Alternative("Create record", func(a *biff.A) {
		myRecord := JSON{
			"id":      "my-id",
			"name":    "Fulanez",
			"address": "Elm Street 11",
		}
		resp := apiRequest("POST", "/resources/users").
			WithBodyJson(myRecord).Do()
		Save(resp, "Create record", ``)

		biff.AssertEqual(resp.StatusCode, http.StatusCreated)
		biff.AssertEqualJson(resp.BodyJson(), myRecord)

		a.Alternative("Retrieve resource", func(a *biff.A) {
			resp := apiRequest("GET", "/resources/users").Do()
			Save(resp, "Retrieve resource", ``)

			biff.AssertEqual(resp.StatusCode, http.StatusOK)
			biff.AssertEqualJson(resp.BodyJson(), JSON{
				"name":  "users",
				"total": 1,
			})
		})

		a.Alternative("List resources", func(a *biff.A) {
			resp := apiRequest("GET", "/resources").Do()
			Save(resp, "List resources", ``)

			biff.AssertEqual(resp.StatusCode, http.StatusOK)
			biff.AssertEqualJson(resp.BodyJson(), []JSON{
				{
					"name":  "users",
					"total": 1,
				},
			})
		})

		a.Alternative("Get record", func(a *biff.A) {
			resp := apiRequest("GET", "/resources/users/my-id").Do()
			Save(resp, "Get record", ``)

			biff.AssertEqual(resp.StatusCode, http.StatusOK)
			biff.AssertEqualJson(resp.BodyJson(), myRecord)
		})

		a.Alternative("Create record - duplicated id", func(a *biff.A) {
			resp := apiRequest("POST", "/resources/users").
				WithBodyJson(JSON{"id": "my-id"}).Do()
			Save(resp, "Create record - duplicated id", ``)

			biff.AssertEqual(resp.StatusCode, http.StatusConflict)
		})

		a.Alternative("Patch record", func(a *biff.A) {
			resp := apiRequest("PATCH", "/resources/users/my-id").
				WithBodyJson(JSON{
					"address": "Elm Street 12",
					"country": "Spain",
				}).Do()
			Save(resp, "Patch record", ``)

			biff.AssertEqual(resp.StatusCode, http.StatusOK)
			biff.AssertEqualJson(resp.BodyJson(), JSON{
				"id":      "my-id",
				"name":    "Fulanez",
				"address": "Elm Street 12",
				"country": "Spain",
			})

			a.Alternative("Get patched record", func(a *biff.A) {
				resp := apiRequest("GET", "/resources/users/my-id").Do()

				biff.AssertEqual(resp.BodyJsonMap()["address"], "Elm Street 12")
			})
		})

		a.Alternative("Patch record - change id", func(a *biff.A) {
			resp := apiRequest("PATCH", "/resources/users/my-id").
				WithBodyJson(JSON{"id": "other-id"}).Do()
			Save(resp, "Patch record - change id", ``)

			biff.AssertEqual(resp.StatusCode, http.StatusBadRequest)
		})

		a.Alternative("Delete record", func(a *biff.A) {
			resp := apiRequest("DELETE", "/resources/users/my-id").Do()
			Save(resp, "Delete record", ``)

			biff.AssertEqual(resp.StatusCode, http.StatusOK)
			biff.AssertEqualJson(resp.BodyJson(), myRecord)

			a.Alternative("Get deleted record", func(a *biff.A) {
				resp := apiRequest("GET", "/resources/users/my-id").Do()
				Save(resp, "Get record - not found", ``)

				biff.AssertEqual(resp.StatusCode, http.StatusNotFound)
				biff.AssertEqualJson(resp.BodyJson(), JSON{
					"error": JSON{
						"message":     "record not found: 'my-id'",
						"description": "record does not exist",
					},
				})
			})
		})

		a.Alternative("Get state", func(a *biff.A) {
			resp := apiRequest("GET", "/resources/users:getState").Do()
			Save(resp, "Get state", ``)

			biff.AssertEqual(resp.StatusCode, http.StatusOK)
			biff.AssertEqualJson(resp.BodyJson(), JSON{
				"list": []JSON{myRecord},
			})
		})
	})

	a.Alternative("Create many", func(a *biff.A) {

		myRecords := []JSON{
			{"id": "1", "name": "Alfonso", "age": 30},
			{"id": "2", "name": "Gerardo", "age": 20},
			{"id": "3", "name": "Alfonso", "age": 10},
			{"id": "4", "name": "Beatriz", "age": 40},
		}

		resp := apiRequest("POST", "/resources/people").
			WithBodyJson(myRecords).Do()
		Save(resp, "Create many", ``)

		biff.AssertEqual(resp.StatusCode, http.StatusCreated)
		biff.AssertEqualJson(resp.BodyJson(), myRecords)

		a.Alternative("Query - empty body", func(a *biff.A) {
			resp := apiRequest("POST", "/resources/people:query").Do()

			biff.AssertEqual(resp.StatusCode, http.StatusOK)
			biff.AssertEqualJson(resp.BodyJson(), JSON{
				"data":  myRecords,
				"total": 4,
			})
		})

		a.Alternative("Query - operators", func(a *biff.A) {
			resp := apiRequest("POST", "/resources/people:query").
				WithBodyJson(JSON{
					"gt": JSON{"age": 15},
					"eq": JSON{"name": "Alfonso"},
				}).Do()
			Save(resp, "Query - operators", ``)

			biff.AssertEqual(resp.StatusCode, http.StatusOK)
			biff.AssertEqualJson(resp.BodyJson(), JSON{
				"data":  []JSON{myRecords[0]},
				"total": 1,
			})
		})

		a.Alternative("Query - sort and paginate", func(a *biff.A) {
			resp := apiRequest("POST", "/resources/people:query").
				WithBodyJson(JSON{
					"page": 2,
					"size": 2,
					"sort": []string{"-age"},
				}).Do()
			Save(resp, "Query - sort and paginate", ``)

			biff.AssertEqual(resp.StatusCode, http.StatusOK)
			biff.AssertEqualJson(resp.BodyJson(), JSON{
				"data":  []JSON{myRecords[1], myRecords[2]},
				"total": 4,
			})
		})

		a.Alternative("Query - filter expression", func(a *biff.A) {
			resp := apiRequest("POST", "/resources/people:query").
				WithBodyJson(JSON{
					"filter": `age >= 30`,
				}).Do()
			Save(resp, "Query - filter expression", ``)

			biff.AssertEqual(resp.StatusCode, http.StatusOK)
			biff.AssertEqualJson(resp.BodyJson(), JSON{
				"data":  []JSON{myRecords[0], myRecords[3]},
				"total": 2,
			})
		})

		a.Alternative("Query - where", func(a *biff.A) {
			resp := apiRequest("POST", "/resources/people:query").
				WithBodyJson(JSON{
					"where": JSON{"name": "Beatriz"},
				}).Do()
			Save(resp, "Query - where", ``)

			biff.AssertEqual(resp.StatusCode, http.StatusOK)
			biff.AssertEqualJson(resp.BodyJson(), JSON{
				"data":  []JSON{myRecords[3]},
				"total": 1,
			})
		})

		a.Alternative("Query - conflicting filters", func(a *biff.A) {
			resp := apiRequest("POST", "/resources/people:query").
				WithBodyJson(JSON{
					"filter": `age >= 30`,
					"gt":     JSON{"age": 15},
				}).Do()
			Save(resp, "Query - conflicting filters", ``)

			biff.AssertEqual(resp.StatusCode, http.StatusBadRequest)
		})

		a.Alternative("Set state", func(a *biff.A) {
			resp := apiRequest("POST", "/resources/people:setState").
				WithBodyJson(JSON{
					"list":    []JSON{myRecords[3]},
					"version": 2,
				}).Do()
			Save(resp, "Set state", ``)

			biff.AssertEqual(resp.StatusCode, http.StatusOK)
			biff.AssertEqualJson(resp.BodyJson(), JSON{
				"list":    []JSON{myRecords[3]},
				"version": 2,
			})

			a.Alternative("Retrieve resource after set state", func(a *biff.A) {
				resp := apiRequest("GET", "/resources/people").Do()

				biff.AssertEqualJson(resp.BodyJson(), JSON{
					"name":  "people",
					"total": 1,
				})
			})
		})
	})

	a.Alternative("Not implemented", func(a *biff.A) {
		resp := apiRequest("GET", "/unknown/endpoint").Do()

		biff.AssertEqual(resp.StatusCode, http.StatusNotImplemented)
	})
}

package query

import (
	"testing"

	. "github.com/fulldump/biff"
)

func TestSortBy(t *testing.T) {

	records := []Record{
		{"id": "1", "team": "red", "age": 30.0},
		{"id": "2", "team": "blue", "age": 40.0},
		{"id": "3", "team": "red", "age": 50.0},
		{"id": "4", "team": "blue", "age": 20.0},
	}

	AssertEqual(ids(SortBy(records, "age")), []string{"4", "1", "2", "3"})
	AssertEqual(ids(SortBy(records, "-age")), []string{"3", "2", "1", "4"})
	AssertEqual(ids(SortBy(records, "team", "-age")), []string{"2", "4", "3", "1"})
}

func TestSortBy_Stable(t *testing.T) {

	records := []Record{
		{"id": "1", "team": "red"},
		{"id": "2", "team": "blue"},
		{"id": "3", "team": "red"},
		{"id": "4", "team": "blue"},
	}

	AssertEqual(ids(SortBy(records, "team")), []string{"2", "4", "1", "3"})
}

func TestSortBy_MixedKinds(t *testing.T) {

	records := []Record{
		{"id": "string", "v": "x"},
		{"id": "number", "v": 3.0},
		{"id": "missing"},
		{"id": "bool", "v": true},
	}

	AssertEqual(ids(SortBy(records, "v")), []string{"missing", "bool", "number", "string"})
}

func TestSortBy_NoFields(t *testing.T) {

	records := ages()

	AssertEqual(ids(SortBy(records, "", "-")), []string{"a", "b", "c"})
}

func TestCompare(t *testing.T) {

	c, ok := Compare(1, 2.5)
	AssertTrue(ok)
	AssertEqual(c, -1)

	c, ok = Compare("b", "a")
	AssertTrue(ok)
	AssertEqual(c, 1)

	c, ok = Compare(false, true)
	AssertTrue(ok)
	AssertEqual(c, -1)

	c, ok = Compare(nil, nil)
	AssertTrue(ok)
	AssertEqual(c, 0)

	_, ok = Compare("10", 10)
	AssertFalse(ok)

	_, ok = Compare(map[string]any{}, map[string]any{})
	AssertFalse(ok)
}

func TestEqual(t *testing.T) {

	AssertTrue(Equal(1, 1.0))
	AssertTrue(Equal([]any{1.0, "a"}, []any{1, "a"}))
	AssertTrue(Equal(map[string]any{"a": 1}, map[string]any{"a": 1.0}))
	AssertFalse(Equal(map[string]any{"a": 1}, map[string]any{"a": 1, "b": 2}))
	AssertFalse(Equal("1", 1))
}

func TestIsMatch(t *testing.T) {

	actual := map[string]any{
		"name": "John",
		"tags": []any{"a", "b", "c"},
		"address": map[string]any{
			"city": "Madrid",
			"zip":  "28001",
		},
	}

	AssertTrue(IsMatch(actual, map[string]any{"name": "John"}))
	AssertTrue(IsMatch(actual, map[string]any{"tags": []any{"c", "a"}}))
	AssertTrue(IsMatch(actual, map[string]any{"address": map[string]any{"city": "Madrid"}}))
	AssertFalse(IsMatch(actual, map[string]any{"name": "John", "age": 3}))
	AssertFalse(IsMatch(actual, map[string]any{"missing": nil}))
	AssertFalse(IsMatch(actual, map[string]any{"tags": []any{"z"}}))
}

func TestStringify(t *testing.T) {

	AssertEqual(Stringify("x"), "x")
	AssertEqual(Stringify(15.0), "15")
	AssertEqual(Stringify(1.5), "1.5")
	AssertEqual(Stringify(true), "true")
	AssertEqual(Stringify(nil), "null")
	AssertEqual(Stringify([]any{1.0, "a"}), `[1,"a"]`)
}

func TestRecord_Clone(t *testing.T) {

	original := Record{
		"id":     "1",
		"nested": map[string]any{"a": 1.0},
		"list":   []any{map[string]any{"b": 2.0}},
	}

	clone := original.Clone()
	clone["nested"].(map[string]any)["a"] = 99.0
	clone["list"].([]any)[0].(map[string]any)["b"] = 99.0

	AssertEqual(original["nested"].(map[string]any)["a"], 1.0)
	AssertEqual(original["list"].([]any)[0].(map[string]any)["b"], 2.0)
}

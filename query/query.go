// Package query implements the filter, sort and pagination semantics of the
// record store. Everything here is pure: functions receive an in-memory
// sequence of records and never touch persistence.
package query

import (
	"errors"
	"sort"
)

const (
	DefaultPage = 1
	DefaultSize = 10
)

var ErrConflictingFilters = errors.New("predicate filter and operator filter are mutually exclusive")

// Predicate is the functional filter form: records pass when it returns true.
type Predicate func(r Record) bool

// Comparator reports whether a sorts before b.
type Comparator func(a, b Record) bool

// Spec describes one paged query. Zero Page and Size take the defaults.
// Filter and Operators are alternative filter modes, at most one of them may
// be set. Less takes precedence over SortBy when both are present.
type Spec struct {
	Page      int
	Size      int
	Filter    Predicate
	Operators *Operators
	Less      Comparator
	SortBy    []string
}

type Result struct {
	Data  []Record `json:"data"`
	Total int      `json:"total"`
}

// Run filters and sorts the records into the working sequence and returns
// the requested page of it. The input slice is never reordered.
func Run(records []Record, spec Spec) (*Result, error) {

	working, err := Working(records, spec)
	if err != nil {
		return nil, err
	}

	page, size := spec.Page, spec.Size
	if page == 0 {
		page = DefaultPage
	}
	if size == 0 {
		size = DefaultSize
	}

	return &Result{
		Data:  Paginate(working, page, size),
		Total: len(working),
	}, nil
}

// Working returns the filtered and sorted, not yet paginated, sequence.
func Working(records []Record, spec Spec) ([]Record, error) {

	if spec.Filter != nil && !spec.Operators.IsEmpty() {
		return nil, ErrConflictingFilters
	}

	working := make([]Record, 0, len(records))
	switch {
	case spec.Filter != nil:
		for _, r := range records {
			if spec.Filter(r) {
				working = append(working, r)
			}
		}
	case !spec.Operators.IsEmpty():
		working = append(working, spec.Operators.Filter(records)...)
	default:
		working = append(working, records...)
	}

	switch {
	case spec.Less != nil:
		sort.SliceStable(working, func(i, j int) bool {
			return spec.Less(working[i], working[j])
		})
	case len(spec.SortBy) > 0:
		working = SortBy(working, spec.SortBy...)
	}

	return working, nil
}

// Paginate returns the page-th chunk (1-indexed) of size records. Pages out
// of range, and non-positive page or size, yield an empty slice.
func Paginate(records []Record, page, size int) []Record {
	if page < 1 || size < 1 {
		return []Record{}
	}

	pages := len(records) / size
	if len(records)%size != 0 {
		pages++
	}
	if page > pages {
		return []Record{}
	}

	start := (page - 1) * size
	end := len(records)
	if size < end-start {
		end = start + size
	}

	return records[start:end]
}

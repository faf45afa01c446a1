package query

import (
	"strings"

	"github.com/google/btree"
)

type sortKey struct {
	field   string
	reverse bool
}

type sortItem struct {
	pos    int
	values []any
	record Record
}

// SortBy orders records by the given fields. A leading "-" sorts that field
// descending. Records equal on every field keep their relative order.
// Values of different kinds sort null, bool, number, string, then anything
// else; missing fields sort as null.
func SortBy(records []Record, fields ...string) []Record {

	keys := make([]sortKey, 0, len(fields))
	for _, field := range fields {
		field = strings.TrimSpace(field)
		if field == "" || field == "-" {
			continue
		}
		keys = append(keys, sortKey{
			field:   strings.TrimPrefix(field, "-"),
			reverse: strings.HasPrefix(field, "-"),
		})
	}
	if len(keys) == 0 {
		return records
	}

	tree := btree.NewG(32, func(a, b *sortItem) bool {
		for i, key := range keys {
			c := sortCompare(a.values[i], b.values[i])
			if c == 0 {
				continue
			}
			if key.reverse {
				return c > 0
			}
			return c < 0
		}
		return a.pos < b.pos
	})

	for i, r := range records {
		values := make([]any, len(keys))
		for k, key := range keys {
			values[k] = r[key.field]
		}
		tree.ReplaceOrInsert(&sortItem{
			pos:    i,
			values: values,
			record: r,
		})
	}

	result := make([]Record, 0, len(records))
	tree.Ascend(func(item *sortItem) bool {
		result = append(result, item.record)
		return true
	})

	return result
}

func sortRank(k Kind) int {
	switch k {
	case KindNull:
		return 0
	case KindBool:
		return 1
	case KindNumber:
		return 2
	case KindString:
		return 3
	}
	return 4
}

func sortCompare(a, b any) int {
	ra, rb := sortRank(KindOf(a)), sortRank(KindOf(b))
	if ra != rb {
		return ra - rb
	}
	if c, ok := Compare(a, b); ok {
		return c
	}
	return strings.Compare(Stringify(a), Stringify(b))
}

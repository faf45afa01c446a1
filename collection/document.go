package collection

import (
	"github.com/go-json-experiment/json"

	"github.com/fulldump/mockdb/query"
)

type Record = query.Record

// Document is the whole persisted state of one resource. Members other than
// "list" are kept in Extra so rewriting the document never drops them.
type Document struct {
	List  []Record       `json:"list"`
	Extra map[string]any `json:",unknown"`
}

// document has the fields of Document without its methods.
type document Document

// MarshalJSON inlines Extra next to "list" for encoders that do not know
// about unknown members.
func (d *Document) MarshalJSON() ([]byte, error) {
	return json.Marshal((*document)(d), json.Deterministic(true))
}

func (d *Document) UnmarshalJSON(data []byte) error {
	return json.Unmarshal(data, (*document)(d))
}

func (d *Document) clone() *Document {
	c := &Document{
		List: make([]Record, len(d.List)),
	}
	for i, r := range d.List {
		c.List[i] = r.Clone()
	}
	if d.Extra != nil {
		c.Extra = query.Record(d.Extra).Clone()
	}
	return c
}

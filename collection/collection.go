// Package collection is the per-resource record store: an ordered list of
// schema-less records kept in memory and rewritten as a whole document on
// every mutation.
//
// Access to one collection is serialized with a mutex, so goroutines of the
// same process never lose updates. Two processes writing the same document
// still race (read-modify-write without file locking).
package collection

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/fulldump/mockdb/query"
)

const IDField = "id"

var (
	ErrDuplicateID = errors.New("duplicate id")
	ErrIDImmutable = errors.New("id is immutable")
)

type Collection struct {
	Name  string
	store DocumentStore
	mutex *sync.Mutex
	doc   *Document

	// failure is set when the document could not be written; the in-memory
	// state is no longer trusted until Reload succeeds
	failure error

	// NewID generates ids for records created without one
	NewID func() string
}

// OpenCollection reads the document and creates the default empty list when
// the document is new.
func OpenCollection(name string, store DocumentStore) (*Collection, error) {

	c := &Collection{
		Name:  name,
		store: store,
		mutex: &sync.Mutex{},
		NewID: func() string {
			return uuid.New().String()
		},
	}

	err := c.load()
	if err != nil {
		return nil, err
	}

	return c, nil
}

func (c *Collection) load() error {

	doc, err := c.store.Read()
	if err != nil {
		return err
	}

	if doc.List == nil {
		doc.List = []Record{}
		err = c.store.Write(doc)
		if err != nil {
			return fmt.Errorf("write defaults: %w", err)
		}
	}

	c.doc = doc
	c.failure = nil

	return nil
}

func (c *Collection) persist() error {
	err := c.store.Write(c.doc)
	if err != nil {
		c.failure = fmt.Errorf("collection '%s' unusable: %w", c.Name, err)
		return c.failure
	}
	return nil
}

// idOf returns the string form of the record id, ok is false when the record
// has no usable id (missing, null or empty string).
func idOf(r Record) (string, bool) {
	v, exists := r[IDField]
	if !exists || v == nil || v == "" {
		return "", false
	}
	if s, ok := v.(string); ok {
		return s, true
	}
	return query.Stringify(v), true
}

func (c *Collection) indexOf(id string) int {
	for i, r := range c.doc.List {
		if rid, ok := idOf(r); ok && rid == id {
			return i
		}
	}
	return -1
}

func (c *Collection) prepare(record Record) Record {
	r := record.Clone()
	if r == nil {
		r = Record{}
	}
	if _, ok := idOf(r); !ok {
		r[IDField] = c.NewID()
	}
	return r
}

// Create stores a copy of record, with a generated id when it has none, and
// returns the stored copy.
func (c *Collection) Create(record Record) (Record, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if c.failure != nil {
		return nil, c.failure
	}

	r := c.prepare(record)
	id, _ := idOf(r)
	if c.indexOf(id) >= 0 {
		return nil, fmt.Errorf("%w '%s'", ErrDuplicateID, id)
	}

	c.doc.List = append(c.doc.List, r)

	err := c.persist()
	if err != nil {
		return nil, err
	}

	return r.Clone(), nil
}

// BatchCreate stores all records or none of them, writing the document once.
func (c *Collection) BatchCreate(records []Record) ([]Record, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if c.failure != nil {
		return nil, c.failure
	}

	prepared := make([]Record, 0, len(records))
	seen := map[string]bool{}
	for _, record := range records {
		r := c.prepare(record)
		id, _ := idOf(r)
		if seen[id] || c.indexOf(id) >= 0 {
			return nil, fmt.Errorf("%w '%s'", ErrDuplicateID, id)
		}
		seen[id] = true
		prepared = append(prepared, r)
	}

	c.doc.List = append(c.doc.List, prepared...)

	err := c.persist()
	if err != nil {
		return nil, err
	}

	result := make([]Record, len(prepared))
	for i, r := range prepared {
		result[i] = r.Clone()
	}
	return result, nil
}

// Find returns a copy of the record with the given id.
func (c *Collection) Find(id string) (Record, bool) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	i := c.indexOf(id)
	if i < 0 {
		return nil, false
	}
	return c.doc.List[i].Clone(), true
}

// Delete removes the record and returns it as it was before deletion.
// Nothing is written when the id does not exist.
func (c *Collection) Delete(id string) (Record, bool, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if c.failure != nil {
		return nil, false, c.failure
	}

	i := c.indexOf(id)
	if i < 0 {
		return nil, false, nil
	}

	removed := c.doc.List[i]
	list := make([]Record, 0, len(c.doc.List)-1)
	list = append(list, c.doc.List[:i]...)
	list = append(list, c.doc.List[i+1:]...)
	c.doc.List = list

	err := c.persist()
	if err != nil {
		return nil, false, err
	}

	return removed, true, nil
}

// Patch shallow-merges fields into the record: named fields are overwritten
// or added, the rest are left untouched.
func (c *Collection) Patch(id string, fields Record) (Record, bool, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if c.failure != nil {
		return nil, false, c.failure
	}

	i := c.indexOf(id)
	if i < 0 {
		return nil, false, nil
	}

	r := c.doc.List[i]
	if v, exists := fields[IDField]; exists {
		if newID, _ := idOf(Record{IDField: v}); newID != id {
			return nil, false, fmt.Errorf("%w: '%s'", ErrIDImmutable, id)
		}
	}

	for k, v := range fields.Clone() {
		if k == IDField {
			continue
		}
		r[k] = v
	}

	err := c.persist()
	if err != nil {
		return nil, false, err
	}

	return r.Clone(), true, nil
}

// PagedQuery runs spec over the records in insertion order. Predicates and
// comparators see the stored records and must not modify them.
func (c *Collection) PagedQuery(spec query.Spec) (*query.Result, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if c.failure != nil {
		return nil, c.failure
	}

	result, err := query.Run(c.doc.List, spec)
	if err != nil {
		return nil, err
	}

	for i, r := range result.Data {
		result.Data[i] = r.Clone()
	}

	return result, nil
}

// Len is the number of records.
func (c *Collection) Len() int {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return len(c.doc.List)
}

// State returns a copy of the whole document.
func (c *Collection) State() *Document {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.doc.clone()
}

// SetState replaces the whole document and writes it.
func (c *Collection) SetState(doc *Document) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if doc == nil {
		doc = &Document{}
	}
	next := doc.clone()
	if next.List == nil {
		next.List = []Record{}
	}
	c.doc = next

	err := c.persist()
	if err != nil {
		return err
	}
	c.failure = nil
	return nil
}

// Reload discards the in-memory state and reads the document again. It is
// the way back from a failed write once the document has been restored.
func (c *Collection) Reload() error {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.load()
}

// Err is the write failure that made the collection unusable, if any.
func (c *Collection) Err() error {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.failure
}

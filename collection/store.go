package collection

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
)

// DocumentStore persists a Document as a whole: Read loads everything,
// Write replaces everything.
type DocumentStore interface {
	Read() (*Document, error)
	Write(doc *Document) error
}

// FileStore keeps the document in a JSON file.
type FileStore struct {
	Filename string
}

func NewFileStore(filename string) *FileStore {
	return &FileStore{Filename: filename}
}

// Read returns an empty document when the file does not exist or is empty.
func (s *FileStore) Read() (*Document, error) {

	data, err := os.ReadFile(s.Filename)
	if os.IsNotExist(err) {
		return &Document{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}

	doc := &Document{}
	if len(bytes.TrimSpace(data)) == 0 {
		return doc, nil
	}

	err = json.Unmarshal(data, (*document)(doc))
	if err != nil {
		return nil, fmt.Errorf("decode document '%s': %w", s.Filename, err)
	}

	return doc, nil
}

// Write encodes the document and replaces the file atomically (temporary
// file in the same directory plus rename).
func (s *FileStore) Write(doc *Document) error {

	data, err := json.Marshal((*document)(doc), jsontext.WithIndent("  "), json.Deterministic(true))
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	data = append(data, '\n')

	dir, base := filepath.Split(s.Filename)
	if dir == "" {
		dir = "."
	}

	f, err := os.CreateTemp(dir, "."+base+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmp := f.Name()

	_, err = f.Write(data)
	if err == nil {
		err = f.Sync()
	}
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tmp)
		return fmt.Errorf("write temp file: %w", err)
	}

	err = os.Rename(tmp, s.Filename)
	if err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replace document: %w", err)
	}

	return nil
}

// MemoryStore keeps the document in memory, mostly for tests. WriteErr,
// when set, is returned by the next writes.
type MemoryStore struct {
	mutex    sync.Mutex
	doc      *Document
	Writes   int
	WriteErr error
}

func (s *MemoryStore) Read() (*Document, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.doc == nil {
		return &Document{}, nil
	}
	return s.doc.clone(), nil
}

func (s *MemoryStore) Write(doc *Document) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.WriteErr != nil {
		return s.WriteErr
	}
	s.Writes++
	s.doc = doc.clone()
	return nil
}

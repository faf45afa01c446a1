package database

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/fulldump/mockdb/collection"
	"github.com/fulldump/mockdb/utils"
)

const (
	StatusOpening   = "opening"
	StatusOperating = "operating"
	StatusClosing   = "closing"
)

const Extension = ".json"

var ErrResourceName = errors.New("bad resource name")

type Config struct {
	Dir string
}

// Database owns the resource documents directory: one JSON document per
// resource, one in-process collection per document.
type Database struct {
	Config *Config
	Logger zerolog.Logger

	mutex       *sync.Mutex
	status      string
	collections map[string]*collection.Collection
	exit        chan struct{}
	stopOnce    *sync.Once
}

func NewDatabase(config *Config, logger zerolog.Logger) *Database {
	return &Database{
		Config:      config,
		Logger:      logger,
		mutex:       &sync.Mutex{},
		status:      StatusOpening,
		collections: map[string]*collection.Collection{},
		exit:        make(chan struct{}),
		stopOnce:    &sync.Once{},
	}
}

func (db *Database) GetStatus() string {
	db.mutex.Lock()
	defer db.mutex.Unlock()
	return db.status
}

func (db *Database) setStatus(status string) {
	db.mutex.Lock()
	db.status = status
	db.mutex.Unlock()
}

// ResourceName normalizes name to its document file name, appending the
// extension when missing.
func ResourceName(name string) (string, error) {

	if name == "" || name == Extension {
		return "", fmt.Errorf("%w: empty", ErrResourceName)
	}
	if strings.ContainsAny(name, `/\`) || name == "." || name == ".." || strings.HasPrefix(name, ".") {
		return "", fmt.Errorf("%w '%s'", ErrResourceName, name)
	}

	if !strings.HasSuffix(name, Extension) {
		name += Extension
	}

	return name, nil
}

// Resource returns the collection of a resource, opening (and creating) its
// document on first use. The same name always gets the same collection.
func (db *Database) Resource(name string) (*collection.Collection, error) {

	filename, err := ResourceName(name)
	if err != nil {
		return nil, err
	}

	db.mutex.Lock()
	defer db.mutex.Unlock()

	col, exists := db.collections[filename]
	if exists {
		return col, nil
	}

	col, err = db.open(filename)
	if err != nil {
		return nil, err
	}

	db.collections[filename] = col

	return col, nil
}

func (db *Database) open(filename string) (*collection.Collection, error) {

	t0 := time.Now()
	name := strings.TrimSuffix(filename, Extension)
	store := collection.NewFileStore(filepath.Join(db.Config.Dir, filename))

	col, err := collection.OpenCollection(name, store)
	if err != nil {
		db.Logger.Error().Err(err).Str("resource", name).Msg("open resource")
		return nil, fmt.Errorf("open resource '%s': %w", name, err)
	}

	db.Logger.Info().
		Str("resource", name).
		Int("records", col.Len()).
		Dur("took", time.Since(t0)).
		Msg("resource opened")

	return col, nil
}

// ListResources returns the resource names, with and without an open
// collection, sorted.
func (db *Database) ListResources() ([]string, error) {

	names := map[string]bool{}

	entries, err := os.ReadDir(db.Config.Dir)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), Extension) || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		names[strings.TrimSuffix(entry.Name(), Extension)] = true
	}

	db.mutex.Lock()
	for filename := range db.collections {
		names[strings.TrimSuffix(filename, Extension)] = true
	}
	db.mutex.Unlock()

	return utils.GetKeys(names), nil
}

// Load creates the directory and opens the documents already in it.
func (db *Database) Load() error {

	dir := db.Config.Dir
	db.Logger.Info().Str("dir", dir).Msg("loading database")

	err := os.MkdirAll(dir, 0755)
	if err != nil {
		db.setStatus(StatusClosing)
		return err
	}

	names, err := db.ListResources()
	if err != nil {
		db.setStatus(StatusClosing)
		return err
	}

	for _, name := range names {
		_, err := db.Resource(name)
		if err != nil {
			db.setStatus(StatusClosing)
			return err
		}
	}

	db.setStatus(StatusOperating)

	return nil
}

// Start loads the database and blocks until Stop.
func (db *Database) Start() error {

	err := db.Load()
	if err != nil {
		return err
	}

	<-db.exit

	return nil
}

// Stop releases Start. Documents are written on every mutation so there is
// nothing to flush.
func (db *Database) Stop() error {

	db.setStatus(StatusClosing)

	db.stopOnce.Do(func() {
		close(db.exit)
	})

	var lastErr error
	db.mutex.Lock()
	for name, col := range db.collections {
		err := col.Err()
		if err != nil {
			db.Logger.Error().Err(err).Str("resource", name).Msg("resource closed unusable")
			lastErr = err
		}
	}
	db.mutex.Unlock()

	return lastErr
}

package route

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/go-json-experiment/json"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

const DefaultSourcePattern = "*.{yaml,yml,json}"

// Source provides the ordered list of routes. It is asked again on every
// dispatch.
type Source interface {
	Routes() ([]*Spec, error)
}

// Static is a fixed list of compiled routes.
type Static []*Spec

func NewStatic(specs ...*Spec) (Static, error) {
	for i, s := range specs {
		err := s.Compile()
		if err != nil {
			return nil, fmt.Errorf("route %d (%s): %w", i, s, err)
		}
	}
	return Static(specs), nil
}

func (s Static) Routes() ([]*Spec, error) {
	return s, nil
}

// LoadError is a route source that could not be loaded.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load route source '%s': %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Loader reads route sources from a directory. Every call to Routes lists
// the directory again; a source is only parsed again when its modification
// stamp and its content have changed.
type Loader struct {
	Dir string

	// Pattern selects the source files by name (doublestar syntax)
	Pattern string

	Handlers Registry
	Logger   zerolog.Logger

	mutex *sync.Mutex
	cache map[string]*cachedSource
}

type cachedSource struct {
	modTime time.Time
	size    int64
	hash    [sha256.Size]byte
	routes  []*Spec
}

func NewLoader(dir string, handlers Registry, logger zerolog.Logger) *Loader {
	return &Loader{
		Dir:      dir,
		Pattern:  DefaultSourcePattern,
		Handlers: handlers,
		Logger:   logger,
		mutex:    &sync.Mutex{},
		cache:    map[string]*cachedSource{},
	}
}

func (l *Loader) Routes() ([]*Spec, error) {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	pattern := l.Pattern
	if pattern == "" {
		pattern = DefaultSourcePattern
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("bad source pattern '%s'", pattern)
	}

	entries, err := os.ReadDir(l.Dir)
	if errors.Is(err, os.ErrNotExist) {
		clear(l.cache)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list route sources: %w", err)
	}

	routes := []*Spec{}
	seen := map[string]bool{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		match, _ := doublestar.Match(pattern, entry.Name())
		if !match {
			continue
		}

		filename := filepath.Join(l.Dir, entry.Name())
		seen[filename] = true

		sourceRoutes, err := l.source(filename, entry)
		if err != nil {
			return nil, &LoadError{Source: filename, Err: err}
		}
		routes = append(routes, sourceRoutes...)
	}

	for filename := range l.cache {
		if !seen[filename] {
			delete(l.cache, filename)
			l.Logger.Info().Str("source", filename).Msg("route source removed")
		}
	}

	return routes, nil
}

func (l *Loader) source(filename string, entry os.DirEntry) ([]*Spec, error) {

	info, err := entry.Info()
	if err != nil {
		return nil, err
	}

	cached, exists := l.cache[filename]
	if exists && cached.modTime.Equal(info.ModTime()) && cached.size == info.Size() {
		return cached.routes, nil
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	hash := sha256.Sum256(data)
	if exists && cached.hash == hash {
		cached.modTime = info.ModTime()
		cached.size = info.Size()
		return cached.routes, nil
	}

	routes, err := ParseSource(filename, data, l.Handlers)
	if err != nil {
		delete(l.cache, filename)
		return nil, err
	}

	l.cache[filename] = &cachedSource{
		modTime: info.ModTime(),
		size:    info.Size(),
		hash:    hash,
		routes:  routes,
	}

	l.Logger.Info().
		Str("source", filename).
		Int("routes", len(routes)).
		Msg("route source loaded")

	return routes, nil
}

type sourceFile struct {
	Requests []sourceSpec `yaml:"requests" json:"requests"`
}

type sourceSpec struct {
	Method   string            `yaml:"method" json:"method"`
	Path     string            `yaml:"path" json:"path"`
	Regex    string            `yaml:"regex" json:"regex"`
	Handler  string            `yaml:"handler" json:"handler"`
	With     map[string]any    `yaml:"with" json:"with"`
	Response any               `yaml:"response" json:"response"`
	Status   int               `yaml:"status" json:"status"`
	Headers  map[string]string `yaml:"headers" json:"headers"`
	Active   *bool             `yaml:"active" json:"active"`
}

func decodeSource(name string, data []byte) (*sourceFile, error) {

	file := &sourceFile{}

	if len(bytes.TrimSpace(data)) == 0 {
		return file, nil
	}

	if strings.EqualFold(filepath.Ext(name), ".json") {
		err := json.Unmarshal(data, file, json.RejectUnknownMembers(true))
		return file, err
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	err := decoder.Decode(file)
	if err == io.EOF {
		err = nil
	}
	return file, err
}

// ParseSource decodes a route source, YAML or JSON depending on the name
// extension, with the routes listed under "requests". Handler names are
// resolved with handlers.
func ParseSource(name string, data []byte, handlers Registry) ([]*Spec, error) {

	file, err := decodeSource(name, data)
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	specs := make([]*Spec, 0, len(file.Requests))
	for i, s := range file.Requests {

		spec := &Spec{
			Method:      s.Method,
			Path:        s.Path,
			HandlerName: s.Handler,
			With:        s.With,
			Response:    s.Response,
			Status:      s.Status,
			Headers:     s.Headers,
			Active:      s.Active,
			Source:      name,
		}

		if s.Regex != "" {
			spec.Regex, err = regexp.Compile(s.Regex)
			if err != nil {
				return nil, fmt.Errorf("request %d: %w", i, err)
			}
		}

		if s.Handler != "" {
			h, exists := handlers[s.Handler]
			if !exists {
				return nil, fmt.Errorf("request %d: unknown handler '%s'", i, s.Handler)
			}
			spec.Handler = h
		}

		err = spec.Compile()
		if err != nil {
			return nil, fmt.Errorf("request %d (%s): %w", i, spec, err)
		}

		specs = append(specs, spec)
	}

	return specs, nil
}

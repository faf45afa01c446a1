// Package route loads mock route definitions and dispatches requests to the
// first route that matches them.
package route

import (
	"context"
	"errors"
	"net/http"
	"regexp"
	"strings"

	"github.com/fulldump/box"
)

const DefaultMethod = http.MethodGet

// HandlerFunc serves a matched request. Calling next hands the request to
// whatever is behind the dispatcher.
type HandlerFunc func(w http.ResponseWriter, r *http.Request, next func())

// Registry maps the handler names used in route sources to their code.
type Registry map[string]HandlerFunc

// Spec is one route. Path (a url pattern) and Regex are mutually exclusive.
// A route is served by Handler or, when there is none, by rendering the
// Response template.
type Spec struct {
	Method  string
	Path    string
	Regex   *regexp.Regexp
	Handler HandlerFunc

	// HandlerName is the name Handler was resolved from, if any
	HandlerName string

	Response any
	Status   int
	Headers  map[string]string
	Active   *bool

	// With is free configuration for the handler
	With map[string]any

	// Source is where the route was declared
	Source string

	pattern *Pattern
}

// Compile validates the route and compiles its path pattern.
func (s *Spec) Compile() error {

	if s.Path != "" && s.Regex != nil {
		return errors.New("path and regex are mutually exclusive")
	}
	if s.Path == "" && s.Regex == nil {
		return errors.New("path or regex is required")
	}
	if s.Handler == nil && s.Response == nil {
		return errors.New("handler or response is required")
	}

	if s.Path != "" {
		pattern, err := CompilePattern(s.Path)
		if err != nil {
			return err
		}
		s.pattern = pattern
	}

	return nil
}

func (s *Spec) IsActive() bool {
	return s.Active == nil || *s.Active
}

func (s *Spec) MethodName() string {
	if s.Method == "" {
		return DefaultMethod
	}
	return strings.ToUpper(s.Method)
}

func (s *Spec) String() string {
	if s.Regex != nil {
		return s.MethodName() + " /" + s.Regex.String() + "/"
	}
	return s.MethodName() + " " + s.Path
}

// Match tells whether the route serves method and path and returns the
// parameters captured from the path. A regex route captures its named
// groups.
func (s *Spec) Match(method, path string) (map[string]string, bool) {

	if !s.IsActive() {
		return nil, false
	}

	if !strings.EqualFold(s.MethodName(), method) {
		return nil, false
	}

	if s.Regex != nil {
		return matchRegex(s.Regex, path)
	}

	if s.pattern == nil {
		return nil, false
	}

	return s.pattern.Match(path)
}

func matchRegex(regex *regexp.Regexp, path string) (map[string]string, bool) {

	groups := regex.FindStringSubmatch(path)
	if groups == nil {
		return nil, false
	}

	params := map[string]string{}
	for i, name := range regex.SubexpNames() {
		if name == "" || i == 0 {
			continue
		}
		params[name] = groups[i]
	}

	return params, true
}

type contextKey int

const (
	paramsKey contextKey = iota
	routeKey
)

// Params returns the path parameters bound to the request, including the
// ones from a surrounding box router.
func Params(r *http.Request) map[string]string {

	result := map[string]string{}

	if c := box.GetBoxContext(r.Context()); c != nil {
		for k, v := range c.Parameters {
			result[k] = v
		}
	}

	if params, ok := r.Context().Value(paramsKey).(map[string]string); ok {
		for k, v := range params {
			result[k] = v
		}
	}

	return result
}

func Param(r *http.Request, name string) string {
	return Params(r)[name]
}

// CurrentRoute is the route serving the request, nil outside a dispatch.
func CurrentRoute(r *http.Request) *Spec {
	s, _ := r.Context().Value(routeKey).(*Spec)
	return s
}

// bind merges params into the request parameters: entries with the same
// name are overwritten, the rest are kept.
func bind(r *http.Request, s *Spec, params map[string]string) *http.Request {

	merged := Params(r)
	for k, v := range params {
		merged[k] = v
	}

	ctx := r.Context()
	if c := box.GetBoxContext(ctx); c != nil && c.Parameters != nil {
		for k, v := range params {
			c.Parameters[k] = v
		}
	}

	ctx = context.WithValue(ctx, paramsKey, merged)
	ctx = context.WithValue(ctx, routeKey, s)

	return r.WithContext(ctx)
}

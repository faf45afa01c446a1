package route

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/fulldump/box"
	"github.com/rs/zerolog"
)

// Generator renders response templates.
type Generator interface {
	Generate(template any) (any, error)
}

type Dispatcher struct {
	Source    Source
	Generator Generator
	Logger    zerolog.Logger
}

func NewDispatcher(source Source, generator Generator, logger zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		Source:    source,
		Generator: generator,
		Logger:    logger,
	}
}

// Dispatch serves the request with the first route that matches it and
// calls next when none does. next always gets the request as the handler
// saw it, params and current route bound. Only errors loading the routes or rendering a
// response template are returned; once a handler is invoked the request is
// its business.
func (d *Dispatcher) Dispatch(w http.ResponseWriter, r *http.Request, next func(*http.Request)) error {

	routes, err := d.Source.Routes()
	if err != nil {
		return err
	}

	for _, spec := range routes {
		params, match := spec.Match(r.Method, r.URL.Path)
		if !match {
			continue
		}

		bound := bind(r, spec, params)

		if spec.Handler != nil {
			spec.Handler(w, bound, func() {
				next(bound)
			})
			return nil
		}

		return d.respond(w, spec)
	}

	next(r)
	return nil
}

func (d *Dispatcher) respond(w http.ResponseWriter, spec *Spec) error {

	body := spec.Response
	if d.Generator != nil {
		var err error
		body, err = d.Generator.Generate(spec.Response)
		if err != nil {
			return err
		}
	}

	for k, v := range spec.Headers {
		w.Header().Set(k, v)
	}

	status := spec.Status
	if status == 0 {
		status = http.StatusOK
	}

	return WriteJSON(w, status, body)
}

// WriteJSON sends v as the JSON body. A Content-Type already set is kept.
func WriteJSON(w http.ResponseWriter, status int, v any) error {
	if w.Header().Get("Content-Type") == "" {
		w.Header().Set("Content-Type", "application/json")
	}
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

// WriteError sends err with the same shape the admin api uses.
func WriteError(w http.ResponseWriter, status int, err error, description string) error {
	return WriteJSON(w, status, map[string]any{
		"error": map[string]any{
			"message":     err.Error(),
			"description": description,
		},
	})
}

// Middleware puts the dispatcher in front of next. Dispatch errors are
// logged and answered with 500.
func (d *Dispatcher) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		err := d.Dispatch(w, r, func(r *http.Request) {
			next.ServeHTTP(w, r)
		})
		if err != nil {
			d.Logger.Error().Err(err).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Msg("dispatch failed")
			WriteError(w, http.StatusInternalServerError, err, "Mock routes could not be dispatched")
		}
	})
}

// Interceptor is the box flavour of Middleware: unmatched requests go on to
// the box action and dispatch errors are left in the box context.
func (d *Dispatcher) Interceptor(next box.H) box.H {
	return func(ctx context.Context) {
		r := box.GetRequest(ctx).WithContext(ctx)
		err := d.Dispatch(box.GetResponse(ctx), r, func(r *http.Request) {
			next(r.Context())
		})
		if err != nil {
			box.SetError(ctx, err)
		}
	}
}

package api

import (
	"context"
	"fmt"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/fulldump/box"
	"github.com/rs/zerolog"
)

func RecoverFromPanic(l zerolog.Logger) box.I {
	return func(next box.H) box.H {
		return func(ctx context.Context) {
			defer func() {
				if err := recover(); err != nil {
					l.Error().
						Interface("panic", err).
						Bytes("stack", debug.Stack()).
						Msg("handler panicked")
					box.SetError(ctx, fmt.Errorf("panic: %v", err))
				}
			}()
			next(ctx)
		}
	}
}

func AccessLog(l zerolog.Logger) box.I {
	return func(next box.H) box.H {
		return func(ctx context.Context) {
			r := box.GetRequest(ctx)
			now := time.Now()
			defer func() {
				l.Info().
					Str("remote", formatRemoteAddr(r)).
					Str("method", r.Method).
					Str("url", r.URL.String()).
					Dur("took", time.Since(now)).
					Msg("access")
			}()

			next(ctx)
		}
	}
}

func formatRemoteAddr(r *http.Request) string {
	xorigin := strings.TrimSpace(strings.Split(
		r.Header.Get("X-Forwarded-For"), ",")[0])
	if xorigin != "" {
		return xorigin
	}

	i := strings.LastIndex(r.RemoteAddr, ":")
	if i < 0 {
		return r.RemoteAddr
	}
	return r.RemoteAddr[0:i]
}

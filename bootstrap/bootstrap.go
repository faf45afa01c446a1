package bootstrap

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/fulldump/mockdb/actions"
	"github.com/fulldump/mockdb/api"
	"github.com/fulldump/mockdb/configuration"
	"github.com/fulldump/mockdb/database"
	"github.com/fulldump/mockdb/faker"
	"github.com/fulldump/mockdb/logger"
	"github.com/fulldump/mockdb/route"
	"github.com/fulldump/mockdb/service"
)

var VERSION = "dev"

var ErrNoRoute = errors.New("no route matches the request")

// Handler assembles the server handler: the mock routes first, then the
// admin api (when enabled) for whatever they let through.
func Handler(c *configuration.Configuration, db *database.Database, l zerolog.Logger) http.Handler {

	var fallback http.Handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route.WriteError(w, http.StatusNotFound, ErrNoRoute, r.Method+" "+r.URL.Path)
	})

	if c.EnableApi {
		b := api.Build(service.NewService(db), VERSION, api.InterceptorUnavailable(db))
		if c.EnableCompression {
			b.WithInterceptors(api.Compression)
		}
		b.WithInterceptors(
			api.AccessLog(l),
			api.PrettyErrorInterceptor,
			api.RecoverFromPanic(l),
		)
		fallback = b
	}

	loader := route.NewLoader(c.Mock(), actions.Handlers(db), l)
	loader.Pattern = c.MockPattern

	generator := faker.New(uint64(c.FakerSeed))

	return route.NewDispatcher(loader, generator, l).Middleware(fallback)
}

func Bootstrap(c *configuration.Configuration) (start, stop func()) {

	l := logger.Configure(c.LogLevel, c.LogFormat, os.Stdout)

	err := os.MkdirAll(c.Mock(), 0755)
	if err != nil {
		l.Error().Err(err).Str("dir", c.Mock()).Msg("create mock directory")
		os.Exit(-1)
	}

	db := database.NewDatabase(&database.Config{
		Dir: c.Db(),
	}, l)

	s := &http.Server{
		Addr:    c.HttpAddr,
		Handler: Handler(c, db, l),
	}

	ln, err := net.Listen("tcp", c.HttpAddr)
	if err != nil {
		l.Error().Err(err).Str("addr", c.HttpAddr).Msg("listen")
		os.Exit(-1)
	}
	l.Info().
		Str("addr", c.HttpAddr).
		Str("mock", c.Mock()).
		Str("db", c.Db()).
		Msg("listening")

	stopOnce := &sync.Once{}
	stop = func() {
		stopOnce.Do(func() {
			err := db.Stop()
			if err != nil {
				l.Error().Err(err).Msg("stop database")
			}
			s.Shutdown(context.Background())
		})
	}

	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, syscall.SIGTERM, syscall.SIGINT)
	go func() {
		for {
			sig := <-signalChan
			l.Info().Str("signal", sig.String()).Msg("signal received")
			stop()
		}
	}()

	start = func() {

		wg := &sync.WaitGroup{}

		wg.Add(1)
		go func() {
			defer wg.Done()
			err := db.Start()
			if err != nil {
				l.Error().Err(err).Msg("start database")
				stop()
			}
		}()

		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.Serve(ln)
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				l.Error().Err(err).Msg("serve")
			}
		}()

		wg.Wait()
	}

	return
}

package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/formaplus/docgen/internal/dedup"
	"github.com/formaplus/docgen/internal/docs"
	"github.com/formaplus/docgen/internal/logger"
	"github.com/formaplus/docgen/internal/mailer"
	"github.com/formaplus/docgen/internal/recordstore"
)

type application struct {
	config     config
	appLogger  *logger.Logger
	gateway    recordstore.Gateway
	dispatcher *docs.Dispatcher
	mailer     *mailer.Mailer
	dedup      *dedup.Batch
}

type config struct {
	addr         string
	templatesDir string
	store        storeConfig
	smtp         mailer.Config
	dedupWorkers int
}

type storeConfig struct {
	baseURL string
	apiKey  string
	baseID  string
	timeout time.Duration
}

func (app *application) mount() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)

	// Set a timeout value on the request context (ctx), that will signal
	// through ctx.Done() that the request has timed out and further
	// processing should be stopped.
	r.Use(middleware.Timeout(60 * time.Second))

	r.Route("/v1", func(r chi.Router) {
		r.Get("/health", app.healthCheckHandler)
		r.Get("/documents/{type}", app.handleGenerateDocument)
		r.Get("/schema/{collection}", app.handleGetSchema)
		r.Post("/halfdays/mirror", app.handleMirrorHalfDays)
		r.Post("/dedup/run", app.handleRunDedup)
		r.Post("/emails/confirmation", app.handleSendConfirmation)
	})

	return r
}

func (app *application) run(mux http.Handler) error {
	srv := &http.Server{
		Addr:         app.config.addr,
		Handler:      mux,
		WriteTimeout: time.Second * 120,
		ReadTimeout:  time.Second * 40,
		IdleTimeout:  time.Minute,
	}

	app.appLogger.Info("Server", "Listening on %s", app.config.addr)
	return srv.ListenAndServe()
}

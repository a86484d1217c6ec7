package main

import (
	"time"

	"github.com/joho/godotenv"

	"github.com/formaplus/docgen/internal/dedup"
	"github.com/formaplus/docgen/internal/docs"
	"github.com/formaplus/docgen/internal/env"
	"github.com/formaplus/docgen/internal/logger"
	"github.com/formaplus/docgen/internal/mailer"
	"github.com/formaplus/docgen/internal/recordstore"
	"github.com/formaplus/docgen/internal/render"
)

func main() {
	godotenv.Load()

	appLogger := logger.New(logger.ParseLevel(env.GetString("LOG_LEVEL", "INFO")))

	cfg := config{
		addr:         env.GetString("ADDR", ":8080"),
		templatesDir: env.GetString("TEMPLATES_DIR", "templates"),
		store: storeConfig{
			baseURL: env.GetString("RECORDSTORE_URL", "https://api.airtable.com/v0"),
			apiKey:  env.GetString("RECORDSTORE_API_KEY", ""),
			baseID:  env.GetString("RECORDSTORE_BASE_ID", ""),
			timeout: time.Duration(env.GetInt("RECORDSTORE_TIMEOUT_SECONDS", 30)) * time.Second,
		},
		smtp: mailer.Config{
			Host:     env.GetString("SMTP_HOST", "localhost"),
			Port:     env.GetInt("SMTP_PORT", 587),
			Username: env.GetString("SMTP_USERNAME", ""),
			Password: env.GetString("SMTP_PASSWORD", ""),
			From:     env.GetString("SMTP_FROM", "formation@formaplus.fr"),
		},
		dedupWorkers: env.GetInt("DEDUP_WORKERS", 4),
	}

	if cfg.store.apiKey == "" || cfg.store.baseID == "" {
		appLogger.Fatal("Startup", "RECORDSTORE_API_KEY and RECORDSTORE_BASE_ID are required")
	}

	gateway := recordstore.NewClient(recordstore.Config{
		BaseURL: cfg.store.baseURL,
		APIKey:  cfg.store.apiKey,
		BaseID:  cfg.store.baseID,
		Timeout: cfg.store.timeout,
	}, appLogger)

	dispatcher := docs.NewDispatcher(render.DirStore{Dir: cfg.templatesDir}, render.HTMLRenderer{}, appLogger)
	for _, dt := range docs.DefaultRegistry(gateway, appLogger) {
		dispatcher.Register(dt)
	}

	app := &application{
		config:     cfg,
		appLogger:  appLogger,
		gateway:    gateway,
		dispatcher: dispatcher,
		mailer:     mailer.New(cfg.smtp, appLogger),
		dedup:      dedup.NewBatch(gateway, appLogger, cfg.dedupWorkers),
	}

	appLogger.Info("Startup", "Document types registered: %v", dispatcher.Types())

	mux := app.mount()
	if err := app.run(mux); err != nil {
		appLogger.Fatal("Server", "%v", err)
	}
}

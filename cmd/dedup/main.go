package main

import (
	"context"
	"time"

	"github.com/joho/godotenv"

	"github.com/formaplus/docgen/internal/dedup"
	"github.com/formaplus/docgen/internal/env"
	"github.com/formaplus/docgen/internal/logger"
	"github.com/formaplus/docgen/internal/recordstore"
)

// Standalone duplicate-resolution run: matches every unchecked import row
// against the canonical person and entity collections, writes the results
// back to the record store and leaves a CSV next to the binary for review.
func main() {
	const component = "DedupCLI"

	godotenv.Load()

	appLogger := logger.New(logger.ParseLevel(env.GetString("LOG_LEVEL", "INFO")))

	apiKey := env.GetString("RECORDSTORE_API_KEY", "")
	baseID := env.GetString("RECORDSTORE_BASE_ID", "")
	if apiKey == "" || baseID == "" {
		appLogger.Fatal(component, "RECORDSTORE_API_KEY and RECORDSTORE_BASE_ID are required")
	}

	gateway := recordstore.NewClient(recordstore.Config{
		BaseURL: env.GetString("RECORDSTORE_URL", "https://api.airtable.com/v0"),
		APIKey:  apiKey,
		BaseID:  baseID,
		Timeout: time.Duration(env.GetInt("RECORDSTORE_TIMEOUT_SECONDS", 30)) * time.Second,
	}, appLogger)

	batch := dedup.NewBatch(gateway, appLogger, env.GetInt("DEDUP_WORKERS", 4))

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Minute)
	defer cancel()

	results, err := batch.Run(ctx)
	if err != nil {
		appLogger.Fatal(component, "Batch failed: %v", err)
	}

	reviewPath := env.GetString("DEDUP_REVIEW_FILE", "dedup_review.csv")
	if err := dedup.WriteReviewCSV(reviewPath, results); err != nil {
		appLogger.Error(component, "Failed to write review file: %v", err)
	} else {
		appLogger.Info(component, "Review file written: path=%s rows=%d", reviewPath, len(results))
	}
}

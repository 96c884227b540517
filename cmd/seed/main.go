package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"path/filepath"

	"mueen-assist/internal/models"
	"mueen-assist/internal/repository"
	"mueen-assist/internal/store"
	"mueen-assist/pkg/config"
	"mueen-assist/pkg/logger"
	"mueen-assist/pkg/postgres"

	"go.uber.org/zap"
)

func main() {
	force := flag.Bool("force", false, "overwrite an existing corpus document")
	seedFile := flag.String("corpus", filepath.Join("cmd", "seed", "faq_seed.json"), "path to the seed corpus")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logger.Level); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	appLogger := logger.Get()

	// Connect to database and ensure schema
	ctx := context.Background()
	db, err := postgres.NewPool(ctx, &cfg.Database, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := repository.EnsureSchema(ctx, db); err != nil {
		appLogger.Fatal("Failed to ensure database schema", zap.Error(err))
	}
	appLogger.Info("Database schema ensured")

	// Seed the corpus document
	if err := seedCorpus(cfg.Paths.DataDir, *seedFile, *force, appLogger); err != nil {
		appLogger.Fatal("Failed to seed corpus", zap.Error(err))
	}

	appLogger.Info("Seeding completed successfully!")
}

// seedCorpus copies the bundled corpus into the data directory unless one
// already exists.
func seedCorpus(dataDir, seedFile string, force bool, appLogger *zap.Logger) error {
	faqStore := store.NewFAQStore(dataDir)

	existing, err := faqStore.Load()
	if err != nil {
		return err
	}
	if len(existing) > 0 && !force {
		appLogger.Info("Corpus document already present, skipping",
			zap.Int("topics", len(existing)),
		)
		return nil
	}

	data, err := os.ReadFile(seedFile)
	if err != nil {
		return err
	}

	var topics []models.Topic
	if err := json.Unmarshal(data, &topics); err != nil {
		return err
	}

	if err := faqStore.Save(topics); err != nil {
		return err
	}

	questions := 0
	for _, t := range topics {
		questions += len(t.Questions)
	}
	appLogger.Info("Corpus seeded",
		zap.String("source", seedFile),
		zap.Int("topics", len(topics)),
		zap.Int("questions", questions),
	)
	return nil
}

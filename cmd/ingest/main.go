package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/povarna/generative-ai-agents/anime-recommender/internal/corpus"
	"github.com/povarna/generative-ai-agents/anime-recommender/internal/embedding"
	"github.com/povarna/generative-ai-agents/anime-recommender/internal/ingestion"
	"github.com/povarna/generative-ai-agents/anime-recommender/internal/setup"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Setup logging
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	logger := log.Logger

	filePath := flag.String("filePath", "", "Synopsis file, one document per line (default from config)")
	reset := flag.Bool("reset", false, "Delete every stored document before ingesting")
	countOnly := flag.Bool("count", false, "Print the number of stored documents and exit")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("Unable to load env variables")
	}

	cfg, err := setup.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if *filePath == "" {
		*filePath = cfg.Data.DocumentsPath
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := setup.ConnectDatabase(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	log.Info().Msg("Database connected")

	if *countOnly {
		count, err := db.CountDocuments(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to count documents")
		}
		log.Info().Int("documents", count).Msg("Stored documents")
		return
	}

	embedder, err := embedding.New(ctx, setup.EmbeddingConfig(cfg))
	if err != nil {
		log.Fatal().Err(err).Msg("Unable to create embedder")
	}

	if err := db.EnsureSchema(ctx, embedder.Dimensions()); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply schema")
	}

	pipeline := ingestion.NewPipeline(embedder, db, cfg.Database.BatchSize, &logger)

	if *reset {
		count, err := pipeline.Reingest(ctx, *filePath)
		if err != nil {
			log.Fatal().Err(err).Msg("Re-ingestion failed")
		}
		log.Info().Int("documents", count).Msg("Corpus re-ingested")
		return
	}

	docs, err := corpus.LoadDocuments(*filePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load documents")
	}

	if err := pipeline.EnsureIngested(ctx, docs); err != nil {
		log.Fatal().Err(err).Msg("Ingestion failed")
	}
}

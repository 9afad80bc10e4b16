package setup

import (
	"context"
	"fmt"

	"github.com/povarna/generative-ai-agents/anime-recommender/internal/cache"
	"github.com/povarna/generative-ai-agents/anime-recommender/internal/catalog"
	"github.com/povarna/generative-ai-agents/anime-recommender/internal/config"
	"github.com/povarna/generative-ai-agents/anime-recommender/internal/corpus"
	"github.com/povarna/generative-ai-agents/anime-recommender/internal/database"
	"github.com/povarna/generative-ai-agents/anime-recommender/internal/embedding"
	"github.com/povarna/generative-ai-agents/anime-recommender/internal/ingestion"
	"github.com/povarna/generative-ai-agents/anime-recommender/internal/recommend"
	"github.com/povarna/generative-ai-agents/anime-recommender/internal/redis"
	"github.com/rs/zerolog"
)

type CacheClearer interface {
	ClearCache(ctx context.Context) error
}

// Dependencies is everything the binaries serve from. It is built once at
// startup and read-only afterwards.
type Dependencies struct {
	Catalog  *catalog.Table
	Store    corpus.Store
	Engine   *recommend.Engine
	Embedder embedding.Embedder
	// Cache is nil when embeddings are not cached.
	Cache  CacheClearer
	Logger *zerolog.Logger

	closers []func()
}

func LoadConfig() (*config.Config, error) {
	return config.Load()
}

// Wire loads the catalog and documents, builds the embedding stack and the
// corpus store, and returns the engine serving both.
func Wire(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: logger}

	table, err := catalog.LoadCSV(cfg.Data.CSVPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	logger.Info().
		Int("items", table.Len()).
		Int("columns", len(table.Columns())).
		Str("path", cfg.Data.CSVPath).
		Msg("Catalog loaded")
	deps.Catalog = table

	docs, err := corpus.LoadDocuments(cfg.Data.DocumentsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load documents: %w", err)
	}
	logger.Info().Int("documents", len(docs)).Str("path", cfg.Data.DocumentsPath).Msg("Documents loaded")

	embedder, err := createEmbedder(ctx, cfg, deps, logger)
	if err != nil {
		deps.Close()
		return nil, err
	}
	deps.Embedder = embedder

	store, err := createStore(ctx, cfg, embedder, docs, deps, logger)
	if err != nil {
		deps.Close()
		return nil, err
	}
	deps.Store = store

	deps.Engine = recommend.NewEngine(store, table, recommend.Options{
		TopK:          cfg.Recommend.TopK,
		OverFetch:     cfg.Recommend.OverFetch,
		DisplayCap:    cfg.Recommend.DisplayCap,
		SearchTimeout: cfg.Recommend.SearchTimeout,
	}, logger)

	return deps, nil
}

// Close releases database and Redis connections opened by Wire.
func (d *Dependencies) Close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		d.closers[i]()
	}
	d.closers = nil
}

func EmbeddingConfig(cfg *config.Config) embedding.Config {
	return embedding.Config{
		Provider:   cfg.Embedding.Provider,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
		AWSRegion:  cfg.Embedding.AWSRegion,
		OpenAIKey:  cfg.Embedding.OpenAIKey,
	}
}

func createEmbedder(ctx context.Context, cfg *config.Config, deps *Dependencies, logger *zerolog.Logger) (embedding.Embedder, error) {
	provider, err := embedding.New(ctx, EmbeddingConfig(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to create embedder: %w", err)
	}

	logger.Info().
		Str("provider", cfg.Embedding.Provider).
		Str("model", provider.Model()).
		Int("dimensions", provider.Dimensions()).
		Msg("Embedder initialized")

	var vectorCache embedding.Cache
	switch cfg.Cache.Backend {
	case config.CacheNone:
		return provider, nil
	case config.CacheRedis:
		client, err := redis.Connect(ctx, redis.Config{
			Addr:       cfg.Cache.RedisAddr,
			Password:   cfg.Cache.RedisPassword,
			DB:         cfg.Cache.RedisDB,
			MaxRetries: cfg.Cache.MaxRetries,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		deps.closers = append(deps.closers, func() { client.Close() })
		vectorCache = cache.NewRedisCache(client, cfg.Cache.RedisPrefix, cfg.Cache.RedisTTL, logger)
	default:
		lru, err := cache.NewLRUCache(cfg.Cache.LRUSize)
		if err != nil {
			return nil, fmt.Errorf("failed to create LRU cache: %w", err)
		}
		vectorCache = lru
	}

	cached := embedding.NewCachedEmbedder(provider, vectorCache, logger)
	deps.Cache = cached
	logger.Info().Str("backend", cfg.Cache.Backend).Msg("Embedding cache enabled")

	return cached, nil
}

func createStore(
	ctx context.Context,
	cfg *config.Config,
	embedder embedding.Embedder,
	docs []corpus.Document,
	deps *Dependencies,
	logger *zerolog.Logger,
) (corpus.Store, error) {
	if cfg.Corpus.Backend != config.CorpusPgvector {
		store := corpus.NewMemoryStore(embedder, cfg.Embedding.BatchSize, cfg.Embedding.Concurrency, logger)
		if err := store.Index(ctx, docs); err != nil {
			return nil, fmt.Errorf("failed to index documents: %w", err)
		}
		return store, nil
	}

	db, err := ConnectDatabase(ctx, cfg)
	if err != nil {
		return nil, err
	}
	deps.closers = append(deps.closers, db.Close)

	if err := db.EnsureSchema(ctx, embedder.Dimensions()); err != nil {
		return nil, err
	}

	pipeline := ingestion.NewPipeline(embedder, db, cfg.Database.BatchSize, logger)
	if err := pipeline.EnsureIngested(ctx, docs); err != nil {
		return nil, fmt.Errorf("failed to ingest documents: %w", err)
	}

	return corpus.NewPgvectorStore(ctx, db, embedder, logger)
}

func ConnectDatabase(ctx context.Context, cfg *config.Config) (*database.DB, error) {
	db, err := database.NewWithBackoff(ctx, database.Config{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		Database: cfg.Database.Database,
		SSLMode:  cfg.Database.SSLMode,
	}, cfg.Database.MaxRetries)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

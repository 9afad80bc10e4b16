package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"
)

const (
	PathEnv     = "RECOMMENDER_CONFIG_PATH"
	DefaultPath = "configs/recommender.yaml"
)

var ErrInvalidConfig = errors.New("invalid configuration")

// Load reads the YAML file named by RECOMMENDER_CONFIG_PATH. The default file
// is optional; an explicitly configured one must exist.
func Load() (*Config, error) {
	path := os.Getenv(PathEnv)
	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}

	var cfg Config

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	applyDefaults(&cfg)
	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == "" {
		cfg.Server.Port = "8000"
	}
	if len(cfg.Server.AllowedOrigins) == 0 {
		cfg.Server.AllowedOrigins = []string{"http://localhost:5173"}
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 15 * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 30 * time.Second
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = 60 * time.Second
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10 * time.Second
	}

	if cfg.Data.CSVPath == "" {
		cfg.Data.CSVPath = "anime_with_emotions.csv"
	}
	if cfg.Data.DocumentsPath == "" {
		cfg.Data.DocumentsPath = "tagged_syn.txt"
	}

	if cfg.Recommend.TopK == 0 {
		cfg.Recommend.TopK = 10
	}
	if cfg.Recommend.OverFetch == 0 {
		cfg.Recommend.OverFetch = 50
	}
	if cfg.Recommend.DisplayCap == 0 {
		cfg.Recommend.DisplayCap = 20
	}
	if cfg.Recommend.SearchTimeout == 0 {
		cfg.Recommend.SearchTimeout = 10 * time.Second
	}

	if cfg.Embedding.Provider == "" {
		cfg.Embedding.Provider = "bedrock"
	}
	if cfg.Embedding.AWSRegion == "" {
		cfg.Embedding.AWSRegion = "us-east-1"
	}
	if cfg.Embedding.BatchSize == 0 {
		cfg.Embedding.BatchSize = 64
	}
	if cfg.Embedding.Concurrency == 0 {
		cfg.Embedding.Concurrency = 4
	}

	if cfg.Corpus.Backend == "" {
		cfg.Corpus.Backend = CorpusMemory
	}

	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == "" {
		cfg.Database.Port = "5432"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.MaxRetries == 0 {
		cfg.Database.MaxRetries = 5
	}
	if cfg.Database.BatchSize == 0 {
		cfg.Database.BatchSize = 25
	}

	if cfg.Cache.Backend == "" {
		cfg.Cache.Backend = CacheLRU
	}
	if cfg.Cache.LRUSize == 0 {
		cfg.Cache.LRUSize = 10000
	}
	if cfg.Cache.RedisAddr == "" {
		cfg.Cache.RedisAddr = "localhost:6379"
	}
	if cfg.Cache.RedisTTL == 0 {
		cfg.Cache.RedisTTL = 24 * time.Hour
	}
	if cfg.Cache.MaxRetries == 0 {
		cfg.Cache.MaxRetries = 5
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
}

func applyEnv(cfg *Config) {
	cfg.Server.Port = getEnv("RECOMMENDER_API_PORT", cfg.Server.Port)
	if origins := os.Getenv("CORS_ALLOWED_ORIGINS"); origins != "" {
		cfg.Server.AllowedOrigins = splitList(origins)
	}
	cfg.Server.ShutdownTimeout = getEnvDuration("SHUTDOWN_TIMEOUT", cfg.Server.ShutdownTimeout)

	cfg.Data.CSVPath = getEnv("ANIME_CSV_PATH", cfg.Data.CSVPath)
	cfg.Data.DocumentsPath = getEnv("ANIME_DOCUMENTS_PATH", cfg.Data.DocumentsPath)

	cfg.Recommend.TopK = getEnvInt("RECOMMEND_TOP_K", cfg.Recommend.TopK)
	cfg.Recommend.OverFetch = getEnvInt("RECOMMEND_OVER_FETCH", cfg.Recommend.OverFetch)
	cfg.Recommend.DisplayCap = getEnvInt("RECOMMEND_DISPLAY_CAP", cfg.Recommend.DisplayCap)
	cfg.Recommend.SearchTimeout = getEnvDuration("RECOMMEND_SEARCH_TIMEOUT", cfg.Recommend.SearchTimeout)

	cfg.Embedding.Provider = getEnv("EMBEDDING_PROVIDER", cfg.Embedding.Provider)
	cfg.Embedding.Model = getEnv("EMBEDDING_MODEL_ID", cfg.Embedding.Model)
	cfg.Embedding.Dimensions = getEnvInt("EMBEDDING_DIMENSIONS", cfg.Embedding.Dimensions)
	cfg.Embedding.AWSRegion = getEnv("AWS_REGION", cfg.Embedding.AWSRegion)
	cfg.Embedding.OpenAIKey = getEnv("OPEN_AI_KEY", cfg.Embedding.OpenAIKey)

	cfg.Corpus.Backend = getEnv("CORPUS_BACKEND", cfg.Corpus.Backend)

	cfg.Database.Host = getEnv("ANIME_VECTOR_DB_HOST", cfg.Database.Host)
	cfg.Database.Port = getEnv("ANIME_VECTOR_DB_PORT", cfg.Database.Port)
	cfg.Database.User = getEnv("ANIME_VECTOR_DB_USER", cfg.Database.User)
	cfg.Database.Password = getEnv("ANIME_VECTOR_DB_PASSWORD", cfg.Database.Password)
	cfg.Database.Database = getEnv("ANIME_VECTOR_DB_DATABASE", cfg.Database.Database)
	cfg.Database.SSLMode = getEnv("ANIME_VECTOR_DB_SSLMODE", cfg.Database.SSLMode)

	cfg.Cache.Backend = getEnv("EMBEDDING_CACHE", cfg.Cache.Backend)
	cfg.Cache.RedisAddr = getEnv("REDIS_ADDR", cfg.Cache.RedisAddr)
	cfg.Cache.RedisPassword = getEnv("REDIS_PASSWORD", cfg.Cache.RedisPassword)
	cfg.Cache.RedisDB = getEnvInt("REDIS_DB", cfg.Cache.RedisDB)
	cfg.Cache.RedisTTL = getEnvDuration("REDIS_TTL", cfg.Cache.RedisTTL)

	cfg.Log.Level = getEnv("LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Format = getEnv("LOG_FORMAT", cfg.Log.Format)
}

func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port == "" {
		errs = append(errs, errors.New("server port is required"))
	}
	if c.Data.CSVPath == "" || c.Data.DocumentsPath == "" {
		errs = append(errs, errors.New("csv and documents paths are required"))
	}

	if c.Recommend.TopK < 1 || c.Recommend.OverFetch < 1 || c.Recommend.DisplayCap < 1 {
		errs = append(errs, errors.New("top_k, over_fetch and display_cap must be positive"))
	}
	if c.Recommend.SearchTimeout < 0 {
		errs = append(errs, errors.New("search_timeout cannot be negative"))
	}

	if !slices.Contains([]string{"bedrock", "openai", "local"}, c.Embedding.Provider) {
		errs = append(errs, fmt.Errorf("unknown embedding provider %q", c.Embedding.Provider))
	}
	if c.Embedding.Provider == "openai" && c.Embedding.OpenAIKey == "" {
		errs = append(errs, errors.New("OPEN_AI_KEY is required for the openai provider"))
	}
	if c.Embedding.Dimensions < 0 {
		errs = append(errs, errors.New("embedding dimensions cannot be negative"))
	}

	if !slices.Contains([]string{CorpusMemory, CorpusPgvector}, c.Corpus.Backend) {
		errs = append(errs, fmt.Errorf("unknown corpus backend %q", c.Corpus.Backend))
	}
	if c.Corpus.Backend == CorpusPgvector && c.Database.Database == "" {
		errs = append(errs, errors.New("database name is required for the pgvector backend"))
	}

	if !slices.Contains([]string{CacheNone, CacheLRU, CacheRedis}, c.Cache.Backend) {
		errs = append(errs, fmt.Errorf("unknown cache backend %q", c.Cache.Backend))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

func getEnv(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		value = defaultValue
	}

	return value
}

func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		value = defaultValue
	}

	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		value = defaultValue
	}

	return value
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

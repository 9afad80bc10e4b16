package config

import "time"

// Config is the complete service configuration. Values come from the YAML
// file first, then defaults, then environment overrides.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Data      DataConfig      `yaml:"data"`
	Recommend RecommendConfig `yaml:"recommend"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Corpus    CorpusConfig    `yaml:"corpus"`
	Database  DatabaseConfig  `yaml:"database"`
	Cache     CacheConfig     `yaml:"cache"`
	Log       LogConfig       `yaml:"log"`
}

type ServerConfig struct {
	Port            string        `yaml:"port"`
	AllowedOrigins  []string      `yaml:"allowed_origins"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// DataConfig points at the two startup inputs.
type DataConfig struct {
	CSVPath       string `yaml:"csv_path"`
	DocumentsPath string `yaml:"documents_path"`
}

type RecommendConfig struct {
	TopK          int           `yaml:"top_k"`
	OverFetch     int           `yaml:"over_fetch"`
	DisplayCap    int           `yaml:"display_cap"`
	SearchTimeout time.Duration `yaml:"search_timeout"`
}

type EmbeddingConfig struct {
	Provider    string `yaml:"provider"`
	Model       string `yaml:"model"`
	Dimensions  int    `yaml:"dimensions"`
	AWSRegion   string `yaml:"aws_region"`
	BatchSize   int    `yaml:"batch_size"`
	Concurrency int    `yaml:"concurrency"`
	// OpenAIKey is read from the environment only.
	OpenAIKey string `yaml:"-"`
}

type CorpusConfig struct {
	Backend string `yaml:"backend"`
}

type DatabaseConfig struct {
	Host       string `yaml:"host"`
	Port       string `yaml:"port"`
	User       string `yaml:"user"`
	Password   string `yaml:"-"`
	Database   string `yaml:"database"`
	SSLMode    string `yaml:"sslmode"`
	MaxRetries int    `yaml:"max_retries"`
	BatchSize  int    `yaml:"batch_size"`
}

type CacheConfig struct {
	Backend       string        `yaml:"backend"`
	LRUSize       int           `yaml:"lru_size"`
	RedisAddr     string        `yaml:"redis_addr"`
	RedisPassword string        `yaml:"-"`
	RedisDB       int           `yaml:"redis_db"`
	RedisTTL      time.Duration `yaml:"redis_ttl"`
	RedisPrefix   string        `yaml:"redis_prefix"`
	MaxRetries    int           `yaml:"max_retries"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

const (
	CorpusMemory   = "memory"
	CorpusPgvector = "pgvector"

	CacheNone  = "none"
	CacheLRU   = "lru"
	CacheRedis = "redis"
)

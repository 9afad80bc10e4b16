package setup

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/povarna/generative-ai-agents/anime-recommender/internal/config"
	"github.com/povarna/generative-ai-agents/anime-recommender/internal/recommend"
	"github.com/rs/zerolog"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()

	csvPath := filepath.Join(dir, "anime_with_emotions.csv")
	csv := "MAL_ID,Name,Genres\n1,Naruto,\"Action, Adventure\"\n2,Clannad,\"Drama, Romance\"\n"
	if err := os.WriteFile(csvPath, []byte(csv), 0o644); err != nil {
		t.Fatal(err)
	}

	docsPath := filepath.Join(dir, "tagged_syn.txt")
	docs := "\"1 A ninja boy dreams of becoming the strongest ninja\"\n\"2 A high school romance about family\"\n"
	if err := os.WriteFile(docsPath, []byte(docs), 0o644); err != nil {
		t.Fatal(err)
	}

	return &config.Config{
		Data:      config.DataConfig{CSVPath: csvPath, DocumentsPath: docsPath},
		Recommend: config.RecommendConfig{TopK: 10, OverFetch: 1, DisplayCap: 20},
		Embedding: config.EmbeddingConfig{Provider: "local", Dimensions: 2048, BatchSize: 1, Concurrency: 2},
		Corpus:    config.CorpusConfig{Backend: config.CorpusMemory},
		Cache:     config.CacheConfig{Backend: config.CacheLRU, LRUSize: 100},
	}
}

func testLogger() *zerolog.Logger {
	logger := zerolog.Nop()
	return &logger
}

func TestWire_MemoryBackend(t *testing.T) {
	cfg := testConfig(t)

	deps, err := Wire(context.Background(), cfg, testLogger())
	if err != nil {
		t.Fatalf("Wire failed: %v", err)
	}
	defer deps.Close()

	if deps.Catalog.Len() != 2 || deps.Store.Len() != 2 {
		t.Fatalf("Expected 2 items and 2 documents, got %d and %d", deps.Catalog.Len(), deps.Store.Len())
	}
	if deps.Cache == nil {
		t.Error("Expected embedding cache to be enabled")
	}

	items, err := deps.Engine.Recommend(context.Background(), recommend.Request{Query: "romance"})
	if err != nil {
		t.Fatalf("Recommend failed: %v", err)
	}
	if len(items) != 1 || items[0].ID != 2 {
		t.Errorf("Expected Clannad, got %+v", items)
	}
}

func TestWire_NoCache(t *testing.T) {
	cfg := testConfig(t)
	cfg.Cache.Backend = config.CacheNone

	deps, err := Wire(context.Background(), cfg, testLogger())
	if err != nil {
		t.Fatalf("Wire failed: %v", err)
	}
	defer deps.Close()

	if deps.Cache != nil {
		t.Error("Expected no cache")
	}
}

func TestWire_MissingInputs(t *testing.T) {
	cfg := testConfig(t)
	cfg.Data.CSVPath = filepath.Join(t.TempDir(), "missing.csv")
	if _, err := Wire(context.Background(), cfg, testLogger()); err == nil {
		t.Error("Expected error for missing CSV")
	}

	cfg = testConfig(t)
	cfg.Data.DocumentsPath = filepath.Join(t.TempDir(), "missing.txt")
	if _, err := Wire(context.Background(), cfg, testLogger()); err == nil {
		t.Error("Expected error for missing documents")
	}
}

func TestWire_UnsupportedProvider(t *testing.T) {
	cfg := testConfig(t)
	cfg.Embedding.Provider = "cohere"

	if _, err := Wire(context.Background(), cfg, testLogger()); err == nil {
		t.Error("Expected error for unsupported provider")
	}
}

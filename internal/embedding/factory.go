package embedding

import (
	"context"
	"fmt"
	"strings"

	"github.com/povarna/generative-ai-agents/anime-recommender/internal/bedrock"
)

type Config struct {
	Provider   string
	Model      string
	Dimensions int
	AWSRegion  string
	OpenAIKey  string
}

// New builds the provider named in cfg.
func New(ctx context.Context, cfg Config) (Embedder, error) {
	switch strings.ToLower(cfg.Provider) {
	case ProviderBedrock:
		client, err := bedrock.NewClient(ctx, cfg.AWSRegion)
		if err != nil {
			return nil, fmt.Errorf("failed to create Bedrock client: %w", err)
		}
		return NewBedrockEmbedder(client.Client, cfg.Model, cfg.Dimensions), nil
	case ProviderOpenAI:
		return NewOpenAIEmbedder(cfg.OpenAIKey, cfg.Model, cfg.Dimensions)
	case ProviderLocal, "":
		return NewLocalEmbedder(cfg.Dimensions), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedProvider, cfg.Provider)
	}
}

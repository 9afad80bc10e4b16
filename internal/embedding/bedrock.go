package embedding

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
)

const (
	DefaultBedrockModel      = "amazon.titan-embed-text-v2:0"
	DefaultBedrockDimensions = 1024
)

// ModelInvoker is the part of the Bedrock runtime client the embedder uses.
type ModelInvoker interface {
	InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error)
}

// Titan embedding API request format
type titanEmbeddingRequest struct {
	InputText  string `json:"inputText"`
	Dimensions int    `json:"dimensions,omitempty"`
	Normalize  bool   `json:"normalize"`
}

type titanEmbeddingResponse struct {
	Embedding           []float32 `json:"embedding"`
	InputTextTokenCount int       `json:"inputTextTokenCount"`
}

type BedrockEmbedder struct {
	client     ModelInvoker
	modelID    string
	dimensions int
}

func NewBedrockEmbedder(client ModelInvoker, modelID string, dimensions int) *BedrockEmbedder {
	if modelID == "" {
		modelID = DefaultBedrockModel
	}
	if dimensions <= 0 {
		dimensions = DefaultBedrockDimensions
	}

	return &BedrockEmbedder{
		client:     client,
		modelID:    modelID,
		dimensions: dimensions,
	}
}

func (e *BedrockEmbedder) GenerateEmbeddings(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, ErrEmptyText
	}

	body, err := json.Marshal(titanEmbeddingRequest{
		InputText:  text,
		Dimensions: e.dimensions,
		Normalize:  true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal embedding request: %w", err)
	}

	output, err := e.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(e.modelID),
		Body:        body,
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to invoke embedding model: %w", err)
	}

	var response titanEmbeddingResponse
	if err := json.Unmarshal(output.Body, &response); err != nil {
		return nil, fmt.Errorf("failed to unmarshal embedding response: %w", err)
	}

	if len(response.Embedding) != e.dimensions {
		return nil, fmt.Errorf("%w: expected %d, got %d", ErrDimensionMismatch, e.dimensions, len(response.Embedding))
	}

	return response.Embedding, nil
}

// GenerateBatchEmbeddings calls the model once per text; Titan has no batch endpoint.
func (e *BedrockEmbedder) GenerateBatchEmbeddings(ctx context.Context, texts []string) ([][]float32, error) {
	if err := validateTexts(texts); err != nil {
		return nil, err
	}

	embeddings := make([][]float32, len(texts))
	for i, text := range texts {
		vector, err := e.GenerateEmbeddings(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("embedding text %d: %w", i, err)
		}
		embeddings[i] = vector
	}

	return embeddings, nil
}

func (e *BedrockEmbedder) Dimensions() int {
	return e.dimensions
}

func (e *BedrockEmbedder) Model() string {
	return e.modelID
}

package service

import (
	"context"
	"fmt"

	"mueen-assist/pkg/config"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// EmbeddingService produces embedding vectors for the similarity index via
// the OpenAI embeddings endpoint.
type EmbeddingService struct {
	client *openai.Client
	model  openai.EmbeddingModel
	logger *zap.Logger
}

func NewEmbeddingService(cfg *config.OpenAIConfig, logger *zap.Logger) (*EmbeddingService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	model := openai.EmbeddingModel(cfg.EmbeddingModel)
	if model == "" {
		model = openai.SmallEmbedding3
	}

	return &EmbeddingService{
		client: openai.NewClient(cfg.APIKey),
		model:  model,
		logger: logger,
	}, nil
}

// Embed returns one vector per input text, in input order.
func (s *EmbeddingService) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	resp, err := s.client.CreateEmbeddings(ctx, openai.EmbeddingRequestStrings{
		Input: texts,
		Model: s.model,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create embeddings: %w", err)
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("embedding service returned %d vectors for %d inputs", len(resp.Data), len(texts))
	}

	vectors := make([][]float32, len(resp.Data))
	for i, d := range resp.Data {
		vectors[i] = d.Embedding
	}
	return vectors, nil
}

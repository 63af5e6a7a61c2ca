package llm

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_embedder.go -package=mocks lorekeeper/internal/llm Embedder

import (
	"context"
	"fmt"
)

// Embedder is the gateway to an external embedding provider: ordered texts
// in, one fixed-length vector per text in the same order. A batch fails as a
// unit; callers decide batch size and retry policy.
type Embedder interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Embedding provider names accepted by NewEmbedder.
const (
	ProviderLocal  = "local"
	ProviderOpenAI = "openai"
)

// NewEmbedder builds the embedding gateway for the configured provider.
// "local" targets an OpenAI-compatible endpoint such as llama.cpp; "openai"
// uses the hosted OpenAI API.
func NewEmbedder(provider, baseURL, apiKey, model string, expectedSize int) (Embedder, error) {
	switch provider {
	case ProviderLocal, "":
		return NewEmbeddingsClient(baseURL, apiKey, model, expectedSize), nil
	case ProviderOpenAI:
		return NewOpenAIEmbedder(apiKey, model, expectedSize)
	default:
		return nil, fmt.Errorf("unknown embedding provider: %s", provider)
	}
}

// convertVectors narrows provider vectors to float32, rejecting any vector
// whose dimension differs from expectedSize so a model change cannot
// silently mix dimensionalities into the store.
func convertVectors[T float32 | float64](raw [][]T, expectedSize int) ([][]float32, error) {
	result := make([][]float32, len(raw))
	for i, emb := range raw {
		if len(emb) != expectedSize {
			return nil, fmt.Errorf("embedding %d has size %d, expected %d", i, len(emb), expectedSize)
		}
		vec := make([]float32, len(emb))
		for j, v := range emb {
			vec[j] = float32(v)
		}
		result[i] = vec
	}
	return result, nil
}

package embeddings

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/embeddings"
)

// LangchainEmbedder adapts a langchaingo embeddings.Embedder.
type LangchainEmbedder struct {
	Embedder embeddings.Embedder
}

func (e *LangchainEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	vectors, err := e.Embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("failed to embed texts: %w", err)
	}
	if len(vectors) != len(texts) {
		return nil, fmt.Errorf("expected %d embeddings, got %d", len(texts), len(vectors))
	}
	return vectors, nil
}

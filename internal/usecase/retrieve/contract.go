package retrieve

import (
	"context"

	"github.com/cardsage-ai/cardsage/internal/domain/hit"
)

// VectorSearcher runs approximate nearest-neighbor queries over an index.
type VectorSearcher interface {
	SearchKNN(ctx context.Context, index string, vector []float32, k, numCandidates int) ([]hit.Hit, error)
}

// Embedder turns text into a dense vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

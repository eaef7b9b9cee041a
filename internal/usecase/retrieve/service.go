// Package retrieve performs semantic passage lookup over the vector indexes.
package retrieve

import (
	"context"
	"fmt"

	"github.com/cardsage-ai/cardsage/internal/domain/hit"
)

// DefaultOverfetchFactor scales top_k into the candidate pool size the
// backend scans before ranking.
const DefaultOverfetchFactor = 10

// Service embeds question text and fetches the nearest passages.
type Service struct {
	search    VectorSearcher
	embedder  Embedder
	overfetch int
}

// New creates a retriever over the given searcher and embedder.
func New(search VectorSearcher, embedder Embedder) *Service {
	return &Service{search: search, embedder: embedder, overfetch: DefaultOverfetchFactor}
}

// WithOverfetchFactor configures the candidate pool multiplier.
func (s *Service) WithOverfetchFactor(n int) *Service {
	if n > 0 {
		s.overfetch = n
	}
	return s
}

// Retrieve embeds text once and returns the topK nearest hits from index,
// ordered by descending similarity.
func (s *Service) Retrieve(ctx context.Context, text, index string, topK int) ([]hit.Hit, error) {
	vector, err := s.embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	hits, err := s.search.SearchKNN(ctx, index, vector, topK, topK*s.overfetch)
	if err != nil {
		return nil, fmt.Errorf("knn search %s: %w", index, err)
	}

	return hits, nil
}

// Contents extracts the passage text of each hit, substituting a placeholder
// where the indexed document had none.
func Contents(hits []hit.Hit) []string {
	out := make([]string, len(hits))
	for i := range hits {
		out[i] = hits[i].Content()
	}
	return out
}

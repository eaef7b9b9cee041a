// Package enrich attaches rules text and official rulings to matched cards.
package enrich

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/cardsage-ai/cardsage/internal/domain/card"
)

// DefaultMaxConcurrent bounds parallel ruling fetches per request.
const DefaultMaxConcurrent = 8

// Service builds the serializable card records that go into the prompt.
type Service struct {
	fetcher       RulingFetcher
	maxConcurrent int
}

// New creates an enricher backed by the given ruling fetcher.
func New(fetcher RulingFetcher) *Service {
	return &Service{fetcher: fetcher, maxConcurrent: DefaultMaxConcurrent}
}

// WithMaxConcurrent caps the number of parallel ruling fetches.
func (s *Service) WithMaxConcurrent(n int) *Service {
	if n > 0 {
		s.maxConcurrent = n
	}
	return s
}

// Enrich returns one Info record per card, in input order. Ruling fetches
// run concurrently and a failed fetch degrades only its own record.
func (s *Service) Enrich(ctx context.Context, cards []card.Card) []card.Info {
	if len(cards) == 0 {
		return nil
	}

	infos := make([]card.Info, len(cards))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxConcurrent)
	for i := range cards {
		i := i
		g.Go(func() error {
			c := &cards[i]
			res := s.fetcher.Fetch(ctx, c.RulingsURI())
			infos[i] = card.Info{
				Name:      c.Name(),
				RulesText: c.OracleText(),
				Rulings:   res.Comments(),
			}
			return nil
		})
	}
	// Fetch errors surface as placeholder comments, never as group errors.
	_ = g.Wait()

	return infos
}

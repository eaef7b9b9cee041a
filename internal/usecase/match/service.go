// Package match identifies card names mentioned in free question text.
package match

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/cardsage-ai/cardsage/internal/domain/card"
)

// DefaultPageSize bounds the lexical candidate page.
const DefaultPageSize = 10

// Service finds card candidates in question text and resolves overlapping
// matches to the longest non-redundant set.
type Service struct {
	search CardSearcher
	index  string
	size   int
}

// New creates a name matcher over the given card index.
func New(search CardSearcher, index string) *Service {
	return &Service{search: search, index: index, size: DefaultPageSize}
}

// WithPageSize configures the lexical candidate page size.
func (s *Service) WithPageSize(size int) *Service {
	if size > 0 {
		s.size = size
	}
	return s
}

// Match returns the card candidates named in text, longest name first, with
// no candidate whose name is a substring of another's. A search backend
// failure fails the whole request.
func (s *Service) Match(ctx context.Context, text string) ([]card.Card, error) {
	tokens := strings.Fields(text)
	if len(tokens) == 0 {
		return nil, nil
	}

	hits, err := s.search.FindByName(ctx, s.index, tokens, s.size)
	if err != nil {
		return nil, fmt.Errorf("find card names: %w", err)
	}

	// The lexical analyzer matches per-token, so a highly ranked hit may not
	// actually appear in the question. Keep only literal substrings.
	lowerText := strings.ToLower(text)
	candidates := make([]card.Card, 0, len(hits))
	for i := range hits {
		src := hits[i].Source()
		if src.Name == "" {
			continue
		}
		if !strings.Contains(lowerText, strings.ToLower(src.Name)) {
			continue
		}
		candidates = append(candidates, card.New(src.Name, src.OracleText, src.RulingsURI))
	}

	// Longest first; equal lengths keep the backend's relative order.
	sort.SliceStable(candidates, func(i, j int) bool {
		return len(candidates[i].Name()) > len(candidates[j].Name())
	})

	// Drop any candidate whose name is contained in one already kept, so
	// "Bolt" does not ride along with "Lightning Bolt".
	kept := make([]card.Card, 0, len(candidates))
	for i := range candidates {
		if !containedInAny(&candidates[i], kept) {
			kept = append(kept, candidates[i])
		}
	}

	return kept, nil
}

func containedInAny(c *card.Card, kept []card.Card) bool {
	for i := range kept {
		if strings.Contains(kept[i].Name(), c.Name()) {
			return true
		}
	}
	return false
}

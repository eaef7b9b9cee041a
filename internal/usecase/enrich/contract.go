package enrich

import (
	"context"

	"github.com/cardsage-ai/cardsage/internal/domain/rulings"
)

// RulingFetcher retrieves official ruling comments for a card.
type RulingFetcher interface {
	Fetch(ctx context.Context, uri string) rulings.Result
}

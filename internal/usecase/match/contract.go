package match

import (
	"context"

	"github.com/cardsage-ai/cardsage/internal/domain/hit"
)

// CardSearcher issues lexical name queries against the card index.
type CardSearcher interface {
	FindByName(ctx context.Context, index string, tokens []string, size int) ([]hit.Hit, error)
}

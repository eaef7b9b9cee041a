package answer

import (
	"context"

	"github.com/cardsage-ai/cardsage/internal/domain/card"
	"github.com/cardsage-ai/cardsage/internal/domain/hit"
)

// Matcher identifies the cards named in question text.
type Matcher interface {
	Match(ctx context.Context, text string) ([]card.Card, error)
}

// Enricher attaches rules text and rulings to matched cards.
type Enricher interface {
	Enrich(ctx context.Context, cards []card.Card) []card.Info
}

// Retriever fetches the nearest passages for a query from an index.
type Retriever interface {
	Retrieve(ctx context.Context, text, index string, topK int) ([]hit.Hit, error)
}

// Generator produces the model's answer for a rendered prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Package answer orchestrates the full question pipeline: card matching,
// enrichment, passage retrieval, prompt assembly, and generation.
package answer

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/cardsage-ai/cardsage/internal/domain"
	"github.com/cardsage-ai/cardsage/internal/domain/card"
	"github.com/cardsage-ai/cardsage/internal/domain/prompt"
	"github.com/cardsage-ai/cardsage/internal/usecase/retrieve"
)

// Indexes names the two passage collections consulted per question.
type Indexes struct {
	Rules string
	QA    string
}

// Service answers rules questions from retrieved context.
type Service struct {
	matcher   Matcher
	enricher  Enricher
	retriever Retriever
	generator Generator
	indexes   Indexes
	topK      int
}

// New wires the pipeline stages together.
func New(matcher Matcher, enricher Enricher, retriever Retriever, generator Generator, indexes Indexes, topK int) *Service {
	if topK <= 0 {
		topK = 3
	}
	return &Service{
		matcher:   matcher,
		enricher:  enricher,
		retriever: retriever,
		generator: generator,
		indexes:   indexes,
		topK:      topK,
	}
}

// Assemble gathers all context for the question into a prompt bundle. The
// card branch and the two retrieval branches run concurrently; any branch
// error cancels the rest and fails the request.
func (s *Service) Assemble(ctx context.Context, question string) (prompt.Bundle, error) {
	var (
		cards       []card.Info
		rules       []string
		discussions []string
	)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		matched, err := s.matcher.Match(ctx, question)
		if err != nil {
			return fmt.Errorf("match cards: %w", err)
		}
		cards = s.enricher.Enrich(ctx, matched)
		return nil
	})

	g.Go(func() error {
		hits, err := s.retriever.Retrieve(ctx, question, s.indexes.Rules, s.topK)
		if err != nil {
			return fmt.Errorf("retrieve rules: %w", err)
		}
		rules = retrieve.Contents(hits)
		return nil
	})

	g.Go(func() error {
		hits, err := s.retriever.Retrieve(ctx, question, s.indexes.QA, s.topK)
		if err != nil {
			return fmt.Errorf("retrieve discussions: %w", err)
		}
		discussions = retrieve.Contents(hits)
		return nil
	})

	if err := g.Wait(); err != nil {
		return prompt.Bundle{}, err
	}

	return prompt.NewBundle(cards, rules, discussions, question), nil
}

// Answer runs the full pipeline and returns the model's answer text.
func (s *Service) Answer(ctx context.Context, question string) (string, error) {
	if strings.TrimSpace(question) == "" {
		return "", fmt.Errorf("question is empty: %w", domain.ErrInvalidRequest)
	}

	bundle, err := s.Assemble(ctx, question)
	if err != nil {
		return "", err
	}

	text, err := s.generator.Generate(ctx, prompt.Render(bundle))
	if err != nil {
		return "", fmt.Errorf("generate answer: %w", err)
	}

	return text, nil
}

package answer

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/cardsage-ai/cardsage/internal/domain"
	"github.com/cardsage-ai/cardsage/internal/domain/card"
	"github.com/cardsage-ai/cardsage/internal/domain/hit"
	"github.com/cardsage-ai/cardsage/internal/domain/prompt"
)

type mockMatcher struct {
	cards []card.Card
	err   error
}

func (m *mockMatcher) Match(_ context.Context, _ string) ([]card.Card, error) {
	return m.cards, m.err
}

type mockEnricher struct{}

func (m *mockEnricher) Enrich(_ context.Context, cards []card.Card) []card.Info {
	infos := make([]card.Info, len(cards))
	for i := range cards {
		infos[i] = card.Info{
			Name:      cards[i].Name(),
			RulesText: cards[i].OracleText(),
			Rulings:   []string{"ruling for " + cards[i].Name()},
		}
	}
	return infos
}

type mockRetriever struct {
	mu      sync.Mutex
	byIndex map[string][]hit.Hit
	err     error
	topKs   []int
}

func (m *mockRetriever) Retrieve(_ context.Context, _, index string, topK int) ([]hit.Hit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.topKs = append(m.topKs, topK)
	if m.err != nil {
		return nil, m.err
	}
	return m.byIndex[index], nil
}

type mockGenerator struct {
	answer string
	err    error
	prompt string
}

func (m *mockGenerator) Generate(_ context.Context, p string) (string, error) {
	m.prompt = p
	return m.answer, m.err
}

func newTestService(matcher *mockMatcher, retriever *mockRetriever, generator *mockGenerator) *Service {
	return New(matcher, &mockEnricher{}, retriever, generator, Indexes{Rules: "rules", QA: "qa"}, 2)
}

func TestService_Answer(t *testing.T) {
	matcher := &mockMatcher{cards: []card.Card{
		card.New("Lightning Bolt", "Lightning Bolt deals 3 damage to any target.", "https://api.example.com/rulings/bolt"),
	}}
	retriever := &mockRetriever{byIndex: map[string][]hit.Hit{
		"rules": {hit.New("r1", 0.9, hit.Source{Content: "Damage is dealt on resolution."})},
		"qa":    {hit.New("q1", 0.8, hit.Source{Content: "Q: Can Bolt hit planeswalkers? A: Yes."})},
	}}
	generator := &mockGenerator{answer: "Yes, it can."}

	svc := newTestService(matcher, retriever, generator)
	answer, err := svc.Answer(context.Background(), "Can Lightning Bolt target a planeswalker?")
	if err != nil {
		t.Fatalf("Answer failed: %v", err)
	}
	if answer != "Yes, it can." {
		t.Errorf("unexpected answer: %q", answer)
	}

	p := generator.prompt
	if !strings.Contains(p, "Damage is dealt on resolution.") {
		t.Error("prompt missing rule snippet")
	}
	if !strings.Contains(p, "Can Bolt hit planeswalkers?") {
		t.Error("prompt missing discussion snippet")
	}
	if !strings.Contains(p, `"Lightning Bolt"`) {
		t.Error("prompt missing card JSON")
	}
	if !strings.Contains(p, "Question: Can Lightning Bolt target a planeswalker?") {
		t.Error("prompt missing verbatim question")
	}
	if len(retriever.topKs) != 2 || retriever.topKs[0] != 2 {
		t.Errorf("expected two retrievals with topK=2, got %v", retriever.topKs)
	}
}

func TestService_Answer_EmptyQuestion(t *testing.T) {
	svc := newTestService(&mockMatcher{}, &mockRetriever{}, &mockGenerator{})

	_, err := svc.Answer(context.Background(), "  \t ")
	if !errors.Is(err, domain.ErrInvalidRequest) {
		t.Errorf("expected ErrInvalidRequest, got %v", err)
	}
}

func TestService_Answer_MatchErrorFailsRequest(t *testing.T) {
	matcher := &mockMatcher{err: domain.ErrSearchBackend}
	retriever := &mockRetriever{byIndex: map[string][]hit.Hit{}}
	svc := newTestService(matcher, retriever, &mockGenerator{})

	_, err := svc.Answer(context.Background(), "question")
	if !errors.Is(err, domain.ErrSearchBackend) {
		t.Errorf("expected ErrSearchBackend, got %v", err)
	}
}

func TestService_Answer_RetrieveErrorFailsRequest(t *testing.T) {
	retriever := &mockRetriever{err: domain.ErrEmbeddingProvider}
	svc := newTestService(&mockMatcher{}, retriever, &mockGenerator{})

	_, err := svc.Answer(context.Background(), "question")
	if !errors.Is(err, domain.ErrEmbeddingProvider) {
		t.Errorf("expected ErrEmbeddingProvider, got %v", err)
	}
}

func TestService_Answer_GenerateError(t *testing.T) {
	retriever := &mockRetriever{byIndex: map[string][]hit.Hit{}}
	generator := &mockGenerator{err: domain.ErrModelProvider}
	svc := newTestService(&mockMatcher{}, retriever, generator)

	_, err := svc.Answer(context.Background(), "question")
	if !errors.Is(err, domain.ErrModelProvider) {
		t.Errorf("expected ErrModelProvider, got %v", err)
	}
}

func TestService_Assemble_NoContext(t *testing.T) {
	retriever := &mockRetriever{byIndex: map[string][]hit.Hit{}}
	svc := newTestService(&mockMatcher{}, retriever, &mockGenerator{})

	bundle, err := svc.Assemble(context.Background(), "what is banding?")
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}

	rendered := prompt.Render(bundle)
	if !strings.Contains(rendered, "(none)") {
		t.Error("expected (none) markers for empty sections")
	}
	if !strings.Contains(rendered, "[]") {
		t.Error("expected empty JSON array for no cards")
	}
	if !strings.HasPrefix(rendered, prompt.Preamble) {
		t.Error("expected prompt to open with the preamble")
	}
	if !strings.HasSuffix(strings.TrimSpace(rendered), prompt.ResponseCue) {
		t.Error("expected prompt to end with the response cue")
	}
}

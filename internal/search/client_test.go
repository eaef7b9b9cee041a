package search

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cardsage-ai/cardsage/internal/domain"
)

// newBackend starts a fake search backend that captures the request body and
// replies with the given response. The product header is required by the
// client library's compatibility check.
func newBackend(t *testing.T, status int, response string, captured *map[string]any) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")

		if captured != nil && r.Body != nil {
			var body map[string]any
			if err := json.NewDecoder(r.Body).Decode(&body); err == nil {
				*captured = body
			}
		}

		w.WriteHeader(status)
		_, _ = w.Write([]byte(response))
	}))
}

func newTestClient(t *testing.T, url string) *Client {
	t.Helper()
	c, err := NewClient(Config{Addrs: []string{url}})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return c
}

const cardResponse = `{
	"hits": {"hits": [
		{"_id": "1", "_score": 2.5, "_source": {"name": "Lightning Bolt", "oracle_text": "Deals 3 damage...", "rulings_reference": "https://rulings.example/1"}},
		{"_id": "2", "_score": 1.1, "_source": {"name": "Bolt"}}
	]}
}`

func TestFindByName_QueryShape(t *testing.T) {
	var captured map[string]any
	srv := newBackend(t, http.StatusOK, cardResponse, &captured)
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	hits, err := c.FindByName(context.Background(), "cards", []string{"What", "does", "Lightning", "Bolt", "do"}, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(hits) != 2 {
		t.Fatalf("expected 2 hits, got %d", len(hits))
	}

	if got := captured["size"].(float64); got != 10 {
		t.Errorf("expected size 10, got %v", got)
	}
	should := captured["query"].(map[string]any)["bool"].(map[string]any)["should"].([]any)
	if len(should) != 5 {
		t.Fatalf("expected 5 should clauses, got %d", len(should))
	}
	first := should[0].(map[string]any)["match"].(map[string]any)
	if first["name"] != "What" {
		t.Errorf("expected first match on %q, got %v", "What", first["name"])
	}
}

func TestFindByName_DecodesSourceFields(t *testing.T) {
	srv := newBackend(t, http.StatusOK, cardResponse, nil)
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	hits, err := c.FindByName(context.Background(), "cards", []string{"bolt"}, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	src := hits[0].Source()
	if src.Name != "Lightning Bolt" {
		t.Errorf("expected name 'Lightning Bolt', got %q", src.Name)
	}
	if src.OracleText != "Deals 3 damage..." {
		t.Errorf("unexpected oracle text: %q", src.OracleText)
	}
	if src.RulingsURI != "https://rulings.example/1" {
		t.Errorf("unexpected rulings uri: %q", src.RulingsURI)
	}

	// Absent fields resolve to empty strings at the decode boundary.
	if got := hits[1].Source().OracleText; got != "" {
		t.Errorf("expected empty oracle text, got %q", got)
	}
}

func TestSearchKNN_QueryShape(t *testing.T) {
	var captured map[string]any
	srv := newBackend(t, http.StatusOK, `{"hits":{"hits":[]}}`, &captured)
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	if _, err := c.SearchKNN(context.Background(), "rules", []float32{0.1, 0.2}, 3, 30); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	knn := captured["knn"].(map[string]any)
	if knn["field"] != "embedding" {
		t.Errorf("expected field 'embedding', got %v", knn["field"])
	}
	if got := knn["k"].(float64); got != 3 {
		t.Errorf("expected k=3, got %v", got)
	}
	if got := knn["num_candidates"].(float64); got != 30 {
		t.Errorf("expected num_candidates=30, got %v", got)
	}
	if got := len(knn["query_vector"].([]any)); got != 2 {
		t.Errorf("expected 2-dim vector, got %d", got)
	}
}

func TestSearch_BackendError(t *testing.T) {
	srv := newBackend(t, http.StatusInternalServerError, `{"error":"boom"}`, nil)
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	_, err := c.FindByName(context.Background(), "cards", []string{"bolt"}, 10)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, domain.ErrSearchBackend) {
		t.Errorf("expected ErrSearchBackend, got %v", err)
	}
}

func TestSearch_Unreachable(t *testing.T) {
	srv := newBackend(t, http.StatusOK, `{}`, nil)
	srv.Close() // closed immediately: connection refused

	c := newTestClient(t, srv.URL)
	_, err := c.SearchKNN(context.Background(), "rules", []float32{0.1}, 3, 30)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, domain.ErrSearchBackend) {
		t.Errorf("expected ErrSearchBackend, got %v", err)
	}
}

func TestPing(t *testing.T) {
	srv := newBackend(t, http.StatusOK, `{}`, nil)
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	if err := c.Ping(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// Package search implements the Elasticsearch-compatible backend client for
// lexical card-name queries and kNN vector queries.
package search

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	elasticsearch "github.com/elastic/go-elasticsearch/v8"

	"github.com/cardsage-ai/cardsage/internal/domain"
	"github.com/cardsage-ai/cardsage/internal/domain/hit"
	"github.com/cardsage-ai/cardsage/internal/metrics"
)

// Config holds search backend connection settings.
type Config struct {
	Addrs              []string
	Username           string
	Password           string
	InsecureSkipVerify bool
	Timeout            time.Duration
}

// Client queries the search backend. All methods impose the configured
// per-call timeout and wrap failures with domain.ErrSearchBackend.
type Client struct {
	es      *elasticsearch.Client
	timeout time.Duration
}

// NewClient creates a search backend client.
func NewClient(cfg Config) (*Client, error) {
	esCfg := elasticsearch.Config{
		Addresses: cfg.Addrs,
		Username:  cfg.Username,
		Password:  cfg.Password,
	}
	if cfg.InsecureSkipVerify {
		esCfg.Transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true}, //nolint:gosec // backend runs with self-signed certs
		}
	}

	es, err := elasticsearch.NewClient(esCfg)
	if err != nil {
		return nil, fmt.Errorf("create search client: %w", err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	return &Client{es: es, timeout: timeout}, nil
}

// FindByName issues a lexical OR-query: a card document matches when any
// token matches its name field. Results carry the backend's relevance order.
func (c *Client) FindByName(ctx context.Context, index string, tokens []string, size int) ([]hit.Hit, error) {
	body, err := json.Marshal(newLexicalRequest(tokens, size))
	if err != nil {
		return nil, fmt.Errorf("marshal lexical query: %w", err)
	}
	return c.search(ctx, "lexical", index, body)
}

// SearchKNN issues a nearest-neighbor query over the embedding field,
// requesting k results out of a numCandidates candidate pool.
func (c *Client) SearchKNN(ctx context.Context, index string, vector []float32, k, numCandidates int) ([]hit.Hit, error) {
	body, err := json.Marshal(newKNNRequest(vector, k, numCandidates))
	if err != nil {
		return nil, fmt.Errorf("marshal knn query: %w", err)
	}
	return c.search(ctx, "knn", index, body)
}

// Ping checks backend connectivity.
func (c *Client) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	res, err := c.es.Ping(c.es.Ping.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("ping: %w: %w", err, domain.ErrSearchBackend)
	}
	defer closeBody(res.Body)

	if res.IsError() {
		return fmt.Errorf("ping: status %s: %w", res.Status(), domain.ErrSearchBackend)
	}
	return nil
}

func (c *Client) search(ctx context.Context, kind, index string, body []byte) ([]hit.Hit, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()

	res, err := c.es.Search(
		c.es.Search.WithContext(ctx),
		c.es.Search.WithIndex(index),
		c.es.Search.WithBody(bytes.NewReader(body)),
	)

	metrics.SearchRequestDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.SearchRequestsTotal.WithLabelValues(kind, "error").Inc()
		return nil, fmt.Errorf("%s search on %q: %w: %w", kind, index, err, domain.ErrSearchBackend)
	}
	defer closeBody(res.Body)

	if res.IsError() {
		metrics.SearchRequestsTotal.WithLabelValues(kind, "error").Inc()
		return nil, fmt.Errorf("%s search on %q: status %s: %w", kind, index, res.Status(), domain.ErrSearchBackend)
	}

	hits, err := decodeHits(res.Body)
	if err != nil {
		metrics.SearchRequestsTotal.WithLabelValues(kind, "error").Inc()
		return nil, fmt.Errorf("%s search on %q: %w: %w", kind, index, err, domain.ErrSearchBackend)
	}

	metrics.SearchRequestsTotal.WithLabelValues(kind, "success").Inc()
	return hits, nil
}

func decodeHits(r io.Reader) ([]hit.Hit, error) {
	var resp searchResponse
	if err := json.NewDecoder(r).Decode(&resp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	hits := make([]hit.Hit, 0, len(resp.Hits.Hits))
	for _, h := range resp.Hits.Hits {
		hits = append(hits, hit.New(h.ID, h.Score, h.Source))
	}
	return hits, nil
}

func closeBody(body io.ReadCloser) {
	if body != nil {
		_ = body.Close()
	}
}

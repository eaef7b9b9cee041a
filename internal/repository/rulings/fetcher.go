// Package rulings fetches official ruling comments from per-card HTTP
// sources. Failures are isolated per card: the fetcher never returns a Go
// error, it returns a failed-variant result instead.
package rulings

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	domrulings "github.com/cardsage-ai/cardsage/internal/domain/rulings"
	"github.com/cardsage-ai/cardsage/internal/metrics"
)

// maxBodyBytes caps ruling response bodies; sources are external and untrusted.
const maxBodyBytes = 1 << 20

// Fetcher retrieves ruling comments over HTTP.
type Fetcher struct {
	client *http.Client
	logger *zap.Logger
}

// NewFetcher creates a ruling fetcher with an explicit per-request timeout.
func NewFetcher(timeout time.Duration, logger *zap.Logger) *Fetcher {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Fetcher{
		client: &http.Client{Timeout: timeout},
		logger: logger,
	}
}

// rulingsBody is the expected response shape: {"data": [{"comment": ...}]}.
type rulingsBody struct {
	Data []struct {
		Comment string `json:"comment"`
	} `json:"data"`
}

// Fetch retrieves the ruling comments at uri in response order. An empty uri
// returns an empty result without a network call. Any failure is captured as
// a failed-variant result carrying a single error description.
func (f *Fetcher) Fetch(ctx context.Context, uri string) domrulings.Result {
	if uri == "" {
		return domrulings.Empty()
	}

	res := f.fetch(ctx, uri)
	if res.Failed() {
		metrics.RulingFetchTotal.WithLabelValues("error").Inc()
		f.logger.Warn("ruling fetch failed",
			zap.String("uri", uri),
			zap.Strings("placeholder", res.Comments()),
		)
	} else {
		metrics.RulingFetchTotal.WithLabelValues("ok").Inc()
	}
	return res
}

func (f *Fetcher) fetch(ctx context.Context, uri string) domrulings.Result {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return domrulings.FromError(fmt.Errorf("build request: %w", err))
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return domrulings.FromError(err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return domrulings.FromError(fmt.Errorf("unexpected status %s", resp.Status))
	}

	var body rulingsBody
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&body); err != nil {
		return domrulings.FromError(fmt.Errorf("decode body: %w", err))
	}
	if body.Data == nil {
		return domrulings.FromError(fmt.Errorf("response missing data field"))
	}

	comments := make([]string, 0, len(body.Data))
	for _, d := range body.Data {
		comments = append(comments, d.Comment)
	}
	return domrulings.FromComments(comments)
}

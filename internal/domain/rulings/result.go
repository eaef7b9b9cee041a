// Package rulings models the outcome of fetching official ruling comments
// for a single card. A fetch failure is carried as a value variant rather
// than an error: one bad ruling source must not abort enrichment for the
// other cards, and the degradation stays visible in the assembled context.
package rulings

import "fmt"

// Result carries either fetched ruling comments or a fetch-failure placeholder.
type Result struct {
	comments []string
	failed   bool
}

// Empty returns a result with no comments, used when a card has no ruling source.
func Empty() Result {
	return Result{comments: []string{}}
}

// FromComments wraps successfully fetched comments.
func FromComments(comments []string) Result {
	if comments == nil {
		comments = []string{}
	}
	return Result{comments: comments}
}

// FromError wraps a fetch failure as a single visible placeholder comment.
func FromError(err error) Result {
	return Result{
		comments: []string{fmt.Sprintf("failed to fetch rulings: %v", err)},
		failed:   true,
	}
}

// Comments returns the ruling comments in source order. For a failed fetch
// it is a single human-readable error description.
func (r Result) Comments() []string { return r.comments }

// Failed reports whether the fetch failed.
func (r Result) Failed() bool { return r.failed }

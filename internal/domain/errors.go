package domain

import "errors"

var (
	// ErrSearchBackend signals that the lexical/vector search backend is unreachable or failing.
	ErrSearchBackend = errors.New("search backend unavailable")
	// ErrEmbeddingProvider signals an embedding provider failure.
	ErrEmbeddingProvider = errors.New("embedding provider error")
	// ErrModelProvider signals a language model provider failure.
	ErrModelProvider = errors.New("model provider error")
	// ErrInvalidRequest signals a malformed or empty question.
	ErrInvalidRequest = errors.New("invalid request")
)

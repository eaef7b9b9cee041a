package search

import "github.com/cardsage-ai/cardsage/internal/domain/hit"

// Wire contracts for the search backend. The lexical query is a bool/should
// of per-token name matches; the vector query is a top-level knn clause.

type matchClause struct {
	Match map[string]string `json:"match"`
}

type boolClause struct {
	Should []matchClause `json:"should"`
}

type queryClause struct {
	Bool boolClause `json:"bool"`
}

type lexicalRequest struct {
	Size  int         `json:"size"`
	Query queryClause `json:"query"`
}

func newLexicalRequest(tokens []string, size int) lexicalRequest {
	should := make([]matchClause, 0, len(tokens))
	for _, token := range tokens {
		should = append(should, matchClause{Match: map[string]string{"name": token}})
	}
	return lexicalRequest{
		Size:  size,
		Query: queryClause{Bool: boolClause{Should: should}},
	}
}

type knnClause struct {
	Field         string    `json:"field"`
	QueryVector   []float32 `json:"query_vector"`
	K             int       `json:"k"`
	NumCandidates int       `json:"num_candidates"`
}

type knnRequest struct {
	KNN knnClause `json:"knn"`
}

func newKNNRequest(vector []float32, k, numCandidates int) knnRequest {
	return knnRequest{
		KNN: knnClause{
			Field:         "embedding",
			QueryVector:   vector,
			K:             k,
			NumCandidates: numCandidates,
		},
	}
}

type searchResponse struct {
	Hits struct {
		Hits []struct {
			ID     string     `json:"_id"`
			Score  float64    `json:"_score"`
			Source hit.Source `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

// Package hit defines the search hit shape shared by lexical and vector
// retrieval. Optional index fields resolve to their zero values at the
// deserialization boundary, so callers never probe raw maps.
package hit

// NoContent is substituted when a hit carries no content field.
const NoContent = "No content available"

// Source holds the indexed fields of a hit. Fields absent from the backend
// document decode to empty strings.
type Source struct {
	Name       string `json:"name"`
	OracleText string `json:"oracle_text"`
	RulingsURI string `json:"rulings_reference"`
	Content    string `json:"content"`
}

// Hit is a single scored search result.
type Hit struct {
	id     string
	score  float64
	source Source
}

// New creates a search hit.
func New(id string, score float64, source Source) Hit {
	return Hit{id: id, score: score, source: source}
}

// ID returns the backend document identifier.
func (h *Hit) ID() string { return h.id }

// Score returns the backend relevance score.
func (h *Hit) Score() float64 { return h.score }

// Source returns the indexed document fields.
func (h *Hit) Source() Source { return h.source }

// Content returns the hit content, or the NoContent placeholder when the
// document has no content field. Never fails.
func (h *Hit) Content() string {
	if h.source.Content == "" {
		return NoContent
	}
	return h.source.Content
}

// Package card defines the card entities flowing through the retrieval pipeline.
package card

// Card is a candidate entity whose name was matched in the question text.
type Card struct {
	name       string
	oracleText string
	rulingsURI string
}

// New creates a card candidate.
func New(name, oracleText, rulingsURI string) Card {
	return Card{name: name, oracleText: oracleText, rulingsURI: rulingsURI}
}

// Name returns the card name.
func (c *Card) Name() string { return c.name }

// OracleText returns the official rules text of the card.
func (c *Card) OracleText() string { return c.oracleText }

// RulingsURI returns the external ruling source reference, empty if none.
func (c *Card) RulingsURI() string { return c.rulingsURI }

// Info is the enriched per-card record embedded into the prompt context.
// It is serialized to JSON for direct template insertion.
type Info struct {
	Name      string   `json:"name"`
	RulesText string   `json:"rules_text,omitempty"`
	Rulings   []string `json:"rulings"`
}

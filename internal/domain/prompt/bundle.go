// Package prompt assembles the retrieved context into the model prompt.
package prompt

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cardsage-ai/cardsage/internal/domain/card"
)

// Preamble is the fixed instruction block that opens every prompt. Its
// wording is a product-facing contract: the model answers only when the
// supplied context is relevant, asks for elaboration otherwise, and ignores
// irrelevant fragments.
const Preamble = `You are an expert rules judge for a trading card game. ` +
	`Answer the player's question using only the context provided below. ` +
	`If the provided context is not relevant to the question, say that you ` +
	`cannot answer from the available material and ask the player to ` +
	`elaborate. Disregard any context fragments that are not relevant to ` +
	`the question.`

// ResponseCue is the final line of the rendered prompt.
const ResponseCue = "Answer:"

// Bundle is the complete retrieved material for one question. Assembled once
// per request, rendered once, then discarded.
type Bundle struct {
	cards       []card.Info
	rules       []string
	discussions []string
	question    string
}

// NewBundle creates a context bundle.
func NewBundle(cards []card.Info, rules, discussions []string, question string) Bundle {
	return Bundle{cards: cards, rules: rules, discussions: discussions, question: question}
}

// Cards returns the matched card records.
func (b *Bundle) Cards() []card.Info { return b.cards }

// Rules returns the retrieved rule snippets.
func (b *Bundle) Rules() []string { return b.rules }

// Discussions returns the retrieved forum Q&A snippets.
func (b *Bundle) Discussions() []string { return b.discussions }

// Question returns the verbatim original question.
func (b *Bundle) Question() string { return b.question }

// Render produces the prompt text: preamble, rule snippets, forum
// discussions, matched-card details as JSON, the verbatim question, and the
// response cue.
func Render(b Bundle) string {
	var sb strings.Builder

	sb.WriteString(Preamble)
	sb.WriteString("\n\n")

	sb.WriteString("Relevant game rules:\n")
	writeNumbered(&sb, b.rules)
	sb.WriteString("\n")

	sb.WriteString("Related forum discussions:\n")
	writeNumbered(&sb, b.discussions)
	sb.WriteString("\n")

	sb.WriteString("Cards referenced in the question:\n")
	sb.WriteString(cardsJSON(b.cards))
	sb.WriteString("\n\n")

	sb.WriteString("Question: ")
	sb.WriteString(b.question)
	sb.WriteString("\n\n")

	sb.WriteString(ResponseCue)
	sb.WriteString("\n")

	return sb.String()
}

func writeNumbered(sb *strings.Builder, items []string) {
	if len(items) == 0 {
		sb.WriteString("(none)\n")
		return
	}
	for i, item := range items {
		fmt.Fprintf(sb, "%d. %s\n", i+1, item)
	}
}

// cardsJSON serializes card records for template insertion. Marshaling plain
// string fields cannot fail; the fallback keeps Render total regardless.
func cardsJSON(cards []card.Info) string {
	if len(cards) == 0 {
		return "[]"
	}
	data, err := json.MarshalIndent(cards, "", "  ")
	if err != nil {
		return "[]"
	}
	return string(data)
}

package hit

import "testing"

func TestContent(t *testing.T) {
	h := New("doc-1", 0.87, Source{Content: "rule text"})
	if h.Content() != "rule text" {
		t.Errorf("unexpected content: %q", h.Content())
	}
}

func TestContent_Placeholder(t *testing.T) {
	h := New("doc-2", 0.5, Source{Name: "Shock"})
	if h.Content() != NoContent {
		t.Errorf("expected %q, got %q", NoContent, h.Content())
	}
}

func TestAccessors(t *testing.T) {
	src := Source{Name: "Shock", OracleText: "Deals 2 damage.", RulingsURI: "https://api.example.com/r/1"}
	h := New("doc-3", 1.5, src)

	if h.ID() != "doc-3" {
		t.Errorf("unexpected id: %q", h.ID())
	}
	if h.Score() != 1.5 {
		t.Errorf("unexpected score: %v", h.Score())
	}
	if h.Source() != src {
		t.Errorf("source not preserved: %+v", h.Source())
	}
}

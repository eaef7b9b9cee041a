package rulings

import (
	"errors"
	"strings"
	"testing"
)

func TestEmpty(t *testing.T) {
	r := Empty()
	if r.Failed() {
		t.Error("empty result must not be failed")
	}
	if r.Comments() == nil || len(r.Comments()) != 0 {
		t.Errorf("expected empty non-nil comments, got %#v", r.Comments())
	}
}

func TestFromComments(t *testing.T) {
	r := FromComments([]string{"a", "b"})
	if r.Failed() {
		t.Error("unexpected failed flag")
	}
	if len(r.Comments()) != 2 || r.Comments()[0] != "a" {
		t.Errorf("comments not preserved: %v", r.Comments())
	}
}

func TestFromError(t *testing.T) {
	r := FromError(errors.New("connection refused"))
	if !r.Failed() {
		t.Error("expected failed result")
	}
	if len(r.Comments()) != 1 {
		t.Fatalf("expected single placeholder, got %v", r.Comments())
	}
	if !strings.HasPrefix(r.Comments()[0], "failed to fetch rulings:") {
		t.Errorf("unexpected placeholder: %q", r.Comments()[0])
	}
	if !strings.Contains(r.Comments()[0], "connection refused") {
		t.Errorf("placeholder should carry cause: %q", r.Comments()[0])
	}
}

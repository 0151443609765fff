package result

import (
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	r := New("doc-1", "Mountain Sunset", "a landscape photo", 0.75, "image", "upload",
		[]string{"<mark>Mountain</mark> Sunset"}, "mountain")

	if r.ID() != "doc-1" {
		t.Errorf("ID() = %q", r.ID())
	}
	if r.Title() != "Mountain Sunset" {
		t.Errorf("Title() = %q", r.Title())
	}
	if r.Content() != "a landscape photo" {
		t.Errorf("Content() = %q", r.Content())
	}
	if r.Score() != 0.75 {
		t.Errorf("Score() = %f", r.Score())
	}
	if r.Type() != "image" || r.Source() != "upload" {
		t.Errorf("Type()/Source() = %q/%q", r.Type(), r.Source())
	}
	if len(r.Highlights()) != 1 {
		t.Errorf("Highlights() = %v", r.Highlights())
	}
	if r.Query() != "mountain" {
		t.Errorf("Query() = %q", r.Query())
	}
}

func TestNew_CapsHighlights(t *testing.T) {
	hl := make([]string, 15)
	for i := range hl {
		hl[i] = fmt.Sprintf("snippet %d", i)
	}

	r := New("id", "", "", 0, "", "", hl, "q")
	if len(r.Highlights()) != MaxHighlights {
		t.Fatalf("Highlights() len = %d, want %d", len(r.Highlights()), MaxHighlights)
	}
	if r.Highlights()[9] != "snippet 9" {
		t.Errorf("last kept highlight = %q", r.Highlights()[9])
	}
}

func TestNew_NilHighlights(t *testing.T) {
	r := New("id", "", "", 0, "", "", nil, "")
	if r.Highlights() != nil {
		t.Errorf("Highlights() = %v, want nil", r.Highlights())
	}
}

package models

import "testing"

func TestLinkGraphReciprocity(t *testing.T) {
	g, err := NewLinkGraph([]string{"A", "B", "C"})
	if err != nil {
		t.Fatal(err)
	}
	if err := g.Link("A", "C"); err != nil {
		t.Fatal(err)
	}
	if !g.Has("A", "C") || !g.Has("C", "A") {
		t.Error("edge not present on both endpoints")
	}
	if g.Has("A", "B") {
		t.Error("unexpected edge")
	}
	if g.EdgeCount() != 1 {
		t.Errorf("EdgeCount = %d, want 1", g.EdgeCount())
	}
	if err := g.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestLinkGraphRejectsSelfAndUnknown(t *testing.T) {
	g, _ := NewLinkGraph([]string{"A", "B"})
	if err := g.Link("A", "A"); err == nil {
		t.Error("self-link accepted")
	}
	if err := g.Link("A", "Z"); err == nil {
		t.Error("unknown title accepted")
	}
}

func TestLinkGraphDuplicateTitle(t *testing.T) {
	if _, err := NewLinkGraph([]string{"A", "A"}); err == nil {
		t.Error("duplicate title accepted")
	}
	g, _ := NewLinkGraph([]string{"A"})
	if err := g.AddHub("A"); err == nil {
		t.Error("hub clashing with existing title accepted")
	}
}

func TestLinkGraphLinkedOrder(t *testing.T) {
	g, _ := NewLinkGraph([]string{"A", "B", "C", "D"})
	_ = g.Link("C", "A")
	_ = g.Link("C", "D")
	_ = g.Link("C", "B")

	got := g.Linked("C")
	want := []string{"A", "B", "D"}
	if len(got) != len(want) {
		t.Fatalf("Linked = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Linked[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestLinkGraphIdempotentLink(t *testing.T) {
	g, _ := NewLinkGraph([]string{"A", "B"})
	_ = g.Link("A", "B")
	_ = g.Link("B", "A")
	if g.EdgeCount() != 1 {
		t.Errorf("EdgeCount = %d, want 1", g.EdgeCount())
	}
	if g.Degree("A") != 1 || g.Degree("B") != 1 {
		t.Errorf("degrees = %d, %d, want 1, 1", g.Degree("A"), g.Degree("B"))
	}
}

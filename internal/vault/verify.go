package vault

import (
	"fmt"

	"github.com/starford/gebo/internal/models"
	"github.com/starford/gebo/internal/parser"
	"github.com/starford/gebo/internal/storage"
)

// Verify re-reads a written vault and checks it against the graph it was
// generated from: every note file exists, parses, and carries exactly the
// wikilinks the graph claims. It is the last step of a generation run and
// catches any drift between renderer and graph.
func Verify(store storage.Provider, g *models.LinkGraph) error {
	for _, title := range g.Titles() {
		data, err := store.Read(Filename(title))
		if err != nil {
			return fmt.Errorf("vault: verify: missing note %q: %w", title, err)
		}
		res, err := parser.Parse(data)
		if err != nil {
			return fmt.Errorf("vault: verify: parse %q: %w", title, err)
		}

		want := g.Linked(title)
		wantSet := make(map[string]struct{}, len(want))
		for _, t := range want {
			wantSet[t] = struct{}{}
		}
		gotSet := make(map[string]struct{}, len(res.Links))
		for _, t := range res.Links {
			gotSet[t] = struct{}{}
			if _, ok := wantSet[t]; !ok {
				return fmt.Errorf("vault: verify: %q carries link to %q not present in graph", title, t)
			}
		}
		for _, t := range want {
			if _, ok := gotSet[t]; !ok {
				return fmt.Errorf("vault: verify: %q is missing link to %q", title, t)
			}
		}
	}
	return nil
}

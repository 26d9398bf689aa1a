// Package content fills note bodies once the link graph is frozen. A Filler
// is called exactly once per note with the note's final neighbour list; it
// never sees or mutates the graph itself.
package content

import (
	"context"
	"fmt"
	"strings"
)

// Filler produces the Markdown body for a single note.
type Filler interface {
	// Fill returns body text for the note. linked is the note's complete,
	// final neighbour list in generation order.
	Fill(ctx context.Context, title string, linked []string, isHub bool) (string, error)
}

// TemplateFiller renders deterministic bodies from a fixed template. It is
// both the offline mode and the shape of the degraded-LLM fallback.
type TemplateFiller struct{}

// Fill implements Filler and never fails.
func (TemplateFiller) Fill(_ context.Context, title string, linked []string, isHub bool) (string, error) {
	return FallbackBody(title, linked, isHub), nil
}

// FallbackBody renders the deterministic template body. Because it embeds a
// wikilink for every neighbour, a vault stays fully linked even when every
// single LLM call fails.
func FallbackBody(title string, linked []string, isHub bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", title)

	if isHub {
		b.WriteString("This hub connects the most related notes in the vault. ")
		b.WriteString("It is a good starting point for exploring the graph.\n")
	} else {
		fmt.Fprintf(&b, "## Overview\n\nThis note covers %s.\n\n", title)
		b.WriteString("## Key Points\n\n")
		fmt.Fprintf(&b, "- Core ideas behind %s\n", title)
		b.WriteString("- How it relates to the linked notes below\n")
		b.WriteString("- Questions worth following up\n")
	}

	b.WriteString(renderRelated(linked))
	return b.String()
}

// renderRelated renders the Related Notes section for the given neighbours.
func renderRelated(linked []string) string {
	if len(linked) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("\n## Related Notes\n\n")
	for _, t := range linked {
		fmt.Fprintf(&b, "- [[%s]]\n", t)
	}
	return b.String()
}

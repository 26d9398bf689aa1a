package topics

import (
	"context"
	"fmt"
)

// The fixed sub-topic vocabulary. The first group forms direct sub-titles of
// the main topic; the extensions are cycled once those run out.
var (
	baseSuffixes = []string{
		"Fundamentals",
		"Applications",
		"History",
		"Best Practices",
		"Advanced Concepts",
		"Examples",
		"Resources",
	}
	extensions = []string{
		"Key Concepts",
		"Important Principles",
		"Common Patterns",
		"Use Cases",
		"Related Technologies",
		"Future Trends",
		"Getting Started",
		"Deep Dive",
		"Quick Reference",
		"Troubleshooting",
	}
)

// TemplateExpander derives titles from a fixed vocabulary. It is a pure
// function of (mainTopic, count): the same inputs always yield the same
// titles, which makes template-mode runs fully reproducible.
type TemplateExpander struct{}

// Expand implements Expander.
func (TemplateExpander) Expand(_ context.Context, mainTopic string, count int) ([]string, error) {
	titles := make([]string, 0, count)
	titles = append(titles, mainTopic)
	for _, s := range baseSuffixes {
		if len(titles) >= count {
			break
		}
		titles = append(titles, fmt.Sprintf("%s %s", mainTopic, s))
	}
	for i := 0; len(titles) < count; i++ {
		ext := extensions[i%len(extensions)]
		cycle := i/len(extensions) + 1
		if cycle == 1 {
			titles = append(titles, fmt.Sprintf("%s - %s", mainTopic, ext))
		} else {
			titles = append(titles, fmt.Sprintf("%s - %s %d", mainTopic, ext, cycle))
		}
	}
	return ensureViable(titles, count)
}

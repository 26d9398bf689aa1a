// Package vault renders generated notes to Markdown and persists them. The
// writer is the single place that turns graph edges into wikilinks, so the
// emitted link set always equals the edge set exactly: stray links a model
// invented are unwrapped to plain text, missing ones are appended.
package vault

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/starford/gebo/internal/models"
	"github.com/starford/gebo/internal/storage"
)

// IndexFile is the name of the vault's index document.
const IndexFile = "README.md"

var wikilinkRe = regexp.MustCompile(`\[\[(.*?)\]\]`)

// frontmatter is the YAML header of every generated note.
type frontmatter struct {
	Title string   `yaml:"title"`
	Tags  []string `yaml:"tags,omitempty"`
}

// Writer persists notes into a vault through a storage provider.
type Writer struct {
	store storage.Provider
}

// NewWriter creates a Writer on top of the given provider.
func NewWriter(store storage.Provider) *Writer {
	return &Writer{store: store}
}

// Filename maps a note title to its file name. Titles are sanitized before
// they enter the graph, so this mapping is bijective: the wikilink target,
// the title, and the filename stem are the same string.
func Filename(title string) string {
	return title + ".md"
}

// WriteNote renders and writes a single note. The body's wikilinks are
// reconciled against n.Links before writing.
func (w *Writer) WriteNote(n models.Note) error {
	fm, err := yaml.Marshal(frontmatter{Title: n.Title, Tags: n.Tags})
	if err != nil {
		return fmt.Errorf("vault: marshal frontmatter for %q: %w", n.Title, err)
	}

	body := EnforceLinks(n.Body, n.Links)

	var doc strings.Builder
	doc.WriteString("---\n")
	doc.Write(fm)
	doc.WriteString("---\n\n")
	doc.WriteString(strings.TrimRight(body, "\n"))
	doc.WriteString("\n")

	if err := w.store.Write(Filename(n.Title), []byte(doc.String())); err != nil {
		return fmt.Errorf("vault: write %q: %w", n.Title, err)
	}
	return nil
}

// Finalize writes the index document listing every note in the vault.
func (w *Writer) Finalize(mainTopic string, titles []string, now time.Time) error {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s - Knowledge Vault\n\n", mainTopic)
	fmt.Fprintf(&b, "**Created:** %s\n\n", now.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "This vault contains %d interconnected notes about **%s**. ", len(titles), mainTopic)
	b.WriteString("Open the graph view in your Markdown editor to explore the connections.\n\n")
	b.WriteString("## All Notes\n\n")
	for _, t := range titles {
		fmt.Fprintf(&b, "- [[%s]]\n", t)
	}

	if err := w.store.Write(IndexFile, []byte(b.String())); err != nil {
		return fmt.Errorf("vault: write index: %w", err)
	}
	return nil
}

// EnforceLinks reconciles the wikilinks in body with the allowed link set:
//
//   - a wikilink whose target is not in allowed is unwrapped to plain text
//     (the alias when one is given, the target otherwise)
//   - any allowed target that never appears gets appended in a
//     "Related Notes" section
//
// The result contains a wikilink for every allowed target and for nothing
// else.
func EnforceLinks(body string, allowed []string) string {
	allowedSet := make(map[string]struct{}, len(allowed))
	for _, t := range allowed {
		allowedSet[t] = struct{}{}
	}

	present := make(map[string]struct{}, len(allowed))
	out := wikilinkRe.ReplaceAllStringFunc(body, func(m string) string {
		inner := strings.TrimSuffix(strings.TrimPrefix(m, "[["), "]]")
		target, alias := inner, ""
		if i := strings.Index(inner, "|"); i >= 0 {
			target, alias = inner[:i], inner[i+1:]
		}
		target = strings.TrimSpace(target)
		if _, ok := allowedSet[target]; ok {
			present[target] = struct{}{}
			return m
		}
		if alias != "" {
			return alias
		}
		return target
	})

	var missing []string
	for _, t := range allowed {
		if _, ok := present[t]; !ok {
			missing = append(missing, t)
		}
	}
	if len(missing) == 0 {
		return out
	}

	var list strings.Builder
	for _, t := range missing {
		fmt.Fprintf(&list, "- [[%s]]\n", t)
	}

	const heading = "## Related Notes"
	i := strings.Index(out, heading)
	if i < 0 {
		return strings.TrimRight(out, "\n") + "\n\n" + heading + "\n\n" + list.String()
	}

	// The section already exists: extend its list in place rather than
	// appending a second one after whatever follows it.
	end := len(out)
	if j := strings.Index(out[i+len(heading):], "\n## "); j >= 0 {
		end = i + len(heading) + j
	}
	head := strings.TrimRight(out[:end], "\n")
	return head + "\n" + list.String() + out[end:]
}

// Package topics expands a main topic into a list of unique, filename-safe
// note titles. The first title is always the index/overview title derived
// from the main topic.
package topics

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/starford/gebo/internal/apperr"
)

// Expander produces an ordered sequence of unique note titles for a topic.
type Expander interface {
	// Expand returns at most count titles. The result is normalized: every
	// title is filename-safe and no two titles are equal.
	Expand(ctx context.Context, mainTopic string, count int) ([]string, error)
}

const maxTitleLen = 100

// filename-reserved characters on the platforms Obsidian runs on.
const invalidChars = `<>:"/\|?*`

// Sanitize makes a title safe for use as a filename stem. Reserved characters
// become underscores, surrounding dots and spaces are trimmed, and the result
// is capped at 100 characters.
func Sanitize(title string) string {
	out := strings.Map(func(r rune) rune {
		if strings.ContainsRune(invalidChars, r) {
			return '_'
		}
		return r
	}, title)
	out = strings.Trim(out, ". ")
	if len(out) > maxTitleLen {
		// Cut on a rune boundary so multibyte titles stay valid UTF-8.
		cut := maxTitleLen
		for cut > 0 && !utf8.RuneStart(out[cut]) {
			cut--
		}
		out = strings.Trim(out[:cut], ". ")
	}
	return out
}

// Normalize sanitizes every title and deduplicates the result while keeping
// order. A repeated title gets a numeric suffix (" 2", " 3", ...) so that the
// title↔filename mapping stays bijective. Empty titles are dropped.
func Normalize(titles []string) []string {
	seen := make(map[string]struct{}, len(titles))
	out := make([]string, 0, len(titles))
	for _, raw := range titles {
		t := Sanitize(raw)
		if t == "" {
			continue
		}
		candidate := t
		for n := 2; ; n++ {
			if _, dup := seen[candidate]; !dup {
				break
			}
			candidate = fmt.Sprintf("%s %d", t, n)
		}
		seen[candidate] = struct{}{}
		out = append(out, candidate)
	}
	return out
}

// ensureViable applies Normalize, truncates to count, and enforces the
// minimum graph size.
func ensureViable(titles []string, count int) ([]string, error) {
	out := Normalize(titles)
	if count > 0 && len(out) > count {
		out = out[:count]
	}
	if len(out) < 2 {
		return nil, fmt.Errorf("%w: got %d unique titles, need at least 2", apperr.ErrInsufficientTopics, len(out))
	}
	return out, nil
}

// Package graph builds the reciprocal link graph that connects the notes of
// a generated vault. It is the only part of the pipeline with non-trivial
// logic: everything downstream treats the graph as frozen, read-only input.
package graph

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/starford/gebo/internal/apperr"
	"github.com/starford/gebo/internal/models"
)

// Options control the edge policy. The formulas behind the zero-value
// defaults are a reasonable policy, not a law of nature, which is why every
// one of them can be overridden.
type Options struct {
	// Density is the probability of an optional edge between any unordered
	// pair of non-hub notes; must be within [0, 1].
	Density float64

	// Hubs is the number of hub notes inserted. 0 derives max(1, N/10).
	Hubs int

	// DegreeCap limits non-hub degree growth during the probabilistic pass.
	// 0 derives max(5, round(Density*N/2)). Floor and hub edges are exempt.
	DegreeCap int

	// Seed feeds the random source. Runs with equal titles, options, and
	// seed produce identical graphs.
	Seed int64

	// HubTitle names the i-th hub note (0-based). Defaults to
	// "Knowledge Hub <i+1>".
	HubTitle func(i int) string
}

// Builder constructs link graphs for ordered title sequences.
type Builder struct {
	opts Options
}

// NewBuilder creates a Builder with the given options.
func NewBuilder(opts Options) *Builder {
	return &Builder{opts: opts}
}

// Build constructs the link graph for the given titles. The returned graph
// satisfies, by construction:
//
//   - reciprocity: every edge is present on both endpoints
//   - no self-links and no references to titles outside the graph
//   - connectivity floor: every non-hub note links at least to its
//     predecessor in generation order, so no note is an orphan
//   - hub fan-out: each hub links a density-scaled share of the notes
//   - degree cap: the probabilistic pass never pushes a non-hub note past
//     the cap
//
// Build never mutates the input slice. Edges are added in a single pass and
// the graph must not be modified afterwards.
func (b *Builder) Build(titles []string) (*models.LinkGraph, error) {
	if b.opts.Density < 0 || b.opts.Density > 1 {
		return nil, fmt.Errorf("%w: %v is outside [0, 1]", apperr.ErrInvalidDensity, b.opts.Density)
	}
	n := len(titles)
	if n < 2 {
		return nil, fmt.Errorf("%w: got %d titles, need at least 2", apperr.ErrEmptyTopicSet, n)
	}

	g, err := models.NewLinkGraph(titles)
	if err != nil {
		return nil, err
	}

	hubTitles, err := b.addHubs(g, titles)
	if err != nil {
		return nil, err
	}

	// Connectivity floor: chain each note to its predecessor.
	for i := 1; i < n; i++ {
		if err := g.Link(titles[i-1], titles[i]); err != nil {
			return nil, err
		}
	}

	// Hub fan-out: spread a density-scaled share of the notes across the
	// hubs with a fixed stride so every hub covers a different slice. When
	// the stride cycles back onto a note the hub already links, walk forward
	// to the next unlinked one; fanout < n guarantees one exists.
	fanout := clamp(int(math.Round(b.opts.Density*float64(n))), 1, n-1)
	for hi, hub := range hubTitles {
		for k := 0; k < fanout; k++ {
			idx := (hi + k*len(hubTitles)) % n
			for g.Has(hub, titles[idx]) {
				idx = (idx + 1) % n
			}
			if err := g.Link(hub, titles[idx]); err != nil {
				return nil, err
			}
		}
	}

	// Probabilistic pass over unordered non-hub pairs, evaluated in
	// generation order so a fixed seed reproduces the same edge set.
	degCap := b.opts.DegreeCap
	if degCap <= 0 {
		degCap = maxInt(5, int(math.Round(b.opts.Density*float64(n)/2)))
	}
	rng := rand.New(rand.NewSource(b.opts.Seed))
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if g.Has(titles[i], titles[j]) {
				continue
			}
			if g.Degree(titles[i]) >= degCap || g.Degree(titles[j]) >= degCap {
				continue
			}
			if rng.Float64() < b.opts.Density {
				if err := g.Link(titles[i], titles[j]); err != nil {
					return nil, err
				}
			}
		}
	}

	return g, nil
}

// addHubs appends the hub nodes to the graph, disambiguating any clash with
// an expanded title, and returns their titles.
func (b *Builder) addHubs(g *models.LinkGraph, titles []string) ([]string, error) {
	h := b.opts.Hubs
	if h <= 0 {
		h = maxInt(1, len(titles)/10)
	}
	name := b.opts.HubTitle
	if name == nil {
		name = func(i int) string { return fmt.Sprintf("Knowledge Hub %d", i+1) }
	}

	taken := make(map[string]struct{}, len(titles)+h)
	for _, t := range titles {
		taken[t] = struct{}{}
	}

	out := make([]string, 0, h)
	for i := 0; i < h; i++ {
		title := name(i)
		for n := 2; ; n++ {
			if _, dup := taken[title]; !dup {
				break
			}
			title = fmt.Sprintf("%s (%d)", name(i), n)
		}
		taken[title] = struct{}{}
		if err := g.AddHub(title); err != nil {
			return nil, err
		}
		out = append(out, title)
	}
	return out, nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// Package generator orchestrates the vault generation pipeline:
// topic expansion, graph building, content filling, and vault writing.
//
// The phases are strictly ordered. The link graph is frozen before the first
// Fill call, so fills for different notes share no mutable state and run in
// parallel; results land in one slot per note index and are written
// sequentially afterwards.
package generator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/starford/gebo/internal/apperr"
	"github.com/starford/gebo/internal/content"
	"github.com/starford/gebo/internal/graph"
	"github.com/starford/gebo/internal/models"
	"github.com/starford/gebo/internal/storage"
	"github.com/starford/gebo/internal/topics"
	"github.com/starford/gebo/internal/vault"
)

// Params configure a single generation run.
type Params struct {
	MainTopic string
	NoteCount int
	Density   float64
	Seed      int64
	Hubs      int // 0 derives max(1, N/10)
	DegreeCap int // 0 derives from density
	Workers   int // parallel content fills, min 1
}

// Report summarises a completed run.
type Report struct {
	Notes     int           `json:"notes"`
	Hubs      int           `json:"hubs"`
	Edges     int           `json:"edges"`
	Generated int           `json:"generated"`
	Fallback  int           `json:"fallback"`
	Duration  time.Duration `json:"duration"`
}

// Generator wires the pipeline collaborators together.
type Generator struct {
	expander topics.Expander
	filler   content.Filler
	store    storage.Provider
	logger   *slog.Logger
	now      func() time.Time
}

// New creates a Generator.
func New(expander topics.Expander, filler content.Filler, store storage.Provider, logger *slog.Logger) *Generator {
	return &Generator{
		expander: expander,
		filler:   filler,
		store:    store,
		logger:   logger,
		now:      time.Now,
	}
}

// Run executes the full pipeline and returns a run report. Structural errors
// (bad density, too few topics) abort before any file is written; per-note
// content failures are recovered with the template fallback and counted.
func (g *Generator) Run(ctx context.Context, p Params) (*Report, error) {
	start := g.now()

	if p.Workers < 1 {
		p.Workers = 1
	}
	if strings.TrimSpace(p.MainTopic) == "" {
		return nil, fmt.Errorf("%w: main topic is empty", apperr.ErrInsufficientTopics)
	}

	titles, err := g.expander.Expand(ctx, p.MainTopic, p.NoteCount)
	if err != nil {
		return nil, err
	}
	if len(titles) < 2 {
		return nil, fmt.Errorf("%w: got %d unique titles", apperr.ErrInsufficientTopics, len(titles))
	}

	builder := graph.NewBuilder(graph.Options{
		Density:   p.Density,
		Hubs:      p.Hubs,
		DegreeCap: p.DegreeCap,
		Seed:      p.Seed,
	})
	lg, err := builder.Build(titles)
	if err != nil {
		return nil, err
	}
	// The graph is frozen from here on: fills and writes only read it.

	all := lg.Titles()
	bodies := make([]string, len(all))
	fellBack := make([]bool, len(all))

	eg, fillCtx := errgroup.WithContext(ctx)
	eg.SetLimit(p.Workers)
	for i, title := range all {
		eg.Go(func() error {
			body, fillErr := g.filler.Fill(fillCtx, title, lg.Linked(title), lg.IsHub(title))
			if fillErr != nil {
				g.logger.Warn("falling back to template body",
					slog.String("note", title),
					slog.String("error", fmt.Errorf("%w: %v", apperr.ErrContentGeneration, fillErr).Error()))
				bodies[i] = content.FallbackBody(title, lg.Linked(title), lg.IsHub(title))
				fellBack[i] = true
				return nil
			}
			bodies[i] = body
			return nil
		})
	}
	// Fill errors never propagate, so Wait only fails on a cancelled context.
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	writer := vault.NewWriter(g.store)
	tag := Slug(p.MainTopic)
	hubs, fallbacks := 0, 0
	for i, title := range all {
		n := models.Note{
			Title: title,
			Tags:  noteTags(tag, lg.IsHub(title)),
			Body:  bodies[i],
			Links: lg.Linked(title),
			IsHub: lg.IsHub(title),
		}
		if n.IsHub {
			hubs++
		}
		if fellBack[i] {
			fallbacks++
			// Tagged so the origin survives a file-based reindex.
			n.Tags = append(n.Tags, "fallback")
		}
		if err := writer.WriteNote(n); err != nil {
			return nil, err
		}
	}
	if err := writer.Finalize(p.MainTopic, all, g.now()); err != nil {
		return nil, err
	}

	if err := vault.Verify(g.store, lg); err != nil {
		return nil, err
	}

	report := &Report{
		Notes:     len(all),
		Hubs:      hubs,
		Edges:     lg.EdgeCount(),
		Generated: len(all) - fallbacks,
		Fallback:  fallbacks,
		Duration:  g.now().Sub(start),
	}
	g.logger.Info("vault generated",
		slog.Int("notes", report.Notes),
		slog.Int("hubs", report.Hubs),
		slog.Int("edges", report.Edges),
		slog.Int("generated", report.Generated),
		slog.Int("fallback", report.Fallback))
	return report, nil
}

// Slug turns a topic into a lowercase kebab-case tag.
func Slug(topic string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(topic) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}

func noteTags(topicTag string, isHub bool) []string {
	tags := []string{}
	if topicTag != "" {
		tags = append(tags, topicTag)
	}
	if isHub {
		tags = append(tags, "hub")
	}
	return tags
}

// IsStructural reports whether err is one of the fatal pre-write errors, as
// opposed to a recoverable content failure.
func IsStructural(err error) bool {
	return errors.Is(err, apperr.ErrInsufficientTopics) ||
		errors.Is(err, apperr.ErrInvalidDensity) ||
		errors.Is(err, apperr.ErrEmptyTopicSet)
}

// Package noteservice coordinates storage and index reads for the API and
// MCP layers. Generated vaults are immutable once written, so the service
// exposes no write operations.
package noteservice

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/starford/gebo/internal/apperr"
	"github.com/starford/gebo/internal/checksum"
	"github.com/starford/gebo/internal/index"
	"github.com/starford/gebo/internal/parser"
	"github.com/starford/gebo/internal/storage"
	"github.com/starford/gebo/internal/vault"
)

// NoteDetail is the full representation of a note.
type NoteDetail struct {
	Title     string    `json:"title"`
	Path      string    `json:"path"`
	Content   string    `json:"content"`
	Checksum  string    `json:"checksum"`
	Tags      []string  `json:"tags"`
	Links     []string  `json:"links"`
	Backlinks []string  `json:"backlinks"`
	Hub       bool      `json:"hub"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Service coordinates storage and index reads.
type Service struct {
	store storage.Provider
	db    *index.DB
}

// NewService creates a new note service.
func NewService(store storage.Provider, db *index.DB) *Service {
	return &Service{store: store, db: db}
}

// GetNote reads a note by title, parses it, and enriches it with backlinks.
func (s *Service) GetNote(_ context.Context, title string) (*NoteDetail, error) {
	data, err := s.store.Read(vault.Filename(title))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	res, err := parser.Parse(data)
	if err != nil {
		return nil, err
	}
	bl, err := s.db.Backlinks(title)
	if err != nil {
		return nil, err
	}

	hub := false
	if row, rowErr := s.db.GetNote(title); rowErr == nil && row != nil {
		hub = row.Hub
	}

	return &NoteDetail{
		Title:     title,
		Path:      vault.Filename(title),
		Content:   string(data),
		Checksum:  checksum.Sum(data),
		Tags:      nonNilSlice(res.Tags),
		Links:     nonNilSlice(res.Links),
		Backlinks: nonNilSlice(bl),
		Hub:       hub,
		UpdatedAt: time.Now(),
	}, nil
}

// ListNotes returns every indexed note ordered by title.
func (s *Service) ListNotes(_ context.Context) ([]index.NoteRow, error) {
	return s.db.ListNotes()
}

// Search delegates to the index.
func (s *Service) Search(_ context.Context, query string, limit int) ([]index.SearchResult, error) {
	return s.db.Search(query, limit)
}

// Graph returns all nodes and links for graph visualization.
func (s *Service) Graph(_ context.Context) ([]index.GraphNode, []index.GraphLink, error) {
	return s.db.Graph()
}

// Stats returns the vault summary.
func (s *Service) Stats(_ context.Context) (*index.Stats, error) {
	return s.db.Stats()
}

// Backlinks returns the titles of all notes linking to the target.
func (s *Service) Backlinks(_ context.Context, target string) ([]string, error) {
	return s.db.Backlinks(target)
}

func nonNilSlice[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

package index

import (
	"log/slog"
	"strings"
	"time"

	"github.com/starford/gebo/internal/checksum"
	"github.com/starford/gebo/internal/parser"
	"github.com/starford/gebo/internal/storage"
	"github.com/starford/gebo/internal/vault"
)

// Sync walks the vault and brings the index up to date: new or changed files
// are parsed and upserted, notes removed from disk are deleted.
func Sync(db *DB, store storage.Provider, logger *slog.Logger) error {
	metas, err := store.List("")
	if err != nil {
		return err
	}

	checksums, err := db.AllChecksums()
	if err != nil {
		return err
	}

	disk := make(map[string]struct{}, len(metas))
	for _, m := range metas {
		// The index document is not a note: it links every note without
		// being linked back, so indexing it would distort the graph.
		if m.Path == vault.IndexFile {
			continue
		}
		title := titleFromPath(m.Path)
		disk[title] = struct{}{}

		if checksums[title] == m.Checksum {
			continue
		}

		data, err := store.Read(m.Path)
		if err != nil {
			logger.Warn("sync: read failed", slog.String("path", m.Path), slog.String("error", err.Error()))
			continue
		}
		if err := IndexFile(db, m.Path, data); err != nil {
			logger.Warn("sync: index failed", slog.String("path", m.Path), slog.String("error", err.Error()))
		} else {
			logger.Debug("sync: indexed", slog.String("path", m.Path))
		}
	}

	for title := range checksums {
		if _, ok := disk[title]; !ok {
			if err := db.DeleteNote(title); err != nil {
				logger.Warn("sync: delete failed", slog.String("title", title), slog.String("error", err.Error()))
			} else {
				logger.Debug("sync: removed stale", slog.String("title", title))
			}
		}
	}

	return nil
}

// IndexFile parses raw note data and upserts it under the title derived from
// its path. Generated vaults keep title == filename stem, so the stem is the
// canonical identity even when frontmatter is damaged.
func IndexFile(db *DB, path string, data []byte) error {
	res, err := parser.Parse(data)
	if err != nil {
		return err
	}

	hub := false
	for _, t := range res.Tags {
		if t == "hub" {
			hub = true
			break
		}
	}

	return db.UpsertNote(NoteRow{
		Title:     titleFromPath(path),
		Path:      path,
		Checksum:  checksum.Sum(data),
		Tags:      res.Tags,
		Hub:       hub,
		UpdatedAt: time.Now(),
	}, res.Body, res.Links)
}

// titleFromPath strips the .md extension; the remainder is the note title.
func titleFromPath(path string) string {
	return strings.TrimSuffix(path, ".md")
}

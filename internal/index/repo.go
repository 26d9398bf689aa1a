package index

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// NoteRow represents a row in the notes table. Title is the note identity;
// Path is the storage path the title maps to.
type NoteRow struct {
	Title     string    `json:"title"`
	Path      string    `json:"path"`
	Checksum  string    `json:"checksum"`
	Tags      []string  `json:"tags"`
	Hub       bool      `json:"hub"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SearchResult represents one search hit.
type SearchResult struct {
	Title   string `json:"title"`
	Path    string `json:"path"`
	Snippet string `json:"snippet"`
}

// GraphNode is a node in the vault graph payload.
type GraphNode struct {
	Title  string `json:"title"`
	Hub    bool   `json:"hub"`
	Degree int    `json:"degree"`
}

// GraphLink is an undirected edge in the vault graph payload.
type GraphLink struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// Stats summarises an indexed vault.
type Stats struct {
	Notes   int `json:"notes"`
	Hubs    int `json:"hubs"`
	Edges   int `json:"edges"`
	Orphans int `json:"orphans"`
}

// UpsertNote inserts or replaces a note and its outgoing links in one
// transaction.
func (db *DB) UpsertNote(n NoteRow, body string, links []string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	tagsJSON, _ := json.Marshal(n.Tags)

	_, err = tx.Exec(`
		INSERT INTO notes (title, path, checksum, tags, body, hub, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(title) DO UPDATE SET
			path       = excluded.path,
			checksum   = excluded.checksum,
			tags       = excluded.tags,
			body       = excluded.body,
			hub        = excluded.hub,
			updated_at = excluded.updated_at
	`, n.Title, n.Path, n.Checksum, string(tagsJSON), body, n.Hub, n.UpdatedAt)
	if err != nil {
		return fmt.Errorf("index: upsert note: %w", err)
	}

	_, _ = tx.Exec(`DELETE FROM links WHERE source = ?`, n.Title)
	if len(links) > 0 {
		stmt, err := tx.Prepare(`INSERT OR IGNORE INTO links (source, target) VALUES (?, ?)`)
		if err != nil {
			return fmt.Errorf("index: prepare link insert: %w", err)
		}
		defer stmt.Close()
		for _, target := range links {
			if _, err := stmt.Exec(n.Title, target); err != nil {
				return fmt.Errorf("index: insert link: %w", err)
			}
		}
	}

	return tx.Commit()
}

// DeleteNote removes a note and its outgoing links by title.
func (db *DB) DeleteNote(title string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	_, _ = tx.Exec(`DELETE FROM links WHERE source = ?`, title)
	_, _ = tx.Exec(`DELETE FROM notes WHERE title = ?`, title)

	return tx.Commit()
}

// GetNote returns a note row by title; a missing note yields (nil, nil).
func (db *DB) GetNote(title string) (*NoteRow, error) {
	row := db.conn.QueryRow(`
		SELECT title, path, checksum, tags, hub, updated_at
		FROM notes WHERE title = ?
	`, title)
	n, err := scanNote(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("index: get note: %w", err)
	}
	return n, nil
}

// ListNotes returns all indexed notes ordered by title.
func (db *DB) ListNotes() ([]NoteRow, error) {
	rows, err := db.conn.Query(`
		SELECT title, path, checksum, tags, hub, updated_at
		FROM notes ORDER BY title
	`)
	if err != nil {
		return nil, fmt.Errorf("index: list notes: %w", err)
	}
	defer rows.Close()

	var out []NoteRow
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *n)
	}
	return out, rows.Err()
}

// Search performs a LIKE-based search over titles, bodies, and tags.
func (db *DB) Search(query string, limit int) ([]SearchResult, error) {
	if limit <= 0 {
		limit = 20
	}
	like := "%" + query + "%"
	rows, err := db.conn.Query(`
		SELECT title, path, substr(body, 1, 200)
		FROM notes
		WHERE title LIKE ? OR body LIKE ? OR tags LIKE ?
		ORDER BY title
		LIMIT ?
	`, like, like, like, limit)
	if err != nil {
		return nil, fmt.Errorf("index: search: %w", err)
	}
	defer rows.Close()

	var out []SearchResult
	for rows.Next() {
		var r SearchResult
		if err := rows.Scan(&r.Title, &r.Path, &r.Snippet); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Graph returns every node with its degree plus the deduplicated undirected
// edge list, ready for a renderer.
func (db *DB) Graph() ([]GraphNode, []GraphLink, error) {
	nodeRows, err := db.conn.Query(`
		SELECT n.title, n.hub,
		       (SELECT COUNT(*) FROM links l WHERE l.source = n.title)
		FROM notes n ORDER BY n.title
	`)
	if err != nil {
		return nil, nil, fmt.Errorf("index: graph nodes: %w", err)
	}
	defer nodeRows.Close()

	var nodes []GraphNode
	for nodeRows.Next() {
		var gn GraphNode
		if err := nodeRows.Scan(&gn.Title, &gn.Hub, &gn.Degree); err != nil {
			return nil, nil, err
		}
		nodes = append(nodes, gn)
	}
	if err := nodeRows.Err(); err != nil {
		return nil, nil, err
	}

	// Links are stored in both directions (reciprocity); keep one per pair.
	linkRows, err := db.conn.Query(`
		SELECT source, target FROM links
		WHERE source < target
		ORDER BY source, target
	`)
	if err != nil {
		return nil, nil, fmt.Errorf("index: graph links: %w", err)
	}
	defer linkRows.Close()

	var links []GraphLink
	for linkRows.Next() {
		var gl GraphLink
		if err := linkRows.Scan(&gl.Source, &gl.Target); err != nil {
			return nil, nil, err
		}
		links = append(links, gl)
	}
	return nodes, links, linkRows.Err()
}

// Backlinks returns the titles of all notes that link to the given target.
func (db *DB) Backlinks(target string) ([]string, error) {
	rows, err := db.conn.Query(`SELECT source FROM links WHERE target = ? ORDER BY source`, target)
	if err != nil {
		return nil, fmt.Errorf("index: backlinks: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Stats summarises the indexed vault.
func (db *DB) Stats() (*Stats, error) {
	var s Stats
	if err := db.conn.QueryRow(`SELECT COUNT(*) FROM notes`).Scan(&s.Notes); err != nil {
		return nil, fmt.Errorf("index: count notes: %w", err)
	}
	if err := db.conn.QueryRow(`SELECT COUNT(*) FROM notes WHERE hub = 1`).Scan(&s.Hubs); err != nil {
		return nil, fmt.Errorf("index: count hubs: %w", err)
	}
	if err := db.conn.QueryRow(`SELECT COUNT(*) FROM links WHERE source < target`).Scan(&s.Edges); err != nil {
		return nil, fmt.Errorf("index: count edges: %w", err)
	}
	if err := db.conn.QueryRow(`
		SELECT COUNT(*) FROM notes n
		WHERE NOT EXISTS (SELECT 1 FROM links l WHERE l.source = n.title)
	`).Scan(&s.Orphans); err != nil {
		return nil, fmt.Errorf("index: count orphans: %w", err)
	}
	return &s, nil
}

// AllChecksums returns title -> checksum for every indexed note.
func (db *DB) AllChecksums() (map[string]string, error) {
	rows, err := db.conn.Query(`SELECT title, checksum FROM notes`)
	if err != nil {
		return nil, fmt.Errorf("index: all checksums: %w", err)
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var t, cs string
		if err := rows.Scan(&t, &cs); err != nil {
			return nil, err
		}
		out[t] = cs
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanNote(s scanner) (*NoteRow, error) {
	var n NoteRow
	var tagsJSON string
	if err := s.Scan(&n.Title, &n.Path, &n.Checksum, &tagsJSON, &n.Hub, &n.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(tagsJSON), &n.Tags); err != nil {
		n.Tags = nil
	}
	return &n, nil
}

// Package models defines the domain types for Gebo.
package models

import "time"

// Note represents a single generated document in the vault. The title is the
// note's identity: it is the wikilink target other notes use and the filename
// stem under which the note is stored.
type Note struct {
	Title string   `json:"title"`
	Tags  []string `json:"tags,omitempty"`
	Body  string   `json:"body"`
	Links []string `json:"links,omitempty"`
	IsHub bool     `json:"is_hub"`
}

// FileMetadata is a lightweight representation of a stored vault file,
// returned by storage list operations.
type FileMetadata struct {
	Path      string    `json:"path"`
	Checksum  string    `json:"checksum"`
	UpdatedAt time.Time `json:"updated_at"`
}

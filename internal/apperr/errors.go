// Package apperr defines the sentinel errors shared across Gebo.
package apperr

import "errors"

var (
	// ErrNotFound is returned by read paths when a note does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInsufficientTopics is returned when topic expansion cannot produce
	// at least two unique titles. A graph needs two nodes to have an edge.
	ErrInsufficientTopics = errors.New("insufficient topics")

	// ErrInvalidDensity is returned when connection density is outside [0, 1].
	ErrInvalidDensity = errors.New("invalid connection density")

	// ErrEmptyTopicSet is returned when the graph builder receives fewer
	// than two titles.
	ErrEmptyTopicSet = errors.New("empty topic set")

	// ErrContentGeneration marks a per-note content failure. It is recovered
	// locally with a template fallback and never aborts a run.
	ErrContentGeneration = errors.New("content generation failed")
)

// Package history keeps a durable record of configuration resolutions so
// operators can see when a site configuration changed or started failing.
package history

import (
	"context"
	"time"
)

// Outcome of a recorded resolution.
type Outcome string

const (
	OutcomeSuccess  Outcome = "success"
	OutcomeRejected Outcome = "rejected"
)

// Entry is one recorded resolution.
type Entry struct {
	ID         string
	ConfigPath string
	// Snapshot is the resolved configuration hash; empty when rejected.
	Snapshot string
	Outcome  Outcome
	// ErrorKind is the resolver error kind (missing_field, ...) when rejected.
	ErrorKind string
	Error     string
	Duration  time.Duration
	CreatedAt time.Time
}

// Store persists resolution history.
type Store interface {
	// Record stores e, assigning ID and CreatedAt when unset.
	Record(ctx context.Context, e *Entry) error

	// List returns up to limit entries, newest first. limit <= 0 means all.
	List(ctx context.Context, limit int) ([]Entry, error)

	// Get returns the entry with the given id.
	Get(ctx context.Context, id string) (*Entry, error)

	// LastSuccess returns the newest successful entry for configPath.
	LastSuccess(ctx context.Context, configPath string) (*Entry, error)

	Close() error
}

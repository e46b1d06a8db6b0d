package storage

import (
	"fmt"
	"strings"
	"time"
)

// Package storage provides the optional "already mailed" headline cache.
// With the default "none" backend the tool stays stateless between runs.

// Store tracks headline IDs that have already gone out in a digest.
type Store interface {
	Close() error
	SeenHeadline(id string) (bool, error)
	MarkHeadline(id string) error
}

// Options controls retention characteristics for concrete store implementations.
type Options struct {
	HeadlineTTL     time.Duration
	CleanupInterval time.Duration
}

const (
	defaultHeadlineTTL     = 5 * 24 * time.Hour
	defaultCleanupInterval = 12 * time.Hour
)

// NewStore creates the configured storage backend.
func NewStore(typ, path string, opts Options) (Store, error) {
	typ = strings.TrimSpace(strings.ToLower(typ))
	opts = normalizeOptions(opts)

	switch typ {
	case "", "none", "disabled":
		return noopStore{}, nil
	case "bbolt":
		if strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("bbolt storage requires a path")
		}
		return openBolt(path, opts)
	default:
		return nil, fmt.Errorf("unsupported storage type %q", typ)
	}
}

func normalizeOptions(opts Options) Options {
	if opts.HeadlineTTL <= 0 {
		opts.HeadlineTTL = defaultHeadlineTTL
	}
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = defaultCleanupInterval
	}
	return opts
}

type noopStore struct{}

func (noopStore) Close() error                      { return nil }
func (noopStore) SeenHeadline(string) (bool, error) { return false, nil }
func (noopStore) MarkHeadline(string) error         { return nil }

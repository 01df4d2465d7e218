package store

import (
	"context"
)

// Store persists named preference sets. Names are matched case-insensitively
// after trimming.
type Store interface {
	Close(ctx context.Context) error
	EnsureSchema(ctx context.Context) error

	UpsertSet(ctx context.Context, s SetInput) error
	DeleteSet(ctx context.Context, name string) (bool, error)
	RemoveStaleSets(ctx context.Context, currentSourceFiles []string) (int64, error)
	GetSourceHashes(ctx context.Context) (map[string]string, error)

	// GetSet returns nil without error when no set has that name.
	GetSet(ctx context.Context, name string) (*SetRecord, error)
	ListSets(ctx context.Context) ([]SetSummary, error)
	SearchSets(ctx context.Context, query string) ([]SearchResult, error)
}

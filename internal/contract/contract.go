// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"

	"github.com/slopscan/slopscan/schema"
)

// RepoSource defines the repository data operations the analysis needs.
// This allows the core logic to be tested without a live API behind it.
type RepoSource interface {
	// GetRepoInfo returns repository metadata including the default branch.
	GetRepoInfo(ctx context.Context, owner, repo string) (schema.RepoInfo, error)

	// GetCommitHistory returns the most recent commits, newest first,
	// capped at one page.
	GetCommitHistory(ctx context.Context, owner, repo string) ([]schema.Commit, error)

	// GetFileTree returns the flattened recursive tree listing at a ref.
	GetFileTree(ctx context.Context, owner, repo, ref string) ([]schema.FileNode, error)

	// GetFileContent returns the raw text of one file at a ref.
	GetFileContent(ctx context.Context, owner, repo, path, ref string) (string, error)
}

// CacheManager defines the interface for managing cache stores.
// This allows the cache layer to be mocked for testing.
type CacheManager interface {
	GetAnalysisStore() CacheStore
}

// CacheStore defines the interface for cache data storage.
// This allows mocking the store for testing.
type CacheStore interface {
	Get(key string) ([]byte, int, int64, error)
	Set(key string, value []byte, version int, timestamp int64) error
	GetStatus() (schema.CacheStatus, error)
	Close() error
}

// Publisher accepts completed analysis records. Delivery is fire-and-forget:
// no acknowledgement, no retry, and a publisher with nobody listening is not
// an error.
type Publisher interface {
	Publish(analysis *schema.RepoAnalysis)
}

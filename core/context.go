package core

import (
	"context"
	"sync/atomic"

	"github.com/slopscan/slopscan/internal/contract"
	"github.com/slopscan/slopscan/schema"
)

// requestTally counts outbound source calls for one analysis run. Each run
// owns its own tally; concurrent runs never share one.
type requestTally struct {
	n atomic.Int64
}

func (t *requestTally) inc() {
	t.n.Add(1)
}

func (t *requestTally) total() int64 {
	return t.n.Load()
}

// countingSource wraps a RepoSource and tallies every call, so diagnostics
// can report how many requests one scan cost.
type countingSource struct {
	src   contract.RepoSource
	tally *requestTally
}

var _ contract.RepoSource = &countingSource{}

func (c *countingSource) GetRepoInfo(ctx context.Context, owner, repo string) (schema.RepoInfo, error) {
	c.tally.inc()
	return c.src.GetRepoInfo(ctx, owner, repo)
}

func (c *countingSource) GetCommitHistory(ctx context.Context, owner, repo string) ([]schema.Commit, error) {
	c.tally.inc()
	return c.src.GetCommitHistory(ctx, owner, repo)
}

func (c *countingSource) GetFileTree(ctx context.Context, owner, repo, ref string) ([]schema.FileNode, error) {
	c.tally.inc()
	return c.src.GetFileTree(ctx, owner, repo, ref)
}

func (c *countingSource) GetFileContent(ctx context.Context, owner, repo, path, ref string) (string, error) {
	c.tally.inc()
	return c.src.GetFileContent(ctx, owner, repo, path, ref)
}

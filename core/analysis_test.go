package core

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/slopscan/slopscan/internal/contract"
	"github.com/slopscan/slopscan/schema"
	"github.com/stretchr/testify/assert"
)

// fakeSource is a scripted RepoSource for orchestrator tests.
type fakeSource struct {
	mu          sync.Mutex
	info        schema.RepoInfo
	infoErr     error
	commits     []schema.Commit
	commitsErr  error
	tree        []schema.FileNode
	treeErr     error
	contents    map[string]string
	contentErrs map[string]error
	fileCalls   int
	treeCalls   int
}

var _ contract.RepoSource = &fakeSource{}

func (f *fakeSource) GetRepoInfo(ctx context.Context, owner, repo string) (schema.RepoInfo, error) {
	return f.info, f.infoErr
}

func (f *fakeSource) GetCommitHistory(ctx context.Context, owner, repo string) ([]schema.Commit, error) {
	return f.commits, f.commitsErr
}

func (f *fakeSource) GetFileTree(ctx context.Context, owner, repo, ref string) ([]schema.FileNode, error) {
	f.mu.Lock()
	f.treeCalls++
	f.mu.Unlock()
	return f.tree, f.treeErr
}

func (f *fakeSource) GetFileContent(ctx context.Context, owner, repo, path, ref string) (string, error) {
	f.mu.Lock()
	f.fileCalls++
	f.mu.Unlock()
	if err, ok := f.contentErrs[path]; ok {
		return "", err
	}
	return f.contents[path], nil
}

func (f *fakeSource) counts() (treeCalls, fileCalls int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.treeCalls, f.fileCalls
}

func scriptedSource() *fakeSource {
	commits := history(12, 90*time.Second, func(i int) string {
		return fmt.Sprintf("feat(mod%d): add scaffold", i)
	})
	tree := []schema.FileNode{
		fileNode(".cursorrules"),
		fileNode("README.md"),
		fileNode("src/a/index.ts"),
		fileNode("src/b/index.ts"),
	}
	contents := map[string]string{
		".cursorrules":   "always write tests",
		"README.md":      "# demo",
		"src/a/index.ts": "export const a = () => render(a)",
		"src/b/index.ts": "export const b = () => render(b)",
	}
	return &fakeSource{
		info:     schema.RepoInfo{Owner: "octo", Name: "demo", DefaultBranch: "main", CreatedAt: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), StarCount: 4},
		commits:  commits,
		tree:     tree,
		contents: contents,
	}
}

func newTestAnalyzer(src contract.RepoSource, mgr contract.CacheManager, sink *captureSink) *Analyzer {
	cfg := &contract.Config{Owner: "octo", Repo: "demo"}
	return NewAnalyzer(cfg, src, mgr, sink, nil)
}

func TestScanProvisionalThenFinal(t *testing.T) {
	src := scriptedSource()
	sink := &captureSink{}
	a := newTestAnalyzer(src, nil, sink)

	provisional, err := a.Scan(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, schema.ProvisionalStage, provisional.Stage)
	assert.Equal(t, "octo/demo", provisional.RepoID.String())
	a.Wait()

	records := sink.all()
	if assert.Len(t, records, 2) {
		assert.Equal(t, schema.ProvisionalStage, records[0].Stage)
		assert.Equal(t, schema.FinalStage, records[1].Stage)
		assert.Equal(t, records[0].RepoID, records[1].RepoID)
	}

	final := records[1]
	assert.Equal(t, 3, final.Diagnostics.SampledFiles, "markdown and code files are eligible samples")
	assert.Greater(t, final.Diagnostics.Features[schema.ConfigFeature], 0.0)
	assert.GreaterOrEqual(t, final.SlopScore, provisional.SlopScore)
}

func TestScanCommitPassErrorIsFatal(t *testing.T) {
	src := scriptedSource()
	src.commitsErr = contract.NewSourceError(contract.RateLimited, "API rate limit exceeded", nil)
	sink := &captureSink{}
	a := newTestAnalyzer(src, nil, sink)

	_, err := a.Scan(context.Background())
	assert.Error(t, err)
	assert.Equal(t, contract.RateLimited, contract.KindOf(err))
	assert.Empty(t, sink.all(), "no provisional without commit data")
}

func TestScanDeepPassFailureEmitsDegradedFinal(t *testing.T) {
	src := scriptedSource()
	src.treeErr = contract.NewSourceError(contract.RemoteAPIError, "boom", nil)
	sink := &captureSink{}
	a := newTestAnalyzer(src, nil, sink)

	_, err := a.Scan(context.Background())
	assert.NoError(t, err)
	a.Wait()

	records := sink.all()
	if assert.Len(t, records, 2) {
		final := records[1]
		assert.Equal(t, schema.FinalStage, final.Stage)
		assert.Equal(t, schema.LowConfidence, final.Confidence)

		var found bool
		for _, ind := range final.Indicators {
			if ind.Type == "Deep Analysis Incomplete" {
				found = true
			}
		}
		assert.True(t, found)
	}
}

func TestScanCacheHitSkipsAllPasses(t *testing.T) {
	src := scriptedSource()
	store := newMemStore()
	mgr := &memManager{store: store}
	sink := &captureSink{}
	a := newTestAnalyzer(src, mgr, sink)

	key := analysisCacheKey(schema.RepoID{Owner: "octo", Name: "demo"}, "main", src.commits[0].SHA)
	cached := &schema.RepoAnalysis{
		RepoID:    schema.RepoID{Owner: "octo", Name: "demo"},
		SlopScore: 61,
		Stage:     schema.FinalStage,
	}
	storeAnalysis(store, key, cached, time.Now())

	result, err := a.Scan(context.Background())
	assert.NoError(t, err)
	a.Wait()

	assert.True(t, result.Cache.IsCached)
	assert.Equal(t, 61, result.SlopScore)
	treeCalls, fileCalls := src.counts()
	assert.Zero(t, treeCalls)
	assert.Zero(t, fileCalls)
}

func TestScanPersistsFinalForNextRun(t *testing.T) {
	src := scriptedSource()
	store := newMemStore()
	sink := &captureSink{}
	a := newTestAnalyzer(src, &memManager{store: store}, sink)

	_, err := a.Scan(context.Background())
	assert.NoError(t, err)
	a.Wait()

	second, err := a.Scan(context.Background())
	assert.NoError(t, err)
	a.Wait()
	assert.True(t, second.Cache.IsCached)
	assert.Equal(t, schema.FinalStage, second.Stage)
}

func TestScanSampleFetchFailureIsSkipped(t *testing.T) {
	src := scriptedSource()
	src.contentErrs = map[string]error{
		"src/a/index.ts": contract.NewSourceError(contract.TransportError, "connection reset", nil),
	}
	sink := &captureSink{}
	a := newTestAnalyzer(src, nil, sink)

	_, err := a.Scan(context.Background())
	assert.NoError(t, err)
	a.Wait()

	records := sink.all()
	if assert.Len(t, records, 2) {
		final := records[1]
		assert.Equal(t, schema.FinalStage, final.Stage)
		assert.Equal(t, 2, final.Diagnostics.SampledFiles)
	}
}

func TestApplyLegacyDampener(t *testing.T) {
	signals := featureSignals{Config: 0.5, CommitLanguage: 1.0, CommitBurst: 1.0}
	legacy := schema.RepoInfo{CreatedAt: time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC), StarCount: 4000}

	t.Run("weak corroboration dampens", func(t *testing.T) {
		out := applyLegacyDampener(signals, legacy, 2, 3, false)
		assert.InDelta(t, 0.62, out.CommitLanguage, 1e-9)
		assert.InDelta(t, 0.65, out.CommitBurst, 1e-9)
		assert.InDelta(t, 0.18, out.Config, 1e-9)
	})

	t.Run("config file blocks dampener", func(t *testing.T) {
		out := applyLegacyDampener(signals, legacy, 2, 3, true)
		assert.Equal(t, signals, out)
	})

	t.Run("comment evidence blocks dampener", func(t *testing.T) {
		out := applyLegacyDampener(signals, legacy, 6, 3, false)
		assert.Equal(t, signals, out)
	})

	t.Run("path evidence blocks dampener", func(t *testing.T) {
		out := applyLegacyDampener(signals, legacy, 2, 10, false)
		assert.Equal(t, signals, out)
	})

	t.Run("young repo untouched", func(t *testing.T) {
		young := schema.RepoInfo{CreatedAt: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), StarCount: 4000}
		assert.Equal(t, signals, applyLegacyDampener(signals, young, 2, 3, false))
	})

	t.Run("unpopular repo untouched", func(t *testing.T) {
		quiet := schema.RepoInfo{CreatedAt: time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC), StarCount: 149}
		assert.Equal(t, signals, applyLegacyDampener(signals, quiet, 2, 3, false))
	})
}

func TestCombinedBurst(t *testing.T) {
	assert.InDelta(t, 0.5, combinedBurst(commitAnalysis{BurstSignal: 0.5, BulkSignal: 0.1}), 1e-9)
	assert.InDelta(t, 0.72, combinedBurst(commitAnalysis{BurstSignal: 0.3, BulkSignal: 0.9}), 1e-9)
}

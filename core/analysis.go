package core

import (
	"context"
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/slopscan/slopscan/internal/contract"
	"github.com/slopscan/slopscan/schema"
)

// fetchWorkers caps concurrent sample-content fetches during the deep pass.
const fetchWorkers = 4

// Legacy-repository dampener: repositories created before the cutoff with a
// real following predate the AI-assistant era, so commit-derived signals get
// discounted unless independent evidence corroborates them.
var legacyCutoff = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

const (
	legacyStarFloor      = 150
	legacyCommentLineMax = 6
	legacyPathMatchMax   = 10
	legacyLanguageFactor = 0.62
	legacyBurstFactor    = 0.65
	legacyConfigCap      = 0.18
)

// Analyzer runs the staged analysis: a cheap commit pass answered
// synchronously, then a deep pass whose outcome arrives via the publication
// sinks. One Analyzer serves one configured target; concurrent Scan calls
// each own their accumulators.
type Analyzer struct {
	cfg   *contract.Config
	src   contract.RepoSource
	mgr   contract.CacheManager
	sink  contract.Publisher
	bcast *Broadcaster
	now   func() time.Time
	wg    sync.WaitGroup
}

// NewAnalyzer builds an Analyzer. mgr, sink and bcast may each be nil.
func NewAnalyzer(cfg *contract.Config, src contract.RepoSource, mgr contract.CacheManager, sink contract.Publisher, bcast *Broadcaster) *Analyzer {
	return &Analyzer{cfg: cfg, src: src, mgr: mgr, sink: sink, bcast: bcast, now: time.Now}
}

// Scan resolves repo metadata and commit history, answers with a provisional
// analysis built from commit signals alone, and dispatches the deep pass in
// the background. A fresh cached final analysis short-circuits everything.
// Errors here are fatal to the request; deep-pass failures are not.
func (a *Analyzer) Scan(ctx context.Context) (*schema.RepoAnalysis, error) {
	tally := &requestTally{}
	src := &countingSource{src: a.src, tally: tally}
	id := schema.RepoID{Owner: a.cfg.Owner, Name: a.cfg.Repo}
	start := a.now()

	info, err := src.GetRepoInfo(ctx, a.cfg.Owner, a.cfg.Repo)
	if err != nil {
		return nil, err
	}
	commits, err := src.GetCommitHistory(ctx, a.cfg.Owner, a.cfg.Repo)
	if err != nil {
		return nil, err
	}

	branch := a.cfg.Ref
	if branch == "" {
		branch = info.DefaultBranch
	}
	sha := ""
	if len(commits) > 0 {
		sha = commits[0].SHA
	}
	key := analysisCacheKey(id, branch, sha)

	if hit := checkCacheHit(a.store(), key, a.now()); hit != nil {
		a.publish(hit)
		return hit, nil
	}

	commitScan := analyzeCommits(commits)
	signals := featureSignals{
		CommitLanguage: commitScan.AISignal,
		CommitBurst:    combinedBurst(commitScan),
	}
	provisional := a.buildAnalysis(id, key, signals, commitScan.Indicators, schema.ProvisionalStage)
	provisional.Diagnostics.CommitPassMillis = a.now().Sub(start).Milliseconds()
	provisional.Diagnostics.RequestCount = tally.total()
	a.publish(provisional)

	a.wg.Add(1)
	go a.deepPass(context.WithoutCancel(ctx), src, tally, info, commitScan, branch, key, provisional)

	return provisional, nil
}

// Wait blocks until all dispatched deep passes have delivered their final
// record.
func (a *Analyzer) Wait() {
	a.wg.Wait()
}

// deepPass drives phase two and guarantees exactly one final-stage record:
// a full recomputation on success, or the provisional record relabeled and
// downgraded on any failure.
func (a *Analyzer) deepPass(ctx context.Context, src contract.RepoSource, tally *requestTally, info schema.RepoInfo, commitScan commitAnalysis, branch, key string, provisional *schema.RepoAnalysis) {
	defer a.wg.Done()
	final, err := a.runDeepPassSafe(ctx, src, tally, info, commitScan, branch, key, provisional)
	if err != nil {
		a.emitDegraded(provisional, err)
		return
	}
	storeAnalysis(a.store(), key, final, a.now())
	a.publish(final)
}

// runDeepPassSafe is the deep-pass error boundary: panics become a
// categorized DeepPassFailure instead of crashing past the already-returned
// provisional result.
func (a *Analyzer) runDeepPassSafe(ctx context.Context, src contract.RepoSource, tally *requestTally, info schema.RepoInfo, commitScan commitAnalysis, branch, key string, provisional *schema.RepoAnalysis) (final *schema.RepoAnalysis, err error) {
	defer func() {
		if r := recover(); r != nil {
			final = nil
			err = contract.NewSourceError(contract.DeepPassFailure, fmt.Sprintf("deep analysis panic: %v", r), nil)
		}
	}()
	return a.runDeepPass(ctx, src, tally, info, commitScan, branch, key, provisional)
}

// runDeepPass fetches the tree, runs the content detectors over sampled
// files, applies the legacy dampener and recombines all six signals.
func (a *Analyzer) runDeepPass(ctx context.Context, src contract.RepoSource, tally *requestTally, info schema.RepoInfo, commitScan commitAnalysis, branch, key string, provisional *schema.RepoAnalysis) (*schema.RepoAnalysis, error) {
	start := a.now()
	tree, err := src.GetFileTree(ctx, a.cfg.Owner, a.cfg.Repo, branch)
	if err != nil {
		return nil, contract.NewSourceError(contract.DeepPassFailure, err.Error(), err)
	}

	configRes := detectConfigFiles(tree)
	structRes := detectStructure(tree)
	pathRes := sweepPaths(tree)

	samples := a.fetchSamples(ctx, src, branch, selectSamples(tree))
	commentAgg := aggregateComments(samples)
	repRes := detectRepetition(samples)

	signals := featureSignals{
		Config:         configRes.Signal,
		CommitLanguage: commitScan.AISignal,
		CommitBurst:    combinedBurst(commitScan),
		CommentPattern: commentAgg.Signal,
		Repetition:     repRes.Signal,
		Structure:      structRes.Signal,
	}
	signals = applyLegacyDampener(signals, info, commentAgg.MatchedLines, pathRes.Matches, configRes.Found)

	indicators := commitScan.Indicators
	indicators = append(indicators, configRes.Indicators...)
	indicators = append(indicators, commentAgg.Indicators...)
	indicators = append(indicators, structRes.Indicators...)
	indicators = append(indicators, repRes.Indicators...)
	indicators = append(indicators, pathRes.Indicators...)

	final := a.buildAnalysis(provisional.RepoID, key, signals, indicators, schema.FinalStage)
	final.Diagnostics.CommitPassMillis = provisional.Diagnostics.CommitPassMillis
	final.Diagnostics.DeepPassMillis = a.now().Sub(start).Milliseconds()
	final.Diagnostics.RequestCount = tally.total()
	final.Diagnostics.SampledFiles = len(samples)
	return final, nil
}

// fetchSamples pulls sample contents with a bounded worker pool sharing one
// advancing index. A failed single-file fetch is logged and skipped; it never
// fails the pass.
func (a *Analyzer) fetchSamples(ctx context.Context, src contract.RepoSource, branch string, nodes []schema.FileNode) []schema.SampledFile {
	fetched := make([]schema.SampledFile, len(nodes))
	ok := make([]bool, len(nodes))
	var next atomic.Int64
	var wg sync.WaitGroup
	for range fetchWorkers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				i := int(next.Add(1)) - 1
				if i >= len(nodes) {
					return
				}
				content, err := src.GetFileContent(ctx, a.cfg.Owner, a.cfg.Repo, nodes[i].Path, branch)
				if err != nil {
					srcErr := contract.NewSourceError(contract.SampledFileFetchError, fmt.Sprintf("skipping %s", nodes[i].Path), err)
					contract.LogWarn("fetching sample", srcErr)
					continue
				}
				fetched[i] = schema.SampledFile{Path: nodes[i].Path, Content: content}
				ok[i] = true
			}
		}()
	}
	wg.Wait()

	samples := make([]schema.SampledFile, 0, len(nodes))
	for i, good := range ok {
		if good {
			samples = append(samples, fetched[i])
		}
	}
	return samples
}

// emitDegraded relabels the provisional record as the final one after a
// deep-pass failure, so no analysis is ever stuck at provisional.
func (a *Analyzer) emitDegraded(provisional *schema.RepoAnalysis, cause error) {
	contract.LogWarn("deep analysis", cause)
	degraded := provisional.Clone()
	degraded.Stage = schema.FinalStage
	degraded.Confidence = schema.LowConfidence
	degraded.Indicators = append(degraded.Indicators, schema.SlopIndicator{
		Type:        "Deep Analysis Incomplete",
		Description: cause.Error(),
		Severity:    schema.LowSeverity,
	})
	degraded.GeneratedAt = a.now()
	a.publish(degraded)
}

// buildAnalysis runs the combinator and shapes the output record.
func (a *Analyzer) buildAnalysis(id schema.RepoID, key string, signals featureSignals, indicators []schema.SlopIndicator, stage schema.Stage) *schema.RepoAnalysis {
	indicators = schema.DedupeIndicators(indicators)
	result := combineScore(signals, indicators)
	return &schema.RepoAnalysis{
		RepoID:        id,
		SlopScore:     result.Score,
		Confidence:    result.Confidence,
		Stage:         stage,
		Indicators:    indicators,
		Breakdown:     result.Breakdown,
		Contributions: result.Contributions,
		Diagnostics: schema.Diagnostics{
			Features:         signals.byKey(),
			EvidenceStrength: result.EvidenceStrength,
		},
		Cache:       schema.CacheMeta{Key: key},
		GeneratedAt: a.now(),
	}
}

// publish fans a copy of the record out to the direct sink and the broadcast
// registry.
func (a *Analyzer) publish(analysis *schema.RepoAnalysis) {
	if a.sink != nil {
		deliver(a.sink, analysis.Clone())
	}
	if a.bcast != nil {
		a.bcast.Publish(analysis)
	}
}

// store returns the analysis cache store, or nil when caching is off.
func (a *Analyzer) store() contract.CacheStore {
	if a.mgr == nil {
		return nil
	}
	return a.mgr.GetAnalysisStore()
}

// combinedBurst merges cadence and bulk-change evidence into the single
// commit-burst feature.
func combinedBurst(c commitAnalysis) float64 {
	return math.Max(c.BurstSignal, c.BulkSignal*0.8)
}

// applyLegacyDampener discounts commit-derived signals for old, popular
// repositories when independent corroborating evidence is weak.
func applyLegacyDampener(signals featureSignals, info schema.RepoInfo, matchedCommentLines, pathMatches int, configFound bool) featureSignals {
	if info.CreatedAt.IsZero() || !info.CreatedAt.Before(legacyCutoff) || info.StarCount < legacyStarFloor {
		return signals
	}
	if matchedCommentLines >= legacyCommentLineMax || pathMatches >= legacyPathMatchMax || configFound {
		return signals
	}
	signals.CommitLanguage *= legacyLanguageFactor
	signals.CommitBurst *= legacyBurstFactor
	signals.Config = math.Min(signals.Config, legacyConfigCap)
	return signals
}

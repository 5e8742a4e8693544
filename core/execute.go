package core

import (
	"context"
	"sync"
	"time"

	"github.com/slopscan/slopscan/internal/contract"
	"github.com/slopscan/slopscan/internal/github"
	"github.com/slopscan/slopscan/internal/outwriter"
	"github.com/slopscan/slopscan/internal/parquet"
	"github.com/slopscan/slopscan/schema"
)

// ExecuteScan runs the staged repository analysis against the GitHub API and
// prints results. It serves as the main entry point for the 'scan' command.
func ExecuteScan(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	return ExecuteScanWithSource(ctx, cfg, github.NewClient(cfg.Token), mgr)
}

// ExecuteScanWithSource is ExecuteScan with an injectable data source.
func ExecuteScanWithSource(ctx context.Context, cfg *contract.Config, src contract.RepoSource, mgr contract.CacheManager) error {
	start := time.Now()
	ow := outwriter.NewOutWriter()

	collector := &finalCollector{}
	analyzer := NewAnalyzer(cfg, src, mgr, collector, nil)

	provisional, err := analyzer.Scan(ctx)
	if err != nil {
		return err
	}

	// Print the quick result as it lands, when asked to. A cache hit already
	// arrives as a final record and skips this.
	if cfg.Provisional && provisional.Stage == schema.ProvisionalStage && cfg.Output == schema.TextOut {
		if err := ow.WriteAnalysis(provisional, cfg, time.Since(start)); err != nil {
			return err
		}
	}

	analyzer.Wait()

	final := collector.final()
	if final == nil {
		final = provisional
	}
	duration := time.Since(start)

	if cfg.Output == schema.ParquetOut {
		return parquet.ExportAnalysis(final, cfg.OutputFile)
	}
	return ow.WriteAnalysis(final, cfg, duration)
}

// finalCollector retains the last final-stage record published during a scan.
type finalCollector struct {
	mu  sync.Mutex
	rec *schema.RepoAnalysis
}

var _ contract.Publisher = &finalCollector{}

// Publish implements contract.Publisher.
func (c *finalCollector) Publish(a *schema.RepoAnalysis) {
	if a.Stage != schema.FinalStage {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rec = a
}

func (c *finalCollector) final() *schema.RepoAnalysis {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rec
}

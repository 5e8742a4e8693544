// Package outwriter has output and writer logic.
package outwriter

import (
	"fmt"
	"io"
	"time"

	"github.com/slopscan/slopscan/internal/contract"
	"github.com/slopscan/slopscan/schema"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteAnalysis prints an analysis record using the configured output format.
// Parquet export is handled separately by the parquet package.
func (ow *OutWriter) WriteAnalysis(analysis *schema.RepoAnalysis, cfg *contract.Config, duration time.Duration) error {
	return WriteAnalysisResult(analysis, cfg, duration)
}

// WriteCacheStatus prints cache status using the configured output format.
func (ow *OutWriter) WriteCacheStatus(status schema.CacheStatus, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, status)
		}, "Wrote JSON")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			_, err := fmt.Fprintf(w, "Cache Backend: %s\nConnected: %t\nTotal Entries: %d\nTable Size: %d bytes\n",
				status.Backend, status.Connected, status.TotalEntries, status.TableSizeBytes)
			return err
		}, "Wrote status")
	}
}

// Package parquet provides data structures and functions for exporting
// analysis records to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/slopscan/slopscan/schema"
)

// AnalysisRecord represents one scored repository analysis in flat columnar form.
type AnalysisRecord struct {
	// Owner is the repository owner login
	Owner string `parquet:"owner,snappy"`

	// Repo is the repository name
	Repo string `parquet:"repo,snappy"`

	// Stage marks the record as provisional or final
	Stage string `parquet:"stage,snappy"`

	// SlopScore is the 0-100 likelihood score
	SlopScore int32 `parquet:"slop_score,snappy"`

	// Confidence is the qualitative confidence band
	Confidence string `parquet:"confidence,snappy"`

	// BucketConfigs is the configs bucket of the score breakdown
	BucketConfigs float64 `parquet:"bucket_configs,snappy"`

	// BucketCommits is the commits bucket of the score breakdown
	BucketCommits float64 `parquet:"bucket_commits,snappy"`

	// BucketPatterns is the patterns bucket of the score breakdown
	BucketPatterns float64 `parquet:"bucket_patterns,snappy"`

	// BucketStructure is the structure bucket of the score breakdown
	BucketStructure float64 `parquet:"bucket_structure,snappy"`

	// BucketRepetition is the repetition bucket of the score breakdown
	BucketRepetition float64 `parquet:"bucket_repetition,snappy"`

	// EvidenceStrength is the aggregate evidence measure behind the score
	EvidenceStrength float64 `parquet:"evidence_strength,snappy"`

	// RequestCount is the number of remote API requests the run issued
	RequestCount int64 `parquet:"request_count,snappy"`

	// SampledFiles is the number of file contents fetched during the deep pass
	SampledFiles int32 `parquet:"sampled_files,snappy"`

	// CacheHit reports whether the record was served from the cache
	CacheHit bool `parquet:"cache_hit,snappy"`

	// GeneratedAt is when the record was produced (nanosecond TIMESTAMP)
	GeneratedAt time.Time `parquet:"generated_at,snappy"`
}

// IndicatorRecord represents one fired indicator of an analysis run.
type IndicatorRecord struct {
	// Owner is the repository owner login
	Owner string `parquet:"owner,snappy"`

	// Repo is the repository name
	Repo string `parquet:"repo,snappy"`

	// Type is the indicator type name
	Type string `parquet:"type,snappy"`

	// Description is the human-readable evidence summary
	Description string `parquet:"description,snappy"`

	// Severity grades the indicator (low, medium, high)
	Severity string `parquet:"severity,snappy"`

	// GeneratedAt is when the parent record was produced
	GeneratedAt time.Time `parquet:"generated_at,snappy"`
}

// WriteAnalysisParquet writes analysis records to a Parquet file.
func WriteAnalysisParquet(data []AnalysisRecord, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// The schema is automatically derived from the AnalysisRecord struct tags
	writer := parquet.NewGenericWriter[AnalysisRecord](file)
	defer func() { _ = writer.Close() }()

	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}

	return nil
}

// WriteIndicatorsParquet writes indicator records to a Parquet file.
func WriteIndicatorsParquet(data []IndicatorRecord, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// The schema is automatically derived from the IndicatorRecord struct tags
	writer := parquet.NewGenericWriter[IndicatorRecord](file)
	defer func() { _ = writer.Close() }()

	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}

	return nil
}

// ConvertAnalysis converts a RepoAnalysis to the flat Parquet record.
func ConvertAnalysis(a *schema.RepoAnalysis) AnalysisRecord {
	return AnalysisRecord{
		Owner:            a.RepoID.Owner,
		Repo:             a.RepoID.Name,
		Stage:            string(a.Stage),
		SlopScore:        int32(a.SlopScore),
		Confidence:       string(a.Confidence),
		BucketConfigs:    a.Breakdown.Configs,
		BucketCommits:    a.Breakdown.Commits,
		BucketPatterns:   a.Breakdown.Patterns,
		BucketStructure:  a.Breakdown.Structure,
		BucketRepetition: a.Breakdown.Repetition,
		EvidenceStrength: a.Diagnostics.EvidenceStrength,
		RequestCount:     a.Diagnostics.RequestCount,
		SampledFiles:     int32(a.Diagnostics.SampledFiles),
		CacheHit:         a.Cache.IsCached,
		GeneratedAt:      a.GeneratedAt,
	}
}

// ConvertIndicators converts the indicators of a RepoAnalysis to Parquet records.
func ConvertIndicators(a *schema.RepoAnalysis) []IndicatorRecord {
	records := make([]IndicatorRecord, len(a.Indicators))
	for i, ind := range a.Indicators {
		records[i] = IndicatorRecord{
			Owner:       a.RepoID.Owner,
			Repo:        a.RepoID.Name,
			Type:        ind.Type,
			Description: ind.Description,
			Severity:    string(ind.Severity),
			GeneratedAt: a.GeneratedAt,
		}
	}
	return records
}

// ExportAnalysis writes the analysis record and its indicators to outputPath.
// Indicators go to a sibling file with an "_indicators" suffix.
func ExportAnalysis(a *schema.RepoAnalysis, outputPath string) error {
	if err := WriteAnalysisParquet([]AnalysisRecord{ConvertAnalysis(a)}, outputPath); err != nil {
		return err
	}
	if len(a.Indicators) == 0 {
		return nil
	}
	return WriteIndicatorsParquet(ConvertIndicators(a), indicatorsPath(outputPath))
}

// indicatorsPath derives the indicator file path from the main output path.
func indicatorsPath(outputPath string) string {
	const ext = ".parquet"
	if len(outputPath) > len(ext) && outputPath[len(outputPath)-len(ext):] == ext {
		return outputPath[:len(outputPath)-len(ext)] + "_indicators" + ext
	}
	return outputPath + "_indicators"
}

package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/slopscan/slopscan/internal/contract"
	"github.com/slopscan/slopscan/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// WriteAnalysisResult outputs the analysis record, dispatching based on the output format configured.
func WriteAnalysisResult(analysis *schema.RepoAnalysis, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeAnalysisJSONResult(analysis, cfg); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeAnalysisCSVResult(analysis, cfg); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		// Default to human-readable table
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeAnalysisTable(analysis, cfg, duration, w)
		}, "Wrote table")
	}
	return nil
}

// writeAnalysisJSONResult handles opening the file and calling the JSON writer.
func writeAnalysisJSONResult(analysis *schema.RepoAnalysis, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeJSONResultForAnalysis(w, analysis)
	}, "Wrote JSON")
}

// writeAnalysisCSVResult handles opening the file and calling the CSV writer.
func writeAnalysisCSVResult(analysis *schema.RepoAnalysis, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		csvWriter := csv.NewWriter(w)
		defer csvWriter.Flush()
		return writeCSVResultForAnalysis(csvWriter, analysis)
	}, "Wrote CSV")
}

// writeAnalysisTable generates and writes the human-readable report.
func writeAnalysisTable(analysis *schema.RepoAnalysis, cfg *contract.Config, duration time.Duration, writer io.Writer) error {
	label := contract.GetPlainLabel(analysis.SlopScore)
	if cfg.UseColors {
		label = contract.GetColorLabel(analysis.SlopScore)
	}

	if _, err := fmt.Fprintf(writer, "Repository: %s (%s)\n", analysis.RepoID, analysis.Stage); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Slop score: %d/100 %s, confidence %s\n\n", analysis.SlopScore, label, analysis.Confidence); err != nil {
		return err
	}

	// 1. Feature contribution table
	contribTable := tablewriter.NewWriter(writer)
	contribTable.Header([]string{"Feature", "Raw", "Normalized", "Weight", "Contribution"})
	contribTable.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var contribData [][]string
	for _, c := range analysis.Contributions {
		contribData = append(contribData, []string{
			string(c.Feature),
			fmt.Sprintf("%.2f", c.Raw),
			fmt.Sprintf("%.2f", c.Normalized),
			fmt.Sprintf("%.2f", c.Weight),
			fmt.Sprintf("%.2f", c.Contribution),
		})
	}
	if err := contribTable.Bulk(contribData); err != nil {
		return err
	}
	if err := contribTable.Render(); err != nil {
		return err
	}

	// 2. Indicator table, when any fired
	if len(analysis.Indicators) > 0 {
		if _, err := fmt.Fprintln(writer); err != nil {
			return err
		}
		indicatorTable := tablewriter.NewWriter(writer)
		indicatorTable.Header([]string{"Severity", "Indicator", "Description"})

		maxWidth := getMaxDescriptionWidth(cfg)
		var indicatorData [][]string
		for _, ind := range analysis.Indicators {
			indicatorData = append(indicatorData, []string{
				string(ind.Severity),
				ind.Type,
				truncateText(ind.Description, maxWidth),
			})
		}
		if err := indicatorTable.Bulk(indicatorData); err != nil {
			return err
		}
		if err := indicatorTable.Render(); err != nil {
			return err
		}
	}

	// 3. Summary footer
	b := analysis.Breakdown
	if _, err := fmt.Fprintf(writer, "Buckets: configs %.1f, commits %.1f, patterns %.1f, structure %.1f, repetition %.1f\n",
		b.Configs, b.Commits, b.Patterns, b.Structure, b.Repetition); err != nil {
		return err
	}
	if analysis.Cache.IsCached {
		if _, err := fmt.Fprintf(writer, "Served from cache (key %s, cached at %s)\n",
			analysis.Cache.Key, analysis.Cache.CachedAt.Format("2006-01-02 15:04:05")); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(writer, "Analysis completed in %v with %d API requests. Cache backend: %s\n",
		duration, analysis.Diagnostics.RequestCount, cfg.CacheBackend); err != nil {
		return err
	}
	return nil
}

// writeCSVResultForAnalysis writes one row per feature contribution, with the
// run-level summary repeated on each row.
func writeCSVResultForAnalysis(w *csv.Writer, analysis *schema.RepoAnalysis) error {
	header := []string{
		"owner",
		"repo",
		"stage",
		"score",
		"label",
		"confidence",
		"feature",
		"raw",
		"normalized",
		"weight",
		"contribution",
	}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, c := range analysis.Contributions {
		rec := []string{
			analysis.RepoID.Owner,
			analysis.RepoID.Name,
			string(analysis.Stage),
			strconv.Itoa(analysis.SlopScore),
			contract.GetPlainLabel(analysis.SlopScore),
			string(analysis.Confidence),
			string(c.Feature),
			fmt.Sprintf("%.2f", c.Raw),
			fmt.Sprintf("%.2f", c.Normalized),
			fmt.Sprintf("%.2f", c.Weight),
			fmt.Sprintf("%.2f", c.Contribution),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}

// writeJSONResultForAnalysis writes the analysis record in JSON format.
func writeJSONResultForAnalysis(w io.Writer, analysis *schema.RepoAnalysis) error {
	// Prepare the data structure for JSON with the verdict label added
	type JSONAnalysis struct {
		Label string `json:"label"`
		*schema.RepoAnalysis
	}

	return writeJSON(w, JSONAnalysis{
		Label:        contract.GetPlainLabel(analysis.SlopScore),
		RepoAnalysis: analysis,
	})
}

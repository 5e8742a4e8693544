package core

import (
	"fmt"
	"testing"
	"time"

	"github.com/slopscan/slopscan/schema"
	"github.com/stretchr/testify/assert"
)

// history builds a most-recent-first commit list with a fixed gap.
func history(n int, gap time.Duration, message func(i int) string) []schema.Commit {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	commits := make([]schema.Commit, n)
	for i := range commits {
		commits[i] = schema.Commit{
			SHA:        fmt.Sprintf("sha%04d", i),
			Message:    message(i),
			AuthorDate: base.Add(-time.Duration(i) * gap),
		}
	}
	return commits
}

func TestAnalyzeCommitsEmpty(t *testing.T) {
	result := analyzeCommits(nil)
	assert.Zero(t, result.AISignal)
	assert.Zero(t, result.BurstSignal)
	assert.Zero(t, result.BulkSignal)
	assert.Empty(t, result.Indicators)
}

func TestLanguageSignalPhrases(t *testing.T) {
	commits := history(10, time.Hour, func(i int) string {
		if i < 4 {
			return "Add parser\n\nCo-authored-by: Claude <noreply@example.com>"
		}
		return fmt.Sprintf("tweak module %d", i)
	})
	result := analyzeCommits(commits)

	assert.Equal(t, 1.0, result.AISignal, "40%% phrase hits saturates the 0.35 bound")
	var found *schema.SlopIndicator
	for i := range result.Indicators {
		if result.Indicators[i].Type == "AI Commit Language" {
			found = &result.Indicators[i]
			break
		}
	}
	if assert.NotNil(t, found) {
		assert.Equal(t, schema.HighSeverity, found.Severity)
	}
}

func TestLanguageSignalTemplatedSubjects(t *testing.T) {
	commits := history(10, time.Hour, func(i int) string {
		return fmt.Sprintf("feat(module%d): add scaffold", i)
	})
	result := analyzeCommits(commits)

	assert.Greater(t, result.AISignal, 0.0)
	assert.NotEmpty(t, result.Indicators)
}

func TestLanguageSignalHumanMessages(t *testing.T) {
	messages := []string{
		"fix flaky test on windows",
		"bump deps",
		"wip",
		"Revert \"speed up tree walk\"",
		"handle empty branch name",
	}
	commits := history(len(messages), 26*time.Hour, func(i int) string { return messages[i] })
	result := analyzeCommits(commits)

	assert.Zero(t, result.AISignal)
	assert.Empty(t, result.Indicators)
}

func TestCadenceSignalBurst(t *testing.T) {
	// 12 commits spaced 90 seconds apart: every gap short and perfectly regular.
	commits := history(12, 90*time.Second, func(i int) string { return fmt.Sprintf("change %d", i) })
	result := analyzeCommits(commits)

	assert.Equal(t, 1.0, result.BurstSignal)
	var found bool
	for _, ind := range result.Indicators {
		if ind.Type == "Rapid Commit Bursts" {
			found = true
			assert.Equal(t, schema.HighSeverity, ind.Severity)
		}
	}
	assert.True(t, found)
}

func TestCadenceSignalTooFewCommits(t *testing.T) {
	commits := history(5, time.Second, func(i int) string { return "x" })
	assert.Zero(t, analyzeCommits(commits).BurstSignal)
}

func TestCadenceSignalSlowHistory(t *testing.T) {
	commits := history(20, 170*time.Hour, func(i int) string { return fmt.Sprintf("change %d", i) })
	result := analyzeCommits(commits)

	// No short gaps; perfectly regular spacing alone contributes at most 0.3.
	assert.LessOrEqual(t, result.BurstSignal, 0.3)
}

func TestBulkSignal(t *testing.T) {
	commits := history(8, time.Hour, func(i int) string { return fmt.Sprintf("update %d", i) })
	for i := range commits {
		commits[i].ChangedFiles = 3
		if i < 4 {
			commits[i].ChangedFiles = 25
		}
	}
	result := analyzeCommits(commits)

	assert.InDelta(t, 0.8, result.BulkSignal, 1e-9)
	var found bool
	for _, ind := range result.Indicators {
		if ind.Type == "Bulk Commits" {
			found = true
			assert.Equal(t, schema.HighSeverity, ind.Severity)
		}
	}
	assert.True(t, found)
}

func TestBulkSignalNoChangedFileData(t *testing.T) {
	commits := history(8, time.Hour, func(i int) string { return "update" })
	assert.Zero(t, analyzeCommits(commits).BulkSignal)
}

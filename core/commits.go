package core

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/slopscan/slopscan/schema"
)

// Commit analyzer tunables. Ratios below feed boundedScale at the call sites.
const (
	minCommitsForCadence = 6
	shortGapSeconds      = 300.0
	bulkFileThreshold    = 10
	terseSubjectLength   = 40
)

// aiPhrasePatterns match commit-message phrasing typical of AI-assisted
// authorship: tool attributions, generation footers and narrative openers.
var aiPhrasePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)co-authored-by:.*\b(claude|copilot|chatgpt|gpt-4\w*|gemini|cursor|aider|codex|devin)\b`),
	regexp.MustCompile(`(?i)\bgenerated (with|by|using)\b`),
	regexp.MustCompile(`🤖`),
	regexp.MustCompile(`(?i)\bthis commit (adds|introduces|implements|updates)\b`),
	regexp.MustCompile(`(?i)\bcomprehensive (test suite|error handling|documentation|implementation)\b`),
	regexp.MustCompile(`(?i)\bimplement(ed|s)? (full|complete|robust) \b`),
}

// conventionalSubject matches strictly templated conventional-commit subjects.
var conventionalSubject = regexp.MustCompile(`^(feat|fix|chore|docs|refactor|test|style|perf|build|ci)(\([^)]*\))?!?: `)

// commitAnalysis is the commit-message analyzer output. All three scalars
// are signals in [0, 1].
type commitAnalysis struct {
	AISignal    float64
	BurstSignal float64
	BulkSignal  float64
	Indicators  []schema.SlopIndicator
}

// analyzeCommits derives language, cadence and bulk-change signals from the
// commit history, ordered most recent first.
func analyzeCommits(commits []schema.Commit) commitAnalysis {
	if len(commits) == 0 {
		return commitAnalysis{}
	}
	var result commitAnalysis
	result.AISignal, result.Indicators = languageSignal(commits)
	result.BurstSignal = cadenceSignal(commits, &result.Indicators)
	result.BulkSignal = bulkSignal(commits, &result.Indicators)
	return result
}

// languageSignal scores phrase hits and subject templating.
func languageSignal(commits []schema.Commit) (float64, []schema.SlopIndicator) {
	phraseHits := 0
	conventional := 0
	for _, c := range commits {
		for _, p := range aiPhrasePatterns {
			if p.MatchString(c.Message) {
				phraseHits++
				break
			}
		}
		if conventionalSubject.MatchString(subjectLine(c.Message)) {
			conventional++
		}
	}

	phraseRatio := ratio(float64(phraseHits), float64(len(commits)))
	signal := boundedScale(phraseRatio, 0.0, 0.35)

	var indicators []schema.SlopIndicator
	if phraseHits > 0 {
		severity := schema.MediumSeverity
		if phraseRatio >= 0.3 {
			severity = schema.HighSeverity
		}
		indicators = append(indicators, schema.SlopIndicator{
			Type:        "AI Commit Language",
			Description: fmt.Sprintf("%d of %d commit messages use assistant-style phrasing", phraseHits, len(commits)),
			Severity:    severity,
		})
	}

	// Near-total conventional-commit uniformity over a non-trivial history
	// reads as templated output rather than a style choice.
	conventionalRatio := ratio(float64(conventional), float64(len(commits)))
	if len(commits) >= 8 && conventionalRatio >= 0.9 {
		signal = clamp01(signal + 0.3*boundedScale(conventionalRatio, 0.85, 1.0))
		indicators = append(indicators, schema.SlopIndicator{
			Type:        "AI Commit Language",
			Description: fmt.Sprintf("%d of %d commit subjects follow an identical template", conventional, len(commits)),
			Severity:    schema.MediumSeverity,
		})
	}
	return signal, indicators
}

// cadenceSignal scores inter-commit gap compression and regularity. Histories
// shorter than minCommitsForCadence yield zero.
func cadenceSignal(commits []schema.Commit, indicators *[]schema.SlopIndicator) float64 {
	if len(commits) < minCommitsForCadence {
		return 0.0
	}
	gaps := make([]float64, 0, len(commits)-1)
	shortGaps := 0
	for i := 0; i < len(commits)-1; i++ {
		gap := commits[i].AuthorDate.Sub(commits[i+1].AuthorDate).Seconds()
		if gap < 0 {
			gap = -gap
		}
		gaps = append(gaps, gap)
		if gap < shortGapSeconds {
			shortGaps++
		}
	}

	shortGapRatio := ratio(float64(shortGaps), float64(len(gaps)))
	regularity := 0.0
	if mean := average(gaps); mean > 0 {
		regularity = 1.0 - clamp01(stddev(gaps)/mean)
	}
	signal := clamp01(0.7*boundedScale(shortGapRatio, 0.15, 0.7) + 0.3*boundedScale(regularity, 0.55, 0.95))

	if shortGapRatio >= 0.4 {
		severity := schema.MediumSeverity
		if shortGapRatio >= 0.65 {
			severity = schema.HighSeverity
		}
		*indicators = append(*indicators, schema.SlopIndicator{
			Type:        "Rapid Commit Bursts",
			Description: fmt.Sprintf("%.0f%% of commit gaps are under %d minutes", shortGapRatio*100, int(shortGapSeconds)/60),
			Severity:    severity,
		})
	}
	return signal
}

// bulkSignal scores large diffs paired with terse messages. Commits without
// changed-file data are excluded from the ratio; a history with none at all
// yields zero.
func bulkSignal(commits []schema.Commit, indicators *[]schema.SlopIndicator) float64 {
	reported := 0
	bulky := 0
	for _, c := range commits {
		if c.ChangedFiles <= 0 {
			continue
		}
		reported++
		if c.ChangedFiles >= bulkFileThreshold && len(subjectLine(c.Message)) < terseSubjectLength {
			bulky++
		}
	}
	if reported == 0 {
		return 0.0
	}

	bulkRatio := ratio(float64(bulky), float64(reported))
	if bulkRatio >= 0.25 {
		severity := schema.MediumSeverity
		if bulkRatio >= 0.5 {
			severity = schema.HighSeverity
		}
		*indicators = append(*indicators, schema.SlopIndicator{
			Type:        "Bulk Commits",
			Description: fmt.Sprintf("%d of %d measured commits change %d+ files under a terse subject", bulky, reported, bulkFileThreshold),
			Severity:    severity,
		})
	}
	return boundedScale(bulkRatio, 0.1, 0.6)
}

// subjectLine returns the first line of a commit message.
func subjectLine(message string) string {
	if idx := strings.IndexByte(message, '\n'); idx >= 0 {
		return message[:idx]
	}
	return message
}

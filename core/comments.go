package core

import (
	"fmt"
	"path"
	"regexp"
	"strings"

	"github.com/slopscan/slopscan/schema"
)

// codeExtensions is the allowlist of extensions the comment detector scans.
// Anything else gets a zero stub result.
var codeExtensions = map[string]struct{}{
	".ts":   {},
	".tsx":  {},
	".js":   {},
	".jsx":  {},
	".py":   {},
	".go":   {},
	".rs":   {},
	".java": {},
	".cs":   {},
	".rb":   {},
}

// boilerplatePatterns match the explains-the-obvious narration style common
// in generated code comments.
var boilerplatePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^(step \d+|first,|next,|then,|finally,)`),
	regexp.MustCompile(`(?i)this (function|method|class|file|component) (is responsible for|handles|defines|implements|represents)`),
	regexp.MustCompile(`(?i)\b(note that|it'?s important to|make sure to|as you can see)\b`),
	regexp.MustCompile(`(?i)\b(here,? we|now we|we (then|simply|just))\b`),
	regexp.MustCompile(`(?i)the following (code|function|section|snippet)`),
	regexp.MustCompile(`(?i)\bloop (through|over) (the|each|all)\b`),
	regexp.MustCompile(`(?i)\b(initialize|define|set up) the\b`),
	regexp.MustCompile(`(?i)\breturn the (result|response|value|final)\b`),
}

var commentLinePrefixes = []string{"//", "#", "/*", "*", "--"}

const verboseBlockRun = 3

// commentScan is the comment-pattern detector output for one file.
type commentScan struct {
	VerboseBlocks int
	MatchedLines  int
	Signal        float64
	Indicators    []schema.SlopIndicator
}

// isCodeFile reports whether a path has a recognized source-code extension.
func isCodeFile(filePath string) bool {
	_, ok := codeExtensions[strings.ToLower(path.Ext(filePath))]
	return ok
}

// scanComments scores prompt-like comment phrasing in one file. Files outside
// the code-extension allowlist return a zero result.
func scanComments(filePath, content string) commentScan {
	if !isCodeFile(filePath) {
		return commentScan{}
	}

	lines := strings.Split(content, "\n")
	var scan commentScan
	run := 0
	for _, line := range lines {
		if isBoilerplateComment(line) {
			scan.MatchedLines++
			run++
			if run == verboseBlockRun {
				scan.VerboseBlocks++
			}
			continue
		}
		run = 0
	}

	density := ratio(float64(scan.MatchedLines), float64(len(lines)))
	scan.Signal = clamp01(0.7*boundedScale(density, 0.02, 0.2) + 0.3*boundedScale(float64(scan.VerboseBlocks), 0, 3))

	if scan.MatchedLines >= 4 {
		severity := schema.MediumSeverity
		if scan.MatchedLines >= 10 {
			severity = schema.HighSeverity
		}
		scan.Indicators = append(scan.Indicators, schema.SlopIndicator{
			Type:        "AI Comment Patterns",
			Description: fmt.Sprintf("%s has %d narrated comment lines", filePath, scan.MatchedLines),
			Severity:    severity,
		})
	}
	return scan
}

// commentAggregate rolls per-file scans up to repository level.
type commentAggregate struct {
	MatchedLines  int
	VerboseBlocks int
	Signal        float64
	Indicators    []schema.SlopIndicator
}

// aggregateComments scans every sampled code file and combines the per-file
// signals: the average keeps one narrated file from dominating, while the
// total-match term lets evidence accumulate across files.
func aggregateComments(samples []schema.SampledFile) commentAggregate {
	var agg commentAggregate
	var signals []float64
	for _, s := range samples {
		if !isCodeFile(s.Path) {
			continue
		}
		scan := scanComments(s.Path, s.Content)
		agg.MatchedLines += scan.MatchedLines
		agg.VerboseBlocks += scan.VerboseBlocks
		agg.Indicators = append(agg.Indicators, scan.Indicators...)
		signals = append(signals, scan.Signal)
	}
	agg.Signal = clamp01(0.7*average(signals) + 0.3*boundedScale(float64(agg.MatchedLines), 2, 25))
	return agg
}

// isBoilerplateComment reports whether a line is a comment matching any
// boilerplate pattern.
func isBoilerplateComment(line string) bool {
	trimmed := strings.TrimSpace(line)
	text := ""
	for _, prefix := range commentLinePrefixes {
		if strings.HasPrefix(trimmed, prefix) {
			text = strings.TrimSpace(strings.TrimPrefix(trimmed, prefix))
			break
		}
	}
	if text == "" {
		return false
	}
	for _, p := range boilerplatePatterns {
		if p.MatchString(text) {
			return true
		}
	}
	return false
}

package core

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/slopscan/slopscan/schema"
)

// Repetition detector tunables.
const (
	minTokenLength = 2
	tokenSetCap    = 500
)

var (
	stringLiteral = regexp.MustCompile("\"(?:[^\"\\\\]|\\\\.)*\"|'(?:[^'\\\\]|\\\\.)*'|`[^`]*`")
	bareInteger   = regexp.MustCompile(`\b\d+\b`)
	punctuation   = regexp.MustCompile(`[^a-zA-Z0-9_\s]+`)
)

// repetitionScan is the repetition detector output.
type repetitionScan struct {
	AverageSimilarity float64
	Signal            float64
	Indicators        []schema.SlopIndicator
}

// detectRepetition measures cross-file token-set similarity over the sampled
// contents. Fewer than two samples yield zeros.
func detectRepetition(samples []schema.SampledFile) repetitionScan {
	if len(samples) < 2 {
		return repetitionScan{}
	}

	sets := make([]map[string]struct{}, len(samples))
	for i, s := range samples {
		sets[i] = tokenSet(s.Content)
	}

	var similarities []float64
	for i := 0; i < len(sets); i++ {
		for j := i + 1; j < len(sets); j++ {
			similarities = append(similarities, similarityCoefficient(sets[i], sets[j]))
		}
	}

	avg := average(similarities)
	scan := repetitionScan{
		AverageSimilarity: avg,
		Signal:            boundedScale(avg, 0.16, 0.5),
	}
	if avg >= 0.24 {
		severity := schema.MediumSeverity
		if avg >= 0.36 {
			severity = schema.HighSeverity
		}
		scan.Indicators = append(scan.Indicators, schema.SlopIndicator{
			Type:        "High Cross-file Similarity",
			Description: fmt.Sprintf("Sampled files share %.0f%% of their token sets on average", avg*100),
			Severity:    severity,
		})
	}
	return scan
}

// tokenSet normalizes content so literal and formatting differences don't
// mask structural duplication, then builds a capped token set.
func tokenSet(content string) map[string]struct{} {
	normalized := stringLiteral.ReplaceAllString(content, " STR ")
	normalized = bareInteger.ReplaceAllString(normalized, " NUM ")
	normalized = punctuation.ReplaceAllString(normalized, " ")
	normalized = strings.ToLower(normalized)

	set := make(map[string]struct{})
	for _, tok := range strings.Fields(normalized) {
		if len(tok) <= minTokenLength {
			continue
		}
		if _, ok := set[tok]; ok {
			continue
		}
		set[tok] = struct{}{}
		if len(set) >= tokenSetCap {
			break
		}
	}
	return set
}

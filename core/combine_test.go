package core

import (
	"fmt"
	"testing"

	"github.com/slopscan/slopscan/schema"
	"github.com/stretchr/testify/assert"
)

func mediumIndicators(n int) []schema.SlopIndicator {
	indicators := make([]schema.SlopIndicator, n)
	for i := range indicators {
		indicators[i] = schema.SlopIndicator{
			Type:        "Test Evidence",
			Description: fmt.Sprintf("evidence %d", i),
			Severity:    schema.MediumSeverity,
		}
	}
	return indicators
}

func TestCombineScoreAllZero(t *testing.T) {
	result := combineScore(featureSignals{}, nil)

	assert.Equal(t, 0, result.Score)
	assert.Zero(t, result.RawScore)
	assert.Zero(t, result.EvidenceStrength)
	assert.Equal(t, schema.LowConfidence, result.Confidence)
	assert.Len(t, result.Contributions, 6)
}

func TestCombineScoreAllSaturated(t *testing.T) {
	signals := featureSignals{
		Config:         1,
		CommitLanguage: 1,
		CommitBurst:    1,
		CommentPattern: 1,
		Repetition:     1,
		Structure:      1,
	}
	result := combineScore(signals, mediumIndicators(5))

	assert.Equal(t, 100, result.Score)
	assert.InDelta(t, 100.0, result.RawScore, 1e-9)
	assert.Equal(t, 1.0, result.EvidenceStrength)
	assert.Equal(t, schema.HighConfidence, result.Confidence)
	assert.InDelta(t, 100.0, result.Breakdown.Total(), 1e-9)
}

func TestCombineScoreContributionArithmetic(t *testing.T) {
	result := combineScore(featureSignals{CommitLanguage: 0.5}, nil)

	var langRow *schema.FeatureContribution
	for i := range result.Contributions {
		if result.Contributions[i].Feature == schema.CommitLanguageFeature {
			langRow = &result.Contributions[i]
		}
	}
	if assert.NotNil(t, langRow) {
		assert.Equal(t, 0.5, langRow.Normalized)
		assert.Equal(t, 0.29, langRow.Weight)
		assert.Equal(t, 14.5, langRow.Contribution)
	}
	assert.Equal(t, result.Breakdown.Commits, 14.5)
}

func TestCombineScoreWeakRawBonus(t *testing.T) {
	// Two live signals with raw below 25 earn the +12 bonus.
	result := combineScore(featureSignals{Config: 1, Structure: 0.5}, nil)

	assert.InDelta(t, 21.0, result.RawScore, 1e-9)
	assert.Equal(t, 33, result.Score)
}

func TestCombineScoreLanguageBurstFloor(t *testing.T) {
	signals := featureSignals{CommitLanguage: 0.6, CommitBurst: 0.4}
	result := combineScore(signals, nil)

	// raw = 0.6*29 + 0.4*12 = 22.2; rule order matters: the +12 bonus lands
	// first, then the language-plus-burst floor lifts to 42.
	assert.InDelta(t, 22.2, result.RawScore, 1e-9)
	assert.Equal(t, 42, result.Score)
}

func TestCombineScoreIndicatorFloors(t *testing.T) {
	signals := featureSignals{
		CommitLanguage: 0.55,
		CommitBurst:    0.5,
		CommentPattern: 0.3,
		Repetition:     0.3,
	}
	result := combineScore(signals, mediumIndicators(5))

	// Medium/high count 5 with strong evidence reaches the 75 floor.
	assert.GreaterOrEqual(t, result.EvidenceStrength, 0.5)
	assert.Equal(t, 75, result.Score)
}

func TestCombineScoreWeakEvidenceCap(t *testing.T) {
	// One borderline signal and a pile of indicators: floors fire but the
	// weak-evidence cap pulls the result back to 40.
	result := combineScore(featureSignals{CommitLanguage: 0.35}, mediumIndicators(4))

	assert.Less(t, result.EvidenceStrength, weakEvidenceThreshold)
	assert.Equal(t, 40, result.Score)
	assert.Equal(t, schema.LowConfidence, result.Confidence)
}

func TestCombineScoreNoCapWhenAlreadyLow(t *testing.T) {
	result := combineScore(featureSignals{CommitLanguage: 0.3}, nil)

	assert.Less(t, result.EvidenceStrength, weakEvidenceThreshold)
	assert.Equal(t, 9, result.Score)
	assert.Equal(t, schema.LowConfidence, result.Confidence)
}

func TestCombineScoreMonotonicInCommentSignal(t *testing.T) {
	base := featureSignals{
		Config:         0.3,
		CommitLanguage: 0.3,
		CommitBurst:    0.4,
		Repetition:     0.3,
		Structure:      0.3,
	}
	prev := -1
	for step := 0; step <= 10; step++ {
		signals := base
		signals.CommentPattern = float64(step) / 10
		result := combineScore(signals, nil)
		assert.GreaterOrEqual(t, result.Score, prev, "score decreased at comment=%v", signals.CommentPattern)
		prev = result.Score
	}
}

func TestCombineScoreIdempotent(t *testing.T) {
	signals := featureSignals{
		Config:         0.5,
		CommitLanguage: 0.7,
		CommitBurst:    0.45,
		CommentPattern: 0.25,
		Repetition:     0.4,
		Structure:      0.2,
	}
	indicators := mediumIndicators(3)

	first := combineScore(signals, indicators)
	second := combineScore(signals, indicators)
	assert.Equal(t, first, second)
}

func TestEvidenceStrength(t *testing.T) {
	testCases := []struct {
		name    string
		signals []float64
		want    float64
	}{
		{"all zero", []float64{0, 0, 0, 0, 0, 0}, 0.0},
		{"single max", []float64{1, 0, 0, 0, 0, 0}, 0.45},
		{"all live", []float64{0.2, 0.2, 0.2, 0.2, 0.2, 0.2}, 1.0},
		{"top three strong", []float64{0.9, 0.9, 0.9, 0, 0, 0}, 0.99},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, evidenceStrength(tc.signals), 1e-9)
		})
	}
}

func TestConfidenceBand(t *testing.T) {
	testCases := []struct {
		name     string
		strength float64
		score    int
		want     schema.Confidence
	}{
		{"weak strength", 0.1, 80, schema.LowConfidence},
		{"tiny score", 0.9, 5, schema.LowConfidence},
		{"middling strength", 0.5, 60, schema.MediumConfidence},
		{"middling score", 0.9, 30, schema.MediumConfidence},
		{"strong", 0.8, 70, schema.HighConfidence},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, confidenceBand(tc.strength, tc.score))
		})
	}
}

func BenchmarkCombineScore(b *testing.B) {
	signals := featureSignals{
		Config:         0.5,
		CommitLanguage: 0.7,
		CommitBurst:    0.45,
		CommentPattern: 0.25,
		Repetition:     0.4,
		Structure:      0.2,
	}
	indicators := mediumIndicators(4)
	for b.Loop() {
		combineScore(signals, indicators)
	}
}

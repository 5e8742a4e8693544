package core

import (
	"testing"

	"github.com/slopscan/slopscan/schema"
	"github.com/stretchr/testify/assert"
)

func TestDetectRepetitionTooFewSamples(t *testing.T) {
	scan := detectRepetition([]schema.SampledFile{{Path: "a.go", Content: "package a"}})
	assert.Zero(t, scan.AverageSimilarity)
	assert.Zero(t, scan.Signal)
	assert.Empty(t, scan.Indicators)
}

func TestDetectRepetitionNearIdenticalSamples(t *testing.T) {
	// Same structure, different literals and numbers: normalization makes the
	// token sets identical.
	samples := []schema.SampledFile{
		{Path: "a.ts", Content: `export const widget = { label: "alpha", size: 10, render: () => draw(widget) };`},
		{Path: "b.ts", Content: `export const widget = { label: "bravo", size: 250, render: () => draw(widget) };`},
		{Path: "c.ts", Content: `export const widget = { label: "charlie", size: 7, render: () => draw(widget) };`},
	}
	scan := detectRepetition(samples)

	assert.InDelta(t, 1.0, scan.AverageSimilarity, 1e-9)
	assert.Equal(t, 1.0, scan.Signal)
	if assert.Len(t, scan.Indicators, 1) {
		assert.Equal(t, "High Cross-file Similarity", scan.Indicators[0].Type)
		assert.Equal(t, schema.HighSeverity, scan.Indicators[0].Severity)
	}
}

func TestDetectRepetitionDistinctSamples(t *testing.T) {
	samples := []schema.SampledFile{
		{Path: "a.go", Content: "package parser\nfunc Tokenize(input string) []Token { return lex(input) }"},
		{Path: "b.go", Content: "package cache\nfunc Evict(entries map[uint64]entry, deadline int64) { sweep(entries, deadline) }"},
	}
	scan := detectRepetition(samples)

	assert.Less(t, scan.AverageSimilarity, 0.24)
	assert.Empty(t, scan.Indicators)
}

func TestTokenSetNormalization(t *testing.T) {
	set := tokenSet(`value := "hello world" + 42`)
	assert.Contains(t, set, "value")
	assert.Contains(t, set, "str")
	assert.Contains(t, set, "num")
	assert.NotContains(t, set, "hello")
	assert.NotContains(t, set, "42")
}

func TestTokenSetDropsShortTokens(t *testing.T) {
	set := tokenSet("a bb ccc dddd")
	assert.NotContains(t, set, "a")
	assert.NotContains(t, set, "bb")
	assert.Contains(t, set, "ccc")
	assert.Contains(t, set, "dddd")
}

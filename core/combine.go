package core

import (
	"math"
	"sort"

	"github.com/slopscan/slopscan/schema"
)

// featureSignals carries the six weighted feature values, each in [0, 1].
// CommitBurst is the combined cadence value: max(burst, bulk*0.8).
type featureSignals struct {
	Config         float64
	CommitLanguage float64
	CommitBurst    float64
	CommentPattern float64
	Repetition     float64
	Structure      float64
}

// byKey maps the signals onto their feature keys.
func (f featureSignals) byKey() map[schema.FeatureKey]float64 {
	return map[schema.FeatureKey]float64{
		schema.ConfigFeature:         f.Config,
		schema.CommitLanguageFeature: f.CommitLanguage,
		schema.CommitBurstFeature:    f.CommitBurst,
		schema.CommentPatternFeature: f.CommentPattern,
		schema.RepetitionFeature:     f.Repetition,
		schema.StructureFeature:      f.Structure,
	}
}

// list returns the signals in reporting order; this is the evidence signal
// list the strength calculation counts over.
func (f featureSignals) list() []float64 {
	return []float64{f.Config, f.CommitLanguage, f.CommitBurst, f.CommentPattern, f.Repetition, f.Structure}
}

// combined is the combinator output.
type combined struct {
	Score            int
	Confidence       schema.Confidence
	Contributions    []schema.FeatureContribution
	Breakdown        schema.ScoreBreakdown
	EvidenceStrength float64
	RawScore         float64
}

// ruleContext is the fixed set of facts the escalation rules test.
type ruleContext struct {
	raw              float64
	signals          featureSignals
	evidenceStrength float64
	mediumHighCount  int
	indicatorCount   int
	liveSignalCount  int // signals >= 0.25
}

// escalationRule either adds a bonus or raises the adjusted score to a floor
// when its condition holds. Rules never lower the score; only the weak-
// evidence cap applied after the table can.
type escalationRule struct {
	name  string
	fires func(ruleContext) bool
	bonus float64
	floor float64
}

// escalationRules apply in this exact order. The thresholds and floors are
// empirically tuned; treat any change as a policy change.
var escalationRules = []escalationRule{
	{
		name:  "weak raw with multiple live signals",
		fires: func(c ruleContext) bool { return c.raw < 25 && c.liveSignalCount >= 2 },
		bonus: 12,
	},
	{
		name:  "comment plus burst",
		fires: func(c ruleContext) bool { return c.raw < 35 && c.signals.CommentPattern >= 0.2 && c.signals.CommitBurst >= 0.35 },
		floor: 30,
	},
	{
		name:  "language plus burst",
		fires: func(c ruleContext) bool { return c.signals.CommitLanguage >= 0.5 && c.signals.CommitBurst >= 0.35 && c.raw < 45 },
		floor: 42,
	},
	{
		name:  "heavy burst with corroborating indicators",
		fires: func(c ruleContext) bool { return c.signals.CommitBurst >= 0.45 && c.signals.CommentPattern >= 0.14 && c.mediumHighCount >= 3 },
		floor: 62,
	},
	{
		name:  "language with broad indicator spread",
		fires: func(c ruleContext) bool { return c.signals.CommitLanguage >= 0.35 && c.mediumHighCount >= 2 && c.indicatorCount >= 4 },
		floor: 56,
	},
	{
		name:  "language plus burst plus indicators",
		fires: func(c ruleContext) bool { return c.signals.CommitLanguage >= 0.5 && c.signals.CommitBurst >= 0.35 && c.mediumHighCount >= 3 },
		floor: 62,
	},
	{
		name:  "wide evidence",
		fires: func(c ruleContext) bool { return c.mediumHighCount >= 4 && c.evidenceStrength >= 0.45 },
		floor: 68,
	},
	{
		name:  "saturated evidence",
		fires: func(c ruleContext) bool { return c.mediumHighCount >= 5 && c.evidenceStrength >= 0.5 },
		floor: 75,
	},
}

// Weak-evidence dampener, always checked after the escalation table.
const (
	weakEvidenceThreshold = 0.2
	weakEvidenceCap       = 40.0
)

// Confidence band boundaries.
const (
	lowStrengthBound  = 0.22
	lowScoreBound     = 12
	highStrengthBound = 0.7
	highScoreBound    = 45
)

// liveSignalBound is the level at which a signal counts as having fired.
const liveSignalBound = 0.2

// combineScore turns the six feature signals and the collected indicators
// into a weighted score with escalation adjustments, a confidence band and
// an evidence-strength scalar. It is a pure function of its inputs.
func combineScore(signals featureSignals, indicators []schema.SlopIndicator) combined {
	weights := schema.GetFeatureWeights()
	values := signals.byKey()

	var out combined
	for _, feature := range schema.AllFeatures {
		normalized := clamp01(values[feature])
		contribution := schema.Round2(normalized * weights[feature] * 100)
		out.Contributions = append(out.Contributions, schema.FeatureContribution{
			Feature:      feature,
			Raw:          values[feature],
			Normalized:   normalized,
			Weight:       weights[feature],
			Contribution: contribution,
		})
		out.Breakdown.Add(feature, contribution)
		out.RawScore += contribution
	}

	out.EvidenceStrength = evidenceStrength(signals.list())

	ctx := ruleContext{
		raw:              out.RawScore,
		signals:          signals,
		evidenceStrength: out.EvidenceStrength,
		mediumHighCount:  schema.CountSeverityAtLeast(indicators, schema.MediumSeverity),
		indicatorCount:   len(indicators),
		liveSignalCount:  countAtLeast(signals.list(), 0.25),
	}

	adjusted := out.RawScore
	for _, rule := range escalationRules {
		if !rule.fires(ctx) {
			continue
		}
		adjusted += rule.bonus
		if rule.floor > adjusted {
			adjusted = rule.floor
		}
	}
	if out.EvidenceStrength < weakEvidenceThreshold && adjusted > weakEvidenceCap {
		adjusted = weakEvidenceCap
	}

	out.Score = int(math.Round(math.Max(0, math.Min(100, adjusted))))
	out.Confidence = confidenceBand(out.EvidenceStrength, out.Score)
	return out
}

// evidenceStrength reflects how many independent signals fired strongly, not
// how high any one of them is.
func evidenceStrength(signals []float64) float64 {
	countStrength := clamp01(float64(countAtLeast(signals, liveSignalBound)) / 6.0)

	sorted := make([]float64, len(signals))
	copy(sorted, signals)
	sort.Sort(sort.Reverse(sort.Float64Slice(sorted)))

	top := sorted
	if len(top) > 3 {
		top = top[:3]
	}
	avgTop3 := average(top)
	maxSignal := 0.0
	if len(sorted) > 0 {
		maxSignal = sorted[0]
	}
	return clamp01(math.Max(countStrength, math.Max(avgTop3*1.1, maxSignal*0.45)))
}

// confidenceBand derives the qualitative band from strength and score.
func confidenceBand(strength float64, score int) schema.Confidence {
	switch {
	case strength < lowStrengthBound || score < lowScoreBound:
		return schema.LowConfidence
	case strength < highStrengthBound || score < highScoreBound:
		return schema.MediumConfidence
	default:
		return schema.HighConfidence
	}
}

// countAtLeast counts values at or above the bound.
func countAtLeast(values []float64, bound float64) int {
	n := 0
	for _, v := range values {
		if v >= bound {
			n++
		}
	}
	return n
}

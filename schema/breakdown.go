package schema

import "math"

// FeatureContribution is one row of the weighted scoring table.
// Contribution = Normalized * Weight * 100, rounded to 2 decimals.
type FeatureContribution struct {
	Feature      FeatureKey `json:"feature"`
	Raw          float64    `json:"raw"`
	Normalized   float64    `json:"normalized"`
	Weight       float64    `json:"weight"`
	Contribution float64    `json:"contribution"`
	Notes        string     `json:"notes,omitempty"`
}

// ScoreBreakdown groups contributions into five named buckets. The buckets
// sum the pre-escalation contributions, so their total need not equal the
// overall score once an escalation rule or the dampener has fired.
type ScoreBreakdown struct {
	Configs    float64 `json:"configs"`
	Commits    float64 `json:"commits"`
	Patterns   float64 `json:"patterns"`
	Structure  float64 `json:"structure"`
	Repetition float64 `json:"repetition"`
}

// Add accumulates a contribution into the bucket owning the feature.
func (b *ScoreBreakdown) Add(f FeatureKey, contribution float64) {
	switch BucketForFeature(f) {
	case ConfigsBucket:
		b.Configs += contribution
	case CommitsBucket:
		b.Commits += contribution
	case PatternsBucket:
		b.Patterns += contribution
	case StructureBucket:
		b.Structure += contribution
	case RepetitionBucket:
		b.Repetition += contribution
	}
}

// Total returns the sum of all buckets.
func (b *ScoreBreakdown) Total() float64 {
	return b.Configs + b.Commits + b.Patterns + b.Structure + b.Repetition
}

// Round2 rounds to two decimal places, the precision used for contributions.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

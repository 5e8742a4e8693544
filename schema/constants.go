package schema

// Custom string types for type safety.
type (
	// NodeType distinguishes files from directories in a tree listing.
	NodeType string

	// Stage marks whether an analysis record is provisional or final.
	Stage string

	// Confidence is the qualitative confidence band of a score.
	Confidence string

	// Severity grades a single indicator.
	Severity string

	// FeatureKey names one weighted scoring feature.
	FeatureKey string

	// BucketKey names one breakdown bucket.
	BucketKey string

	// OutputMode represents the format of the output.
	OutputMode string

	// CacheBackend represents the database backend for caching.
	CacheBackend string
)

// Tree node types.
const (
	FileNodeType NodeType = "file"
	DirNodeType  NodeType = "dir"
)

// Delivery stages for one analysis run.
const (
	ProvisionalStage Stage = "provisional"
	FinalStage       Stage = "final"
)

// Confidence bands.
const (
	LowConfidence    Confidence = "low"
	MediumConfidence Confidence = "medium"
	HighConfidence   Confidence = "high"
)

// Indicator severities.
const (
	LowSeverity    Severity = "low"
	MediumSeverity Severity = "medium"
	HighSeverity   Severity = "high"
)

// Weighted scoring features.
const (
	ConfigFeature         FeatureKey = "config_files"
	CommitLanguageFeature FeatureKey = "commit_language"
	CommitBurstFeature    FeatureKey = "commit_burst"
	CommentPatternFeature FeatureKey = "comment_patterns"
	RepetitionFeature     FeatureKey = "repetition"
	StructureFeature      FeatureKey = "structure_uniformity"
)

// Breakdown buckets summing feature contributions.
const (
	ConfigsBucket    BucketKey = "configs"
	CommitsBucket    BucketKey = "commits"
	PatternsBucket   BucketKey = "patterns"
	StructureBucket  BucketKey = "structure"
	RepetitionBucket BucketKey = "repetition"
)

// All output modes supported.
const (
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	CSVOut     OutputMode = "csv"
	ParquetOut OutputMode = "parquet"
)

// All cache backends supported.
const (
	SQLiteBackend     CacheBackend = "sqlite" // default
	MySQLBackend      CacheBackend = "mysql"
	PostgreSQLBackend CacheBackend = "postgresql"
	NoneBackend       CacheBackend = "none"
)

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	TextOut:    {},
	JSONOut:    {},
	CSVOut:     {},
	ParquetOut: {},
}

// ValidCacheBackends lists all valid cache backends.
var ValidCacheBackends = map[CacheBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// AllFeatures returns the scoring features in their stable reporting order.
var AllFeatures = []FeatureKey{
	ConfigFeature,
	CommitLanguageFeature,
	CommitBurstFeature,
	CommentPatternFeature,
	RepetitionFeature,
	StructureFeature,
}

// GetFeatureWeights returns the fixed feature weights. They sum to 1.0 and
// are not user-tunable; escalation rules assume this exact distribution.
func GetFeatureWeights() map[FeatureKey]float64 {
	return map[FeatureKey]float64{
		ConfigFeature:         0.16,
		CommitLanguageFeature: 0.29,
		CommitBurstFeature:    0.12,
		CommentPatternFeature: 0.18,
		RepetitionFeature:     0.15,
		StructureFeature:      0.10,
	}
}

// BucketForFeature maps a feature to the breakdown bucket that sums it.
func BucketForFeature(f FeatureKey) BucketKey {
	switch f {
	case ConfigFeature:
		return ConfigsBucket
	case CommitLanguageFeature, CommitBurstFeature:
		return CommitsBucket
	case CommentPatternFeature:
		return PatternsBucket
	case StructureFeature:
		return StructureBucket
	default:
		return RepetitionBucket
	}
}

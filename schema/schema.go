// Package schema has configs, models and shared constants for all parts of slopscan.
package schema

import (
	"fmt"
	"time"
)

// RepoID identifies the repository an analysis belongs to. Consumers must
// compare it before displaying a delivered record, since a final record for
// one repository can race with a provisional record for another.
type RepoID struct {
	Owner string `json:"owner"`
	Name  string `json:"name"`
}

// String returns the canonical "owner/name" form.
func (r RepoID) String() string {
	return fmt.Sprintf("%s/%s", r.Owner, r.Name)
}

// RepoInfo holds the repository metadata the analysis needs up front.
// CreatedAt and StarCount feed the legacy-repository dampener.
type RepoInfo struct {
	Owner         string    `json:"owner"`
	Name          string    `json:"name"`
	DefaultBranch string    `json:"default_branch"`
	CreatedAt     time.Time `json:"created_at"`
	StarCount     int       `json:"star_count"`
}

// Commit is a single entry of the commit history page, most recent first.
// ChangedFiles is optional; zero means the data source did not report it.
type Commit struct {
	SHA          string    `json:"sha"`
	Message      string    `json:"message"`
	AuthorDate   time.Time `json:"author_date"`
	ChangedFiles int       `json:"changed_files,omitempty"`
}

// FileNode is one entry of the flattened repository tree listing.
type FileNode struct {
	Name string   `json:"name"`
	Path string   `json:"path"`
	Type NodeType `json:"type"`
	URL  string   `json:"url,omitempty"`
}

// SampledFile pairs a tree path with its fetched textual content.
type SampledFile struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

// Diagnostics carries per-run measurements attached to the final analysis.
type Diagnostics struct {
	CommitPassMillis int64                  `json:"commit_pass_ms"`
	DeepPassMillis   int64                  `json:"deep_pass_ms"`
	RequestCount     int64                  `json:"request_count"`
	SampledFiles     int                    `json:"sampled_files"`
	Features         map[FeatureKey]float64 `json:"features"`
	EvidenceStrength float64                `json:"evidence_strength"`
}

// CacheMeta records how the analysis relates to the persistent cache.
type CacheMeta struct {
	Key      string    `json:"key"`
	IsCached bool      `json:"is_cached"`
	CachedAt time.Time `json:"cached_at,omitempty"`
}

// RepoAnalysis is the full output record of one analysis run. A provisional
// record is always followed, within the same run, by exactly one final record
// (success or degraded variant) delivered through the publication sink.
type RepoAnalysis struct {
	RepoID        RepoID                `json:"repo_id"`
	SlopScore     int                   `json:"slop_score"`
	Confidence    Confidence            `json:"confidence"`
	Stage         Stage                 `json:"stage"`
	Indicators    []SlopIndicator       `json:"indicators"`
	Breakdown     ScoreBreakdown        `json:"score_breakdown"`
	Contributions []FeatureContribution `json:"contributions"`
	Diagnostics   Diagnostics           `json:"diagnostics"`
	Cache         CacheMeta             `json:"cache"`
	GeneratedAt   time.Time             `json:"generated_at"`
}

// Clone returns a deep copy so publication sinks never share slices with the
// orchestrator-owned record.
func (a *RepoAnalysis) Clone() *RepoAnalysis {
	clone := *a
	if a.Indicators != nil {
		clone.Indicators = make([]SlopIndicator, len(a.Indicators))
		copy(clone.Indicators, a.Indicators)
	}
	if a.Contributions != nil {
		clone.Contributions = make([]FeatureContribution, len(a.Contributions))
		copy(clone.Contributions, a.Contributions)
	}
	if a.Diagnostics.Features != nil {
		clone.Diagnostics.Features = make(map[FeatureKey]float64, len(a.Diagnostics.Features))
		for k, v := range a.Diagnostics.Features {
			clone.Diagnostics.Features[k] = v
		}
	}
	return &clone
}

// CacheStatus summarizes the state of the analysis cache store.
type CacheStatus struct {
	Backend         string    `json:"backend"`
	Connected       bool      `json:"connected"`
	TotalEntries    int64     `json:"total_entries"`
	LastEntryTime   time.Time `json:"last_entry_time,omitempty"`
	OldestEntryTime time.Time `json:"oldest_entry_time,omitempty"`
	TableSizeBytes  int64     `json:"table_size_bytes,omitempty"`
}

package core

import (
	"path"
	"regexp"
	"strings"

	"github.com/slopscan/slopscan/schema"
)

// sampleCap bounds how many file contents one deep pass may fetch.
const sampleCap = 28

// Quotas inside the cap: up to 45% from keyword-relevant paths, filled
// toward 60% with root-level files, with the rest strided over what remains.
const (
	keywordQuotaRatio = 0.45
	rootQuotaRatio    = 0.60
)

// sampleKeywords marks paths likely to carry authorship evidence.
var sampleKeywords = regexp.MustCompile(`(?i)(readme|instructions?|generated|template|example|demo|prompt|scaffold)`)

// sampleExtensions is the fetch allowlist: scannable code plus markdown.
func sampleEligible(p string) bool {
	ext := strings.ToLower(path.Ext(p))
	if ext == ".md" {
		return true
	}
	_, ok := codeExtensions[ext]
	return ok
}

// selectSamples picks up to sampleCap files from the tree, deterministically
// for a fixed tree. Priority goes to keyword-relevant paths, then root-level
// files; leftover slots are filled by even striding so the sample spans the
// whole tree instead of clustering at its head.
func selectSamples(nodes []schema.FileNode) []schema.FileNode {
	var eligible []schema.FileNode
	for _, node := range nodes {
		if node.Type == schema.FileNodeType && sampleEligible(node.Path) {
			eligible = append(eligible, node)
		}
	}
	if len(eligible) <= sampleCap {
		return eligible
	}

	picked := make(map[string]struct{}, sampleCap)
	selected := make([]schema.FileNode, 0, sampleCap)
	take := func(node schema.FileNode) {
		picked[node.Path] = struct{}{}
		selected = append(selected, node)
	}

	capSize := float64(sampleCap)
	keywordQuota := int(keywordQuotaRatio * capSize)
	for _, node := range eligible {
		if len(selected) >= keywordQuota {
			break
		}
		if sampleKeywords.MatchString(node.Path) {
			take(node)
		}
	}

	rootQuota := int(rootQuotaRatio * capSize)
	for _, node := range eligible {
		if len(selected) >= rootQuota {
			break
		}
		if _, done := picked[node.Path]; done {
			continue
		}
		if !strings.Contains(node.Path, "/") {
			take(node)
		}
	}

	var rest []schema.FileNode
	for _, node := range eligible {
		if _, done := picked[node.Path]; !done {
			rest = append(rest, node)
		}
	}
	slots := sampleCap - len(selected)
	step := float64(len(rest)) / float64(slots)
	for i := 0; i < slots; i++ {
		idx := int(float64(i) * step)
		if idx >= len(rest) {
			break
		}
		take(rest[idx])
	}
	return selected
}

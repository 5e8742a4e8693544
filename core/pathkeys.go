package core

import (
	"fmt"
	"regexp"

	"github.com/slopscan/slopscan/schema"
)

// aiPathPattern sweeps the full path list for AI-tool-specific fragments.
var aiPathPattern = regexp.MustCompile(`(?i)(copilot|claude|cursor|aider|chatgpt|gpt-?\d|codex|openai|anthropic|llm|ai[-_]generated)`)

// workflowPathPattern flags CI workflows wired to assistant or autogen bots.
var workflowPathPattern = regexp.MustCompile(`(?i)^\.github/workflows/.*(ai|bot|auto[-_]?gen)`)

// pathScan is the path/keyword heuristic output. Matches counts every path
// hit by either pattern.
type pathScan struct {
	Matches    int
	Indicators []schema.SlopIndicator
}

// sweepPaths runs the regex sweeps over the flattened path list.
func sweepPaths(nodes []schema.FileNode) pathScan {
	var scan pathScan
	for _, node := range nodes {
		if aiPathPattern.MatchString(node.Path) || workflowPathPattern.MatchString(node.Path) {
			scan.Matches++
		}
	}
	if scan.Matches >= 3 {
		severity := schema.MediumSeverity
		if scan.Matches >= 8 {
			severity = schema.HighSeverity
		}
		scan.Indicators = append(scan.Indicators, schema.SlopIndicator{
			Type:        "AI Tooling Paths",
			Description: fmt.Sprintf("%d paths reference AI tooling", scan.Matches),
			Severity:    severity,
		})
	}
	return scan
}

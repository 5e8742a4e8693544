package core

import (
	"fmt"
	"strings"

	"github.com/slopscan/slopscan/schema"
)

// assistantConfigNames lists known AI-assistant instruction and config file
// names. Matching is exact on the file name or on a path suffix, so nested
// placements like .github/copilot-instructions.md are caught too.
var assistantConfigNames = []string{
	".cursorrules",
	".cursorignore",
	".windsurfrules",
	".clinerules",
	".aiderignore",
	".aider.conf.yml",
	"CLAUDE.md",
	"AGENTS.md",
	"AGENT.md",
	"GEMINI.md",
	"copilot-instructions.md",
	".github/copilot-instructions.md",
	".cursor/rules",
	".claude/settings.json",
	"codex.md",
}

const assistantConfigIndicator = "AI Config Files"

// configFileResult is the config-file detector output.
type configFileResult struct {
	Found      bool
	Files      []string
	Severity   schema.Severity
	Signal     float64
	Indicators []schema.SlopIndicator
}

// detectConfigFiles scans the flattened tree for AI-assistant config files.
// Severity follows match count alone: one match is medium, two or more high.
func detectConfigFiles(nodes []schema.FileNode) configFileResult {
	var matched []string
	for _, node := range nodes {
		if node.Type != schema.FileNodeType {
			continue
		}
		for _, name := range assistantConfigNames {
			if node.Name == name || node.Path == name || strings.HasSuffix(node.Path, "/"+name) {
				matched = append(matched, node.Path)
				break
			}
		}
	}

	result := configFileResult{
		Found:    len(matched) > 0,
		Files:    matched,
		Severity: schema.LowSeverity,
		Signal:   boundedScale(float64(len(matched)), 0, 2),
	}
	switch {
	case len(matched) >= 2:
		result.Severity = schema.HighSeverity
	case len(matched) == 1:
		result.Severity = schema.MediumSeverity
	}
	for _, path := range matched {
		result.Indicators = append(result.Indicators, schema.SlopIndicator{
			Type:        assistantConfigIndicator,
			Description: fmt.Sprintf("Assistant configuration file %s present", path),
			Severity:    result.Severity,
		})
	}
	return result
}

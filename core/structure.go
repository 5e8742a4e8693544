package core

import (
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/slopscan/slopscan/schema"
)

// Structure detector tunables.
const (
	minShapeFiles   = 2
	minShapeRepeats = 3
)

// structureScan is the structure detector output.
type structureScan struct {
	RepeatedShapes      int
	NameRepetitionRatio float64
	Signal              float64
	Indicators          []schema.SlopIndicator
}

// detectStructure looks for scaffolding signatures: many directories laid out
// with an identical set of child filenames, and filenames recurring across
// the whole tree.
func detectStructure(nodes []schema.FileNode) structureScan {
	children := make(map[string][]string)
	nameCounts := make(map[string]int)
	totalFiles := 0
	for _, node := range nodes {
		if node.Type != schema.FileNodeType {
			continue
		}
		totalFiles++
		children[path.Dir(node.Path)] = append(children[path.Dir(node.Path)], node.Name)
		nameCounts[node.Name]++
	}

	// A directory's shape is its sorted, pipe-joined child filename list.
	// Single-file directories are too common to carry signal.
	shapeCounts := make(map[string]int)
	shapedDirs := 0
	for _, names := range children {
		if len(names) < minShapeFiles {
			continue
		}
		shapedDirs++
		sort.Strings(names)
		shapeCounts[strings.Join(names, "|")]++
	}

	repeatedShapes := 0
	repeatedDirs := 0
	for _, count := range shapeCounts {
		if count >= minShapeRepeats {
			repeatedShapes++
			repeatedDirs += count
		}
	}
	repeatedDirRatio := ratio(float64(repeatedDirs), float64(shapedDirs))

	recurringFiles := 0
	for _, node := range nodes {
		if node.Type == schema.FileNodeType && nameCounts[node.Name] > 1 {
			recurringFiles++
		}
	}
	nameRepetitionRatio := ratio(float64(recurringFiles), float64(totalFiles))

	uniformity := boundedScale(repeatedDirRatio*1.2+boundedScale(float64(repeatedShapes), 1, 6), 0.15, 1.6)
	scan := structureScan{
		RepeatedShapes:      repeatedShapes,
		NameRepetitionRatio: nameRepetitionRatio,
		Signal:              clamp01(uniformity + nameRepetitionRatio*0.25),
	}

	if repeatedShapes >= 1 {
		severity := schema.MediumSeverity
		if repeatedShapes >= 3 {
			severity = schema.HighSeverity
		}
		scan.Indicators = append(scan.Indicators, schema.SlopIndicator{
			Type:        "Uniform Module Scaffolds",
			Description: fmt.Sprintf("%d directory layouts repeat across %d directories", repeatedShapes, repeatedDirs),
			Severity:    severity,
		})
	}
	if nameRepetitionRatio > 0.55 {
		severity := schema.MediumSeverity
		if nameRepetitionRatio > 0.72 {
			severity = schema.HighSeverity
		}
		scan.Indicators = append(scan.Indicators, schema.SlopIndicator{
			Type:        "Repeated File Templates",
			Description: fmt.Sprintf("%.0f%% of filenames recur elsewhere in the tree", nameRepetitionRatio*100),
			Severity:    severity,
		})
	}
	return scan
}

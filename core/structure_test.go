package core

import (
	"fmt"
	"testing"

	"github.com/slopscan/slopscan/schema"
	"github.com/stretchr/testify/assert"
)

func scaffoldTree(dirs int, files ...string) []schema.FileNode {
	var nodes []schema.FileNode
	for d := range dirs {
		for _, f := range files {
			nodes = append(nodes, fileNode(fmt.Sprintf("src/mod%d/%s", d, f)))
		}
	}
	return nodes
}

func TestDetectStructureUniformScaffolds(t *testing.T) {
	scan := detectStructure(scaffoldTree(4, "index.ts", "types.ts"))

	assert.Equal(t, 1, scan.RepeatedShapes)
	assert.Equal(t, 1.0, scan.NameRepetitionRatio)
	assert.Greater(t, scan.Signal, 0.9)

	var found *schema.SlopIndicator
	for i := range scan.Indicators {
		if scan.Indicators[i].Type == "Uniform Module Scaffolds" {
			found = &scan.Indicators[i]
		}
	}
	if assert.NotNil(t, found) {
		assert.True(t, found.Severity.AtLeast(schema.MediumSeverity))
	}
}

func TestDetectStructureManyShapes(t *testing.T) {
	nodes := scaffoldTree(3, "index.ts", "types.ts")
	for d := range 3 {
		nodes = append(nodes,
			fileNode(fmt.Sprintf("lib/pkg%d/main.py", d)),
			fileNode(fmt.Sprintf("lib/pkg%d/util.py", d)),
		)
		nodes = append(nodes,
			fileNode(fmt.Sprintf("svc/app%d/handler.go", d)),
			fileNode(fmt.Sprintf("svc/app%d/model.go", d)),
		)
	}
	scan := detectStructure(nodes)

	assert.Equal(t, 3, scan.RepeatedShapes)
	for _, ind := range scan.Indicators {
		if ind.Type == "Uniform Module Scaffolds" {
			assert.Equal(t, schema.HighSeverity, ind.Severity)
		}
	}
}

func TestDetectStructureOrganicTree(t *testing.T) {
	nodes := []schema.FileNode{
		fileNode("README.md"),
		fileNode("go.mod"),
		fileNode("main.go"),
		fileNode("internal/server/server.go"),
		fileNode("internal/server/routes.go"),
		fileNode("internal/store/db.go"),
		fileNode("docs/design.md"),
	}
	scan := detectStructure(nodes)

	assert.Zero(t, scan.RepeatedShapes)
	assert.Zero(t, scan.NameRepetitionRatio)
	assert.Zero(t, scan.Signal)
	assert.Empty(t, scan.Indicators)
}

func TestDetectStructureRepeatedTemplatesOnly(t *testing.T) {
	// Same filenames everywhere but each directory holds a single file, so no
	// directory shape is counted.
	var nodes []schema.FileNode
	for d := range 6 {
		nodes = append(nodes, fileNode(fmt.Sprintf("pkg%d/index.ts", d)))
	}
	scan := detectStructure(nodes)

	assert.Zero(t, scan.RepeatedShapes)
	assert.Equal(t, 1.0, scan.NameRepetitionRatio)

	var found bool
	for _, ind := range scan.Indicators {
		if ind.Type == "Repeated File Templates" {
			found = true
			assert.Equal(t, schema.HighSeverity, ind.Severity)
		}
	}
	assert.True(t, found)
}

func TestDetectStructureIgnoresDirectories(t *testing.T) {
	nodes := []schema.FileNode{
		{Name: "src", Path: "src", Type: schema.DirNodeType},
		fileNode("src/a.go"),
	}
	scan := detectStructure(nodes)
	assert.Zero(t, scan.Signal)
}

package cross3d

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDebugOutputTree(t *testing.T) {
	pattern := mkPattern(t, 2, constantDensity(0))
	var buf bytes.Buffer
	pattern.DebugOutputTree(&buf, 512)
	out := buf.String()
	require.Contains(t, out, "<svg")
	require.Contains(t, out, "</svg>")
	// one polygon per cell in the arena, synthetic root excluded
	assert.Equal(t, pattern.CellCount()-1, strings.Count(out, "<polygon"))
}

func TestDebugOutputSequenceAndWalker(t *testing.T) {
	pattern := mkPattern(t, 3, constantDensity(1))
	pattern.CreateMinimalDensityPattern()

	var buf bytes.Buffer
	pattern.DebugOutputSequence(&buf, 512)
	out := buf.String()
	assert.Equal(t, len(realizedLeaves(pattern)), strings.Count(out, "<polygon"))
	assert.Contains(t, out, "stroke:blue", "links are drawn")

	walker := pattern.GetBottomSequence()
	buf.Reset()
	pattern.DebugOutput(walker, &buf, 512)
	assert.Equal(t, walker.Len(), strings.Count(buf.String(), "<polygon"))
}

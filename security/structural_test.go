package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanTreeAttributesLines(t *testing.T) {
	source := []byte("x = 1\neval(x)\n\nexec(x)\n")

	findings := ScanTree(source)

	require.Len(t, findings, 2)
	assert.Equal(t, "Dangerous function call: eval at line 2", findings[0].Label)
	assert.Equal(t, 2, findings[0].Line)
	assert.Equal(t, "Dangerous function call: exec at line 4", findings[1].Label)
	assert.Equal(t, 4, findings[1].Line)
	for _, f := range findings {
		assert.Equal(t, 10, f.Penalty)
	}
}

func TestScanTreeIgnoresQualifiedCalls(t *testing.T) {
	// os.system and pickle.loads are in the catalog, but the structural
	// pass only matches direct, unqualified names.
	source := []byte("import os, pickle\nos.system('ls')\npickle.loads(data)\n")

	assert.Empty(t, ScanTree(source))
}

func TestScanTreeIgnoresUnlistedCalls(t *testing.T) {
	source := []byte("print('x')\nlen(y)\n")

	assert.Empty(t, ScanTree(source))
}

func TestScanTreeMalformedSourceYieldsNothing(t *testing.T) {
	source := []byte("def broken(:\n    eval(x)\n")

	assert.Empty(t, ScanTree(source))
}

func TestScanTreeFindsNestedCalls(t *testing.T) {
	source := []byte("result = [eval(e) for e in items]\n")

	findings := ScanTree(source)

	require.Len(t, findings, 1)
	assert.Equal(t, "Dangerous function call: eval at line 1", findings[0].Label)
}

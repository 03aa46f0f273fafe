package semantic

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleModel = `
metadata:
  version: "2.1"
tables:
  - name: incrementality_analysis
    columns:
      - name: received_email
        role: treatment
      - name: converted
        role: outcome
`

func TestParse(t *testing.T) {
	model, err := Parse([]byte(sampleModel))
	require.NoError(t, err)
	assert.Equal(t, "2.1", model.Version)
	assert.Contains(t, model.YAML(), "incrementality_analysis")
}

func TestParseDefaultsVersion(t *testing.T) {
	model, err := Parse([]byte("tables: []"))
	require.NoError(t, err)
	assert.Equal(t, "1.0", model.Version)
}

func TestParseRejectsInvalidYAML(t *testing.T) {
	_, err := Parse([]byte("metadata: [unclosed"))
	require.Error(t, err)
}

func TestLoadAndResolve(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "semantic_model.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleModel), 0o644))

	model, err := Resolve(path)
	require.NoError(t, err)
	assert.Equal(t, "2.1", model.Version)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
}

// Package semantic loads the versioned semantic model: a declarative YAML
// description of schema and metric metadata embedded into code-generation
// prompts. The model is loaded once per analyst stage and read-only.
package semantic

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultPaths are probed in order when no explicit path is configured.
var DefaultPaths = []string{
	"semantic_model.yaml",
	"docs/semantic_model.yaml",
}

// Model is a loaded semantic model. The full document is retained for prompt
// embedding; only the version is interpreted.
type Model struct {
	Version string

	doc map[string]any
}

// Load parses a semantic model file.
func Load(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read semantic model %s: %w", path, err)
	}

	return Parse(data)
}

// Parse builds a model from raw YAML.
func Parse(data []byte) (*Model, error) {
	doc := make(map[string]any)
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse semantic model YAML: %w", err)
	}

	version := "1.0"
	if meta, ok := doc["metadata"].(map[string]any); ok {
		if v, ok := meta["version"].(string); ok && v != "" {
			version = v
		}
	}

	return &Model{Version: version, doc: doc}, nil
}

// Resolve loads an explicit path, or the first existing default location when
// path is empty.
func Resolve(path string) (*Model, error) {
	if path != "" {
		return Load(path)
	}

	for _, candidate := range DefaultPaths {
		if _, err := os.Stat(candidate); err == nil {
			return Load(candidate)
		}
	}

	return nil, fmt.Errorf("semantic model not found in default locations %v", DefaultPaths)
}

// YAML re-serializes the model for prompt embedding.
func (m *Model) YAML() string {
	out, err := yaml.Marshal(m.doc)
	if err != nil {
		return ""
	}

	return string(out)
}

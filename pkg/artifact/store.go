// Package artifact defines the blob store abstraction holding generated code,
// execution results and converted reports, addressed by hierarchical string
// paths. Two path tiers coexist: fixed "latest" slots overwritten every run,
// and an immutable run-scoped archive namespace under analysis_runs/.
package artifact

import (
	"context"
	"strings"
	"time"

	"github.com/liftlab/liftwire/pkg/models"
)

// Well-known "latest" slots. These are single-slot caches, not logs: each run
// overwrites the previous occupant.
const (
	LatestCodePath   = "generated_code/latest_analysis_code.py"
	LatestResultPath = "analysis_results/latest_execution_result.json"

	runPrefix = "analysis_runs"
)

// Entry describes one stored blob.
type Entry struct {
	Path      string
	Size      int64
	CreatedAt time.Time
}

// Store is the object storage contract. Implementations resolve paths
// relative to their own root; Get on a missing path returns an error matched
// by IsNotFound.
type Store interface {
	Put(ctx context.Context, path string, data []byte, contentType string) error
	Get(ctx context.Context, path string) ([]byte, error)
	List(ctx context.Context, prefix string) ([]Entry, error)
	Copy(ctx context.Context, src, dst string) error
	Exists(ctx context.Context, path string) (bool, error)
}

// LatestReportPath returns the fixed per-persona slot for a converted report.
func LatestReportPath(p models.Persona) string {
	return "reports/latest_" + strings.ReplaceAll(string(p), "-", "_") + "_report.pdf"
}

// RunPath builds a path inside a run's archive namespace.
func RunPath(runID string, parts ...string) string {
	return runPrefix + "/" + runID + "/" + strings.Join(parts, "/")
}

// PublishLatest overwrites a fixed-name slot and returns the written path as
// the artifact locator.
func PublishLatest(ctx context.Context, s Store, path string, data []byte, contentType string) (string, error) {
	if err := s.Put(ctx, path, data, contentType); err != nil {
		return "", err
	}

	return path, nil
}

// ArchiveVersion writes an immutable document into a run's archive namespace
// and returns its path. Callers never overwrite an existing run's namespace;
// run IDs are unique per pipeline pass.
func ArchiveVersion(ctx context.Context, s Store, runID string, data []byte, contentType string, parts ...string) (string, error) {
	path := RunPath(runID, parts...)
	if err := s.Put(ctx, path, data, contentType); err != nil {
		return "", err
	}

	return path, nil
}

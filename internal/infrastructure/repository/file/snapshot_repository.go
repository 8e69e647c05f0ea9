// Package file publishes the reconciled catalog as a static JSON snapshot.
package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bytedance/sonic"
	"github.com/matchfeed/matchfeed/internal/domain/match"
	"github.com/matchfeed/matchfeed/internal/platform/logging"
	"github.com/matchfeed/matchfeed/internal/usecase"
	"github.com/valyala/bytebufferpool"
)

const updateTimeLayout = "2006-01-02 15:04:05"

// Snapshot is the published catalog document.
type Snapshot struct {
	Success        bool           `json:"success"`
	UpdateTime     string         `json:"updateTime"`
	Total          int            `json:"total"`
	CategoryCounts map[string]int `json:"categoryCounts"`
	SourceCounts   map[string]int `json:"sourceCounts"`
	Data           []*match.Match `json:"data"`
}

// SnapshotRepository writes catalog snapshots to a fixed path, atomically.
type SnapshotRepository struct {
	path   string
	logger *logging.Logger
}

func NewSnapshotRepository(path string, logger *logging.Logger) *SnapshotRepository {
	if logger == nil {
		logger = logging.Default()
	}
	return &SnapshotRepository{path: path, logger: logger}
}

// Publish encodes the catalog and replaces the snapshot file via a temp file
// and rename. An empty catalog is refused so a bad run never clobbers the
// previous snapshot.
func (r *SnapshotRepository) Publish(ctx context.Context, result usecase.ReconcileResult, now time.Time) error {
	if result.Total == 0 || len(result.Matches) == 0 {
		return fmt.Errorf("refusing to publish empty catalog: %w", usecase.ErrEmptyCatalog)
	}

	doc := Snapshot{
		Success:        true,
		UpdateTime:     now.In(match.UpstreamZone).Format(updateTimeLayout),
		Total:          result.Total,
		CategoryCounts: result.ByCategory,
		SourceCounts:   result.BySource,
		Data:           result.Matches,
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	enc := sonic.ConfigDefault.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".snapshot-*.json")
	if err != nil {
		return fmt.Errorf("create temp snapshot: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(buf.B); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp snapshot: %w", err)
	}
	if err := os.Rename(tmpName, r.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace snapshot: %w", err)
	}

	r.logger.InfoContext(ctx, "snapshot published",
		"path", r.path,
		"matches", result.Total,
		"bytes", buf.Len(),
	)

	return nil
}

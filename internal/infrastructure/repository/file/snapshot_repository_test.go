package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/matchfeed/matchfeed/internal/domain/match"
	"github.com/matchfeed/matchfeed/internal/platform/logging"
	"github.com/matchfeed/matchfeed/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResult() usecase.ReconcileResult {
	m := &match.Match{
		Key:          "08月28日19:30|英超|曼城 vs 阿森纳",
		DisplayID:    "abc123",
		ScheduleText: "08月28日19:30",
		Competition:  "英超",
		Title:        "曼城 vs 阿森纳",
		Category:     "1",
		Status:       match.StatusNotStarted,
	}
	m.MergeNode("高清", "https://a.example/1.m3u8")
	return usecase.ReconcileResult{
		Matches:    []*match.Match{m},
		Total:      1,
		ByCategory: map[string]int{"1": 1},
		BySource:   map[string]int{"migu": 1},
	}
}

func TestPublishWritesSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "matches.json")
	repo := NewSnapshotRepository(path, logging.NewNop())

	now := time.Date(2026, 8, 28, 12, 30, 45, 0, match.UpstreamZone)
	require.NoError(t, repo.Publish(context.Background(), sampleResult(), now))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc Snapshot
	require.NoError(t, sonic.Unmarshal(raw, &doc))
	assert.True(t, doc.Success)
	assert.Equal(t, "2026-08-28 12:30:45", doc.UpdateTime)
	assert.Equal(t, 1, doc.Total)
	require.Len(t, doc.Data, 1)
	assert.Equal(t, "曼城 vs 阿森纳", doc.Data[0].Title)
	require.Len(t, doc.Data[0].Nodes, 1)
	assert.Equal(t, []string{"https://a.example/1.m3u8"}, doc.Data[0].Nodes[0].URLs)
}

func TestPublishUpdateTimeIsUpstreamZone(t *testing.T) {
	path := filepath.Join(t.TempDir(), "matches.json")
	repo := NewSnapshotRepository(path, logging.NewNop())

	// 04:00 UTC is 12:00 in the upstream zone.
	now := time.Date(2026, 8, 28, 4, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Publish(context.Background(), sampleResult(), now))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc Snapshot
	require.NoError(t, sonic.Unmarshal(raw, &doc))
	assert.Equal(t, "2026-08-28 12:00:00", doc.UpdateTime)
}

func TestPublishRefusesEmptyCatalog(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "matches.json")
	stale := []byte(`{"success":true,"data":[]}`)
	require.NoError(t, os.WriteFile(path, stale, 0o644))

	repo := NewSnapshotRepository(path, logging.NewNop())
	err := repo.Publish(context.Background(), usecase.ReconcileResult{}, time.Now())
	require.ErrorIs(t, err, usecase.ErrEmptyCatalog)

	raw, readErr := os.ReadFile(path)
	require.NoError(t, readErr)
	assert.Equal(t, stale, raw, "previous snapshot must be left untouched")
}

func TestPublishReplacesPreviousSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "matches.json")
	repo := NewSnapshotRepository(path, logging.NewNop())

	now := time.Date(2026, 8, 28, 12, 0, 0, 0, match.UpstreamZone)
	require.NoError(t, repo.Publish(context.Background(), sampleResult(), now))
	require.NoError(t, repo.Publish(context.Background(), sampleResult(), now.Add(time.Hour)))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc Snapshot
	require.NoError(t, sonic.Unmarshal(raw, &doc))
	assert.Equal(t, "2026-08-28 13:00:00", doc.UpdateTime)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files may be left behind")
}

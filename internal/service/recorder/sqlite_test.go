package recorder

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	drepo "PulseBoard/internal/domain/repository"
	applogger "PulseBoard/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteRecorder(t *testing.T) {
	ctx := context.Background()
	r, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "history.db"), applogger.Nop())
	require.NoError(t, err)
	defer r.Close()

	at := time.UnixMilli(1700000000000).UTC()
	require.NoError(t, r.RecordTable(ctx, drepo.TableEvent{At: at, Rows: 2, Assets: []string{"BTC", "ETH"}}))

	require.NoError(t, r.RecordRender(ctx, drepo.RenderEvent{
		At: at, Trigger: "timer", Outcome: "rendered", Asset: "BTC",
		Resolution: "second", Strategy: "continuous", Points: 60, Duration: 15 * time.Millisecond,
	}))
	require.NoError(t, r.RecordRender(ctx, drepo.RenderEvent{
		At: at.Add(time.Second), Trigger: "selection_changed", Outcome: "failed", Asset: "ETH",
		Resolution: "hour", Strategy: "discrete", Err: "request failed",
	}))

	got, err := r.RecentRenders(ctx, 10)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "ETH", got[0].Asset)
	assert.Equal(t, "request failed", got[0].Err)
	assert.Equal(t, "BTC", got[1].Asset)
	assert.Equal(t, 60, got[1].Points)
	assert.Equal(t, 15*time.Millisecond, got[1].Duration)
	assert.True(t, at.Equal(got[1].At))

	var assets string
	require.NoError(t, r.db.QueryRow(`SELECT assets FROM table_refreshes`).Scan(&assets))
	assert.Equal(t, "BTC,ETH", assets)

	limited, err := r.RecentRenders(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestSQLiteRecorderReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")

	r, err := NewSQLiteRecorder(path, applogger.Nop())
	require.NoError(t, err)
	require.NoError(t, r.RecordRender(context.Background(), drepo.RenderEvent{At: time.Now(), Trigger: "timer", Outcome: "empty"}))
	require.NoError(t, r.Close())

	r, err = NewSQLiteRecorder(path, applogger.Nop())
	require.NoError(t, err)
	defer r.Close()

	got, err := r.RecentRenders(context.Background(), 5)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestNoopRecorder(t *testing.T) {
	n := NewNoopRecorder()
	assert.NoError(t, n.RecordTable(context.Background(), drepo.TableEvent{}))
	got, err := n.RecentRenders(context.Background(), 3)
	assert.NoError(t, err)
	assert.Empty(t, got)
}

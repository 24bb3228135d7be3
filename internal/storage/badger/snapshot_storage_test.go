package badger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/vendo/internal/common"
	"github.com/ternarybob/vendo/internal/models"
)

func testDB(t *testing.T) *BadgerDB {
	t.Helper()
	logger := arbor.NewLogger()
	db, err := NewBadgerDB(logger, &common.BadgerConfig{Path: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSnapshotStorage_SaveAndGet(t *testing.T) {
	storage := NewSnapshotStorage(testDB(t), arbor.NewLogger())

	snapshot := &models.Snapshot{
		Timestamp: "20231124103000",
		Brand:     "Gymshark",
		URL:       "http://web.archive.org/web/20231124103000/http://gymshark.com/",
		Source:    models.SnapshotSourceWayback,
		HTML:      "<html><body>Sale</body></html>",
	}
	require.NoError(t, storage.SaveSnapshot(snapshot))

	got, err := storage.GetSnapshot("20231124103000")
	require.NoError(t, err)
	assert.Equal(t, "Gymshark", got.Brand)
	assert.Equal(t, snapshot.HTML, got.HTML)
	assert.False(t, got.FetchedAt.IsZero())

	_, err = storage.GetSnapshot("19990101000000")
	assert.Error(t, err)
}

func TestSnapshotStorage_SaveRequiresTimestamp(t *testing.T) {
	storage := NewSnapshotStorage(testDB(t), arbor.NewLogger())
	err := storage.SaveSnapshot(&models.Snapshot{Brand: "Gymshark"})
	assert.Error(t, err)
}

func TestSnapshotStorage_ListByBrandOrdered(t *testing.T) {
	storage := NewSnapshotStorage(testDB(t), arbor.NewLogger())

	for _, ts := range []string{"20231127090000", "20231124103000", "20240101120000"} {
		require.NoError(t, storage.SaveSnapshot(&models.Snapshot{Timestamp: ts, Brand: "Gymshark"}))
	}
	require.NoError(t, storage.SaveSnapshot(&models.Snapshot{Timestamp: "20231125000000", Brand: "Alphalete"}))

	snapshots, err := storage.ListSnapshots("Gymshark")
	require.NoError(t, err)
	require.Len(t, snapshots, 3)
	assert.Equal(t, "20231124103000", snapshots[0].Timestamp)
	assert.Equal(t, "20231127090000", snapshots[1].Timestamp)
	assert.Equal(t, "20240101120000", snapshots[2].Timestamp)

	count, err := storage.CountSnapshots("Gymshark")
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestSnapshotStorage_Checkpoints(t *testing.T) {
	storage := NewSnapshotStorage(testDB(t), arbor.NewLogger())

	done, err := storage.IsCompleted("Gymshark", "20231124103000")
	require.NoError(t, err)
	assert.False(t, done)

	require.NoError(t, storage.MarkCompleted("Gymshark", "20231124103000"))

	done, err = storage.IsCompleted("Gymshark", "20231124103000")
	require.NoError(t, err)
	assert.True(t, done)

	// Checkpoints are scoped per brand
	done, err = storage.IsCompleted("Alphalete", "20231124103000")
	require.NoError(t, err)
	assert.False(t, done)
}

func TestBadgerDB_ResetOnStartup(t *testing.T) {
	dir := t.TempDir()
	logger := arbor.NewLogger()

	db, err := NewBadgerDB(logger, &common.BadgerConfig{Path: dir})
	require.NoError(t, err)
	storage := NewSnapshotStorage(db, logger)
	require.NoError(t, storage.SaveSnapshot(&models.Snapshot{Timestamp: "20231124103000", Brand: "Gymshark"}))
	require.NoError(t, db.Close())

	db, err = NewBadgerDB(logger, &common.BadgerConfig{Path: dir, ResetOnStartup: true})
	require.NoError(t, err)
	defer db.Close()

	storage = NewSnapshotStorage(db, logger)
	_, err = storage.GetSnapshot("20231124103000")
	assert.Error(t, err)
}

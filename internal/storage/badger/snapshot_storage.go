package badger

import (
	"fmt"
	"sort"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/timshannon/badgerhold/v4"

	"github.com/ternarybob/vendo/internal/models"
)

// SnapshotStorage persists collected snapshots and collection checkpoints
type SnapshotStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewSnapshotStorage creates a new SnapshotStorage instance
func NewSnapshotStorage(db *BadgerDB, logger arbor.ILogger) *SnapshotStorage {
	return &SnapshotStorage{
		db:     db,
		logger: logger,
	}
}

// SaveSnapshot upserts a snapshot by its timestamp key
func (s *SnapshotStorage) SaveSnapshot(snapshot *models.Snapshot) error {
	if snapshot.Timestamp == "" {
		return fmt.Errorf("snapshot timestamp is required")
	}
	if snapshot.FetchedAt.IsZero() {
		snapshot.FetchedAt = time.Now().UTC()
	}
	if err := s.db.Store().Upsert(snapshot.Timestamp, snapshot); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

// GetSnapshot loads one snapshot by timestamp
func (s *SnapshotStorage) GetSnapshot(timestamp string) (*models.Snapshot, error) {
	var snapshot models.Snapshot
	if err := s.db.Store().Get(timestamp, &snapshot); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, fmt.Errorf("snapshot not found: %s", timestamp)
		}
		return nil, fmt.Errorf("failed to get snapshot: %w", err)
	}
	return &snapshot, nil
}

// ListSnapshots returns all snapshots for a brand in timestamp order
func (s *SnapshotStorage) ListSnapshots(brand string) ([]*models.Snapshot, error) {
	var snapshots []models.Snapshot
	if err := s.db.Store().Find(&snapshots, badgerhold.Where("Brand").Eq(brand).Index("Brand")); err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}

	sort.Slice(snapshots, func(i, j int) bool {
		return snapshots[i].Timestamp < snapshots[j].Timestamp
	})

	result := make([]*models.Snapshot, len(snapshots))
	for i := range snapshots {
		result[i] = &snapshots[i]
	}
	return result, nil
}

// CountSnapshots returns the number of stored snapshots for a brand
func (s *SnapshotStorage) CountSnapshots(brand string) (int, error) {
	count, err := s.db.Store().Count(&models.Snapshot{}, badgerhold.Where("Brand").Eq(brand).Index("Brand"))
	if err != nil {
		return 0, fmt.Errorf("failed to count snapshots: %w", err)
	}
	return int(count), nil
}

// IsCompleted reports whether a snapshot has been collected on a prior run
func (s *SnapshotStorage) IsCompleted(brand, timestamp string) (bool, error) {
	var checkpoint models.Checkpoint
	err := s.db.Store().Get(models.CheckpointID(brand, timestamp), &checkpoint)
	if err == badgerhold.ErrNotFound {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read checkpoint: %w", err)
	}
	return true, nil
}

// MarkCompleted records that a snapshot has been fully collected
func (s *SnapshotStorage) MarkCompleted(brand, timestamp string) error {
	checkpoint := models.Checkpoint{
		ID:          models.CheckpointID(brand, timestamp),
		Brand:       brand,
		Timestamp:   timestamp,
		CompletedAt: time.Now().UTC(),
	}
	if err := s.db.Store().Upsert(checkpoint.ID, &checkpoint); err != nil {
		return fmt.Errorf("failed to save checkpoint: %w", err)
	}
	return nil
}

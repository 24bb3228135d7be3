package wayback

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/vendo/internal/models"
)

// SnapshotStore is the persistence surface the collector needs. Fetched
// snapshots are saved before being marked complete so an interrupted run
// never records a capture it did not persist.
type SnapshotStore interface {
	SaveSnapshot(snapshot *models.Snapshot) error
	IsCompleted(brand, timestamp string) (bool, error)
	MarkCompleted(brand, timestamp string) error
}

// Service collects archived captures for a brand's URLs into storage,
// resuming past the captures already collected on previous runs.
type Service struct {
	client *Client
	store  SnapshotStore
	logger arbor.ILogger
}

// NewService creates a wayback collection service
func NewService(client *Client, store SnapshotStore, logger arbor.ILogger) *Service {
	return &Service{
		client: client,
		store:  store,
		logger: logger,
	}
}

// Collect discovers and downloads captures for each URL, skipping captures
// already completed. Individual fetch failures are logged and skipped so a
// flaky archive day does not abort the whole run. Returns the number of
// snapshots fetched this run.
func (s *Service) Collect(ctx context.Context, brand string, urls []string) (int, error) {
	fetched := 0

	for _, target := range urls {
		snapshots, err := s.client.DiscoverSnapshots(ctx, brand, target)
		if err != nil {
			return fetched, fmt.Errorf("failed to discover captures: %w", err)
		}

		for _, snapshot := range snapshots {
			if ctx.Err() != nil {
				return fetched, ctx.Err()
			}

			done, err := s.store.IsCompleted(brand, snapshot.Timestamp)
			if err != nil {
				return fetched, fmt.Errorf("failed to read checkpoint: %w", err)
			}
			if done {
				s.logger.Debug().
					Str("timestamp", snapshot.Timestamp).
					Msg("Skipping already collected capture")
				continue
			}

			if err := s.client.FetchSnapshot(ctx, snapshot); err != nil {
				s.logger.Warn().
					Str("timestamp", snapshot.Timestamp).
					Str("url", snapshot.URL).
					Err(err).
					Msg("Failed to fetch capture, skipping")
				continue
			}

			if err := s.store.SaveSnapshot(snapshot); err != nil {
				return fetched, fmt.Errorf("failed to save snapshot %s: %w", snapshot.Timestamp, err)
			}
			if err := s.store.MarkCompleted(brand, snapshot.Timestamp); err != nil {
				return fetched, fmt.Errorf("failed to checkpoint snapshot %s: %w", snapshot.Timestamp, err)
			}
			fetched++
		}
	}

	s.logger.Info().
		Str("brand", brand).
		Int("fetched", fetched).
		Msg("Archive collection complete")
	return fetched, nil
}

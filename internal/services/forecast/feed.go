package forecast

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/vendo/internal/models"
)

// FeedWriter emits the time-series CSV consumed by the external forecasting
// model. The feed carries every snapshot, non-promotional rows included, so
// the model sees the full observation grid.
type FeedWriter struct {
	outputDir string
	logger    arbor.ILogger
}

// NewFeedWriter creates a feed writer targeting outputDir
func NewFeedWriter(outputDir string, logger arbor.ILogger) *FeedWriter {
	return &FeedWriter{
		outputDir: outputDir,
		logger:    logger,
	}
}

// WriteSeries writes the full series feed for a brand as p_{brand}.csv and
// returns the written path.
func (w *FeedWriter) WriteSeries(brand string, rows []models.SeriesRow) (string, error) {
	if err := os.MkdirAll(w.outputDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	path := filepath.Join(w.outputDir, fmt.Sprintf("p_%s.csv", brand))
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create series feed: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write([]string{"y", "snapshot", "event", "sitewide", "discount"}); err != nil {
		return "", fmt.Errorf("failed to write series feed header: %w", err)
	}
	for _, row := range rows {
		record := []string{
			strconv.Itoa(row.Y),
			row.Snapshot,
			row.Event,
			strconv.Itoa(row.Sitewide),
			row.Discount,
		}
		if err := writer.Write(record); err != nil {
			return "", fmt.Errorf("failed to write series feed row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", fmt.Errorf("failed to flush series feed: %w", err)
	}

	w.logger.Info().Str("path", path).Int("rows", len(rows)).Msg("Series feed written")
	return path, nil
}

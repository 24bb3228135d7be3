package exporter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/vendo/internal/models"
)

const dateLayout = "02/01/2006"

// Exporter writes pipeline results to the output directory: the cleaned
// episode table, the raw per-snapshot records and the rejection log kept
// aside for manual review.
type Exporter struct {
	outputDir string
	logger    arbor.ILogger
}

// NewExporter creates an exporter targeting outputDir
func NewExporter(outputDir string, logger arbor.ILogger) *Exporter {
	return &Exporter{
		outputDir: outputDir,
		logger:    logger,
	}
}

// WriteEpisodes writes the aggregated episode table as {brand}Cleaned.csv.
// Dates are formatted DD/MM/YYYY.
func (e *Exporter) WriteEpisodes(brand string, episodes []models.Episode) (string, error) {
	path, file, err := e.create(brand + "Cleaned.csv")
	if err != nil {
		return "", err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write([]string{"brand", "y", "event", "sitewide", "discount", "start_date", "end_date", "snapshot"}); err != nil {
		return "", fmt.Errorf("failed to write episode header: %w", err)
	}
	for _, ep := range episodes {
		sitewide := 0
		if ep.Sitewide {
			sitewide = 1
		}
		record := []string{
			ep.Brand,
			strconv.Itoa(ep.Y),
			ep.Event,
			strconv.Itoa(sitewide),
			ep.Discount,
			ep.StartDate.Format(dateLayout),
			ep.EndDate.Format(dateLayout),
			ep.Snapshot,
		}
		if err := writer.Write(record); err != nil {
			return "", fmt.Errorf("failed to write episode row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", fmt.Errorf("failed to flush episode table: %w", err)
	}

	e.logger.Info().Str("path", path).Int("episodes", len(episodes)).Msg("Episode table written")
	return path, nil
}

// WriteRecords writes the raw per-snapshot detection records as
// {brand}Raw.json, keyed by snapshot timestamp.
func (e *Exporter) WriteRecords(brand string, records []models.PromotionRecord) (string, error) {
	keyed := make(map[string]models.PromotionRecord, len(records))
	for _, rec := range records {
		keyed[rec.Timestamp] = rec
	}
	return e.writeJSON(brand+"Raw.json", keyed, len(records), "Raw records written")
}

// WriteRejections writes the rejection log as {brand}ForReview.json
func (e *Exporter) WriteRejections(brand string, rejections []models.RejectedEntry) (string, error) {
	if rejections == nil {
		rejections = []models.RejectedEntry{}
	}
	return e.writeJSON(brand+"ForReview.json", rejections, len(rejections), "Rejection log written")
}

func (e *Exporter) writeJSON(name string, payload any, count int, message string) (string, error) {
	path, file, err := e.create(name)
	if err != nil {
		return "", err
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(payload); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", name, err)
	}

	e.logger.Info().Str("path", path).Int("entries", count).Msg(message)
	return path, nil
}

func (e *Exporter) create(name string) (string, *os.File, error) {
	if err := os.MkdirAll(e.outputDir, 0o755); err != nil {
		return "", nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	path := filepath.Join(e.outputDir, name)
	file, err := os.Create(path)
	if err != nil {
		return "", nil, fmt.Errorf("failed to create %s: %w", name, err)
	}
	return path, file, nil
}

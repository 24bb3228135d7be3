package exporter

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/vendo/internal/models"
)

func TestExporter_WriteEpisodes(t *testing.T) {
	dir := t.TempDir()
	exporter := NewExporter(dir, arbor.NewLogger())

	episodes := []models.Episode{
		{
			Brand:     "Gymshark",
			Y:         1,
			Event:     "Black Friday",
			Sitewide:  true,
			Discount:  "30% off",
			StartDate: time.Date(2023, 11, 24, 0, 0, 0, 0, time.UTC),
			EndDate:   time.Date(2023, 11, 28, 0, 0, 0, 0, time.UTC),
			Snapshot:  "20231124000000",
		},
	}

	path, err := exporter.WriteEpisodes("Gymshark", episodes)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "GymsharkCleaned.csv"), path)

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, []string{"brand", "y", "event", "sitewide", "discount", "start_date", "end_date", "snapshot"}, records[0])
	assert.Equal(t, []string{"Gymshark", "1", "Black Friday", "1", "30% off", "24/11/2023", "28/11/2023", "20231124000000"}, records[1])
}

func TestExporter_WriteRejections(t *testing.T) {
	dir := t.TempDir()
	exporter := NewExporter(dir, arbor.NewLogger())

	rejections := []models.RejectedEntry{
		{
			Timestamp:      "20240101000000",
			URL:            "http://example.com",
			ReasonFiltered: "single context",
			PromoContexts:  models.KeywordContexts{"sale": {"sale now on"}},
		},
	}

	path, err := exporter.WriteRejections("Gymshark", rejections)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "GymsharkForReview.json"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded []models.RejectedEntry
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "single context", decoded[0].ReasonFiltered)
	assert.Equal(t, "20240101000000", decoded[0].Timestamp)
}

func TestExporter_WriteRejectionsEmpty(t *testing.T) {
	dir := t.TempDir()
	exporter := NewExporter(dir, arbor.NewLogger())

	path, err := exporter.WriteRejections("Gymshark", nil)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	// An empty run still writes a valid, empty JSON array
	var decoded []models.RejectedEntry
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Empty(t, decoded)
}

func TestExporter_WriteRecords(t *testing.T) {
	dir := t.TempDir()
	exporter := NewExporter(dir, arbor.NewLogger())

	records := []models.PromotionRecord{
		{
			Timestamp:     "20231124000000",
			URL:           "http://example.com",
			IsPromotional: true,
			IsSitewide:    true,
			KeywordContexts: models.KeywordContexts{
				"black friday": {"black friday sale now on"},
			},
		},
	}

	path, err := exporter.WriteRecords("Gymshark", records)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "GymsharkRaw.json"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded map[string]models.PromotionRecord
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Contains(t, decoded, "20231124000000")
	assert.True(t, decoded["20231124000000"].IsPromotional)
}

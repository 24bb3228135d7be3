package forecast

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/vendo/internal/models"
)

func TestFeedWriter_WriteSeries(t *testing.T) {
	dir := t.TempDir()
	writer := NewFeedWriter(dir, arbor.NewLogger())

	rows := []models.SeriesRow{
		{Y: 0, Snapshot: "20231120000000"},
		{Y: 1, Snapshot: "20231124000000", Event: "Black Friday", Sitewide: 1, Discount: "30% off"},
	}

	path, err := writer.WriteSeries("Gymshark", rows)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "p_Gymshark.csv"), path)

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, []string{"y", "snapshot", "event", "sitewide", "discount"}, records[0])
	// Non-promotional snapshots still appear as y=0 rows
	assert.Equal(t, []string{"0", "20231120000000", "", "0", ""}, records[1])
	assert.Equal(t, []string{"1", "20231124000000", "Black Friday", "1", "30% off"}, records[2])
}

func TestFeedWriter_CreatesOutputDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")
	writer := NewFeedWriter(dir, arbor.NewLogger())

	_, err := writer.WriteSeries("Gymshark", nil)
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, "p_Gymshark.csv"))
	assert.NoError(t, err)
}

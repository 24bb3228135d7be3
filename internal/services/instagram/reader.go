package instagram

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/vendo/internal/models"
)

// Post is one row of an Instagram caption export
type Post struct {
	ID        string
	Caption   string
	Permalink string
	Timestamp string // ISO 8601 as exported
}

// PostedAt parses the export timestamp. Exports use RFC 3339 with either a
// Z or numeric offset suffix.
func (p Post) PostedAt() (time.Time, bool) {
	raw := strings.TrimSpace(p.Timestamp)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05-0700", "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Reader loads Instagram caption exports
type Reader struct {
	logger arbor.ILogger
}

// NewReader creates a caption export reader
func NewReader(logger arbor.ILogger) *Reader {
	return &Reader{logger: logger}
}

// ReadCaptions reads a caption export CSV. Required column: caption.
// Optional columns: id, permalink, timestamp. Rows missing a caption are
// skipped with a warning.
func (r *Reader) ReadCaptions(path string) ([]Post, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open caption export: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse caption export %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("caption export %s is empty", path)
	}

	columns := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	if _, ok := columns["caption"]; !ok {
		return nil, fmt.Errorf("caption export %s has no caption column", path)
	}

	field := func(row []string, name string) string {
		idx, ok := columns[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	posts := make([]Post, 0, len(records)-1)
	for i, row := range records[1:] {
		caption := field(row, "caption")
		if caption == "" {
			r.logger.Warn().Int("row", i+2).Msg("Skipping caption export row without caption")
			continue
		}
		posts = append(posts, Post{
			ID:        field(row, "id"),
			Caption:   caption,
			Permalink: field(row, "permalink"),
			Timestamp: field(row, "timestamp"),
		})
	}

	r.logger.Info().Str("path", path).Int("posts", len(posts)).Msg("Loaded caption export")
	return posts, nil
}

// ToSnapshots converts posts into pipeline snapshots. The caption becomes
// the snapshot's raw text; posts without a parseable timestamp are dropped
// because the pipeline cannot place them on the timeline.
func (r *Reader) ToSnapshots(posts []Post, brand string) []*models.Snapshot {
	snapshots := make([]*models.Snapshot, 0, len(posts))
	for _, post := range posts {
		postedAt, ok := post.PostedAt()
		if !ok {
			r.logger.Warn().Str("id", post.ID).Str("timestamp", post.Timestamp).Msg("Skipping post without parseable timestamp")
			continue
		}
		snapshots = append(snapshots, &models.Snapshot{
			Timestamp:   postedAt.UTC().Format("20060102150405"),
			Brand:       brand,
			URL:         post.Permalink,
			OriginalURL: post.Permalink,
			Source:      models.SnapshotSourceInstagram,
			RawText:     post.Caption,
			FetchedAt:   time.Now().UTC(),
		})
	}
	return snapshots
}

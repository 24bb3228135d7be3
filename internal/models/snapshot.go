package models

import (
	"time"
)

// SnapshotSource identifies where a snapshot was captured from
type SnapshotSource string

const (
	SnapshotSourceWayback   SnapshotSource = "wayback"
	SnapshotSourceInstagram SnapshotSource = "instagram"
)

// Snapshot is one timestamped observation of a brand's public page or social
// post. Snapshots are created by the fetch/ingest collaborators and consumed
// read-only by the classification pipeline.
type Snapshot struct {
	Timestamp   string         `json:"timestamp" badgerhold:"key"` // Sortable id: compact wayback timestamp (YYYYMMDDHHMMSS) or ISO date
	Brand       string         `json:"brand" badgerhold:"index"`
	URL         string         `json:"url"`          // Archived page URL or post permalink
	OriginalURL string         `json:"original_url"` // Live-site URL the archive captured
	Source      SnapshotSource `json:"source"`
	HTML        string         `json:"html"`     // Raw markup, kept for structural (nav/newsletter) checks
	RawText     string         `json:"raw_text"` // Visible text extracted from the markup
	OCRText     string         `json:"ocr_text"` // Optional banner-image text from the OCR collaborator
	FetchedAt   time.Time      `json:"fetched_at"`
}

// Time parses the snapshot identifier into a point in time. Wayback ids are
// compact YYYYMMDDHHMMSS strings; Instagram ingest produces RFC3339. Returns
// false when the identifier is not parseable as either.
func (s *Snapshot) Time() (time.Time, bool) {
	return ParseSnapshotTime(s.Timestamp)
}

// ParseSnapshotTime parses a snapshot identifier string
func ParseSnapshotTime(id string) (time.Time, bool) {
	if t, err := time.Parse("20060102150405", id); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, id); err == nil {
		return t, true
	}
	if t, err := time.Parse("20060102", id); err == nil {
		return t, true
	}
	return time.Time{}, false
}

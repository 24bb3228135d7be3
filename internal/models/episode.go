package models

import (
	"time"
)

// EpisodeInput is one classified, y=1 snapshot row entering aggregation.
// Start and End are both the snapshot's own date until merging widens them.
type EpisodeInput struct {
	Brand    string
	Y        int
	Event    string
	Sitewide bool
	Discount string
	Start    time.Time
	End      time.Time
	Snapshot string // Snapshot id, earliest kept across a merge
}

// Episode is a merged run of temporally-adjacent same-event promotional
// snapshots, representing one real-world sale period.
type Episode struct {
	Brand     string    `json:"brand"`
	Y         int       `json:"y"`
	Event     string    `json:"event"`
	Sitewide  bool      `json:"sitewide"`
	Discount  string    `json:"discount"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	Snapshot  string    `json:"snapshot"` // Earliest snapshot id among merged members
}

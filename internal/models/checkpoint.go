package models

import "time"

// Checkpoint records a snapshot that has been fully collected, keyed so
// interrupted collection runs resume where they stopped.
type Checkpoint struct {
	ID          string `badgerhold:"key"` // brand + "/" + snapshot timestamp
	Brand       string `badgerhold:"index"`
	Timestamp   string
	CompletedAt time.Time
}

// CheckpointID builds the storage key for a brand/timestamp pair
func CheckpointID(brand, timestamp string) string {
	return brand + "/" + timestamp
}

// -----------------------------------------------------------------------
// Episode Aggregator - temporal merge of same-event snapshots
// -----------------------------------------------------------------------

package promo

import (
	"sort"
	"time"

	"github.com/ternarybob/vendo/internal/models"
)

// Aggregate merges consecutive same-event rows whose start falls within
// gapDays of the open episode's end into single promotional episodes. Rows
// are expected to be restricted to y=1. The merged episode keeps the first
// row's discount, ORs the sitewide flags, extends the end date and keeps
// the earliest snapshot id. Output is sorted by start date.
//
// The merge key is strictly the event name, so rows with an empty event
// label merge with each other across unrelated unnamed promotions when the
// gaps stay small. That matches the source behavior and is a candidate fix
// pending product-owner confirmation, not something to change silently.
func Aggregate(rows []models.EpisodeInput, gapDays int) []models.Episode {
	if len(rows) == 0 {
		return []models.Episode{}
	}

	sorted := make([]models.EpisodeInput, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Event != sorted[j].Event {
			return sorted[i].Event < sorted[j].Event
		}
		return sorted[i].Start.Before(sorted[j].Start)
	})

	maxGap := time.Duration(gapDays) * 24 * time.Hour

	var episodes []models.Episode
	open := newEpisode(sorted[0])

	for _, row := range sorted[1:] {
		if row.Event == open.Event && row.Start.Sub(open.EndDate) <= maxGap {
			if row.End.After(open.EndDate) {
				open.EndDate = row.End
			}
			open.Sitewide = open.Sitewide || row.Sitewide
			if row.Snapshot < open.Snapshot {
				open.Snapshot = row.Snapshot
			}
			continue
		}
		episodes = append(episodes, open)
		open = newEpisode(row)
	}
	episodes = append(episodes, open)

	sort.SliceStable(episodes, func(i, j int) bool {
		return episodes[i].StartDate.Before(episodes[j].StartDate)
	})
	return episodes
}

func newEpisode(row models.EpisodeInput) models.Episode {
	return models.Episode{
		Brand:     row.Brand,
		Y:         row.Y,
		Event:     row.Event,
		Sitewide:  row.Sitewide,
		Discount:  row.Discount,
		StartDate: row.Start,
		EndDate:   row.End,
		Snapshot:  row.Snapshot,
	}
}

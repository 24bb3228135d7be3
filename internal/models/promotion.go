package models

import (
	"sort"
	"strings"
)

// KeywordContexts maps a promotional keyword (case-insensitive) to the
// ordered list of context windows captured around its occurrences. The noise
// filter removes contexts and drops emptied keywords; nothing is added after
// initial extraction.
type KeywordContexts map[string][]string

// Keywords returns the keyword set in sorted order
func (kc KeywordContexts) Keywords() []string {
	keys := make([]string, 0, len(kc))
	for k := range kc {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Concatenated joins every surviving context into one lowercase string for
// pattern matching across keyword boundaries.
func (kc KeywordContexts) Concatenated() string {
	var all []string
	for _, k := range kc.Keywords() {
		all = append(all, kc[k]...)
	}
	return strings.ToLower(strings.Join(all, " "))
}

// Clone returns a deep copy
func (kc KeywordContexts) Clone() KeywordContexts {
	out := make(KeywordContexts, len(kc))
	for k, v := range kc {
		contexts := make([]string, len(v))
		copy(contexts, v)
		out[k] = contexts
	}
	return out
}

// PromotionRecord is the per-snapshot judgment produced by the promotion
// classifier and noise filter. Terminal once filtered.
type PromotionRecord struct {
	Timestamp       string          `json:"timestamp"`
	URL             string          `json:"url"`
	IsPromotional   bool            `json:"promotion"`
	IsSitewide      bool            `json:"sitewide"`
	SaleEndDateText string          `json:"sale_end_date,omitempty"` // Raw extracted phrase, not a parsed date
	KeywordContexts KeywordContexts `json:"promo_contexts"`
}

// ResolvedEvent is the canonical event/discount labeling for a record
type ResolvedEvent struct {
	EventName     string `json:"event_name"`     // Possibly empty: no identifiable named event
	DiscountLabel string `json:"discount_label"` // Possibly empty: no discount detected
}

// SeriesRow is one row of the full time-series feed consumed by the external
// forecasting model. Every snapshot contributes a row, including y=0.
type SeriesRow struct {
	Y        int    `json:"y"`
	Snapshot string `json:"snapshot"`
	Event    string `json:"event"`
	Sitewide int    `json:"sitewide"`
	Discount string `json:"discount"`
}

// RejectedEntry records a snapshot that was promotional-flagged upstream but
// excluded by the noise filter, kept for manual audit.
type RejectedEntry struct {
	Timestamp      string          `json:"timestamp"`
	URL            string          `json:"url"`
	ReasonFiltered string          `json:"reason_filtered"`
	PromoContexts  KeywordContexts `json:"promo_contexts"`
}

// -----------------------------------------------------------------------
// Promotion Classifier - per-snapshot promotional verdict
// -----------------------------------------------------------------------

package promo

import (
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/vendo/internal/models"
)

// PromotionClassifier turns filtered keyword contexts into the per-snapshot
// promotional judgment. It runs after the noise filter: the contexts it
// sees for "sale" and "% off" keywords have already had exclusion phrases
// and patterns applied.
type PromotionClassifier struct {
	logger arbor.ILogger
}

// NewPromotionClassifier creates a promotion classifier
func NewPromotionClassifier(logger arbor.ILogger) *PromotionClassifier {
	return &PromotionClassifier{logger: logger}
}

// Classify produces a PromotionRecord for one snapshot from its document
// and surviving keyword contexts.
func (c *PromotionClassifier) Classify(snapshot *models.Snapshot, doc *Document, contexts models.KeywordContexts) models.PromotionRecord {
	record := models.PromotionRecord{
		Timestamp:       snapshot.Timestamp,
		URL:             snapshot.URL,
		KeywordContexts: contexts,
	}

	record.IsPromotional = c.isPromotional(contexts)
	if record.IsPromotional {
		record.IsSitewide = c.isSitewide(contexts)
		record.SaleEndDateText = c.ExtractSaleEndDate(doc)
	}
	return record
}

// isPromotional requires at least one surviving keyword, and downgrades a
// snapshot whose only detected signal is the single generic "sale" keyword:
// a lone generic mention with zero corroborating keywords is insufficient
// evidence.
func (c *PromotionClassifier) isPromotional(contexts models.KeywordContexts) bool {
	if len(contexts) == 0 {
		return false
	}
	if len(contexts) == 1 {
		for keyword := range contexts {
			if strings.EqualFold(keyword, "sale") {
				return false
			}
		}
	}
	return true
}

// isSitewide reports whether any surviving context claims a storewide scope
func (c *PromotionClassifier) isSitewide(contexts models.KeywordContexts) bool {
	for _, contextList := range contexts {
		for _, context := range contextList {
			lower := strings.ToLower(context)
			for _, pattern := range sitewidePatterns {
				if pattern.MatchString(lower) {
					return true
				}
			}
		}
	}
	return false
}

// ExtractSaleEndDate returns the raw sale-end phrase from the first
// end-date pattern whose match sits outside navigation and newsletter
// regions. Patterns are tried in listed order; returns "" when none match.
// The phrase is not a parsed date.
func (c *PromotionClassifier) ExtractSaleEndDate(doc *Document) string {
	for _, pattern := range endDatePatterns {
		for _, loc := range pattern.FindAllStringIndex(doc.Text(), -1) {
			if !doc.validAt(loc[0]) {
				continue
			}
			phrase := doc.Text()[loc[0]:loc[1]]
			lower := strings.ToLower(phrase)
			if strings.HasPrefix(lower, "sale") || strings.HasPrefix(lower, "offer") {
				if _, rest, found := strings.Cut(phrase, " "); found {
					phrase = rest
				}
			}
			return strings.ToLower(strings.TrimSpace(phrase))
		}
	}
	return ""
}

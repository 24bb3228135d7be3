// -----------------------------------------------------------------------
// Outcome Classifier - the y-label rule cascade
// -----------------------------------------------------------------------

package promo

import (
	"regexp"
	"strings"

	"github.com/ternarybob/vendo/internal/models"
)

var stripPercentOffRe = regexp.MustCompile(`\d+%\s*off`)

// IsMajorSale decides whether the evidence justifies labeling a snapshot a
// true promotional sale day (y=1). Each step short-circuits on true; single
// weak signals are insufficient, corroboration across at least two signal
// families is required.
func IsMajorSale(record models.PromotionRecord, brand string) bool {
	full := record.KeywordContexts.Concatenated()

	// 1. A sitewide claim counts only when corroborated: strip bare "sale"
	// mentions and plain percent-off phrases, and require substantive
	// promotional language to remain.
	if record.IsSitewide {
		residue := bareSaleRe.ReplaceAllString(full, "")
		residue = stripPercentOffRe.ReplaceAllString(residue, "")
		if strings.TrimSpace(residue) != "" {
			return true
		}
	}

	// 2. Named recurring retail events carry strong a-priori weight
	for _, keyword := range outcomeMajorKeywords {
		if strings.Contains(full, keyword) {
			return true
		}
	}
	if brand != "" && strings.Contains(full, strings.ToLower(brand)+" sale") {
		return true
	}

	// 3. Discounts scoped to selected items or a seasonal collection
	for _, pattern := range selectedPatterns {
		if pattern.MatchString(full) {
			return true
		}
	}
	for _, pattern := range seasonalPatterns {
		if pattern.MatchString(full) {
			return true
		}
	}

	// 4. Generic urgency/scope phrasing: require two distinct indicators
	matches := 0
	for _, pattern := range secondaryPatterns {
		if pattern.MatchString(full) {
			matches++
			if matches >= 2 {
				return true
			}
		}
	}

	return false
}

// -----------------------------------------------------------------------
// Noise Filter - context exclusion rules and entry survival policy
// -----------------------------------------------------------------------

package promo

import (
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/vendo/internal/models"
)

// Rejection reasons recorded for the manual-review log
const (
	ReasonSingleContext = "single context"
	ReasonBuyXGetY      = "contains buy-x-get-y pattern"
)

// NoiseFilter removes contexts matching known non-promotional patterns and
// rejects entries left with insufficient signal. Filtering is monotonic: an
// already-filtered context map passes through unchanged.
type NoiseFilter struct {
	minKeywords int
	logger      arbor.ILogger
}

// NewNoiseFilter creates a noise filter. minKeywords is the number of
// distinct surviving keywords an entry needs to stay promotional (the
// source pipeline shipped both 1 and 2; see DESIGN.md).
func NewNoiseFilter(minKeywords int, logger arbor.ILogger) *NoiseFilter {
	if minKeywords < 1 {
		minKeywords = 1
	}
	return &NoiseFilter{minKeywords: minKeywords, logger: logger}
}

// AllowContext reports whether a single context window survives filtering
func (f *NoiseFilter) AllowContext(context string) bool {
	lower := strings.ToLower(context)

	for _, phrase := range excludePhrases {
		if strings.Contains(lower, phrase) {
			return false
		}
	}

	if isMenuNoise(lower) {
		return false
	}

	for _, pattern := range excludePatterns {
		if pattern.MatchString(lower) {
			return false
		}
	}

	return true
}

// isMenuNoise applies the navigation-keyword density rule: a context packed
// with category/navigation terms is a menu fragment, not a promotion. At
// least one non-demographic navigation term must be present; demographic
// terms alone never disqualify.
func isMenuNoise(lower string) bool {
	navCount := 0
	for _, term := range navTerms {
		if strings.Contains(lower, term) {
			navCount++
		}
	}
	demographicCount := 0
	for _, term := range demographicTerms {
		if strings.Contains(lower, term) {
			demographicCount++
		}
	}
	return navCount+demographicCount >= navDensityThreshold && navCount >= 1
}

// FilterContexts removes excluded contexts and drops keywords whose context
// list becomes empty
func (f *NoiseFilter) FilterContexts(contexts models.KeywordContexts) models.KeywordContexts {
	filtered := make(models.KeywordContexts)
	for keyword, contextList := range contexts {
		var kept []string
		for _, context := range contextList {
			if f.AllowContext(context) {
				kept = append(kept, context)
			}
		}
		if len(kept) > 0 {
			filtered[keyword] = kept
		}
	}
	return filtered
}

// FilterEntry applies context filtering plus the entry-level survival
// policy. Entries that do not survive are returned as a RejectedEntry with
// an attributed reason for manual review; surviving entries return the
// filtered context map.
func (f *NoiseFilter) FilterEntry(timestamp, url string, contexts models.KeywordContexts) (models.KeywordContexts, *models.RejectedEntry) {
	if len(contexts) < f.minKeywords {
		return nil, &models.RejectedEntry{
			Timestamp:      timestamp,
			URL:            url,
			ReasonFiltered: ReasonSingleContext,
			PromoContexts:  contexts,
		}
	}

	filtered := f.FilterContexts(contexts)
	if len(filtered) < f.minKeywords {
		if f.logger != nil {
			f.logger.Debug().
				Str("timestamp", timestamp).
				Int("keywords_before", len(contexts)).
				Int("keywords_after", len(filtered)).
				Msg("Entry rejected by noise filter")
		}
		return nil, &models.RejectedEntry{
			Timestamp:      timestamp,
			URL:            url,
			ReasonFiltered: ReasonBuyXGetY,
			PromoContexts:  contexts,
		}
	}

	return filtered, nil
}

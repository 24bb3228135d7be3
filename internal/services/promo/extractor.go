// -----------------------------------------------------------------------
// Context Extractor - keyword occurrence search with structural suppression
// -----------------------------------------------------------------------

package promo

import (
	"regexp"
	"strings"
	"sync"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/vendo/internal/models"
)

// ContextExtractor finds keyword occurrences in a snapshot's visible text
// and captures a bounded context window around each one. Occurrences whose
// text node sits inside a navigation or newsletter region are dropped.
type ContextExtractor struct {
	window  int
	logger  arbor.ILogger
	mu      sync.Mutex
	literal map[string]*regexp.Regexp
}

// NewContextExtractor creates a context extractor with the given window size
// (bytes captured either side of a match)
func NewContextExtractor(window int, logger arbor.ILogger) *ContextExtractor {
	return &ContextExtractor{
		window:  window,
		logger:  logger,
		literal: make(map[string]*regexp.Regexp),
	}
}

// keywordPattern returns the search pattern for a keyword. The bare "sale"
// keyword and any "% off" phrase match a broader lexical form than the
// keyword literal; everything else matches case-insensitively verbatim.
func (e *ContextExtractor) keywordPattern(keyword string) *regexp.Regexp {
	lower := strings.ToLower(keyword)
	if lower == "sale" {
		return bareSaleRe
	}
	if strings.Contains(lower, "% off") {
		return percentOffRe
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	re, ok := e.literal[lower]
	if !ok {
		re = regexp.MustCompile(`(?i)` + regexp.QuoteMeta(keyword))
		e.literal[lower] = re
	}
	return re
}

// Extract returns every surviving context window for one keyword, in
// document order. An empty slice means the keyword should be omitted.
func (e *ContextExtractor) Extract(doc *Document, keyword string) []string {
	// The broader lexical patterns only apply once the keyword itself is
	// present; "30%off" without a space does not open the "% off" branch.
	if !strings.Contains(strings.ToLower(doc.Text()), strings.ToLower(keyword)) {
		return nil
	}
	pattern := e.keywordPattern(keyword)

	var contexts []string
	for _, loc := range pattern.FindAllStringIndex(doc.Text(), -1) {
		if !doc.validAt(loc[0]) {
			continue
		}
		if excerpt := doc.window(loc[0], loc[1], e.window); excerpt != "" {
			contexts = append(contexts, excerpt)
		}
	}
	return contexts
}

// ExtractAll runs the keyword pass over a document and returns the context
// map. Keywords with zero surviving contexts are omitted entirely.
func (e *ContextExtractor) ExtractAll(doc *Document, keywords []string) models.KeywordContexts {
	found := make(models.KeywordContexts)
	for _, keyword := range keywords {
		if contexts := e.Extract(doc, keyword); len(contexts) > 0 {
			found[keyword] = contexts
		}
	}

	if e.logger != nil && len(found) > 0 {
		e.logger.Debug().
			Int("keywords", len(found)).
			Msg("Keyword contexts extracted")
	}
	return found
}

// -----------------------------------------------------------------------
// Event/Discount Resolver - canonical event and discount labeling
// -----------------------------------------------------------------------

package promo

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/ternarybob/vendo/internal/models"
)

var (
	upToDiscountRe = regexp.MustCompile(`up\s+to\s+(\d+)%\s+off`)
	plainDiscountRe = regexp.MustCompile(`(\d+)%\s+off`)
)

// Resolve maps surviving contexts to a canonical event label and discount
// label. Either may be empty.
func Resolve(contexts models.KeywordContexts, brand string) models.ResolvedEvent {
	return models.ResolvedEvent{
		EventName:     ResolveEvent(contexts, brand),
		DiscountLabel: ResolveDiscount(contexts),
	}
}

// ResolveEvent returns the canonical event name for a context map.
// Resolution order: priority keywords checked against the keyword set
// itself, then the ordered major-sale list against concatenated context
// text, then the seasonal pair, then the brand-specific generic sale.
// First match wins; "" means no identifiable named event.
func ResolveEvent(contexts models.KeywordContexts, brand string) string {
	for _, priority := range priorityEvents {
		for keyword := range contexts {
			if strings.EqualFold(keyword, priority.Keyword) {
				return priority.Title
			}
		}
	}

	full := contexts.Concatenated()

	for _, keyword := range majorSaleKeywords {
		if strings.Contains(full, keyword) {
			return titleCase(keyword)
		}
	}

	if strings.Contains(full, "summer sale") || strings.Contains(full, "winter sale") {
		return "Summer/Winter Sale"
	}

	if brand != "" && strings.Contains(full, strings.ToLower(brand)+" sale") {
		return "Generic Sale"
	}

	return ""
}

// ResolveDiscount returns the canonical discount label for a context map.
// "up to N% off" phrasing wins with the maximum observed percentage;
// otherwise the most frequently observed plain percentage is used, ties
// broken by first encounter.
func ResolveDiscount(contexts models.KeywordContexts) string {
	full := contexts.Concatenated()

	if matches := upToDiscountRe.FindAllStringSubmatch(full, -1); len(matches) > 0 {
		max := 0
		for _, m := range matches {
			if v, err := strconv.Atoi(m[1]); err == nil && v > max {
				max = v
			}
		}
		return fmt.Sprintf("up to %d%% off", max)
	}

	matches := plainDiscountRe.FindAllStringSubmatch(full, -1)
	if len(matches) == 0 {
		return ""
	}

	counts := make(map[int]int)
	var order []int
	for _, m := range matches {
		v, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if counts[v] == 0 {
			order = append(order, v)
		}
		counts[v]++
	}
	if len(order) == 0 {
		return ""
	}

	best := order[0]
	for _, v := range order[1:] {
		if counts[v] > counts[best] {
			best = v
		}
	}
	return fmt.Sprintf("%d%% off", best)
}

// titleCase capitalizes the first letter of each space-separated word
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

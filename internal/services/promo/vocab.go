// -----------------------------------------------------------------------
// Vocabulary - static keyword, exclusion and event tables
// -----------------------------------------------------------------------

package promo

import (
	"regexp"
)

// PromoKeywords is the keyword set searched for in every snapshot. The bare
// "sale" and "% off" entries receive broader regex treatment in the
// extractor; everything else is a literal substring match.
var PromoKeywords = []string{
	"sale", "% off", "discount", "savings",
	"black friday", "cyber monday",
	"summer sale", "winter sale",
	"flash sale", "eofy", "end of financial year",
	"end of season", "afterpay day",
	"boxing day", "back to school sale",
	"promotion", "clearance", "march madness",
	"sale price", "international women's day",
	"singles day", "% off everything", "sitewide",
	"everything must go",
}

// Broad lexical patterns for the two specially-treated keywords
var (
	bareSaleRe   = regexp.MustCompile(`(?i)\bsale\b`)
	percentOffRe = regexp.MustCompile(`(?i)\d+\s*%\s*off`)
)

// excludePhrases are literal substrings that disqualify a context window:
// customer-segment discounts, referral programs, composition-percentage
// false positives, first-order incentives, sweepstakes and archive-tool
// boilerplate.
var excludePhrases = []string{
	"student discount",
	"military discount",
	"veterans discount",
	"pay with afterpay",
	"afterpay, pay",
	"10% student",
	"10% military",
	"10% veterans",
	"refer a friend to earn",
	"100% composed of",
	"100% made of",
	"% off your first order",
	"% off when you",
	"for a chance to win",
	"wayback machine",
	"web archive",
}

// excludePatterns disqualify contexts that describe bundle offers, signup
// incentives, membership-exclusive deals, download-gated offers and
// spend-threshold promotions rather than a genuine storewide sale.
var excludePatterns = []*regexp.Regexp{
	regexp.MustCompile(`buy\s*\d+[^.]*get\s*\d+`),
	regexp.MustCompile(`buy\s*(?:\d+|two|three|four|five)\s*(?:or\s*more)?[^.]*get\s*\d+%?\s*off`),
	regexp.MustCompile(`buy\s*(?:\d+|two|three|four|five)\s*(?:or\s*more)?[^.]*and\s*(?:get|receive)\s*\d+%?\s*off`),
	regexp.MustCompile(`grab\s*(?:\d+|two|three|four|five)\s*(?:or\s*more)?[^.]*get\s*\d+%?\s*off`),
	regexp.MustCompile(`buy\s*(?:\d+|two|three|four|five)\s*(?:or\s*more)?\s*(?:of|pieces?|items?|[a-zA-Z\s]+(?:leggings?|shorts?|tops?))[^.]*get\s*\d+%?\s*off`),
	regexp.MustCompile(`buy\s*\d+[^.]*\d+%\s*off`),
	regexp.MustCompile(`buy\s*one[^.]*get\s*one`),
	regexp.MustCompile(`b[uy]{2}g[o]{2}`),
	regexp.MustCompile(`\d+\s*for\s*\d+`),
	regexp.MustCompile(`sign\s*up[^.]*\d+%\s*off`),
	regexp.MustCompile(`join[^.]*\d+%\s*off`),
	regexp.MustCompile(`subscribe[^.]*\d+%\s*off`),
	regexp.MustCompile(`newsletter.*(?:discount|deal|offer|saving)`),
	regexp.MustCompile(`(?:discount|deal|offer|saving).*newsletter`),
	regexp.MustCompile(`(?:exclusive|special)\s+(?:discount|deal|offer|saving).*(?:member|membership)`),
	regexp.MustCompile(`(?:member|membership).*(?:exclusive|special)\s+(?:discount|deal|offer|saving)`),
	regexp.MustCompile(`download.*(?:discount|deal|offer|saving)`),
	regexp.MustCompile(`(?:discount|deal|offer|saving).*download`),
	regexp.MustCompile(`\d+%\s*off.*(?:next|first)\s*(?:order|purchase)`),
	regexp.MustCompile(`(?:sign|signed)\s*(?:up|me up).*(?:discount|off|news)`),
	regexp.MustCompile(`(?:free|complimentary)\s*shipping.*(?:orders?\s*(?:over|above)?\s*[\$£€]?\d+)`),
	regexp.MustCompile(`\d+%\s*off\s*[+&]\s*free\s*shipping`),
	regexp.MustCompile(`(?:exclusive|latest)\s*(?:discounts?|news|offers?).*(?:sign|email)`),
	regexp.MustCompile(`(?:want|get)\s*(?:emails|news|updates).*(?:\d+%\s*off)`),
	regexp.MustCompile(`(?:sign|subscribe).*(?:emails?|newsletter).*(?:read|updates?)`),
	// Spend-threshold offers. The bounded variant only matches when the
	// threshold sits within a short span of the trigger, so unrelated
	// sentences far apart in a context do not combine into a match.
	regexp.MustCompile(`(?:orders?|purchases?|spend)\s*(?:over|above)?\s*[\$£€]\d+`),
	regexp.MustCompile(`(?:orders?|purchases?|spend).{0,40}?(?:over|above)\s*[\$£€]?\d+`),
	regexp.MustCompile(`\d+%\s*off.*(?:orders?|purchases?).*(?:over|above)?\s*[\$£€]?\d+`),
}

// navTerms is the navigation/category vocabulary for the menu-noise density
// rule. Demographic terms are counted separately: a context is menu noise
// only when the combined count reaches navDensityThreshold AND at least one
// non-demographic term is present.
var navTerms = []string{
	"gift card",
	"e-gift card",
	"products",
	"accessories",
	"all sale",
	"best sellers",
	"gifts for him",
	"gifts for her",
	"trending",
	"products under",
	"new arrivals",
	"shop all",
	"shop sale",
	"view all",
}

var demographicTerms = []string{
	"womens", "women's", "mens", "men's",
	"shop womens", "shop mens",
	"womens sale", "mens sale",
	"new womens", "new mens",
	"all womens", "all mens",
	"kids", "unisex",
}

const navDensityThreshold = 3

// sitewidePatterns mark a context as claiming a storewide promotion
var sitewidePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\d+%\s+off\s+everything`),
	regexp.MustCompile(`everything\s+\d+%\s+off`),
	regexp.MustCompile(`black friday`),
	regexp.MustCompile(`cyber monday`),
	regexp.MustCompile(`sitewide`),
	regexp.MustCompile(`no exclusions`),
	regexp.MustCompile(`all products`),
	regexp.MustCompile(`everything must go`),
}

// priorityEvents map keywords (checked against the keyword SET, not context
// text) straight to a canonical event title. First match wins in list order.
var priorityEvents = []struct {
	Keyword string
	Title   string
}{
	{"black friday", "Black Friday"},
	{"cyber monday", "Cyber Monday"},
	{"boxing day", "Boxing Day"},
}

// majorSaleKeywords are named recurring retail events scanned for in
// concatenated context text, in priority order. Matches are returned
// title-cased.
var majorSaleKeywords = []string{
	"black friday", "cyber monday", "afterpay day", "boxing day",
	"flash sale", "singles day", "international womens day",
	"end of season", "mid season", "eofy", "end of financial year",
	"birthday sale", "blackout", "labour day", "labor day",
	"4th of july", "fourth of july", "hauliday",
	"friends and family", "outlet sale",
}

// outcomeMajorKeywords is the major-event list used by the y-label cascade.
// It extends majorSaleKeywords with the seasonal pair, which the event
// resolver handles separately.
var outcomeMajorKeywords = append([]string{
	"summer sale", "winter sale",
}, majorSaleKeywords...)

// selectedPatterns detect discounts scoped to selected/sale items
var selectedPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:up\s+to\s+)?\d+%\s+off\s+(?:selected|sale)\s+(?:lines|items|styles)`),
	regexp.MustCompile(`(?:selected|sale)\s+(?:lines|items|styles).*\d+%\s+off`),
	regexp.MustCompile(`save\s+(?:up\s+to\s+)?\d+%\s+on\s+(?:selected|sale)`),
	regexp.MustCompile(`extra\s+\d+%\s+off\s+(?:selected|sale)`),
}

// seasonalPatterns detect seasonal-collection discounts
var seasonalPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:spring|summer|autumn|fall|winter)\s+(?:fits|essentials)`),
	regexp.MustCompile(`\d+%\s+off\s+(?:spring|summer|autumn|fall|winter)\s+(?:fits|essentials|collection|styles)`),
	regexp.MustCompile(`(?:spring|summer|autumn|fall|winter)\s+(?:collection|styles).*\d+%\s+off`),
}

// secondaryPatterns is the broad urgency/scope pattern family for the final
// cascade step. Two or more distinct matches are required; a single hit is
// treated as incidental.
var secondaryPatterns = []*regexp.Regexp{
	regexp.MustCompile(`extra\s+\d+%?\s+off\s+all`),
	regexp.MustCompile(`\d+%\s+off\s+everything`),
	regexp.MustCompile(`off\s+all\s+(?:sale\s+)?styles`),
	regexp.MustCompile(`(?:biggest|major|massive)\s+(?:sale|savings?|discount)`),
	regexp.MustCompile(`up\s+to\s+\d+%\s+off`),
	regexp.MustCompile(`save\s+up\s+to\s+\d+%`),
	regexp.MustCompile(`ends?\s+(?:today|tomorrow|soon|midnight)`),
	regexp.MustCompile(`last\s+(?:day|chance|call)`),
	regexp.MustCompile(`\d+\s+(?:hours|days)\s+(?:only|left)`),
	regexp.MustCompile(`limited\s+time\s+(?:only|offer)`),
	regexp.MustCompile(`everything\s+(?:is\s+)?(?:on\s+)?sale`),
	regexp.MustCompile(`site\s*wide\s+discount`),
	regexp.MustCompile(`(?:huge|mega|special|exclusive)\s+(?:sale|savings|discount|offer)`),
	regexp.MustCompile(`(?:today|weekend|week)\s+only`),
	regexp.MustCompile(`final\s+(?:hours|days|chance|clearance)`),
	regexp.MustCompile(`(?:hurry|shop)\s+(?:now|before|while)`),
	regexp.MustCompile(`minimum\s+\d+%\s+off`),
	regexp.MustCompile(`at\s+least\s+\d+%\s+off`),
	regexp.MustCompile(`save\s+(?:big|more|extra)`),
	regexp.MustCompile(`further\s+reductions?`),
	regexp.MustCompile(`(?:clearance|outlet)\s+(?:sale|event)`),
	regexp.MustCompile(`(?:vip|members?)\s+(?:sale|event|preview)`),
	regexp.MustCompile(`(?:season|holiday)\s+(?:sale|savings)`),
	regexp.MustCompile(`don'?t\s+miss\s+(?:out|this)`),
	regexp.MustCompile(`prices\s+slashed`),
	regexp.MustCompile(`biggest\s+(?:deals?|savings?)\s+(?:of|ever)`),
	regexp.MustCompile(`ending\s+(?:soon|tonight|tomorrow)`),
	regexp.MustCompile(`final\s+(?:sale|markdowns?|reductions?)`),
	regexp.MustCompile(`last\s+(?:chance|opportunity)`),
	regexp.MustCompile(`while\s+stocks?\s+lasts?`),
	regexp.MustCompile(`across\s+(?:the\s+)?(?:site|store)`),
	regexp.MustCompile(`(?:store|site)\s*wide\s+savings`),
	regexp.MustCompile(`all\s+(?:items?|products?)\s+(?:reduced|discounted)`),
}

// navIndicators are class/id/role tokens marking navigation landmarks,
// searched up to navAncestorDepth levels above a text node
var navIndicators = []string{
	"main-nav",
	"primary-nav",
	"site-nav",
	"navbar",
	"main-menu",
	"primary-menu",
	"navigation-menu",
}

const navAncestorDepth = 3

// newsletterIndicators are class/id tokens marking newsletter/signup
// widgets, searched with unbounded ancestor depth
var newsletterIndicators = []string{
	"newsletter", "subscribe", "signup", "form", "mailing",
	"contact-bar", "contact-form", "email-signup", "popup",
}

// Sale-end-date extraction. Patterns are tried in order; the first match
// whose text node sits outside navigation and newsletter regions wins.
const (
	timeOfDayPart = `(?:\s+at)?\s*(?:\d{1,2}(?::\d{2})?\s*(?:am|pm|a\.m\.|p\.m\.))?`
	timezonePart  = `(?:\s+[A-Z]{2,4}T)?(?:\s+[A-Z]{3})?`
	monthPart     = `(?:Jan(?:uary)?|Feb(?:ruary)?|Mar(?:ch)?|Apr(?:il)?|May|Jun(?:e)?|Jul(?:y)?|Aug(?:ust)?|Sep(?:tember)?|Oct(?:ober)?|Nov(?:ember)?|Dec(?:ember)?)`
)

var endDatePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)extended\s+(?:until|to)\s+(\w+day` + timeOfDayPart + timezonePart + `)`),
	regexp.MustCompile(`(?i)extended\s+(?:until|to)\s+(\d{1,2}(?:st|nd|rd|th)?\s+` + monthPart + `(?:\s+\d{4})?` + timeOfDayPart + timezonePart + `)`),
	regexp.MustCompile(`(?i)extended\s+(?:until|to)\s+(\d{1,2}[/-]\d{1,2}(?:[/-]\d{2,4})?` + timeOfDayPart + timezonePart + `)`),
	regexp.MustCompile(`(?i)(?:sale\s+)?ends?\s+(?:on\s+)?(\w+day` + timeOfDayPart + timezonePart + `)`),
	regexp.MustCompile(`(?i)(?:sale\s+)?ends?\s+(?:on\s+)?(\d{1,2}(?:st|nd|rd|th)?\s+` + monthPart + `(?:\s+\d{4})?` + timeOfDayPart + timezonePart + `)`),
	regexp.MustCompile(`(?i)(?:sale\s+)?ends?\s+(?:on\s+)?(\d{1,2}[/-]\d{1,2}(?:[/-]\d{2,4})?` + timeOfDayPart + timezonePart + `)`),
	regexp.MustCompile(`(?i)(?:sale\s+)?ends?\s+(?:on\s+)?(\w+\s+day` + timeOfDayPart + timezonePart + `)`),
	regexp.MustCompile(`(?i)(?:sale\s+)?ends?\s+(?:at\s+)?(\d{1,2}(?::\d{2})?\s*(?:am|pm|a\.m\.|p\.m\.)` + timezonePart + `)`),
	regexp.MustCompile(`(?i)offer\s+ends?\s+(?:on\s+)?(\w+day` + timeOfDayPart + timezonePart + `)`),
	regexp.MustCompile(`(?i)offer\s+ends?\s+(?:on\s+)?(\d{1,2}(?:st|nd|rd|th)?\s+` + monthPart + `(?:\s+\d{4})?` + timeOfDayPart + timezonePart + `)`),
}

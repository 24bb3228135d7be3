package instagram

import (
	"encoding/csv"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/ternarybob/vendo/internal/services/promo"
)

// saleKeywords flag a caption as sale-related. Matched as regexes so
// "% off" tolerates an intervening digit run boundary.
var saleKeywords = []*regexp.Regexp{
	regexp.MustCompile(`sale`),
	regexp.MustCompile(`discount`),
	regexp.MustCompile(`% off`),
	regexp.MustCompile(`clearance`),
	regexp.MustCompile(`deal`),
	regexp.MustCompile(`code`),
	regexp.MustCompile(`promotion`),
	regexp.MustCompile(`promo`),
	regexp.MustCompile(`offer`),
}

const monthNames = `January|February|March|April|May|June|July|August|September|October|November|December`

var (
	monthDayRe  = regexp.MustCompile(`\b(` + monthNames + `) (\d{1,2})(?:st|nd|rd|th)?\b`)
	dayMonthRe  = regexp.MustCompile(`\b(\d{1,2})(?:st|nd|rd|th)? (` + monthNames + `)\b`)
	numericRe   = regexp.MustCompile(`\b\d{1,2}[/-]\d{1,2}[/-]\d{2,4}\b`)
	discountRe  = regexp.MustCompile(`\b\d+% off\b`)
	monthByName = map[string]time.Month{}
)

func init() {
	for m := time.January; m <= time.December; m++ {
		monthByName[m.String()] = m
	}
}

// SalePost is one analyzed caption row for the sales export
type SalePost struct {
	Caption      string
	PostDate     string // DD-MM-YYYY, empty when the export timestamp was unusable
	SaleDate     string // DD-MM-YYYY, empty when no date was found in the caption
	SaleDiscount string // e.g. "40%", empty when none found
	IsSalePost   bool
	Brand        string
}

// AnalyzePosts flags sale-related captions and extracts the announced sale
// date and discount from each.
func AnalyzePosts(posts []Post, brand string) []SalePost {
	result := make([]SalePost, 0, len(posts))
	for _, post := range posts {
		row := SalePost{
			Caption:    post.Caption,
			IsSalePost: isSalePost(post.Caption),
			Brand:      brand,
		}

		postedAt, hasPostDate := post.PostedAt()
		if hasPostDate {
			row.PostDate = postedAt.Format("02-01-2006")
		}

		if row.IsSalePost {
			row.SaleDate = extractSaleDate(post.Caption, postedAt, hasPostDate)
			if match := discountRe.FindString(post.Caption); match != "" {
				row.SaleDiscount = strings.TrimSuffix(match, " off")
			}
		}
		result = append(result, row)
	}
	return result
}

func isSalePost(caption string) bool {
	lower := strings.ToLower(caption)
	for _, re := range saleKeywords {
		if re.MatchString(lower) {
			return true
		}
	}
	return false
}

// extractSaleDate finds the first announced date in the caption. Month-name
// dates borrow the year from the post date, rolling into the next year when
// a December post announces a January date. Numeric dates resolve day-first
// against the post date.
func extractSaleDate(caption string, postedAt time.Time, hasPostDate bool) string {
	if m := monthDayRe.FindStringSubmatch(caption); m != nil {
		return resolveMonthDate(monthByName[m[1]], m[2], postedAt, hasPostDate)
	}
	if m := dayMonthRe.FindStringSubmatch(caption); m != nil {
		return resolveMonthDate(monthByName[m[2]], m[1], postedAt, hasPostDate)
	}
	if raw := numericRe.FindString(caption); raw != "" {
		if hasPostDate {
			if resolved, ok := promo.ResolveNumericDate(raw, postedAt); ok {
				return resolved.Format("02-01-2006")
			}
		}
		return raw
	}
	return ""
}

func resolveMonthDate(month time.Month, dayStr string, postedAt time.Time, hasPostDate bool) string {
	if !hasPostDate || month == 0 {
		return ""
	}
	year := postedAt.Year()
	if month == time.January && postedAt.Month() == time.December {
		year++
	}
	var day int
	fmt.Sscanf(dayStr, "%d", &day)
	if day < 1 || day > 31 {
		return ""
	}
	date := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if date.Day() != day {
		return ""
	}
	return date.Format("02-01-2006")
}

// WriteSalesCSV writes the analyzed rows in the export layout consumed by
// downstream analysis: caption, post_date, sale_date, sale_discount,
// is_sale_post, brand.
func WriteSalesCSV(path string, rows []SalePost) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create sales export: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write([]string{"caption", "post_date", "sale_date", "sale_discount", "is_sale_post", "brand"}); err != nil {
		return fmt.Errorf("failed to write sales export header: %w", err)
	}
	for _, row := range rows {
		record := []string{
			row.Caption,
			orNA(row.PostDate),
			orNA(row.SaleDate),
			orNA(row.SaleDiscount),
			fmt.Sprintf("%t", row.IsSalePost),
			row.Brand,
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write sales export row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush sales export: %w", err)
	}
	return nil
}

func orNA(value string) string {
	if value == "" {
		return "N/A"
	}
	return value
}

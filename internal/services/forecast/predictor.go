package forecast

import (
	"fmt"
	"regexp"
	"sort"
	"time"

	"github.com/ternarybob/vendo/internal/models"
)

const defaultIntervalDays = 30.0

var discountNumberRe = regexp.MustCompile(`\d+`)

// Prediction is the baseline next-sale estimate. It is deliberately crude:
// the real forecasting happens in the external model fed by FeedWriter.
type Prediction struct {
	NextSaleDate  time.Time
	DiscountLabel string  // e.g. "40%"
	Probability   float64 // clamped to [0, 1]
	Valid         bool
}

// String formats the prediction for log and report output
func (p Prediction) String() string {
	if !p.Valid {
		return "no prediction (insufficient sale history)"
	}
	return fmt.Sprintf("next sale %s, discount %s, probability %.2f",
		p.NextSaleDate.Format("02/01/2006"), p.DiscountLabel, p.Probability)
}

// PredictNextSale estimates the next sale from episode history: mean
// interval between episode starts projects the next date, the modal
// discount is carried over, and the probability compares observed sale
// count against the count the mean interval implies. Episodes without a
// discount still contribute their date. Returns an invalid prediction when
// there are no dated episodes or no labeled discounts.
func PredictNextSale(episodes []models.Episode, now time.Time) Prediction {
	var dates []time.Time
	var discounts []string
	for _, ep := range episodes {
		if !ep.StartDate.IsZero() {
			dates = append(dates, ep.StartDate)
		}
		if ep.Discount != "" {
			if num := discountNumberRe.FindString(ep.Discount); num != "" {
				discounts = append(discounts, num)
			}
		}
	}
	if len(dates) == 0 || len(discounts) == 0 {
		return Prediction{}
	}

	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	avgInterval := defaultIntervalDays
	if len(dates) > 1 {
		total := 0.0
		for i := 1; i < len(dates); i++ {
			total += dates[i].Sub(dates[i-1]).Hours() / 24
		}
		avgInterval = total / float64(len(dates)-1)
	}

	next := dates[len(dates)-1].Add(time.Duration(avgInterval * 24 * float64(time.Hour)))

	probability := 1.0
	if daysSinceFirst := now.Sub(dates[0]).Hours() / 24; daysSinceFirst > 0 && avgInterval > 0 {
		probability = float64(len(dates)) * avgInterval / daysSinceFirst
		if probability > 1.0 {
			probability = 1.0
		}
	}

	return Prediction{
		NextSaleDate:  next,
		DiscountLabel: modalDiscount(discounts) + "%",
		Probability:   probability,
		Valid:         true,
	}
}

// modalDiscount returns the most frequent discount, first encountered
// winning ties
func modalDiscount(discounts []string) string {
	counts := make(map[string]int, len(discounts))
	var order []string
	for _, d := range discounts {
		if counts[d] == 0 {
			order = append(order, d)
		}
		counts[d]++
	}
	best := order[0]
	for _, d := range order[1:] {
		if counts[d] > counts[best] {
			best = d
		}
	}
	return best
}

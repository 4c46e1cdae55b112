package domain

import (
	"math"
	"time"
)

// DurationDays returns the number of billable rental days for a date range.
// Partial days round up, and a same-day rental always bills at least one day.
// Callers validate the range; an inverted range is billed on its absolute span.
func DurationDays(start, end time.Time) int {
	span := end.Sub(start)
	if span < 0 {
		span = -span
	}

	days := int(math.Ceil(span.Hours() / 24))
	if days < 1 {
		days = 1
	}
	return days
}

func ItemTotal(item CartItem) float64 {
	return item.Product.PricePerDay * float64(DurationDays(item.StartDate, item.EndDate)) * float64(item.Quantity)
}

func CartTotal(items []CartItem) float64 {
	var total float64
	for _, item := range items {
		total += ItemTotal(item)
	}
	return total
}

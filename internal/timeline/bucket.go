// Package timeline re-groups the daily finance timeline into chart buckets.
// Buckets cover the requested range exhaustively and without overlap, and
// empty buckets are preserved so charts never show gaps.
package timeline

import (
	"fmt"

	"github.com/netigo/netigo-go/internal/domain"
	"github.com/shopspring/decimal"
)

// Granularity selects the bucket size.
type Granularity string

const (
	Daily   Granularity = "daily"
	Weekly  Granularity = "weekly"
	Monthly Granularity = "monthly"
	Yearly  Granularity = "yearly"
)

// NormalizeGranularity maps period-style strings to a bucket granularity.
// "all" and anything unrecognized bucket monthly.
func NormalizeGranularity(s string) Granularity {
	switch Granularity(s) {
	case Daily, Weekly, Monthly, Yearly:
		return Granularity(s)
	}
	return Monthly
}

// Bucket is one aggregated timeline point. End is the displayed last day,
// clipped so it never exceeds the requested range.
type Bucket struct {
	Start      domain.Date     `json:"start"`
	End        domain.Date     `json:"end"`
	Label      string          `json:"label"`
	Income     decimal.Decimal `json:"income"`
	Expense    decimal.Decimal `json:"expense"`
	Investment decimal.Decimal `json:"investment"`
}

// Build groups the daily points into buckets covering [start, end]
// inclusively. A cursor walks forward from start one bucket span at a
// time (calendar month/year arithmetic, not fixed-size blocks) and stops
// once it passes end, so no trailing empty bucket is emitted. Each daily
// point lands in exactly one bucket; points outside the range are dropped.
func Build(points []domain.TimelinePoint, start, end domain.Date, g Granularity) []Bucket {
	if end.Before(start.Time) {
		return nil
	}

	var buckets []Bucket
	var spans []domain.Date // exclusive end of each bucket's span

	for cursor := start; !cursor.After(end.Time); {
		next := advance(cursor, g)

		dispEnd := next.AddDays(-1)
		if dispEnd.After(end.Time) {
			dispEnd = end
		}

		buckets = append(buckets, Bucket{
			Start:      cursor,
			End:        dispEnd,
			Label:      label(cursor, dispEnd, g),
			Income:     decimal.Zero,
			Expense:    decimal.Zero,
			Investment: decimal.Zero,
		})
		spans = append(spans, next)
		cursor = next
	}

	for _, p := range points {
		for i := range buckets {
			if !p.Date.Before(buckets[i].Start.Time) && p.Date.Before(spans[i].Time) {
				buckets[i].Income = buckets[i].Income.Add(p.Income)
				buckets[i].Expense = buckets[i].Expense.Add(p.Expense)
				buckets[i].Investment = buckets[i].Investment.Add(p.Investment)
				break
			}
		}
	}

	return buckets
}

func advance(cursor domain.Date, g Granularity) domain.Date {
	switch g {
	case Daily:
		return cursor.AddDays(1)
	case Weekly:
		return cursor.AddDays(7)
	case Yearly:
		return domain.Date{Time: cursor.AddDate(1, 0, 0)}
	default: // monthly
		return domain.Date{Time: cursor.AddDate(0, 1, 0)}
	}
}

func label(start, end domain.Date, g Granularity) string {
	switch g {
	case Daily:
		return start.Format("Jan 2")
	case Yearly:
		if start.Year() == end.Year() {
			return fmt.Sprintf("%d", start.Year())
		}
		return fmt.Sprintf("%d-%02d", start.Year(), end.Year()%100)
	default: // weekly, monthly
		return fmt.Sprintf("%s – %s", start.Format("Jan 2"), end.Format("Jan 2"))
	}
}

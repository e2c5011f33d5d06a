// Package report turns flat expense listings into bucketed totals and
// bounded-size message segments.
package report

import (
	"sort"

	"fintrack/internal/core"

	"github.com/shopspring/decimal"
)

// UnknownBucket is the month key used for records whose date could not be
// parsed. They are reported rather than dropped.
const UnknownBucket = "unknown"

// Bucket is a derived grouping of expenses sharing a key, with a running
// total. The key is a month key, a category name, or a display name
// depending on the grouping.
type Bucket struct {
	Key      string
	Month    int
	Year     int
	Expenses []core.Expense
	Total    decimal.Decimal
}

// TotalsForPeriod sums the amounts of records dated exactly in the given
// month and year. No matches yields zero.
func TotalsForPeriod(records []core.Expense, month, year int) decimal.Decimal {
	total := decimal.Zero
	for _, e := range records {
		if e.Date.IsZero() {
			continue
		}
		if e.Date.Month() == month && e.Date.Year() == year {
			total = total.Add(e.Amount)
		}
	}
	return total
}

// TotalsForYear sums the amounts of records dated in the given year.
func TotalsForYear(records []core.Expense, year int) decimal.Decimal {
	total := decimal.Zero
	for _, e := range records {
		if !e.Date.IsZero() && e.Date.Year() == year {
			total = total.Add(e.Amount)
		}
	}
	return total
}

// InPeriod filters records to those dated in the given month and year,
// preserving input order.
func InPeriod(records []core.Expense, month, year int) []core.Expense {
	var out []core.Expense
	for _, e := range records {
		if !e.Date.IsZero() && e.Date.Month() == month && e.Date.Year() == year {
			out = append(out, e)
		}
	}
	return out
}

// GroupByMonth partitions records into MM/YYYY buckets, sorted ascending by
// (year, month). Records with an unparseable date land in the unknown
// bucket, ordered last.
func GroupByMonth(records []core.Expense) []Bucket {
	buckets, index := groupBy(records, func(e core.Expense) string {
		if e.Date.IsZero() {
			return UnknownBucket
		}
		return e.Date.MonthKey()
	})

	for key, i := range index {
		if key == UnknownBucket {
			continue
		}
		buckets[i].Month = buckets[i].Expenses[0].Date.Month()
		buckets[i].Year = buckets[i].Expenses[0].Date.Year()
	}

	sort.SliceStable(buckets, func(i, j int) bool {
		a, b := buckets[i], buckets[j]
		if a.Key == UnknownBucket {
			return false
		}
		if b.Key == UnknownBucket {
			return true
		}
		if a.Year != b.Year {
			return a.Year < b.Year
		}
		return a.Month < b.Month
	})

	return buckets
}

// GroupByCategory groups records by category name, first-occurrence order
// preserved for display.
func GroupByCategory(records []core.Expense) []Bucket {
	buckets, _ := groupBy(records, func(e core.Expense) string { return e.Category })
	return buckets
}

// GroupByContributor groups records by the display name of whoever recorded
// them, first-occurrence order preserved.
func GroupByContributor(records []core.Expense) []Bucket {
	buckets, _ := groupBy(records, func(e core.Expense) string { return e.DisplayName })
	return buckets
}

func groupBy(records []core.Expense, keyOf func(core.Expense) string) ([]Bucket, map[string]int) {
	var buckets []Bucket
	index := make(map[string]int)

	for _, e := range records {
		k := keyOf(e)
		i, ok := index[k]
		if !ok {
			i = len(buckets)
			index[k] = i
			buckets = append(buckets, Bucket{Key: k, Total: decimal.Zero})
		}
		buckets[i].Expenses = append(buckets[i].Expenses, e)
		buckets[i].Total = buckets[i].Total.Add(e.Amount)
	}

	return buckets, index
}

package report

import (
	"fmt"
	"strconv"
	"strings"

	"fintrack/internal/core"
)

// Layout selects the month-report flavor. The two flavors share one
// rendering path and differ only in wording.
type Layout int

const (
	// LayoutMonth is the plain month report used by an explicit /month query.
	LayoutMonth Layout = iota
	// LayoutMonthDetailed is the previous-month report variant.
	LayoutMonthDetailed
)

var monthNames = [...]string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// MonthName returns the English month name, or the number itself when out
// of range.
func MonthName(month int) string {
	if month >= 1 && month <= 12 {
		return monthNames[month-1]
	}
	return strconv.Itoa(month)
}

// FormatLine renders one expense as a report line-item, newline included.
func FormatLine(e core.Expense) string {
	return fmt.Sprintf("%s: %s$ — %s (added by: @%s)\n",
		e.Date.String(), e.Amount.StringFixed(2), e.Category, e.DisplayName)
}

// Renderer produces outbound report segments bounded by the transport's
// message length limit.
type Renderer struct {
	maxLen int
}

func NewRenderer(maxLen int) *Renderer {
	return &Renderer{maxLen: maxLen}
}

// Overview renders the /report response: the current month's line-items in
// bounded segments, then a totals summary covering the previous month, the
// current month, and the year to date.
func (r *Renderer) Overview(records []core.Expense, today core.Date) []string {
	curMonth, curYear := today.Month(), today.Year()
	prevMonth, prevYear := core.PreviousMonth(curMonth, curYear)

	current := InPeriod(records, curMonth, curYear)

	var segments []string
	if len(current) > 0 {
		header := fmt.Sprintf("Your expenses:\n\n== %s %d ==\n", MonthName(curMonth), curYear)
		contHeader := fmt.Sprintf("== %s %d (continued) ==\n", MonthName(curMonth), curYear)
		segments = Chunk(header, contHeader, formatLines(current), r.maxLen)
	} else {
		segments = []string{fmt.Sprintf("Your expenses:\n\nNo expenses found for %s %d.", MonthName(curMonth), curYear)}
	}

	summary := fmt.Sprintf("📊 TOTALS:\n\n"+
		"💰 Spent in %s %d: %s$\n"+
		"💰 Spent in %s %d: %s$\n"+
		"💰 Total spent in %d: %s$",
		MonthName(prevMonth), prevYear, TotalsForPeriod(records, prevMonth, prevYear).StringFixed(2),
		MonthName(curMonth), curYear, TotalsForPeriod(records, curMonth, curYear).StringFixed(2),
		curYear, TotalsForYear(records, curYear).StringFixed(2))

	return append(segments, summary)
}

// Month renders a single month's report: the line-items in bounded
// segments, then the month total with per-category and per-contributor
// breakdowns. The caller handles the empty-records case; records here are
// assumed non-empty and already filtered to the month.
func (r *Renderer) Month(layout Layout, month, year int, records []core.Expense) []string {
	var header, contHeader string
	switch layout {
	case LayoutMonthDetailed:
		header = fmt.Sprintf("📅 Detailed report for %s %d:\n\n", MonthName(month), year)
		contHeader = fmt.Sprintf("📅 %s %d (continued):\n\n", MonthName(month), year)
	default:
		header = fmt.Sprintf("Report for %s %d:\n\n", MonthName(month), year)
		contHeader = fmt.Sprintf("Report for %s %d (continued):\n\n", MonthName(month), year)
	}

	segments := Chunk(header, contHeader, formatLines(records), r.maxLen)

	var b strings.Builder
	fmt.Fprintf(&b, "\n💰 Total for %s %d: %s$\n\n",
		MonthName(month), year, TotalsForPeriod(records, month, year).StringFixed(2))

	b.WriteString("📊 By category:\n")
	for _, bucket := range GroupByCategory(records) {
		fmt.Fprintf(&b, "• %s: %s$\n", bucket.Key, bucket.Total.StringFixed(2))
	}

	b.WriteString("\n👥 By contributor:\n")
	for _, bucket := range GroupByContributor(records) {
		fmt.Fprintf(&b, "• @%s: %s$\n", bucket.Key, bucket.Total.StringFixed(2))
	}

	return append(segments, b.String())
}

func formatLines(records []core.Expense) []string {
	lines := make([]string, len(records))
	for i, e := range records {
		lines[i] = FormatLine(e)
	}
	return lines
}

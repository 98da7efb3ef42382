package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/Veraticus/smartshop/internal/model"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const dateLayout = "2006-01-02"

// RenderExtraction formats a parsed receipt.
func RenderExtraction(r model.ReceiptExtraction) string {
	var b strings.Builder

	store := "unknown store"
	if r.StoreName != nil {
		store = *r.StoreName
	}
	fmt.Fprintf(&b, "%s %s", ReceiptIcon, BoldStyle.Render(store))
	if r.PurchaseDate != nil {
		fmt.Fprintf(&b, "  %s", SubtleStyle.Render(r.PurchaseDate.Format(dateLayout)))
	}
	b.WriteString("\n\n")

	for _, item := range r.Items {
		b.WriteString(renderItem(item))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if r.GrandTotal != nil {
		fmt.Fprintf(&b, "%s %.2f\n", BoldStyle.Render("Total:"), *r.GrandTotal)
	}
	fmt.Fprintf(&b, "%s\n", SubtleStyle.Render(fmt.Sprintf("OCR confidence %.0f%%, %d items", r.Confidence, len(r.Items))))
	return b.String()
}

func renderItem(item model.ParsedItem) string {
	line := fmt.Sprintf("  %s %s", formatQuantity(item.Quantity, item.Unit), item.Name)
	if price, ok := item.Price(); ok {
		line += fmt.Sprintf("  %.2f", price)
	}
	if item.Category != "" {
		line += "  " + SubtleStyle.Render("["+item.Category+"]")
	}
	return line
}

func formatQuantity(qty float64, unit string) string {
	q := fmt.Sprintf("%g", qty)
	if unit == "" || unit == model.UnitPiece {
		return q + "x"
	}
	return q + " " + unit
}

// RenderPurchases lists stored purchases.
func RenderPurchases(purchases []model.PurchaseRecord) string {
	var b strings.Builder
	for _, p := range purchases {
		fmt.Fprintf(&b, "  %s %s  %s", formatQuantity(p.Quantity, p.Unit), p.ItemName, SubtleStyle.Render("["+p.Category+"]"))
		if p.Price != nil {
			fmt.Fprintf(&b, "  %.2f", *p.Price)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// RenderSuggestions formats history-based suggestions grouped by category,
// or the default list when there are none. extra holds model suggestions
// and may be empty.
func RenderSuggestions(groups model.SuggestionGroups, defaults []model.Suggestion, extra []string) string {
	var b strings.Builder

	if groups.Len() == 0 {
		b.WriteString(FormatInfo("Not enough history yet. Popular staples:"))
		b.WriteString("\n")
		for _, s := range defaults {
			fmt.Fprintf(&b, "  • %s %s\n", s.ItemName, SubtleStyle.Render("["+s.Category+"]"))
		}
	} else {
		for _, cat := range groups.Categories() {
			b.WriteString(CategoryStyle.Render(titleCase(cat)))
			b.WriteString("\n")
			for _, s := range groups[cat] {
				fmt.Fprintf(&b, "  • %s %s\n    %s\n",
					s.ItemName,
					SubtleStyle.Render(fmt.Sprintf("(%.0f%%)", s.Confidence*100)),
					SubtleStyle.Render(s.Reason))
			}
		}
	}

	if len(extra) > 0 {
		b.WriteString("\n")
		b.WriteString(CategoryStyle.Render(RobotIcon + " You might also need"))
		b.WriteString("\n")
		for _, name := range extra {
			fmt.Fprintf(&b, "  • %s\n", name)
		}
	}
	return b.String()
}

// RenderStats formats a user's statistics.
func RenderStats(stats *model.UserStats) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Total purchases: %d\n", stats.TotalPurchases)
	fmt.Fprintf(&b, "Unique items:    %d\n", stats.UniqueItems)
	fmt.Fprintf(&b, "Categories:      %d\n", stats.Categories)
	fmt.Fprintf(&b, "Days tracked:    %d\n", stats.DaysTracked)

	if len(stats.TopCategories) > 0 {
		b.WriteString("\n" + BoldStyle.Render("Top categories") + "\n")
		for _, c := range stats.TopCategories {
			fmt.Fprintf(&b, "  %-12s %d\n", c.Name, c.Count)
		}
	}
	if len(stats.TopItems) > 0 {
		b.WriteString("\n" + BoldStyle.Render("Top items") + "\n")
		for _, c := range stats.TopItems {
			fmt.Fprintf(&b, "  %-20s %d\n", c.Name, c.Count)
		}
	}
	return RenderBox(ChartIcon+" Shopping statistics", strings.TrimRight(b.String(), "\n"))
}

// RenderKeywordTable lists categories with their keywords in table order.
func RenderKeywordTable(table model.KeywordTable) string {
	var b strings.Builder
	for _, entry := range table {
		keywords := SubtleStyle.Render("(no keywords)")
		if len(entry.Keywords) > 0 {
			keywords = strings.Join(entry.Keywords, ", ")
		}
		fmt.Fprintf(&b, "%s %s\n", CategoryStyle.Render(entry.Category+":"), keywords)
	}
	return b.String()
}

// RenderReceipts lists stored receipts.
func RenderReceipts(receipts []model.Receipt) string {
	var b strings.Builder
	for _, r := range receipts {
		store := "unknown store"
		if r.StoreName != nil {
			store = *r.StoreName
		}
		total := "-"
		if r.GrandTotal != nil {
			total = fmt.Sprintf("%.2f", *r.GrandTotal)
		}
		fmt.Fprintf(&b, "%s  %s  %s  %s\n",
			r.PurchaseDate.Format(dateLayout),
			TableCellStyle.Render(store),
			total,
			SubtleStyle.Render(r.ID))
	}
	return b.String()
}

// RenderNextTrip formats a predicted shopping day relative to now.
func RenderNextTrip(next, now time.Time) string {
	days := int(next.Sub(truncateDay(now)).Hours() / 24)
	var when string
	switch {
	case days < 0:
		when = fmt.Sprintf("overdue by %d days", -days)
	case days == 0:
		when = "today"
	case days == 1:
		when = "tomorrow"
	default:
		when = fmt.Sprintf("in %d days", days)
	}
	return fmt.Sprintf("%s Next shopping trip: %s (%s)", CartIcon, next.Format(dateLayout), when)
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

var titleCaser = cases.Title(language.English)

func titleCase(s string) string {
	return titleCaser.String(s)
}

// Package report builds the spending summary the dashboard consumes:
// monthly totals and per-category breakdowns over the global aggregate.
package report

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/bankfold/bankfold/internal/model"
)

// MonthTotal is one month's spending.
type MonthTotal struct {
	Month string // "2006-01"
	Total decimal.Decimal
}

// CategoryTotal is one category's spending within a month.
type CategoryTotal struct {
	Category string
	Total    decimal.Decimal
}

// Summary is the aggregate read model.
type Summary struct {
	Months     []MonthTotal
	Categories map[string][]CategoryTotal // keyed by month
	Total      decimal.Decimal
}

// Build filters txns to dates on or after cutoff, defaults blank
// categories to Uncategorized, and totals spending by month and by
// category within each month.
func Build(txns []model.Transaction, cutoff time.Time) Summary {
	monthTotals := make(map[string]decimal.Decimal)
	categoryTotals := make(map[string]map[string]decimal.Decimal)
	total := decimal.Zero

	for _, t := range txns {
		if t.Date.Before(cutoff) {
			continue
		}
		month := t.Date.Format("2006-01")
		category := t.Category
		if category == "" {
			category = model.DefaultCategory
		}

		monthTotals[month] = monthTotals[month].Add(t.Amount)
		if categoryTotals[month] == nil {
			categoryTotals[month] = make(map[string]decimal.Decimal)
		}
		categoryTotals[month][category] = categoryTotals[month][category].Add(t.Amount)
		total = total.Add(t.Amount)
	}

	s := Summary{
		Categories: make(map[string][]CategoryTotal, len(categoryTotals)),
		Total:      total,
	}
	for month, amount := range monthTotals {
		s.Months = append(s.Months, MonthTotal{Month: month, Total: amount})
	}
	sort.Slice(s.Months, func(i, j int) bool { return s.Months[i].Month < s.Months[j].Month })

	for month, byCategory := range categoryTotals {
		var cats []CategoryTotal
		for category, amount := range byCategory {
			cats = append(cats, CategoryTotal{Category: category, Total: amount})
		}
		// Largest spend first; name breaks ties deterministically.
		sort.Slice(cats, func(i, j int) bool {
			if !cats[i].Total.Equal(cats[j].Total) {
				return cats[i].Total.GreaterThan(cats[j].Total)
			}
			return cats[i].Category < cats[j].Category
		})
		s.Categories[month] = cats
	}
	return s
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	monthStyle  = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#5FAFFF", Dark: "#5FAFFF"})
	amountStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#00D787", Dark: "#00D787"})
	dimStyle    = lipgloss.NewStyle().Faint(true)
)

// Render writes the summary as styled terminal text. month limits the
// category breakdown to one month; empty renders every month.
func Render(w io.Writer, s Summary, month string) {
	fmt.Fprintln(w, headerStyle.Render("Monthly spending"))
	if len(s.Months) == 0 {
		fmt.Fprintln(w, dimStyle.Render("  no transactions after cutoff"))
		return
	}

	for _, m := range s.Months {
		fmt.Fprintf(w, "  %s  %s\n",
			monthStyle.Render(m.Month),
			amountStyle.Render(formatAmount(m.Total)),
		)
	}
	fmt.Fprintf(w, "  %s  %s\n", dimStyle.Render("total  "), amountStyle.Render(formatAmount(s.Total)))

	for _, m := range s.Months {
		if month != "" && m.Month != month {
			continue
		}
		fmt.Fprintf(w, "\n%s\n", headerStyle.Render("Categories for "+m.Month))
		for _, c := range s.Categories[m.Month] {
			fmt.Fprintf(w, "  %-24s %s\n", c.Category, amountStyle.Render(formatAmount(c.Total)))
		}
	}
}

func formatAmount(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

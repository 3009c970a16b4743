// Package renderer renders a rebalance.Report as markdown, as plain
// fixed-width tables, and as a CSV export of the position table.
package renderer

import (
	"bytes"
	"fmt"
	"strings"

	md "github.com/nao1215/markdown"

	"github.com/etnz/rebalance"
)

// ReportMarkdown renders the full report to a markdown string: account
// summary, position table, category balance table and the uncategorized
// ticker warnings.
func ReportMarkdown(r *rebalance.Report) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Robinhood")
	doc.PlainText(fmt.Sprintf("Equity: %s", r.Summary))
	doc.PlainText(fmt.Sprintf("Reserved cash: $%.0f / $%.0f (%.0f%%)",
		r.Summary.Cash.AsFloat(), r.Reserve.AsFloat(), r.ReserveUsage()))

	doc.H1("Positions")
	doc.Table(positionsTableSet(r))

	doc.H1("Portfolio balance")
	doc.Table(balanceTableSet(r))

	if len(r.Uncategorized) > 0 {
		doc.H1("Warnings")
		doc.PlainText(fmt.Sprintf("Some tickers are not categorized: %s",
			strings.Join(r.Uncategorized, ", ")))
	}

	return doc.String()
}

// PositionsMarkdown renders only the position table.
func PositionsMarkdown(r *rebalance.Report) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H1("Positions")
	doc.Table(positionsTableSet(r))
	return doc.String()
}

// BalanceMarkdown renders only the category balance table, with the
// uncategorized warnings that belong to it.
func BalanceMarkdown(r *rebalance.Report) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H1("Portfolio balance")
	doc.Table(balanceTableSet(r))
	if len(r.Uncategorized) > 0 {
		doc.H1("Warnings")
		doc.PlainText(fmt.Sprintf("Some tickers are not categorized: %s",
			strings.Join(r.Uncategorized, ", ")))
	}
	return doc.String()
}

// positionsTableSet builds the position table shared by the markdown and
// plain renderers.
func positionsTableSet(r *rebalance.Report) md.TableSet {
	rows := make([][]string, 0, r.Positions.Len())
	for _, symbol := range r.Positions.Symbols() {
		pos, _ := r.Positions.Get(symbol)
		rows = append(rows, []string{
			pos.Symbol,
			pos.CurrentPrice.Format(2),
			fmt.Sprintf("%+.1f%%", pos.PriceChangeToday),
			pos.TotalValue.Format(2),
			pos.TotalCost.Format(2),
			fmt.Sprintf("%+.1f%%", pos.TotalReturnPercent),
		})
	}
	return md.TableSet{
		Header: []string{"Symbol", "Price", "Change", "Equity", "Cost", "Return"},
		Rows:   rows,
	}
}

// balanceTableSet builds the category allocation table.
func balanceTableSet(r *rebalance.Report) md.TableSet {
	rows := make([][]string, 0, len(r.Allocations))
	for _, a := range r.Allocations {
		rows = append(rows, []string{
			a.Name,
			fmt.Sprintf("%.1f%%", a.Ideal),
			fmt.Sprintf("%.1f%%", a.Actual),
			fmt.Sprintf("%.1f%%", a.Needed),
			strings.Join(a.Tickers, " "),
		})
	}
	return md.TableSet{
		Header: []string{"Category", "Ideal", "Actual", "Needed", "Holdings"},
		Rows:   rows,
	}
}

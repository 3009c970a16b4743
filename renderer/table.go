package renderer

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/etnz/rebalance"
)

// ReportTable renders the report as plain fixed-width tables, for terminals
// or pipes where the markdown rendering is unwanted.
func ReportTable(w io.Writer, r *rebalance.Report) {
	fmt.Fprintln(w, text.Bold.Sprint("ROBINHOOD"))
	fmt.Fprintf(w, "Equity: %s\n", r.Summary)
	fmt.Fprintf(w, "Reserved cash: $%.0f / $%.0f (%.0f%%)\n",
		r.Summary.Cash.AsFloat(), r.Reserve.AsFloat(), r.ReserveUsage())
	fmt.Fprintln(w)

	positions := positionsTableSet(r)
	fmt.Fprintln(w, text.Bold.Sprint("POSITIONS"))
	writeTable(w, positions.Header, positions.Rows, 5)
	fmt.Fprintln(w)

	balance := balanceTableSet(r)
	fmt.Fprintln(w, text.Bold.Sprint("PORTFOLIO BALANCE"))
	writeTable(w, balance.Header, balance.Rows, 3)

	if len(r.Uncategorized) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, text.Bold.Sprint("WARNINGS"))
		fmt.Fprintf(w, "Some tickers are not categorized: %s\n", strings.Join(r.Uncategorized, ", "))
	}
}

// PositionsTable renders only the position table, plain.
func PositionsTable(w io.Writer, r *rebalance.Report) {
	positions := positionsTableSet(r)
	fmt.Fprintln(w, text.Bold.Sprint("POSITIONS"))
	writeTable(w, positions.Header, positions.Rows, 5)
}

// BalanceTable renders only the category balance table, plain.
func BalanceTable(w io.Writer, r *rebalance.Report) {
	balance := balanceTableSet(r)
	fmt.Fprintln(w, text.Bold.Sprint("PORTFOLIO BALANCE"))
	writeTable(w, balance.Header, balance.Rows, 3)

	if len(r.Uncategorized) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, text.Bold.Sprint("WARNINGS"))
		fmt.Fprintf(w, "Some tickers are not categorized: %s\n", strings.Join(r.Uncategorized, ", "))
	}
}

// writeTable prints one go-pretty table. Columns up to rightAligned are
// numeric and right-aligned, the first column always stays left.
func writeTable(w io.Writer, header []string, rows [][]string, rightAligned int) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleColoredDark)
	tw.Style().Options.DrawBorder = false
	tw.Style().Options.SeparateRows = false
	tw.Style().Options.SeparateColumns = false

	hdr := make(table.Row, len(header))
	for i, h := range header {
		hdr[i] = strings.ToUpper(h)
	}
	tw.AppendHeader(hdr)

	cfgs := make([]table.ColumnConfig, 0, rightAligned)
	for i := 2; i <= rightAligned+1; i++ {
		cfgs = append(cfgs, table.ColumnConfig{
			Number:      i,
			Align:       text.AlignRight,
			AlignHeader: text.AlignRight,
		})
	}
	if len(cfgs) > 0 {
		tw.SetColumnConfigs(cfgs)
	}

	for _, row := range rows {
		tr := make(table.Row, len(row))
		for i, cell := range row {
			tr[i] = cell
		}
		tw.AppendRow(tr)
	}
	tw.Render()
}

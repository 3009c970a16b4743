package renderer

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/etnz/rebalance"
)

// csvHeader is the exact header of the positions export.
var csvHeader = []string{"Symbol", "Price", "Change", "Equity", "Cost", "Return"}

// PositionsCSV writes the position table to w as CSV with CRLF line endings.
// Prices carry three fraction digits in the export (two in the on-screen
// table), matching the historical file format downstream spreadsheets expect.
func PositionsCSV(w io.Writer, r *rebalance.Report) error {
	cw := csv.NewWriter(w)
	cw.UseCRLF = true

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("cannot write csv header: %w", err)
	}
	for _, symbol := range r.Positions.Symbols() {
		pos, _ := r.Positions.Get(symbol)
		row := []string{
			pos.Symbol,
			pos.CurrentPrice.Format(3),
			fmt.Sprintf("%.2f%%", pos.PriceChangeToday),
			pos.TotalValue.Format(3),
			pos.TotalCost.Format(3),
			fmt.Sprintf("%.2f%%", pos.TotalReturnPercent),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("cannot write csv row for %s: %w", pos.Symbol, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

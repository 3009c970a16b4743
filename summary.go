package rebalance

import "fmt"

// PortfolioRecord is the raw account snapshot as returned by the brokerage.
// Amounts are numeric strings, exactly as they appear on the wire.
type PortfolioRecord struct {
	Equity                      string
	AdjustedEquityPreviousClose string
	MarketValue                 string
}

// Summary is the normalized portfolio snapshot: total equity, cash on hand,
// and the derived day-change and cash ratios. It is computed once from a
// single PortfolioRecord and never mutated; call NewSummary again on a fresh
// record to refresh.
type Summary struct {
	Equity              Money
	EquityPreviousClose Money
	Cash                Money // equity minus invested market value

	// EquityChangeToday is (equity - previous close) / previous close, as a
	// fraction. A zero previous close yields ±Inf or NaN; the input is known
	// fragile and deliberately not guarded.
	EquityChangeToday float64

	// CashPercentage is cash / equity, as a fraction. Same caveat for a zero
	// equity.
	CashPercentage float64
}

// NewSummary computes a Summary from a raw brokerage record.
func NewSummary(rec PortfolioRecord) (Summary, error) {
	equity, err := ParseMoney(rec.Equity)
	if err != nil {
		return Summary{}, fmt.Errorf("portfolio equity: %w", err)
	}
	previous, err := ParseMoney(rec.AdjustedEquityPreviousClose)
	if err != nil {
		return Summary{}, fmt.Errorf("portfolio previous close: %w", err)
	}
	marketValue, err := ParseMoney(rec.MarketValue)
	if err != nil {
		return Summary{}, fmt.Errorf("portfolio market value: %w", err)
	}

	cash := equity.Sub(marketValue)
	return Summary{
		Equity:              equity,
		EquityPreviousClose: previous,
		Cash:                cash,
		EquityChangeToday:   equity.Sub(previous).AsFloat() / previous.AsFloat(),
		CashPercentage:      cash.AsFloat() / equity.AsFloat(),
	}, nil
}

// String renders the one-line account summary,
// e.g. "$12345.67 +1.2%; $2345.67 (19%) cash".
func (s Summary) String() string {
	return fmt.Sprintf("$%.2f %+.1f%%; $%.2f (%.0f%%) cash",
		s.Equity.AsFloat(),
		s.EquityChangeToday*100,
		s.Cash.AsFloat(),
		s.CashPercentage*100,
	)
}

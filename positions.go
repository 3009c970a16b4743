package rebalance

import (
	"errors"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
)

// PositionRecord is a raw held position as returned by the brokerage.
// Instrument is an opaque reference to be resolved through the Brokerage.
type PositionRecord struct {
	Quantity        string
	AverageBuyPrice string
	Instrument      string
}

// InstrumentRecord resolves an instrument reference to its symbol and name.
type InstrumentRecord struct {
	Symbol     string
	SimpleName string
}

// QuoteRecord is a live quote for a symbol. Prices are numeric strings.
type QuoteRecord struct {
	LastTradePrice string
	PreviousClose  string
}

// Brokerage is the data source the core consumes. Implementations perform
// blocking network calls; transient failures are returned as-is, never
// retried here.
type Brokerage interface {
	Portfolio() (PortfolioRecord, error)
	Positions() ([]PositionRecord, error)
	Instrument(ref string) (InstrumentRecord, error)
	Quote(symbol string) (QuoteRecord, error)
}

// Position is a held ticker enriched with quote data and derived metrics.
type Position struct {
	Symbol          string
	Name            string
	Quantity        decimal.Decimal
	AverageBuyPrice Money
	CurrentPrice    Money
	PreviousClose   Money

	TotalCost         Money // quantity × average buy price
	TotalValue        Money // quantity × current price
	TotalReturnAmount Money // value − cost

	// TotalReturnPercent is the return on cost in percent. It is exactly 0
	// when the cost is 0 (free shares), never NaN.
	TotalReturnPercent float64

	// PriceChangeToday is the move from the previous close in percent.
	PriceChangeToday float64
}

// Positions holds enriched positions keyed by symbol, preserving the order
// the brokerage listed them in. A duplicate symbol replaces the previous
// entry (last write wins) without changing its position in the order.
type Positions struct {
	order    []string
	bySymbol map[string]Position
}

func NewPositions() *Positions {
	return &Positions{bySymbol: make(map[string]Position)}
}

func (p *Positions) add(pos Position) {
	if _, ok := p.bySymbol[pos.Symbol]; !ok {
		p.order = append(p.order, pos.Symbol)
	}
	p.bySymbol[pos.Symbol] = pos
}

// Get returns the position for a symbol, if held.
func (p *Positions) Get(symbol string) (Position, bool) {
	pos, ok := p.bySymbol[symbol]
	return pos, ok
}

// Symbols returns the held symbols in listing order.
func (p *Positions) Symbols() []string { return p.order }

func (p *Positions) Len() int { return len(p.order) }

// EnrichOptions tunes the enrichment pass.
type EnrichOptions struct {
	// Workers bounds the number of concurrent lookups. Values below 2 keep
	// the original sequential behavior.
	Workers int
}

// EnrichPositions fetches the raw positions and resolves each one into a
// Position: instrument lookup for the symbol, quote lookup for prices, then
// the derived cost/value/return figures.
//
// The partial-failure policy is explicit: positions that enrich cleanly are
// always returned, and every failing position contributes one wrapped error
// to the joined error. Callers decide whether a non-nil error aborts the run
// or merely trims the report.
func EnrichPositions(b Brokerage, opts EnrichOptions) (*Positions, error) {
	records, err := b.Positions()
	if err != nil {
		return nil, fmt.Errorf("cannot list positions: %w", err)
	}

	results := make([]Position, len(records))
	errs := make([]error, len(records))

	workers := opts.Workers
	if workers < 2 {
		for i, rec := range records {
			results[i], errs[i] = enrichOne(b, rec)
		}
	} else {
		var wg sync.WaitGroup
		sem := make(chan struct{}, workers)
		for i, rec := range records {
			wg.Add(1)
			go func() {
				defer wg.Done()
				sem <- struct{}{}
				defer func() { <-sem }()
				results[i], errs[i] = enrichOne(b, rec)
			}()
		}
		wg.Wait()
	}

	positions := NewPositions()
	for i := range records {
		if errs[i] == nil {
			positions.add(results[i])
		}
	}
	return positions, errors.Join(errs...)
}

// enrichOne resolves and computes a single position.
func enrichOne(b Brokerage, rec PositionRecord) (Position, error) {
	quantity, err := decimal.NewFromString(rec.Quantity)
	if err != nil {
		return Position{}, fmt.Errorf("position %q: cannot parse quantity %q: %w", rec.Instrument, rec.Quantity, err)
	}
	avgBuy, err := ParseMoney(rec.AverageBuyPrice)
	if err != nil {
		return Position{}, fmt.Errorf("position %q: average buy price: %w", rec.Instrument, err)
	}

	instrument, err := b.Instrument(rec.Instrument)
	if err != nil {
		return Position{}, fmt.Errorf("position %q: instrument lookup: %w", rec.Instrument, err)
	}
	quote, err := b.Quote(instrument.Symbol)
	if err != nil {
		return Position{}, fmt.Errorf("position %s: quote lookup: %w", instrument.Symbol, err)
	}

	current, err := ParseMoney(quote.LastTradePrice)
	if err != nil {
		return Position{}, fmt.Errorf("position %s: last trade price: %w", instrument.Symbol, err)
	}
	previous, err := ParseMoney(quote.PreviousClose)
	if err != nil {
		return Position{}, fmt.Errorf("position %s: previous close: %w", instrument.Symbol, err)
	}

	cost := avgBuy.MulDec(quantity)
	value := current.MulDec(quantity)
	ret := value.Sub(cost)

	// Free shares have a zero cost; their return is 0% by definition.
	var returnPct float64
	if !cost.IsZero() {
		returnPct = 100 * ret.AsFloat() / cost.AsFloat()
	}

	return Position{
		Symbol:             instrument.Symbol,
		Name:               instrument.SimpleName,
		Quantity:           quantity,
		AverageBuyPrice:    avgBuy,
		CurrentPrice:       current,
		PreviousClose:      previous,
		TotalCost:          cost,
		TotalValue:         value,
		TotalReturnAmount:  ret,
		TotalReturnPercent: returnPct,
		PriceChangeToday:   100 * current.Sub(previous).AsFloat() / previous.AsFloat(),
	}, nil
}

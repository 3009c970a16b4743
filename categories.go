package rebalance

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"
)

// Sentinel values recognized in the first cell of a configuration row.
const (
	markerCategory = "Category"
	markerTicker   = "Stock ticker"

	settingReservedCash = "Reserved cash amount"

	// CashTicker is the reserved pseudo-ticker that maps the deployable cash
	// to a category instead of a live position.
	CashTicker = "Cash"
)

// Category is a named target-allocation bucket.
type Category struct {
	Name       string
	Allocation float64   // target weight in percent, 0-100
	Tickers    []*Ticker // tickers declaring membership, in declaration order
}

// Ticker is a stock symbol (or the reserved "Cash" literal) together with the
// names of the categories it belongs to. A ticker in more than one category
// has its value split evenly between them.
type Ticker struct {
	Name       string
	Categories []string
}

// Categories is a parsed configuration: target categories, ticker
// memberships, and the reserved cash amount. It is immutable once built;
// re-parse the source to pick up edits.
type Categories struct {
	ordered []*Category
	byName  map[string]*Category
	tickers map[string]*Ticker
	reserve Money
}

// All returns the categories in declaration order.
func (c *Categories) All() []*Category { return c.ordered }

// MinimumCash returns the reserved cash amount the user wants set aside.
func (c *Categories) MinimumCash() Money { return c.reserve }

// CategoriesOf returns the category names the given ticker belongs to.
func (c *Categories) CategoriesOf(ticker string) ([]string, error) {
	t, ok := c.tickers[ticker]
	if !ok {
		return nil, &TickerNotFoundError{Ticker: ticker}
	}
	return t.Categories, nil
}

// TickersIn returns the tickers declared under the given category.
func (c *Categories) TickersIn(name string) ([]*Ticker, error) {
	cat, ok := c.byName[name]
	if !ok {
		return nil, &CategoryNotFoundError{Category: name}
	}
	return cat.Tickers, nil
}

// LoadCategories reads a categories CSV from r and parses it.
// Rows may be ragged; trailing empty cells are tolerated.
func LoadCategories(r io.Reader) (*Categories, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("cannot read categories file: %w", err)
	}
	return ParseCategories(rows)
}

// parseState is the current section of the configuration being read.
// The format is three sequential sections: settings, then categories, then
// tickers. Transitions happen on sentinel values in the first cell and are
// never reversed.
type parseState int

const (
	stateSettings parseState = iota
	stateCategories
	stateTickers
)

// ParseCategories parses configuration rows into a Categories value.
//
// Section 1 holds key/value settings ("Reserved cash amount" is the only
// recognized key, and it is required). Section 2 holds (name, percentage)
// category rows. Section 3 holds (ticker, category...) membership rows; every
// referenced category must have been declared in section 2.
func ParseCategories(rows [][]string) (*Categories, error) {
	c := &Categories{
		byName:  make(map[string]*Category),
		tickers: make(map[string]*Ticker),
	}
	var reserveSet bool

	state := stateSettings
	for _, row := range rows {
		row = trimTrailingEmpty(row)
		if len(row) == 0 {
			continue
		}

		// Sentinel cells advance the state machine. The marker row itself
		// carries no data and is consumed, except that once the ticker
		// section has started a row named "Category" is a ticker like any
		// other.
		if row[0] == markerTicker {
			state = stateTickers
			continue
		}
		if row[0] == markerCategory && state != stateTickers {
			state = stateCategories
			continue
		}

		switch state {
		case stateSettings:
			if row[0] != settingReservedCash {
				log.Printf("warning: unrecognized config line %q", row)
				continue
			}
			if len(row) < 2 {
				return nil, &ParseError{Setting: settingReservedCash, Reason: "missing value"}
			}
			// ParseMoney rather than ParseFloat: decimal's parser rejects
			// "NaN" and "Inf", which must fail like any other bad value.
			v, err := ParseMoney(row[1])
			if err != nil {
				return nil, &ParseError{Setting: settingReservedCash, Value: row[1], Reason: "not a number"}
			}
			c.reserve = v
			reserveSet = true

		case stateCategories:
			if len(row) < 2 {
				return nil, &ParseError{Setting: "category " + row[0], Reason: "missing allocation percentage"}
			}
			pct, err := parsePercentage(row[1])
			if err != nil {
				return nil, &ParseError{
					Setting: "category " + row[0],
					Value:   row[1],
					Reason:  "allocation must be a percentage between 0 and 100",
				}
			}
			cat := &Category{Name: row[0], Allocation: pct}
			if old, dup := c.byName[row[0]]; dup {
				// Duplicate declaration: last wins, first position kept.
				for i, existing := range c.ordered {
					if existing == old {
						c.ordered[i] = cat
						break
					}
				}
			} else {
				c.ordered = append(c.ordered, cat)
			}
			c.byName[row[0]] = cat

		case stateTickers:
			t := &Ticker{Name: row[0], Categories: append([]string(nil), row[1:]...)}
			c.tickers[t.Name] = t
			for _, name := range t.Categories {
				cat, ok := c.byName[name]
				if !ok {
					return nil, &CategoryNotFoundError{Category: name}
				}
				cat.Tickers = append(cat.Tickers, t)
			}
		}
	}

	if !reserveSet {
		return nil, &ParseError{Setting: settingReservedCash, Reason: "missing required setting"}
	}
	return c, nil
}

// parsePercentage parses a percentage-formatted cell; a trailing '%' is
// optional and stripped before the numeric parse.
func parsePercentage(s string) (float64, error) {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "%"))
	return strconv.ParseFloat(s, 64)
}

// trimTrailingEmpty removes trailing empty cells from a row. Ragged CSV
// exports pad rows with empty columns; only trailing ones are meaningless.
func trimTrailingEmpty(row []string) []string {
	n := len(row)
	for n > 0 && row[n-1] == "" {
		n--
	}
	return row[:n]
}

package rebalance

import "fmt"

// ParseError reports a malformed value in the categories configuration.
// The run is aborted: no partial configuration is ever returned alongside it.
type ParseError struct {
	Setting string // the setting or section the value belongs to
	Value   string // the offending raw cell value, "" when the value is absent
	Reason  string
}

func (e *ParseError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("invalid configuration: %s: %s", e.Setting, e.Reason)
	}
	return fmt.Sprintf("invalid configuration: %s: %s (found %q)", e.Setting, e.Reason, e.Value)
}

// TickerNotFoundError reports a ticker name absent from the configuration.
type TickerNotFoundError struct {
	Ticker string
}

func (e *TickerNotFoundError) Error() string {
	return fmt.Sprintf("failed to find categories for ticker %q", e.Ticker)
}

// CategoryNotFoundError reports a category name absent from the configuration,
// either queried by a caller or referenced by a ticker row at parse time.
type CategoryNotFoundError struct {
	Category string
}

func (e *CategoryNotFoundError) Error() string {
	return fmt.Sprintf("failed to find category %q", e.Category)
}

package rebalance

import "errors"

// CategoryAllocation is the reconciliation result for one category:
// the user's target weight, the weight actually held, and the delta needed
// to reach the target. All three are percentages of total equity.
type CategoryAllocation struct {
	Name    string
	Ideal   float64
	Actual  float64
	Needed  float64
	Tickers []string // member ticker names, in declaration order
}

// Reconcile joins the configured categories with the enriched positions and
// the account summary, producing one allocation per category in declaration
// order.
//
// A ticker declared in K categories contributes value/K to each of them
// (weight splitting). A configured ticker that is not currently held is
// skipped silently: owning nothing of it is a valid state, not an error.
func Reconcile(cats *Categories, positions *Positions, sum Summary) []CategoryAllocation {
	allocations := make([]CategoryAllocation, 0, len(cats.All()))
	for _, cat := range cats.All() {
		var total Money
		names := make([]string, 0, len(cat.Tickers))
		for _, t := range cat.Tickers {
			names = append(names, t.Name)
			if t.Name == CashTicker {
				total = cashAllocation(sum.Cash, cats.MinimumCash())
				continue
			}
			pos, held := positions.Get(t.Name)
			if !held {
				continue
			}
			total = total.Add(pos.TotalValue.DivInt(len(t.Categories)))
		}

		actual := 100 * total.AsFloat() / sum.Equity.AsFloat()
		allocations = append(allocations, CategoryAllocation{
			Name:    cat.Name,
			Ideal:   cat.Allocation,
			Actual:  actual,
			Needed:  cat.Allocation - actual,
			Tickers: names,
		})
	}
	return allocations
}

// cashAllocation implements the "Cash" pseudo-ticker rule: the deployable
// cash is whatever is on hand above the reserved amount, floored at zero.
//
// The result REPLACES the running category total instead of adding to it, so
// a category mixing "Cash" with real tickers silently drops every real
// contribution accumulated before the pseudo-ticker. That matches the
// original reporter exactly; any fix must be a deliberate behavior change,
// which is why the rule lives in one place.
func cashAllocation(cash, reserve Money) Money {
	deployable := cash.Sub(reserve)
	if deployable.IsNegative() {
		return M(0)
	}
	return deployable
}

// Uncategorized returns the held symbols that have no entry in the
// configuration, in listing order. The per-symbol lookup failure is caught
// here rather than propagated: an unknown ticker is a warning for the end of
// the report, not a reason to stop it.
func Uncategorized(cats *Categories, positions *Positions) []string {
	var missing []string
	for _, symbol := range positions.Symbols() {
		if _, err := cats.CategoriesOf(symbol); err != nil {
			var notFound *TickerNotFoundError
			if errors.As(err, &notFound) {
				missing = append(missing, symbol)
			}
		}
	}
	return missing
}

package rebalance

// Report bundles everything a single reporting run produces: the account
// summary, the enriched positions, the per-category allocations and the
// uncategorized-ticker warnings. Renderers consume this shape.
type Report struct {
	Summary       Summary
	Reserve       Money // the configured reserved cash amount
	Positions     *Positions
	Allocations   []CategoryAllocation
	Uncategorized []string
}

// BuildReport assembles a Report from a parsed configuration, a computed
// summary and enriched positions.
func BuildReport(cats *Categories, sum Summary, positions *Positions) *Report {
	return &Report{
		Summary:       sum,
		Reserve:       cats.MinimumCash(),
		Positions:     positions,
		Allocations:   Reconcile(cats, positions, sum),
		Uncategorized: Uncategorized(cats, positions),
	}
}

// ReserveUsage is cash on hand as a percentage of the reserved amount,
// for the "Reserved cash: $x / $y (z%)" report line. Exceeding 100% means
// there is deployable cash above the reserve.
func (r *Report) ReserveUsage() float64 {
	return 100 * r.Summary.Cash.AsFloat() / r.Reserve.AsFloat()
}

package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/subcommands"

	"github.com/etnz/rebalance"
	"github.com/etnz/rebalance/renderer"
)

// startTimestamp is fixed at program start and used in default filenames.
var startTimestamp = time.Now().Format("060102_150405")

// reportCmd holds the flags for the 'report' subcommand.
type reportCmd struct {
	outputCSV string
	plain     bool
	keepGoing bool
	workers   int
}

func (*reportCmd) Name() string     { return "report" }
func (*reportCmd) Synopsis() string { return "display the full portfolio allocation report" }
func (*reportCmd) Usage() string {
	return `rbl report [-o <file.csv>] [-plain] [-k] [-j <n>]

  Displays the account summary, the position table, the category balance
  table and the uncategorized-ticker warnings, and saves the position table
  as CSV.
`
}

func (c *reportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.outputCSV, "o", fmt.Sprintf("stock_holdings_%s.csv", startTimestamp), "location to save current stock data")
	f.BoolVar(&c.plain, "plain", false, "render plain fixed-width tables instead of markdown")
	f.BoolVar(&c.keepGoing, "k", false, "report the positions that enriched cleanly even if some lookups failed")
	f.IntVar(&c.workers, "j", 4, "number of concurrent quote lookups (1 for sequential)")
}

func (c *reportCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	categories, err := LoadCategories()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	report, status := buildReport(categories, c.workers, c.keepGoing)
	if report == nil {
		return status
	}

	if c.plain {
		renderer.ReportTable(os.Stdout, report)
	} else {
		printMarkdown(renderer.ReportMarkdown(report))
	}

	out, err := os.Create(c.outputCSV)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating %q: %v\n", c.outputCSV, err)
		return subcommands.ExitFailure
	}
	defer out.Close()
	if err := renderer.PositionsCSV(out, report); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing %q: %v\n", c.outputCSV, err)
		return subcommands.ExitFailure
	}

	return status
}

// buildReport fetches and assembles the full report. On enrichment failure
// it returns nil unless keepGoing is set, in which case the partial report
// is returned along with a failure status for the caller to propagate.
func buildReport(categories *rebalance.Categories, workers int, keepGoing bool) (*rebalance.Report, subcommands.ExitStatus) {
	client, err := OpenClient()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return nil, subcommands.ExitFailure
	}

	record, err := client.Portfolio()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return nil, subcommands.ExitFailure
	}
	summary, err := rebalance.NewSummary(record)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return nil, subcommands.ExitFailure
	}

	positions, err := rebalance.EnrichPositions(client, rebalance.EnrichOptions{Workers: workers})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error enriching positions: %v\n", err)
		if !keepGoing || positions == nil {
			return nil, subcommands.ExitFailure
		}
		// keep going with what we have, but exit nonzero
		return rebalance.BuildReport(categories, summary, positions), subcommands.ExitFailure
	}

	return rebalance.BuildReport(categories, summary, positions), subcommands.ExitSuccess
}

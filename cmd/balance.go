package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/etnz/rebalance/renderer"
)

// balanceCmd holds the flags for the 'balance' subcommand.
type balanceCmd struct {
	plain   bool
	workers int
}

func (*balanceCmd) Name() string     { return "balance" }
func (*balanceCmd) Synopsis() string { return "display ideal vs. actual allocation per category" }
func (*balanceCmd) Usage() string {
	return `rbl balance [-plain]

  Displays, for each configured category, the target weight, the weight
  actually held, and the delta needed to reach the target. Held tickers
  missing from the configuration are listed as warnings.
`
}

func (c *balanceCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.plain, "plain", false, "render plain fixed-width tables instead of markdown")
	f.IntVar(&c.workers, "j", 4, "number of concurrent quote lookups (1 for sequential)")
}

func (c *balanceCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	categories, err := LoadCategories()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	report, status := buildReport(categories, c.workers, false)
	if report == nil {
		return status
	}

	if c.plain {
		renderer.BalanceTable(os.Stdout, report)
	} else {
		printMarkdown(renderer.BalanceMarkdown(report))
	}
	return status
}

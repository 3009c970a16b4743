package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/etnz/rebalance/renderer"
)

// positionsCmd holds the flags for the 'positions' subcommand.
type positionsCmd struct {
	csvFile string
	plain   bool
	workers int
}

func (*positionsCmd) Name() string     { return "positions" }
func (*positionsCmd) Synopsis() string { return "display the held positions with cost and return" }
func (*positionsCmd) Usage() string {
	return `rbl positions [-csv <file>] [-plain]

  Displays each held position with its price, day change, value, cost and
  return. With -csv, also exports the table.
`
}

func (c *positionsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.csvFile, "csv", "", "also export the position table to this CSV file")
	f.BoolVar(&c.plain, "plain", false, "render plain fixed-width tables instead of markdown")
	f.IntVar(&c.workers, "j", 4, "number of concurrent quote lookups (1 for sequential)")
}

func (c *positionsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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
		renderer.PositionsTable(os.Stdout, report)
	} else {
		printMarkdown(renderer.PositionsMarkdown(report))
	}

	if c.csvFile != "" {
		out, err := os.Create(c.csvFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating %q: %v\n", c.csvFile, err)
			return subcommands.ExitFailure
		}
		defer out.Close()
		if err := renderer.PositionsCSV(out, report); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing %q: %v\n", c.csvFile, err)
			return subcommands.ExitFailure
		}
	}

	return status
}

// Package cmd implements the CLI application to report portfolio allocation.
package cmd

import (
	"flag"
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"

	"github.com/etnz/rebalance"
	"github.com/etnz/rebalance/robinhood"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on
// the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&loginCmd{}, "account")

	c.Register(&reportCmd{}, "reports")
	c.Register(&summaryCmd{}, "reports")
	c.Register(&positionsCmd{}, "reports")
	c.Register(&balanceCmd{}, "reports")

	c.Register(&assistCmd{}, "assistant")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to
// use global variables.

var categoriesFile = flag.String("categories-file", "stock_categories.csv", "Path to the stock categories CSV file")

const (
	usernameEnv = "RH_USERNAME"
	passwordEnv = "RH_PASSWORD"
)

// LoadCategories parses the configured categories file. Configuration errors
// are fatal for the calling command: no partial report is produced.
func LoadCategories() (*rebalance.Categories, error) {
	f, err := os.Open(*categoriesFile)
	if err != nil {
		return nil, fmt.Errorf("cannot open categories file %q: %w", *categoriesFile, err)
	}
	defer f.Close()
	return rebalance.LoadCategories(f)
}

// OpenClient returns an authenticated Robinhood client, preferring a stored
// session over environment credentials.
func OpenClient() (*robinhood.Client, error) {
	if token, err := robinhood.LoadSession(); err == nil {
		return robinhood.New(token), nil
	}

	username, password := os.Getenv(usernameEnv), os.Getenv(passwordEnv)
	if username == "" || password == "" {
		return nil, fmt.Errorf("no session found. Run 'rbl login' or set %s and %s", usernameEnv, passwordEnv)
	}
	client := robinhood.New("")
	if err := client.Login(username, password); err != nil {
		return nil, err
	}
	return client, nil
}

// printMarkdown renders markdown for the terminal. If the fancy rendering
// fails, the raw markdown is still perfectly readable.
func printMarkdown(markdown string) {
	out, err := glamour.Render(markdown, "dark")
	if err != nil {
		fmt.Print(markdown)
		return
	}
	fmt.Print(out)
}

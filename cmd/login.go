package cmd

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"
	"golang.org/x/term"

	"github.com/etnz/rebalance/robinhood"
)

// loginCmd holds the flags for the 'login' subcommand.
type loginCmd struct {
	username string
}

func (*loginCmd) Name() string     { return "login" }
func (*loginCmd) Synopsis() string { return "authenticate with Robinhood and store the session" }
func (*loginCmd) Usage() string {
	return `rbl login [-username <name>]

  Prompts for credentials, authenticates with Robinhood, and stores the
  session token for the other subcommands. The password is read without echo.
`
}

func (c *loginCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.username, "username", os.Getenv(usernameEnv), "account username")
}

func (c *loginCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	reader := bufio.NewReader(os.Stdin)

	username := c.username
	if username == "" {
		fmt.Print("Robinhood Username: ")
		line, err := reader.ReadString('\n')
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading username: %v\n", err)
			return subcommands.ExitFailure
		}
		username = strings.TrimSpace(line)
	}

	password, err := readPassword(reader)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading password: %v\n", err)
		return subcommands.ExitFailure
	}

	client := robinhood.New("")
	if err := client.Login(username, password); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to login to Robinhood, try again. (Error: %v)\n", err)
		return subcommands.ExitFailure
	}
	if err := robinhood.SaveSession(client.Token()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	fmt.Println("Login successful, session stored.")
	return subcommands.ExitSuccess
}

// readPassword reads the password without echo when stdin is a terminal,
// and falls back to a plain line read otherwise (pipes, tests).
func readPassword(reader *bufio.Reader) (string, error) {
	fmt.Print("Robinhood Password: ")
	if term.IsTerminal(int(os.Stdin.Fd())) {
		defer fmt.Println()
		raw, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err != nil {
			return "", err
		}
		return string(raw), nil
	}
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

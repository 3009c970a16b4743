package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"

	"github.com/etnz/rebalance/cmd"
)

func main() {
	// Shell completion: handled and exited here when invoked by the shell.
	completion().Complete("rbl")

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	cmd.Register(commander)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

// completion describes the CLI for shell completion.
func completion() *complete.Command {
	workers := map[string]complete.Predictor{"j": predict.Something}
	return &complete.Command{
		Flags: map[string]complete.Predictor{
			"categories-file": predict.Files("*.csv"),
		},
		Sub: map[string]*complete.Command{
			"login": {Flags: map[string]complete.Predictor{"username": predict.Something}},
			"report": {Flags: map[string]complete.Predictor{
				"o":     predict.Files("*.csv"),
				"plain": predict.Nothing,
				"k":     predict.Nothing,
				"j":     predict.Something,
			}},
			"summary": {},
			"positions": {Flags: map[string]complete.Predictor{
				"csv":   predict.Files("*.csv"),
				"plain": predict.Nothing,
				"j":     predict.Something,
			}},
			"balance": {Flags: map[string]complete.Predictor{
				"plain": predict.Nothing,
				"j":     predict.Something,
			}},
			"assist": {Flags: workers},
		},
	}
}

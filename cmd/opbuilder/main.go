package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
)

const version = "0.1.0-dev"

func main() {
	if err := newCommand().Run(context.Background(), os.Args); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:    "opbuilder",
		Usage:   "Describe CUDA extension ops and check whether they can be precompiled",
		Version: version,
		Flags:   globalFlags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return cli.ShowAppHelp(cmd)
		},
		Commands: []*cli.Command{
			listCmd(),
			describeCmd(),
			checkCmd(),
			envCmd(),
			configCmd(),
			versionCmd(),
		},
	}
}

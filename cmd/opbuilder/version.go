package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"opbuilder/internal/gpu"
)

func versionCmd() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Print version information",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			fmt.Printf("opbuilder version %s\n", version)
			fmt.Printf("nvml:     %t\n", gpu.NVMLCompiled)
			return nil
		},
	}
}

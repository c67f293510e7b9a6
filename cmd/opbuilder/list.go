package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

func listCmd() *cli.Command {
	return &cli.Command{
		Name:    "list",
		Aliases: []string{"ls"},
		Usage:   "List known ops",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			a, err := loadApp()
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			defer a.close()

			for _, name := range a.registry.Names() {
				desc, err := a.registry.Get(name)
				if err != nil {
					return cli.Exit(fmt.Sprintf("error: %v", err), 1)
				}
				origin := "file"
				if a.registry.IsBuiltin(name) {
					origin = "builtin"
				}
				fmt.Printf("  %-28s %-8s %s\n", name, origin, desc.BuildVar)
			}
			return nil
		},
	}
}

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/goccy/go-json"
	"github.com/urfave/cli/v3"

	"opbuilder/internal/hostenv"
	"opbuilder/internal/report"
)

func envCmd() *cli.Command {
	return &cli.Command{
		Name:  "env",
		Usage: "Show the host facts the compatibility check uses",
		Flags: []cli.Flag{
			formatFlag("text, json"),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			a, err := loadApp()
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			defer a.close()

			host := a.newHost()
			snap := hostenv.Capture(ctx, host)

			switch outputFormat {
			case "json":
				data, err := json.MarshalIndent(snap, "", "  ")
				if err != nil {
					return cli.Exit(fmt.Sprintf("error: %v", err), 1)
				}
				fmt.Println(string(data))
			case "text", "":
				fmt.Print(report.RenderEnvironment(snap))
				printProbeDetails(ctx, host)
			default:
				return cli.Exit(fmt.Sprintf("error: unknown format %q (want text or json)", outputFormat), 1)
			}
			return nil
		},
	}
}

func printProbeDetails(ctx context.Context, host *hostenv.Host) {
	if tk, err := host.Toolkit(ctx); err == nil {
		fmt.Printf("  %-20s%s (%s)\n", "nvcc:", tk.NVCCPath, tk.Release)
	}

	devices := host.Devices()
	if !devices.NVMLOk {
		fmt.Fprintf(os.Stderr, "NVML: %s\n", devices.ErrorMessage)
		return
	}
	fmt.Printf("  %-20s%s\n", "Driver:", devices.DriverVersion)
	for _, d := range devices.Devices {
		fmt.Printf("  GPU %d: %s, %d MB, sm %s\n", d.Index, d.Name, d.MemoryMB, d.Capability())
	}
}

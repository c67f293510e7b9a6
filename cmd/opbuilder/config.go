package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"opbuilder/internal/config"
	"opbuilder/internal/logging"
)

func configCmd() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Inspect configuration",
		Commands: []*cli.Command{
			{
				Name:      "test",
				Usage:     "Test configuration file for validity",
				ArgsUsage: "[path]",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return runConfigTest(cmd.Args().First())
				},
			},
		},
	}
}

// runConfigTest validates configuration file(s)
func runConfigTest(path string) error {
	logger := logging.NewLogger(logging.LevelInfo)

	var cfg config.Config
	var configErr error

	if path != "" {
		fmt.Printf("Testing configuration file: %s\n", path)
		cfg, configErr = config.LoadFrom(path)
	} else {
		fmt.Println("Testing configuration (system + user merge):")
		fmt.Printf("  System config: %s\n", config.SystemConfigPath())
		if userPath := config.UserConfigPath(); userPath != "" {
			fmt.Printf("  User config:   %s\n", userPath)
		}
		fmt.Println()

		cfg, configErr = config.Load()
	}

	if configErr != nil {
		fmt.Fprintf(os.Stderr, "❌ Configuration validation FAILED:\n")
		fmt.Fprintf(os.Stderr, "   %v\n", configErr)

		logger.Error("config.validation.error", "Configuration validation failed", map[string]interface{}{
			"error": configErr.Error(),
		})
		return cli.Exit("", 1)
	}

	fmt.Println("✓ Configuration is VALID")
	fmt.Println()
	fmt.Println("Configuration Summary:")
	fmt.Printf("  Framework Package:    %s\n", cfg.FrameworkPackage)
	fmt.Printf("  Package Root:         %s\n", valueOr(cfg.PackageRoot, "(from interpreter)"))
	fmt.Printf("  Python:               %s\n", cfg.Python)
	fmt.Printf("  CUDA Home:            %s\n", valueOr(cfg.CUDAHome, "(auto)"))
	fmt.Printf("  Compiler:             %s\n", cfg.Compiler)
	fmt.Printf("  Device Source:        %s\n", cfg.DeviceSource)
	fmt.Printf("  Ops Dir:              %s\n", cfg.OpsDir)
	fmt.Printf("  Probe Timeout:        %s\n", cfg.ProbeTimeout())
	fmt.Printf("  Report Dir:           %s\n", cfg.ReportDir)
	fmt.Printf("  Log Level:            %s\n", cfg.Logging.Level)
	fmt.Printf("  Log Format:           %s\n", cfg.Logging.Format)

	logger.Info("config.validation.ok", "Configuration validation passed", map[string]interface{}{
		"device_source": cfg.DeviceSource,
		"python":        cfg.Python,
	})
	return nil
}

func valueOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

package main

import "github.com/urfave/cli/v3"

var (
	configPath   string
	logLevel     string
	logFormat    string
	packageRoot  string
	archList     string
	outputFormat string
	saveReport   bool
)

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Usage:       "load configuration from this file instead of the system and user files",
			Destination: &configPath,
		},
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "override logging.level (debug, info, warn, error)",
			Destination: &logLevel,
		},
		&cli.StringFlag{
			Name:        "log-format",
			Usage:       "override logging.format (json, text)",
			Destination: &logFormat,
		},
	}
}

func packageRootFlag() cli.Flag {
	return &cli.StringFlag{
		Name:        "package-root",
		Usage:       "framework package directory used to resolve library paths",
		Destination: &packageRoot,
	}
}

func archListFlag() cli.Flag {
	return &cli.StringFlag{
		Name:        "arch-list",
		Usage:       "compute capabilities to target, e.g. \"8.0;8.6+PTX\" (default $TORCH_CUDA_ARCH_LIST)",
		Destination: &archList,
	}
}

func formatFlag(allowed string) cli.Flag {
	return &cli.StringFlag{
		Name:        "format",
		Aliases:     []string{"o"},
		Usage:       "output format (" + allowed + ")",
		Value:       "text",
		Destination: &outputFormat,
	}
}

package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"
	"github.com/urfave/cli/v3"

	"opbuilder/internal/fsutil"
	"opbuilder/internal/hostenv"
	"opbuilder/internal/op"
	"opbuilder/internal/report"
)

// exitIncompatible is the exit code of a check that ran but said no
const exitIncompatible = 2

func checkCmd() *cli.Command {
	return &cli.Command{
		Name:      "check",
		Usage:     "Check whether an op can be precompiled on this host",
		ArgsUsage: "[op]",
		Flags: []cli.Flag{
			formatFlag("text, json"),
			packageRootFlag(),
			archListFlag(),
			&cli.BoolFlag{
				Name:        "save",
				Usage:       "write the check report to report_dir",
				Destination: &saveReport,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			a, err := loadApp()
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			defer a.close()

			desc, err := a.descriptor(cmd.Args().Slice())
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}

			rep, err := a.runCheck(ctx, desc)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}

			if err := writeReport(os.Stdout, rep, outputFormat); err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}

			if saveReport {
				store := report.NewStore(fsutil.GetReportDir(a.cfg.ReportDir), a.logger)
				path, err := store.Save(rep)
				if err != nil {
					return cli.Exit(fmt.Sprintf("error: failed to save report: %v", err), 1)
				}
				fmt.Fprintf(os.Stderr, "Report saved to: %s\n", path)
			}

			if !rep.Compatible {
				return cli.Exit("", exitIncompatible)
			}
			return nil
		},
	}
}

func (a *app) runCheck(ctx context.Context, desc op.Descriptor) (report.Report, error) {
	host := a.newHost()

	result, err := a.newBuilder(desc).Check(ctx, host)
	if err != nil {
		return report.Report{}, err
	}

	prebuild := desc.PrebuildRequested(os.LookupEnv)
	if prebuild && !result.Compatible {
		a.logger.Warn("op.prebuild.skipped", "Precompilation requested but the op is not compatible with this host", map[string]interface{}{
			"op":        desc.Name,
			"build_var": desc.BuildVar,
		})
	}

	return report.New(report.Input{
		Descriptor:        desc,
		Result:            result,
		Environment:       hostenv.Capture(ctx, host),
		PrebuildRequested: prebuild,
		PackageRoot:       a.resolvePackageRoot(ctx, host),
		ArchFlags:         a.archFlags(ctx, host),
		Version:           version,
	}), nil
}

// capabilityReader reports device compute capability from the active device source
type capabilityReader interface {
	DeviceCapability(ctx context.Context, index int) (int, int, error)
}

// archFlags is best effort: a host with neither a list nor a visible device gets none
func (a *app) archFlags(ctx context.Context, devices capabilityReader) []string {
	list := resolveArchList()

	major, minor := 0, 0
	if list == "" {
		var err error
		if major, minor, err = devices.DeviceCapability(ctx, 0); err != nil {
			a.logger.Debug("op.arch.capability.unavailable", "Device capability unavailable", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	flags, err := op.NVCCArchFlags(list, major, minor)
	if err != nil {
		a.logger.Debug("op.arch.unresolved", "No target architectures resolved", map[string]interface{}{
			"error": err.Error(),
		})
		return nil
	}
	return flags
}

func writeReport(w io.Writer, rep report.Report, format string) error {
	switch format {
	case "json":
		data, err := json.MarshalIndent(rep, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode report: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case "text", "":
		_, err := io.WriteString(w, report.Render(rep))
		return err
	default:
		return fmt.Errorf("unknown format %q (want text or json)", format)
	}
}

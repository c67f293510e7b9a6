package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/goccy/go-json"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"opbuilder/internal/op"
)

// descriptorView is a descriptor with its host-resolved flags
type descriptorView struct {
	op.Descriptor `yaml:",inline"`
	PackageRoot   string   `json:"package_root,omitempty" yaml:"package_root,omitempty"`
	ExtraLDFlags  []string `json:"extra_ldflags" yaml:"extra_ldflags"`
	ArchFlags     []string `json:"nvcc_arch_flags,omitempty" yaml:"nvcc_arch_flags,omitempty"`
}

func describeCmd() *cli.Command {
	return &cli.Command{
		Name:      "describe",
		Usage:     "Print the build descriptor of an op",
		ArgsUsage: "[op]",
		Flags: []cli.Flag{
			formatFlag("text, json, yaml"),
			packageRootFlag(),
			archListFlag(),
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

			view := descriptorView{Descriptor: desc}
			if desc.LibDir != "" {
				view.PackageRoot = a.resolvePackageRoot(ctx, a.newHost())
			}
			view.ExtraLDFlags = desc.ExtraLDFlags(view.PackageRoot)

			if list := resolveArchList(); list != "" {
				flags, err := op.NVCCArchFlags(list, 0, 0)
				if err != nil {
					return cli.Exit(fmt.Sprintf("error: %v", err), 1)
				}
				view.ArchFlags = flags
			}

			if err := writeDescriptor(os.Stdout, view, outputFormat); err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			return nil
		},
	}
}

func writeDescriptor(w io.Writer, view descriptorView, format string) error {
	switch format {
	case "json":
		data, err := json.MarshalIndent(view, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode descriptor: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(view); err != nil {
			return fmt.Errorf("failed to encode descriptor: %w", err)
		}
		return enc.Close()
	case "text", "":
		_, err := io.WriteString(w, formatDescriptorText(view))
		return err
	default:
		return fmt.Errorf("unknown format %q (want text, json or yaml)", format)
	}
}

func formatDescriptorText(view descriptorView) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Name:          %s\n", view.Name)
	fmt.Fprintf(&b, "Absolute name: %s\n", view.AbsoluteName)
	fmt.Fprintf(&b, "Build var:     %s\n", view.BuildVar)
	if view.AmpereMinCUDAMajor > 0 {
		fmt.Fprintf(&b, "Ampere+ needs: CUDA %d+\n", view.AmpereMinCUDAMajor)
	}

	writeList(&b, "Sources", view.Sources)
	writeList(&b, "Include paths", view.IncludePaths)
	if view.LibDir != "" && view.PackageRoot == "" {
		b.WriteString("\n(package root unknown: library paths are relative, pass --package-root)\n")
	}
	writeList(&b, "Extra ldflags", view.ExtraLDFlags)
	writeList(&b, "NVCC arch flags", view.ArchFlags)

	return b.String()
}

func writeList(b *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "\n%s:\n", title)
	for _, item := range items {
		fmt.Fprintf(b, "  %s\n", item)
	}
}

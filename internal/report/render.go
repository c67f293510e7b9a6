package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"opbuilder/internal/hostenv"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00d7ff"))
	sectionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffd700"))
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#87d7af"))
	valueStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff"))
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#5fd75f")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff5f5f")).Bold(true)
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffaf00"))
	hintStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#808080"))
)

// Render formats a report for the terminal
func Render(r Report) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Op " + r.Op))
	b.WriteString("\n\n")

	writeField(&b, "Verdict", verdict(r.Compatible))
	writeField(&b, "Toolkit gate", verdict(r.Result.GateCompatible))
	writeField(&b, "Base check", verdict(r.Result.BaseCompatible))
	writeField(&b, "Prebuild requested", valueStyle.Render(yesNo(r.PrebuildRequested)))

	if len(r.Result.Warnings) > 0 {
		b.WriteString("\n")
		b.WriteString(sectionStyle.Render("Warnings"))
		b.WriteString("\n")
		for _, w := range r.Result.Warnings {
			b.WriteString("  ")
			b.WriteString(warnStyle.Render(w.Message))
			b.WriteString(" ")
			b.WriteString(hintStyle.Render("(" + w.Type + ")"))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(RenderEnvironment(r.Environment))

	if len(r.ExtraLDFlags) > 0 || len(r.ArchFlags) > 0 {
		b.WriteString("\n")
		b.WriteString(sectionStyle.Render("Build Flags"))
		b.WriteString("\n")
		if len(r.ExtraLDFlags) > 0 {
			writeField(&b, "ldflags", valueStyle.Render(strings.Join(r.ExtraLDFlags, " ")))
		}
		if len(r.ArchFlags) > 0 {
			writeField(&b, "nvcc arch", valueStyle.Render(strings.Join(r.ArchFlags, " ")))
		}
	}

	if r.ID != "" {
		b.WriteString("\n")
		b.WriteString(hintStyle.Render("report " + r.ID))
		b.WriteString("\n")
	}

	return b.String()
}

// RenderEnvironment formats a host snapshot
func RenderEnvironment(s hostenv.Snapshot) string {
	var b strings.Builder

	b.WriteString(sectionStyle.Render("Environment"))
	b.WriteString("\n")

	if s.NumericsAvailable {
		writeField(&b, "Numerics", valueStyle.Render(strings.TrimSpace(s.Numerics.Name+" "+s.Numerics.Version)))
		writeField(&b, "Bound toolkit", valueStyle.Render(orUnknown(s.Numerics.BoundToolkit)))
	} else {
		writeField(&b, "Numerics", errorStyle.Render("not installed"))
	}
	writeField(&b, "GPU vendor", valueStyle.Render(orUnknown(string(s.Vendor))))
	writeField(&b, "GPU present", valueStyle.Render(yesNo(s.GPUPresent)))
	writeField(&b, "Installed toolkit", valueStyle.Render(major(s.InstalledToolkitMajor)))
	writeField(&b, "Compute capability", valueStyle.Render(major(s.DeviceComputeCapabilityMajor)))

	if len(s.Errors) > 0 {
		facts := make([]string, 0, len(s.Errors))
		for fact := range s.Errors {
			facts = append(facts, fact)
		}
		sort.Strings(facts)
		for _, fact := range facts {
			writeField(&b, fact, errorStyle.Render(s.Errors[fact]))
		}
	}

	return b.String()
}

func writeField(b *strings.Builder, label, value string) {
	b.WriteString("  ")
	b.WriteString(labelStyle.Render(fmt.Sprintf("%-20s", label+":")))
	b.WriteString(value)
	b.WriteString("\n")
}

func verdict(ok bool) string {
	if ok {
		return okStyle.Render("compatible")
	}
	return errorStyle.Render("incompatible")
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

func major(v int) string {
	if v <= 0 {
		return "unknown"
	}
	return fmt.Sprintf("%d", v)
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}

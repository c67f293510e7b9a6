package report

import (
	"os"
	"time"

	"github.com/google/uuid"

	"opbuilder/internal/hostenv"
	"opbuilder/internal/op"
)

// Report is the persisted outcome of one check run
type Report struct {
	ID                string           `json:"id"`
	Timestamp         string           `json:"timestamp"`
	Host              string           `json:"host"`
	OpbuilderVersion  string           `json:"opbuilder_version"`
	Op                string           `json:"op"`
	AbsoluteName      string           `json:"absolute_name"`
	Compatible        bool             `json:"compatible"`
	PrebuildRequested bool             `json:"prebuild_requested"`
	Result            op.Result        `json:"result"`
	Environment       hostenv.Snapshot `json:"environment"`
	PackageRoot       string           `json:"package_root,omitempty"`
	ExtraLDFlags      []string         `json:"extra_ldflags,omitempty"`
	ArchFlags         []string         `json:"arch_flags,omitempty"`
}

// Input collects what a check run produced
type Input struct {
	Descriptor        op.Descriptor
	Result            op.Result
	Environment       hostenv.Snapshot
	PrebuildRequested bool
	PackageRoot       string
	ArchFlags         []string
	Version           string
}

// New builds a report with a fresh ID
func New(in Input) Report {
	host, err := os.Hostname()
	if err != nil {
		host = "unknown"
	}

	r := Report{
		ID:                uuid.NewString(),
		Timestamp:         time.Now().UTC().Format(time.RFC3339),
		Host:              host,
		OpbuilderVersion:  in.Version,
		Op:                in.Descriptor.Name,
		AbsoluteName:      in.Descriptor.AbsoluteName,
		Compatible:        in.Result.Compatible,
		PrebuildRequested: in.PrebuildRequested,
		Result:            in.Result,
		Environment:       in.Environment,
		PackageRoot:       in.PackageRoot,
		ArchFlags:         in.ArchFlags,
	}
	if in.PackageRoot != "" {
		r.ExtraLDFlags = in.Descriptor.ExtraLDFlags(in.PackageRoot)
	}
	return r
}

// FileName is the name the report is stored under
func (r Report) FileName() string {
	return r.Op + "-" + r.ID + ".json"
}

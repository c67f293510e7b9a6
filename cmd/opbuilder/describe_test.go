package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"opbuilder/internal/op"
)

func inferenceView(root string) descriptorView {
	desc := op.TransformerInference("")
	return descriptorView{
		Descriptor:   desc,
		PackageRoot:  root,
		ExtraLDFlags: desc.ExtraLDFlags(root),
	}
}

func TestWriteDescriptor_Text(t *testing.T) {
	var buf bytes.Buffer
	if err := writeDescriptor(&buf, inferenceView("/opt/ds"), "text"); err != nil {
		t.Fatalf("writeDescriptor() error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"Name:          transformer_inference",
		"Build var:     DS_BUILD_TRANSFORMER_INFERENCE",
		"csrc/transformer/inference/csrc/pt_binding.cpp",
		"-L/opt/ds/ops/libs/cutlass",
		"-Wl,-rpath,/opt/ds/ops/libs/cutlass",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("text output missing %q\n%s", want, out)
		}
	}
	if strings.Contains(out, "package root unknown") {
		t.Error("Did not expect package root hint when root is known")
	}
}

func TestWriteDescriptor_TextWithoutRoot(t *testing.T) {
	var buf bytes.Buffer
	if err := writeDescriptor(&buf, inferenceView(""), "text"); err != nil {
		t.Fatalf("writeDescriptor() error = %v", err)
	}
	if !strings.Contains(buf.String(), "--package-root") {
		t.Errorf("Expected package root hint, got\n%s", buf.String())
	}
}

func TestWriteDescriptor_JSON(t *testing.T) {
	var buf bytes.Buffer
	if err := writeDescriptor(&buf, inferenceView("/opt/ds"), "json"); err != nil {
		t.Fatalf("writeDescriptor() error = %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}
	if decoded["name"] != "transformer_inference" {
		t.Errorf("name = %v, want transformer_inference", decoded["name"])
	}
	sources, ok := decoded["sources"].([]interface{})
	if !ok || len(sources) != 12 {
		t.Errorf("sources = %v, want 12 entries", decoded["sources"])
	}
	if decoded["package_root"] != "/opt/ds" {
		t.Errorf("package_root = %v, want /opt/ds", decoded["package_root"])
	}
}

func TestWriteDescriptor_YAML(t *testing.T) {
	var buf bytes.Buffer
	if err := writeDescriptor(&buf, inferenceView("/opt/ds"), "yaml"); err != nil {
		t.Fatalf("writeDescriptor() error = %v", err)
	}

	var decoded struct {
		Name         string   `yaml:"name"`
		IncludePaths []string `yaml:"include_paths"`
		ExtraLDFlags []string `yaml:"extra_ldflags"`
	}
	if err := yaml.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not YAML: %v\n%s", err, buf.String())
	}
	if decoded.Name != "transformer_inference" {
		t.Errorf("name = %s, want transformer_inference", decoded.Name)
	}
	if len(decoded.IncludePaths) != 2 {
		t.Errorf("include_paths = %v, want 2 entries", decoded.IncludePaths)
	}
	if len(decoded.ExtraLDFlags) != 5 {
		t.Errorf("extra_ldflags = %v, want 5 entries", decoded.ExtraLDFlags)
	}
}

func TestWriteDescriptor_UnknownFormat(t *testing.T) {
	if err := writeDescriptor(&bytes.Buffer{}, inferenceView(""), "toml"); err == nil {
		t.Error("Expected error for unknown format")
	}
}

func TestResolveArchList(t *testing.T) {
	t.Setenv(op.ArchListVar, "7.0;8.0")

	archList = ""
	if got := resolveArchList(); got != "7.0;8.0" {
		t.Errorf("resolveArchList() = %q, want env value", got)
	}

	archList = "9.0"
	defer func() { archList = "" }()
	if got := resolveArchList(); got != "9.0" {
		t.Errorf("resolveArchList() = %q, want flag value", got)
	}
}

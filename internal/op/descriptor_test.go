package op

import (
	"reflect"
	"testing"
)

func TestTransformerInference_Lists(t *testing.T) {
	d := TransformerInference("")

	wantSources := []string{
		"csrc/transformer/inference/csrc/pt_binding.cpp",
		"csrc/transformer/inference/csrc/gelu.cu",
		"csrc/transformer/inference/csrc/relu.cu",
		"csrc/transformer/inference/csrc/normalize.cu",
		"csrc/transformer/inference/csrc/softmax.cu",
		"csrc/transformer/inference/csrc/dequantize.cu",
		"csrc/transformer/inference/csrc/dequantize_n.cu",
		"csrc/transformer/inference/csrc/custom_gemm.cu",
		"csrc/transformer/inference/csrc/quantize.cu",
		"csrc/transformer/inference/csrc/transform.cu",
		"csrc/transformer/inference/csrc/apply_rotary_pos_emb.cu",
		"csrc/transformer/inference/csrc/swizzled_quantize.cu",
	}
	if !reflect.DeepEqual(d.Sources, wantSources) {
		t.Errorf("Sources = %v", d.Sources)
	}

	wantIncludes := []string{"csrc/transformer/inference/includes", "csrc/includes"}
	if !reflect.DeepEqual(d.IncludePaths, wantIncludes) {
		t.Errorf("IncludePaths = %v", d.IncludePaths)
	}

	if !reflect.DeepEqual(d, TransformerInference("")) {
		t.Error("Descriptor must be deterministic")
	}
}

func TestTransformerInference_Names(t *testing.T) {
	d := TransformerInference("")
	if d.Name != InferenceName || d.BuildVar != "DS_BUILD_TRANSFORMER_INFERENCE" {
		t.Errorf("Unexpected identity: %s %s", d.Name, d.BuildVar)
	}
	if d.AbsoluteName != "deepspeed.ops.transformer.inference.transformer_inference_op" {
		t.Errorf("AbsoluteName = %s", d.AbsoluteName)
	}

	renamed := TransformerInference("inference_core")
	if renamed.Name != "inference_core" {
		t.Errorf("Expected override name, got %s", renamed.Name)
	}
	if renamed.AbsoluteName != d.AbsoluteName {
		t.Errorf("Absolute name must not follow the override, got %s", renamed.AbsoluteName)
	}
}

func TestDescriptor_ExtraLDFlags(t *testing.T) {
	d := TransformerInference("")

	got := d.ExtraLDFlags("/site-packages/deepspeed")
	want := []string{
		"-L/site-packages/deepspeed/ops/libs/cutlass",
		"-lgemmlib",
		"-lgemmi4",
		"-lcurand",
		"-Wl,-rpath,/site-packages/deepspeed/ops/libs/cutlass",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExtraLDFlags() = %v, want %v", got, want)
	}
}

func TestDescriptor_ExtraLDFlags_Variants(t *testing.T) {
	abs := Descriptor{Name: "x", Sources: []string{"a.cu"}, LibDir: "/opt/libs", Libraries: []string{"foo"}}
	want := []string{"-L/opt/libs", "-lfoo", "-Wl,-rpath,/opt/libs"}
	if got := abs.ExtraLDFlags("/ignored"); !reflect.DeepEqual(got, want) {
		t.Errorf("absolute lib dir: got %v, want %v", got, want)
	}

	noDir := Descriptor{Name: "x", Sources: []string{"a.cu"}, Libraries: []string{"curand"}}
	if got := noDir.ExtraLDFlags("/root"); !reflect.DeepEqual(got, []string{"-lcurand"}) {
		t.Errorf("no lib dir: got %v", got)
	}
}

func TestDescriptor_Validate(t *testing.T) {
	tests := []struct {
		name    string
		d       Descriptor
		wantErr bool
	}{
		{"builtin", TransformerInference(""), false},
		{"bad name", Descriptor{Name: "Bad-Name", Sources: []string{"a.cu"}}, true},
		{"no sources", Descriptor{Name: "empty"}, true},
		{"blank source", Descriptor{Name: "blank", Sources: []string{""}}, true},
		{"negative min cuda", Descriptor{Name: "neg", Sources: []string{"a.cu"}, AmpereMinCUDAMajor: -1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.d.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDescriptor_CloneIsDeep(t *testing.T) {
	d := TransformerInference("")
	c := d.Clone()
	c.Sources[0] = "mutated"
	if d.Sources[0] == "mutated" {
		t.Error("Clone shares the sources slice")
	}
}

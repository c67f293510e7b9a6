package op

const (
	// InferenceName is the registry name of the transformer inference op.
	InferenceName = "transformer_inference"
	// InferenceBuildVar requests precompilation of the transformer inference op.
	InferenceBuildVar = "DS_BUILD_TRANSFORMER_INFERENCE"

	inferenceSourceDir = "csrc/transformer/inference/csrc/"
)

// TransformerInference describes the transformer inference kernels. An empty name
// selects InferenceName; the absolute module name always uses InferenceName.
func TransformerInference(name string) Descriptor {
	if name == "" {
		name = InferenceName
	}

	return Descriptor{
		Name:         name,
		AbsoluteName: "deepspeed.ops.transformer.inference." + InferenceName + "_op",
		BuildVar:     InferenceBuildVar,
		Sources: []string{
			inferenceSourceDir + "pt_binding.cpp",
			inferenceSourceDir + "gelu.cu",
			inferenceSourceDir + "relu.cu",
			inferenceSourceDir + "normalize.cu",
			inferenceSourceDir + "softmax.cu",
			inferenceSourceDir + "dequantize.cu",
			inferenceSourceDir + "dequantize_n.cu",
			inferenceSourceDir + "custom_gemm.cu",
			inferenceSourceDir + "quantize.cu",
			inferenceSourceDir + "transform.cu",
			inferenceSourceDir + "apply_rotary_pos_emb.cu",
			inferenceSourceDir + "swizzled_quantize.cu",
		},
		IncludePaths: []string{
			"csrc/transformer/inference/includes",
			"csrc/includes",
		},
		LibDir:             "ops/libs/cutlass",
		Libraries:          []string{"gemmlib", "gemmi4", "curand"},
		AmpereMinCUDAMajor: 11,
	}
}

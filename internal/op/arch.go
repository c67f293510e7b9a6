package op

import (
	"errors"
	"fmt"
	"strings"

	"opbuilder/internal/version"
)

// ArchListVar names the variable holding the target architecture list
const ArchListVar = "TORCH_CUDA_ARCH_LIST"

// NVCCArchFlags turns an arch list such as "7.0;8.0+PTX" into -gencode flags.
// Entries are separated by semicolons or whitespace; an "a" suffix (9.0a) selects
// the arch-specific target. An empty list falls back to the
// detected capability; a detected major of 0 means unknown.
func NVCCArchFlags(archList string, detectedMajor, detectedMinor int) ([]string, error) {
	entries := strings.FieldsFunc(archList, func(r rune) bool {
		return r == ';' || r == ' ' || r == '\t' || r == ','
	})
	if len(entries) == 0 {
		if detectedMajor <= 0 {
			return nil, errors.New("no target architectures: set " + ArchListVar + " or expose a GPU")
		}
		entries = []string{fmt.Sprintf("%d.%d", detectedMajor, detectedMinor)}
	}

	seen := make(map[string]bool)
	flags := make([]string, 0, len(entries))
	add := func(flag string) {
		if !seen[flag] {
			seen[flag] = true
			flags = append(flags, flag)
		}
	}

	for _, entry := range entries {
		ptx := strings.HasSuffix(entry, "+PTX")
		entry = strings.TrimSuffix(entry, "+PTX")

		// Arch-specific targets such as 9.0a keep their suffix on both sides
		suffix := ""
		if strings.HasSuffix(entry, "a") {
			suffix = "a"
			entry = strings.TrimSuffix(entry, "a")
		}

		major, minor, err := version.ParseMajorMinor(entry)
		if err != nil {
			return nil, fmt.Errorf("invalid architecture %q: %w", entry+suffix, err)
		}
		num := fmt.Sprintf("%d%d%s", major, minor, suffix)

		add(fmt.Sprintf("-gencode=arch=compute_%s,code=sm_%s", num, num))
		if ptx {
			add(fmt.Sprintf("-gencode=arch=compute_%s,code=compute_%s", num, num))
		}
	}
	return flags, nil
}

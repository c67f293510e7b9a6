package op

import "strings"

// BuildAllVar requests precompilation of every op that has no setting of its own
const BuildAllVar = "DS_BUILD_OPS"

// PrebuildRequested reads the op's build variable, falling back to BuildAllVar.
// Unset or unrecognised values mean no.
func (d Descriptor) PrebuildRequested(lookup func(string) (string, bool)) bool {
	if d.BuildVar != "" {
		if v, ok := lookup(d.BuildVar); ok {
			if set, known := parseFlag(v); known {
				return set
			}
		}
	}
	if v, ok := lookup(BuildAllVar); ok {
		set, _ := parseFlag(v)
		return set
	}
	return false
}

func parseFlag(v string) (value bool, known bool) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true, true
	case "0", "false", "no", "off":
		return false, true
	default:
		return false, false
	}
}

package features

import (
	"sort"
	"strings"
)

// Feature names an optional capability.
type Feature string

// Hyphenation enables dictionary based hyphenation.
const Hyphenation Feature = "hyphenation"

// EnvVar lists features to enable at run time, comma separated.
const EnvVar = "TEXTWRAP_FEATURES"

// Set is a set of enabled features.
type Set map[Feature]bool

// compiled is filled by files guarded with build tags.
var compiled = Set{}

// Compiled returns the features enabled at build time.
func Compiled() Set {
	return compiled.Merge(nil)
}

// Parse reads a list such as "hyphenation, other". Empty items are ignored.
func Parse(list string) Set {
	set := Set{}
	for _, item := range strings.Split(list, ",") {
		item = strings.ToLower(strings.TrimSpace(item))
		if item != "" {
			set[Feature(item)] = true
		}
	}
	return set
}

// Merge returns a new set holding the features of s and other.
func (s Set) Merge(other Set) Set {
	merged := make(Set, len(s)+len(other))
	for f, on := range s {
		if on {
			merged[f] = true
		}
	}
	for f, on := range other {
		if on {
			merged[f] = true
		}
	}
	return merged
}

// Enabled reports whether f is in the set.
func (s Set) Enabled(f Feature) bool {
	return s[f]
}

func (s Set) String() string {
	names := make([]string, 0, len(s))
	for f, on := range s {
		if on {
			names = append(names, string(f))
		}
	}
	sort.Strings(names)
	return strings.Join(names, ",")
}

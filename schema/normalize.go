package schema

import (
	"fmt"
	"sort"
	"strings"

	"github.com/openmx-go/openmx"
)

// Mapping is a keyword-to-value mapping with case-folded (lowercase) keys and
// tagged values. Build one with Normalize; never share the caller's map.
type Mapping map[string]Value

// Clone returns an independent copy of the mapping. Values are immutable, so
// copying the map suffices.
func (m Mapping) Clone() Mapping {
	out := make(Mapping, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Keys returns the mapping's keys sorted lexicographically, for deterministic
// reporting.
func (m Mapping) Keys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Normalize case-folds the keys of a raw parameter map to lowercase, tags
// every value with its ValueKind, and fails hard when two differently-cased
// keys collapse to the same normalized key. name identifies the map in error
// messages.
func Normalize(raw map[string]any, name string) (Mapping, error) {
	var iss openmx.Issues
	out := make(Mapping, len(raw))
	byFolded := make(map[string][]string, len(raw))
	for k := range raw {
		folded := strings.ToLower(k)
		byFolded[folded] = append(byFolded[folded], k)
	}
	for folded, originals := range byFolded {
		if len(originals) > 1 {
			sort.Strings(originals)
			iss = openmx.AppendIssues(iss, openmx.Issue{
				Keyword: folded,
				Code:    openmx.CodeDuplicateKey,
				Message: fmt.Sprintf("keys %s of %s collide when compared case-insensitively",
					strings.Join(originals, ","), name),
				Params: map[string]any{"keys": originals},
			})
			continue
		}
		v, err := Tag(raw[originals[0]])
		if err != nil {
			iss = openmx.AppendIssues(iss, openmx.Issue{
				Keyword: originals[0],
				Code:    openmx.CodeInvalidType,
				Message: fmt.Sprintf("%s in %s: %v", originals[0], name, err),
			})
			continue
		}
		out[folded] = v
	}
	if len(iss) > 0 {
		// Deterministic issue order regardless of map iteration.
		sort.Slice(iss, func(i, j int) bool { return iss[i].Keyword < iss[j].Keyword })
		return nil, iss
	}
	return out, nil
}

// UppercaseKeys converts the keys of a settings-style map to uppercase with
// the same case-insensitive duplicate detection as Normalize. Values pass
// through untouched.
func UppercaseKeys(raw map[string]any, name string) (map[string]any, error) {
	return caseTransformKeys(raw, name, strings.ToUpper)
}

// LowercaseKeys converts the keys of a settings-style map to lowercase with
// case-insensitive duplicate detection.
func LowercaseKeys(raw map[string]any, name string) (map[string]any, error) {
	return caseTransformKeys(raw, name, strings.ToLower)
}

func caseTransformKeys(raw map[string]any, name string, transform func(string) string) (map[string]any, error) {
	out := make(map[string]any, len(raw))
	byFolded := make(map[string][]string, len(raw))
	for k := range raw {
		byFolded[transform(k)] = append(byFolded[transform(k)], k)
	}
	var iss openmx.Issues
	for folded, originals := range byFolded {
		if len(originals) > 1 {
			sort.Strings(originals)
			iss = openmx.AppendIssues(iss, openmx.Issue{
				Keyword: folded,
				Code:    openmx.CodeDuplicateKey,
				Message: fmt.Sprintf("keys %s of %s collide when case-transformed",
					strings.Join(originals, ","), name),
				Params: map[string]any{"keys": originals},
			})
			continue
		}
		out[folded] = raw[originals[0]]
	}
	if len(iss) > 0 {
		sort.Slice(iss, func(i, j int) bool { return iss[i].Keyword < iss[j].Keyword })
		return nil, iss
	}
	return out, nil
}

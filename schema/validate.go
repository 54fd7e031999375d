package schema

import (
	"fmt"
	"strings"

	"github.com/openmx-go/openmx"
)

// Validate checks a normalized mapping against the keyword table and returns
// nil or an openmx.Issues accumulating every violation found in one pass.
//
// Checks run per keyword, in order: table membership, reserved status,
// declared kind, declared shape, bounds (lower exclusive, upper inclusive),
// allowed-value membership, and requires constraints. A keyword that fails an
// earlier check is not re-reported by later ones.
func Validate(m Mapping, t *Table) error {
	var iss openmx.Issues
	for _, key := range m.Keys() {
		v := m[key]
		spec, ok := t.Lookup(key)
		if !ok {
			iss = openmx.AppendIssues(iss, openmx.Issue{
				Keyword: key,
				Code:    openmx.CodeUnknownKeyword,
				Message: fmt.Sprintf("%s is not a recognized keyword", key),
			})
			continue
		}
		if t.IsReserved(spec.Name) {
			iss = openmx.AppendIssues(iss, openmx.Issue{
				Keyword: spec.Name,
				Code:    openmx.CodeReservedKeyword,
				Message: fmt.Sprintf("%s is computed internally and must not be supplied", spec.Name),
			})
			continue
		}
		if issue := checkValue(spec, v); issue != nil {
			iss = openmx.AppendIssues(iss, *issue)
			continue
		}
		iss = openmx.AppendIssues(iss, checkRequires(spec, m)...)
	}
	if len(iss) > 0 {
		return iss
	}
	return nil
}

// ValidateComposed checks a mapping that already contains composer-derived
// keywords: identical to Validate except that reserved keywords are accepted,
// since the composer is the one party allowed to set them.
func ValidateComposed(m Mapping, t *Table) error {
	var iss openmx.Issues
	for _, key := range m.Keys() {
		v := m[key]
		spec, ok := t.Lookup(key)
		if !ok {
			iss = openmx.AppendIssues(iss, openmx.Issue{
				Keyword: key,
				Code:    openmx.CodeUnknownKeyword,
				Message: fmt.Sprintf("%s is not a recognized keyword", key),
			})
			continue
		}
		if issue := checkValue(spec, v); issue != nil {
			iss = openmx.AppendIssues(iss, *issue)
			continue
		}
		iss = openmx.AppendIssues(iss, checkRequires(spec, m)...)
	}
	if len(iss) > 0 {
		return iss
	}
	return nil
}

func checkValue(spec *Spec, v Value) *openmx.Issue {
	if spec.Kind != KindInvalid && !kindCompatible(spec.Kind, v) {
		return &openmx.Issue{
			Keyword: spec.Name,
			Code:    openmx.CodeInvalidType,
			Message: fmt.Sprintf("%s wants %s, got %s", spec.Name, spec.Kind, v.Kind()),
			Params:  map[string]any{"want": spec.Kind.String(), "got": v.Kind().String()},
		}
	}
	if len(spec.Dims) > 0 && v.Len() != spec.Dims[0] {
		return &openmx.Issue{
			Keyword: spec.Name,
			Code:    openmx.CodeInvalidShape,
			Message: fmt.Sprintf("%s wants %d elements, got %d", spec.Name, spec.Dims[0], v.Len()),
			Params:  map[string]any{"want": spec.Dims[0], "got": v.Len()},
		}
	}
	if spec.Bounds != nil {
		if x, ok := numeric(v); ok && !spec.Bounds.Contains(x) {
			return &openmx.Issue{
				Keyword: spec.Name,
				Code:    openmx.CodeOutOfBounds,
				Message: fmt.Sprintf("%s=%v violates %v < value <= %v",
					spec.Name, x, spec.Bounds.Lower, spec.Bounds.Upper),
				Params: map[string]any{"lower": spec.Bounds.Lower, "upper": spec.Bounds.Upper, "got": x},
			}
		}
	}
	if len(spec.Allowed) > 0 && v.Kind() == KindString {
		if !memberFold(spec.Allowed, v.Str()) {
			return &openmx.Issue{
				Keyword: spec.Name,
				Code:    openmx.CodeInvalidEnum,
				Message: fmt.Sprintf("%s=%q is not one of %s", spec.Name, v.Str(), strings.Join(spec.Allowed, ", ")),
				Params:  map[string]any{"allowed": spec.Allowed, "got": v.Str()},
			}
		}
	}
	return nil
}

func checkRequires(spec *Spec, m Mapping) []openmx.Issue {
	var iss []openmx.Issue
	for reqKey, reqVal := range spec.Requires {
		got, present := m[reqKey]
		if !present || !equivalent(got, reqVal) {
			iss = append(iss, openmx.Issue{
				Keyword: spec.Name,
				Code:    openmx.CodeRequiresUnmet,
				Message: fmt.Sprintf("%s requires %s to be set accordingly", spec.Name, reqKey),
				Params:  map[string]any{"requires": reqKey},
			})
		}
	}
	return iss
}

// kindCompatible applies the sealed-tag compatibility rules: a declared real
// accepts an integer value, a declared bool accepts 0/1, a real vector
// accepts an integer vector.
func kindCompatible(want ValueKind, v Value) bool {
	if want == v.Kind() {
		return true
	}
	switch want {
	case KindReal:
		return v.Kind() == KindInteger
	case KindBool:
		return v.Kind() == KindInteger && (v.Int() == 0 || v.Int() == 1)
	case KindRealVector:
		return v.Kind() == KindIntVector
	}
	return false
}

func numeric(v Value) (float64, bool) {
	switch v.Kind() {
	case KindInteger:
		return float64(v.Int()), true
	case KindReal:
		return v.Real(), true
	}
	return 0, false
}

func memberFold(set []string, s string) bool {
	for _, a := range set {
		if strings.EqualFold(a, s) {
			return true
		}
	}
	return false
}

// equivalent compares a supplied value against a requires target, accepting
// the 0/1 spelling of booleans.
func equivalent(got, want Value) bool {
	if got.Equal(want) {
		return true
	}
	if want.Kind() == KindBool && got.Kind() == KindInteger {
		return (got.Int() == 1) == want.Bool()
	}
	return false
}

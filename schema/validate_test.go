package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openmx-go/openmx"
)

func mustNormalize(t *testing.T, raw map[string]any) Mapping {
	t.Helper()
	m, err := Normalize(raw, "parameters")
	require.NoError(t, err)
	return m
}

func issuesOf(t *testing.T, err error) openmx.Issues {
	t.Helper()
	require.Error(t, err)
	iss, ok := openmx.AsIssues(err)
	require.True(t, ok, "error is not openmx.Issues: %v", err)
	return iss
}

func codes(iss openmx.Issues) []string {
	out := make([]string, len(iss))
	for i, is := range iss {
		out[i] = is.Code
	}
	return out
}

func TestValidateAcceptsKnownKeywords(t *testing.T) {
	m := mustNormalize(t, map[string]any{
		"scf.maxIter":          200,
		"scf.energycutoff":     200.0,
		"scf.EigenvalueSolver": "Band",
		"MD.Type":              "Opt",
		"Dos.Erange":           []float64{-10, 10},
	})
	assert.NoError(t, Validate(m, Default()))
}

func TestValidateReportsEveryUnknownKeyword(t *testing.T) {
	m := mustNormalize(t, map[string]any{
		"not.a.keyword": 1,
		"also.bogus":    2,
		"scf.maxIter":   100,
	})
	iss := issuesOf(t, Validate(m, Default()))
	require.Len(t, iss, 2)
	// Keys() iterates sorted, so issue order is stable.
	assert.Equal(t, "also.bogus", iss[0].Keyword)
	assert.Equal(t, "not.a.keyword", iss[1].Keyword)
	for _, is := range iss {
		assert.Equal(t, openmx.CodeUnknownKeyword, is.Code)
	}
}

func TestValidateRejectsReservedKeywords(t *testing.T) {
	m := mustNormalize(t, map[string]any{
		"scf.Kgrid":   []int{4, 4, 4},
		"System.Name": "mine",
	})
	iss := issuesOf(t, Validate(m, Default()))
	require.Len(t, iss, 2)
	for _, is := range iss {
		assert.Equal(t, openmx.CodeReservedKeyword, is.Code)
	}
}

func TestValidateBounds(t *testing.T) {
	// MD.Opt.DIIS.History is bounded by (-1, 19].
	tests := []struct {
		name  string
		value int
		ok    bool
	}{
		{name: "lower bound excluded", value: -1, ok: false},
		{name: "just above lower", value: 0, ok: true},
		{name: "upper bound included", value: 19, ok: true},
		{name: "above upper", value: 20, ok: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := mustNormalize(t, map[string]any{"MD.Opt.DIIS.History": tt.value})
			err := Validate(m, Default())
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			iss := issuesOf(t, err)
			require.Len(t, iss, 1)
			assert.Equal(t, openmx.CodeOutOfBounds, iss[0].Code)
			assert.Equal(t, float64(tt.value), iss[0].Params["got"])
		})
	}
}

func TestValidateEnum(t *testing.T) {
	m := mustNormalize(t, map[string]any{"scf.EigenvalueSolver": "band"})
	assert.NoError(t, Validate(m, Default()), "allowed values match case-insensitively")

	m = mustNormalize(t, map[string]any{"scf.EigenvalueSolver": "bogus"})
	iss := issuesOf(t, Validate(m, Default()))
	require.Len(t, iss, 1)
	assert.Equal(t, openmx.CodeInvalidEnum, iss[0].Code)
}

func TestValidateKind(t *testing.T) {
	m := mustNormalize(t, map[string]any{"scf.maxIter": "many"})
	iss := issuesOf(t, Validate(m, Default()))
	require.Len(t, iss, 1)
	assert.Equal(t, openmx.CodeInvalidType, iss[0].Code)

	// A declared real accepts an integer.
	m = mustNormalize(t, map[string]any{"scf.energycutoff": 200})
	assert.NoError(t, Validate(m, Default()))

	// A declared bool accepts 0/1 but nothing else.
	m = mustNormalize(t, map[string]any{"LNO.flag": 1})
	assert.NoError(t, Validate(m, Default()))
	m = mustNormalize(t, map[string]any{"LNO.flag": 2})
	iss = issuesOf(t, Validate(m, Default()))
	assert.Equal(t, openmx.CodeInvalidType, iss[0].Code)
}

func TestValidateShape(t *testing.T) {
	m := mustNormalize(t, map[string]any{"scf.Ngrid": []int{32, 32}})
	iss := issuesOf(t, Validate(m, Default()))
	require.Len(t, iss, 1)
	assert.Equal(t, openmx.CodeInvalidShape, iss[0].Code)
	assert.Equal(t, 3, iss[0].Params["want"])
	assert.Equal(t, 2, iss[0].Params["got"])
}

func TestValidateRequires(t *testing.T) {
	m := mustNormalize(t, map[string]any{"scf.DFTU.Type": 2})
	iss := issuesOf(t, Validate(m, Default()))
	require.Len(t, iss, 1)
	assert.Equal(t, openmx.CodeRequiresUnmet, iss[0].Code)
	assert.Equal(t, "scf.hubbard.u", iss[0].Params["requires"])

	m = mustNormalize(t, map[string]any{"scf.DFTU.Type": 2, "scf.Hubbard.U": true})
	assert.NoError(t, Validate(m, Default()))

	// The 0/1 spelling of the prerequisite counts too.
	m = mustNormalize(t, map[string]any{"scf.DFTU.Type": 2, "scf.Hubbard.U": 1})
	assert.NoError(t, Validate(m, Default()))
}

func TestValidateAccumulatesAcrossKeywords(t *testing.T) {
	m := mustNormalize(t, map[string]any{
		"bogus.one":            1,
		"scf.maxIter":          "many",
		"scf.EigenvalueSolver": "nope",
		"MD.Opt.DIIS.History":  50,
	})
	iss := issuesOf(t, Validate(m, Default()))
	assert.ElementsMatch(t, []string{
		openmx.CodeUnknownKeyword,
		openmx.CodeInvalidType,
		openmx.CodeInvalidEnum,
		openmx.CodeOutOfBounds,
	}, codes(iss))
}

func TestValidateComposedAllowsReserved(t *testing.T) {
	m := mustNormalize(t, map[string]any{"scf.maxIter": 100})
	m["scf.kgrid"] = Ints(4, 4, 4)
	m["system.name"] = String("si8")
	assert.NoError(t, ValidateComposed(m, Default()))

	// Value checks still apply to composer-set keywords.
	m["scf.kgrid"] = Ints(4, 4)
	iss := issuesOf(t, ValidateComposed(m, Default()))
	require.Len(t, iss, 1)
	assert.Equal(t, openmx.CodeInvalidShape, iss[0].Code)
}

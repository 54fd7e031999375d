package openmx

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssuesError(t *testing.T) {
	tests := []struct {
		name string
		iss  Issues
		want string
	}{
		{name: "empty", iss: Issues{}, want: ""},
		{
			name: "single",
			iss:  Issues{{Keyword: "scf.maxiter", Code: CodeInvalidType}},
			want: "invalid_type at scf.maxiter",
		},
		{
			name: "no keyword",
			iss:  Issues{{Code: CodeKindMismatch}},
			want: "kind_mismatch",
		},
		{
			name: "truncated after three",
			iss: Issues{
				{Keyword: "a", Code: CodeUnknownKeyword},
				{Keyword: "b", Code: CodeUnknownKeyword},
				{Keyword: "c", Code: CodeUnknownKeyword},
				{Keyword: "d", Code: CodeUnknownKeyword},
			},
			want: "unknown_keyword at a; unknown_keyword at b; unknown_keyword at c; ... (total 4)",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.iss.Error())
		})
	}
}

func TestAsIssues(t *testing.T) {
	iss := Issues{{Keyword: "x", Code: CodeOutOfBounds}}
	wrapped := fmt.Errorf("compose: %w", error(iss))

	got, ok := AsIssues(wrapped)
	require.True(t, ok)
	require.Len(t, got, 1)
	assert.Equal(t, CodeOutOfBounds, got[0].Code)

	_, ok = AsIssues(errors.New("plain"))
	assert.False(t, ok)
	_, ok = AsIssues(nil)
	assert.False(t, ok)
}

func TestAppendIssuesInitializes(t *testing.T) {
	var iss Issues
	iss = AppendIssues(iss, Issue{Code: CodeDuplicateKey})
	require.NotNil(t, iss)
	assert.Len(t, iss, 1)
}

func TestSentinelErrorsDistinct(t *testing.T) {
	sentinels := []error{
		ErrOutputMissing, ErrOutputRead, ErrOutputParse,
		ErrOutputIncomplete, ErrFeatureNotAvailable,
	}
	for i, a := range sentinels {
		for j, b := range sentinels {
			if i == j {
				continue
			}
			assert.False(t, errors.Is(a, b), "%v should not match %v", a, b)
		}
	}
}

package schema

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTag(t *testing.T) {
	tests := []struct {
		name string
		raw  any
		want Value
	}{
		{name: "string", raw: "Band", want: String("Band")},
		{name: "bool", raw: true, want: Bool(true)},
		{name: "int", raw: 42, want: Int(42)},
		{name: "int32", raw: int32(-7), want: Int(-7)},
		{name: "uint16", raw: uint16(9), want: Int(9)},
		{name: "uint64", raw: uint64(200), want: Int(200)},
		{name: "uint64 at int64 max", raw: uint64(math.MaxInt64), want: Int(math.MaxInt64)},
		{name: "float64", raw: 1.5, want: Real(1.5)},
		{name: "float32", raw: float32(0.5), want: Real(0.5)},
		{name: "int slice", raw: []int{4, 4, 4}, want: Ints(4, 4, 4)},
		{name: "float slice", raw: []float64{-10, 10}, want: Reals(-10, 10)},
		{name: "any slice all ints", raw: []any{1, 2, 3}, want: Ints(1, 2, 3)},
		{name: "any slice promotes to real", raw: []any{1, 2.5}, want: Reals(1, 2.5)},
		{name: "tagged passthrough", raw: Int(3), want: Int(3)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Tag(tt.raw)
			require.NoError(t, err)
			assert.True(t, got.Equal(tt.want), "got %v want %v", got, tt.want)
		})
	}
}

func TestTagRejectsUnsupported(t *testing.T) {
	_, err := Tag(map[string]any{"nested": 1})
	assert.Error(t, err)

	_, err = Tag([]any{"strings", "in", "vectors"})
	assert.Error(t, err)
}

func TestTagRejectsUnsignedOverflow(t *testing.T) {
	_, err := Tag(uint64(math.MaxInt64) + 1)
	assert.ErrorContains(t, err, "overflows")
}

func TestValueAccessorsCopy(t *testing.T) {
	v := Ints(1, 2, 3)
	got := v.IntVector()
	got[0] = 99
	assert.Equal(t, []int64{1, 2, 3}, v.IntVector())

	r := Reals(0.5, 1.5)
	rc := r.RealVector()
	rc[1] = -1
	assert.Equal(t, []float64{0.5, 1.5}, r.RealVector())
}

func TestValueEqual(t *testing.T) {
	assert.True(t, Int(1).Equal(Int(1)))
	assert.False(t, Int(1).Equal(Real(1)))
	assert.True(t, Ints(4, 4, 4).Equal(Ints(4, 4, 4)))
	assert.False(t, Ints(4, 4).Equal(Ints(4, 4, 4)))
	assert.False(t, Bool(true).Equal(Bool(false)))
}

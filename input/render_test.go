package input

import (
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openmx-go/openmx/schema"
)

func TestFormatValue(t *testing.T) {
	tests := []struct {
		name string
		v    schema.Value
		want string
	}{
		{name: "string", v: schema.String("Band"), want: "Band"},
		{name: "integer", v: schema.Int(200), want: "200"},
		{name: "real twelve decimals", v: schema.Real(1.5), want: "1.500000000000"},
		{name: "negative real", v: schema.Real(-0.0003), want: "-0.000300000000"},
		{name: "bool on", v: schema.Bool(true), want: "on"},
		{name: "bool off", v: schema.Bool(false), want: "off"},
		{name: "int vector", v: schema.Ints(4, 4, 4), want: "4 4 4"},
		{name: "real vector", v: schema.Reals(-10, 10), want: "-10.000000000000 10.000000000000"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatValue(tt.v))
		})
	}
}

// reparse converts a serialized value back into a tagged Value per the
// declared kind, so round trips can be checked with Value.Equal.
func reparse(t *testing.T, kind schema.ValueKind, raw string) schema.Value {
	t.Helper()
	switch kind {
	case schema.KindString:
		return schema.String(raw)
	case schema.KindInteger:
		n, err := strconv.ParseInt(raw, 10, 64)
		require.NoError(t, err)
		return schema.Int(n)
	case schema.KindReal:
		f, err := strconv.ParseFloat(raw, 64)
		require.NoError(t, err)
		return schema.Real(f)
	case schema.KindBool:
		require.Contains(t, []string{"on", "off"}, raw)
		return schema.Bool(raw == "on")
	case schema.KindIntVector:
		var ns []int64
		for _, fld := range strings.Fields(raw) {
			n, err := strconv.ParseInt(fld, 10, 64)
			require.NoError(t, err)
			ns = append(ns, n)
		}
		return schema.Ints(ns...)
	case schema.KindRealVector:
		var fs []float64
		for _, fld := range strings.Fields(raw) {
			f, err := strconv.ParseFloat(fld, 64)
			require.NoError(t, err)
			fs = append(fs, f)
		}
		return schema.Reals(fs...)
	}
	t.Fatalf("unexpected kind %s", kind)
	return schema.Value{}
}

func TestDeckRoundTrip(t *testing.T) {
	in := siInputs()
	in.Parameters["scf.Hubbard.U"] = true
	in.Parameters["scf.Ngrid"] = []int{48, 48, 48}
	in.Parameters["scf.ElectricField"] = []float64{0, 0, 1.5}

	deck, err := Compose(in, Options{SystemName: "si2"})
	require.NoError(t, err)

	// Re-split every non-block line of the deck and recover the value from
	// its serialized form.
	table := schema.Default()
	got := map[string]schema.Value{}
	inBlock := false
	for _, line := range strings.Split(strings.TrimSuffix(deck.Text, "\n"), "\n") {
		if strings.HasPrefix(line, "<") {
			inBlock = true
			continue
		}
		if inBlock {
			if strings.HasSuffix(line, ">") {
				inBlock = false
			}
			continue
		}
		name, raw, ok := strings.Cut(line, " ")
		require.True(t, ok, "line %q", line)
		spec, found := table.Lookup(name)
		require.True(t, found, "line %q names no keyword", line)
		if spec.Kind == schema.KindInvalid {
			continue
		}
		got[strings.ToLower(name)] = reparse(t, spec.Kind, raw)
	}

	want := map[string]schema.Value{
		"scf.maxiter":          schema.Int(200),
		"scf.energycutoff":     schema.Real(200.0),
		"scf.eigenvaluesolver": schema.String("Band"),
		"scf.hubbard.u":        schema.Bool(true),
		"scf.ngrid":            schema.Ints(48, 48, 48),
		"scf.electricfield":    schema.Reals(0, 0, 1.5),
		"system.name":          schema.String("si2"),
		"atoms.number":         schema.Int(2),
		"scf.kgrid":            schema.Ints(4, 4, 4),
	}
	for key, w := range want {
		g, ok := got[key]
		require.True(t, ok, "keyword %s missing from deck", key)
		assert.True(t, w.Equal(g), "keyword %s: want %v got %v", key, w, g)
	}
}

func TestOrbitalConfigString(t *testing.T) {
	assert.Equal(t, "s2p2d1", orbitalConfigString([]int{2, 2, 1}))
	assert.Equal(t, "s3p2d2f1", orbitalConfigString([]int{3, 2, 2, 1}))
	assert.Equal(t, "s1", orbitalConfigString([]int{1}))
	assert.Equal(t, "", orbitalConfigString(nil))
	// Counts past f have no letter and are dropped.
	assert.Equal(t, "s2p2d1f1", orbitalConfigString([]int{2, 2, 1, 1, 9}))
}

func TestOrbitalConfigOverride(t *testing.T) {
	in := siInputs()
	in.OrbitalConfigs = map[string][]int{"Si": {3, 3, 2}}
	lines := speciesDefinitionBlock(in)
	assert.Equal(t, []string{"Si Si_PBE19 Si7.0-s3p3d2"}, lines)
}

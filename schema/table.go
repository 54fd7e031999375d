package schema

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed keywords.yaml
var keywordsYAML []byte

// Bounds is a numeric range with an exclusive lower and inclusive upper end:
// a value x passes when lower < x <= upper.
type Bounds struct {
	Lower float64 `yaml:"lower"`
	Upper float64 `yaml:"upper"`
}

// Contains reports whether x satisfies the bounds.
func (b Bounds) Contains(x float64) bool {
	return b.Lower < x && x <= b.Upper
}

// Spec describes one recognized keyword.
type Spec struct {
	Name     string    // Canonical spelling, used for serialization.
	Kind     ValueKind // KindInvalid means undeclared: type checks are skipped.
	Dims     []int     // Required vector length, when declared.
	Bounds   *Bounds
	Allowed  []string // Closed value set for strings, matched case-insensitively.
	Default  *Value
	Unit     string
	Block    bool // Serializes as a <Name ... Name> bracketed region.
	// Requires constrains a keyword to configurations where every listed
	// keyword is present with the given value.
	Requires map[string]Value
}

// Table is one version of the keyword specification. Lookup is
// case-insensitive; iteration order is the table's declaration order, which
// fixes the serialization order of input decks.
type Table struct {
	Version  int
	specs    []Spec
	index    map[string]int
	reserved map[string]struct{}
}

// Lookup returns the spec for a keyword, matching case-insensitively.
func (t *Table) Lookup(name string) (*Spec, bool) {
	i, ok := t.index[strings.ToLower(name)]
	if !ok {
		return nil, false
	}
	return &t.specs[i], true
}

// IsReserved reports whether the keyword is computed internally by the
// composer and must never be supplied by the caller.
func (t *Table) IsReserved(name string) bool {
	_, ok := t.reserved[strings.ToLower(name)]
	return ok
}

// Specs returns the specs in table order.
func (t *Table) Specs() []Spec {
	out := make([]Spec, len(t.specs))
	copy(out, t.specs)
	return out
}

// Len reports the number of keywords in the table.
func (t *Table) Len() int { return len(t.specs) }

type yamlSpec struct {
	Name     string         `yaml:"name"`
	Kind     string         `yaml:"kind"`
	Dims     []int          `yaml:"dims"`
	Bounds   *Bounds        `yaml:"bounds"`
	Allowed  []string       `yaml:"allowed"`
	Default  any            `yaml:"default"`
	Unit     string         `yaml:"unit"`
	Block    bool           `yaml:"block"`
	Requires map[string]any `yaml:"requires"`
}

type yamlTable struct {
	Version  int        `yaml:"version"`
	Keywords []yamlSpec `yaml:"keywords"`
	Reserved []string   `yaml:"reserved"`
}

func parseKind(s string) (ValueKind, error) {
	switch s {
	case "":
		return KindInvalid, nil
	case "string":
		return KindString, nil
	case "integer":
		return KindInteger, nil
	case "real":
		return KindReal, nil
	case "bool":
		return KindBool, nil
	case "ints":
		return KindIntVector, nil
	case "reals":
		return KindRealVector, nil
	default:
		return KindInvalid, fmt.Errorf("unknown value kind %q", s)
	}
}

// Load parses a keyword table from YAML.
func Load(data []byte) (*Table, error) {
	var yt yamlTable
	if err := yaml.Unmarshal(data, &yt); err != nil {
		return nil, fmt.Errorf("schema: parse keyword table: %w", err)
	}
	t := &Table{
		Version:  yt.Version,
		specs:    make([]Spec, 0, len(yt.Keywords)),
		index:    make(map[string]int, len(yt.Keywords)),
		reserved: make(map[string]struct{}, len(yt.Reserved)),
	}
	for _, ys := range yt.Keywords {
		kind, err := parseKind(ys.Kind)
		if err != nil {
			return nil, fmt.Errorf("schema: keyword %s: %w", ys.Name, err)
		}
		spec := Spec{
			Name:    ys.Name,
			Kind:    kind,
			Dims:    ys.Dims,
			Bounds:  ys.Bounds,
			Allowed: ys.Allowed,
			Unit:    ys.Unit,
			Block:   ys.Block,
		}
		if ys.Default != nil {
			v, err := Tag(ys.Default)
			if err != nil {
				return nil, fmt.Errorf("schema: keyword %s default: %w", ys.Name, err)
			}
			spec.Default = &v
		}
		if len(ys.Requires) > 0 {
			spec.Requires = make(map[string]Value, len(ys.Requires))
			for k, raw := range ys.Requires {
				v, err := Tag(raw)
				if err != nil {
					return nil, fmt.Errorf("schema: keyword %s requires %s: %w", ys.Name, k, err)
				}
				spec.Requires[strings.ToLower(k)] = v
			}
		}
		key := strings.ToLower(spec.Name)
		if _, dup := t.index[key]; dup {
			return nil, fmt.Errorf("schema: duplicate keyword %s", spec.Name)
		}
		t.index[key] = len(t.specs)
		t.specs = append(t.specs, spec)
	}
	for _, name := range yt.Reserved {
		if _, ok := t.index[strings.ToLower(name)]; !ok {
			return nil, fmt.Errorf("schema: reserved keyword %s not in table", name)
		}
		t.reserved[strings.ToLower(name)] = struct{}{}
	}
	return t, nil
}

var defaultTable = sync.OnceValues(func() (*Table, error) {
	return Load(keywordsYAML)
})

// Default returns the embedded keyword table. The embedded asset is part of
// the build, so a parse failure is a programming error.
func Default() *Table {
	t, err := defaultTable()
	if err != nil {
		panic(err)
	}
	return t
}

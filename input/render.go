package input

import (
	"fmt"
	"strings"

	"github.com/openmx-go/openmx/schema"
)

// render serializes the merged mapping in keyword-table order, not insertion
// order, so identical inputs always yield byte-identical text. Block-type
// keywords take their payload from blocks, keyed by the folded keyword name.
func render(m schema.Mapping, blocks map[string][]string, t *schema.Table) string {
	var b strings.Builder
	for _, spec := range t.Specs() {
		key := strings.ToLower(spec.Name)
		if spec.Block {
			lines, ok := blocks[key]
			if !ok {
				continue
			}
			writeBlock(&b, spec.Name, lines)
			continue
		}
		v, ok := m[key]
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "%s %s\n", spec.Name, formatValue(v))
	}
	return b.String()
}

// writeBlock wraps the payload in the matching open/close bracket lines named
// after the keyword.
func writeBlock(b *strings.Builder, tag string, lines []string) {
	fmt.Fprintf(b, "<%s\n", tag)
	for _, line := range lines {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	fmt.Fprintf(b, "%s>\n", tag)
}

// formatValue renders a scalar or single-line sequence. Reals carry 12
// decimal places; booleans use the on/off literals OpenMX understands rather
// than 0/1.
func formatValue(v schema.Value) string {
	switch v.Kind() {
	case schema.KindString:
		return v.Str()
	case schema.KindInteger:
		return fmt.Sprintf("%d", v.Int())
	case schema.KindReal:
		return fmt.Sprintf("%.12f", v.Real())
	case schema.KindBool:
		if v.Bool() {
			return "on"
		}
		return "off"
	case schema.KindIntVector:
		parts := make([]string, 0, v.Len())
		for _, n := range v.IntVector() {
			parts = append(parts, fmt.Sprintf("%d", n))
		}
		return strings.Join(parts, " ")
	case schema.KindRealVector:
		parts := make([]string, 0, v.Len())
		for _, r := range v.RealVector() {
			parts = append(parts, fmt.Sprintf("%.12f", r))
		}
		return strings.Join(parts, " ")
	default:
		return ""
	}
}

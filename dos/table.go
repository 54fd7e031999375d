package dos

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/openmx-go/openmx"
)

// Table is a parsed DosMain result file. Column 0 is energy relative to the
// chemical potential in eV; the remaining columns are the density of states
// and its integral, one pair per spin channel.
type Table struct {
	Data *mat.Dense
}

// Rows returns the number of energy points.
func (t Table) Rows() int {
	if t.Data == nil {
		return 0
	}
	r, _ := t.Data.Dims()
	return r
}

// Energies returns a copy of the energy column.
func (t Table) Energies() []float64 {
	return t.col(0)
}

// DOS returns a copy of the density-of-states column for the given spin
// channel (0 for up, 1 for down).
func (t Table) DOS(spin int) []float64 {
	return t.col(1 + spin)
}

func (t Table) col(j int) []float64 {
	if t.Data == nil {
		return nil
	}
	r, c := t.Data.Dims()
	if j < 0 || j >= c {
		return nil
	}
	out := make([]float64, r)
	mat.Col(out, j, t.Data)
	return out
}

// ParseTable reads a whitespace-separated numeric table. Blank lines and
// lines starting with '#' are skipped. Every data row must carry the same
// column count, and at least energy plus one DOS column.
func ParseTable(r io.Reader) (Table, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	var data []float64
	cols := 0
	row := 0
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if cols == 0 {
			if len(fields) < 2 {
				return Table{}, fmt.Errorf("%w: row 1 has %d columns, need at least 2", openmx.ErrOutputParse, len(fields))
			}
			cols = len(fields)
		} else if len(fields) != cols {
			return Table{}, fmt.Errorf("%w: row %d has %d columns, expected %d", openmx.ErrOutputParse, row+1, len(fields), cols)
		}
		for _, f := range fields {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return Table{}, fmt.Errorf("%w: row %d: %q is not a number", openmx.ErrOutputParse, row+1, f)
			}
			data = append(data, v)
		}
		row++
	}
	if err := sc.Err(); err != nil {
		return Table{}, fmt.Errorf("%w: %v", openmx.ErrOutputRead, err)
	}
	if row == 0 {
		return Table{}, fmt.Errorf("%w: empty density-of-states table", openmx.ErrOutputParse)
	}
	return Table{Data: mat.NewDense(row, cols, data)}, nil
}

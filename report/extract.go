package report

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/openmx-go/openmx"
	"github.com/openmx-go/openmx/physical"
)

// Options configure extraction for one run.
type Options struct {
	// MDType is the molecular-dynamics mode of the run, as supplied to the
	// composer (case-insensitive). Anything other than empty or "nomd" makes
	// the run a relaxation: the final-geometry section becomes required and a
	// derived output structure is built.
	MDType string
	// Structure is the input structure of the run; required to derive the
	// final structure of a relaxation.
	Structure *physical.Structure
}

// scan is the mutable state threaded through one forward pass.
type scan struct {
	rec      *Record
	energies map[string][]float64

	finalKinds  []string
	finalCoords [][3]float64
	finalForces [][3]float64
	finalCell   [][3]float64

	sawEnergies bool
	sawBands    bool
	sawTiming   bool
}

// Parse reads the whole report and extracts the structured record in a
// single forward scan. Read faults surface as ErrOutputRead; a missing
// required marker as ErrOutputParse; a section whose sentinel never arrives
// as ErrOutputIncomplete.
func Parse(r io.Reader, opts Options) (*Record, error) {
	lines, err := readLines(r)
	if err != nil {
		return nil, err
	}
	return ParseLines(lines, opts)
}

// ParseLines extracts from an already-read line sequence.
func ParseLines(lines []string, opts Options) (*Record, error) {
	p := &scan{
		rec:      &Record{Params: map[string]any{}},
		energies: map[string][]float64{},
	}

	for i, line := range lines {
		for si := range sections {
			sec := &sections[si]
			if !strings.Contains(line, sec.marker) {
				continue
			}
			var block []string
			switch {
			case sec.toEOF:
				start := i + sec.skip
				if start >= len(lines) {
					return nil, fmt.Errorf("%w: section %s truncated", openmx.ErrOutputIncomplete, sec.name)
				}
				block = lines[start:]
			case sec.sentinel != nil:
				start := i + sec.skip
				if start >= len(lines) {
					return nil, fmt.Errorf("%w: section %s truncated", openmx.ErrOutputIncomplete, sec.name)
				}
				stop := start
				for stop < len(lines) && !sec.sentinel(lines[stop]) {
					stop++
				}
				if stop == len(lines) {
					return nil, fmt.Errorf("%w: section %s has no end sentinel", openmx.ErrOutputIncomplete, sec.name)
				}
				block = lines[start:stop]
			}
			if err := sec.handle(p, line, block); err != nil {
				return nil, err
			}
		}
	}

	if err := p.finalize(opts); err != nil {
		return nil, err
	}
	return p.rec, nil
}

// finalize collapses recurring sections to their last occurrence and derives
// the final structure for relaxation runs.
func (p *scan) finalize(opts Options) error {
	if !p.sawEnergies {
		return fmt.Errorf("%w: marker %q not found", openmx.ErrOutputParse, "Total energy (Hartree) at MD")
	}
	if !p.sawBands {
		return fmt.Errorf("%w: marker %q not found", openmx.ErrOutputParse, "Eigenvalues (Hartree) of SCF KS-eq.")
	}
	if !p.sawTiming {
		return fmt.Errorf("%w: marker %q not found", openmx.ErrOutputParse, "Computational Time (second)")
	}

	// Only the last value of a per-step series is the scalar summary.
	for name, series := range p.energies {
		p.rec.Params[name] = series[len(series)-1]
		p.rec.Params[name+openmx.UnitsSuffix] = openmx.EnergyUnits
	}
	p.rec.Params["e_fermi"] = p.rec.Bands.EFermi
	p.rec.Params["e_fermi"+openmx.UnitsSuffix] = openmx.EnergyUnits
	p.rec.Params["n_states"] = p.rec.Bands.NStates

	mdType := strings.ToLower(opts.MDType)
	if mdType == "" || mdType == "nomd" {
		return nil
	}
	if opts.Structure == nil {
		return fmt.Errorf("%w: relaxation run without input structure", openmx.ErrOutputParse)
	}
	if len(p.finalCoords) == 0 {
		return fmt.Errorf("%w: marker %q not found", openmx.ErrOutputParse,
			"xyz-coordinates (Ang.) and forces (Hartree/Bohr)")
	}

	final, err := opts.Structure.WithPositions(p.finalCoords)
	if err != nil {
		return fmt.Errorf("%w: %v", openmx.ErrOutputParse, err)
	}
	if _, varies := cellVaryingModes[mdType]; varies {
		if len(p.finalCell) != 3 {
			return fmt.Errorf("%w: marker %q not found", openmx.ErrOutputParse,
				"Cell vectors (Ang.) and derivatives of total energy")
		}
		final = final.WithCell([3][3]float64{p.finalCell[0], p.finalCell[1], p.finalCell[2]})
	}
	p.rec.FinalStructure = final
	return nil
}

func readLines(r io.Reader) ([]string, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	var lines []string
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", openmx.ErrOutputRead, err)
	}
	return lines, nil
}

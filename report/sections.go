package report

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/openmx-go/openmx"
)

// section is one entry of the extraction table: a marker substring, the
// fixed line-count skip from the marker to the block's first line, a sentinel
// predicate ending the block, and the handler that scrapes it. A nil sentinel
// means the handler consumes only the marker line itself; toEOF means the
// block runs to the end of the report.
type section struct {
	name     string
	marker   string
	skip     int
	sentinel func(string) bool
	toEOF    bool
	handle   func(p *scan, markerLine string, block []string) error
}

func containsStar(line string) bool   { return strings.Contains(line, "*") }
func containsNote(line string) bool   { return strings.Contains(line, "Note:") }
func containsForces(line string) bool { return strings.Contains(line, "coordinates.forces") }

// sections is the extraction table. Adding a report section is a data
// change here, not new control flow in the scanner.
var sections = []section{
	{name: "version", marker: "OpenMX Ver.", handle: handleVersion},
	{name: "mpi", marker: "MPI processes", handle: handleParallel},
	{name: "cutoff", marker: "Used cutoff energy (Ryd) for 3D-grids", handle: handleCutoff},
	{name: "grid", marker: "Num. of grids of a-, b-, and c-axes", handle: handleGrid},
	{name: "energies", marker: "Total energy (Hartree) at MD", skip: 3,
		sentinel: containsNote, handle: handleEnergies},
	{name: "eigenvalues", marker: "Eigenvalues (Hartree) of SCF KS-eq.", skip: 4,
		sentinel: containsStar, handle: handleEigenvalues},
	{name: "cell_opt", marker: "History of cell optimization", skip: 7,
		sentinel: containsStar, handle: handleCellOpt},
	{name: "dipole", marker: "Dipole moment (Debye)", skip: 4,
		sentinel: containsStar, handle: handleDipole},
	{name: "final_cell", marker: "Cell vectors (Ang.) and derivatives of total energy", skip: 4,
		sentinel: containsStar, handle: handleFinalCell},
	{name: "final_xyz", marker: "xyz-coordinates (Ang.) and forces (Hartree/Bohr)", skip: 6,
		sentinel: containsForces, handle: handleFinalXYZ},
	{name: "final_frac", marker: "Fractional coordinates of the final structure", skip: 4,
		sentinel: containsStar, handle: handleFinalFrac},
	{name: "timing", marker: "Computational Time (second)", skip: 4,
		toEOF: true, handle: handleTiming},
}

func parseFloat(s, where string) (float64, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: bad number %q", openmx.ErrOutputParse, where, s)
	}
	return f, nil
}

func parseInt(s, where string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: bad integer %q", openmx.ErrOutputParse, where, s)
	}
	return n, nil
}

// handleVersion takes the token following "Ver." on the banner line.
func handleVersion(p *scan, markerLine string, _ []string) error {
	fields := strings.Fields(markerLine)
	for i, f := range fields {
		if f == "Ver." && i+1 < len(fields) {
			p.rec.Params["openmx_version"] = strings.TrimSuffix(fields[i+1], ".")
			return nil
		}
	}
	return fmt.Errorf("%w: version banner: %q", openmx.ErrOutputParse, markerLine)
}

// handleParallel scrapes "... N MPI processes and M OpenMP threads ...".
func handleParallel(p *scan, markerLine string, _ []string) error {
	fields := strings.Fields(markerLine)
	if len(fields) < 2 {
		return fmt.Errorf("%w: parallelization line: %q", openmx.ErrOutputParse, markerLine)
	}
	n, err := parseInt(fields[1], "mpi processes")
	if err != nil {
		return err
	}
	p.rec.Params["mpi_procs"] = n
	if strings.Contains(markerLine, "OpenMP threads") && len(fields) >= 6 {
		m, err := parseInt(fields[5], "openmp threads")
		if err != nil {
			return err
		}
		p.rec.Params["omp_threads"] = m
	}
	return nil
}

// handleCutoff converts the three per-axis cutoffs from Rydberg to eV.
func handleCutoff(p *scan, markerLine string, _ []string) error {
	_, rhs, ok := strings.Cut(markerLine, "=")
	if !ok {
		return fmt.Errorf("%w: cutoff line: %q", openmx.ErrOutputParse, markerLine)
	}
	parts := strings.Split(rhs, ",")
	if len(parts) != 3 {
		return fmt.Errorf("%w: cutoff line: %q", openmx.ErrOutputParse, markerLine)
	}
	out := make([]float64, 3)
	for i, part := range parts {
		ry, err := parseFloat(strings.TrimSpace(part), "cutoff")
		if err != nil {
			return err
		}
		out[i] = ry * openmx.RydbergToEV
	}
	p.rec.Params["true_scf_ecut"] = out
	p.rec.Params["true_scf_ecut"+openmx.UnitsSuffix] = openmx.EnergyUnits
	return nil
}

func handleGrid(p *scan, markerLine string, _ []string) error {
	_, rhs, ok := strings.Cut(markerLine, "=")
	if !ok {
		return fmt.Errorf("%w: grid line: %q", openmx.ErrOutputParse, markerLine)
	}
	parts := strings.Split(rhs, ",")
	if len(parts) != 3 {
		return fmt.Errorf("%w: grid line: %q", openmx.ErrOutputParse, markerLine)
	}
	out := make([]int, 3)
	for i, part := range parts {
		n, err := parseInt(strings.TrimSpace(part), "fft grid")
		if err != nil {
			return err
		}
		out[i] = n
	}
	p.rec.Params["3d_fft_grid"] = out
	return nil
}

// handleEnergies appends each recognized energy component, in eV. The block
// recurs once per ionic step; finalize keeps the last value of each series.
func handleEnergies(p *scan, _ string, block []string) error {
	p.sawEnergies = true
	for _, line := range block {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		name, ok := energyNames[fields[0]]
		if !ok {
			continue
		}
		ha, err := parseFloat(fields[1], "energy "+fields[0])
		if err != nil {
			return err
		}
		p.energies[name] = append(p.energies[name], ha*openmx.HartreeToEV)
	}
	return nil
}

// handleEigenvalues replaces the retained Bands wholesale: only the most
// recent SCF iteration's eigenvalues survive.
func handleEigenvalues(p *scan, _ string, block []string) error {
	if len(block) < 3 {
		return fmt.Errorf("%w: eigenvalues block too short", openmx.ErrOutputParse)
	}
	// The sentinel scan includes the closing border; drop it.
	block = block[:len(block)-1]

	bands := Bands{}
	_, rhs, ok := strings.Cut(block[0], "=")
	if !ok {
		return fmt.Errorf("%w: chemical potential line: %q", openmx.ErrOutputParse, block[0])
	}
	mu, err := parseFloat(strings.TrimSpace(rhs), "chemical potential")
	if err != nil {
		return err
	}
	bands.EFermi = mu * openmx.HartreeToEV
	_, rhs, ok = strings.Cut(block[1], "=")
	if !ok {
		return fmt.Errorf("%w: number of states line: %q", openmx.ErrOutputParse, block[1])
	}
	nStates, err := parseFloat(strings.TrimSpace(rhs), "number of states")
	if err != nil {
		return err
	}
	bands.NStates = nStates

	var kloopStarts []int
	for i, line := range block {
		if strings.Contains(line, "kloop") {
			kloopStarts = append(kloopStarts, i)
		}
	}
	for ki, start := range kloopStarts {
		stop := len(block)
		if ki+1 < len(kloopStarts) {
			stop = kloopStarts[ki+1]
		}
		kl := block[start:stop]
		if len(kl) < 5 {
			return fmt.Errorf("%w: kloop block too short", openmx.ErrOutputParse)
		}
		// Second line: "k1= x k2= y k3= z".
		kw := strings.Fields(kl[1])
		if len(kw) < 6 {
			return fmt.Errorf("%w: k-point line: %q", openmx.ErrOutputParse, kl[1])
		}
		var kpt [3]float64
		for i, idx := range [3]int{1, 3, 5} {
			kpt[i], err = parseFloat(kw[idx], "k-point")
			if err != nil {
				return err
			}
		}
		bands.KPoints = append(bands.KPoints, kpt)

		var up, down []float64
		for _, row := range kl[3 : len(kl)-2] {
			fields := strings.Fields(row)
			if len(fields) < 3 {
				return fmt.Errorf("%w: eigenvalue row: %q", openmx.ErrOutputParse, row)
			}
			eUp, err := parseFloat(fields[1], "eigenvalue")
			if err != nil {
				return err
			}
			eDown, err := parseFloat(fields[2], "eigenvalue")
			if err != nil {
				return err
			}
			up = append(up, eUp*openmx.HartreeToEV)
			down = append(down, eDown*openmx.HartreeToEV)
		}
		bands.Up = append(bands.Up, up)
		bands.Down = append(bands.Down, down)
	}
	p.sawBands = true
	p.rec.Bands = bands
	return nil
}

func handleCellOpt(p *scan, _ string, block []string) error {
	if len(block) > 0 {
		block = block[:len(block)-1]
	}
	hist := map[string][]float64{}
	for _, line := range block {
		fields := strings.Fields(line)
		if len(fields) < 7 {
			continue
		}
		vals := make([]float64, 6)
		for i := 0; i < 6; i++ {
			v, err := parseFloat(fields[i+1], "cell optimization")
			if err != nil {
				return err
			}
			vals[i] = v
		}
		hist["sd_scaling"] = append(hist["sd_scaling"], vals[0])
		hist["abs_max_force"] = append(hist["abs_max_force"], vals[1]*openmx.HaPerBohrToEVPerAng)
		hist["max_step"] = append(hist["max_step"], vals[2])
		hist["u_tot"] = append(hist["u_tot"], vals[3]*openmx.HartreeToEV)
		hist["enthalpy"] = append(hist["enthalpy"], vals[4]*openmx.HartreeToEV)
		hist["vol"] = append(hist["vol"], vals[5])
	}
	p.rec.Params["cell_opt_history"] = hist
	return nil
}

func handleDipole(p *scan, _ string, block []string) error {
	for _, line := range block {
		if strings.Contains(line, "Absolute D") {
			fields := strings.Fields(line)
			if len(fields) < 3 {
				return fmt.Errorf("%w: dipole line: %q", openmx.ErrOutputParse, line)
			}
			d, err := parseFloat(fields[2], "absolute dipole")
			if err != nil {
				return err
			}
			p.rec.Params["abs_dipole_mom"] = d
			p.rec.Params["abs_dipole_mom"+openmx.UnitsSuffix] = openmx.DipoleUnits
			continue
		}
		for label, name := range dipoleNames {
			if !strings.Contains(line, label) {
				continue
			}
			fields := strings.Fields(strings.ReplaceAll(line, label, ""))
			if len(fields) < 3 {
				return fmt.Errorf("%w: dipole line: %q", openmx.ErrOutputParse, line)
			}
			vec := make([]float64, 3)
			for i := 0; i < 3; i++ {
				v, err := parseFloat(fields[i], "dipole "+label)
				if err != nil {
					return err
				}
				vec[i] = v
			}
			p.rec.Params[name] = vec
			p.rec.Params[name+openmx.UnitsSuffix] = openmx.DipoleUnits
			break
		}
	}
	return nil
}

// handleFinalCell scrapes lines of the form
// "a1 = x y z | dx dy dz" into final cell vectors (Å) and energy derivatives
// (converted to eV/Å).
func handleFinalCell(p *scan, _ string, block []string) error {
	var cells, derivs [][3]float64
	for _, line := range block {
		left, right, ok := strings.Cut(line, "|")
		if !ok {
			continue
		}
		_, lhs, ok := strings.Cut(left, "=")
		if !ok {
			continue
		}
		cf := strings.Fields(lhs)
		df := strings.Fields(right)
		if len(cf) < 3 || len(df) < 3 {
			return fmt.Errorf("%w: cell vector line: %q", openmx.ErrOutputParse, line)
		}
		var cell, deriv [3]float64
		for i := 0; i < 3; i++ {
			c, err := parseFloat(cf[i], "cell vector")
			if err != nil {
				return err
			}
			d, err := parseFloat(df[i], "cell derivative")
			if err != nil {
				return err
			}
			cell[i] = c
			deriv[i] = d * openmx.HaPerBohrToEVPerAng
		}
		cells = append(cells, cell)
		derivs = append(derivs, deriv)
	}
	if len(cells) != 3 {
		return fmt.Errorf("%w: expected 3 final cell vectors, got %d", openmx.ErrOutputParse, len(cells))
	}
	p.finalCell = cells
	p.rec.Params["final_de_dcell"] = derivs
	p.rec.Params["final_de_dcell"+openmx.UnitsSuffix] = openmx.ForceUnits
	return nil
}

// handleFinalXYZ scrapes per-atom rows "i Kind x y z fx fy fz"; forces
// convert from Hartree/Bohr to eV/Å.
func handleFinalXYZ(p *scan, _ string, block []string) error {
	for _, line := range block {
		fields := strings.Fields(line)
		if len(fields) < 8 {
			continue
		}
		var pos, force [3]float64
		for i := 0; i < 3; i++ {
			x, err := parseFloat(fields[2+i], "final coordinate")
			if err != nil {
				return err
			}
			f, err := parseFloat(fields[5+i], "final force")
			if err != nil {
				return err
			}
			pos[i] = x
			force[i] = f * openmx.HaPerBohrToEVPerAng
		}
		p.finalKinds = append(p.finalKinds, fields[1])
		p.finalCoords = append(p.finalCoords, pos)
		p.finalForces = append(p.finalForces, force)
	}
	p.rec.Params["final_forces"] = p.finalForces
	p.rec.Params["final_forces"+openmx.UnitsSuffix] = openmx.ForceUnits
	return nil
}

func handleFinalFrac(p *scan, _ string, block []string) error {
	if len(block) > 0 {
		block = block[:len(block)-1]
	}
	var coords [][3]float64
	var kinds []string
	for _, line := range block {
		fields := strings.Fields(line)
		if len(fields) < 5 {
			continue
		}
		var pos [3]float64
		for i := 0; i < 3; i++ {
			x, err := parseFloat(fields[2+i], "fractional coordinate")
			if err != nil {
				return err
			}
			pos[i] = x
		}
		kinds = append(kinds, fields[1])
		coords = append(coords, pos)
	}
	p.rec.Params["final_frac_coords"] = coords
	p.rec.Params["final_frac_species"] = kinds
	return nil
}

// handleTiming scrapes the trailing timing block: the elapsed total on the
// first line, then one "routine = minID minTime maxID maxTime" line per
// recognized routine.
func handleTiming(p *scan, _ string, block []string) error {
	if len(block) == 0 {
		return fmt.Errorf("%w: timing block empty", openmx.ErrOutputParse)
	}
	fields := strings.Fields(block[0])
	if len(fields) < 2 {
		return fmt.Errorf("%w: elapsed time line: %q", openmx.ErrOutputParse, block[0])
	}
	elapsed, err := parseFloat(fields[1], "elapsed time")
	if err != nil {
		return err
	}
	p.rec.Params["elapsed_time"] = elapsed
	p.rec.Params["elapsed_time"+openmx.UnitsSuffix] = openmx.TimeUnits

	for _, line := range block[1:] {
		lf := strings.Fields(line)
		if len(lf) == 0 {
			continue
		}
		// Routine labels are matched on the leading field, not by substring:
		// "DFT" is a substring of "RestartFileDFT".
		name, ok := timingNames[lf[0]]
		if !ok {
			continue
		}
		_, rhs, found := strings.Cut(line, "=")
		if !found {
			continue
		}
		tf := strings.Fields(rhs)
		if len(tf) < 4 {
			return fmt.Errorf("%w: timing line: %q", openmx.ErrOutputParse, line)
		}
		minID, err := parseInt(tf[0], "timing min id")
		if err != nil {
			return err
		}
		minTime, err := parseFloat(tf[1], "timing min")
		if err != nil {
			return err
		}
		maxID, err := parseInt(tf[2], "timing max id")
		if err != nil {
			return err
		}
		maxTime, err := parseFloat(tf[3], "timing max")
		if err != nil {
			return err
		}
		p.rec.Params[name] = RoutineTiming{MinID: minID, MinTime: minTime, MaxID: maxID, MaxTime: maxTime}
		p.rec.Params[name+openmx.UnitsSuffix] = openmx.TimeUnits
	}
	p.sawTiming = true
	return nil
}

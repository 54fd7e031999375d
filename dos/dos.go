// Package dos builds the control input for the DosMain post-processor and
// parses the density-of-states tables it writes. DosMain reads a two- or
// three-line control file on stdin: the method code, an optional Gaussian
// broadening, the spectral-quantity code, and an optional atom index list.
package dos

import (
	"fmt"
	"strings"

	"github.com/openmx-go/openmx"
	"github.com/openmx-go/openmx/physical"
)

// Method selects how DosMain integrates the density of states.
type Method int

const (
	// Tetrahedron integration needs no extra parameters.
	Tetrahedron Method = iota + 1
	// Gaussian broadening needs a positive width in eV.
	Gaussian
)

func (m Method) String() string {
	switch m {
	case Tetrahedron:
		return "tetrahedron"
	case Gaussian:
		return "gaussian"
	default:
		return fmt.Sprintf("method(%d)", int(m))
	}
}

// Spectrum selects the spectral quantity.
type Spectrum int

const (
	// TotalDOS is the total density of states.
	TotalDOS Spectrum = iota + 1
	// ProjectedDOS resolves the density of states per atom. Not implemented:
	// every path reaching it fails with ErrFeatureNotAvailable.
	ProjectedDOS
)

// Request is one DosMain invocation's inputs.
type Request struct {
	Method     Method
	Spectrum   Spectrum
	Broadening float64 // eV; required for Gaussian
	// AtomIndices, Structure, and OrbitalConfigs belong to the projected-DOS
	// path and are validated, but the path itself is unimplemented.
	AtomIndices    []int
	Structure      *physical.Structure
	OrbitalConfigs map[string][]int
}

// Validate checks the request, accumulating every violation.
func (r Request) Validate() error {
	var iss openmx.Issues
	if r.Method != Tetrahedron && r.Method != Gaussian {
		iss = openmx.AppendIssues(iss, openmx.Issue{
			Keyword: "method",
			Code:    openmx.CodeInvalidEnum,
			Message: fmt.Sprintf("method must be tetrahedron or gaussian, got %s", r.Method),
		})
	}
	if r.Method == Gaussian && r.Broadening <= 0 {
		iss = openmx.AppendIssues(iss, openmx.Issue{
			Keyword: "broadening",
			Code:    openmx.CodeOutOfBounds,
			Message: "gaussian broadening must be positive",
			Params:  map[string]any{"got": r.Broadening},
		})
	}
	if r.Spectrum != TotalDOS && r.Spectrum != ProjectedDOS {
		iss = openmx.AppendIssues(iss, openmx.Issue{
			Keyword: "spectrum",
			Code:    openmx.CodeInvalidEnum,
			Message: "spectrum must be total or projected density of states",
		})
	}
	if r.Spectrum == ProjectedDOS {
		if len(r.AtomIndices) == 0 {
			iss = openmx.AppendIssues(iss, openmx.Issue{
				Keyword: "atom_indices",
				Code:    openmx.CodeInvalidShape,
				Message: "projected DOS needs at least one atom index",
			})
		}
		if r.Structure == nil {
			iss = openmx.AppendIssues(iss, openmx.Issue{
				Keyword: "structure",
				Code:    openmx.CodeKindMismatch,
				Message: "projected DOS needs the upstream input structure",
			})
		}
		if r.OrbitalConfigs == nil {
			iss = openmx.AppendIssues(iss, openmx.Issue{
				Keyword: "orbital_configs",
				Code:    openmx.CodeKindMismatch,
				Message: "projected DOS needs the upstream orbital configurations",
			})
		}
	}
	if len(iss) > 0 {
		return iss
	}
	return nil
}

// ControlFile renders the stdin control file for the request.
func (r Request) ControlFile() (string, error) {
	if err := r.Validate(); err != nil {
		return "", err
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d\n", int(r.Method))
	if r.Method == Gaussian {
		fmt.Fprintf(&b, "%.12f\n", r.Broadening)
	}
	fmt.Fprintf(&b, "%d\n", int(r.Spectrum))
	if r.Spectrum == ProjectedDOS {
		parts := make([]string, len(r.AtomIndices))
		for i, idx := range r.AtomIndices {
			parts[i] = fmt.Sprintf("%d", idx)
		}
		b.WriteString(strings.Join(parts, " ") + "\n")
	}
	return b.String(), nil
}

// OutputFilename names the result file DosMain writes, derived
// deterministically from the system name and method.
func OutputFilename(systemName string, m Method) string {
	if m == Gaussian {
		return systemName + ".DOS.Gaussian"
	}
	return systemName + ".DOS.Tetrahedron"
}

// RetrieveList names the files to pull back after the run. The projected-DOS
// file set depends on species ordering and orbital configurations that are
// not wired up yet, so that path fails loudly instead of guessing.
func (r Request) RetrieveList(systemName string) ([]string, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	if r.Spectrum == ProjectedDOS {
		return nil, fmt.Errorf("%w: projected density of states", openmx.ErrFeatureNotAvailable)
	}
	return []string{OutputFilename(systemName, r.Method)}, nil
}

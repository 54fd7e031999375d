// Package report parses the stdout report OpenMX writes into a structured
// record. The report format is not self-describing: each section is located
// by a marker substring, starts a fixed number of lines below the marker,
// and ends at a sentinel line. The section table in sections.go captures that
// shape once per section; the scan itself is a single forward pass.
//
// Quantities are converted from OpenMX's atomic-unit conventions to the
// caller-facing unit set at the point of extraction. Sections re-emitted per
// self-consistency or ionic iteration keep only their final occurrence in the
// scalar summary.
package report

import (
	"github.com/openmx-go/openmx/physical"
)

// Record is the structured result of one report scan: a flat scalar summary
// (each physical quantity paired with a <name>_units key), the eigenvalue
// data of the last iteration, and, for relaxation runs, the final structure.
type Record struct {
	// Params holds named scalars and small arrays with their unit tags.
	Params map[string]any `json:"params"`
	// Bands holds the Kohn-Sham eigenvalues of the last SCF iteration seen.
	Bands Bands `json:"bands"`
	// FinalStructure is set for relaxation runs only.
	FinalStructure *physical.Structure `json:"-"`
}

// Bands holds per-k-point eigenvalues, retained in full for the most recent
// iteration encountered.
type Bands struct {
	EFermi  float64      `json:"e_fermi"`  // eV
	NStates float64      `json:"n_states"`
	KPoints [][3]float64 `json:"k_points"` // reciprocal, fractional
	Up      [][]float64  `json:"up"`       // eV
	Down    [][]float64  `json:"down"`     // eV
}

// RoutineTiming is the per-routine wall time summary across MPI ranks.
type RoutineTiming struct {
	MinID   int     `json:"min_id"`
	MinTime float64 `json:"min_time"`
	MaxID   int     `json:"max_id"`
	MaxTime float64 `json:"max_time"`
}

// energyNames maps the energy-component labels of the total-energy block to
// record keys. Values are reported in Hartree and converted to eV.
var energyNames = map[string]string{
	"Uele.":  "u_band",
	"Ukin.":  "u_kinetic",
	"UH0.":   "u_e_screened_coulomb",
	"UH1.":   "u_ee_coulomb",
	"Una.":   "u_neutral_atom",
	"Unl.":   "u_non_local",
	"Uxc0.":  "u_xc_alpha",
	"Uxc1.":  "u_xc_beta",
	"Ucore.": "u_core_core_coulomb",
	"Uhub.":  "u_hubbard",
	"Ucs.":   "u_spin_constraint",
	"Uzs.":   "u_zeeman_spin_mag",
	"Uzo.":   "u_zeeman_spin_orb",
	"Uef.":   "u_e_field",
	"UvdW.":  "u_vdw",
	"Uch.":   "u_core_hole",
	"Utot.":  "u_tot",
	"UpV.":   "u_press_vol",
	"Enpy.":  "enthalpy",
}

// dipoleNames maps dipole-moment block labels to record keys, in Debye.
var dipoleNames = map[string]string{
	"Total":       "total_dipole",
	"core":        "core_dipole",
	"Electron":    "electron_dipole",
	"Back ground": "background_dipole",
}

// timingNames maps the computational-time block's routine labels to record
// keys, in seconds.
var timingNames = map[string]string{
	"readfile":          "read_input",
	"truncation":        "truncation",
	"MD_pac":            "md_pac",
	"OutData":           "write_output",
	"DFT":               "dft",
	"Set_OLP_Kin":       "ovlp_kin",
	"Set_Nonlocal":      "nonlocal",
	"Set_ProExpn_VNA":   "pro_expn_vna",
	"Set_Hamiltonian":   "ham",
	"Poisson":           "poisson",
	"Diagonalization":   "diag",
	"Mixing_DM":         "mixing_dm",
	"Force":             "force",
	"Total_Energy":      "total_ene",
	"Set_Aden_Grid":     "aden_grid",
	"Set_Orbitals_Grid": "orb_grid",
	"Set_Density_Grid":  "den_grid",
	"RestartFileDFT":    "write_restart",
	"Mulliken_Charge":   "mulliken_chg",
	"FFT(2D)_Density":   "fft_2d_den",
	"Others":            "other",
}

// cellVaryingModes are the relaxation modes that optimize cell shape; only
// these replace the cell vectors of the derived final structure.
var cellVaryingModes = map[string]struct{}{
	"optc1": {}, "optc2": {}, "optc3": {}, "optc4": {}, "optc5": {},
	"optc6": {}, "optc7": {}, "rfc5": {}, "rfc6": {}, "rfc7": {},
}

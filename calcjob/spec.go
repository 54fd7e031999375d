package calcjob

// Port describes one named input or output of a process.
type Port struct {
	Name     string
	Required bool
	Doc      string
}

// ExitSpec pairs an exit code with its meaning.
type ExitSpec struct {
	Code    int
	Message string
}

// ProcessSpec is the static description of a process type: what it consumes,
// what it produces, and the exit codes it can report. Orchestrators use it to
// build their port declarations without instantiating a job.
type ProcessSpec struct {
	Name      string
	Inputs    []Port
	Outputs   []Port
	ExitCodes []ExitSpec
}

// OpenMXSpec describes the main OpenMX process.
func OpenMXSpec() ProcessSpec {
	return ProcessSpec{
		Name: "openmx",
		Inputs: []Port{
			{Name: "structure", Required: true, Doc: "input structure with cell and sites"},
			{Name: "kpoints", Required: true, Doc: "regular zero-shift k-point mesh"},
			{Name: "parameters", Required: true, Doc: "keyword mapping, reserved keywords excluded"},
			{Name: "pseudos", Required: true, Doc: "per-kind pseudopotential records"},
			{Name: "orbitals", Required: true, Doc: "per-kind orbital-basis records"},
			{Name: "orbital_configurations", Doc: "per-kind s/p/d/f overrides"},
			{Name: "settings", Doc: "CMDLINE and ADDITIONAL_RETRIEVE_LIST extras"},
		},
		Outputs: []Port{
			{Name: "output_parameters", Required: true, Doc: "scalar summary with unit tags"},
			{Name: "output_band", Required: true, Doc: "eigenvalues of the last iteration"},
			{Name: "output_structure", Doc: "final structure of relaxation runs"},
		},
		ExitCodes: []ExitSpec{
			{Code: ExitOutputMissing, Message: "stdout report is missing from the retrieved files"},
			{Code: ExitOutputRead, Message: "stdout report could not be read"},
			{Code: ExitOutputParse, Message: "stdout report could not be parsed"},
			{Code: ExitOutputIncomplete, Message: "stdout report ends mid-section"},
		},
	}
}

// DosMainSpec describes the DosMain post-processing process.
func DosMainSpec() ProcessSpec {
	return ProcessSpec{
		Name: "dosmain",
		Inputs: []Port{
			{Name: "method", Required: true, Doc: "tetrahedron or gaussian integration"},
			{Name: "spectrum", Required: true, Doc: "total or projected density of states"},
			{Name: "broadening", Doc: "gaussian width in eV"},
			{Name: "remote_dir", Required: true, Doc: "directory of the upstream eigenvalue files"},
		},
		Outputs: []Port{
			{Name: "dos", Required: true, Doc: "energy / DOS / integrated-DOS table"},
		},
		ExitCodes: []ExitSpec{
			{Code: ExitDosMissing, Message: "DOS result file is missing from the retrieved files"},
			{Code: ExitDosRead, Message: "DOS result file could not be read"},
			{Code: ExitDosParse, Message: "DOS result file could not be parsed"},
			{Code: ExitDosIncomplete, Message: "DOS result file is truncated"},
			{Code: ExitDosInvalid, Message: "DOS request was inconsistent with the upstream run"},
			{Code: ExitFeatureNotAvailable, Message: "projected DOS retrieval is not implemented"},
		},
	}
}

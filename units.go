package openmx

// OpenMX reports energies in Hartree and forces in Hartree/Bohr. Conversion
// to the caller-facing unit set happens at the point of extraction, never
// later.
const (
	HartreeToEV         = 27.211386245988
	BohrToAng           = 0.529177210903
	RydbergToEV         = HartreeToEV / 2
	HaPerBohrToEVPerAng = HartreeToEV / BohrToAng
)

// UnitsSuffix is appended to a scalar name to form the key carrying its
// physical unit tag, e.g. "u_tot" pairs with "u_tot_units".
const UnitsSuffix = "_units"

// Unit tags attached to extracted quantities.
const (
	ChargeUnits  = "e"
	DipoleUnits  = "Debye"
	EnergyUnits  = "eV"
	ForceUnits   = "eV/Å"
	LengthUnits  = "Å"
	TimeUnits    = "s"
	SimTimeUnits = "fs"
	StressUnits  = "GPa"
)

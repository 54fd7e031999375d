package physical

import (
	"path/filepath"
	"strings"
)

// Pseudopotential is the reference record for a .vps pseudopotential file:
// the metadata the composer cross-checks plus what the staging manifest
// needs to place the file next to the generated input.
type Pseudopotential struct {
	// SourceID is the content-addressed identifier the orchestrator's file
	// placement mechanism resolves to the stored file.
	SourceID string
	Filename string
	Element  string
	// XCFamily is the exchange-correlation family the potential was generated
	// for. All pseudopotentials in one composition must agree on it.
	XCFamily string
	// Valence is the valence electron count, which must match the paired
	// orbital basis for the same kind.
	Valence float64
}

// OrbitalBasis is the reference record for a .pao orbital-basis file.
type OrbitalBasis struct {
	SourceID string
	Filename string
	Element  string
	Valence  float64
	// Configuration counts the s/p/d/f radial functions, in that order.
	Configuration []int
}

// FileStem returns the filename without its extension, the spelling OpenMX
// wants inside Definition.of.Atomic.Species.
func (p Pseudopotential) FileStem() string { return fileStem(p.Filename) }

// FileStem returns the filename without its extension.
func (o OrbitalBasis) FileStem() string { return fileStem(o.Filename) }

func fileStem(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}

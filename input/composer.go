package input

import (
	"fmt"
	"path"
	"sort"
	"strings"

	"golang.org/x/exp/maps"

	"github.com/openmx-go/openmx"
	"github.com/openmx-go/openmx/physical"
	"github.com/openmx-go/openmx/schema"
)

// Subfolders the staging manifests place species files into, relative to the
// job's working directory.
const (
	PseudoSubfolder  = "./VPS/"
	OrbitalSubfolder = "./PAO/"
)

// Staging is one file-copy manifest entry: a content-addressed source, its
// original filename, and the destination path relative to the working
// directory. The orchestrator's file placement mechanism consumes these; this
// package never touches the files itself.
type Staging struct {
	SourceID string
	Filename string
	DestPath string
}

// Deck is the product of a composition: the serialized input text and the
// manifests for the species files that must be staged before execution.
type Deck struct {
	Text          string
	PseudoCopies  []Staging
	OrbitalCopies []Staging
}

// Inputs collects everything a composition consumes. All maps are read-only
// to Compose.
type Inputs struct {
	Structure *physical.Structure
	KPoints   physical.KPoints
	// Parameters is the caller's keyword mapping. Reserved keywords are
	// rejected here; the composer derives them itself.
	Parameters map[string]any
	Pseudos    map[string]physical.Pseudopotential
	Orbitals   map[string]physical.OrbitalBasis
	// OrbitalConfigs optionally overrides the per-kind s/p/d/f function
	// counts. When set, its key set must equal the orbital mapping's.
	OrbitalConfigs map[string][]int
}

// Options tune the derived bookkeeping keywords.
type Options struct {
	SystemName   string        // System.Name; default "openmx"
	DataPath     string        // DATA.PATH; default "./"
	StdoutLevel  int           // level.of.stdout; default 1
	FileoutLevel int           // level.of.fileout; default 1
	DOSOutput    bool          // sets Dos.fileout for a downstream DosMain run
	Table        *schema.Table // defaults to schema.Default()
}

func (o Options) withDefaults() Options {
	if o.SystemName == "" {
		o.SystemName = "openmx"
	}
	if o.DataPath == "" {
		o.DataPath = "./"
	}
	if o.StdoutLevel == 0 {
		o.StdoutLevel = 1
	}
	if o.FileoutLevel == 0 {
		o.FileoutLevel = 1
	}
	if o.Table == nil {
		o.Table = schema.Default()
	}
	return o
}

// Compose validates the inputs and produces the input deck. Every
// precondition violation found is reported, accumulated into one
// openmx.Issues error.
func Compose(in Inputs, opts Options) (*Deck, error) {
	opts = opts.withDefaults()

	params, err := schema.Normalize(in.Parameters, "parameters")
	if err != nil {
		return nil, err
	}
	if err := schema.Validate(params, opts.Table); err != nil {
		return nil, err
	}
	if err := checkBlockParams(params, opts.Table); err != nil {
		return nil, err
	}
	if err := checkPreconditions(in); err != nil {
		return nil, err
	}

	merged := params.Clone()
	kinds := in.Structure.KindNames()
	xc := in.Pseudos[kinds[0]].XCFamily

	merged["system.currentdirectory"] = schema.String("./")
	merged["system.name"] = schema.String(opts.SystemName)
	merged["data.path"] = schema.String(opts.DataPath)
	merged["level.of.stdout"] = schema.Int(int64(opts.StdoutLevel))
	merged["level.of.fileout"] = schema.Int(int64(opts.FileoutLevel))
	merged["species.number"] = schema.Int(int64(len(kinds)))
	merged["atoms.number"] = schema.Int(int64(len(in.Structure.Sites)))
	merged["atoms.speciesandcoordinates.unit"] = schema.String("Ang")
	merged["atoms.unitvectors.unit"] = schema.String("Ang")
	merged["scf.xctype"] = schema.String(xc)
	merged["scf.kgrid"] = schema.Ints(
		int64(in.KPoints.Grid[0]), int64(in.KPoints.Grid[1]), int64(in.KPoints.Grid[2]))
	if opts.DOSOutput {
		merged["dos.fileout"] = schema.Bool(true)
	}

	if err := schema.ValidateComposed(merged, opts.Table); err != nil {
		return nil, err
	}

	blocks := map[string][]string{
		"definition.of.atomic.species": speciesDefinitionBlock(in),
		"atoms.speciesandcoordinates":  atomsBlock(in),
		"atoms.unitvectors":            unitVectorsBlock(in.Structure),
	}

	deck := &Deck{Text: render(merged, blocks, opts.Table)}
	deck.PseudoCopies, deck.OrbitalCopies = stagingManifests(in)
	return deck, nil
}

// checkBlockParams rejects block keywords supplied through Parameters. The
// composer derives the species, coordinate, and cell blocks itself and has no
// writer for the remaining block keywords, so accepting one here would drop
// it from the rendered deck.
func checkBlockParams(m schema.Mapping, t *schema.Table) error {
	var iss openmx.Issues
	for _, key := range sorted(maps.Keys(m)) {
		spec, ok := t.Lookup(key)
		if !ok || !spec.Block {
			continue
		}
		iss = openmx.AppendIssues(iss, openmx.Issue{
			Keyword: spec.Name,
			Code:    openmx.CodeUnsupportedBlock,
			Message: fmt.Sprintf("block keyword %s cannot be set through parameters", spec.Name),
			Hint:    "block input is only generated for the species, coordinate, and cell sections",
		})
	}
	if len(iss) > 0 {
		return iss
	}
	return nil
}

// checkPreconditions enforces the cross-references between the structure and
// the species mappings, accumulating every violation.
func checkPreconditions(in Inputs) error {
	var iss openmx.Issues

	kinds := in.Structure.KindNames()
	if len(kinds) == 0 {
		iss = openmx.AppendIssues(iss, openmx.Issue{
			Keyword: "structure",
			Code:    openmx.CodeKindMismatch,
			Message: "structure has no sites",
		})
	}
	if !sameKeySet(kinds, maps.Keys(in.Pseudos)) {
		iss = openmx.AppendIssues(iss, openmx.Issue{
			Keyword: "pseudos",
			Code:    openmx.CodeKindMismatch,
			Message: fmt.Sprintf("structure kinds %s do not match pseudopotential kinds %s",
				joinSorted(kinds), joinSorted(maps.Keys(in.Pseudos))),
			Params: map[string]any{"structure": sorted(kinds), "pseudos": sorted(maps.Keys(in.Pseudos))},
		})
	}
	if !sameKeySet(kinds, maps.Keys(in.Orbitals)) {
		iss = openmx.AppendIssues(iss, openmx.Issue{
			Keyword: "orbitals",
			Code:    openmx.CodeKindMismatch,
			Message: fmt.Sprintf("structure kinds %s do not match orbital kinds %s",
				joinSorted(kinds), joinSorted(maps.Keys(in.Orbitals))),
			Params: map[string]any{"structure": sorted(kinds), "orbitals": sorted(maps.Keys(in.Orbitals))},
		})
	}
	if in.OrbitalConfigs != nil && !sameKeySet(maps.Keys(in.Orbitals), maps.Keys(in.OrbitalConfigs)) {
		iss = openmx.AppendIssues(iss, openmx.Issue{
			Keyword: "orbital_configs",
			Code:    openmx.CodeKindMismatch,
			Message: fmt.Sprintf("orbital-configuration kinds %s do not match orbital kinds %s",
				joinSorted(maps.Keys(in.OrbitalConfigs)), joinSorted(maps.Keys(in.Orbitals))),
		})
	}

	xcSeen := make(map[string]struct{})
	for _, p := range in.Pseudos {
		xcSeen[p.XCFamily] = struct{}{}
	}
	if len(xcSeen) > 1 {
		iss = openmx.AppendIssues(iss, openmx.Issue{
			Keyword: "pseudos",
			Code:    openmx.CodeInconsistentXC,
			Message: fmt.Sprintf("pseudopotentials mix exchange-correlation families %s",
				joinSorted(maps.Keys(xcSeen))),
		})
	}

	for _, kind := range sorted(kinds) {
		p, pok := in.Pseudos[kind]
		o, ook := in.Orbitals[kind]
		if !pok || !ook {
			continue // already reported as kind mismatch
		}
		if p.Valence != o.Valence {
			iss = openmx.AppendIssues(iss, openmx.Issue{
				Keyword: kind,
				Code:    openmx.CodeInconsistentValence,
				Message: fmt.Sprintf("kind %s: pseudopotential valence %v != basis valence %v",
					kind, p.Valence, o.Valence),
				Params: map[string]any{"pseudo": p.Valence, "basis": o.Valence},
			})
		}
	}

	if !in.KPoints.IsRegular() {
		iss = openmx.AppendIssues(iss, openmx.Issue{
			Keyword: "kpoints",
			Code:    openmx.CodeUnsupportedKpoints,
			Message: "explicit k-point lists are not supported, only regular meshes",
		})
	} else if in.KPoints.HasShift() {
		iss = openmx.AppendIssues(iss, openmx.Issue{
			Keyword: "kpoints",
			Code:    openmx.CodeUnsupportedKpoints,
			Message: "k-point mesh shifts are not supported, only zero-shift meshes",
		})
	}

	if len(iss) > 0 {
		return iss
	}
	return nil
}

func stagingManifests(in Inputs) (pseudo, orbital []Staging) {
	for _, kind := range sorted(in.Structure.KindNames()) {
		p := in.Pseudos[kind]
		pseudo = append(pseudo, Staging{
			SourceID: p.SourceID,
			Filename: p.Filename,
			DestPath: path.Join(PseudoSubfolder, p.Filename),
		})
		o := in.Orbitals[kind]
		orbital = append(orbital, Staging{
			SourceID: o.SourceID,
			Filename: o.Filename,
			DestPath: path.Join(OrbitalSubfolder, o.Filename),
		})
	}
	return pseudo, orbital
}

func sameKeySet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	set := make(map[string]struct{}, len(a))
	for _, k := range a {
		set[k] = struct{}{}
	}
	for _, k := range b {
		if _, ok := set[k]; !ok {
			return false
		}
	}
	return true
}

func sorted(keys []string) []string {
	out := make([]string, len(keys))
	copy(out, keys)
	sort.Strings(out)
	return out
}

func joinSorted(keys []string) string {
	return strings.Join(sorted(keys), ",")
}

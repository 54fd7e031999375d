package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/openmx-go/openmx/input"
	"github.com/openmx-go/openmx/physical"
)

// jobFile is the YAML description of one calculation, the CLI's stand-in
// for the orchestrator's typed inputs.
type jobFile struct {
	SystemName string                `yaml:"system_name"`
	DataPath   string                `yaml:"data_path"`
	DOSOutput  bool                  `yaml:"dos_output"`
	Structure  jobStructure          `yaml:"structure"`
	KPoints    jobKPoints            `yaml:"kpoints"`
	Parameters map[string]any        `yaml:"parameters"`
	Species    map[string]jobSpecies `yaml:"species"`
}

type jobStructure struct {
	Cell  [3][3]float64 `yaml:"cell"`
	Sites []jobSite     `yaml:"sites"`
}

type jobSite struct {
	Kind     string     `yaml:"kind"`
	Position [3]float64 `yaml:"position"`
}

type jobKPoints struct {
	Grid  [3]int     `yaml:"grid"`
	Shift [3]float64 `yaml:"shift"`
}

type jobSpecies struct {
	Pseudo  jobPseudo  `yaml:"pseudo"`
	Orbital jobOrbital `yaml:"orbital"`
}

type jobPseudo struct {
	SourceID string  `yaml:"source_id"`
	Filename string  `yaml:"filename"`
	Element  string  `yaml:"element"`
	XCFamily string  `yaml:"xc_family"`
	Valence  float64 `yaml:"valence"`
}

type jobOrbital struct {
	SourceID      string  `yaml:"source_id"`
	Filename      string  `yaml:"filename"`
	Element       string  `yaml:"element"`
	Valence       float64 `yaml:"valence"`
	Configuration []int   `yaml:"configuration"`
}

func loadJobFile(path string) (input.Inputs, input.Options, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return input.Inputs{}, input.Options{}, fmt.Errorf("read job file: %w", err)
	}
	var jf jobFile
	if err := yaml.Unmarshal(raw, &jf); err != nil {
		return input.Inputs{}, input.Options{}, fmt.Errorf("decode job file: %w", err)
	}

	sites := make([]physical.Site, len(jf.Structure.Sites))
	for i, s := range jf.Structure.Sites {
		sites[i] = physical.Site{Kind: s.Kind, Position: s.Position}
	}

	in := input.Inputs{
		Structure:      physical.NewStructure(sites, jf.Structure.Cell),
		KPoints:        physical.KPoints{Grid: jf.KPoints.Grid, Shift: jf.KPoints.Shift},
		Parameters:     jf.Parameters,
		Pseudos:        map[string]physical.Pseudopotential{},
		Orbitals:       map[string]physical.OrbitalBasis{},
		OrbitalConfigs: map[string][]int{},
	}
	for kind, sp := range jf.Species {
		in.Pseudos[kind] = physical.Pseudopotential{
			SourceID: sp.Pseudo.SourceID,
			Filename: sp.Pseudo.Filename,
			Element:  sp.Pseudo.Element,
			XCFamily: sp.Pseudo.XCFamily,
			Valence:  sp.Pseudo.Valence,
		}
		in.Orbitals[kind] = physical.OrbitalBasis{
			SourceID:      sp.Orbital.SourceID,
			Filename:      sp.Orbital.Filename,
			Element:       sp.Orbital.Element,
			Valence:       sp.Orbital.Valence,
			Configuration: sp.Orbital.Configuration,
		}
		in.OrbitalConfigs[kind] = append([]int{}, sp.Orbital.Configuration...)
	}

	opts := input.Options{
		SystemName: jf.SystemName,
		DataPath:   jf.DataPath,
		DOSOutput:  jf.DOSOutput,
	}
	return in, opts, nil
}

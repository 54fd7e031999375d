package input

import (
	"fmt"

	"github.com/openmx-go/openmx/physical"
)

var orbitalLetters = [...]string{"s", "p", "d", "f"}

// orbitalConfigString renders s/p/d/f function counts as the compact suffix
// OpenMX appends to a basis file stem, e.g. [2 2 1] -> "s2p2d1".
func orbitalConfigString(counts []int) string {
	out := ""
	for i, n := range counts {
		if i >= len(orbitalLetters) {
			break
		}
		out += fmt.Sprintf("%s%d", orbitalLetters[i], n)
	}
	return out
}

// speciesDefinitionBlock renders one line per kind: the kind name, the
// pseudopotential file stem, and the basis file stem with its orbital
// configuration suffix.
func speciesDefinitionBlock(in Inputs) []string {
	lines := make([]string, 0, len(in.Structure.KindNames()))
	for _, kind := range in.Structure.KindNames() {
		orbital := in.Orbitals[kind]
		config := orbital.Configuration
		if override, ok := in.OrbitalConfigs[kind]; ok {
			config = override
		}
		lines = append(lines, fmt.Sprintf("%s %s %s-%s",
			kind, in.Pseudos[kind].FileStem(), orbital.FileStem(), orbitalConfigString(config)))
	}
	return lines
}

// atomsBlock renders one line per site: 1-based index, kind, Cartesian
// position to 12 decimals, and the initial up/down charges, each half the
// basis valence.
func atomsBlock(in Inputs) []string {
	lines := make([]string, 0, len(in.Structure.Sites))
	for i, site := range in.Structure.Sites {
		valence := in.Orbitals[site.Kind].Valence
		half := valence / 2
		lines = append(lines, fmt.Sprintf("%d %s %.12f %.12f %.12f %.6f %.6f",
			i+1, site.Kind, site.Position[0], site.Position[1], site.Position[2], half, half))
	}
	return lines
}

// unitVectorsBlock renders the three lattice vectors to 12 decimals.
func unitVectorsBlock(s *physical.Structure) []string {
	lines := make([]string, 0, 3)
	for i := 0; i < 3; i++ {
		row := s.CellRow(i)
		lines = append(lines, fmt.Sprintf("%.12f %.12f %.12f", row[0], row[1], row[2]))
	}
	return lines
}

// Package physical holds the read-only structural inputs a composition
// consumes: atomic structures, k-point meshes, and the per-kind
// pseudopotential and orbital-basis records they cross-reference.
package physical

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Site is one atomic site: a kind name and a Cartesian position in Å.
// A kind is a named species role, distinct from elemental identity; two
// kinds may share an element with different basis or pseudopotential choices.
type Site struct {
	Kind     string
	Position [3]float64
}

// Structure is a periodic atomic structure: sites plus a 3×3 cell matrix
// whose rows are the lattice vectors in Å. Consumers treat it as read-only.
type Structure struct {
	Sites []Site
	cell  *mat.Dense // 3×3, rows are lattice vectors
}

// NewStructure builds a structure from sites and lattice vectors. The inputs
// are copied; the caller's slices stay untouched afterwards.
func NewStructure(sites []Site, cell [3][3]float64) *Structure {
	s := &Structure{
		Sites: make([]Site, len(sites)),
		cell:  mat.NewDense(3, 3, nil),
	}
	copy(s.Sites, sites)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			s.cell.Set(i, j, cell[i][j])
		}
	}
	return s
}

// Cell returns a copy of the 3×3 cell matrix.
func (s *Structure) Cell() *mat.Dense {
	out := mat.NewDense(3, 3, nil)
	out.Copy(s.cell)
	return out
}

// CellRow returns lattice vector i.
func (s *Structure) CellRow(i int) [3]float64 {
	return [3]float64{s.cell.At(i, 0), s.cell.At(i, 1), s.cell.At(i, 2)}
}

// Volume returns the cell volume in Å³.
func (s *Structure) Volume() float64 {
	v := mat.Det(s.cell)
	if v < 0 {
		v = -v
	}
	return v
}

// KindNames returns the distinct kind names in order of first appearance.
func (s *Structure) KindNames() []string {
	seen := make(map[string]struct{}, len(s.Sites))
	var names []string
	for _, site := range s.Sites {
		if _, ok := seen[site.Kind]; ok {
			continue
		}
		seen[site.Kind] = struct{}{}
		names = append(names, site.Kind)
	}
	return names
}

// Clone returns an independent copy of the structure.
func (s *Structure) Clone() *Structure {
	out := &Structure{
		Sites: make([]Site, len(s.Sites)),
		cell:  mat.NewDense(3, 3, nil),
	}
	copy(out.Sites, s.Sites)
	out.cell.Copy(s.cell)
	return out
}

// WithCell returns a copy of the structure with its cell replaced.
func (s *Structure) WithCell(cell [3][3]float64) *Structure {
	out := s.Clone()
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out.cell.Set(i, j, cell[i][j])
		}
	}
	return out
}

// WithPositions returns a copy of the structure with every site position
// replaced, keeping kind names and atom ordering. The position count must
// match the site count.
func (s *Structure) WithPositions(positions [][3]float64) (*Structure, error) {
	if len(positions) != len(s.Sites) {
		return nil, fmt.Errorf("physical: %d positions for %d sites", len(positions), len(s.Sites))
	}
	out := s.Clone()
	for i := range out.Sites {
		out.Sites[i].Position = positions[i]
	}
	return out, nil
}

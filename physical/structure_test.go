package physical

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var si2Cell = [3][3]float64{
	{5.43, 0, 0},
	{0, 5.43, 0},
	{0, 0, 5.43},
}

func si2() *Structure {
	return NewStructure([]Site{
		{Kind: "Si", Position: [3]float64{0, 0, 0}},
		{Kind: "Si", Position: [3]float64{1.3575, 1.3575, 1.3575}},
	}, si2Cell)
}

func TestNewStructureCopiesInputs(t *testing.T) {
	sites := []Site{{Kind: "Si"}}
	s := NewStructure(sites, si2Cell)
	sites[0].Kind = "Ge"
	assert.Equal(t, "Si", s.Sites[0].Kind)
}

func TestVolume(t *testing.T) {
	assert.InDelta(t, 5.43*5.43*5.43, si2().Volume(), 1e-9)

	// A left-handed cell still has positive volume.
	flipped := NewStructure(nil, [3][3]float64{
		{-5.43, 0, 0},
		{0, 5.43, 0},
		{0, 0, 5.43},
	})
	assert.InDelta(t, 5.43*5.43*5.43, flipped.Volume(), 1e-9)
}

func TestKindNamesFirstAppearanceOrder(t *testing.T) {
	s := NewStructure([]Site{
		{Kind: "O"}, {Kind: "Ti"}, {Kind: "O"}, {Kind: "Sr"},
	}, si2Cell)
	assert.Equal(t, []string{"O", "Ti", "Sr"}, s.KindNames())
}

func TestCellReturnsCopy(t *testing.T) {
	s := si2()
	c := s.Cell()
	c.Set(0, 0, 999)
	assert.Equal(t, 5.43, s.CellRow(0)[0])
}

func TestCloneIndependent(t *testing.T) {
	s := si2()
	c := s.Clone()
	c.Sites[0].Position[0] = 99
	assert.Equal(t, 0.0, s.Sites[0].Position[0])
}

func TestWithPositions(t *testing.T) {
	s := si2()
	moved, err := s.WithPositions([][3]float64{
		{0.1, 0, 0},
		{1.4, 1.4, 1.4},
	})
	require.NoError(t, err)
	assert.Equal(t, 0.1, moved.Sites[0].Position[0])
	assert.Equal(t, 0.0, s.Sites[0].Position[0], "original untouched")

	_, err = s.WithPositions([][3]float64{{0, 0, 0}})
	assert.Error(t, err)
}

func TestWithCell(t *testing.T) {
	s := si2()
	bigger := s.WithCell([3][3]float64{{6, 0, 0}, {0, 6, 0}, {0, 0, 6}})
	assert.Equal(t, 6.0, bigger.CellRow(0)[0])
	assert.Equal(t, 5.43, s.CellRow(0)[0])
	assert.Equal(t, s.Sites, bigger.Sites)
}

func TestKPoints(t *testing.T) {
	m := Mesh(4, 4, 4)
	assert.True(t, m.IsRegular())
	assert.False(t, m.HasShift())

	shifted := KPoints{Grid: [3]int{4, 4, 4}, Shift: [3]float64{0.5, 0, 0}}
	assert.True(t, shifted.HasShift())

	explicit := KPoints{Explicit: [][3]float64{{0, 0, 0}}}
	assert.False(t, explicit.IsRegular())
}

func TestFileStem(t *testing.T) {
	p := Pseudopotential{Filename: "Si_PBE19.vps"}
	assert.Equal(t, "Si_PBE19", p.FileStem())
	o := OrbitalBasis{Filename: "Si7.0-s2p2d1.pao"}
	assert.Equal(t, "Si7.0-s2p2d1", o.FileStem())
}

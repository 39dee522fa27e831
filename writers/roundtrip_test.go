package writers_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meshtools/go2dm/mesh"
	"github.com/meshtools/go2dm/readers"
	"github.com/meshtools/go2dm/writers"
)

// A mesh written through the Writer must read back entity for entity.
func TestRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roundtrip.2dm")

	wopts := writers.DefaultOptions()
	wopts.Name = "round trip"
	w, err := writers.Create(path, wopts)
	require.NoError(t, err)

	coords := [][3]float64{
		{0, 0, 0}, {1, 0, 0.25}, {1, 1, 0.5}, {0, 1, -0.75},
	}
	for _, c := range coords {
		_, err := w.AddNode(c[0], c[1], c[2])
		require.NoError(t, err)
	}
	_, err = w.AddElement(mesh.E3T, []int{1, 2, 3},
		mesh.IntMaterial(2), mesh.FloatMaterial(1.5))
	require.NoError(t, err)
	_, err = w.AddElement(mesh.E3T, []int{1, 3, 4},
		mesh.IntMaterial(2), mesh.FloatMaterial(-0.125))
	require.NoError(t, err)
	_, err = w.AddNodeString("left bank", 1, 2, 3)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	r, err := readers.Open(path, readers.DefaultOptions())
	require.NoError(t, err)
	defer r.Close()

	assert.Equal(t, "round trip", r.Name())
	assert.Equal(t, 2, r.MaterialsPerElement())
	require.Equal(t, len(coords), r.NumNodes())
	for i, c := range coords {
		node, err := r.Node(i + 1)
		require.NoError(t, err)
		assert.True(t, node.Equal(mesh.NewNode(i+1, c[0], c[1], c[2])))
	}

	elem, err := r.Element(2)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3, 4}, elem.Nodes)
	require.Len(t, elem.Materials, 2)
	assert.Equal(t, mesh.IntMaterial(2), elem.Materials[0])
	assert.Equal(t, mesh.FloatMaterial(-0.125), elem.Materials[1])

	ns, err := r.NodeString("left bank")
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, ns.Nodes)
}

// A long node string folds across physical lines on write and must
// reassemble into the same node string on read.
func TestRoundtripFoldedNodeString(t *testing.T) {
	path := filepath.Join(t.TempDir(), "folded.2dm")

	w, err := writers.Create(path, writers.DefaultOptions())
	require.NoError(t, err)
	nodes := make([]int, 25)
	for i := range nodes {
		_, err := w.AddNode(float64(i), 0, 0)
		require.NoError(t, err)
		nodes[i] = i + 1
	}
	_, err = w.AddNodeString("perimeter", nodes...)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	r, err := readers.Open(path, readers.DefaultOptions())
	require.NoError(t, err)
	defer r.Close()

	require.Equal(t, 1, r.NumNodeStrings())
	ns, err := r.NodeString("perimeter")
	require.NoError(t, err)
	assert.Equal(t, nodes, ns.Nodes)
}

func TestRoundtripZeroIndex(t *testing.T) {
	path := filepath.Join(t.TempDir(), "zero.2dm")

	wopts := writers.DefaultOptions()
	wopts.ZeroIndex = true
	w, err := writers.Create(path, wopts)
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		_, err := w.AddNode(float64(i), 0, 0)
		require.NoError(t, err)
	}
	_, err = w.AddElement(mesh.E3T, []int{0, 1, 2})
	require.NoError(t, err)
	require.NoError(t, w.Close())

	ropts := readers.DefaultOptions()
	ropts.ZeroIndex = true
	r, err := readers.Open(path, ropts)
	require.NoError(t, err)
	defer r.Close()

	node, err := r.Node(0)
	require.NoError(t, err)
	assert.Equal(t, 0, node.ID)
	elem, err := r.Element(0)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2}, elem.Nodes)
}

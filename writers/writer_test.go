package writers

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meshtools/go2dm/mesh"
)

func tempPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "out.2dm")
}

func fileContents(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestWriterGoldenOutput(t *testing.T) {
	path := tempPath(t)
	w, err := Create(path, DefaultOptions())
	require.NoError(t, err)

	for _, p := range [][3]float64{{0, 0, 0}, {10, 0, 0}, {0, 5, 0}} {
		_, err := w.AddNode(p[0], p[1], p[2])
		require.NoError(t, err)
	}
	_, err = w.AddElement(mesh.E3T, []int{1, 2, 3}, mesh.IntMaterial(1))
	require.NoError(t, err)
	_, err = w.AddNodeString("left bank", 1, 2)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	want := "MESH2D\n" +
		"NUM_MATERIALS_PER_ELEM 1\n" +
		"ND 1  0.00000000e+00  0.00000000e+00  0.00000000e+00\n" +
		"ND 2  1.00000000e+01  0.00000000e+00  0.00000000e+00\n" +
		"ND 3  0.00000000e+00  5.00000000e+00  0.00000000e+00\n" +
		"E3T 1 1 2 3 1\n" +
		"NS 1 -2 \"left bank\"\n"
	assert.Equal(t, want, fileContents(t, path))
}

func TestWriterNegativeCoordinatesAlign(t *testing.T) {
	path := tempPath(t)
	opts := DefaultOptions()
	opts.Precision = 2
	w, err := Create(path, opts)
	require.NoError(t, err)

	_, err = w.AddNode(-1, 0.5, 0)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	// The sign column keeps negative and positive values the same width.
	assert.Contains(t, fileContents(t, path), "ND 1 -1.00e+00  5.00e-01  0.00e+00\n")
}

func TestWriterIDPadding(t *testing.T) {
	path := tempPath(t)
	w, err := Create(path, DefaultOptions())
	require.NoError(t, err)

	for i := 0; i < 12; i++ {
		_, err := w.AddNode(float64(i), 0, 0)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	out := fileContents(t, path)
	assert.Contains(t, out, "ND  1 ", "single-digit IDs pad to the widest ID")
	assert.Contains(t, out, "ND 12 ")
}

// Element and node string lines are rendered from the entities' own Record
// tokens, so the written form and the entity form cannot drift apart.
func TestWriterRendersRecordTokens(t *testing.T) {
	path := tempPath(t)
	opts := DefaultOptions()
	opts.Precision = 2
	w, err := Create(path, opts)
	require.NoError(t, err)

	for i := 0; i < 12; i++ {
		_, err := w.AddNode(float64(i), 0, 0)
		require.NoError(t, err)
	}
	_, err = w.AddElement(mesh.E3T, []int{1, 2, 3},
		mesh.IntMaterial(7), mesh.FloatMaterial(-0.5))
	require.NoError(t, err)
	_, err = w.AddElement(mesh.E3T, []int{10, 11, 12},
		mesh.IntMaterial(12), mesh.FloatMaterial(0.5))
	require.NoError(t, err)
	_, err = w.AddNodeString("left bank", 1, 2, 3)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	out := fileContents(t, path)
	assert.Contains(t, out, "E3T 1  1  2  3  7 -5.00e-01\n")
	assert.Contains(t, out, "E3T 2 10 11 12 12  5.00e-01\n")
	assert.Contains(t, out, "NS 1 2 -3 \"left bank\"\n")
}

func TestWriterHeader(t *testing.T) {
	path := tempPath(t)
	opts := DefaultOptions()
	opts.Name = "basin"
	w, err := Create(path, opts)
	require.NoError(t, err)

	require.NoError(t, w.WriteHeader("written by meshtool\nsecond line"))
	require.NoError(t, w.Close())

	want := "MESH2D # written by meshtool\n" +
		"# second line\n" +
		"NUM_MATERIALS_PER_ELEM 0\n" +
		"MESHNAME \"basin\"\n"
	assert.Equal(t, want, fileContents(t, path))
}

func TestWriterHeaderTwice(t *testing.T) {
	w, err := Create(tempPath(t), DefaultOptions())
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, w.WriteHeader(""))
	err = w.WriteHeader("")
	var writeErr *mesh.WriteError
	require.ErrorAs(t, err, &writeErr)
}

func TestWriterMaterialCountInference(t *testing.T) {
	w, err := Create(tempPath(t), DefaultOptions())
	require.NoError(t, err)
	defer w.Close()

	assert.Equal(t, -1, w.MaterialsPerElement())

	_, err = w.AddElement(mesh.E3T, []int{1, 2, 3},
		mesh.IntMaterial(1), mesh.FloatMaterial(0.5))
	require.NoError(t, err)
	assert.Equal(t, 2, w.MaterialsPerElement())

	// Fewer materials than the mesh count is unrecoverable.
	_, err = w.AddElement(mesh.E3T, []int{2, 3, 4}, mesh.IntMaterial(1))
	var writeErr *mesh.WriteError
	require.ErrorAs(t, err, &writeErr)

	// Excess materials are dropped with a warning.
	id, err := w.AddElement(mesh.E3T, []int{3, 4, 5},
		mesh.IntMaterial(1), mesh.FloatMaterial(0.5), mesh.IntMaterial(9))
	require.NoError(t, err)
	require.Len(t, w.Warnings(), 1)
	assert.Equal(t, mesh.WarnMaterialsTruncated, w.Warnings()[0].Code)
	assert.Equal(t, 2, id)
}

func TestWriterFixedMaterialCount(t *testing.T) {
	opts := DefaultOptions()
	opts.Materials = 0
	w, err := Create(tempPath(t), opts)
	require.NoError(t, err)
	defer w.Close()

	_, err = w.AddElement(mesh.E3T, []int{1, 2, 3}, mesh.IntMaterial(7))
	require.NoError(t, err)
	require.Len(t, w.Warnings(), 1)
	assert.Equal(t, mesh.WarnMaterialsTruncated, w.Warnings()[0].Code)
}

func TestWriterFixedMaterialCountUndershoot(t *testing.T) {
	opts := DefaultOptions()
	opts.Materials = 2
	w, err := Create(tempPath(t), opts)
	require.NoError(t, err)
	defer w.Close()

	_, err = w.AddElement(mesh.E3T, []int{1, 2, 3}, mesh.IntMaterial(7))
	var writeErr *mesh.WriteError
	require.ErrorAs(t, err, &writeErr)
}

func TestWriterFloatMaterialRejected(t *testing.T) {
	opts := DefaultOptions()
	opts.AllowFloatMaterials = false
	w, err := Create(tempPath(t), opts)
	require.NoError(t, err)
	defer w.Close()

	_, err = w.AddElement(mesh.E3T, []int{1, 2, 3}, mesh.FloatMaterial(1.5))
	var writeErr *mesh.WriteError
	require.ErrorAs(t, err, &writeErr)
}

func TestWriterAutoIDs(t *testing.T) {
	w, err := Create(tempPath(t), DefaultOptions())
	require.NoError(t, err)
	defer w.Close()

	id, err := w.AddNode(0, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, id)
	id, err = w.AddNode(1, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, id)

	// An explicit non-negative ID is kept verbatim.
	id, err = w.Node(mesh.NewNode(7, 2, 0, 0))
	require.NoError(t, err)
	assert.Equal(t, 7, id)
}

func TestWriterZeroIndexAutoIDs(t *testing.T) {
	opts := DefaultOptions()
	opts.ZeroIndex = true
	w, err := Create(tempPath(t), opts)
	require.NoError(t, err)
	defer w.Close()

	id, err := w.AddNode(0, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, id)
	id, err = w.AddElement(mesh.E2L, []int{0, 0})
	require.NoError(t, err)
	assert.Equal(t, 0, id)
}

func TestWriterBlockOrdering(t *testing.T) {
	w, err := Create(tempPath(t), DefaultOptions())
	require.NoError(t, err)
	defer w.Close()

	_, err = w.AddNode(0, 0, 0)
	require.NoError(t, err)
	require.NoError(t, w.FlushNodes())
	_, err = w.AddElement(mesh.E2L, []int{1, 1})
	require.NoError(t, err)
	require.NoError(t, w.FlushElements())

	// Reopening the node block after the element block would interleave.
	_, err = w.AddNode(1, 0, 0)
	var writeErr *mesh.WriteError
	require.ErrorAs(t, err, &writeErr)
	assert.Contains(t, writeErr.Msg, "node-element-node")
}

func TestWriterRepeatedFlushSameKind(t *testing.T) {
	path := tempPath(t)
	w, err := Create(path, DefaultOptions())
	require.NoError(t, err)

	_, err = w.AddNode(0, 0, 0)
	require.NoError(t, err)
	require.NoError(t, w.FlushNodes())
	_, err = w.AddNode(1, 0, 0)
	require.NoError(t, err)
	require.NoError(t, w.FlushNodes(), "consecutive flushes of one kind extend the block")
	require.NoError(t, w.Close())

	assert.Equal(t, 2, w.NumNodes())
}

func TestWriterNodeStringFolding(t *testing.T) {
	path := tempPath(t)
	w, err := Create(path, DefaultOptions())
	require.NoError(t, err)

	nodes := make([]int, 12)
	for i := range nodes {
		nodes[i] = i + 1
	}
	_, err = w.AddNodeString("outline", nodes...)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	assert.Contains(t, fileContents(t, path),
		"NS 1 2 3 4 5 6 7 8 9 10\nNS 11 -12 outline\n")
}

func TestWriterNodeStringTooShort(t *testing.T) {
	w, err := Create(tempPath(t), DefaultOptions())
	require.NoError(t, err)
	defer w.Close()

	_, err = w.AddNodeString("x", 1)
	var writeErr *mesh.WriteError
	require.ErrorAs(t, err, &writeErr)
}

func TestWriterEmptyClose(t *testing.T) {
	path := tempPath(t)
	w, err := Create(path, DefaultOptions())
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.NoError(t, w.Close(), "Close is idempotent")

	assert.Equal(t, "MESH2D\nNUM_MATERIALS_PER_ELEM 0\n", fileContents(t, path))

	_, err = w.AddNode(0, 0, 0)
	assert.ErrorIs(t, err, mesh.ErrClosed)
}

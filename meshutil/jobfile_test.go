package meshutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meshtools/go2dm/readers"
)

func TestLoadMergeJob(t *testing.T) {
	src := `inputs:
  - upstream.2dm
  - downstream.2dm
output: river.2dm
weld: true
tolerance: 1.0e-6
name: "river reach"
precision: 4
`
	path := filepath.Join(t.TempDir(), "job.yaml")
	require.NoError(t, os.WriteFile(path, []byte(src), 0644))

	job, err := LoadMergeJob(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"upstream.2dm", "downstream.2dm"}, job.Inputs)
	assert.Equal(t, "river.2dm", job.Output)
	assert.True(t, job.Weld)
	assert.InDelta(t, 1e-6, job.Tolerance, 1e-12)

	opts := job.Options()
	assert.True(t, opts.Weld)
	assert.Equal(t, "river reach", opts.Writer.Name)
	assert.Equal(t, 4, opts.Writer.Precision)
}

func TestLoadMergeJobInvalid(t *testing.T) {
	cases := map[string]string{
		"no inputs":          "output: out.2dm\n",
		"no output":          "inputs: [a.2dm]\n",
		"negative tolerance": "inputs: [a.2dm]\noutput: out.2dm\ntolerance: -1.0\n",
		"not yaml":           ":\n  - ][\n",
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "job.yaml")
			require.NoError(t, os.WriteFile(path, []byte(src), 0644))
			_, err := LoadMergeJob(path)
			assert.Error(t, err)
		})
	}
}

func TestMergeJobRun(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "merged.2dm")
	job := &MergeJob{
		Inputs: []string{
			writeMesh(t, "left.2dm", leftMesh),
			writeMesh(t, "right.2dm", rightMesh),
		},
		Output: out,
		Name:   "stitched",
	}
	require.NoError(t, job.Run())

	r, err := readers.Open(out, readers.DefaultOptions())
	require.NoError(t, err)
	defer r.Close()
	assert.Equal(t, "stitched", r.Name())
	assert.Equal(t, 6, r.NumNodes())
}

// Package meshutil provides one-shot batch operations built on the public
// Reader/Writer surface: merging meshes, renumbering IDs into a contiguous
// sequence and importing triangulations. No format-level logic lives here.
package meshutil

import (
	"fmt"

	"gonum.org/v1/gonum/floats/scalar"

	"github.com/meshtools/go2dm/mesh"
	"github.com/meshtools/go2dm/readers"
	"github.com/meshtools/go2dm/writers"
)

// MergeOptions configure a merge run.
type MergeOptions struct {
	// Reader options applied to every input mesh.
	Reader readers.Options

	// Writer options for the output mesh.
	Writer writers.Options

	// Weld folds nodes of later inputs onto coincident nodes of earlier
	// inputs instead of duplicating them.
	Weld bool

	// Tolerance is the per-axis coincidence tolerance used when welding.
	Tolerance float64
}

// DefaultMergeOptions returns merge options with format-native defaults and
// welding disabled.
func DefaultMergeOptions() MergeOptions {
	return MergeOptions{
		Reader: readers.DefaultOptions(),
		Writer: writers.DefaultOptions(),
	}
}

// Merge concatenates the given meshes into one output file. Node and element
// IDs of later inputs are offset past the IDs already written; node strings
// keep their definition order across inputs. With welding enabled,
// coincident nodes collapse onto the first occurrence.
//
// Welding compares every incoming node against all kept nodes, which is
// quadratic; it is intended for boundary-stitching of moderate meshes.
func Merge(out string, inputs []string, opts MergeOptions) error {
	if len(inputs) == 0 {
		return fmt.Errorf("merge requires at least one input mesh")
	}
	w, err := writers.Create(out, opts.Writer)
	if err != nil {
		return err
	}
	defer w.Close()

	var kept []mesh.Node
	for _, path := range inputs {
		r, err := readers.Open(path, opts.Reader)
		if err != nil {
			return err
		}
		if err := mergeOne(w, r, opts, &kept); err != nil {
			r.Close()
			return err
		}
		if err := r.Close(); err != nil {
			return err
		}
	}
	return w.Close()
}

func mergeOne(w *writers.Writer, r *readers.Reader, opts MergeOptions, kept *[]mesh.Node) error {
	// idMap translates this input's node IDs to output node IDs.
	idMap := make(map[int]int, r.NumNodes())
	for _, n := range r.Nodes() {
		if opts.Weld {
			if id, ok := findCoincident(*kept, n, opts.Tolerance); ok {
				idMap[n.ID] = id
				continue
			}
		}
		assigned, err := w.AddNode(n.X, n.Y, n.Z)
		if err != nil {
			return err
		}
		idMap[n.ID] = assigned
		*kept = append(*kept, mesh.Node{ID: assigned, X: n.X, Y: n.Y, Z: n.Z})
	}

	for _, e := range r.Elements() {
		nodes := make([]int, len(e.Nodes))
		for i, n := range e.Nodes {
			id, ok := idMap[n]
			if !ok {
				return &mesh.FormatError{
					Msg: fmt.Sprintf("element %d references unknown node %d", e.ID, n),
				}
			}
			nodes[i] = id
		}
		if _, err := w.AddElement(e.Type, nodes, e.Materials...); err != nil {
			return err
		}
	}

	for _, ns := range r.NodeStrings() {
		nodes := make([]int, len(ns.Nodes))
		for i, n := range ns.Nodes {
			id, ok := idMap[n]
			if !ok {
				return &mesh.FormatError{
					Msg: fmt.Sprintf("node string %q references unknown node %d", ns.Name, n),
				}
			}
			nodes[i] = id
		}
		if _, err := w.AddNodeString(ns.Name, nodes...); err != nil {
			return err
		}
	}
	return nil
}

// findCoincident scans the kept nodes for one within tol of n on every axis.
func findCoincident(kept []mesh.Node, n mesh.Node, tol float64) (int, bool) {
	for _, k := range kept {
		if scalar.EqualWithinAbs(k.X, n.X, tol) &&
			scalar.EqualWithinAbs(k.Y, n.Y, tol) &&
			scalar.EqualWithinAbs(k.Z, n.Z, tol) {
			return k.ID, true
		}
	}
	return 0, false
}

package meshutil

import (
	"fmt"

	"github.com/pradeep-pyro/triangle"

	"github.com/meshtools/go2dm/mesh"
	"github.com/meshtools/go2dm/writers"
)

// Triangulate computes the Delaunay triangulation of the given 2D points and
// writes it as an E3T mesh. Point order is preserved, so node i corresponds
// to points[i] (plus the output's indexing base); Z is written as zero.
func Triangulate(points [][2]float64, out string, wopts writers.Options) error {
	if len(points) < 3 {
		return fmt.Errorf("triangulation requires at least 3 points, got %d", len(points))
	}
	faces := triangle.Delaunay(points)

	w, err := writers.Create(out, wopts)
	if err != nil {
		return err
	}
	defer w.Close()

	ids := make([]int, len(points))
	for i, p := range points {
		id, err := w.AddNode(p[0], p[1], 0)
		if err != nil {
			return err
		}
		ids[i] = id
	}
	for _, f := range faces {
		nodes := []int{ids[f[0]], ids[f[1]], ids[f[2]]}
		if _, err := w.AddElement(mesh.E3T, nodes); err != nil {
			return err
		}
	}
	return w.Close()
}

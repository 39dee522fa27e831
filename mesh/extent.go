package mesh

import "math"

// Extent is the axis-aligned bounding box over all node positions of a mesh.
type Extent struct {
	MinX, MaxX float64
	MinY, MaxY float64
}

// EmptyExtent returns the extent of a mesh with no nodes: four NaNs.
func EmptyExtent() Extent {
	nan := math.NaN()
	return Extent{MinX: nan, MaxX: nan, MinY: nan, MaxY: nan}
}

// IsEmpty reports whether the extent belongs to an empty mesh.
func (e Extent) IsEmpty() bool {
	return math.IsNaN(e.MinX) && math.IsNaN(e.MaxX) &&
		math.IsNaN(e.MinY) && math.IsNaN(e.MaxY)
}

package mesh

import "fmt"

// ElementType identifies one of the element cards defined by the 2DM format.
type ElementType int

const (
	E2L ElementType = iota // two-noded linear
	E3L                    // three-noded linear
	E3T                    // three-noded triangular
	E6T                    // six-noded triangular
	E4Q                    // four-noded quadrilateral
	E8Q                    // eight-noded quadrilateral
	E9Q                    // nine-noded quadrilateral
)

// Category groups element types by shape.
type Category int

const (
	Linear Category = iota
	Triangular
	Quadrilateral
)

func (c Category) String() string {
	return [...]string{"Linear", "Triangular", "Quadrilateral"}[c]
}

// elementTypeInfo is the static registry entry backing an ElementType.
type elementTypeInfo struct {
	card     string
	numNodes int
	category Category
}

var elementTypes = [...]elementTypeInfo{
	E2L: {"E2L", 2, Linear},
	E3L: {"E3L", 3, Linear},
	E3T: {"E3T", 3, Triangular},
	E6T: {"E6T", 6, Triangular},
	E4Q: {"E4Q", 4, Quadrilateral},
	E8Q: {"E8Q", 8, Quadrilateral},
	E9Q: {"E9Q", 9, Quadrilateral},
}

// cardToType maps a 2DM card tag to its element type.
var cardToType = func() map[string]ElementType {
	m := make(map[string]ElementType, len(elementTypes))
	for t, info := range elementTypes {
		m[info.card] = ElementType(t)
	}
	return m
}()

// String returns the 2DM card tag for the element type.
func (t ElementType) String() string { return elementTypes[t].card }

// NumNodes returns the node count fixed by the element type.
func (t ElementType) NumNodes() int { return elementTypes[t].numNodes }

// Category returns the shape category of the element type.
func (t ElementType) Category() Category { return elementTypes[t].category }

// ElementTypeByCard looks up an element type by its 2DM card tag.
func ElementTypeByCard(card string) (ElementType, bool) {
	t, ok := cardToType[card]
	return t, ok
}

// IsElementCard reports whether card names one of the seven element types.
func IsElementCard(card string) bool {
	_, ok := cardToType[card]
	return ok
}

// Element is a mesh element referencing its defining nodes by ID.
//
// The node order is significant; it defines the winding and connectivity of
// the element. Node IDs are not checked against any node set here, that is a
// whole-file concern handled by the reader.
type Element struct {
	ID        int
	Type      ElementType
	Nodes     []int
	Materials []Material
}

// NewElement builds an element, validating the node count against the type.
func NewElement(t ElementType, id int, nodes []int, materials []Material) (Element, error) {
	if len(nodes) != t.NumNodes() {
		return Element{}, &CardError{
			Card: t.String(),
			Msg: fmt.Sprintf("%s element requires %d nodes, got %d",
				t, t.NumNodes(), len(nodes)),
		}
	}
	e := Element{ID: id, Type: t}
	e.Nodes = append(e.Nodes, nodes...)
	e.Materials = append(e.Materials, materials...)
	return e, nil
}

// NumMaterials returns the number of material values on the element.
func (e Element) NumMaterials() int { return len(e.Materials) }

// Copy returns a deep copy sharing no slices with the receiver.
func (e Element) Copy() Element {
	dup := Element{ID: e.ID, Type: e.Type}
	dup.Nodes = append(dup.Nodes, e.Nodes...)
	dup.Materials = append(dup.Materials, e.Materials...)
	return dup
}

// Equal compares two elements by structural value.
func (e Element) Equal(other Element) bool {
	if e.ID != other.ID || e.Type != other.Type ||
		len(e.Nodes) != len(other.Nodes) ||
		len(e.Materials) != len(other.Materials) {
		return false
	}
	for i, n := range e.Nodes {
		if other.Nodes[i] != n {
			return false
		}
	}
	for i, m := range e.Materials {
		if other.Materials[i] != m {
			return false
		}
	}
	return true
}

// Record renders the element as ordered field tokens, the inverse of parsing.
func (e Element) Record(decimals int) []string {
	out := make([]string, 0, 2+len(e.Nodes)+len(e.Materials))
	out = append(out, e.Type.String(), itoa(e.ID))
	for _, n := range e.Nodes {
		out = append(out, itoa(n))
	}
	for _, m := range e.Materials {
		out = append(out, m.Format(decimals))
	}
	return out
}

func (e Element) String() string {
	return fmt.Sprintf("<Element #%d [%s]: nodes %v>", e.ID, e.Type, e.Nodes)
}

package mesh

import "fmt"

// Node is a unique, numbered point in space.
//
// Nodes are the only geometry carrying position in a mesh; elements and node
// strings position themselves by referencing node IDs.
type Node struct {
	ID      int
	X, Y, Z float64
}

// NewNode builds a node. IDs are validated during parsing and writing, not
// here, so that partially built nodes can exist before auto-ID assignment.
func NewNode(id int, x, y, z float64) Node {
	return Node{ID: id, X: x, Y: y, Z: z}
}

// Pos returns the node position as three floats.
func (n Node) Pos() (x, y, z float64) { return n.X, n.Y, n.Z }

// Equal compares two nodes by (id, x, y, z).
func (n Node) Equal(other Node) bool { return n == other }

// Record renders the node as ordered field tokens, the inverse of parsing.
func (n Node) Record(decimals int) []string {
	return []string{
		"ND",
		itoa(n.ID),
		FormatFloat(n.X, decimals),
		FormatFloat(n.Y, decimals),
		FormatFloat(n.Z, decimals),
	}
}

func (n Node) String() string {
	return fmt.Sprintf("<Node #%d: (%g, %g, %g)>", n.ID, n.X, n.Y, n.Z)
}

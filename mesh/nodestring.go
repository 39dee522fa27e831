package mesh

import "fmt"

// NodeString is an open polyline referencing nodes by ID.
//
// Node strings have no intrinsic ID. Within a mesh they are identified by
// definition order or, when present, by name. Name uniqueness is not
// enforced; lookups resolve to the first match.
type NodeString struct {
	Nodes []int
	Name  string // empty means unnamed
}

// NewNodeString builds a node string, requiring at least two nodes.
func NewNodeString(name string, nodes ...int) (NodeString, error) {
	if len(nodes) < 2 {
		return NodeString{}, &CardError{
			Card: "NS",
			Msg:  fmt.Sprintf("node string requires at least 2 nodes, got %d", len(nodes)),
		}
	}
	ns := NodeString{Name: name}
	ns.Nodes = append(ns.Nodes, nodes...)
	return ns, nil
}

// NumNodes returns the number of nodes in the string.
func (ns NodeString) NumNodes() int { return len(ns.Nodes) }

// Copy returns a deep copy sharing no slices with the receiver.
func (ns NodeString) Copy() NodeString {
	dup := NodeString{Name: ns.Name}
	dup.Nodes = append(dup.Nodes, ns.Nodes...)
	return dup
}

// Equal compares two node strings by structural value.
func (ns NodeString) Equal(other NodeString) bool {
	if ns.Name != other.Name || len(ns.Nodes) != len(other.Nodes) {
		return false
	}
	for i, n := range ns.Nodes {
		if other.Nodes[i] != n {
			return false
		}
	}
	return true
}

// Record renders the node string as ordered field tokens. The last node ID is
// negated to mark the end of the string; a name, if set, follows it and is
// quoted when it contains whitespace.
func (ns NodeString) Record() []string {
	out := make([]string, 0, len(ns.Nodes)+2)
	out = append(out, "NS")
	for i, n := range ns.Nodes {
		if i == len(ns.Nodes)-1 {
			out = append(out, "-"+itoa(n))
			break
		}
		out = append(out, itoa(n))
	}
	if ns.Name != "" {
		out = append(out, quoteName(ns.Name))
	}
	return out
}

func (ns NodeString) String() string {
	if ns.Name != "" {
		return fmt.Sprintf("<NodeString %q: %v>", ns.Name, ns.Nodes)
	}
	return fmt.Sprintf("<NodeString: %v>", ns.Nodes)
}

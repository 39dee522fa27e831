// Package cards implements the 2DM card grammar: converting one physical
// record to and from a typed mesh entity, the multi-line continuation
// protocol used by node strings, and the metadata scan over a whole file.
package cards

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/meshtools/go2dm/mesh"
)

// Options control byte-level interpretation of records. Zero-index mode is
// an explicit caller-supplied flag, never auto-detected from file content.
type Options struct {
	// ZeroIndex allows IDs to start at 0 instead of the format's native
	// 1-based convention.
	ZeroIndex bool

	// AllowFloatMaterials accepts floating point material values. When
	// false, float materials are dropped with a warning.
	AllowFloatMaterials bool
}

// Base returns the lowest legal ID under the options.
func (o Options) Base() int {
	if o.ZeroIndex {
		return 0
	}
	return 1
}

// StripComment removes a trailing inline comment ('#' to end of line).
func StripComment(line string) string {
	if i := strings.IndexByte(line, '#'); i >= 0 {
		return line[:i]
	}
	return line
}

// Fields strips comments and splits the line on runs of whitespace.
func Fields(line string) []string {
	return strings.Fields(StripComment(line))
}

// ParseNode parses a "ND <id> <x> <y> <z>" record. Extra trailing fields are
// ignored with a warning; fewer fields are a hard error.
func ParseNode(line string, opts Options) (mesh.Node, []mesh.Warning, error) {
	chunks := Fields(line)
	if len(chunks) < 1 || chunks[0] != "ND" {
		return mesh.Node{}, nil, &mesh.CardError{
			Card: firstToken(chunks),
			Raw:  line,
			Msg:  "not a node record",
		}
	}
	if len(chunks) < 5 {
		return mesh.Node{}, nil, &mesh.FormatError{
			Raw: line,
			Msg: fmt.Sprintf("node definitions require 4 fields (id, x, y, z), got %d",
				len(chunks)-1),
		}
	}
	id, err := parseID(chunks[1], "node", opts)
	if err != nil {
		return mesh.Node{}, nil, formatErr(line, err)
	}
	var pos [3]float64
	for i, s := range chunks[2:5] {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return mesh.Node{}, nil, &mesh.FormatError{
				Raw: line,
				Msg: fmt.Sprintf("invalid coordinate %q", s),
			}
		}
		pos[i] = v
	}
	var warns []mesh.Warning
	if len(chunks) > 5 {
		warns = append(warns, mesh.Warning{
			Code: mesh.WarnExtraFields,
			Msg:  fmt.Sprintf("%d unexpected trailing node fields ignored", len(chunks)-5),
			Raw:  line,
		})
	}
	return mesh.NewNode(id, pos[0], pos[1], pos[2]), warns, nil
}

// ParseElement parses an element record against the requested type. A tag
// that names a different card is a CardError, distinguishing "wrong card"
// from "right card, bad data".
func ParseElement(line string, t mesh.ElementType, opts Options) (mesh.Element, []mesh.Warning, error) {
	chunks := Fields(line)
	if len(chunks) < 1 || chunks[0] != t.String() {
		return mesh.Element{}, nil, &mesh.CardError{
			Card: firstToken(chunks),
			Raw:  line,
			Msg:  fmt.Sprintf("expected %s card", t),
		}
	}
	numNodes := t.NumNodes()
	if len(chunks) < numNodes+2 {
		return mesh.Element{}, nil, &mesh.CardError{
			Card: t.String(),
			Raw:  line,
			Msg: fmt.Sprintf("%s element requires at least %d fields (id, node_1, ..., node_%d), got %d",
				t, numNodes+1, numNodes, len(chunks)-1),
		}
	}
	id, err := parseID(chunks[1], "element", opts)
	if err != nil {
		return mesh.Element{}, nil, formatErr(line, err)
	}
	nodes := make([]int, 0, numNodes)
	for _, s := range chunks[2 : numNodes+2] {
		nid, err := parseID(s, "node", opts)
		if err != nil {
			return mesh.Element{}, nil, formatErr(line, err)
		}
		nodes = append(nodes, nid)
	}
	var warns []mesh.Warning
	materials := make([]mesh.Material, 0, len(chunks)-numNodes-2)
	for _, s := range chunks[numNodes+2:] {
		if v, err := strconv.Atoi(s); err == nil {
			materials = append(materials, mesh.IntMaterial(v))
			continue
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return mesh.Element{}, nil, &mesh.CardError{
				Card: t.String(),
				Raw:  line,
				Msg:  fmt.Sprintf("invalid material value %q", s),
			}
		}
		if !opts.AllowFloatMaterials {
			warns = append(warns, mesh.Warning{
				Code: mesh.WarnFloatMaterialDropped,
				Msg:  fmt.Sprintf("float material %s dropped", s),
				Raw:  line,
			})
			continue
		}
		materials = append(materials, mesh.FloatMaterial(v))
	}
	elem, err := mesh.NewElement(t, id, nodes, materials)
	if err != nil {
		return mesh.Element{}, nil, err
	}
	return elem, warns, nil
}

// ElementTypeForLine looks up the element type named by the line's card tag.
func ElementTypeForLine(line string) (mesh.ElementType, error) {
	chunks := Fields(line)
	if len(chunks) == 0 {
		return 0, &mesh.CardError{Raw: line, Msg: "blank line has no card"}
	}
	t, ok := mesh.ElementTypeByCard(chunks[0])
	if !ok {
		return 0, &mesh.CardError{
			Card: chunks[0],
			Raw:  line,
			Msg:  fmt.Sprintf("unsupported element card %q", chunks[0]),
		}
	}
	return t, nil
}

// parseID parses an ID token and validates it against the indexing base.
func parseID(s, what string, opts Options) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s ID %q", what, s)
	}
	if id < opts.Base() {
		return 0, fmt.Errorf("invalid %s ID: %d", what, id)
	}
	return id, nil
}

func formatErr(line string, err error) error {
	return &mesh.FormatError{Raw: line, Msg: err.Error()}
}

func firstToken(chunks []string) string {
	if len(chunks) == 0 {
		return ""
	}
	return chunks[0]
}

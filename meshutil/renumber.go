package meshutil

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/meshtools/go2dm/cards"
	"github.com/meshtools/go2dm/mesh"
	"github.com/meshtools/go2dm/writers"
)

// RenumberContiguous rewrites a 2DM file whose node or element IDs contain
// holes (for example after deleting entities in an editor) into one with
// contiguous IDs starting at the output's base. Entity order is preserved;
// element and node string references follow the renumbered nodes.
//
// This is the external pre-processing step for files the strict Reader
// rejects, so it works at the card level rather than through a Reader.
func RenumberContiguous(in, out string, wopts writers.Options) error {
	file, err := os.Open(in)
	if err != nil {
		return err
	}
	defer file.Close()

	w, err := writers.Create(out, wopts)
	if err != nil {
		return err
	}
	defer w.Close()

	// Sparse inputs may be zero-indexed or worse; parse permissively and
	// let the writer re-base everything.
	popts := cards.Options{ZeroIndex: true, AllowFloatMaterials: wopts.AllowFloatMaterials}
	nodeMap := make(map[int]int)
	var builder *cards.NodeStringBuilder
	mesh2dFound := false

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for lineNo := 1; scanner.Scan(); lineNo++ {
		line := strings.TrimSpace(cards.StripComment(scanner.Text()))
		if line == "" {
			continue
		}
		if !mesh2dFound {
			if !strings.HasPrefix(line, "MESH2D") {
				return &mesh.ReadError{File: in, Msg: "file is not a 2DM mesh file"}
			}
			mesh2dFound = true
			continue
		}
		card := strings.Fields(line)[0]
		switch {
		case card == "ND":
			node, _, err := cards.ParseNode(line, popts)
			if err != nil {
				return locate(err, in, lineNo)
			}
			assigned, err := w.AddNode(node.X, node.Y, node.Z)
			if err != nil {
				return err
			}
			nodeMap[node.ID] = assigned

		case mesh.IsElementCard(card):
			t, err := cards.ElementTypeForLine(line)
			if err != nil {
				return locate(err, in, lineNo)
			}
			elem, _, err := cards.ParseElement(line, t, popts)
			if err != nil {
				return locate(err, in, lineNo)
			}
			nodes, err := remap(nodeMap, elem.Nodes, in, lineNo)
			if err != nil {
				return err
			}
			if _, err := w.AddElement(elem.Type, nodes, elem.Materials...); err != nil {
				return err
			}

		case card == "NS":
			if builder == nil {
				builder = cards.NewNodeStringBuilder()
			}
			done, _, err := builder.Consume(line, popts)
			if err != nil {
				return locate(err, in, lineNo)
			}
			if done {
				ns, err := builder.NodeString()
				if err != nil {
					return locate(err, in, lineNo)
				}
				builder = nil
				nodes, err := remap(nodeMap, ns.Nodes, in, lineNo)
				if err != nil {
					return err
				}
				if _, err := w.AddNodeString(ns.Name, nodes...); err != nil {
					return err
				}
			}
		}
		// Header cards are regenerated by the writer; everything else is
		// passed over, as the strict reader does.
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	if !mesh2dFound {
		return &mesh.ReadError{File: in, Msg: "MESH2D marker not found"}
	}
	if builder != nil {
		return &mesh.FormatError{File: in, Msg: "unterminated node string at end of file"}
	}
	return w.Close()
}

func remap(nodeMap map[int]int, nodes []int, file string, lineNo int) ([]int, error) {
	out := make([]int, len(nodes))
	for i, n := range nodes {
		id, ok := nodeMap[n]
		if !ok {
			return nil, &mesh.FormatError{
				File: file, Line: lineNo,
				Msg: fmt.Sprintf("reference to undefined node %d", n),
			}
		}
		out[i] = id
	}
	return out, nil
}

func locate(err error, file string, lineNo int) error {
	switch e := err.(type) {
	case *mesh.FormatError:
		e.File, e.Line = file, lineNo
	case *mesh.CardError:
		e.File, e.Line = file, lineNo
	}
	return err
}

// Package writers serializes meshes to 2DM files with column-aligned
// output, auto-assigned IDs and per-kind block ordering enforcement.
package writers

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/meshtools/go2dm/mesh"
)

// Options configure a Writer. Construct with DefaultOptions and override
// fields as needed.
type Options struct {
	// ZeroIndex assigns auto-IDs starting at 0 instead of 1.
	ZeroIndex bool

	// Materials fixes the materials-per-element count. When negative, the
	// count is inferred from the first element inserted.
	Materials int

	// AllowFloatMaterials accepts floating point material values on
	// inserted elements.
	AllowFloatMaterials bool

	// Precision is the decimal count for coordinate and float material
	// output. Values below zero select mesh.DefaultDecimals.
	Precision int

	// Name, when set, is written to the header as a MESHNAME card.
	Name string

	// OnWarning receives recoverable warnings (e.g. truncated materials).
	OnWarning mesh.WarningHandler
}

// DefaultOptions returns options matching the format's native conventions:
// one-based IDs, inferred material count, float materials accepted.
func DefaultOptions() Options {
	return Options{Materials: -1, AllowFloatMaterials: true, Precision: mesh.DefaultDecimals}
}

// nsFold is the conventional cap on node tokens per NS physical line.
const nsFold = 10

type kind int

const (
	kindNode kind = iota
	kindElement
	kindNodeString
)

func (k kind) String() string {
	return [...]string{"node", "element", "node string"}[k]
}

// Writer accumulates mesh entities in insertion order and serializes them in
// per-kind blocks. Entities are buffered in memory and committed by the
// flush methods or on Close; once a kind's block has been flushed, returning
// to it after flushing another kind is an error, keeping each kind in one
// contiguous block on disk.
type Writer struct {
	file *os.File
	buf  *bufio.Writer
	path string
	opts Options

	materials     int // fixed count, -1 until configured or inferred
	headerWritten bool
	history       []kind
	closed        bool

	nodes       []mesh.Node
	elements    []mesh.Element
	nodeStrings []mesh.NodeString
	counts      [3]int
	warnings    []mesh.Warning
}

// Create opens path for writing and returns a Writer. Nothing is written
// until the header or a first block is flushed.
func Create(path string, opts Options) (*Writer, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	if opts.Precision < 0 {
		opts.Precision = mesh.DefaultDecimals
	}
	return &Writer{
		file:      file,
		buf:       bufio.NewWriter(file),
		path:      path,
		opts:      opts,
		materials: opts.Materials,
	}, nil
}

// NumNodes returns the number of nodes added so far.
func (w *Writer) NumNodes() int { return w.counts[kindNode] }

// NumElements returns the number of elements added so far.
func (w *Writer) NumElements() int { return w.counts[kindElement] }

// NumNodeStrings returns the number of node strings added so far.
func (w *Writer) NumNodeStrings() int { return w.counts[kindNodeString] }

// MaterialsPerElement returns the fixed material count, or -1 while it is
// still to be inferred from the first element.
func (w *Writer) MaterialsPerElement() int { return w.materials }

// Warnings returns the recoverable warnings collected so far.
func (w *Writer) Warnings() []mesh.Warning { return w.warnings }

// Node buffers a copy of the given node. A negative ID is replaced by the
// next ID in sequence at insertion time. Returns the assigned ID.
func (w *Writer) Node(n mesh.Node) (int, error) {
	if w.closed {
		return 0, mesh.ErrClosed
	}
	if err := w.checkBlockOrder(kindNode); err != nil {
		return 0, err
	}
	if n.ID < 0 {
		n.ID = w.nextID(kindNode)
	}
	w.nodes = append(w.nodes, n)
	w.counts[kindNode]++
	return n.ID, nil
}

// AddNode builds and buffers a node from coordinates with an auto-assigned
// ID. Returns the assigned ID.
func (w *Writer) AddNode(x, y, z float64) (int, error) {
	return w.Node(mesh.NewNode(-1, x, y, z))
}

// Element buffers a deep copy of the given element, enforcing the mesh's
// material count. The first element fixes the count when it was not
// configured; later elements with fewer materials are an error and excess
// materials are truncated with a warning. Returns the assigned ID.
func (w *Writer) Element(e mesh.Element) (int, error) {
	if w.closed {
		return 0, mesh.ErrClosed
	}
	if err := w.checkBlockOrder(kindElement); err != nil {
		return 0, err
	}
	if len(e.Nodes) != e.Type.NumNodes() {
		return 0, &mesh.CardError{
			Card: e.Type.String(),
			Msg: fmt.Sprintf("%s element requires %d nodes, got %d",
				e.Type, e.Type.NumNodes(), len(e.Nodes)),
		}
	}
	e = e.Copy()
	if e.ID < 0 {
		e.ID = w.nextID(kindElement)
	}
	if w.materials < 0 {
		w.materials = len(e.Materials)
	} else if len(e.Materials) < w.materials {
		return 0, &mesh.WriteError{
			Msg: fmt.Sprintf("mesh requires %d materials per element, element %d has %d",
				w.materials, e.ID, len(e.Materials)),
		}
	} else if len(e.Materials) > w.materials {
		w.warn(mesh.Warning{
			Code: mesh.WarnMaterialsTruncated,
			Msg: fmt.Sprintf("%d extraneous materials removed from element %d (mesh material count is %d)",
				len(e.Materials)-w.materials, e.ID, w.materials),
		})
		e.Materials = e.Materials[:w.materials]
	}
	if !w.opts.AllowFloatMaterials {
		for _, m := range e.Materials {
			if m.IsFloat() {
				return 0, &mesh.WriteError{
					Msg: fmt.Sprintf("mesh only accepts integer materials, element %d has %s",
						e.ID, m.Format(w.opts.Precision)),
				}
			}
		}
	}
	w.elements = append(w.elements, e)
	w.counts[kindElement]++
	return e.ID, nil
}

// AddElement builds and buffers an element with an auto-assigned ID.
// Returns the assigned ID.
func (w *Writer) AddElement(t mesh.ElementType, nodes []int, materials ...mesh.Material) (int, error) {
	e, err := mesh.NewElement(t, -1, nodes, materials)
	if err != nil {
		return 0, err
	}
	return w.Element(e)
}

// NodeString buffers a deep copy of the given node string and returns its
// zero-based position among the mesh's node strings.
func (w *Writer) NodeString(ns mesh.NodeString) (int, error) {
	if w.closed {
		return 0, mesh.ErrClosed
	}
	if err := w.checkBlockOrder(kindNodeString); err != nil {
		return 0, err
	}
	if len(ns.Nodes) < 2 {
		return 0, &mesh.WriteError{
			Msg: fmt.Sprintf("node string requires at least 2 nodes, got %d", len(ns.Nodes)),
		}
	}
	w.nodeStrings = append(w.nodeStrings, ns.Copy())
	w.counts[kindNodeString]++
	return w.counts[kindNodeString] - 1, nil
}

// AddNodeString builds and buffers a node string from node IDs. Returns its
// zero-based position.
func (w *Writer) AddNodeString(name string, nodes ...int) (int, error) {
	if len(nodes) < 2 {
		return 0, &mesh.WriteError{
			Msg: fmt.Sprintf("node string requires at least 2 nodes, got %d", len(nodes)),
		}
	}
	return w.NodeString(mesh.NodeString{Name: name, Nodes: nodes})
}

// WriteHeader writes the MESH2D marker, the NUM_MATERIALS_PER_ELEM card and,
// when configured, the MESHNAME card. The optional signature is appended to
// the marker line as a comment; further signature lines become comment
// lines. Writing the header twice, or after any block, is an error.
func (w *Writer) WriteHeader(signature string) error {
	if w.closed {
		return mesh.ErrClosed
	}
	if w.headerWritten {
		return &mesh.WriteError{Msg: "header must be written on top of document"}
	}
	if signature == "" {
		w.buf.WriteString("MESH2D\n")
	} else {
		lines := strings.Split(signature, "\n")
		fmt.Fprintf(w.buf, "MESH2D # %s\n", lines[0])
		for _, l := range lines[1:] {
			fmt.Fprintf(w.buf, "# %s\n", l)
		}
	}
	if w.materials < 0 {
		w.materials = 0
	}
	fmt.Fprintf(w.buf, "NUM_MATERIALS_PER_ELEM %d\n", w.materials)
	if w.opts.Name != "" {
		fmt.Fprintf(w.buf, "MESHNAME %q\n", w.opts.Name)
	}
	w.headerWritten = true
	return nil
}

// FlushNodes serializes and clears the node buffer. The header is written
// first if it has not been already.
func (w *Writer) FlushNodes() error { return w.flush(kindNode) }

// FlushElements serializes and clears the element buffer. The header is
// written first if it has not been already.
func (w *Writer) FlushElements() error { return w.flush(kindElement) }

// FlushNodeStrings serializes and clears the node string buffer. The header
// is written first if it has not been already.
func (w *Writer) FlushNodeStrings() error { return w.flush(kindNodeString) }

func (w *Writer) flush(k kind) error {
	if w.closed {
		return mesh.ErrClosed
	}
	if w.bufferLen(k) == 0 {
		return nil
	}
	if !w.headerWritten {
		if err := w.WriteHeader(""); err != nil {
			return err
		}
	}
	if err := w.checkBlockOrder(k); err != nil {
		return err
	}
	switch k {
	case kindNode:
		w.writeNodes()
		w.nodes = w.nodes[:0]
	case kindElement:
		w.writeElements()
		w.elements = w.elements[:0]
	case kindNodeString:
		w.writeNodeStrings()
		w.nodeStrings = w.nodeStrings[:0]
	}
	if len(w.history) == 0 || w.history[len(w.history)-1] != k {
		w.history = append(w.history, k)
	}
	return w.buf.Flush()
}

// Close writes the header if needed, flushes any non-empty buffers in fixed
// kind order (nodes, elements, node strings) and releases the file handle.
// No buffered data is silently dropped.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	if !w.headerWritten {
		if err := w.WriteHeader(""); err != nil {
			return err
		}
	}
	for _, k := range []kind{kindNode, kindElement, kindNodeString} {
		if err := w.flush(k); err != nil {
			w.file.Close()
			w.closed = true
			return err
		}
	}
	w.closed = true
	if err := w.buf.Flush(); err != nil {
		w.file.Close()
		return err
	}
	return w.file.Close()
}

// writeNodes emits the buffered ND records with the ID column padded to the
// widest ID in the batch; coordinates are fixed-width by construction.
func (w *Writer) writeNodes() {
	idW := 0
	for _, n := range w.nodes {
		idW = max(idW, digits(n.ID))
	}
	for _, n := range w.nodes {
		rec := n.Record(w.opts.Precision)
		fmt.Fprintf(w.buf, "%s %*s %s %s %s\n",
			rec[0], idW, rec[1], rec[2], rec[3], rec[4])
	}
}

// writeElements emits the buffered element records through Element.Record,
// padding the ID, node and integer material columns to the widest token in
// the batch. Float material tokens are sign-aligned by Record already.
func (w *Writer) writeElements() {
	idW, nodeW, matW := 0, 0, 0
	recs := make([][]string, len(w.elements))
	for i, e := range w.elements {
		rec := e.Record(w.opts.Precision)
		recs[i] = rec
		idW = max(idW, len(rec[1]))
		for _, tok := range rec[2 : 2+len(e.Nodes)] {
			nodeW = max(nodeW, len(tok))
		}
		for j, m := range e.Materials {
			if !m.IsFloat() {
				matW = max(matW, len(rec[2+len(e.Nodes)+j]))
			}
		}
	}
	for i, e := range w.elements {
		rec := recs[i]
		fmt.Fprintf(w.buf, "%s %*s", rec[0], idW, rec[1])
		for _, tok := range rec[2 : 2+len(e.Nodes)] {
			fmt.Fprintf(w.buf, " %*s", nodeW, tok)
		}
		for j, m := range e.Materials {
			tok := rec[2+len(e.Nodes)+j]
			if m.IsFloat() {
				w.buf.WriteString(" " + tok)
			} else {
				fmt.Fprintf(w.buf, " %*s", matW, tok)
			}
		}
		w.buf.WriteByte('\n')
	}
}

// writeNodeStrings emits the buffered NS records through NodeString.Record,
// folding at nsFold node tokens per physical line. Record negates the last
// node and quotes multi-word names; the terminator and name share the final
// line.
func (w *Writer) writeNodeStrings() {
	for _, ns := range w.nodeStrings {
		rec := ns.Record()
		for i, tok := range rec[1 : 1+len(ns.Nodes)] {
			if i%nsFold == 0 {
				if i > 0 {
					w.buf.WriteByte('\n')
				}
				w.buf.WriteString("NS")
			}
			w.buf.WriteString(" " + tok)
		}
		if len(rec) > 1+len(ns.Nodes) {
			w.buf.WriteString(" " + rec[1+len(ns.Nodes)])
		}
		w.buf.WriteByte('\n')
	}
}

// checkBlockOrder rejects returning to a kind whose block was already
// flushed when a different kind has been flushed since.
func (w *Writer) checkBlockOrder(k kind) error {
	n := len(w.history)
	if n == 0 || w.history[n-1] == k {
		return nil
	}
	for _, h := range w.history {
		if h == k {
			return &mesh.WriteError{
				Msg: fmt.Sprintf("entities must be written in blocks, not interleaved (found %s-%s-%s sequence)",
					k, w.history[n-1], k),
			}
		}
	}
	return nil
}

// nextID is the auto-assigned ID for the next entity of kind k: the current
// count shifted to the configured base.
func (w *Writer) nextID(k kind) int {
	if w.opts.ZeroIndex {
		return w.counts[k]
	}
	return w.counts[k] + 1
}

func (w *Writer) bufferLen(k kind) int {
	switch k {
	case kindNode:
		return len(w.nodes)
	case kindElement:
		return len(w.elements)
	}
	return len(w.nodeStrings)
}

func (w *Writer) warn(warn mesh.Warning) {
	w.warnings = append(w.warnings, warn)
	if w.opts.OnWarning != nil {
		w.opts.OnWarning(warn)
	}
}

func digits(v int) int {
	return len(strconv.Itoa(v))
}

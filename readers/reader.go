// Package readers loads 2DM mesh files into indexed in-memory collections.
package readers

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"gonum.org/v1/gonum/floats"

	"github.com/meshtools/go2dm/cards"
	"github.com/meshtools/go2dm/mesh"
)

// Options configure a Reader. Construct with DefaultOptions and override
// fields as needed.
type Options struct {
	// ZeroIndex opens the file in zero-index mode, with IDs starting at 0.
	// A file written zero-based but opened without this flag fails with a
	// FormatError; the mode is never auto-detected.
	ZeroIndex bool

	// Materials overrides the NUM_MATERIALS_PER_ELEM header value when
	// non-negative.
	Materials int

	// AllowFloatMaterials accepts floating point material values; when
	// false they are dropped with a warning.
	AllowFloatMaterials bool

	// OnWarning receives recoverable format warnings as they are emitted.
	// Warnings are also retained on the Reader regardless.
	OnWarning mesh.WarningHandler
}

// DefaultOptions returns the options matching the format's native
// conventions: one-based IDs, float materials accepted.
func DefaultOptions() Options {
	return Options{Materials: -1, AllowFloatMaterials: true}
}

// Reader holds a fully parsed 2DM mesh with O(1) ID-based lookup.
//
// The whole file is loaded into memory on Open; all queries afterwards are
// served from the in-memory collections. The underlying file handle is held
// until Close.
type Reader struct {
	file *os.File
	path string
	opts Options
	meta cards.Metadata

	nodes       []mesh.Node
	elements    []mesh.Element
	nodeStrings []mesh.NodeString
	warnings    []mesh.Warning

	extent     mesh.Extent
	haveExtent bool
	closed     bool
}

// Open reads a 2DM file into memory. The scan pass validates the MESH2D
// marker, ID contiguity and header cards; the bulk pass then constructs the
// node, element and node string collections. On any fatal error no partial
// mesh is returned and the file handle is released.
func Open(path string, opts Options) (*Reader, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	r := &Reader{file: file, path: path, opts: opts}

	popts := cards.Options{
		ZeroIndex:           opts.ZeroIndex,
		AllowFloatMaterials: opts.AllowFloatMaterials,
	}
	r.meta, err = cards.ScanMetadata(file, path, popts)
	if err != nil {
		file.Close()
		return nil, err
	}
	if err := r.load(popts); err != nil {
		file.Close()
		return nil, err
	}
	return r, nil
}

// load is the bulk parse: it re-reads each block from the offsets recorded
// by the scan and builds the entity collections.
func (r *Reader) load(popts cards.Options) error {
	if r.meta.NumNodes > 0 {
		r.nodes = make([]mesh.Node, 0, r.meta.NumNodes)
		err := r.readBlock(r.meta.NodesStart, r.meta.NodesLine, func(line string, lineNo int) (bool, error) {
			if cards.Fields(line)[0] != "ND" {
				return false, nil
			}
			node, warns, err := cards.ParseNode(line, popts)
			if err != nil {
				return false, r.locate(err, lineNo, line)
			}
			r.warn(warns, lineNo)
			r.nodes = append(r.nodes, node)
			return len(r.nodes) == r.meta.NumNodes, nil
		})
		if err != nil {
			return err
		}
	}
	if r.meta.NumElements > 0 {
		r.elements = make([]mesh.Element, 0, r.meta.NumElements)
		err := r.readBlock(r.meta.ElementsStart, r.meta.ElementsLine, func(line string, lineNo int) (bool, error) {
			card := cards.Fields(line)[0]
			if !mesh.IsElementCard(card) {
				return false, nil
			}
			t, err := cards.ElementTypeForLine(line)
			if err != nil {
				return false, r.locate(err, lineNo, line)
			}
			elem, warns, err := cards.ParseElement(line, t, popts)
			if err != nil {
				return false, r.locate(err, lineNo, line)
			}
			r.warn(warns, lineNo)
			r.elements = append(r.elements, elem)
			return len(r.elements) == r.meta.NumElements, nil
		})
		if err != nil {
			return err
		}
	}
	if r.meta.NumNodeStrings > 0 {
		r.nodeStrings = make([]mesh.NodeString, 0, r.meta.NumNodeStrings)
		var builder *cards.NodeStringBuilder
		err := r.readBlock(r.meta.NodeStringsStart, r.meta.NodeStringsLine, func(line string, lineNo int) (bool, error) {
			if cards.Fields(line)[0] != "NS" {
				return false, nil
			}
			if builder == nil {
				builder = cards.NewNodeStringBuilder()
			}
			done, warns, err := builder.Consume(line, popts)
			if err != nil {
				return false, r.locate(err, lineNo, line)
			}
			r.warn(warns, lineNo)
			if done {
				ns, err := builder.NodeString()
				if err != nil {
					return false, r.locate(err, lineNo, line)
				}
				r.nodeStrings = append(r.nodeStrings, ns)
				builder = nil
			}
			return len(r.nodeStrings) == r.meta.NumNodeStrings, nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// readBlock seeks to a block offset and feeds non-blank lines to fn until fn
// reports the block complete or the file ends. startLine is the absolute file
// line number at the block offset, so diagnostics carry real positions.
func (r *Reader) readBlock(start int64, startLine int, fn func(line string, lineNo int) (done bool, err error)) error {
	if _, err := r.file.Seek(start, io.SeekStart); err != nil {
		return err
	}
	br := bufio.NewReader(r.file)
	for lineNo := startLine; ; lineNo++ {
		raw, readErr := br.ReadString('\n')
		if readErr != nil && readErr != io.EOF {
			return readErr
		}
		if raw == "" && readErr == io.EOF {
			return nil
		}
		if line := strings.TrimSpace(cards.StripComment(raw)); line != "" {
			done, err := fn(line, lineNo)
			if err != nil {
				return err
			}
			if done {
				return nil
			}
		}
		if readErr == io.EOF {
			return nil
		}
	}
}

func (r *Reader) warn(warns []mesh.Warning, lineNo int) {
	for _, w := range warns {
		w.Line = lineNo
		r.warnings = append(r.warnings, w)
		if r.opts.OnWarning != nil {
			r.opts.OnWarning(w)
		}
	}
}

// locate stamps file position info onto parse errors.
func (r *Reader) locate(err error, lineNo int, line string) error {
	switch e := err.(type) {
	case *mesh.FormatError:
		e.File, e.Line, e.Raw = r.path, lineNo, line
	case *mesh.CardError:
		e.File, e.Line, e.Raw = r.path, lineNo, line
	}
	return err
}

// Name returns the mesh display name, or "Unnamed mesh" when the file
// carries no MESHNAME or GM card.
func (r *Reader) Name() string {
	if r.meta.Name == "" {
		return "Unnamed mesh"
	}
	return r.meta.Name
}

// NumNodes returns the number of nodes in the mesh.
func (r *Reader) NumNodes() int { return r.meta.NumNodes }

// NumElements returns the number of elements in the mesh.
func (r *Reader) NumElements() int { return r.meta.NumElements }

// NumNodeStrings returns the number of node strings in the mesh.
func (r *Reader) NumNodeStrings() int { return r.meta.NumNodeStrings }

// MaterialsPerElement returns the materials-per-element count: the caller's
// override when set, the header value when present, zero otherwise.
func (r *Reader) MaterialsPerElement() int {
	if r.opts.Materials >= 0 {
		return r.opts.Materials
	}
	if r.meta.MaterialsPerElement >= 0 {
		return r.meta.MaterialsPerElement
	}
	return 0
}

// Nodes returns all nodes in ID order. The slice is shared; callers must
// not modify it.
func (r *Reader) Nodes() []mesh.Node { return r.nodes }

// Elements returns all elements in ID order. The slice is shared; callers
// must not modify it.
func (r *Reader) Elements() []mesh.Element { return r.elements }

// NodeStrings returns all node strings in definition order. The slice is
// shared; callers must not modify it.
func (r *Reader) NodeStrings() []mesh.NodeString { return r.nodeStrings }

// Warnings returns the recoverable format warnings collected while loading.
func (r *Reader) Warnings() []mesh.Warning { return r.warnings }

// Node returns a node by ID.
func (r *Reader) Node(id int) (mesh.Node, error) {
	if r.closed {
		return mesh.Node{}, mesh.ErrClosed
	}
	idx := id - r.base()
	if idx < 0 || idx >= len(r.nodes) {
		return mesh.Node{}, fmt.Errorf("node %d: %w", id, mesh.ErrNotFound)
	}
	return r.nodes[idx], nil
}

// Element returns an element by ID.
func (r *Reader) Element(id int) (mesh.Element, error) {
	if r.closed {
		return mesh.Element{}, mesh.ErrClosed
	}
	idx := id - r.base()
	if idx < 0 || idx >= len(r.elements) {
		return mesh.Element{}, fmt.Errorf("element %d: %w", id, mesh.ErrNotFound)
	}
	return r.elements[idx], nil
}

// NodeString returns the first node string with the given name. Name
// uniqueness is not enforced by the format; duplicates resolve to the first
// match in definition order.
func (r *Reader) NodeString(name string) (mesh.NodeString, error) {
	if r.closed {
		return mesh.NodeString{}, mesh.ErrClosed
	}
	for _, ns := range r.nodeStrings {
		if ns.Name == name {
			return ns, nil
		}
	}
	return mesh.NodeString{}, fmt.Errorf("node string %q: %w", name, mesh.ErrNotFound)
}

// IterNodes returns the nodes with IDs in the half-open range [start, end).
// A negative bound means "unbounded on that side".
func (r *Reader) IterNodes(start, end int) ([]mesh.Node, error) {
	if r.closed {
		return nil, mesh.ErrClosed
	}
	lo, hi, err := r.clampRange(start, end, len(r.nodes))
	if err != nil {
		return nil, err
	}
	return r.nodes[lo:hi], nil
}

// IterElements returns the elements with IDs in the half-open range
// [start, end). A negative bound means "unbounded on that side".
func (r *Reader) IterElements(start, end int) ([]mesh.Element, error) {
	if r.closed {
		return nil, mesh.ErrClosed
	}
	lo, hi, err := r.clampRange(start, end, len(r.elements))
	if err != nil {
		return nil, err
	}
	return r.elements[lo:hi], nil
}

// IterNodeStrings returns the node strings with positional indices in the
// half-open range [start, end). Node strings have no IDs, so the range is
// always zero-based regardless of the indexing mode.
func (r *Reader) IterNodeStrings(start, end int) ([]mesh.NodeString, error) {
	if r.closed {
		return nil, mesh.ErrClosed
	}
	if start < 0 {
		start = 0
	}
	if end < 0 {
		end = len(r.nodeStrings)
	}
	if end <= start && len(r.nodeStrings) > 0 {
		return nil, fmt.Errorf("end %d must be greater than start %d: %w",
			end, start, mesh.ErrRange)
	}
	if start > len(r.nodeStrings) || end > len(r.nodeStrings) {
		return nil, fmt.Errorf("range [%d, %d) exceeds %d node strings: %w",
			start, end, len(r.nodeStrings), mesh.ErrRange)
	}
	return r.nodeStrings[start:end], nil
}

// Extent returns the bounding box over all nodes. It is computed lazily on
// the first call and cached; an empty mesh yields four NaNs.
func (r *Reader) Extent() (mesh.Extent, error) {
	if r.closed {
		return mesh.Extent{}, mesh.ErrClosed
	}
	if r.haveExtent {
		return r.extent, nil
	}
	if len(r.nodes) == 0 {
		r.extent = mesh.EmptyExtent()
	} else {
		xs := make([]float64, len(r.nodes))
		ys := make([]float64, len(r.nodes))
		for i, n := range r.nodes {
			xs[i], ys[i] = n.X, n.Y
		}
		r.extent = mesh.Extent{
			MinX: floats.Min(xs), MaxX: floats.Max(xs),
			MinY: floats.Min(ys), MaxY: floats.Max(ys),
		}
	}
	r.haveExtent = true
	return r.extent, nil
}

// Close releases the underlying file handle. The loaded collections stay in
// memory, so the plain accessors (Nodes, Elements, NodeStrings, Warnings,
// Name and the counts) keep serving them; lookups, iteration and Extent
// report ErrClosed.
func (r *Reader) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	return r.file.Close()
}

func (r *Reader) base() int {
	if r.opts.ZeroIndex {
		return 0
	}
	return 1
}

// clampRange resolves negative sentinels against the collection size and
// validates the resulting half-open ID range.
func (r *Reader) clampRange(start, end, n int) (lo, hi int, err error) {
	base := r.base()
	if start < 0 {
		start = base
	}
	if end < 0 {
		end = base + n
	}
	if end <= start && n > 0 {
		return 0, 0, fmt.Errorf("end %d must be greater than start %d: %w",
			end, start, mesh.ErrRange)
	}
	lo, hi = start-base, end-base
	if lo < 0 || hi > n {
		return 0, 0, fmt.Errorf("range [%d, %d) exceeds IDs [%d, %d): %w",
			start, end, base, base+n, mesh.ErrRange)
	}
	return lo, hi, nil
}

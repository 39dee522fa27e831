package cards

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/meshtools/go2dm/mesh"
)

// Metadata holds everything the forward scan learns about a mesh file:
// per-kind counts, the byte offset where each block begins, and the optional
// header fields.
type Metadata struct {
	NumNodes       int
	NumElements    int
	NumNodeStrings int

	// Name is the mesh display name from the MESHNAME or GM card, empty
	// when neither card is present.
	Name string

	// MaterialsPerElement is the NUM_MATERIALS_PER_ELEM value, -1 when the
	// card is absent.
	MaterialsPerElement int

	NodesStart       int64
	ElementsStart    int64
	NodeStringsStart int64

	// NodesLine, ElementsLine and NodeStringsLine are the 1-based file line
	// numbers of the first record of each block, so diagnostics from a later
	// block re-read can report absolute positions.
	NodesLine       int
	ElementsLine    int
	NodeStringsLine int
}

// ScanMetadata performs a single forward scan of a 2DM file: it verifies the
// MESH2D marker, counts records per kind, records block offsets, extracts
// header fields and validates that node and element IDs form a contiguous,
// monotonically increasing sequence starting at the configured base.
func ScanMetadata(r io.Reader, filename string, opts Options) (Metadata, error) {
	meta := Metadata{MaterialsPerElement: -1}
	br := bufio.NewReader(r)

	base := opts.Base()
	mesh2dFound := false
	lastNode := -1
	haveNode := false
	lastElement := -1
	haveElement := false
	nsOpen := false

	var offset int64
	for lineNo := 1; ; lineNo++ {
		raw, readErr := br.ReadString('\n')
		lineStart := offset
		offset += int64(len(raw))
		if readErr != nil && readErr != io.EOF {
			return meta, readErr
		}
		if raw == "" && readErr == io.EOF {
			break
		}

		line := strings.TrimSpace(StripComment(raw))
		if line != "" {
			if !mesh2dFound {
				if !strings.HasPrefix(line, "MESH2D") {
					return meta, &mesh.ReadError{
						File: filename,
						Msg:  "file is not a 2DM mesh file (missing MESH2D marker)",
					}
				}
				mesh2dFound = true
			} else if err := scanLine(&meta, line, raw, lineStart, lineNo, filename, base,
				&lastNode, &haveNode, &lastElement, &haveElement, &nsOpen); err != nil {
				return meta, err
			}
		}

		if readErr == io.EOF {
			break
		}
	}
	if !mesh2dFound {
		return meta, &mesh.ReadError{File: filename, Msg: "MESH2D marker not found"}
	}
	if nsOpen {
		return meta, &mesh.FormatError{
			File: filename,
			Msg:  "unterminated node string at end of file",
		}
	}
	return meta, nil
}

func scanLine(meta *Metadata, line, raw string, lineStart int64, lineNo int,
	filename string, base int, lastNode *int, haveNode *bool,
	lastElement *int, haveElement *bool, nsOpen *bool) error {

	chunks := strings.Fields(line)
	card := chunks[0]

	switch {
	case card == "ND":
		id, err := scanRecordID(chunks, lineNo, raw, filename, base, "node")
		if err != nil {
			return err
		}
		if !*haveNode {
			if id != base {
				return contiguityError(filename, lineNo, raw,
					fmt.Sprintf("node IDs must start at %d, got %d", base, id))
			}
			meta.NodesStart = lineStart
			meta.NodesLine = lineNo
		} else if id != *lastNode+1 {
			return contiguityError(filename, lineNo, raw, "node IDs have holes")
		}
		*lastNode = id
		*haveNode = true
		meta.NumNodes++

	case mesh.IsElementCard(card):
		id, err := scanRecordID(chunks, lineNo, raw, filename, base, "element")
		if err != nil {
			return err
		}
		if !*haveElement {
			if id != base {
				return contiguityError(filename, lineNo, raw,
					fmt.Sprintf("element IDs must start at %d, got %d", base, id))
			}
			meta.ElementsStart = lineStart
			meta.ElementsLine = lineNo
		} else if id != *lastElement+1 {
			return contiguityError(filename, lineNo, raw, "element IDs have holes")
		}
		*lastElement = id
		*haveElement = true
		meta.NumElements++

	case card == "NS":
		if !*nsOpen && meta.NumNodeStrings == 0 {
			meta.NodeStringsStart = lineStart
			meta.NodeStringsLine = lineNo
		}
		*nsOpen = true
		if hasTerminator(chunks[1:]) {
			meta.NumNodeStrings++
			*nsOpen = false
		}

	case card == "MESHNAME" || card == "GM":
		meta.Name = scanMeshName(line)

	case card == "NUM_MATERIALS_PER_ELEM":
		if len(chunks) < 2 {
			return &mesh.FormatError{
				File: filename, Line: lineNo, Raw: raw,
				Msg: "NUM_MATERIALS_PER_ELEM requires a count",
			}
		}
		n, err := strconv.Atoi(chunks[1])
		if err != nil || n < 0 {
			return &mesh.FormatError{
				File: filename, Line: lineNo, Raw: raw,
				Msg: fmt.Sprintf("invalid material count %q", chunks[1]),
			}
		}
		meta.MaterialsPerElement = n
	}
	// Unrecognized cards are ignored; the format grows vendor cards freely.
	return nil
}

func scanRecordID(chunks []string, lineNo int, raw, filename string,
	base int, what string) (int, error) {
	if len(chunks) < 2 {
		return 0, &mesh.FormatError{
			File: filename, Line: lineNo, Raw: raw,
			Msg: fmt.Sprintf("%s record is missing its ID", what),
		}
	}
	id, err := strconv.Atoi(chunks[1])
	if err != nil {
		return 0, &mesh.FormatError{
			File: filename, Line: lineNo, Raw: raw,
			Msg: fmt.Sprintf("invalid %s ID %q", what, chunks[1]),
		}
	}
	if id < base {
		msg := fmt.Sprintf("invalid %s ID: %d", what, id)
		if id == 0 {
			msg = "zero index encountered in non-zero-indexed file"
		}
		return 0, &mesh.FormatError{
			File: filename, Line: lineNo, Raw: raw, Msg: msg,
		}
	}
	return id, nil
}

func hasTerminator(toks []string) bool {
	for _, tok := range toks {
		if id, err := strconv.Atoi(tok); err == nil && id < 0 {
			return true
		}
	}
	return false
}

// scanMeshName extracts the display name from a MESHNAME or GM card,
// preferring the double-quoted form.
func scanMeshName(line string) string {
	if parts := strings.SplitN(line, `"`, 3); len(parts) >= 2 {
		return parts[1]
	}
	if parts := strings.Fields(line); len(parts) >= 2 {
		return parts[1]
	}
	return ""
}

func contiguityError(filename string, lineNo int, raw, msg string) error {
	return &mesh.FormatError{File: filename, Line: lineNo, Raw: raw, Msg: msg}
}

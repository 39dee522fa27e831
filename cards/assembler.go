package cards

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/meshtools/go2dm/mesh"
)

// NodeStringState is the assembler state of an in-progress node string.
type NodeStringState int

const (
	// StateEmpty: no line consumed yet.
	StateEmpty NodeStringState = iota
	// StateOpen: one or more lines consumed, terminator not yet seen.
	StateOpen
	// StateClosed: terminator seen; the node string is complete.
	StateClosed
)

func (s NodeStringState) String() string {
	return [...]string{"empty", "open", "closed"}[s]
}

// NodeStringBuilder folds consecutive "NS" physical lines into one node
// string. The caller owns the builder and feeds it lines until Consume
// reports completion; re-entrant calls never discard accumulated nodes.
type NodeStringBuilder struct {
	nodes []int
	name  string
	state NodeStringState
}

// NewNodeStringBuilder returns a builder in the empty state.
func NewNodeStringBuilder() *NodeStringBuilder {
	return &NodeStringBuilder{}
}

// State returns the current assembler state.
func (b *NodeStringBuilder) State() NodeStringState { return b.state }

// Consume folds one physical "NS" line into the builder. Tokens are appended
// as their absolute value; the first negative-signed token terminates the
// string and any tokens after it form the string's name. Consume returns
// true once the node string is complete.
func (b *NodeStringBuilder) Consume(line string, opts Options) (done bool, warns []mesh.Warning, err error) {
	if b.state == StateClosed {
		return true, nil, &mesh.FormatError{Raw: line, Msg: "node string already complete"}
	}
	chunks := Fields(line)
	if len(chunks) < 2 {
		return false, nil, &mesh.CardError{
			Card: firstToken(chunks),
			Raw:  line,
			Msg: fmt.Sprintf("node string definitions require at least 1 field (node_id), got %d",
				len(chunks)-1),
		}
	}
	if chunks[0] != "NS" {
		return false, nil, &mesh.CardError{
			Card: chunks[0],
			Raw:  line,
			Msg:  "expected NS card",
		}
	}
	b.state = StateOpen
	for i, tok := range chunks[1:] {
		id, err := strconv.Atoi(tok)
		if err != nil {
			return false, warns, &mesh.FormatError{
				Raw: line,
				Msg: fmt.Sprintf("invalid node ID %q", tok),
			}
		}
		if id == 0 && !opts.ZeroIndex {
			return false, warns, &mesh.FormatError{
				Raw: line,
				Msg: "invalid node ID: 0",
			}
		}
		if id < 0 {
			b.nodes = append(b.nodes, -id)
			b.state = StateClosed
			name, w := joinName(chunks[i+2:], line)
			warns = append(warns, w...)
			if name != "" {
				b.name = name
			}
			return true, warns, nil
		}
		b.nodes = append(b.nodes, id)
	}
	return false, warns, nil
}

// NodeString returns the completed node string. It is an error to call this
// before the terminator has been consumed.
func (b *NodeStringBuilder) NodeString() (mesh.NodeString, error) {
	if b.state != StateClosed {
		return mesh.NodeString{}, &mesh.FormatError{
			Msg: fmt.Sprintf("node string is not complete (state %s)", b.state),
		}
	}
	return mesh.NewNodeString(b.name, b.nodes...)
}

// joinName assembles the name tokens following a terminator. Multiple tokens
// are re-joined with spaces; unquoted multi-word names draw a warning
// recommending quotes.
func joinName(toks []string, line string) (string, []mesh.Warning) {
	if len(toks) == 0 {
		return "", nil
	}
	name := strings.Join(toks, " ")
	if strings.HasPrefix(name, `"`) && strings.HasSuffix(name, `"`) && len(name) >= 2 {
		return strings.Trim(name, `"`), nil
	}
	var warns []mesh.Warning
	if len(toks) > 1 {
		warns = append(warns, mesh.Warning{
			Code: mesh.WarnUnquotedName,
			Msg:  fmt.Sprintf("node string name %q contains spaces and should be quoted", name),
			Raw:  line,
		})
	}
	return strings.Trim(name, `"`), warns
}

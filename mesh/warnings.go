package mesh

import "fmt"

// WarningCode classifies a recoverable format deviation.
type WarningCode int

const (
	// WarnExtraFields: a node record carried trailing fields beyond
	// id, x, y, z. The extra fields are ignored.
	WarnExtraFields WarningCode = iota

	// WarnFloatMaterialDropped: a float material value was found while the
	// caller disallows them. The value is dropped.
	WarnFloatMaterialDropped

	// WarnMaterialsTruncated: an element carried more materials than the
	// mesh's material count. The excess values are truncated.
	WarnMaterialsTruncated

	// WarnUnquotedName: a node string name containing spaces was written
	// without quotes. The words are re-joined with spaces.
	WarnUnquotedName
)

func (c WarningCode) String() string {
	switch c {
	case WarnExtraFields:
		return "extra-fields"
	case WarnFloatMaterialDropped:
		return "float-material-dropped"
	case WarnMaterialsTruncated:
		return "materials-truncated"
	case WarnUnquotedName:
		return "unquoted-name"
	}
	return "unknown"
}

// Warning is a non-fatal format notification. Processing continues with a
// well-defined fallback after each warning.
type Warning struct {
	Code WarningCode
	Msg  string
	Line int    // 1-based line number, 0 when unknown
	Raw  string // offending line text, when available
}

func (w Warning) String() string {
	if w.Line > 0 {
		return fmt.Sprintf("line %d: %s: %s", w.Line, w.Code, w.Msg)
	}
	return fmt.Sprintf("%s: %s", w.Code, w.Msg)
}

// WarningHandler receives recoverable warnings as they are emitted.
type WarningHandler func(Warning)

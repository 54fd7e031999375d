package openmx

import (
	"errors"
	"fmt"
	"strings"
)

// Issue codes (exported consts for IDE completion and type safety by convention)
const (
	CodeUnknownKeyword   = "unknown_keyword"
	CodeReservedKeyword  = "reserved_keyword"
	CodeInvalidType      = "invalid_type"
	CodeInvalidShape     = "invalid_shape"
	CodeOutOfBounds      = "out_of_bounds"
	CodeInvalidEnum      = "invalid_enum"
	CodeRequiresUnmet    = "requires_unmet"
	CodeDuplicateKey     = "duplicate_key"
	CodeUnsupportedBlock = "unsupported_block"
	// Cross-references between structure, pseudopotentials, and basis sets.
	CodeKindMismatch        = "kind_mismatch"
	CodeInconsistentXC      = "inconsistent_xc"
	CodeInconsistentValence = "inconsistent_valence"
	CodeUnsupportedKpoints  = "unsupported_kpoints"
)

// Issue represents a single validation entry.
type Issue struct {
	Keyword string // Offending keyword or input name (empty for whole-input issues).
	Code    string // One of the codes listed above.
	Message string
	Hint    string // Optional: remediation hints.
	// Params carries structured parameters (e.g., {"lower":0, "upper":3, "got":42})
	// for observability.
	Params map[string]any
}

// Issues is a collection of validation errors that implements error.
// Validation accumulates every violation found in one pass rather than
// stopping at the first.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		if it.Keyword != "" {
			fmt.Fprintf(b, "%s at %s", it.Code, it.Keyword)
		} else {
			b.WriteString(it.Code)
		}
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	dst = append(dst, more...)
	return dst
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

// Post-run failures form a closed set so a caller can tell a job that never
// produced its report apart from one whose report is unreadable or truncated,
// and decide on retry versus permanent failure accordingly.
var (
	// ErrOutputMissing: the expected report or result file is absent from the
	// completed job's output set.
	ErrOutputMissing = errors.New("output file missing")
	// ErrOutputRead: the file is present but an I/O fault occurred reading it.
	ErrOutputRead = errors.New("output file unreadable")
	// ErrOutputParse: the file is readable but a required section marker was
	// never found, or a field did not convert.
	ErrOutputParse = errors.New("output file unparsable")
	// ErrOutputIncomplete: a section started but its sentinel never arrived;
	// the run likely crashed or hit its walltime mid-write.
	ErrOutputIncomplete = errors.New("output file incomplete")
	// ErrFeatureNotAvailable: the requested path exists in the interface but
	// has no implementation yet.
	ErrFeatureNotAvailable = errors.New("feature not available")
)

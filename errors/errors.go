package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseParse    Phase = "parse"    // text front end
	PhaseEncode   Phase = "encode"   // module to binary
	PhaseDecode   Phase = "decode"   // binary to module
	PhaseValidate Phase = "validate" // structural validation
	PhaseRuntime  Phase = "runtime"  // export resolution and execution
	PhaseLoad     Phase = "load"     // reading module files and descriptions
	PhaseConfig   Phase = "config"   // configuration loading
)

// Kind categorizes the error
type Kind string

// Structural decode errors.
const (
	KindModuleTooShort     Kind = "module_too_short"
	KindWrongMagicHeader   Kind = "wrong_magic_header"
	KindWrongVersionHeader Kind = "wrong_version_header"
	KindInvalidSectionCode Kind = "invalid_section_code"
	KindInvalidValueType   Kind = "invalid_value_type"
	KindInvalidInstruction Kind = "invalid_instruction"
	KindInvalidExportName  Kind = "invalid_export_name"
	KindInvalidExportType  Kind = "invalid_export_type"
	KindUnexpectedEOF      Kind = "unexpected_end_of_input"
	KindMalformedModule    Kind = "malformed_module"
)

// Lookup and arity errors.
const (
	KindExportNotFound        Kind = "export_not_found"
	KindArgumentCountMismatch Kind = "argument_count_mismatch"
	KindUnsupportedExportKind Kind = "unsupported_export_kind"
)

// Execution errors.
const (
	KindStackUnderflow       Kind = "stack_underflow"
	KindLocalIndexOutOfRange Kind = "local_index_out_of_range"
	KindResultArityMismatch  Kind = "result_arity_mismatch"
)

// General purpose kinds.
const (
	KindOverflow     Kind = "overflow"
	KindInvalidInput Kind = "invalid_input"
	KindInvalidData  Kind = "invalid_data"
	KindNotFound     Kind = "not_found"
	KindUnsupported  Kind = "unsupported"
)

// Sentinels for use with errors.Is. They carry no phase and match any
// error of the same kind.
var (
	ErrModuleTooShort        = &Error{Kind: KindModuleTooShort}
	ErrWrongMagicHeader      = &Error{Kind: KindWrongMagicHeader}
	ErrWrongVersionHeader    = &Error{Kind: KindWrongVersionHeader}
	ErrInvalidSectionCode    = &Error{Kind: KindInvalidSectionCode}
	ErrInvalidValueType      = &Error{Kind: KindInvalidValueType}
	ErrInvalidInstruction    = &Error{Kind: KindInvalidInstruction}
	ErrInvalidExportName     = &Error{Kind: KindInvalidExportName}
	ErrInvalidExportType     = &Error{Kind: KindInvalidExportType}
	ErrUnexpectedEndOfInput  = &Error{Kind: KindUnexpectedEOF}
	ErrMalformedModule       = &Error{Kind: KindMalformedModule}
	ErrExportNotFound        = &Error{Kind: KindExportNotFound}
	ErrArgumentCountMismatch = &Error{Kind: KindArgumentCountMismatch}
	ErrUnsupportedExportKind = &Error{Kind: KindUnsupportedExportKind}
	ErrStackUnderflow        = &Error{Kind: KindStackUnderflow}
	ErrLocalIndexOutOfRange  = &Error{Kind: KindLocalIndexOutOfRange}
	ErrResultArityMismatch   = &Error{Kind: KindResultArityMismatch}
	ErrOverflow              = &Error{Kind: KindOverflow}
)

// Error is the structured error type used throughout the module
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Detail string
	Path   []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	if e.Phase != "" {
		b.WriteByte('[')
		b.WriteString(string(e.Phase))
		b.WriteString("] ")
	}
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" in ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error. Kinds must be equal; the
// phase is compared only when the target names one.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if e.Kind != t.Kind {
		return false
	}
	return t.Phase == "" || e.Phase == t.Phase
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Path sets the location path (section, function, export)
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// Overflow creates an error for a count or size that does not fit the
// single-byte fields of the binary format.
func Overflow(phase Phase, path []string, value any, limit int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOverflow,
		Path:   path,
		Detail: fmt.Sprintf("value %v exceeds limit %d", value, limit),
		Value:  value,
	}
}

// OutOfRange creates an index error of the given kind.
func OutOfRange(phase Phase, kind Kind, path []string, index, length int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Path:   path,
		Detail: fmt.Sprintf("index %d out of range (length %d)", index, length),
		Value:  index,
	}
}

// Unsupported creates an unsupported operation error
func Unsupported(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Detail: what,
	}
}

// InvalidData creates an invalid data error
func InvalidData(phase Phase, path []string, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidData,
		Path:   path,
		Detail: detail,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}

// NotFound creates a not-found error
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s %q not found", what, name),
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// Load creates a module loading error
func Load(detail string, cause error) *Error {
	return &Error{
		Phase:  PhaseLoad,
		Kind:   KindInvalidData,
		Detail: detail,
		Cause:  cause,
	}
}

// ParseFailed creates a text parsing error at the given source line.
func ParseFailed(line int, format string, args ...any) *Error {
	return &Error{
		Phase:  PhaseParse,
		Kind:   KindInvalidInput,
		Detail: fmt.Sprintf("line %d: %s", line, fmt.Sprintf(format, args...)),
		Value:  line,
	}
}

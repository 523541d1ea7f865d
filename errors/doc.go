// Package errors provides structured error types for zod.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// Every named failure of the binary format and the interpreter has its own Kind,
// so callers can branch on it without matching strings.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseDecode, errors.KindInvalidSectionCode).
//		Path("export").
//		Value(tag).
//		Detail("expected section 0x07, got 0x%02x", tag).
//		Build()
//
// Test for a kind with the standard library and the exported sentinels:
//
//	if stderrors.Is(err, errors.ErrStackUnderflow) { ... }
//
// A sentinel matches errors of its kind from any phase. A target that
// names a phase matches only errors from that phase.
package errors

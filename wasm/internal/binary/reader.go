package binary

import (
	"encoding/binary"
	"fmt"

	"github.com/wippyai/zod/errors"
)

// Reader is a bounds-checked cursor over an owned byte buffer. Reads only
// move forward.
type Reader struct {
	data []byte
	pos  int
}

// NewReader creates a Reader positioned at offset 0.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// Position returns the current byte offset.
func (r *Reader) Position() int {
	return r.pos
}

// Len returns the number of unread bytes.
func (r *Reader) Len() int {
	return len(r.data) - r.pos
}

// Size returns the length of the whole buffer.
func (r *Reader) Size() int {
	return len(r.data)
}

// ReadByte reads a single byte and advances the position.
func (r *Reader) ReadByte() (byte, error) {
	if r.pos >= len(r.data) {
		return 0, r.eof(1)
	}
	b := r.data[r.pos]
	r.pos++
	return b, nil
}

// ReadBytes reads exactly n bytes. The returned slice aliases the buffer.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if n < 0 || n > r.Len() {
		return nil, r.eof(n)
	}
	b := r.data[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

// ReadDword reads a little-endian uint32 (fixed 4 bytes).
func (r *Reader) ReadDword() (uint32, error) {
	buf, err := r.ReadBytes(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(buf), nil
}

func (r *Reader) eof(want int) error {
	return errors.New(errors.PhaseDecode, errors.KindUnexpectedEOF).
		Value(r.pos).
		Detail("at offset %d: need %d bytes, %d left", r.pos, want, r.Len()).
		Build()
}

// WrapError prefixes the error path with the section name. Structured
// errors keep their kind; anything else becomes invalid data.
func (r *Reader) WrapError(section string, err error) error {
	if e, ok := err.(*errors.Error); ok {
		if section != "" {
			e.Path = append([]string{section}, e.Path...)
		}
		return e
	}
	return errors.New(errors.PhaseDecode, errors.KindInvalidData).
		Path(section).
		Cause(err).
		Detail("at offset %d", r.pos).
		Build()
}

// String describes the cursor for debugging.
func (r *Reader) String() string {
	return fmt.Sprintf("binary.Reader{pos: %d, size: %d}", r.pos, len(r.data))
}

package binary

import (
	"encoding/binary"
)

// MaxSmall is the largest value a single-byte field can hold.
const MaxSmall = 0xff

// Writer appends a module image. The zod layout stores counts, indices and
// sizes in single bytes (Small, FixedSection); the standard WebAssembly
// transcoding uses unsigned LEB128 (Uleb, Name, Section).
type Writer struct {
	buf []byte
}

// NewWriter creates an empty Writer.
func NewWriter() *Writer {
	return &Writer{}
}

// Bytes returns the written bytes.
func (w *Writer) Bytes() []byte {
	return w.buf
}

// Len returns the number of bytes written.
func (w *Writer) Len() int {
	return len(w.buf)
}

// Byte appends a single byte.
func (w *Writer) Byte(b byte) {
	w.buf = append(w.buf, b)
}

// Raw appends data unchanged.
func (w *Writer) Raw(data []byte) {
	w.buf = append(w.buf, data...)
}

// Dword appends v as 4 little-endian bytes.
func (w *Writer) Dword(v uint32) {
	w.buf = binary.LittleEndian.AppendUint32(w.buf, v)
}

// Small appends v as one byte. It writes nothing and returns false when v
// does not fit.
func (w *Writer) Small(v int) bool {
	if v < 0 || v > MaxSmall {
		return false
	}
	w.buf = append(w.buf, byte(v))
	return true
}

// FixedSection appends id, the payload length as one byte, and the payload.
// It returns false when the payload is longer than MaxSmall.
func (w *Writer) FixedSection(id byte, payload *Writer) bool {
	if payload.Len() > MaxSmall {
		return false
	}
	w.buf = append(w.buf, id, byte(payload.Len()))
	w.buf = append(w.buf, payload.buf...)
	return true
}

// Uleb appends v as unsigned LEB128.
func (w *Writer) Uleb(v uint32) {
	w.buf = binary.AppendUvarint(w.buf, uint64(v))
}

// Name appends a LEB128 length followed by the bytes of s.
func (w *Writer) Name(s string) {
	w.Uleb(uint32(len(s)))
	w.buf = append(w.buf, s...)
}

// Section appends id, the LEB128 payload length, and the payload.
func (w *Writer) Section(id byte, payload *Writer) {
	w.Byte(id)
	w.Uleb(uint32(payload.Len()))
	w.Raw(payload.buf)
}

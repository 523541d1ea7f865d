package wasm

import "math"

// Module binary format magic number and version.
const (
	// Magic is the module magic number ("\0asm" read as a little-endian dword).
	Magic uint32 = 0x6D736100

	// Version is the supported binary format version.
	Version uint32 = 0x01

	// HeaderSize is the length of magic plus version.
	HeaderSize = 8
)

// MaxCount is the largest count, index, length or size the format can
// carry. Every such field is exactly one byte wide.
const MaxCount = math.MaxUint8

// Section IDs define the binary identifiers for each module section.
// Sections appear in exactly this order: Type, Function, Export, Code.
const (
	SectionType     byte = 1  // Type section (function signatures)
	SectionFunction byte = 3  // Function section (type indices)
	SectionExport   byte = 7  // Export section
	SectionCode     byte = 10 // Code section (function bodies)
)

// Export descriptor kinds.
const (
	KindFunc byte = 0 // Function export
)

// ExportReserved is the zero byte written between an export name and its kind.
const ExportReserved byte = 0x00

// FuncTypeByte marks a function signature in the type section.
const FuncTypeByte byte = 0x60

// Value type encodings.
const (
	ValI32 ValType = 0x7F // 32-bit integer
	ValI64 ValType = 0x7E // 64-bit integer
)

// Opcodes.
const (
	OpEnd      byte = 0x0B
	OpLocalGet byte = 0x20
	OpI32Add   byte = 0x6A
)

// sectionNames are used in error paths and debug output.
var sectionNames = map[byte]string{
	SectionType:     "type",
	SectionFunction: "function",
	SectionExport:   "export",
	SectionCode:     "code",
}

// SectionName returns the lowercase name of a section ID.
func SectionName(id byte) string {
	if name, ok := sectionNames[id]; ok {
		return name
	}
	return "unknown"
}

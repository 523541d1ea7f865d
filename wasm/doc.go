// Package wasm provides the zod binary module format: parsing and encoding.
//
// The format is a compact relative of the WebAssembly binary format. A module
// is an 8-byte header followed by exactly four sections in fixed order:
//
//	bytes 0-3   magic "\0asm"
//	bytes 4-7   version 1 (little-endian)
//	0x01        type section      signatures
//	0x03        function section  one type index per function
//	0x07        export section    name, reserved 0x00, kind, function index
//	0x0A        code section      locals and instructions per function
//
// Every section starts with its tag byte, a size byte and a count byte. All
// counts, indices, lengths and sizes are single bytes, so a module holds at
// most MaxCount items of any kind.
//
// # Parsing
//
//	data, _ := os.ReadFile("add.bin")
//	module, err := wasm.ParseModule(data)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Parsing is strict: sections out of order fail with invalid_section_code,
// and a function section whose count disagrees with the code section fails
// with malformed_module. See the errors package for every failure kind.
//
// # Encoding
//
//	encoded, err := module.Encode()
//
// Round-trip parsing and encoding preserves the module:
//
//	roundtrip, _ := wasm.ParseModule(encoded)
//	roundtrip.Equal(module) // true
//
// EncodeStandard produces a regular WebAssembly 1.0 binary for the same
// module, for use with other engines.
//
// # Instructions
//
// Instructions are table driven. The table maps each opcode to its text
// mnemonic and immediate kind, and both the encoder and the decoder consult it:
//
//	local.get i   0x20 i
//	i32.add       0x6A
//	end           0x0B (terminates a body)
package wasm

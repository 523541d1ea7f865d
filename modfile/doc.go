// Package modfile reads and writes module descriptions as YAML or CBOR
// documents.
//
// A description lists the signatures, the functions and the exports of a
// module. Value types are written by name and bodies as instruction text:
//
//	types:
//	  - params: [i32, i32]
//	    results: [i32]
//	funcs:
//	  - type: 0
//	    body:
//	      - local.get 0
//	      - local.get 1
//	      - i32.add
//	exports:
//	  - name: add
//	    func: 0
//
// Decoded descriptions are validated like decoded binaries: type and
// function indices must be in range.
package modfile

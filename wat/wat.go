package wat

import (
	"github.com/wippyai/zod/wasm"
	"github.com/wippyai/zod/wat/internal/parser"
	"github.com/wippyai/zod/wat/internal/token"
)

// Parse parses WAT source into a module.
func Parse(source string) (*wasm.Module, error) {
	tokens, err := token.Tokenize(source)
	if err != nil {
		return nil, err
	}
	return parser.New(tokens).Parse()
}

// Compile parses WAT source and encodes it to the binary format.
func Compile(source string) ([]byte, error) {
	mod, err := Parse(source)
	if err != nil {
		return nil, err
	}
	return mod.Encode()
}

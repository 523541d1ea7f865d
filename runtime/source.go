package runtime

import (
	"path/filepath"
	"strings"

	"github.com/wippyai/zod/errors"
	"github.com/wippyai/zod/modfile"
	"github.com/wippyai/zod/wasm"
	"github.com/wippyai/zod/wat"
)

// Source formats accepted by ParseSource.
const (
	FormatWAT  = "wat"
	FormatYAML = "yaml"
	FormatCBOR = "cbor"
)

// FormatOf infers the source format from a file name.
func FormatOf(path string) (string, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wat", ".zod":
		return FormatWAT, true
	case ".yaml", ".yml":
		return FormatYAML, true
	case ".cbor":
		return FormatCBOR, true
	default:
		return "", false
	}
}

// ParseSource parses a module description in the given format.
func ParseSource(format string, data []byte) (*wasm.Module, error) {
	switch format {
	case FormatWAT:
		return wat.Parse(string(data))
	case FormatYAML:
		return modfile.UnmarshalYAML(data)
	case FormatCBOR:
		return modfile.UnmarshalCBOR(data)
	default:
		return nil, errors.Unsupported(errors.PhaseLoad, "source format "+format)
	}
}

// CompileSource parses a module description and compiles it.
func (r *Runtime) CompileSource(format string, data []byte) ([]byte, error) {
	m, err := ParseSource(format, data)
	if err != nil {
		return nil, err
	}
	return r.Compile(m)
}

package wasm_test

import (
	"math/rand"
	"strconv"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/require"

	"github.com/wippyai/zod/wasm"
)

// randomModule builds a small valid module that fits the single-byte
// section sizes.
func randomModule(rng *rand.Rand) *wasm.Module {
	valTypes := []wasm.ValType{wasm.ValI32, wasm.ValI64}
	randTypes := func(max int) []wasm.ValType {
		n := rng.Intn(max + 1)
		if n == 0 {
			return nil
		}
		out := make([]wasm.ValType, n)
		for i := range out {
			out[i] = valTypes[rng.Intn(len(valTypes))]
		}
		return out
	}

	m := &wasm.Module{}
	numTypes := 1 + rng.Intn(4)
	for i := 0; i < numTypes; i++ {
		m.Types = append(m.Types, wasm.FuncType{Params: randTypes(3), Results: randTypes(1)})
	}

	numFuncs := rng.Intn(4)
	for i := 0; i < numFuncs; i++ {
		f := wasm.Func{TypeIdx: uint32(rng.Intn(numTypes)), Locals: randTypes(3)}
		for j := rng.Intn(8); j > 0; j-- {
			if rng.Intn(2) == 0 {
				f.Body = append(f.Body, wasm.I32Add())
			} else {
				f.Body = append(f.Body, wasm.LocalGet(uint32(rng.Intn(256))))
			}
		}
		m.Funcs = append(m.Funcs, f)
	}

	if numFuncs > 0 {
		for i := rng.Intn(4); i > 0; i-- {
			m.Exports = append(m.Exports, wasm.Export{
				Name: "f" + strconv.Itoa(rng.Intn(1000)),
				Kind: wasm.KindFunc,
				Idx:  uint32(rng.Intn(numFuncs)),
			})
		}
	}
	return m
}

func genModule() gopter.Gen {
	return gen.Int64().Map(func(seed int64) *wasm.Module {
		return randomModule(rand.New(rand.NewSource(seed)))
	})
}

func TestRoundTripProperty(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("parse(encode(m)) equals m", prop.ForAll(
		func(m *wasm.Module) bool {
			data, err := m.Encode()
			if err != nil {
				return false
			}
			decoded, err := wasm.ParseModule(data)
			if err != nil {
				return false
			}
			return decoded.Equal(m)
		},
		genModule(),
	))

	properties.Property("encode(parse(b)) equals b", prop.ForAll(
		func(m *wasm.Module) bool {
			data, err := m.Encode()
			if err != nil {
				return false
			}
			decoded, err := wasm.ParseModule(data)
			if err != nil {
				return false
			}
			again, err := decoded.Encode()
			if err != nil {
				return false
			}
			return string(again) == string(data)
		},
		genModule(),
	))

	properties.TestingRun(t)
}

func TestRoundTripAddModule(t *testing.T) {
	m, err := wasm.ParseModule(addBinary())
	require.NoError(t, err)

	data, err := m.Encode()
	require.NoError(t, err)
	require.Equal(t, addBinary(), data)
	require.True(t, addModule().Equal(m))
}

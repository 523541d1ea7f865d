package binary

import (
	"bytes"
	"testing"
)

func TestWriterFixedWidth(t *testing.T) {
	w := NewWriter()
	w.Dword(1)
	w.Byte(0x7f)
	if !w.Small(0) || !w.Small(MaxSmall) {
		t.Fatal("Small rejected an in-range value")
	}
	w.Raw([]byte("ok"))

	want := []byte{0x01, 0x00, 0x00, 0x00, 0x7f, 0x00, 0xff, 'o', 'k'}
	if !bytes.Equal(w.Bytes(), want) {
		t.Errorf("Bytes = % x, want % x", w.Bytes(), want)
	}
	if w.Len() != len(want) {
		t.Errorf("Len = %d", w.Len())
	}
}

func TestWriterSmallOverflow(t *testing.T) {
	for _, v := range []int{-1, MaxSmall + 1, 1 << 20} {
		w := NewWriter()
		if w.Small(v) {
			t.Errorf("Small(%d) = true", v)
		}
		if w.Len() != 0 {
			t.Errorf("Small(%d) wrote %d bytes", v, w.Len())
		}
	}
}

func TestWriterFixedSection(t *testing.T) {
	payload := NewWriter()
	payload.Raw([]byte{0x01, 0x02})

	w := NewWriter()
	if !w.FixedSection(0x03, payload) {
		t.Fatal("FixedSection rejected a short payload")
	}
	if want := []byte{0x03, 0x02, 0x01, 0x02}; !bytes.Equal(w.Bytes(), want) {
		t.Errorf("Bytes = % x, want % x", w.Bytes(), want)
	}

	big := NewWriter()
	big.Raw(make([]byte, MaxSmall+1))
	w = NewWriter()
	if w.FixedSection(0x0a, big) {
		t.Error("FixedSection accepted an oversized payload")
	}
	if w.Len() != 0 {
		t.Errorf("FixedSection wrote %d bytes on overflow", w.Len())
	}
}

func TestWriterLEB128(t *testing.T) {
	tests := []struct {
		v    uint32
		want []byte
	}{
		{0, []byte{0x00}},
		{127, []byte{0x7f}},
		{128, []byte{0x80, 0x01}},
		{624485, []byte{0xe5, 0x8e, 0x26}},
		{0xffffffff, []byte{0xff, 0xff, 0xff, 0xff, 0x0f}},
	}
	for _, tt := range tests {
		w := NewWriter()
		w.Uleb(tt.v)
		if !bytes.Equal(w.Bytes(), tt.want) {
			t.Errorf("Uleb(%d) = % x, want % x", tt.v, w.Bytes(), tt.want)
		}
	}
}

func TestWriterStandardSection(t *testing.T) {
	payload := NewWriter()
	payload.Name("hi")

	w := NewWriter()
	w.Section(0x07, payload)

	want := []byte{0x07, 0x03, 0x02, 'h', 'i'}
	if !bytes.Equal(w.Bytes(), want) {
		t.Errorf("Bytes = % x, want % x", w.Bytes(), want)
	}
}

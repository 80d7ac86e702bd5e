package wzpng

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDecodeBGRA8888(t *testing.T) {
	// one opaque blue pixel: B=0xFF, G=0x00, R=0x00, A=0xFF stored BGRA
	raw := []byte{0xFF, 0x00, 0x00, 0xFF}
	got := decodeBGRA8888(raw, 1, 1)
	want := []byte{0x00, 0x00, 0xFF, 0xFF}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("decodeBGRA8888 mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeBGRA4444(t *testing.T) {
	// byte0 = B|A nibbles, byte1 = R|G nibbles: all nibbles 0xF -> fully white+opaque
	raw := []byte{0xFF, 0xFF}
	got := decodeBGRA4444(raw, 1, 1)
	want := []byte{0xFF, 0xFF, 0xFF, 0xFF}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("decodeBGRA4444 mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeRGB565(t *testing.T) {
	raw := []byte{0x00, 0xF8} // little-endian 0xF800 = pure red
	got := decodeRGB565(raw, 1, 1)
	want := []byte{0xFF, 0x00, 0x00, 0xFF}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("decodeRGB565 mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeARGB1555(t *testing.T) {
	raw := []byte{0x00, 0x80} // little-endian 0x8000: alpha bit set, all color bits zero
	got := decodeARGB1555(raw, 1, 1)
	want := []byte{0x00, 0x00, 0x00, 0xFF}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("decodeARGB1555 mismatch (-want +got):\n%s", diff)
	}
}

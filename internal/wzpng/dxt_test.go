package wzpng

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestColorTableFourColor(t *testing.T) {
	// c0 > c1 selects the 4-color (no transparent-black) interpolation.
	colors := colorTable(0xF800, 0x001F) // red, blue
	if colors[0] != (rgb{255, 0, 0}) {
		t.Errorf("color1 = %+v, want opaque red", colors[0])
	}
	if colors[1] != (rgb{0, 0, 255}) {
		t.Errorf("color2 = %+v, want opaque blue", colors[1])
	}
	if colors[2] != (rgb{170, 0, 85}) || colors[3] != (rgb{85, 0, 170}) {
		t.Errorf("color3, color4 = %+v, %+v, want {170 0 85}, {85 0 170}", colors[2], colors[3])
	}
}

func TestColorTableThreeColor(t *testing.T) {
	// c0 <= c1 selects the averaged color3 and black color4.
	colors := colorTable(0x001F, 0xF800) // blue, red -> c0 < c1
	if want3 := (rgb{127, 0, 127}); colors[2] != want3 {
		t.Errorf("color3 = %+v, want %+v", colors[2], want3)
	}
	want4 := rgb{0, 0, 0}
	if colors[3] != want4 {
		t.Errorf("color4 = %+v, want %+v", colors[3], want4)
	}
}

func TestColorIndexTable(t *testing.T) {
	block := make([]byte, 16)
	block[12] = 0b11_10_01_00 // indices 0,1,2,3 for first packed byte
	got := colorIndexTable(block, 12)
	want := [16]uint8{0, 1, 2, 3, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("colorIndexTable mismatch (-want +got):\n%s", diff)
	}
}

func TestAlphaTableDXT3(t *testing.T) {
	block := make([]byte, 16)
	block[0] = 0xF0 // nibble0=0x0, nibble1=0xF
	got := alphaTableDXT3(block)
	if got[0] != 0x00 {
		t.Errorf("alpha[0] = %#x, want 0x00", got[0])
	}
	if got[1] != 0xFF {
		t.Errorf("alpha[1] = %#x, want 0xFF", got[1])
	}
}

func TestAlphaTableDXT5Endpoints(t *testing.T) {
	got := alphaTableDXT5(255, 0)
	if got[0] != 255 || got[1] != 0 {
		t.Errorf("alphaTableDXT5 endpoints = (%d, %d), want (255, 0)", got[0], got[1])
	}
}

func TestAlphaIndexTableDXT5(t *testing.T) {
	block := make([]byte, 16)
	// three bits per index, indices 0..7 packed starting at offset 2
	block[2], block[3], block[4] = 0x88, 0xC6, 0xFA // 0xFAC688 = 7<<21|6<<18|...|1<<3|0
	got := alphaIndexTableDXT5(block, 2)
	if len(got) != 16 {
		t.Fatalf("alphaIndexTableDXT5 returned %d entries, want 16", len(got))
	}
	want := [16]uint8{0, 1, 2, 3, 4, 5, 6, 7, 0, 0, 0, 0, 0, 0, 0, 0}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("alphaIndexTableDXT5 mismatch (-want +got):\n%s", diff)
	}
}

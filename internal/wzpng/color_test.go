package wzpng

import "testing"

func TestRgbFromRGB565(t *testing.T) {
	for _, test := range []struct {
		desc             string
		color            uint16
		r, g, b          uint8
	}{
		{desc: "black", color: 0x0000, r: 0, g: 0, b: 0},
		{desc: "white", color: 0xFFFF, r: 255, g: 255, b: 255},
		{desc: "pure red", color: 0xF800, r: 255, g: 0, b: 0},
		{desc: "pure green", color: 0x07E0, r: 0, g: 255, b: 0},
		{desc: "pure blue", color: 0x001F, r: 0, g: 0, b: 255},
	} {
		t.Run(test.desc, func(t *testing.T) {
			r, g, b := rgbFromRGB565(test.color)
			if r != test.r || g != test.g || b != test.b {
				t.Errorf("rgbFromRGB565(%#04x) = (%d, %d, %d), want (%d, %d, %d)",
					test.color, r, g, b, test.r, test.g, test.b)
			}
		})
	}
}

func TestRgbaFromARGB1555(t *testing.T) {
	for _, test := range []struct {
		desc          string
		color         uint16
		r, g, b, a    uint8
	}{
		{desc: "transparent black", color: 0x0000, r: 0, g: 0, b: 0, a: 0},
		{desc: "opaque white", color: 0xFFFF, r: 255, g: 255, b: 255, a: 255},
		{desc: "opaque red", color: 0x8000 | 0x7C00, r: 255, g: 0, b: 0, a: 255},
		{desc: "transparent red has zero alpha regardless of color bits", color: 0x7C00, r: 255, g: 0, b: 0, a: 0},
	} {
		t.Run(test.desc, func(t *testing.T) {
			r, g, b, a := rgbaFromARGB1555(test.color)
			if r != test.r || g != test.g || b != test.b || a != test.a {
				t.Errorf("rgbaFromARGB1555(%#04x) = (%d, %d, %d, %d), want (%d, %d, %d, %d)",
					test.color, r, g, b, a, test.r, test.g, test.b, test.a)
			}
		})
	}
}

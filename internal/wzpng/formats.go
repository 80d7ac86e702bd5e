package wzpng

// All decode* functions take a raw inflated byte buffer and return a flat
// RGBA8 buffer (4 bytes per pixel, row-major, origin top-left).

func decodeBGRA4444(raw []byte, width, height int32) []byte {
	w, h := int(width), int(height)
	out := make([]byte, w*h*4)
	for i := 0; i < w*h; i++ {
		b := raw[i*2]
		g := raw[i*2+1] & 0x0F
		r := (raw[i*2+1] & 0xF0) >> 4
		a := b & 0x0F
		bb := (b & 0xF0) >> 4
		o := i * 4
		out[o+0] = r | r<<4
		out[o+1] = g | g<<4
		out[o+2] = bb | bb<<4
		out[o+3] = a | a<<4
	}
	return out
}

func decodeBGRA8888(raw []byte, width, height int32) []byte {
	w, h := int(width), int(height)
	out := make([]byte, w*h*4)
	for i := 0; i < w*h; i++ {
		o := i * 4
		out[o+0] = raw[o+2]
		out[o+1] = raw[o+1]
		out[o+2] = raw[o+0]
		out[o+3] = raw[o+3]
	}
	return out
}

func decodeRGB565(raw []byte, width, height int32) []byte {
	w, h := int(width), int(height)
	out := make([]byte, w*h*4)
	for i := 0; i < w*h; i++ {
		c := uint16(raw[i*2]) | uint16(raw[i*2+1])<<8
		r, g, b := rgbFromRGB565(c)
		o := i * 4
		out[o+0] = r
		out[o+1] = g
		out[o+2] = b
		out[o+3] = 255
	}
	return out
}

func decodeARGB1555(raw []byte, width, height int32) []byte {
	w, h := int(width), int(height)
	out := make([]byte, w*h*4)
	for i := 0; i < w*h; i++ {
		c := uint16(raw[i*2]) | uint16(raw[i*2+1])<<8
		r, g, b, a := rgbaFromARGB1555(c)
		o := i * 4
		out[o+0] = r
		out[o+1] = g
		out[o+2] = b
		out[o+3] = a
	}
	return out
}

// decodeDXT3 decodes a raw DXT3-compressed buffer into RGBA8, walking 4x4
// blocks left-to-right, top-to-bottom.
func decodeDXT3(raw []byte, width, height int32) []byte {
	w, h := int(width), int(height)
	out := make([]byte, w*h*4)
	blocksWide := (w + 3) / 4

	for blockY := 0; blockY*4 < h; blockY++ {
		for blockX := 0; blockX*4 < w; blockX++ {
			blockOffset := (blockY*blocksWide + blockX) * 16
			if blockOffset+16 > len(raw) {
				continue
			}
			block := raw[blockOffset : blockOffset+16]

			alpha := alphaTableDXT3(block)
			c0 := uint16(block[8]) | uint16(block[9])<<8
			c1 := uint16(block[10]) | uint16(block[11])<<8
			colors := colorTable(c0, c1)
			indices := colorIndexTable(block, 12)

			for py := 0; py < 4; py++ {
				y := blockY*4 + py
				if y >= h {
					continue
				}
				for px := 0; px < 4; px++ {
					x := blockX*4 + px
					if x >= w {
						continue
					}
					li := py*4 + px
					col := colors[indices[li]]
					a := alpha[li]
					o := (y*w + x) * 4
					out[o+0] = col.r
					out[o+1] = col.g
					out[o+2] = col.b
					out[o+3] = a
				}
			}
		}
	}
	return out
}

// decodeDXT5 decodes a raw DXT5-compressed buffer into RGBA8.
func decodeDXT5(raw []byte, width, height int32) []byte {
	w, h := int(width), int(height)
	out := make([]byte, w*h*4)
	blocksWide := (w + 3) / 4

	for blockY := 0; blockY*4 < h; blockY++ {
		for blockX := 0; blockX*4 < w; blockX++ {
			blockOffset := (blockY*blocksWide + blockX) * 16
			if blockOffset+16 > len(raw) {
				continue
			}
			block := raw[blockOffset : blockOffset+16]

			a0, a1 := block[0], block[1]
			alphaTable := alphaTableDXT5(a0, a1)
			alphaIndices := alphaIndexTableDXT5(block, 2)

			c0 := uint16(block[8]) | uint16(block[9])<<8
			c1 := uint16(block[10]) | uint16(block[11])<<8
			colors := colorTable(c0, c1)
			indices := colorIndexTable(block, 12)

			for py := 0; py < 4; py++ {
				y := blockY*4 + py
				if y >= h {
					continue
				}
				for px := 0; px < 4; px++ {
					x := blockX*4 + px
					if x >= w {
						continue
					}
					li := py*4 + px
					col := colors[indices[li]]
					a := alphaTable[alphaIndices[li]]
					o := (y*w + x) * 4
					out[o+0] = col.r
					out[o+1] = col.g
					out[o+2] = col.b
					out[o+3] = a
				}
			}
		}
	}
	return out
}

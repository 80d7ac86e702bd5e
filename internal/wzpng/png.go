// Package wzpng decodes the "Canvas" pixel formats embedded in WZ image
// properties into flat RGBA8 buffers.
package wzpng

import (
	"bytes"
	"io"

	"github.com/klauspost/compress/zlib"
	"golang.org/x/xerrors"

	"github.com/ossyrian/wzkit/internal/wzio"
)

// knownZlibHeaders are the handful of two-byte zlib stream headers every
// legitimate canvas payload begins with; anything else means the bytes
// were produced by a tool this reader doesn't understand.
var knownZlibHeaders = map[uint16]bool{
	0x9C78: true,
	0xDA78: true,
	0x0178: true,
	0x5E78: true,
}

// Png is a lazily-decoded canvas: it remembers where its compressed pixel
// data lives in the container and only inflates + reassembles pixels when
// Decode is called.
type Png struct {
	Reader    *wzio.Reader
	Offset    int64
	BlockSize int64
	Width     int32
	Height    int32
	Format1   int32
	Format2   int32
	Header    uint16
}

// New constructs a Png descriptor; no I/O happens until Decode.
func New(r *wzio.Reader, width, height, format1, format2 int32, offset, blockSize int64, header uint16) *Png {
	return &Png{
		Reader:    r,
		Offset:    offset,
		BlockSize: blockSize,
		Width:     width,
		Height:    height,
		Format1:   format1,
		Format2:   format2,
		Header:    header,
	}
}

// Format is the combined pixel format selector used throughout MapleLib.
func (p *Png) Format() int32 { return p.Format1 + p.Format2 }

// usesListWz reports whether the canvas header doesn't match any known
// zlib stream header, meaning its bytes are packaged in a format this
// reader doesn't support (some regional clients ship list.wz-wrapped
// canvases with a different prefix).
func (p *Png) usesListWz() bool {
	return !knownZlibHeaders[p.Header]
}

// Decode inflates and reassembles the canvas into a flat RGBA8 buffer.
func (p *Png) Decode() ([]byte, error) {
	if p.usesListWz() {
		return nil, xerrors.Errorf("wzpng: unsupported canvas header %#x", p.Header)
	}

	raw, err := p.Reader.NewCursor(p.Offset).Bytes(int(p.BlockSize))
	if err != nil {
		return nil, xerrors.Errorf("wzpng: read canvas bytes: %w", err)
	}

	expected, err := p.expectedInflateSize()
	if err != nil {
		return nil, err
	}
	pixels, err := inflate(raw, expected)
	if err != nil {
		return nil, xerrors.Errorf("wzpng: inflate: %w", err)
	}

	switch p.Format() {
	case 1:
		return decodeBGRA4444(pixels, p.Width, p.Height), nil
	case 2:
		return decodeBGRA8888(pixels, p.Width, p.Height), nil
	case 3, 1026:
		return decodeDXT3(pixels, p.Width, p.Height), nil
	case 257:
		return decodeARGB1555(pixels, p.Width, p.Height), nil
	case 513:
		return decodeRGB565(pixels, p.Width, p.Height), nil
	case 517:
		expanded := expandFormat517(pixels, p.Width, p.Height)
		return decodeRGB565(expanded, p.Width, p.Height), nil
	case 2050:
		return decodeDXT5(pixels, p.Width, p.Height), nil
	default:
		return nil, xerrors.Errorf("wzpng: unknown pixel format %d", p.Format())
	}
}

func (p *Png) expectedInflateSize() (int, error) {
	w, h := int(p.Width), int(p.Height)
	switch p.Format() {
	case 1, 257, 513:
		return w * h * 2, nil
	case 2, 3:
		return w * h * 4, nil
	case 1026, 2050:
		return w * h, nil
	case 517:
		// 128 = 16*16/2: format 517 stores one compressed 2-byte RGB565
		// sample per 16x16 block of the expanded image.
		return w * h / 128, nil
	default:
		return 0, xerrors.Errorf("wzpng: unknown pixel format %d", p.Format())
	}
}

func inflate(data []byte, expectedSize int) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	out := make([]byte, 0, expectedSize)
	buf := bytes.NewBuffer(out)
	if _, err := io.Copy(buf, zr); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// expandFormat517 replicates the compressed 16x16 block into a full-size
// RGB565 buffer. Each row of 16 pixels within a block is a verbatim copy
// of the block's single decoded row — not re-derived per source row —
// and the replication loop runs for rows 1..15 (not 0..15), matching the
// upstream implementation exactly.
func expandFormat517(raw []byte, width, height int32) []byte {
	pixels := make([]byte, int(width)*int(height)*2)
	lineIndex := 0
	jSteps := int(height) / 16
	iSteps := int(width) / 16

	for j := 0; j < jSteps; j++ {
		dst := lineIndex
		for i := 0; i < iSteps; i++ {
			idx := (i + j*iSteps) * 2
			for n := 0; n < 16; n++ {
				pixels[dst] = raw[idx]
				dst++
				pixels[dst] = raw[idx+1]
				dst++
			}
		}

		for n := 1; n < 16; n++ {
			copyLen := int(width) * 2
			copy(pixels[dst:dst+copyLen], pixels[lineIndex:lineIndex+copyLen])
			dst += copyLen
		}

		lineIndex += int(width) * 32
	}

	return pixels
}

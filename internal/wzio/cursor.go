package wzio

import (
	"encoding/binary"
	"math"

	"golang.org/x/xerrors"
)

// Cursor is a sequential reader over a Reader's backing file, tracking its
// own position the way a directory/property/MS-entry parser walks forward
// through a block without needing to thread an offset through every call.
type Cursor struct {
	r   *Reader
	pos int64
}

// NewCursor returns a Cursor positioned at off.
func (r *Reader) NewCursor(off int64) *Cursor {
	return &Cursor{r: r, pos: off}
}

// Pos returns the cursor's current absolute file position.
func (c *Cursor) Pos() int64 { return c.pos }

// Seek repositions the cursor absolutely.
func (c *Cursor) Seek(pos int64) { c.pos = pos }

// Skip advances the cursor by n bytes without reading them.
func (c *Cursor) Skip(n int64) { c.pos += n }

// Reader returns the underlying Reader.
func (c *Cursor) Reader() *Reader { return c.r }

func (c *Cursor) read(p []byte) error {
	if err := c.r.ReadAt(p, c.pos); err != nil {
		return err
	}
	c.pos += int64(len(p))
	return nil
}

// U8 reads one byte.
func (c *Cursor) U8() (byte, error) {
	var b [1]byte
	if err := c.read(b[:]); err != nil {
		return 0, err
	}
	return b[0], nil
}

// U16 reads a little-endian uint16.
func (c *Cursor) U16() (uint16, error) {
	var b [2]byte
	if err := c.read(b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b[:]), nil
}

// I16 reads a little-endian int16.
func (c *Cursor) I16() (int16, error) {
	var b [2]byte
	if err := c.read(b[:]); err != nil {
		return 0, err
	}
	return int16(binary.LittleEndian.Uint16(b[:])), nil
}

// I32 reads a little-endian int32.
func (c *Cursor) I32() (int32, error) {
	var b [4]byte
	if err := c.read(b[:]); err != nil {
		return 0, err
	}
	return int32(binary.LittleEndian.Uint32(b[:])), nil
}

// U32 reads a little-endian uint32.
func (c *Cursor) U32() (uint32, error) {
	var b [4]byte
	if err := c.read(b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b[:]), nil
}

// I64 reads a little-endian int64.
func (c *Cursor) I64() (int64, error) {
	var b [8]byte
	if err := c.read(b[:]); err != nil {
		return 0, err
	}
	return int64(binary.LittleEndian.Uint64(b[:])), nil
}

// F32 reads a little-endian IEEE-754 single.
func (c *Cursor) F32() (float32, error) {
	u, err := c.U32()
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(u), nil
}

// F64 reads a little-endian IEEE-754 double.
func (c *Cursor) F64() (float64, error) {
	var b [8]byte
	if err := c.read(b[:]); err != nil {
		return 0, err
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(b[:])), nil
}

// Bytes reads n raw bytes.
func (c *Cursor) Bytes(n int) ([]byte, error) {
	buf := make([]byte, n)
	if err := c.read(buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// WzInt reads a variable-width signed 32-bit integer: a leading i8 value
// in [-127,127] is the value itself; i8::MIN (-128) escapes to a literal
// little-endian int32 that follows.
func (c *Cursor) WzInt() (int32, error) {
	b, err := c.U8()
	if err != nil {
		return 0, err
	}
	flag := int8(b)
	if flag == -128 {
		return c.I32()
	}
	return int32(flag), nil
}

// WzLong reads a variable-width signed 64-bit integer with the same
// i8::MIN escape as WzInt, but the escaped form is a full little-endian
// int64.
func (c *Cursor) WzLong() (int64, error) {
	b, err := c.U8()
	if err != nil {
		return 0, err
	}
	flag := int8(b)
	if flag == -128 {
		return c.I64()
	}
	return int64(flag), nil
}

// WzOffset reads an encoded 4-byte offset and decrypts it against the
// reader's version hash and content-start offset, per wzcrypto.DecryptOffset.
func (c *Cursor) WzOffset() (uint32, error) {
	pos := uint32(c.pos)
	enc, err := c.U32()
	if err != nil {
		return 0, err
	}
	if c.r.versionHash == 0 && c.r.fstart == 0 {
		return 0, xerrors.New("wzio: reader has no version configured")
	}
	return wzDecryptOffset(c.r, pos, enc), nil
}

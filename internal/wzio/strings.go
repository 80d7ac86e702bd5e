package wzio

import "github.com/ossyrian/wzkit/internal/wzcrypto"

// StringMeta is a lazily-resolved string reference: the bytes backing the
// string are only decrypted and decoded when Resolve is called, so walking
// a directory listing never pays for strings nobody reads.
type StringMeta struct {
	r      *Reader
	offset int64
	length uint32
	kind   stringKind
}

type stringKind int

const (
	stringEmpty stringKind = iota
	stringASCII
	stringUnicode
)

func emptyMeta() StringMeta { return StringMeta{kind: stringEmpty} }

// Resolve decrypts and decodes the string, applying the keystream XOR and
// the incrementing 0xAA/0xAAAA mask in that order, matching the encode
// direction used when the container was built.
func (m StringMeta) Resolve() (string, error) {
	switch m.kind {
	case stringEmpty:
		return "", nil
	case stringASCII:
		raw, err := m.r.readRange(m.offset, int(m.length))
		if err != nil {
			return "", err
		}
		out := make([]byte, len(raw))
		for i, b := range raw {
			if m.r.keystream != nil {
				b ^= m.r.keystream.ByteAt(i)
			}
			out[i] = b ^ byte(0xAA+i)
		}
		return string(out), nil
	case stringUnicode:
		n := int(m.length) / 2
		raw, err := m.r.readRange(m.offset, int(m.length))
		if err != nil {
			return "", err
		}
		units := make([]uint16, n)
		for i := 0; i < n; i++ {
			c := uint16(raw[i*2]) | uint16(raw[i*2+1])<<8
			if m.r.keystream != nil {
				kb0 := m.r.keystream.ByteAt(i * 2)
				kb1 := m.r.keystream.ByteAt(i*2 + 1)
				c ^= uint16(kb0) | uint16(kb1)<<8
			}
			units[i] = c ^ uint16(0xAAAA+i)
		}
		return wzcrypto.DecodeUTF16(units), nil
	default:
		return "", nil
	}
}

func (r *Reader) readRange(off int64, n int) ([]byte, error) {
	buf := make([]byte, n)
	if n == 0 {
		return buf, nil
	}
	if err := r.ReadAt(buf, off); err != nil {
		return nil, err
	}
	return buf, nil
}

// WzStringMeta reads an i8-tagged string header without decoding its
// bytes: positive length means unicode, negative (or i8::MIN escaping to
// a full int32 length) means ASCII, zero means empty.
func (c *Cursor) WzStringMeta() (StringMeta, error) {
	small, err := c.U8()
	if err != nil {
		return StringMeta{}, err
	}
	sl := int8(small)
	switch {
	case sl == 0:
		return emptyMeta(), nil
	case sl > 0:
		var length uint32
		if sl == 127 {
			l, err := c.I32()
			if err != nil {
				return StringMeta{}, err
			}
			length = uint32(l) * 2
		} else {
			length = uint32(sl) * 2
		}
		m := StringMeta{r: c.r, offset: c.pos, length: length, kind: stringUnicode}
		c.Skip(int64(length))
		return m, nil
	default:
		var length uint32
		if sl == -128 {
			l, err := c.I32()
			if err != nil {
				return StringMeta{}, err
			}
			length = uint32(l)
		} else {
			length = uint32(-sl)
		}
		m := StringMeta{r: c.r, offset: c.pos, length: length, kind: stringASCII}
		c.Skip(int64(length))
		return m, nil
	}
}

// WzStringMetaAt reads a WzStringMeta at an absolute offset without
// disturbing the cursor's current position.
func (r *Reader) WzStringMetaAt(offset int64) (StringMeta, error) {
	cur := r.NewCursor(offset)
	return cur.WzStringMeta()
}

// WzString reads and immediately resolves an inline i8-tagged string.
func (c *Cursor) WzString() (string, error) {
	m, err := c.WzStringMeta()
	if err != nil {
		return "", err
	}
	return m.Resolve()
}

// WzStringAt reads and resolves an inline string at an absolute offset.
func (r *Reader) WzStringAt(offset int64) (string, error) {
	return r.NewCursor(offset).WzString()
}

// WzStringBlockMeta reads the directory/property "string block" encoding:
// tag 0 or 0x73 means the string follows inline; tag 1 or 0x1B means an
// int32 relative offset follows, pointing (relative to imgOffset) at a
// previously-written string to deduplicate against; any other tag yields
// an empty string.
func (c *Cursor) WzStringBlockMeta(imgOffset int64) (StringMeta, error) {
	tag, err := c.U8()
	if err != nil {
		return StringMeta{}, err
	}
	switch tag {
	case 0, 0x73:
		return c.WzStringMeta()
	case 1, 0x1B:
		rel, err := c.I32()
		if err != nil {
			return StringMeta{}, err
		}
		return c.r.WzStringMetaAt(imgOffset + int64(rel))
	default:
		return emptyMeta(), nil
	}
}

// WzStringBlock reads and resolves a string-block-encoded string.
func (c *Cursor) WzStringBlock(imgOffset int64) (string, error) {
	m, err := c.WzStringBlockMeta(imgOffset)
	if err != nil {
		return "", err
	}
	return m.Resolve()
}

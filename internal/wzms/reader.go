package wzms

import "golang.org/x/xerrors"

// snow2Reader streams SNOW2-decrypted bytes out of an encrypted buffer
// four bytes at a time, carrying any unconsumed trailing bytes of the
// last decrypted word across calls — ported from snow2_reader.rs's
// buffer/buffer_len fields, needed because MS entry names are an odd
// UTF-16 byte count and every subsequent field must stay word-aligned
// against the underlying cipher stream regardless.
type snow2Reader struct {
	data   []byte
	offset int
	cipher *Snow2
	buf    [4]byte
	bufLen int
}

func newSnow2Reader(data []byte, key [16]byte) *snow2Reader {
	return &snow2Reader{data: data, cipher: NewSnow2(key, [16]byte{})}
}

func (r *snow2Reader) nextWord() (uint32, error) {
	if r.offset+4 > len(r.data) {
		return 0, xerrors.New("wzms: snow2 reader past end of buffer")
	}
	ct := uint32(r.data[r.offset]) | uint32(r.data[r.offset+1])<<8 |
		uint32(r.data[r.offset+2])<<16 | uint32(r.data[r.offset+3])<<24
	r.offset += 4
	return r.cipher.DecryptWord(ct), nil
}

func (r *snow2Reader) readBytes(n int) ([]byte, error) {
	out := make([]byte, n)
	if err := r.writeBytesTo(out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *snow2Reader) writeBytesTo(dest []byte) error {
	n := len(dest)
	written := 0

	if r.bufLen > 0 {
		take := r.bufLen
		if n < take {
			take = n
		}
		copy(dest[:take], r.buf[:take])
		copy(r.buf[:r.bufLen-take], r.buf[take:r.bufLen])
		r.bufLen -= take
		written = take
		if written == n {
			return nil
		}
	}

	for written+4 <= n {
		w, err := r.nextWord()
		if err != nil {
			return err
		}
		dest[written] = byte(w)
		dest[written+1] = byte(w >> 8)
		dest[written+2] = byte(w >> 16)
		dest[written+3] = byte(w >> 24)
		written += 4
	}

	if remaining := n - written; remaining > 0 {
		w, err := r.nextWord()
		if err != nil {
			return err
		}
		var wb [4]byte
		wb[0], wb[1], wb[2], wb[3] = byte(w), byte(w>>8), byte(w>>16), byte(w>>24)
		copy(dest[written:], wb[:remaining])
		r.bufLen = 4 - remaining
		copy(r.buf[:r.bufLen], wb[remaining:])
	}

	return nil
}

func (r *snow2Reader) readI32() (int32, error) {
	b, err := r.readBytes(4)
	if err != nil {
		return 0, err
	}
	return int32(uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24), nil
}

func (r *snow2Reader) readUTF16String(byteLen int) (string, error) {
	b, err := r.readBytes(byteLen)
	if err != nil {
		return "", err
	}
	units := make([]uint16, byteLen/2)
	for i := range units {
		units[i] = uint16(b[i*2]) | uint16(b[i*2+1])<<8
	}
	return decodeUTF16(units), nil
}

// decodeUTF16 is intentionally separate from wzcrypto.DecodeUTF16: that
// one assumes WZ strings never contain surrogate pairs, but MS entry
// names round-trip arbitrary game asset filenames and do need pairing.
func decodeUTF16(units []uint16) string {
	runes := make([]rune, 0, len(units))
	for i := 0; i < len(units); i++ {
		u := units[i]
		if u >= 0xD800 && u <= 0xDBFF && i+1 < len(units) && units[i+1] >= 0xDC00 && units[i+1] <= 0xDFFF {
			r := (rune(u-0xD800)<<10 | rune(units[i+1]-0xDC00)) + 0x10000
			runes = append(runes, r)
			i++
			continue
		}
		runes = append(runes, rune(u))
	}
	return string(runes)
}

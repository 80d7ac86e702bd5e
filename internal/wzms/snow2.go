package wzms

// Snow2 implements the SNOW 2.0 stream cipher used to decrypt MS
// container headers, entry tables, and image payloads. Not present
// anywhere in the retrieved corpus — only the 4-byte-at-a-time reader
// wrapper around it was (ms/snow2_reader.rs) — so this is hand-built from
// the public SNOW 2.0 specification (Ekdahl & Johansson), structured to
// match that wrapper's "decrypt one 32-bit word at a time" consumption
// pattern.
type Snow2 struct {
	s      [16]uint32 // LFSR
	r1, r2 uint32      // FSM registers
}

// gfReduction is the low byte of SNOW 2.0's GF(2^8) reduction polynomial
// (x^8+x^7+x^5+x^3+1 truncated to its low 8 bits); mulX folds the high bit
// of a byte back in through this constant when doubling in the field.
const gfReduction = 0xa9

func mulX(v byte, c byte) uint32 {
	if v&0x80 != 0 {
		return uint32(v<<1) ^ uint32(c)
	}
	return uint32(v << 1)
}

func mulXPow(v byte, i int, c byte) uint32 {
	for ; i > 0; i-- {
		v = byte(mulX(v, c))
	}
	return uint32(v)
}

func makeU32(a, b, c, d uint32) uint32 {
	return a<<24 | b<<16 | c<<8 | d
}

// mulAlpha and divAlpha are alpha and alpha^-1 multiplication over
// GF(2^32), expressed through four GF(2^8) multiplications of a single
// byte — the representation SNOW 2.0's field isomorphism reduces word
// multiplication to.
func mulAlpha(c byte) uint32 {
	return makeU32(
		mulXPow(c, 23, gfReduction),
		mulXPow(c, 245, gfReduction),
		mulXPow(c, 48, gfReduction),
		mulXPow(c, 239, gfReduction),
	)
}

func divAlpha(c byte) uint32 {
	return makeU32(
		mulXPow(c, 16, gfReduction),
		mulXPow(c, 39, gfReduction),
		mulXPow(c, 6, gfReduction),
		mulXPow(c, 64, gfReduction),
	)
}

var mulAlphaTable, divAlphaTable [256]uint32

func init() {
	for i := 0; i < 256; i++ {
		mulAlphaTable[i] = mulAlpha(byte(i))
		divAlphaTable[i] = divAlpha(byte(i))
	}
}

// lfsrFeedback computes the next feedback word from the current s0/s2/s11.
// During key loading the caller XORs the FSM output into the result before
// shifting it in.
func (c *Snow2) lfsrFeedback() uint32 {
	s0, s2, s11 := c.s[0], c.s[2], c.s[11]
	return (s0 << 8) ^ mulAlphaTable[byte(s0>>24)] ^ s2 ^ (s11 >> 8) ^ divAlphaTable[byte(s11)]
}

func (c *Snow2) shift(newS15 uint32) {
	for i := 0; i < 15; i++ {
		c.s[i] = c.s[i+1]
	}
	c.s[15] = newS15
}

// fsmOutput computes F_t from the FSM's current state and the LFSR's s15,
// without advancing either.
func (c *Snow2) fsmOutput() uint32 {
	return (c.s[15] + c.r1) ^ c.r2
}

// advanceFSM updates R1/R2 using the pre-update R1/R2 and the LFSR's s5,
// matching SNOW 2.0's FSM recurrence.
func (c *Snow2) advanceFSM() {
	r1, r2 := c.r1, c.r2
	c.r1 = c.s[5] + r2
	c.r2 = sboxWord(r1)
}

// NewSnow2 initializes SNOW 2.0 with a 128-bit key and a 128-bit IV
// (zero-extended when shorter, as the MS header/entry derivations here
// only ever produce a 16-byte key and use an all-zero IV).
func NewSnow2(key [16]byte, iv [16]byte) *Snow2 {
	k := [4]uint32{
		beU32(key[0:4]),
		beU32(key[4:8]),
		beU32(key[8:12]),
		beU32(key[12:16]),
	}
	ivw := [4]uint32{
		beU32(iv[0:4]),
		beU32(iv[4:8]),
		beU32(iv[8:12]),
		beU32(iv[12:16]),
	}

	c := &Snow2{}
	c.s[15] = k[3] ^ ivw[0]
	c.s[14] = k[2]
	c.s[13] = k[1] ^ ivw[1]
	c.s[12] = k[0]
	c.s[11] = k[3] ^ 0xffffffff
	c.s[10] = k[2] ^ 0xffffffff ^ ivw[2]
	c.s[9] = k[1] ^ 0xffffffff
	c.s[8] = k[0] ^ 0xffffffff ^ ivw[3]
	c.s[7] = k[3]
	c.s[6] = k[2]
	c.s[5] = k[1]
	c.s[4] = k[0]
	c.s[3] = k[3] ^ 0xffffffff
	c.s[2] = k[2] ^ 0xffffffff
	c.s[1] = k[1] ^ 0xffffffff
	c.s[0] = k[0] ^ 0xffffffff
	c.r1, c.r2 = 0, 0

	for i := 0; i < 32; i++ {
		f := c.fsmOutput()
		c.advanceFSM()
		c.shift(c.lfsrFeedback() ^ f)
	}

	return c
}

func beU32(b []byte) uint32 {
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}

// NextKeystreamWord produces one 32-bit keystream word and advances the
// cipher state.
func (c *Snow2) NextKeystreamWord() uint32 {
	f := c.fsmOutput()
	z := f ^ c.s[0]
	c.advanceFSM()
	c.shift(c.lfsrFeedback())
	return z
}

// DecryptWord decrypts (equivalently encrypts) one little-endian 32-bit
// word, matching snow2_reader.rs's word-at-a-time consumption.
func (c *Snow2) DecryptWord(ciphertext uint32) uint32 {
	return ciphertext ^ leWordSwap(c.NextKeystreamWord())
}

// leWordSwap reinterprets a keystream word (produced big-endian internally
// per the field representation above) as the little-endian word the MS
// container's word-oriented reader expects to XOR against.
func leWordSwap(w uint32) uint32 {
	return uint32(byte(w>>24)) | uint32(byte(w>>16))<<8 | uint32(byte(w>>8))<<16 | uint32(byte(w))<<24
}

// DecryptSlice decrypts data in place, 4 bytes at a time; a trailing
// partial word is decrypted against a stream word but only its covered
// bytes are written, matching the reference's 4-byte granularity.
func (c *Snow2) DecryptSlice(data []byte) {
	for off := 0; off+4 <= len(data); off += 4 {
		ct := uint32(data[off]) | uint32(data[off+1])<<8 | uint32(data[off+2])<<16 | uint32(data[off+3])<<24
		pt := c.DecryptWord(ct)
		data[off] = byte(pt)
		data[off+1] = byte(pt >> 8)
		data[off+2] = byte(pt >> 16)
		data[off+3] = byte(pt >> 24)
	}
	if rem := len(data) % 4; rem != 0 {
		off := len(data) - rem
		var buf [4]byte
		copy(buf[:], data[off:])
		ct := uint32(buf[0]) | uint32(buf[1])<<8 | uint32(buf[2])<<16 | uint32(buf[3])<<24
		pt := c.DecryptWord(ct)
		buf[0] = byte(pt)
		buf[1] = byte(pt >> 8)
		buf[2] = byte(pt >> 16)
		buf[3] = byte(pt >> 24)
		copy(data[off:], buf[:rem])
	}
}

// Package wzcrypto derives the AES-256-ECB keystream used to mask WZ
// strings and offsets, plus the version-hash helpers used during header
// probing.
package wzcrypto

import (
	"crypto/aes"
	"sync"

	"golang.org/x/xerrors"
)

// batchSize bounds how much keystream we materialize per expansion, so that
// probing a handful of strings never forces a multi-megabyte allocation.
const batchSize = 4096

// userKey is the 128-byte AES seed baked into every MapleStory client build;
// every real WZ archive is keyed off a 32-byte trim of it.
var userKey = [128]byte{
	0x13, 0x00, 0x00, 0x00, 0x52, 0x00, 0x00, 0x00, 0x2A, 0x00, 0x00, 0x00, 0x5B, 0x00, 0x00, 0x00,
	0x08, 0x00, 0x00, 0x00, 0x02, 0x00, 0x00, 0x00, 0x10, 0x00, 0x00, 0x00, 0x60, 0x00, 0x00, 0x00,
	0x06, 0x00, 0x00, 0x00, 0x02, 0x00, 0x00, 0x00, 0x43, 0x00, 0x00, 0x00, 0x0F, 0x00, 0x00, 0x00,
	0xB4, 0x00, 0x00, 0x00, 0x4B, 0x00, 0x00, 0x00, 0x35, 0x00, 0x00, 0x00, 0x05, 0x00, 0x00, 0x00,
	0x1B, 0x00, 0x00, 0x00, 0x0A, 0x00, 0x00, 0x00, 0x5F, 0x00, 0x00, 0x00, 0x09, 0x00, 0x00, 0x00,
	0x0F, 0x00, 0x00, 0x00, 0x50, 0x00, 0x00, 0x00, 0x0C, 0x00, 0x00, 0x00, 0x1B, 0x00, 0x00, 0x00,
	0x33, 0x00, 0x00, 0x00, 0x55, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x09, 0x00, 0x00, 0x00,
	0x52, 0x00, 0x00, 0x00, 0xDE, 0x00, 0x00, 0x00, 0xC7, 0x00, 0x00, 0x00, 0x1E, 0x00, 0x00, 0x00,
}

// OffsetConstant is subtracted out of every encoded offset before the
// rotate/XOR step; it never varies across regions or versions.
const OffsetConstant = 0x581C3F6D

// IV is one of the four-byte region initialization vectors (GMS, EMS, BMS,
// ...) that seeds a Keystream.
type IV [4]byte

var (
	IVGMS     = IV{0x4D, 0x23, 0xC7, 0x2B}
	IVEMS     = IV{0xB9, 0x7D, 0x63, 0xE9}
	IVKMS     = IV{0xB9, 0x7D, 0x63, 0xE9}
	IVClassic = IV{0x00, 0x00, 0x00, 0x00}
)

// KnownIVs lists the region IVs wzfile.GuessIV tries, in order.
var KnownIVs = []struct {
	Name string
	IV   IV
}{
	{"GMS", IVGMS},
	{"KMS/EMS", IVEMS},
	{"BMS/Classic", IVClassic},
}

// Keystream lazily expands the AES-256-ECB block chain that masks WZ string
// and offset bytes. Expansion is grown in batchSize chunks and is safe for
// concurrent use by multiple readers of the same container.
type Keystream struct {
	mu     sync.RWMutex
	iv     IV
	aesKey [32]byte
	data   []byte
	zero   bool
}

// NewKeystream derives the trimmed AES key from iv and returns a Keystream
// ready to be expanded on first use.
func NewKeystream(iv IV) *Keystream {
	var aesKey [32]byte
	for i := 0; i < 128; i += 16 {
		aesKey[i/4] = userKey[i]
	}
	return &Keystream{
		iv:     iv,
		aesKey: aesKey,
		zero:   iv == IV{0, 0, 0, 0},
	}
}

// ByteAt returns the keystream byte at index, expanding the stream if
// necessary.
func (k *Keystream) ByteAt(index int) byte {
	k.mu.RLock()
	if index < len(k.data) {
		b := k.data[index]
		k.mu.RUnlock()
		return b
	}
	k.mu.RUnlock()
	k.expandTo(index + 1)
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.data[index]
}

// Slice returns a copy of the keystream bytes [off, off+n), expanding as
// needed.
func (k *Keystream) Slice(off, n int) []byte {
	k.expandTo(off + n)
	k.mu.RLock()
	defer k.mu.RUnlock()
	out := make([]byte, n)
	copy(out, k.data[off:off+n])
	return out
}

func (k *Keystream) expandTo(size int) {
	k.mu.Lock()
	defer k.mu.Unlock()
	if len(k.data) >= size {
		return
	}
	if k.zero {
		grown := make([]byte, size)
		copy(grown, k.data)
		k.data = grown
		return
	}

	newSize := ((size + batchSize - 1) / batchSize) * batchSize
	newData := make([]byte, newSize)
	start := copy(newData, k.data)

	block, err := aes.NewCipher(k.aesKey[:])
	if err != nil {
		// A 32-byte key is always a valid AES-256 key; this cannot fail.
		panic(xerrors.Errorf("wzcrypto: aes.NewCipher: %w", err))
	}

	input := make([]byte, 16)
	output := make([]byte, 16)
	for i := start; i < newSize; i += 16 {
		if i == 0 {
			for j := 0; j < 16; j++ {
				input[j] = k.iv[j%4]
			}
		} else {
			copy(input, newData[i-16:i])
		}
		block.Encrypt(output, input)
		copy(newData[i:], output)
	}
	k.data = newData
}

// DecodeUTF16 converts UTF-16LE code units (no surrogate pairs expected in
// WZ strings) into a Go string.
func DecodeUTF16(units []uint16) string {
	rs := make([]rune, len(units))
	for i, u := range units {
		rs[i] = rune(u)
	}
	return string(rs)
}

func rotateLeft(x uint32, n uint32) uint32 {
	n &= 0x1F
	return (x << n) | (x >> (32 - n))
}

// DecryptOffset reverses the position-dependent encoding applied to every
// stored wz-offset: XOR with 0xFFFFFFFF, multiply by the version hash,
// subtract OffsetConstant, rotate left by the low 5 bits of the result,
// XOR with the encoded value read from the file, then add bodyOffset*2.
func DecryptOffset(currentPos, bodyOffset, versionHash, encoded uint32) uint32 {
	x := (currentPos - bodyOffset) ^ 0xFFFFFFFF
	x *= versionHash
	x -= OffsetConstant
	x = rotateLeft(x, x&0x1F)
	x ^= encoded
	x += bodyOffset * 2
	return x
}

// VersionHash computes the classic `hash = hash*32 + ascii + 1` rolling
// hash used both to key offset decryption and to validate a version guess
// against the header's obfuscated hash byte.
func VersionHash(version string) uint32 {
	var hash uint32
	for _, ch := range version {
		hash = hash*32 + uint32(ch) + 1
	}
	return hash
}

// ObfuscateVersionHash folds a 32-bit version hash down to the single
// obfuscated byte stored (widened to uint16) in an old-format WZ header.
func ObfuscateVersionHash(hash uint32) uint16 {
	b0 := byte(hash)
	b1 := byte(hash >> 8)
	b2 := byte(hash >> 16)
	b3 := byte(hash >> 24)
	return uint16(^(b0 ^ b1 ^ b2 ^ b3)) & 0xFF
}

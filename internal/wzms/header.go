// Package wzms implements the "MS" container variant: a SNOW2-encrypted
// header and entry table wrapping a set of SNOW2-then-SNOW2-again
// encrypted image payloads, each keyed by a per-entry FNV-1a-derived key
// rather than the IV-based keystream the plain WZ format uses.
package wzms

import (
	"path/filepath"
	"strings"

	"golang.org/x/xerrors"
)

const expectedSnowVersion = 2

// Header holds the metadata MsHeader.from_ms_file recovers before any
// entry can be read: the salt used to derive every subsequent SNOW2 key,
// and the file offsets the entry table and image data begin at.
type Header struct {
	KeySalt      string
	NameWithSalt string
	Version      byte
	EntryCount   int32

	HStart int64
	EStart int64
}

// ParseHeader reads the MS container header out of data (the whole file,
// read as plain bytes — the header itself is what tells us where the
// SNOW2-encrypted region begins).
func ParseHeader(fileName string, data []byte) (Header, error) {
	name := strings.ToLower(filepath.Base(fileName))

	sum := 0
	for _, b := range []byte(name) {
		sum += int(b)
	}
	randByteCount := sum%312 + 30
	if randByteCount > len(data) {
		return Header{}, xerrors.New("wzms: file too short for header random bytes")
	}
	randBytes := data[:randByteCount]
	offset := randByteCount

	if offset+4 > len(data) {
		return Header{}, xerrors.New("wzms: file too short for salt length byte")
	}
	hashedSaltLen := data[offset]
	offset += 4 // +1 for the byte itself, skip 3 padding bytes

	saltLen := int(hashedSaltLen ^ randBytes[0])
	saltByteLen := saltLen * 2
	if offset+saltByteLen > len(data) {
		return Header{}, xerrors.New("wzms: file too short for salt bytes")
	}
	saltBytes := data[offset : offset+saltByteLen]
	offset += saltByteLen

	saltChars := make([]byte, saltLen)
	for i := 0; i < saltLen; i++ {
		saltChars[i] = randBytes[i] ^ saltBytes[i*2]
	}
	saltString := string(saltChars)

	nameWithSalt := name + saltString
	nameWithSaltBytes := []byte(nameWithSalt)

	var snowKey [16]byte
	for i := 0; i < 16; i++ {
		snowKey[i] = nameWithSaltBytes[i%len(nameWithSaltBytes)] + byte(i)
	}

	hstart := offset
	if hstart+12 > len(data) {
		return Header{}, xerrors.New("wzms: file too short for header block")
	}
	headerBytes := append([]byte(nil), data[hstart:hstart+12]...)
	cipher := NewSnow2(snowKey, [16]byte{})
	for i := 0; i < 12; i += 4 {
		w := uint32(headerBytes[i]) | uint32(headerBytes[i+1])<<8 | uint32(headerBytes[i+2])<<16 | uint32(headerBytes[i+3])<<24
		pt := cipher.DecryptWord(w)
		headerBytes[i] = byte(pt)
		headerBytes[i+1] = byte(pt >> 8)
		headerBytes[i+2] = byte(pt >> 16)
		headerBytes[i+3] = byte(pt >> 24)
	}

	hash := int32(uint32(headerBytes[0]) | uint32(headerBytes[1])<<8 | uint32(headerBytes[2])<<16 | uint32(headerBytes[3])<<24)
	version := headerBytes[4]
	entryCount := int32(uint32(headerBytes[5]) | uint32(headerBytes[6])<<8 | uint32(headerBytes[7])<<16 | uint32(headerBytes[8])<<24)

	if version != expectedSnowVersion {
		return Header{}, xerrors.Errorf("wzms: unsupported snow version, expected %d but got %d", expectedSnowVersion, version)
	}

	sumOfSaltBytes := int32(0)
	for i := 0; i+1 < len(saltBytes); i += 2 {
		sumOfSaltBytes += int32(uint16(saltBytes[i]) | uint16(saltBytes[i+1])<<8)
	}

	actualHash := int32(hashedSaltLen) + int32(version) + entryCount + sumOfSaltBytes
	if hash != actualHash {
		return Header{}, xerrors.Errorf("wzms: header hash mismatch, expected %d but got %d", hash, actualHash)
	}

	nameSum := 0
	for _, b := range []byte(name) {
		nameSum += int(b) * 3
	}
	estart := hstart + 9 + nameSum%212 + 33

	return Header{
		KeySalt:      saltString,
		NameWithSalt: nameWithSalt,
		Version:      version,
		EntryCount:   entryCount,
		HStart:       int64(hstart),
		EStart:       int64(estart),
	}, nil
}

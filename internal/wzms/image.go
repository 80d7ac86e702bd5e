package wzms

import (
	"fmt"

	"golang.org/x/xerrors"

	"github.com/ossyrian/wzkit/internal/wzio"
)

const (
	fnvOffsetBasis32 = 0x811c9dc5
	fnvPrime32       = 0x1000193
)

// DecryptedImage is one MS entry after its payload has been decrypted:
// a fresh in-memory Reader over exactly Size bytes (the aligned padding
// entry.SizeAligned carries beyond that is never exposed further).
type DecryptedImage struct {
	Entry  Entry
	Reader *wzio.Reader
}

// ReadEntry decrypts one entry's payload out of f and returns a Reader
// over it, keyed per-entry by an FNV-1a digest of the container's salt
// mixed with the entry's own name and entry-table key bytes — distinct
// from the header/entry-table SNOW2 key, so each image can be decrypted
// independently of the others.
func ReadEntry(f *File, e Entry) (*DecryptedImage, error) {
	start := e.Offset
	end := start + int64(e.SizeAligned)
	if start < 0 || end > int64(len(f.data)) {
		return nil, xerrors.Errorf("wzms: entry %q offset/size out of range", e.Name)
	}

	imgKey := deriveImageKey(e)

	buf := append([]byte(nil), f.data[start:end]...)

	firstLen := len(buf)
	if firstLen > 1024 {
		firstLen = 1024
	}
	NewSnow2(imgKey, [16]byte{}).DecryptSlice(buf[:firstLen])
	NewSnow2(imgKey, [16]byte{}).DecryptSlice(buf)

	if int(e.Size) > len(buf) {
		return nil, xerrors.Errorf("wzms: entry %q size %d exceeds decrypted buffer %d", e.Name, e.Size, len(buf))
	}

	return &DecryptedImage{
		Entry:  e,
		Reader: wzio.FromBytes(buf[:e.Size]),
	}, nil
}

// deriveImageKey mixes the container's key salt (via an FNV-1a digest,
// used the way the container's author originally used it: split into
// decimal digits and indexed into, not as raw hash bytes) with the
// entry's name and its 16-byte entry_key to produce a 16-byte SNOW2 key
// unique to this image.
func deriveImageKey(e Entry) [16]byte {
	keyHash := uint32(fnvOffsetBasis32)
	for _, r := range e.KeySalt {
		keyHash = (keyHash ^ uint32(r)) * fnvPrime32
	}

	digitsStr := fmt.Sprintf("%d", keyHash)
	digits := make([]byte, len(digitsStr))
	for i := 0; i < len(digitsStr); i++ {
		digits[i] = digitsStr[i] - '0'
	}

	nameRunes := []rune(e.Name)

	var imgKey [16]byte
	for i := 0; i < 16; i++ {
		char := byte(nameRunes[i%len(nameRunes)])
		digit := digits[i%len(digits)] % 2
		ekeyIndex := (digits[(i+2)%len(digits)] + byte(i)) % byte(len(e.EntryKey))
		ekey := e.EntryKey[ekeyIndex]
		digit2 := (digits[(i+1)%len(digits)] + byte(i)) % 5

		imgKey[i] = byte(i) + char*(digit+ekey+digit2)
	}

	return imgKey
}

package wzdir

import (
	"encoding/binary"
	"testing"

	"github.com/ossyrian/wzkit/internal/wzcrypto"
	"github.com/ossyrian/wzkit/internal/wzio"
)

func TestFirstImageBreadthFirst(t *testing.T) {
	entries := []Entry{
		{
			Name: "sub",
			Kind: KindDirectory,
			Children: []Entry{
				{Name: "deep.img", Kind: KindImage},
			},
		},
		{Name: "shallow.img", Kind: KindImage},
	}

	got, ok := FirstImage(entries)
	if !ok {
		t.Fatal("FirstImage found nothing")
	}
	// breadth-first: top-level entries are queued before any entry's
	// children, so the top-level image wins even though it's declared
	// after the directory holding a deeper one.
	if got.Name != "shallow.img" {
		t.Errorf("FirstImage() = %q, want %q", got.Name, "shallow.img")
	}
}

func TestFirstImageNone(t *testing.T) {
	entries := []Entry{
		{Name: "a", Kind: KindDirectory},
		{Name: "b", Kind: KindDirectory},
	}
	if _, ok := FirstImage(entries); ok {
		t.Error("FirstImage on an all-directory tree should report !ok")
	}
}

func asciiWzString(s string) []byte {
	out := make([]byte, 1+len(s))
	out[0] = byte(int8(-int8(len(s))))
	for i := 0; i < len(s); i++ {
		out[1+i] = s[i] ^ byte(0xAA+i)
	}
	return out
}

func rotl32(x, n uint32) uint32 {
	n &= 0x1F
	if n == 0 {
		return x
	}
	return (x << n) | (x >> (32 - n))
}

// encryptOffset picks the WzOffset encoded value that makes
// wzcrypto.DecryptOffset(pos, 0, versionHash, encoded) equal target, the
// forward direction of the same arithmetic Cursor.WzOffset decodes.
func encryptOffset(pos, versionHash, target uint32) uint32 {
	x := pos ^ 0xFFFFFFFF
	x *= versionHash
	x -= wzcrypto.OffsetConstant
	x = rotl32(x, x&0x1F)
	return x ^ target
}

// TestParseIndirectNameEntry builds a single directory block whose one
// entry uses the tagNameFromOffset(2) encoding — its name is looked up at
// an offset elsewhere in the file, as real containers do to deduplicate
// repeated image names — and checks the resolved entry keeps the Kind the
// indirection target declares (Image here), rather than being dropped
// because the re-read tag byte at the target was discarded.
func TestParseIndirectNameEntry(t *testing.T) {
	const versionHash = 0x1234

	// Name blob: a directory-entry tag byte (4 = Image) followed by the
	// wz-string name, exactly what a real indirect name target looks like.
	nameBlob := append([]byte{4}, asciiWzString("wz_img.img")...)

	var dir []byte
	dir = append(dir, 1) // entry count (wzInt, single byte)
	dir = append(dir, 2) // tag: tagNameFromOffset

	strOffFieldPos := len(dir)
	dir = append(dir, 0, 0, 0, 0) // strOff placeholder (patched below)

	const childSize = 4
	dir = append(dir, byte(childSize)) // fsize (wzInt)
	dir = append(dir, 0)               // checksum (wzInt), unused

	offsetFieldPos := len(dir)
	dir = append(dir, 0, 0, 0, 0) // WzOffset placeholder (patched below)

	nameBlobOffset := len(dir)
	buf := append(dir, nameBlob...)
	childOffset := len(buf)
	buf = append(buf, make([]byte, childSize)...)

	binary.LittleEndian.PutUint32(buf[strOffFieldPos:], uint32(nameBlobOffset))
	binary.LittleEndian.PutUint32(buf[offsetFieldPos:], encryptOffset(uint32(offsetFieldPos), versionHash, uint32(childOffset)))

	r := wzio.FromBytes(buf).WithVersion(0, versionHash, wzcrypto.IVClassic)
	entries, err := Parse(r, 0)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1 (indirect entry must not be dropped)", len(entries))
	}
	got := entries[0]
	if got.Kind != KindImage {
		t.Errorf("Kind = %v, want KindImage (resolved from the indirect target's tag byte)", got.Kind)
	}
	if got.Name != "wz_img.img" {
		t.Errorf("Name = %q, want %q", got.Name, "wz_img.img")
	}
	if got.Offset != int64(childOffset) {
		t.Errorf("Offset = %d, want %d", got.Offset, childOffset)
	}
}

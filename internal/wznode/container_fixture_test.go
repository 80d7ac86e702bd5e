package wznode

import (
	"encoding/binary"
	"testing"

	"github.com/ossyrian/wzkit/internal/wzcrypto"
	"github.com/ossyrian/wzkit/internal/wzdir"
	"github.com/ossyrian/wzkit/internal/wzfile"
	"github.com/ossyrian/wzkit/internal/wzio"
	"github.com/ossyrian/wzkit/internal/wzprop"
)

// fixtureBuf is a tiny append-only byte builder used below to hand-assemble
// a directory + image block exactly as wzdir/wznode expect to read them,
// without needing a real sample file on disk.
type fixtureBuf struct{ b []byte }

func (f *fixtureBuf) pos() int    { return len(f.b) }
func (f *fixtureBuf) u8(v byte)   { f.b = append(f.b, v) }
func (f *fixtureBuf) u16(v uint16) {
	var tmp [2]byte
	binary.LittleEndian.PutUint16(tmp[:], v)
	f.b = append(f.b, tmp[:]...)
}
func (f *fixtureBuf) u32(v uint32) {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	f.b = append(f.b, tmp[:]...)
}

func (f *fixtureBuf) i32(v int32) { f.u32(uint32(v)) }

// wzInt writes the Cursor.WzInt encoding: a value fitting in an i8 (other
// than the escape sentinel itself) is written directly; anything larger
// (the image/directory-block fsize fields below can exceed 127 bytes)
// escapes through the i8::MIN leading byte to a literal int32.
func (f *fixtureBuf) wzInt(v int32) {
	if v >= -127 && v <= 127 {
		f.u8(byte(int8(v)))
		return
	}
	f.u8(0x80) // i8::MIN escape
	f.i32(v)
}

// wzString writes an inline ASCII wz-string (Cursor.WzString's format)
// under the all-zero IVClassic keystream: the incrementing 0xAA+i mask
// with no keystream XOR on top, since the keystream byte is zero everywhere.
func (f *fixtureBuf) wzString(s string) {
	f.u8(byte(int8(-int8(len(s)))))
	for i := 0; i < len(s); i++ {
		f.u8(s[i] ^ byte(0xAA+i))
	}
}

// wzStringBlockInline writes an inline wz-string-block entry (block tag 0,
// then a wz-string), the format property/entry names and string values use.
func (f *fixtureBuf) wzStringBlockInline(s string) {
	f.u8(0)
	f.wzString(s)
}

// reserve4 reserves a 4-byte field (a WzOffset or a raw strOff) and returns
// its local position so the caller can patch it once the target's final
// absolute position in the assembled buffer is known.
func (f *fixtureBuf) reserve4() int {
	p := f.pos()
	f.u32(0)
	return p
}

func rotl32(x, n uint32) uint32 {
	n &= 0x1F
	if n == 0 {
		return x
	}
	return (x << n) | (x >> (32 - n))
}

// encryptOffset picks the WzOffset encoded value that makes
// wzcrypto.DecryptOffset(pos, 0, versionHash, encoded) equal target — the
// forward direction of the same arithmetic Cursor.WzOffset decodes.
func encryptOffset(pos, versionHash, target uint32) uint32 {
	x := pos ^ 0xFFFFFFFF
	x *= versionHash
	x -= wzcrypto.OffsetConstant
	x = rotl32(x, x&0x1F)
	return x ^ target
}

// buildMainImage assembles wz_img.img: a property list holding /1/int,
// /2/uol ("string") and /2/string ("foo"), and a flat /conv leaf — the
// layout scenario 1 and 2 of the container's reference walkthrough describe.
func buildMainImage() []byte {
	var f fixtureBuf
	f.u8(0x73) // imageHeaderWithoutOffset
	f.wzString("Property")
	f.u16(0) // marker
	f.wzInt(3)

	// "1": Property{ int: Int(1) }
	f.wzStringBlockInline("1")
	f.u8(9) // extended
	var sub1 fixtureBuf
	sub1.u8(0x00) // extHeaderWithoutOffset, inline name follows
	sub1.wzString("Property")
	sub1.u8(0) // the "Property" case's 2-byte skip
	sub1.u8(0)
	sub1.wzInt(1)
	sub1.wzStringBlockInline("int")
	sub1.u8(3) // Int
	sub1.wzInt(1)
	f.u32(uint32(len(sub1.b)))
	f.b = append(f.b, sub1.b...)

	// "2": Property{ uol: UOL("string"), string: String("foo") }
	f.wzStringBlockInline("2")
	f.u8(9)
	var sub2 fixtureBuf
	sub2.u8(0x00)
	sub2.wzString("Property")
	sub2.u8(0)
	sub2.u8(0)
	sub2.wzInt(2)

	sub2.wzStringBlockInline("uol")
	sub2.u8(9)
	var extUol fixtureBuf
	extUol.u8(0x00)
	extUol.wzString("UOL")
	extUol.u8(0) // the "UOL" case's 1-byte skip
	extUol.u8(0) // block tag 0, inline string value
	extUol.wzString("string")
	sub2.u32(uint32(len(extUol.b)))
	sub2.b = append(sub2.b, extUol.b...)

	sub2.wzStringBlockInline("string")
	sub2.u8(8) // String
	sub2.u8(0) // block tag 0, inline
	sub2.wzString("foo")

	f.u32(uint32(len(sub2.b)))
	f.b = append(f.b, sub2.b...)

	// "conv": Int(7)
	f.wzStringBlockInline("conv")
	f.u8(3)
	f.wzInt(7)

	return f.b
}

// buildNestedImage assembles wz_img_under_dir.img: a single flat leaf /hi,
// reachable only through a nested Directory entry.
func buildNestedImage() []byte {
	var f fixtureBuf
	f.u8(0x73)
	f.wzString("Property")
	f.u16(0)
	f.wzInt(1)
	f.wzStringBlockInline("hi")
	f.u8(3)
	f.wzInt(42)
	return f.b
}

// buildFixtureContainer hand-assembles a small in-memory container with:
//   - a top-level entry for wz_img.img, encoded with the tagNameFromOffset
//     (dedup) indirection rather than a direct name, so parsing it exercises
//     the same code path a real deduplicated directory does;
//   - a nested wz_dir/wz_img_under_dir.img directory, reached the ordinary
//     (direct-name) way;
//
// and returns a wzfile.Result ready to hand to NewFile, exactly as OpenFile
// would after a successful version probe.
func buildFixtureContainer(t *testing.T) *wzfile.Result {
	t.Helper()
	const versionHash = 0x1234
	iv := wzcrypto.IVClassic

	mainImg := buildMainImage()
	nestedImg := buildNestedImage()

	var nameBlob fixtureBuf
	nameBlob.u8(4) // tagImage — what the indirection target declares
	nameBlob.wzString("wz_img.img")

	var d fixtureBuf
	d.wzInt(1)
	d.u8(4) // tagImage
	d.wzString("wz_img_under_dir.img")
	d.wzInt(int32(len(nestedImg)))
	d.wzInt(0) // checksum, unused
	dNestedOffsetField := d.reserve4()

	var e fixtureBuf
	e.wzInt(2)

	e.u8(2) // tagNameFromOffset
	eIndirectStrOffField := e.reserve4()
	e.wzInt(int32(len(mainImg)))
	e.wzInt(0)
	eMainImgOffsetField := e.reserve4()

	e.u8(3) // tagDirectory
	e.wzString("wz_dir")
	e.wzInt(int32(len(d.b)))
	e.wzInt(0)
	eDirOffsetField := e.reserve4()

	eStart := 0
	nameBlobStart := eStart + len(e.b)
	mainImgStart := nameBlobStart + len(nameBlob.b)
	dStart := mainImgStart + len(mainImg)
	nestedImgStart := dStart + len(d.b)

	buf := make([]byte, 0, nestedImgStart+len(nestedImg))
	buf = append(buf, e.b...)
	buf = append(buf, nameBlob.b...)
	buf = append(buf, mainImg...)
	buf = append(buf, d.b...)
	buf = append(buf, nestedImg...)

	binary.LittleEndian.PutUint32(buf[eStart+eIndirectStrOffField:], uint32(nameBlobStart))

	patch := func(fieldPos, target int) {
		encoded := encryptOffset(uint32(fieldPos), versionHash, uint32(target))
		binary.LittleEndian.PutUint32(buf[fieldPos:], encoded)
	}
	patch(eStart+eMainImgOffsetField, mainImgStart)
	patch(eStart+eDirOffsetField, dStart)
	patch(dStart+dNestedOffsetField, nestedImgStart)

	reader := wzio.FromBytes(buf).WithVersion(0, versionHash, iv)
	entries, err := wzdir.Parse(reader, 0)
	if err != nil {
		t.Fatalf("wzdir.Parse: %v", err)
	}

	return &wzfile.Result{
		Header:      wzfile.Header{Ident: wzfile.IdentPKG1, FStart: 0},
		IV:          iv,
		PatchVer:    123,
		VersionHash: versionHash,
		Reader:      reader,
		Entries:     entries,
	}
}

// TestFixtureContainerPaths walks the hand-assembled container end to end,
// covering the reference walkthrough's at_path scenarios: a plain nested
// lookup, a lookup through a deduplicated (indirect-name) directory entry,
// and a lookup through a nested subdirectory.
func TestFixtureContainerPaths(t *testing.T) {
	root := NewFile("test", buildFixtureContainer(t))

	img, ok := root.At("wz_img.img")
	if !ok {
		t.Fatal(`At("wz_img.img") not found — an indirect-name (tagNameFromOffset) directory entry was dropped`)
	}
	if img.Kind() != KindImage {
		t.Errorf("wz_img.img Kind() = %v, want %v", img.Kind(), KindImage)
	}

	cases := []struct {
		path string
		want int32
	}{
		{"wz_img.img/1/int", 1},
		{"wz_img.img/conv", 7},
		{"wz_dir/wz_img_under_dir.img/hi", 42},
	}
	for _, c := range cases {
		n, err := root.AtPathParsed(c.path)
		if err != nil {
			t.Errorf("AtPathParsed(%q): %v", c.path, err)
			continue
		}
		if n.Kind() != KindValue || n.Value().Kind != wzprop.KindInt {
			t.Errorf("AtPathParsed(%q) = %v node, want an Int value", c.path, n.Kind())
			continue
		}
		if n.Value().Int != c.want {
			t.Errorf("AtPathParsed(%q) = %d, want %d", c.path, n.Value().Int, c.want)
		}
	}
}

// TestFixtureContainerUOLResolution covers the reference walkthrough's UOL
// scenario: a UOL leaf at wz_img.img/2/uol holding the string "string" must
// resolve to wz_img.img/2/string (a sibling of the UOL, looked up from the
// UOL's own parent), not
// to a path looked up from the enclosing Image's root.
func TestFixtureContainerUOLResolution(t *testing.T) {
	root := NewFile("test", buildFixtureContainer(t))

	two, err := root.AtPathParsed("wz_img.img/2")
	if err != nil {
		t.Fatalf("AtPathParsed(wz_img.img/2): %v", err)
	}
	uol, ok := two.At("uol")
	if !ok {
		t.Fatal(`At("uol") not found`)
	}
	if uol.Kind() != KindValue || uol.Value().Kind != wzprop.KindUOL {
		t.Fatalf("uol node kind = %v/%v, want KindValue/KindUOL", uol.Kind(), uol.Value().Kind)
	}

	target := ResolveUOL(two, "uol", uol, nil)
	if target == nil {
		t.Fatal("ResolveUOL returned nil, want the sibling \"string\" node")
	}
	s, err := target.Value().ResolveString()
	if err != nil {
		t.Fatalf("resolved target ResolveString: %v", err)
	}
	if s != "foo" {
		t.Errorf("resolved UOL target = %q, want %q", s, "foo")
	}

	replaced, ok := two.At("uol")
	if !ok || replaced != target {
		t.Error("ResolveUOL did not replace the UOL leaf in its parent's children map")
	}
}

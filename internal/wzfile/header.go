// Package wzfile parses the PKG1/PKG2 container header and brute-forces
// the MapleStory patch version needed to derive the version hash used
// throughout offset decryption.
package wzfile

import (
	"golang.org/x/xerrors"

	"github.com/ossyrian/wzkit/internal/wzio"
)

// Ident identifies which container signature a file declares.
type Ident int

const (
	IdentUnknown Ident = iota
	IdentPKG1
	IdentPKG2
)

func identFromBytes(b []byte) Ident {
	switch string(b) {
	case "PKG1":
		return IdentPKG1
	case "PKG2":
		return IdentPKG2
	default:
		return IdentUnknown
	}
}

// Header is the fixed-layout prefix of every WZ container: a 4-byte
// signature, a 64-bit declared file size, a 32-bit content-start offset,
// and an ASCII copyright banner filling the remainder up to fstart.
type Header struct {
	Ident     Ident
	FSize     uint64
	FStart    uint32
	Copyright string
}

// ReadHeader parses the fixed header fields from the start of r.
func ReadHeader(r *wzio.Reader) (Header, error) {
	c := r.NewCursor(0)
	identBytes, err := c.Bytes(4)
	if err != nil {
		return Header{}, xerrors.Errorf("wzfile: read ident: %w", err)
	}
	fsize, err := c.I64()
	if err != nil {
		return Header{}, xerrors.Errorf("wzfile: read fsize: %w", err)
	}
	fstart, err := c.U32()
	if err != nil {
		return Header{}, xerrors.Errorf("wzfile: read fstart: %w", err)
	}
	if int64(fstart) < 16 || int64(fstart) > r.Len() {
		return Header{}, xerrors.Errorf("wzfile: implausible fstart %d", fstart)
	}
	copyrightLen := int(fstart) - 16
	copyrightBytes, err := r.NewCursor(16).Bytes(copyrightLen)
	if err != nil {
		return Header{}, xerrors.Errorf("wzfile: read copyright: %w", err)
	}
	return Header{
		Ident:     identFromBytes(identBytes),
		FSize:     uint64(fsize),
		FStart:    fstart,
		Copyright: string(copyrightBytes),
	}, nil
}

// encryptedVersionProbe is the result of inspecting the u16 immediately
// following the header: either a legacy small "encrypted version" byte
// pair, or a signal that the file is 64-bit-client style (no usable
// version byte at all, so the patch version must be brute-forced from a
// default starting header value).
type encryptedVersionProbe struct {
	is64BitStyle     bool
	encryptedVersion uint16
}

// probeEncryptedVersion inspects the u16 at h.FStart: a file is
// 64-bit-client style when fsize < 2, when the u16 exceeds 0xFF, or when
// it equals 0x80 and the following i32 looks like a plausible small entry
// count — MapleLib's heuristic for telling a real encrypted-version byte
// apart from a disguised property-count prefix.
func probeEncryptedVersion(r *wzio.Reader, h Header) (encryptedVersionProbe, error) {
	if h.FSize < 2 {
		return encryptedVersionProbe{is64BitStyle: true}, nil
	}
	c := r.NewCursor(int64(h.FStart))
	ev, err := c.U16()
	if err != nil {
		return encryptedVersionProbe{}, xerrors.Errorf("wzfile: probe encrypted version: %w", err)
	}
	if ev > 0xFF {
		return encryptedVersionProbe{is64BitStyle: true}, nil
	}
	if ev == 0x80 {
		cc := r.NewCursor(int64(h.FStart) + 2)
		count, err := cc.I32()
		if err == nil && count > 0 && count&0xFF == 0 && count <= 0xFFFF {
			return encryptedVersionProbe{is64BitStyle: true}, nil
		}
	}
	return encryptedVersionProbe{encryptedVersion: ev}, nil
}

package wzfile

import (
	"strconv"

	"golang.org/x/xerrors"

	"github.com/ossyrian/wzkit/internal/wzcrypto"
	"github.com/ossyrian/wzkit/internal/wzdir"
	"github.com/ossyrian/wzkit/internal/wzio"
)

// wz64BitHeaderStart is the fixed wz_version_header value assumed for
// 64-bit-client-style files (those with no usable encrypted-version byte).
const wz64BitHeaderStart = 770

// ErrGameVersionHash is returned when no patch-version candidate produces
// a parseable directory — the classic "ErrorGameVerHash" outcome.
var ErrGameVersionHash = xerrors.New("wzfile: unable to determine game version hash")

// Probe brute-forces the patch version and version hash needed to decrypt
// offsets in r, given the already-parsed Header and the region IV to try
// string decryption with. It returns a Reader configured with the winning
// version hash plus the top-level directory entries parsed along the way
// (so callers don't have to re-parse immediately after probing).
func Probe(r *wzio.Reader, h Header, iv wzcrypto.IV) (*wzio.Reader, []wzdir.Entry, int32, error) {
	ev, err := probeEncryptedVersion(r, h)
	if err != nil {
		return nil, nil, 0, err
	}

	wzVersionHeader := int32(ev.encryptedVersion)
	if ev.is64BitStyle {
		wzVersionHeader = wz64BitHeaderStart
	}

	// When the header is NOT the 64-bit-style (i.e. a genuine small
	// encrypted-version byte is present), try the narrow 770..779 band
	// first using that byte as wz_version_header; otherwise fall back to
	// the full 1..2000 sweep using the fixed 770 starting header. This
	// ordering differs from upstream (which fast-paths the 64-bit case and
	// always falls through to the full sweep) and is followed verbatim
	// rather than reconciled against the original source (see DESIGN.md).
	if !ev.is64BitStyle {
		for patch := int32(770); patch < 780; patch++ {
			reader, entries, ok := tryCandidate(r, h, iv, wzVersionHeader, patch, ev.is64BitStyle)
			if ok {
				return reader, entries, patch, nil
			}
		}
		return nil, nil, 0, ErrGameVersionHash
	}

	for patch := int32(1); patch < 2000; patch++ {
		reader, entries, ok := tryCandidate(r, h, iv, wzVersionHeader, patch, ev.is64BitStyle)
		if ok {
			return reader, entries, patch, nil
		}
	}
	return nil, nil, 0, ErrGameVersionHash
}

func tryCandidate(r *wzio.Reader, h Header, iv wzcrypto.IV, wzVersionHeader, patch int32, is64BitStyle bool) (*wzio.Reader, []wzdir.Entry, bool) {
	hash := checkAndGetVersionHash(wzVersionHeader, patch)
	if hash == 0 {
		return nil, nil, false
	}

	candidate := r.WithVersion(h.FStart, hash, iv)
	dirStart := int64(h.FStart)
	if !is64BitStyle {
		dirStart += 2 // skip the u16 encrypted version at FStart
	}
	entries, err := wzdir.Parse(candidate, dirStart)
	if err != nil {
		return nil, nil, false
	}

	if first, ok := wzdir.FirstImage(entries); ok {
		b, err := candidate.NewCursor(first.Offset).U8()
		if err != nil {
			return nil, nil, false
		}
		switch b {
		case 0x73, 0x1B, 0x01:
		default:
			return nil, nil, false
		}
	}

	// Unexplained upstream rejection, preserved verbatim: a 64-bit-style
	// candidate that otherwise parses at patch 113 is always rejected.
	if is64BitStyle && patch == 113 {
		return nil, nil, false
	}

	return candidate, entries, true
}

// checkAndGetVersionHash computes the version hash for patch and accepts
// it either when wzVersionHeader is the fixed 64-bit-style starting header
// (such files carry no encrypted-version byte to check against) or when the
// hash's obfuscated byte matches wzVersionHeader. Returns 0 on rejection.
func checkAndGetVersionHash(wzVersionHeader, patch int32) uint32 {
	hash := wzcrypto.VersionHash(strconv.Itoa(int(patch)))
	if wzVersionHeader == wz64BitHeaderStart {
		return hash
	}
	enc := uint32(wzcrypto.ObfuscateVersionHash(hash))
	if enc == uint32(wzVersionHeader) {
		return hash
	}
	return 0
}

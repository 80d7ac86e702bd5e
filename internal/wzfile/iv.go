package wzfile

import (
	"unicode"

	"github.com/ossyrian/wzkit/internal/wzcrypto"
	"github.com/ossyrian/wzkit/internal/wzio"
)

// GuessIV tries each known region IV in turn, reading the first directory
// entry's name at the start of the top-level directory (FStart, or FStart+2
// when an encrypted-version word precedes it) and accepting the
// first IV whose decoded name looks like a plausible path component. This
// only exercises string decryption (keystream masking), not offset
// decryption, so it needs no version hash yet — grounded on
// `verify_iv_from_wz_file`/`guess_iv_from_wz_file`.
func GuessIV(r *wzio.Reader, h Header) (wzcrypto.IV, bool) {
	for _, candidate := range wzcrypto.KnownIVs {
		if name, ok := tryReadFirstEntryName(r, h, candidate.IV); ok && looksLikeName(name) {
			return candidate.IV, true
		}
	}
	return wzcrypto.IV{}, false
}

func tryReadFirstEntryName(r *wzio.Reader, h Header, iv wzcrypto.IV) (string, bool) {
	probe := r.WithVersion(h.FStart, 1, iv) // version hash unused for string decode
	start := int64(h.FStart)
	if ev, err := probeEncryptedVersion(r, h); err == nil && !ev.is64BitStyle {
		start += 2 // skip the u16 encrypted version at FStart
	}
	c := probe.NewCursor(start)

	count, err := c.WzInt()
	if err != nil || count <= 0 || count > maxEntryCount {
		return "", false
	}

	tagByte, err := c.U8()
	if err != nil {
		return "", false
	}
	switch tagByte {
	case 2:
		strOff, err := c.I32()
		if err != nil {
			return "", false
		}
		target := int64(h.FStart) + int64(strOff)
		rc := probe.NewCursor(target)
		if _, err := rc.U8(); err != nil {
			return "", false
		}
		name, err := rc.WzString()
		return name, err == nil
	case 3, 4:
		name, err := c.WzString()
		return name, err == nil
	default:
		return "", false
	}
}

func looksLikeName(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r > unicode.MaxASCII || (unicode.IsControl(r)) {
			return false
		}
	}
	return true
}

package wzfile

import (
	"golang.org/x/xerrors"

	"github.com/ossyrian/wzkit/internal/wzcrypto"
	"github.com/ossyrian/wzkit/internal/wzdir"
	"github.com/ossyrian/wzkit/internal/wzio"
)

// Result bundles everything OpenFile learns about a container: its header,
// the region IV and version hash it settled on, the accepted patch-version
// candidate, a configured Reader, and the parsed top-level directory.
type Result struct {
	Header      Header
	IV          wzcrypto.IV
	PatchVer    int32
	VersionHash uint32
	Reader      *wzio.Reader
	Entries     []wzdir.Entry
}

// OpenFile memory-maps path, parses its header, guesses (or uses the
// supplied) region IV, and brute-forces the patch version and version
// hash, returning a Reader ready for navigation via internal/wznode.
func OpenFile(path string, knownIV *wzcrypto.IV) (*Result, error) {
	r, err := wzio.Open(path)
	if err != nil {
		return nil, err
	}

	h, err := ReadHeader(r)
	if err != nil {
		r.Close()
		return nil, xerrors.Errorf("wzfile: %w", err)
	}

	iv := wzcrypto.IVGMS
	if knownIV != nil {
		iv = *knownIV
	} else if guessed, ok := GuessIV(r, h); ok {
		iv = guessed
	}

	configured, entries, patch, err := Probe(r, h, iv)
	if err != nil {
		r.Close()
		return nil, xerrors.Errorf("wzfile: probe %s: %w", path, err)
	}

	return &Result{
		Header:      h,
		IV:          iv,
		PatchVer:    patch,
		VersionHash: configured.VersionHash(),
		Reader:      configured,
		Entries:     entries,
	}, nil
}

// Package wzio implements the shared memory-mapped reader and the
// position-dependent encoded scalar/string primitives every WZ container
// component reads through.
package wzio

import (
	"golang.org/x/exp/mmap"
	"golang.org/x/xerrors"

	"github.com/ossyrian/wzkit/internal/wzcrypto"
)

// randAt is the minimal backing-store contract Reader needs: a container
// can be memory-mapped from disk (the common case) or, for MS containers
// whose payload only exists after in-memory stream-cipher decryption, held
// as a plain byte slice.
type randAt interface {
	ReadAt(p []byte, off int64) (int, error)
	Len() int64
	Close() error
}

// Reader is the shared, read-only view over one container file. It is
// cheap to copy a *Reader pointer between directory/image nodes; the
// underlying mmap is opened once and closed when the owning tree is
// discarded.
type Reader struct {
	ra          randAt
	path        string
	fstart      uint32 // content start offset, from the container header
	versionHash uint32
	keystream   *wzcrypto.Keystream
}

// Open memory-maps path and returns a Reader with no version hash or
// keystream configured yet; callers populate those once header probing
// succeeds via WithVersion.
func Open(path string) (*Reader, error) {
	ra, err := mmap.Open(path)
	if err != nil {
		return nil, xerrors.Errorf("wzio: mmap.Open(%s): %w", path, err)
	}
	return &Reader{ra: ra, path: path}, nil
}

// memReaderAt adapts an in-memory byte slice to randAt, for containers
// (MS entries) whose bytes only exist after stream-cipher decryption and
// were never memory-mapped from disk.
type memReaderAt struct{ data []byte }

func (m memReaderAt) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 || off > int64(len(m.data)) {
		return 0, xerrors.New("wzio: read offset out of range")
	}
	n := copy(p, m.data[off:])
	if n < len(p) {
		return n, xerrors.New("wzio: short read")
	}
	return n, nil
}

func (m memReaderAt) Len() int64   { return int64(len(m.data)) }
func (m memReaderAt) Close() error { return nil }

// FromBytes wraps an already-decrypted in-memory buffer as a Reader, for
// MS image entries whose payload is produced by SNOW2/ChaCha20 decryption
// rather than read directly off a memory-mapped file.
func FromBytes(data []byte) *Reader {
	return &Reader{ra: memReaderAt{data: data}, path: "<memory>"}
}

// Len returns the size in bytes of the underlying file.
func (r *Reader) Len() int64 { return r.ra.Len() }

// Path returns the path the reader was opened from.
func (r *Reader) Path() string { return r.path }

// Close unmaps the underlying file.
func (r *Reader) Close() error {
	if err := r.ra.Close(); err != nil {
		return xerrors.Errorf("wzio: close %s: %w", r.path, err)
	}
	return nil
}

// WithVersion returns a shallow copy of r configured with the given
// content-start offset, version hash and keystream IV — the triple
// produced once header probing (internal/wzfile) succeeds.
func (r *Reader) WithVersion(fstart uint32, versionHash uint32, iv wzcrypto.IV) *Reader {
	cp := *r
	cp.fstart = fstart
	cp.versionHash = versionHash
	cp.keystream = wzcrypto.NewKeystream(iv)
	return &cp
}

// FStart returns the content-start offset recorded in the container header.
func (r *Reader) FStart() uint32 { return r.fstart }

// VersionHash returns the version hash this reader was configured with.
func (r *Reader) VersionHash() uint32 { return r.versionHash }

// Keystream returns the shared AES keystream for this container.
func (r *Reader) Keystream() *wzcrypto.Keystream { return r.keystream }

// IsValidPos reports whether pos falls within the mapped file.
func (r *Reader) IsValidPos(pos int64) bool {
	return pos >= 0 && pos <= r.ra.Len()
}

// ReadAt reads len(p) bytes starting at off, failing if the read runs past
// EOF — every WZ scalar/string read goes through this so a truncated or
// corrupt file surfaces as a wrapped error instead of a short read.
func (r *Reader) ReadAt(p []byte, off int64) error {
	n, err := r.ra.ReadAt(p, off)
	if n == len(p) {
		return nil
	}
	if err == nil {
		err = xerrors.New("short read")
	}
	return xerrors.Errorf("wzio: read %d bytes at %d: %w", len(p), off, err)
}

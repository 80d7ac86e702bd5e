package wzms

import (
	"path/filepath"

	"golang.org/x/exp/mmap"
	"golang.org/x/xerrors"

	"github.com/ossyrian/wzkit/internal/wznode"
)

// Open memory-maps an MS container at path, decrypts its entry table and
// every entry's image payload, and returns a flat root node named after
// the file — matching MsFile::parse, which places every entry directly
// under one parent regardless of any path-like structure in its name.
func Open(path string) (*wznode.Node, error) {
	ra, err := mmap.Open(path)
	if err != nil {
		return nil, xerrors.Errorf("wzms: mmap %s: %w", path, err)
	}
	defer ra.Close()

	data := make([]byte, ra.Len())
	if _, err := ra.ReadAt(data, 0); err != nil {
		return nil, xerrors.Errorf("wzms: read %s: %w", path, err)
	}

	name := filepath.Base(path)
	file, err := ParseFile(name, data)
	if err != nil {
		return nil, xerrors.Errorf("wzms: parse %s: %w", path, err)
	}

	root := wznode.NewContainerRoot(name)
	for _, entry := range file.Entries {
		decrypted, err := ReadEntry(file, entry)
		if err != nil {
			return nil, xerrors.Errorf("wzms: decrypt entry %q: %w", entry.Name, err)
		}
		child := wznode.NewImageNode(entry.Name, root, decrypted.Reader)
		root.AttachChild(entry.Name, child)
	}

	return root, nil
}

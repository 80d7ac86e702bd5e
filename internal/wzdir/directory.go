// Package wzdir parses a WZ directory block: a count-prefixed list of
// child directory/image entries, with nested directories resolved eagerly
// and image entries left as unparsed leaves.
package wzdir

import (
	"golang.org/x/xerrors"

	"github.com/ossyrian/wzkit/internal/wzio"
)

// Kind distinguishes a directory entry's two navigable shapes.
type Kind int

const (
	KindDirectory Kind = iota
	KindImage
)

// Entry is one child of a directory block. Directory entries have their
// own Children already resolved (directory.rs resolves subdirectories
// eagerly); Image entries are left as an offset/size pair for the image
// property parser to read lazily.
type Entry struct {
	Name     string
	Kind     Kind
	Offset   int64
	Size     int64
	Children []Entry
}

const maxEntryCount = 1000000

// entryTag is the leading byte of each directory entry, selecting how its
// name is obtained.
type entryTag int

const (
	tagUnknown           entryTag = 1 // unrecognized, skip a fixed 10-byte payload
	tagNameFromOffset    entryTag = 2 // name lives elsewhere in the file, looked up indirectly
	tagDirectory         entryTag = 3
	tagImage             entryTag = 4
)

func tagFromByte(b byte) (entryTag, bool) {
	switch b {
	case 1:
		return tagUnknown, true
	case 2:
		return tagNameFromOffset, true
	case 3:
		return tagDirectory, true
	case 4:
		return tagImage, true
	default:
		return 0, false
	}
}

// Parse reads the directory block at offset (entry count, then that many
// entries) and resolves any Directory-typed children recursively, exactly
// as the upstream parser does — image entries are never recursed into.
func Parse(r *wzio.Reader, offset int64) ([]Entry, error) {
	c := r.NewCursor(offset)
	count, err := c.WzInt()
	if err != nil {
		return nil, xerrors.Errorf("wzdir: read entry count: %w", err)
	}
	if count < 0 || count > maxEntryCount {
		return nil, xerrors.Errorf("wzdir: invalid entry count %d", count)
	}

	entries := make([]Entry, 0, count)

	for i := int32(0); i < count; i++ {
		tagByte, err := c.U8()
		if err != nil {
			return nil, xerrors.Errorf("wzdir: read entry tag: %w", err)
		}
		tag, known := tagFromByte(tagByte)
		if !known {
			return nil, xerrors.Errorf("wzdir: unknown directory entry tag %d at pos %d", tagByte, c.Pos())
		}

		var name string
		switch tag {
		case tagUnknown:
			c.Skip(4 + 4 + 2)
			continue
		case tagNameFromOffset:
			strOff, err := c.I32()
			if err != nil {
				return nil, xerrors.Errorf("wzdir: read indirect name offset: %w", err)
			}
			savedPos := c.Pos()
			target := int64(r.FStart()) + int64(strOff)
			rc := r.NewCursor(target)
			indirectTagByte, err := rc.U8()
			if err != nil {
				return nil, xerrors.Errorf("wzdir: read indirect name tag: %w", err)
			}
			indirectTag, known := tagFromByte(indirectTagByte)
			if !known {
				return nil, xerrors.Errorf("wzdir: unknown indirect directory entry tag %d at pos %d", indirectTagByte, rc.Pos())
			}
			tag = indirectTag
			name, err = rc.WzString()
			if err != nil {
				return nil, xerrors.Errorf("wzdir: read indirect name: %w", err)
			}
			c.Seek(savedPos)
		case tagDirectory, tagImage:
			name, err = c.WzString()
			if err != nil {
				return nil, xerrors.Errorf("wzdir: read entry name: %w", err)
			}
		}

		fsize, err := c.WzInt()
		if err != nil {
			return nil, xerrors.Errorf("wzdir: read entry size: %w", err)
		}
		if _, err := c.WzInt(); err != nil { // checksum, unused
			return nil, xerrors.Errorf("wzdir: read entry checksum: %w", err)
		}
		childOffset, err := c.WzOffset()
		if err != nil {
			return nil, xerrors.Errorf("wzdir: read entry offset: %w", err)
		}

		bufEnd := int64(childOffset) + int64(fsize)
		if !r.IsValidPos(bufEnd) {
			return nil, xerrors.Errorf("wzdir: entry %q end %d out of bounds", name, bufEnd)
		}

		switch tag {
		case tagDirectory:
			entries = append(entries, Entry{Name: name, Kind: KindDirectory, Offset: int64(childOffset), Size: int64(fsize)})
		case tagImage:
			entries = append(entries, Entry{Name: name, Kind: KindImage, Offset: int64(childOffset), Size: int64(fsize)})
		}
	}

	for i := range entries {
		if entries[i].Kind != KindDirectory {
			continue
		}
		children, err := Parse(r, entries[i].Offset)
		if err != nil {
			return nil, xerrors.Errorf("wzdir: resolve children of %q: %w", entries[i].Name, err)
		}
		entries[i].Children = children
	}

	return entries, nil
}

// FirstImage returns the first Image-kind entry found via a breadth-first
// walk, used by the version probe to sanity-check a candidate hash against
// the first byte of real image content.
func FirstImage(entries []Entry) (Entry, bool) {
	queue := append([]Entry(nil), entries...)
	for len(queue) > 0 {
		e := queue[0]
		queue = queue[1:]
		if e.Kind == KindImage {
			return e, true
		}
		queue = append(queue, e.Children...)
	}
	return Entry{}, false
}

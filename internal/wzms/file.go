package wzms

import "golang.org/x/xerrors"

// Entry describes one image packed into an MS container's entry table:
// enough to locate, key, and decrypt its payload independently of every
// other entry.
type Entry struct {
	KeySalt     string
	Name        string
	CheckSum    int32
	Flags       int32
	Size        int32
	SizeAligned int32
	Unk1        int32
	Unk2        int32
	EntryKey    [16]byte

	// Offset is the byte offset of the entry's payload within the
	// container file, resolved from the entry table's raw 1024-byte
	// block index after the whole table has been read.
	Offset int64
}

// File is a parsed MS container: its header plus the resolved entry
// table, ready for ReadEntry to decrypt individual image payloads.
type File struct {
	data    []byte
	Header  Header
	Entries []Entry
}

// ParseFile reads the header and entry table out of data (the entire MS
// container file).
func ParseFile(fileName string, data []byte) (*File, error) {
	header, err := ParseHeader(fileName, data)
	if err != nil {
		return nil, err
	}

	saltBytes := []byte(header.NameWithSalt)
	n := len(saltBytes)
	var snowKey [16]byte
	for i := 0; i < 16; i++ {
		b := saltBytes[n-1-int(i)%n]
		snowKey[i] = byte(i) + (byte(i)%3+2)*b
	}

	r := newSnow2Reader(data, snowKey)
	r.offset = int(header.EStart)

	entries := make([]Entry, 0, header.EntryCount)
	for i := int32(0); i < header.EntryCount; i++ {
		nameLen, err := r.readI32()
		if err != nil {
			return nil, xerrors.Errorf("wzms: entry %d name length: %w", i, err)
		}
		name, err := r.readUTF16String(int(nameLen) * 2)
		if err != nil {
			return nil, xerrors.Errorf("wzms: entry %d name: %w", i, err)
		}
		checkSum, err := r.readI32()
		if err != nil {
			return nil, err
		}
		flags, err := r.readI32()
		if err != nil {
			return nil, err
		}
		startPos, err := r.readI32()
		if err != nil {
			return nil, err
		}
		size, err := r.readI32()
		if err != nil {
			return nil, err
		}
		sizeAligned, err := r.readI32()
		if err != nil {
			return nil, err
		}
		unk1, err := r.readI32()
		if err != nil {
			return nil, err
		}
		unk2, err := r.readI32()
		if err != nil {
			return nil, err
		}
		entryKeyBytes, err := r.readBytes(16)
		if err != nil {
			return nil, xerrors.Errorf("wzms: entry %d key: %w", i, err)
		}
		var entryKey [16]byte
		copy(entryKey[:], entryKeyBytes)

		entries = append(entries, Entry{
			KeySalt:     header.KeySalt,
			Name:        name,
			CheckSum:    checkSum,
			Flags:       flags,
			Size:        size,
			SizeAligned: sizeAligned,
			Unk1:        unk1,
			Unk2:        unk2,
			EntryKey:    entryKey,
			Offset:      int64(startPos), // block index, resolved to a byte offset below
		})
	}

	dataStart := int64(r.offset)
	if dataStart&0x3FF != 0 {
		dataStart = dataStart - (dataStart & 0x3FF) + 0x400
	}
	for i := range entries {
		entries[i].Offset = dataStart + entries[i].Offset*1024
	}

	return &File{data: data, Header: header, Entries: entries}, nil
}

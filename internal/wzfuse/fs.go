// Package wzfuse exposes a parsed container tree as a read-only FUSE
// filesystem: directories (files, images, property lists) as directories,
// leaf payloads (pixels, sound, Lua, scalars) as regular files whose
// content is the typed accessor's decoded bytes.
package wzfuse

import (
	"context"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/jacobsa/fuse"
	"github.com/jacobsa/fuse/fuseops"
	"github.com/jacobsa/fuse/fuseutil"
	"golang.org/x/xerrors"

	"github.com/ossyrian/wzkit/internal/wzprop"
	"github.com/ossyrian/wzkit/internal/wznode"
)

// Mount mounts a read-only view of root at mountpoint. The returned join
// function blocks until the filesystem is unmounted (by the caller or by
// `fusermount -u`).
func Mount(root *wznode.Node, mountpoint string) (join func(context.Context) error, err error) {
	fs := newFileSystem(root)
	server := fuseutil.NewFileSystemServer(fs)

	mfs, err := fuse.Mount(mountpoint, server, &fuse.MountConfig{
		FSName:   "wzkit",
		ReadOnly: true,
		Options: map[string]string{
			"allow_other": "",
		},
		EnableNoOpenSupport:    true,
		EnableNoOpendirSupport: true,
	})
	if err != nil {
		return nil, xerrors.Errorf("wzfuse: mount %s: %w", mountpoint, err)
	}
	return mfs.Join, nil
}

// never caches directory structure forever: a parsed container tree never
// mutates underneath the filesystem once mounted.
var never = time.Now().Add(365 * 24 * time.Hour)

type fileSystem struct {
	fuseutil.NotImplementedFileSystem

	mu        sync.Mutex
	nodes     map[fuseops.InodeID]*wznode.Node
	ids       map[*wznode.Node]fuseops.InodeID
	nextInode fuseops.InodeID
}

func newFileSystem(root *wznode.Node) *fileSystem {
	fs := &fileSystem{
		nodes:     make(map[fuseops.InodeID]*wznode.Node),
		ids:       make(map[*wznode.Node]fuseops.InodeID),
		nextInode: fuseops.RootInodeID,
	}
	fs.nodes[fuseops.RootInodeID] = root
	fs.ids[root] = fuseops.RootInodeID
	return fs
}

func (fs *fileSystem) inodeFor(n *wznode.Node) fuseops.InodeID {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if id, ok := fs.ids[n]; ok {
		return id
	}
	fs.nextInode++
	id := fs.nextInode
	fs.ids[n] = id
	fs.nodes[id] = n
	return id
}

func (fs *fileSystem) nodeFor(id fuseops.InodeID) (*wznode.Node, bool) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	n, ok := fs.nodes[id]
	return n, ok
}

// isDir reports whether n's children should be exposed as a directory
// listing rather than n itself being read as a leaf file.
func isDir(n *wznode.Node) bool {
	switch n.Kind() {
	case wznode.KindFile, wznode.KindContainer, wznode.KindDirectory,
		wznode.KindImage, wznode.KindProperty, wznode.KindConvex:
		return true
	default:
		return false
	}
}

// leafContent decodes a leaf node's content, matching the typed accessor
// each Kind exposes elsewhere in the module.
func leafContent(n *wznode.Node) ([]byte, error) {
	switch n.Kind() {
	case wznode.KindCanvas:
		return n.Png().Decode()
	case wznode.KindSound:
		return n.Sound().Buffer()
	case wznode.KindLua:
		s, err := n.Script()
		if err != nil {
			return nil, err
		}
		return []byte(s), nil
	case wznode.KindValue:
		return []byte(formatValue(n)), nil
	default:
		return nil, xerrors.Errorf("wzfuse: %q: not a leaf node", n.Name())
	}
}

func (fs *fileSystem) StatFS(ctx context.Context, op *fuseops.StatFSOp) error {
	op.BlockSize = 4096
	op.IoSize = 65536
	return nil
}

func (fs *fileSystem) attributesFor(n *wznode.Node) (fuseops.InodeAttributes, error) {
	if isDir(n) {
		return fuseops.InodeAttributes{
			Nlink: 1,
			Mode:  os.ModeDir | 0555,
		}, nil
	}
	content, err := leafContent(n)
	if err != nil {
		return fuseops.InodeAttributes{}, err
	}
	return fuseops.InodeAttributes{
		Nlink: 1,
		Size:  uint64(len(content)),
		Mode:  0444,
	}, nil
}

func (fs *fileSystem) LookUpInode(ctx context.Context, op *fuseops.LookUpInodeOp) error {
	parent, ok := fs.nodeFor(op.Parent)
	if !ok {
		return fuse.ENOENT
	}
	child, ok := parent.At(op.Name)
	if !ok {
		return fuse.ENOENT
	}
	attrs, err := fs.attributesFor(child)
	if err != nil {
		return xerrors.Errorf("wzfuse: attributes for %q: %w", child.Name(), err)
	}
	op.Entry.Child = fs.inodeFor(child)
	op.Entry.Attributes = attrs
	op.Entry.AttributesExpiration = never
	op.Entry.EntryExpiration = never
	return nil
}

func (fs *fileSystem) GetInodeAttributes(ctx context.Context, op *fuseops.GetInodeAttributesOp) error {
	n, ok := fs.nodeFor(op.Inode)
	if !ok {
		return fuse.ENOENT
	}
	attrs, err := fs.attributesFor(n)
	if err != nil {
		return xerrors.Errorf("wzfuse: attributes for %q: %w", n.Name(), err)
	}
	op.Attributes = attrs
	op.AttributesExpiration = never
	return nil
}

func (fs *fileSystem) OpenDir(ctx context.Context, op *fuseops.OpenDirOp) error {
	return fuse.ENOSYS // handled entirely via ReadDir, per EnableNoOpendirSupport
}

func (fs *fileSystem) ReadDir(ctx context.Context, op *fuseops.ReadDirOp) error {
	n, ok := fs.nodeFor(op.Inode)
	if !ok {
		return fuse.EIO
	}
	children, err := n.Children()
	if err != nil {
		return xerrors.Errorf("wzfuse: children of %q: %w", n.Name(), err)
	}

	names := make([]string, 0, len(children))
	for name := range children {
		names = append(names, name)
	}
	sort.Strings(names)

	var entries []fuseutil.Dirent
	for _, name := range names {
		child := children[name]
		typ := fuseutil.DT_File
		if isDir(child) {
			typ = fuseutil.DT_Directory
		}
		entries = append(entries, fuseutil.Dirent{
			Offset: fuseops.DirOffset(len(entries) + 1),
			Inode:  fs.inodeFor(child),
			Name:   name,
			Type:   typ,
		})
	}

	if op.Offset > fuseops.DirOffset(len(entries)) {
		return fuse.EIO
	}
	for _, e := range entries[op.Offset:] {
		written := fuseutil.WriteDirent(op.Dst[op.BytesRead:], e)
		if written == 0 {
			break
		}
		op.BytesRead += written
	}
	return nil
}

func (fs *fileSystem) OpenFile(ctx context.Context, op *fuseops.OpenFileOp) error {
	return fuse.ENOSYS // content is read directly by inode in ReadFile
}

func (fs *fileSystem) ReadFile(ctx context.Context, op *fuseops.ReadFileOp) error {
	n, ok := fs.nodeFor(op.Inode)
	if !ok {
		return fuse.EIO
	}
	content, err := leafContent(n)
	if err != nil {
		return xerrors.Errorf("wzfuse: read %q: %w", n.Name(), err)
	}
	if op.Offset >= int64(len(content)) {
		return nil
	}
	op.BytesRead = copy(op.Dst, content[op.Offset:])
	return nil
}

// formatValue renders a leaf Value as text, for the scalar/string/vector
// property kinds that don't already have a dedicated binary accessor
// (Canvas/Sound/Lua go through leafContent's other cases instead).
func formatValue(n *wznode.Node) string {
	v := n.Value()
	switch v.Kind {
	case wzprop.KindNull:
		return ""
	case wzprop.KindShort:
		return fmt.Sprintf("%d", v.Short)
	case wzprop.KindInt:
		return fmt.Sprintf("%d", v.Int)
	case wzprop.KindLong:
		return fmt.Sprintf("%d", v.Long)
	case wzprop.KindFloat:
		return fmt.Sprintf("%g", v.Float)
	case wzprop.KindDouble:
		return fmt.Sprintf("%g", v.Double)
	case wzprop.KindString, wzprop.KindUOL:
		s, err := v.ResolveString()
		if err != nil {
			return fmt.Sprintf("<error: %v>", err)
		}
		return s
	case wzprop.KindVector:
		return fmt.Sprintf("%d,%d", v.VectorX, v.VectorY)
	case wzprop.KindRawData:
		raw, err := v.RawDataReader.NewCursor(v.RawDataOffset).Bytes(int(v.RawDataSize))
		if err != nil {
			return fmt.Sprintf("<error: %v>", err)
		}
		return string(raw)
	default:
		return ""
	}
}

package main

import (
	"bytes"
	"context"
	"flag"
	"log"
	"net"
	"net/http"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/lpar/gzipped/v2"
	"golang.org/x/sync/errgroup"
	"golang.org/x/xerrors"

	"github.com/ossyrian/wzkit/internal/wznode"
)

const serveHelp = `wzkit serve [-listen=:8080] <file>

Serve decoded canvas/sound leaves of a container over HTTP. A request for
/some/path/in/tree returns the decoded RGBA8 pixel buffer for a canvas node, the WAV bytes
for a sound node, or the raw bytes for any other leaf, gzip-negotiated by
github.com/lpar/gzipped/v2 the same way cmd/distri's export verb serves
its package store.
`

func cmdServe(ctx context.Context, args []string) error {
	fset := flag.NewFlagSet("serve", flag.ExitOnError)
	iv := fset.String("iv", "", "region IV name; default: WZIV env var or auto-guess")
	listen := fset.String("listen", ":8080", "[host]:port listen address")
	fset.Parse(args)
	rest := fset.Args()
	if len(rest) != 1 {
		return xerrors.New(serveHelp)
	}

	root, err := openTree(rest[0], *iv)
	if err != nil {
		return err
	}

	ln, err := net.Listen("tcp", *listen)
	if err != nil {
		return err
	}
	server := &http.Server{
		Addr:    ln.Addr().String(),
		Handler: gzipped.FileServer(nodeFileSystem{root: root}),
	}
	log.Printf("serving %s on %s", rest[0], ln.Addr())

	var eg errgroup.Group
	eg.Go(func() error { return server.Serve(ln) })
	eg.Go(func() error {
		<-ctx.Done()
		return server.Shutdown(context.Background())
	})
	return eg.Wait()
}

// nodeFileSystem adapts a parsed container tree into an http.FileSystem:
// directories/images/properties list their children, canvas/sound/lua/
// value leaves serve their decoded bytes.
type nodeFileSystem struct {
	root *wznode.Node
}

func (fs nodeFileSystem) Open(name string) (http.File, error) {
	name = strings.Trim(name, "/")
	n := fs.root
	if name != "" {
		var err error
		n, err = fs.root.AtPathParsed(name)
		if err != nil {
			return nil, os.ErrNotExist
		}
	}

	switch n.Kind() {
	case wznode.KindCanvas:
		data, err := n.Png().Decode()
		if err != nil {
			return nil, err
		}
		return newLeafFile(n.Name(), data), nil
	case wznode.KindSound:
		data, err := n.Sound().Buffer()
		if err != nil {
			return nil, err
		}
		return newLeafFile(n.Name(), data), nil
	case wznode.KindLua:
		s, err := n.Script()
		if err != nil {
			return nil, err
		}
		return newLeafFile(n.Name(), []byte(s)), nil
	case wznode.KindValue:
		return newLeafFile(n.Name(), []byte(formatValue(n.Value()))), nil
	default:
		children, err := n.Children()
		if err != nil {
			return nil, err
		}
		return newDirFile(n.Name(), children), nil
	}
}

type nodeFileInfo struct {
	name  string
	size  int64
	isDir bool
}

func (fi nodeFileInfo) Name() string       { return fi.name }
func (fi nodeFileInfo) Size() int64        { return fi.size }
func (fi nodeFileInfo) Mode() os.FileMode {
	if fi.isDir {
		return os.ModeDir | 0555
	}
	return 0444
}
func (fi nodeFileInfo) ModTime() time.Time { return time.Time{} }
func (fi nodeFileInfo) IsDir() bool        { return fi.isDir }
func (fi nodeFileInfo) Sys() interface{}   { return nil }

type leafFile struct {
	*bytes.Reader
	info nodeFileInfo
}

func newLeafFile(name string, data []byte) *leafFile {
	return &leafFile{Reader: bytes.NewReader(data), info: nodeFileInfo{name: name, size: int64(len(data))}}
}

func (f *leafFile) Close() error                          { return nil }
func (f *leafFile) Readdir(count int) ([]os.FileInfo, error) { return nil, os.ErrInvalid }
func (f *leafFile) Stat() (os.FileInfo, error)             { return f.info, nil }

type dirFile struct {
	info    nodeFileInfo
	entries []os.FileInfo
	offset  int
}

func newDirFile(name string, children map[string]*wznode.Node) *dirFile {
	var names []string
	for childName := range children {
		names = append(names, childName)
	}
	sort.Strings(names)
	entries := make([]os.FileInfo, 0, len(names))
	for _, childName := range names {
		child := children[childName]
		isDir := true
		switch child.Kind() {
		case wznode.KindCanvas, wznode.KindSound, wznode.KindLua, wznode.KindValue:
			isDir = false
		}
		entries = append(entries, nodeFileInfo{name: childName, isDir: isDir})
	}
	return &dirFile{info: nodeFileInfo{name: name, isDir: true}, entries: entries}
}

func (d *dirFile) Read(p []byte) (int, error) { return 0, os.ErrInvalid }
func (d *dirFile) Close() error                { return nil }
func (d *dirFile) Seek(offset int64, whence int) (int64, error) {
	return 0, os.ErrInvalid
}
func (d *dirFile) Stat() (os.FileInfo, error) { return d.info, nil }

func (d *dirFile) Readdir(count int) ([]os.FileInfo, error) {
	if count <= 0 {
		out := d.entries[d.offset:]
		d.offset = len(d.entries)
		return out, nil
	}
	if d.offset >= len(d.entries) {
		return nil, os.ErrInvalid
	}
	end := d.offset + count
	if end > len(d.entries) {
		end = len(d.entries)
	}
	out := d.entries[d.offset:end]
	d.offset = end
	return out, nil
}

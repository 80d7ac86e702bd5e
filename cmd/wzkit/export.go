package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/cavaliercoder/go-cpio"
	"github.com/klauspost/pgzip"
	"golang.org/x/xerrors"

	"github.com/ossyrian/wzkit/internal/wznode"
	"github.com/ossyrian/wzkit/pb"
)

func cmdExport(ctx context.Context, args []string) error {
	fset := flag.NewFlagSet("export", flag.ExitOnError)
	iv := fset.String("iv", "", "region IV name; default: WZIV env var or auto-guess")
	format := fset.String("format", "proto", "output format: proto or cpio")
	out := fset.String("out", "", "output path (default: stdout)")
	gzip := fset.Bool("gzip", true, "gzip the cpio stream (ignored for -format=proto)")
	payload := fset.Bool("payload", false, "inline decoded canvas/sound/lua bytes (expensive for large subtrees)")
	fset.Parse(args)
	rest := fset.Args()
	if len(rest) < 1 {
		return xerrors.New("syntax: export [-format=proto|cpio] [-out=path] <file> [path]")
	}

	root, err := openTree(rest[0], *iv)
	if err != nil {
		return err
	}
	n := root
	if len(rest) >= 2 {
		n, err = root.AtPathParsed(rest[1])
		if err != nil {
			return err
		}
	}

	switch *format {
	case "proto":
		return exportProto(n, *out, *payload)
	case "cpio":
		return exportCpio(n, *out, *gzip)
	default:
		return xerrors.Errorf("wzkit export: unknown -format %q", *format)
	}
}

func exportProto(n *wznode.Node, out string, payload bool) error {
	tree, err := pb.ExportNode(n, pb.ExportOptions{IncludePayload: payload})
	if err != nil {
		return err
	}
	if out == "" {
		out = "/dev/stdout"
	}
	return pb.WriteNodeProtoFile(out, tree)
}

func exportCpio(n *wznode.Node, out string, gzipped bool) error {
	var buf bytes.Buffer
	wr := cpio.NewWriter(&buf)
	if err := writeCpioSubtree(wr, n, ""); err != nil {
		return err
	}
	if err := wr.Close(); err != nil {
		return err
	}

	var w interface {
		Write([]byte) (int, error)
		Close() error
	}
	var f *os.File
	if out == "" {
		f = os.Stdout
	} else {
		var err error
		f, err = os.Create(out)
		if err != nil {
			return err
		}
		defer f.Close()
	}

	if !gzipped {
		_, err := f.Write(buf.Bytes())
		return err
	}
	zw := pgzip.NewWriter(f)
	w = zw
	if _, err := w.Write(buf.Bytes()); err != nil {
		return err
	}
	return w.Close()
}

// writeCpioSubtree walks n, writing one cpio entry per leaf (canvas,
// sound, lua script, or scalar value) under name, and recursing into
// directories/images/properties otherwise.
func writeCpioSubtree(wr *cpio.Writer, n *wznode.Node, name string) error {
	if name == "" {
		name = n.Name()
	}

	var data []byte
	var leaf bool
	var err error
	switch n.Kind() {
	case wznode.KindCanvas:
		data, err = n.Png().Decode()
		leaf = true
	case wznode.KindSound:
		data, err = n.Sound().Buffer()
		leaf = true
	case wznode.KindLua:
		var s string
		s, err = n.Script()
		data = []byte(s)
		leaf = true
	case wznode.KindValue:
		data = []byte(formatValue(n.Value()))
		leaf = true
	}
	if err != nil {
		return err
	}
	if leaf {
		if err := wr.WriteHeader(&cpio.Header{
			Name: name,
			Mode: cpio.FileMode(0644),
			Size: int64(len(data)),
		}); err != nil {
			return err
		}
		_, err := wr.Write(data)
		return err
	}

	children, err := n.Children()
	if err != nil {
		return err
	}
	if err := wr.WriteHeader(&cpio.Header{
		Name: name,
		Mode: cpio.ModeDir | 0755,
	}); err != nil {
		return err
	}
	for childName, child := range children {
		if err := writeCpioSubtree(wr, child, fmt.Sprintf("%s/%s", name, childName)); err != nil {
			return err
		}
	}
	return nil
}

package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"

	"golang.org/x/xerrors"

	"github.com/ossyrian/wzkit/internal/wznode"
	"github.com/ossyrian/wzkit/internal/wzprop"
)

func cmdCat(ctx context.Context, args []string) error {
	fset := flag.NewFlagSet("cat", flag.ExitOnError)
	iv := fset.String("iv", "", "region IV name; default: WZIV env var or auto-guess")
	out := fset.String("out", "", "write binary leaves (canvas/sound) here instead of stdout")
	fset.Parse(args)
	rest := fset.Args()
	if len(rest) != 2 {
		return xerrors.New("syntax: cat <file> <path>")
	}

	root, err := openTree(rest[0], *iv)
	if err != nil {
		return err
	}
	n, err := root.AtPathParsed(rest[1])
	if err != nil {
		return err
	}

	switch n.Kind() {
	case wznode.KindCanvas:
		return catCanvas(n, *out)
	case wznode.KindSound:
		data, err := n.Sound().Buffer()
		if err != nil {
			return err
		}
		return writeOut(*out, data)
	case wznode.KindLua:
		s, err := n.Script()
		if err != nil {
			return err
		}
		return writeOut(*out, []byte(s))
	case wznode.KindValue:
		fmt.Println(formatValue(n.Value()))
		return nil
	default:
		return xerrors.Errorf("wzkit cat: %s is a %v, not a leaf", rest[1], n.Kind())
	}
}

func catCanvas(n *wznode.Node, out string) error {
	p := n.Png()
	pixels, err := p.Decode()
	if err != nil {
		return err
	}
	if out == "" {
		out = "/dev/stdout"
	}
	f, err := os.Create(out)
	if err != nil {
		return err
	}
	defer f.Close()

	img := image.NewRGBA(image.Rect(0, 0, int(p.Width), int(p.Height)))
	for y := 0; y < int(p.Height); y++ {
		for x := 0; x < int(p.Width); x++ {
			i := (y*int(p.Width) + x) * 4
			img.SetRGBA(x, y, color.RGBA{pixels[i], pixels[i+1], pixels[i+2], pixels[i+3]})
		}
	}
	return png.Encode(f, img)
}

func writeOut(path string, data []byte) error {
	if path == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func formatValue(v wzprop.Value) string {
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
		return fmt.Sprintf("<unknown kind %d>", v.Kind)
	}
}

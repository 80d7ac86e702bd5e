package main

import (
	"context"
	"flag"
	"log"

	"golang.org/x/xerrors"

	"github.com/ossyrian/wzkit/internal/wzfuse"
)

func cmdFuse(ctx context.Context, args []string) error {
	fset := flag.NewFlagSet("fuse", flag.ExitOnError)
	iv := fset.String("iv", "", "region IV name; default: WZIV env var or auto-guess")
	fset.Parse(args)
	rest := fset.Args()
	if len(rest) != 2 {
		return xerrors.New("syntax: fuse <file> <mountpoint>")
	}

	root, err := openTree(rest[0], *iv)
	if err != nil {
		return err
	}

	if err := bumpRlimitNOFILE(); err != nil {
		log.Printf("wzkit fuse: bump NOFILE rlimit: %v (continuing with the current limit)", err)
	}

	join, err := wzfuse.Mount(root, rest[1])
	if err != nil {
		return err
	}
	return join(ctx)
}

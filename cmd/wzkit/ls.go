package main

import (
	"context"
	"flag"
	"fmt"
	"sort"

	"golang.org/x/xerrors"
)

func cmdLs(ctx context.Context, args []string) error {
	fset := flag.NewFlagSet("ls", flag.ExitOnError)
	iv := fset.String("iv", "", "region IV name (GMS, KMS/EMS, BMS/Classic); default: WZIV env var or auto-guess")
	fset.Parse(args)
	rest := fset.Args()
	if len(rest) < 1 {
		return xerrors.New("syntax: ls <file> [path]")
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

	children, err := n.Children()
	if err != nil {
		return err
	}
	var names []string
	for name := range children {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("%-40s %v\n", name, children[name].Kind())
	}
	return nil
}

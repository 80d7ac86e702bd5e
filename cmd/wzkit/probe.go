package main

import (
	"context"
	"flag"
	"fmt"

	"golang.org/x/xerrors"

	"github.com/ossyrian/wzkit/internal/env"
	"github.com/ossyrian/wzkit/internal/wzcrypto"
	"github.com/ossyrian/wzkit/internal/wzfile"
)

func cmdProbe(ctx context.Context, args []string) error {
	fset := flag.NewFlagSet("probe", flag.ExitOnError)
	ivName := fset.String("iv", "", "region IV name; default: WZIV env var or auto-guess")
	fset.Parse(args)
	rest := fset.Args()
	if len(rest) != 1 {
		return xerrors.New("syntax: probe <file>")
	}

	var iv *wzcrypto.IV
	if *ivName != "" {
		for _, known := range wzcrypto.KnownIVs {
			if known.Name == *ivName {
				v := known.IV
				iv = &v
			}
		}
	} else if v, ok := env.IV(); ok {
		iv = &v
	}

	result, err := wzfile.OpenFile(rest[0], iv)
	if err != nil {
		return err
	}
	fmt.Printf("ident:       %v\n", result.Header.Ident)
	fmt.Printf("fsize:       %d\n", result.Header.FSize)
	fmt.Printf("fstart:      %d\n", result.Header.FStart)
	fmt.Printf("copyright:   %s\n", result.Header.Copyright)
	fmt.Printf("iv:          % x\n", result.IV)
	fmt.Printf("patch ver:   %d\n", result.PatchVer)
	fmt.Printf("version hash: %d\n", result.VersionHash)
	fmt.Printf("entries:     %d\n", len(result.Entries))
	return nil
}

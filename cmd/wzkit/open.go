package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/ossyrian/wzkit"
	"github.com/ossyrian/wzkit/internal/wzcrypto"
	"github.com/ossyrian/wzkit/internal/wznode"
)

// openTree opens path as an MS container if its name matches the MS
// split-file naming convention's data suffix, otherwise as a WZ container.
// MS containers carry no region IV; WZ containers take one from -iv or
// WZIV (see internal/env.IV).
func openTree(path string, ivName string) (*wznode.Node, error) {
	if strings.HasSuffix(strings.ToLower(path), ".ms") {
		return wzkit.OpenMS(path)
	}

	var iv *wzcrypto.IV
	if ivName != "" {
		for _, known := range wzcrypto.KnownIVs {
			if strings.EqualFold(known.Name, ivName) {
				v := known.IV
				iv = &v
				break
			}
		}
		if iv == nil {
			return nil, fmt.Errorf("unknown -iv %q", ivName)
		}
	}
	return wzkit.Open(path, iv)
}

func cmdOpen(ctx context.Context, args []string) error {
	path, _, err := openArg(args)
	if err != nil {
		return err
	}
	n, err := openTree(path, "")
	if err != nil {
		return err
	}
	fmt.Printf("%s: kind=%v\n", n.Name(), n.Kind())
	return nil
}

// Package wzkit opens WZ and MS game-asset containers and exposes their
// contents as a navigable node tree.
package wzkit

import (
	"github.com/ossyrian/wzkit/internal/env"
	"github.com/ossyrian/wzkit/internal/wzcrypto"
	"github.com/ossyrian/wzkit/internal/wzfile"
	"github.com/ossyrian/wzkit/internal/wzms"
	"github.com/ossyrian/wzkit/internal/wznode"
)

// Open parses a WZ container at path and returns the root of its node
// tree. If knownIV is nil, the region IV is taken from WZIV (see
// internal/env.IV) and otherwise guessed from the first directory entry.
func Open(path string, knownIV *wzcrypto.IV) (*wznode.Node, error) {
	if knownIV == nil {
		if iv, ok := env.IV(); ok {
			knownIV = &iv
		}
	}
	result, err := wzfile.OpenFile(path, knownIV)
	if err != nil {
		return nil, err
	}
	return wznode.NewFile(path, result), nil
}

// OpenMS parses an MS container at path and returns the root of its node
// tree. MS containers encode their own region key material per file and
// take no IV.
func OpenMS(path string) (*wznode.Node, error) {
	return wzms.Open(path)
}

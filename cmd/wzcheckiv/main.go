// Command wzcheckiv diagnoses which region IV a WZ container decodes
// correctly under: it lists internal/wzcrypto.KnownIVs and marks the first
// one for which wzfile.GuessIV decodes a plausible first directory entry
// name (GuessIV stops at that IV, so later IVs are not tried).
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/ossyrian/wzkit/internal/wzcrypto"
	"github.com/ossyrian/wzkit/internal/wzfile"
	"github.com/ossyrian/wzkit/internal/wzio"
)

func main() {
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "syntax: wzcheckiv <file.wz>")
		os.Exit(2)
	}

	if err := checkIV(flag.Arg(0)); err != nil {
		log.Fatal(err)
	}
}

func checkIV(path string) error {
	r, err := wzio.Open(path)
	if err != nil {
		return err
	}
	defer r.Close()

	h, err := wzfile.ReadHeader(r)
	if err != nil {
		return err
	}
	fmt.Printf("%s: ident=%v fsize=%d fstart=%d\n", path, h.Ident, h.FSize, h.FStart)

	guessed, ok := wzfile.GuessIV(r, h)
	for _, known := range wzcrypto.KnownIVs {
		mark := " "
		if ok && known.IV == guessed {
			mark = "*"
		}
		fmt.Printf(" %s %-12s % x\n", mark, known.Name, known.IV)
	}
	if !ok {
		fmt.Println("no known IV produced a plausible first entry name")
	}
	return nil
}

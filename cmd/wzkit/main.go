// Command wzkit opens a WZ or MS container and navigates, exports, or
// serves its decoded node tree.
package main

import (
	"context"
	"flag"
	"fmt"
	"io/ioutil"
	"log"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/mattn/go-isatty"
	"golang.org/x/sys/unix"
	"golang.org/x/xerrors"

	"github.com/ossyrian/wzkit"
)

var debug = flag.Bool("debug", false, "print verbose diagnostics, including full error frame chains")

type cmd struct {
	fn   func(ctx context.Context, args []string) error
	help string
}

var verbs map[string]cmd

func init() {
	verbs = map[string]cmd{
		"open":   {fn: cmdOpen, help: "open <file> — parse a container and print its root kind"},
		"ls":     {fn: cmdLs, help: "ls <file> [path] — list the children of a node"},
		"cat":    {fn: cmdCat, help: "cat <file> <path> — print a leaf node's decoded content"},
		"probe":  {fn: cmdProbe, help: "probe <file> — print the header, IV, and version this file probed to"},
		"export": {fn: cmdExport, help: "export [-format=proto|cpio] [-out=path] <file> [path] — serialize a subtree"},
		"fuse":   {fn: cmdFuse, help: "fuse <file> <mountpoint> — mount the tree as a read-only filesystem"},
		"serve":  {fn: cmdServe, help: "serve [-listen=:8080] <file> — serve decoded leaves over HTTP"},
		"help":   {fn: cmdHelp, help: "help — print this message"},
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "wzkit: open and inspect WZ/MS game-asset containers")
	fmt.Fprintln(os.Stderr, "\nverbs:")
	var names []string
	for name := range verbs {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(os.Stderr, "  %s\n", verbs[name].help)
	}
}

func cmdHelp(ctx context.Context, args []string) error {
	usage()
	return nil
}

// bumpRlimitNOFILE raises the open-file limit to the kernel maximum before a
// fuse mount, which can hold one descriptor per live node.
func bumpRlimitNOFILE() error {
	var fileMax, nrOpen uint64
	{
		b, err := ioutil.ReadFile("/proc/sys/fs/file-max")
		if err != nil {
			return err
		}
		fileMax, err = strconv.ParseUint(strings.TrimSpace(string(b)), 0, 64)
		if err != nil {
			return err
		}
	}
	{
		b, err := ioutil.ReadFile("/proc/sys/fs/nr_open")
		if err != nil {
			return err
		}
		nrOpen, err = strconv.ParseUint(strings.TrimSpace(string(b)), 0, 64)
		if err != nil {
			return err
		}
	}
	max := fileMax
	if nrOpen < max {
		max = nrOpen
	}
	set := unix.Rlimit{Max: max, Cur: max}
	return unix.Setrlimit(unix.RLIMIT_NOFILE, &set)
}

func logger() *log.Logger {
	prefix := "wzkit: "
	if isatty.IsTerminal(os.Stderr.Fd()) {
		prefix = "\033[1mwzkit:\033[0m "
	}
	return log.New(os.Stderr, prefix, 0)
}

func openArg(args []string) (string, []string, error) {
	if len(args) < 1 {
		return "", nil, xerrors.New("syntax: <file> [args...]")
	}
	return args[0], args[1:], nil
}

func funcmain() error {
	flag.Usage = usage
	flag.Parse()
	args := flag.Args()
	if len(args) == 0 {
		usage()
		return xerrors.New("wzkit: no verb given")
	}
	verb, rest := args[0], args[1:]
	v, ok := verbs[verb]
	if !ok {
		usage()
		return xerrors.Errorf("wzkit: unknown verb %q", verb)
	}

	ctx, canc := wzkit.InterruptibleContext()
	defer canc()

	err := v.fn(ctx, rest)
	if rerr := wzkit.RunAtExit(); rerr != nil && err == nil {
		err = rerr
	}
	if err != nil && *debug {
		return xerrors.Errorf("wzkit %s: %+v", verb, err)
	}
	return err
}

func main() {
	if err := funcmain(); err != nil {
		l := logger()
		if !*debug {
			l.Printf("%v", err)
		} else {
			l.Printf("%+v", err)
		}
		os.Exit(1)
	}
}

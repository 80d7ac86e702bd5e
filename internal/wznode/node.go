// Package wznode lazily materializes a parsed container into a navigable
// tree: directories resolve their subdirectories eagerly (as the on-disk
// format already nests them), images parse their property list on first
// touch, and UOL/_inlink/_outlink leaves resolve into live references
// elsewhere in the tree.
package wznode

import (
	"strings"
	"sync"

	"golang.org/x/xerrors"

	"github.com/ossyrian/wzkit/internal/wzdir"
	"github.com/ossyrian/wzkit/internal/wzfile"
	"github.com/ossyrian/wzkit/internal/wzio"
	"github.com/ossyrian/wzkit/internal/wzpng"
	"github.com/ossyrian/wzkit/internal/wzprop"
	"github.com/ossyrian/wzkit/internal/wzsound"
)

// Kind tags which payload fields of a Node are meaningful.
type Kind int

const (
	KindFile Kind = iota
	KindContainer
	KindDirectory
	KindImage
	KindProperty
	KindConvex
	KindCanvas
	KindSound
	KindLua
	KindValue
)

var kindNames = map[Kind]string{
	KindFile:      "file",
	KindContainer: "container",
	KindDirectory: "directory",
	KindImage:     "image",
	KindProperty:  "property",
	KindConvex:    "convex",
	KindCanvas:    "canvas",
	KindSound:     "sound",
	KindLua:       "lua",
	KindValue:     "value",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// Node is one entry in the decoded tree. Unlike the Arc<RwLock<..>>/Weak
// pair the format was originally modeled with, Go's garbage collector
// handles the parent/child reference cycle for free, so parent is an
// ordinary pointer rather than a weak reference — it carries the same
// "navigate, don't own" meaning without needing special-casing.
type Node struct {
	mu     sync.RWMutex
	name   string
	kind   Kind
	parent *Node

	children map[string]*Node

	file *wzfile.Result

	imgReader    *wzio.Reader
	imgOffset    int64
	imgBlockSize int64
	imgParsed    bool

	png   *wzpng.Png
	sound *wzsound.Sound

	luaReader *wzio.Reader
	luaOffset int64
	luaLength int64

	value wzprop.Value
}

// NewFile wraps an already-opened container as the root of a tree. Its
// top-level directory is not materialized until the first Parse call.
func NewFile(name string, result *wzfile.Result) *Node {
	return &Node{name: name, kind: KindFile, file: result}
}

func valueNode(name string, parent *Node, v wzprop.Value) *Node {
	return &Node{name: name, kind: KindValue, parent: parent, value: v}
}

// NewContainerRoot creates the root of a flat MS container tree: unlike a
// File node, its children are attached directly by the caller (via
// AttachChild) rather than resolved lazily from on-disk directory
// entries, since an MS container places every entry under one parent
// with no further nesting.
func NewContainerRoot(name string) *Node {
	return &Node{name: name, kind: KindContainer, children: make(map[string]*Node)}
}

// AttachChild adds child under n, reparenting it. Only meaningful on a
// KindContainer root built with NewContainerRoot.
func (n *Node) AttachChild(name string, child *Node) {
	n.mu.Lock()
	defer n.mu.Unlock()
	child.parent = n
	n.children[name] = child
}

// NewImageNode wraps an already-decrypted in-memory image buffer — an MS
// container entry, once its per-entry SNOW2 key has been applied — as an
// unparsed Image node, identical in every way from here on to an Image
// node sourced from a memory-mapped WZ directory entry.
func NewImageNode(name string, parent *Node, reader *wzio.Reader) *Node {
	return &Node{
		name:         name,
		kind:         KindImage,
		parent:       parent,
		imgReader:    reader,
		imgOffset:    0,
		imgBlockSize: reader.Len(),
	}
}

func (n *Node) Name() string { return n.name }
func (n *Node) Kind() Kind   { return n.kind }

// Parent returns the node's parent, or nil at the root.
func (n *Node) Parent() *Node {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.parent
}

// Value returns the node's leaf payload; only meaningful when Kind() ==
// KindValue.
func (n *Node) Value() wzprop.Value {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.value
}

// Png returns the node's canvas payload; only meaningful when Kind() ==
// KindCanvas.
func (n *Node) Png() *wzpng.Png {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.png
}

// Sound returns the node's sound payload; only meaningful when Kind() ==
// KindSound.
func (n *Node) Sound() *wzsound.Sound {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.sound
}

// Script decodes and returns the node's Lua source; only meaningful when
// Kind() == KindLua.
func (n *Node) Script() (string, error) {
	return extractLuaScript(n)
}

// Children returns a snapshot of the node's current children, parsing the
// node first if it hasn't been touched yet.
func (n *Node) Children() (map[string]*Node, error) {
	if err := n.Parse(); err != nil {
		return nil, err
	}
	n.mu.RLock()
	defer n.mu.RUnlock()
	out := make(map[string]*Node, len(n.children))
	for k, v := range n.children {
		out[k] = v
	}
	return out, nil
}

// Parse materializes this node's children if it hasn't happened yet.
// Directory nodes already have their children attached at construction
// time (nested directories are resolved eagerly, matching the upstream
// parser); only File (top-level directory) and Image nodes do real work
// here.
func (n *Node) Parse() error {
	n.mu.Lock()
	defer n.mu.Unlock()

	switch n.kind {
	case KindFile:
		if n.children != nil {
			return nil
		}
		n.children = buildChildrenFromEntries(n, n.file.Entries, n.file.Reader)
		return nil
	case KindImage:
		if n.imgParsed {
			return nil
		}
		children, err := parseImage(n)
		if err != nil {
			return err
		}
		n.children = children
		n.imgParsed = true
		return nil
	default:
		return nil
	}
}

// At returns the direct child named name, parsing this node first.
func (n *Node) At(name string) (*Node, bool) {
	children, err := n.Children()
	if err != nil {
		return nil, false
	}
	child, ok := children[name]
	return child, ok
}

// AtRelative resolves name against this node, treating ".." as a walk to
// the parent instead of a child lookup.
func (n *Node) AtRelative(name string) (*Node, bool) {
	if name == ".." {
		p := n.Parent()
		return p, p != nil
	}
	return n.At(name)
}

// AtPath walks a slash-separated path of direct children. Each step goes
// through At, which parses the node before looking up the child, so every
// intermediate directory/image on the path gets parsed; a path through a
// not-yet-parsed image is not reported as not found.
func (n *Node) AtPath(path string) (*Node, bool) {
	return walkPath(n, path, (*Node).At)
}

// AtPathRelative is AtPath with ".." treated as a parent walk at each
// component.
func (n *Node) AtPathRelative(path string) (*Node, bool) {
	return walkPath(n, path, (*Node).AtRelative)
}

func walkPath(start *Node, path string, step func(*Node, string) (*Node, bool)) (*Node, bool) {
	if path == "" {
		return nil, false
	}
	parts := strings.Split(path, "/")
	cur, ok := step(start, parts[0])
	if !ok {
		return nil, false
	}
	for _, name := range parts[1:] {
		cur, ok = step(cur, name)
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// AtPathParsed walks the same path as AtPath but calls Parse on every
// intermediate node explicitly and returns a parse failure as an error.
// Since At already parses before each lookup, both walks reach the same
// nodes; AtPath reports a parse failure as not found.
func (n *Node) AtPathParsed(path string) (*Node, error) {
	if path == "" {
		return nil, xerrors.New("wznode: empty path")
	}
	parts := strings.Split(path, "/")

	cur, ok := n.At(parts[0])
	if !ok {
		return nil, xerrors.Errorf("wznode: %q not found", parts[0])
	}
	for _, name := range parts[1:] {
		if err := cur.Parse(); err != nil {
			return nil, err
		}
		next, ok := cur.At(name)
		if !ok {
			return nil, xerrors.Errorf("wznode: %q not found", name)
		}
		cur = next
	}
	return cur, nil
}

// FilterParent walks ancestors until pred matches, returning nil if the
// root is reached without a match.
func (n *Node) FilterParent(pred func(*Node) bool) *Node {
	for p := n.Parent(); p != nil; p = p.Parent() {
		if pred(p) {
			return p
		}
	}
	return nil
}

// ParentWzImage returns the nearest ancestor that is an Image node.
func (n *Node) ParentWzImage() *Node {
	return n.FilterParent(func(p *Node) bool { return p.Kind() == KindImage })
}

// BaseWzFile returns the nearest ancestor that is a File node named
// "Base" — the root _outlink paths are resolved against.
func (n *Node) BaseWzFile() *Node {
	return n.FilterParent(func(p *Node) bool { return p.Kind() == KindFile && p.Name() == "Base" })
}

// TransferChildren moves all of n's children onto to, reparenting them and
// leaving n with none.
func (n *Node) TransferChildren(to *Node) {
	n.mu.Lock()
	moved := n.children
	n.children = nil
	n.mu.Unlock()

	to.mu.Lock()
	defer to.mu.Unlock()
	if to.children == nil {
		to.children = make(map[string]*Node, len(moved))
	}
	for name, child := range moved {
		child.mu.Lock()
		child.parent = to
		child.mu.Unlock()
		to.children[name] = child
	}
}

func buildChildrenFromEntries(parent *Node, entries []wzdir.Entry, reader *wzio.Reader) map[string]*Node {
	out := make(map[string]*Node, len(entries))
	for _, e := range entries {
		child := &Node{name: e.Name, parent: parent}
		switch e.Kind {
		case wzdir.KindDirectory:
			child.kind = KindDirectory
			child.children = buildChildrenFromEntries(child, e.Children, reader)
		case wzdir.KindImage:
			child.kind = KindImage
			child.imgReader = reader
			child.imgOffset = e.Offset
			child.imgBlockSize = e.Size
		}
		out[e.Name] = child
	}
	return out
}

package wznode

import (
	"sync"

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"github.com/ossyrian/wzkit/internal/wzprop"
)

// linkVisit tracks the chain of nodes a single UOL resolution (ResolveUOL)
// has walked through, as a small directed graph of node
// identities. Building the graph incrementally and asking topo.CyclesIn
// whether it now contains a cycle bounds the revisit case the format
// leaves undefined, rather than looping forever on a self-referential
// link chain.
type linkVisit struct {
	mu    sync.Mutex
	ids   map[*Node]int64
	next  int64
	graph *simple.DirectedGraph
}

func newLinkVisit() *linkVisit {
	return &linkVisit{ids: make(map[*Node]int64), graph: simple.NewDirectedGraph()}
}

func (v *linkVisit) idFor(n *Node) int64 {
	if id, ok := v.ids[n]; ok {
		return id
	}
	id := v.next
	v.next++
	v.ids[n] = id
	v.graph.AddNode(simple.Node(id))
	return id
}

// step records that from resolved to, returning false if doing so would
// close a cycle (to revisits a node already on the chain).
func (v *linkVisit) step(from, to *Node) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	fromID := v.idFor(from)
	toID := v.idFor(to)
	v.graph.SetEdge(v.graph.NewEdge(simple.Node(fromID), simple.Node(toID)))

	return len(topo.CyclesIn(v.graph)) == 0
}

// ResolveInlink follows a UOL/_inlink leaf's string payload as a path
// relative to the nearest ancestor Image. Returns nil (not an error) when
// the leaf isn't a string-backed value, the path doesn't resolve, or the
// nearest ancestor Image is missing — matching the container's
// "absent is not an error" convention for link targets.
func ResolveInlink(from *Node, leaf *Node) *Node {
	path, ok := linkPath(leaf)
	if !ok {
		return nil
	}
	img := from.ParentWzImage()
	if img == nil {
		return nil
	}
	target, ok := img.AtPath(path)
	if !ok {
		return nil
	}
	return target
}

// ResolveOutlink follows a UOL/_outlink leaf's string payload as a path
// relative to the nearest ancestor File named "Base". forceParse selects
// AtPathParsed over AtPath; both parse intermediate directories/images as
// the path is walked (At parses before each lookup), so forceParse does not
// change which nodes can be reached.
func ResolveOutlink(from *Node, leaf *Node, forceParse bool) *Node {
	path, ok := linkPath(leaf)
	if !ok {
		return nil
	}
	base := from.BaseWzFile()
	if base == nil {
		return nil
	}
	if forceParse {
		target, err := base.AtPathParsed(path)
		if err != nil {
			return nil
		}
		return target
	}
	target, ok := base.AtPath(path)
	if !ok {
		return nil
	}
	return target
}

func linkPath(leaf *Node) (string, bool) {
	if leaf.Kind() != KindValue {
		return "", false
	}
	v := leaf.Value()
	if v.Kind != wzprop.KindString && v.Kind != wzprop.KindUOL {
		return "", false
	}
	path, err := v.ResolveString()
	if err != nil {
		return "", false
	}
	return path, true
}

// resolveUOLPathFrom walks a UOL's path starting at the UOL's own parent
// (not the nearest ancestor Image or the Base file, as _inlink/_outlink do):
// each "/"-separated component of the path steps to a sibling, and ".."
// steps back up to a grandparent, exactly as if the path had been appended
// to the UOL's own location and then resolved relative to it.
func resolveUOLPathFrom(uol *Node) *Node {
	path, ok := linkPath(uol)
	if !ok {
		return nil
	}
	parent := uol.Parent()
	if parent == nil {
		return nil
	}
	target, ok := parent.AtPathRelative(path)
	if !ok {
		return nil
	}
	return target
}

// ResolveUOL replaces a UOL leaf in its parent's children map with a live
// reference to the node its path resolves to, under the weaker of the two
// locks involved (only the direct parent is locked, avoiding a deadlock
// against whatever else is concurrently parsing the image). visit tracks the
// chain across repeated calls so a UOL pointing through another UOL can't
// loop forever; pass a fresh newLinkVisit() per top-level resolution.
func ResolveUOL(parent *Node, name string, uol *Node, visit *linkVisit) *Node {
	target := resolveUOLPathFrom(uol)
	if target == nil {
		return nil
	}
	if visit == nil {
		visit = newLinkVisit()
	}
	if !visit.step(uol, target) {
		return nil
	}

	// Chase through a target that is itself a UOL, bounded by the cycle
	// check above.
	if target.Kind() == KindValue && target.Value().Kind == wzprop.KindUOL {
		if nested := ResolveUOL(parent, name, target, visit); nested != nil {
			target = nested
		}
	}

	parent.mu.Lock()
	defer parent.mu.Unlock()
	if parent.children == nil {
		parent.children = make(map[string]*Node)
	}
	parent.children[name] = target
	return target
}

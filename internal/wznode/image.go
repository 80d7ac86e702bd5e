package wznode

import (
	"strings"

	"golang.org/x/xerrors"
)

const (
	imageHeaderWithoutOffset = 0x73
	imageHeaderWithOffset    = 0x1B
	imageHeaderLua           = 0x01
)

// parseImage reads an Image node's header byte and dispatches into either
// a Lua script leaf or a property-list parse, matching the upstream
// WzImage::resolve_children dispatch.
func parseImage(n *Node) (map[string]*Node, error) {
	r := n.imgReader
	c := r.NewCursor(n.imgOffset)

	headerByte, err := c.U8()
	if err != nil {
		return nil, xerrors.Errorf("wznode: read image header: %w", err)
	}

	switch headerByte {
	case imageHeaderLua:
		if !strings.HasSuffix(n.name, ".lua") {
			return nil, xerrors.Errorf("wznode: image %q: lua header on non-.lua image", n.name)
		}
		length, err := c.WzInt()
		if err != nil {
			return nil, xerrors.Errorf("wznode: read lua length: %w", err)
		}
		offset := c.Pos()
		scriptNode := &Node{
			name:      "Script",
			kind:      KindLua,
			parent:    n,
			luaReader: r,
			luaOffset: offset,
			luaLength: int64(length),
		}
		return map[string]*Node{"Script": scriptNode}, nil
	case imageHeaderWithoutOffset:
		name, err := c.WzString()
		if err != nil {
			return nil, xerrors.Errorf("wznode: read image property name: %w", err)
		}
		value, err := c.U16()
		if err != nil {
			return nil, xerrors.Errorf("wznode: read image property marker: %w", err)
		}
		if name != "Property" && value != 0 {
			return nil, xerrors.Errorf("wznode: image %q: unexpected property header %q/%d", n.name, name, value)
		}
	default:
		return nil, xerrors.Errorf("wznode: image %q: unknown header byte %#x", n.name, headerByte)
	}

	return parsePropertyList(n, r, c, n.imgOffset)
}

// extractLuaScript decodes a Lua node's source, applying the same
// incrementing XOR mask used on every other leaf payload in the container
// (starting at 0xAA, matching the upstream's still-experimental decoder).
func extractLuaScript(n *Node) (string, error) {
	if n.kind != KindLua {
		return "", xerrors.New("wznode: not a Lua node")
	}
	raw, err := n.luaReader.NewCursor(n.luaOffset).Bytes(int(n.luaLength))
	if err != nil {
		return "", err
	}
	out := make([]byte, len(raw))
	for i, b := range raw {
		out[i] = b ^ byte(i+0xAA)
	}
	return string(out), nil
}

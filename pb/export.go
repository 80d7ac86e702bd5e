package pb

import (
	"github.com/ossyrian/wzkit/internal/wzprop"
	"github.com/ossyrian/wzkit/internal/wznode"
)

var nodeKind = map[wznode.Kind]NodeProto_Kind{
	wznode.KindFile:      NodeProto_FILE,
	wznode.KindContainer: NodeProto_CONTAINER,
	wznode.KindDirectory: NodeProto_DIRECTORY,
	wznode.KindImage:     NodeProto_IMAGE,
	wznode.KindProperty:  NodeProto_PROPERTY,
	wznode.KindConvex:    NodeProto_CONVEX,
	wznode.KindCanvas:    NodeProto_CANVAS,
	wznode.KindSound:     NodeProto_SOUND,
	wznode.KindLua:       NodeProto_LUA,
}

var valueKind = map[wzprop.Kind]NodeProto_Kind{
	wzprop.KindNull:    NodeProto_NULL,
	wzprop.KindShort:   NodeProto_SHORT,
	wzprop.KindInt:     NodeProto_INT,
	wzprop.KindLong:    NodeProto_LONG,
	wzprop.KindFloat:   NodeProto_FLOAT,
	wzprop.KindDouble:  NodeProto_DOUBLE,
	wzprop.KindString:  NodeProto_STRING,
	wzprop.KindVector:  NodeProto_VECTOR,
	wzprop.KindUOL:     NodeProto_STRING,
	wzprop.KindRawData: NodeProto_RAW_DATA,
}

// ExportOptions controls how much payload a tree walk inlines.
type ExportOptions struct {
	// IncludePayload decodes and inlines Canvas/Sound/Lua/RawData bytes
	// into NodeProto.Payload. Off by default since decoding every canvas
	// in a large subtree is expensive; callers that only want the tree
	// shape (names, kinds, scalar values) should leave this false.
	IncludePayload bool
}

// ExportNode walks n and its descendants into a NodeProto tree, matching
// the shape internal/wznode.Kind and internal/wzprop.Kind already define.
func ExportNode(n *wznode.Node, opts ExportOptions) (*NodeProto, error) {
	out := &NodeProto{Name: n.Name()}

	if k, ok := nodeKind[n.Kind()]; ok {
		out.Kind = k
	}

	switch n.Kind() {
	case wznode.KindValue:
		v := n.Value()
		if k, ok := valueKind[v.Kind]; ok {
			out.Kind = k
		}
		switch v.Kind {
		case wzprop.KindShort:
			out.IntValue = int64(v.Short)
		case wzprop.KindInt:
			out.IntValue = int64(v.Int)
		case wzprop.KindLong:
			out.IntValue = v.Long
		case wzprop.KindFloat:
			out.FloatValue = float64(v.Float)
		case wzprop.KindDouble:
			out.FloatValue = v.Double
		case wzprop.KindString, wzprop.KindUOL:
			s, err := v.ResolveString()
			if err != nil {
				return nil, err
			}
			out.StringValue = s
		case wzprop.KindVector:
			out.VectorX, out.VectorY = v.VectorX, v.VectorY
		case wzprop.KindRawData:
			if opts.IncludePayload {
				raw, err := v.RawDataReader.NewCursor(v.RawDataOffset).Bytes(int(v.RawDataSize))
				if err != nil {
					return nil, err
				}
				out.Payload = raw
			}
		}
		return out, nil
	case wznode.KindCanvas:
		if opts.IncludePayload {
			data, err := n.Png().Decode()
			if err != nil {
				return nil, err
			}
			out.Payload = data
		}
		return out, nil
	case wznode.KindSound:
		if opts.IncludePayload {
			data, err := n.Sound().Buffer()
			if err != nil {
				return nil, err
			}
			out.Payload = data
		}
		return out, nil
	case wznode.KindLua:
		if opts.IncludePayload {
			s, err := n.Script()
			if err != nil {
				return nil, err
			}
			out.Payload = []byte(s)
		}
		return out, nil
	}

	children, err := n.Children()
	if err != nil {
		return nil, err
	}
	for name, child := range children {
		cp, err := ExportNode(child, opts)
		if err != nil {
			return nil, err
		}
		cp.Name = name
		out.Children = append(out.Children, cp)
	}
	return out, nil
}

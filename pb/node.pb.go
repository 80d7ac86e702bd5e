// Code generated by protoc-gen-go from node.proto; hand-maintained here
// since this module vendors no protoc toolchain. Keep in sync with
// node.proto.
package pb

import (
	"fmt"

	"github.com/golang/protobuf/proto"
)

type NodeProto_Kind int32

const (
	NodeProto_FILE      NodeProto_Kind = 0
	NodeProto_CONTAINER NodeProto_Kind = 1
	NodeProto_DIRECTORY NodeProto_Kind = 2
	NodeProto_IMAGE     NodeProto_Kind = 3
	NodeProto_PROPERTY  NodeProto_Kind = 4
	NodeProto_CONVEX    NodeProto_Kind = 5
	NodeProto_CANVAS    NodeProto_Kind = 6
	NodeProto_SOUND     NodeProto_Kind = 7
	NodeProto_LUA       NodeProto_Kind = 8
	NodeProto_NULL      NodeProto_Kind = 9
	NodeProto_SHORT     NodeProto_Kind = 10
	NodeProto_INT       NodeProto_Kind = 11
	NodeProto_LONG      NodeProto_Kind = 12
	NodeProto_FLOAT     NodeProto_Kind = 13
	NodeProto_DOUBLE    NodeProto_Kind = 14
	NodeProto_STRING    NodeProto_Kind = 15
	NodeProto_VECTOR    NodeProto_Kind = 16
	NodeProto_RAW_DATA  NodeProto_Kind = 17
)

var nodeProtoKindName = map[NodeProto_Kind]string{
	NodeProto_FILE:      "FILE",
	NodeProto_CONTAINER: "CONTAINER",
	NodeProto_DIRECTORY: "DIRECTORY",
	NodeProto_IMAGE:     "IMAGE",
	NodeProto_PROPERTY:  "PROPERTY",
	NodeProto_CONVEX:    "CONVEX",
	NodeProto_CANVAS:    "CANVAS",
	NodeProto_SOUND:     "SOUND",
	NodeProto_LUA:       "LUA",
	NodeProto_NULL:      "NULL",
	NodeProto_SHORT:     "SHORT",
	NodeProto_INT:       "INT",
	NodeProto_LONG:      "LONG",
	NodeProto_FLOAT:     "FLOAT",
	NodeProto_DOUBLE:    "DOUBLE",
	NodeProto_STRING:    "STRING",
	NodeProto_VECTOR:    "VECTOR",
	NodeProto_RAW_DATA:  "RAW_DATA",
}

func (k NodeProto_Kind) String() string {
	if s, ok := nodeProtoKindName[k]; ok {
		return s
	}
	return fmt.Sprintf("NodeProto_Kind(%d)", k)
}

// NodeProto is the wire message for one node and its subtree, mirroring
// internal/wznode.Kind and internal/wzprop.Kind.
type NodeProto struct {
	Name        string         `protobuf:"bytes,1,opt,name=name,proto3" json:"name,omitempty"`
	Kind        NodeProto_Kind `protobuf:"varint,2,opt,name=kind,proto3,enum=pb.NodeProto_Kind" json:"kind,omitempty"`
	Children    []*NodeProto   `protobuf:"bytes,3,rep,name=children,proto3" json:"children,omitempty"`
	IntValue    int64          `protobuf:"varint,4,opt,name=int_value,json=intValue,proto3" json:"int_value,omitempty"`
	FloatValue  float64        `protobuf:"fixed64,5,opt,name=float_value,json=floatValue,proto3" json:"float_value,omitempty"`
	StringValue string         `protobuf:"bytes,6,opt,name=string_value,json=stringValue,proto3" json:"string_value,omitempty"`
	VectorX     int32          `protobuf:"varint,7,opt,name=vector_x,json=vectorX,proto3" json:"vector_x,omitempty"`
	VectorY     int32          `protobuf:"varint,8,opt,name=vector_y,json=vectorY,proto3" json:"vector_y,omitempty"`
	Payload     []byte         `protobuf:"bytes,9,opt,name=payload,proto3" json:"payload,omitempty"`

	XXX_NoUnkeyedLiteral struct{} `json:"-"`
	XXX_unrecognized     []byte   `json:"-"`
	XXX_sizecache        int32    `json:"-"`
}

func (m *NodeProto) Reset()         { *m = NodeProto{} }
func (m *NodeProto) String() string { return proto.CompactTextString(m) }
func (*NodeProto) ProtoMessage()    {}

func (m *NodeProto) GetName() string {
	if m != nil {
		return m.Name
	}
	return ""
}

func (m *NodeProto) GetKind() NodeProto_Kind {
	if m != nil {
		return m.Kind
	}
	return NodeProto_FILE
}

func (m *NodeProto) GetChildren() []*NodeProto {
	if m != nil {
		return m.Children
	}
	return nil
}

func (m *NodeProto) GetPayload() []byte {
	if m != nil {
		return m.Payload
	}
	return nil
}

func init() {
	proto.RegisterType((*NodeProto)(nil), "pb.NodeProto")

	valToName := make(map[int32]string, len(nodeProtoKindName))
	nameToVal := make(map[string]int32, len(nodeProtoKindName))
	for k, name := range nodeProtoKindName {
		valToName[int32(k)] = name
		nameToVal[name] = int32(k)
	}
	proto.RegisterEnum("pb.NodeProto_Kind", valToName, nameToVal)
}

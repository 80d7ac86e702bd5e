package pb

import (
	"bytes"
	"os"
	"sync"

	"github.com/golang/protobuf/proto"
)

var nodeWriteBufPool = sync.Pool{
	New: func() interface{} {
		return &bytes.Buffer{}
	},
}

// WriteNodeProtoTextFile writes node in protobuf text format to path,
// the counterpart ReadNodeProtoTextFile reads back.
func WriteNodeProtoTextFile(path string, node *NodeProto) error {
	b := nodeWriteBufPool.Get().(*bytes.Buffer)
	b.Reset()
	defer nodeWriteBufPool.Put(b)

	if err := proto.MarshalText(b, node); err != nil {
		return err
	}
	return os.WriteFile(path, b.Bytes(), 0644)
}

// WriteNodeProtoFile writes node in binary protobuf wire format to path.
func WriteNodeProtoFile(path string, node *NodeProto) error {
	data, err := proto.Marshal(node)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

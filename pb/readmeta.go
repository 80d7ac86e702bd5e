package pb

import (
	"bytes"
	"io"
	"os"
	"sync"

	"github.com/golang/protobuf/proto"
)

var nodeReadBufPool = sync.Pool{
	New: func() interface{} {
		return &bytes.Buffer{}
	},
}

// ReadNodeProtoTextFile reads a text-format NodeProto tree previously
// written by WriteNodeProtoTextFile. (`wzkit export -format=proto` writes
// the binary wire format through WriteNodeProtoFile, which this does not
// read.)
func ReadNodeProtoTextFile(path string) (*NodeProto, error) {
	var node NodeProto
	b := nodeReadBufPool.Get().(*bytes.Buffer)
	b.Reset()
	defer nodeReadBufPool.Put(b)
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	if _, err := io.Copy(b, f); err != nil {
		return nil, err
	}
	if err := proto.UnmarshalText(b.String(), &node); err != nil {
		return nil, err
	}
	return &node, nil
}

// Package wzprop defines the leaf value vocabulary produced by the image
// property parser: the scalar/string/vector/link/raw-data variants a
// Value node in the node tree can hold.
package wzprop

import "github.com/ossyrian/wzkit/internal/wzio"

// Kind tags which field of a Value is meaningful.
type Kind int

const (
	KindNull Kind = iota
	KindShort
	KindInt
	KindLong
	KindFloat
	KindDouble
	KindString
	KindVector
	KindUOL
	KindRawData
)

// Value is a leaf property value. Only the field matching Kind is valid;
// typed accessors built on top of this (see internal/wznode) return an
// absent result rather than an error when Kind doesn't match, per the
// container's "wrong-type access is not an error" convention.
type Value struct {
	Kind Kind

	Short  int16
	Int    int32
	Long   int64
	Float  float32
	Double float64

	// String backs both KindString and KindUOL — UOL leaves are stored
	// exactly like strings until wznode resolves and replaces them.
	String wzio.StringMeta

	VectorX, VectorY int32

	RawDataReader *wzio.Reader
	RawDataOffset int64
	RawDataSize   int64
}

// ResolveString decodes the backing StringMeta for KindString/KindUOL
// values.
func (v Value) ResolveString() (string, error) {
	return v.String.Resolve()
}

package wznode

import (
	"strconv"

	"golang.org/x/xerrors"

	"github.com/ossyrian/wzkit/internal/wzio"
	"github.com/ossyrian/wzkit/internal/wzpng"
	"github.com/ossyrian/wzkit/internal/wzprop"
	"github.com/ossyrian/wzkit/internal/wzsound"
)

const (
	extHeaderWithOffset    = imageHeaderWithOffset
	extHeaderWithoutOffset = imageHeaderWithoutOffset
)

// parsePropertyList reads a count-prefixed list of named properties,
// recursing into nested property lists/extended types as each entry's tag
// demands.
func parsePropertyList(parent *Node, r *wzio.Reader, c *wzio.Cursor, originOffset int64) (map[string]*Node, error) {
	count, err := c.WzInt()
	if err != nil {
		return nil, xerrors.Errorf("wznode: read property count: %w", err)
	}
	out := make(map[string]*Node, count)

	for i := int32(0); i < count; i++ {
		name, err := c.WzStringBlock(originOffset)
		if err != nil {
			return nil, xerrors.Errorf("wznode: read property name: %w", err)
		}
		propType, err := c.U8()
		if err != nil {
			return nil, xerrors.Errorf("wznode: read property type: %w", err)
		}
		childName, child, err := parsePropertyNode(name, propType, parent, r, c, originOffset)
		if err != nil {
			return nil, err
		}
		out[childName] = child
	}

	return out, nil
}

// parsePropertyNode dispatches a single property-list entry by its tag
// byte into a leaf Value node or (tag 9) an extended property.
func parsePropertyNode(name string, propType byte, parent *Node, r *wzio.Reader, c *wzio.Cursor, originOffset int64) (string, *Node, error) {
	switch propType {
	case 0:
		return name, valueNode(name, parent, wzprop.Value{Kind: wzprop.KindNull}), nil
	case 2, 11:
		num, err := c.I16()
		if err != nil {
			return "", nil, xerrors.Errorf("wznode: read short: %w", err)
		}
		return name, valueNode(name, parent, wzprop.Value{Kind: wzprop.KindShort, Short: num}), nil
	case 3, 19:
		num, err := c.WzInt()
		if err != nil {
			return "", nil, xerrors.Errorf("wznode: read int: %w", err)
		}
		return name, valueNode(name, parent, wzprop.Value{Kind: wzprop.KindInt, Int: num}), nil
	case 20:
		num, err := c.WzLong()
		if err != nil {
			return "", nil, xerrors.Errorf("wznode: read long: %w", err)
		}
		return name, valueNode(name, parent, wzprop.Value{Kind: wzprop.KindLong, Long: num}), nil
	case 4:
		floatType, err := c.U8()
		if err != nil {
			return "", nil, xerrors.Errorf("wznode: read float tag: %w", err)
		}
		var f float32
		if floatType == 0x80 {
			f, err = c.F32()
			if err != nil {
				return "", nil, xerrors.Errorf("wznode: read float: %w", err)
			}
		} else {
			f = float32(int8(floatType))
		}
		return name, valueNode(name, parent, wzprop.Value{Kind: wzprop.KindFloat, Float: f}), nil
	case 5:
		d, err := c.F64()
		if err != nil {
			return "", nil, xerrors.Errorf("wznode: read double: %w", err)
		}
		return name, valueNode(name, parent, wzprop.Value{Kind: wzprop.KindDouble, Double: d}), nil
	case 8:
		meta, err := c.WzStringBlockMeta(originOffset)
		if err != nil {
			return "", nil, xerrors.Errorf("wznode: read string: %w", err)
		}
		return name, valueNode(name, parent, wzprop.Value{Kind: wzprop.KindString, String: meta}), nil
	case 9:
		blockSize, err := c.U32()
		if err != nil {
			return "", nil, xerrors.Errorf("wznode: read extended block size: %w", err)
		}
		nextPos := c.Pos() + int64(blockSize)
		childName, child, err := parseExtendedProp(parent, r, c, nextPos, originOffset, name)
		if err != nil {
			return "", nil, err
		}
		c.Seek(nextPos)
		return childName, child, nil
	default:
		return "", nil, xerrors.Errorf("wznode: unknown property type %d at pos %d", propType, c.Pos())
	}
}

// parseExtendedProp reads the extended-type name header (tag 9's payload)
// either inline or via an indirect offset, then dispatches to parseMore.
func parseExtendedProp(parent *Node, r *wzio.Reader, c *wzio.Cursor, endOfBlock int64, originOffset int64, propertyName string) (string, *Node, error) {
	extType, err := c.U8()
	if err != nil {
		return "", nil, xerrors.Errorf("wznode: read extended type tag: %w", err)
	}
	switch extType {
	case 0x01, extHeaderWithOffset:
		nameOffset, err := c.I32()
		if err != nil {
			return "", nil, xerrors.Errorf("wznode: read extended type name offset: %w", err)
		}
		typeName, err := r.WzStringAt(originOffset + int64(nameOffset))
		if err != nil {
			return "", nil, xerrors.Errorf("wznode: read extended type name: %w", err)
		}
		return parseMore(parent, r, c, endOfBlock, originOffset, propertyName, typeName)
	case 0x00, extHeaderWithoutOffset:
		return parseMore(parent, r, c, endOfBlock, originOffset, propertyName, "")
	default:
		return "", nil, xerrors.Errorf("wznode: unknown extended header tag %#x at pos %d", extType, c.Pos())
	}
}

// parseMore is the extended-type-name dispatch: Property/Convex/Canvas and
// the leaf extended types (Vector2D, Sound_DX8, UOL, RawData).
func parseMore(parent *Node, r *wzio.Reader, c *wzio.Cursor, endOfBlock int64, originOffset int64, propertyName string, extendType string) (string, *Node, error) {
	if extendType == "" {
		t, err := c.WzString()
		if err != nil {
			return "", nil, xerrors.Errorf("wznode: read extended type name: %w", err)
		}
		extendType = t
	}

	switch extendType {
	case "Property":
		node := &Node{name: propertyName, kind: KindProperty, parent: parent}
		c.Skip(2)
		children, err := parsePropertyList(node, r, c, originOffset)
		if err != nil {
			return "", nil, err
		}
		node.children = children
		return propertyName, node, nil

	case "Canvas":
		c.Skip(1)
		hasChildByte, err := c.U8()
		if err != nil {
			return "", nil, xerrors.Errorf("wznode: read canvas child flag: %w", err)
		}
		// A Canvas node's Children map is independent of its payload: the
		// node stays a property container for these optional sub-props
		// even after its payload below is overwritten to a PNG.
		node := &Node{name: propertyName, kind: KindProperty, parent: parent}
		if hasChildByte == 1 {
			c.Skip(2)
			children, err := parsePropertyList(node, r, c, originOffset)
			if err != nil {
				return "", nil, err
			}
			node.children = children
		}

		width, err := c.WzInt()
		if err != nil {
			return "", nil, xerrors.Errorf("wznode: read canvas width: %w", err)
		}
		height, err := c.WzInt()
		if err != nil {
			return "", nil, xerrors.Errorf("wznode: read canvas height: %w", err)
		}
		format1, err := c.WzInt()
		if err != nil {
			return "", nil, xerrors.Errorf("wznode: read canvas format1: %w", err)
		}
		format2Byte, err := c.U8()
		if err != nil {
			return "", nil, xerrors.Errorf("wznode: read canvas format2: %w", err)
		}
		format2 := int32(int8(format2Byte))
		c.Skip(4)
		sliceSizeRaw, err := c.I32()
		if err != nil {
			return "", nil, xerrors.Errorf("wznode: read canvas slice size: %w", err)
		}
		sliceSize := int64(sliceSizeRaw) - 1
		c.Skip(1)
		canvasOffset := c.Pos()
		canvasHeader, err := c.U16()
		if err != nil {
			return "", nil, xerrors.Errorf("wznode: read canvas header: %w", err)
		}

		node.kind = KindCanvas
		node.png = wzpng.New(r, width, height, format1, format2, canvasOffset, sliceSize, canvasHeader)

		return propertyName, node, nil

	case "Shape2D#Convex2D":
		node := &Node{name: propertyName, kind: KindConvex, parent: parent}
		entryCount, err := c.WzInt()
		if err != nil {
			return "", nil, xerrors.Errorf("wznode: read convex entry count: %w", err)
		}
		children := make(map[string]*Node, entryCount)
		for i := int32(0); i < entryCount; i++ {
			childName := strconv.Itoa(int(i))
			_, child, err := parseExtendedProp(node, r, c, endOfBlock, originOffset, childName)
			if err != nil {
				return "", nil, err
			}
			children[childName] = child
		}
		node.children = children
		return propertyName, node, nil

	case "Shape2D#Vector2D":
		x, err := c.WzInt()
		if err != nil {
			return "", nil, xerrors.Errorf("wznode: read vector x: %w", err)
		}
		y, err := c.WzInt()
		if err != nil {
			return "", nil, xerrors.Errorf("wznode: read vector y: %w", err)
		}
		return propertyName, valueNode(propertyName, parent, wzprop.Value{Kind: wzprop.KindVector, VectorX: x, VectorY: y}), nil

	case "Sound_DX8":
		c.Skip(1)
		soundSizeRaw, err := c.WzInt()
		if err != nil {
			return "", nil, xerrors.Errorf("wznode: read sound size: %w", err)
		}
		soundSize := uint32(soundSizeRaw)
		durationRaw, err := c.WzInt()
		if err != nil {
			return "", nil, xerrors.Errorf("wznode: read sound duration: %w", err)
		}
		duration := uint32(durationRaw)
		soundOffset := endOfBlock - int64(soundSize)
		headerOffset := c.Pos()
		headerSize := soundOffset - headerOffset
		if headerSize < 0 {
			return "", nil, xerrors.Errorf("wznode: sound %q: negative header size", propertyName)
		}
		headerBytes, err := r.NewCursor(headerOffset).Bytes(int(headerSize))
		if err != nil {
			return "", nil, xerrors.Errorf("wznode: read sound header bytes: %w", err)
		}
		soundType := wzsound.ClassifyType(headerBytes, soundSize, duration)
		snd := wzsound.New(r, soundOffset, soundSize, headerOffset, headerSize, duration, soundType)
		node := &Node{name: propertyName, kind: KindSound, parent: parent, sound: snd}
		return propertyName, node, nil

	case "UOL":
		c.Skip(1)
		meta, err := c.WzStringBlockMeta(originOffset)
		if err != nil {
			return "", nil, xerrors.Errorf("wznode: read UOL string: %w", err)
		}
		return propertyName, valueNode(propertyName, parent, wzprop.Value{Kind: wzprop.KindUOL, String: meta}), nil

	case "RawData":
		c.Skip(1)
		sizeRaw, err := c.I32()
		if err != nil {
			return "", nil, xerrors.Errorf("wznode: read raw data size: %w", err)
		}
		offset := c.Pos()
		return propertyName, valueNode(propertyName, parent, wzprop.Value{
			Kind:          wzprop.KindRawData,
			RawDataReader: r,
			RawDataOffset: offset,
			RawDataSize:   int64(sizeRaw),
		}), nil

	default:
		return "", nil, xerrors.Errorf("wznode: unknown extended property type %q at pos %d", extendType, c.Pos())
	}
}

// Package hbin implements scribe's hierarchical binary container: a tree of
// named groups and typed datasets, conventionally stored with a .h5 suffix.
//
// A dataset is a flat row-major buffer of one element type plus a shape; a
// scalar is a rank-0 dataset holding a single element. Complex element
// types are stored as paired 32- or 64-bit floats per element. The encoded
// body is zstd-compressed by default.
package hbin

import "fmt"

// DType identifies the element type of a dataset.
type DType uint8

const (
	Int8 DType = iota
	Int16
	Int32
	Int64
	Uint8
	Uint16
	Uint32
	Uint64
	Float32
	Float64
	Complex64
	Complex128
	Bool
	String

	dtypeCount
)

var dtypeNames = [dtypeCount]string{
	Int8:       "int8",
	Int16:      "int16",
	Int32:      "int32",
	Int64:      "int64",
	Uint8:      "uint8",
	Uint16:     "uint16",
	Uint32:     "uint32",
	Uint64:     "uint64",
	Float32:    "float32",
	Float64:    "float64",
	Complex64:  "complex64",
	Complex128: "complex128",
	Bool:       "bool",
	String:     "string",
}

func (d DType) String() string {
	if d < dtypeCount {
		return dtypeNames[d]
	}
	return "invalid"
}

// Node is a tree node: *Group or *Dataset.
type Node interface {
	isNode()
}

// Group is a named collection of child nodes, preserving insertion order.
type Group struct {
	keys     []string
	children map[string]Node
}

// NewGroup returns an empty group.
func NewGroup() *Group {
	return &Group{children: make(map[string]Node)}
}

func (g *Group) isNode() {}

// Len returns the number of children.
func (g *Group) Len() int { return len(g.keys) }

// Keys returns the child names in insertion order.
func (g *Group) Keys() []string { return g.keys }

// Get returns the child stored under key.
func (g *Group) Get(key string) (Node, bool) {
	n, ok := g.children[key]
	return n, ok
}

// Put inserts or replaces a child. New keys keep insertion order.
func (g *Group) Put(key string, n Node) {
	if _, exists := g.children[key]; !exists {
		g.keys = append(g.keys, key)
	}
	g.children[key] = n
}

// Dataset is a typed flat buffer plus a shape. A nil shape marks a scalar
// holding exactly one element. Data holds the matching slice type:
// []int8 ... []complex128, []bool or []string.
type Dataset struct {
	DType DType
	Shape []int
	Data  any
}

func (d *Dataset) isNode() {}

// IsScalar reports whether the dataset is a single rank-0 element.
func (d *Dataset) IsScalar() bool { return d.Shape == nil }

// Count returns the element count implied by the shape.
func (d *Dataset) Count() int {
	n := 1
	for _, dim := range d.Shape {
		n *= dim
	}
	return n
}

// NewDataset builds a dataset, checking that the buffer type matches the
// declared DType and the element count matches the shape.
func NewDataset(dt DType, shape []int, data any) (*Dataset, error) {
	d := &Dataset{DType: dt, Shape: shape, Data: data}
	n, err := bufferLen(dt, data)
	if err != nil {
		return nil, err
	}
	if n != d.Count() {
		return nil, fmt.Errorf("hbin: dataset of %d elements does not match shape %v", n, shape)
	}
	return d, nil
}

// Scalar builds a rank-0 dataset around a single value.
func Scalar(dt DType, value any) (*Dataset, error) {
	data, err := scalarBuffer(dt, value)
	if err != nil {
		return nil, err
	}
	return &Dataset{DType: dt, Data: data}, nil
}

func scalarBuffer(dt DType, value any) (any, error) {
	switch v := value.(type) {
	case int8:
		return []int8{v}, nil
	case int16:
		return []int16{v}, nil
	case int32:
		return []int32{v}, nil
	case int64:
		return []int64{v}, nil
	case uint8:
		return []uint8{v}, nil
	case uint16:
		return []uint16{v}, nil
	case uint32:
		return []uint32{v}, nil
	case uint64:
		return []uint64{v}, nil
	case float32:
		return []float32{v}, nil
	case float64:
		return []float64{v}, nil
	case complex64:
		return []complex64{v}, nil
	case complex128:
		return []complex128{v}, nil
	case bool:
		return []bool{v}, nil
	case string:
		return []string{v}, nil
	}
	return nil, fmt.Errorf("hbin: unsupported scalar value %T", value)
}

func bufferLen(dt DType, data any) (int, error) {
	switch b := data.(type) {
	case []int8:
		return checkBuf(dt, Int8, len(b))
	case []int16:
		return checkBuf(dt, Int16, len(b))
	case []int32:
		return checkBuf(dt, Int32, len(b))
	case []int64:
		return checkBuf(dt, Int64, len(b))
	case []uint8:
		return checkBuf(dt, Uint8, len(b))
	case []uint16:
		return checkBuf(dt, Uint16, len(b))
	case []uint32:
		return checkBuf(dt, Uint32, len(b))
	case []uint64:
		return checkBuf(dt, Uint64, len(b))
	case []float32:
		return checkBuf(dt, Float32, len(b))
	case []float64:
		return checkBuf(dt, Float64, len(b))
	case []complex64:
		return checkBuf(dt, Complex64, len(b))
	case []complex128:
		return checkBuf(dt, Complex128, len(b))
	case []bool:
		return checkBuf(dt, Bool, len(b))
	case []string:
		return checkBuf(dt, String, len(b))
	}
	return 0, fmt.Errorf("hbin: unsupported dataset buffer %T", data)
}

func checkBuf(have, want DType, n int) (int, error) {
	if have != want {
		return 0, fmt.Errorf("hbin: buffer of %s does not match dtype %s", want, have)
	}
	return n, nil
}

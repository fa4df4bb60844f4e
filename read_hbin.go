package scribe

import (
	"github.com/reoring/scribe/hbin"
)

// ReadHBin parses a hierarchical binary container and materializes a Tome
// under the schema.
func ReadHBin(data []byte, schema Schema) (Tome, error) {
	root, err := hbin.Decode(data)
	if err != nil {
		return Tome{}, &ReadError{Message: "parsing container", Cause: err}
	}
	var tome Tome
	if err := readNode(&tome, root, schema, &pathTracker{}); err != nil {
		return Tome{}, err
	}
	return tome, nil
}

// ValidateHBin checks a hierarchical binary container against the schema
// without building a Tome.
func ValidateHBin(data []byte, schema Schema) error {
	root, err := hbin.Decode(data)
	if err != nil {
		return &ReadError{Message: "parsing container", Cause: err}
	}
	return readNode(nil, root, schema, &pathTracker{})
}

func dtypeFor(nt NumType) hbin.DType {
	switch nt {
	case Int8:
		return hbin.Int8
	case Int16:
		return hbin.Int16
	case Int32:
		return hbin.Int32
	case Int64:
		return hbin.Int64
	case Uint8:
		return hbin.Uint8
	case Uint16:
		return hbin.Uint16
	case Uint32:
		return hbin.Uint32
	case Uint64:
		return hbin.Uint64
	case Float32:
		return hbin.Float32
	case Float64:
		return hbin.Float64
	case Complex64:
		return hbin.Complex64
	}
	return hbin.Complex128
}

func numTypeForDType(dt hbin.DType) (NumType, bool) {
	switch dt {
	case hbin.Int8:
		return Int8, true
	case hbin.Int16:
		return Int16, true
	case hbin.Int32:
		return Int32, true
	case hbin.Int64:
		return Int64, true
	case hbin.Uint8:
		return Uint8, true
	case hbin.Uint16:
		return Uint16, true
	case hbin.Uint32:
		return Uint32, true
	case hbin.Uint64:
		return Uint64, true
	case hbin.Float32:
		return Float32, true
	case hbin.Float64:
		return Float64, true
	case hbin.Complex64:
		return Complex64, true
	case hbin.Complex128:
		return Complex128, true
	}
	return 0, false
}

func readNode(dst *Tome, node hbin.Node, s Schema, pt *pathTracker) error {
	switch n := s.Node().(type) {
	case NoneSchema:
		return validationf(pt.String(), "'none' schema is never valid")
	case AnySchema:
		if dst == nil {
			return nil
		}
		return readNodeAny(dst, node, pt)
	case BoolSchema:
		d, ok := node.(*hbin.Dataset)
		if !ok || !d.IsScalar() || d.DType != hbin.Bool {
			return validationf(pt.String(), "expected scalar bool dataset")
		}
		if dst != nil {
			*dst = NewBool(d.Data.([]bool)[0])
		}
		return nil
	case NumberSchema:
		d, ok := node.(*hbin.Dataset)
		if !ok || !d.IsScalar() {
			return validationf(pt.String(), "expected scalar dataset")
		}
		if d.DType != dtypeFor(n.Type) {
			return validationf(pt.String(), "expected scalar dataset of %s, have %s", n.Type, d.DType)
		}
		if dst != nil {
			*dst = scalarTome(d)
		}
		return nil
	case StringSchema:
		d, ok := node.(*hbin.Dataset)
		if !ok || !d.IsScalar() || d.DType != hbin.String {
			return validationf(pt.String(), "expected scalar string dataset")
		}
		str := d.Data.([]string)[0]
		if err := n.Validate(str); err != nil {
			return withPath(err, pt.String())
		}
		if dst != nil {
			*dst = NewString(str)
		}
		return nil
	case ArraySchema:
		return readDatasetArray(dst, node, n, pt)
	case RecordSchema:
		return readGroup(dst, node, n, pt)
	}
	panic("scribe: unhandled schema node")
}

// readNodeAny mirrors the container's structure: groups become records,
// scalar datasets become atoms and shaped datasets become arrays.
func readNodeAny(dst *Tome, node hbin.Node, pt *pathTracker) error {
	switch n := node.(type) {
	case *hbin.Group:
		rec := NewRecord()
		for _, key := range n.Keys() {
			child, _ := n.Get(key)
			var elem Tome
			pt.pushKey(key)
			err := readNodeAny(&elem, child, pt)
			pt.pop()
			if err != nil {
				return err
			}
			if err := rec.Set(key, elem); err != nil {
				return err
			}
		}
		*dst = rec
		return nil
	case *hbin.Dataset:
		if n.IsScalar() {
			*dst = scalarTome(n)
			return nil
		}
		if nt, ok := numTypeForDType(n.DType); ok {
			arr, err := numericArrayFromBuffer(nt, n.Data, n.Shape)
			if err != nil {
				return err
			}
			*dst = arr
			return nil
		}
		// bool and string datasets mirror into heterogeneous arrays
		switch buf := n.Data.(type) {
		case []bool:
			elems := make([]Tome, len(buf))
			for i, v := range buf {
				elems[i] = NewBool(v)
			}
			arr, err := NewArray(elems, append([]int(nil), n.Shape...)...)
			if err != nil {
				return err
			}
			*dst = arr
			return nil
		case []string:
			elems := make([]Tome, len(buf))
			for i, v := range buf {
				elems[i] = NewString(v)
			}
			arr, err := NewArray(elems, append([]int(nil), n.Shape...)...)
			if err != nil {
				return err
			}
			*dst = arr
			return nil
		}
	}
	return readf(pt.String(), "unsupported container node")
}

// scalarTome converts a rank-0 dataset into the matching atom.
func scalarTome(d *hbin.Dataset) Tome {
	switch buf := d.Data.(type) {
	case []int8:
		return NewInteger(buf[0])
	case []int16:
		return NewInteger(buf[0])
	case []int32:
		return NewInteger(buf[0])
	case []int64:
		return NewInteger(buf[0])
	case []uint8:
		return NewInteger(buf[0])
	case []uint16:
		return NewInteger(buf[0])
	case []uint32:
		return NewInteger(buf[0])
	case []uint64:
		return NewInteger(buf[0])
	case []float32:
		return NewReal(buf[0])
	case []float64:
		return NewReal(buf[0])
	case []complex64:
		return NewComplex(buf[0])
	case []complex128:
		return NewComplex(buf[0])
	case []bool:
		return NewBool(buf[0])
	case []string:
		return NewString(buf[0])
	}
	panic("scribe: invalid scalar dataset")
}

func numericArrayFromBuffer(nt NumType, data any, shape []int) (Tome, error) {
	dims := append([]int(nil), shape...)
	switch buf := data.(type) {
	case []int8:
		return NewNumericArray(append([]int8(nil), buf...), dims...)
	case []int16:
		return NewNumericArray(append([]int16(nil), buf...), dims...)
	case []int32:
		return NewNumericArray(append([]int32(nil), buf...), dims...)
	case []int64:
		return NewNumericArray(append([]int64(nil), buf...), dims...)
	case []uint8:
		return NewNumericArray(append([]uint8(nil), buf...), dims...)
	case []uint16:
		return NewNumericArray(append([]uint16(nil), buf...), dims...)
	case []uint32:
		return NewNumericArray(append([]uint32(nil), buf...), dims...)
	case []uint64:
		return NewNumericArray(append([]uint64(nil), buf...), dims...)
	case []float32:
		return NewNumericArray(append([]float32(nil), buf...), dims...)
	case []float64:
		return NewNumericArray(append([]float64(nil), buf...), dims...)
	case []complex64:
		return NewNumericArray(append([]complex64(nil), buf...), dims...)
	case []complex128:
		return NewNumericArray(append([]complex128(nil), buf...), dims...)
	}
	return Tome{}, typeErrorf("buffer %T does not hold %s", data, nt)
}

func readDatasetArray(dst *Tome, node hbin.Node, s ArraySchema, pt *pathTracker) error {
	d, ok := node.(*hbin.Dataset)
	if !ok {
		return validationf(pt.String(), "expected dataset")
	}
	if d.IsScalar() {
		return validationf(pt.String(), "expected shaped dataset, have scalar")
	}
	if err := s.ValidateShape(d.Shape); err != nil {
		return withPath(err, pt.String())
	}

	switch elem := s.Elements.Node().(type) {
	case NumberSchema:
		if d.DType != dtypeFor(elem.Type) {
			return validationf(pt.String(), "expected dataset of %s, have %s", elem.Type, d.DType)
		}
		if dst != nil {
			arr, err := numericArrayFromBuffer(elem.Type, d.Data, d.Shape)
			if err != nil {
				return err
			}
			*dst = arr
		}
		return nil
	case BoolSchema:
		buf, ok := d.Data.([]bool)
		if !ok {
			return validationf(pt.String(), "expected dataset of bool, have %s", d.DType)
		}
		if dst != nil {
			elems := make([]Tome, len(buf))
			for i, v := range buf {
				elems[i] = NewBool(v)
			}
			arr, err := NewArray(elems, append([]int(nil), d.Shape...)...)
			if err != nil {
				return err
			}
			*dst = arr
		}
		return nil
	case StringSchema:
		buf, ok := d.Data.([]string)
		if !ok {
			return validationf(pt.String(), "expected dataset of string, have %s", d.DType)
		}
		for i, v := range buf {
			if err := elem.Validate(v); err != nil {
				pt.pushIndex(i)
				err = withPath(err, pt.String())
				pt.pop()
				return err
			}
		}
		if dst != nil {
			elems := make([]Tome, len(buf))
			for i, v := range buf {
				elems[i] = NewString(v)
			}
			arr, err := NewArray(elems, append([]int(nil), d.Shape...)...)
			if err != nil {
				return err
			}
			*dst = arr
		}
		return nil
	default:
		return readf(pt.String(), "element schema is not representable as a dataset")
	}
}

func readGroup(dst *Tome, node hbin.Node, s RecordSchema, pt *pathTracker) error {
	g, ok := node.(*hbin.Group)
	if !ok {
		return validationf(pt.String(), "expected group")
	}
	keys := g.Keys()
	schemas, err := s.Validate(keys)
	if err != nil {
		return withPath(err, pt.String())
	}
	if dst != nil {
		*dst = NewRecord()
	}
	for i, key := range keys {
		child, _ := g.Get(key)
		pt.pushKey(key)
		if dst != nil {
			var elem Tome
			err = readNode(&elem, child, schemas[i], pt)
			if err == nil {
				err = dst.Set(key, elem)
			}
		} else {
			err = readNode(nil, child, schemas[i], pt)
		}
		pt.pop()
		if err != nil {
			return err
		}
	}
	return nil
}

package scribe

import (
	"github.com/reoring/scribe/hbin"
)

// WriteHBin emits a Tome as a hierarchical binary container under the
// schema: records as groups, arrays as datasets of the exact NumType, and
// scalars as rank-0 datasets.
func WriteHBin(src *Tome, schema Schema) ([]byte, error) {
	node, err := writeNode(src, schema, &pathTracker{})
	if err != nil {
		return nil, err
	}
	data, err := hbin.Encode(node, hbin.DefaultOptions())
	if err != nil {
		return nil, &WriteError{Message: "encoding container", Cause: err}
	}
	return data, nil
}

func writeNode(src *Tome, s Schema, pt *pathTracker) (hbin.Node, error) {
	switch n := s.Node().(type) {
	case NoneSchema:
		return nil, validationf(pt.String(), "'none' schema is never valid")
	case AnySchema:
		return writeNodeAny(src, pt)
	case BoolSchema:
		b, err := src.AsBool()
		if err != nil {
			return nil, validationf(pt.String(), "expected boolean, have %s", src.describe())
		}
		return mustScalar(hbin.Bool, b), nil
	case NumberSchema:
		return writeScalarNumber(src, n, pt)
	case StringSchema:
		str, err := src.AsString()
		if err != nil {
			return nil, validationf(pt.String(), "expected string, have %s", src.describe())
		}
		if err := n.Validate(str); err != nil {
			return nil, withPath(err, pt.String())
		}
		return mustScalar(hbin.String, str), nil
	case ArraySchema:
		return writeDatasetArray(src, n, pt)
	case RecordSchema:
		return writeGroup(src, n, pt)
	}
	panic("scribe: unhandled schema node")
}

func mustScalar(dt hbin.DType, v any) *hbin.Dataset {
	d, err := hbin.Scalar(dt, v)
	if err != nil {
		panic("scribe: " + err.Error())
	}
	return d
}

// writeNodeAny serializes a Tome by its own variant. Heterogeneous arrays
// have no dataset form unless every element is a bool or string atom.
func writeNodeAny(src *Tome, pt *pathTracker) (hbin.Node, error) {
	switch src.kind {
	case KindBool:
		return mustScalar(hbin.Bool, src.b), nil
	case KindString:
		return mustScalar(hbin.String, src.str), nil
	case KindNumber:
		return mustScalar(dtypeFor(src.num), exactAtomValue(src)), nil
	case KindNumericArray:
		d, err := hbin.NewDataset(dtypeFor(src.num), append([]int(nil), src.shape...), cloneBuffer(src.buf))
		if err != nil {
			return nil, &WriteError{Path: pt.String(), Message: "building dataset", Cause: err}
		}
		return d, nil
	case KindRecord:
		g := hbin.NewGroup()
		keys, _ := src.Keys()
		for _, key := range keys {
			child, _ := src.Get(key)
			pt.pushKey(key)
			node, err := writeNodeAny(child, pt)
			pt.pop()
			if err != nil {
				return nil, err
			}
			g.Put(key, node)
		}
		return g, nil
	case KindArray:
		if d, ok := homogenizeArray(src); ok {
			return d, nil
		}
		return nil, writef(pt.String(), "heterogeneous array is not representable in the binary container")
	}
	return nil, writef(pt.String(), "unsupported tome variant")
}

// homogenizeArray turns a heterogeneous array of uniform bool or string
// atoms into a dataset.
func homogenizeArray(src *Tome) (*hbin.Dataset, bool) {
	if len(src.elems) == 0 {
		return nil, false
	}
	switch src.elems[0].kind {
	case KindBool:
		buf := make([]bool, len(src.elems))
		for i := range src.elems {
			if src.elems[i].kind != KindBool {
				return nil, false
			}
			buf[i] = src.elems[i].b
		}
		d, err := hbin.NewDataset(hbin.Bool, append([]int(nil), src.shape...), buf)
		return d, err == nil
	case KindString:
		buf := make([]string, len(src.elems))
		for i := range src.elems {
			if src.elems[i].kind != KindString {
				return nil, false
			}
			buf[i] = src.elems[i].str
		}
		d, err := hbin.NewDataset(hbin.String, append([]int(nil), src.shape...), buf)
		return d, err == nil
	}
	return nil, false
}

// exactAtomValue returns the atom payload as its exact-width Go value.
func exactAtomValue(t *Tome) any {
	switch t.num {
	case Int8:
		return int8(t.i)
	case Int16:
		return int16(t.i)
	case Int32:
		return int32(t.i)
	case Int64:
		return t.i
	case Uint8:
		return uint8(t.u)
	case Uint16:
		return uint16(t.u)
	case Uint32:
		return uint32(t.u)
	case Uint64:
		return t.u
	case Float32:
		return float32(t.f)
	case Float64:
		return t.f
	case Complex64:
		return complex64(t.c)
	}
	return t.c
}

func writeScalarNumber(src *Tome, s NumberSchema, pt *pathTracker) (hbin.Node, error) {
	if src.kind != KindNumber {
		return nil, validationf(pt.String(), "expected number, have %s", src.describe())
	}
	iv, uv, fv, cv, cat := atomValue(src)
	converted, err := convertAtom(iv, uv, fv, cv, cat, s)
	if err != nil {
		return nil, withPath(err, pt.String())
	}
	return mustScalar(dtypeFor(s.Type), exactAtomValue(&converted)), nil
}

// atomValue reads a numeric atom in canonical form; cat is 'i', 'u', 'f'
// or 'c'.
func atomValue(t *Tome) (iv int64, uv uint64, fv float64, cv complex128, cat byte) {
	switch {
	case isUnsigned(t.num):
		return 0, t.u, 0, 0, 'u'
	case t.num.IsInteger():
		return t.i, 0, 0, 0, 'i'
	case t.num.IsReal():
		return 0, 0, t.f, 0, 'f'
	default:
		return 0, 0, 0, t.c, 'c'
	}
}

// convertAtom validates a canonical value against the schema and casts it
// to the schema's exact NumType.
func convertAtom(iv int64, uv uint64, fv float64, cv complex128, cat byte, s NumberSchema) (Tome, error) {
	switch {
	case s.Type.IsInteger():
		switch cat {
		case 'i':
			if err := s.ValidateInt(iv); err != nil {
				return Tome{}, err
			}
			return numberFromInt(iv, s.Type), nil
		case 'u':
			if err := s.ValidateUint(uv); err != nil {
				return Tome{}, err
			}
			return numberFromUint(uv, s.Type), nil
		}
		return Tome{}, validationf("", "expected integer")
	case s.Type.IsReal():
		switch cat {
		case 'i':
			return numberFromInt(iv, s.Type), nil
		case 'u':
			return numberFromUint(uv, s.Type), nil
		case 'f':
			return numberFromFloat(fv, s.Type), nil
		}
		return Tome{}, validationf("", "expected real number")
	default:
		if cat != 'c' {
			return Tome{}, validationf("", "expected complex number")
		}
		return numberFromComplex(real(cv), imag(cv), s.Type), nil
	}
}

func writeDatasetArray(src *Tome, s ArraySchema, pt *pathTracker) (hbin.Node, error) {
	if !src.IsArray() {
		return nil, validationf(pt.String(), "expected array, have %s", src.describe())
	}
	if err := s.ValidateShape(src.shape); err != nil {
		return nil, withPath(err, pt.String())
	}

	switch elem := s.Elements.Node().(type) {
	case NumberSchema:
		buf, err := numericBufferFor(src, elem, pt)
		if err != nil {
			return nil, err
		}
		d, err := hbin.NewDataset(dtypeFor(elem.Type), append([]int(nil), src.shape...), buf)
		if err != nil {
			return nil, &WriteError{Path: pt.String(), Message: "building dataset", Cause: err}
		}
		return d, nil
	case BoolSchema:
		if src.kind != KindArray {
			return nil, validationf(pt.String(), "expected array of booleans, have array of %s", src.num)
		}
		buf := make([]bool, len(src.elems))
		for i := range src.elems {
			b, err := src.elems[i].AsBool()
			if err != nil {
				pt.pushIndex(i)
				verr := validationf(pt.String(), "expected boolean, have %s", src.elems[i].describe())
				pt.pop()
				return nil, verr
			}
			buf[i] = b
		}
		d, err := hbin.NewDataset(hbin.Bool, append([]int(nil), src.shape...), buf)
		if err != nil {
			return nil, &WriteError{Path: pt.String(), Message: "building dataset", Cause: err}
		}
		return d, nil
	case StringSchema:
		if src.kind != KindArray {
			return nil, validationf(pt.String(), "expected array of strings, have array of %s", src.num)
		}
		buf := make([]string, len(src.elems))
		for i := range src.elems {
			str, err := src.elems[i].AsString()
			if err != nil {
				pt.pushIndex(i)
				verr := validationf(pt.String(), "expected string, have %s", src.elems[i].describe())
				pt.pop()
				return nil, verr
			}
			if err := elem.Validate(str); err != nil {
				pt.pushIndex(i)
				err = withPath(err, pt.String())
				pt.pop()
				return nil, err
			}
			buf[i] = str
		}
		d, err := hbin.NewDataset(hbin.String, append([]int(nil), src.shape...), buf)
		if err != nil {
			return nil, &WriteError{Path: pt.String(), Message: "building dataset", Cause: err}
		}
		return d, nil
	default:
		return nil, writef(pt.String(), "element schema is not representable as a dataset")
	}
}

// numericBufferFor converts an array Tome into a flat buffer of the
// schema's exact NumType, validating each element.
func numericBufferFor(src *Tome, s NumberSchema, pt *pathTracker) (any, error) {
	b := newNumericBuilder(s.Type, true)

	add := func(i int, iv int64, uv uint64, fv float64, cv complex128, cat byte) error {
		converted, err := convertAtom(iv, uv, fv, cv, cat, s)
		if err != nil {
			pt.pushIndex(i)
			err = withPath(err, pt.String())
			pt.pop()
			return err
		}
		switch {
		case isUnsigned(s.Type):
			b.uints = append(b.uints, converted.u)
		case s.Type.IsInteger():
			b.ints = append(b.ints, converted.i)
		case s.Type.IsReal():
			b.floats = append(b.floats, converted.f)
		default:
			b.cplxs = append(b.cplxs, converted.c)
		}
		return nil
	}

	if src.kind == KindNumericArray {
		count := shapeProduct(src.shape)
		for i := 0; i < count; i++ {
			iv, uv, fv, cv, cat := bufferValue(src.buf, i)
			if err := add(i, iv, uv, fv, cv, cat); err != nil {
				return nil, err
			}
		}
	} else {
		for i := range src.elems {
			elem := &src.elems[i]
			if elem.kind != KindNumber {
				pt.pushIndex(i)
				err := validationf(pt.String(), "expected number, have %s", elem.describe())
				pt.pop()
				return nil, err
			}
			iv, uv, fv, cv, cat := atomValue(elem)
			if err := add(i, iv, uv, fv, cv, cat); err != nil {
				return nil, err
			}
		}
	}

	arr, err := b.finish(int64Shape(src.shape))
	if err != nil {
		return nil, err
	}
	return arr.buf, nil
}

func writeGroup(src *Tome, s RecordSchema, pt *pathTracker) (hbin.Node, error) {
	if !src.IsRecord() {
		return nil, validationf(pt.String(), "expected record, have %s", src.describe())
	}
	g := hbin.NewGroup()
	for _, item := range s.Items {
		child, ok := src.Get(item.Key)
		if !ok {
			if item.Optional {
				continue
			}
			return nil, validationf(pt.String(), "missing key %q", item.Key)
		}
		pt.pushKey(item.Key)
		node, err := writeNode(child, item.Schema, pt)
		pt.pop()
		if err != nil {
			return nil, err
		}
		g.Put(item.Key, node)
	}
	return g, nil
}

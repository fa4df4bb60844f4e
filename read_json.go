package scribe

import (
	"github.com/reoring/scribe/internal/jsondoc"
)

// ReadJSON parses JSON text and materializes a Tome under the schema.
// Validation and construction happen in the same recursive pass.
func ReadJSON(data []byte, schema Schema) (Tome, error) {
	doc, err := jsondoc.Decode(data)
	if err != nil {
		return Tome{}, &ReadError{Message: "parsing document", Cause: err}
	}
	var tome Tome
	pt := &pathTracker{}
	if err := readDoc(&tome, doc, schema, pt); err != nil {
		return Tome{}, err
	}
	return tome, nil
}

// ValidateJSON checks JSON text against the schema without building a Tome.
// It fails with a Validation error exactly where ReadJSON does. Under an
// 'any' schema the document is not inspected, so a null that ReadJSON
// reports as a Read error passes here.
func ValidateJSON(data []byte, schema Schema) error {
	doc, err := jsondoc.Decode(data)
	if err != nil {
		return &ReadError{Message: "parsing document", Cause: err}
	}
	return readDoc(nil, doc, schema, &pathTracker{})
}

// ReadDoc validates an already-parsed document tree and, when dst is
// non-nil, fills it with the corresponding Tome.
func ReadDoc(dst *Tome, doc any, schema Schema) error {
	return readDoc(dst, doc, schema, &pathTracker{})
}

// readDoc dispatches on the schema variant. A nil dst runs validation only.
func readDoc(dst *Tome, doc any, s Schema, pt *pathTracker) error {
	switch n := s.Node().(type) {
	case NoneSchema:
		return validationf(pt.String(), "'none' schema is never valid")
	case AnySchema:
		if dst == nil {
			return nil
		}
		return readAny(dst, doc, pt)
	case BoolSchema:
		b, ok := doc.(bool)
		if !ok {
			return validationf(pt.String(), "expected boolean")
		}
		if dst != nil {
			*dst = NewBool(b)
		}
		return nil
	case NumberSchema:
		return readNumber(dst, doc, n, pt)
	case StringSchema:
		str, ok := doc.(string)
		if !ok {
			return validationf(pt.String(), "expected string")
		}
		if err := n.Validate(str); err != nil {
			return withPath(err, pt.String())
		}
		if dst != nil {
			*dst = NewString(str)
		}
		return nil
	case ArraySchema:
		return readArray(dst, doc, n, pt)
	case RecordSchema:
		return readRecord(dst, doc, n, pt)
	}
	panic("scribe: unhandled schema node")
}

// readAny mirrors the document's primitive kinds into a Tome. Null is not
// representable.
func readAny(dst *Tome, doc any, pt *pathTracker) error {
	switch v := doc.(type) {
	case bool:
		*dst = NewBool(v)
		return nil
	case string:
		*dst = NewString(v)
		return nil
	case jsondoc.Number:
		if v.IsFloat() {
			f, err := v.Float64()
			if err != nil {
				return readf(pt.String(), "malformed number %q", string(v))
			}
			*dst = NewReal(f)
			return nil
		}
		if i, err := v.Int64(); err == nil {
			*dst = NewInteger(i)
			return nil
		}
		if u, err := v.Uint64(); err == nil {
			*dst = NewInteger(u)
			return nil
		}
		return readf(pt.String(), "malformed number %q", string(v))
	case []any:
		elems := make([]Tome, len(v))
		for i, child := range v {
			pt.pushIndex(i)
			err := readAny(&elems[i], child, pt)
			pt.pop()
			if err != nil {
				return err
			}
		}
		arr, err := NewArray(elems)
		if err != nil {
			return err
		}
		*dst = arr
		return nil
	case *jsondoc.Object:
		rec := NewRecord()
		for _, key := range v.Keys() {
			child, _ := v.Get(key)
			var elem Tome
			pt.pushKey(key)
			err := readAny(&elem, child, pt)
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
	case nil:
		return readf(pt.String(), "null is not representable as a tome")
	}
	return readf(pt.String(), "unsupported document node")
}

// decodedInt is an integer primitive in canonical form. Values above the
// int64 range come back through the unsigned channel.
type decodedInt struct {
	i        int64
	u        uint64
	unsigned bool
}

func decodeInt(n jsondoc.Number) (decodedInt, bool) {
	if n.IsFloat() {
		return decodedInt{}, false
	}
	if i, err := n.Int64(); err == nil {
		return decodedInt{i: i}, true
	}
	if u, err := n.Uint64(); err == nil {
		return decodedInt{u: u, unsigned: true}, true
	}
	return decodedInt{}, false
}

func (d decodedInt) validate(s NumberSchema) error {
	if d.unsigned {
		return s.ValidateUint(d.u)
	}
	return s.ValidateInt(d.i)
}

func (d decodedInt) tome(nt NumType) Tome {
	if d.unsigned {
		return numberFromUint(d.u, nt)
	}
	return numberFromInt(d.i, nt)
}

func readNumber(dst *Tome, doc any, s NumberSchema, pt *pathTracker) error {
	switch {
	case s.Type.IsInteger():
		n, ok := doc.(jsondoc.Number)
		if !ok {
			return validationf(pt.String(), "expected integer")
		}
		d, ok := decodeInt(n)
		if !ok {
			return validationf(pt.String(), "expected integer")
		}
		if err := d.validate(s); err != nil {
			return withPath(err, pt.String())
		}
		if dst != nil {
			*dst = d.tome(s.Type)
		}
		return nil
	case s.Type.IsReal():
		n, ok := doc.(jsondoc.Number)
		if !ok {
			return validationf(pt.String(), "expected real number")
		}
		if n.IsFloat() {
			f, err := n.Float64()
			if err != nil {
				return readf(pt.String(), "malformed number %q", string(n))
			}
			if err := s.ValidateFloat(f); err != nil {
				return withPath(err, pt.String())
			}
			if dst != nil {
				*dst = numberFromFloat(f, s.Type)
			}
			return nil
		}
		d, ok := decodeInt(n)
		if !ok {
			return validationf(pt.String(), "expected real number")
		}
		if err := d.validate(s); err != nil {
			return withPath(err, pt.String())
		}
		if dst != nil {
			*dst = d.tome(s.Type)
		}
		return nil
	default: // complex
		re, im, ok := complexParts(doc)
		if !ok {
			return validationf(pt.String(), "expected complex number")
		}
		if err := s.ValidateComplex(re, im); err != nil {
			return withPath(err, pt.String())
		}
		if dst != nil {
			*dst = numberFromComplex(re, im, s.Type)
		}
		return nil
	}
}

// complexParts matches the two-element number array form of a complex
// primitive.
func complexParts(doc any) (re, im float64, ok bool) {
	arr, isArr := doc.([]any)
	if !isArr || len(arr) != 2 {
		return 0, 0, false
	}
	for i, part := range arr {
		n, isNum := part.(jsondoc.Number)
		if !isNum {
			return 0, 0, false
		}
		f, err := n.Float64()
		if err != nil {
			return 0, 0, false
		}
		if i == 0 {
			re = f
		} else {
			im = f
		}
	}
	return re, im, true
}

func readRecord(dst *Tome, doc any, s RecordSchema, pt *pathTracker) error {
	obj, ok := doc.(*jsondoc.Object)
	if !ok {
		return validationf(pt.String(), "expected object")
	}
	keys := obj.Keys()
	schemas, err := s.Validate(keys)
	if err != nil {
		return withPath(err, pt.String())
	}
	if dst != nil {
		*dst = NewRecord()
	}
	for i, key := range keys {
		child, _ := obj.Get(key)
		pt.pushKey(key)
		if dst != nil {
			var elem Tome
			err = readDoc(&elem, child, schemas[i], pt)
			if err == nil {
				err = dst.Set(key, elem)
			}
		} else {
			err = readDoc(nil, child, schemas[i], pt)
		}
		pt.pop()
		if err != nil {
			return err
		}
	}
	return nil
}

func readArray(dst *Tome, doc any, s ArraySchema, pt *pathTracker) error {
	var shape []int64
	if s.Shape != nil {
		shape = append([]int64(nil), s.Shape...)
	} else {
		shape = inferShape(doc, s.Elements)
	}

	if numSchema, ok := s.Elements.Node().(NumberSchema); ok {
		b := newNumericBuilder(numSchema.Type, dst != nil)
		if err := readNumericElements(b, doc, numSchema, 0, shape, pt); err != nil {
			return err
		}
		if dst != nil {
			arr, err := b.finish(shape)
			if err != nil {
				return err
			}
			*dst = arr
		}
		return nil
	}

	var elems *[]Tome
	if dst != nil {
		buf := make([]Tome, 0, shapeProduct64(shape))
		elems = &buf
	}
	if err := readElements(elems, doc, s.Elements, 0, shape, pt); err != nil {
		return err
	}
	if dst != nil {
		arr, err := NewArray(*elems, intShape(shape)...)
		if err != nil {
			return err
		}
		*dst = arr
	}
	return nil
}

// readElements walks one document level per dimension. At the final depth it
// delegates to the element schema; above it, the node must be an array of
// the expected size. A wildcard dimension takes the first observed size and
// holds every sibling to it.
func readElements(elems *[]Tome, doc any, elem Schema, dim int, shape []int64, pt *pathTracker) error {
	if dim == len(shape) {
		if elems == nil {
			return readDoc(nil, doc, elem, pt)
		}
		var t Tome
		if err := readDoc(&t, doc, elem, pt); err != nil {
			return err
		}
		*elems = append(*elems, t)
		return nil
	}

	arr, ok := doc.([]any)
	if !ok {
		return validationf(pt.String(), "expected array")
	}
	if shape[dim] == -1 {
		shape[dim] = int64(len(arr))
	}
	if int64(len(arr)) != shape[dim] {
		return validationf(pt.String(), "expected array of size %d", shape[dim])
	}
	for i, child := range arr {
		pt.pushIndex(i)
		err := readElements(elems, child, elem, dim+1, shape, pt)
		pt.pop()
		if err != nil {
			return err
		}
	}
	return nil
}

func readNumericElements(b *numericBuilder, doc any, elem NumberSchema, dim int, shape []int64, pt *pathTracker) error {
	if dim == len(shape) {
		return b.read(doc, elem, pt)
	}
	arr, ok := doc.([]any)
	if !ok {
		return validationf(pt.String(), "expected array")
	}
	if shape[dim] == -1 {
		shape[dim] = int64(len(arr))
	}
	if int64(len(arr)) != shape[dim] {
		return validationf(pt.String(), "expected array of size %d", shape[dim])
	}
	for i, child := range arr {
		pt.pushIndex(i)
		err := readNumericElements(b, child, elem, dim+1, shape, pt)
		pt.pop()
		if err != nil {
			return err
		}
	}
	return nil
}

// inferShape derives an array shape from the document's nesting when the
// schema declares none. Scalar and record element schemas own no array
// levels, so every nesting level belongs to the array; complex elements own
// their innermost two-number pair; array and any elements make deeper
// nesting ambiguous, so the array is taken as one-dimensional.
func inferShape(doc any, elem Schema) []int64 {
	stop := func(node any) bool { return false }
	switch n := elem.Node().(type) {
	case AnySchema, ArraySchema, NoneSchema:
		return []int64{-1}
	case NumberSchema:
		if n.Type.IsComplex() {
			stop = func(node any) bool {
				_, _, ok := complexParts(node)
				return ok
			}
		}
	}

	var shape []int64
	for {
		arr, ok := doc.([]any)
		if !ok || stop(doc) {
			break
		}
		shape = append(shape, int64(len(arr)))
		if len(arr) == 0 {
			break
		}
		doc = arr[0]
	}
	if shape == nil {
		// not an array at all; let the walk report the mismatch
		return []int64{-1}
	}
	return shape
}

func intShape(shape []int64) []int {
	out := make([]int, len(shape))
	for i, d := range shape {
		out[i] = int(d)
	}
	return out
}

func shapeProduct64(shape []int64) int {
	n := int64(1)
	for _, d := range shape {
		if d < 0 {
			return 0
		}
		n *= d
	}
	return int(n)
}

// numericBuilder accumulates validated elements for a homogeneous numeric
// array in canonical form and casts them to the exact NumType at the end.
type numericBuilder struct {
	num     NumType
	collect bool
	ints    []int64
	uints   []uint64
	floats  []float64
	cplxs   []complex128
}

func newNumericBuilder(nt NumType, collect bool) *numericBuilder {
	return &numericBuilder{num: nt, collect: collect}
}

func (b *numericBuilder) read(doc any, s NumberSchema, pt *pathTracker) error {
	switch {
	case s.Type.IsInteger():
		n, ok := doc.(jsondoc.Number)
		if !ok {
			return validationf(pt.String(), "expected integer")
		}
		d, ok := decodeInt(n)
		if !ok {
			return validationf(pt.String(), "expected integer")
		}
		if err := d.validate(s); err != nil {
			return withPath(err, pt.String())
		}
		if b.collect {
			if isUnsigned(s.Type) {
				u := d.u
				if !d.unsigned {
					u = uint64(d.i)
				}
				b.uints = append(b.uints, u)
			} else {
				b.ints = append(b.ints, d.i)
			}
		}
		return nil
	case s.Type.IsReal():
		n, ok := doc.(jsondoc.Number)
		if !ok {
			return validationf(pt.String(), "expected real number")
		}
		var f float64
		if n.IsFloat() {
			v, err := n.Float64()
			if err != nil {
				return readf(pt.String(), "malformed number %q", string(n))
			}
			f = v
		} else {
			d, ok := decodeInt(n)
			if !ok {
				return validationf(pt.String(), "expected real number")
			}
			if d.unsigned {
				f = float64(d.u)
			} else {
				f = float64(d.i)
			}
		}
		if b.collect {
			b.floats = append(b.floats, f)
		}
		return nil
	default:
		re, im, ok := complexParts(doc)
		if !ok {
			return validationf(pt.String(), "expected complex number")
		}
		if b.collect {
			b.cplxs = append(b.cplxs, complex(re, im))
		}
		return nil
	}
}

func (b *numericBuilder) finish(shape []int64) (Tome, error) {
	dims := intShape(shape)
	switch b.num {
	case Int8:
		return NewNumericArray(castInts[int8](b.ints), dims...)
	case Int16:
		return NewNumericArray(castInts[int16](b.ints), dims...)
	case Int32:
		return NewNumericArray(castInts[int32](b.ints), dims...)
	case Int64:
		return NewNumericArray(append([]int64(nil), b.ints...), dims...)
	case Uint8:
		return NewNumericArray(castUints[uint8](b.uints), dims...)
	case Uint16:
		return NewNumericArray(castUints[uint16](b.uints), dims...)
	case Uint32:
		return NewNumericArray(castUints[uint32](b.uints), dims...)
	case Uint64:
		return NewNumericArray(append([]uint64(nil), b.uints...), dims...)
	case Float32:
		return NewNumericArray(castFloats[float32](b.floats), dims...)
	case Float64:
		return NewNumericArray(append([]float64(nil), b.floats...), dims...)
	case Complex64:
		out := make([]complex64, len(b.cplxs))
		for i, c := range b.cplxs {
			out[i] = complex64(c)
		}
		return NewNumericArray(out, dims...)
	default:
		return NewNumericArray(append([]complex128(nil), b.cplxs...), dims...)
	}
}

func castInts[T int8 | int16 | int32](vals []int64) []T {
	out := make([]T, len(vals))
	for i, v := range vals {
		out[i] = T(v)
	}
	return out
}

func castUints[T uint8 | uint16 | uint32](vals []uint64) []T {
	out := make([]T, len(vals))
	for i, v := range vals {
		out[i] = T(v)
	}
	return out
}

func castFloats[T float32](vals []float64) []T {
	out := make([]T, len(vals))
	for i, v := range vals {
		out[i] = T(v)
	}
	return out
}

package scribe

import (
	"math"
	"strconv"
	"strings"

	"github.com/reoring/scribe/internal/jsondoc"
)

// WriteJSON emits a Tome as JSON text under the schema. Record members are
// written in schema-declared order, so output is deterministic.
func WriteJSON(src *Tome, schema Schema) ([]byte, error) {
	doc, err := WriteDoc(src, schema)
	if err != nil {
		return nil, err
	}
	return jsondoc.Encode(doc)
}

// WriteDoc builds the document tree for a Tome under the schema.
func WriteDoc(src *Tome, schema Schema) (any, error) {
	return writeDoc(src, schema, &pathTracker{})
}

func writeDoc(src *Tome, s Schema, pt *pathTracker) (any, error) {
	switch n := s.Node().(type) {
	case NoneSchema:
		return nil, validationf(pt.String(), "'none' schema is never valid")
	case AnySchema:
		return writeAny(src, pt)
	case BoolSchema:
		b, err := src.AsBool()
		if err != nil {
			return nil, validationf(pt.String(), "expected boolean, have %s", src.describe())
		}
		return b, nil
	case NumberSchema:
		return writeNumber(src, n, pt)
	case StringSchema:
		str, err := src.AsString()
		if err != nil {
			return nil, validationf(pt.String(), "expected string, have %s", src.describe())
		}
		if err := n.Validate(str); err != nil {
			return nil, withPath(err, pt.String())
		}
		return str, nil
	case ArraySchema:
		return writeArray(src, n, pt)
	case RecordSchema:
		return writeRecord(src, n, pt)
	}
	panic("scribe: unhandled schema node")
}

// writeAny serializes any Tome variant: scalars as primitives, complex atoms
// as two-element arrays, records as objects, and both array variants as
// nested document arrays.
func writeAny(src *Tome, pt *pathTracker) (any, error) {
	switch src.kind {
	case KindBool:
		return src.b, nil
	case KindString:
		return src.str, nil
	case KindNumber:
		return atomPrimitive(src, pt)
	case KindRecord:
		out := jsondoc.NewObject()
		keys, _ := src.Keys()
		for _, key := range keys {
			child, _ := src.Get(key)
			pt.pushKey(key)
			node, err := writeAny(child, pt)
			pt.pop()
			if err != nil {
				return nil, err
			}
			out.Set(key, node)
		}
		return out, nil
	case KindArray:
		flat := src.elems
		return emitNested(src.shape, 0, func(i int) (any, error) {
			pt.pushIndex(i)
			defer pt.pop()
			return writeAny(&flat[i], pt)
		})
	case KindNumericArray:
		return emitNested(src.shape, 0, func(i int) (any, error) {
			pt.pushIndex(i)
			defer pt.pop()
			return bufferPrimitive(src.buf, i, pt)
		})
	}
	return nil, writef(pt.String(), "unsupported tome variant")
}

// emitNested folds a flat row-major sequence back into nested document
// arrays. emit receives flat indices in order.
func emitNested(shape []int, offset int, emit func(i int) (any, error)) (any, error) {
	var build func(dim, base, stride int) (any, error)
	build = func(dim, base, stride int) (any, error) {
		if dim == len(shape) {
			return emit(base)
		}
		if shape[dim] == 0 {
			return []any{}, nil
		}
		inner := stride / shape[dim]
		out := make([]any, shape[dim])
		for i := 0; i < shape[dim]; i++ {
			node, err := build(dim+1, base+i*inner, inner)
			if err != nil {
				return nil, err
			}
			out[i] = node
		}
		return out, nil
	}
	return build(0, offset, shapeProduct(shape))
}

func writeNumber(src *Tome, s NumberSchema, pt *pathTracker) (any, error) {
	switch {
	case s.Type.IsInteger():
		if !src.IsInteger() {
			return nil, validationf(pt.String(), "expected integer, have %s", src.describe())
		}
		if isUnsigned(src.num) {
			if err := s.ValidateUint(src.u); err != nil {
				return nil, withPath(err, pt.String())
			}
			return jsondoc.Number(strconv.FormatUint(src.u, 10)), nil
		}
		if err := s.ValidateInt(src.i); err != nil {
			return nil, withPath(err, pt.String())
		}
		return jsondoc.Number(strconv.FormatInt(src.i, 10)), nil
	case s.Type.IsReal():
		if src.IsInteger() {
			return atomPrimitive(src, pt)
		}
		if !src.IsReal() {
			return nil, validationf(pt.String(), "expected real number, have %s", src.describe())
		}
		return floatPrimitive(src.f, pt)
	default:
		c, err := src.AsComplex128()
		if err != nil {
			return nil, validationf(pt.String(), "expected complex number, have %s", src.describe())
		}
		return complexPrimitive(c, pt)
	}
}

// atomPrimitive emits a numeric atom in its own kind.
func atomPrimitive(src *Tome, pt *pathTracker) (any, error) {
	switch {
	case isUnsigned(src.num):
		return jsondoc.Number(strconv.FormatUint(src.u, 10)), nil
	case src.num.IsInteger():
		return jsondoc.Number(strconv.FormatInt(src.i, 10)), nil
	case src.num.IsReal():
		return floatPrimitive(src.f, pt)
	default:
		return complexPrimitive(src.c, pt)
	}
}

// floatPrimitive formats a real so that it reads back as a float primitive.
func floatPrimitive(f float64, pt *pathTracker) (any, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, writef(pt.String(), "cannot represent %v in a text document", f)
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return jsondoc.Number(s), nil
}

func complexPrimitive(c complex128, pt *pathTracker) (any, error) {
	re, err := floatPrimitive(real(c), pt)
	if err != nil {
		return nil, err
	}
	im, err := floatPrimitive(imag(c), pt)
	if err != nil {
		return nil, err
	}
	return []any{re, im}, nil
}

func writeArray(src *Tome, s ArraySchema, pt *pathTracker) (any, error) {
	if !src.IsArray() {
		return nil, validationf(pt.String(), "expected array, have %s", src.describe())
	}
	if err := s.ValidateShape(src.shape); err != nil {
		return nil, withPath(err, pt.String())
	}

	if src.kind == KindArray {
		flat := src.elems
		return emitNested(src.shape, 0, func(i int) (any, error) {
			pt.pushIndex(i)
			defer pt.pop()
			return writeDoc(&flat[i], s.Elements, pt)
		})
	}

	// homogeneous numeric buffer
	switch elem := s.Elements.Node().(type) {
	case NumberSchema:
		if !categoryMatches(src.num, elem.Type) {
			return nil, validationf(pt.String(), "expected array of %s, have array of %s", elem.Type, src.num)
		}
		return emitNested(src.shape, 0, func(i int) (any, error) {
			pt.pushIndex(i)
			defer pt.pop()
			return bufferElement(src.buf, i, elem, pt)
		})
	case AnySchema:
		return emitNested(src.shape, 0, func(i int) (any, error) {
			pt.pushIndex(i)
			defer pt.pop()
			return bufferPrimitive(src.buf, i, pt)
		})
	default:
		return nil, validationf(pt.String(), "numeric array cannot satisfy element schema")
	}
}

// categoryMatches reports whether a buffer of NumType have can be written
// under a schema of NumType want: the same integer/real/complex category,
// except that integer buffers may also be written under real schemas.
// Integers are additionally range-checked per element.
func categoryMatches(have, want NumType) bool {
	switch {
	case want.IsInteger():
		return have.IsInteger()
	case want.IsReal():
		return have.IsInteger() || have.IsReal()
	default:
		return have.IsComplex()
	}
}

// bufferElement emits one element of a numeric buffer under an element
// schema, validating integer ranges.
func bufferElement(buf any, i int, s NumberSchema, pt *pathTracker) (any, error) {
	iv, uv, fv, cv, cat := bufferValue(buf, i)
	switch cat {
	case 'i':
		if err := s.ValidateInt(iv); err != nil {
			return nil, withPath(err, pt.String())
		}
		return jsondoc.Number(strconv.FormatInt(iv, 10)), nil
	case 'u':
		if err := s.ValidateUint(uv); err != nil {
			return nil, withPath(err, pt.String())
		}
		return jsondoc.Number(strconv.FormatUint(uv, 10)), nil
	case 'f':
		return floatPrimitive(fv, pt)
	default:
		return complexPrimitive(cv, pt)
	}
}

// bufferPrimitive emits one element of a numeric buffer in its own kind.
func bufferPrimitive(buf any, i int, pt *pathTracker) (any, error) {
	iv, uv, fv, cv, cat := bufferValue(buf, i)
	switch cat {
	case 'i':
		return jsondoc.Number(strconv.FormatInt(iv, 10)), nil
	case 'u':
		return jsondoc.Number(strconv.FormatUint(uv, 10)), nil
	case 'f':
		return floatPrimitive(fv, pt)
	default:
		return complexPrimitive(cv, pt)
	}
}

// bufferValue reads element i of a typed buffer in canonical form. cat is
// 'i', 'u', 'f' or 'c'.
func bufferValue(buf any, i int) (iv int64, uv uint64, fv float64, cv complex128, cat byte) {
	switch b := buf.(type) {
	case []int8:
		return int64(b[i]), 0, 0, 0, 'i'
	case []int16:
		return int64(b[i]), 0, 0, 0, 'i'
	case []int32:
		return int64(b[i]), 0, 0, 0, 'i'
	case []int64:
		return b[i], 0, 0, 0, 'i'
	case []uint8:
		return 0, uint64(b[i]), 0, 0, 'u'
	case []uint16:
		return 0, uint64(b[i]), 0, 0, 'u'
	case []uint32:
		return 0, uint64(b[i]), 0, 0, 'u'
	case []uint64:
		return 0, b[i], 0, 0, 'u'
	case []float32:
		return 0, 0, float64(b[i]), 0, 'f'
	case []float64:
		return 0, 0, b[i], 0, 'f'
	case []complex64:
		return 0, 0, 0, complex128(b[i]), 'c'
	case []complex128:
		return 0, 0, 0, b[i], 'c'
	}
	panic("scribe: invalid numeric buffer")
}

func writeRecord(src *Tome, s RecordSchema, pt *pathTracker) (any, error) {
	if !src.IsRecord() {
		return nil, validationf(pt.String(), "expected record, have %s", src.describe())
	}
	out := jsondoc.NewObject()
	for _, item := range s.Items {
		child, ok := src.Get(item.Key)
		if !ok {
			if item.Optional {
				continue
			}
			return nil, validationf(pt.String(), "missing key %q", item.Key)
		}
		pt.pushKey(item.Key)
		node, err := writeDoc(child, item.Schema, pt)
		pt.pop()
		if err != nil {
			return nil, err
		}
		out.Set(item.Key, node)
	}
	return out, nil
}

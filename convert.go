package scribe

// Conversion between Tomes and native Go values is an extension point with
// two operations. User record types implement Marshaler and Unmarshaler
// once; the engine is aware of nothing beyond these two interfaces and the
// built-in atom conversions below.

// Marshaler converts a native value into a Tome.
type Marshaler interface {
	MarshalTome() (Tome, error)
}

// Unmarshaler fills a native value from a Tome, failing on kind mismatches.
type Unmarshaler interface {
	UnmarshalTome(t *Tome) error
}

// ToTome converts a native value to a Tome. Built-in conversions cover
// Tome itself, bool, string, int, every numeric atom type, one-dimensional
// numeric slices and bool and string slices; everything else must implement
// Marshaler.
func ToTome(v any) (Tome, error) {
	switch x := v.(type) {
	case Tome:
		return x, nil
	case *Tome:
		return *x, nil
	case bool:
		return NewBool(x), nil
	case string:
		return NewString(x), nil
	case int8:
		return NewInteger(x), nil
	case int16:
		return NewInteger(x), nil
	case int32:
		return NewInteger(x), nil
	case int64:
		return NewInteger(x), nil
	case int:
		return NewInteger(int64(x)), nil
	case uint8:
		return NewInteger(x), nil
	case uint16:
		return NewInteger(x), nil
	case uint32:
		return NewInteger(x), nil
	case uint64:
		return NewInteger(x), nil
	case float32:
		return NewReal(x), nil
	case float64:
		return NewReal(x), nil
	case complex64:
		return NewComplex(x), nil
	case complex128:
		return NewComplex(x), nil
	case []int8:
		return NewNumericArray(x)
	case []int16:
		return NewNumericArray(x)
	case []int32:
		return NewNumericArray(x)
	case []int64:
		return NewNumericArray(x)
	case []uint8:
		return NewNumericArray(x)
	case []uint16:
		return NewNumericArray(x)
	case []uint32:
		return NewNumericArray(x)
	case []uint64:
		return NewNumericArray(x)
	case []float32:
		return NewNumericArray(x)
	case []float64:
		return NewNumericArray(x)
	case []complex64:
		return NewNumericArray(x)
	case []complex128:
		return NewNumericArray(x)
	case []bool:
		elems := make([]Tome, len(x))
		for i, v := range x {
			elems[i] = NewBool(v)
		}
		return NewArray(elems)
	case []string:
		elems := make([]Tome, len(x))
		for i, v := range x {
			elems[i] = NewString(v)
		}
		return NewArray(elems)
	case Marshaler:
		return x.MarshalTome()
	}
	return Tome{}, typeErrorf("no tome conversion for %T", v)
}

// FromTome converts a Tome to a native value of type T. The Tome's variant
// must match T exactly; no implicit widening or narrowing is performed.
func FromTome[T any](t *Tome) (T, error) {
	var out T
	if err := AssignFromTome(&out, t); err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

// AssignFromTome fills *dst from a Tome. dst must be a pointer to a
// built-in convertible type or to a type implementing Unmarshaler.
func AssignFromTome(dst any, t *Tome) error {
	switch p := dst.(type) {
	case *Tome:
		*p = t.Clone()
		return nil
	case *bool:
		v, err := t.AsBool()
		if err != nil {
			return err
		}
		*p = v
		return nil
	case *string:
		v, err := t.AsString()
		if err != nil {
			return err
		}
		*p = v
		return nil
	case *int8:
		return assignNumber(p, t)
	case *int16:
		return assignNumber(p, t)
	case *int32:
		return assignNumber(p, t)
	case *int64:
		return assignNumber(p, t)
	case *uint8:
		return assignNumber(p, t)
	case *uint16:
		return assignNumber(p, t)
	case *uint32:
		return assignNumber(p, t)
	case *uint64:
		return assignNumber(p, t)
	case *float32:
		return assignNumber(p, t)
	case *float64:
		return assignNumber(p, t)
	case *complex64:
		return assignNumber(p, t)
	case *complex128:
		return assignNumber(p, t)
	case *[]int8:
		return assignSequence(p, t)
	case *[]int16:
		return assignSequence(p, t)
	case *[]int32:
		return assignSequence(p, t)
	case *[]int64:
		return assignSequence(p, t)
	case *[]uint8:
		return assignSequence(p, t)
	case *[]uint16:
		return assignSequence(p, t)
	case *[]uint32:
		return assignSequence(p, t)
	case *[]uint64:
		return assignSequence(p, t)
	case *[]float32:
		return assignSequence(p, t)
	case *[]float64:
		return assignSequence(p, t)
	case *[]complex64:
		return assignSequence(p, t)
	case *[]complex128:
		return assignSequence(p, t)
	case *[]bool:
		return assignAtomSlice(p, t, (*Tome).AsBool)
	case *[]string:
		return assignAtomSlice(p, t, (*Tome).AsString)
	case Unmarshaler:
		return p.UnmarshalTome(t)
	}
	return typeErrorf("no tome conversion for %T", dst)
}

func assignNumber[T NumberAtom](dst *T, t *Tome) error {
	v, err := NumberOf[T](t)
	if err != nil {
		return err
	}
	*dst = v
	return nil
}

// assignSequence converts a one-dimensional numeric array into a slice.
func assignSequence[T NumberAtom](dst *[]T, t *Tome) error {
	buf, err := NumericArrayOf[T](t)
	if err != nil {
		return err
	}
	if rank, _ := t.Rank(); rank != 1 {
		return typeErrorf("expected a 1-D array when converting to a slice, have rank %d", rank)
	}
	*dst = append([]T(nil), buf...)
	return nil
}

// assignAtomSlice converts a 1-D heterogeneous array of uniform atoms into
// a slice.
func assignAtomSlice[T any](dst *[]T, t *Tome, get func(*Tome) (T, error)) error {
	if t.Kind() != KindArray {
		return typeErrorf("tome is %s, not an array", t.Kind())
	}
	if rank, _ := t.Rank(); rank != 1 {
		return typeErrorf("expected a 1-D array when converting to a slice, have rank %d", rank)
	}
	n, _ := t.Len()
	out := make([]T, n)
	for i := 0; i < n; i++ {
		elem, err := t.Index(i)
		if err != nil {
			return err
		}
		v, err := get(elem)
		if err != nil {
			return err
		}
		out[i] = v
	}
	*dst = out
	return nil
}

// ReadField fills *dst from the named entry of a record Tome. Generated
// record readers are built on this.
func ReadField(t *Tome, key string, dst any) error {
	child, ok := t.Get(key)
	if !ok {
		if !t.IsRecord() {
			return typeErrorf("called ReadField on %s", t.Kind())
		}
		return typeErrorf("record has no key %q", key)
	}
	return AssignFromTome(dst, child)
}

// ReadOptionalField fills **dst from the named entry when present and
// leaves *dst nil otherwise.
func ReadOptionalField[T any](t *Tome, key string, dst **T) error {
	child, ok := t.Get(key)
	if !ok {
		if !t.IsRecord() {
			return typeErrorf("called ReadOptionalField on %s", t.Kind())
		}
		*dst = nil
		return nil
	}
	var out T
	if err := AssignFromTome(&out, child); err != nil {
		return err
	}
	*dst = &out
	return nil
}

// SetField converts a native value and inserts it under key.
func SetField(t *Tome, key string, v any) error {
	elem, err := ToTome(v)
	if err != nil {
		return err
	}
	return t.Set(key, elem)
}

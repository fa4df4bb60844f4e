package scribe

import "math"

// NumType enumerates the twelve atomic numeric kinds a Tome can hold:
// signed and unsigned integers of 8 to 64 bits, single and double precision
// reals, and complex numbers built from pairs of them.
type NumType uint8

const (
	Int8 NumType = iota
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

	numTypeCount
)

// numTypeNames holds the canonical lowercase names used in schema documents.
var numTypeNames = [numTypeCount]string{
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
}

func (nt NumType) String() string {
	if nt < numTypeCount {
		return numTypeNames[nt]
	}
	return "invalid"
}

// ParseNumType maps a canonical name back to its NumType.
func ParseNumType(name string) (NumType, bool) {
	for nt, s := range numTypeNames {
		if s == name {
			return NumType(nt), true
		}
	}
	return 0, false
}

// IsInteger reports whether nt is one of the eight integer kinds.
func (nt NumType) IsInteger() bool { return nt <= Uint64 }

// IsReal reports whether nt is float32 or float64.
func (nt NumType) IsReal() bool { return nt == Float32 || nt == Float64 }

// IsComplex reports whether nt is complex64 or complex128.
func (nt NumType) IsComplex() bool { return nt == Complex64 || nt == Complex128 }

// intRange returns the inclusive [min, max] range of an integer NumType.
// max is returned as uint64 so that Uint64 fits.
func (nt NumType) intRange() (min int64, max uint64) {
	switch nt {
	case Int8:
		return math.MinInt8, math.MaxInt8
	case Int16:
		return math.MinInt16, math.MaxInt16
	case Int32:
		return math.MinInt32, math.MaxInt32
	case Int64:
		return math.MinInt64, math.MaxInt64
	case Uint8:
		return 0, math.MaxUint8
	case Uint16:
		return 0, math.MaxUint16
	case Uint32:
		return 0, math.MaxUint32
	case Uint64:
		return 0, math.MaxUint64
	}
	panic("scribe: intRange on non-integer NumType")
}

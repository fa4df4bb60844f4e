package scribe

import "fmt"

// A Schema describes the permitted shape of a Tome. The zero value is the
// "any" schema.
//
// Schema has value semantics but is cheap to copy: it is a handle to an
// immutable node shared by reference. Sub-schemas may appear in multiple
// parents, so a schema forms a DAG, never a cycle. After construction a
// schema is never mutated, which also makes it safe to share across
// goroutines.
type Schema struct {
	impl *schemaImpl
}

type schemaImpl struct {
	node SchemaNode
	meta Metadata
}

// Metadata carries the optional descriptive fields of a schema node.
type Metadata struct {
	// Name is an optional identifier for the schema. Codegen uses it as the
	// generated record type name.
	Name string

	// Description is an optional human-readable description.
	Description string
}

// the interned impl behind zero-value and Any() schemas
var anyImpl = &schemaImpl{node: AnySchema{}}

func (s Schema) resolve() *schemaImpl {
	if s.impl == nil {
		return anyImpl
	}
	return s.impl
}

// Node returns the variant node of the schema. Callers dispatch with a type
// switch over the concrete node types.
func (s Schema) Node() SchemaNode { return s.resolve().node }

// Name returns the optional schema name.
func (s Schema) Name() string { return s.resolve().meta.Name }

// Description returns the optional schema description.
func (s Schema) Description() string { return s.resolve().meta.Description }

// Same reports whether two schemas share the same underlying node. This is
// handle identity, not structural equality; it is what codegen deduplicates
// by.
func (s Schema) Same(other Schema) bool { return s.resolve() == other.resolve() }

// NewSchema wraps a node and its metadata into an immutable Schema handle.
// It rejects nodes that violate the structural invariants: duplicate record
// keys, an empty declared shape, or a None element schema.
func NewSchema(node SchemaNode, meta Metadata) (Schema, error) {
	switch n := node.(type) {
	case ArraySchema:
		if n.Shape != nil && len(n.Shape) == 0 {
			return Schema{}, validationf("", "array schema with empty shape")
		}
		if _, ok := n.Elements.Node().(NoneSchema); ok {
			return Schema{}, validationf("", "array schema with 'none' elements is never useful")
		}
	case RecordSchema:
		seen := make(map[string]struct{}, len(n.Items))
		for _, item := range n.Items {
			if _, dup := seen[item.Key]; dup {
				return Schema{}, validationf("", "duplicate record key %q", item.Key)
			}
			seen[item.Key] = struct{}{}
		}
	case nil:
		return Schema{}, validationf("", "nil schema node")
	}
	return Schema{impl: &schemaImpl{node: node, meta: meta}}, nil
}

// MustSchema is NewSchema for statically known-good nodes. It panics on
// invariant violations.
func MustSchema(node SchemaNode, meta Metadata) Schema {
	s, err := NewSchema(node, meta)
	if err != nil {
		panic(fmt.Sprintf("scribe: invalid schema: %v", err))
	}
	return s
}

// SchemaNode is the closed set of schema variants.
type SchemaNode interface {
	isSchemaNode()
}

// NoneSchema validates nothing. A document is never valid against it.
type NoneSchema struct{}

// AnySchema validates any Tome.
type AnySchema struct{}

// BoolSchema validates a boolean scalar.
type BoolSchema struct{}

// NumberSchema validates a number of a specific NumType.
type NumberSchema struct {
	Type NumType
}

// StringSchema validates a string scalar, optionally bounding its length.
type StringSchema struct {
	MinLength *int
	MaxLength *int
}

// ArraySchema validates an n-dimensional array. Shape is optional; a shape
// entry of -1 is a wildcard matching any size.
type ArraySchema struct {
	Elements Schema
	Shape    []int64
}

// ItemSchema is one declared entry of a record.
type ItemSchema struct {
	Key      string
	Schema   Schema
	Optional bool
}

// RecordSchema validates a string-keyed record against an ordered item list.
// Keys are unique within a record.
type RecordSchema struct {
	Items []ItemSchema
}

func (NoneSchema) isSchemaNode()   {}
func (AnySchema) isSchemaNode()    {}
func (BoolSchema) isSchemaNode()   {}
func (NumberSchema) isSchemaNode() {}
func (StringSchema) isSchemaNode() {}
func (ArraySchema) isSchemaNode()  {}
func (RecordSchema) isSchemaNode() {}

// ValidateInt checks a signed integer against the range of the target
// NumType. Floating and complex targets accept any integer value.
func (s NumberSchema) ValidateInt(v int64) error {
	if !s.Type.IsInteger() {
		return nil
	}
	min, max := s.Type.intRange()
	if v < min {
		return validationf("", "value %d below minimum %d of %s", v, min, s.Type)
	}
	if v >= 0 && uint64(v) > max {
		return validationf("", "value %d above maximum %d of %s", v, max, s.Type)
	}
	return nil
}

// ValidateUint checks an unsigned integer against the range of the target
// NumType.
func (s NumberSchema) ValidateUint(v uint64) error {
	if !s.Type.IsInteger() {
		return nil
	}
	_, max := s.Type.intRange()
	if v > max {
		return validationf("", "value %d above maximum %d of %s", v, max, s.Type)
	}
	return nil
}

// ValidateFloat succeeds only for floating or complex targets. Integer
// schemas reject float primitives outright: the source tagging is part of
// the contract, even when the float happens to be integral-valued.
func (s NumberSchema) ValidateFloat(v float64) error {
	if s.Type.IsInteger() {
		return validationf("", "expected integer, got float %v", v)
	}
	return nil
}

// ValidateComplex succeeds only for complex targets.
func (s NumberSchema) ValidateComplex(re, im float64) error {
	if !s.Type.IsComplex() {
		return validationf("", "unexpected complex number for %s", s.Type)
	}
	return nil
}

// Validate checks the length bounds of a string.
func (s StringSchema) Validate(v string) error {
	if s.MinLength != nil && len(v) < *s.MinLength {
		return validationf("", "string of length %d below minimum length %d", len(v), *s.MinLength)
	}
	if s.MaxLength != nil && len(v) > *s.MaxLength {
		return validationf("", "string of length %d above maximum length %d", len(v), *s.MaxLength)
	}
	return nil
}

// ValidateShape checks an observed array shape against the declared one.
// Rank must match; a declared -1 matches any size. Without a declared shape
// any observed shape is accepted.
func (s ArraySchema) ValidateShape(shape []int) error {
	if s.Shape == nil {
		return nil
	}
	if len(shape) != len(s.Shape) {
		return validationf("", "expected array of rank %d, got rank %d", len(s.Shape), len(shape))
	}
	for i, want := range s.Shape {
		if want == -1 {
			continue
		}
		if int64(shape[i]) != want {
			return validationf("", "expected dimension %d of size %d, got %d", i, want, shape[i])
		}
	}
	return nil
}

func (s RecordSchema) findItem(key string) int {
	for i := range s.Items {
		if s.Items[i].Key == key {
			return i
		}
	}
	return -1
}

// Validate matches an observed key list against the declared items. Every
// observed key must be declared, and every non-optional item must be
// observed. On success it returns the matched sub-schemas in the same order
// as keys.
func (s RecordSchema) Validate(keys []string) ([]Schema, error) {
	found := make([]bool, len(s.Items))
	schemas := make([]Schema, len(keys))
	for i, key := range keys {
		idx := s.findItem(key)
		if idx < 0 {
			return nil, validationf("", "unexpected key %q", key)
		}
		found[idx] = true
		schemas[i] = s.Items[idx].Schema
	}
	for i, item := range s.Items {
		if !item.Optional && !found[i] {
			return nil, validationf("", "missing key %q", item.Key)
		}
	}
	return schemas, nil
}

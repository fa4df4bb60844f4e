// Package dsl provides shorthand constructors for building schemas in Go
// code, mirroring the schema document format.
//
//	s := dsl.Record(
//	    dsl.Item("samples", dsl.Array(dsl.Number(scribe.Float64), 2, -1)),
//	    dsl.Optional("comment", dsl.String()),
//	)
package dsl

import scribe "github.com/reoring/scribe"

// None returns the schema nothing is valid against.
func None() scribe.Schema {
	return scribe.MustSchema(scribe.NoneSchema{}, scribe.Metadata{})
}

// Any returns the schema everything is valid against.
func Any() scribe.Schema { return scribe.Schema{} }

// Bool returns a boolean schema.
func Bool() scribe.Schema {
	return scribe.MustSchema(scribe.BoolSchema{}, scribe.Metadata{})
}

// Number returns a numeric schema of the given kind.
func Number(nt scribe.NumType) scribe.Schema {
	return scribe.MustSchema(scribe.NumberSchema{Type: nt}, scribe.Metadata{})
}

// String returns an unbounded string schema.
func String() scribe.Schema {
	return scribe.MustSchema(scribe.StringSchema{}, scribe.Metadata{})
}

// StringLen returns a string schema with inclusive length bounds.
func StringLen(minLen, maxLen int) scribe.Schema {
	return scribe.MustSchema(scribe.StringSchema{MinLength: &minLen, MaxLength: &maxLen}, scribe.Metadata{})
}

// Array returns an array schema. With no dims the shape is left undeclared;
// a dim of -1 is a wildcard.
func Array(elements scribe.Schema, dims ...int64) scribe.Schema {
	s := scribe.ArraySchema{Elements: elements}
	if len(dims) > 0 {
		s.Shape = dims
	}
	return scribe.MustSchema(s, scribe.Metadata{})
}

// Record returns a record schema over the given items.
func Record(items ...scribe.ItemSchema) scribe.Schema {
	return scribe.MustSchema(scribe.RecordSchema{Items: items}, scribe.Metadata{})
}

// Named attaches a schema name, as used by codegen for record type names.
func Named(name string, s scribe.Schema) scribe.Schema {
	return scribe.MustSchema(s.Node(), scribe.Metadata{Name: name, Description: s.Description()})
}

// Item declares a required record entry.
func Item(key string, s scribe.Schema) scribe.ItemSchema {
	return scribe.ItemSchema{Key: key, Schema: s}
}

// Optional declares an optional record entry.
func Optional(key string, s scribe.Schema) scribe.ItemSchema {
	return scribe.ItemSchema{Key: key, Schema: s, Optional: true}
}

// Package scribe is a schema-governed, format-agnostic data-exchange engine
// for scientific and engineering payloads.
//
// The package revolves around two values:
//
//   - Tome: a dynamically tagged value spanning atomic scalars (bool, string,
//     twelve numeric kinds), homogeneous numeric n-dimensional arrays,
//     heterogeneous arrays and string-keyed records.
//   - Schema: an immutable, shareable description of the Tomes a document is
//     permitted to contain.
//
// Schema-directed drivers move data between Tomes and external container
// formats (a JSON text tree and a hierarchical binary container), validating
// and converting in a single recursive pass. Validation failures carry the
// slash-separated path of the offending sub-document.
//
// Typical use:
//
//	schema, err := scribe.SchemaFromFile("experiment.schema.json")
//	tome, err := scribe.ReadFile("run-042.json", schema)
//	err = scribe.WriteFile("run-042.h5", &tome, schema)
package scribe

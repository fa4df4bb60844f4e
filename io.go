package scribe

import (
	"os"
	"strings"
)

// File formats are inferred from the path suffix: ".json" selects the text
// tree format, ".h5" and ".hdf5" the hierarchical binary container.

// ReadFile reads a data file as a Tome under the schema.
func ReadFile(filename string, schema Schema) (Tome, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return Tome{}, &ReadError{Message: "reading file", Cause: err}
	}
	switch {
	case strings.HasSuffix(filename, ".json"):
		return ReadJSON(data, schema)
	case strings.HasSuffix(filename, ".h5"), strings.HasSuffix(filename, ".hdf5"):
		return ReadHBin(data, schema)
	}
	return Tome{}, readf("", "unrecognized file format for %q", filename)
}

// WriteFile writes a Tome to a data file under the schema.
func WriteFile(filename string, src *Tome, schema Schema) error {
	var data []byte
	var err error
	switch {
	case strings.HasSuffix(filename, ".json"):
		data, err = WriteJSON(src, schema)
	case strings.HasSuffix(filename, ".h5"), strings.HasSuffix(filename, ".hdf5"):
		data, err = WriteHBin(src, schema)
	default:
		return writef("", "unrecognized file format for %q", filename)
	}
	if err != nil {
		return err
	}
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return &WriteError{Message: "writing file", Cause: err}
	}
	return nil
}

// ValidateFile checks a data file against the schema without building a
// Tome.
func ValidateFile(filename string, schema Schema) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return &ReadError{Message: "reading file", Cause: err}
	}
	switch {
	case strings.HasSuffix(filename, ".json"):
		return ValidateJSON(data, schema)
	case strings.HasSuffix(filename, ".h5"), strings.HasSuffix(filename, ".hdf5"):
		return ValidateHBin(data, schema)
	}
	return readf("", "unrecognized file format for %q", filename)
}

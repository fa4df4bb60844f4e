package scribe

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func binarySchema(t *testing.T) Schema {
	t.Helper()
	return mustLoad(t, `{
		"type": "record",
		"items": [
			{"key": "name", "type": "string"},
			{"key": "ok", "type": "bool"},
			{"key": "count", "type": "int32"},
			{"key": "ratio", "type": "float64"},
			{"key": "z", "type": "complex128"},
			{"key": "xs", "type": "array", "shape": [2, 2], "elements": {"type": "float64"}},
			{"key": "note", "optional": true, "type": "string"}
		]
	}`)
}

func binaryTome(t *testing.T) Tome {
	t.Helper()
	tome := NewRecord()
	require.NoError(t, tome.Set("name", NewString("run")))
	require.NoError(t, tome.Set("ok", NewBool(true)))
	require.NoError(t, tome.Set("count", NewInteger(int32(-3))))
	require.NoError(t, tome.Set("ratio", NewReal(0.125)))
	require.NoError(t, tome.Set("z", NewComplex(complex(1.0, -1.0))))
	require.NoError(t, tome.Set("xs", mustNumeric(t, []float64{1, 2, 3, 4}, 2, 2)))
	return tome
}

func TestHBinRoundTripUnderSchema(t *testing.T) {
	schema := binarySchema(t)
	tome := binaryTome(t)

	data, err := WriteHBin(&tome, schema)
	require.NoError(t, err)

	require.NoError(t, ValidateHBin(data, schema))

	back, err := ReadHBin(data, schema)
	require.NoError(t, err)
	require.True(t, tome.Equal(&back), "round trip changed the tome:\n%s\nvs\n%s", tome.String(), back.String())
}

func TestHBinReadUnderAnyMirrorsStructure(t *testing.T) {
	schema := binarySchema(t)
	tome := binaryTome(t)

	data, err := WriteHBin(&tome, schema)
	require.NoError(t, err)

	back, err := ReadHBin(data, Schema{})
	require.NoError(t, err)
	require.True(t, tome.Equal(&back))
}

func TestHBinDatasetTypeMismatch(t *testing.T) {
	tome := NewRecord()
	require.NoError(t, tome.Set("count", NewInteger(int32(1))))
	schema := mustLoad(t, `{"type": "record", "items": [{"key": "count", "type": "int32"}]}`)

	data, err := WriteHBin(&tome, schema)
	require.NoError(t, err)

	wrong := mustLoad(t, `{"type": "record", "items": [{"key": "count", "type": "int64"}]}`)
	_, err = ReadHBin(data, wrong)
	require.True(t, IsValidation(err))
}

func TestHBinMissingRequiredKey(t *testing.T) {
	schema := mustLoad(t, `{
		"type": "record",
		"items": [{"key": "a", "type": "bool"}, {"key": "b", "type": "bool"}]
	}`)
	tome := NewRecord()
	require.NoError(t, tome.Set("a", NewBool(true)))

	_, err := WriteHBin(&tome, schema)
	require.True(t, IsValidation(err))
}

func TestHBinHeterogeneousArrayNotRepresentable(t *testing.T) {
	mixed, err := NewArray([]Tome{NewInteger(int64(1)), NewString("x")})
	require.NoError(t, err)
	tome := NewRecord()
	require.NoError(t, tome.Set("mixed", mixed))

	_, err = WriteHBin(&tome, Schema{})
	require.True(t, IsWrite(err))
}

func TestHBinStringArray(t *testing.T) {
	schema := mustLoad(t, `{
		"type": "record",
		"items": [{"key": "tags", "type": "array", "shape": [-1], "elements": {"type": "string"}}]
	}`)
	tags, err := NewArray([]Tome{NewString("a"), NewString("b")})
	require.NoError(t, err)
	tome := NewRecord()
	require.NoError(t, tome.Set("tags", tags))

	data, err := WriteHBin(&tome, schema)
	require.NoError(t, err)
	back, err := ReadHBin(data, schema)
	require.NoError(t, err)
	require.True(t, tome.Equal(&back))
}

func TestFileRoundTripHBin(t *testing.T) {
	schema := binarySchema(t)
	tome := binaryTome(t)

	path := t.TempDir() + "/data.h5"
	require.NoError(t, WriteFile(path, &tome, schema))
	require.NoError(t, ValidateFile(path, schema))

	back, err := ReadFile(path, schema)
	require.NoError(t, err)
	require.True(t, tome.Equal(&back))
}

func TestConvertBetweenFormats(t *testing.T) {
	schema := binarySchema(t)
	tome := binaryTome(t)

	dir := t.TempDir()
	jsonPath := dir + "/data.json"
	binPath := dir + "/data.hdf5"

	require.NoError(t, WriteFile(jsonPath, &tome, schema))
	fromJSON, err := ReadFile(jsonPath, schema)
	require.NoError(t, err)
	require.NoError(t, WriteFile(binPath, &fromJSON, schema))

	fromBin, err := ReadFile(binPath, schema)
	require.NoError(t, err)
	require.True(t, tome.Equal(&fromBin))
}

package scribe

import (
	"bytes"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWriteRoundTripUnderSchema(t *testing.T) {
	schema := mustLoad(t, `{
		"type": "record",
		"items": [
			{"key": "name", "type": "string"},
			{"key": "flag", "type": "bool"},
			{"key": "count", "type": "int32"},
			{"key": "ratio", "type": "float64"},
			{"key": "z", "type": "complex128"},
			{"key": "xs", "type": "array", "shape": [2, 2], "elements": {"type": "float64"}},
			{"key": "note", "optional": true, "type": "string"}
		]
	}`)

	tome := NewRecord()
	require.NoError(t, tome.Set("name", NewString("run-042")))
	require.NoError(t, tome.Set("flag", NewBool(true)))
	require.NoError(t, tome.Set("count", NewInteger(int32(-5))))
	require.NoError(t, tome.Set("ratio", NewReal(0.25)))
	require.NoError(t, tome.Set("z", NewComplex(complex(1.5, -2.5))))
	require.NoError(t, tome.Set("xs", mustNumeric(t, []float64{1, 2, 3, 4}, 2, 2)))

	data, err := WriteJSON(&tome, schema)
	require.NoError(t, err)

	back, err := ReadJSON(data, schema)
	require.NoError(t, err)
	require.True(t, tome.Equal(&back), "round trip changed the tome:\n%s\nvs\n%s", tome.String(), back.String())
}

func TestWriteRoundTripUnderAny(t *testing.T) {
	tome := NewRecord()
	require.NoError(t, tome.Set("b", NewBool(false)))
	require.NoError(t, tome.Set("s", NewString("hi")))
	require.NoError(t, tome.Set("i", NewInteger(int64(-12))))
	require.NoError(t, tome.Set("u", NewInteger(^uint64(0))))
	require.NoError(t, tome.Set("f", NewReal(3.5)))

	inner, err := NewArray([]Tome{NewInteger(int64(1)), NewString("two")})
	require.NoError(t, err)
	require.NoError(t, tome.Set("mixed", inner))

	data, err := WriteJSON(&tome, Schema{})
	require.NoError(t, err)

	back, err := ReadJSON(data, Schema{})
	require.NoError(t, err)
	require.True(t, tome.Equal(&back))
}

func TestWriteRecordUsesSchemaOrderAndSkipsAbsentOptionals(t *testing.T) {
	schema := mustLoad(t, `{
		"type": "record",
		"items": [
			{"key": "a", "type": "int64"},
			{"key": "b", "optional": true, "type": "string"},
			{"key": "c", "type": "bool"}
		]
	}`)

	tome := NewRecord()
	// insertion order deliberately differs from schema order
	require.NoError(t, tome.Set("c", NewBool(true)))
	require.NoError(t, tome.Set("a", NewInteger(int64(1))))

	data, err := WriteJSON(&tome, schema)
	require.NoError(t, err)
	require.Contains(t, string(data), `"a"`)
	require.NotContains(t, string(data), `"b"`)
	// deterministic, schema-declared member order
	require.Less(t, bytes.Index(data, []byte(`"a"`)), bytes.Index(data, []byte(`"c"`)))
}

func TestWriteMissingRequiredKey(t *testing.T) {
	schema := mustLoad(t, `{"type": "record", "items": [{"key": "a", "type": "int64"}]}`)
	tome := NewRecord()
	_, err := WriteJSON(&tome, schema)
	require.True(t, IsValidation(err))
	require.Contains(t, err.Error(), `"a"`)
}

func TestWriteShapeMismatch(t *testing.T) {
	schema := mustLoad(t, `{"type": "array", "shape": [3], "elements": {"type": "int32"}}`)
	tome := mustNumeric(t, []int32{1, 2}, 2)
	_, err := WriteJSON(&tome, schema)
	require.True(t, IsValidation(err))
}

func TestWriteIntegerRangeChecked(t *testing.T) {
	schema := mustLoad(t, `{"type": "uint8"}`)
	tome := NewInteger(int64(300))
	_, err := WriteJSON(&tome, schema)
	require.True(t, IsValidation(err))
}

func TestWriteNonFiniteFloatFails(t *testing.T) {
	schema := mustLoad(t, `{"type": "float64"}`)
	tome := NewReal(math.Inf(1))
	_, err := WriteJSON(&tome, schema)
	require.True(t, IsWrite(err))
}

func TestWriteFloatKeepsFloatTag(t *testing.T) {
	schema := mustLoad(t, `{"type": "float64"}`)
	tome := NewReal(2.0)
	data, err := WriteJSON(&tome, schema)
	require.NoError(t, err)
	require.Contains(t, string(data), "2.0", "an integral-valued float must read back as a float primitive")
}

func TestFileRoundTripJSON(t *testing.T) {
	schema := mustLoad(t, `{"type": "record", "items": [{"key": "xs", "type": "array", "shape": [-1], "elements": {"type": "int64"}}]}`)
	tome := NewRecord()
	require.NoError(t, tome.Set("xs", mustNumeric(t, []int64{7, 8, 9})))

	path := t.TempDir() + "/data.json"
	require.NoError(t, WriteFile(path, &tome, schema))
	require.NoError(t, ValidateFile(path, schema))

	back, err := ReadFile(path, schema)
	require.NoError(t, err)
	require.True(t, tome.Equal(&back))

	err = WriteFile(t.TempDir()+"/data.csv", &tome, schema)
	require.True(t, IsWrite(err), "unknown suffix must fail with a Write error")
}

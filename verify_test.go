package scribe

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAcceptsAgreesWithValidateOnConformantDocuments(t *testing.T) {
	schema := mustLoad(t, `{
		"type": "record",
		"items": [
			{"key": "n", "type": "uint16"},
			{"key": "s", "optional": true, "type": "string", "max_length": 3}
		]
	}`)

	good := [][]byte{
		[]byte(`{"n": 65535}`),
		[]byte(`{"n": 0, "s": "abc"}`),
	}
	bad := [][]byte{
		[]byte(`{"n": 65536}`),
		[]byte(`{"n": 1, "s": "abcd"}`),
		[]byte(`{"s": "a"}`),
		[]byte(`{"n": 1, "zap": true}`),
	}
	for _, doc := range good {
		require.True(t, schema.AcceptsJSON(doc), "%s", doc)
		require.NoError(t, ValidateJSON(doc, schema))
	}
	for _, doc := range bad {
		require.False(t, schema.AcceptsJSON(doc), "%s", doc)
		require.Error(t, ValidateJSON(doc, schema))
	}
}

func TestAcceptsIsShapeLenient(t *testing.T) {
	// the permissive pass checks elements only; the strict driver enforces
	// the declared shape
	schema := mustLoad(t, `{"type": "array", "shape": [3], "elements": {"type": "int8"}}`)
	doc := []byte(`[1, 2]`)
	require.True(t, schema.AcceptsJSON(doc))
	require.Error(t, ValidateJSON(doc, schema))
}

func TestAcceptsNoneAndAny(t *testing.T) {
	none := mustLoad(t, `{"type": "none"}`)
	require.False(t, none.AcceptsJSON([]byte(`1`)))

	var anySchema Schema
	require.True(t, anySchema.AcceptsJSON([]byte(`{"whatever": [1, 2, 3]}`)))
}

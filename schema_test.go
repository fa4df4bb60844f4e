package scribe

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func mustLoad(t *testing.T, doc string) Schema {
	t.Helper()
	s, err := SchemaFromJSON([]byte(doc))
	require.NoError(t, err)
	return s
}

func TestSchemaDefaultsToAny(t *testing.T) {
	var s Schema
	_, ok := s.Node().(AnySchema)
	require.True(t, ok, "zero-value schema should be 'any'")

	// a document without "type" is 'any' too
	s = mustLoad(t, `{}`)
	_, ok = s.Node().(AnySchema)
	require.True(t, ok)
}

func TestSchemaLoaderVariants(t *testing.T) {
	s := mustLoad(t, `{"type": "none"}`)
	_, ok := s.Node().(NoneSchema)
	require.True(t, ok)

	s = mustLoad(t, `{"type": "bool"}`)
	_, ok = s.Node().(BoolSchema)
	require.True(t, ok)

	s = mustLoad(t, `{"type": "uint32"}`)
	num, ok := s.Node().(NumberSchema)
	require.True(t, ok)
	require.Equal(t, Uint32, num.Type)

	s = mustLoad(t, `{"type": "string", "min_length": 2, "max_length": 4}`)
	str, ok := s.Node().(StringSchema)
	require.True(t, ok)
	require.Equal(t, 2, *str.MinLength)
	require.Equal(t, 4, *str.MaxLength)

	s = mustLoad(t, `{"type": "array", "shape": [2, -1], "elements": {"type": "int32"}}`)
	arr, ok := s.Node().(ArraySchema)
	require.True(t, ok)
	require.Equal(t, []int64{2, -1}, arr.Shape)
	elem, ok := arr.Elements.Node().(NumberSchema)
	require.True(t, ok)
	require.Equal(t, Int32, elem.Type)

	s = mustLoad(t, `{
		"type": "record",
		"items": [
			{"key": "foo", "type": "int64"},
			{"key": "bar", "optional": true, "type": "string"}
		]
	}`)
	rec, ok := s.Node().(RecordSchema)
	require.True(t, ok)
	require.Len(t, rec.Items, 2)
	require.Equal(t, "foo", rec.Items[0].Key)
	require.False(t, rec.Items[0].Optional)
	require.True(t, rec.Items[1].Optional)
}

func TestSchemaLoaderAcceptsLegacyDict(t *testing.T) {
	s := mustLoad(t, `{"type": "dict", "items": [{"key": "x", "type": "bool"}]}`)
	_, ok := s.Node().(RecordSchema)
	require.True(t, ok)

	// legacy name is normalized to "record" on write
	out, err := s.MarshalJSON()
	require.NoError(t, err)
	require.Contains(t, string(out), `"record"`)
	require.NotContains(t, string(out), `"dict"`)
}

func TestSchemaLoaderRejects(t *testing.T) {
	cases := []string{
		`{"type": "float16"}`,
		`{"type": "array"}`,
		`{"type": "array", "shape": [], "elements": {"type": "int8"}}`,
		`{"type": "record"}`,
		`{"type": "record", "items": [{"type": "int8"}]}`,
		`{"type": "record", "items": [{"key": "a", "type": "int8"}, {"key": "a", "type": "int8"}]}`,
		`{"type": "string", "min_length": 5, "max_length": 2}`,
		`{"type": "array", "elements": {"type": "none"}}`,
	}
	for _, doc := range cases {
		_, err := SchemaFromJSON([]byte(doc))
		require.Error(t, err, "schema %s should not load", doc)
		require.True(t, IsValidation(err), "schema %s should fail with Validation, got %v", doc, err)
	}
}

func TestSchemaLoaderAcceptsComments(t *testing.T) {
	s := mustLoad(t, `{
		// the answer
		"type": "int32" /* tagged */
	}`)
	num, ok := s.Node().(NumberSchema)
	require.True(t, ok)
	require.Equal(t, Int32, num.Type)
}

func TestSchemaRoundTrip(t *testing.T) {
	doc := `{
		"schema_name": "run",
		"schema_description": "one measurement run",
		"type": "record",
		"items": [
			{"key": "samples", "type": "array", "shape": [-1], "elements": {"type": "float64"}},
			{"key": "label", "optional": true, "type": "string", "min_length": 1}
		]
	}`
	s := mustLoad(t, doc)
	out, err := s.MarshalJSON()
	require.NoError(t, err)

	back, err := SchemaFromJSON(out)
	require.NoError(t, err)
	require.Equal(t, "run", back.Name())
	require.Equal(t, "one measurement run", back.Description())

	rec, ok := back.Node().(RecordSchema)
	require.True(t, ok)
	require.Len(t, rec.Items, 2)
	arr, ok := rec.Items[0].Schema.Node().(ArraySchema)
	require.True(t, ok)
	require.Equal(t, []int64{-1}, arr.Shape)
	str, ok := rec.Items[1].Schema.Node().(StringSchema)
	require.True(t, ok)
	require.Equal(t, 1, *str.MinLength)
	require.Nil(t, str.MaxLength)
	require.True(t, rec.Items[1].Optional)
}

func TestRecordValidateKeySets(t *testing.T) {
	s := RecordSchema{Items: []ItemSchema{
		{Key: "a", Schema: MustSchema(BoolSchema{}, Metadata{})},
		{Key: "b", Schema: MustSchema(StringSchema{}, Metadata{}), Optional: true},
	}}

	schemas, err := s.Validate([]string{"a"})
	require.NoError(t, err)
	require.Len(t, schemas, 1)

	schemas, err = s.Validate([]string{"b", "a"})
	require.NoError(t, err)
	_, ok := schemas[0].Node().(StringSchema)
	require.True(t, ok, "sub-schemas must come back in observed-key order")

	_, err = s.Validate([]string{"a", "zap"})
	require.Error(t, err)
	require.Contains(t, err.Error(), `"zap"`)

	_, err = s.Validate([]string{"b"})
	require.Error(t, err)
	require.Contains(t, err.Error(), `"a"`)

	// empty record validates under an empty item list
	empty := RecordSchema{}
	_, err = empty.Validate(nil)
	require.NoError(t, err)
}

func TestArrayShapeValidation(t *testing.T) {
	s := ArraySchema{Shape: []int64{2, -1}}
	require.NoError(t, s.ValidateShape([]int{2, 7}))
	require.Error(t, s.ValidateShape([]int{3, 7}))
	require.Error(t, s.ValidateShape([]int{2}))

	unshaped := ArraySchema{}
	require.NoError(t, unshaped.ValidateShape([]int{4, 4, 4}))
}

func TestSchemaSharing(t *testing.T) {
	shared := MustSchema(NumberSchema{Type: Float64}, Metadata{})
	a := MustSchema(ArraySchema{Elements: shared}, Metadata{})
	b := MustSchema(ArraySchema{Elements: shared}, Metadata{})

	require.True(t, a.Node().(ArraySchema).Elements.Same(b.Node().(ArraySchema).Elements))
	require.False(t, a.Same(b))
}

func TestSchemaFromYAML(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/schema.yaml"
	yamlDoc := strings.Join([]string{
		"# commented schema",
		"type: record",
		"items:",
		"  - key: count",
		"    type: int32",
	}, "\n")
	require.NoError(t, os.WriteFile(path, []byte(yamlDoc), 0o644))

	s, err := SchemaFromFile(path)
	require.NoError(t, err)
	rec, ok := s.Node().(RecordSchema)
	require.True(t, ok)
	require.Equal(t, "count", rec.Items[0].Key)
}

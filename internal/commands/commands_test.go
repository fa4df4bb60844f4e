package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	scribe "github.com/reoring/scribe"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := RootCmd()
	root.AddCommand(ValidateCmd())
	root.AddCommand(ConvertCmd())
	root.AddCommand(CodegenCmd())
	root.AddCommand(GuessSchemaCmd())

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func writeFixtures(t *testing.T) (schemaPath, dataPath string) {
	t.Helper()
	dir := t.TempDir()
	schemaPath = filepath.Join(dir, "schema.json")
	dataPath = filepath.Join(dir, "data.json")

	schema := `{
		"type": "record",
		"items": [
			{"key": "count", "type": "int32"},
			{"key": "xs", "type": "array", "shape": [-1], "elements": {"type": "float64"}}
		]
	}`
	data := `{"count": 3, "xs": [1.0, 2.0, 3.0]}`
	require.NoError(t, os.WriteFile(schemaPath, []byte(schema), 0o644))
	require.NoError(t, os.WriteFile(dataPath, []byte(data), 0o644))
	return schemaPath, dataPath
}

func TestValidateCommandOK(t *testing.T) {
	schemaPath, dataPath := writeFixtures(t)
	out, err := run(t, "validate", "--schema", schemaPath, dataPath)
	require.NoError(t, err)
	require.Contains(t, out, "validation OK")
}

func TestValidateCommandFailure(t *testing.T) {
	schemaPath, dataPath := writeFixtures(t)
	require.NoError(t, os.WriteFile(dataPath, []byte(`{"count": "three", "xs": []}`), 0o644))

	_, err := run(t, "validate", "--schema", schemaPath, dataPath)
	require.Error(t, err)
	require.True(t, scribe.IsValidation(err), "wrapped error keeps its kind")
	require.Contains(t, err.Error(), "validation FAILED")
	require.Contains(t, err.Error(), "/count")
}

func TestConvertCommand(t *testing.T) {
	schemaPath, dataPath := writeFixtures(t)
	outPath := filepath.Join(t.TempDir(), "out.h5")

	_, err := run(t, "convert", "--schema", schemaPath, dataPath, outPath)
	require.NoError(t, err)

	schema, err := scribe.SchemaFromFile(schemaPath)
	require.NoError(t, err)
	tome, err := scribe.ReadFile(outPath, schema)
	require.NoError(t, err)
	count, ok := tome.Get("count")
	require.True(t, ok)
	v, err := scribe.NumberOf[int32](count)
	require.NoError(t, err)
	require.Equal(t, int32(3), v)
}

func TestConvertCommandUnknownSuffix(t *testing.T) {
	schemaPath, dataPath := writeFixtures(t)
	_, err := run(t, "convert", "--schema", schemaPath, dataPath, filepath.Join(t.TempDir(), "out.xml"))
	require.Error(t, err)
	require.False(t, scribe.IsValidation(err), "format errors must not exit as validation failures")
}

func TestCodegenCommand(t *testing.T) {
	schemaPath, _ := writeFixtures(t)
	out, err := run(t, "codegen", "--schema", schemaPath, "--package", "gen")
	require.NoError(t, err)
	require.Contains(t, out, "package gen")
	require.Contains(t, out, "Count int32")
}

func TestGuessSchemaCommand(t *testing.T) {
	_, dataPath := writeFixtures(t)
	out, err := run(t, "guess-schema", dataPath)
	require.NoError(t, err)
	require.Contains(t, out, `"record"`)
	require.Contains(t, out, `"int64"`)
	require.Contains(t, out, `"float64"`)
}

package codegen

import (
	"strings"
	"testing"

	scribe "github.com/reoring/scribe"
	"github.com/reoring/scribe/dsl"
	"github.com/stretchr/testify/require"
)

func TestGenerateNamedRecord(t *testing.T) {
	schema := dsl.Named("measurement", dsl.Record(
		dsl.Item("sample_rate", dsl.Number(scribe.Float64)),
		dsl.Item("samples", dsl.Array(dsl.Number(scribe.Int16), -1)),
		dsl.Optional("comment", dsl.String()),
		dsl.Item("ok", dsl.Bool()),
		dsl.Item("blob", dsl.Any()),
	))

	src, err := Generate(schema, "telemetry")
	require.NoError(t, err)

	require.Contains(t, src, "package telemetry")
	require.Contains(t, src, "type Measurement struct {")
	require.Contains(t, src, "SampleRate float64 `tome:\"sample_rate\"`")
	require.Contains(t, src, "Samples []int16 `tome:\"samples\"`")
	require.Contains(t, src, "Comment *string `tome:\"comment,optional\"`")
	require.Contains(t, src, "Ok bool `tome:\"ok\"`")
	require.Contains(t, src, "Blob scribe.Tome `tome:\"blob\"`")
	require.Contains(t, src, "func (x *Measurement) UnmarshalTome(t *scribe.Tome) error {")
	require.Contains(t, src, "func (x Measurement) MarshalTome() (scribe.Tome, error) {")
}

func TestGenerateNestedAndSharedRecords(t *testing.T) {
	point := dsl.Record(
		dsl.Item("x", dsl.Number(scribe.Float64)),
		dsl.Item("y", dsl.Number(scribe.Float64)),
	)
	schema := dsl.Named("segment", dsl.Record(
		dsl.Item("from", point),
		dsl.Item("to", point),
	))

	src, err := Generate(schema, "geo")
	require.NoError(t, err)

	// the shared handle is emitted exactly once
	require.Equal(t, 1, strings.Count(src, "type AnonRecord0 struct {"))
	require.Contains(t, src, "From AnonRecord0 `tome:\"from\"`")
	require.Contains(t, src, "To AnonRecord0 `tome:\"to\"`")

	// inner definitions precede the records that use them
	require.Less(t, strings.Index(src, "type AnonRecord0 struct"), strings.Index(src, "type Segment struct"))
}

func TestGenerateStructurallyEqualButDistinctRecords(t *testing.T) {
	a := dsl.Record(dsl.Item("v", dsl.Number(scribe.Int8)))
	b := dsl.Record(dsl.Item("v", dsl.Number(scribe.Int8)))
	schema := dsl.Record(dsl.Item("a", a), dsl.Item("b", b))

	src, err := Generate(schema, "p")
	require.NoError(t, err)

	// deduplication is by handle identity, not structural equality
	require.Contains(t, src, "type AnonRecord0 struct")
	require.Contains(t, src, "type AnonRecord1 struct")
}

func TestGenerateRejectsNone(t *testing.T) {
	schema := dsl.Record(dsl.Item("nope", dsl.None()))
	_, err := Generate(schema, "p")
	require.Error(t, err)
}

package scribe

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestToTomeBuiltins(t *testing.T) {
	tome, err := ToTome(int8(-3))
	require.NoError(t, err)
	v, err := FromTome[int8](&tome)
	require.NoError(t, err)
	require.Equal(t, int8(-3), v)

	tome, err = ToTome("hello")
	require.NoError(t, err)
	s, err := FromTome[string](&tome)
	require.NoError(t, err)
	require.Equal(t, "hello", s)

	tome, err = ToTome([]float32{1, 2, 3})
	require.NoError(t, err)
	fs, err := FromTome[[]float32](&tome)
	require.NoError(t, err)
	require.Equal(t, []float32{1, 2, 3}, fs)

	tome, err = ToTome(complex64(complex(1, 1)))
	require.NoError(t, err)
	c, err := FromTome[complex64](&tome)
	require.NoError(t, err)
	require.Equal(t, complex64(complex(1, 1)), c)

	tome, err = ToTome([]string{"a", "b"})
	require.NoError(t, err)
	ss, err := FromTome[[]string](&tome)
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b"}, ss)

	_, err = ToTome(struct{}{})
	require.True(t, IsType(err))
}

func TestFromTomeKindMismatch(t *testing.T) {
	tome := NewString("nope")
	_, err := FromTome[int32](&tome)
	require.True(t, IsType(err))

	// no implicit widening
	narrow := NewInteger(int8(1))
	_, err = FromTome[int16](&narrow)
	require.True(t, IsType(err))
}

// sensor is a user record type wired into the engine through the two
// conversion interfaces.
type sensor struct {
	ID    uint32
	Gains []float64
	Label string
}

func (s sensor) MarshalTome() (Tome, error) {
	out := NewRecord()
	if err := SetField(&out, "id", s.ID); err != nil {
		return Tome{}, err
	}
	if err := SetField(&out, "gains", s.Gains); err != nil {
		return Tome{}, err
	}
	if err := SetField(&out, "label", s.Label); err != nil {
		return Tome{}, err
	}
	return out, nil
}

func (s *sensor) UnmarshalTome(t *Tome) error {
	if err := ReadField(t, "id", &s.ID); err != nil {
		return err
	}
	if err := ReadField(t, "gains", &s.Gains); err != nil {
		return err
	}
	return ReadField(t, "label", &s.Label)
}

func TestUserTypeRoundTrip(t *testing.T) {
	in := sensor{ID: 7, Gains: []float64{0.5, 1.5}, Label: "probe"}

	tome, err := ToTome(in)
	require.NoError(t, err)

	var out sensor
	require.NoError(t, AssignFromTome(&out, &tome))
	require.Equal(t, in, out)

	// driver output for the converted record follows the schema as usual
	schema := mustLoad(t, `{
		"type": "record",
		"items": [
			{"key": "id", "type": "uint32"},
			{"key": "gains", "type": "array", "shape": [-1], "elements": {"type": "float64"}},
			{"key": "label", "type": "string"}
		]
	}`)
	data, err := WriteJSON(&tome, schema)
	require.NoError(t, err)

	back, err := ReadJSON(data, schema)
	require.NoError(t, err)
	var decoded sensor
	require.NoError(t, AssignFromTome(&decoded, &back))
	require.Equal(t, in, decoded)
}

func TestReadFieldErrors(t *testing.T) {
	rec := NewRecord()
	require.NoError(t, rec.Set("present", NewBool(true)))

	var b bool
	require.NoError(t, ReadField(&rec, "present", &b))
	require.True(t, b)

	require.Error(t, ReadField(&rec, "absent", &b))

	var opt *bool
	require.NoError(t, ReadOptionalField(&rec, "absent", &opt))
	require.Nil(t, opt)
	require.NoError(t, ReadOptionalField(&rec, "present", &opt))
	require.NotNil(t, opt)
	require.True(t, *opt)
}

package record

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tuannm99/gorelix/internal/types"
)

func exampleSchema() Schema {
	return Schema{
		Attrs: []Attribute{
			{Name: "a", Kind: types.KindInt},
			{Name: "b", Kind: types.KindString, Len: 4},
		},
	}
}

func TestSchema_SerializeParseRoundTrip(t *testing.T) {
	s := Schema{
		Attrs: []Attribute{
			{Name: "id", Kind: types.KindInt},
			{Name: "price", Kind: types.KindFloat},
			{Name: "active", Kind: types.KindBool},
			{Name: "name", Kind: types.KindString, Len: 10},
		},
		Keys: []string{"id"},
	}

	str := s.Serialize()
	require.Equal(t, "Schema with <4> attributes (id: INT, price: FLOAT, active: BOOL, name: STRING[10]) with keys: (id)", str)

	parsed, err := ParseSchema(str)
	require.NoError(t, err)
	require.Equal(t, s, parsed)
}

func TestSchema_ParseNoKeys(t *testing.T) {
	str := "Schema with <1> attributes (x: INT) with keys: ()"
	parsed, err := ParseSchema(str)
	require.NoError(t, err)
	require.Equal(t, 1, parsed.NumAttrs())
	require.Empty(t, parsed.Keys)
}

func TestSchema_ParseMalformed(t *testing.T) {
	_, err := ParseSchema("not a schema string")
	require.ErrorIs(t, err, ErrBadSchemaString)
}

func TestSchema_Width(t *testing.T) {
	s := exampleSchema()
	// 1 (sentinel) + 4 (int) + 4 (string[4]) + 1 (separator) = 10
	require.Equal(t, 10, s.Width())
}

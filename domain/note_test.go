package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoteIDUnmarshalAcceptsNumbersAndStrings(t *testing.T) {
	var got []NoteSummary
	err := json.Unmarshal([]byte(`[{"id":1,"title":"X"},{"id":"abc","title":"Y"},{"id":null,"title":"Z"}]`), &got)
	require.NoError(t, err)

	assert.Equal(t, []NoteSummary{
		{ID: "1", Title: "X"},
		{ID: "abc", Title: "Y"},
		{ID: "", Title: "Z"},
	}, got)
}

func TestNoteIDMarshalsNumericIDsAsNumbers(t *testing.T) {
	data, err := json.Marshal(NoteSummary{ID: "42", Title: "t"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":42,"title":"t"}`, string(data))

	data, err = json.Marshal(NoteSummary{ID: "a-b", Title: "t"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"a-b","title":"t"}`, string(data))
}

func TestNoteIDMarshalKeepsNonCanonicalNumbersQuoted(t *testing.T) {
	for _, id := range []NoteID{"007", "+7"} {
		data, err := json.Marshal(id)
		require.NoError(t, err, "id %q", id)
		assert.Equal(t, `"`+string(id)+`"`, string(data))
		assert.True(t, json.Valid(data))
	}
}

func TestNoteIDInt64(t *testing.T) {
	n, ok := NoteID("7").Int64()
	assert.True(t, ok)
	assert.EqualValues(t, 7, n)

	for _, bad := range []NoteID{"", "0", "-3", "7a", "4 2"} {
		_, ok := bad.Int64()
		assert.False(t, ok, "id %q", bad)
	}
	assert.Equal(t, NoteID("12"), NoteIDFromInt(12))
}

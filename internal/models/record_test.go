package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseField(t *testing.T) {
	f, err := ParseField("nationalId")
	require.NoError(t, err)
	assert.Equal(t, NationalID, f)

	_, err = ParseField("NationalID")
	assert.ErrorIs(t, err, ErrUnknownField)
}

func TestFormRecordGetSet(t *testing.T) {
	var r FormRecord
	for _, f := range Fields {
		require.NoError(t, r.Set(f, string(f)+"-value"))
	}
	for _, f := range Fields {
		assert.Equal(t, string(f)+"-value", r.Get(f))
	}
	assert.ErrorIs(t, r.Set("age", "1"), ErrUnknownField)
	assert.Equal(t, "", r.Get("age"))
}

func TestCompletionPercentage(t *testing.T) {
	var r FormRecord
	assert.Equal(t, 0, r.CompletionPercentage())
	assert.True(t, r.IsEmpty())

	r.FullName, r.Phone, r.Email = "Ann Lee", "0812345678", "a@b.co"
	assert.Equal(t, 33, r.CompletionPercentage())

	r.WorkInfo, r.LineID = "x", "y"
	assert.Equal(t, 56, r.CompletionPercentage())

	for _, f := range Fields {
		require.NoError(t, r.Set(f, "v"))
	}
	assert.Equal(t, 100, r.CompletionPercentage())
}

func TestFormRecordJSONOrder(t *testing.T) {
	b, err := json.Marshal(FormRecord{FullName: "Ann"})
	require.NoError(t, err)
	assert.Equal(t,
		`{"fullName":"Ann","nationalId":"","studentId":"","workInfo":"","phone":"","email":"","lineId":"","facebook":"","instagram":""}`,
		string(b))
}

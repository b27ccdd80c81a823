package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFieldID(t *testing.T) {
	t.Parallel()

	f, err := ParseFieldID("vlk_date")
	require.NoError(t, err)
	assert.Equal(t, FieldVLK, f)

	_, err = ParseFieldID("registered")
	require.Error(t, err)

	_, err = ParseFieldID("fio; DROP TABLE users")
	require.Error(t, err)
}

func TestAllFieldsCoversEnum(t *testing.T) {
	t.Parallel()

	assert.Len(t, AllFields, len(fields))
	seen := make(map[FieldID]bool)
	for _, f := range AllFields {
		assert.False(t, seen[f], "duplicate %s", f)
		seen[f] = true
		assert.NotEmpty(t, f.Label())
		assert.NotEmpty(t, f.Prompt())
	}
}

func TestFieldRoundTrip(t *testing.T) {
	t.Parallel()

	var p Person
	for _, f := range AllFields {
		p.SetField(f, "x-"+string(f))
	}
	for _, f := range AllFields {
		assert.Equal(t, "x-"+string(f), p.Field(f))
	}
}

func TestExemptOnlyOnMedicalSecondaryAndJumps(t *testing.T) {
	t.Parallel()

	for _, f := range AllFields {
		allowed := f == FieldUMO || f == FieldJumps
		assert.Equal(t, allowed, f.AllowsExempt(), "field %s", f)
	}
}

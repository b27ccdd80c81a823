package eligibility

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want FieldValue
	}{
		{"empty", "", FieldValue{Kind: Missing}},
		{"whitespace", "   ", FieldValue{Kind: Missing}},
		{"net", "нет", FieldValue{Kind: Missing}},
		{"net_upper", "НЕТ", FieldValue{Kind: Missing}},
		{"not_passed", "не пройдено", FieldValue{Kind: Missing}},
		{"bk", "б/к", FieldValue{Kind: Missing}},
		{"garbage", "какой-то мусор", FieldValue{Kind: Missing}},
		{"bad_date", "32.13.2020", FieldValue{Kind: Missing}},
		{"iso_date_rejected", "2024-02-13", FieldValue{Kind: Missing}},
		{"exempt", "освобожден", FieldValue{Kind: Exempt}},
		{"exempt_yo", "освобождён", FieldValue{Kind: Exempt}},
		{"exempt_abbrev", "осв", FieldValue{Kind: Exempt}},
		{"exempt_upper", "ОСВОБОЖДЁН", FieldValue{Kind: Exempt}},
		{"exempt_mixed", "ОсвобождеН", FieldValue{Kind: Exempt}},
		{"date", "13.02.2024", FieldValue{Kind: OnDate, Date: time.Date(2024, 2, 13, 0, 0, 0, 0, time.UTC)}},
		{"date_padded", "  01.01.2025 ", FieldValue{Kind: OnDate, Date: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Parse(tt.raw)
			assert.Equal(t, tt.want.Kind, got.Kind)
			if tt.want.Kind == OnDate {
				assert.True(t, got.Date.Equal(tt.want.Date), "got %v", got.Date)
			}
		})
	}
}

func TestParseIdempotent(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"", "нет", "не пройдено", "б/к", "мусор", "32.13.2020",
		"освобожден", "освобождён", "ОСВ", "13.02.2024", "01.01.2030",
		DisplayMissing, DisplayExempt,
	}
	for _, raw := range inputs {
		once := Parse(raw)
		twice := Parse(once.String())
		require.Equal(t, once, twice, "normalize not idempotent for %q", raw)
	}
}

func TestValidateInput(t *testing.T) {
	t.Parallel()

	v, err := ValidateInput("13.02.2024", false)
	require.NoError(t, err)
	assert.Equal(t, OnDate, v.Kind)

	v, err = ValidateInput("нет", false)
	require.NoError(t, err)
	assert.Equal(t, Missing, v.Kind)

	v, err = ValidateInput("ОСВ", true)
	require.NoError(t, err)
	assert.Equal(t, Exempt, v.Kind)

	// Exemption rejected where the field does not allow it.
	_, err = ValidateInput("освобожден", false)
	require.Error(t, err)

	// Garbage rejected instead of degrading to Missing.
	_, err = ValidateInput("завтра", false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ДД.ММ.ГГГГ")

	_, err = ValidateInput("32.13.2020", false)
	require.Error(t, err)
}

func TestDaysBetweenIgnoresClockTime(t *testing.T) {
	t.Parallel()

	a := time.Date(2026, 3, 1, 23, 59, 0, 0, time.UTC)
	b := time.Date(2026, 3, 2, 0, 1, 0, 0, time.UTC)
	assert.Equal(t, 1, daysBetween(a, b))
	assert.Equal(t, -1, daysBetween(b, a))
}

package eligibility

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 5, 15, 12, 0, 0, 0, time.UTC)

func daysAgo(n int) FieldValue {
	return FieldValue{Kind: OnDate, Date: testNow.AddDate(0, 0, -n)}
}

func TestMonthsPanicsOnNonPositive(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { Months(0) })
	assert.Panics(t, func() { Months(-6) })
	assert.NotPanics(t, func() { Months(6) })
}

func TestClassifyGeneric(t *testing.T) {
	t.Parallel()

	w := Months(6) // 180-day window

	tests := []struct {
		name     string
		value    FieldValue
		severity Severity
		days     int
		hasDays  bool
	}{
		{"missing", FieldValue{Kind: Missing}, SeverityUnknown, 0, false},
		{"exempt", FieldValue{Kind: Exempt}, SeverityExempt, 0, false},
		{"fresh", daysAgo(10), SeverityOk, 170, true},
		{"ok_just_outside_warning", daysAgo(180 - 31), SeverityOk, 31, true},
		{"warning_boundary", daysAgo(180 - 30), SeverityOk, 30, true},
		{"warning", daysAgo(180 - 29), SeverityWarning, 29, true},
		{"warning_last_day", daysAgo(179), SeverityWarning, 1, true},
		{"expired_on_boundary", daysAgo(180), SeverityExpired, 0, true},
		{"expired_one_past", daysAgo(181), SeverityExpired, -1, true},
		{"expired_long_ago", daysAgo(200), SeverityExpired, -20, true},
		{"future_date_full_window", daysAgo(-45), SeverityOk, 180, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			st := Classify(tt.value, w, testNow)
			assert.Equal(t, tt.severity, st.Severity)
			assert.Equal(t, tt.hasDays, st.HasDays)
			if tt.hasDays {
				assert.Equal(t, tt.days, st.Days)
			}
		})
	}
}

func TestClassifyMedicalMissingPrimary(t *testing.T) {
	t.Parallel()

	pri, sec := ClassifyMedical(FieldValue{Kind: Missing}, daysAgo(10), testNow)
	assert.Equal(t, SeverityUnknown, pri.Severity)
	assert.Equal(t, SeverityUnknown, sec.Severity)

	// An exempt secondary stays exempt even without a primary date.
	_, sec = ClassifyMedical(FieldValue{Kind: Missing}, FieldValue{Kind: Exempt}, testNow)
	assert.Equal(t, SeverityExempt, sec.Severity)
}

func TestClassifyMedicalExpiredPrimaryInvalidatesSecondary(t *testing.T) {
	t.Parallel()

	pri, sec := ClassifyMedical(daysAgo(400), daysAgo(10), testNow)
	assert.Equal(t, SeverityExpired, pri.Severity)
	assert.Equal(t, -35, pri.Days)
	assert.Equal(t, SeverityExpired, sec.Severity)
}

func TestClassifyMedicalMandatoryAndNotDone(t *testing.T) {
	t.Parallel()

	pri, sec := ClassifyMedical(daysAgo(200), FieldValue{Kind: Missing}, testNow)
	assert.Equal(t, SeverityOk, pri.Severity)
	require.Equal(t, SeverityExpired, sec.Severity)
	assert.Contains(t, sec.Message, "обязательно")
	assert.Equal(t, -20, sec.Days)
}

func TestClassifyMedicalAnchoredAtPrimary(t *testing.T) {
	t.Parallel()

	// VLK 200 days ago, UMO done 10 days ago: validity runs to VLK+365,
	// i.e. 165 days out, regardless of the UMO's own date.
	pri, sec := ClassifyMedical(daysAgo(200), daysAgo(10), testNow)
	assert.Equal(t, SeverityOk, pri.Severity)
	assert.Equal(t, 165, pri.Days)
	assert.Equal(t, SeverityOk, sec.Severity)
	assert.Equal(t, 165, sec.Days)

	// Same UMO date with an older VLK drops into the warning band.
	_, sec = ClassifyMedical(daysAgo(340), daysAgo(10), testNow)
	assert.Equal(t, SeverityWarning, sec.Severity)
	assert.Equal(t, 25, sec.Days)
}

func TestClassifyMedicalNotYetRequired(t *testing.T) {
	t.Parallel()

	pri, sec := ClassifyMedical(daysAgo(100), FieldValue{Kind: Missing}, testNow)
	assert.Equal(t, SeverityOk, pri.Severity)
	assert.Equal(t, SeverityOk, sec.Severity)
	assert.Equal(t, 80, sec.Days)

	// Exactly at the trigger the check is still not required.
	_, sec = ClassifyMedical(daysAgo(180), FieldValue{Kind: Missing}, testNow)
	assert.Equal(t, SeverityOk, sec.Severity)
	assert.Equal(t, 0, sec.Days)
}

func TestClassifyMedicalExemptSecondaryNeverBans(t *testing.T) {
	t.Parallel()

	for _, age := range []int{50, 200, 400} {
		_, sec := ClassifyMedical(daysAgo(age), FieldValue{Kind: Exempt}, testNow)
		assert.Equal(t, SeverityExempt, sec.Severity, "vlk age %d", age)
	}
}

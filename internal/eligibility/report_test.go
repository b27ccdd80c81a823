package eligibility

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crewcheck/crewcheck/internal/model"
)

func dateStr(daysAgo int) string {
	return testNow.AddDate(0, 0, -daysAgo).Format(DateLayout)
}

func TestEvaluateEndToEnd(t *testing.T) {
	t.Parallel()

	// VLK 400 days ago (expired), parachute exempt, KBP-4 MD-M 200 days
	// ago on a 6-month window (expired). Everything else absent.
	p := &model.Person{
		ID:      100,
		FIO:     "Иванов Иван Иванович",
		VLK:     dateStr(400),
		Jumps:   "освобожден",
		KBP4MDM: dateStr(200),
	}

	r := Evaluate(p, testNow)
	bans := r.BanReasons()

	// Exactly two ban reasons: the expired VLK and the expired KBP-4.
	// The UMO renders as expired too, but only by inheritance from the
	// VLK, so it adds no separate reason.
	require.Len(t, bans, 2)
	assert.Contains(t, bans[0], "ВЛК")
	assert.Contains(t, bans[1], "КБП-4 (Ил-76 МД-М)")
	assert.False(t, r.Cleared())

	umo, ok := r.Entry(model.FieldUMO)
	require.True(t, ok)
	assert.Equal(t, SeverityExpired, umo.Severity)

	jumps, ok := r.Entry(model.FieldJumps)
	require.True(t, ok)
	assert.Equal(t, SeverityExempt, jumps.Severity)
	assert.Equal(t, DisplayExempt, jumps.Display)
}

func TestEvaluateDeterministic(t *testing.T) {
	t.Parallel()

	p := &model.Person{
		ID:          7,
		FIO:         "Петров П. П.",
		VacationEnd: dateStr(100),
		VLK:         dateStr(200),
		KBP7MDM:     dateStr(350),
		Jumps:       dateStr(10),
	}

	a := Evaluate(p, testNow)
	b := Evaluate(p, testNow)
	assert.Equal(t, a.Entries, b.Entries)
	assert.Equal(t, a.BanReasons(), b.BanReasons())
	assert.Equal(t, a.Summary(), b.Summary())
}

func TestEvaluateFixedOrder(t *testing.T) {
	t.Parallel()

	r := Evaluate(&model.Person{ID: 1}, testNow)
	require.Len(t, r.Entries, len(model.AllFields))
	for i, f := range model.AllFields {
		assert.Equal(t, f, r.Entries[i].Field)
	}
}

func TestEvaluateMissingFieldsNeverBan(t *testing.T) {
	t.Parallel()

	r := Evaluate(&model.Person{ID: 2}, testNow)
	assert.Empty(t, r.BanReasons())
	assert.True(t, r.Cleared())

	umo, ok := r.Entry(model.FieldUMO)
	require.True(t, ok)
	assert.Equal(t, SeverityUnknown, umo.Severity)
}

func TestEvaluateMandatorySecondaryBan(t *testing.T) {
	t.Parallel()

	p := &model.Person{ID: 3, VLK: dateStr(200)}
	r := Evaluate(p, testNow)

	umo, ok := r.Entry(model.FieldUMO)
	require.True(t, ok)
	assert.Equal(t, SeverityExpired, umo.Severity)

	bans := r.BanReasons()
	require.Len(t, bans, 1)
	assert.Contains(t, bans[0], "УМО")
}

func TestEvaluateExemptOnNonExemptableField(t *testing.T) {
	t.Parallel()

	// The sentinel is only valid on UMO and jumps; elsewhere it degrades
	// to missing data.
	p := &model.Person{ID: 4, KBP4MDM: "освобожден"}
	r := Evaluate(p, testNow)

	kbp, ok := r.Entry(model.FieldKBP4MDM)
	require.True(t, ok)
	assert.Equal(t, SeverityUnknown, kbp.Severity)
	assert.Empty(t, r.BanReasons())
}

func TestEvaluateGarbageDegradesLocally(t *testing.T) {
	t.Parallel()

	p := &model.Person{
		ID:      5,
		VLK:     "complete garbage",
		KBP7MDM: dateStr(10),
	}
	r := Evaluate(p, testNow)

	vlk, _ := r.Entry(model.FieldVLK)
	assert.Equal(t, SeverityUnknown, vlk.Severity)
	assert.Equal(t, DisplayMissing, vlk.Display)

	kbp, _ := r.Entry(model.FieldKBP7MDM)
	assert.Equal(t, SeverityOk, kbp.Severity)
}

func TestSummaryOneDotPerTrackedField(t *testing.T) {
	t.Parallel()

	p := &model.Person{ID: 6, VLK: dateStr(400), Jumps: "осв"}
	r := Evaluate(p, testNow)

	// vacation_end, vlk, umo, 4×kbp, jumps = 8 tracked date fields.
	sum := r.Summary()
	assert.Equal(t, 8, len([]rune(sum))-countVariationSelectors(sum))

	assert.Contains(t, sum, SeverityExpired.Dot())
	assert.Contains(t, sum, SeverityExempt.Dot())
}

// countVariationSelectors counts the U+FE0F selectors emoji like ⚪️ carry,
// so dot counting stays rune-exact.
func countVariationSelectors(s string) int {
	n := 0
	for _, r := range s {
		if r == '️' {
			n++
		}
	}
	return n
}

func TestReminderDayDeltasExposed(t *testing.T) {
	t.Parallel()

	// KBP-7 MD-M has a 360-day window; dated 330 days ago it expires in
	// exactly 30 days, which is a reminder checkpoint.
	p := &model.Person{ID: 8, KBP7MDM: dateStr(330)}
	r := Evaluate(p, testNow)

	e, ok := r.Entry(model.FieldKBP7MDM)
	require.True(t, ok)
	require.True(t, e.HasDays)
	assert.Equal(t, 30, e.Days)
}

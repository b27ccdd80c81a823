package eligibility

import (
	"fmt"
	"time"
)

const (
	// warnThresholdDays is how close to expiry a field turns yellow.
	warnThresholdDays = 30

	// daysPerMonth is a deliberate fixed approximation; calendar-accurate
	// month arithmetic would shift window boundaries between revisions.
	daysPerMonth = 30

	// medicalValidDays and medicalTriggerDays anchor the VLK→UMO
	// dependency: a VLK older than medicalTriggerDays makes UMO mandatory,
	// and UMO validity runs to VLK + medicalValidDays regardless of when
	// the UMO itself was done.
	medicalValidDays   = 365
	medicalTriggerDays = 180
)

// Window is a validity window expressed in months.
type Window struct {
	months int
}

// Months constructs a Window. Windows are engine-internal constants, so a
// non-positive value is a programming error and panics at construction.
func Months(n int) Window {
	if n <= 0 {
		panic(fmt.Sprintf("eligibility: non-positive window %d months", n))
	}
	return Window{months: n}
}

// Days returns the window length in days under the fixed 30-day month.
func (w Window) Days() int {
	return w.months * daysPerMonth
}

// Status is the classification of one field: a severity bucket, a
// human-readable message, and the raw day delta the reminder scheduler
// needs (positive = days remaining, negative = days overdue). HasDays is
// false for Missing and Exempt values, which have no meaningful delta.
type Status struct {
	Severity Severity
	Message  string
	Days     int
	HasDays  bool

	// Inherited marks an Expired status caused solely by the primary
	// credential's expiry. It still renders as expired, but contributes
	// no separate ban reason: the primary's ban already covers it.
	Inherited bool
}

// Classify evaluates a normalized value against a validity window at a
// fixed "now". Future dates count as zero elapsed days, so a scheduled
// check-up reports the full window remaining.
func Classify(v FieldValue, w Window, now time.Time) Status {
	switch v.Kind {
	case Missing:
		return Status{Severity: SeverityUnknown, Message: DisplayMissing}
	case Exempt:
		return Status{Severity: SeverityExempt, Message: DisplayExempt}
	}
	return classifyDate(v.Date, w.Days(), now)
}

func classifyDate(d time.Time, windowDays int, now time.Time) Status {
	elapsed := daysBetween(d, now)
	if elapsed < 0 {
		elapsed = 0
	}
	return bucket(windowDays-elapsed, elapsed-windowDays)
}

// bucket maps a remaining/overdue pair onto a Status. The boundary day
// (remaining == 0) counts as expired.
func bucket(remaining, overdue int) Status {
	switch {
	case remaining <= 0:
		return Status{
			Severity: SeverityExpired,
			Message:  fmt.Sprintf("просрочено (%d дн. назад)", overdue),
			Days:     -overdue,
			HasDays:  true,
		}
	case remaining < warnThresholdDays:
		return Status{
			Severity: SeverityWarning,
			Message:  fmt.Sprintf("осталось %d дн.", remaining),
			Days:     remaining,
			HasDays:  true,
		}
	default:
		return Status{
			Severity: SeverityOk,
			Message:  fmt.Sprintf("действует (%d дн.)", remaining),
			Days:     remaining,
			HasDays:  true,
		}
	}
}

// ClassifyMedical applies the interdependent VLK→UMO rule and returns the
// statuses of the primary credential and the secondary check, in that
// order. The secondary check is never evaluated against its own date: its
// window is anchored at the VLK date.
func ClassifyMedical(primary, secondary FieldValue, now time.Time) (Status, Status) {
	// An exempt secondary never expires and never bans, regardless of the
	// primary's age.
	secExempt := secondary.Kind == Exempt

	if primary.Kind != OnDate {
		unk := Status{Severity: SeverityUnknown, Message: DisplayMissing}
		if secExempt {
			return unk, Status{Severity: SeverityExempt, Message: DisplayExempt}
		}
		return unk, unk
	}

	elapsed := daysBetween(primary.Date, now)
	if elapsed < 0 {
		elapsed = 0
	}

	var pri Status
	if elapsed > medicalValidDays {
		overdue := elapsed - medicalValidDays
		pri = Status{
			Severity: SeverityExpired,
			Message:  fmt.Sprintf("просрочено (%d дн. назад)", overdue),
			Days:     -overdue,
			HasDays:  true,
		}
	} else {
		pri = bucket(medicalValidDays-elapsed, 0)
	}

	if secExempt {
		return pri, Status{Severity: SeverityExempt, Message: DisplayExempt}
	}

	var sec Status
	switch {
	case elapsed > medicalValidDays:
		// An expired primary credential invalidates the dependent check.
		sec = Status{
			Severity:  SeverityExpired,
			Message:   "недействительно: ВЛК просрочена",
			Days:      -(elapsed - medicalValidDays),
			HasDays:   true,
			Inherited: true,
		}
	case elapsed > medicalTriggerDays:
		if secondary.Kind != OnDate {
			// Mandatory and not done: a hard block, distinct from
			// ordinary missing data.
			sec = Status{
				Severity: SeverityExpired,
				Message:  fmt.Sprintf("обязательно и не пройдено (ВЛК старше %d дн.)", medicalTriggerDays),
				Days:     medicalTriggerDays - elapsed,
				HasDays:  true,
			}
		} else {
			sec = bucket(medicalValidDays-elapsed, elapsed-medicalValidDays)
		}
	default:
		remaining := medicalTriggerDays - elapsed
		sec = Status{
			Severity: SeverityOk,
			Message:  fmt.Sprintf("не требуется (%d дн. до срока)", remaining),
			Days:     remaining,
			HasDays:  true,
		}
	}
	return pri, sec
}

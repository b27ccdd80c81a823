package eligibility

import (
	"fmt"
	"strings"
	"time"

	"github.com/crewcheck/crewcheck/internal/model"
)

// windows holds the validity window of every independently-classified date
// field. VLK and UMO are absent on purpose: they follow the dependency
// rule, not a generic window.
var windows = map[model.FieldID]Window{
	model.FieldVacationEnd: Months(12),
	model.FieldKBP4MDM:     Months(6),
	model.FieldKBP7MDM:     Months(12),
	model.FieldKBP4MD90A:   Months(6),
	model.FieldKBP7MD90A:   Months(12),
	model.FieldJumps:       Months(12),
}

// Entry is one row of the status report.
type Entry struct {
	Field     model.FieldID `json:"field"`
	Label     string        `json:"label"`
	Severity  Severity      `json:"severity"`
	Display   string        `json:"display"`
	Message   string        `json:"message,omitempty"`
	Days      int           `json:"days,omitempty"`
	HasDays   bool          `json:"has_days,omitempty"`
	inherited bool
}

// Report is the single classification pass over one record. The full
// profile view, the terse roster summary and the ban list are all derived
// from it; nothing recomputes field status independently.
type Report struct {
	Entries []Entry   `json:"entries"`
	Now     time.Time `json:"now"`
}

// Evaluate classifies every tracked field of the record at a fixed "now".
// One field's bad data never aborts the rest: unparseable values classify
// as Unknown and evaluation continues.
func Evaluate(p *model.Person, now time.Time) *Report {
	r := &Report{Now: now, Entries: make([]Entry, 0, len(model.AllFields))}

	vlk, umo := ClassifyMedical(
		normalized(p, model.FieldVLK),
		normalized(p, model.FieldUMO),
		now,
	)

	for _, f := range model.AllFields {
		switch f {
		case model.FieldFIO, model.FieldRank, model.FieldQualRank:
			r.Entries = append(r.Entries, identityEntry(f, p.Field(f)))
		case model.FieldVacationStart:
			// Display-only: the leave window is judged by its end date.
			v := normalized(p, f)
			r.Entries = append(r.Entries, Entry{
				Field:    f,
				Label:    f.Label(),
				Severity: SeverityOk,
				Display:  v.String(),
			})
		case model.FieldVLK:
			r.Entries = append(r.Entries, statusEntry(f, normalized(p, f), vlk))
		case model.FieldUMO:
			r.Entries = append(r.Entries, statusEntry(f, normalized(p, f), umo))
		default:
			v := normalized(p, f)
			r.Entries = append(r.Entries, statusEntry(f, v, Classify(v, windows[f], now)))
		}
	}
	return r
}

// normalized parses the raw field value and downgrades the exemption
// sentinel to Missing on fields that do not accept it.
func normalized(p *model.Person, f model.FieldID) FieldValue {
	v := Parse(p.Field(f))
	if v.Kind == Exempt && !f.AllowsExempt() {
		v = FieldValue{Kind: Missing}
	}
	return v
}

func identityEntry(f model.FieldID, raw string) Entry {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Entry{Field: f, Label: f.Label(), Severity: SeverityUnknown, Display: "не указано"}
	}
	return Entry{Field: f, Label: f.Label(), Severity: SeverityOk, Display: raw}
}

func statusEntry(f model.FieldID, v FieldValue, st Status) Entry {
	return Entry{
		Field:     f,
		Label:     f.Label(),
		Severity:  st.Severity,
		Display:   v.String(),
		Message:   st.Message,
		Days:      st.Days,
		HasDays:   st.HasDays,
		inherited: st.Inherited,
	}
}

// Entry returns the report row for the given field.
func (r *Report) Entry(f model.FieldID) (Entry, bool) {
	for _, e := range r.Entries {
		if e.Field == f {
			return e, true
		}
	}
	return Entry{}, false
}

// BanReasons returns the ordered list of hard blocks on flight duty.
// Empty means cleared. Only Expired entries contribute; Warning, Ok,
// Unknown and Exempt never ban. Order follows the fixed report order.
func (r *Report) BanReasons() []string {
	var reasons []string
	for _, e := range r.Entries {
		if e.Severity == SeverityExpired && !e.inherited {
			reasons = append(reasons, fmt.Sprintf("🔴 %s: %s", e.Label, e.Message))
		}
	}
	return reasons
}

// Cleared reports whether the person may fly.
func (r *Report) Cleared() bool {
	return len(r.BanReasons()) == 0
}

// Summary renders the terse multi-dot line used in roster list views, one
// dot per tracked date field in report order.
func (r *Report) Summary() string {
	var b strings.Builder
	for _, e := range r.Entries {
		if !e.Field.IsDate() || e.Field == model.FieldVacationStart {
			continue
		}
		b.WriteString(e.Severity.Dot())
	}
	return b.String()
}

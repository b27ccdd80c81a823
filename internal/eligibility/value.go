// Package eligibility implements the flight-duty readiness engine: it
// normalizes raw record values, classifies the remaining validity of each
// tracked date against its window, applies the VLK→UMO dependency rule and
// aggregates one classification pass into the status report, the ban list
// and the terse roster summary. It is pure and stateless: no I/O, no store
// access, "now" is captured once per evaluation and threaded through.
package eligibility

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/text/cases"
)

// DateLayout is the only accepted textual date format.
const DateLayout = "02.01.2006"

// Kind discriminates the normalized forms of a raw field value.
type Kind int

const (
	Missing Kind = iota
	Exempt
	OnDate
)

// FieldValue is the normalized form of one raw record value:
// Missing, Exempt, or OnDate(date). The exemption sentinel never leaks
// past normalization as a magic string.
type FieldValue struct {
	Kind Kind
	Date time.Time // valid only when Kind == OnDate
}

// Display strings for non-date values.
const (
	DisplayMissing = "нет данных"
	DisplayExempt  = "освобожден"
)

// exemptMarkers are the recognized spellings of the exemption sentinel,
// matched case-insensitively after Unicode folding (covers the е/ё variant
// and the common abbreviation).
var exemptMarkers = []string{"освобожден", "освобождён", "осв"}

// missingMarkers are explicit "no value" inputs. Anything else that fails
// date parsing also normalizes to Missing.
var missingMarkers = []string{"", "нет", "не пройдено", "б/к", "не указано", DisplayMissing}

// Parse normalizes a raw field value. Unparseable input degrades to
// Missing; it never returns an error. Parse is idempotent over its own
// display output: Parse(v.String()) == v for every v it produces.
func Parse(raw string) FieldValue {
	s := strings.TrimSpace(raw)
	folded := cases.Fold().String(s)

	for _, m := range missingMarkers {
		if folded == m {
			return FieldValue{Kind: Missing}
		}
	}
	for _, m := range exemptMarkers {
		if folded == cases.Fold().String(m) {
			return FieldValue{Kind: Exempt}
		}
	}

	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return FieldValue{Kind: Missing}
	}
	return FieldValue{Kind: OnDate, Date: d}
}

// ValidateInput normalizes interactive input for a date field. Unlike
// Parse it rejects garbage: accepted are a well-formed date, an explicit
// missing marker, and the exemption sentinel where allowed.
func ValidateInput(raw string, allowExempt bool) (FieldValue, error) {
	s := strings.TrimSpace(raw)
	folded := cases.Fold().String(s)

	for _, m := range missingMarkers {
		if folded == m {
			return FieldValue{Kind: Missing}, nil
		}
	}
	for _, m := range exemptMarkers {
		if folded == cases.Fold().String(m) {
			if !allowExempt {
				return FieldValue{}, eris.Errorf("eligibility: exemption not allowed here")
			}
			return FieldValue{Kind: Exempt}, nil
		}
	}

	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return FieldValue{}, eris.Errorf("eligibility: expected date as ДД.ММ.ГГГГ, got %q", s)
	}
	return FieldValue{Kind: OnDate, Date: d}, nil
}

// String renders the value back to its canonical display text.
func (v FieldValue) String() string {
	switch v.Kind {
	case Exempt:
		return DisplayExempt
	case OnDate:
		return v.Date.Format(DateLayout)
	default:
		return DisplayMissing
	}
}

// daysBetween returns whole civil days from a to b, ignoring clock time
// and zone so a report stays consistent across a day boundary.
func daysBetween(a, b time.Time) int {
	ad := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	bd := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(bd.Sub(ad) / (24 * time.Hour))
}

package model

import "github.com/rotisserie/eris"

// FieldID identifies a single editable column of the personnel record.
// The set is closed: unknown identifiers are rejected at the boundary
// instead of being interpolated into queries.
type FieldID string

const (
	FieldFIO           FieldID = "fio"
	FieldRank          FieldID = "rank"
	FieldQualRank      FieldID = "qual_rank"
	FieldVacationStart FieldID = "vacation_start"
	FieldVacationEnd   FieldID = "vacation_end"
	FieldVLK           FieldID = "vlk_date"
	FieldUMO           FieldID = "umo_date"
	FieldKBP4MDM       FieldID = "kbp_4_md_m"
	FieldKBP7MDM       FieldID = "kbp_7_md_m"
	FieldKBP4MD90A     FieldID = "kbp_4_md_90a"
	FieldKBP7MD90A     FieldID = "kbp_7_md_90a"
	FieldJumps         FieldID = "jumps_date"
)

// fieldInfo carries display and storage metadata for one field.
type fieldInfo struct {
	label       string
	prompt      string
	date        bool
	allowExempt bool
}

var fields = map[FieldID]fieldInfo{
	FieldFIO:           {label: "ФИО", prompt: "ФИО"},
	FieldRank:          {label: "Звание", prompt: "Воинское звание"},
	FieldQualRank:      {label: "Квалификация", prompt: "Квалификационный разряд"},
	FieldVacationStart: {label: "Отпуск (начало)", prompt: "Начало отпуска (ДД.ММ.ГГГГ)", date: true},
	FieldVacationEnd:   {label: "Отпуск (конец)", prompt: "Конец отпуска (ДД.ММ.ГГГГ)", date: true},
	FieldVLK:           {label: "ВЛК", prompt: "ВЛК (ДД.ММ.ГГГГ)", date: true},
	FieldUMO:           {label: "УМО", prompt: "УМО (ДД.ММ.ГГГГ или 'нет')", date: true, allowExempt: true},
	FieldKBP4MDM:       {label: "КБП-4 (Ил-76 МД-М)", prompt: "КБП-4 Ил-76 МД-М (ДД.ММ.ГГГГ)", date: true},
	FieldKBP7MDM:       {label: "КБП-7 (Ил-76 МД-М)", prompt: "КБП-7 Ил-76 МД-М (ДД.ММ.ГГГГ)", date: true},
	FieldKBP4MD90A:     {label: "КБП-4 (Ил-76 МД-90А)", prompt: "КБП-4 Ил-76 МД-90А (ДД.ММ.ГГГГ)", date: true},
	FieldKBP7MD90A:     {label: "КБП-7 (Ил-76 МД-90А)", prompt: "КБП-7 Ил-76 МД-90А (ДД.ММ.ГГГГ)", date: true},
	FieldJumps:         {label: "Прыжки с ПДС", prompt: "Прыжки с парашютом (ДД.ММ.ГГГГ или 'освобожден')", date: true, allowExempt: true},
}

// AllFields is the fixed record order: identity first, then the leave
// interval, the medical pair, the training fields, parachute last.
// Report rendering, ban aggregation and the edit menu all follow it.
var AllFields = []FieldID{
	FieldFIO,
	FieldRank,
	FieldQualRank,
	FieldVacationStart,
	FieldVacationEnd,
	FieldVLK,
	FieldUMO,
	FieldKBP4MDM,
	FieldKBP7MDM,
	FieldKBP4MD90A,
	FieldKBP7MD90A,
	FieldJumps,
}

// ParseFieldID validates a raw field identifier against the closed set.
func ParseFieldID(s string) (FieldID, error) {
	f := FieldID(s)
	if _, ok := fields[f]; !ok {
		return "", eris.Errorf("model: unknown field %q", s)
	}
	return f, nil
}

// Column returns the storage column name for the field.
func (f FieldID) Column() string {
	return string(f)
}

// Label returns the human-readable field label.
func (f FieldID) Label() string {
	return fields[f].label
}

// Prompt returns the input prompt shown when the field is collected or edited.
func (f FieldID) Prompt() string {
	return fields[f].prompt
}

// IsDate reports whether the field holds a calendar date.
func (f FieldID) IsDate() bool {
	return fields[f].date
}

// AllowsExempt reports whether the field may hold the exemption sentinel
// instead of a date.
func (f FieldID) AllowsExempt() bool {
	return fields[f].allowExempt
}

package model

import "time"

// Person is one personnel record. Date-bearing fields are kept as the raw
// text the person entered (DD.MM.YYYY, an exemption marker, or empty);
// normalization into Missing/Exempt/OnDate is the eligibility engine's job,
// so a malformed value degrades to "no data" instead of crashing a caller.
type Person struct {
	ID            int64     `json:"id"`
	Username      string    `json:"username,omitempty"`
	FIO           string    `json:"fio,omitempty"`
	Rank          string    `json:"rank,omitempty"`
	QualRank      string    `json:"qual_rank,omitempty"`
	VacationStart string    `json:"vacation_start,omitempty"`
	VacationEnd   string    `json:"vacation_end,omitempty"`
	VLK           string    `json:"vlk_date,omitempty"`
	UMO           string    `json:"umo_date,omitempty"`
	KBP4MDM       string    `json:"kbp_4_md_m,omitempty"`
	KBP7MDM       string    `json:"kbp_7_md_m,omitempty"`
	KBP4MD90A     string    `json:"kbp_4_md_90a,omitempty"`
	KBP7MD90A     string    `json:"kbp_7_md_90a,omitempty"`
	Jumps         string    `json:"jumps_date,omitempty"`
	Registered    bool      `json:"registered"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Field returns the raw value of the given field.
func (p *Person) Field(f FieldID) string {
	switch f {
	case FieldFIO:
		return p.FIO
	case FieldRank:
		return p.Rank
	case FieldQualRank:
		return p.QualRank
	case FieldVacationStart:
		return p.VacationStart
	case FieldVacationEnd:
		return p.VacationEnd
	case FieldVLK:
		return p.VLK
	case FieldUMO:
		return p.UMO
	case FieldKBP4MDM:
		return p.KBP4MDM
	case FieldKBP7MDM:
		return p.KBP7MDM
	case FieldKBP4MD90A:
		return p.KBP4MD90A
	case FieldKBP7MD90A:
		return p.KBP7MD90A
	case FieldJumps:
		return p.Jumps
	}
	return ""
}

// SetField overwrites the raw value of the given field.
func (p *Person) SetField(f FieldID, v string) {
	switch f {
	case FieldFIO:
		p.FIO = v
	case FieldRank:
		p.Rank = v
	case FieldQualRank:
		p.QualRank = v
	case FieldVacationStart:
		p.VacationStart = v
	case FieldVacationEnd:
		p.VacationEnd = v
	case FieldVLK:
		p.VLK = v
	case FieldUMO:
		p.UMO = v
	case FieldKBP4MDM:
		p.KBP4MDM = v
	case FieldKBP7MDM:
		p.KBP7MDM = v
	case FieldKBP4MD90A:
		p.KBP4MD90A = v
	case FieldKBP7MD90A:
		p.KBP7MD90A = v
	case FieldJumps:
		p.Jumps = v
	}
}

// InfoEntry is one row of the reference info base.
type InfoEntry struct {
	ID        string    `json:"id"`
	Keyword   string    `json:"keyword"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

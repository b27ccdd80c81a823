package eligibility

// Severity buckets the remaining validity of one field.
type Severity string

const (
	SeverityOk      Severity = "ok"
	SeverityWarning Severity = "warning"
	SeverityExpired Severity = "expired"
	SeverityExempt  Severity = "exempt"
	SeverityUnknown Severity = "unknown"
)

// Dot returns the colored-dot marker used in terse roster summaries.
func (s Severity) Dot() string {
	switch s {
	case SeverityOk:
		return "🟢"
	case SeverityWarning:
		return "🟡"
	case SeverityExpired:
		return "🔴"
	case SeverityExempt:
		return "🔵"
	default:
		return "⚪️"
	}
}

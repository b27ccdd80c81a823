package bot

import (
	"fmt"
	"strings"

	"github.com/crewcheck/crewcheck/internal/eligibility"
	"github.com/crewcheck/crewcheck/internal/model"
)

// renderProfile builds the full profile view: every record field with its
// status dot and message, followed by the readiness verdict.
func renderProfile(p *model.Person, rep *eligibility.Report) string {
	var b strings.Builder
	b.WriteString("📋 Карточка\n\n")
	for _, e := range rep.Entries {
		if e.Field.IsDate() {
			b.WriteString(fmt.Sprintf("%s %s: %s", e.Severity.Dot(), e.Label, e.Display))
			if e.Message != "" {
				b.WriteString(" (" + e.Message + ")")
			}
		} else {
			b.WriteString(fmt.Sprintf("%s: %s", e.Label, e.Display))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(renderVerdict(rep))
	return b.String()
}

// renderVerdict builds the ban-list verdict block.
func renderVerdict(rep *eligibility.Report) string {
	if rep.Cleared() {
		return "✅ Допущен к полетам"
	}
	var b strings.Builder
	b.WriteString("⛔️ Отстранен от полетов:\n")
	for _, reason := range rep.BanReasons() {
		b.WriteString(reason + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// renderRosterLine builds the terse one-person line for admin listings:
// name, dot summary and the count of problem fields.
func renderRosterLine(p *model.Person, rep *eligibility.Report) string {
	problems := len(rep.BanReasons())
	name := strings.TrimSpace(p.FIO)
	if name == "" {
		name = fmt.Sprintf("id %d", p.ID)
	}
	line := fmt.Sprintf("%s  %s", name, rep.Summary())
	if problems > 0 {
		line += fmt.Sprintf("  (%d ⛔️)", problems)
	}
	return line
}

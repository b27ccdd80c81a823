// Package export renders the readiness roster as a spreadsheet.
package export

import (
	"io"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/crewcheck/crewcheck/internal/eligibility"
	"github.com/crewcheck/crewcheck/internal/model"
)

const sheetName = "Личный состав"

// WriteRoster writes one row per person with the raw field values, the
// readiness verdict and the ban reasons. Column order follows the report
// order so the sheet reads the same as the bot's profile view.
func WriteRoster(w io.Writer, persons []model.Person, now time.Time) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet(sheetName)
	if err != nil {
		return eris.Wrap(err, "export: add sheet")
	}

	header := sheet.AddRow()
	header.AddCell().SetString("№")
	for _, f := range model.AllFields {
		header.AddCell().SetString(f.Label())
	}
	header.AddCell().SetString("Допуск")
	header.AddCell().SetString("Примечания")

	for i, p := range persons {
		rep := eligibility.Evaluate(&p, now)

		row := sheet.AddRow()
		row.AddCell().SetInt(i + 1)
		for _, f := range model.AllFields {
			e, _ := rep.Entry(f)
			row.AddCell().SetString(e.Display)
		}
		if rep.Cleared() {
			row.AddCell().SetString("допущен")
			row.AddCell().SetString("")
		} else {
			reasons := rep.BanReasons()
			row.AddCell().SetString("отстранен")
			row.AddCell().SetString(strings.Join(reasons, "; "))
		}
	}

	return eris.Wrap(file.Write(w), "export: write workbook")
}

// Package infobase annotates reference info entries with known airfields.
package infobase

import (
	"strings"

	"golang.org/x/text/cases"
)

// Airfield is a known military or joint-use airfield.
type Airfield struct {
	Name string
	City string
}

// airfields maps a folded airfield name to its location. The set covers
// the fields the squadron actually flies to.
var airfields = map[string]Airfield{
	"чкаловский": {Name: "Чкаловский", City: "Москва"},
	"стригино":   {Name: "Стригино", City: "Нижний Новгород"},
	"пулково":    {Name: "Пулково", City: "Санкт-Петербург"},
	"внуково":    {Name: "Внуково", City: "Москва"},
	"кольцово":   {Name: "Кольцово", City: "Екатеринбург"},
}

var fold = cases.Fold()

// Lookup returns the airfield matching the keyword, if any.
func Lookup(keyword string) (Airfield, bool) {
	a, ok := airfields[fold.String(strings.TrimSpace(keyword))]
	return a, ok
}

// Annotate prefixes content with a city/airfield header when the keyword
// names a known airfield. Unknown keywords pass the content through.
func Annotate(keyword, content string) string {
	a, ok := Lookup(keyword)
	if !ok {
		return content
	}
	return "✈️ " + a.City + ", аэродром " + a.Name + "\n" + content
}

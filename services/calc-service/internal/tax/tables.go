package tax

import (
	"sort"

	"github.com/shopspring/decimal"
)

// FallbackYear is applied when no table exists for the requested year.
// Availability over correctness: a missing future-year table must not block
// the calculators, even if it means applying a stale schedule.
const FallbackYear = 2024

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

var inssTables = map[int]INSSTable{
	2024: {
		Year: 2024,
		Brackets: []Bracket{
			{UpperBound: d("1412.00"), Rate: d("0.075"), Deduction: d("0")},
			{UpperBound: d("2666.68"), Rate: d("0.09"), Deduction: d("21.18")},
			{UpperBound: d("4000.03"), Rate: d("0.12"), Deduction: d("101.18")},
			{Rate: d("0.14"), Deduction: d("181.18")},
		},
		Ceiling:     d("7786.02"),
		MinimumWage: d("1412.00"),
	},
	2025: {
		Year: 2025,
		Brackets: []Bracket{
			{UpperBound: d("1518.00"), Rate: d("0.075"), Deduction: d("0")},
			{UpperBound: d("2793.88"), Rate: d("0.09"), Deduction: d("22.77")},
			{UpperBound: d("4190.83"), Rate: d("0.12"), Deduction: d("106.59")},
			{Rate: d("0.14"), Deduction: d("190.40")},
		},
		Ceiling:     d("8157.41"),
		MinimumWage: d("1518.00"),
	},
}

var irrfTables = map[int]IRRFTable{
	2024: {
		Year: 2024,
		Brackets: []Bracket{
			{UpperBound: d("2259.20"), Rate: d("0"), Deduction: d("0")},
			{UpperBound: d("2826.65"), Rate: d("0.075"), Deduction: d("169.44")},
			{UpperBound: d("3751.05"), Rate: d("0.15"), Deduction: d("381.44")},
			{UpperBound: d("4664.68"), Rate: d("0.225"), Deduction: d("662.77")},
			{Rate: d("0.275"), Deduction: d("896.00")},
		},
		PerDependent:  d("189.59"),
		MaxDependents: 10,
	},
	2025: {
		Year: 2025,
		Brackets: []Bracket{
			{UpperBound: d("2428.80"), Rate: d("0"), Deduction: d("0")},
			{UpperBound: d("2826.65"), Rate: d("0.075"), Deduction: d("182.16")},
			{UpperBound: d("3751.05"), Rate: d("0.15"), Deduction: d("394.16")},
			{UpperBound: d("4664.68"), Rate: d("0.225"), Deduction: d("675.49")},
			{Rate: d("0.275"), Deduction: d("908.73")},
		},
		PerDependent:  d("189.59"),
		MaxDependents: 10,
	},
}

func init() {
	if _, ok := inssTables[FallbackYear]; !ok {
		panic("tax: fallback INSS table missing")
	}
	if _, ok := irrfTables[FallbackYear]; !ok {
		panic("tax: fallback IRRF table missing")
	}
	for _, t := range inssTables {
		if err := t.validate(); err != nil {
			panic(err)
		}
	}
	for _, t := range irrfTables {
		if err := t.validate(); err != nil {
			panic(err)
		}
	}
}

// LookupINSS returns the table for the requested year, with an explicit
// not-found signal. The fallback policy belongs to Resolve, not here.
func LookupINSS(year int) (INSSTable, bool) {
	t, ok := inssTables[year]
	return t, ok
}

func LookupIRRF(year int) (IRRFTable, bool) {
	t, ok := irrfTables[year]
	return t, ok
}

// ResolveINSS returns the table for the requested year, falling back to
// FallbackYear when the year is unconfigured.
func ResolveINSS(year int) INSSTable {
	if t, ok := LookupINSS(year); ok {
		return t
	}
	return inssTables[FallbackYear]
}

func ResolveIRRF(year int) IRRFTable {
	if t, ok := LookupIRRF(year); ok {
		return t
	}
	return irrfTables[FallbackYear]
}

// Years lists the configured fiscal years, for the API to advertise.
func Years() []int {
	var years []int
	for y := range inssTables {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}

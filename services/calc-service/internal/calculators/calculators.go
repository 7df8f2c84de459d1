// Package calculators implements the CLT payroll calculators as closed-form
// arithmetic over the progressive tax engine. All functions are pure and
// deterministic given their inputs and the fiscal year's tables.
package calculators

import (
	"time"

	"github.com/shopspring/decimal"
)

var (
	thirty             = decimal.NewFromInt(30)
	twelve             = decimal.NewFromInt(12)
	three              = decimal.NewFromInt(3)
	oneHundred         = decimal.NewFromInt(100)
	defaultHourDivisor = decimal.NewFromInt(220)
)

func roundCents(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// dailyWage uses the 30-day commercial month the CLT prescribes.
func dailyWage(salary decimal.Decimal) decimal.Decimal {
	return salary.Div(thirty)
}

// monthsWorked counts months between two dates on the 30-day convention,
// crediting a partial month when 15 or more days were worked in it.
func monthsWorked(from, to time.Time) int {
	total := (to.Year()-from.Year())*12 + int(to.Month()) - int(from.Month())
	days := to.Day() - from.Day()
	if days < 0 {
		total--
		days += 30
	}
	if days >= 15 {
		total++
	}
	if total < 0 {
		return 0
	}
	return total
}

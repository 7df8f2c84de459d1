package tax

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Bracket is one band of a progressive table. The published deduction constant
// makes the progressive total a single multiply-and-subtract: for a base that
// lands in this bracket, due = base*Rate - Deduction.
//
// A zero UpperBound marks the last, unbounded bracket.
type Bracket struct {
	UpperBound decimal.Decimal
	Rate       decimal.Decimal
	Deduction  decimal.Decimal
}

// INSSTable is the contribution table for one fiscal year. Income above
// Ceiling is clamped before lookup. MinimumWage is informational.
type INSSTable struct {
	Year        int
	Brackets    []Bracket
	Ceiling     decimal.Decimal
	MinimumWage decimal.Decimal
}

// IRRFTable is the withholding table for one fiscal year. The dependent
// deduction applies per dependent, capped at MaxDependents.
type IRRFTable struct {
	Year          int
	Brackets      []Bracket
	PerDependent  decimal.Decimal
	MaxDependents int
}

// Official tables round the published deduction constants to the cent, so the
// piecewise function is continuous only up to that rounding.
var continuityTolerance = decimal.RequireFromString("0.01")

func validateBrackets(brackets []Bracket) error {
	if len(brackets) == 0 {
		return fmt.Errorf("table has no brackets")
	}
	last := len(brackets) - 1
	if !brackets[last].UpperBound.IsZero() {
		return fmt.Errorf("last bracket must be unbounded")
	}
	for i, b := range brackets {
		if i < last && b.UpperBound.LessThanOrEqual(decimal.Zero) {
			return fmt.Errorf("bracket %d: upper bound must be positive", i)
		}
		if b.Rate.IsNegative() || b.Rate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
			return fmt.Errorf("bracket %d: rate %s out of range", i, b.Rate)
		}
		if b.Deduction.IsNegative() {
			return fmt.Errorf("bracket %d: negative deduction", i)
		}
	}
	for i := 1; i < last; i++ {
		if !brackets[i].UpperBound.GreaterThan(brackets[i-1].UpperBound) {
			return fmt.Errorf("bracket %d: bounds not ascending", i)
		}
	}
	// Continuity at each boundary: both bracket formulas must agree at the
	// boundary value within the published rounding.
	for i := 0; i < last; i++ {
		bound := brackets[i].UpperBound
		lower := bound.Mul(brackets[i].Rate).Sub(brackets[i].Deduction)
		upper := bound.Mul(brackets[i+1].Rate).Sub(brackets[i+1].Deduction)
		if lower.Sub(upper).Abs().GreaterThan(continuityTolerance) {
			return fmt.Errorf("bracket %d/%d: discontinuity of %s at %s", i, i+1, lower.Sub(upper).Abs(), bound)
		}
	}
	return nil
}

func (t INSSTable) validate() error {
	if err := validateBrackets(t.Brackets); err != nil {
		return fmt.Errorf("inss %d: %w", t.Year, err)
	}
	if t.Ceiling.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("inss %d: ceiling must be positive", t.Year)
	}
	return nil
}

func (t IRRFTable) validate() error {
	if err := validateBrackets(t.Brackets); err != nil {
		return fmt.Errorf("irrf %d: %w", t.Year, err)
	}
	if t.PerDependent.IsNegative() || t.MaxDependents < 0 {
		return fmt.Errorf("irrf %d: invalid dependent deduction", t.Year)
	}
	return nil
}

// findBracket returns the first bracket whose upper bound covers base, or the
// last (unbounded) bracket.
func findBracket(brackets []Bracket, base decimal.Decimal) Bracket {
	for _, b := range brackets {
		if !b.UpperBound.IsZero() && base.LessThanOrEqual(b.UpperBound) {
			return b
		}
	}
	return brackets[len(brackets)-1]
}

// roundCents rounds half-up at the cent boundary. decimal.Round rounds half
// away from zero, which for the non-negative amounts produced here is half-up.
func roundCents(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

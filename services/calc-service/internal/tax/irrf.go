package tax

import "github.com/shopspring/decimal"

// IRRFResult is the withholding computed for one monthly base.
type IRRFResult struct {
	AmountDue           decimal.Decimal
	EffectiveRate       decimal.Decimal
	BaseAfterDeductions decimal.Decimal
	TotalDeductions     decimal.Decimal
	MarginalRate        decimal.Decimal
}

// ComputeIRRF applies the progressive withholding table to a gross base after
// subtracting the per-dependent deduction (capped at table.MaxDependents) and
// the alimony deduction. When the base is fully consumed by deductions the
// amount due and rates are zero, but the computed deductions are still
// reported so callers can show the breakdown.
func ComputeIRRF(grossBase decimal.Decimal, dependents int, alimony decimal.Decimal, table IRRFTable) IRRFResult {
	if dependents > table.MaxDependents {
		dependents = table.MaxDependents
	}
	if dependents < 0 {
		dependents = 0
	}
	dependentDeduction := table.PerDependent.Mul(decimal.NewFromInt(int64(dependents)))
	totalDeductions := dependentDeduction.Add(alimony)

	base := grossBase.Sub(totalDeductions)
	if base.IsNegative() {
		base = decimal.Zero
	}

	if grossBase.LessThanOrEqual(decimal.Zero) || base.LessThanOrEqual(decimal.Zero) {
		return IRRFResult{
			AmountDue:           decimal.Zero,
			EffectiveRate:       decimal.Zero,
			BaseAfterDeductions: base,
			TotalDeductions:     totalDeductions,
			MarginalRate:        decimal.Zero,
		}
	}

	b := findBracket(table.Brackets, base)
	due := base.Mul(b.Rate).Sub(b.Deduction)
	if due.IsNegative() {
		due = decimal.Zero
	}
	due = roundCents(due)

	return IRRFResult{
		AmountDue:           due,
		EffectiveRate:       due.DivRound(grossBase, 6),
		BaseAfterDeductions: base,
		TotalDeductions:     totalDeductions,
		MarginalRate:        b.Rate,
	}
}

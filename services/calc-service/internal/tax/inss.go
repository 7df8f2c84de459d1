package tax

import "github.com/shopspring/decimal"

// INSSResult is the contribution computed for one monthly income.
type INSSResult struct {
	AmountDue     decimal.Decimal
	EffectiveRate decimal.Decimal
	MarginalRate  decimal.Decimal
}

// ComputeINSS applies the progressive contribution table to a monthly income.
// Income is clamped at the table ceiling before lookup, so everything above
// the ceiling owes the same amount as income exactly at the ceiling.
//
// Non-positive income yields an all-zero result. Callers validate inputs
// before invoking; a malformed table is a configuration defect caught at
// registry construction, not here.
func ComputeINSS(income decimal.Decimal, table INSSTable) INSSResult {
	if income.LessThanOrEqual(decimal.Zero) {
		return INSSResult{
			AmountDue:     decimal.Zero,
			EffectiveRate: decimal.Zero,
			MarginalRate:  decimal.Zero,
		}
	}

	capped := decimal.Min(income, table.Ceiling)
	b := findBracket(table.Brackets, capped)

	due := capped.Mul(b.Rate).Sub(b.Deduction)
	if due.IsNegative() {
		due = decimal.Zero
	}
	due = roundCents(due)

	return INSSResult{
		AmountDue:     due,
		EffectiveRate: due.DivRound(income, 6),
		MarginalRate:  b.Rate,
	}
}

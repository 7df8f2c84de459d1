package calculators

import (
	"github.com/shopspring/decimal"

	"github.com/lfmartins/cltcalc/services/calc-service/internal/tax"
)

type ThirteenthInput struct {
	GrossSalary  decimal.Decimal
	MonthsWorked int // 1..12 in the calendar year
	Dependents   int
	Alimony      decimal.Decimal
	Year         int
}

type ThirteenthResult struct {
	GrossAmount       decimal.Decimal
	FirstInstallment  decimal.Decimal
	INSS              tax.INSSResult
	IRRF              tax.IRRFResult
	SecondInstallment decimal.Decimal
	NetTotal          decimal.Decimal
}

// Thirteenth computes the proportional 13th salary. The first installment is
// half the gross with no withholding; INSS and IRRF on the full gross are
// settled in the second installment.
func Thirteenth(in ThirteenthInput) ThirteenthResult {
	months := in.MonthsWorked
	if months > 12 {
		months = 12
	}
	gross := roundCents(in.GrossSalary.Mul(decimal.NewFromInt(int64(months))).Div(twelve))
	first := roundCents(gross.Div(decimal.NewFromInt(2)))

	inss := tax.ComputeINSS(gross, tax.ResolveINSS(in.Year))
	irrf := tax.ComputeIRRF(gross.Sub(inss.AmountDue), in.Dependents, in.Alimony, tax.ResolveIRRF(in.Year))

	second := roundCents(gross.Sub(first).Sub(inss.AmountDue).Sub(irrf.AmountDue))
	return ThirteenthResult{
		GrossAmount:       gross,
		FirstInstallment:  first,
		INSS:              inss,
		IRRF:              irrf,
		SecondInstallment: second,
		NetTotal:          first.Add(second),
	}
}

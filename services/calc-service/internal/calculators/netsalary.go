package calculators

import (
	"github.com/shopspring/decimal"

	"github.com/lfmartins/cltcalc/services/calc-service/internal/tax"
)

type NetSalaryInput struct {
	GrossSalary decimal.Decimal
	Dependents  int
	Alimony     decimal.Decimal
	Year        int
}

type NetSalaryResult struct {
	GrossSalary    decimal.Decimal
	INSS           tax.INSSResult
	IRRF           tax.IRRFResult
	TotalDiscounts decimal.Decimal
	NetSalary      decimal.Decimal
}

// NetSalary computes the monthly take-home pay: INSS on the gross, then IRRF
// on the gross net of INSS and the dependent/alimony deductions.
func NetSalary(in NetSalaryInput) NetSalaryResult {
	inssTable := tax.ResolveINSS(in.Year)
	irrfTable := tax.ResolveIRRF(in.Year)

	inss := tax.ComputeINSS(in.GrossSalary, inssTable)
	irrf := tax.ComputeIRRF(in.GrossSalary.Sub(inss.AmountDue), in.Dependents, in.Alimony, irrfTable)

	discounts := inss.AmountDue.Add(irrf.AmountDue)
	return NetSalaryResult{
		GrossSalary:    in.GrossSalary,
		INSS:           inss,
		IRRF:           irrf,
		TotalDiscounts: discounts,
		NetSalary:      roundCents(in.GrossSalary.Sub(discounts)),
	}
}

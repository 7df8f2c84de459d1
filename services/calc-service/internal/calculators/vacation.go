package calculators

import (
	"github.com/shopspring/decimal"

	"github.com/lfmartins/cltcalc/services/calc-service/internal/tax"
)

type VacationInput struct {
	GrossSalary decimal.Decimal
	Days        int // vacation days taken, 1..30
	SoldDays    int // cash allowance (abono pecuniário), 0..10
	Dependents  int
	Alimony     decimal.Decimal
	Year        int
}

type VacationResult struct {
	VacationPay         decimal.Decimal
	ConstitutionalThird decimal.Decimal
	CashAllowance       decimal.Decimal
	INSS                tax.INSSResult
	IRRF                tax.IRRFResult
	NetTotal            decimal.Decimal
}

// Vacation computes vacation pay plus the constitutional one-third. The cash
// allowance for sold days (including its own one-third) is indemnity and
// stays out of the INSS/IRRF base.
func Vacation(in VacationInput) VacationResult {
	daily := dailyWage(in.GrossSalary)

	pay := daily.Mul(decimal.NewFromInt(int64(in.Days)))
	third := pay.Div(three)
	taxable := pay.Add(third)

	allowanceBase := daily.Mul(decimal.NewFromInt(int64(in.SoldDays)))
	allowance := allowanceBase.Add(allowanceBase.Div(three))

	inssTable := tax.ResolveINSS(in.Year)
	irrfTable := tax.ResolveIRRF(in.Year)
	inss := tax.ComputeINSS(taxable, inssTable)
	irrf := tax.ComputeIRRF(taxable.Sub(inss.AmountDue), in.Dependents, in.Alimony, irrfTable)

	net := taxable.Sub(inss.AmountDue).Sub(irrf.AmountDue).Add(allowance)
	return VacationResult{
		VacationPay:         roundCents(pay),
		ConstitutionalThird: roundCents(third),
		CashAllowance:       roundCents(allowance),
		INSS:                inss,
		IRRF:                irrf,
		NetTotal:            roundCents(net),
	}
}

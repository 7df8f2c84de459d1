package calculators

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/lfmartins/cltcalc/services/calc-service/internal/tax"
)

type TerminationType string

const (
	DismissalWithoutCause TerminationType = "dismissal_without_cause"
	DismissalWithCause    TerminationType = "dismissal_with_cause"
	Resignation           TerminationType = "resignation"
)

type SeveranceInput struct {
	GrossSalary  decimal.Decimal
	HireDate     time.Time
	Termination  time.Time
	Type         TerminationType
	NoticeWorked bool // notice period worked instead of indemnified
	FGTSBalance  decimal.Decimal
	Dependents   int
}

type SeveranceResult struct {
	SalaryBalance          decimal.Decimal
	NoticeDays             int
	NoticePay              decimal.Decimal
	ThirteenthProportional decimal.Decimal
	VacationProportional   decimal.Decimal
	VacationThird          decimal.Decimal
	FGTSFine               decimal.Decimal
	INSS                   tax.INSSResult
	IRRF                   tax.IRRFResult
	TotalGross             decimal.Decimal
	TotalNet               decimal.Decimal
}

// Severance computes the termination settlement. Indemnity items (notice pay,
// proportional vacation and its third, the FGTS fine) are exempt from INSS
// and IRRF; the salary balance is taxed normally. Dismissal with cause pays
// the salary balance only.
func Severance(in SeveranceInput) SeveranceResult {
	daily := dailyWage(in.GrossSalary)
	year := in.Termination.Year()

	salaryBalance := daily.Mul(decimal.NewFromInt(int64(in.Termination.Day())))

	res := SeveranceResult{SalaryBalance: roundCents(salaryBalance)}

	if in.Type != DismissalWithCause {
		// The 13th accrues from January 1st of the termination year, or from
		// the hire date when the employee joined mid-year.
		thirteenthStart := time.Date(year, time.January, 1, 0, 0, 0, 0, in.Termination.Location())
		if in.HireDate.After(thirteenthStart) {
			thirteenthStart = in.HireDate
		}
		thirteenthMonths := monthsWorked(thirteenthStart, in.Termination)
		if thirteenthMonths > 12 {
			thirteenthMonths = 12
		}
		res.ThirteenthProportional = roundCents(in.GrossSalary.Mul(decimal.NewFromInt(int64(thirteenthMonths))).Div(twelve))

		vacationMonths := monthsWorked(in.HireDate, in.Termination) % 12
		res.VacationProportional = roundCents(in.GrossSalary.Mul(decimal.NewFromInt(int64(vacationMonths))).Div(twelve))
		res.VacationThird = roundCents(res.VacationProportional.Div(three))
	}

	if in.Type == DismissalWithoutCause {
		fullYears := monthsWorked(in.HireDate, in.Termination) / 12
		res.NoticeDays = 30 + 3*fullYears
		if res.NoticeDays > 90 {
			res.NoticeDays = 90
		}
		if !in.NoticeWorked {
			res.NoticePay = roundCents(daily.Mul(decimal.NewFromInt(int64(res.NoticeDays))))
		}
		res.FGTSFine = roundCents(in.FGTSBalance.Mul(decimal.RequireFromString("0.4")))
	}

	// Withholding here covers the salary balance; the proportional 13th
	// settles its own withholding at payment, separate from this statement.
	res.INSS = tax.ComputeINSS(salaryBalance, tax.ResolveINSS(year))
	res.IRRF = tax.ComputeIRRF(salaryBalance.Sub(res.INSS.AmountDue), in.Dependents, decimal.Zero, tax.ResolveIRRF(year))

	res.TotalGross = roundCents(res.SalaryBalance.
		Add(res.NoticePay).
		Add(res.ThirteenthProportional).
		Add(res.VacationProportional).
		Add(res.VacationThird).
		Add(res.FGTSFine))
	res.TotalNet = roundCents(res.TotalGross.Sub(res.INSS.AmountDue).Sub(res.IRRF.AmountDue))
	return res
}

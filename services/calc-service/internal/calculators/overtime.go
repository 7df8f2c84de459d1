package calculators

import "github.com/shopspring/decimal"

type OvertimeInput struct {
	GrossSalary    decimal.Decimal
	MonthlyHours   int // contractual divisor, 220 when zero
	OvertimeHours  decimal.Decimal
	PremiumPercent int // 50 when zero; Sundays/holidays are typically 100
	// When both are set, the paid weekly rest (DSR) reflex is included.
	WorkingDays int
	RestDays    int
}

type OvertimeResult struct {
	HourlyRate         decimal.Decimal
	OvertimeHourlyRate decimal.Decimal
	OvertimePay        decimal.Decimal
	RestReflex         decimal.Decimal
	Total              decimal.Decimal
}

// Overtime values extra hours at the contractual hourly rate plus the legal
// premium, with the optional DSR reflex spread over the month's rest days.
func Overtime(in OvertimeInput) OvertimeResult {
	divisor := defaultHourDivisor
	if in.MonthlyHours > 0 {
		divisor = decimal.NewFromInt(int64(in.MonthlyHours))
	}
	premium := decimal.NewFromInt(50)
	if in.PremiumPercent > 0 {
		premium = decimal.NewFromInt(int64(in.PremiumPercent))
	}

	hourly := in.GrossSalary.Div(divisor)
	overtimeHourly := hourly.Mul(decimal.NewFromInt(1).Add(premium.Div(oneHundred)))
	pay := in.OvertimeHours.Mul(overtimeHourly)

	reflex := decimal.Zero
	if in.WorkingDays > 0 && in.RestDays > 0 {
		reflex = pay.Div(decimal.NewFromInt(int64(in.WorkingDays))).Mul(decimal.NewFromInt(int64(in.RestDays)))
	}

	return OvertimeResult{
		HourlyRate:         roundCents(hourly),
		OvertimeHourlyRate: roundCents(overtimeHourly),
		OvertimePay:        roundCents(pay),
		RestReflex:         roundCents(reflex),
		Total:              roundCents(pay.Add(reflex)),
	}
}

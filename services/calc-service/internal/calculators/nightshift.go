package calculators

import "github.com/shopspring/decimal"

type NightShiftInput struct {
	GrossSalary    decimal.Decimal
	MonthlyHours   int // contractual divisor, 220 when zero
	NightHours     decimal.Decimal
	PremiumPercent int // 20 when zero (urban minimum)
}

type NightShiftResult struct {
	HourlyRate     decimal.Decimal
	PremiumPerHour decimal.Decimal
	PremiumPay     decimal.Decimal
	// EffectiveNightHours reflects the reduced 52m30s night hour: each clock
	// hour between 22h and 5h counts as 60/52.5 hours of work.
	EffectiveNightHours decimal.Decimal
}

// NightShift computes the night premium over the contractual hourly rate.
func NightShift(in NightShiftInput) NightShiftResult {
	divisor := defaultHourDivisor
	if in.MonthlyHours > 0 {
		divisor = decimal.NewFromInt(int64(in.MonthlyHours))
	}
	premium := decimal.NewFromInt(20)
	if in.PremiumPercent > 0 {
		premium = decimal.NewFromInt(int64(in.PremiumPercent))
	}

	hourly := in.GrossSalary.Div(divisor)
	perHour := hourly.Mul(premium.Div(oneHundred))
	effective := in.NightHours.Mul(decimal.NewFromInt(60)).Div(decimal.RequireFromString("52.5"))

	return NightShiftResult{
		HourlyRate:          roundCents(hourly),
		PremiumPerHour:      roundCents(perHour),
		PremiumPay:          roundCents(effective.Mul(perHour)),
		EffectiveNightHours: effective.Round(4),
	}
}

package calculators

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestOvertime_Defaults(t *testing.T) {
	got := Overtime(OvertimeInput{
		GrossSalary:   decimal.RequireFromString("2200.00"),
		OvertimeHours: decimal.NewFromInt(10),
	})

	// 2200/220 = 10.00/h; +50% = 15.00/h; 10h = 150.00.
	if !got.HourlyRate.Equal(decimal.RequireFromString("10.00")) {
		t.Fatalf("expected hourly 10.00, got %s", got.HourlyRate)
	}
	if !got.OvertimeHourlyRate.Equal(decimal.RequireFromString("15.00")) {
		t.Fatalf("expected overtime hourly 15.00, got %s", got.OvertimeHourlyRate)
	}
	if !got.OvertimePay.Equal(decimal.RequireFromString("150.00")) {
		t.Fatalf("expected pay 150.00, got %s", got.OvertimePay)
	}
	if !got.RestReflex.IsZero() {
		t.Fatalf("expected no DSR reflex, got %s", got.RestReflex)
	}
}

func TestOvertime_HundredPercentPremiumWithReflex(t *testing.T) {
	got := Overtime(OvertimeInput{
		GrossSalary:    decimal.RequireFromString("2200.00"),
		OvertimeHours:  decimal.NewFromInt(5),
		PremiumPercent: 100,
		WorkingDays:    25,
		RestDays:       5,
	})

	// 10.00/h doubled = 20.00/h; 5h = 100.00; DSR = 100/25*5 = 20.00.
	if !got.OvertimePay.Equal(decimal.RequireFromString("100.00")) {
		t.Fatalf("expected pay 100.00, got %s", got.OvertimePay)
	}
	if !got.RestReflex.Equal(decimal.RequireFromString("20.00")) {
		t.Fatalf("expected reflex 20.00, got %s", got.RestReflex)
	}
	if !got.Total.Equal(decimal.RequireFromString("120.00")) {
		t.Fatalf("expected total 120.00, got %s", got.Total)
	}
}

func TestNightShift_Defaults(t *testing.T) {
	got := NightShift(NightShiftInput{
		GrossSalary: decimal.RequireFromString("2200.00"),
		NightHours:  decimal.NewFromInt(7),
	})

	if !got.HourlyRate.Equal(decimal.RequireFromString("10.00")) {
		t.Fatalf("expected hourly 10.00, got %s", got.HourlyRate)
	}
	if !got.PremiumPerHour.Equal(decimal.RequireFromString("2.00")) {
		t.Fatalf("expected premium 2.00/h, got %s", got.PremiumPerHour)
	}
	// 7 clock hours at the 52m30s night hour = 8 effective hours.
	if !got.EffectiveNightHours.Equal(decimal.NewFromInt(8)) {
		t.Fatalf("expected 8 effective hours, got %s", got.EffectiveNightHours)
	}
	if !got.PremiumPay.Equal(decimal.RequireFromString("16.00")) {
		t.Fatalf("expected premium pay 16.00, got %s", got.PremiumPay)
	}
}

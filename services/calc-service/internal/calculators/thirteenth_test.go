package calculators

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestThirteenth_FullYear(t *testing.T) {
	got := Thirteenth(ThirteenthInput{
		GrossSalary:  decimal.RequireFromString("2400.00"),
		MonthsWorked: 12,
		Year:         2024,
	})

	if !got.GrossAmount.Equal(decimal.RequireFromString("2400.00")) {
		t.Fatalf("expected gross 2400.00, got %s", got.GrossAmount)
	}
	if !got.FirstInstallment.Equal(decimal.RequireFromString("1200.00")) {
		t.Fatalf("expected first installment 1200.00, got %s", got.FirstInstallment)
	}
	// INSS: 2400*0.09 - 21.18 = 194.82; IRRF base 2205.18 is exempt.
	if !got.INSS.AmountDue.Equal(decimal.RequireFromString("194.82")) {
		t.Fatalf("expected INSS 194.82, got %s", got.INSS.AmountDue)
	}
	if !got.IRRF.AmountDue.IsZero() {
		t.Fatalf("expected exempt IRRF, got %s", got.IRRF.AmountDue)
	}
	if !got.NetTotal.Equal(decimal.RequireFromString("2205.18")) {
		t.Fatalf("expected net 2205.18, got %s", got.NetTotal)
	}
}

func TestThirteenth_Proportional(t *testing.T) {
	got := Thirteenth(ThirteenthInput{
		GrossSalary:  decimal.RequireFromString("3000.00"),
		MonthsWorked: 6,
		Year:         2024,
	})
	if !got.GrossAmount.Equal(decimal.RequireFromString("1500.00")) {
		t.Fatalf("expected gross 1500.00, got %s", got.GrossAmount)
	}
	if !got.NetTotal.Equal(got.FirstInstallment.Add(got.SecondInstallment)) {
		t.Fatal("net must equal the sum of installments")
	}
}

func TestThirteenth_MonthsCappedAtTwelve(t *testing.T) {
	a := Thirteenth(ThirteenthInput{GrossSalary: decimal.RequireFromString("3000.00"), MonthsWorked: 12, Year: 2024})
	b := Thirteenth(ThirteenthInput{GrossSalary: decimal.RequireFromString("3000.00"), MonthsWorked: 15, Year: 2024})
	if !a.GrossAmount.Equal(b.GrossAmount) {
		t.Fatalf("months beyond 12 must not inflate the gross: %s vs %s", a.GrossAmount, b.GrossAmount)
	}
}

package calculators

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestSeverance_DismissalWithoutCause(t *testing.T) {
	got := Severance(SeveranceInput{
		GrossSalary: decimal.RequireFromString("3000.00"),
		HireDate:    date(2020, time.March, 10),
		Termination: date(2024, time.July, 20),
		Type:        DismissalWithoutCause,
		FGTSBalance: decimal.RequireFromString("10000.00"),
	})

	if !got.SalaryBalance.Equal(decimal.RequireFromString("2000.00")) {
		t.Fatalf("expected salary balance 2000.00, got %s", got.SalaryBalance)
	}
	if got.NoticeDays != 42 { // 30 + 3 per full year (4 years)
		t.Fatalf("expected 42 notice days, got %d", got.NoticeDays)
	}
	if !got.NoticePay.Equal(decimal.RequireFromString("4200.00")) {
		t.Fatalf("expected notice pay 4200.00, got %s", got.NoticePay)
	}
	// July termination on the 20th counts 7 twelfths.
	if !got.ThirteenthProportional.Equal(decimal.RequireFromString("1750.00")) {
		t.Fatalf("expected 13th 1750.00, got %s", got.ThirteenthProportional)
	}
	// 52 months since hire: 4 twelfths into the current vacation period.
	if !got.VacationProportional.Equal(decimal.RequireFromString("1000.00")) {
		t.Fatalf("expected vacation 1000.00, got %s", got.VacationProportional)
	}
	if !got.VacationThird.Equal(decimal.RequireFromString("333.33")) {
		t.Fatalf("expected vacation third 333.33, got %s", got.VacationThird)
	}
	if !got.FGTSFine.Equal(decimal.RequireFromString("4000.00")) {
		t.Fatalf("expected FGTS fine 4000.00, got %s", got.FGTSFine)
	}
	if !got.INSS.AmountDue.Equal(decimal.RequireFromString("158.82")) {
		t.Fatalf("expected INSS 158.82, got %s", got.INSS.AmountDue)
	}
	if !got.TotalGross.Equal(decimal.RequireFromString("13283.33")) {
		t.Fatalf("expected gross 13283.33, got %s", got.TotalGross)
	}
	if !got.TotalNet.Equal(decimal.RequireFromString("13124.51")) {
		t.Fatalf("expected net 13124.51, got %s", got.TotalNet)
	}
}

func TestSeverance_ThirteenthAccruesFromMidYearHire(t *testing.T) {
	got := Severance(SeveranceInput{
		GrossSalary: decimal.RequireFromString("3000.00"),
		HireDate:    date(2024, time.October, 1),
		Termination: date(2024, time.December, 20),
		Type:        DismissalWithoutCause,
	})
	// Hired in October: only 3 twelfths accrued, not the full year.
	if !got.ThirteenthProportional.Equal(decimal.RequireFromString("750.00")) {
		t.Fatalf("expected 13th 750.00, got %s", got.ThirteenthProportional)
	}
	if !got.VacationProportional.Equal(decimal.RequireFromString("750.00")) {
		t.Fatalf("expected vacation 750.00, got %s", got.VacationProportional)
	}
}

func TestSeverance_NoticeDaysCappedAt90(t *testing.T) {
	got := Severance(SeveranceInput{
		GrossSalary: decimal.RequireFromString("3000.00"),
		HireDate:    date(1990, time.January, 2),
		Termination: date(2024, time.July, 20),
		Type:        DismissalWithoutCause,
	})
	if got.NoticeDays != 90 {
		t.Fatalf("expected notice capped at 90 days, got %d", got.NoticeDays)
	}
}

func TestSeverance_WithCausePaysBalanceOnly(t *testing.T) {
	got := Severance(SeveranceInput{
		GrossSalary: decimal.RequireFromString("3000.00"),
		HireDate:    date(2022, time.January, 3),
		Termination: date(2024, time.July, 20),
		Type:        DismissalWithCause,
		FGTSBalance: decimal.RequireFromString("10000.00"),
	})
	if !got.NoticePay.IsZero() || !got.FGTSFine.IsZero() || !got.ThirteenthProportional.IsZero() || !got.VacationProportional.IsZero() {
		t.Fatalf("with-cause dismissal must pay the balance only: %+v", got)
	}
}

func TestSeverance_ResignationHasNoFineOrNotice(t *testing.T) {
	got := Severance(SeveranceInput{
		GrossSalary: decimal.RequireFromString("3000.00"),
		HireDate:    date(2022, time.January, 3),
		Termination: date(2024, time.July, 20),
		Type:        Resignation,
		FGTSBalance: decimal.RequireFromString("10000.00"),
	})
	if !got.NoticePay.IsZero() || !got.FGTSFine.IsZero() {
		t.Fatal("resignation pays no indemnified notice and no FGTS fine")
	}
	if got.ThirteenthProportional.IsZero() || got.VacationProportional.IsZero() {
		t.Fatal("resignation keeps proportional 13th and vacation")
	}
}

func TestMonthsWorked(t *testing.T) {
	cases := []struct {
		from, to time.Time
		want     int
	}{
		{date(2024, time.January, 1), date(2024, time.July, 1), 6},
		{date(2024, time.January, 1), date(2024, time.July, 20), 7},  // 19 extra days counts
		{date(2024, time.January, 20), date(2024, time.July, 10), 6}, // 20 extra days on the 30-day convention
		{date(2024, time.January, 20), date(2024, time.July, 2), 5},
		{date(2024, time.July, 1), date(2024, time.July, 1), 0},
		{date(2024, time.July, 10), date(2024, time.July, 1), 0}, // never negative
	}
	for _, tc := range cases {
		if got := monthsWorked(tc.from, tc.to); got != tc.want {
			t.Fatalf("monthsWorked(%s, %s): expected %d, got %d", tc.from.Format("2006-01-02"), tc.to.Format("2006-01-02"), tc.want, got)
		}
	}
}

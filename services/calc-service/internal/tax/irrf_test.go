package tax

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestComputeIRRF_2024KnownValues(t *testing.T) {
	table := ResolveIRRF(2024)

	cases := []struct {
		base string
		due  string
	}{
		{"2000.00", "0"},
		{"2259.20", "0"},
		{"2500.00", "18.06"},  // 2500*0.075 - 169.44
		{"3000.00", "68.56"},  // 3000*0.15 - 381.44
		{"5000.00", "479.00"}, // 5000*0.275 - 896.00
	}
	for _, tc := range cases {
		got := ComputeIRRF(decimal.RequireFromString(tc.base), 0, decimal.Zero, table)
		if !got.AmountDue.Equal(decimal.RequireFromString(tc.due)) {
			t.Fatalf("base %s: expected due %s, got %s", tc.base, tc.due, got.AmountDue)
		}
	}
}

func TestComputeIRRF_DependentDeduction(t *testing.T) {
	table := ResolveIRRF(2024)
	gross := decimal.RequireFromString("5000.00")

	got := ComputeIRRF(gross, 2, decimal.Zero, table)
	wantDeduction := table.PerDependent.Mul(decimal.NewFromInt(2))
	if !got.TotalDeductions.Equal(wantDeduction) {
		t.Fatalf("expected deductions %s, got %s", wantDeduction, got.TotalDeductions)
	}
	if !got.BaseAfterDeductions.Equal(gross.Sub(wantDeduction)) {
		t.Fatalf("expected base %s, got %s", gross.Sub(wantDeduction), got.BaseAfterDeductions)
	}

	none := ComputeIRRF(gross, 0, decimal.Zero, table)
	if !got.AmountDue.LessThan(none.AmountDue) {
		t.Fatal("dependents should reduce the amount due")
	}
}

func TestComputeIRRF_DependentCapAndAlimony(t *testing.T) {
	table := ResolveIRRF(2024)
	gross := decimal.RequireFromString("20000.00")

	capped := ComputeIRRF(gross, table.MaxDependents+5, decimal.Zero, table)
	atCap := ComputeIRRF(gross, table.MaxDependents, decimal.Zero, table)
	if !capped.AmountDue.Equal(atCap.AmountDue) {
		t.Fatalf("dependents beyond the cap should not change the due: %s vs %s", capped.AmountDue, atCap.AmountDue)
	}

	alimony := decimal.RequireFromString("1500.00")
	withAlimony := ComputeIRRF(gross, 0, alimony, table)
	if !withAlimony.TotalDeductions.Equal(alimony) {
		t.Fatalf("expected alimony in deductions, got %s", withAlimony.TotalDeductions)
	}
	if !withAlimony.BaseAfterDeductions.Equal(gross.Sub(alimony)) {
		t.Fatalf("alimony should reduce the base, got %s", withAlimony.BaseAfterDeductions)
	}
}

func TestComputeIRRF_BaseConsumedByDeductions(t *testing.T) {
	table := ResolveIRRF(2024)
	gross := decimal.RequireFromString("1000.00")
	alimony := decimal.RequireFromString("2000.00")

	got := ComputeIRRF(gross, 1, alimony, table)
	if !got.AmountDue.IsZero() || !got.EffectiveRate.IsZero() || !got.MarginalRate.IsZero() {
		t.Fatalf("expected zero due/rates, got %+v", got)
	}
	if !got.BaseAfterDeductions.IsZero() {
		t.Fatalf("expected zero base, got %s", got.BaseAfterDeductions)
	}
	wantDeductions := alimony.Add(table.PerDependent)
	if !got.TotalDeductions.Equal(wantDeductions) {
		t.Fatalf("deductions must still be reported: expected %s, got %s", wantDeductions, got.TotalDeductions)
	}
}

func TestComputeIRRF_MonotonicInGross(t *testing.T) {
	table := ResolveIRRF(2024)
	prev := decimal.Zero
	step := decimal.RequireFromString("13.11")
	for gross := decimal.RequireFromString("100"); gross.LessThan(decimal.NewFromInt(12000)); gross = gross.Add(step) {
		due := ComputeIRRF(gross, 1, decimal.RequireFromString("200"), table).AmountDue
		if due.LessThan(prev) {
			t.Fatalf("due decreased at gross %s: %s < %s", gross, due, prev)
		}
		prev = due
	}
}

package tax

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestComputeINSS_2024KnownValues(t *testing.T) {
	table := ResolveINSS(2024)

	cases := []struct {
		income   string
		due      string
		marginal string
	}{
		{"1412.00", "105.90", "0.075"},
		{"2000.00", "158.82", "0.09"},
		{"3000.00", "258.82", "0.12"},
		{"5000.00", "518.82", "0.14"},
		{"7786.02", "908.86", "0.14"},
	}
	for _, tc := range cases {
		got := ComputeINSS(decimal.RequireFromString(tc.income), table)
		if !got.AmountDue.Equal(decimal.RequireFromString(tc.due)) {
			t.Fatalf("income %s: expected due %s, got %s", tc.income, tc.due, got.AmountDue)
		}
		if !got.MarginalRate.Equal(decimal.RequireFromString(tc.marginal)) {
			t.Fatalf("income %s: expected marginal %s, got %s", tc.income, tc.marginal, got.MarginalRate)
		}
	}
}

func TestComputeINSS_ZeroAndNegativeIncome(t *testing.T) {
	table := ResolveINSS(2024)
	for _, income := range []string{"0", "-100"} {
		got := ComputeINSS(decimal.RequireFromString(income), table)
		if !got.AmountDue.IsZero() || !got.EffectiveRate.IsZero() || !got.MarginalRate.IsZero() {
			t.Fatalf("income %s: expected all-zero result, got %+v", income, got)
		}
	}
}

func TestComputeINSS_CeilingClamp(t *testing.T) {
	table := ResolveINSS(2024)
	atCeiling := ComputeINSS(table.Ceiling, table)
	farAbove := ComputeINSS(table.Ceiling.Mul(decimal.NewFromInt(10)), table)
	if !atCeiling.AmountDue.Equal(farAbove.AmountDue) {
		t.Fatalf("expected same due at ceiling (%s) and far above (%s)", atCeiling.AmountDue, farAbove.AmountDue)
	}
	if farAbove.EffectiveRate.GreaterThanOrEqual(atCeiling.EffectiveRate) {
		t.Fatal("effective rate should fall as income rises past the ceiling")
	}
}

func TestComputeINSS_MonotonicAndContinuous(t *testing.T) {
	table := ResolveINSS(2024)
	prev := decimal.Zero
	step := decimal.RequireFromString("10.37")
	for income := decimal.RequireFromString("10"); income.LessThan(decimal.NewFromInt(9000)); income = income.Add(step) {
		due := ComputeINSS(income, table).AmountDue
		if due.LessThan(prev) {
			t.Fatalf("due decreased at income %s: %s < %s", income, due, prev)
		}
		prev = due
	}

	// No downward jump crossing a bracket boundary.
	eps := decimal.RequireFromString("0.01")
	for _, b := range table.Brackets {
		if b.UpperBound.IsZero() {
			continue
		}
		below := ComputeINSS(b.UpperBound, table).AmountDue
		above := ComputeINSS(b.UpperBound.Add(eps), table).AmountDue
		if above.LessThan(below) {
			t.Fatalf("cliff at boundary %s: %s above vs %s at", b.UpperBound, above, below)
		}
	}
}

func TestComputeINSS_RoundedToCents(t *testing.T) {
	table := ResolveINSS(2024)
	for _, income := range []string{"1234.567", "2987.431", "4321.99"} {
		got := ComputeINSS(decimal.RequireFromString(income), table)
		if got.AmountDue.Exponent() < -2 {
			t.Fatalf("income %s: due %s not cent-rounded", income, got.AmountDue)
		}
	}
}

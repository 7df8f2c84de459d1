package moneyfmt

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestBRL(t *testing.T) {
	cases := []struct {
		amount string
		want   string
	}{
		{"0", "R$ 0,00"},
		{"3000", "R$ 3.000,00"},
		{"1234.56", "R$ 1.234,56"},
		{"908.86", "R$ 908,86"},
	}
	for _, tc := range cases {
		got := BRL(decimal.RequireFromString(tc.amount))
		if got != tc.want {
			t.Fatalf("BRL(%s): expected %q, got %q", tc.amount, tc.want, got)
		}
	}
}

func TestPercent(t *testing.T) {
	got := Percent(decimal.RequireFromString("0.075"))
	if got != "7,50%" {
		t.Fatalf("expected 7,50%%, got %q", got)
	}
}
